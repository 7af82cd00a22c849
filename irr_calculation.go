package performance

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/performance/date"
	"github.com/etnz/performance/irr"
)

var (
	// ErrInvalidArgument is returned when a line item misses a required field.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedOperation is returned for line items or transaction types
	// no rule exists for.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// IRRCalculation accumulates the cash flows of an entity over a period, from
// the investor's point of view, to compute its money-weighted return.
//
// Its zero value is ready to use. An IRRCalculation is not safe for
// concurrent use; use one per entity.
type IRRCalculation struct {
	dates   []date.Date
	amounts []float64
}

// Visit appends the cash flow of item, if any, converted with conv.
// On error, nothing is appended.
func (c *IRRCalculation) Visit(conv CurrencyConverter, item LineItem) error {
	switch item := item.(type) {
	case ValuationAtStart:
		v, err := convertAt(conv, item.When(), item.Value)
		if err != nil {
			return fmt.Errorf("start valuation: %w", err)
		}
		c.append(item.When(), v.Neg())

	case ValuationAtEnd:
		v, err := convertAt(conv, item.When(), item.Value)
		if err != nil {
			return fmt.Errorf("end valuation: %w", err)
		}
		c.append(item.When(), v)

	case DividendPayment:
		if item.Transaction == nil {
			return fmt.Errorf("%w: dividend payment on %s has no transaction", ErrInvalidArgument, date.FromTime(item.DateTime))
		}
		v, err := convertAt(conv, item.When(), item.Value)
		if err != nil {
			return fmt.Errorf("dividend: %w", err)
		}
		taxes, err := item.Transaction.UnitSum(UnitTax, conv)
		if err != nil {
			return fmt.Errorf("dividend: %w", err)
		}
		c.append(item.When(), v.MustAdd(taxes))

	case TransactionItem:
		return c.visitTransaction(conv, item.Transaction)

	default:
		return fmt.Errorf("%w: line item %T", ErrUnsupportedOperation, item)
	}
	return nil
}

func (c *IRRCalculation) visitTransaction(conv CurrencyConverter, tx Transaction) error {
	switch tx := tx.(type) {
	case *AccountTransaction:
		if tx == nil {
			return fmt.Errorf("%w: nil account transaction", ErrInvalidArgument)
		}
		switch tx.Type {
		case AccountFees, AccountFeesRefund:
			v, err := convertAt(conv, tx.When, tx.Value)
			if err != nil {
				return fmt.Errorf("%v: %w", tx.Type, err)
			}
			if tx.Type == AccountFees {
				v = v.Neg()
			}
			c.append(tx.When, v)
		}
		// Taxes and tax refunds are excluded not to count security taxes twice.
		// Other account transactions carry no cash flow for the holding.
		return nil

	case *PortfolioTransaction:
		if tx == nil {
			return fmt.Errorf("%w: nil portfolio transaction", ErrInvalidArgument)
		}
		var sign bool // true for an inflow
		switch tx.Type {
		case PortfolioBuy, PortfolioDeliveryInbound, PortfolioTransferIn:
		case PortfolioSell, PortfolioDeliveryOutbound, PortfolioTransferOut:
			sign = true
		default:
			return fmt.Errorf("%w: portfolio transaction %v", ErrUnsupportedOperation, tx.Type)
		}
		v, err := tx.AmountIn(conv)
		if err != nil {
			return err
		}
		taxes, err := tx.UnitSum(UnitTax, conv)
		if err != nil {
			return fmt.Errorf("%v: %w", tx.Type, err)
		}
		if !sign {
			v = v.Neg()
		}
		c.append(tx.When, v.MustAdd(taxes))
		return nil

	case nil:
		return fmt.Errorf("%w: transaction item without transaction", ErrInvalidArgument)

	default:
		return fmt.Errorf("%w: transaction %T", ErrUnsupportedOperation, tx)
	}
}

// append records m, already in the term currency. This is the only place
// where money leaves exact arithmetic.
func (c *IRRCalculation) append(on time.Time, m Money) {
	c.dates = append(c.dates, date.FromTime(on))
	c.amounts = append(c.amounts, m.Major())
}

// convertAt converts m on the day of t.
func convertAt(conv CurrencyConverter, t time.Time, m Money) (Money, error) {
	return conv.Convert(date.FromTime(t), m)
}

// Len returns the number of cash flows accumulated so far.
func (c *IRRCalculation) Len() int { return len(c.dates) }

// Result returns copies of the accumulated series, index aligned and in visit order.
func (c *IRRCalculation) Result() ([]date.Date, []float64) {
	return slices.Clone(c.dates), slices.Clone(c.amounts)
}

// IRR solves the accumulated series. It is NaN when no rate can be computed.
func (c *IRRCalculation) IRR() float64 {
	return irr.Calculate(c.dates, c.amounts)
}
