package performance

import "time"

// LineItem is a normalized event fed into a return calculation.
//
// The set of line items is closed: ValuationAtStart, ValuationAtEnd,
// DividendPayment and TransactionItem.
type LineItem interface {
	When() time.Time
	lineItem()
}

// ValuationAtStart is the value of a holding at the start of the period.
// It is treated as an investment.
type ValuationAtStart struct {
	DateTime time.Time
	Value    Money
}

// ValuationAtEnd is the value of a holding at the end of the period.
// It is treated as a divestment.
type ValuationAtEnd struct {
	DateTime time.Time
	Value    Money
}

// DividendPayment is a dividend received net of taxes.
// Transaction is the account transaction that paid it, and is required.
type DividendPayment struct {
	DateTime    time.Time
	Value       Money
	Transaction *AccountTransaction
}

// TransactionItem wraps an account or portfolio transaction.
type TransactionItem struct {
	Transaction Transaction
}

func (i ValuationAtStart) When() time.Time { return i.DateTime }
func (i ValuationAtEnd) When() time.Time   { return i.DateTime }
func (i DividendPayment) When() time.Time  { return i.DateTime }

// When is the zero time if the item has no transaction.
func (i TransactionItem) When() time.Time {
	switch tx := i.Transaction.(type) {
	case nil:
		return time.Time{}
	case *AccountTransaction:
		if tx == nil {
			return time.Time{}
		}
	case *PortfolioTransaction:
		if tx == nil {
			return time.Time{}
		}
	}
	return i.Transaction.DateTime()
}

func (ValuationAtStart) lineItem() {}
func (ValuationAtEnd) lineItem()   {}
func (DividendPayment) lineItem()  {}
func (TransactionItem) lineItem()  {}
