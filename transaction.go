package performance

import (
	"fmt"
	"time"

	"github.com/etnz/performance/date"
)

// UnitType identifies the kind of a Unit of a transaction.
type UnitType int

const (
	UnitGrossValue UnitType = iota
	UnitTax
	UnitFee
)

var unitTypeNames = [...]string{
	UnitGrossValue: "gross",
	UnitTax:        "tax",
	UnitFee:        "fee",
}

func (t UnitType) String() string {
	if t < 0 || int(t) >= len(unitTypeNames) {
		return fmt.Sprintf("UnitType(%d)", int(t))
	}
	return unitTypeNames[t]
}

// ParseUnitType is the inverse of UnitType.String.
func ParseUnitType(s string) (UnitType, error) {
	for i, name := range unitTypeNames {
		if name == s {
			return UnitType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unit type %q", s)
}

// Unit is a typed sub amount of a transaction.
//
// Amount is in the transaction currency. When the unit was originally
// settled in another currency, Forex holds that original amount and Rate the
// price of one Forex currency unit in the transaction currency.
type Unit struct {
	Type   UnitType
	Amount Money
	Forex  *Money
	Rate   ExchangeRate
}

// Transaction is a ledger entry carrying a principal amount and its units.
type Transaction interface {
	DateTime() time.Time
	Amount() Money
	Units() []Unit
	// UnitSum returns the sum of units of type typ in the converter's term currency.
	UnitSum(typ UnitType, conv CurrencyConverter) (Money, error)
}

// AccountType is the kind of an AccountTransaction.
type AccountType int

const (
	AccountDeposit AccountType = iota
	AccountRemoval
	AccountInterest
	AccountInterestCharge
	AccountBuy
	AccountSell
	AccountDividends
	AccountTaxes
	AccountTaxRefund
	AccountFees
	AccountFeesRefund
	AccountTransferIn
	AccountTransferOut
)

var accountTypeNames = [...]string{
	AccountDeposit:        "deposit",
	AccountRemoval:        "removal",
	AccountInterest:       "interest",
	AccountInterestCharge: "interest-charge",
	AccountBuy:            "buy",
	AccountSell:           "sell",
	AccountDividends:      "dividends",
	AccountTaxes:          "taxes",
	AccountTaxRefund:      "tax-refund",
	AccountFees:           "fees",
	AccountFeesRefund:     "fees-refund",
	AccountTransferIn:     "transfer-in",
	AccountTransferOut:    "transfer-out",
}

func (t AccountType) String() string {
	if t < 0 || int(t) >= len(accountTypeNames) {
		return fmt.Sprintf("AccountType(%d)", int(t))
	}
	return accountTypeNames[t]
}

// ParseAccountType is the inverse of AccountType.String.
func ParseAccountType(s string) (AccountType, error) {
	for i, name := range accountTypeNames {
		if name == s {
			return AccountType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown account transaction type %q", s)
}

// PortfolioType is the kind of a PortfolioTransaction.
type PortfolioType int

const (
	PortfolioBuy PortfolioType = iota
	PortfolioSell
	PortfolioDeliveryInbound
	PortfolioDeliveryOutbound
	PortfolioTransferIn
	PortfolioTransferOut
)

var portfolioTypeNames = [...]string{
	PortfolioBuy:              "buy",
	PortfolioSell:             "sell",
	PortfolioDeliveryInbound:  "delivery-inbound",
	PortfolioDeliveryOutbound: "delivery-outbound",
	PortfolioTransferIn:       "transfer-in",
	PortfolioTransferOut:      "transfer-out",
}

func (t PortfolioType) String() string {
	if t < 0 || int(t) >= len(portfolioTypeNames) {
		return fmt.Sprintf("PortfolioType(%d)", int(t))
	}
	return portfolioTypeNames[t]
}

// ParsePortfolioType is the inverse of PortfolioType.String.
func ParsePortfolioType(s string) (PortfolioType, error) {
	for i, name := range portfolioTypeNames {
		if name == s {
			return PortfolioType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown portfolio transaction type %q", s)
}

// entry holds what is common to all transactions.
type entry struct {
	When  time.Time
	Value Money
	Parts []Unit
}

func (e *entry) DateTime() time.Time { return e.When }
func (e *entry) Amount() Money       { return e.Value }
func (e *entry) Units() []Unit       { return e.Parts }

// UnitSum implements Transaction.
//
// A unit already in the term currency is taken as is. A unit whose forex
// amount is in the term currency uses that amount. Other units are converted
// on the transaction's own day.
func (e *entry) UnitSum(typ UnitType, conv CurrencyConverter) (Money, error) {
	term := conv.TermCurrency()
	on := date.FromTime(e.When)
	sum := Minor(0, term)
	for _, u := range e.Parts {
		if u.Type != typ {
			continue
		}
		var v Money
		switch {
		case u.Amount.Currency() == term:
			v = u.Amount
		case u.Forex != nil && u.Forex.Currency() == term:
			v = *u.Forex
		default:
			var err error
			if v, err = conv.Convert(on, u.Amount); err != nil {
				return Money{}, fmt.Errorf("converting %v unit %v: %w", typ, u.Amount, err)
			}
		}
		sum = sum.MustAdd(v)
	}
	return sum, nil
}

// Unit returns the first unit of type typ.
func (e *entry) Unit(typ UnitType) (Unit, bool) {
	for _, u := range e.Parts {
		if u.Type == typ {
			return u, true
		}
	}
	return Unit{}, false
}

// AccountTransaction is a cash movement on a deposit account.
type AccountTransaction struct {
	entry
	Type AccountType
}

// NewAccountTransaction returns an account transaction of amount on a day.
func NewAccountTransaction(typ AccountType, on time.Time, amount Money, units ...Unit) *AccountTransaction {
	return &AccountTransaction{Type: typ, entry: entry{When: on, Value: amount, Parts: units}}
}

// PortfolioTransaction is a movement of securities in a portfolio.
type PortfolioTransaction struct {
	entry
	Type PortfolioType
}

// NewPortfolioTransaction returns a portfolio transaction of amount on a day.
func NewPortfolioTransaction(typ PortfolioType, on time.Time, amount Money, units ...Unit) *PortfolioTransaction {
	return &PortfolioTransaction{Type: typ, entry: entry{When: on, Value: amount, Parts: units}}
}

// AmountIn returns the transaction amount in the converter's term currency.
//
// When the gross value was settled in the term currency, its recorded rate is
// used instead of the converter's.
func (t *PortfolioTransaction) AmountIn(conv CurrencyConverter) (Money, error) {
	term := conv.TermCurrency()
	if t.Value.Currency() == term {
		return t.Value, nil
	}
	if u, ok := t.Unit(UnitGrossValue); ok && u.Forex != nil && u.Forex.Currency() == term && u.Rate.IsPositive() {
		return u.Rate.Inverse().Apply(t.Value, term), nil
	}
	v, err := conv.Convert(date.FromTime(t.When), t.Value)
	if err != nil {
		return Money{}, fmt.Errorf("converting %v amount %v: %w", t.Type, t.Value, err)
	}
	return v, nil
}
