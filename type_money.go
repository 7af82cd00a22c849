package performance

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when adding or subtracting amounts in different currencies.
var ErrCurrencyMismatch = money.ErrCurrencyMismatch

// Money is an exact monetary amount: an integer number of minor units
// (e.g. cents) of a currency.
//
// Money never goes through binary floating point, except through Major,
// which is meant to be called once, where the amount leaves the exact world.
type Money struct {
	amount int64  // in minor units of cur.
	cur    string // ISO 4217 code.
}

// Minor returns Money from an amount expressed in minor units.
func Minor(amount int64, currency string) Money {
	return Money{amount: amount, cur: currency}
}

// M returns Money from an amount expressed in major units, rounded half away
// from zero to the currency's minor unit.
func M[T float64 | int | int64 | decimal.Decimal](major T, currency string) Money {
	return fromDecimal(newDecimal(major), currency)
}

func fromDecimal(major decimal.Decimal, currency string) Money {
	minor := major.Shift(fraction(currency)).Round(0)
	return Money{amount: minor.IntPart(), cur: currency}
}

// ParseMoney parses a decimal major amount like "48.71".
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return fromDecimal(d, currency), nil
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// fraction returns the number of minor unit digits of a currency.
func fraction(currency string) int32 {
	if c := money.GetCurrency(currency); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// money returns the go-money equivalent.
func (m Money) money() *money.Money { return money.New(m.amount, m.cur) }

func (m Money) Currency() string   { return m.cur }
func (m Money) Amount() int64      { return m.amount }
func (m Money) IsZero() bool       { return m.amount == 0 }
func (m Money) IsPositive() bool   { return m.amount > 0 }
func (m Money) Neg() Money         { return Money{amount: -m.amount, cur: m.cur} }
func (m Money) Equal(n Money) bool { return m == n }

// Decimal returns the exact amount in major units.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.amount, -fraction(m.cur)) }

// Major returns the amount in major units as a float.
func (m Money) Major() float64 {
	return float64(m.amount) / math.Pow10(int(fraction(m.cur)))
}

// Add returns m+n. Both must be in the same currency.
func (m Money) Add(n Money) (Money, error) {
	r, err := m.money().Add(n.money())
	if err != nil {
		return Money{}, fmt.Errorf("cannot add %v to %v: %w", n, m, err)
	}
	return Money{amount: r.Amount(), cur: m.cur}, nil
}

// MustAdd is like Add but panics on currency mismatch.
func (m Money) MustAdd(n Money) Money {
	r, err := m.Add(n)
	if err != nil {
		panic(err)
	}
	return r
}

// Sub returns m-n. Both must be in the same currency.
func (m Money) Sub(n Money) (Money, error) {
	r, err := m.money().Subtract(n.money())
	if err != nil {
		return Money{}, fmt.Errorf("cannot subtract %v from %v: %w", n, m, err)
	}
	return Money{amount: r.Amount(), cur: m.cur}, nil
}

// String returns the string representation of the money value.
func (m Money) String() string { return m.money().Display() }

// SignedString returns the string representation of the money value with a sign.
func (m Money) SignedString() string {
	if m.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

var currencyRE = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that code is a known ISO 4217 currency code.
func ValidateCurrency(code string) error {
	if !currencyRE.MatchString(code) {
		return fmt.Errorf("invalid currency code %q: want 3 upper case letters", code)
	}
	if money.GetCurrency(code) == nil {
		return errors.New("unknown currency code " + code)
	}
	return nil
}
