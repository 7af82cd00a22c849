package performance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RatePrecision is the number of fractional digits kept in an ExchangeRate.
const RatePrecision = 10

// ExchangeRate is the price of one unit of a base currency in a term currency.
// It is kept as a decimal rounded to RatePrecision digits.
type ExchangeRate struct {
	value decimal.Decimal
}

// Identity is the rate of a currency into itself.
var Identity = ExchangeRate{value: decimal.NewFromInt(1)}

// NewExchangeRate returns a rate rounded half-up to RatePrecision digits.
func NewExchangeRate[T float64 | int | int64 | decimal.Decimal](value T) ExchangeRate {
	return ExchangeRate{value: newDecimal(value).Round(RatePrecision)}
}

// ParseExchangeRate parses a decimal rate like "1.0873".
func ParseExchangeRate(s string) (ExchangeRate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("invalid exchange rate %q: %w", s, err)
	}
	return NewExchangeRate(d), nil
}

func (r ExchangeRate) Decimal() decimal.Decimal { return r.value }
func (r ExchangeRate) IsZero() bool             { return r.value.IsZero() }
func (r ExchangeRate) IsPositive() bool         { return r.value.IsPositive() }
func (r ExchangeRate) Equal(s ExchangeRate) bool {
	return r.value.Equal(s.value)
}
func (r ExchangeRate) String() string { return r.value.String() }

// Inverse returns the rate of the opposite conversion.
// The inverse of a zero rate is zero.
func (r ExchangeRate) Inverse() ExchangeRate {
	if r.value.IsZero() {
		return r
	}
	return ExchangeRate{value: decimal.NewFromInt(1).DivRound(r.value, RatePrecision)}
}

// Apply converts m into the term currency, rounded half away from zero to its minor unit.
func (r ExchangeRate) Apply(m Money, term string) Money {
	return fromDecimal(m.Decimal().Mul(r.value), term)
}

// MarshalJSON writes the rate as a bare JSON number.
func (r ExchangeRate) MarshalJSON() ([]byte, error) {
	return []byte(r.value.String()), nil
}

// UnmarshalJSON reads the rate from a JSON number or string.
func (r *ExchangeRate) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = NewExchangeRate(d)
	return nil
}
