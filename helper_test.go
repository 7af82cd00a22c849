package performance

import (
	"testing"
	"time"

	"github.com/etnz/performance/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper to create a midnight UTC time from a date string.
func day(s string) time.Time { return date.MustParse(s).Time() }

// usdeur returns a converter into EUR with the given USDEUR rates, as
// date/rate pairs.
func usdeur(t *testing.T, rates ...any) *ForexConverter {
	t.Helper()
	c := NewForexConverter("EUR")
	for i := 0; i+1 < len(rates); i += 2 {
		if err := c.Append(date.MustParse(rates[i].(string)), "USDEUR", NewExchangeRate(rates[i+1].(float64))); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return c
}

// failingConverter fails every conversion into another currency.
type failingConverter struct{ err error }

func (f failingConverter) TermCurrency() string { return "EUR" }
func (f failingConverter) At(on date.Date, base string) (ExchangeRate, error) {
	if base == "EUR" {
		return Identity, nil
	}
	return ExchangeRate{}, f.err
}
func (f failingConverter) Convert(on date.Date, m Money) (Money, error) {
	if m.Currency() == "EUR" {
		return m, nil
	}
	return Money{}, f.err
}
