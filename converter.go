package performance

import (
	"errors"
	"fmt"

	"github.com/etnz/performance/date"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// ErrNoRate is returned when a converter has no exchange rate for a currency and a date.
var ErrNoRate = errors.New("no exchange rate")

// CurrencyConverter converts amounts into a single term currency using the
// exchange rate in force on a given day.
//
// Implementations must be deterministic and safe for concurrent use.
type CurrencyConverter interface {
	// TermCurrency is the currency all amounts are converted into.
	TermCurrency() string
	// At returns the rate of the base currency into TermCurrency on a day.
	At(on date.Date, base string) (ExchangeRate, error)
	// Convert returns m in TermCurrency using the rate in force on a day.
	Convert(on date.Date, m Money) (Money, error)
}

// ForexConverter is a CurrencyConverter based on historical forex series.
//
// Series are identified by their pair name, like "USDEUR" being the price of
// one USD in EUR. A rate is looked up on the direct pair first, then on the
// inverse one. The most recent rate on or before the day is used.
//
// Rates must all be appended before the converter is shared: Append is not
// safe for concurrent use, lookups are.
type ForexConverter struct {
	term  string
	pairs map[string]*date.History[decimal.Decimal]
	memo  *cache.Cache // resolved rates by currency and day.
}

// NewForexConverter returns an empty converter into term.
func NewForexConverter(term string) *ForexConverter {
	return &ForexConverter{
		term:  term,
		pairs: make(map[string]*date.History[decimal.Decimal]),
		memo:  cache.New(cache.NoExpiration, 0),
	}
}

// TermCurrency implements CurrencyConverter.
func (c *ForexConverter) TermCurrency() string { return c.term }

// Append records the price of one 'base' in 'quote' on a day, for pair = base+quote.
func (c *ForexConverter) Append(on date.Date, pair string, rate ExchangeRate) error {
	base, quote, err := SplitPair(pair)
	if err != nil {
		return err
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%s rate on %s must be positive, got %v", pair, on, rate)
	}
	h, ok := c.pairs[base+quote]
	if !ok {
		h = new(date.History[decimal.Decimal])
		c.pairs[base+quote] = h
	}
	h.Append(on, rate.Decimal())
	c.memo.Flush()
	return nil
}

// Pairs returns the number of forex series known to the converter.
func (c *ForexConverter) Pairs() int { return len(c.pairs) }

// At implements CurrencyConverter.
func (c *ForexConverter) At(on date.Date, base string) (ExchangeRate, error) {
	if base == c.term {
		return Identity, nil
	}
	key := base + "@" + on.String()
	if r, found := c.memo.Get(key); found {
		return r.(ExchangeRate), nil
	}

	var rate ExchangeRate
	if h, ok := c.pairs[base+c.term]; ok {
		if v, ok := h.ValueAsOf(on); ok {
			rate = NewExchangeRate(v)
		}
	}
	if rate.IsZero() {
		// If the direct pair is not found, try the inverse pair.
		if h, ok := c.pairs[c.term+base]; ok {
			if v, ok := h.ValueAsOf(on); ok {
				rate = NewExchangeRate(v).Inverse()
			}
		}
	}
	if rate.IsZero() {
		return ExchangeRate{}, fmt.Errorf("%w for %s to %s as of %s", ErrNoRate, base, c.term, on)
	}
	c.memo.Set(key, rate, cache.NoExpiration)
	return rate, nil
}

// Convert implements CurrencyConverter.
func (c *ForexConverter) Convert(on date.Date, m Money) (Money, error) {
	if m.Currency() == c.term {
		return m, nil
	}
	rate, err := c.At(on, m.Currency())
	if err != nil {
		return Money{}, err
	}
	return rate.Apply(m, c.term), nil
}

// SplitPair splits a forex pair name like "USDEUR" into its two currencies.
func SplitPair(pair string) (base, quote string, err error) {
	if len(pair) != 6 {
		return "", "", fmt.Errorf("invalid forex pair %q: want 6 letters like USDEUR", pair)
	}
	base, quote = pair[:3], pair[3:]
	if err := ValidateCurrency(base); err != nil {
		return "", "", fmt.Errorf("invalid forex pair %q: %w", pair, err)
	}
	if err := ValidateCurrency(quote); err != nil {
		return "", "", fmt.Errorf("invalid forex pair %q: %w", pair, err)
	}
	if base == quote {
		return "", "", fmt.Errorf("invalid forex pair %q: same currency", pair)
	}
	return base, quote, nil
}
