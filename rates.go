package performance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/performance/date"
)

// Rate is a single forex observation: the price of one base in quote on a day.
type Rate struct {
	On   date.Date    `json:"on"`
	Pair string       `json:"pair"`
	Rate ExchangeRate `json:"rate"`
}

// Rates returns all the observations of the converter, sorted by pair then by day.
func (c *ForexConverter) Rates() iter.Seq[Rate] {
	pairs := slices.Sorted(maps.Keys(c.pairs))
	return func(yield func(Rate) bool) {
		for _, pair := range pairs {
			for on, v := range c.pairs[pair].Values() {
				if !yield(Rate{On: on, Pair: pair, Rate: NewExchangeRate(v)}) {
					return
				}
			}
		}
	}
}

// DecodeRates reads JSONL rates, one Rate per line, into the converter.
func (c *ForexConverter) DecodeRates(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}
		var rate Rate
		if err := json.Unmarshal(lineBytes, &rate); err != nil {
			return fmt.Errorf("format error on line %d %q: %w", line, string(lineBytes), err)
		}
		if rate.On.IsZero() {
			return fmt.Errorf("line %d: missing date", line)
		}
		if err := c.Append(rate.On, rate.Pair, rate.Rate); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

// EncodeRates writes rates as JSONL, in a stable field order.
func EncodeRates(w io.Writer, rates iter.Seq[Rate]) error {
	for rate := range rates {
		var o jsonObjectWriter
		o.Append("on", rate.On)
		o.Append("pair", rate.Pair)
		o.Append("rate", rate.Rate)
		b, err := o.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return err
		}
	}
	return nil
}

// ImportRates extracts rates for a pair from an arbitrary JSON document.
//
// path is a jsonpath expression selecting the list of observations, like
// "$.observations[*]"; each observation must be an object holding the day in
// dateKey and the rate in rateKey (as a number or a string).
func ImportRates(r io.Reader, path, pair, dateKey, rateKey string) ([]Rate, error) {
	if _, _, err := SplitPair(pair); err != nil {
		return nil, err
	}
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid rates document: %w", err)
	}
	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// jsonpath returns a single value when the path is not a wildcard.
	list, ok := selected.([]any)
	if !ok {
		list = []any{selected}
	}

	rates := make([]Rate, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("observation %d of %q is not an object: %v", i, path, item)
		}
		day, ok := obj[dateKey].(string)
		if !ok {
			return nil, fmt.Errorf("observation %d: missing %q date", i, dateKey)
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		var rate ExchangeRate
		switch v := obj[rateKey].(type) {
		case float64:
			rate = NewExchangeRate(v)
		case string:
			if rate, err = ParseExchangeRate(v); err != nil {
				return nil, fmt.Errorf("observation %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("observation %d: missing %q rate", i, rateKey)
		}
		rates = append(rates, Rate{On: on, Pair: pair, Rate: rate})
	}
	return rates, nil
}
