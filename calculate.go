package performance

import (
	"context"
	"fmt"

	"github.com/etnz/performance/date"
	"golang.org/x/sync/errgroup"
)

// Calculate returns the money-weighted return of items, visited in order.
func Calculate(conv CurrencyConverter, items []LineItem) (float64, error) {
	var c IRRCalculation
	for i, item := range items {
		if err := c.Visit(conv, item); err != nil {
			return 0, fmt.Errorf("line item %d: %w", i, err)
		}
	}
	return c.IRR(), nil
}

// Entity is a security or a portfolio and the line items of its period.
type Entity struct {
	Name  string
	Items []LineItem
}

// Result is the money-weighted return of an Entity.
type Result struct {
	Name  string
	IRR   float64    // NaN if it cannot be computed.
	Flows int        // number of cash flows that went into IRR.
	Span  date.Range // first to last cash flow day.
}

// Evaluate computes the Result of e.
func (e Entity) Evaluate(conv CurrencyConverter) (Result, error) {
	var c IRRCalculation
	for i, item := range e.Items {
		if err := c.Visit(conv, item); err != nil {
			return Result{}, fmt.Errorf("%s: line item %d: %w", e.Name, i, err)
		}
	}
	dates, _ := c.Result()
	return Result{
		Name:  e.Name,
		IRR:   c.IRR(),
		Flows: c.Len(),
		Span:  date.Span(dates...),
	}, nil
}

// CalculateAll evaluates entities in parallel, using at most workers
// goroutines (no limit if workers <= 0). conv must be safe for concurrent use.
//
// Results are in the order of entities. The first error cancels the
// remaining evaluations and is returned.
func CalculateAll(ctx context.Context, conv CurrencyConverter, entities []Entity, workers int) ([]Result, error) {
	results := make([]Result, len(entities))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, e := range entities {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := e.Evaluate(conv)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
