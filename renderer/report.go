package renderer

import "github.com/etnz/performance/date"

// Report is the money-weighted return of a list of entities.
type Report struct {
	Title    string
	Currency string
	Rows     []Row
}

// Row is a single entity of a Report.
type Row struct {
	Name  string
	IRR   float64 // NaN when it could not be computed.
	Flows int
	Span  date.Range
}

// Percent is the IRR as a percentage.
func (r Row) Percent() Percent { return Percent(r.IRR) }

// Period formats the span of the cash flows.
func (r Row) Period() string {
	switch {
	case r.Flows == 0:
		return "n/a"
	case r.Span.From.Equal(r.Span.To):
		return r.Span.From.String()
	default:
		return r.Span.String()
	}
}
