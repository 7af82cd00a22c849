package date

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Span returns the smallest range containing all the days.
// It returns the zero Range if days is empty.
func Span(days ...Date) Range {
	var r Range
	for i, d := range days {
		if i == 0 || d.Before(r.From) {
			r.From = d
		}
		if i == 0 || d.After(r.To) {
			r.To = d
		}
	}
	return r
}

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
