// Package irr computes the internal rate of return of a series of dated cash
// flows, the way spreadsheet XIRR functions do.
//
// The rate r is the annual rate such that
//
//	Σ amounts[i] / (1+r)^years[i] = 0
//
// where years[i] is the actual/365 distance from the earliest date of the
// series to dates[i]. Outflows are negative, inflows positive.
//
// Calculate never fails: when no meaningful rate exists (empty series, no
// sign change, no root found) it returns NaN, which callers must read as
// "insufficient data".
package irr

import (
	"fmt"
	"io"
	"math"

	"github.com/etnz/performance/date"
	"github.com/phuslu/log"
)

// DaysPerYear is the day count basis used to turn dates into year fractions.
const DaysPerYear = 365.0

// Solver finds the rate zeroing the net present value of a cash flow series.
//
// It runs Newton-Raphson from Guess, and falls back to bisection on a bracket
// found by scanning a coarse rate grid. Both stages stop after MaxIterations.
type Solver struct {
	Guess         float64     // Guess is Newton's starting rate.
	Tolerance     float64     // Tolerance is the convergence threshold on the rate.
	MaxIterations int         // MaxIterations caps each stage.
	Logger        *log.Logger // Logger receives debug diagnostics, nil discards them.
}

// DefaultSolver is the Solver used by Calculate.
var DefaultSolver = Solver{
	Guess:         0.1,
	Tolerance:     1e-10,
	MaxIterations: 100,
}

// grid is scanned in order to find a bracketing interval for bisection.
// It is dense near -1 where near total losses have their root.
var grid = []float64{-0.999999, -0.9999, -0.999, -0.99, -0.95, -0.9, -0.75, -0.5, -0.25, 0, 0.1, 0.25, 0.5, 1, 2, 3, 5, 7.5, 10}

// Calculate returns the IRR of the cash flows using DefaultSolver.
//
// dates and amounts must be index-aligned. They don't need to be sorted.
func Calculate(dates []date.Date, amounts []float64) float64 {
	return DefaultSolver.Calculate(dates, amounts)
}

// Calculate returns the IRR of the cash flows, or NaN if there is none.
//
// When all flows happen on the same day, the rate is undefined: Calculate
// returns 0 if they net to exactly zero, and NaN otherwise.
func (s Solver) Calculate(dates []date.Date, amounts []float64) float64 {
	if len(dates) != len(amounts) {
		panic(fmt.Sprintf("irr: %d dates for %d amounts", len(dates), len(amounts)))
	}
	if len(dates) == 0 {
		return math.NaN()
	}

	years := Years(dates)
	if allZero(years) {
		var net float64
		for _, a := range amounts {
			net += a
		}
		if net == 0 {
			return 0
		}
		return math.NaN()
	}

	if !hasSignChange(amounts) {
		return math.NaN()
	}

	if r, ok := s.newton(years, amounts); ok {
		return r
	}
	s.logger().Debug().Int("flows", len(amounts)).Float64("guess", s.Guess).Msg("irr: newton did not converge, bisecting")
	return s.bisect(years, amounts)
}

// discard is the logger of a Solver without Logger.
var discard = log.Logger{Level: log.InfoLevel, Writer: log.IOWriter{Writer: io.Discard}}

func (s Solver) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return &discard
}

// Years returns the actual/365 year fraction from the earliest date to each date.
func Years(dates []date.Date) []float64 {
	years := make([]float64, len(dates))
	if len(dates) == 0 {
		return years
	}
	first := date.Span(dates...).From
	for i, d := range dates {
		years[i] = float64(d.DaysSince(first)) / DaysPerYear
	}
	return years
}

// NPV returns the net present value of the cash flows at the given rate,
// discounted to the earliest date.
func NPV(rate float64, dates []date.Date, amounts []float64) float64 {
	v, _ := npv(rate, Years(dates), amounts)
	return v
}

// npv returns the net present value at rate and its derivative with respect to rate.
//
// Discount factors are computed in log space so multi-decade horizons don't overflow.
func npv(rate float64, years, amounts []float64) (v, dv float64) {
	if rate <= -1 {
		return math.NaN(), math.NaN()
	}
	lg := math.Log1p(rate)
	for i, a := range amounts {
		t := years[i]
		term := a * math.Exp(-t*lg)
		v += term
		dv -= t * term / (1 + rate)
	}
	return v, dv
}

// newton runs Newton-Raphson from s.Guess. ok is false when it diverges,
// hits a flat derivative, or does not converge within s.MaxIterations.
func (s Solver) newton(years, amounts []float64) (rate float64, ok bool) {
	rate = s.Guess
	for i := 0; i < s.MaxIterations; i++ {
		v, dv := npv(rate, years, amounts)
		if !finite(v) || !finite(dv) || math.Abs(dv) < math.SmallestNonzeroFloat64*1e10 {
			return rate, false
		}
		next := rate - v/dv
		if !finite(next) || next <= -1 {
			return rate, false
		}
		if math.Abs(next-rate) <= s.Tolerance*math.Max(1, math.Abs(rate)) {
			return next, true
		}
		rate = next
	}
	return rate, false
}

// bisect scans the grid for the first sign change of the NPV and bisects it.
// It returns NaN when there is no bracket.
func (s Solver) bisect(years, amounts []float64) float64 {
	lo := grid[0]
	vlo, _ := npv(lo, years, amounts)
	if vlo == 0 {
		return lo
	}
	for _, hi := range grid[1:] {
		vhi, _ := npv(hi, years, amounts)
		if vhi == 0 {
			return hi
		}
		if finite(vlo) && finite(vhi) && (vlo < 0) != (vhi < 0) {
			return s.bisectBracket(lo, hi, vlo, years, amounts)
		}
		lo, vlo = hi, vhi
	}
	return math.NaN()
}

// bisectBracket narrows [lo, hi], with npv(lo) == vlo of opposite sign than npv(hi).
func (s Solver) bisectBracket(lo, hi, vlo float64, years, amounts []float64) float64 {
	for i := 0; i < s.MaxIterations && hi-lo > s.Tolerance; i++ {
		mid := (lo + hi) / 2
		vmid, _ := npv(mid, years, amounts)
		if vmid == 0 {
			return mid
		}
		if (vmid < 0) == (vlo < 0) {
			lo, vlo = mid, vmid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func hasSignChange(amounts []float64) bool {
	var neg, pos bool
	for _, a := range amounts {
		neg = neg || a < 0
		pos = pos || a > 0
	}
	return neg && pos
}

func allZero(xs []float64) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}
	return true
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
