package irr

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/etnz/performance/date"
	"github.com/phuslu/log"
)

var day0 = date.New(2024, time.January, 1)

// flows is a test helper to build a series from day offsets.
func flows(t *testing.T, pairs ...float64) ([]date.Date, []float64) {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("flows() needs (day, amount) pairs, got %d values", len(pairs))
	}
	var dates []date.Date
	var amounts []float64
	for i := 0; i < len(pairs); i += 2 {
		dates = append(dates, day0.Add(int(pairs[i])))
		amounts = append(amounts, pairs[i+1])
	}
	return dates, amounts
}

func TestCalculate(t *testing.T) {
	testCases := []struct {
		name  string
		pairs []float64
		want  float64
		tol   float64
	}{
		{
			name:  "One year ten percent",
			pairs: []float64{0, -1000, 365, 1100},
			want:  0.10,
			tol:   1e-6,
		},
		{
			name:  "Dividend then sale",
			pairs: []float64{0, -1000, 180, 200, 365, 900},
			want:  0.11095575017295534, // spreadsheet XIRR
			tol:   1e-6,
		},
		{
			name:  "Unsorted input",
			pairs: []float64{365, 900, 0, -1000, 180, 200},
			want:  0.11095575017295534,
			tol:   1e-6,
		},
		{
			name:  "Loss",
			pairs: []float64{0, -1000, 365, 800},
			want:  -0.20,
			tol:   1e-9,
		},
		{
			name:  "Same day flows are summed",
			pairs: []float64{0, -600, 0, -400, 365, 1100},
			want:  0.10,
			tol:   1e-9,
		},
		{
			name:  "Near total loss",
			pairs: []float64{0, -1000, 365, 1},
			want:  -0.999,
			tol:   1e-9,
		},
		{
			name:  "Ninety nine and a half percent loss",
			pairs: []float64{0, -1000, 365, 5},
			want:  -0.995,
			tol:   1e-9,
		},
		{
			name:  "Zero amounts are neutral",
			pairs: []float64{0, -1000, 100, 0, 365, 1100},
			want:  0.10,
			tol:   1e-9,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dates, amounts := flows(t, tc.pairs...)
			got := Calculate(dates, amounts)
			if math.IsNaN(got) || math.Abs(got-tc.want) > tc.tol {
				t.Errorf("Calculate() = %v, want %v ± %v", got, tc.want, tc.tol)
			}
		})
	}
}

func TestCalculate_ClosedForm(t *testing.T) {
	testCases := []struct {
		buy, sell float64
		days      int
	}{
		{1000, 1500, 200},
		{1000, 1010, 3},
		{250.5, 180.25, 700},
		{10000, 123456, 40 * 365},
	}
	for _, tc := range testCases {
		dates := []date.Date{day0, day0.Add(tc.days)}
		amounts := []float64{-tc.buy, tc.sell}
		want := math.Pow(tc.sell/tc.buy, 365/float64(tc.days)) - 1
		got := Calculate(dates, amounts)
		// relative tolerance for the very large rates.
		if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("Calculate(-%v, +%v after %d days) = %v, want %v", tc.buy, tc.sell, tc.days, got, want)
		}
	}
}

func TestCalculate_NotANumber(t *testing.T) {
	testCases := []struct {
		name  string
		pairs []float64
	}{
		{"Empty", nil},
		{"All negative", []float64{0, -1000, 100, -50}},
		{"All positive", []float64{0, 1000, 100, 50}},
		{"All zero", []float64{0, 0, 100, 0}},
		{"Same day non zero net", []float64{10, -1000, 10, 1100}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dates, amounts := flows(t, tc.pairs...)
			if got := Calculate(dates, amounts); !math.IsNaN(got) {
				t.Errorf("Calculate() = %v, want NaN", got)
			}
		})
	}
}

func TestCalculate_ZeroElapsedZeroNet(t *testing.T) {
	dates, amounts := flows(t, 10, -1000, 10, 1000)
	if got := Calculate(dates, amounts); got != 0 {
		t.Errorf("Calculate() = %v, want 0", got)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	dates, amounts := flows(t, 0, -1000, 31, -250.75, 180, 200, 250, 13.2, 365, 1100)
	first := Calculate(dates, amounts)
	for i := 0; i < 10; i++ {
		if got := Calculate(dates, amounts); math.Float64bits(got) != math.Float64bits(first) {
			t.Fatalf("Calculate() = %v, then %v", first, got)
		}
	}
}

func TestCalculate_MismatchedLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Calculate() with mismatched lengths did not panic")
		}
	}()
	Calculate([]date.Date{day0}, nil)
}

// pathological is a large early outflow followed by small late inflows.
func pathological() ([]date.Date, []float64) {
	dates := []date.Date{date.New(2000, time.January, 1)}
	amounts := []float64{-1_000_000}
	for i := 1; i <= 30; i++ {
		dates = append(dates, date.New(2000+i, time.January, 1))
		amounts = append(amounts, 1000)
	}
	return dates, amounts
}

const pathologicalIRR = -0.15480329899964967

func TestCalculate_Pathological(t *testing.T) {
	dates, amounts := pathological()
	for _, guess := range []float64{0.1, 5, 1e6, -0.999} {
		s := DefaultSolver
		s.Guess = guess
		got := s.Calculate(dates, amounts)
		if math.Abs(got-pathologicalIRR) > 1e-6 {
			t.Errorf("Solver{Guess: %v}.Calculate() = %v, want %v", guess, got, pathologicalIRR)
		}
	}
}

func TestBisect(t *testing.T) {
	dates, amounts := pathological()
	got := DefaultSolver.bisect(Years(dates), amounts)
	if math.Abs(got-pathologicalIRR) > 1e-6 {
		t.Errorf("bisect() = %v, want %v", got, pathologicalIRR)
	}
	if v := NPV(got, dates, amounts); math.Abs(v) > 1e-3 {
		t.Errorf("NPV(bisect()) = %v, want ~0", v)
	}
}

func TestBisect_NoBracket(t *testing.T) {
	// A root above the grid: doubling in a single day.
	dates, amounts := flows(t, 0, -1, 1, 2)
	if got := DefaultSolver.bisect(Years(dates), amounts); !math.IsNaN(got) {
		t.Errorf("bisect() = %v, want NaN", got)
	}
}

func TestNewton_Diverges(t *testing.T) {
	dates, amounts := flows(t, 0, -1000, 365, 1500)
	s := DefaultSolver
	s.MaxIterations = 1
	if _, ok := s.newton(Years(dates), amounts); ok {
		t.Error("newton() with a single iteration reported convergence")
	}
}

func TestSolver_Logger(t *testing.T) {
	dates, amounts := flows(t, 0, -1000, 365, 1500)

	var buf bytes.Buffer
	s := DefaultSolver
	s.MaxIterations = 1
	s.Logger = &log.Logger{Level: log.DebugLevel, Writer: log.IOWriter{Writer: &buf}}
	s.Calculate(dates, amounts)
	if !strings.Contains(buf.String(), "bisecting") {
		t.Errorf("Solver.Logger got %q, want the bisection fallback logged", buf.String())
	}

	if l := (Solver{}).logger(); l.Level <= log.DebugLevel {
		t.Errorf("default logger level = %v, want debug lines dropped", l.Level)
	}
}

func TestNPV_LongHorizon(t *testing.T) {
	dates, amounts := flows(t, 0, -1, 365*80, 1e6)
	for _, r := range []float64{-0.99, 0, 10} {
		if v := NPV(r, dates, amounts); math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("NPV(%v) = %v, want finite", r, v)
		}
	}
}

func TestYears(t *testing.T) {
	dates := []date.Date{day0.Add(365), day0, day0.Add(73)}
	got := Years(dates)
	want := []float64{1, 0, 0.2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Errorf("Years()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
