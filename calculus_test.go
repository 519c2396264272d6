package sciexpr_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sciexpr "github.com/Shriram-M-D/scientific-expression-compiler"
)

func mustParse(t testing.TB, src string) sciexpr.Node {
	t.Helper()
	e, err := sciexpr.Parse(src)
	require.NoError(t, err, "parsing %q", src)
	return e.Root()
}

// recorder is a Logger that keeps its messages.
type recorder struct {
	debug, info []string
}

func (r *recorder) Debugf(format string, args ...interface{}) {
	r.debug = append(r.debug, fmt.Sprintf(format, args...))
}

func (r *recorder) Infof(format string, args ...interface{}) {
	r.info = append(r.info, fmt.Sprintf(format, args...))
}

func TestDifferentiate(t *testing.T) {
	ev := sciexpr.NewEvaluator(nil)
	r, steps, err := sciexpr.Differentiate(ev, mustParse(t, "x^2"), "x", 3)
	require.NoError(t, err)
	assert.InDelta(t, 6, r, 1e-6)
	require.Len(t, steps, 3)
	assert.InDelta(t, 3+sciexpr.DiffStep, steps[0].X, 1e-12)
	assert.InDelta(t, 9.0006, steps[0].FX, 1e-6)
	assert.Equal(t, "f(3.0001) = 9.0006", steps[0].Desc)
	assert.InDelta(t, 3-sciexpr.DiffStep, steps[1].X, 1e-12)
	assert.Equal(t, "f(2.9999) = 8.9994", steps[1].Desc)
	assert.Equal(t, 3.0, steps[2].X)
	assert.Equal(t, r, steps[2].FX)
	assert.True(t, strings.HasPrefix(steps[2].Desc, "f'(3) ≈ "), steps[2].Desc)
}

func TestDifferentiateFuncs(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		point float64
		want  float64
	}{
		{"sin", "sin(x)", 0, 1},
		{"cos", "cos(x)", math.Pi / 2, -1},
		{"exp", "exp(x)", 1, math.E},
		{"ln", "ln(x)", 2, 0.5},
		{"const", "7", 5, 0},
		{"linear", "3*x - 2", -4, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, _, err := sciexpr.Differentiate(sciexpr.NewEvaluator(nil), mustParse(t, c.src), "x", c.point)
			require.NoError(t, err)
			assert.InDelta(t, c.want, r, 1e-6)
		})
	}
}

func TestIntegrateTrapezoid(t *testing.T) {
	ev := sciexpr.NewEvaluator(nil)
	r, steps, err := sciexpr.IntegrateTrapezoid(ev, mustParse(t, "x"), "x", 0, 10, 1000)
	require.NoError(t, err)
	// The rule is exact for a linear integrand. The result still differs
	// from 50 in the last bits because the grid points lower+i*h are rounded.
	assert.InDelta(t, 50, r, 1e-9)
	// f(lower), samples 1 through 4, sample 999, f(upper), and the result.
	require.Len(t, steps, 8)
	assert.Equal(t, sciexpr.Step{X: 0, FX: 0, Desc: "f(0) = 0"}, steps[0])
	assert.InDelta(t, 0.01, steps[1].X, 1e-12)
	assert.InDelta(t, 0.04, steps[4].X, 1e-12)
	assert.InDelta(t, 9.99, steps[5].X, 1e-9)
	assert.Equal(t, sciexpr.Step{X: 10, FX: 10, Desc: "f(10) = 10"}, steps[6])
	assert.Equal(t, 0.0, steps[7].X)
	assert.Equal(t, r, steps[7].FX)
	assert.True(t, strings.HasPrefix(steps[7].Desc, "integral ≈ (0.01/2) × "), steps[7].Desc)

	// Fewer intervals than the logging cap log every sample once.
	_, steps, err = sciexpr.IntegrateTrapezoid(ev, mustParse(t, "x"), "x", 0, 3, 3)
	require.NoError(t, err)
	assert.Len(t, steps, 5)

	// Non-positive counts use the default.
	_, steps, err = sciexpr.IntegrateTrapezoid(ev, mustParse(t, "x"), "x", 0, 1, 0)
	require.NoError(t, err)
	assert.Len(t, steps, 8)
}

func TestIntegrateSimpson(t *testing.T) {
	ev := sciexpr.NewEvaluator(nil)
	r, steps, err := sciexpr.IntegrateSimpson(ev, mustParse(t, "sin(x)"), "x", 0, math.Pi, sciexpr.DefaultIntervals)
	require.NoError(t, err)
	assert.InDelta(t, 2, r, 1e-6)
	assert.Len(t, steps, 8)

	// Odd counts round up.
	r, steps, err = sciexpr.IntegrateSimpson(ev, mustParse(t, "x^3"), "x", 0, 2, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4, r, 1e-12)
	// f(lower), samples 1 through 3, f(upper), and the result.
	require.Len(t, steps, 6)
	assert.InDelta(t, 1.5, steps[3].X, 1e-12)
	assert.True(t, strings.HasPrefix(steps[5].Desc, "integral ≈ (0.5/3) × "), steps[5].Desc)

	// Reversed bounds negate the integral.
	r, _, err = sciexpr.IntegrateSimpson(ev, mustParse(t, "x^2"), "x", 3, 0, 2)
	require.NoError(t, err)
	assert.InDelta(t, -9, r, 1e-12)
}

func TestCalculusErrors(t *testing.T) {
	ev := sciexpr.NewEvaluator(nil)
	_, steps, err := sciexpr.Differentiate(ev, mustParse(t, "x*y"), "x", 1)
	assert.Nil(t, steps)
	assert.Equal(t, &sciexpr.NameError{Name: "y"}, err)

	_, steps, err = sciexpr.IntegrateTrapezoid(ev, mustParse(t, "1/x"), "x", 0, 1, 10)
	assert.Nil(t, steps)
	assert.Equal(t, &sciexpr.ZeroDivisionError{Op: sciexpr.OpDiv}, err)

	_, _, err = sciexpr.IntegrateSimpson(ev, mustParse(t, "sqrt(x)"), "x", -1, 1, 10)
	assert.Equal(t, sciexpr.KindEval, sciexpr.KindOf(err))
}

func TestCalculusLogs(t *testing.T) {
	var rec recorder
	ev := sciexpr.NewEvaluator(nil, sciexpr.Log(&rec))
	_, _, err := sciexpr.Differentiate(ev, mustParse(t, "x^2"), "x", 3)
	require.NoError(t, err)
	require.Len(t, rec.debug, 4)
	assert.Contains(t, rec.debug[0], "differentiating (x ^ 2) over x at 3")
	assert.Equal(t, "f(3.0001) = 9.0006", rec.debug[1])
	assert.Empty(t, rec.info)
}

func TestNestedCalculus(t *testing.T) {
	// The inner derivative samples y while the outer integral samples x.
	r, err := sciexpr.EvalString("integrate(diff(x*y^2, y, 1), x, 0, 2)", sciexpr.Intervals(10))
	require.NoError(t, err)
	assert.InDelta(t, 4, r, 1e-6)
}

func TestCost(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []sciexpr.EvalOption
		want float64
	}{
		{"leaf", "x", nil, 1},
		{"arith", "2+3*sin(x)", nil, 3},
		{"ncr", "nCr(5,2)", nil, 2},
		{"diff", "diff(x^2, x, 3)", nil, 4},
		{"trapezoid", "integrate(x, x, 0, 1)", nil, 1001},
		{"intervals", "integrate(x, x, 0, 1)", []sciexpr.EvalOption{sciexpr.Intervals(10)}, 11},
		{"simpson", "integrate(x, x, 0, 1)", []sciexpr.EvalOption{sciexpr.Quadrature(sciexpr.Simpson), sciexpr.Intervals(3)}, 5},
		{"nested", "integrate(integrate(x*y, x, 0, 1), y, 0, 1)", []sciexpr.EvalOption{sciexpr.Intervals(10)}, 242},
		{"sum", "diff(x, x, 0) + integrate(x, x, 0, 1)", []sciexpr.EvalOption{sciexpr.Intervals(10)}, 13},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := sciexpr.NewEvaluator(nil, c.opts...)
			assert.Equal(t, c.want, ev.Cost(mustParse(t, c.src)))
		})
	}
	assert.Equal(t, 0.0, sciexpr.NewEvaluator(nil).Cost(nil))
}
