package sciexpr_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sciexpr "github.com/Shriram-M-D/scientific-expression-compiler"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want float64
	}{
		{"prec", "2+3*4", 14},
		{"paren", "(2+3)*4", 20},
		{"right", "2^3^2", 512},
		{"neg-add", "-3+4", 1},
		{"neg-pow", "-2^2", 4},
		{"pow-neg", "2^-2^2", 16},
		{"neg-fact", "-3!", -6},
		{"fact", "5!", 120},
		{"fact-zero", "0!", 1},
		{"fact-fact", "3!!", 720},
		{"fact-sub", "5!-3", 117},
		{"sub", "10-4-3", 3},
		{"div", "10/4", 2.5},
		{"mod", "7%3", 1},
		{"mod-neg", "-7%3", -1},
		{"mod-frac", "5.5%2", 1.5},
		{"pow-frac", "4^0.5", 2},
		{"ncr", "nCr(5,2)", 10},
		{"npr", "nPr(5,2)", 20},
		{"ncr-exprs", "nCr(2+3, 4-2)", 10},
		{"sqrt", "sqrt(16)", 4},
		{"abs", "abs(-2)", 2},
		{"cbrt", "cbrt(27)", 3},
		{"cbrt-neg", "cbrt(-8)", -2},
		{"log", "log(1000)", 3},
		{"ln", "ln(e)", 1},
		{"exp", "exp(0)", 1},
		{"sin", "sin(pi/2)", 1},
		{"cos", "cos(0)", 1},
		{"tan", "tan(pi/4)", 1},
		{"asin", "asin(1)", math.Pi / 2},
		{"acos", "acos(-1)", math.Pi},
		{"atan", "atan(1)*4", math.Pi},
		{"pi", "π", math.Pi},
		{"nested", "sqrt(abs(-16)) + 2*sin(0)", 4},
		{"diff", "diff(x^2, x, 3)", 6},
		{"integrate", "integrate(x, x, 0, 10)", 50},
		{"calc-operand", "1 + diff(x^3, x, 1)", 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := sciexpr.EvalString(c.src)
			require.NoError(t, err)
			assert.InDelta(t, c.want, r, 1e-6, "%s", c.src)
		})
	}
}

func TestEvalVars(t *testing.T) {
	r, err := sciexpr.EvalString("x^2 + y", sciexpr.SetVar("x", 3), sciexpr.SetVars(map[string]float64{"y": 1}))
	require.NoError(t, err)
	assert.Equal(t, 10.0, r)

	e, err := sciexpr.Parse("a*b")
	require.NoError(t, err)
	ev := sciexpr.NewEvaluator(nil).SetVariable("a", 2).SetVariable("b", 5)
	r, err = ev.Eval(e.Root())
	require.NoError(t, err)
	assert.Equal(t, 10.0, r)
	ev.SetVariable("a", 3)
	r, err = ev.Eval(e.Root())
	require.NoError(t, err)
	assert.Equal(t, 15.0, r)
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind sciexpr.Kind
		err  error
	}{
		{"div-zero", "1/0", sciexpr.KindEval, &sciexpr.ZeroDivisionError{Op: sciexpr.OpDiv}},
		{"div-zero-expr", "1/(2-2)", sciexpr.KindEval, &sciexpr.ZeroDivisionError{Op: sciexpr.OpDiv}},
		{"mod-zero", "5%0", sciexpr.KindEval, &sciexpr.ZeroDivisionError{Op: sciexpr.OpMod}},
		{"asin", "asin(2)", sciexpr.KindEval, &sciexpr.DomainError{X: 2, Func: "asin"}},
		{"acos", "acos(-1.5)", sciexpr.KindEval, &sciexpr.DomainError{X: -1.5, Func: "acos"}},
		{"log", "log(0)", sciexpr.KindEval, &sciexpr.DomainError{X: 0, Func: "log"}},
		{"ln", "ln(-1)", sciexpr.KindEval, &sciexpr.DomainError{X: -1, Func: "ln"}},
		{"sqrt", "sqrt(-1)", sciexpr.KindEval, &sciexpr.DomainError{X: -1, Func: "sqrt"}},
		{"undefined", "x+1", sciexpr.KindEval, &sciexpr.NameError{Name: "x"}},
		{"undefined-in-calc", "diff(x*y, x, 1)", sciexpr.KindEval, &sciexpr.NameError{Name: "y"}},
		{"fact-overflow", "171!", sciexpr.KindFactorial, &sciexpr.FactorialError{X: 171, Overflow: true}},
		{"fact-neg", "(-1)!", sciexpr.KindFactorial, &sciexpr.FactorialError{X: -1}},
		{"fact-frac", "2.5!", sciexpr.KindFactorial, &sciexpr.FactorialError{X: 2.5}},
		{"ncr", "nCr(2,5)", sciexpr.KindFactorial, &sciexpr.FactorialError{X: -3}},
		{"lex", "2 $ 3", sciexpr.KindLex, &sciexpr.LexError{Text: "$", Col: 3}},
		{"parse", "(1", sciexpr.KindParse, &sciexpr.BracketError{Col: 1, Open: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := sciexpr.EvalString(c.src)
			assert.Zero(t, r)
			assert.Equal(t, c.err, err)
			assert.Equal(t, c.kind, sciexpr.KindOf(err))
		})
	}
}

func TestEvalUnknown(t *testing.T) {
	cases := []struct {
		name string
		n    sciexpr.Node
	}{
		{"op", &sciexpr.BinaryOp{Op: "&", Left: &sciexpr.Number{Value: 1}, Right: &sciexpr.Number{Value: 2}}},
		{"unary", &sciexpr.UnaryOp{Op: "~", X: &sciexpr.Number{Value: 1}}},
		{"func", &sciexpr.FunctionCall{Name: "sinh", Args: []sciexpr.Node{&sciexpr.Number{Value: 1}}}},
		{"args", &sciexpr.FunctionCall{Name: "sin"}},
		{"nil", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := sciexpr.NewEvaluator(nil).Eval(c.n)
			var u *sciexpr.UnknownError
			assert.ErrorAs(t, err, &u)
			assert.Equal(t, sciexpr.KindEval, sciexpr.KindOf(err))
		})
	}
}

func TestEvalFactOp(t *testing.T) {
	// Hand-built trees may spell factorial as a unary operator.
	n := &sciexpr.UnaryOp{Op: sciexpr.OpFact, X: &sciexpr.Number{Value: 4}}
	r, err := sciexpr.NewEvaluator(nil).Eval(n)
	require.NoError(t, err)
	assert.Equal(t, 24.0, r)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, sciexpr.KindNone, sciexpr.KindOf(nil))
	assert.Equal(t, sciexpr.KindNone, sciexpr.KindOf(errors.New("x")))
	wrapped := fmt.Errorf("evaluating: %w", &sciexpr.NameError{Name: "x"})
	assert.Equal(t, sciexpr.KindEval, sciexpr.KindOf(wrapped))
	assert.Equal(t, "EvalError", sciexpr.KindOf(wrapped).String())
	assert.Equal(t, "Error", sciexpr.KindNone.String())
}

func TestEnv(t *testing.T) {
	env := sciexpr.NewEnv().Set("y", 1).Set("x", 2)
	assert.Equal(t, []string{"x", "y"}, env.Names())
	c := env.Clone()
	c.Set("x", 3)
	c.Delete("y")
	x, ok := env.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 2.0, x)
	_, ok = c.Lookup("y")
	assert.False(t, ok)

	consts := sciexpr.ConstEnv()
	assert.Equal(t, []string{"e", "pi", "π"}, consts.Names())
}

func TestCalculusMutatesEnv(t *testing.T) {
	diff, err := sciexpr.Parse("diff(x^2, x, 3)")
	require.NoError(t, err)
	integ, err := sciexpr.Parse("integrate(x, x, 0, 10)")
	require.NoError(t, err)

	env := sciexpr.NewEnv().Set("x", 100)
	ev := sciexpr.NewEvaluator(env)
	r, err := ev.Eval(diff.Root())
	require.NoError(t, err)
	assert.InDelta(t, 6, r, 1e-6)
	x, ok := env.Lookup("x")
	require.True(t, ok)
	assert.InDelta(t, 3-sciexpr.DiffStep, x, 1e-12)

	r, err = ev.Eval(integ.Root())
	require.NoError(t, err)
	// Exact but for rounding of the grid points.
	assert.InDelta(t, 50, r, 1e-9)
	x, _ = env.Lookup("x")
	assert.Equal(t, 10.0, x)

	// Without a prior binding, the variable is left defined.
	env = sciexpr.NewEnv()
	_, err = sciexpr.NewEvaluator(env).Eval(diff.Root())
	require.NoError(t, err)
	_, ok = env.Lookup("x")
	assert.True(t, ok)
}

func TestRestoreBindings(t *testing.T) {
	e, err := sciexpr.Parse("diff(x^2, x, 3) + integrate(x, x, 0, 1)")
	require.NoError(t, err)

	env := sciexpr.NewEnv().Set("x", 100)
	r, err := sciexpr.NewEvaluator(env, sciexpr.RestoreBindings(true)).Eval(e.Root())
	require.NoError(t, err)
	assert.InDelta(t, 6.5, r, 1e-6)
	x, _ := env.Lookup("x")
	assert.Equal(t, 100.0, x)

	env = sciexpr.NewEnv()
	_, err = sciexpr.NewEvaluator(env, sciexpr.RestoreBindings(true)).Eval(e.Root())
	require.NoError(t, err)
	_, ok := env.Lookup("x")
	assert.False(t, ok)
}

func TestQuadratureOption(t *testing.T) {
	e, err := sciexpr.Parse("integrate(x^2, x, 0, 3)")
	require.NoError(t, err)
	// Simpson's rule is exact for quadratics; the trapezoidal rule is not.
	r, err := sciexpr.NewEvaluator(nil, sciexpr.Quadrature(sciexpr.Simpson), sciexpr.Intervals(2)).Eval(e.Root())
	require.NoError(t, err)
	assert.InDelta(t, 9, r, 1e-12)
	r, err = sciexpr.NewEvaluator(nil, sciexpr.Intervals(2)).Eval(e.Root())
	require.NoError(t, err)
	assert.InDelta(t, 10.125, r, 1e-12)
}

func BenchmarkEval(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"nums", "2+3+4"},
		{"vars", "x+y+z"},
		{"integrate", "integrate(sin(x)^2, x, 0, pi)"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			e, err := sciexpr.Parse(c.src)
			if err != nil {
				b.Fatal(err)
			}
			ev := sciexpr.NewEvaluator(nil, sciexpr.SetVars(map[string]float64{"x": 2, "y": 3, "z": 4}))
			for i := 0; i < b.N; i++ {
				if _, err := ev.Eval(e.Root()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func Example() {
	e, _ := sciexpr.Parse("x^3/2 - x")
	ev := sciexpr.NewEvaluator(nil)
	for i := 0; i < 4; i++ {
		x := float64(i)
		ev.SetVariable("x", x)
		y, _ := ev.Eval(e.Root())
		yp, _ := ev.Eval(&sciexpr.Diff{Expr: e.Root(), Var: "x", Point: x})
		fmt.Printf("x = %g   y = %-4g  y' = %.4f\n", x, y, yp)
	}

	// Output:
	// x = 0   y = 0     y' = -1.0000
	// x = 1   y = -0.5  y' = 0.5000
	// x = 2   y = 2     y' = 5.0000
	// x = 3   y = 10.5  y' = 12.5000
}
