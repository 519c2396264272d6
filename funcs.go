package sciexpr

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Names of the functions with special parsing and evaluation.
const (
	nameDiff      = "diff"
	nameIntegrate = "integrate"
	nameNCr       = "nCr"
	nameNPr       = "nPr"
	// negName is the synthetic function the parser uses for unary minus.
	// It is not a keyword, so it cannot appear in the input.
	negName = "neg"
)

// MaxFactorial is the largest argument for which Factorial is finite.
const MaxFactorial = 170

// monadic is a function of one real variable. If ok is not nil, then the
// function is only defined where ok returns true.
type monadic struct {
	f  func(float64) float64
	ok func(float64) bool
}

func (m monadic) call(name string, x float64) (float64, error) {
	if m.ok != nil && !m.ok(x) {
		return 0, &DomainError{X: x, Func: name}
	}
	return m.f(x), nil
}

// funcs is the fixed set of functions of one argument.
var funcs = map[string]monadic{
	"sin":  {f: math.Sin},
	"cos":  {f: math.Cos},
	"tan":  {f: math.Tan},
	"asin": {f: math.Asin, ok: unit},
	"acos": {f: math.Acos, ok: unit},
	"atan": {f: math.Atan},
	"log":  {f: math.Log10, ok: positive},
	"ln":   {f: math.Log, ok: positive},
	"exp":  {f: math.Exp},
	"sqrt": {f: math.Sqrt, ok: nonnegative},
	"cbrt": {f: math.Cbrt},
	"abs":  {f: math.Abs},
}

func unit(x float64) bool        { return -1 <= x && x <= 1 }
func positive(x float64) bool    { return x > 0 }
func nonnegative(x float64) bool { return x >= 0 }

// arity returns the number of arguments a function takes.
func arity(name string) int {
	switch name {
	case nameDiff:
		return 3
	case nameIntegrate:
		return 4
	case nameNCr, nameNPr:
		return 2
	default:
		return 1
	}
}

// constPrec is the precision at which named constants are computed before
// rounding to float64.
const constPrec = 128

// constants holds the named constants.
var constants = func() map[string]float64 {
	pi := bigconst(bigfloat.Pi)
	return map[string]float64{
		"pi": pi,
		"π":  pi,
		"e": bigconst(func(out *big.Float) *big.Float {
			var one big.Float
			one.SetPrec(out.Prec()).SetFloat64(1)
			return bigfloat.Exp(out, &one)
		}),
	}
}()

func bigconst(f func(out *big.Float) *big.Float) float64 {
	r := new(big.Float).SetPrec(constPrec)
	f(r)
	v, _ := r.Float64()
	return v
}

// Fact computes x! for integral x in [0, MaxFactorial].
func Fact(x float64) (float64, error) {
	if x < 0 || x != math.Floor(x) {
		return 0, &FactorialError{X: x}
	}
	if x > MaxFactorial {
		return 0, &FactorialError{X: x, Overflow: true}
	}
	r := 1.0
	for i := 2; i <= int(x); i++ {
		r *= float64(i)
	}
	return r, nil
}

// Combinations computes n!/(r!(n-r)!).
func Combinations(n, r float64) (float64, error) {
	nf, err := Fact(n)
	if err != nil {
		return 0, err
	}
	rf, err := Fact(r)
	if err != nil {
		return 0, err
	}
	df, err := Fact(n - r)
	if err != nil {
		return 0, err
	}
	return nf / (rf * df), nil
}

// Permutations computes n!/(n-r)!.
func Permutations(n, r float64) (float64, error) {
	nf, err := Fact(n)
	if err != nil {
		return 0, err
	}
	df, err := Fact(n - r)
	if err != nil {
		return 0, err
	}
	return nf / df, nil
}

// DomainError is an error returned when a function is called on an argument
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	return strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain of " + err.Func
}

func (err *DomainError) Kind() Kind {
	return KindEval
}

// FactorialError is an error returned when the argument of a factorial is
// negative, not an integer, or greater than MaxFactorial.
type FactorialError struct {
	// X is the invalid argument.
	X float64
	// Overflow is true when X is an integer greater than MaxFactorial.
	Overflow bool
}

func (err *FactorialError) Error() string {
	x := strconv.FormatFloat(err.X, 'g', -1, 64)
	if err.Overflow {
		return "factorial overflow: " + x + "! exceeds " + strconv.Itoa(MaxFactorial) + "!"
	}
	return "factorial requires a non-negative integer, not " + x
}

func (err *FactorialError) Kind() Kind {
	return KindFactorial
}
