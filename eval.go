package sciexpr

import (
	"fmt"
	"math"
	"strconv"
)

// Evaluator evaluates syntax trees against an environment. It also holds the
// pseudo-code emitted by Generate. It is not safe to use an Evaluator
// concurrently.
type Evaluator struct {
	env  *Env
	code []string
	// temp is the number of the next temporary Generate allocates.
	temp      int
	rule      Rule
	intervals int
	restore   bool
	log       Logger
}

// Logger receives progress messages from an Evaluator. The *Logger type from
// github.com/jcgregorio/logger implements it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}

// EvalOption is an option used when creating an Evaluator.
type EvalOption interface {
	evalOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt      map[string]float64
	ruleopt      Rule
	intervalsopt int
	restoreopt   bool
	logopt       struct{ l Logger }
)

func (varopt) evalOption()       {}
func (varsopt) evalOption()      {}
func (ruleopt) evalOption()      {}
func (intervalsopt) evalOption() {}
func (restoreopt) evalOption()   {}
func (logopt) evalOption()       {}

// SetVar sets the value of a variable in the evaluator's environment.
func SetVar(name string, val float64) EvalOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the evaluator's
// environment.
func SetVars(vars map[string]float64) EvalOption {
	return varsopt(vars)
}

// Quadrature selects the rule used to evaluate integrals. The default is
// Trapezoid.
func Quadrature(r Rule) EvalOption {
	return ruleopt(r)
}

// Intervals sets the number of subintervals used to evaluate integrals. Values
// less than 1 select DefaultIntervals.
func Intervals(n int) EvalOption {
	return intervalsopt(n)
}

// RestoreBindings controls whether differentiation and integration restore
// the previous value of the variable they sample. By default they leave the
// last sampled value in the environment.
func RestoreBindings(restore bool) EvalOption {
	return restoreopt(restore)
}

// Log sets the logger that receives calculus sampling steps.
func Log(l Logger) EvalOption {
	return logopt{l}
}

// NewEvaluator creates an evaluator using env. If env is nil, the evaluator
// uses a new empty environment. Variables set by options are written into env.
func NewEvaluator(env *Env, opts ...EvalOption) *Evaluator {
	if env == nil {
		env = NewEnv()
	}
	ev := Evaluator{
		env:       env,
		rule:      Trapezoid,
		intervals: DefaultIntervals,
		log:       nopLogger{},
	}
	for _, opt := range opts {
		switch o := opt.(type) {
		case varopt:
			env.Set(o.name, o.val)
		case varsopt:
			for k, v := range o {
				env.Set(k, v)
			}
		case ruleopt:
			ev.rule = Rule(o)
		case intervalsopt:
			ev.intervals = int(o)
			if ev.intervals < 1 {
				ev.intervals = DefaultIntervals
			}
		case restoreopt:
			ev.restore = bool(o)
		case logopt:
			if o.l != nil {
				ev.log = o.l
			}
		default:
			panic(fmt.Errorf("sciexpr: unknown evaluator option %T", opt))
		}
	}
	return &ev
}

// Env returns the environment the evaluator reads variables from.
func (ev *Evaluator) Env() *Env {
	return ev.env
}

// SetVariable sets the value of a variable. Returns ev for chaining.
func (ev *Evaluator) SetVariable(name string, value float64) *Evaluator {
	ev.env.Set(name, value)
	return ev
}

// Eval evaluates a syntax tree. Evaluating diff or integrate nodes changes the
// value of their variable in the environment unless the evaluator was created
// with RestoreBindings(true).
func (ev *Evaluator) Eval(n Node) (float64, error) {
	switch n := n.(type) {
	case *Number:
		return n.Value, nil
	case *Variable:
		v, ok := ev.env.Lookup(n.Name)
		if !ok {
			return 0, &NameError{Name: n.Name}
		}
		return v, nil
	case *BinaryOp:
		l, err := ev.Eval(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := ev.Eval(n.Right)
		if err != nil {
			return 0, err
		}
		return binary(n.Op, l, r)
	case *UnaryOp:
		x, err := ev.Eval(n.X)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case OpNeg:
			return -x, nil
		case OpFact:
			return Fact(x)
		}
		return 0, &UnknownError{Name: string(n.Op)}
	case *FunctionCall:
		m, ok := funcs[n.Name]
		if !ok || len(n.Args) != 1 {
			return 0, &UnknownError{Name: n.Name}
		}
		x, err := ev.Eval(n.Args[0])
		if err != nil {
			return 0, err
		}
		return m.call(n.Name, x)
	case *Factorial:
		x, err := ev.Eval(n.X)
		if err != nil {
			return 0, err
		}
		return Fact(x)
	case *NCr:
		a, b, err := ev.pair(n.N, n.R)
		if err != nil {
			return 0, err
		}
		return Combinations(a, b)
	case *NPr:
		a, b, err := ev.pair(n.N, n.R)
		if err != nil {
			return 0, err
		}
		return Permutations(a, b)
	case *Diff:
		r, _, err := Differentiate(ev, n.Expr, n.Var, n.Point)
		return r, err
	case *Integrate:
		r, _, err := ev.integrate(n)
		return r, err
	case nil:
		return 0, &UnknownError{Name: "<nil>"}
	}
	return 0, &UnknownError{Name: fmt.Sprintf("%T", n)}
}

func (ev *Evaluator) pair(x, y Node) (float64, float64, error) {
	a, err := ev.Eval(x)
	if err != nil {
		return 0, 0, err
	}
	b, err := ev.Eval(y)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// integrate evaluates an integral using the evaluator's quadrature rule.
func (ev *Evaluator) integrate(n *Integrate) (float64, []Step, error) {
	if ev.rule == Simpson {
		return IntegrateSimpson(ev, n.Expr, n.Var, n.Lower, n.Upper, ev.intervals)
	}
	return IntegrateTrapezoid(ev, n.Expr, n.Var, n.Lower, n.Upper, ev.intervals)
}

func binary(op Op, l, r float64) (float64, error) {
	switch op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return 0, &ZeroDivisionError{Op: op}
		}
		return l / r, nil
	case OpMod:
		if r == 0 {
			return 0, &ZeroDivisionError{Op: op}
		}
		return math.Mod(l, r), nil
	case OpPow:
		return math.Pow(l, r), nil
	}
	return 0, &UnknownError{Name: string(op)}
}

// EvalString parses and evaluates an expression in a new environment.
func EvalString(src string, opts ...EvalOption) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return NewEvaluator(nil, opts...).Eval(e.Root())
}

// NameError is an error returned when evaluating a variable that is not
// defined.
type NameError struct {
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Kind() Kind {
	return KindEval
}

// ZeroDivisionError is an error returned when the right operand of / or % is
// zero.
type ZeroDivisionError struct {
	// Op is OpDiv or OpMod.
	Op Op
}

func (err *ZeroDivisionError) Error() string {
	if err.Op == OpMod {
		return "modulo by zero"
	}
	return "division by zero"
}

func (err *ZeroDivisionError) Kind() Kind {
	return KindEval
}

// UnknownError is an error returned when evaluating a node with an operator,
// function, or type that the evaluator does not recognize. Trees produced by
// the parser never cause it.
type UnknownError struct {
	Name string
}

func (err *UnknownError) Error() string {
	return "unknown operator or function " + strconv.Quote(err.Name)
}

func (err *UnknownError) Kind() Kind {
	return KindEval
}
