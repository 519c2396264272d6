package sciexpr

import "fmt"

// Rule is a composite quadrature rule.
type Rule int8

const (
	// Trapezoid is the composite trapezoidal rule.
	Trapezoid Rule = iota
	// Simpson is the composite Simpson's rule.
	Simpson
)

func (r Rule) String() string {
	if r == Simpson {
		return "simpson"
	}
	return "trapezoid"
}

// DiffStep is the distance from the point at which Differentiate samples.
const DiffStep = 1e-4

// DefaultIntervals is the number of subintervals used for integration when
// none is given.
const DefaultIntervals = 1000

// Step is one entry of the trace of a calculus routine.
type Step struct {
	// X is the sampled point. It is the evaluation point for the final step of
	// a derivative and zero for the final step of an integral.
	X float64 `json:"x"`
	// FX is the sampled value, or the result for the final step.
	FX float64 `json:"fx"`
	// Desc describes the step.
	Desc string `json:"description"`
}

// logCap reports whether interior sample i of n is recorded.
func logCap(i, n int) bool {
	return i < 5 || i == n-1
}

// binding prepares name for sampling. The returned function undoes the
// sampling if ev restores bindings.
func (ev *Evaluator) binding(name string) func() {
	if !ev.restore {
		return func() {}
	}
	old, ok := ev.env.Lookup(name)
	return func() {
		if ok {
			ev.env.Set(name, old)
		} else {
			ev.env.Delete(name)
		}
	}
}

// sample evaluates expr with name bound to x.
func (ev *Evaluator) sample(expr Node, name string, x float64) (float64, error) {
	ev.env.Set(name, x)
	return ev.Eval(expr)
}

func sampled(x, fx float64) Step {
	return Step{X: x, FX: fx, Desc: fmt.Sprintf("f(%.6g) = %.6g", x, fx)}
}

// Differentiate approximates the derivative of expr with respect to name at
// point using a central difference with step DiffStep. It evaluates expr
// with ev after setting name in ev's environment.
func Differentiate(ev *Evaluator, expr Node, name string, point float64) (float64, []Step, error) {
	defer ev.binding(name)()
	ev.log.Debugf("differentiating %s over %s at %g", expr, name, point)
	const h = DiffStep
	fp, err := ev.sample(expr, name, point+h)
	if err != nil {
		return 0, nil, err
	}
	fm, err := ev.sample(expr, name, point-h)
	if err != nil {
		return 0, nil, err
	}
	r := (fp - fm) / (2 * h)
	steps := []Step{
		sampled(point+h, fp),
		sampled(point-h, fm),
		{X: point, FX: r, Desc: fmt.Sprintf("f'(%.6g) ≈ [%.6g - %.6g] / %.6g = %.6g", point, fp, fm, 2*h, r)},
	}
	ev.logSteps(steps)
	return r, steps, nil
}

// IntegrateTrapezoid approximates the integral of expr over name from lower
// to upper using the trapezoidal rule with n subintervals. If n is less than
// 1, it uses DefaultIntervals.
func IntegrateTrapezoid(ev *Evaluator, expr Node, name string, lower, upper float64, n int) (float64, []Step, error) {
	return ev.quadrature(Trapezoid, expr, name, lower, upper, n)
}

// IntegrateSimpson approximates the integral of expr over name from lower to
// upper using Simpson's rule with n subintervals, rounded up to an even
// number. If n is less than 1, it uses DefaultIntervals.
func IntegrateSimpson(ev *Evaluator, expr Node, name string, lower, upper float64, n int) (float64, []Step, error) {
	return ev.quadrature(Simpson, expr, name, lower, upper, n)
}

// intervals returns the subinterval count rule actually uses when asked for n.
func intervals(rule Rule, n int) int {
	if n < 1 {
		n = DefaultIntervals
	}
	if rule == Simpson && n%2 != 0 {
		n++
	}
	return n
}

func (ev *Evaluator) quadrature(rule Rule, expr Node, name string, lower, upper float64, n int) (float64, []Step, error) {
	n = intervals(rule, n)
	defer ev.binding(name)()
	ev.log.Debugf("integrating %s over %s from %g to %g by %s rule with %d intervals", expr, name, lower, upper, rule, n)
	h := (upper - lower) / float64(n)
	var steps []Step
	fx, err := ev.sample(expr, name, lower)
	if err != nil {
		return 0, nil, err
	}
	sum := fx
	steps = append(steps, sampled(lower, fx))
	for i := 1; i < n; i++ {
		x := lower + float64(i)*h
		fx, err := ev.sample(expr, name, x)
		if err != nil {
			return 0, nil, err
		}
		switch {
		case rule == Trapezoid, i%2 == 0:
			sum += 2 * fx
		default:
			sum += 4 * fx
		}
		if logCap(i, n) {
			steps = append(steps, sampled(x, fx))
		}
	}
	fx, err = ev.sample(expr, name, upper)
	if err != nil {
		return 0, nil, err
	}
	sum += fx
	steps = append(steps, sampled(upper, fx))
	div := 2.0
	if rule == Simpson {
		div = 3
	}
	r := h / div * sum
	steps = append(steps, Step{FX: r, Desc: fmt.Sprintf("integral ≈ (%.6g/%g) × %.6g = %.6g", h, div, sum, r)})
	ev.logSteps(steps)
	return r, steps, nil
}

func (ev *Evaluator) logSteps(steps []Step) {
	for _, s := range steps {
		ev.log.Debugf("%s", s.Desc)
	}
}

// Cost estimates the work of evaluating n with ev as the number of numbers and
// variables Eval reads. Each diff multiplies the cost of its expression by 2
// and each integral by its number of samples.
func (ev *Evaluator) Cost(n Node) float64 {
	switch n := n.(type) {
	case nil:
		return 0
	case *Number, *Variable:
		return 1
	case *Diff:
		return 2 * ev.Cost(n.Expr)
	case *Integrate:
		return float64(intervals(ev.rule, ev.intervals)+1) * ev.Cost(n.Expr)
	}
	var c float64
	for _, k := range n.children() {
		c += ev.Cost(k)
	}
	return c
}
