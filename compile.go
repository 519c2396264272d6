package sciexpr

// CalcKind identifies the calculus operation at the root of an expression.
type CalcKind int8

const (
	CalcNone CalcKind = iota
	CalcDifferentiation
	CalcIntegration
)

func (k CalcKind) String() string {
	switch k {
	case CalcDifferentiation:
		return "differentiation"
	case CalcIntegration:
		return "integration"
	default:
		return "none"
	}
}

// Report holds everything produced while compiling and evaluating one
// expression.
type Report struct {
	Expression string
	Tokens     []Token
	Postfix    []Token
	// Pushes lists the operators and functions pushed to the operator stack
	// during parsing, in order.
	Pushes []string
	Tree   Node
	Code   []string
	Result float64
	// Calculus is the kind of the root node. Steps is the trace of its
	// calculus routine, or nil if Calculus is CalcNone.
	Calculus CalcKind
	Steps    []Step
}

// Compile parses src, emits pseudo-code for it, and evaluates it in a new
// environment configured by opts.
func Compile(src string, opts ...EvalOption) (*Report, error) {
	return NewEvaluator(nil, opts...).Compile(src)
}

// Compile parses src, emits pseudo-code for it, and evaluates it using ev.
// Pseudo-code emitted earlier is discarded.
func (ev *Evaluator) Compile(src string) (*Report, error) {
	ev.log.Debugf("compiling %q", src)
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ev.log.Debugf("parsed %d tokens into %s", len(e.tokens), e)
	ev.ClearCode()
	if _, err := ev.Generate(e.root); err != nil {
		return nil, err
	}
	r := Report{
		Expression: src,
		Tokens:     e.Tokens(),
		Postfix:    e.Postfix(),
		Pushes:     e.Pushes(),
		Tree:       e.root,
		Code:       ev.Code(),
	}
	switch n := e.root.(type) {
	case *Diff:
		r.Calculus = CalcDifferentiation
		r.Result, r.Steps, err = Differentiate(ev, n.Expr, n.Var, n.Point)
	case *Integrate:
		r.Calculus = CalcIntegration
		r.Result, r.Steps, err = ev.integrate(n)
	default:
		r.Result, err = ev.Eval(e.root)
	}
	if err != nil {
		return nil, err
	}
	ev.log.Debugf("%s = %g", e, r.Result)
	return &r, nil
}
