package sciexpr

import (
	"math"
	"strconv"
	"strings"
)

// Node is a node in the abstract syntax tree of an expression. The set of
// node types is closed: *Number, *Variable, *BinaryOp, *UnaryOp,
// *FunctionCall, *Factorial, *NCr, *NPr, *Diff, and *Integrate. Each node
// owns its children, and trees are never modified after parsing.
type Node interface {
	// String renders the node in a form that parses back to an equivalent
	// expression.
	String() string

	fmt(b *strings.Builder)
	children() []Node
}

// Op is an operator of a BinaryOp or UnaryOp.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
	OpPow Op = "^"
	// OpNeg is unary negation.
	OpNeg Op = negName
	// OpFact is the factorial as a unary operator. The parser produces
	// *Factorial instead, but evaluation accepts both.
	OpFact Op = "!"
)

type (
	// Number is a literal or a named constant.
	Number struct {
		Value float64
	}

	// Variable is a reference to a name in the environment.
	Variable struct {
		Name string
	}

	// BinaryOp applies one of + - * / % ^ to two operands.
	BinaryOp struct {
		Op          Op
		Left, Right Node
	}

	// UnaryOp is negation or factorial of one operand.
	UnaryOp struct {
		Op Op
		X  Node
	}

	// FunctionCall calls one of the fixed functions. Args always has exactly
	// one element for the functions this package parses.
	FunctionCall struct {
		Name string
		Args []Node
	}

	// Factorial is the postfix ! operator.
	Factorial struct {
		X Node
	}

	// NCr is the number of combinations of R items out of N.
	NCr struct {
		N, R Node
	}

	// NPr is the number of permutations of R items out of N.
	NPr struct {
		N, R Node
	}

	// Diff is the derivative of Expr with respect to Var at Point. Point is
	// resolved during parsing.
	Diff struct {
		Expr  Node
		Var   string
		Point float64
	}

	// Integrate is the definite integral of Expr over Var from Lower to
	// Upper. The bounds are resolved during parsing.
	Integrate struct {
		Expr         Node
		Var          string
		Lower, Upper float64
	}
)

var (
	_ Node = (*Number)(nil)
	_ Node = (*Variable)(nil)
	_ Node = (*BinaryOp)(nil)
	_ Node = (*UnaryOp)(nil)
	_ Node = (*FunctionCall)(nil)
	_ Node = (*Factorial)(nil)
	_ Node = (*NCr)(nil)
	_ Node = (*NPr)(nil)
	_ Node = (*Diff)(nil)
	_ Node = (*Integrate)(nil)
)

func render(n Node) string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Number) String() string       { return render(n) }
func (n *Variable) String() string     { return render(n) }
func (n *BinaryOp) String() string     { return render(n) }
func (n *UnaryOp) String() string      { return render(n) }
func (n *FunctionCall) String() string { return render(n) }
func (n *Factorial) String() string    { return render(n) }
func (n *NCr) String() string          { return render(n) }
func (n *NPr) String() string          { return render(n) }
func (n *Diff) String() string         { return render(n) }
func (n *Integrate) String() string    { return render(n) }

func (n *Number) fmt(b *strings.Builder) {
	b.WriteString(formatNum(n.Value))
}

func (n *Variable) fmt(b *strings.Builder) {
	b.WriteString(n.Name)
}

func (n *BinaryOp) fmt(b *strings.Builder) {
	b.WriteByte('(')
	n.Left.fmt(b)
	b.WriteByte(' ')
	b.WriteString(string(n.Op))
	b.WriteByte(' ')
	n.Right.fmt(b)
	b.WriteByte(')')
}

func (n *UnaryOp) fmt(b *strings.Builder) {
	if n.Op == OpFact {
		b.WriteByte('(')
		n.X.fmt(b)
		b.WriteString(")!")
		return
	}
	// Negation is spelled as the minus sign so that the rendering parses.
	b.WriteString("-(")
	n.X.fmt(b)
	b.WriteByte(')')
}

func (n *FunctionCall) fmt(b *strings.Builder) {
	b.WriteString(n.Name)
	b.WriteByte('(')
	for i, arg := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.fmt(b)
	}
	b.WriteByte(')')
}

func (n *Factorial) fmt(b *strings.Builder) {
	b.WriteByte('(')
	n.X.fmt(b)
	b.WriteString(")!")
}

func (n *NCr) fmt(b *strings.Builder) {
	fmtpair(b, nameNCr, n.N, n.R)
}

func (n *NPr) fmt(b *strings.Builder) {
	fmtpair(b, nameNPr, n.N, n.R)
}

func fmtpair(b *strings.Builder, name string, x, y Node) {
	b.WriteString(name)
	b.WriteByte('(')
	x.fmt(b)
	b.WriteString(", ")
	y.fmt(b)
	b.WriteByte(')')
}

func (n *Diff) fmt(b *strings.Builder) {
	b.WriteString(nameDiff + "(")
	n.Expr.fmt(b)
	b.WriteString(", " + n.Var + ", " + formatNum(n.Point) + ")")
}

func (n *Integrate) fmt(b *strings.Builder) {
	b.WriteString(nameIntegrate + "(")
	n.Expr.fmt(b)
	b.WriteString(", " + n.Var + ", " + formatNum(n.Lower) + ", " + formatNum(n.Upper) + ")")
}

func (n *Number) children() []Node       { return nil }
func (n *Variable) children() []Node     { return nil }
func (n *BinaryOp) children() []Node     { return []Node{n.Left, n.Right} }
func (n *UnaryOp) children() []Node      { return []Node{n.X} }
func (n *FunctionCall) children() []Node { return n.Args }
func (n *Factorial) children() []Node    { return []Node{n.X} }
func (n *NCr) children() []Node          { return []Node{n.N, n.R} }
func (n *NPr) children() []Node          { return []Node{n.N, n.R} }
func (n *Diff) children() []Node         { return []Node{n.Expr} }
func (n *Integrate) children() []Node    { return []Node{n.Expr} }

// Walk calls fn for n and then, if fn returns true, for each of n's children
// in order.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children() {
		Walk(c, fn)
	}
}

// formatNum formats a number without an exponent so that the tokenizer can
// read it back exactly. Infinities and NaN are spelled as expressions that
// evaluate to them.
func formatNum(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "(2 ^ 1024)"
	case math.IsInf(v, -1):
		return "-(2 ^ 1024)"
	case math.IsNaN(v):
		return "((2 ^ 1024) - (2 ^ 1024))"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
