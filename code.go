package sciexpr

import (
	"fmt"
	"strconv"
)

// Generate emits three-address pseudo-code for n, appending one line per node
// in post-order, and returns the temporary that names n's value. Temporaries
// are numbered from zero and keep counting across calls until ClearCode.
// The subtree of a diff or integrate node is not expanded; the node is
// emitted as a single line holding its rendering. If n contains a node the
// evaluator does not recognize, the result is an *UnknownError and the lines
// emitted for n so far are kept.
func (ev *Evaluator) Generate(n Node) (string, error) {
	var rhs string
	switch n := n.(type) {
	case *Number:
		rhs = formatNum(n.Value)
	case *Variable:
		rhs = n.Name
	case *BinaryOp:
		l, r, err := ev.genboth(n.Left, n.Right)
		if err != nil {
			return "", err
		}
		switch n.Op {
		case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		default:
			return "", &UnknownError{Name: string(n.Op)}
		}
		rhs = l + " " + string(n.Op) + " " + r
	case *UnaryOp:
		x, err := ev.Generate(n.X)
		if err != nil {
			return "", err
		}
		switch n.Op {
		case OpFact:
			rhs = x + "!"
		case OpNeg:
			rhs = string(n.Op) + " " + x
		default:
			return "", &UnknownError{Name: string(n.Op)}
		}
	case *FunctionCall:
		if _, ok := funcs[n.Name]; !ok || len(n.Args) != 1 {
			return "", &UnknownError{Name: n.Name}
		}
		rhs = n.Name + "("
		for i, arg := range n.Args {
			if i > 0 {
				rhs += ", "
			}
			t, err := ev.Generate(arg)
			if err != nil {
				return "", err
			}
			rhs += t
		}
		rhs += ")"
	case *Factorial:
		x, err := ev.Generate(n.X)
		if err != nil {
			return "", err
		}
		rhs = x + "!"
	case *NCr:
		a, b, err := ev.genboth(n.N, n.R)
		if err != nil {
			return "", err
		}
		rhs = nameNCr + "(" + a + ", " + b + ")"
	case *NPr:
		a, b, err := ev.genboth(n.N, n.R)
		if err != nil {
			return "", err
		}
		rhs = nameNPr + "(" + a + ", " + b + ")"
	case *Diff, *Integrate:
		rhs = n.String()
	case nil:
		return "", &UnknownError{Name: "<nil>"}
	default:
		return "", &UnknownError{Name: fmt.Sprintf("%T", n)}
	}
	t := "t" + strconv.Itoa(ev.temp)
	ev.temp++
	ev.code = append(ev.code, t+" = "+rhs)
	return t, nil
}

func (ev *Evaluator) genboth(x, y Node) (string, string, error) {
	a, err := ev.Generate(x)
	if err != nil {
		return "", "", err
	}
	b, err := ev.Generate(y)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

// Code returns the pseudo-code emitted since the last ClearCode.
func (ev *Evaluator) Code() []string {
	return append(([]string)(nil), ev.code...)
}

// ClearCode discards emitted pseudo-code and restarts temporary numbering.
func (ev *Evaluator) ClearCode() {
	ev.code = ev.code[:0]
	ev.temp = 0
}
