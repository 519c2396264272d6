package main

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	sciexpr "github.com/Shriram-M-D/scientific-expression-compiler"
)

// num is a float64 that encodes non-finite values as JSON strings.
type num float64

func (n num) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte(strconv.Quote(strconv.FormatFloat(v, 'g', -1, 64))), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func numptr(v float64) *num {
	n := num(v)
	return &n
}

type tokenJSON struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	NumValue *num   `json:"numValue,omitempty"`
}

// nodeJSON is a syntax tree node tagged with its type.
type nodeJSON struct {
	Type       string      `json:"type"`
	Value      *num        `json:"value,omitempty"`
	Name       string      `json:"name,omitempty"`
	Op         string      `json:"op,omitempty"`
	Left       *nodeJSON   `json:"left,omitempty"`
	Right      *nodeJSON   `json:"right,omitempty"`
	Operand    *nodeJSON   `json:"operand,omitempty"`
	Arguments  []*nodeJSON `json:"arguments,omitempty"`
	Variable   string      `json:"variable,omitempty"`
	Point      *num        `json:"point,omitempty"`
	LowerBound *num        `json:"lowerBound,omitempty"`
	UpperBound *num        `json:"upperBound,omitempty"`
	Expression *nodeJSON   `json:"expression,omitempty"`
}

type stepJSON struct {
	X    num    `json:"x"`
	FX   num    `json:"fx"`
	Desc string `json:"description"`
}

type reportJSON struct {
	Success          bool        `json:"success"`
	Expression       string      `json:"expression"`
	Tokens           []tokenJSON `json:"tokens"`
	Postfix          []tokenJSON `json:"postfix"`
	OperatorStack    []string    `json:"operatorStack"`
	AST              *nodeJSON   `json:"ast"`
	IntermediateCode []string    `json:"intermediateCode"`
	Result           num         `json:"result"`
	CalculusType     string      `json:"calculusType"`
	CalculusSteps    []stepJSON  `json:"calculusSteps"`
}

type errorJSON struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Position int    `json:"position,omitempty"`
}

func newReportJSON(r *sciexpr.Report) reportJSON {
	out := reportJSON{
		Success:          true,
		Expression:       r.Expression,
		Tokens:           newTokensJSON(r.Tokens),
		Postfix:          newTokensJSON(r.Postfix),
		OperatorStack:    append([]string{}, r.Pushes...),
		AST:              newNodeJSON(r.Tree),
		IntermediateCode: append([]string{}, r.Code...),
		Result:           num(r.Result),
		CalculusType:     r.Calculus.String(),
		CalculusSteps:    make([]stepJSON, len(r.Steps)),
	}
	for i, s := range r.Steps {
		out.CalculusSteps[i] = stepJSON{X: num(s.X), FX: num(s.FX), Desc: s.Desc}
	}
	return out
}

func newTokensJSON(toks []sciexpr.Token) []tokenJSON {
	out := make([]tokenJSON, len(toks))
	for i, tok := range toks {
		out[i] = tokenJSON{
			Type:  strings.ToUpper(tok.Kind.String()),
			Value: tok.Text,
		}
		if tok.Kind == sciexpr.TokenNumber || tok.Kind == sciexpr.TokenConstant {
			out[i].NumValue = numptr(tok.Value)
		}
	}
	return out
}

func newNodeJSON(n sciexpr.Node) *nodeJSON {
	switch n := n.(type) {
	case *sciexpr.Number:
		return &nodeJSON{Type: "NUMBER", Value: numptr(n.Value)}
	case *sciexpr.Variable:
		return &nodeJSON{Type: "VARIABLE", Name: n.Name}
	case *sciexpr.BinaryOp:
		return &nodeJSON{Type: "BINARY_OP", Op: string(n.Op), Left: newNodeJSON(n.Left), Right: newNodeJSON(n.Right)}
	case *sciexpr.UnaryOp:
		return &nodeJSON{Type: "UNARY_OP", Op: string(n.Op), Operand: newNodeJSON(n.X)}
	case *sciexpr.Factorial:
		return &nodeJSON{Type: "FACTORIAL", Op: string(sciexpr.OpFact), Operand: newNodeJSON(n.X)}
	case *sciexpr.FunctionCall:
		j := &nodeJSON{Type: "FUNCTION_CALL", Name: n.Name}
		for _, arg := range n.Args {
			j.Arguments = append(j.Arguments, newNodeJSON(arg))
		}
		return j
	case *sciexpr.NCr:
		return &nodeJSON{Type: "NCR", Name: "nCr", Arguments: []*nodeJSON{newNodeJSON(n.N), newNodeJSON(n.R)}}
	case *sciexpr.NPr:
		return &nodeJSON{Type: "NPR", Name: "nPr", Arguments: []*nodeJSON{newNodeJSON(n.N), newNodeJSON(n.R)}}
	case *sciexpr.Diff:
		return &nodeJSON{Type: "DIFF_NODE", Variable: n.Var, Point: numptr(n.Point), Expression: newNodeJSON(n.Expr)}
	case *sciexpr.Integrate:
		return &nodeJSON{
			Type:       "INTEGRATE_NODE",
			Variable:   n.Var,
			LowerBound: numptr(n.Lower),
			UpperBound: numptr(n.Upper),
			Expression: newNodeJSON(n.Expr),
		}
	}
	return nil
}

func newErrorJSON(err error) errorJSON {
	out := errorJSON{Error: err.Error(), Kind: sciexpr.KindOf(err).String()}
	var in sciexpr.InputError
	if errors.As(err, &in) {
		out.Position = in.Pos()
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}
