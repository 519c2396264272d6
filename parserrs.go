package sciexpr

import (
	"errors"
	"strconv"
)

// Kind classifies the errors this package returns.
type Kind int8

const (
	// KindNone is the kind of nil and of errors from outside this package.
	KindNone Kind = iota
	// KindLex is an unrecognized character.
	KindLex
	// KindParse is a malformed expression.
	KindParse
	// KindEval is a failure computing a well-formed expression.
	KindEval
	// KindFactorial is a factorial of a negative, non-integral, or too large
	// argument.
	KindFactorial
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindParse:
		return "ParseError"
	case KindEval:
		return "EvalError"
	case KindFactorial:
		return "FactorialError"
	default:
		return "Error"
	}
}

// KindOf returns the kind of the outermost error in err's chain that belongs
// to this package.
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindNone
}

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Open is true if the unmatched parenthesis is an opening one.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "open bracket ( with no close bracket")
	}
	return errpos(err.Col, "close bracket ) with no open bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Kind() Kind {
	return KindParse
}

// SeparatorError is an error indicating a comma outside of a function's
// argument list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, `invalid occurrence of separator ","`)
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

func (err *SeparatorError) Kind() Kind {
	return KindParse
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the function name or of the token that ended
	// the call.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the call supplied, or -1 if the
	// function name was not followed by an argument list.
	Len int
}

func (err *CallError) Error() string {
	if err.Len < 0 {
		return errpos(err.Col, "missing argument list for "+err.Func)
	}
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

func (err *CallError) Kind() Kind {
	return KindParse
}

// ArgumentError is an error indicating an invalid argument to diff or
// integrate: a variable argument that is not a bare variable name, or a
// point or bound that cannot be resolved to a constant. It implements
// InputError.
type ArgumentError struct {
	// Col is the position of the function name.
	Col int
	// Func is diff or integrate.
	Func string
	// Arg is the 1-based index of the argument.
	Arg int
	// Err is the evaluation error that prevented resolving the argument, if
	// any.
	Err error
}

func (err *ArgumentError) Error() string {
	s := "argument " + strconv.Itoa(err.Arg) + " of " + err.Func
	if err.Err == nil {
		return errpos(err.Col, s+" must be a variable")
	}
	return errpos(err.Col, s+" is not constant: "+err.Err.Error())
}

func (err *ArgumentError) Unwrap() error {
	return err.Err
}

func (err *ArgumentError) Pos() int {
	return err.Col
}

func (err *ArgumentError) Kind() Kind {
	return KindParse
}

// OperandError is an error indicating an operator or function without enough
// operands. It implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator or function name.
	Operator string
	// Want is the number of operands the operator requires.
	Want int
}

func (err *OperandError) Error() string {
	return errpos(err.Col, strconv.Quote(err.Operator)+" requires "+strconv.Itoa(err.Want)+" operands")
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Kind() Kind {
	return KindParse
}

// EmptyExpressionError is an error indicating an empty expression or
// subexpression, or operands left over without an operator joining them.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
	// Roots is the number of disconnected subexpressions, if more than one.
	Roots int
}

func (err *EmptyExpressionError) Error() string {
	if err.Roots > 1 {
		return errpos(err.Col, strconv.Itoa(err.Roots)+" expressions without an operator between them")
	}
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Kind() Kind {
	return KindParse
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*ArgumentError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
