package sciexpr

// expr     = term { ("+" | "-") term }
// term     = power { ("*" | "/" | "%") power }
// power    = unary [ "^" power ]
// unary    = "-" unary | postfix
// postfix  = primary { "!" }
// primary  = number | constant | variable | func "(" expr { "," expr } ")" | "(" expr ")"

// Expr is a parsed expression along with the intermediate forms the parser
// produced on the way to it.
type Expr struct {
	root    Node
	tokens  []Token
	postfix []Token
	pushes  []string
	// names is the list of free variable names used in the expression.
	names []string
}

// Parse tokenizes and parses an expression.
func Parse(src string) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses the output of Tokenize.
func ParseTokens(toks []Token) (*Expr, error) {
	postfix, pushes, err := ToPostfix(toks)
	if err != nil {
		return nil, err
	}
	root, err := BuildTree(postfix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	freevars(root, nil, seen)
	ex := Expr{
		root:    root,
		tokens:  toks,
		postfix: postfix,
		pushes:  pushes,
		names:   make([]string, 0, len(seen)),
	}
	for k := range seen {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// frame tracks one open parenthesis during the conversion to postfix.
type frame struct {
	// fn is the function whose argument list the parenthesis opens. Its Kind
	// is TokenFunction only for argument lists.
	fn Token
	// args is the number of arguments seen so far.
	args int
}

func (f frame) call() bool {
	return f.fn.Kind == TokenFunction
}

// ToPostfix reorders tokens into postfix order using the shunting-yard
// algorithm. The second result lists the text of every operator and function
// pushed to the operator stack, in order. The postfix sequence ends with the
// End token.
func ToPostfix(toks []Token) ([]Token, []string, error) {
	var (
		out    []Token
		ops    []Token
		frames []frame
		pushes []string
		// expect is true where the next token must start an operand.
		expect = true
		// call is the function token awaiting its argument list.
		call *Token
		prev = TokenEnd
		end  = Token{Kind: TokenEnd}
	)
	push := func(tok Token) {
		ops = append(ops, tok)
		if tok.Kind != TokenLParen {
			pushes = append(pushes, tok.Text)
		}
	}
	pop := func() Token {
		tok := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		return tok
	}
loop:
	for _, tok := range toks {
		if call != nil && tok.Kind != TokenLParen {
			return nil, nil, &CallError{Col: call.Pos, Func: call.Text, Len: -1}
		}
		switch tok.Kind {
		case TokenNumber, TokenConstant, TokenVariable:
			out = append(out, tok)
			expect = false
		case TokenFunction:
			push(tok)
			fn := tok
			call = &fn
		case TokenComma:
			if len(frames) == 0 || !frames[len(frames)-1].call() {
				return nil, nil, &SeparatorError{Col: tok.Pos}
			}
			if expect {
				return nil, nil, &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
			}
			for ops[len(ops)-1].Kind != TokenLParen {
				out = append(out, pop())
			}
			frames[len(frames)-1].args++
			expect = true
		case TokenLParen:
			f := frame{args: 1}
			if call != nil {
				f.fn = *call
				call = nil
			}
			frames = append(frames, f)
			push(tok)
			expect = true
		case TokenRParen:
			if len(frames) == 0 {
				return nil, nil, &BracketError{Col: tok.Pos}
			}
			f := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			if expect {
				if !f.call() || prev != TokenLParen {
					return nil, nil, &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
				}
				f.args = 0
			}
			for ops[len(ops)-1].Kind != TokenLParen {
				out = append(out, pop())
			}
			pop()
			if f.call() {
				if want := arity(f.fn.Text); f.args != want {
					return nil, nil, &CallError{Col: f.fn.Pos, Func: f.fn.Text, Len: f.args}
				}
				out = append(out, pop())
			}
			expect = false
		case TokenEnd:
			end = tok
			break loop
		default:
			if tok.Kind == TokenMinus && expect {
				push(Token{Kind: TokenFunction, Text: negName, Pos: tok.Pos})
				break
			}
			if expect {
				want := 2
				if tok.Kind == TokenFactorial {
					want = 1
				}
				return nil, nil, &OperandError{Col: tok.Pos, Operator: tok.Text, Want: want}
			}
			for len(ops) > 0 && binds(ops[len(ops)-1], tok) {
				out = append(out, pop())
			}
			push(tok)
			// A factorial completes an operand, so the minus in 5!-3 is
			// binary as the grammar has it, not a negation of 3.
			expect = tok.Kind != TokenFactorial
		}
		prev = tok.Kind
	}
	for len(ops) > 0 {
		tok := pop()
		if tok.Kind == TokenLParen {
			return nil, nil, &BracketError{Col: tok.Pos, Open: true}
		}
		out = append(out, tok)
	}
	return append(out, end), pushes, nil
}

// binds reports whether the operator on top of the stack must be output
// before cur is pushed. Unary minus binds more tightly than every binary
// operator but less tightly than the postfix factorial.
func binds(top, cur Token) bool {
	if top.isNeg() {
		return cur.Kind != TokenFactorial
	}
	if !top.isOperator() {
		return false
	}
	if cur.Right {
		return cur.Prec < top.Prec
	}
	return cur.Prec <= top.Prec
}

// BuildTree builds a syntax tree from postfix tokens. The points of diff and
// bounds of integrate are evaluated immediately in an environment holding
// only the named constants.
func BuildTree(postfix []Token) (Node, error) {
	var stack []Node
	col := 1
	popn := func(tok Token, name string, n int) ([]Node, error) {
		if len(stack) < n {
			return nil, &OperandError{Col: tok.Pos, Operator: name, Want: n}
		}
		r := append([]Node(nil), stack[len(stack)-n:]...)
		stack = stack[:len(stack)-n]
		return r, nil
	}
	for _, tok := range postfix {
		var n Node
		switch tok.Kind {
		case TokenEnd:
			col = tok.Pos
			continue
		case TokenNumber, TokenConstant:
			n = &Number{Value: tok.Value}
		case TokenVariable:
			n = &Variable{Name: tok.Text}
		case TokenFactorial:
			x, err := popn(tok, tok.Text, 1)
			if err != nil {
				return nil, err
			}
			n = &Factorial{X: x[0]}
		case TokenFunction:
			x, err := popn(tok, tok.Text, arity(tok.Text))
			if err != nil {
				return nil, err
			}
			n, err = buildCall(tok, x)
			if err != nil {
				return nil, err
			}
		case TokenLParen:
			return nil, &BracketError{Col: tok.Pos, Open: true}
		case TokenRParen:
			return nil, &BracketError{Col: tok.Pos}
		case TokenComma:
			return nil, &SeparatorError{Col: tok.Pos}
		default:
			x, err := popn(tok, tok.Text, 2)
			if err != nil {
				return nil, err
			}
			n = &BinaryOp{Op: Op(tok.Text), Left: x[0], Right: x[1]}
		}
		stack = append(stack, n)
	}
	switch len(stack) {
	case 0:
		return nil, &EmptyExpressionError{Col: col}
	case 1:
		return stack[0], nil
	default:
		return nil, &EmptyExpressionError{Col: col, Roots: len(stack)}
	}
}

// buildCall creates the node for a function token from its arguments, given
// in source order.
func buildCall(tok Token, args []Node) (Node, error) {
	switch tok.Text {
	case negName:
		return &UnaryOp{Op: OpNeg, X: args[0]}, nil
	case nameNCr:
		return &NCr{N: args[0], R: args[1]}, nil
	case nameNPr:
		return &NPr{N: args[0], R: args[1]}, nil
	case nameDiff, nameIntegrate:
		v, ok := args[1].(*Variable)
		if !ok {
			return nil, &ArgumentError{Col: tok.Pos, Func: tok.Text, Arg: 2}
		}
		consts := make([]float64, 0, 2)
		for i, a := range args[2:] {
			x, err := fold(a)
			if err != nil {
				return nil, &ArgumentError{Col: tok.Pos, Func: tok.Text, Arg: i + 3, Err: err}
			}
			consts = append(consts, x)
		}
		if tok.Text == nameDiff {
			return &Diff{Expr: args[0], Var: v.Name, Point: consts[0]}, nil
		}
		return &Integrate{Expr: args[0], Var: v.Name, Lower: consts[0], Upper: consts[1]}, nil
	default:
		return &FunctionCall{Name: tok.Text, Args: args}, nil
	}
}

// fold evaluates an auxiliary argument in an environment holding only the
// named constants.
func fold(n Node) (float64, error) {
	return NewEvaluator(ConstEnv()).Eval(n)
}

// freevars adds the names of variables in n that are not bound by an
// enclosing diff or integrate to seen.
func freevars(n Node, bound []string, seen map[string]bool) {
	switch n := n.(type) {
	case *Variable:
		for _, b := range bound {
			if b == n.Name {
				return
			}
		}
		seen[n.Name] = true
	case *Diff:
		freevars(n.Expr, append(bound, n.Var), seen)
	case *Integrate:
		freevars(n.Expr, append(bound, n.Var), seen)
	default:
		for _, c := range n.children() {
			freevars(c, bound, seen)
		}
	}
}

// Root returns the root of the syntax tree.
func (e *Expr) Root() Node {
	return e.root
}

// Tokens returns the tokens the expression was parsed from.
func (e *Expr) Tokens() []Token {
	return append(([]Token)(nil), e.tokens...)
}

// Postfix returns the tokens of the expression in postfix order.
func (e *Expr) Postfix() []Token {
	return append(([]Token)(nil), e.postfix...)
}

// Pushes returns the text of each operator and function pushed to the
// operator stack during parsing, in order.
func (e *Expr) Pushes() []string {
	return append(([]string)(nil), e.pushes...)
}

// Vars returns the variable names that must be defined to evaluate the
// expression. The variable of a diff or integrate is not included unless it
// is also used outside of it.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression with every
// operation parenthesized.
func (e *Expr) String() string {
	return e.root.String()
}
