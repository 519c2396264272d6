package sciexpr

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a single lexical unit of an expression. Tokens are values and are
// never modified after the tokenizer produces them.
type Token struct {
	// Kind is the token's tag.
	Kind TokenKind
	// Text is the token as spelled in the input.
	Text string
	// Value is the numeric value of a number or named constant.
	Value float64
	// Prec is the binding strength of an operator: 1 for + and -, 2 for *, /
	// and %, 3 for ^, 4 for postfix !, and 0 for everything else.
	Prec int
	// Right is true only for the right-associative ^.
	Right bool
	// Pos is the 1-based rune column where the token starts.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// isOperator reports whether t is a binary or postfix operator.
func (t Token) isOperator() bool {
	switch t.Kind {
	case TokenPlus, TokenMinus, TokenMultiply, TokenDivide, TokenModulo, TokenPower, TokenFactorial:
		return true
	}
	return false
}

// isNeg reports whether t is the synthetic unary minus the parser creates.
func (t Token) isNeg() bool {
	return t.Kind == TokenFunction && t.Text == negName
}

// TokenKind is the tag of a token.
type TokenKind int8

const (
	TokenNumber TokenKind = iota
	TokenPlus
	TokenMinus
	TokenMultiply
	TokenDivide
	TokenModulo
	TokenPower
	TokenLParen
	TokenRParen
	TokenComma
	TokenFactorial
	// TokenFunction is one of the fixed function keywords.
	TokenFunction
	// TokenConstant is a named constant, pi or e.
	TokenConstant
	// TokenVariable is any other identifier.
	TokenVariable
	// TokenEnd terminates every token sequence.
	TokenEnd
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenKind -trimprefix=Token

// punct maps single-rune operators and punctuation to their tokens.
var punct = map[rune]Token{
	'+': {Kind: TokenPlus, Text: "+", Prec: 1},
	'-': {Kind: TokenMinus, Text: "-", Prec: 1},
	'*': {Kind: TokenMultiply, Text: "*", Prec: 2},
	'/': {Kind: TokenDivide, Text: "/", Prec: 2},
	'%': {Kind: TokenModulo, Text: "%", Prec: 2},
	'^': {Kind: TokenPower, Text: "^", Prec: 3, Right: true},
	'!': {Kind: TokenFactorial, Text: "!", Prec: 4},
	'(': {Kind: TokenLParen, Text: "("},
	')': {Kind: TokenRParen, Text: ")"},
	',': {Kind: TokenComma, Text: ","},
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peekDigit reports whether the next rune is a decimal digit without
// consuming it.
func (l *lexer) peekDigit() bool {
	r, err := l.readRune()
	if err != nil {
		return false
	}
	l.unreadRune()
	return isDigit(r)
}

// next scans the next token from the input. At the end of the input, the
// result is an End token.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Token{Kind: TokenEnd, Pos: l.rune + 1}, nil
			}
			return Token{}, err
		}
		pos := l.rune
		switch {
		case unicode.IsSpace(r):
			continue
		case isDigit(r), r == '.' && l.peekDigit():
			l.buf.WriteRune(r)
			if err := l.scanNum(r == '.'); err != nil {
				return Token{}, err
			}
			text := l.buf.String()
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				// Only overflow can get here, and ParseFloat gives ±Inf for it.
				if !errors.Is(err, strconv.ErrRange) {
					return Token{}, &LexError{Text: text, Col: pos}
				}
			}
			return Token{Kind: TokenNumber, Text: text, Value: v, Pos: pos}, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return Token{}, err
			}
			return ident(l.buf.String(), pos), nil
		default:
			tok, ok := punct[r]
			if !ok {
				return Token{}, &LexError{Text: string(r), Col: pos}
			}
			tok.Pos = pos
			return tok, nil
		}
	}
}

// scanNum scans the rest of a number whose first rune is already in the
// buffer. Numbers have at most one decimal point; a second point ends the
// number.
func (l *lexer) scanNum(dot bool) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case isDigit(r):
		case r == '.' && !dot:
			dot = true
		default:
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// ident classifies an identifier as a function keyword, a named constant, or
// a variable, in that order.
func ident(text string, pos int) Token {
	if _, ok := funcs[text]; ok {
		return Token{Kind: TokenFunction, Text: text, Pos: pos}
	}
	switch text {
	case nameDiff, nameIntegrate, nameNCr, nameNPr:
		return Token{Kind: TokenFunction, Text: text, Pos: pos}
	}
	if v, ok := constants[text]; ok {
		return Token{Kind: TokenConstant, Text: text, Value: v, Pos: pos}
	}
	return Token{Kind: TokenVariable, Text: text, Pos: pos}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// Tokenize converts an expression into its tokens. The result always ends
// with a TokenEnd token.
func Tokenize(src string) ([]Token, error) {
	return tokenize(strings.NewReader(src))
}

func tokenize(src io.RuneScanner) ([]Token, error) {
	scan := lex(src)
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEnd {
			return toks, nil
		}
	}
}

// LexError indicates a character that does not begin any token. It
// implements InputError.
type LexError struct {
	// Text is the offending character.
	Text string
	// Col is the 1-based rune column of the character.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "invalid character "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Kind() Kind {
	return KindLex
}
