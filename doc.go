// Package sciexpr implements a compiler and evaluator for scientific
// calculator expressions.
//
// An expression passes through several stages, each of which is exposed:
// Tokenize splits the source into tokens, ToPostfix reorders them with the
// shunting-yard algorithm, and BuildTree assembles the postfix sequence into a
// syntax tree. An Evaluator computes the value of a tree and can also emit a
// three-address pseudo-code listing for it. Compile runs every stage and
// collects the results in a Report.
//
// The syntax is the usual infix notation with + - * / % ^, unary minus, and
// the postfix factorial "!". "^" is right-associative, and unary minus binds
// more tightly than any binary operator, so "-2^2" is 4. A factorial ends an
// operand, so "5!-3" is 117. The functions sin, cos, tan, asin, acos, atan,
// log (base 10), ln, exp, sqrt, cbrt, and abs take one argument; nCr and nPr
// take two. The constants pi (also spelled π) and e are predefined. Any other
// name is a variable.
//
// Syntax trees render with every operation parenthesized, and the rendering
// parses back to an equivalent tree. Negation renders as "-(x)" for that
// reason, although the pseudo-code from Generate spells it "neg".
//
// Two functions perform numerical calculus. "diff(f, x, p)" is the derivative
// of f with respect to x at the point p, found by a central difference.
// "integrate(f, x, a, b)" is the definite integral of f over x from a to b,
// found by the composite trapezoidal rule or, with Quadrature(Simpson), by
// Simpson's rule. The point and bounds must be constant expressions. Both
// sample f by setting x in the evaluator's environment, and by default they
// leave the last sampled value there:
//
//	env := sciexpr.NewEnv().Set("x", 10)
//	ev := sciexpr.NewEvaluator(env)
//	ev.Eval(tree) // tree is diff(x^2, x, 3)
//	env.Lookup("x") // 2.9999, not 10
//
// Use RestoreBindings(true) to keep the environment unchanged.
package sciexpr
