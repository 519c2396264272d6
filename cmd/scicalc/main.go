// Command scicalc compiles and evaluates a scientific expression, printing its
// result or, on request, every stage of its compilation.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	sciexpr "github.com/Shriram-M-D/scientific-expression-compiler"
)

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		asJSON, _ := cmd.Flags().GetBool("json")
		writeError(os.Stderr, err, asJSON)
		os.Exit(1)
	}
}

// maxIntervals bounds --intervals.
const maxIntervals = 1_000_000

// flags holds the command-line configuration shared by the subcommands.
type flags struct {
	in        string
	vars      []string
	format    string
	intervals int
	simpson   bool
	restore   bool
	json      bool
	echo      bool
	verbose   bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "scicalc [expression]",
		Short: "Compile and evaluate a scientific expression.",
		Long: `Compile and evaluate a scientific expression.

The expression is taken from the first argument, or else from the first line
of the input file or standard input:

	scicalc 'integrate(sin(x), x, 0, pi)' --simpson --json
	echo 'diff(x^2, x, 3)' | scicalc --echo

An expression that starts with a minus sign must follow "--" so that it is
not read as a flag:

	scicalc -- -3+4
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(args, stdin, stdout, stderr)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.in, "in", "", "input file (default stdin if no expression is given)")
	fs.StringArrayVar(&f.vars, "var", nil, "name=value variable definition (any number of times)")
	fs.StringVar(&f.format, "fmt", "%g", "result formatting string")
	fs.IntVar(&f.intervals, "intervals", sciexpr.DefaultIntervals, "number of subintervals for integrals")
	fs.BoolVar(&f.simpson, "simpson", false, "integrate with Simpson's rule instead of the trapezoidal rule")
	fs.BoolVar(&f.restore, "restore", false, "restore variables sampled by diff and integrate")
	fs.BoolVar(&f.json, "json", false, "print the full compilation report as JSON")
	fs.BoolVar(&f.echo, "echo", false, "print every compilation stage")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages to stderr")
	cmd.AddCommand(newServeCmd(&f, stderr))
	return cmd
}

func (f *flags) run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := f.options(newLogger(stderr, f.verbose))
	if err != nil {
		return err
	}
	src, err := readExpr(args, f.in, stdin)
	if err != nil {
		return err
	}
	r, err := sciexpr.Compile(src, opts...)
	if err != nil {
		return errors.Wrapf(err, "compiling %q", src)
	}
	switch {
	case f.json:
		return writeJSON(stdout, newReportJSON(r))
	case f.echo:
		return writeText(stdout, r)
	}
	_, err = fmt.Fprintf(stdout, f.format+"\n", r.Result)
	return err
}

// options converts the flags to evaluator options. Variable values may be
// any expression that does not use variables.
func (f *flags) options(l sciexpr.Logger) ([]sciexpr.EvalOption, error) {
	var errs *multierror.Error
	vars := make(map[string]float64, len(f.vars))
	for _, d := range f.vars {
		name, val, ok := strings.Cut(d, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			errs = multierror.Append(errs, errors.Errorf(`variable definitions must be "name=value", not %q`, d))
			continue
		}
		v, err := sciexpr.EvalString(val)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "setting %s", name))
			continue
		}
		vars[name] = v
	}
	if f.intervals > maxIntervals {
		errs = multierror.Append(errs, errors.Errorf("--intervals must be at most %d, not %d", maxIntervals, f.intervals))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	opts := []sciexpr.EvalOption{
		sciexpr.SetVars(vars),
		sciexpr.Intervals(f.intervals),
		sciexpr.RestoreBindings(f.restore),
		sciexpr.Log(l),
	}
	if f.simpson {
		opts = append(opts, sciexpr.Quadrature(sciexpr.Simpson))
	}
	return opts, nil
}

func newLogger(w io.Writer, verbose bool) *logger.Logger {
	return logger.NewFromOptions(&logger.Options{
		SyncWriter:   syncWriter{w},
		IncludeDebug: verbose,
	})
}

// syncWriter adapts an io.Writer that has nothing to flush to
// logger.SyncWriter.
type syncWriter struct {
	io.Writer
}

func (s syncWriter) Sync() error {
	if f, ok := s.Writer.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

// readExpr returns the expression to compile: the first argument if there is
// one, otherwise the first line of the named file, or of stdin if the name is
// empty or "-".
func readExpr(args []string, name string, stdin io.Reader) (string, error) {
	var src string
	if len(args) > 0 {
		src = args[0]
	} else {
		in := stdin
		if name != "" && name != "-" {
			f, err := os.Open(name)
			if err != nil {
				return "", errors.Wrap(err, "opening input")
			}
			defer f.Close()
			in = f
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", errors.Wrap(err, "reading expression")
		}
		src = line
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return "", errors.New("empty expression")
	}
	return src, nil
}

func writeText(w io.Writer, r *sciexpr.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "expression: %s\n", r.Expression)
	fmt.Fprintf(&b, "tokens:     %s\n", tokenTexts(r.Tokens))
	fmt.Fprintf(&b, "postfix:    %s\n", tokenTexts(r.Postfix))
	fmt.Fprintf(&b, "pushes:     %s\n", strings.Join(r.Pushes, " "))
	fmt.Fprintf(&b, "tree:       %s\n", r.Tree)
	b.WriteString("code:\n")
	for _, line := range r.Code {
		fmt.Fprintf(&b, "\t%s\n", line)
	}
	fmt.Fprintf(&b, "result:     %g\n", r.Result)
	if r.Calculus != sciexpr.CalcNone {
		fmt.Fprintf(&b, "%s:\n", r.Calculus)
		for _, s := range r.Steps {
			fmt.Fprintf(&b, "\t%s\n", s.Desc)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func tokenTexts(toks []sciexpr.Token) string {
	s := make([]string, len(toks))
	for i, tok := range toks {
		if tok.Kind == sciexpr.TokenEnd {
			s[i] = "END"
			continue
		}
		s[i] = tok.Text
	}
	return strings.Join(s, " ")
}

func writeError(w io.Writer, err error, asJSON bool) {
	if asJSON {
		if werr := writeJSON(w, newErrorJSON(err)); werr == nil {
			return
		}
	}
	fmt.Fprintf(w, "%v: %v\n", sciexpr.KindOf(err), err)
}
