package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	sciexpr "github.com/Shriram-M-D/scientific-expression-compiler"
)

// defaultCompileTimeout bounds the time spent evaluating one request.
const defaultCompileTimeout = 10 * time.Second

// maxCost is the largest Evaluator.Cost the server accepts. A compilation
// that times out keeps running, so the cost must also be bounded.
const maxCost = 1e8

func newServeCmd(f *flags, stderr io.Writer) *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP.",
		Long: `Serve the compiler over HTTP.

	POST /api/compile  {"expression": "sin(pi/4) + cos(pi/4)"}
	GET  /api/health
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(stderr, f.verbose)
			opts, err := f.options(log)
			if err != nil {
				return err
			}
			s := &server{log: log, opts: opts, timeout: timeout}
			srv := &http.Server{
				Addr:              addr,
				Handler:           s.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			log.Infof("Ready to serve on %s", addr)
			return errors.Wrap(srv.ListenAndServe(), "serving")
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "HTTP service address")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultCompileTimeout, "time limit for compiling one expression")
	// Evaluation flags apply to every request.
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "name=value variable definition (any number of times)")
	cmd.Flags().IntVar(&f.intervals, "intervals", sciexpr.DefaultIntervals, "number of subintervals for integrals")
	cmd.Flags().BoolVar(&f.simpson, "simpson", false, "integrate with Simpson's rule instead of the trapezoidal rule")
	return cmd
}

type server struct {
	log     *logger.Logger
	opts    []sciexpr.EvalOption
	timeout time.Duration
}

// compileRequest is the body of a request to /api/compile.
type compileRequest struct {
	Expression string `json:"expression"`
}

type compileResult struct {
	r   *sciexpr.Report
	err error
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/compile", s.compileHandler)
	r.Get("/api/health", s.healthHandler)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.reply(w, http.StatusNotFound, errorJSON{Error: "endpoint not found"})
	})
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	}).Handler(r)
}

// compileHandler compiles the expression in the request body and responds
// with the full report.
func (s *server) compileHandler(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reply(w, http.StatusBadRequest, errorJSON{Error: "no expression provided"})
		return
	}
	src := strings.TrimSpace(req.Expression)
	if src == "" {
		s.reply(w, http.StatusBadRequest, errorJSON{Error: "empty expression"})
		return
	}
	e, err := sciexpr.Parse(src)
	if err != nil {
		s.log.Infof("Compiling %q: %s", src, err)
		s.reply(w, http.StatusBadRequest, newErrorJSON(err))
		return
	}
	ev := sciexpr.NewEvaluator(nil, s.opts...)
	if c := ev.Cost(e.Root()); c > maxCost {
		s.log.Warningf("Rejecting %q with cost %g", src, c)
		s.reply(w, http.StatusBadRequest, errorJSON{Error: "expression too costly to evaluate"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	done := make(chan compileResult, 1)
	go func() {
		rep, err := ev.Compile(src)
		done <- compileResult{rep, err}
	}()
	select {
	case <-ctx.Done():
		s.log.Warningf("Compiling %q: %s", src, ctx.Err())
		s.reply(w, http.StatusRequestTimeout, errorJSON{Error: "compilation timeout"})
	case res := <-done:
		if res.err != nil {
			s.log.Infof("Compiling %q: %s", src, res.err)
			s.reply(w, http.StatusBadRequest, newErrorJSON(res.err))
			return
		}
		s.reply(w, http.StatusOK, newReportJSON(res.r))
	}
}

func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.reply(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *server) reply(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := writeJSON(w, v); err != nil {
		s.log.Errorf("Failed to write JSON response: %s", err)
	}
}
