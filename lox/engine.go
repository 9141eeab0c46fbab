// Package lox runs Lox source through the whole pipeline: scan, parse,
// resolve and interpret.
package lox

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	eval "github.com/havrydotdev/treelox/evaluator"
	"github.com/havrydotdev/treelox/parser"
	"github.com/havrydotdev/treelox/resolver"
	"github.com/havrydotdev/treelox/scanner"
)

type Outcome uint8

const (
	Success Outcome = iota
	StaticError
	RuntimeError
)

var outcomeNames = [...]string{"success", "static error", "runtime error"}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// ExitCode follows the sysexits convention: 65 for bad input, 70 for an
// internal failure.
func (o Outcome) ExitCode() int {
	switch o {
	case StaticError:
		return 65
	case RuntimeError:
		return 70
	}

	return 0
}

type options struct {
	stdout   io.Writer
	stderr   io.Writer
	stdin    io.Reader
	logger   *slog.Logger
	maxDepth int
	dumpAST  bool
}

type Option func(*options)

func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr sets where diagnostics, runtime errors and AST dumps go.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

func WithStdin(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithDumpAST prints every resolved program back as source before running it.
func WithDumpAST(dump bool) Option {
	return func(o *options) { o.dumpAST = dump }
}

// Engine keeps globals, node IDs and bindings between runs, so a REPL can
// feed it one line at a time.
type Engine struct {
	builder     *ast.Builder
	interpreter *eval.Interpreter

	stderr  io.Writer
	logger  *slog.Logger
	dumpAST bool
}

func New(opts ...Option) *Engine {
	o := options{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		stdin:    os.Stdin,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: eval.DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	interpreter := eval.New(
		eval.WithOutput(o.stdout),
		eval.WithInput(o.stdin),
		eval.WithLogger(o.logger),
		eval.WithMaxDepth(o.maxDepth),
	)

	return &Engine{
		builder:     ast.NewBuilder(),
		interpreter: interpreter,
		stderr:      o.stderr,
		logger:      o.logger,
		dumpAST:     o.dumpAST,
	}
}

// Run executes source. Static errors are all reported and nothing runs;
// a runtime error stops the run and is reported once.
func (e *Engine) Run(source string) Outcome {
	rep := diag.New(e.stderr)

	start := time.Now()
	tokens := scanner.New(source, rep).Scan()
	e.logger.Debug("stage", "stage", "scan", "tokens", len(tokens), "elapsed", time.Since(start))

	start = time.Now()
	stmts := parser.New[ast.Expr, ast.Stmt](tokens, e.builder, rep).Parse()
	e.logger.Debug("stage", "stage", "parse", "statements", len(stmts), "elapsed", time.Since(start))
	if rep.HadError() {
		e.logger.Debug("static error", "diagnostics", len(rep.Diagnostics()))
		return StaticError
	}

	start = time.Now()
	bindings := resolver.New(rep).Resolve(stmts)
	e.logger.Debug("stage", "stage", "resolve", "bindings", len(bindings), "elapsed", time.Since(start))
	if rep.HadError() {
		e.logger.Debug("static error", "diagnostics", len(rep.Diagnostics()))
		return StaticError
	}

	if e.dumpAST {
		fmt.Fprintln(e.stderr, ast.SprintProgram(stmts))
	}

	start = time.Now()
	err := e.interpreter.Interpret(stmts, bindings)
	e.logger.Debug("stage", "stage", "interpret", "elapsed", time.Since(start))
	if err != nil {
		fmt.Fprintln(e.stderr, err)
		return RuntimeError
	}

	return Success
}
