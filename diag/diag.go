// Package diag collects static errors reported by the scanner, parser and
// resolver.
package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/havrydotdev/treelox/token"
)

type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Reporter accumulates diagnostics for one pipeline run. When w is not nil
// every diagnostic is also written to it as soon as it is reported.
type Reporter struct {
	w     io.Writer
	diags []Diagnostic
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Report(line int, message string) {
	r.add(Diagnostic{Line: line, Message: message})
}

func (r *Reporter) ReportAt(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Kind == token.Eof {
		where = " at end"
	}

	r.add(Diagnostic{Line: tok.Line, Where: where, Message: message})
}

func (r *Reporter) add(d Diagnostic) {
	r.diags = append(r.diags, d)
	if r.w != nil {
		fmt.Fprintln(r.w, d.Error())
	}
}

func (r *Reporter) HadError() bool {
	return len(r.diags) > 0
}

func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// Err joins every reported diagnostic, or returns nil.
func (r *Reporter) Err() error {
	if len(r.diags) == 0 {
		return nil
	}

	errs := make([]error, len(r.diags))
	for i, d := range r.diags {
		errs[i] = d
	}

	return errors.Join(errs...)
}
