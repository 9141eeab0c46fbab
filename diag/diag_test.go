package diag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/havrydotdev/treelox/token"
)

func TestReportAt(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want string
	}{
		{token.New(token.Identifier, "foo", nil, 3), "[line 3] Error at 'foo': bad thing"},
		{token.New(token.Eof, "", nil, 7), "[line 7] Error at end: bad thing"},
	}

	for _, tt := range tests {
		r := New(nil)
		r.ReportAt(tt.tok, "bad thing")

		if got := r.Diagnostics()[0].Error(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestReporterWritesAndJoins(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	if r.HadError() || r.Err() != nil {
		t.Fatal("fresh reporter has errors")
	}

	r.Report(1, "Unexpected character.")
	r.Report(2, "Unterminated string.")

	want := "[line 1] Error: Unexpected character.\n[line 2] Error: Unterminated string.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	var d Diagnostic
	if !errors.As(r.Err(), &d) || d.Line != 1 {
		t.Errorf("joined error does not expose first diagnostic: %v", r.Err())
	}
}
