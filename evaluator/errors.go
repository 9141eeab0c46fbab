package eval

import (
	"errors"
	"fmt"

	"github.com/havrydotdev/treelox/token"
)

// RuntimeError aborts the current run. Token locates it in the source.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func newRuntimeError(tok token.Token, msg string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: msg}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// asRuntimeError keeps a *RuntimeError as it is and attributes anything
// else, such as a failed write in a native, to tok.
func asRuntimeError(tok token.Token, err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return err
	}

	return newRuntimeError(tok, err.Error())
}
