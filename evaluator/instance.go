package eval

import (
	"fmt"

	"github.com/havrydotdev/treelox/token"
)

type Instance struct {
	class  *Class
	fields map[string]any
}

func (i *Instance) String() string {
	return i.class.Name + " instance"
}

// Get returns a field, or else a method bound to i. Fields shadow methods.
func (i *Instance) Get(name token.Token) (any, error) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}

	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return m.Bind(i), nil
	}

	return nil, newRuntimeError(name, fmt.Sprintf("Undefined property '%s'.", name.Lexeme))
}

func (i *Instance) Set(name token.Token, value any) {
	i.fields[name.Lexeme] = value
}
