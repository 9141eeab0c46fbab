package eval

import (
	"github.com/havrydotdev/treelox/ast"
	env "github.com/havrydotdev/treelox/environment"
)

// Callable is anything a call expression can invoke.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []any) (any, error)
	String() string
}

type NativeFun struct {
	name  string
	arity int
	call  func(in *Interpreter, args []any) (any, error)
}

func NewNativeFun(name string, arity int, call func(in *Interpreter, args []any) (any, error)) *NativeFun {
	return &NativeFun{name, arity, call}
}

func (c *NativeFun) Arity() int {
	return c.arity
}

func (c *NativeFun) Call(in *Interpreter, args []any) (any, error) {
	return c.call(in, args)
}

func (c *NativeFun) String() string {
	return "<native fn>"
}

// Function is a user function or method together with the scope it closes
// over.
type Function struct {
	declaration   *ast.Function
	closure       *env.Env
	isInitializer bool
}

func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Bind returns a copy of f whose closure has this defined as instance.
func (f *Function) Bind(instance *Instance) *Function {
	environment := env.NewChild(f.closure)
	environment.Define("this", instance)

	return &Function{declaration: f.declaration, closure: environment, isInitializer: f.isInitializer}
}

func (f *Function) Call(in *Interpreter, args []any) (any, error) {
	environment := env.NewChild(f.closure)
	for i, param := range f.declaration.Params {
		environment.Define(param.Lexeme, args[i])
	}

	c, err := in.executeBlock(f.declaration.Body, environment)
	if err != nil {
		return nil, err
	}

	// an initializer always yields its instance, even on a bare return
	if f.isInitializer {
		this, _ := f.closure.GetAt(0, "this")
		return this, nil
	}

	return c.value, nil
}

func (f *Function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}
