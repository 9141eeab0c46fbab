package eval

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/havrydotdev/treelox/ast"
	env "github.com/havrydotdev/treelox/environment"
	"github.com/havrydotdev/treelox/token"
)

const DefaultMaxDepth = 4096

// completion is how a statement finished: it either ran to its end or hit a
// return that unwinds to the enclosing call.
type completion struct {
	returned bool
	value    any
}

var normal = completion{}

type Interpreter struct {
	globals     *env.Env
	environment *env.Env
	locals      ast.Bindings

	out    io.Writer
	in     *bufio.Reader
	logger *slog.Logger

	depth    int
	maxDepth int
}

type Option func(*Interpreter)

// WithOutput sets where print and read prompts go. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithInput sets where read takes lines from. Defaults to stdin.
func WithInput(r io.Reader) Option {
	return func(in *Interpreter) {
		in.in = bufio.NewReader(r)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithMaxDepth limits nested calls; exceeding it is a runtime error.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxDepth = depth
	}
}

func New(opts ...Option) *Interpreter {
	globals := newGlobals()

	in := &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      ast.Bindings{},
		out:         os.Stdout,
		in:          bufio.NewReader(os.Stdin),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth:    DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Interpret runs stmts against the persistent global scope. bindings are
// added to the ones from earlier calls, so every call must build its nodes
// with the same ast.Builder. The first runtime error stops execution and
// is returned as a *RuntimeError.
func (in *Interpreter) Interpret(stmts []ast.Stmt, bindings ast.Bindings) error {
	maps.Copy(in.locals, bindings)

	for _, stmt := range stmts {
		if _, err := in.execute(stmt); err != nil {
			in.logger.Debug("runtime error", "error", err)
			return err
		}
	}

	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt) (completion, error) {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := in.evaluate(s.Expr)
		return normal, err

	case *ast.Var:
		var value any
		if s.Init != nil {
			var err error
			value, err = in.evaluate(s.Init)
			if err != nil {
				return normal, err
			}
		}

		in.environment.Define(s.Name.Lexeme, value)

	case *ast.Block:
		return in.executeBlock(s.Stmts, env.NewChild(in.environment))

	case *ast.If:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return normal, err
		}

		if isTruthy(cond) {
			return in.execute(s.Then)
		} else if s.Else != nil {
			return in.execute(s.Else)
		}

	case *ast.While:
		for {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return normal, err
			}

			if !isTruthy(cond) {
				break
			}

			c, err := in.execute(s.Body)
			if err != nil || c.returned {
				return c, err
			}
		}

	case *ast.Function:
		in.environment.Define(s.Name.Lexeme, &Function{declaration: s, closure: in.environment})

	case *ast.Return:
		var value any
		if s.Value != nil {
			var err error
			value, err = in.evaluate(s.Value)
			if err != nil {
				return normal, err
			}
		}

		return completion{returned: true, value: value}, nil

	case *ast.Class:
		return normal, in.executeClass(s)
	}

	return normal, nil
}

// executeBlock runs stmts in environment and always restores the previous
// environment, whether the block ends, returns or fails.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, environment *env.Env) (completion, error) {
	prev := in.environment
	in.environment = environment
	defer func() { in.environment = prev }()

	for _, stmt := range stmts {
		c, err := in.execute(stmt)
		if err != nil || c.returned {
			return c, err
		}
	}

	return normal, nil
}

func (in *Interpreter) executeClass(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		value, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}

		class, ok := value.(*Class)
		if !ok {
			return newRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}

		superclass = class
	}

	in.environment.Define(s.Name.Lexeme, nil)

	closure := in.environment
	if superclass != nil {
		closure = env.NewChild(closure)
		closure.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			declaration:   m,
			closure:       closure,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	in.environment.Define(s.Name.Lexeme, &Class{Name: s.Name.Lexeme, superclass: superclass, methods: methods})

	return nil
}

func (in *Interpreter) evaluate(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return in.evaluate(e.Expr)

	case *ast.Unary:
		return in.unary(e)

	case *ast.Binary:
		return in.binary(e)

	case *ast.Logical:
		l, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}

		if e.Op.Kind == token.Or {
			if isTruthy(l) {
				return l, nil
			}
		} else {
			if !isTruthy(l) {
				return l, nil
			}
		}

		return in.evaluate(e.Right)

	case *ast.Variable:
		return in.lookUp(e.ID, e.Name)

	case *ast.Assign:
		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}

		if distance, ok := in.locals[e.ID]; ok {
			in.environment.AssignAt(distance, e.Name.Lexeme, value)
		} else if !in.globals.Assign(e.Name.Lexeme, value) {
			return nil, newRuntimeError(e.Name, fmt.Sprintf("Undefined variable '%s'.", e.Name.Lexeme))
		}

		return value, nil

	case *ast.Call:
		return in.call(e)

	case *ast.Get:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		inst, ok := object.(*Instance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have properties.")
		}

		return inst.Get(e.Name)

	case *ast.Set:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		inst, ok := object.(*Instance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have fields.")
		}

		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}

		inst.Set(e.Name, value)
		return value, nil

	case *ast.This:
		return in.lookUp(e.ID, e.Keyword)

	case *ast.Super:
		return in.super(e)
	}

	return nil, nil
}

// lookUp reads a resolved local at its recorded distance, or a global.
func (in *Interpreter) lookUp(id ast.ID, name token.Token) (any, error) {
	if distance, ok := in.locals[id]; ok {
		if val, ok := in.environment.GetAt(distance, name.Lexeme); ok {
			return val, nil
		}
	} else if val, ok := in.globals.Get(name.Lexeme); ok {
		return val, nil
	}

	return nil, newRuntimeError(name, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
}

// super looks the method up on the superclass captured when the class was
// declared, then binds it to the current this, one scope closer.
func (in *Interpreter) super(e *ast.Super) (any, error) {
	distance := in.locals[e.ID]

	value, _ := in.environment.GetAt(distance, "super")
	superclass, ok := value.(*Class)
	if !ok {
		return nil, newRuntimeError(e.Keyword, "Can't use 'super' here.")
	}

	value, _ = in.environment.GetAt(distance-1, "this")
	object, ok := value.(*Instance)
	if !ok {
		return nil, newRuntimeError(e.Keyword, "Can't use 'super' here.")
	}

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(e.Method, fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme))
	}

	return method.Bind(object), nil
}

func (in *Interpreter) call(e *ast.Call) (any, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]any, 0, len(e.Args))
	for _, arg := range e.Args {
		argValue, err := in.evaluate(arg)
		if err != nil {
			return nil, err
		}

		arguments = append(arguments, argValue)
	}

	fun, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(e.Paren, "Can only call functions and classes.")
	}

	if len(arguments) != fun.Arity() {
		return nil, newRuntimeError(e.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fun.Arity(), len(arguments)))
	}

	if in.depth >= in.maxDepth {
		return nil, newRuntimeError(e.Paren, "Stack overflow.")
	}

	in.depth++
	defer func() { in.depth-- }()

	value, err := fun.Call(in, arguments)
	if err != nil {
		return nil, asRuntimeError(e.Paren, err)
	}

	return value, nil
}

func (in *Interpreter) unary(e *ast.Unary) (any, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Minus:
		r, ok := right.(float64)
		if !ok {
			return nil, newRuntimeError(e.Op, fmt.Sprintf("Operand of '%s' must be a number.", e.Op.Lexeme))
		}

		return -r, nil
	case token.Bang:
		return !isTruthy(right), nil
	}

	return nil, newRuntimeError(e.Op, fmt.Sprintf("Unexpected operator %s.", e.Op.Lexeme))
}

func (in *Interpreter) binary(e *ast.Binary) (any, error) {
	l, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	r, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	op := e.Op
	switch op.Kind {
	case token.BangEqual:
		return !isEqual(l, r), nil
	case token.EqualEqual:
		return isEqual(l, r), nil

	case token.Plus:
		lfloat, lok := l.(float64)
		rfloat, rok := r.(float64)
		if lok && rok {
			return lfloat + rfloat, nil
		}

		_, lstr := l.(string)
		_, rstr := r.(string)
		if lstr || rstr {
			return Stringify(l) + Stringify(r), nil
		}

		return nil, newRuntimeError(op, "Operands of '+' must be two numbers or include a string.")
	}

	lfloat, rfloat, err := checkNums(op, l, r)
	if err != nil {
		return nil, err
	}

	switch op.Kind {
	case token.Greater:
		return lfloat > rfloat, nil
	case token.GreaterEqual:
		return lfloat >= rfloat, nil
	case token.Less:
		return lfloat < rfloat, nil
	case token.LessEqual:
		return lfloat <= rfloat, nil
	case token.Minus:
		return lfloat - rfloat, nil
	case token.Slash:
		return lfloat / rfloat, nil
	case token.Star:
		return lfloat * rfloat, nil
	}

	return nil, newRuntimeError(op, fmt.Sprintf("Unexpected operator %s.", op.Lexeme))
}
