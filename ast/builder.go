package ast

import "github.com/havrydotdev/treelox/token"

// Builder implements Alg[Expr, Stmt] and builds the syntax tree.
type Builder struct {
	last ID
}

func NewBuilder() *Builder {
	return &Builder{}
}

var _ Alg[Expr, Stmt] = (*Builder)(nil)

func (b *Builder) nextID() ID {
	b.last++
	return b.last
}

func (*Builder) Grouping(expr Expr) Expr {
	return &Grouping{Expr: expr}
}

func (*Builder) Literal(value any) Expr {
	return &Literal{Value: value}
}

func (b *Builder) Variable(name token.Token) Expr {
	return &Variable{ID: b.nextID(), Name: name}
}

func (b *Builder) This(keyword token.Token) Expr {
	return &This{ID: b.nextID(), Keyword: keyword}
}

func (b *Builder) Super(keyword, method token.Token) Expr {
	return &Super{ID: b.nextID(), Keyword: keyword, Method: method}
}

func (*Builder) Get(object Expr, name token.Token) Expr {
	return &Get{Object: object, Name: name}
}

func (*Builder) Unary(op token.Token, right Expr) Expr {
	return &Unary{Op: op, Right: right}
}

func (b *Builder) Assign(name token.Token, value Expr) Expr {
	return &Assign{ID: b.nextID(), Name: name, Value: value}
}

func (*Builder) Binary(op token.Token, left, right Expr) Expr {
	return &Binary{Left: left, Op: op, Right: right}
}

func (*Builder) Logical(op token.Token, left, right Expr) Expr {
	return &Logical{Left: left, Op: op, Right: right}
}

func (*Builder) Call(callee Expr, paren token.Token, args []Expr) Expr {
	return &Call{Callee: callee, Paren: paren, Args: args}
}

func (*Builder) Set(object Expr, name token.Token, value Expr) Expr {
	return &Set{Object: object, Name: name, Value: value}
}

func (*Builder) Block(stmts []Stmt) Stmt {
	return &Block{Stmts: stmts}
}

func (*Builder) While(cond Expr, body Stmt) Stmt {
	return &While{Cond: cond, Body: body}
}

func (*Builder) ExprStatement(expr Expr) Stmt {
	return &Expression{Expr: expr}
}

func (*Builder) If(cond Expr, then Stmt, _else Stmt) Stmt {
	return &If{Cond: cond, Then: then, Else: _else}
}

func (*Builder) Var(name token.Token, init Expr) Stmt {
	return &Var{Name: name, Init: init}
}

func (*Builder) Return(keyword token.Token, value Expr) Stmt {
	return &Return{Keyword: keyword, Value: value}
}

// Class expects superclass to be nil or a *Variable and every method to be a
// *Function, which is what the parser produces.
func (*Builder) Class(name token.Token, superclass Expr, methods []Stmt) Stmt {
	class := &Class{Name: name}
	if v, ok := superclass.(*Variable); ok {
		class.Superclass = v
	}

	for _, m := range methods {
		if fn, ok := m.(*Function); ok {
			class.Methods = append(class.Methods, fn)
		}
	}

	return class
}

func (*Builder) Function(name token.Token, params []token.Token, body []Stmt) Stmt {
	return &Function{Name: name, Params: params, Body: body}
}
