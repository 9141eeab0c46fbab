// Package ast defines the syntax tree produced by the parser and consumed by
// the resolver and the evaluator.
package ast

import "github.com/havrydotdev/treelox/token"

// ID identifies a variable-like node (Variable, Assign, This, Super).
// IDs are unique per Builder.
type ID uint32

// Bindings maps a node ID to the number of scopes between the reference and
// the scope that defines it. A missing entry means the name is global.
type Bindings map[ID]int

type Node interface {
	node()
}

// Expression nodes
type (
	Expr interface {
		Node
		exprNode()
	}

	Literal struct {
		Value any
	}

	Grouping struct {
		Expr Expr
	}

	Unary struct {
		Op    token.Token
		Right Expr
	}

	Binary struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Logical is a short-circuiting and/or.
	Logical struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	Variable struct {
		ID   ID
		Name token.Token
	}

	Assign struct {
		ID    ID
		Name  token.Token
		Value Expr
	}

	Call struct {
		Callee Expr
		Paren  token.Token
		Args   []Expr
	}

	Get struct {
		Object Expr
		Name   token.Token
	}

	Set struct {
		Object Expr
		Name   token.Token
		Value  Expr
	}

	This struct {
		ID      ID
		Keyword token.Token
	}

	Super struct {
		ID      ID
		Keyword token.Token
		Method  token.Token
	}
)

// Statement nodes
type (
	Stmt interface {
		Node
		stmtNode()
	}

	Expression struct {
		Expr Expr
	}

	// Var declares a variable; Init is nil when there is no initializer.
	Var struct {
		Name token.Token
		Init Expr
	}

	Block struct {
		Stmts []Stmt
	}

	If struct {
		Cond Expr
		Then Stmt
		Else Stmt
	}

	While struct {
		Cond Expr
		Body Stmt
	}

	Function struct {
		Name   token.Token
		Params []token.Token
		Body   []Stmt
	}

	Return struct {
		Keyword token.Token
		Value   Expr
	}

	Class struct {
		Name       token.Token
		Superclass *Variable
		Methods    []*Function
	}
)

func (*Literal) node()  {}
func (*Grouping) node() {}
func (*Unary) node()    {}
func (*Binary) node()   {}
func (*Logical) node()  {}
func (*Variable) node() {}
func (*Assign) node()   {}
func (*Call) node()     {}
func (*Get) node()      {}
func (*Set) node()      {}
func (*This) node()     {}
func (*Super) node()    {}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Set) exprNode()      {}
func (*This) exprNode()     {}
func (*Super) exprNode()    {}

func (*Expression) node() {}
func (*Var) node()        {}
func (*Block) node()      {}
func (*If) node()         {}
func (*While) node()      {}
func (*Function) node()   {}
func (*Return) node()     {}
func (*Class) node()      {}

func (*Expression) stmtNode() {}
func (*Var) stmtNode()        {}
func (*Block) stmtNode()      {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*Function) stmtNode()   {}
func (*Return) stmtNode()     {}
func (*Class) stmtNode()      {}
