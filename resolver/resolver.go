// Package resolver computes, ahead of execution, how many scopes separate
// each variable reference from the scope that declares it, and rejects
// programs that misuse return, this and super.
package resolver

import (
	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/token"
)

type functionKind uint8

const (
	noFunction functionKind = iota
	function
	initializer
	method
)

type classKind uint8

const (
	noClass classKind = iota
	class
	subclass
)

// scope maps a name to whether its declaration has finished.
type scope map[string]bool

type Resolver struct {
	reporter *diag.Reporter
	scopes   []scope
	bindings ast.Bindings

	function functionKind
	class    classKind
}

func New(reporter *diag.Reporter) *Resolver {
	return &Resolver{reporter: reporter}
}

// Resolve walks the whole program and returns a fresh binding table. It can
// be called repeatedly; each call starts from the global scope.
func (r *Resolver) Resolve(stmts []ast.Stmt) ast.Bindings {
	r.scopes = nil
	r.bindings = ast.Bindings{}
	r.function = noFunction
	r.class = noClass

	r.resolveStmts(stmts)

	return r.bindings
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.Var:
		r.declare(s.Name)
		if s.Init != nil {
			if v, ok := s.Init.(*ast.Variable); ok && v.Name.Lexeme == s.Name.Lexeme && len(r.scopes) > 0 {
				r.reporter.ReportAt(v.Name, "Can't read local variable in its own initializer.")
			}

			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *ast.Function:
		// defined before the body so the function can recurse
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, function)

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Expression:
		r.resolveExpr(s.Expr)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	case *ast.Return:
		if r.function == noFunction {
			r.reporter.ReportAt(s.Keyword, "Can't return from top-level code.")
		}

		if s.Value != nil {
			if r.function == initializer {
				r.reporter.ReportAt(s.Keyword, "Can't return a value from an initializer.")
			}

			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosing := r.class
	r.class = class
	defer func() { r.class = enclosing }()

	// compares names only, a longer cycle is not detected here
	if s.Superclass != nil && s.Superclass.Name.Lexeme == s.Name.Lexeme {
		r.reporter.ReportAt(s.Superclass.Name, "A class can't inherit from itself.")
	}

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		r.class = subclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.peek()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.peek()["this"] = true

	for _, m := range s.Methods {
		kind := method
		if m.Name.Lexeme == "init" {
			kind = initializer
		}

		r.resolveFunction(m, kind)
	}

	r.endScope()
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosing := r.function
	r.function = kind
	defer func() { r.function = enclosing }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}

	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		r.resolveLocal(e.ID, e.Name)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID, e.Name)

	case *ast.This:
		if r.class == noClass {
			r.reporter.ReportAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}

		r.resolveLocal(e.ID, e.Keyword)

	case *ast.Super:
		switch r.class {
		case noClass:
			r.reporter.ReportAt(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case class:
			r.reporter.ReportAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}

		r.resolveLocal(e.ID, e.Keyword)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Grouping:
		r.resolveExpr(e.Expr)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Literal:
	}
}

// resolveLocal records the distance to the innermost scope that finished
// declaring name. A declaration still in progress is skipped, so an
// initializer reads the enclosing binding. Nothing is recorded for globals.
func (r *Resolver) resolveLocal(id ast.ID, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if defined, ok := r.scopes[i][name.Lexeme]; ok && defined {
			r.bindings[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peek() scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	s := r.peek()
	if _, ok := s[name.Lexeme]; ok {
		r.reporter.ReportAt(name, "Already a variable with this name in this scope.")
	}

	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	r.peek()[name.Lexeme] = true
}
