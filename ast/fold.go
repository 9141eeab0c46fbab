package ast

// FoldExpr replays e into alg. A nil e folds to the zero E.
func FoldExpr[E, S any](alg Alg[E, S], e Expr) E {
	switch e := e.(type) {
	case *Literal:
		return alg.Literal(e.Value)
	case *Grouping:
		return alg.Grouping(FoldExpr(alg, e.Expr))
	case *Unary:
		return alg.Unary(e.Op, FoldExpr(alg, e.Right))
	case *Binary:
		return alg.Binary(e.Op, FoldExpr(alg, e.Left), FoldExpr(alg, e.Right))
	case *Logical:
		return alg.Logical(e.Op, FoldExpr(alg, e.Left), FoldExpr(alg, e.Right))
	case *Variable:
		return alg.Variable(e.Name)
	case *Assign:
		return alg.Assign(e.Name, FoldExpr(alg, e.Value))
	case *Call:
		args := make([]E, len(e.Args))
		for i, arg := range e.Args {
			args[i] = FoldExpr(alg, arg)
		}

		return alg.Call(FoldExpr(alg, e.Callee), e.Paren, args)
	case *Get:
		return alg.Get(FoldExpr(alg, e.Object), e.Name)
	case *Set:
		return alg.Set(FoldExpr(alg, e.Object), e.Name, FoldExpr(alg, e.Value))
	case *This:
		return alg.This(e.Keyword)
	case *Super:
		return alg.Super(e.Keyword, e.Method)
	}

	var zero E
	return zero
}

// FoldStmt replays s into alg. A nil s folds to the zero S.
func FoldStmt[E, S any](alg Alg[E, S], s Stmt) S {
	switch s := s.(type) {
	case *Expression:
		return alg.ExprStatement(FoldExpr(alg, s.Expr))
	case *Var:
		return alg.Var(s.Name, FoldExpr(alg, s.Init))
	case *Block:
		return alg.Block(foldStmts(alg, s.Stmts))
	case *If:
		return alg.If(FoldExpr(alg, s.Cond), FoldStmt(alg, s.Then), FoldStmt(alg, s.Else))
	case *While:
		return alg.While(FoldExpr(alg, s.Cond), FoldStmt(alg, s.Body))
	case *Function:
		return alg.Function(s.Name, s.Params, foldStmts(alg, s.Body))
	case *Return:
		return alg.Return(s.Keyword, FoldExpr(alg, s.Value))
	case *Class:
		var superclass E
		// a nil *Variable must not become a non-nil Expr
		if s.Superclass != nil {
			superclass = FoldExpr(alg, s.Superclass)
		}

		methods := make([]S, len(s.Methods))
		for i, m := range s.Methods {
			methods[i] = FoldStmt(alg, m)
		}

		return alg.Class(s.Name, superclass, methods)
	}

	var zero S
	return zero
}

func foldStmts[E, S any](alg Alg[E, S], stmts []Stmt) []S {
	out := make([]S, len(stmts))
	for i, s := range stmts {
		out[i] = FoldStmt(alg, s)
	}

	return out
}
