package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/havrydotdev/treelox/token"
)

// Printer implements Alg[string, string] and renders fully parenthesized
// Lox source that parses back into the same tree, up to groupings.
type Printer struct{}

var _ Alg[string, string] = Printer{}

// Sprint renders a node built by Builder.
func Sprint(n Node) string {
	switch n := n.(type) {
	case Expr:
		return FoldExpr[string, string](Printer{}, n)
	case Stmt:
		return FoldStmt[string, string](Printer{}, n)
	}

	return ""
}

// SprintProgram renders one statement per line.
func SprintProgram(stmts []Stmt) string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = Sprint(s)
	}

	return strings.Join(lines, "\n")
}

func (Printer) Grouping(expr string) string {
	return "(" + expr + ")"
}

func (Printer) Literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return `"` + v + `"`
	}

	return fmt.Sprintf("%v", value)
}

func (Printer) Variable(name token.Token) string {
	return name.Lexeme
}

func (Printer) This(token.Token) string {
	return "this"
}

func (Printer) Super(_, method token.Token) string {
	return "super." + method.Lexeme
}

func (Printer) Get(object string, name token.Token) string {
	return object + "." + name.Lexeme
}

func (Printer) Unary(op token.Token, right string) string {
	return "(" + op.Lexeme + right + ")"
}

func (Printer) Assign(name token.Token, value string) string {
	return parenthesize(name.Lexeme, "=", value)
}

func (Printer) Binary(op token.Token, left, right string) string {
	return parenthesize(left, op.Lexeme, right)
}

func (Printer) Logical(op token.Token, left, right string) string {
	return parenthesize(left, op.Lexeme, right)
}

func (Printer) Call(callee string, _ token.Token, args []string) string {
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (Printer) Set(object string, name token.Token, value string) string {
	return parenthesize(object+"."+name.Lexeme, "=", value)
}

func (Printer) Block(stmts []string) string {
	if len(stmts) == 0 {
		return "{ }"
	}

	return "{ " + strings.Join(stmts, " ") + " }"
}

func (Printer) While(cond string, body string) string {
	return "while (" + cond + ") " + body
}

func (Printer) ExprStatement(expr string) string {
	return expr + ";"
}

func (Printer) If(cond string, then string, _else string) string {
	if _else == "" {
		return "if (" + cond + ") " + then
	}

	return "if (" + cond + ") " + then + " else " + _else
}

func (Printer) Var(name token.Token, init string) string {
	if init == "" {
		return "var " + name.Lexeme + ";"
	}

	return "var " + name.Lexeme + " = " + init + ";"
}

func (Printer) Return(_ token.Token, value string) string {
	if value == "" {
		return "return;"
	}

	return "return " + value + ";"
}

func (Printer) Class(name token.Token, superclass string, methods []string) string {
	b := strings.Builder{}

	b.WriteString("class ")
	b.WriteString(name.Lexeme)
	if superclass != "" {
		b.WriteString(" < ")
		b.WriteString(superclass)
	}

	b.WriteString(" {")
	for _, m := range methods {
		b.WriteByte(' ')
		b.WriteString(strings.TrimPrefix(m, "fun "))
	}

	b.WriteString(" }")

	return b.String()
}

func (p Printer) Function(name token.Token, params []token.Token, body []string) string {
	names := make([]string, len(params))
	for i, param := range params {
		names[i] = param.Lexeme
	}

	return "fun " + name.Lexeme + "(" + strings.Join(names, ", ") + ") " + p.Block(body)
}

func parenthesize(left, op, right string) string {
	b := strings.Builder{}

	b.WriteByte('(')
	b.WriteString(left)
	b.WriteByte(' ')
	b.WriteString(op)
	b.WriteByte(' ')
	b.WriteString(right)
	b.WriteByte(')')

	return b.String()
}
