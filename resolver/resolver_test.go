package resolver

import (
	"maps"
	"strings"
	"testing"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/parser"
	"github.com/havrydotdev/treelox/scanner"
	"github.com/havrydotdev/treelox/token"
)

// recorder remembers every variable-like node in the order the parser
// builds it, labelled by its name.
type recorder struct {
	*ast.Builder
	ids   []ast.ID
	names []string
}

func (r *recorder) record(id ast.ID, name string) {
	r.ids = append(r.ids, id)
	r.names = append(r.names, name)
}

func (r *recorder) Variable(name token.Token) ast.Expr {
	e := r.Builder.Variable(name)
	r.record(e.(*ast.Variable).ID, name.Lexeme)
	return e
}

func (r *recorder) Assign(name token.Token, value ast.Expr) ast.Expr {
	e := r.Builder.Assign(name, value)
	r.record(e.(*ast.Assign).ID, name.Lexeme+"=")
	return e
}

func (r *recorder) This(keyword token.Token) ast.Expr {
	e := r.Builder.This(keyword)
	r.record(e.(*ast.This).ID, "this")
	return e
}

func (r *recorder) Super(keyword, method token.Token) ast.Expr {
	e := r.Builder.Super(keyword, method)
	r.record(e.(*ast.Super).ID, "super")
	return e
}

func parse(t *testing.T, src string) ([]ast.Stmt, *recorder) {
	t.Helper()

	rep := diag.New(nil)
	rec := &recorder{Builder: ast.NewBuilder()}
	stmts := parser.New[ast.Expr, ast.Stmt](scanner.New(src, rep).Scan(), rec, rep).Parse()
	if rep.HadError() {
		t.Fatalf("parse: %v", rep.Err())
	}

	return stmts, rec
}

// distances renders the binding of each recorded node, "g" for global.
func distances(rec *recorder, bindings ast.Bindings) string {
	parts := make([]string, len(rec.ids))
	for i, id := range rec.ids {
		d, ok := bindings[id]
		if !ok {
			parts[i] = rec.names[i] + ":g"
			continue
		}

		parts[i] = rec.names[i] + ":" + string(rune('0'+d))
	}

	return strings.Join(parts, " ")
}

func TestDistances(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"shadowing",
			`var x = "outer"; { var x = "inner"; print(x); } print(x);`,
			"print:g x:0 print:g x:g",
		},
		{
			"closure",
			"fun outer() { var c = 0; fun inner() { return c; } return inner; }",
			"c:1 inner:0",
		},
		{
			// the left-hand side is built as a Variable before '=' is seen
			// and then dropped from the tree, so it never gets a binding
			"assignment",
			"{ var a; fun f() { a = a + 1; } }",
			"a:g a:1 a=:1",
		},
		{
			"initializer reads the enclosing binding",
			"{ var a = 1; { var a = a + 1; a; } }",
			"a:1 a:0",
		},
		{
			"initializer reads a global",
			"var a = 1; { var a = a + 1; }",
			"a:g",
		},
		{
			"recursion",
			"fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }",
			"n:0 n:0 fib:g n:0 fib:g n:0",
		},
		{
			"local recursion",
			"{ fun f() { f(); } }",
			"f:1",
		},
		{
			"this and super",
			"class B {} class A < B { m() { return super.m() + this.x; } }",
			"B:g super:2 this:1",
		},
		{
			"this inside a nested function",
			"class A { m() { fun f() { return this; } } }",
			"this:2",
		},
		{
			"block parameters",
			"fun f(a) { { a; } }",
			"a:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, rec := parse(t, tt.src)

			rep := diag.New(nil)
			bindings := New(rep).Resolve(stmts)
			if rep.HadError() {
				t.Fatalf("resolve: %v", rep.Err())
			}

			if got := distances(rec, bindings); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestStaticErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"duplicate local",
			"{ var a = 1; var a = 2; }",
			[]string{"[line 1] Error at 'a': Already a variable with this name in this scope."},
		},
		{
			"duplicate parameter",
			"fun f(a, a) {}",
			[]string{"[line 1] Error at 'a': Already a variable with this name in this scope."},
		},
		{
			"self initializer",
			"{ var a = a; }",
			[]string{"[line 1] Error at 'a': Can't read local variable in its own initializer."},
		},
		{
			"top-level return",
			"return 1;",
			[]string{"[line 1] Error at 'return': Can't return from top-level code."},
		},
		{
			"value from initializer",
			"class A { init() { return 1; } }",
			[]string{"[line 1] Error at 'return': Can't return a value from an initializer."},
		},
		{
			"this outside class",
			"print(this);",
			[]string{"[line 1] Error at 'this': Can't use 'this' outside of a class."},
		},
		{
			"this in a function",
			"fun f() { return this; }",
			[]string{"[line 1] Error at 'this': Can't use 'this' outside of a class."},
		},
		{
			"super outside class",
			"fun f() { super.x(); }",
			[]string{"[line 1] Error at 'super': Can't use 'super' outside of a class."},
		},
		{
			"super without superclass",
			"class A { m() { super.m(); } }",
			[]string{"[line 1] Error at 'super': Can't use 'super' in a class with no superclass."},
		},
		{
			"self inheritance",
			"class A < A {}",
			[]string{"[line 1] Error at 'A': A class can't inherit from itself."},
		},
		{
			"errors accumulate",
			"return 1;\nprint(this);",
			[]string{
				"[line 1] Error at 'return': Can't return from top-level code.",
				"[line 2] Error at 'this': Can't use 'this' outside of a class.",
			},
		},
		{"bare return in initializer", "class A { init() { return; } }", nil},
		{"global redeclaration", "var a = 1; var a = 2;", nil},
		{"global self initializer", "var a = a;", nil},
		// only the bare form is rejected; anything else is left to run time
		{"grouped self initializer", "{ var a = (a); }", nil},
		{"self initializer in an expression", "{ var a = a + 1; }", nil},
		{"shadowing across scopes", "var a = 1; { var a = 2; { var a = 3; } }", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, _ := parse(t, tt.src)

			rep := diag.New(nil)
			New(rep).Resolve(stmts)

			var got []string
			for _, d := range rep.Diagnostics() {
				got = append(got, d.Error())
			}

			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	stmts, _ := parse(t, `
		class A { init(v) { this.v = v; } get() { return this.v; } }
		class B < A { get() { return super.get() * 2; } }
		fun counter() { var n = 0; fun inc() { n = n + 1; return n; } return inc; }
		{ var x = 1; { var y = x; x = y; } }
	`)

	r := New(diag.New(nil))
	first := r.Resolve(stmts)
	second := r.Resolve(stmts)

	if len(first) == 0 {
		t.Fatal("no bindings recorded")
	}

	if !maps.Equal(first, second) {
		t.Errorf("bindings differ:\n%v\n%v", first, second)
	}

	if third := New(diag.New(nil)).Resolve(stmts); !maps.Equal(first, third) {
		t.Errorf("fresh resolver differs:\n%v\n%v", first, third)
	}
}
