package parser

import (
	"strings"
	"testing"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/scanner"
)

func parse(src string) ([]string, *diag.Reporter) {
	r := diag.New(nil)
	tokens := scanner.New(src, r).Scan()

	return New[string, string](tokens, ast.Printer{}, r).Parse(), r
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "1 + 2 * 3 - 4 / 5;", "((1 + (2 * 3)) - (4 / 5));"},
		{"comparison and equality", "1 < 2 == true != false;", "(((1 < 2) == true) != false);"},
		{"logical", "a or b and c or d;", "((a or (b and c)) or d);"},
		{"unary", "-a * !!b;", "((-a) * (!(!b)));"},
		{"grouping", "(1 + 2) * 3;", "(((1 + 2)) * 3);"},
		{"assignment is right associative", "a = b = c;", "(a = (b = c));"},
		{"property assignment", "a.b.c = 1;", "(a.b.c = 1);"},
		{"call result property assignment", "f().x = 1;", "(f().x = 1);"},
		{"calls and gets", "f(1, 2)(3).x.y();", "f(1, 2)(3).x.y();"},
		{"this and super", "this.x = super.y;", "(this.x = super.y);"},
		{"literals", `nil; true; false; "hi"; 2.5;`, `nil; true; false; "hi"; 2.5;`},
		{"var", "var x; var y = x;", "var x; var y = x;"},
		{"if else", "if (a) b; else c;", "if (a) b; else c;"},
		{"while", "while (a) { a = a - 1; }", "while (a) { (a = (a - 1)); }"},
		{"empty block", "{}", "{ }"},
		{
			"for desugars into while",
			"for (var i = 0; i < 3; i = i + 1) print(i);",
			"{ var i = 0; while ((i < 3)) { print(i); (i = (i + 1)); } }",
		},
		{"for without clauses", "for (;;) x;", "while (true) x;"},
		{"for with expression initializer", "for (i = 0; i < 1;) x;", "{ (i = 0); while ((i < 1)) x; }"},
		{"function", "fun add(a, b) { return a + b; }", "fun add(a, b) { return (a + b); }"},
		{"bare return", "fun f() { return; }", "fun f() { return; }"},
		{
			"class",
			"class A < B { init(x) { this.x = x; } get() { return this.x; } }",
			"class A < B { init(x) { (this.x = x); } get() { return this.x; } }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, r := parse(tt.src)
			if r.HadError() {
				t.Fatalf("unexpected errors: %v", r.Err())
			}

			if got := strings.Join(stmts, " "); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"invalid assignment target",
			"1 = 2; var ok = 1;",
			[]string{"[line 1] Error at '=': Invalid assignment target."},
		},
		{
			"grouped target",
			"(a) = 3;",
			[]string{"[line 1] Error at '=': Invalid assignment target."},
		},
		{
			"binary target",
			"a + b = c;",
			[]string{"[line 1] Error at '=': Invalid assignment target."},
		},
		{
			"call target",
			"f() = 1;",
			[]string{"[line 1] Error at '=': Invalid assignment target."},
		},
		{
			"one error per statement",
			"var = 1;\nvar y = 2;\nprint(;",
			[]string{
				"[line 1] Error at '=': Expect variable name.",
				"[line 3] Error at ';': Expect expression.",
			},
		},
		{
			"error at end",
			"var x = 1",
			[]string{"[line 1] Error at end: Expect ';' after variable declaration."},
		},
		{
			"recovery inside a block",
			"{ var = 1; var y = 2; }",
			[]string{"[line 1] Error at '=': Expect variable name."},
		},
		{
			"super needs a method",
			"super;",
			[]string{"[line 1] Error at ';': Expect '.' after 'super'."},
		},
		{
			"missing superclass name",
			"class A < { }",
			[]string{"[line 1] Error at '{': Expect superclass name."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, r := parse(tt.src)
			if stmts != nil {
				t.Errorf("statements = %v, want nil", stmts)
			}

			var got []string
			for _, d := range r.Diagnostics() {
				got = append(got, d.Error())
			}

			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestArgumentLimits(t *testing.T) {
	names := make([]string, maxArgs+1)
	for i := range names {
		names[i] = "a"
	}

	list := strings.Join(names, ", ")

	tests := []struct {
		src  string
		want string
	}{
		{"f(" + list + ");", "Can't have more than 255 arguments."},
		{"fun f(" + list + ") {}", "Can't have more than 255 parameters."},
	}

	for _, tt := range tests {
		_, r := parse(tt.src)

		diags := r.Diagnostics()
		if len(diags) != 1 || diags[0].Message != tt.want {
			t.Errorf("diagnostics = %v, want one %q", diags, tt.want)
		}
	}

	if _, r := parse("f(" + strings.Join(names[:maxArgs], ", ") + ");"); r.HadError() {
		t.Errorf("255 arguments rejected: %v", r.Err())
	}
}

func TestBuilderIDs(t *testing.T) {
	r := diag.New(nil)
	b := ast.NewBuilder()

	tokens := scanner.New("a = b; c;", r).Scan()
	stmts := New[ast.Expr, ast.Stmt](tokens, b, r).Parse()
	if r.HadError() {
		t.Fatal(r.Err())
	}

	assign := stmts[0].(*ast.Expression).Expr.(*ast.Assign)
	b2 := assign.Value.(*ast.Variable)
	c := stmts[1].(*ast.Expression).Expr.(*ast.Variable)

	ids := map[ast.ID]bool{assign.ID: true, b2.ID: true, c.ID: true}
	if len(ids) != 3 {
		t.Errorf("ids are not unique: %v %v %v", assign.ID, b2.ID, c.ID)
	}

	// a second parse with the same builder keeps counting
	tokens = scanner.New("d;", r).Scan()
	d := New[ast.Expr, ast.Stmt](tokens, b, r).Parse()[0].(*ast.Expression).Expr.(*ast.Variable)
	if ids[d.ID] {
		t.Errorf("id %v reused across parses", d.ID)
	}
}
