package env

import "testing"

func TestChainLookup(t *testing.T) {
	global := New()
	global.Define("a", 1.0)

	inner := NewChild(NewChild(global))
	inner.Define("b", 2.0)

	if v, ok := inner.Get("a"); !ok || v != 1.0 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}

	if _, ok := global.Get("b"); ok {
		t.Error("outer scope sees inner variable")
	}

	if !inner.Assign("a", 3.0) {
		t.Fatal("Assign(a) failed")
	}

	if v, _ := global.Get("a"); v != 3.0 {
		t.Errorf("global a = %v after assign through chain", v)
	}

	if inner.Assign("missing", 1.0) {
		t.Error("Assign of undefined name succeeded")
	}
}

func TestNilIsDefined(t *testing.T) {
	e := New()
	e.Define("x", nil)

	if v, ok := e.Get("x"); !ok || v != nil {
		t.Errorf("Get(x) = %v, %v", v, ok)
	}
}

func TestAtDistance(t *testing.T) {
	global := New()
	middle := NewChild(global)
	inner := NewChild(middle)

	global.Define("x", "global")
	middle.Define("x", "middle")
	inner.Define("x", "inner")

	tests := []struct {
		distance int
		want     string
	}{
		{0, "inner"},
		{1, "middle"},
		{2, "global"},
	}

	for _, tt := range tests {
		if got, _ := inner.GetAt(tt.distance, "x"); got != tt.want {
			t.Errorf("GetAt(%d) = %v, want %v", tt.distance, got, tt.want)
		}
	}

	inner.AssignAt(1, "x", "changed")
	if got, _ := middle.Get("x"); got != "changed" {
		t.Errorf("middle x = %v", got)
	}

	if got, _ := inner.Get("x"); got != "inner" {
		t.Errorf("inner x = %v", got)
	}

	if inner.Ancestor(2) != global || inner.Ancestor(0) != inner || inner.Ancestor(1) != middle {
		t.Error("Ancestor walked the wrong number of links")
	}
}
