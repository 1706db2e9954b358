// env_test.go
package paanini

import "testing"

func Test_Env_DefineAndGet(t *testing.T) {
	e := NewEnv(nil)
	e.Define("x", Number(1))
	v, ok := e.Get("x")
	if !ok || v.Data.(float64) != 1 {
		t.Fatalf("want x=1, got %#v ok=%v", v, ok)
	}
	if _, ok := e.Get("missing"); ok {
		t.Fatalf("missing name should not resolve")
	}
}

func Test_Env_Redefine_Overwrites(t *testing.T) {
	e := NewEnv(nil)
	e.Define("x", Number(1))
	e.Define("x", Str("two"))
	v, _ := e.Get("x")
	if v.Tag != VTString || v.Data.(string) != "two" {
		t.Fatalf("later assignment should win, got %#v", v)
	}
}

func Test_Env_Reads_WalkParents(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("x", Number(7))
	child := NewEnv(parent)
	v, ok := child.Get("x")
	if !ok || v.Data.(float64) != 7 {
		t.Fatalf("child should see parent binding, got %#v ok=%v", v, ok)
	}
}

func Test_Env_Writes_ShadowNotMutate(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("x", Number(1))
	child := NewEnv(parent)
	child.Define("x", Number(2))

	cv, _ := child.Get("x")
	pv, _ := parent.Get("x")
	if cv.Data.(float64) != 2 {
		t.Fatalf("child should see its own binding, got %#v", cv)
	}
	if pv.Data.(float64) != 1 {
		t.Fatalf("parent binding must stay untouched, got %#v", pv)
	}
}
