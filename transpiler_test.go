// transpiler_test.go
package paanini

import (
	"strings"
	"testing"
)

func transpileSrc(t *testing.T, src string) string {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	out, err := Transpile(prog)
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	return out
}

func wantBuildErr(t *testing.T, src, sub string) {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Transpile(prog)
	if err == nil {
		t.Fatalf("expected a build error containing %q", sub)
	}
	if !strings.Contains(err.Error(), "build error at ") {
		t.Fatalf("build errors carry a position, got %v", err)
	}
	if !strings.Contains(err.Error(), sub) {
		t.Fatalf("want error containing %q, got %v", sub, err)
	}
}

func Test_Transpile_EmitsMainSkeleton(t *testing.T) {
	out := transpileSrc(t, "x = 1\nदर्श(x)")
	for _, sub := range []string{
		"// Code generated by paanini build; DO NOT EDIT.",
		"package main",
		"var u_x any",
		"func main() {",
		"u_x = float64(1)",
		"__print(u_x)",
	} {
		mustContain(t, out, sub)
	}
}

func Test_Transpile_PreludeHelpersPresent(t *testing.T) {
	out := transpileSrc(t, "दर्श(1)")
	for _, sub := range []string{
		"func __text(v any) string",
		"func __print(v any)",
		"func __add(a, b any) any",
		"func __cmp(op string, a, b any) bool",
		"func __rangeBound(v any) int",
		"func __fail(msg string)",
	} {
		mustContain(t, out, sub)
	}
}

func Test_Transpile_RenamesNamesWithCombiningMarks(t *testing.T) {
	// योग contains a vowel sign, which Go identifiers reject.
	out := transpileSrc(t, "योग = 1\nदर्श(योग)")
	mustContain(t, out, "var v0 any // योग")
	mustContain(t, out, "v0 = float64(1)")
	mustContain(t, out, "__print(v0)")
}

func Test_Transpile_KeepsConsonantOnlyNames(t *testing.T) {
	out := transpileSrc(t, "नमन = 2\nदर्श(नमन)")
	mustContain(t, out, "var u_नमन any")
	mustContain(t, out, "u_नमन = float64(2)")
}

func Test_Transpile_AdditionUsesRuntimeHelper(t *testing.T) {
	out := transpileSrc(t, "दर्श(\"क\" + 1)")
	mustContain(t, out, `__print(__add("क", float64(1)))`)
}

func Test_Transpile_IfElse(t *testing.T) {
	out := transpileSrc(t, "यदि (1 < 2):\n  दर्श(1)\nअन्यथा:\n  दर्श(2)")
	mustContain(t, out, `if __cmp("<", float64(1), float64(2)) {`)
	mustContain(t, out, "} else {")
}

func Test_Transpile_WhileCarriesIterationCap(t *testing.T) {
	out := transpileSrc(t, "x = 0\nयावत् (x < 3):\n  x = x + 1")
	mustContain(t, out, "__iters0 := 0")
	mustContain(t, out, "__iters0++")
	mustContain(t, out, "if __iters0 > 10000 {")
	mustContain(t, out, `__fail("यावत् loop ran for more than 10000 iterations; aborting")`)
}

func Test_Transpile_ForLoop(t *testing.T) {
	out := transpileSrc(t, "परिभ्रमण i in परिधि(5):\n  दर्श(i)")
	mustContain(t, out, "var u_i any")
	mustContain(t, out, "__bound0 := __rangeBound(float64(5))")
	mustContain(t, out, "for __i0 := 0; __i0 < __bound0; __i0++ {")
	mustContain(t, out, "u_i = float64(__i0)")
	mustContain(t, out, "__print(u_i)")
}

func Test_Transpile_FunctionBodiesHoistLocals(t *testing.T) {
	out := transpileSrc(t, "कार्य greet(msg):\n  x = msg\n  दर्श(x)\ngreet(\"नमस्ते\")")
	mustContain(t, out, "// कार्य greet(msg)")
	mustContain(t, out, "func fn_greet(u_msg any) any {")
	mustContain(t, out, "var u_x any")
	mustContain(t, out, "_ = u_x")
	mustContain(t, out, "u_x = u_msg")
	mustContain(t, out, "__print(u_x)")
	mustContain(t, out, "return nil")
	mustContain(t, out, `fn_greet("नमस्ते")`)
}

func Test_Transpile_LastFunctionDefinitionWins(t *testing.T) {
	out := transpileSrc(t, "कार्य f():\n  दर्श(1)\nकार्य f():\n  दर्श(2)\nf()")
	if n := strings.Count(out, "func fn_f("); n != 1 {
		t.Fatalf("want one emitted function, got %d", n)
	}
	mustContain(t, out, "__print(float64(2))")
	if strings.Contains(out, "__print(float64(1))") {
		t.Fatalf("overridden body should not be emitted:\n%s", out)
	}
}

func Test_Transpile_RejectsNestedFunctionDefs(t *testing.T) {
	wantBuildErr(t, "यदि (1 < 2):\n  कार्य f():\n    दर्श(1)",
		"build does not support कार्य definitions inside blocks")
}

func Test_Transpile_UndefinedNameIsBuildError(t *testing.T) {
	wantBuildErr(t, "दर्श(missing)", `name "missing" is not defined`)
}

func Test_Transpile_UnknownFunctionIsBuildError(t *testing.T) {
	wantBuildErr(t, "f()", `function "f" is not defined`)
}

func Test_Transpile_ArityMismatchIsBuildError(t *testing.T) {
	wantBuildErr(t, "कार्य f(a):\n  दर्श(a)\nf(1, 2)", "f takes 1 argument(s), got 2")
}
