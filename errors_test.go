// errors_test.go
package paanini

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

func mustRuntimeAtLine(t *testing.T, msg string, line int) {
	t.Helper()
	want := "RUNTIME ERROR at " + strconv.Itoa(line) + ":"
	if !strings.Contains(msg, want) {
		t.Fatalf("expected runtime error to report line %d\n--- output ---\n%s", line, msg)
	}
}

func Test_Errors_Prefixes(t *testing.T) {
	le := &LexError{Line: 1, Col: 2, Msg: "boom"}
	mustContain(t, le.Error(), "LEXICAL ERROR at 1:2: boom")

	pe := &ParseError{Line: 3, Col: 4, Msg: "bang"}
	mustContain(t, pe.Error(), "PARSE ERROR at 3:4: bang")

	re := &RuntimeError{Line: 5, Col: 6, Msg: "crash"}
	mustContain(t, re.Error(), "RUNTIME ERROR at 5:6: crash")
}

func Test_Errors_IsIncomplete_OnlyForInteractiveOpenBlocks(t *testing.T) {
	if IsIncomplete(&LexError{Msg: "x"}) {
		t.Fatalf("plain lex error is not incomplete")
	}
	if IsIncomplete(&ParseError{Msg: "x"}) {
		t.Fatalf("plain parse error is not incomplete")
	}
	if IsIncomplete(errors.New("other")) {
		t.Fatalf("foreign errors are never incomplete")
	}
	_, err := NewLexerInteractive("यावत् (x < 5):").Scan()
	if !IsIncomplete(err) {
		t.Fatalf("interactive open block should be incomplete, got %v", err)
	}
}

func Test_ErrorWrap_Parse_ShowsCaretAndContext(t *testing.T) {
	src := "x = 1\nदर्श \"oops\"\ny = 2"

	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected parse error, got nil")
	}
	msg := WrapErrorWithSource(err, src).Error()

	mustContain(t, msg, "PARSE ERROR at")
	mustContain(t, msg, "   1 | x = 1")
	mustContain(t, msg, "   2 | दर्श \"oops\"")
	mustContain(t, msg, "   3 | y = 2")
	mustContain(t, msg, "     | ")
	mustContain(t, msg, "^")
}

func Test_ErrorWrap_Lex_ShowsCaretAndContext(t *testing.T) {
	src := "x = 1\ny = \"open"

	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected lex error, got nil")
	}
	msg := WrapErrorWithSource(err, src).Error()

	mustContain(t, msg, "LEXICAL ERROR at")
	mustContain(t, msg, "   1 | x = 1")
	mustContain(t, msg, "   2 | y = \"open")
	mustContain(t, msg, "not terminated")
	mustContain(t, msg, "^")
}

func Test_ErrorWrap_Runtime_BlamesOffendingLine(t *testing.T) {
	src := "x = 1\nदर्श(missing)\n"
	var sess = NewSession(nil)
	out, err := sess.RunCapture(src)
	if err == nil {
		t.Fatalf("expected runtime error, got nil")
	}
	if out != "" {
		t.Fatalf("no output expected, got %q", out)
	}
	msg := WrapErrorWithSource(err, src).Error()

	mustRuntimeAtLine(t, msg, 2)
	mustContain(t, msg, "   1 | x = 1")
	mustContain(t, msg, "   2 | दर्श(missing)")
	mustContain(t, msg, `name "missing" is not defined`)
	mustContain(t, msg, "^")
}

func Test_ErrorWrap_WithName_IncludesLabel(t *testing.T) {
	src := "दर्श \"oops\""
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected parse error, got nil")
	}
	msg := WrapErrorWithName(err, "hello.panini", src).Error()
	mustContain(t, msg, "PARSE ERROR in hello.panini at")
}

func Test_ErrorWrap_ForeignErrors_PassThrough(t *testing.T) {
	plain := errors.New("disk on fire")
	if got := WrapErrorWithSource(plain, "x = 1"); got != plain {
		t.Fatalf("foreign error should pass through unchanged, got %v", got)
	}
}

func Test_ErrorWrap_Clamps_OutOfRangePositions(t *testing.T) {
	e := &RuntimeError{Line: 99, Col: 99, Msg: "far away"}
	msg := WrapErrorWithSource(e, "only line").Error()
	mustContain(t, msg, "far away")
	mustContain(t, msg, "   1 | only line")
	mustContain(t, msg, "^")
}
