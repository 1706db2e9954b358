// errors.go: error taxonomy and caret-snippet rendering.
//
// Every stage of the pipeline reports failures through one of three types:
// *LexError, *ParseError and *RuntimeError, each carrying a source position
// and a short message. Their Error() strings use a stable prefix
// ("LEXICAL ERROR" / "PARSE ERROR" / "RUNTIME ERROR" at line:col) so callers
// can log or match them without type assertions.
//
// WrapErrorWithSource upgrades those errors into a readable, Python-style
// snippet with a caret pointing at the offending column:
//
//	PARSE ERROR at 3:12: unexpected token ')'
//
//	   2 | x = 1 + 2
//	   3 | दर्श(x))
//	       |        ^
//	   4 | y = x
//
// Interactive front ends additionally use IsIncomplete to tell "this input is
// broken" apart from "this input merely stops mid-construct" (a block opened
// with ':' whose body has not arrived yet); only the lexer and parser produce
// incomplete diagnostics, and only in interactive mode.
package paanini

import (
	"fmt"
	"strings"
)

// LexError is a tokenization failure. Col is 0-based.
type LexError struct {
	Line int
	Col  int
	Msg  string

	incomplete bool
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError is a syntax failure. Col is 0-based.
type ParseError struct {
	Line int
	Col  int
	Msg  string

	incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// RuntimeError is an execution-time failure. Line/Col are 1-based.
type RuntimeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err marks input that stopped mid-construct in
// interactive mode (an open block still waiting for its body at end of
// input). REPLs should prompt for more lines instead of reporting such
// errors.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *LexError:
		return e.incomplete
	case *ParseError:
		return e.incomplete
	}
	return false
}

// WrapErrorWithSource returns an error whose message is a caret-annotated
// snippet of src. Lex, parse and runtime errors are recognized; any other
// error is returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label (usually a
// file name) included in the header: "PARSE ERROR in foo.panini at 3:12: ...".
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lex/parse Col are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		// RuntimeError is already 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RUNTIME ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// prettyErrorStringLabeled builds a Python-like snippet with a header and a
// caret. It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
