// lexer_test.go
package paanini

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v\nsource:\n%s", err, src)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexError(t *testing.T, src, substr string) *LexError {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected lex error for source:\n%s", src)
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if !strings.Contains(le.Msg, substr) {
		t.Fatalf("expected message containing %q, got %q", substr, le.Msg)
	}
	return le
}

func Test_Lexer_Assignment_TokenSequence(t *testing.T) {
	got := wantTypes(t, "x = 5", []TokenType{ID, ASSIGN, NUMBER, NEWLINE})
	if got[0].Lexeme != "x" || got[0].Line != 1 || got[0].Col != 0 {
		t.Fatalf("bad identifier token: %+v", got[0])
	}
	if got[1].Col != 2 {
		t.Fatalf("'=' should sit at column 2, got %d", got[1].Col)
	}
	if got[2].Literal.(float64) != 5 {
		t.Fatalf("number literal should be 5, got %v", got[2].Literal)
	}
}

func Test_Lexer_Keywords_And_Booleans(t *testing.T) {
	got := wantTypes(t, "यदि अन्यथा यावत् परिभ्रमण in परिधि कार्य दर्श सत्य असत्य", []TokenType{
		IF, ELSE, WHILE, FOR, IN, RANGE, FUNCTION, PRINT, BOOLEAN, BOOLEAN, NEWLINE,
	})
	if got[8].Literal.(bool) != true || got[9].Literal.(bool) != false {
		t.Fatalf("boolean literals wrong: %v %v", got[8].Literal, got[9].Literal)
	}
}

func Test_Lexer_Devanagari_Identifiers(t *testing.T) {
	// यावत् must survive its virama and योग its vowel sign; mixed names and
	// digits are identifiers too.
	got := wantTypes(t, "योग = raashi_1", []TokenType{ID, ASSIGN, ID, NEWLINE})
	if got[0].Lexeme != "योग" {
		t.Fatalf("want identifier योग, got %q", got[0].Lexeme)
	}
	if got[2].Lexeme != "raashi_1" {
		t.Fatalf("want identifier raashi_1, got %q", got[2].Lexeme)
	}
}

func Test_Lexer_Operators_And_Punctuation(t *testing.T) {
	wantTypes(t, "( ) : , + = == != < <= > >=", []TokenType{
		LROUND, RROUND, COLON, COMMA, PLUS, ASSIGN, EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ, NEWLINE,
	})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, "x = 2.5 + -4 + 1e3", []TokenType{
		ID, ASSIGN, NUMBER, PLUS, NUMBER, PLUS, NUMBER, NEWLINE,
	})
	if got[2].Literal.(float64) != 2.5 {
		t.Fatalf("2.5 parsed as %v", got[2].Literal)
	}
	if got[4].Literal.(float64) != -4 {
		t.Fatalf("-4 parsed as %v", got[4].Literal)
	}
	if got[6].Literal.(float64) != 1000 {
		t.Fatalf("1e3 parsed as %v", got[6].Literal)
	}
}

func Test_Lexer_String_Escapes(t *testing.T) {
	got := wantTypes(t, `x = "a\"b\\c\nd"`, []TokenType{ID, ASSIGN, STRING, NEWLINE})
	if got[2].Literal.(string) != "a\"b\\c\nd" {
		t.Fatalf("bad string literal: %q", got[2].Literal)
	}
}

func Test_Lexer_String_Unterminated(t *testing.T) {
	le := wantLexError(t, `x = "abc`, "not terminated")
	if le.Line != 1 {
		t.Fatalf("error should be on line 1, got %d", le.Line)
	}
	// An unterminated string is a hard error even in interactive mode: this
	// language has no multi-line strings, so more input cannot repair it.
	_, err := NewLexerInteractive(`x = "abc`).Scan()
	if err == nil || IsIncomplete(err) {
		t.Fatalf("unterminated string should not be an incomplete-input error, got %v", err)
	}
}

func Test_Lexer_String_InvalidEscape(t *testing.T) {
	wantLexError(t, `x = "a\qb"`, "invalid escape")
}

func Test_Lexer_Comments_ToEndOfLine(t *testing.T) {
	wantTypes(t, "x = 5 !! trailing note", []TokenType{ID, ASSIGN, NUMBER, NEWLINE})
	wantTypes(t, "x = 5 # trailing note", []TokenType{ID, ASSIGN, NUMBER, NEWLINE})
}

func Test_Lexer_CommentMarkers_Inside_String(t *testing.T) {
	got := wantTypes(t, `x = "a # b !! c"`, []TokenType{ID, ASSIGN, STRING, NEWLINE})
	if got[2].Literal.(string) != "a # b !! c" {
		t.Fatalf("comment markers must not cut a string literal: %q", got[2].Literal)
	}
}

func Test_Lexer_CommentOnly_And_Blank_Lines_Skipped(t *testing.T) {
	src := "\n!! nothing here\n# nor here\n   \nx = 1\n"
	got := wantTypes(t, src, []TokenType{ID, ASSIGN, NUMBER, NEWLINE})
	if got[0].Line != 5 {
		t.Fatalf("x should be on line 5, got %d", got[0].Line)
	}
}

func Test_Lexer_Block_IndentDedent(t *testing.T) {
	src := "यदि (x < 5):\n    दर्श(x)\ny = 1\n"
	wantTypes(t, src, []TokenType{
		IF, LROUND, ID, LESS, NUMBER, RROUND, COLON, NEWLINE,
		INDENT, PRINT, LROUND, ID, RROUND, NEWLINE,
		DEDENT, ID, ASSIGN, NUMBER, NEWLINE,
	})
}

func Test_Lexer_NestedBlocks_CloseAtEOF(t *testing.T) {
	src := "यदि (a < 1):\n    यदि (b < 2):\n        दर्श(b)\n"
	wantTypes(t, src, []TokenType{
		IF, LROUND, ID, LESS, NUMBER, RROUND, COLON, NEWLINE,
		INDENT, IF, LROUND, ID, LESS, NUMBER, RROUND, COLON, NEWLINE,
		INDENT, PRINT, LROUND, ID, RROUND, NEWLINE,
		DEDENT, DEDENT,
	})
}

func Test_Lexer_Tab_CountsAsTwoSpaces(t *testing.T) {
	// The body line indents with one tab, the sibling with two spaces; both
	// measure the same width, so no dedent fires in between.
	src := "यावत् (x < 3):\n\tx = x + 1\n  दर्श(x)\n"
	wantTypes(t, src, []TokenType{
		WHILE, LROUND, ID, LESS, NUMBER, RROUND, COLON, NEWLINE,
		INDENT, ID, ASSIGN, ID, PLUS, NUMBER, NEWLINE,
		PRINT, LROUND, ID, RROUND, NEWLINE,
		DEDENT,
	})
}

func Test_Lexer_BlankAndCommentLines_Inside_Block(t *testing.T) {
	src := "यदि (x < 5):\n\n    !! note\n    दर्श(x)\n"
	wantTypes(t, src, []TokenType{
		IF, LROUND, ID, LESS, NUMBER, RROUND, COLON, NEWLINE,
		INDENT, PRINT, LROUND, ID, RROUND, NEWLINE,
		DEDENT,
	})
}

func Test_Lexer_IndentMismatch_IsError(t *testing.T) {
	// A 4-space block followed by a 3-space line: 3 matches no enclosing
	// width, so this must fail rather than silently re-dedent.
	src := "यदि (x < 5):\n    दर्श(x)\n   दर्श(x)\n"
	le := wantLexError(t, src, "does not match")
	if le.Line != 3 {
		t.Fatalf("mismatch should be reported on line 3, got %d", le.Line)
	}
}

func Test_Lexer_Indent_WithoutOpener_IsError(t *testing.T) {
	wantLexError(t, "x = 1\n    y = 2\n", "unexpected indent")
}

func Test_Lexer_ColonOpener_WithoutDeeperLine_IsError(t *testing.T) {
	le := wantLexError(t, "यदि (x < 5):\nदर्श(x)\n", "expected an indented block")
	if le.Line != 2 {
		t.Fatalf("malformed block should blame line 2, got %d", le.Line)
	}
}

func Test_Lexer_ColonOpener_AtEOF(t *testing.T) {
	// Non-interactive: hard error. Interactive: incomplete, so a REPL keeps
	// prompting for the body.
	_, err := NewLexer("यदि (x < 5):").Scan()
	if err == nil || IsIncomplete(err) {
		t.Fatalf("want hard lex error in file mode, got %v", err)
	}
	_, err = NewLexerInteractive("यदि (x < 5):").Scan()
	if err == nil || !IsIncomplete(err) {
		t.Fatalf("want incomplete-input error in interactive mode, got %v", err)
	}
}

func Test_Lexer_TrailingComment_After_Colon_OpensBlock(t *testing.T) {
	src := "यदि (x < 5): !! then-branch\n    दर्श(x)\n"
	wantTypes(t, src, []TokenType{
		IF, LROUND, ID, LESS, NUMBER, RROUND, COLON, NEWLINE,
		INDENT, PRINT, LROUND, ID, RROUND, NEWLINE,
		DEDENT,
	})
}

func Test_Lexer_UnexpectedCharacter(t *testing.T) {
	le := wantLexError(t, "x = 5 @ 2", "unexpected character")
	if le.Col != 6 {
		t.Fatalf("'@' sits at column 6, error said %d", le.Col)
	}
}

func Test_Lexer_EmptySource(t *testing.T) {
	ts := toks(t, "")
	if len(ts) != 1 || ts[0].Type != EOF {
		t.Fatalf("empty source should yield only EOF, got %v", ts)
	}
}
