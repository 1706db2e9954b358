// lexer.go: indentation-aware scanner for Paanini source.
//
// The lexer works line by line. Each physical line is measured against a
// stack of indentation widths (tabs in leading whitespace count as two
// spaces), then scanned into tokens. Block structure becomes explicit in the
// token stream: a line whose last token is ':' opens a block, the next line
// must indent deeper and is preceded by INDENT, and returning to a shallower
// width emits one DEDENT per closed block. Every line that produces tokens
// ends with a NEWLINE token, so the parser never inspects whitespace itself.
//
// Blank lines and comment-only lines (!! or #) produce no tokens and have no
// effect on the indentation stack.
package paanini

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// tabWidth is how many spaces one tab counts for when measuring indentation.
const tabWidth = 2

// Lexer scans a Paanini source string into tokens.
type Lexer struct {
	src         string
	interactive bool

	lines  []string
	lineNo int   // 1-based number of the line being scanned
	stack  []int // indentation widths of open blocks; always starts at 0

	pendingBlock bool // previous logical line ended with ':'
	openerLine   int
	openerCol    int

	tokens []Token
}

// NewLexer creates a lexer for a complete source string.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:   src,
		lines: strings.Split(src, "\n"),
		stack: []int{0},
	}
}

// NewLexerInteractive creates a lexer in REPL-friendly mode: a block opened
// with ':' but missing its body at end of input reports an incomplete-input
// error (see IsIncomplete) instead of a hard lexical error.
func NewLexerInteractive(src string) *Lexer {
	l := NewLexer(src)
	l.interactive = true
	return l
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for i, raw := range l.lines {
		l.lineNo = i + 1
		if err := l.scanLine(raw); err != nil {
			return nil, err
		}
	}
	if l.pendingBlock {
		if l.interactive {
			return nil, &LexError{Line: l.openerLine, Col: l.openerCol, Msg: "block has no body yet", incomplete: true}
		}
		return nil, &LexError{Line: l.openerLine, Col: l.openerCol, Msg: "block opened with ':' has no indented body"}
	}
	last := len(l.lines)
	for len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
		l.emit(DEDENT, last, 0)
	}
	l.emit(EOF, last, 0)
	return l.tokens, nil
}

// scanLine measures one physical line and tokenizes its body.
func (l *Lexer) scanLine(raw string) error {
	line := strings.TrimSuffix(raw, "\r")
	width, start, body := splitIndent(line)
	if body == "" || strings.HasPrefix(body, "!!") || strings.HasPrefix(body, "#") {
		return nil
	}
	if err := l.layout(width); err != nil {
		return err
	}
	return l.scanBody([]rune(body), start)
}

// splitIndent measures the leading whitespace of a line. It returns the
// indentation width (tab = tabWidth), the rune column where the body starts,
// and the body itself.
func splitIndent(line string) (width, start int, body string) {
	for i, r := range []rune(line) {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width, i, string([]rune(line)[i:])
		}
	}
	return width, 0, ""
}

// layout applies the indentation rules for a content line at the given width.
func (l *Lexer) layout(width int) error {
	top := l.stack[len(l.stack)-1]
	if l.pendingBlock {
		l.pendingBlock = false
		if width <= top {
			return &LexError{Line: l.lineNo, Col: 0, Msg: "expected an indented block after ':'"}
		}
		l.stack = append(l.stack, width)
		l.emit(INDENT, l.lineNo, 0)
		return nil
	}
	if width > top {
		return &LexError{Line: l.lineNo, Col: 0, Msg: "unexpected indent"}
	}
	for width < l.stack[len(l.stack)-1] {
		l.stack = l.stack[:len(l.stack)-1]
		l.emit(DEDENT, l.lineNo, 0)
	}
	if width != l.stack[len(l.stack)-1] {
		return &LexError{Line: l.lineNo, Col: 0, Msg: fmt.Sprintf("unindent (width %d) does not match any enclosing block", width)}
	}
	return nil
}

// scanBody tokenizes the non-whitespace part of a line. start is the rune
// column of the first body rune within the physical line.
func (l *Lexer) scanBody(runes []rune, start int) error {
	i, n := 0, len(runes)
	for i < n {
		r := runes[i]
		col := start + i
		switch {
		case r == ' ' || r == '\t':
			i++
		case r == '#':
			i = n
		case r == '!' && i+1 < n && runes[i+1] == '!':
			i = n
		case r == '(':
			l.add(LROUND, "(", nil, col)
			i++
		case r == ')':
			l.add(RROUND, ")", nil, col)
			i++
		case r == ':':
			l.add(COLON, ":", nil, col)
			i++
		case r == ',':
			l.add(COMMA, ",", nil, col)
			i++
		case r == '+':
			l.add(PLUS, "+", nil, col)
			i++
		case r == '=':
			if i+1 < n && runes[i+1] == '=' {
				l.add(EQ, "==", nil, col)
				i += 2
			} else {
				l.add(ASSIGN, "=", nil, col)
				i++
			}
		case r == '!':
			if i+1 < n && runes[i+1] == '=' {
				l.add(NEQ, "!=", nil, col)
				i += 2
			} else {
				return l.errAt(col, "unexpected character '!'")
			}
		case r == '<':
			if i+1 < n && runes[i+1] == '=' {
				l.add(LESS_EQ, "<=", nil, col)
				i += 2
			} else {
				l.add(LESS, "<", nil, col)
				i++
			}
		case r == '>':
			if i+1 < n && runes[i+1] == '=' {
				l.add(GREATER_EQ, ">=", nil, col)
				i += 2
			} else {
				l.add(GREATER, ">", nil, col)
				i++
			}
		case r == '"':
			adv, err := l.scanString(runes[i:], col)
			if err != nil {
				return err
			}
			i += adv
		case isDigitRune(r) || (r == '-' && i+1 < n && isDigitRune(runes[i+1])):
			adv, err := l.scanNumber(runes[i:], col)
			if err != nil {
				return err
			}
			i += adv
		case isIdentStart(r):
			j := i + 1
			for j < n && isIdentPart(runes[j]) {
				j++
			}
			l.addWord(string(runes[i:j]), col)
			i = j
		default:
			return l.errAt(col, fmt.Sprintf("unexpected character %q", r))
		}
	}

	if last := l.tokens[len(l.tokens)-1]; last.Type == COLON {
		l.pendingBlock = true
		l.openerLine = last.Line
		l.openerCol = last.Col
	}
	l.emit(NEWLINE, l.lineNo, start+n)
	return nil
}

// scanString decodes a double-quoted literal starting at runes[0]. Strings
// may not span lines; the escape set is \" \\ \n \t \r.
func (l *Lexer) scanString(runes []rune, col int) (int, error) {
	var out []rune
	i := 1
	for i < len(runes) {
		r := runes[i]
		if r == '"' {
			l.add(STRING, string(runes[:i+1]), string(out), col)
			return i + 1, nil
		}
		if r == '\\' {
			if i+1 >= len(runes) {
				return 0, l.errAt(col+i, "unfinished escape sequence")
			}
			switch esc := runes[i+1]; esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				return 0, l.errAt(col+i, fmt.Sprintf("invalid escape sequence: \\%c", esc))
			}
			i += 2
			continue
		}
		out = append(out, r)
		i++
	}
	return 0, l.errAt(col, "string was not terminated")
}

// scanNumber parses a decimal literal with an optional leading minus,
// fraction and exponent. All numbers are float64.
func (l *Lexer) scanNumber(runes []rune, col int) (int, error) {
	i := 0
	if runes[i] == '-' {
		i++
	}
	for i < len(runes) && isDigitRune(runes[i]) {
		i++
	}
	if i < len(runes) && runes[i] == '.' && i+1 < len(runes) && isDigitRune(runes[i+1]) {
		i++
		for i < len(runes) && isDigitRune(runes[i]) {
			i++
		}
	}
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && isDigitRune(runes[j]) {
			for j < len(runes) && isDigitRune(runes[j]) {
				j++
			}
			i = j
		}
	}
	lex := string(runes[:i])
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return 0, l.errAt(col, fmt.Sprintf("invalid number literal %q", lex))
	}
	l.add(NUMBER, lex, v, col)
	return i, nil
}

// addWord classifies an identifier-shaped word as a keyword, a boolean
// literal or a plain identifier.
func (l *Lexer) addWord(word string, col int) {
	if tt, ok := keywords[word]; ok {
		if tt == BOOLEAN {
			l.add(BOOLEAN, word, word == "सत्य", col)
			return
		}
		l.add(tt, word, nil, col)
		return
	}
	l.add(ID, word, nil, col)
}

func (l *Lexer) add(tt TokenType, lexeme string, lit interface{}, col int) {
	l.tokens = append(l.tokens, Token{Type: tt, Lexeme: lexeme, Literal: lit, Line: l.lineNo, Col: col})
}

func (l *Lexer) emit(tt TokenType, line, col int) {
	l.tokens = append(l.tokens, Token{Type: tt, Line: line, Col: col})
}

func (l *Lexer) errAt(col int, msg string) error {
	return &LexError{Line: l.lineNo, Col: col, Msg: msg}
}

// Identifiers mix Latin letters, Devanagari and digits; this is what lets
// keywords like परिभ्रमण and user names like योग or total_1 coexist.

func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.Is(unicode.Devanagari, r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigitRune(r)
}
