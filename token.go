// token.go: lexical token kinds for Paanini.
package paanini

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	NEWLINE // logical end of a source line
	INDENT  // a block opened (indentation increased after ':')
	DEDENT  // a block closed (indentation decreased)

	// Punctuation
	LROUND // "("
	RROUND // ")"
	COLON  // ":"
	COMMA  // ","

	// Operators
	PLUS   // "+"
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	ID
	STRING
	NUMBER
	BOOLEAN

	// Keywords
	PRINT    // दर्श
	IF       // यदि
	ELSE     // अन्यथा
	WHILE    // यावत्
	FOR      // परिभ्रमण
	IN       // in
	RANGE    // परिधि
	FUNCTION // कार्य
)

// Token is a lexical token with optional literal value. Synthetic tokens
// (NEWLINE, INDENT, DEDENT, EOF) carry an empty Lexeme.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 0-based rune column within line
}

// keywords maps the Devanagari keyword surface (plus the ASCII "in") to
// token types. सत्य and असत्य lex as BOOLEAN literals.
var keywords = map[string]TokenType{
	"दर्श":     PRINT,
	"यदि":      IF,
	"अन्यथा":   ELSE,
	"यावत्":    WHILE,
	"परिभ्रमण": FOR,
	"in":       IN,
	"परिधि":    RANGE,
	"कार्य":    FUNCTION,
	"सत्य":     BOOLEAN,
	"असत्य":    BOOLEAN,
}

// tokenNames provides readable spellings for tokens whose lexeme is empty or
// unhelpful in diagnostics.
var tokenNames = map[TokenType]string{
	EOF:     "end of input",
	NEWLINE: "end of line",
	INDENT:  "indent",
	DEDENT:  "dedent",
}

func tokText(t Token) string {
	if name, ok := tokenNames[t.Type]; ok {
		return name
	}
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return "?"
}
