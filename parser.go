// parser.go: recursive-descent parser for Paanini.
//
// The parser consumes the token stream produced by the indentation-aware
// lexer (see lexer.go) and builds the syntax tree defined in ast.go. Layout
// has already been resolved into NEWLINE/INDENT/DEDENT tokens, so the grammar
// here is entirely token-driven:
//
//	program   := statement*
//	statement := assign | print | if | while | for | func | exprstmt
//	block     := ':' NEWLINE INDENT statement+ DEDENT
//	condition := [ '(' ] expr cmpop expr [ ')' ]
//	expr      := term ( '+' term )*
//	term      := NUMBER | STRING | BOOLEAN | ID | ID '(' args ')' | '(' expr ')'
//
// Two invariants are enforced at parse time rather than at runtime: दर्श is
// statement syntax taking exactly one parenthesized expression, and परिधि may
// appear only inside a परिभ्रमण loop header. Conditions must contain exactly
// one comparison operator; bare values are rejected before evaluation.
//
// Interactive mode surfaces incomplete-input errors (IsIncomplete) when the
// source stops mid-construct, suitable for REPL continuation prompts.
package paanini

import "fmt"

// Parse parses a complete source string into a Program.
func Parse(src string) (*Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

// ParseInteractive parses in REPL-friendly mode. Constructs left unterminated
// at end of input produce errors for which IsIncomplete reports true.
func ParseInteractive(src string) (*Program, error) {
	toks, err := NewLexerInteractive(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, interactive: true}
	return p.program()
}

type parser struct {
	toks        []Token
	i           int
	interactive bool
}

// ───────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekN(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) advance() Token {
	t := p.peek()
	if !p.atEnd() {
		p.i++
	}
	return t
}

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.i++
		return true
	}
	return false
}

func (p *parser) need(tt TokenType, msg string) (Token, error) {
	if p.match(tt) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

// errAt builds a parse error at tok. At end of input in interactive mode the
// error is marked incomplete so a REPL can prompt for more lines.
func (p *parser) errAt(tok Token, msg string) error {
	if tok.Type == EOF && p.interactive {
		return &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg, incomplete: true}
	}
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg}
}

// ───────────────────────────── statements ─────────────────────────────

func (p *parser) program() (*Program, error) {
	prog := &Program{}
	for !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog, nil
}

func (p *parser) statement() (Stmt, error) {
	switch p.peek().Type {
	case IF:
		return p.ifStmt()
	case WHILE:
		return p.whileStmt()
	case FOR:
		return p.forStmt()
	case FUNCTION:
		return p.funcStmt()
	case PRINT:
		return p.printStmt()
	case RANGE:
		return nil, p.errAt(p.peek(), "परिधि(...) is only valid in a परिभ्रमण loop header")
	case ID:
		if p.peekN(1).Type == ASSIGN {
			return p.assignStmt()
		}
		return p.exprStmt()
	default:
		return p.exprStmt()
	}
}

func (p *parser) assignStmt() (Stmt, error) {
	name := p.advance()
	p.advance() // '='
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	return &AssignStmt{
		Tok:   name,
		Name:  &Ident{Tok: name, Name: name.Lexeme},
		Value: value,
	}, nil
}

func (p *parser) printStmt() (Stmt, error) {
	tok := p.advance()
	if _, err := p.need(LROUND, "दर्श needs parentheses: दर्श(<value>)"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.check(COMMA) {
		return nil, p.errAt(p.peek(), "दर्श takes exactly one value")
	}
	if _, err := p.need(RROUND, "expected ')' to close दर्श"); err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	return &PrintStmt{Tok: tok, Value: value}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	tok := p.advance()
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	then, err := p.block("the यदि condition")
	if err != nil {
		return nil, err
	}
	var alt Block
	if p.match(ELSE) {
		alt, err = p.block("अन्यथा")
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Tok: tok, Cond: cond, Then: then, Else: alt}, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	tok := p.advance()
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	body, err := p.block("the यावत् condition")
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Tok: tok, Cond: cond, Body: body}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	tok := p.advance()
	name, err := p.need(ID, "expected a loop variable after परिभ्रमण")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN, "expected 'in' after the loop variable"); err != nil {
		return nil, err
	}
	if _, err := p.need(RANGE, "expected परिधि(...) in the loop header"); err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after परिधि"); err != nil {
		return nil, err
	}
	bound, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "expected ')' after the परिधि bound"); err != nil {
		return nil, err
	}
	body, err := p.block("the परिभ्रमण header")
	if err != nil {
		return nil, err
	}
	return &ForStmt{
		Tok:   tok,
		Var:   &Ident{Tok: name, Name: name.Lexeme},
		Bound: bound,
		Body:  body,
	}, nil
}

func (p *parser) funcStmt() (Stmt, error) {
	tok := p.advance()
	name, err := p.need(ID, "expected a function name after कार्य")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after the function name"); err != nil {
		return nil, err
	}
	var params []*Ident
	if !p.check(RROUND) {
		for {
			param, err := p.need(ID, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, &Ident{Tok: param, Name: param.Lexeme})
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RROUND, "expected ')' after the parameter list"); err != nil {
		return nil, err
	}
	body, err := p.block("the parameter list")
	if err != nil {
		return nil, err
	}
	return &FuncStmt{
		Tok:    tok,
		Name:   &Ident{Tok: name, Name: name.Lexeme},
		Params: params,
		Body:   body,
	}, nil
}

func (p *parser) exprStmt() (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.check(ASSIGN) {
		return nil, p.errAt(p.peek(), "left side of '=' must be a single identifier")
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: e}, nil
}

func (p *parser) endOfLine() error {
	if _, err := p.need(NEWLINE, fmt.Sprintf("unexpected token %q after statement", tokText(p.peek()))); err != nil {
		return err
	}
	return nil
}

// block parses ':' NEWLINE INDENT statement+ DEDENT. The lexer guarantees a
// block contains at least one statement; what holds a colon but no body is
// rejected during scanning.
func (p *parser) block(after string) (Block, error) {
	if _, err := p.need(COLON, "expected ':' after "+after); err != nil {
		return nil, err
	}
	if _, err := p.need(NEWLINE, "the block body must start on a new line"); err != nil {
		return nil, err
	}
	if _, err := p.need(INDENT, "expected an indented block after ':'"); err != nil {
		return nil, err
	}
	var body Block
	for !p.check(DEDENT) && !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	if _, err := p.need(DEDENT, "expected the block to end"); err != nil {
		return nil, err
	}
	return body, nil
}

// ───────────────────────────── expressions ─────────────────────────────

// condition parses a single comparison, with the header parentheses of
// यदि/यावत् being optional: both `यदि (x < 5):` and `यदि x < 5:` are
// accepted.
func (p *parser) condition() (Expr, error) {
	if p.match(LROUND) {
		cond, err := p.comparison()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')' to close the condition"); err != nil {
			return nil, err
		}
		return cond, nil
	}
	return p.comparison()
}

func (p *parser) comparison() (Expr, error) {
	left, err := p.expression()
	if err != nil {
		return nil, err
	}
	op := p.peek()
	switch op.Type {
	case EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
	default:
		return nil, p.errAt(op, "condition must compare two values (==, !=, <, >, <=, >=)")
	}
	p.advance()
	right, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Tok: op, Op: op.Lexeme, Left: left, Right: right}, nil
}

func (p *parser) expression() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) {
		op := p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Tok: op, Op: "+", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.advance()
		return &NumberLit{Tok: t, Value: t.Literal.(float64)}, nil
	case STRING:
		p.advance()
		return &StringLit{Tok: t, Value: t.Literal.(string)}, nil
	case BOOLEAN:
		p.advance()
		return &BoolLit{Tok: t, Value: t.Literal.(bool)}, nil
	case ID:
		p.advance()
		if p.check(LROUND) {
			return p.finishCall(t)
		}
		return &Ident{Tok: t, Name: t.Lexeme}, nil
	case LROUND:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')'"); err != nil {
			return nil, err
		}
		return e, nil
	case RANGE:
		return nil, p.errAt(t, "परिधि(...) is only valid in a परिभ्रमण loop header")
	case PRINT:
		return nil, p.errAt(t, "दर्श cannot be used inside an expression")
	default:
		return nil, p.errAt(t, fmt.Sprintf("unexpected token %q", tokText(t)))
	}
}

func (p *parser) finishCall(name Token) (Expr, error) {
	p.advance() // '('
	var args []Expr
	if !p.check(RROUND) {
		for {
			a, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RROUND, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return &CallExpr{
		Tok:    name,
		Callee: &Ident{Tok: name, Name: name.Lexeme},
		Args:   args,
	}, nil
}
