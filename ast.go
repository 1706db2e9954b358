// ast.go: syntax tree node types produced by the parser.
//
// The tree is a closed sum: statements implement Stmt, expressions implement
// Expr, and both embed their defining token so later stages can report
// positions without re-scanning the source.
package paanini

// Node is implemented by every syntax tree node.
type Node interface {
	// Pos returns the token that anchors this node in the source.
	Pos() Token
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Block is the ordered body of a control structure. Blocks do not open a
// variable scope; only function calls do.
type Block []Stmt

// Program is a parsed execution unit: a file or one REPL submission.
type Program struct {
	Stmts []Stmt
}

// AssignStmt binds the value of an expression to a name: x = expr.
type AssignStmt struct {
	Tok   Token // the target identifier
	Name  *Ident
	Value Expr
}

// PrintStmt writes the canonical text of one value: दर्श(expr).
type PrintStmt struct {
	Tok   Token // the दर्श keyword
	Value Expr
}

// IfStmt is यदि with an optional अन्यथा branch.
type IfStmt struct {
	Tok  Token // the यदि keyword
	Cond Expr  // always a comparison BinaryExpr
	Then Block
	Else Block // nil when no अन्यथा branch
}

// WhileStmt is यावत्; execution caps the number of iterations.
type WhileStmt struct {
	Tok  Token // the यावत् keyword
	Cond Expr
	Body Block
}

// ForStmt is परिभ्रमण v in परिधि(bound). The bound expression is what the
// user wrote inside परिधि(...); evaluation routes it through the range
// builtin.
type ForStmt struct {
	Tok   Token // the परिभ्रमण keyword
	Var   *Ident
	Bound Expr
	Body  Block
}

// FuncStmt defines (or redefines) a named function: कार्य f(a, b).
type FuncStmt struct {
	Tok    Token // the कार्य keyword
	Name   *Ident
	Params []*Ident
	Body   Block
}

// ExprStmt is an expression evaluated for effect; its value is discarded.
type ExprStmt struct {
	Expr Expr
}

// CallExpr invokes a user-defined function by name. Calls always yield Null.
type CallExpr struct {
	Tok    Token // the callee identifier
	Callee *Ident
	Args   []Expr
}

// BinaryExpr is a binary operation. Op is the operator's lexeme: "+" in
// expression position, or one of the six comparison operators in condition
// position.
type BinaryExpr struct {
	Tok   Token // the operator token
	Op    string
	Left  Expr
	Right Expr
}

// NumberLit is a numeric literal; all numbers are float64.
type NumberLit struct {
	Tok   Token
	Value float64
}

// StringLit is a double-quoted string literal with escapes resolved.
type StringLit struct {
	Tok   Token
	Value string
}

// BoolLit is सत्य or असत्य.
type BoolLit struct {
	Tok   Token
	Value bool
}

// Ident is a variable, parameter, function or loop-variable name.
type Ident struct {
	Tok  Token
	Name string
}

func (s *AssignStmt) Pos() Token { return s.Tok }
func (s *PrintStmt) Pos() Token  { return s.Tok }
func (s *IfStmt) Pos() Token     { return s.Tok }
func (s *WhileStmt) Pos() Token  { return s.Tok }
func (s *ForStmt) Pos() Token    { return s.Tok }
func (s *FuncStmt) Pos() Token   { return s.Tok }
func (s *ExprStmt) Pos() Token   { return s.Expr.Pos() }
func (e *CallExpr) Pos() Token   { return e.Tok }
func (e *BinaryExpr) Pos() Token { return e.Tok }
func (e *NumberLit) Pos() Token  { return e.Tok }
func (e *StringLit) Pos() Token  { return e.Tok }
func (e *BoolLit) Pos() Token    { return e.Tok }
func (e *Ident) Pos() Token      { return e.Tok }

func (*AssignStmt) stmtNode() {}
func (*PrintStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()    {}
func (*FuncStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()   {}

func (*CallExpr) exprNode()   {}
func (*BinaryExpr) exprNode() {}
func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*Ident) exprNode()      {}
