// transpiler.go: compiles a parsed program to a standalone Go source file.
//
// The generated file is a self-contained main package: it embeds small
// runtime helpers for the language's dynamic semantics (the "+" coercion
// rules, comparisons, canonical printing, the range bound and the while-loop
// iteration cap) and needs nothing beyond the Go standard library to build.
//
// Variables become any-typed Go variables. Top-level names are hoisted to
// package scope so user functions can read them; names assigned inside a
// function body are hoisted as function locals, which shadows the package
// variable exactly like the interpreter's child scope does. Source names
// that are not valid Go identifiers (Devanagari vowel signs are combining
// marks, which Go identifiers reject) are renamed v0, v1, ... with the
// original spelled in a comment.
//
// The compiler is deliberately stricter than the interpreter where ahead-of-
// time checking is possible: reading a name that is never assigned, calling
// an unknown function, arity mismatches and function definitions nested
// inside blocks are all reported at build time.
package paanini

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Transpile converts prog into the text of a Go main package.
func Transpile(prog *Program) (string, error) {
	t := &transpiler{
		varNames: make(map[string]string),
		fnNames:  make(map[string]string),
		funcs:    make(map[string]*FuncStmt),
		globals:  make(map[string]bool),
	}
	return t.program(prog)
}

type transpiler struct {
	b     strings.Builder
	depth int

	varNames map[string]string // source name → Go identifier
	varSeq   int
	fnNames  map[string]string
	fnSeq    int

	funcs   map[string]*FuncStmt // last definition wins
	fnOrder []string             // first-definition order
	globals map[string]bool      // names assigned at top level
	loopSeq int
}

func (t *transpiler) program(prog *Program) (string, error) {
	var top []Stmt
	for _, s := range prog.Stmts {
		if fn, ok := s.(*FuncStmt); ok {
			if _, seen := t.funcs[fn.Name.Name]; !seen {
				t.fnOrder = append(t.fnOrder, fn.Name.Name)
			}
			t.funcs[fn.Name.Name] = fn
			continue
		}
		if err := rejectNestedFuncs(s); err != nil {
			return "", err
		}
		top = append(top, s)
	}
	for _, name := range t.fnOrder {
		for _, s := range t.funcs[name].Body {
			if err := rejectNestedFuncs(s); err != nil {
				return "", err
			}
		}
	}

	globals := assignedNames(top)
	for _, g := range globals {
		t.globals[g] = true
	}

	t.line("// Code generated by paanini build; DO NOT EDIT.")
	t.line("package main")
	t.line("")
	t.line("import (")
	t.line("\t\"fmt\"")
	t.line("\t\"os\"")
	t.line("\t\"strconv\"")
	t.line(")")
	t.line("")
	for _, g := range globals {
		t.line(t.varDecl(g))
	}
	if len(globals) > 0 {
		t.line("")
	}

	t.line("func main() {")
	t.depth++
	for _, s := range top {
		if err := t.stmt(s, nil); err != nil {
			return "", err
		}
	}
	t.depth--
	t.line("}")

	for _, name := range t.fnOrder {
		t.line("")
		if err := t.function(t.funcs[name]); err != nil {
			return "", err
		}
	}

	t.b.WriteString(goPrelude)
	return t.b.String(), nil
}

// function emits one user-defined function as a top-level Go func returning
// any (always nil, mirroring the interpreter's Null result).
func (t *transpiler) function(fn *FuncStmt) error {
	locals := make(map[string]bool)
	var sig []string
	for _, p := range fn.Params {
		locals[p.Name] = true
		sig = append(sig, t.varName(p.Name)+" any")
	}
	hoisted := assignedNames(fn.Body)
	for _, h := range hoisted {
		locals[h] = true
	}

	t.linef("// कार्य %s(%s)", fn.Name.Name, identNames(fn.Params))
	t.linef("func %s(%s) any {", t.funcName(fn.Name.Name), strings.Join(sig, ", "))
	t.depth++
	for _, h := range hoisted {
		if isParamOf(fn, h) {
			continue
		}
		t.line(t.varDecl(h))
		t.linef("_ = %s", t.varName(h))
	}
	for _, s := range fn.Body {
		if err := t.stmt(s, locals); err != nil {
			return err
		}
	}
	t.line("return nil")
	t.depth--
	t.line("}")
	return nil
}

// ───────────────────────────── statements ─────────────────────────────

// stmt emits one statement. locals is nil at top level; inside a function it
// holds the parameter and hoisted-local names.
func (t *transpiler) stmt(s Stmt, locals map[string]bool) error {
	switch n := s.(type) {
	case *AssignStmt:
		rhs, err := t.expr(n.Value, locals)
		if err != nil {
			return err
		}
		t.linef("%s = %s", t.varName(n.Name.Name), rhs)
		return nil

	case *PrintStmt:
		arg, err := t.expr(n.Value, locals)
		if err != nil {
			return err
		}
		t.linef("__print(%s)", arg)
		return nil

	case *IfStmt:
		cond, err := t.cond(n.Cond, locals)
		if err != nil {
			return err
		}
		t.linef("if %s {", cond)
		t.depth++
		if err := t.stmts(n.Then, locals); err != nil {
			return err
		}
		t.depth--
		if n.Else == nil {
			t.line("}")
			return nil
		}
		t.line("} else {")
		t.depth++
		if err := t.stmts(n.Else, locals); err != nil {
			return err
		}
		t.depth--
		t.line("}")
		return nil

	case *WhileStmt:
		cond, err := t.cond(n.Cond, locals)
		if err != nil {
			return err
		}
		iters := fmt.Sprintf("__iters%d", t.loopSeq)
		t.loopSeq++
		t.linef("%s := 0", iters)
		t.line("for {")
		t.depth++
		t.linef("if !%s {", cond)
		t.depth++
		t.line("break")
		t.depth--
		t.line("}")
		t.linef("%s++", iters)
		t.linef("if %s > %d {", iters, DefaultLoopLimit)
		t.depth++
		t.linef("__fail(\"यावत् loop ran for more than %d iterations; aborting\")", DefaultLoopLimit)
		t.depth--
		t.line("}")
		if err := t.stmts(n.Body, locals); err != nil {
			return err
		}
		t.depth--
		t.line("}")
		return nil

	case *ForStmt:
		bound, err := t.expr(n.Bound, locals)
		if err != nil {
			return err
		}
		i := fmt.Sprintf("__i%d", t.loopSeq)
		b := fmt.Sprintf("__bound%d", t.loopSeq)
		t.loopSeq++
		t.linef("%s := __rangeBound(%s)", b, bound)
		t.linef("for %s := 0; %s < %s; %s++ {", i, i, b, i)
		t.depth++
		t.linef("%s = float64(%s)", t.varName(n.Var.Name), i)
		if err := t.stmts(n.Body, locals); err != nil {
			return err
		}
		t.depth--
		t.line("}")
		return nil

	case *ExprStmt:
		if call, ok := n.Expr.(*CallExpr); ok {
			code, err := t.call(call, locals)
			if err != nil {
				return err
			}
			t.line(code)
			return nil
		}
		e, err := t.expr(n.Expr, locals)
		if err != nil {
			return err
		}
		t.linef("_ = %s", e)
		return nil
	}
	return buildErr(s.Pos(), "statement is not supported by build")
}

func (t *transpiler) stmts(body Block, locals map[string]bool) error {
	for _, s := range body {
		if err := t.stmt(s, locals); err != nil {
			return err
		}
	}
	return nil
}

// ───────────────────────────── expressions ─────────────────────────────

func (t *transpiler) expr(e Expr, locals map[string]bool) (string, error) {
	switch n := e.(type) {
	case *NumberLit:
		return fmt.Sprintf("float64(%s)", strconv.FormatFloat(n.Value, 'g', -1, 64)), nil
	case *StringLit:
		return strconv.Quote(n.Value), nil
	case *BoolLit:
		return strconv.FormatBool(n.Value), nil
	case *Ident:
		if !t.globals[n.Name] && !locals[n.Name] {
			return "", buildErr(n.Tok, fmt.Sprintf("name %q is not defined", n.Name))
		}
		return t.varName(n.Name), nil
	case *CallExpr:
		return t.call(n, locals)
	case *BinaryExpr:
		if n.Op != "+" {
			return "", buildErr(n.Tok, "comparison outside a condition")
		}
		l, err := t.expr(n.Left, locals)
		if err != nil {
			return "", err
		}
		r, err := t.expr(n.Right, locals)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("__add(%s, %s)", l, r), nil
	}
	return "", buildErr(e.Pos(), "expression is not supported by build")
}

func (t *transpiler) cond(e Expr, locals map[string]bool) (string, error) {
	b, ok := e.(*BinaryExpr)
	if !ok || b.Op == "+" {
		return "", buildErr(e.Pos(), "condition must compare two values")
	}
	l, err := t.expr(b.Left, locals)
	if err != nil {
		return "", err
	}
	r, err := t.expr(b.Right, locals)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("__cmp(%q, %s, %s)", b.Op, l, r), nil
}

func (t *transpiler) call(c *CallExpr, locals map[string]bool) (string, error) {
	fn, ok := t.funcs[c.Callee.Name]
	if !ok {
		return "", buildErr(c.Tok, fmt.Sprintf("function %q is not defined", c.Callee.Name))
	}
	if len(c.Args) != len(fn.Params) {
		return "", buildErr(c.Tok, fmt.Sprintf("%s takes %d argument(s), got %d", fn.Name.Name, len(fn.Params), len(c.Args)))
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		s, err := t.expr(a, locals)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	return fmt.Sprintf("%s(%s)", t.funcName(c.Callee.Name), strings.Join(args, ", ")), nil
}

// ───────────────────────── names, hoisting, helpers ─────────────────────────

// varName maps a source variable to a stable Go identifier: u_<name> when
// that is a valid Go identifier, otherwise a numbered v<N>.
func (t *transpiler) varName(name string) string {
	if g, ok := t.varNames[name]; ok {
		return g
	}
	g := "u_" + name
	if !isGoIdent(g) {
		g = fmt.Sprintf("v%d", t.varSeq)
		t.varSeq++
	}
	t.varNames[name] = g
	return g
}

func (t *transpiler) funcName(name string) string {
	if g, ok := t.fnNames[name]; ok {
		return g
	}
	g := "fn_" + name
	if !isGoIdent(g) {
		g = fmt.Sprintf("f%d", t.fnSeq)
		t.fnSeq++
	}
	t.fnNames[name] = g
	return g
}

// varDecl declares one hoisted variable, keeping the original spelling in a
// comment when the Go name had to be numbered.
func (t *transpiler) varDecl(name string) string {
	g := t.varName(name)
	if strings.HasPrefix(g, "u_") {
		return fmt.Sprintf("var %s any", g)
	}
	return fmt.Sprintf("var %s any // %s", g, name)
}

// assignedNames collects, in first-appearance order, every name assigned in
// body (loop variables included) without descending into nested function
// definitions.
func assignedNames(body []Stmt) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func([]Stmt)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	walk = func(stmts []Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *AssignStmt:
				add(n.Name.Name)
			case *ForStmt:
				add(n.Var.Name)
				walk(n.Body)
			case *IfStmt:
				walk(n.Then)
				walk(n.Else)
			case *WhileStmt:
				walk(n.Body)
			}
		}
	}
	walk(body)
	return out
}

// rejectNestedFuncs reports an error when a कार्य definition hides inside a
// block; Go has no conditional function definitions, so build only supports
// कार्य at the top level of the program.
func rejectNestedFuncs(s Stmt) error {
	switch n := s.(type) {
	case *FuncStmt:
		return buildErr(n.Tok, "build does not support कार्य definitions inside blocks")
	case *IfStmt:
		if err := rejectNestedFuncsIn(n.Then); err != nil {
			return err
		}
		return rejectNestedFuncsIn(n.Else)
	case *WhileStmt:
		return rejectNestedFuncsIn(n.Body)
	case *ForStmt:
		return rejectNestedFuncsIn(n.Body)
	}
	return nil
}

func rejectNestedFuncsIn(b Block) error {
	for _, s := range b {
		if err := rejectNestedFuncs(s); err != nil {
			return err
		}
	}
	return nil
}

func isParamOf(fn *FuncStmt, name string) bool {
	for _, p := range fn.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func identNames(ids []*Ident) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return strings.Join(names, ", ")
}

func isGoIdent(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return s != ""
}

func buildErr(tok Token, msg string) error {
	return fmt.Errorf("build error at %d:%d: %s", tok.Line, tok.Col+1, msg)
}

func (t *transpiler) line(s string) {
	for i := 0; i < t.depth; i++ {
		t.b.WriteByte('\t')
	}
	t.b.WriteString(s)
	t.b.WriteByte('\n')
}

func (t *transpiler) linef(format string, args ...interface{}) {
	t.line(fmt.Sprintf(format, args...))
}

// goPrelude is the runtime appended to every generated program.
const goPrelude = `
func __text(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case bool:
		if x {
			return "सत्य"
		}
		return "असत्य"
	}
	return fmt.Sprint(v)
}

func __kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	return "unknown"
}

func __print(v any) {
	fmt.Println(__text(v))
}

func __add(a, b any) any {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return x + y
		}
	}
	if _, ok := a.(string); ok {
		return __text(a) + __text(b)
	}
	if _, ok := b.(string); ok {
		return __text(a) + __text(b)
	}
	__fail("cannot add " + __kind(a) + " and " + __kind(b))
	return nil
}

func __eq(a, b any) (bool, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y, ok
	case bool:
		y, ok := b.(bool)
		return ok && x == y, ok
	case nil:
		return b == nil, b == nil
	}
	return false, false
}

func __cmp(op string, a, b any) bool {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch op {
			case "==":
				return x == y
			case "!=":
				return x != y
			case "<":
				return x < y
			case "<=":
				return x <= y
			case ">":
				return x > y
			case ">=":
				return x >= y
			}
		}
	}
	if op == "==" || op == "!=" {
		if eq, ok := __eq(a, b); ok {
			if op == "!=" {
				return !eq
			}
			return eq
		}
	}
	__fail("cannot compare " + __kind(a) + " and " + __kind(b) + " with '" + op + "'")
	return false
}

func __rangeBound(v any) int {
	x, ok := v.(float64)
	if !ok {
		__fail("परिधि expects a number, got " + __kind(v))
	}
	n := int(x)
	if n < 0 {
		n = 0
	}
	return n
}

func __fail(msg string) {
	fmt.Fprintln(os.Stderr, "RUNTIME ERROR: "+msg)
	os.Exit(1)
}
`
