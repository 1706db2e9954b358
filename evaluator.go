// evaluator.go: tree-walking evaluator.
//
// The evaluator owns the persistent global scope, the function registry and
// the output sink. Programs run statement by statement; the first error
// aborts the unit but leaves all completed definitions behind, which is what
// lets a REPL keep its state across failed inputs.
//
// Scoping is deliberately simple: control-flow blocks share the scope of the
// statement that contains them, and only a function call opens a child scope
// (holding the parameter bindings, chained to the caller's scope). Functions
// are not closures and never return values; every call yields Null.
package paanini

import (
	"fmt"
	"io"
)

// DefaultLoopLimit caps how many times a यावत् body may run. The limit
// counts completed iterations: a loop whose condition is true for the
// 10001st time fails, one that stops at 10000 does not.
const DefaultLoopLimit = 10000

// Function is a user-defined function. Redefining a name replaces the
// previous definition.
type Function struct {
	Name   string
	Params []string
	Body   Block
}

// Evaluator executes parsed programs against a persistent global scope.
type Evaluator struct {
	globals *Env
	funcs   map[string]*Function
	out     io.Writer

	// LoopLimit caps यावत् iterations; NewEvaluator sets DefaultLoopLimit.
	LoopLimit int
}

// NewEvaluator creates an evaluator whose दर्श output goes to out. A nil
// out discards all output.
func NewEvaluator(out io.Writer) *Evaluator {
	if out == nil {
		out = io.Discard
	}
	return &Evaluator{
		globals:   NewEnv(nil),
		funcs:     make(map[string]*Function),
		out:       out,
		LoopLimit: DefaultLoopLimit,
	}
}

// Globals exposes the persistent top-level scope.
func (ev *Evaluator) Globals() *Env { return ev.globals }

// Run evaluates prog in the global scope, stopping at the first error.
func (ev *Evaluator) Run(prog *Program) error {
	for _, s := range prog.Stmts {
		if err := ev.execStmt(s, ev.globals); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execBlock(body Block, env *Env) error {
	for _, s := range body {
		if err := ev.execStmt(s, env); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execStmt(s Stmt, env *Env) error {
	switch n := s.(type) {
	case *AssignStmt:
		v, err := ev.evalExpr(n.Value, env)
		if err != nil {
			return err
		}
		env.Define(n.Name.Name, v)
		return nil

	case *PrintStmt:
		v, err := ev.evalExpr(n.Value, env)
		if err != nil {
			return err
		}
		pr, _ := LookupBuiltin("दर्श")
		if _, err := pr.Call(ev, []Value{v}); err != nil {
			return ev.errAt(n.Tok, err.Error())
		}
		return nil

	case *IfStmt:
		ok, err := ev.evalCond(n.Cond, env)
		if err != nil {
			return err
		}
		if ok {
			return ev.execBlock(n.Then, env)
		}
		if n.Else != nil {
			return ev.execBlock(n.Else, env)
		}
		return nil

	case *WhileStmt:
		iters := 0
		for {
			ok, err := ev.evalCond(n.Cond, env)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			iters++
			if iters > ev.LoopLimit {
				return ev.errAt(n.Tok, fmt.Sprintf("यावत् loop ran for more than %d iterations; aborting", ev.LoopLimit))
			}
			if err := ev.execBlock(n.Body, env); err != nil {
				return err
			}
		}

	case *ForStmt:
		bound, err := ev.evalExpr(n.Bound, env)
		if err != nil {
			return err
		}
		rng, _ := LookupBuiltin("परिधि")
		rv, err := rng.Call(ev, []Value{bound})
		if err != nil {
			return ev.errAt(n.Tok, err.Error())
		}
		limit := rv.Data.(int)
		// The loop variable is rebound in the enclosing scope and stays
		// visible after the loop ends.
		for i := 0; i < limit; i++ {
			env.Define(n.Var.Name, Number(float64(i)))
			if err := ev.execBlock(n.Body, env); err != nil {
				return err
			}
		}
		return nil

	case *FuncStmt:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		ev.funcs[n.Name.Name] = &Function{Name: n.Name.Name, Params: params, Body: n.Body}
		return nil

	case *ExprStmt:
		_, err := ev.evalExpr(n.Expr, env)
		return err
	}
	return ev.errAt(s.Pos(), "unsupported statement")
}

func (ev *Evaluator) evalExpr(e Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case *NumberLit:
		return Number(n.Value), nil
	case *StringLit:
		return Str(n.Value), nil
	case *BoolLit:
		return Bool(n.Value), nil
	case *Ident:
		v, ok := env.Get(n.Name)
		if !ok {
			return Null, ev.errAt(n.Tok, fmt.Sprintf("name %q is not defined", n.Name))
		}
		return v, nil
	case *CallExpr:
		return ev.evalCall(n, env)
	case *BinaryExpr:
		if n.Op == "+" {
			return ev.evalAdd(n, env)
		}
		ok, err := ev.compare(n, env)
		if err != nil {
			return Null, err
		}
		return Bool(ok), nil
	}
	return Null, ev.errAt(e.Pos(), "unsupported expression")
}

// evalAdd applies "+": two numbers add; if either side is a string, the
// other side is coerced to its canonical text and the results concatenate.
// Everything else is a type error naming both operand kinds.
func (ev *Evaluator) evalAdd(n *BinaryExpr, env *Env) (Value, error) {
	l, err := ev.evalExpr(n.Left, env)
	if err != nil {
		return Null, err
	}
	r, err := ev.evalExpr(n.Right, env)
	if err != nil {
		return Null, err
	}
	switch {
	case l.Tag == VTNumber && r.Tag == VTNumber:
		return Number(l.Data.(float64) + r.Data.(float64)), nil
	case l.Tag == VTString || r.Tag == VTString:
		return Str(l.Text() + r.Text()), nil
	}
	return Null, ev.errAt(n.Tok, fmt.Sprintf("cannot add %s and %s", l.Kind(), r.Kind()))
}

// evalCond reduces a condition to a boolean. The parser only ever places a
// comparison here; anything else is an internal inconsistency.
func (ev *Evaluator) evalCond(e Expr, env *Env) (bool, error) {
	b, ok := e.(*BinaryExpr)
	if !ok || b.Op == "+" {
		return false, ev.errAt(e.Pos(), "condition must compare two values")
	}
	return ev.compare(b, env)
}

// compare evaluates a comparison. Ordering needs two numbers; equality also
// works across same-typed strings, booleans and nulls. Any other pairing is
// a runtime error naming both kinds.
func (ev *Evaluator) compare(b *BinaryExpr, env *Env) (bool, error) {
	l, err := ev.evalExpr(b.Left, env)
	if err != nil {
		return false, err
	}
	r, err := ev.evalExpr(b.Right, env)
	if err != nil {
		return false, err
	}
	if l.Tag == VTNumber && r.Tag == VTNumber {
		x, y := l.Data.(float64), r.Data.(float64)
		switch b.Op {
		case "==":
			return x == y, nil
		case "!=":
			return x != y, nil
		case "<":
			return x < y, nil
		case "<=":
			return x <= y, nil
		case ">":
			return x > y, nil
		case ">=":
			return x >= y, nil
		}
	}
	if b.Op == "==" || b.Op == "!=" {
		if eq, ok := sameTypeEq(l, r); ok {
			if b.Op == "!=" {
				return !eq, nil
			}
			return eq, nil
		}
	}
	return false, ev.errAt(b.Tok, fmt.Sprintf("cannot compare %s and %s with %q", l.Kind(), r.Kind(), b.Op))
}

// sameTypeEq reports equality for same-typed non-numeric operands.
func sameTypeEq(l, r Value) (eq bool, ok bool) {
	if l.Tag != r.Tag {
		return false, false
	}
	switch l.Tag {
	case VTString:
		return l.Data.(string) == r.Data.(string), true
	case VTBool:
		return l.Data.(bool) == r.Data.(bool), true
	case VTNull:
		return true, true
	}
	return false, false
}

// evalCall invokes a user-defined function: arguments are evaluated in the
// caller's scope, bound to parameters in a fresh child scope, and the body
// runs there. Calls always yield Null.
func (ev *Evaluator) evalCall(c *CallExpr, env *Env) (Value, error) {
	fn, ok := ev.funcs[c.Callee.Name]
	if !ok {
		return Null, ev.errAt(c.Tok, fmt.Sprintf("function %q is not defined", c.Callee.Name))
	}
	if len(c.Args) != len(fn.Params) {
		return Null, ev.errAt(c.Tok, fmt.Sprintf("%s takes %d argument(s), got %d", fn.Name, len(fn.Params), len(c.Args)))
	}
	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		v, err := ev.evalExpr(a, env)
		if err != nil {
			return Null, err
		}
		args[i] = v
	}
	local := NewEnv(env)
	for i, p := range fn.Params {
		local.Define(p, args[i])
	}
	if err := ev.execBlock(fn.Body, local); err != nil {
		return Null, err
	}
	return Null, nil
}

// errAt converts a token position (0-based column) into a RuntimeError
// (1-based column).
func (ev *Evaluator) errAt(tok Token, msg string) error {
	return &RuntimeError{Line: tok.Line, Col: tok.Col + 1, Msg: msg}
}
