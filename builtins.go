// builtins.go: registry of built-in functions.
//
// The language ships exactly two builtins: दर्श writes a value's canonical
// text to the evaluator's output sink, and परिधि produces the iteration
// bound for a परिभ्रमण loop. Both are reached through parser keywords rather
// than generic calls, but evaluation still routes them through this registry
// so print and range share one argument-checking path.
package paanini

import "fmt"

// BuiltinFn implements a built-in function. Arguments arrive already
// evaluated. A returned error carries no position; the evaluator attaches
// the call site.
type BuiltinFn func(ev *Evaluator, args []Value) (Value, error)

// Builtin describes one registered built-in.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFn
}

var builtins = map[string]*Builtin{
	"दर्श":  {Name: "दर्श", Arity: 1, Fn: builtinPrint},
	"परिधि": {Name: "परिधि", Arity: 1, Fn: builtinRange},
}

// LookupBuiltin returns the registered built-in for name, if any.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// Call checks arity and invokes the built-in.
func (b *Builtin) Call(ev *Evaluator, args []Value) (Value, error) {
	if len(args) != b.Arity {
		return Null, fmt.Errorf("%s expects %d argument(s), got %d", b.Name, b.Arity, len(args))
	}
	return b.Fn(ev, args)
}

// builtinPrint writes the canonical text of its argument plus a newline and
// yields Null. Range values have no textual form and are rejected.
func builtinPrint(ev *Evaluator, args []Value) (Value, error) {
	v := args[0]
	if v.Tag == VTRange {
		return Null, fmt.Errorf("दर्श cannot print a %s value", v.Kind())
	}
	fmt.Fprintln(ev.out, v.Text())
	return Null, nil
}

// builtinRange converts a numeric bound into a range value. Non-integral
// bounds truncate toward zero; bounds below zero iterate zero times.
func builtinRange(ev *Evaluator, args []Value) (Value, error) {
	v := args[0]
	if v.Tag != VTNumber {
		return Null, fmt.Errorf("परिधि expects a number, got %s", v.Kind())
	}
	n := int(v.Data.(float64))
	if n < 0 {
		n = 0
	}
	return NewRange(n), nil
}
