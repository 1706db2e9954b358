// env.go: chained variable scopes.
package paanini

// Env is a variable scope with an optional parent. Reads walk the chain
// outward; writes always land in the scope they run in, so an assignment
// inside a function shadows an outer binding instead of mutating it.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates a scope. parent may be nil for the global scope.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Get resolves name, walking parent scopes outward.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return Null, false
}

// Define binds name in this scope, shadowing any outer binding of the same
// name. Rebinding an existing name overwrites it.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}
