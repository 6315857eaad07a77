package interp

import (
	"sort"
	"strings"

	"github.com/agenthands/bitlogic/pkg/compiler/ast"
	"github.com/agenthands/bitlogic/pkg/core/value"
)

// Env maps variable names to values. A nil *Env is empty.
type Env struct {
	vars map[string]value.Value
}

func NewEnv() *Env {
	return &Env{vars: make(map[string]value.Value)}
}

// Lookup returns the value bound to name.
func (e *Env) Lookup(name string) (value.Value, bool) {
	if e == nil {
		return value.Void, false
	}
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, replacing any previous binding.
func (e *Env) Set(name string, v value.Value) {
	e.vars[name] = v
}

func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.vars)
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Function is a registered definition, keyed by its call form.
type Function struct {
	Name   string // call form, 1x..
	Params []string
	Body   []ast.Statement
}

// FunctionTable holds the functions defined during a run.
type FunctionTable struct {
	fns map[string]*Function
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{fns: make(map[string]*Function)}
}

// CallName converts a definition name (fx..) to its call form (1x..).
// Names already in call form are returned unchanged.
func CallName(name string) string {
	if strings.HasPrefix(name, "fx") {
		return "1x" + name[2:]
	}
	return name
}

// Register adds def under its call form. A later definition of the same
// name replaces the earlier one.
func (t *FunctionTable) Register(def *ast.FunctionDefinition) *Function {
	fn := &Function{
		Name:   CallName(def.Name),
		Params: def.Params,
		Body:   def.Body,
	}
	t.fns[fn.Name] = fn
	return fn
}

// Lookup finds a function by either its definition or its call form.
func (t *FunctionTable) Lookup(name string) (*Function, bool) {
	if t == nil {
		return nil, false
	}
	fn, ok := t.fns[CallName(name)]
	return fn, ok
}

// Names returns the call forms of all registered functions, sorted.
func (t *FunctionTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.fns))
	for name := range t.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
