package interp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/inconshreveable/log15.v2"

	"github.com/agenthands/bitlogic/pkg/compiler/ast"
	"github.com/agenthands/bitlogic/pkg/core/diag"
	"github.com/agenthands/bitlogic/pkg/core/value"
	"github.com/agenthands/bitlogic/pkg/stdlib"
)

// DefaultMaxCallDepth bounds nested calls. The language has no
// conditionals, so a function reaching itself never terminates.
const DefaultMaxCallDepth = 64

// log is the default Machine logger. It discards records until a caller
// supplies Machine.Log.
var log = log15.New("pkg", "interp")

func init() {
	log.SetHandler(log15.DiscardHandler())
}

// Scope is the context a statement sequence executes in.
type Scope struct {
	Locals    *Env
	Caller    *Env // source of gb; nil at top level
	Functions *FunctionTable
	Depth     int
}

// Machine walks the AST of one program at a time.
type Machine struct {
	Out   io.Writer
	Input stdlib.Input
	Log   log15.Logger

	// MaxCallDepth is the deepest allowed call nesting; zero selects
	// DefaultMaxCallDepth.
	MaxCallDepth int

	// NoReturnNotice writes "No return" when a call finishes without rt.
	NoReturnNotice bool

	globals   *Env
	functions *FunctionTable
}

func NewMachine() *Machine {
	return &Machine{
		Out:            os.Stdout,
		Log:            log,
		MaxCallDepth:   DefaultMaxCallDepth,
		NoReturnNotice: true,
	}
}

// Reset drops the variables and functions of the previous run.
func (m *Machine) Reset() {
	m.globals = NewEnv()
	m.functions = NewFunctionTable()
}

// Globals returns the top-level environment of the last run.
func (m *Machine) Globals() *Env { return m.globals }

// Functions returns the function table of the last run.
func (m *Machine) Functions() *FunctionTable { return m.functions }

// Run executes prog at top level with a fresh environment and function
// table.
func (m *Machine) Run(prog *ast.Program) error {
	m.Reset()
	sc := &Scope{Locals: m.globals, Functions: m.functions}
	_, _, err := m.Execute(prog.Statements, sc)
	if err != nil {
		return err
	}
	m.logger().Debug("Program finished", "variables", m.globals.Len(), "functions", len(m.functions.Names()))
	return nil
}

// Execute runs stmts in sc. returned reports whether a Return ended the
// sequence, in which case v is its value.
func (m *Machine) Execute(stmts []ast.Statement, sc *Scope) (v value.Value, returned bool, err error) {
	for _, stmt := range stmts {
		v, returned, err = m.step(stmt, sc)
		if err != nil {
			return value.Void, false, atLine(err, stmt.Pos().Line)
		}
		if returned {
			return v, true, nil
		}
	}
	return value.Void, false, nil
}

func (m *Machine) step(stmt ast.Statement, sc *Scope) (value.Value, bool, error) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		v, err := m.assignedValue(s, sc)
		if err != nil {
			return value.Void, false, err
		}
		sc.Locals.Set(s.Target, v)

	case *ast.FunctionDefinition:
		fn := sc.Functions.Register(s)
		m.logger().Debug("Registered function", "name", fn.Name, "params", len(fn.Params))

	case *ast.CallAssignment:
		args := make([]value.Value, len(s.Args))
		for i, name := range s.Args {
			v, ok := sc.Locals.Lookup(name)
			if !ok {
				return value.Void, false, diag.Errorf(diag.KindVariable, "Variable '%s' not defined", name)
			}
			args[i] = v
		}
		v, err := m.Call(s.Function, args, sc)
		if err != nil {
			return value.Void, false, err
		}
		sc.Locals.Set(s.Target, v)

	case *ast.OperationAssignment:
		v, err := m.evalChain(s.Chain, sc)
		if err != nil {
			return value.Void, false, err
		}
		sc.Locals.Set(s.Target, v)

	case *ast.Print:
		for _, item := range ast.Items(s.Args) {
			v, err := m.evalItem(item, sc)
			if err != nil {
				return value.Void, false, err
			}
			if _, err := fmt.Fprintln(m.Out, v.Format()); err != nil {
				return value.Void, false, err
			}
		}

	case *ast.Return:
		v, _ := sc.Locals.Lookup(s.Variable)
		return v, true, nil

	default:
		return value.Void, false, diag.Errorf(diag.KindType, "Unknown statement type: %T", stmt)
	}
	return value.Void, false, nil
}

func (m *Machine) assignedValue(s *ast.Assignment, sc *Scope) (value.Value, error) {
	switch s.Source {
	case ast.SourceLiteral:
		v, ok := value.Parse(s.Value)
		if !ok {
			return value.Void, diag.Errorf(diag.KindValue, "Unexpected value on: %s. Not binary", s.Target)
		}
		return v, nil
	case ast.SourceGlobal:
		v, ok := sc.Caller.Lookup(s.Value)
		if !ok {
			return value.Void, diag.Errorf(diag.KindVariable, "Global variable '%s' not defined", s.Value)
		}
		return v, nil
	case ast.SourceInput:
		return stdlib.ReadBitValue(m.Input, s.Target)
	}
	return value.Void, diag.Errorf(diag.KindType, "Unknown assignment source: %s", s.Source)
}

// Call invokes the function name with already resolved arguments. The
// body runs in a fresh environment with the environment of sc as its gb
// source.
func (m *Machine) Call(name string, args []value.Value, sc *Scope) (value.Value, error) {
	fn, ok := sc.Functions.Lookup(name)
	if !ok {
		return value.Void, diag.Errorf(diag.KindFunction, "Function '%s' not defined", name)
	}
	if len(args) != len(fn.Params) {
		return value.Void, diag.Errorf(diag.KindArgument,
			"Function '%s' expects %d arguments, but %d provided", fn.Name, len(fn.Params), len(args))
	}
	depth := sc.Depth + 1
	if limit := m.maxCallDepth(); depth > limit {
		return value.Void, diag.Errorf(diag.KindRecursion, "Maximum call depth %d exceeded in '%s'", limit, fn.Name)
	}

	locals := NewEnv()
	for i, param := range fn.Params {
		locals.Set(param, args[i])
	}
	inner := &Scope{Locals: locals, Caller: sc.Locals, Functions: sc.Functions, Depth: depth}

	m.logger().Debug("Calling function", "name", fn.Name, "depth", depth)
	v, returned, err := m.Execute(fn.Body, inner)
	if err != nil {
		return value.Void, err
	}
	if !returned {
		if m.NoReturnNotice {
			if _, err := fmt.Fprintln(m.Out, "No return"); err != nil {
				return value.Void, err
			}
		}
		return value.Void, nil
	}
	m.logger().Debug("Function returned", "name", fn.Name, "value", v)
	return v, nil
}

// callTerm calls a function named inside a chain or print list. Its
// arguments are the caller's variables named like its parameters.
func (m *Machine) callTerm(name string, sc *Scope) (value.Value, error) {
	fn, ok := sc.Functions.Lookup(name)
	if !ok {
		return value.Void, diag.Errorf(diag.KindFunction, "Function '%s' not defined", name)
	}
	args := make([]value.Value, len(fn.Params))
	for i, param := range fn.Params {
		v, ok := sc.Locals.Lookup(param)
		if !ok {
			return value.Void, diag.Errorf(diag.KindVariable, "Variable '%s' not defined", param)
		}
		args[i] = v
	}
	return m.Call(name, args, sc)
}

// evalItem resolves one print item. A lone operand prints as is, so a
// variable holding no value prints None.
func (m *Machine) evalItem(item []ast.Term, sc *Scope) (value.Value, error) {
	if len(item) == 1 {
		switch t := item[0]; t.Kind {
		case ast.TermVariable:
			v, ok := sc.Locals.Lookup(t.Text)
			if !ok {
				return value.Void, diag.Errorf(diag.KindVariable, "Variable '%s' not defined", t.Text)
			}
			return v, nil
		case ast.TermCall:
			return m.callTerm(t.Text, sc)
		}
	}
	return m.evalChain(item, sc)
}

// evalChain resolves every operand in order and applies the first operator
// of the chain over all of them.
func (m *Machine) evalChain(chain []ast.Term, sc *Scope) (value.Value, error) {
	var (
		operands []value.Value
		op       Operator
		opText   string
	)
	for _, t := range chain {
		if t.Kind == ast.TermOperator {
			if opText == "" {
				o, err := LookupOperator(t.Text)
				if err != nil {
					return value.Void, err
				}
				op, opText = o, t.Text
			}
			continue
		}
		v, err := m.operand(t, sc)
		if err != nil {
			return value.Void, err
		}
		operands = append(operands, v)
	}

	if opText == "" {
		if len(operands) != 1 {
			return value.Void, diag.Errorf(diag.KindOperandCount, "Expected one operand without an operator, got %d", len(operands))
		}
		return operands[0], nil
	}
	return op.Apply(operands)
}

func (m *Machine) operand(t ast.Term, sc *Scope) (value.Value, error) {
	var (
		v   value.Value
		err error
	)
	switch t.Kind {
	case ast.TermVariable:
		var ok bool
		if v, ok = sc.Locals.Lookup(t.Text); !ok {
			return value.Void, diag.Errorf(diag.KindVariable, "Variable '%s' not defined", t.Text)
		}
	case ast.TermBit:
		var ok bool
		if v, ok = value.Parse(t.Text); !ok {
			return value.Void, diag.Errorf(diag.KindValue, "Unexpected operand: %s. Not binary", t.Text)
		}
	case ast.TermCall:
		if v, err = m.callTerm(t.Text, sc); err != nil {
			return value.Void, err
		}
	default:
		return value.Void, diag.Errorf(diag.KindType, "Unknown operand type: %s", t.Kind)
	}
	if !v.IsBit() {
		return value.Void, diag.Errorf(diag.KindValue, "Operand %s holds no value", t.Text)
	}
	return v, nil
}

func (m *Machine) maxCallDepth() int {
	if m.MaxCallDepth > 0 {
		return m.MaxCallDepth
	}
	return DefaultMaxCallDepth
}

func (m *Machine) logger() log15.Logger {
	if m.Log != nil {
		return m.Log
	}
	return log
}

// atLine stamps the line of the failing statement on diagnostics that do
// not carry one yet.
func atLine(err error, line uint32) error {
	var de *diag.Error
	if errors.As(err, &de) && de.Line == 0 {
		de.AtLine(line)
	}
	return err
}
