package ast

import "github.com/agenthands/bitlogic/pkg/compiler/lexer"

// Statement represents a standalone unit of execution. The set of
// implementations is closed.
type Statement interface {
	Pos() lexer.Token
	stmtNode()
}

// Program is the root node.
type Program struct {
	Statements []Statement
}

// Source tells where an Assignment takes its value from.
type Source uint8

const (
	SourceLiteral Source = iota // Value is "0" or "1"
	SourceGlobal                // Value names a variable of the caller (gb)
	SourceInput                 // read from the input collaborator when executed
)

func (s Source) String() string {
	switch s {
	case SourceLiteral:
		return "literal"
	case SourceGlobal:
		return "global"
	case SourceInput:
		return "input"
	}
	return "unknown"
}

// Assignment: VAR BIT | VAR in | gb VAR
type Assignment struct {
	Token  lexer.Token
	Target string
	Source Source
	Value  string
}

func (a *Assignment) Pos() lexer.Token { return a.Token }
func (a *Assignment) stmtNode()        {}

// FunctionDefinition: fn fxN PARAMS { BODY }
type FunctionDefinition struct {
	Token  lexer.Token
	Name   string // definition form, fx..
	Params []string
	Body   []Statement
}

func (f *FunctionDefinition) Pos() lexer.Token { return f.Token }
func (f *FunctionDefinition) stmtNode()        {}

// CallAssignment: VAR 1xN ARGS
type CallAssignment struct {
	Token    lexer.Token
	Target   string
	Function string // call form, 1x..
	Args     []string
}

func (c *CallAssignment) Pos() lexer.Token { return c.Token }
func (c *CallAssignment) stmtNode()        {}

// OperationAssignment: VAR CHAIN
type OperationAssignment struct {
	Token  lexer.Token
	Target string
	Chain  []Term
}

func (o *OperationAssignment) Pos() lexer.Token { return o.Token }
func (o *OperationAssignment) stmtNode()        {}

// Print: out TERMS
type Print struct {
	Token lexer.Token
	Args  []Term
}

func (p *Print) Pos() lexer.Token { return p.Token }
func (p *Print) stmtNode()        {}

// Return: rt VAR
type Return struct {
	Token    lexer.Token
	Variable string
}

func (r *Return) Pos() lexer.Token { return r.Token }
func (r *Return) stmtNode()        {}

// TermKind classifies the members of print lists and operator chains.
type TermKind uint8

const (
	TermVariable TermKind = iota
	TermBit
	TermCall
	TermOperator
)

func (k TermKind) String() string {
	switch k {
	case TermVariable:
		return "hex"
	case TermBit:
		return "bit"
	case TermCall:
		return "fncall"
	case TermOperator:
		return "logicoperator"
	}
	return "unknown"
}

// Term is one (kind, value) pair of a print list or operator chain.
type Term struct {
	Kind TermKind
	Text string
}

// TermOf converts an operand or operator token. ok is false for any other
// token kind.
func TermOf(tok lexer.Token) (Term, bool) {
	switch tok.Kind {
	case lexer.KindHex:
		return Term{Kind: TermVariable, Text: tok.Text}, true
	case lexer.KindBit:
		return Term{Kind: TermBit, Text: tok.Text}, true
	case lexer.KindCallName:
		return Term{Kind: TermCall, Text: tok.Text}, true
	case lexer.KindOperator:
		return Term{Kind: TermOperator, Text: tok.Text}, true
	}
	return Term{}, false
}

// Items splits a print list into independently printed items. An operand
// that directly follows another operand starts a new item; operators join
// their neighbours into one chain.
func Items(terms []Term) [][]Term {
	var items [][]Term
	for i, t := range terms {
		startsItem := i == 0 ||
			(t.Kind != TermOperator && terms[i-1].Kind != TermOperator)
		if startsItem {
			items = append(items, []Term{t})
			continue
		}
		items[len(items)-1] = append(items[len(items)-1], t)
	}
	return items
}
