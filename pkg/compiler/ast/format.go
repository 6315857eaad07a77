package ast

import (
	"strings"
)

// Format renders statements back into source text that parses to the same
// statement sequence. The program is terminated with the end marker.
func Format(prog *Program) string {
	var b strings.Builder
	writeStatements(&b, prog.Statements)
	b.WriteString("#")
	return b.String()
}

func writeStatements(b *strings.Builder, stmts []Statement) {
	for _, stmt := range stmts {
		writeStatement(b, stmt)
		b.WriteByte(' ')
	}
}

func writeStatement(b *strings.Builder, stmt Statement) {
	switch n := stmt.(type) {
	case *Assignment:
		switch n.Source {
		case SourceGlobal:
			b.WriteString("gb " + n.Value)
		case SourceInput:
			b.WriteString(n.Target + " in")
		default:
			b.WriteString(n.Target + " " + n.Value)
		}
		b.WriteByte(';')
	case *FunctionDefinition:
		b.WriteString("fn " + n.Name)
		for _, p := range n.Params {
			b.WriteString(" " + p)
		}
		b.WriteString(" { ")
		writeStatements(b, n.Body)
		b.WriteByte('}')
	case *CallAssignment:
		b.WriteString(n.Target + " " + n.Function)
		for _, a := range n.Args {
			b.WriteString(" " + a)
		}
		b.WriteByte(';')
	case *OperationAssignment:
		b.WriteString(n.Target + " " + joinTerms(n.Chain) + ";")
	case *Print:
		b.WriteString("out")
		if len(n.Args) > 0 {
			b.WriteString(" " + joinTerms(n.Args))
		}
		b.WriteByte(';')
	case *Return:
		b.WriteString("rt " + n.Variable)
	}
}

func joinTerms(terms []Term) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
