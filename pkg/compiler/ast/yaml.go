package ast

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlTerm struct {
	Kind string `yaml:"kind"`
	Text string `yaml:"text"`
}

type yamlNode struct {
	Node     string     `yaml:"node"`
	Line     uint32     `yaml:"line"`
	Target   string     `yaml:"target,omitempty"`
	Source   string     `yaml:"source,omitempty"`
	Value    string     `yaml:"value,omitempty"`
	Name     string     `yaml:"name,omitempty"`
	Function string     `yaml:"function,omitempty"`
	Params   []string   `yaml:"params,omitempty"`
	Args     []string   `yaml:"args,omitempty"`
	Terms    []yamlTerm `yaml:"terms,omitempty"`
	Body     []yamlNode `yaml:"body,omitempty"`
}

// WriteYAML dumps the program as a YAML sequence of statements.
func WriteYAML(w io.Writer, prog *Program) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(prog.Statements)); err != nil {
		return err
	}
	return enc.Close()
}

func toYAML(stmts []Statement) []yamlNode {
	nodes := make([]yamlNode, 0, len(stmts))
	for _, stmt := range stmts {
		n := yamlNode{Line: stmt.Pos().Line}
		switch s := stmt.(type) {
		case *Assignment:
			n.Node, n.Target, n.Source, n.Value = "assignment", s.Target, s.Source.String(), s.Value
		case *FunctionDefinition:
			n.Node, n.Name, n.Params, n.Body = "function", s.Name, s.Params, toYAML(s.Body)
		case *CallAssignment:
			n.Node, n.Target, n.Function, n.Args = "call", s.Target, s.Function, s.Args
		case *OperationAssignment:
			n.Node, n.Target, n.Terms = "operation", s.Target, toYAMLTerms(s.Chain)
		case *Print:
			n.Node, n.Terms = "print", toYAMLTerms(s.Args)
		case *Return:
			n.Node, n.Value = "return", s.Variable
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func toYAMLTerms(terms []Term) []yamlTerm {
	out := make([]yamlTerm, len(terms))
	for i, t := range terms {
		out[i] = yamlTerm{Kind: t.Kind.String(), Text: t.Text}
	}
	return out
}
