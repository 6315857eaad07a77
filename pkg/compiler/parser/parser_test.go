package parser_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/inconshreveable/log15.v2"

	"github.com/agenthands/bitlogic/pkg/compiler/ast"
	"github.com/agenthands/bitlogic/pkg/compiler/lexer"
	"github.com/agenthands/bitlogic/pkg/compiler/parser"
	"github.com/agenthands/bitlogic/pkg/core/diag"
	"github.com/agenthands/bitlogic/pkg/stdlib"
)

var ignorePos = cmpopts.IgnoreTypes(lexer.Token{})

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.NewParser(lexer.NewScanner([]byte(src)))
	prog, err := p.Parse()
	require.NoError(t, err, "source: %s", src)
	return prog
}

func v(name string) ast.Term  { return ast.Term{Kind: ast.TermVariable, Text: name} }
func op(name string) ast.Term { return ast.Term{Kind: ast.TermOperator, Text: name} }
func bit(b string) ast.Term   { return ast.Term{Kind: ast.TermBit, Text: b} }
func call(n string) ast.Term  { return ast.Term{Kind: ast.TermCall, Text: n} }

func TestParseTopLevel(t *testing.T) {
	prog := parse(t, "0x1 0;0x2 1;0x3 0x1 and 0x2;out 0x3;#")

	want := []ast.Statement{
		&ast.Assignment{Target: "0x1", Source: ast.SourceLiteral, Value: "0"},
		&ast.Assignment{Target: "0x2", Source: ast.SourceLiteral, Value: "1"},
		&ast.OperationAssignment{Target: "0x3", Chain: []ast.Term{v("0x1"), op("and"), v("0x2")}},
		&ast.Print{Args: []ast.Term{v("0x3")}},
	}
	assert.Empty(t, cmp.Diff(want, prog.Statements, ignorePos), spew.Sdump(prog.Statements))
}

func TestParseBitLedChain(t *testing.T) {
	// A bit followed by an operator starts a chain, not an assignment.
	prog := parse(t, "0x2 1; 0x3 1 and 0x2; 0x4 0 or 1;#")

	want := []ast.Statement{
		&ast.Assignment{Target: "0x2", Source: ast.SourceLiteral, Value: "1"},
		&ast.OperationAssignment{Target: "0x3", Chain: []ast.Term{bit("1"), op("and"), v("0x2")}},
		&ast.OperationAssignment{Target: "0x4", Chain: []ast.Term{bit("0"), op("or"), bit("1")}},
	}
	assert.Empty(t, cmp.Diff(want, prog.Statements, ignorePos), spew.Sdump(prog.Statements))
}

func TestParseFunctionDefinition(t *testing.T) {
	src := `
	fn fx1 0x1 0x2 {
		gb 0x9;
		0x3 0x1 xor 0x2 0x9;
		0x4 not 0x3;
		0x5 1x2 0x3 0x4;
		0x6 0x5;
		rt 0x6
	}
	0x1 1;
	out 1x1 0x1 and 1;
	#`
	prog := parse(t, src)

	want := []ast.Statement{
		&ast.FunctionDefinition{
			Name:   "fx1",
			Params: []string{"0x1", "0x2"},
			Body: []ast.Statement{
				&ast.Assignment{Target: "0x9", Source: ast.SourceGlobal, Value: "0x9"},
				&ast.OperationAssignment{Target: "0x3", Chain: []ast.Term{v("0x1"), op("xor"), v("0x2"), v("0x9")}},
				&ast.OperationAssignment{Target: "0x4", Chain: []ast.Term{op("not"), v("0x3")}},
				&ast.CallAssignment{Target: "0x5", Function: "1x2", Args: []string{"0x3", "0x4"}},
				&ast.OperationAssignment{Target: "0x6", Chain: []ast.Term{v("0x5")}},
				&ast.Return{Variable: "0x6"},
			},
		},
		&ast.Assignment{Target: "0x1", Source: ast.SourceLiteral, Value: "1"},
		&ast.Print{Args: []ast.Term{call("1x1"), v("0x1"), op("and"), bit("1")}},
	}
	assert.Empty(t, cmp.Diff(want, prog.Statements, ignorePos))
}

func TestParseBareFunctionName(t *testing.T) {
	prog := parse(t, "fx1 { 0x1 1; rt 0x1 } out 1x1;#")
	require.IsType(t, &ast.FunctionDefinition{}, prog.Statements[0])
	def := prog.Statements[0].(*ast.FunctionDefinition)
	assert.Equal(t, "fx1", def.Name)
	assert.Empty(t, def.Params)
	assert.Len(t, def.Body, 2)
}

func TestParseReturnEndsBody(t *testing.T) {
	prog := parse(t, "fn fx1 { 0x1 1; rt 0x1 0x2 0; } #")
	def := prog.Statements[0].(*ast.FunctionDefinition)
	require.Len(t, def.Body, 2)
	assert.IsType(t, &ast.Return{}, def.Body[1])
}

func TestParseIgnoresAfterEnd(t *testing.T) {
	prog := parse(t, "out 1; # garbage and ;;")
	assert.Len(t, prog.Statements, 1)
}

func TestParseEmptyProgram(t *testing.T) {
	prog := parse(t, "#")
	assert.Empty(t, prog.Statements)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"double semicolon", "0x1 0;;#"},
		{"semicolon after operator", "0x1 0x2 and;#"},
		{"semicolon after print operator", "out 0x1 and;#"},
		{"semicolon after operator before brace", "fn fx1 { 0x1 0x2 or; } #"},
		{"missing end", "0x1 0"},
		{"trailing semicolon without end", "0x1 0;"},
		{"empty source", ""},
		{"missing closing brace", "fn fx1 0x1 { rt 0x1 #"},
		{"missing opening brace", "fn fx1 0x1"},
		{"non-hex parameter", "fn fx1 1 { rt 0x1 } #"},
		{"fn without name", "fn 0x1 { rt 0x1 } #"},
		{"operator at statement start", "and 0x1;#"},
		{"gb at top level", "gb 0x1;#"},
		{"rt at top level", "rt 0x1;#"},
		{"raw token", "2;#"},
		{"unterminated body assignment", "fn fx1 { 0x1 1 } #"},
		{"out inside body", "fn fx1 { out 0x1; } #"},
		{"nested definition", "fn fx1 { fn fx2 { } } #"},
		{"bad call argument", "0x1 1x1 0x2 1;#"},
		{"gb without variable", "fn fx1 { gb 1; } #"},
		{"rt without variable", "fn fx1 { rt 1 } #"},
		{"gb with bad terminator", "fn fx1 { gb 0x1 0x2; rt 0x1 } #"},
		{"three operands without operator", "0x1 0x2 0x3;#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.NewParser(lexer.NewScanner([]byte(tt.src)))
			_, err := p.Parse()
			assert.True(t, errors.Is(err, diag.ErrSyntax), "Parse(%q) error = %v", tt.src, err)
		})
	}
}

func TestSyntaxErrorDetail(t *testing.T) {
	p := parser.NewParser(lexer.NewScanner([]byte("0x1 0;\nand 0x1;#")))
	_, err := p.Parse()

	var de *diag.Error
	require.True(t, errors.As(err, &de), "got %v", err)
	assert.Equal(t, "Unexpected token: and", de.Detail)
	assert.EqualValues(t, 2, de.Line)
	assert.Equal(t, "[logicoperator(and) hex(0x1) semicolon(;)]", de.Segment)
}

func TestLooseGlobalFetch(t *testing.T) {
	src := "fn fx1 { gb 0x1 0x2 rt 0x1 } #"

	p := parser.NewParser(lexer.NewScanner([]byte(src)))
	_, err := p.Parse()
	require.True(t, errors.Is(err, diag.ErrSyntax), "strict parse: %v", err)

	p = parser.NewParser(lexer.NewScanner([]byte(src)))
	p.LooseGlobalFetch = true
	prog, err := p.Parse()
	require.NoError(t, err)
	body := prog.Statements[0].(*ast.FunctionDefinition).Body
	want := []ast.Statement{
		&ast.Assignment{Target: "0x1", Source: ast.SourceGlobal, Value: "0x1"},
		&ast.Return{Variable: "0x1"},
	}
	assert.Empty(t, cmp.Diff(want, body, ignorePos))
}

func TestInputWhileParsing(t *testing.T) {
	src := "0x1 in; 0x2 in; out 0x1 0x2;#"

	p := parser.NewParser(lexer.NewScanner([]byte(src)))
	p.Input = stdlib.NewScriptedInput("1", "0")
	prog, err := p.Parse()
	require.NoError(t, err)
	want := []ast.Statement{
		&ast.Assignment{Target: "0x1", Source: ast.SourceLiteral, Value: "1"},
		&ast.Assignment{Target: "0x2", Source: ast.SourceLiteral, Value: "0"},
		&ast.Print{Args: []ast.Term{v("0x1"), v("0x2")}},
	}
	assert.Empty(t, cmp.Diff(want, prog.Statements, ignorePos))

	p = parser.NewParser(lexer.NewScanner([]byte(src)))
	p.Input = stdlib.NewScriptedInput("2", "0")
	_, err = p.Parse()
	assert.True(t, errors.Is(err, diag.ErrValue), "got %v", err)
}

func TestInputDeferred(t *testing.T) {
	prog := parse(t, "0x1 in;#")
	want := []ast.Statement{&ast.Assignment{Target: "0x1", Source: ast.SourceInput}}
	assert.Empty(t, cmp.Diff(want, prog.Statements, ignorePos))
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"0x1 0;0x2 1;0x3 0x1 and 0x2;out 0x3;#",
		"fn fx1 { 0x1 1; rt 0x1 } out 1x1;#",
		"fn fx1 0x1 0x2 { gb 0x9; 0x3 0x1 nand 0x2 0x9; 0x4 not 0x3; rt 0x4 } 0x1 1; 0x2 0; 0x9 1; 0x5 1x1 0x1 0x2; out 0x5 1x1 0x1 xnor 0x2;#",
		"0x1 in; 0x2 0x1; 0x3 xor 1; out;#",
		"fx2 0xA { 0xB 0xA or 1x2; } 0xA 0; out 1x2;#",
	}

	for _, src := range sources {
		first := parse(t, src)
		text := ast.Format(first)
		second := parse(t, text)
		assert.Empty(t, cmp.Diff(first.Statements, second.Statements, ignorePos),
			"round trip of %q through %q", src, text)
	}
}

func TestFromTokens(t *testing.T) {
	toks := lexer.Tokenize([]byte("out 1;#"))
	prog, err := parser.FromTokens(toks).Parse()
	require.NoError(t, err)
	assert.Len(t, prog.Statements, 1)
}

func TestParserLogger(t *testing.T) {
	var root bytes.Buffer
	prev := log15.Root().GetHandler()
	log15.Root().SetHandler(log15.StreamHandler(&root, log15.LogfmtFormat()))
	defer log15.Root().SetHandler(prev)

	const src = "0x1 in; out 0x1;#"
	p := parser.NewParser(lexer.NewScanner([]byte(src)))
	p.Input = stdlib.NewScriptedInput("1")
	_, err := p.Parse()
	require.NoError(t, err)
	assert.Empty(t, root.String(), "default parser logged through the root handler")

	var trace bytes.Buffer
	p = parser.NewParser(lexer.NewScanner([]byte(src)))
	p.Input = stdlib.NewScriptedInput("1")
	p.Log = log15.New("pkg", "parser")
	p.Log.SetHandler(log15.StreamHandler(&trace, log15.LogfmtFormat()))
	_, err = p.Parse()
	require.NoError(t, err)
	assert.Contains(t, trace.String(), "Matched production")
	assert.Contains(t, trace.String(), "Read input while parsing")
}
