package parser

import (
	"github.com/agenthands/bitlogic/pkg/compiler/ast"
	"github.com/agenthands/bitlogic/pkg/compiler/lexer"
	"github.com/agenthands/bitlogic/pkg/stdlib"
)

// Shape tests. Each inspects the tokens around index i without consuming
// anything.

func isDefinition(b *block, i int) bool {
	return b.kind(i) == lexer.KindFnKeyword || b.kind(i) == lexer.KindFnName
}

func isPrint(b *block, i int) bool {
	return b.kind(i) == lexer.KindOutput
}

// VAR BIT | VAR in, not followed by an operator
func isAssignment(b *block, i int) bool {
	return b.kind(i) == lexer.KindHex &&
		(b.kind(i+1) == lexer.KindBit || b.kind(i+1) == lexer.KindInput) &&
		b.kind(i+2) != lexer.KindOperator
}

// VAR BIT ; | VAR in ;
func isTerminatedAssignment(b *block, i int) bool {
	return isAssignment(b, i) && b.kind(i+2) == lexer.KindSemicolon
}

// VAR 1xN ...
func isCallAssignment(b *block, i int) bool {
	return b.kind(i) == lexer.KindHex && b.kind(i+1) == lexer.KindCallName
}

// VAR OPERAND OPERATOR ...
func isPostfixChain(b *block, i int) bool {
	return b.kind(i) == lexer.KindHex &&
		(b.kind(i+1) == lexer.KindHex || b.kind(i+1) == lexer.KindBit) &&
		b.kind(i+2) == lexer.KindOperator
}

// VAR OPERATOR OPERAND ;
func isPrefixChain(b *block, i int) bool {
	return b.kind(i) == lexer.KindHex &&
		b.kind(i+1) == lexer.KindOperator &&
		(b.kind(i+2) == lexer.KindHex || b.kind(i+2) == lexer.KindBit) &&
		b.kind(i+3) == lexer.KindSemicolon
}

// VAR VAR ;
func isCopy(b *block, i int) bool {
	return b.kind(i) == lexer.KindHex &&
		b.kind(i+1) == lexer.KindHex &&
		b.kind(i+2) == lexer.KindSemicolon
}

func isGlobalFetch(b *block, i int) bool {
	return b.kind(i) == lexer.KindGlobal
}

func isReturn(b *block, i int) bool {
	return b.kind(i) == lexer.KindReturn
}

func isTermKind(k lexer.Kind) bool {
	switch k {
	case lexer.KindHex, lexer.KindOperator, lexer.KindBit, lexer.KindCallName:
		return true
	}
	return false
}

// Builders. Each returns the statement and the index of the first token
// after it.

func (p *Parser) parseDefinition(b *block, i int) (ast.Statement, int, error) {
	start := b.toks[i]
	j := i
	if b.kind(j) == lexer.KindFnKeyword {
		j++
		if b.kind(j) != lexer.KindFnName {
			return nil, 0, syntaxError(b, j, "Expected function name after 'fn'")
		}
	}
	name := b.toks[j].Text
	j++

	var params []string
	for j < len(b.toks) && b.kind(j) != lexer.KindLBrace {
		if b.kind(j) != lexer.KindHex {
			return nil, 0, syntaxError(b, j, "Unexpected token: %s", b.toks[j].Text)
		}
		params = append(params, b.toks[j].Text)
		j++
	}
	if j >= len(b.toks) {
		return nil, 0, syntaxError(b, i, "Missing opening brace '{' in definition of %s", name)
	}

	closing := findClosing(b.toks, j)
	if closing < 0 {
		return nil, 0, syntaxError(b, j, "Missing closing brace '}'")
	}

	body, _, err := p.parseBlock(&block{toks: b.toks[j:closing], body: true}, 1, functionBody)
	if err != nil {
		return nil, 0, err
	}

	return &ast.FunctionDefinition{
		Token:  start,
		Name:   name,
		Params: params,
		Body:   body,
	}, closing + 1, nil
}

// findClosing returns the index of the '}' matching the '{' at open, or -1.
func findClosing(toks []lexer.Token, open int) int {
	depth := 1
	for i := open + 1; i < len(toks); i++ {
		switch toks[i].Kind {
		case lexer.KindLBrace:
			depth++
		case lexer.KindRBrace:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *Parser) parsePrint(b *block, i int) (ast.Statement, int, error) {
	args, next := collectTerms(b, i+1)
	return &ast.Print{Token: b.toks[i], Args: args}, next, nil
}

func (p *Parser) parseAssignment(b *block, i int) (ast.Statement, int, error) {
	tok := b.toks[i]
	stmt := &ast.Assignment{Token: tok, Target: tok.Text}

	if b.kind(i+1) != lexer.KindInput {
		stmt.Source = ast.SourceLiteral
		stmt.Value = b.toks[i+1].Text
		return stmt, i + 2, nil
	}

	if p.Input == nil {
		stmt.Source = ast.SourceInput
		return stmt, i + 2, nil
	}

	v, err := stdlib.ReadBitValue(p.Input, tok.Text)
	if err != nil {
		return nil, 0, atLine(err, tok.Line)
	}
	p.logger().Debug("Read input while parsing", "variable", tok.Text, "value", v)
	stmt.Source = ast.SourceLiteral
	stmt.Value = v.Format()
	return stmt, i + 2, nil
}

func (p *Parser) parseCallAssignment(b *block, i int) (ast.Statement, int, error) {
	stmt := &ast.CallAssignment{
		Token:    b.toks[i],
		Target:   b.toks[i].Text,
		Function: b.toks[i+1].Text,
	}

	j := i + 2
	for j < len(b.toks) && b.kind(j) != lexer.KindSemicolon && b.kind(j) != lexer.KindEnd {
		if b.kind(j) != lexer.KindHex {
			return nil, 0, syntaxError(b, j, "Unexpected function token: %s", b.toks[j].Text)
		}
		stmt.Args = append(stmt.Args, b.toks[j].Text)
		j++
	}
	return stmt, j, nil
}

func (p *Parser) parsePostfixChain(b *block, i int) (ast.Statement, int, error) {
	chain, next := collectTerms(b, i+1)
	return &ast.OperationAssignment{Token: b.toks[i], Target: b.toks[i].Text, Chain: chain}, next, nil
}

func (p *Parser) parsePrefixChain(b *block, i int) (ast.Statement, int, error) {
	chain, _ := collectTerms(&block{toks: b.toks[i+1 : i+3]}, 0)
	return &ast.OperationAssignment{Token: b.toks[i], Target: b.toks[i].Text, Chain: chain}, i + 3, nil
}

func (p *Parser) parseCopy(b *block, i int) (ast.Statement, int, error) {
	operand, _ := ast.TermOf(b.toks[i+1])
	return &ast.OperationAssignment{
		Token:  b.toks[i],
		Target: b.toks[i].Text,
		Chain:  []ast.Term{operand},
	}, i + 2, nil
}

// gb VAR ;
func (p *Parser) parseGlobalFetch(b *block, i int) (ast.Statement, int, error) {
	if b.kind(i+1) != lexer.KindHex {
		return nil, 0, syntaxError(b, i, "Expected variable after 'gb'")
	}
	name := b.toks[i+1].Text
	stmt := &ast.Assignment{Token: b.toks[i], Target: name, Source: ast.SourceGlobal, Value: name}

	if p.LooseGlobalFetch {
		return stmt, i + 3, nil
	}
	if i+2 < len(b.toks) && b.kind(i+2) != lexer.KindSemicolon {
		return nil, 0, syntaxError(b, i+2, "Expected ';' after gb %s", name)
	}
	return stmt, i + 2, nil
}

// rt VAR
func (p *Parser) parseReturn(b *block, i int) (ast.Statement, int, error) {
	if b.kind(i+1) != lexer.KindHex {
		return nil, 0, syntaxError(b, i, "Expected variable after 'rt'")
	}
	return &ast.Return{Token: b.toks[i], Variable: b.toks[i+1].Text}, i + 2, nil
}

// collectTerms greedily collects the contiguous run of operand and
// operator tokens starting at i.
func collectTerms(b *block, i int) ([]ast.Term, int) {
	var terms []ast.Term
	for ; i < len(b.toks) && isTermKind(b.kind(i)); i++ {
		t, _ := ast.TermOf(b.toks[i])
		terms = append(terms, t)
	}
	return terms, i
}
