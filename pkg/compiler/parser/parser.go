package parser

import (
	"errors"

	"gopkg.in/inconshreveable/log15.v2"

	"github.com/agenthands/bitlogic/pkg/compiler/ast"
	"github.com/agenthands/bitlogic/pkg/compiler/lexer"
	"github.com/agenthands/bitlogic/pkg/core/diag"
	"github.com/agenthands/bitlogic/pkg/stdlib"
)

// log is the default Parser logger. It discards records until a caller
// supplies Parser.Log.
var log = log15.New("pkg", "parser")

func init() {
	log.SetHandler(log15.DiscardHandler())
}

// Parser turns a token sequence into statements. Statements are recognized
// by lookahead over neighbouring tokens: each production pairs a shape test
// with a builder, and productions are tried in table order.
type Parser struct {
	toks []lexer.Token

	// Input, when set, answers `in` sites while parsing and the resulting
	// assignments carry the literal. When nil, input sites are left for the
	// interpreter.
	Input stdlib.Input

	// LooseGlobalFetch skips the token after `gb VAR` without checking that
	// it terminates the statement.
	LooseGlobalFetch bool

	Log log15.Logger
}

// NewParser drains the scanner and returns a parser over its tokens.
func NewParser(s *lexer.Scanner) *Parser {
	p := &Parser{Log: log}
	for {
		tok := s.Next()
		if tok.Kind == lexer.KindEOF {
			break
		}
		p.toks = append(p.toks, tok)
	}
	return p
}

// FromTokens returns a parser over an already scanned token sequence.
func FromTokens(toks []lexer.Token) *Parser {
	return &Parser{toks: toks, Log: log}
}

// block is the token span a statement list is parsed from: the whole
// program, or a function body starting at its '{'.
type block struct {
	toks []lexer.Token
	body bool
}

// kind returns the kind of toks[i], or KindEOF outside the span.
func (b *block) kind(i int) lexer.Kind {
	if i < 0 || i >= len(b.toks) {
		return lexer.KindEOF
	}
	return b.toks[i].Kind
}

type production struct {
	name  string
	shape func(b *block, i int) bool
	build func(p *Parser, b *block, i int) (ast.Statement, int, error)
}

var topLevel = []production{
	{"function definition", isDefinition, (*Parser).parseDefinition},
	{"print", isPrint, (*Parser).parsePrint},
	{"assignment", isAssignment, (*Parser).parseAssignment},
	{"call assignment", isCallAssignment, (*Parser).parseCallAssignment},
	{"operator chain", isPostfixChain, (*Parser).parsePostfixChain},
	{"prefix operator", isPrefixChain, (*Parser).parsePrefixChain},
	{"copy", isCopy, (*Parser).parseCopy},
}

var functionBody = []production{
	{"assignment", isTerminatedAssignment, (*Parser).parseAssignment},
	{"call assignment", isCallAssignment, (*Parser).parseCallAssignment},
	{"operator chain", isPostfixChain, (*Parser).parsePostfixChain},
	{"prefix operator", isPrefixChain, (*Parser).parsePrefixChain},
	{"copy", isCopy, (*Parser).parseCopy},
	{"global fetch", isGlobalFetch, (*Parser).parseGlobalFetch},
	{"return", isReturn, (*Parser).parseReturn},
}

// Parse parses the whole program. The program must be terminated by '#';
// tokens after it are ignored.
func (p *Parser) Parse() (*ast.Program, error) {
	b := &block{toks: p.toks}
	stmts, ended, err := p.parseBlock(b, 0, topLevel)
	if err != nil {
		return nil, err
	}
	if !ended {
		return nil, p.missingEnd()
	}
	p.logger().Debug("Parsed program", "tokens", len(p.toks), "statements", len(stmts))
	return &ast.Program{Statements: stmts}, nil
}

// parseBlock parses statements from b starting at index start. ended
// reports whether the top-level end marker was reached.
func (p *Parser) parseBlock(b *block, start int, table []production) (stmts []ast.Statement, ended bool, err error) {
	i := start
	for i < len(b.toks) {
		tok := b.toks[i]

		switch {
		case tok.Kind == lexer.KindEnd && !b.body:
			return stmts, true, nil
		case tok.Kind == lexer.KindSemicolon:
			done, err := p.separator(b, i)
			if err != nil {
				return nil, false, err
			}
			if done {
				return stmts, !b.body, nil
			}
			i++
			continue
		}

		stmt, next, err := p.statement(b, i, table)
		if err != nil {
			return nil, false, err
		}
		stmts = append(stmts, stmt)
		i = next

		// Nothing after rt is part of the function.
		if _, ok := stmt.(*ast.Return); ok && b.body {
			return stmts, false, nil
		}
	}
	return stmts, false, nil
}

func (p *Parser) statement(b *block, i int, table []production) (ast.Statement, int, error) {
	for _, prod := range table {
		if !prod.shape(b, i) {
			continue
		}
		stmt, next, err := prod.build(p, b, i)
		if err != nil {
			return nil, 0, err
		}
		p.logger().Debug("Matched production", "name", prod.name, "line", b.toks[i].Line)
		return stmt, next, nil
	}
	return nil, 0, p.unexpected(b, i)
}

// separator validates the ';' at index i. done reports that parsing of
// the block finishes here.
func (p *Parser) separator(b *block, i int) (done bool, err error) {
	if b.kind(i-1) == lexer.KindOperator || b.kind(i-1) == lexer.KindSemicolon || b.kind(i+1) == lexer.KindSemicolon {
		return false, syntaxError(b, i, "Unexpected token: %s", lexer.KindSemicolon)
	}
	if i+1 == len(b.toks) {
		if b.body {
			return true, nil
		}
		return false, p.missingEnd()
	}
	if b.kind(i+1) == lexer.KindEnd && !b.body {
		return true, nil
	}
	return false, nil
}

func (p *Parser) unexpected(b *block, i int) error {
	tok := b.toks[i]
	text := tok.Text
	if text == "" {
		text = tok.Kind.String()
	}
	if b.body {
		return syntaxError(b, i, "Unexpected token in function body: %s", text)
	}
	return syntaxError(b, i, "Unexpected token: %s", text)
}

func (p *Parser) missingEnd() error {
	var line uint32
	if len(p.toks) > 0 {
		line = p.toks[len(p.toks)-1].Line
	}
	return diag.Errorf(diag.KindSyntax, "Expected # token at the end line").AtLine(line)
}

// syntaxError reports a syntax error at b.toks[i] with a snippet of the
// tokens starting there.
func syntaxError(b *block, i int, format string, args ...interface{}) *diag.Error {
	err := diag.Errorf(diag.KindSyntax, format, args...).WithSegment(lexer.Snippet(b.toks, i, 3))
	if i >= 0 && i < len(b.toks) {
		err.AtLine(b.toks[i].Line)
	} else if len(b.toks) > 0 {
		err.AtLine(b.toks[len(b.toks)-1].Line)
	}
	return err
}

// atLine stamps a line on diagnostics produced outside the parser.
func atLine(err error, line uint32) error {
	var de *diag.Error
	if errors.As(err, &de) && de.Line == 0 {
		de.AtLine(line)
	}
	return err
}

func (p *Parser) logger() log15.Logger {
	if p.Log != nil {
		return p.Log
	}
	return log
}
