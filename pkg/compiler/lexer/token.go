package lexer

import "fmt"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF       Kind = iota
	KindRaw            // matched text with no dedicated class (e.g. "2", "=")
	KindHex            // 0x..  variable name
	KindBit            // 0 or 1
	KindFnKeyword      // fn
	KindFnName         // fx..  function name at its definition
	KindCallName       // 1x..  function name at a call site
	KindInput          // in
	KindOutput         // out
	KindEnd            // #
	KindSemicolon      // ;
	KindLBrace         // {
	KindRBrace         // }
	KindOperator       // and, or, xor, not, nand, nor, xnor
	KindGlobal         // gb
	KindReturn         // rt
)

var kindNames = [...]string{
	KindEOF:       "eof",
	KindRaw:       "raw",
	KindHex:       "hex",
	KindBit:       "bit",
	KindFnKeyword: "fn",
	KindFnName:    "fnname",
	KindCallName:  "fncall",
	KindInput:     "input",
	KindOutput:    "out",
	KindEnd:       "end",
	KindSemicolon: "semicolon",
	KindLBrace:    "openbracket",
	KindRBrace:    "closedbracket",
	KindOperator:  "logicoperator",
	KindGlobal:    "gb",
	KindReturn:    "rt",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Token represents a lexical unit. Text holds the matched source text.
type Token struct {
	Kind Kind
	Text string
	Line uint32
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// IsOperand reports whether the token can stand as a value in a print list
// or an operator chain.
func (t Token) IsOperand() bool {
	return t.Kind == KindHex || t.Kind == KindBit || t.Kind == KindCallName
}
