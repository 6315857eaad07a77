package lexer

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders tokens as a table with one row per token.
func WriteTable(w io.Writer, toks []Token) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Line", "Kind", "Text"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for i, tok := range toks {
		table.Append([]string{
			fmt.Sprint(i),
			fmt.Sprint(tok.Line),
			tok.Kind.String(),
			tok.Text,
		})
	}
	table.Render()
}

// Snippet joins the text of up to n tokens starting at toks[from], for use
// in diagnostics.
func Snippet(toks []Token, from, n int) string {
	if from < 0 {
		from = 0
	}
	end := from + n
	if end > len(toks) {
		end = len(toks)
	}
	if from >= end {
		return ""
	}
	parts := make([]string, 0, end-from)
	for _, tok := range toks[from:end] {
		parts = append(parts, tok.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
