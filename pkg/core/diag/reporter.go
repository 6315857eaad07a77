package diag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter writes errors in the two-line diagnostic format:
//
//	Error: <classification> - <detail>
//	<offending tokens>
type Reporter struct {
	Out   io.Writer
	Color bool
}

// NewReporter returns a reporter that colors output when f is a terminal.
func NewReporter(out io.Writer, f *os.File) *Reporter {
	return &Reporter{Out: out, Color: IsTerminal(f)}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report renders err. Errors that are not *Error are reported as-is on a
// single line.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}

	label := color.New(color.FgRed, color.Bold)
	faint := color.New(color.Faint)
	if r.Color {
		label.EnableColor()
		faint.EnableColor()
	} else {
		label.DisableColor()
		faint.DisableColor()
	}

	var de *Error
	if !errors.As(err, &de) {
		fmt.Fprintf(r.Out, "%s %v\n", label.Sprint("Error:"), err)
		return
	}

	fmt.Fprintf(r.Out, "%s %s - %s\n", label.Sprint("Error:"), label.Sprint(de.Kind), de.Detail)
	switch {
	case de.Segment != "" && de.Line > 0:
		fmt.Fprintf(r.Out, "%s %s\n", de.Segment, faint.Sprintf("(line %d)", de.Line))
	case de.Segment != "":
		fmt.Fprintln(r.Out, de.Segment)
	}
}
