package stdlib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/agenthands/bitlogic/pkg/core/diag"
	"github.com/agenthands/bitlogic/pkg/core/value"
)

// Input supplies the answer for one `in` site per call.
type Input interface {
	ReadBit() (string, error)
}

// DefaultPrompt is shown before each interactive read.
const DefaultPrompt = ":"

// ReadBitValue reads one answer from in for the variable target and
// validates it. Anything but "0" or "1" is a value error.
func ReadBitValue(in Input, target string) (value.Value, error) {
	if in == nil {
		return value.Void, diag.Errorf(diag.KindValue, "No input available for: %s", target)
	}
	answer, err := in.ReadBit()
	if err != nil {
		return value.Void, diag.Errorf(diag.KindValue, "Could not read input for %s: %v", target, err)
	}
	v, ok := value.Parse(answer)
	if !ok {
		return value.Void, diag.Errorf(diag.KindValue, "Unexpected input on: %s. Not binary", target)
	}
	return v, nil
}

// LinerInput prompts on the terminal with line editing. The terminal is
// claimed on the first read; Close must be called to restore it.
type LinerInput struct {
	Prompt string
	state  *liner.State
}

func NewLinerInput(prompt string) *LinerInput {
	return &LinerInput{Prompt: prompt}
}

func (l *LinerInput) ReadBit() (string, error) {
	if l.state == nil {
		l.state = liner.NewLiner()
		l.state.SetCtrlCAborts(true)
	}
	answer, err := l.state.Prompt(l.Prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", fmt.Errorf("stdlib/input: prompt aborted")
		}
		return "", err
	}
	return answer, nil
}

// Close restores the terminal.
func (l *LinerInput) Close() error {
	if l.state == nil {
		return nil
	}
	err := l.state.Close()
	l.state = nil
	return err
}

// ReaderInput reads one answer per line from a non-interactive stream.
type ReaderInput struct {
	r *bufio.Reader
}

func NewReaderInput(r io.Reader) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r)}
}

func (in *ReaderInput) ReadBit() (string, error) {
	line, err := in.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ScriptedInput replays a fixed list of answers.
type ScriptedInput struct {
	answers []string
	next    int
}

func NewScriptedInput(answers ...string) *ScriptedInput {
	return &ScriptedInput{answers: answers}
}

// ParseScript splits a comma-separated answer list such as "0,1,1".
func ParseScript(list string) *ScriptedInput {
	if list == "" {
		return NewScriptedInput()
	}
	return NewScriptedInput(strings.Split(list, ",")...)
}

func (s *ScriptedInput) ReadBit() (string, error) {
	if s.next >= len(s.answers) {
		return "", io.EOF
	}
	answer := s.answers[s.next]
	s.next++
	return answer, nil
}

// Remaining returns the number of answers not consumed yet.
func (s *ScriptedInput) Remaining() int {
	return len(s.answers) - s.next
}
