// Package input provides the interactive prompts used by `wren init`.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompter reads answers line by line. One reader is kept for the whole
// session so piped answers are not lost between prompts.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter. Nil arguments default to stdin and stdout.
func New(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Prompt asks for text input. An empty answer (or EOF) returns defaultValue.
//
// Example:
//
//	dir := p.Prompt("Resources directory", "resources")
//	// Displays: Resources directory (resources): _
func (p *Prompter) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprint(p.out, promptStyle.Render(message)+" "+
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(p.out, promptStyle.Render(message)+": ")
	}

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultValue
	}
	return answer
}

// Confirm asks a yes/no question. An empty answer returns defaultYes.
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(p.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultYes
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (p *Prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
