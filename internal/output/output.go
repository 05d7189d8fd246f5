// Package output prints the styled, human-facing lines of the wren CLI.
//
// Functions use lipgloss for styling and share one writer so commands can
// redirect everything (tests capture it with SetWriter).
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	quietMode   bool
	writer      io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output for debugging.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetQuiet suppresses everything except errors.
func SetQuiet(q bool) {
	quietMode = q
}

// SetWriter redirects all output. A nil writer restores stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

// Success prints a success message.
//
// Example:
//
//	output.Success("app.text: wrote internal/text/app/text/text_keys.go")
func Success(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintln(writer, successStyle.Render("✓ "+msg))
}

// Error prints an error message. Errors are printed even in quiet mode.
func Error(msg string) {
	fmt.Fprintln(writer, errorStyle.Render("✗ "+msg))
}

// Warn prints a warning, e.g. a stale generated file in check mode.
func Warn(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintln(writer, warnStyle.Render("! "+msg))
}

// Info prints an informational message.
func Info(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintln(writer, infoStyle.Render(msg))
}

// Step prints an indented sub-item in gray.
//
// Example:
//
//	output.Step("resources/app/text/strings_de.properties")
func Step(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintln(writer, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode && !quietMode {
		fmt.Fprintln(writer, stepStyle.Render("· "+msg))
	}
}
