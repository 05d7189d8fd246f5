package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DiffOptions configures unified diff output. Zero values pick defaults.
type DiffOptions struct {
	ContextLines int // unchanged lines around each change (default 3)
	Width        int // maximum rendered line width (default: terminal width, or 80)
	MaxLines     int // inputs longer than this are not diffed (default 10000)
}

var (
	diffHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	diffHunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	diffAddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	diffRemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// Differ renders unified diffs between two versions of a file.
type Differ struct {
	opts DiffOptions
}

// NewDiffer creates a Differ, filling in defaults.
func NewDiffer(opts DiffOptions) *Differ {
	if opts.ContextLines <= 0 {
		opts.ContextLines = 3
	}
	if opts.Width <= 0 {
		opts.Width = TerminalWidth()
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = 10000
	}
	return &Differ{opts: opts}
}

// Diff returns a unified diff from old to newer, or "" when they are equal.
func (d *Differ) Diff(oldName, newName string, old, newer []byte) string {
	if bytes.Equal(old, newer) {
		return ""
	}

	a, b := splitLines(old), splitLines(newer)
	if len(a) > d.opts.MaxLines || len(b) > d.opts.MaxLines {
		return fmt.Sprintf("files too large to diff (%d and %d lines)\n", len(a), len(b))
	}

	edits := editScript(a, b)
	hunks := groupHunks(edits, d.opts.ContextLines)
	if len(hunks) == 0 {
		// Only a trailing newline differs.
		return diffHeaderStyle.Render("--- "+oldName) + "\n" +
			diffHeaderStyle.Render("+++ "+newName) + "\n" +
			"\\ No newline at end of file\n"
	}

	var out strings.Builder
	out.WriteString(diffHeaderStyle.Render("--- "+oldName) + "\n")
	out.WriteString(diffHeaderStyle.Render("+++ "+newName) + "\n")
	for _, h := range hunks {
		out.WriteString(diffHunkStyle.Render(h.header()) + "\n")
		for _, e := range h.edits {
			line := truncate(expandTabs(e.text, 4), d.opts.Width-2)
			switch e.op {
			case opInsert:
				out.WriteString(diffAddedStyle.Render("+"+line) + "\n")
			case opDelete:
				out.WriteString(diffRemovedStyle.Render("-"+line) + "\n")
			default:
				out.WriteString(" " + line + "\n")
			}
		}
	}
	return out.String()
}

type editOp int

const (
	opEqual editOp = iota
	opInsert
	opDelete
)

type edit struct {
	op   editOp
	text string
}

// editScript computes a shortest edit script with Myers' O(ND) algorithm.
func editScript(a, b []string) []edit {
	n, m := len(a), len(b)
	maxD := n + m
	offset := maxD + 1
	v := make([]int, 2*maxD+3)
	var trace [][]int

	for d := 0; d <= maxD; d++ {
		trace = append(trace, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return backtrack(trace, a, b, offset)
			}
		}
	}
	return nil
}

func backtrack(trace [][]int, a, b []string, offset int) []edit {
	x, y := len(a), len(b)
	var edits []edit

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		prevK := k - 1
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			edits = append(edits, edit{op: opEqual, text: a[x-1]})
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				edits = append(edits, edit{op: opInsert, text: b[y-1]})
			} else {
				edits = append(edits, edit{op: opDelete, text: a[x-1]})
			}
		}
		x, y = prevX, prevY
	}

	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
	return edits
}

type diffHunk struct {
	oldStart, oldCount int
	newStart, newCount int
	edits              []edit
}

func (h diffHunk) header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
}

// groupHunks splits an edit script into hunks, keeping context lines of
// unchanged text around each change and merging hunks whose context touches.
func groupHunks(edits []edit, context int) []diffHunk {
	// oldPos[i]/newPos[i] count lines consumed before edit i.
	oldPos := make([]int, len(edits)+1)
	newPos := make([]int, len(edits)+1)
	for i, e := range edits {
		oldPos[i+1], newPos[i+1] = oldPos[i], newPos[i]
		if e.op != opInsert {
			oldPos[i+1]++
		}
		if e.op != opDelete {
			newPos[i+1]++
		}
	}

	var hunks []diffHunk
	start, end := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		h := diffHunk{edits: edits[start:end]}
		h.oldCount = oldPos[end] - oldPos[start]
		h.newCount = newPos[end] - newPos[start]
		h.oldStart = oldPos[start]
		if h.oldCount > 0 {
			h.oldStart++
		}
		h.newStart = newPos[start]
		if h.newCount > 0 {
			h.newStart++
		}
		hunks = append(hunks, h)
		start, end = -1, -1
	}

	for i, e := range edits {
		if e.op == opEqual {
			continue
		}
		lo := max(0, i-context)
		hi := min(len(edits), i+context+1)
		if start >= 0 && lo > end {
			flush()
		}
		if start < 0 {
			start = lo
		}
		end = hi
	}
	flush()
	return hunks
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	lines := strings.Split(string(b), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func expandTabs(s string, width int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width < 4 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalHeight returns the height of stdout, or 24 when it is not a terminal.
func TerminalHeight() int {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || height <= 0 {
		return 24
	}
	return height
}
