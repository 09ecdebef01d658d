package terminal

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Renderer holds the accumulated output buffer and redraws the full screen
// in interactive mode, or hands back unprinted lines in non-interactive
// mode.
type Renderer struct {
	out              io.Writer
	outputBuffer     []string
	lastPrintedIndex int
}

// NewRenderer returns a Renderer that writes to out, seeded with a welcome
// message as its first output line.
func NewRenderer(out io.Writer, welcomeMessage string) *Renderer {
	r := &Renderer{out: out}
	if welcomeMessage != "" {
		r.outputBuffer = append(r.outputBuffer, welcomeMessage)
	}
	return r
}

// AddOutput appends a single line.
func (r *Renderer) AddOutput(line string) {
	r.outputBuffer = append(r.outputBuffer, line)
}

// AddOutputLines appends multiple lines.
func (r *Renderer) AddOutputLines(lines []string) {
	r.outputBuffer = append(r.outputBuffer, lines...)
}

// ClearOutput empties the output buffer.
func (r *Renderer) ClearOutput() {
	r.outputBuffer = nil
	r.lastPrintedIndex = 0
}

// GetNewOutput returns every line added since the last call, advancing the
// printed marker — used by non-interactive mode, which prints output
// verbatim rather than redrawing the screen.
func (r *Renderer) GetNewOutput() []string {
	if r.lastPrintedIndex >= len(r.outputBuffer) {
		return nil
	}
	lines := r.outputBuffer[r.lastPrintedIndex:]
	r.lastPrintedIndex = len(r.outputBuffer)
	return lines
}

// Render performs a full-screen redraw: the scrolled output buffer window,
// a separator line, and the prompt with the current input and cursor.
func (r *Renderer) Render(prompt, inputBuffer string, cursor int) {
	width, height := terminalSize()
	if height < 4 {
		height = 24
	}

	fmt.Fprint(r.out, "\x1b[2J\x1b[H") // clear screen, home cursor

	available := height - 3
	if available < 1 {
		available = 1
	}
	start := 0
	if len(r.outputBuffer) > available {
		start = len(r.outputBuffer) - available
	}
	for _, line := range r.outputBuffer[start:] {
		fmt.Fprintln(r.out, line)
	}

	fmt.Fprintln(r.out, strings.Repeat("─", max(width, 1)))
	fmt.Fprint(r.out, prompt, inputBuffer)

	// Position the cursor within the input line.
	col := len(prompt) + cursor + 1
	fmt.Fprintf(r.out, "\x1b[%d;%dH", height, col)
}

// ClearScreen clears the terminal without touching the output buffer.
func ClearScreen(out io.Writer) {
	fmt.Fprint(out, "\x1b[2J\x1b[H")
}

func terminalSize() (width, height int) {
	w, h, err := term.GetSize(int(stdoutFd()))
	if err != nil {
		return 80, 24
	}
	return w, h
}
