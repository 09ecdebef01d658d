// Package terminal implements the line editor and renderer the driver loop
// uses for dshell's interactive REPL mode.
package terminal

import "strings"

// MaxHistorySize caps the number of remembered input lines.
const MaxHistorySize = 1000

// InputAction is what HandleKey returns: either nothing changed, a line
// was submitted, or the user asked to exit.
type InputAction struct {
	Submitted string
	Exit      bool
	Changed   bool
}

// Editor is a single-line, in-memory editable buffer with history
// navigation. It holds no terminal state itself; ReadKey lives in keys.go
// and raw-mode toggling in tty.go.
type Editor struct {
	buffer       []rune
	cursor       int
	history      []string
	historyIndex int
	savedBuffer  string
}

// NewEditor returns an empty editor.
func NewEditor() *Editor {
	return &Editor{}
}

// Buffer returns the current line contents.
func (e *Editor) Buffer() string { return string(e.buffer) }

// CursorPos returns the cursor's rune offset into Buffer().
func (e *Editor) CursorPos() int { return e.cursor }

// Clear empties the buffer and resets history navigation.
func (e *Editor) Clear() {
	e.buffer = nil
	e.cursor = 0
	e.historyIndex = len(e.history)
	e.savedBuffer = ""
}

// AddToHistory appends line to history, capped at MaxHistorySize and
// deduplicating immediately-repeated entries.
func (e *Editor) AddToHistory(line string) {
	if line == "" {
		return
	}
	if len(e.history) > 0 && e.history[len(e.history)-1] == line {
		return
	}
	e.history = append(e.history, line)
	if len(e.history) > MaxHistorySize {
		e.history = e.history[len(e.history)-MaxHistorySize:]
	}
	e.historyIndex = len(e.history)
}

func (e *Editor) insert(r rune) {
	e.buffer = append(e.buffer[:e.cursor], append([]rune{r}, e.buffer[e.cursor:]...)...)
	e.cursor++
}

func (e *Editor) backspace() {
	if e.cursor == 0 {
		return
	}
	e.buffer = append(e.buffer[:e.cursor-1], e.buffer[e.cursor:]...)
	e.cursor--
}

func (e *Editor) delete() {
	if e.cursor >= len(e.buffer) {
		return
	}
	e.buffer = append(e.buffer[:e.cursor], e.buffer[e.cursor+1:]...)
}

func (e *Editor) navigateHistoryUp() {
	if len(e.history) == 0 || e.historyIndex == 0 {
		return
	}
	if e.historyIndex == len(e.history) {
		e.savedBuffer = e.Buffer()
	}
	e.historyIndex--
	e.buffer = []rune(e.history[e.historyIndex])
	e.cursor = len(e.buffer)
}

func (e *Editor) navigateHistoryDown() {
	if e.historyIndex >= len(e.history) {
		return
	}
	e.historyIndex++
	if e.historyIndex == len(e.history) {
		e.buffer = []rune(e.savedBuffer)
	} else {
		e.buffer = []rune(e.history[e.historyIndex])
	}
	e.cursor = len(e.buffer)
}

// sanitizePaste strips control characters except space, collapsing the
// paste to a single printable line.
func sanitizePaste(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r >= 0x20 {
			if r != 0x7f {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// HandleKey applies one decoded key event to the editor and reports the
// resulting action.
func (e *Editor) HandleKey(k Key) InputAction {
	switch k.Kind {
	case KeyCtrlC, KeyCtrlD:
		return InputAction{Exit: true}
	case KeyEnter:
		line := e.Buffer()
		return InputAction{Submitted: line}
	case KeyBackspace:
		e.backspace()
		return InputAction{Changed: true}
	case KeyDelete:
		e.delete()
		return InputAction{Changed: true}
	case KeyLeft:
		if e.cursor > 0 {
			e.cursor--
		}
		return InputAction{Changed: true}
	case KeyRight:
		if e.cursor < len(e.buffer) {
			e.cursor++
		}
		return InputAction{Changed: true}
	case KeyHome:
		e.cursor = 0
		return InputAction{Changed: true}
	case KeyEnd:
		e.cursor = len(e.buffer)
		return InputAction{Changed: true}
	case KeyUp:
		e.navigateHistoryUp()
		return InputAction{Changed: true}
	case KeyDown:
		e.navigateHistoryDown()
		return InputAction{Changed: true}
	case KeyPaste:
		for _, r := range sanitizePaste(k.Text) {
			e.insert(r)
		}
		return InputAction{Changed: true}
	case KeyChar:
		e.insert(k.Rune)
		return InputAction{Changed: true}
	default:
		return InputAction{}
	}
}
