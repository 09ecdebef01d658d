package terminal

import (
	"bufio"
)

// KeyKind enumerates the decoded key events the editor understands.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyChar
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyCtrlC
	KeyCtrlD
	KeyPaste
)

// Key is one decoded terminal input event.
type Key struct {
	Kind KeyKind
	Rune rune
	Text string // populated for KeyPaste
}

// ReadKey decodes a single key press from a raw-mode terminal reader,
// including the common ANSI escape sequences for arrows, home, and end.
// Bracketed paste is not distinguished from a fast burst of character keys
// at this layer; callers that enable bracketed-paste mode can instead feed
// the paste text directly via a KeyPaste value.
func ReadKey(r *bufio.Reader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch b {
	case '\r', '\n':
		return Key{Kind: KeyEnter}, nil
	case 0x03:
		return Key{Kind: KeyCtrlC}, nil
	case 0x04:
		return Key{Kind: KeyCtrlD}, nil
	case 0x7f, 0x08:
		return Key{Kind: KeyBackspace}, nil
	case 0x1b:
		return readEscapeSequence(r)
	}

	if b < 0x20 {
		return Key{Kind: KeyNone}, nil
	}

	// Decode the remaining bytes of a multi-byte UTF-8 rune, if any.
	n := utf8SeqLen(b)
	if n <= 1 {
		return Key{Kind: KeyChar, Rune: rune(b)}, nil
	}
	buf := make([]byte, n)
	buf[0] = b
	for i := 1; i < n; i++ {
		nb, err := r.ReadByte()
		if err != nil {
			break
		}
		buf[i] = nb
	}
	runes := []rune(string(buf))
	if len(runes) == 0 {
		return Key{Kind: KeyNone}, nil
	}
	return Key{Kind: KeyChar, Rune: runes[0]}, nil
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

func readEscapeSequence(r *bufio.Reader) (Key, error) {
	b1, err := r.ReadByte()
	if err != nil {
		// A lone ESC byte.
		return Key{Kind: KeyNone}, nil
	}
	if b1 != '[' && b1 != 'O' {
		return Key{Kind: KeyNone}, nil
	}

	b2, err := r.ReadByte()
	if err != nil {
		return Key{Kind: KeyNone}, nil
	}

	switch b2 {
	case 'A':
		return Key{Kind: KeyUp}, nil
	case 'B':
		return Key{Kind: KeyDown}, nil
	case 'C':
		return Key{Kind: KeyRight}, nil
	case 'D':
		return Key{Kind: KeyLeft}, nil
	case 'H':
		return Key{Kind: KeyHome}, nil
	case 'F':
		return Key{Kind: KeyEnd}, nil
	case '3':
		// "\x1b[3~" is Delete; consume the trailing '~'.
		if b3, err := r.ReadByte(); err == nil && b3 != '~' {
			_ = r.UnreadByte()
		}
		return Key{Kind: KeyDelete}, nil
	case '1', '7':
		if b3, err := r.ReadByte(); err == nil && b3 != '~' {
			_ = r.UnreadByte()
		}
		return Key{Kind: KeyHome}, nil
	case '4', '8':
		if b3, err := r.ReadByte(); err == nil && b3 != '~' {
			_ = r.UnreadByte()
		}
		return Key{Kind: KeyEnd}, nil
	default:
		return Key{Kind: KeyNone}, nil
	}
}
