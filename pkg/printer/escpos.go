package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Alignment values for ESC a
const (
	AlignLeft   byte = 0
	AlignCenter byte = 1
	AlignRight  byte = 2
)

// Character sizes for GS !
const (
	SizeNormal byte = 0x00
	SizeDouble byte = 0x11
	SizeTall   byte = 0x01
)

// Paper widths in characters of the default font
const (
	Width58mm = 32
	Width80mm = 48
)

// Document accumulates an ESC/POS job. Methods chain.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a job for a printer width in characters
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.buf.Write([]byte{esc, '@'})
	return d
}

// Width is the line width in characters
func (d *Document) Width() int { return d.width }

func (d *Document) Align(a byte) *Document {
	d.buf.Write([]byte{esc, 'a', a})
	return d
}

func (d *Document) Bold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{gs, '!', size})
	return d
}

// Line writes s and a line feed. Text longer than the width wraps on the printer.
func (d *Document) Line(s string) *Document {
	d.buf.WriteString(ascii(s))
	d.buf.WriteByte(lf)
	return d
}

func (d *Document) Linef(format string, args ...any) *Document {
	return d.Line(fmt.Sprintf(format, args...))
}

// Rule prints a full-width line of ch
func (d *Document) Rule(ch byte) *Document {
	return d.Line(strings.Repeat(string(ch), d.width))
}

// Pair prints left and right justified to opposite margins
func (d *Document) Pair(left, right string) *Document {
	left, right = ascii(left), ascii(right)
	gap := d.width - len(left) - len(right)
	if gap < 1 {
		// Too long for one line: value goes on its own line
		d.Line(left)
		left, gap = "", d.width-len(right)
	}
	return d.Line(left + strings.Repeat(" ", max(gap, 0)) + right)
}

// Columns prints cells in fixed widths. Negative widths right-align.
func (d *Document) Columns(widths []int, cells ...string) *Document {
	var sb strings.Builder
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		w := widths[i]
		cell = ascii(cell)
		n := w
		if n < 0 {
			n = -n
		}
		if len(cell) > n {
			cell = cell[:n]
		}
		pad := strings.Repeat(" ", n-len(cell))
		if w < 0 {
			sb.WriteString(pad + cell)
		} else {
			sb.WriteString(cell + pad)
		}
	}
	return d.Line(strings.TrimRight(sb.String(), " "))
}

func (d *Document) Feed(n int) *Document {
	for range n {
		d.buf.WriteByte(lf)
	}
	return d
}

// Cut feeds and partially cuts the paper
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// ascii replaces characters the default code page cannot print.
func ascii(s string) string {
	if isASCII(s) {
		return s
	}
	s = strings.ReplaceAll(s, "₹", "Rs.")
	var sb strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
