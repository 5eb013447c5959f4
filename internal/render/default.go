package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	out          io.Writer
	fd           int
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    uint16
	Content string
	Frames  int // remaining frames until removed
}

// NewDefaultRenderer draws to out, fd is the terminal put in raw mode.
func NewDefaultRenderer(out io.Writer, fd int) *DefaultRenderer {
	return &DefaultRenderer{out: out, fd: fd}
}

// Size of the terminal in columns and rows.
func (r *DefaultRenderer) Size() (int, int, error) {
	return term.GetSize(r.fd)
}

func (r *DefaultRenderer) Init() error {
	state, err := term.MakeRaw(r.fd)
	if nil != err {
		return fmt.Errorf("unable to make terminal raw: %w", err)
	}
	r.restoreState = state

	_, err = fmt.Fprintf(r.out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return err
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.fd, r.restoreState)
}

// AddDecoration draws content for a number of frames. It replaces any
// decoration at the same position.
func (r *DefaultRenderer) AddDecoration(col, row uint16, content string, frames int) {
	for _, d := range r.decorations {
		if d.X == col && d.Y == row {
			if w := visibleWidth(d.Content) - visibleWidth(content); w > 0 {
				r.Fill(row, col, strings.Repeat(" ", visibleWidth(d.Content)))
			}
			d.Content = content
			d.Frames = frames
			r.Fill(row, col, content)
			return
		}
	}
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := r.decorations[:0]
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, strings.Repeat(" ", visibleWidth(d.Content)))
			continue
		}
		nd = append(nd, d)
		d.Frames--
	}
	for i := len(nd); i < len(r.decorations); i++ {
		r.decorations[i] = nil
	}
	r.decorations = nd
}

func (r *DefaultRenderer) Fill(row, column uint16, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) Frame() error {
	r.tickDecorations()
	return r.flush()
}

func (r *DefaultRenderer) flush() error {
	if r.buffer.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}

// visibleWidth counts runes outside of escape sequences.
func visibleWidth(s string) int {
	n := 0
	escape := false
	for _, c := range s {
		switch {
		case c == '\033':
			escape = true
		case escape:
			if c == 'm' {
				escape = false
			}
		default:
			n++
		}
	}
	return n
}
