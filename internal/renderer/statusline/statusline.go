// Package statusline renders the bottom status line: theme, file, highlight
// state, caret position and transient messages.
package statusline

import (
	"fmt"

	"github.com/dshills/linelight/internal/renderer/backend"
	"github.com/dshills/linelight/internal/renderer/core"
)

// StatusLine renders the status bar on one screen row.
type StatusLine struct {
	theme    string
	filename string
	modified bool
	state    string
	help     string

	line  int // 1-indexed
	col   int // 1-indexed
	total int

	message     string
	messageType MessageType

	width int
}

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Message colors, painted over the bar background.
var (
	warningColor = core.ColorFromRGB(230, 180, 60)
	errorColor   = core.ColorFromRGB(240, 80, 80)
)

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{line: 1, col: 1}
}

// SetTheme updates the displayed theme name.
func (s *StatusLine) SetTheme(name string) {
	s.theme = name
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetState updates the highlight state shown after the filename.
func (s *StatusLine) SetState(state string) {
	s.state = state
}

// SetHelp sets the key hint drawn left of the position when it fits.
func (s *StatusLine) SetHelp(help string) {
	s.help = help
}

// SetPosition updates the caret position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = max(1, line)
	s.col = max(1, col)
}

// SetTotalLines updates the line count used for the scroll indicator.
func (s *StatusLine) SetTotalLines(total int) {
	s.total = total
}

// SetMessage displays a message in place of the bar until cleared.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) {
	s.width = max(0, width)
}

// Render draws the status line on row with the bar style.
func (s *StatusLine) Render(b backend.Backend, row int, style core.Style) {
	if s.width == 0 {
		return
	}
	b.Fill(core.NewScreenRect(row, 0, row+1, s.width), core.NewStyledCell(' ', style))

	if s.message != "" {
		s.renderMessage(b, row, style)
		return
	}
	s.renderBar(b, row, style)
}

// Text returns the bar content without a message, as Render lays it out
// on the left.
func (s *StatusLine) Text() string {
	filename := s.filename
	if filename == "" {
		filename = "[No Name]"
	}
	if s.modified {
		filename += " [+]"
	}
	text := fmt.Sprintf(" %s | %s", s.theme, filename)
	if s.state != "" {
		text += " | " + s.state
	}
	return text
}

func (s *StatusLine) renderBar(b backend.Backend, row int, style core.Style) {
	col := put(b, 0, row, s.width, s.Text(), style)

	posInfo := s.formatPosition() + " "
	posStart := s.width - core.StringWidth(posInfo)
	if posStart <= col {
		return
	}
	put(b, posStart, row, s.width, posInfo, style)

	if s.help == "" {
		return
	}
	helpStart := posStart - core.StringWidth(s.help) - 2
	if helpStart > col {
		put(b, helpStart, row, posStart, s.help, style)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row int, style core.Style) {
	switch s.messageType {
	case MessageError:
		style.Foreground = errorColor
		style.Attributes |= core.AttrBold
	case MessageWarning:
		style.Foreground = warningColor
	}
	put(b, 0, row, s.width, " "+s.message, style)
}

// formatPosition formats the position info for the right side, as
// "Ln 12, Col 4 | 50%".
func (s *StatusLine) formatPosition() string {
	result := fmt.Sprintf("Ln %d, Col %d", s.line, s.col)
	switch {
	case s.total <= 1:
	case s.line == 1:
		result += " | Top"
	case s.line >= s.total:
		result += " | Bot"
	default:
		result += fmt.Sprintf(" | %d%%", (s.line-1)*100/(s.total-1))
	}
	return result
}

// put writes str from column x, stopping before limit, and returns the
// column after it.
func put(b backend.Backend, x, row, limit int, str string, style core.Style) int {
	for _, r := range str {
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		b.SetCell(x, row, core.NewStyledCell(r, style))
		x += w
	}
	return x
}
