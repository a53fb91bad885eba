package curline

import "errors"

// Tag identifies the highlight adornment on the layer.
const Tag = "CurrentLine"

// Constructor errors.
var (
	ErrNilView    = errors.New("curline: nil view")
	ErrNilBus     = errors.New("curline: nil event bus")
	ErrNilLayer   = errors.New("curline: nil layer")
	ErrNilFormats = errors.New("curline: nil format map")
	ErrClosed     = errors.New("curline: controller closed")
)

// State is the controller's highlight state.
type State uint8

const (
	// StateIdle means no highlight is shown.
	StateIdle State = iota

	// StateHighlighted means the band covers the current line.
	StateHighlighted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHighlighted:
		return "highlighted"
	default:
		return "unknown"
	}
}
