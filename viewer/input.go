package viewer

// Key identifies a keyboard key the viewer reacts to, using the DOM key
// naming so frontends can forward key events verbatim.
type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
	KeyEscape     Key = "Escape"
)

// HandleKeyDown dispatches one key-down event. Callers invoke it once per
// key-down (edge-triggered); holding a key repeats only at the platform's
// natural key-repeat rate. Unknown keys are ignored.
func (s *Session) HandleKeyDown(key Key) {
	switch key {
	case KeyArrowLeft:
		s.Prev()
	case KeyArrowRight:
		s.Next()
	case KeyHome:
		if len(s.images) > 0 {
			s.JumpTo(0)
		}
	case KeyEnd:
		if len(s.images) > 0 {
			s.JumpTo(len(s.images) - 1)
		}
	case KeyEscape:
		if s.fullscreen {
			s.fullscreen = false
		}
	}
}

// PointerDown begins a drag. Panning is only active while zoomed in.
func (s *Session) PointerDown(x, y float64) {
	if s.zoom <= MinZoom {
		return
	}
	s.dragging = true
	s.dragX = x
	s.dragY = y
}

// PointerMove accumulates the pan offset while a drag is in progress.
func (s *Session) PointerMove(x, y float64) {
	if !s.dragging {
		return
	}
	s.panX += x - s.dragX
	s.panY += y - s.dragY
	s.dragX = x
	s.dragY = y
}

// PointerUp ends a drag.
func (s *Session) PointerUp() {
	s.dragging = false
}

// Click handles a plain click on the image: at zoom 1.0 it zooms in as a
// convenience gesture, otherwise it does nothing.
func (s *Session) Click() {
	if s.zoom == MinZoom {
		s.ZoomIn()
	}
}
