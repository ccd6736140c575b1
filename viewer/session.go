package viewer

import (
	"galleria-backend/models"
)

// Zoom bounds and step for the interactive viewer.
const (
	MinZoom  = 1.0
	MaxZoom  = 3.0
	ZoomStep = 0.5
)

// GalleryAPI is the server surface a session depends on. The server is the
// source of truth for isPrimary and displayOrder; the session never mutates
// them locally, it delegates and then refetches.
type GalleryAPI interface {
	ListImages(productID uint) ([]models.ProductImageSummary, error)
	SetPrimary(id uint) error
	Reorder(id uint, displayOrder int) error
}

// Session holds the ephemeral view state for one open gallery: current index,
// zoom, rotation offset and fullscreen flag, plus a pan offset used purely
// for rendering translation. Zoom, rotation and pan reset whenever the index
// changes; view state does not persist across images.
//
// Transitions are synchronous and not safe for concurrent use.
type Session struct {
	api       GalleryAPI
	productID uint

	images     []models.ProductImageSummary
	index      int
	zoom       float64
	rotation   int
	fullscreen bool

	panX, panY   float64
	dragging     bool
	dragX, dragY float64
}

// NewSession opens a gallery for one product, fetching its ordered image list.
func NewSession(api GalleryAPI, productID uint) (*Session, error) {
	s := &Session{
		api:       api,
		productID: productID,
		zoom:      MinZoom,
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Images() []models.ProductImageSummary { return s.images }
func (s *Session) Index() int                           { return s.index }
func (s *Session) Zoom() float64                        { return s.zoom }
func (s *Session) Rotation() int                        { return s.rotation }
func (s *Session) Fullscreen() bool                     { return s.fullscreen }
func (s *Session) Pan() (x, y float64)                  { return s.panX, s.panY }

// Current returns the image at the current index, or false on an empty
// gallery.
func (s *Session) Current() (models.ProductImageSummary, bool) {
	if len(s.images) == 0 {
		return models.ProductImageSummary{}, false
	}
	return s.images[s.index], true
}

// Next advances to the following image, wrapping past the end. No-op on an
// empty gallery.
func (s *Session) Next() {
	if len(s.images) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.images)
	s.resetView()
}

// Prev retreats to the preceding image, wrapping before the start. No-op on
// an empty gallery.
func (s *Session) Prev() {
	if len(s.images) == 0 {
		return
	}
	s.index = (s.index - 1 + len(s.images)) % len(s.images)
	s.resetView()
}

// JumpTo moves directly to the given index. Callers must pass an index within
// the current list; out-of-range values are a caller bug and the behavior is
// undefined.
func (s *Session) JumpTo(index int) {
	s.index = index
	s.resetView()
}

// ZoomIn steps zoom up by 0.5, clamped at 3.0.
func (s *Session) ZoomIn() {
	s.zoom += ZoomStep
	if s.zoom > MaxZoom {
		s.zoom = MaxZoom
	}
}

// ZoomOut steps zoom down by 0.5, clamped at 1.0. Pan resets once zoom is
// back at 1.0.
func (s *Session) ZoomOut() {
	s.zoom -= ZoomStep
	if s.zoom <= MinZoom {
		s.zoom = MinZoom
		s.resetPan()
	}
}

// ResetZoom returns zoom to 1.0 and clears the pan offset.
func (s *Session) ResetZoom() {
	s.zoom = MinZoom
	s.resetPan()
}

// Rotate advances the view-only rotation offset by 90 degrees, wrapping at
// 360. This is layered on top of the record's stored rotation and is never
// persisted.
func (s *Session) Rotate() {
	s.rotation = (s.rotation + 90) % 360
}

// ToggleFullscreen flips the fullscreen flag.
func (s *Session) ToggleFullscreen() {
	s.fullscreen = !s.fullscreen
}

// SetPrimary delegates to the server, then refetches the list. Errors
// propagate to the caller; no retry, no optimistic local flip.
func (s *Session) SetPrimary(id uint) error {
	if err := s.api.SetPrimary(id); err != nil {
		return err
	}
	return s.Refresh()
}

// Reorder delegates to the server, then refetches the list.
func (s *Session) Reorder(id uint, displayOrder int) error {
	if err := s.api.Reorder(id, displayOrder); err != nil {
		return err
	}
	return s.Refresh()
}

// Refresh refetches the product's ordered image list. Navigation may have
// moved the index while the fetch was in flight, so a now-out-of-range index
// is re-clamped to the last image, resetting the view like any other index
// change.
func (s *Session) Refresh() error {
	images, err := s.api.ListImages(s.productID)
	if err != nil {
		return err
	}
	s.images = images

	if len(s.images) == 0 {
		if s.index != 0 {
			s.index = 0
			s.resetView()
		}
		return nil
	}
	if s.index >= len(s.images) {
		s.index = len(s.images) - 1
		s.resetView()
	}
	return nil
}

func (s *Session) resetView() {
	s.zoom = MinZoom
	s.rotation = 0
	s.resetPan()
}

func (s *Session) resetPan() {
	s.panX = 0
	s.panY = 0
	s.dragging = false
}
