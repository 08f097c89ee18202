package preview

import (
	"sync"

	"github.com/goliatone/go-repeater/pkg/collection"
)

// SurfaceEvent names a change a DocumentSurface reports to its listener.
type SurfaceEvent string

const (
	SurfaceShow   SurfaceEvent = "show"
	SurfaceHide   SurfaceEvent = "hide"
	SurfaceClear  SurfaceEvent = "clear"
	SurfaceRender SurfaceEvent = "render"
)

// DocumentSurface is a Surface over a collection.Document. Values are read
// through the document by current id, so fields of removed rows stop
// resolving. Indicator and preview state is kept per field id.
type DocumentSurface struct {
	doc        *collection.Document
	width      int
	objectID   string
	objectType string
	notify     func(fieldID string, ev SurfaceEvent)

	mu       sync.Mutex
	loading  map[string]bool
	previews map[string]string
}

var _ Surface = (*DocumentSurface)(nil)

// SurfaceOption configures a DocumentSurface.
type SurfaceOption func(*DocumentSurface)

// WithSurfaceWidth sets the width reported for every field.
func WithSurfaceWidth(px int) SurfaceOption {
	return func(s *DocumentSurface) { s.width = px }
}

// WithSurfaceContext sets the object id and type sent with requests.
func WithSurfaceContext(objectID, objectType string) SurfaceOption {
	return func(s *DocumentSurface) {
		s.objectID, s.objectType = objectID, objectType
	}
}

// WithSurfaceListener receives every indicator and preview change after it
// was applied.
func WithSurfaceListener(fn func(fieldID string, ev SurfaceEvent)) SurfaceOption {
	return func(s *DocumentSurface) { s.notify = fn }
}

// NewDocumentSurface returns a surface reading field values from doc.
func NewDocumentSurface(doc *collection.Document, options ...SurfaceOption) *DocumentSurface {
	s := &DocumentSurface{
		doc:      doc,
		loading:  make(map[string]bool),
		previews: make(map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *DocumentSurface) Value(fieldID string) (string, bool) {
	if s.doc == nil {
		return "", false
	}
	v, ok := s.doc.Value(fieldID)
	if !ok {
		return "", false
	}
	return v.Text, true
}

func (s *DocumentSurface) Width(string) int { return s.width }

func (s *DocumentSurface) Context(string) (string, string) {
	return s.objectID, s.objectType
}

func (s *DocumentSurface) ShowIndicator(fieldID string) {
	s.mu.Lock()
	s.loading[fieldID] = true
	s.mu.Unlock()
	s.emit(fieldID, SurfaceShow)
}

func (s *DocumentSurface) HideIndicator(fieldID string) {
	s.mu.Lock()
	delete(s.loading, fieldID)
	s.mu.Unlock()
	s.emit(fieldID, SurfaceHide)
}

func (s *DocumentSurface) ClearPreview(fieldID string) {
	s.mu.Lock()
	delete(s.previews, fieldID)
	s.mu.Unlock()
	s.emit(fieldID, SurfaceClear)
}

func (s *DocumentSurface) RenderPreview(fieldID, markup string) {
	s.mu.Lock()
	s.previews[fieldID] = markup
	s.mu.Unlock()
	s.emit(fieldID, SurfaceRender)
}

// Preview returns the markup last rendered for a field.
func (s *DocumentSurface) Preview(fieldID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	markup, ok := s.previews[fieldID]
	return markup, ok
}

// Loading reports whether the indicator of a field is shown.
func (s *DocumentSurface) Loading(fieldID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[fieldID]
}

func (s *DocumentSurface) emit(fieldID string, ev SurfaceEvent) {
	if s.notify != nil {
		s.notify(fieldID, ev)
	}
}
