package render

import (
	"fmt"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/render/template"
)

type attachmentView struct {
	ID    string
	URL   string
	Name  string
	Title string
	Icon  string
	Image bool
}

// MediaStatus renders the status blob shown next to file fields. It
// satisfies collection.StatusRenderer.
type MediaStatus struct {
	engine template.TemplateRenderer
}

var _ collection.StatusRenderer = (*MediaStatus)(nil)

// NewMediaStatus renders through engine, which must provide the
// "media_status" template. A renderer from NewHTML exposes one via Engine.
func NewMediaStatus(engine template.TemplateRenderer) *MediaStatus {
	return &MediaStatus{engine: engine}
}

// Engine returns the template engine backing the renderer.
func (r *HTMLRenderer) Engine() template.TemplateRenderer { return r.engine }

func (m *MediaStatus) RenderStatus(field *collection.Field, list bool, attachments []collection.Attachment) (string, error) {
	if m == nil || m.engine == nil {
		return "", fmt.Errorf("render: media status engine is nil")
	}
	views := make([]attachmentView, 0, len(attachments))
	for _, a := range attachments {
		name := a.Filename
		if name == "" {
			name = a.URL
		}
		views = append(views, attachmentView{
			ID:    a.ID,
			URL:   a.URL,
			Name:  name,
			Title: a.Title,
			Icon:  a.Icon,
			Image: a.IsImage(),
		})
	}
	out, err := m.engine.RenderTemplate("media_status", map[string]any{
		"field":       field.ID(),
		"list":        list,
		"attachments": views,
	})
	if err != nil {
		return "", fmt.Errorf("render: media status: %w", err)
	}
	return SanitizeMarkup(out), nil
}
