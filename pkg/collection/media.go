package collection

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-repeater/pkg/model"
)

// Attachment is a media item picked through a frame.
type Attachment struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Title    string `json:"title,omitempty"`
	Mime     string `json:"mime,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// IsImage reports whether the attachment has an image mime type.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.Mime, "image/")
}

// MediaFrame is a host media picker bound to one file field.
type MediaFrame interface {
	Open() error
}

// FrameFactory creates the frame for a file field on first use.
type FrameFactory func(field *Field, list bool) (MediaFrame, error)

// StatusRenderer produces the status markup shown next to a file field.
type StatusRenderer interface {
	RenderStatus(field *Field, list bool, attachments []Attachment) (string, error)
}

// OpenMedia opens the media frame of a file field, creating it with factory
// the first time the field id is seen. Frames are kept for the lifetime of
// the document and reused on later opens.
func (d *Document) OpenMedia(fieldID string, list bool, factory FrameFactory) (MediaFrame, error) {
	d.mu.Lock()
	f, err := d.fileField(fieldID)
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	frame, ok := d.frames[fieldID]
	if !ok {
		if factory == nil {
			d.mu.Unlock()
			return nil, fmt.Errorf("collection: no media frame for %q", fieldID)
		}
		frame, err = factory(f, list)
		if err != nil {
			d.mu.Unlock()
			return nil, fmt.Errorf("collection: create media frame for %q: %w", fieldID, err)
		}
		d.frames[fieldID] = frame
	}
	d.mu.Unlock()

	if err := frame.Open(); err != nil {
		return frame, fmt.Errorf("collection: open media frame for %q: %w", fieldID, err)
	}
	return frame, nil
}

// SelectMedia stores the selected attachments on a file field. Single
// selections replace the url, the attachment id and the status markup.
// List selections append status entries and keep the last url and id.
func (d *Document) SelectMedia(fieldID string, list bool, attachments ...Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	f, err := d.fileField(fieldID)
	if err != nil {
		return err
	}
	if !list {
		attachments = attachments[len(attachments)-1:]
	}

	markup := ""
	if d.status != nil {
		markup, err = d.status.RenderStatus(f, list, attachments)
		if err != nil {
			return fmt.Errorf("collection: render media status for %q: %w", fieldID, err)
		}
	}

	last := attachments[len(attachments)-1]
	next := model.Value{Text: last.URL, Ref: last.ID, Markup: markup}
	if list {
		next.Markup = f.value.Markup + markup
	}
	f.set(next)
	return nil
}

// RemoveMedia clears the url, attachment id and status of a file field.
func (d *Document) RemoveMedia(fieldID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, err := d.fileField(fieldID)
	if err != nil {
		return err
	}
	f.clear()
	return nil
}

func (d *Document) fileField(id string) (*Field, error) {
	f, ok := d.resolve(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if f.schema.Kind != model.FieldKindFile {
		return nil, fmt.Errorf("%w: media on %s", ErrFieldKind, f.schema.Kind)
	}
	return f, nil
}
