package collection

import "go.uber.org/zap"

// Option customises a Document.
type Option func(*Document)

// WithLogger sets the logger used for skipped operations and collaborator
// failures.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPickerInitializer installs the picker collaborator.
func WithPickerInitializer(p PickerInitializer) Option {
	return func(d *Document) {
		if p != nil {
			d.pickers = p
		}
	}
}

// WithRichTextEditor installs the rich-text collaborator. Without one,
// rich-text buffers are swapped directly and no re-init happens.
func WithRichTextEditor(e RichTextEditor) Option {
	return func(d *Document) {
		d.editor = e
	}
}

// WithViewport installs the focus collaborator.
func WithViewport(v Viewport) Option {
	return func(d *Document) {
		if v != nil {
			d.viewport = v
		}
	}
}

// WithStatusRenderer sets the renderer for media status markup.
func WithStatusRenderer(r StatusRenderer) Option {
	return func(d *Document) {
		d.status = r
	}
}

// WithoutScroll keeps the viewport in place when new grouped rows are
// focused. Simple rows never scroll.
func WithoutScroll() Option {
	return func(d *Document) {
		d.noScroll = true
	}
}

// WithoutResetOnAdd disables clearing reset-on-add fields of newly added
// rows after the rowAdded listeners ran.
func WithoutResetOnAdd() Option {
	return func(d *Document) {
		d.resetOnAdd = false
	}
}
