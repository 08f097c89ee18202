package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data for a render call.
type RenderOptions struct {
	// Collections limits output to the listed collection ids, in that order.
	// Empty renders every collection in registration order.
	Collections []string
	// Action and Method populate the wrapping form element. An empty Action
	// renders the collections without a form.
	Action string
	Method string
	// Hidden inputs emitted inside the form, typically the preview nonce and
	// the object context.
	Hidden []HiddenField
	// Theme decorates the markup with theme name, variant and CSS variables.
	Theme *theme.RendererConfig
}
