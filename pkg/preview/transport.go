package preview

import (
	"context"
	"net/url"
	"strconv"
)

// Request is a single preview fetch.
type Request struct {
	Value      string `json:"value"`
	Width      int    `json:"width"`
	FieldID    string `json:"fieldId"`
	ObjectID   string `json:"objectId,omitempty"`
	ObjectType string `json:"objectType,omitempty"`
	Nonce      string `json:"nonce,omitempty"`
}

// Transport performs preview requests and returns the rendered markup.
type Transport interface {
	Fetch(ctx context.Context, req Request) (string, error)
}

// TransportFunc adapts a function into a Transport.
type TransportFunc func(ctx context.Context, req Request) (string, error)

// Fetch calls the underlying function.
func (fn TransportFunc) Fetch(ctx context.Context, req Request) (string, error) {
	return fn(ctx, req)
}

// Form parameter names of the preview endpoint.
const (
	ParamAction     = "action"
	ParamURL        = "oembed_url"
	ParamWidth      = "oembed_width"
	ParamFieldID    = "field_id"
	ParamObjectID   = "object_id"
	ParamObjectType = "object_type"
	ParamNonce      = "nonce"

	// DefaultAction is the action value sent with every request.
	DefaultAction = "oembed_handler"
)

// Response is the JSON envelope returned by the preview endpoint. Data holds
// the markup on success and an error message otherwise.
type Response struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

// EncodeRequest builds the form body for req.
func EncodeRequest(action string, req Request) url.Values {
	if action == "" {
		action = DefaultAction
	}
	form := url.Values{}
	form.Set(ParamAction, action)
	form.Set(ParamURL, req.Value)
	form.Set(ParamWidth, strconv.Itoa(req.Width))
	form.Set(ParamFieldID, req.FieldID)
	form.Set(ParamObjectID, req.ObjectID)
	form.Set(ParamObjectType, req.ObjectType)
	form.Set(ParamNonce, req.Nonce)
	return form
}

// DecodeRequest reads a form body produced by EncodeRequest. Widths that do
// not parse come back as zero.
func DecodeRequest(form url.Values) (string, Request) {
	width, _ := strconv.Atoi(form.Get(ParamWidth))
	return form.Get(ParamAction), Request{
		Value:      form.Get(ParamURL),
		Width:      width,
		FieldID:    form.Get(ParamFieldID),
		ObjectID:   form.Get(ParamObjectID),
		ObjectType: form.Get(ParamObjectType),
		Nonce:      form.Get(ParamNonce),
	}
}
