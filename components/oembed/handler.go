package oembed

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/pkg/preview"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds the preview handler with default options plus overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	logger := opts.Logger
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, preview.Response{Data: "malformed request"})
			return
		}

		action, req := preview.DecodeRequest(r.PostForm)
		if action != opts.Action {
			writeJSON(w, http.StatusBadRequest, preview.Response{Data: "unknown action"})
			return
		}
		if opts.Nonce != nil && !opts.Nonce(req.Nonce) {
			writeJSON(w, http.StatusForbidden, preview.Response{Data: "invalid nonce"})
			return
		}
		target := strings.TrimSpace(req.Value)
		if target == "" {
			writeJSON(w, http.StatusOK, preview.Response{Data: errorMarkup("Please try again.")})
			return
		}

		width := clampWidth(req.Width, opts)
		markup, err := opts.Embedder.Embed(r.Context(), target, width)
		if err == nil {
			markup = Sanitize(markup)
			if markup == "" {
				err = ErrNoEmbed
			}
		}
		if err != nil {
			logger.Debug("oembed lookup failed",
				zap.String("url", target),
				zap.String("field", req.FieldID),
				zap.Error(err),
			)
			writeJSON(w, http.StatusOK, preview.Response{
				Data: errorMarkup(fmt.Sprintf("No embed results found for %s.", target)),
			})
			return
		}

		writeJSON(w, http.StatusOK, preview.Response{Success: true, Data: wrapEmbed(req.FieldID, markup)})
	})
}

func wrapEmbed(fieldID, markup string) string {
	return fmt.Sprintf(
		`<div class="embed-status">%s<p class="remove-wrapper"><a href="#" class="remove-embed" data-field="%s">Remove embed</a></p></div>`,
		markup, html.EscapeString(fieldID),
	)
}

func errorMarkup(msg string) string {
	return `<p class="embed-error">` + html.EscapeString(msg) + `</p>`
}

func writeJSON(w http.ResponseWriter, code int, payload preview.Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
