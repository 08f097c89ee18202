package oembed

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/pkg/preview"
)

type GuardFunc func(r *http.Request) error

// NonceFunc validates the nonce carried by a request.
type NonceFunc func(nonce string) bool

type Options struct {
	RoutePath string
	Action    string
	MinWidth  int
	MaxWidth  int
	Guard     GuardFunc
	Nonce     NonceFunc
	Embedder  Embedder
	Logger    *zap.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath: "/api/oembed",
		Action:    preview.DefaultAction,
		MinWidth:  preview.DefaultMinWidth,
		MaxWidth:  1280,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/oembed"
	}
	if opts.Action == "" {
		opts.Action = preview.DefaultAction
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = preview.DefaultMinWidth
	}
	if opts.MaxWidth < opts.MinWidth {
		opts.MaxWidth = opts.MinWidth
	}
	if opts.Embedder == nil {
		opts.Embedder = NewClient(DefaultProviders())
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithAction(action string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Action = action
	}
}

func WithWidthRange(min, max int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinWidth = min
		o.MaxWidth = max
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithNonce requires requests to carry a nonce accepted by fn.
func WithNonce(fn NonceFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Nonce = fn
	}
}

// WithStaticNonce accepts exactly one nonce value.
func WithStaticNonce(nonce string) OptionFn {
	return WithNonce(func(got string) bool { return got != "" && got == nonce })
}

func WithEmbedder(e Embedder) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Embedder = e
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func clampWidth(width int, opts Options) int {
	if width < opts.MinWidth {
		return opts.MinWidth
	}
	if width > opts.MaxWidth {
		return opts.MaxWidth
	}
	return width
}
