package preview

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultQuietPeriod = 500 * time.Millisecond
	DefaultPasteDelay  = 100 * time.Millisecond
	DefaultBlurGrace   = 2 * time.Second
	DefaultMinLength   = 0
	DefaultMinWidth    = 300
	DefaultTimeout     = 15 * time.Second

	// EmbedMinLength is the shortest value editing hosts treat as a
	// candidate embed URL. Hosts opt in through WithMinLength.
	EmbedMinLength = 6
)

// Options configures a Fetcher.
type Options struct {
	QuietPeriod time.Duration
	PasteDelay  time.Duration
	BlurGrace   time.Duration
	// MinLength is the shortest value worth fetching a preview for. Zero
	// fetches every qualifying value.
	MinLength int
	// MinWidth is the smallest render width sent with a request.
	MinWidth int
	// Timeout bounds a single transport call.
	Timeout time.Duration
	// Nonce is passed through on every request.
	Nonce  string
	Clock  Clock
	Logger *zap.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		QuietPeriod: DefaultQuietPeriod,
		PasteDelay:  DefaultPasteDelay,
		BlurGrace:   DefaultBlurGrace,
		MinLength:   DefaultMinLength,
		MinWidth:    DefaultMinWidth,
		Timeout:     DefaultTimeout,
		Clock:       SystemClock(),
		Logger:      zap.NewNop(),
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
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = DefaultQuietPeriod
	}
	if opts.PasteDelay < 0 {
		opts.PasteDelay = DefaultPasteDelay
	}
	if opts.BlurGrace <= 0 {
		opts.BlurGrace = DefaultBlurGrace
	}
	if opts.MinLength < 0 {
		opts.MinLength = 0
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = DefaultMinWidth
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithQuietPeriod(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.QuietPeriod = d
	}
}

func WithPasteDelay(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PasteDelay = d
	}
}

func WithBlurGrace(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BlurGrace = d
	}
}

func WithMinLength(n int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinLength = n
	}
}

func WithMinWidth(px int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinWidth = px
	}
}

func WithTimeout(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = d
	}
}

func WithNonce(nonce string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Nonce = nonce
	}
}

func WithClock(c Clock) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Clock = c
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
