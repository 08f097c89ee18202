package preview

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// State is the fetch state of one field.
type State int

const (
	StateIdle State = iota
	StatePending
	StateInFlight
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInFlight:
		return "in-flight"
	default:
		return "idle"
	}
}

// Surface is the host view the fetcher reads from and writes to.
type Surface interface {
	// Value returns the live value of the field. It reports false once the
	// field no longer exists.
	Value(fieldID string) (string, bool)
	// Width is the current display width of the field.
	Width(fieldID string) int
	// Context returns the opaque object id and type sent with requests.
	Context(fieldID string) (objectID, objectType string)
	ShowIndicator(fieldID string)
	HideIndicator(fieldID string)
	ClearPreview(fieldID string)
	RenderPreview(fieldID, markup string)
}

// LayoutSurface is implemented by surfaces that can describe the embed
// container of a field. The fitted embed width is then sent instead of the
// raw field width.
type LayoutSurface interface {
	Layout(fieldID string) (Layout, bool)
}

type fieldState struct {
	captured string
	gen      uint64
	pending  Timer
	paste    Timer
	blur     Timer
	inFlight int
}

// Fetcher runs the debounced preview state machine for any number of
// fields. Its methods are safe for concurrent use.
type Fetcher struct {
	transport Transport
	surface   Surface
	opts      Options
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	fields map[string]*fieldState
	closed bool
}

// NewFetcher returns a Fetcher issuing requests through transport and
// reading field state from surface.
func NewFetcher(transport Transport, surface Surface, fns ...OptionFn) *Fetcher {
	opts := NewOptions(fns...)
	ctx, cancel := context.WithCancel(context.Background())
	return &Fetcher{
		transport: transport,
		surface:   surface,
		opts:      opts,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
		fields:    make(map[string]*fieldState),
	}
}

// Options returns a copy of the fetcher configuration.
func (f *Fetcher) Options() Options {
	if f == nil {
		return DefaultOptions()
	}
	return f.opts
}

func (f *Fetcher) state(fieldID string) *fieldState {
	st, ok := f.fields[fieldID]
	if !ok {
		st = &fieldState{}
		f.fields[fieldID] = st
	}
	return st
}

// State reports the current state of a field.
func (f *Fetcher) State(fieldID string) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.fields[fieldID]
	switch {
	case !ok:
		return StateIdle
	case st.inFlight > 0:
		return StateInFlight
	case st.pending != nil:
		return StatePending
	default:
		return StateIdle
	}
}

// Keystroke handles a key release on a field. Keys outside the allow-list
// are ignored.
func (f *Fetcher) Keystroke(fieldID string, keyCode int) {
	if !AllowedKey(keyCode) {
		return
	}
	value, ok := f.surface.Value(fieldID)
	if !ok {
		return
	}
	f.Schedule(fieldID, value)
}

// Paste handles a paste into a field. The value is read after the paste
// delay since the host may not have applied the pasted text yet.
func (f *Fetcher) Paste(fieldID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	st := f.state(fieldID)
	if st.paste != nil {
		st.paste.Stop()
	}
	st.paste = f.opts.Clock.AfterFunc(f.opts.PasteDelay, func() {
		f.mu.Lock()
		if cur, ok := f.fields[fieldID]; ok {
			cur.paste = nil
		}
		f.mu.Unlock()
		if value, ok := f.surface.Value(fieldID); ok {
			f.Schedule(fieldID, value)
		}
	})
}

// Blur handles focus leaving a field. The progress indicator is hidden after
// the blur grace period whatever the fetch outcome.
func (f *Fetcher) Blur(fieldID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	st := f.state(fieldID)
	if st.blur != nil {
		st.blur.Stop()
	}
	st.blur = f.opts.Clock.AfterFunc(f.opts.BlurGrace, func() {
		f.surface.HideIndicator(fieldID)
	})
}

// Schedule captures value for fieldID and (re)arms the quiet period timer.
// An earlier pending fetch for the field is superseded. Values shorter than
// the minimum length only cancel what is pending.
func (f *Fetcher) Schedule(fieldID, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	st := f.state(fieldID)
	st.gen++
	if st.pending != nil {
		st.pending.Stop()
		st.pending = nil
	}
	if len(value) < f.opts.MinLength {
		return
	}
	st.captured = value
	gen := st.gen
	st.pending = f.opts.Clock.AfterFunc(f.opts.QuietPeriod, func() {
		f.fire(fieldID, gen)
	})
}

func (f *Fetcher) fire(fieldID string, gen uint64) {
	f.mu.Lock()
	st, ok := f.fields[fieldID]
	if !ok || f.closed || st.gen != gen {
		f.mu.Unlock()
		return
	}
	st.pending = nil
	captured := st.captured
	f.mu.Unlock()

	live, ok := f.surface.Value(fieldID)
	if !ok {
		f.logger.Debug("preview field gone", zap.String("field", fieldID))
		return
	}
	if live != captured {
		f.logger.Debug("preview fetch stale",
			zap.String("field", fieldID),
			zap.String("captured", captured),
		)
		return
	}

	req := f.request(fieldID, captured)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	st.inFlight++
	f.mu.Unlock()

	f.surface.ShowIndicator(fieldID)
	f.surface.ClearPreview(fieldID)

	ctx, cancel := context.WithTimeout(f.ctx, f.opts.Timeout)
	markup, err := f.transport.Fetch(ctx, req)
	cancel()

	f.mu.Lock()
	st.inFlight--
	f.mu.Unlock()

	if err != nil {
		f.logger.Debug("preview fetch failed", zap.String("field", fieldID), zap.Error(err))
	} else {
		f.surface.RenderPreview(fieldID, markup)
	}
	f.surface.HideIndicator(fieldID)
}

func (f *Fetcher) request(fieldID, value string) Request {
	width := f.surface.Width(fieldID)
	if ls, ok := f.surface.(LayoutSurface); ok {
		if layout, ok := ls.Layout(fieldID); ok {
			if fitted, ok := FitWidth(layout); ok {
				width = fitted
			}
		}
	}
	if width < f.opts.MinWidth {
		width = f.opts.MinWidth
	}
	objectID, objectType := f.surface.Context(fieldID)
	return Request{
		Value:      value,
		Width:      width,
		FieldID:    fieldID,
		ObjectID:   objectID,
		ObjectType: objectType,
		Nonce:      f.opts.Nonce,
	}
}

// Forget drops the state of a field, stopping its timers. Hosts call it when
// a field is removed; callbacks already running still re-check the surface.
func (f *Fetcher) Forget(fieldID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.fields[fieldID]
	if !ok {
		return
	}
	stopAll(st)
	delete(f.fields, fieldID)
}

// Close stops every timer and cancels in-flight requests.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	for _, st := range f.fields {
		stopAll(st)
	}
	f.cancel()
	return nil
}

func stopAll(st *fieldState) {
	for _, t := range []Timer{st.pending, st.paste, st.blur} {
		if t != nil {
			t.Stop()
		}
	}
	st.pending, st.paste, st.blur = nil, nil, nil
}
