package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// LoaderOptions configures how sources are read.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS
	// HTTPClient enables SourceKindURL sources.
	HTTPClient *http.Client
	// RequestTimeout caps remote fetches.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

func WithFileSystem(files fs.FS) LoaderOption {
	return func(o *LoaderOptions) { o.FileSystem = files }
}

func WithHTTPClient(client *http.Client) LoaderOption {
	return func(o *LoaderOptions) { o.HTTPClient = client }
}

func WithRequestTimeout(d time.Duration) LoaderOption {
	return func(o *LoaderOptions) { o.RequestTimeout = d }
}

// Loader reads raw documents from files, an fs.FS or http(s).
type Loader struct {
	opts LoaderOptions
}

// NewLoader returns a Loader. HTTP sources stay disabled unless a client is
// configured.
func NewLoader(options ...LoaderOption) *Loader {
	var opts LoaderOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return &Loader{opts: opts}
}

// Load reads src into a Document.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		var abs string
		abs, err = filepath.Abs(src.Location())
		if err == nil {
			data, err = os.ReadFile(abs)
		}
	case SourceKindFS:
		if l.opts.FileSystem == nil {
			return Document{}, errors.New("schema: filesystem is not configured")
		}
		data, err = fs.ReadFile(l.opts.FileSystem, src.Location())
	case SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: load %s: %w", src.Location(), err)
	}
	return NewDocument(src, data)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.opts.HTTPClient == nil {
		return nil, ErrHTTPDisabled
	}
	if l.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.RequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}
