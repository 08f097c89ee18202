package oembed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrNoEmbed is returned when no provider can embed a url.
var ErrNoEmbed = errors.New("oembed: no embed found")

// Embedder resolves a url to embeddable markup sized for width.
type Embedder interface {
	Embed(ctx context.Context, rawURL string, width int) (string, error)
}

// EmbedderFunc adapts a function into an Embedder.
type EmbedderFunc func(ctx context.Context, rawURL string, width int) (string, error)

// Embed calls the underlying function.
func (fn EmbedderFunc) Embed(ctx context.Context, rawURL string, width int) (string, error) {
	return fn(ctx, rawURL, width)
}

// Provider is an oEmbed endpoint and the hosts it serves.
type Provider struct {
	Name     string
	Hosts    []string
	Endpoint string
}

// Matches reports whether host belongs to the provider. Subdomains match.
func (p Provider) Matches(host string) bool {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	for _, h := range p.Hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// DefaultProviders lists the built-in providers.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "youtube", Hosts: []string{"youtube.com", "youtu.be"}, Endpoint: "https://www.youtube.com/oembed"},
		{Name: "vimeo", Hosts: []string{"vimeo.com"}, Endpoint: "https://vimeo.com/api/oembed.json"},
		{Name: "soundcloud", Hosts: []string{"soundcloud.com"}, Endpoint: "https://soundcloud.com/oembed"},
		{Name: "flickr", Hosts: []string{"flickr.com", "flic.kr"}, Endpoint: "https://www.flickr.com/services/oembed/"},
	}
}

type response struct {
	Type  string `json:"type"`
	HTML  string `json:"html"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Client is an Embedder that queries oEmbed providers over HTTP.
type Client struct {
	providers []Provider
	http      *http.Client
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for provider calls.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// NewClient returns a Client for providers.
func NewClient(providers []Provider, opts ...ClientOption) *Client {
	c := &Client{
		providers: append([]Provider(nil), providers...),
		http:      http.DefaultClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Embed implements Embedder.
func (c *Client) Embed(ctx context.Context, rawURL string, width int) (string, error) {
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		return "", fmt.Errorf("%w: invalid url %q", ErrNoEmbed, rawURL)
	}
	provider, ok := c.match(target.Hostname())
	if !ok {
		return "", fmt.Errorf("%w: no provider for %s", ErrNoEmbed, target.Host)
	}

	endpoint, err := url.Parse(provider.Endpoint)
	if err != nil {
		return "", fmt.Errorf("oembed: provider %s endpoint: %w", provider.Name, err)
	}
	q := endpoint.Query()
	q.Set("url", target.String())
	q.Set("format", "json")
	if width > 0 {
		q.Set("maxwidth", strconv.Itoa(width))
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("oembed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("oembed: %s: %w", provider.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: %s answered %d", ErrNoEmbed, provider.Name, resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("oembed: decode %s response: %w", provider.Name, err)
	}
	switch {
	case payload.HTML != "":
		return payload.HTML, nil
	case payload.Type == "photo" && payload.URL != "":
		return fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(payload.URL), html.EscapeString(payload.Title)), nil
	}
	return "", fmt.Errorf("%w: empty %s response", ErrNoEmbed, provider.Name)
}

func (c *Client) match(host string) (Provider, bool) {
	for _, p := range c.providers {
		if p.Matches(host) {
			return p, true
		}
	}
	return Provider{}, false
}
