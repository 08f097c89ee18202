package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const maxResponseBytes = 4 << 20

// HTTPTransport posts form-encoded requests to a preview endpoint.
type HTTPTransport struct {
	endpoint string
	action   string
	nonce    string
	client   *http.Client
}

// TransportOption customises an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithAction overrides the action parameter.
func WithAction(action string) TransportOption {
	return func(t *HTTPTransport) {
		if action != "" {
			t.action = action
		}
	}
}

// WithSessionNonce sets the nonce sent when a request carries none.
func WithSessionNonce(nonce string) TransportOption {
	return func(t *HTTPTransport) {
		if nonce != "" {
			t.nonce = nonce
		}
	}
}

// NewHTTPTransport returns a transport for endpoint. Without a session
// nonce a random one is generated.
func NewHTTPTransport(endpoint string, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		endpoint: endpoint,
		action:   DefaultAction,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(t)
	}
	if t.nonce == "" {
		t.nonce = uuid.NewString()
	}
	return t
}

// Nonce returns the session nonce.
func (t *HTTPTransport) Nonce() string { return t.nonce }

// Fetch implements Transport.
func (t *HTTPTransport) Fetch(ctx context.Context, req Request) (string, error) {
	if req.Nonce == "" {
		req.Nonce = t.nonce
	}
	body := EncodeRequest(t.action, req).Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if !payload.Success {
		return "", fmt.Errorf("%w: %s", ErrRejected, payload.Data)
	}
	return payload.Data, nil
}
