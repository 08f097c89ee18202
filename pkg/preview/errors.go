package preview

import "errors"

var (
	// ErrTransport wraps failures talking to the preview endpoint.
	ErrTransport = errors.New("preview: transport failure")
	// ErrRejected is returned when the endpoint answers with success=false.
	ErrRejected = errors.New("preview: request rejected")
	// ErrClosed is returned by operations on a closed Fetcher.
	ErrClosed = errors.New("preview: fetcher closed")
)
