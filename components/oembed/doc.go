// Package oembed serves the preview endpoint consumed by the preview
// fetcher: a net/http handler that accepts the form-encoded preview request,
// resolves the url through an oEmbed provider and answers with the JSON
// envelope {"success": bool, "data": markup}.
//
// Provider markup is sanitized before it is returned. The handler accepts
// POST requests only and rejects unknown actions and invalid nonces.
package oembed
