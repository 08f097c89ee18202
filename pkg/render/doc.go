// Package render turns repeatable collections into markup. The HTML renderer
// uses pongo2 templates embedded in the package, decorated with a go-theme
// renderer config; MediaStatus produces sanitized media status blobs for
// file fields.
package render
