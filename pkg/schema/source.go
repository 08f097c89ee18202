package schema

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Source identifies where a definition document comes from.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind  { return s.kind }
func (s source) Location() string { return s.location }

// SourceFromFile points at a path on disk.
func SourceFromFile(p string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(p)}
}

// SourceFromFS points at an entry of the loader's fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: path.Clean(strings.TrimPrefix(name, "/"))}
}

// SourceFromURL points at an http(s) document.
func SourceFromURL(raw string) (Source, error) {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("schema: unsupported url scheme %q", u.Scheme)
	}
	return source{kind: SourceKindURL, location: raw}, nil
}

// extension returns the lower-cased file extension of a source location.
func extension(src Source) string {
	if src == nil {
		return ""
	}
	loc := src.Location()
	if src.Kind() == SourceKindURL {
		if u, err := url.Parse(loc); err == nil {
			loc = u.Path
		}
	}
	return strings.ToLower(path.Ext(loc))
}
