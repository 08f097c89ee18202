package render

import (
	"sort"
	"strings"
)

// Hidden input names understood by the preview endpoint.
const (
	HiddenNonce      = "nonce"
	HiddenObjectID   = "object_id"
	HiddenObjectType = "object_type"
)

// HiddenField is a hidden input emitted alongside the collections.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField with a trimmed name.
func Hidden(name, value string) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: value}
}

// PreviewContext returns the hidden inputs a host page needs to issue preview
// requests for an object.
func PreviewContext(nonce, objectID, objectType string) []HiddenField {
	return []HiddenField{
		Hidden(HiddenNonce, nonce),
		Hidden(HiddenObjectID, objectID),
		Hidden(HiddenObjectType, objectType),
	}
}

// normalizeHidden drops unnamed fields, keeps the last value per name and
// sorts by name.
func normalizeHidden(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		byName[name] = f.Value
	}
	out := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
