package schema

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-repeater/pkg/model"
)

const (
	// ExtensionRepeater carries collection metadata on array properties and
	// field overrides on item properties.
	ExtensionRepeater = "x-repeater"
	// ExtensionOrder fixes the position of a property within its row.
	ExtensionOrder = "x-order"

	textareaThreshold = 255
)

// OpenAPIAdapter derives collections from the array properties of
// components.schemas. Arrays of objects become grouped collections, arrays
// of scalars become simple ones.
type OpenAPIAdapter struct {
	// ResolveReferences allows external $ref targets.
	ResolveReferences bool
}

// NewOpenAPIAdapter returns an adapter with external references disabled.
func NewOpenAPIAdapter() *OpenAPIAdapter {
	return &OpenAPIAdapter{}
}

func (a *OpenAPIAdapter) Name() string { return "openapi" }

func (a *OpenAPIAdapter) Detect(doc Document) bool {
	return looksLikeOpenAPI(doc.raw)
}

func (a *OpenAPIAdapter) Definitions(ctx context.Context, doc Document) ([]model.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: a.ResolveReferences,
	}
	spec, err := loader.LoadFromData(doc.raw)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var defs []model.Definition
	seen := make(map[string]string)
	for _, name := range names {
		ref := spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		for _, prop := range orderedProperties(ref.Value.Properties) {
			def, ok, err := collectionFromProperty(prop.name, prop.schema)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, prop.name, err)
			}
			if !ok {
				continue
			}
			if owner, dup := seen[def.ID]; dup {
				return nil, fmt.Errorf("collection %q declared by %s and %s", def.ID, owner, name)
			}
			seen[def.ID] = name
			defs = append(defs, def)
		}
	}
	return defs, nil
}

type namedSchema struct {
	name   string
	schema *openapi3.Schema
	order  int
}

// orderedProperties sorts by x-order and then by name. Properties without an
// order go last.
func orderedProperties(props openapi3.Schemas) []namedSchema {
	out := make([]namedSchema, 0, len(props))
	for name, ref := range props {
		if ref == nil || ref.Value == nil {
			continue
		}
		order, ok := intExtension(ref.Value.Extensions, ExtensionOrder)
		if !ok {
			order = math.MaxInt
		}
		out = append(out, namedSchema{name: name, schema: ref.Value, order: order})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].order != out[j].order {
			return out[i].order < out[j].order
		}
		return out[i].name < out[j].name
	})
	return out
}

func collectionFromProperty(name string, prop *openapi3.Schema) (model.Definition, bool, error) {
	if schemaType(prop) != openapi3.TypeArray || prop.Items == nil || prop.Items.Value == nil {
		return model.Definition{}, false, nil
	}
	meta := mapExtension(prop.Extensions, ExtensionRepeater)
	if skip, _ := meta["skip"].(bool); skip {
		return model.Definition{}, false, nil
	}
	item := prop.Items.Value

	def := model.Definition{
		ID:    name,
		Title: prop.Title,
	}
	if id := stringValue(meta["id"]); id != "" {
		def.ID = id
	}
	if prop.MinItems > 0 {
		def.MinRows = int(prop.MinItems)
	}
	if n, ok := intValue(meta["initialRows"]); ok {
		def.InitialRows = n
	}
	if sortable, ok := meta["sortable"].(bool); ok {
		def.Sortable = sortable
	}
	def.TitleTemplate = stringValue(meta["titleTemplate"])

	if schemaType(item) == openapi3.TypeObject {
		def.Kind = model.CollectionGrouped
		for _, p := range orderedProperties(item.Properties) {
			if schemaType(p.schema) == openapi3.TypeObject {
				return model.Definition{}, false, fmt.Errorf("nested object %q is not supported", p.name)
			}
			def.Fields = append(def.Fields, fieldFromSchema(p.name, p.schema))
		}
		if len(def.Fields) == 0 {
			return model.Definition{}, false, fmt.Errorf("item object has no properties")
		}
	} else {
		def.Kind = model.CollectionSimple
		def.MinRows = 0
		key := stringValue(meta["key"])
		if key == "" {
			key = name
		}
		def.Fields = []model.FieldSchema{fieldFromSchema(key, item)}
	}
	if kind := stringValue(meta["kind"]); kind != "" {
		def.Kind = model.CollectionKind(kind)
	}
	return def, true, nil
}

func fieldFromSchema(key string, s *openapi3.Schema) model.FieldSchema {
	field := model.FieldSchema{
		Key:   key,
		Label: s.Title,
		Kind:  model.FieldKindText,
	}
	if s.Default != nil {
		field.Default = scalarString(s.Default)
	}

	switch schemaType(s) {
	case openapi3.TypeBoolean:
		field.Kind = model.FieldKindCheckbox
	case openapi3.TypeArray:
		if s.Items != nil && s.Items.Value != nil && len(s.Items.Value.Enum) > 0 {
			field.Kind = model.FieldKindMulticheck
			field.Options = enumOptions(s.Items.Value.Enum)
		}
	default:
		switch {
		case len(s.Enum) > 0:
			field.Kind = model.FieldKindSelect
			field.Options = enumOptions(s.Enum)
		case s.Format == "date" || s.Format == "date-time":
			field.Picker = model.PickerDate
		case s.Format == "time":
			field.Picker = model.PickerTime
		case s.Format == "color":
			field.Picker = model.PickerColor
		case s.Format == "html":
			field.Kind = model.FieldKindRichText
		case s.Format == "binary" || s.Format == "uri-reference":
			field.Kind = model.FieldKindFile
		case s.Format == "uri":
			field.Preview = true
		case s.MaxLength != nil && *s.MaxLength > textareaThreshold:
			field.Kind = model.FieldKindTextarea
		}
	}

	meta := mapExtension(s.Extensions, ExtensionRepeater)
	if kind := stringValue(meta["kind"]); kind != "" {
		field.Kind = model.FieldKind(kind)
	}
	if picker := stringValue(meta["picker"]); picker != "" {
		field.Picker = model.PickerKind(picker)
	}
	if v, ok := meta["preview"].(bool); ok {
		field.Preview = v
	}
	if v, ok := meta["resetOnAdd"].(bool); ok {
		field.ResetOnAdd = v
	}
	if extra, ok := meta["metadata"].(map[string]any); ok {
		field.Metadata = make(map[string]string, len(extra))
		for k, v := range extra {
			field.Metadata[k] = scalarString(v)
		}
	}
	return field
}

func enumOptions(values []any) []model.Option {
	out := make([]model.Option, 0, len(values))
	for _, v := range values {
		s := scalarString(v)
		out = append(out, model.Option{Value: s, Label: s})
	}
	return out
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		return ""
	}
	types := s.Type.Slice()
	if len(types) == 0 {
		return ""
	}
	return types[0]
}

func mapExtension(ext map[string]any, key string) map[string]any {
	if ext == nil {
		return nil
	}
	m, _ := ext[key].(map[string]any)
	return m
}

func intExtension(ext map[string]any, key string) (int, bool) {
	if ext == nil {
		return 0, false
	}
	return intValue(ext[key])
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "on"
		}
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
