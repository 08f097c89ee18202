package schema

import (
	"strings"

	"github.com/goliatone/go-repeater/pkg/model"
)

// DefaultTitleTemplate is used for grouped collections without one.
const DefaultTitleTemplate = "Entry " + model.TitlePlaceholder

// Normalize fills defaults a definition file may leave out: the collection
// kind (grouped unless a single field is declared simple), the group title
// template, field labels and field kinds.
func Normalize() model.Decorator {
	return model.DecoratorFunc(func(def *model.Definition) error {
		def.ID = strings.TrimSpace(def.ID)
		if def.Kind == "" {
			def.Kind = model.CollectionGrouped
		}
		if def.Kind == model.CollectionGrouped {
			if def.TitleTemplate == "" {
				def.TitleTemplate = DefaultTitleTemplate
			}
			if def.MinRows < 1 {
				def.MinRows = 1
			}
		}
		for i := range def.Fields {
			f := &def.Fields[i]
			f.Key = strings.TrimSpace(f.Key)
			if f.Kind == "" {
				f.Kind = model.FieldKindText
			}
			if f.Label == "" {
				f.Label = labelize(f.Key)
			}
			for j := range f.Options {
				if f.Options[j].Label == "" {
					f.Options[j].Label = f.Options[j].Value
				}
			}
		}
		return nil
	})
}

// labelize turns "video_url" into "Video url".
func labelize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == '.' })
	if len(words) == 0 {
		return key
	}
	out := strings.ToLower(strings.Join(words, " "))
	return strings.ToUpper(out[:1]) + out[1:]
}
