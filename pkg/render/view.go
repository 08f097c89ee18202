package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
)

// CollectionView is the template-facing copy of a collection.
type CollectionView struct {
	ID            string
	Kind          string
	Title         string
	Sortable      bool
	RemoveEnabled bool
	Rows          []RowView
}

// RowView is the template-facing copy of a row.
type RowView struct {
	Index  int
	Number int
	Title  string
	Inert  bool
	First  bool
	Last   bool
	Fields []FieldView
}

// FieldView is the template-facing copy of a field. Markup has already been
// sanitized.
type FieldView struct {
	ID            string
	Name          string
	Key           string
	Label         string
	Kind          string
	Text          string
	Checked       bool
	Options       []OptionView
	CompanionID   string
	CompanionName string
	Ref           string
	Markup        string
	Picker        string
	Preview       bool
	ToggleValue   string
}

// OptionView is one option of a select-like field.
type OptionView struct {
	Value    string
	Label    string
	Selected bool
}

// ThemeView carries theme attributes for the wrapper element.
type ThemeView struct {
	Name    string
	Variant string
	Style   string
}

// BuildViews copies the requested collections out of doc. Unknown ids are an
// error.
func BuildViews(doc *collection.Document, ids []string) ([]CollectionView, error) {
	var (
		views []CollectionView
		err   error
	)
	doc.Inspect(func(cols []*collection.Collection) {
		byID := make(map[string]*collection.Collection, len(cols))
		for _, c := range cols {
			byID[c.ID()] = c
		}
		selected := cols
		if len(ids) > 0 {
			selected = make([]*collection.Collection, 0, len(ids))
			for _, id := range ids {
				c, ok := byID[id]
				if !ok {
					err = fmt.Errorf("%w: %q", collection.ErrUnknownCollection, id)
					return
				}
				selected = append(selected, c)
			}
		}
		views = make([]CollectionView, 0, len(selected))
		for _, c := range selected {
			views = append(views, collectionView(c))
		}
	})
	return views, err
}

func collectionView(c *collection.Collection) CollectionView {
	def := c.Definition()
	rows := c.Rows()
	view := CollectionView{
		ID:            c.ID(),
		Kind:          string(c.Kind()),
		Title:         def.Title,
		Sortable:      c.Sortable(),
		RemoveEnabled: c.RemoveControl() == collection.ControlEnabled,
		Rows:          make([]RowView, 0, len(rows)),
	}
	for i, row := range rows {
		rv := RowView{
			Index:  row.Index(),
			Number: row.Index() + 1,
			Title:  row.Title(),
			Inert:  row.Inert(),
			First:  i == 0,
			Last:   i == len(rows)-1,
		}
		for _, f := range row.Fields() {
			rv.Fields = append(rv.Fields, fieldView(f))
		}
		view.Rows = append(view.Rows, rv)
	}
	return view
}

func fieldView(f *collection.Field) FieldView {
	schema := f.Schema()
	value := f.Value()
	view := FieldView{
		ID:      f.ID(),
		Name:    f.Name(),
		Key:     f.Key(),
		Label:   schema.Label,
		Kind:    string(schema.Kind),
		Text:    value.Text,
		Checked: value.Checked,
		Ref:     value.Ref,
		Markup:  SanitizeMarkup(value.Markup),
		Picker:  string(schema.Picker),
		Preview: schema.Preview,
	}
	if schema.Kind.Toggles() {
		view.ToggleValue = schema.Default
		if view.ToggleValue == "" {
			view.ToggleValue = "on"
		}
	}
	if schema.Kind == model.FieldKindFile {
		view.CompanionID = f.CompanionID()
		view.CompanionName = f.CompanionName()
	}
	if len(schema.Options) > 0 {
		chosen := make(map[string]bool, len(value.Selected))
		for _, s := range value.Selected {
			chosen[s] = true
		}
		for _, opt := range schema.Options {
			label := opt.Label
			if label == "" {
				label = opt.Value
			}
			view.Options = append(view.Options, OptionView{
				Value:    opt.Value,
				Label:    label,
				Selected: chosen[opt.Value],
			})
		}
	}
	return view
}

func themeView(cfg *theme.RendererConfig) ThemeView {
	if cfg == nil {
		return ThemeView{}
	}
	return ThemeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s; ", key, vars[key])
	}
	return strings.TrimSpace(b.String())
}
