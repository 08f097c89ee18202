package collection

import (
	"net/url"

	"github.com/goliatone/go-repeater/pkg/model"
)

// Decode reads a submission produced by Submission back into the document.
// Rows are read in index order until an index has no submitted key; rows
// made only of unchecked toggles are therefore not detected.
func (d *Document) Decode(form url.Values) error {
	d.mu.RLock()
	type pending struct {
		id   string
		rows []map[string]model.Value
	}
	var loads []pending
	for _, id := range d.order {
		def := d.collections[id].def
		var rows []map[string]model.Value
		for i := 0; ; i++ {
			values, ok := decodeRow(def, i, form)
			if !ok {
				break
			}
			rows = append(rows, values)
		}
		if len(rows) > 0 {
			loads = append(loads, pending{id: id, rows: rows})
		}
	}
	d.mu.RUnlock()

	for _, p := range loads {
		if err := d.Load(p.id, p.rows); err != nil {
			return err
		}
	}
	return nil
}

func decodeRow(def model.Definition, index int, form url.Values) (map[string]model.Value, bool) {
	values := make(map[string]model.Value, len(def.Fields))
	found := false
	for _, schema := range def.Fields {
		name := model.FieldName(def.Kind, def.ID, schema.Key, index)
		submitted, ok := form[name]
		var v model.Value
		switch kind := schema.Kind; {
		case kind == model.FieldKindMediaStatus:
			continue
		case kind.Toggles():
			v.Checked = ok && len(submitted) > 0
		case kind.Selects():
			v.Selected = append([]string(nil), submitted...)
		case kind == model.FieldKindFile:
			v.Text = first(submitted)
			companion := model.FieldName(def.Kind, def.ID, schema.Key+model.CompanionSuffix, index)
			if ref, has := form[companion]; has {
				v.Ref = first(ref)
				ok = true
			}
		default:
			v.Text = first(submitted)
		}
		if ok {
			found = true
		}
		values[schema.Key] = v
	}
	return values, found
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
