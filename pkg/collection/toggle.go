package collection

import (
	"fmt"

	"github.com/goliatone/go-repeater/pkg/model"
)

// ToggleAll flips every option of a multicheck field. The first call selects
// all options, the next clears them. The flag lives with the field control,
// so it follows the control rather than the value during a shift. It
// returns whether the options are now selected.
func (d *Document) ToggleAll(fieldID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.resolve(fieldID)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}
	if f.schema.Kind != model.FieldKindMulticheck {
		return false, fmt.Errorf("%w: toggle on %s", ErrFieldKind, f.schema.Kind)
	}

	on := !d.toggles[f]
	if on {
		all := make([]string, 0, len(f.schema.Options))
		for _, opt := range f.schema.Options {
			all = append(all, opt.Value)
		}
		f.value.Selected = all
	} else {
		f.value.Selected = nil
	}
	d.toggles[f] = on
	return on, nil
}
