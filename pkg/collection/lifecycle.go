package collection

import (
	"fmt"

	"github.com/goliatone/go-repeater/pkg/model"
)

// insertion describes a completed add.
type insertion struct {
	row       *Row
	activated *Row
	renames   []Rename
}

// add appends a row built from the template. Grouped collections clone
// their last row. Simple collections turn the inert template into an active
// row and install the clone as the new template.
func (c *Collection) add(rx Reindexer) (insertion, error) {
	tpl, ok := c.Template()
	if !ok {
		return insertion{}, ErrNoTemplate
	}

	pos := -1
	for i, r := range c.rows {
		if r == tpl {
			pos = i
			break
		}
	}
	if pos < 0 {
		return insertion{}, ErrNoTemplate
	}

	row := rx.Clone(tpl, tpl.index+1)
	var activated *Row
	if c.def.Kind == model.CollectionSimple {
		row.inert = true
		tpl.inert = false
		activated = tpl
	}

	c.rows = append(c.rows, nil)
	copy(c.rows[pos+2:], c.rows[pos+1:])
	c.rows[pos+1] = row
	rx.Renumber(c.rows)

	if err := rx.Verify(c.rows); err != nil {
		return insertion{}, err
	}
	c.syncControl()
	return insertion{row: row, activated: activated, renames: rx.Renames(tpl, row)}, nil
}

// removal describes a completed remove.
type removal struct {
	row      *Row
	index    int
	promoted *Row
	renames  []Rename
}

// remove deletes the row at index. At the floor nothing changes and the
// remove control is disabled.
func (c *Collection) remove(rx Reindexer, index int) (removal, error) {
	if index < 0 || index >= len(c.rows) {
		return removal{}, fmt.Errorf("%w: %s[%d]", ErrUnknownRow, c.def.ID, index)
	}
	if len(c.rows) <= c.Floor() {
		c.control = ControlDisabled
		return removal{}, ErrBelowFloor
	}

	row := c.rows[index]
	var promoted *Row
	if row.inert && index > 0 {
		promoted = c.rows[index-1]
		promoted.inert = true
	}

	renames := rx.ShiftTrailing(c.rows, index+1)
	c.rows = append(c.rows[:index], c.rows[index+1:]...)
	if err := rx.Verify(c.rows); err != nil {
		return removal{}, err
	}
	c.syncControl()
	row.coll = nil
	return removal{row: row, index: index, promoted: promoted, renames: renames}, nil
}
