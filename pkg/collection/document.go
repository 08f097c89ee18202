package collection

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/pkg/model"
)

// Operation names a facade operation.
type Operation string

const (
	OpAdd    Operation = "add"
	OpRemove Operation = "remove"
	OpShift  Operation = "shift"
)

// Result reports the outcome of an add, remove or shift. Operations whose
// preconditions do not hold leave the document untouched and report the
// reason in Skipped instead of failing.
type Result struct {
	Op         Operation
	Collection string
	// Row is the added row, the removed row or the shifted row.
	Row *Row
	// Activated is the former template of a simple collection, now active.
	Activated *Row
	// Target is the sibling of a shift.
	Target        *Row
	Index         int
	Renames       []Rename
	RemoveControl ControlState
	Skipped       error
}

// Applied reports whether the operation changed the document.
func (r Result) Applied() bool { return r.Skipped == nil }

type fieldRef struct {
	coll    *Collection
	ordinal int
}

// Document owns the repeatable collections of one form and is the single
// entry point for mutating them. Its lock guards rows and values so other
// goroutines (a preview fetcher reading values, for instance) can share it.
// Collaborators and listeners are called without the lock held, except for
// RichTextEditor.SwitchMode during a shift and the StatusRenderer, which
// must not call back into the document.
type Document struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	order       []string
	prefixes    map[string]fieldRef
	toggles     map[*Field]bool
	frames      map[string]MediaFrame

	bus        Bus
	reindexer  Reindexer
	logger     *zap.Logger
	pickers    PickerInitializer
	editor     RichTextEditor
	viewport   Viewport
	status     StatusRenderer
	noScroll   bool
	resetOnAdd bool
}

// New creates an empty Document.
func New(options ...Option) *Document {
	d := &Document{
		collections: make(map[string]*Collection),
		prefixes:    make(map[string]fieldRef),
		toggles:     make(map[*Field]bool),
		frames:      make(map[string]MediaFrame),
		logger:      zap.NewNop(),
		pickers:     noopPickers{},
		viewport:    noopViewport{},
		resetOnAdd:  true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Register builds a collection from def and adds it to the document. Field
// ids of all collections share one namespace, so a definition whose ids
// could collide with an existing collection is rejected.
func (d *Document) Register(def model.Definition, decorators ...model.Decorator) (*Collection, error) {
	if err := model.Decorate(&def, decorators...); err != nil {
		return nil, fmt.Errorf("collection: decorate %q: %w", def.ID, err)
	}
	c, err := NewCollection(def)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.collections[def.ID]; exists {
		return nil, fmt.Errorf("%w: collection %q", ErrDuplicateID, def.ID)
	}
	prefixes := make([]string, len(c.def.Fields))
	for i, f := range c.def.Fields {
		p := idPrefix(c.def, f.Key)
		if _, taken := d.prefixes[p]; taken {
			return nil, fmt.Errorf("%w: field ids %q_<n>", ErrDuplicateID, p)
		}
		prefixes[i] = p
	}
	for i, p := range prefixes {
		d.prefixes[p] = fieldRef{coll: c, ordinal: i}
	}
	d.collections[def.ID] = c
	d.order = append(d.order, def.ID)

	d.logger.Debug("collection registered",
		zap.String("collection", def.ID),
		zap.String("kind", string(def.Kind)),
		zap.Int("rows", len(c.rows)),
	)
	return c, nil
}

// Collection returns a registered collection.
func (d *Document) Collection(id string) (*Collection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.collections[id]
	return c, ok
}

// Collections returns the registered collections in registration order.
func (d *Document) Collections() []*Collection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Collection, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.collections[id])
	}
	return out
}

// Inspect calls fn with the registered collections while holding the read
// lock, so rows and values cannot change underneath it. fn must not call
// back into the document.
func (d *Document) Inspect(fn func(collections []*Collection)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Collection, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.collections[id])
	}
	fn(out)
}

// On subscribes to lifecycle events.
func (d *Document) On(kind EventKind, fn Listener) func() {
	return d.bus.On(kind, fn)
}

func (d *Document) lookup(id string) (*Collection, error) {
	c, ok := d.Collection(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, id)
	}
	return c, nil
}

// AddRow appends a row to the collection. After insertion the first
// interactive field of the newly visible row is focused (grouped rows are
// scrolled into view), rowAdded listeners run, reset-on-add fields are
// cleared, picker fields of the new row are initialised and rich-text
// editors are re-created under their new ids.
func (d *Document) AddRow(collectionID string) (Result, error) {
	c, err := d.lookup(collectionID)
	if err != nil {
		return Result{}, err
	}
	if c.Kind() == model.CollectionGrouped {
		d.bus.Emit(Event{Kind: EventGroupRowAddStart, Collection: collectionID})
	}

	d.mu.Lock()
	ins, err := c.add(d.reindexer)
	res := Result{Op: OpAdd, Collection: collectionID, RemoveControl: c.control}
	var (
		focusID string
		pickers []*Field
		editors []Rename
	)
	if err == nil {
		res.Row, res.Activated, res.Index, res.Renames = ins.row, ins.activated, ins.row.index, ins.renames
		focusRow := ins.row
		if ins.activated != nil {
			focusRow = ins.activated
		}
		if f, ok := focusRow.FirstInteractive(); ok {
			focusID = f.ID()
		}
		pickers = ins.row.pickerFields()
		for _, rn := range ins.renames {
			if c.def.Fields[rn.Ordinal].Kind == model.FieldKindRichText {
				editors = append(editors, rn)
			}
		}
	}
	d.mu.Unlock()

	if err != nil {
		if errors.Is(err, ErrNoTemplate) {
			d.logger.Warn("add row skipped", zap.String("collection", collectionID), zap.Error(err))
			res.Skipped = err
			return res, nil
		}
		return res, fmt.Errorf("collection: add row to %q: %w", collectionID, err)
	}

	if focusID != "" {
		d.viewport.Focus(focusID, c.Kind() == model.CollectionGrouped && !d.noScroll)
	}
	ev := Event{Kind: EventRowAdded, Collection: collectionID, Row: res.Row, Index: res.Index}
	d.bus.Emit(ev)
	if d.resetOnAdd {
		d.clearResetFields(ev)
	}
	if len(pickers) > 0 {
		d.pickers.InitPickers(pickers)
	}
	if d.editor != nil {
		for _, rn := range editors {
			if rerr := d.editor.Reinit(rn.NewID, rn.OldID); rerr != nil {
				d.logger.Warn("rich-text reinit failed",
					zap.String("field", rn.NewID),
					zap.String("template", rn.OldID),
					zap.Error(rerr),
				)
			}
		}
	}
	return res, nil
}

// RemoveRow deletes the row at index. At the collection floor nothing is
// removed, the remove control is disabled and the result is skipped.
func (d *Document) RemoveRow(collectionID string, index int) (Result, error) {
	c, err := d.lookup(collectionID)
	if err != nil {
		return Result{}, err
	}
	res := Result{Op: OpRemove, Collection: collectionID, Index: index}

	d.mu.Lock()
	row, ok := c.Row(index)
	if !ok {
		d.mu.Unlock()
		return res, fmt.Errorf("%w: %s[%d]", ErrUnknownRow, collectionID, index)
	}
	if len(c.rows) <= c.Floor() {
		c.control = ControlDisabled
		res.RemoveControl = c.control
		d.mu.Unlock()
		d.logger.Info("remove row refused at floor",
			zap.String("collection", collectionID),
			zap.Int("floor", c.Floor()),
		)
		res.Skipped = ErrBelowFloor
		return res, nil
	}
	d.mu.Unlock()

	if c.Kind() == model.CollectionGrouped {
		d.bus.Emit(Event{Kind: EventRemoveGroupRowStart, Collection: collectionID, Row: row, Index: index})
	}

	d.mu.Lock()
	if cur, ok := c.Row(index); !ok || cur != row {
		d.mu.Unlock()
		res.Skipped = ErrStaleRow
		return res, nil
	}
	rem, err := c.remove(d.reindexer, index)
	res.RemoveControl = c.control
	if err == nil {
		for _, f := range rem.row.fields {
			delete(d.toggles, f)
		}
	}
	d.mu.Unlock()

	if err != nil {
		if errors.Is(err, ErrBelowFloor) {
			res.Skipped = err
			return res, nil
		}
		return res, fmt.Errorf("collection: remove %s[%d]: %w", collectionID, index, err)
	}
	res.Row = rem.row
	res.Activated = rem.promoted
	res.Renames = rem.renames

	d.bus.Emit(Event{Kind: EventRowRemoved, Collection: collectionID, Row: rem.row, Index: index})
	return res, nil
}

// ShiftRow exchanges the values of the row at index with its sibling in
// direction dir. Rows keep their positions and identifiers; only values
// move. A shift without a sibling is skipped.
func (d *Document) ShiftRow(collectionID string, index int, dir Direction) (Result, error) {
	c, err := d.lookup(collectionID)
	if err != nil {
		return Result{}, err
	}
	res := Result{Op: OpShift, Collection: collectionID, Index: index}
	d.bus.Emit(Event{Kind: EventReorderEnter, Collection: collectionID, Index: index, Direction: dir})

	d.mu.RLock()
	row, other, err := c.sibling(index, dir)
	res.RemoveControl = c.control
	d.mu.RUnlock()
	if err != nil {
		if errors.Is(err, ErrNoSibling) {
			d.logger.Debug("shift skipped",
				zap.String("collection", collectionID),
				zap.Int("index", index),
				zap.Stringer("direction", dir),
			)
			res.Skipped = err
			return res, nil
		}
		return res, err
	}
	res.Row, res.Target = row, other

	d.bus.Emit(Event{Kind: EventReorderStarted, Collection: collectionID, Row: row, Target: other, Index: index, Direction: dir})

	d.mu.Lock()
	cur, curOther, err := c.sibling(index, dir)
	if err != nil || cur != row || curOther != other {
		d.mu.Unlock()
		res.Skipped = ErrStaleRow
		return res, nil
	}
	swapper{editor: d.editor}.swap(row, other)
	pickers := append(row.pickerFields(), other.pickerFields()...)
	d.mu.Unlock()

	if len(pickers) > 0 {
		d.pickers.InitPickers(pickers)
	}
	d.bus.Emit(Event{Kind: EventReorderCompleted, Collection: collectionID, Row: row, Target: other, Index: index, Direction: dir})
	return res, nil
}

// resolve maps an id to its field. The caller holds the lock.
func (d *Document) resolve(id string) (*Field, bool) {
	index, ok := model.ParseIndex(id)
	if !ok {
		return nil, false
	}
	ref, ok := d.prefixes[id[:strings.LastIndexByte(id, '_')]]
	if !ok {
		return nil, false
	}
	row, ok := ref.coll.Row(index)
	if !ok {
		return nil, false
	}
	return row.fields[ref.ordinal], true
}

// FieldByID looks up a field by its current id.
func (d *Document) FieldByID(id string) (*Field, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.resolve(id)
}

// Value returns the value of the field with the given id.
func (d *Document) Value(id string) (model.Value, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, ok := d.resolve(id)
	if !ok {
		return model.Value{}, false
	}
	return f.value.Clone(), true
}

// SetValue replaces the value of the field with the given id.
func (d *Document) SetValue(id string, v model.Value) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.resolve(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	f.set(v)
	return nil
}

// clearResetFields empties reset-on-add fields of a new row, including
// values rowAdded listeners seeded. Checkbox and radio fields are never
// cleared.
func (d *Document) clearResetFields(ev Event) {
	if ev.Row == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, f := range ev.Row.fields {
		if f.schema.ResetOnAdd && !f.schema.Kind.Toggles() {
			f.clear()
		}
	}
}

// Submission encodes the active rows of every collection as form values
// keyed by field name. Inert template rows and media status blobs are not
// submitted.
func (d *Document) Submission() url.Values {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := url.Values{}
	for _, id := range d.order {
		for _, row := range d.collections[id].rows {
			if row.inert {
				continue
			}
			for _, f := range row.fields {
				encodeField(out, f)
			}
		}
	}
	return out
}

func encodeField(out url.Values, f *Field) {
	name := f.Name()
	switch kind := f.schema.Kind; {
	case kind == model.FieldKindMediaStatus:
	case kind.Toggles():
		if f.value.Checked {
			v := f.schema.Default
			if v == "" {
				v = "on"
			}
			out.Add(name, v)
		}
	case kind.Selects():
		for _, v := range f.value.Selected {
			out.Add(name, v)
		}
	case kind == model.FieldKindFile:
		out.Set(name, f.value.Text)
		out.Set(f.CompanionName(), f.value.Ref)
	default:
		out.Set(name, f.value.Text)
	}
}

// Snapshot returns the values of every active row keyed by collection id
// and field key.
func (d *Document) Snapshot() map[string][]map[string]model.Value {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string][]map[string]model.Value, len(d.collections))
	for _, id := range d.order {
		rows := make([]map[string]model.Value, 0, len(d.collections[id].rows))
		for _, row := range d.collections[id].rows {
			if row.inert {
				continue
			}
			values := make(map[string]model.Value, len(row.fields))
			for _, f := range row.fields {
				values[f.schema.Key] = f.value.Clone()
			}
			rows = append(rows, values)
		}
		out[id] = rows
	}
	return out
}

// Load replaces the values of a collection's active rows, adding rows until
// every entry has one. Surplus rows are removed down to the collection floor
// and whatever remains beyond rows is cleared. Keys missing from the
// definition are ignored.
func (d *Document) Load(collectionID string, rows []map[string]model.Value) error {
	c, err := d.lookup(collectionID)
	if err != nil {
		return err
	}
	for {
		d.mu.RLock()
		have := len(c.ActiveRows())
		d.mu.RUnlock()
		if have >= len(rows) {
			break
		}
		res, err := d.AddRow(collectionID)
		if err != nil {
			return err
		}
		if !res.Applied() {
			return fmt.Errorf("collection: load %q: %w", collectionID, res.Skipped)
		}
	}

	for {
		d.mu.RLock()
		active := c.ActiveRows()
		last := -1
		if len(active) > len(rows) {
			last = active[len(active)-1].index
		}
		d.mu.RUnlock()
		if last < 0 {
			break
		}
		res, err := d.RemoveRow(collectionID, last)
		if err != nil {
			return err
		}
		if !res.Applied() {
			break
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	active := c.ActiveRows()
	for i, row := range active {
		if i >= len(rows) {
			for _, f := range row.fields {
				f.clear()
			}
			continue
		}
		for key, v := range rows[i] {
			if f, ok := row.Field(key); ok {
				f.set(v)
			}
		}
	}
	return nil
}
