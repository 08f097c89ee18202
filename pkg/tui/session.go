package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/preview"
	"github.com/goliatone/go-repeater/pkg/render"
)

// Session edits the collections of a document from the terminal and
// serializes the result. It satisfies render.Renderer so the CLI can treat
// it like any other output.
type Session struct {
	driver       PromptDriver
	format       OutputFormat
	theme        Theme
	logger       *zap.Logger
	previewer    preview.Transport
	previewWidth int
	previewOpts  []preview.OptionFn

	fetcher *preview.Fetcher
	surface *preview.DocumentSurface
	settled chan string
}

// previewQuietPeriod replaces the keystroke debounce; prompts deliver whole
// values.
const previewQuietPeriod = 50 * time.Millisecond

var _ render.Renderer = (*Session)(nil)

// New returns a session using the survey driver and JSON output.
func New(options ...Option) *Session {
	s := &Session{
		format: OutputFormatJSON,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	return s
}

func (s *Session) Name() string { return "tui" }

func (s *Session) ContentType() string {
	switch s.format {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs the interactive loop until the user picks "Done", then
// serializes the document.
func (s *Session) Render(ctx context.Context, doc *collection.Document, options render.RenderOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("tui: document is nil")
	}
	cols, err := s.collections(doc, options.Collections)
	if err != nil {
		return nil, err
	}
	if s.previewer != nil {
		stop := s.attachPreview(doc)
		defer stop()
	}
	if err := s.editDocument(ctx, doc, cols); err != nil {
		return nil, err
	}
	return s.serialize(doc)
}

func (s *Session) collections(doc *collection.Document, ids []string) ([]*collection.Collection, error) {
	if len(ids) == 0 {
		cols := doc.Collections()
		if len(cols) == 0 {
			return nil, ErrNoCollections
		}
		return cols, nil
	}
	out := make([]*collection.Collection, 0, len(ids))
	for _, id := range ids {
		c, ok := doc.Collection(id)
		if !ok {
			return nil, fmt.Errorf("tui: %w: %q", collection.ErrUnknownCollection, id)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Session) editDocument(ctx context.Context, doc *collection.Document, cols []*collection.Collection) error {
	for {
		options := make([]string, 0, len(cols)+1)
		for _, c := range cols {
			options = append(options, fmt.Sprintf("%s (%d rows)", collectionLabel(c), s.activeCount(doc, c)))
		}
		options = append(options, "Done")
		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Collection", Options: options})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(cols) {
			return nil
		}
		if err := s.editCollection(ctx, doc, cols[idx]); err != nil {
			return err
		}
	}
}

func (s *Session) activeCount(doc *collection.Document, c *collection.Collection) int {
	n := 0
	doc.Inspect(func([]*collection.Collection) { n = len(c.ActiveRows()) })
	return n
}

// rowIndices returns the indices of the rows a user may pick. Inert
// template rows are hidden.
func rowIndices(doc *collection.Document, c *collection.Collection) []int {
	var out []int
	doc.Inspect(func([]*collection.Collection) {
		for _, r := range c.ActiveRows() {
			out = append(out, r.Index())
		}
	})
	return out
}

func (s *Session) editCollection(ctx context.Context, doc *collection.Document, c *collection.Collection) error {
	for {
		indices := rowIndices(doc, c)
		options := make([]string, 0, len(indices)+2)
		for _, idx := range indices {
			options = append(options, s.rowLabel(doc, c, idx))
		}
		options = append(options, "Add row", "Back")

		choice, err := s.driver.Select(ctx, SelectConfig{Message: collectionLabel(c), Options: options})
		if err != nil {
			return err
		}
		switch {
		case choice == len(indices):
			res, err := doc.AddRow(c.ID())
			if err != nil {
				return err
			}
			if !s.reportSkip(ctx, res) {
				target := res.Index
				if res.Activated != nil {
					doc.Inspect(func([]*collection.Collection) { target = res.Activated.Index() })
				}
				if err := s.editRow(ctx, doc, c, target); err != nil {
					return err
				}
			}
		case choice < 0 || choice > len(indices):
			return nil
		default:
			if err := s.rowMenu(ctx, doc, c, indices[choice]); err != nil {
				return err
			}
		}
	}
}

func (s *Session) rowMenu(ctx context.Context, doc *collection.Document, c *collection.Collection, index int) error {
	options := []string{"Edit fields"}
	actions := []string{"edit"}
	if c.Sortable() {
		options = append(options, "Move up", "Move down")
		actions = append(actions, "up", "down")
	}
	options = append(options, "Remove", "Back")
	actions = append(actions, "remove", "back")

	choice, err := s.driver.Select(ctx, SelectConfig{Message: s.rowLabel(doc, c, index), Options: options})
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(actions) {
		return nil
	}

	var res collection.Result
	switch actions[choice] {
	case "edit":
		return s.editRow(ctx, doc, c, index)
	case "up":
		res, err = doc.ShiftRow(c.ID(), index, collection.Up)
	case "down":
		res, err = doc.ShiftRow(c.ID(), index, collection.Down)
	case "remove":
		res, err = doc.RemoveRow(c.ID(), index)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	s.reportSkip(ctx, res)
	return nil
}

// reportSkip prints why an operation did nothing and reports whether it was
// skipped.
func (s *Session) reportSkip(ctx context.Context, res collection.Result) bool {
	if res.Applied() {
		return false
	}
	msg := "nothing to do"
	switch {
	case errors.Is(res.Skipped, collection.ErrBelowFloor):
		msg = "cannot remove: collection is at its minimum size"
	case errors.Is(res.Skipped, collection.ErrNoSibling):
		msg = "cannot move: no row in that direction"
	case errors.Is(res.Skipped, collection.ErrNoTemplate):
		msg = "cannot add: collection has no template row"
	case errors.Is(res.Skipped, collection.ErrStaleRow):
		msg = "row changed, try again"
	}
	s.logger.Debug("operation skipped", zap.String("op", string(res.Op)), zap.Error(res.Skipped))
	_ = s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
	return true
}

func (s *Session) editRow(ctx context.Context, doc *collection.Document, c *collection.Collection, index int) error {
	var fields []*collection.Field
	doc.Inspect(func([]*collection.Collection) {
		if row, ok := c.Row(index); ok {
			fields = row.Fields()
		}
	})
	for _, f := range fields {
		if !f.Kind().Interactive() {
			continue
		}
		if err := s.editField(ctx, doc, f.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) editField(ctx context.Context, doc *collection.Document, id string) error {
	f, ok := doc.FieldByID(id)
	if !ok {
		return nil
	}
	schema := f.Schema()
	current, _ := doc.Value(id)
	label := schema.Label
	if label == "" {
		label = schema.Key
	}

	next := current.Clone()
	switch kind := schema.Kind; {
	case kind.Toggles():
		v, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current.Checked})
		if err != nil {
			return err
		}
		next.Checked = v
	case kind == model.FieldKindSelect:
		opts, def := optionLabels(schema, current.Selected)
		idx, err := s.driver.Select(ctx, SelectConfig{Message: label, Options: opts, DefaultIndex: firstOr(def, -1)})
		if err != nil {
			return err
		}
		next.Selected = nil
		if idx >= 0 && idx < len(schema.Options) {
			next.Selected = []string{schema.Options[idx].Value}
		}
	case kind == model.FieldKindMulticheck:
		opts, def := optionLabels(schema, current.Selected)
		picked, err := s.driver.MultiSelect(ctx, SelectConfig{Message: label, Options: opts, Defaults: def})
		if err != nil {
			return err
		}
		next.Selected = nil
		for _, idx := range picked {
			if idx >= 0 && idx < len(schema.Options) {
				next.Selected = append(next.Selected, schema.Options[idx].Value)
			}
		}
	case kind == model.FieldKindTextarea || kind == model.FieldKindRichText:
		v, err := s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current.Text})
		if err != nil {
			return err
		}
		next.Text = v
	case kind == model.FieldKindFile:
		url, err := s.driver.Input(ctx, InputConfig{Message: label + " URL", Default: current.Text})
		if err != nil {
			return err
		}
		ref, err := s.driver.Input(ctx, InputConfig{Message: label + " attachment id", Default: current.Ref})
		if err != nil {
			return err
		}
		if url == "" {
			return doc.RemoveMedia(id)
		}
		return doc.SelectMedia(id, false, collection.Attachment{ID: ref, URL: url})
	default:
		v, err := s.driver.Input(ctx, InputConfig{Message: label, Default: current.Text})
		if err != nil {
			return err
		}
		next.Text = v
	}

	if err := doc.SetValue(id, next); err != nil {
		return err
	}
	if schema.Preview && s.fetcher != nil {
		s.fetchPreview(ctx, id, next.Text)
	}
	return nil
}

func (s *Session) attachPreview(doc *collection.Document) func() {
	settled := make(chan string, 1)
	s.settled = settled
	s.surface = preview.NewDocumentSurface(doc,
		preview.WithSurfaceWidth(s.previewWidth),
		preview.WithSurfaceListener(func(fieldID string, ev preview.SurfaceEvent) {
			if ev != preview.SurfaceHide {
				return
			}
			select {
			case settled <- fieldID:
			default:
			}
		}),
	)
	fns := []preview.OptionFn{
		preview.WithQuietPeriod(previewQuietPeriod),
		preview.WithMinLength(preview.EmbedMinLength),
		preview.WithLogger(s.logger),
	}
	s.fetcher = preview.NewFetcher(s.previewer, s.surface, append(fns, s.previewOpts...)...)
	return func() {
		_ = s.fetcher.Close()
		s.fetcher, s.surface, s.settled = nil, nil, nil
	}
}

// fetchPreview schedules a fetch for the edited field and waits until the
// fetcher settles it. Values below the minimum length never fire.
func (s *Session) fetchPreview(ctx context.Context, fieldID, value string) {
	opts := s.fetcher.Options()
	for drained := false; !drained; {
		select {
		case <-s.settled:
		default:
			drained = true
		}
	}
	s.fetcher.Schedule(fieldID, value)
	if len(value) < opts.MinLength {
		return
	}

	timer := time.NewTimer(opts.QuietPeriod + opts.Timeout)
	defer timer.Stop()
wait:
	for {
		select {
		case id := <-s.settled:
			if id == fieldID {
				break wait
			}
		case <-timer.C:
			s.logger.Debug("preview did not settle", zap.String("field", fieldID))
			return
		case <-ctx.Done():
			return
		}
	}

	markup, ok := s.surface.Preview(fieldID)
	if !ok {
		_ = s.driver.Info(ctx, s.theme.ErrorPrefix+"no preview available")
		return
	}
	_ = s.driver.Info(ctx, s.theme.InfoPrefix+"preview: "+markup)
}

func (s *Session) rowLabel(doc *collection.Document, c *collection.Collection, index int) string {
	label := fmt.Sprintf("Row %d", index+1)
	doc.Inspect(func([]*collection.Collection) {
		row, ok := c.Row(index)
		if !ok {
			return
		}
		if title := row.Title(); title != "" {
			label = title
		}
		for _, f := range row.Fields() {
			if v := f.Value(); v.Text != "" {
				label += ": " + truncate(v.Text, 40)
				return
			}
		}
	})
	return label
}

func (s *Session) serialize(doc *collection.Document) ([]byte, error) {
	switch s.format {
	case OutputFormatFormURLEncoded:
		return []byte(doc.Submission().Encode()), nil
	case OutputFormatPrettyText:
		values := doc.Submission()
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s = %s\n", k, strings.Join(values[k], ", "))
		}
		return []byte(b.String()), nil
	default:
		return json.MarshalIndent(doc.Snapshot(), "", "  ")
	}
}

func collectionLabel(c *collection.Collection) string {
	if t := c.Definition().Title; t != "" {
		return t
	}
	return c.ID()
}

func optionLabels(schema model.FieldSchema, selected []string) ([]string, []int) {
	chosen := make(map[string]bool, len(selected))
	for _, v := range selected {
		chosen[v] = true
	}
	labels := make([]string, len(schema.Options))
	var defaults []int
	for i, opt := range schema.Options {
		labels[i] = opt.Label
		if labels[i] == "" {
			labels[i] = opt.Value
		}
		if chosen[opt.Value] {
			defaults = append(defaults, i)
		}
	}
	return labels, defaults
}

func firstOr(values []int, fallback int) int {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
