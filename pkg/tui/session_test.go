package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/preview"
	"github.com/goliatone/go-repeater/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	selectMsgs   []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.selectMsgs = append(s.selectMsgs, cfg.Message)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newDoc(t *testing.T) *collection.Document {
	t.Helper()
	doc := collection.New()
	if _, err := doc.Register(model.Definition{
		ID:       "faq",
		Kind:     model.CollectionGrouped,
		Title:    "FAQ",
		Sortable: true,
		Fields: []model.FieldSchema{
			{Key: "question", Kind: model.FieldKindText, Label: "Question"},
			{Key: "answer", Kind: model.FieldKindTextarea, Label: "Answer"},
			{Key: "tags", Kind: model.FieldKindMulticheck, Options: []model.Option{{Value: "a"}, {Value: "b"}}},
			{Key: "open", Kind: model.FieldKindCheckbox},
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := doc.Register(model.Definition{
		ID:     "links",
		Kind:   model.CollectionSimple,
		Fields: []model.FieldSchema{{Key: "url", Kind: model.FieldKindText, Preview: true}},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return doc
}

func TestSessionEditsRowsAndSerializesForm(t *testing.T) {
	driver := &stubDriver{
		// faq -> row 1 -> edit fields ... back, done
		selectIdx: []int{0, 0, 0, 2, 2},
		inputs:    []string{"Why?"},
		textAreas: []string{"Because."},
		multiIdx:  [][]int{{1}},
		confirm:   []bool{true},
	}
	s := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))

	out, err := s.Render(context.Background(), newDoc(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "faq%5B0%5D%5Banswer%5D=Because.&faq%5B0%5D%5Bopen%5D=on&faq%5B0%5D%5Bquestion%5D=Why%3F&faq%5B0%5D%5Btags%5D=b&url%5B0%5D="
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionReportsFloor(t *testing.T) {
	driver := &stubDriver{
		// faq -> row 1 -> remove (index 3 with sortable menu) -> back -> done
		selectIdx: []int{0, 0, 3, 2, 2},
	}
	s := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))

	if _, err := s.Render(context.Background(), newDoc(t), render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.HasPrefix(driver.infoMessages[0], "! cannot remove") {
		t.Fatalf("expected floor message, got %#v", driver.infoMessages)
	}
}

func TestSessionAddSimpleRowFetchesPreview(t *testing.T) {
	var requests []preview.Request
	transport := preview.TransportFunc(func(_ context.Context, req preview.Request) (string, error) {
		requests = append(requests, req)
		return "<iframe></iframe>", nil
	})
	driver := &stubDriver{
		// links -> add row (edits url_1) -> back -> done
		selectIdx: []int{0, 1, 3, 1},
		inputs:    []string{"https://video.test/1"},
	}
	s := New(WithPromptDriver(driver), WithPreview(transport, 120), WithOutputFormat(OutputFormatPrettyText))

	out, err := s.Render(context.Background(), newDoc(t), render.RenderOptions{Collections: []string{"links"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(requests) != 1 || requests[0].FieldID != "url_1" || requests[0].Width != preview.DefaultMinWidth {
		t.Fatalf("unexpected preview requests %#v", requests)
	}
	if !strings.Contains(string(out), "url[1] = https://video.test/1") {
		t.Fatalf("unexpected output %q", out)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "<iframe>") {
		t.Fatalf("expected preview info, got %#v", driver.infoMessages)
	}
}

func TestSessionSkipsPreviewForShortValues(t *testing.T) {
	calls := 0
	transport := preview.TransportFunc(func(context.Context, preview.Request) (string, error) {
		calls++
		return "", nil
	})
	driver := &stubDriver{
		selectIdx: []int{0, 1, 3, 1},
		inputs:    []string{"abc"},
	}
	s := New(WithPromptDriver(driver), WithPreview(transport, 640, preview.WithQuietPeriod(time.Millisecond)))

	if _, err := s.Render(context.Background(), newDoc(t), render.RenderOptions{Collections: []string{"links"}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("expected no request below the embed minimum length, got %d", calls)
	}
	if len(driver.infoMessages) != 0 {
		t.Fatalf("expected no preview message, got %#v", driver.infoMessages)
	}
}

func TestSessionUnknownCollection(t *testing.T) {
	s := New(WithPromptDriver(&stubDriver{}))
	_, err := s.Render(context.Background(), newDoc(t), render.RenderOptions{Collections: []string{"nope"}})
	if !errors.Is(err, collection.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}
