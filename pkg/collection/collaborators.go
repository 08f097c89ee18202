package collection

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-repeater/pkg/model"
)

// PickerInitializer decorates picker fields (date, time, color) after rows
// are added or shifted.
type PickerInitializer interface {
	InitPickers(fields []*Field)
}

// RichTextEditor owns the editing surface of rich-text fields.
type RichTextEditor interface {
	// Reinit creates the editor instance for newID from the settings of
	// oldID, the template field it was cloned from.
	Reinit(newID, oldID string) error
	Mode(id string) model.EditorMode
	SwitchMode(id string, mode model.EditorMode)
}

// Viewport moves input focus.
type Viewport interface {
	Focus(fieldID string, scroll bool)
}

type noopPickers struct{}

func (noopPickers) InitPickers([]*Field) {}

type noopViewport struct{}

func (noopViewport) Focus(string, bool) {}

// EditorConfig is the per-instance state kept by EditorConfigs.
type EditorConfig struct {
	Mode     model.EditorMode
	Settings map[string]string
}

// EditorConfigs is an in-memory RichTextEditor. New instances inherit the
// settings of the field they were cloned from, with every occurrence of the
// old id rewritten to the new one.
type EditorConfigs struct {
	mu      sync.RWMutex
	configs map[string]EditorConfig
}

// NewEditorConfigs returns an empty registry.
func NewEditorConfigs() *EditorConfigs {
	return &EditorConfigs{configs: make(map[string]EditorConfig)}
}

// Register stores the configuration of an existing editor.
func (e *EditorConfigs) Register(id string, cfg EditorConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cfg.Mode == "" {
		cfg.Mode = model.EditorModeVisual
	}
	e.configs[id] = cloneConfig(cfg)
}

// Config returns the stored configuration for id.
func (e *EditorConfigs) Config(id string) (EditorConfig, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cfg, ok := e.configs[id]
	if !ok {
		return EditorConfig{}, false
	}
	return cloneConfig(cfg), true
}

// Reinit implements RichTextEditor.
func (e *EditorConfigs) Reinit(newID, oldID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	src, ok := e.configs[oldID]
	if !ok {
		return fmt.Errorf("collection: no editor settings for %q", oldID)
	}
	next := EditorConfig{Mode: model.EditorModeVisual, Settings: make(map[string]string, len(src.Settings))}
	for k, v := range src.Settings {
		next.Settings[k] = strings.ReplaceAll(v, oldID, newID)
	}
	e.configs[newID] = next
	return nil
}

// Mode implements RichTextEditor. Unknown ids report the visual mode.
func (e *EditorConfigs) Mode(id string) model.EditorMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if cfg, ok := e.configs[id]; ok && cfg.Mode != "" {
		return cfg.Mode
	}
	return model.EditorModeVisual
}

// SwitchMode implements RichTextEditor.
func (e *EditorConfigs) SwitchMode(id string, mode model.EditorMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.configs[id]
	cfg.Mode = mode
	e.configs[id] = cfg
}

func cloneConfig(cfg EditorConfig) EditorConfig {
	out := EditorConfig{Mode: cfg.Mode}
	if cfg.Settings != nil {
		out.Settings = make(map[string]string, len(cfg.Settings))
		for k, v := range cfg.Settings {
			out.Settings[k] = v
		}
	}
	return out
}
