// Package workspace tracks the grammar file and input being edited and
// decides when they are written back.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shibukawa/pestplay"
)

// Workspace holds the open grammar file and its input. It is safe for
// concurrent use.
type Workspace struct {
	mu       sync.Mutex
	settings *Settings
	inputs   *InputStore

	path string

	grammar      string
	savedGrammar string
	input        string
	savedInput   string
}

// New creates a workspace with no file open.
func New(settings *Settings, inputs *InputStore) *Workspace {
	return &Workspace{settings: settings, inputs: inputs}
}

// Open reads a grammar file and restores the input last stored for it.
func (w *Workspace) Open(path string) (grammar string, input string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", "", fmt.Errorf("failed to open grammar: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.path = abs
	w.grammar = string(data)
	w.savedGrammar = w.grammar
	w.input, _ = w.inputs.Get(abs)
	w.savedInput = w.input

	return w.grammar, w.input, nil
}

// Path returns the absolute path of the open grammar file.
func (w *Workspace) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// UpdateGrammar records edited grammar content. With auto-save on, the
// file is written immediately.
func (w *Workspace) UpdateGrammar(content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.grammar = content
	if content == w.savedGrammar || !w.settings.AutoSave() {
		return nil
	}
	return w.saveGrammar()
}

// UpdateInput records edited input. With auto-save on, the input store is
// written immediately.
func (w *Workspace) UpdateInput(content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.input = content
	if content == w.savedInput || !w.settings.AutoSave() {
		return nil
	}
	return w.saveInput()
}

// SaveGrammar writes buffered grammar content to the open file.
func (w *Workspace) SaveGrammar() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saveGrammar()
}

// SaveInput writes the buffered input to the input store.
func (w *Workspace) SaveInput() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saveInput()
}

func (w *Workspace) saveGrammar() error {
	if w.path == "" {
		return pestplay.ErrFileNotOpened
	}
	if err := writeFile(w.path, []byte(w.grammar)); err != nil {
		return err
	}
	w.savedGrammar = w.grammar
	return nil
}

func (w *Workspace) saveInput() error {
	if w.path == "" {
		return pestplay.ErrFileNotOpened
	}
	w.inputs.Set(w.path, w.input)
	if err := w.inputs.Save(); err != nil {
		return err
	}
	w.savedInput = w.input
	return nil
}

// Unsaved reports which contents differ from what was last written.
func (w *Workspace) Unsaved() (grammar bool, input bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.grammar != w.savedGrammar, w.input != w.savedInput
}

// AutoSave returns the auto-save setting.
func (w *Workspace) AutoSave() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings.AutoSave()
}

// SetAutoSave changes the auto-save setting. It is persisted by Close.
func (w *Workspace) SetAutoSave(value bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings.SetAutoSave(value)
}

// Close persists the settings. Unsaved content is left unwritten.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings.Save()
}

// Load opens the settings and input store named by the configuration.
func Load(config *pestplay.Config) (*Workspace, error) {
	settings, err := LoadSettings(config.Workspace.SettingsFile)
	if err != nil {
		return nil, err
	}
	if config.Workspace.AutoSave && settings.root() == nil {
		settings.SetAutoSave(true)
	}

	inputs, err := LoadInputStore(config.Workspace.InputStore)
	if err != nil {
		return nil, err
	}

	return New(settings, inputs), nil
}
