package workspace

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
)

// InputStore keeps the last input used with each grammar file, keyed by
// the grammar path.
type InputStore struct {
	path   string
	inputs map[string]string
}

// LoadInputStore reads the store. A missing file yields an empty store.
func LoadInputStore(path string) (*InputStore, error) {
	store := &InputStore{path: path, inputs: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input store: %w", err)
	}

	if err := yaml.Unmarshal(data, &store.inputs); err != nil {
		return nil, fmt.Errorf("failed to parse input store %s: %w", path, err)
	}
	if store.inputs == nil {
		store.inputs = make(map[string]string)
	}

	return store, nil
}

// Get returns the input stored for a grammar path.
func (s *InputStore) Get(grammarPath string) (string, bool) {
	input, ok := s.inputs[grammarPath]
	return input, ok
}

// Set stores input for a grammar path. Call Save to persist it.
func (s *InputStore) Set(grammarPath, input string) {
	s.inputs[grammarPath] = input
}

// Paths returns the grammar paths with a stored input, sorted.
func (s *InputStore) Paths() []string {
	return slices.Sorted(maps.Keys(s.inputs))
}

// Save writes the store.
func (s *InputStore) Save() error {
	data, err := yaml.MarshalWithOptions(s.inputs, yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return fmt.Errorf("failed to encode input store: %w", err)
	}
	return writeFile(s.path, data)
}
