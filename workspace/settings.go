package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const autoSaveKey = "auto-save"

// Settings is the persisted settings file. Unknown keys and comments in the
// file survive a save.
type Settings struct {
	path string
	doc  yaml.Node
}

// LoadSettings reads the settings file. A missing file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if root := s.root(); root != nil && root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse settings %s: top level must be a mapping", path)
	}

	return s, nil
}

func (s *Settings) root() *yaml.Node {
	if s.doc.Kind != yaml.DocumentNode || len(s.doc.Content) == 0 {
		return nil
	}
	return s.doc.Content[0]
}

// AutoSave returns the auto-save flag. It is off unless set.
func (s *Settings) AutoSave() bool {
	root := s.root()
	if root == nil {
		return false
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == autoSaveKey {
			var value bool
			if err := root.Content[i+1].Decode(&value); err != nil {
				return false
			}
			return value
		}
	}
	return false
}

// SetAutoSave updates the auto-save flag in place.
func (s *Settings) SetAutoSave(value bool) {
	root := s.root()
	if root == nil {
		root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		s.doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	}

	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(value)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == autoSaveKey {
			valueNode.LineComment = root.Content[i+1].LineComment
			root.Content[i+1] = valueNode
			return
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: autoSaveKey},
		valueNode,
	)
}

// Save writes the settings file, creating its directory when needed.
func (s *Settings) Save() error {
	if s.root() == nil {
		return nil
	}

	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return writeFile(s.path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
