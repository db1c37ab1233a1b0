package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source points at the file position that set a value. Validation errors
// carry one so the message can name the offending line.
type Source struct {
	File   string
	Line   int
	Column int
}

// EnvConfigPath overrides the config location when set.
const EnvConfigPath = "DOCKTILE_CONFIG"

func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "docktile", "config.yaml"), nil
}

// ResolvePath picks the config file location: explicit flag first, then the
// DOCKTILE_CONFIG environment variable, then the standard location.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return env, nil
	}
	return DefaultConfigPath()
}

// LoadFromPath reads and validates the configuration at path. A missing file
// yields the defaults, so a fresh install runs without any setup. Values
// absent from the file keep their defaults; unknown keys are rejected so a
// typo cannot silently fall back.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	// Parse twice: the node tree keeps line numbers for error reporting,
	// the strict decode fills the struct and catches unknown keys.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, locate(err, sourceIndex(&doc, path))
	}
	return cfg, nil
}

// sourceIndex maps dotted value paths, like "appearance.max_scale" or
// "shortcuts.categories[0].name", to their position in the file.
func sourceIndex(doc *yaml.Node, file string) map[string]Source {
	idx := make(map[string]Source)
	root := doc
	if root != nil && root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	indexNode(root, file, "", idx)
	return idx
}

func indexNode(node *yaml.Node, file, prefix string, idx map[string]Source) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			path := key.Value
			if prefix != "" {
				path = prefix + "." + key.Value
			}
			idx[path] = Source{File: file, Line: val.Line, Column: val.Column}
			indexNode(val, file, path, idx)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			path := fmt.Sprintf("%s[%d]", prefix, i)
			idx[path] = Source{File: file, Line: item.Line, Column: item.Column}
			indexNode(item, file, path, idx)
		}
	}
}

// locate attaches the file position of the offending value to a validation
// error when the index knows its path.
func locate(err error, idx map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := idx[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
