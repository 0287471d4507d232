package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// yamlFiles returns the .yaml and .yml files directly inside dir, sorted.
// A missing dir yields no files.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// readDefinitions parses path and returns one mapping node per definition.
// A file holds one definition, a list of definitions, or several documents.
func readDefinitions(kind, path string) ([]*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var out []*yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, validate.Errorf(kind, "", "", "%s: parsing YAML: %v", path, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		root := doc.Content[0]
		switch root.Kind {
		case yaml.MappingNode:
			out = append(out, root)
		case yaml.SequenceNode:
			for i, item := range root.Content {
				if item.Kind != yaml.MappingNode {
					return nil, validate.Errorf(kind, "", fmt.Sprintf("[%d]", i), "%s: line %d: expected a mapping", path, item.Line)
				}
				out = append(out, item)
			}
		default:
			return nil, validate.Errorf(kind, "", "", "%s: line %d: expected a mapping or a list", path, root.Line)
		}
	}
	return out, nil
}

// decodeStrict decodes n into out, rejecting keys out does not declare.
func decodeStrict(n *yaml.Node, out any) error {
	data, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// scalarValue returns the value of key in mapping n, or "".
func scalarValue(n *yaml.Node, key string) string {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key && n.Content[i+1].Kind == yaml.ScalarNode {
			return n.Content[i+1].Value
		}
	}
	return ""
}
