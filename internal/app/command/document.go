package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acronis/go-jsonschema/document"
)

// ReadDocument loads a JSON or YAML document from disk. YAML is selected by
// the .yaml and .yml extensions, everything else parses as JSON.
func ReadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = document.DecodeYAML(data)
	default:
		doc, err = document.Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// DocumentID extracts the base identifier a schema document declares for
// itself, if any.
func DocumentID(doc any) (string, bool) {
	obj, ok := doc.(*document.Map)
	if !ok {
		return "", false
	}
	for _, key := range []string{"$id", "id"} {
		if raw, ok := obj.Get(key); ok {
			if s, ok := raw.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
