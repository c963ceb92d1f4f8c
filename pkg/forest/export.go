package forest

import (
	"encoding/json"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"
)

// Format is a serialization of a tree.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the Format named by s, case-insensitively. An empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format '%s'", s)
	}
}

// ContentType returns the media type of documents in format f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode serializes tree canonically: two-space indented JSON with fields in declaration
// order, or YAML with sorted keys. Timestamps are RFC 3339.
func Encode(tree *TreeNode, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(tree, "", "  ")
	case FormatYAML:
		return yaml.Marshal(tree)
	default:
		return nil, fmt.Errorf("unsupported export format '%s'", format)
	}
}

// ParseExport parses a document produced by Encode back into a tree.
func ParseExport(data []byte, format Format) (*TreeNode, error) {
	var tree TreeNode

	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &tree)
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	default:
		return nil, fmt.Errorf("unsupported export format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s export: %w", format, err)
	}

	return &tree, nil
}
