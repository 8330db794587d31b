package frontmatter

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Canonical renders header fields as canonical YAML: keys sorted at every
// depth, two-space indent, LF newlines and no trailing newline. Timestamps
// render in UTC as RFC 3339. Empty fields render as "".
func Canonical(fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}

	node, err := canonicalNode(fields)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return "", fmt.Errorf("encode canonical header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode canonical header: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func canonicalNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range slices.Sorted(maps.Keys(vv)) {
			val, err := canonicalNode(vv[k])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
		}
		return n, nil
	case map[any]any:
		m := make(map[string]any, len(vv))
		for k, val := range vv {
			m[fmt.Sprint(k)] = val
		}
		return canonicalNode(m)
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			child, err := canonicalNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case time.Time:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: vv.UTC().Format(time.RFC3339)}, nil
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return &n, nil
	}
}
