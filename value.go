package fieldcodec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format uint8

const (
	_ Format = iota
	JSON
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// tag returns the struct tag key used to name fields in f.
func (f Format) tag() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

var errMissing = errors.New("missing value")

// Value is a single decoded but untyped field value as handed to a transform
// by the record decoder. Implementations exist for JSON, YAML and absent keys.
type Value interface {
	// Format reports the encoding the value came from.
	Format() Format
	// IsNull reports whether the value is an explicit null or an absent key.
	IsNull() bool
	// Decode decodes the value into dst, which must be a non-nil pointer.
	// Records implementing Ruler are decoded with their field transforms.
	Decode(dst any) error

	// members splits an object value into its keyed children.
	members() (map[string]Value, error)
	// elements splits an array value into its items.
	elements() ([]Value, error)
	// decodeStd decodes with the format's own decoder.
	decodeStd(dst any) error
}

// JSONValue wraps a raw JSON value.
func JSONValue(raw []byte) Value {
	return jsonValue{raw: raw}
}

// YAMLValue wraps a YAML node. Document nodes are unwrapped to their content.
func YAMLValue(node *yaml.Node) Value {
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return Absent(YAML)
		}
		node = node.Content[0]
	}
	return yamlValue{node: node}
}

// Absent returns the value reported for a key missing from a document of format f.
func Absent(f Format) Value {
	return absentValue{format: f}
}

type jsonValue struct {
	raw json.RawMessage
}

func (v jsonValue) Format() Format { return JSON }

func (v jsonValue) IsNull() bool {
	t := bytes.TrimSpace(v.raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func (v jsonValue) Decode(dst any) error {
	return decodeValue(context.Background(), v, dst)
}

func (v jsonValue) decodeStd(dst any) error {
	return json.Unmarshal(v.raw, dst)
}

func (v jsonValue) elements() ([]Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(v.raw, &items); err != nil {
		return nil, err
	}
	out := make([]Value, len(items))
	for i, raw := range items {
		out[i] = jsonValue{raw: raw}
	}
	return out, nil
}

func (v jsonValue) members() (map[string]Value, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v.raw, &m); err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(m))
	for k, raw := range m {
		out[k] = jsonValue{raw: raw}
	}
	return out, nil
}

type yamlValue struct {
	node *yaml.Node
}

func (v yamlValue) Format() Format { return YAML }

func (v yamlValue) resolved() *yaml.Node {
	n := v.node
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (v yamlValue) IsNull() bool {
	n := v.resolved()
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func (v yamlValue) Decode(dst any) error {
	return decodeValue(context.Background(), v, dst)
}

func (v yamlValue) decodeStd(dst any) error {
	n := v.resolved()
	if n == nil {
		return nil
	}
	return n.Decode(dst)
}

func (v yamlValue) members() (map[string]Value, error) {
	n := v.resolved()
	if n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null") {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml: line %d: cannot decode %s into a record", n.Line, n.ShortTag())
	}
	out := make(map[string]Value, len(n.Content)/2)
	if err := collectMembers(n, out); err != nil {
		return nil, err
	}
	return out, nil
}

// collectMembers adds the pairs of the mapping n missing from out, then those
// of its merge keys, so explicit keys win over merged ones and earlier merge
// sources over later ones. Duplicate keys fail like they do in yaml.v3.
func collectMembers(n *yaml.Node, out map[string]Value) error {
	if err := checkUniqueKeys(n); err != nil {
		return err
	}
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if isMergeKey(key) {
			merges = append(merges, n.Content[i+1])
			continue
		}
		if _, ok := out[key.Value]; !ok {
			out[key.Value] = yamlValue{node: n.Content[i+1]}
		}
	}
	for _, m := range merges {
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			src = yamlValue{node: src}.resolved()
			if src == nil || src.Kind != yaml.MappingNode {
				return fmt.Errorf("yaml: line %d: map merge requires map or sequence of maps as the value", m.Line)
			}
			if err := collectMembers(src, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && n.ShortTag() == "!!merge"
}

func checkUniqueKeys(n *yaml.Node) error {
	for i := 0; i < len(n.Content); i += 2 {
		ki := n.Content[i]
		for j := i + 2; j < len(n.Content); j += 2 {
			kj := n.Content[j]
			if ki.Kind == kj.Kind && ki.Value == kj.Value {
				return fmt.Errorf("yaml: line %d: mapping key %q already defined at line %d", kj.Line, kj.Value, ki.Line)
			}
		}
	}
	return nil
}

func (v yamlValue) elements() ([]Value, error) {
	n := v.resolved()
	if n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null") {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("yaml: line %d: cannot decode %s into a sequence", n.Line, n.ShortTag())
	}
	out := make([]Value, len(n.Content))
	for i, item := range n.Content {
		out[i] = yamlValue{node: item}
	}
	return out, nil
}

type absentValue struct {
	format Format
}

func (v absentValue) Format() Format { return v.format }

func (v absentValue) IsNull() bool { return true }

func (v absentValue) Decode(any) error { return errMissing }

func (v absentValue) decodeStd(any) error { return errMissing }

func (v absentValue) members() (map[string]Value, error) { return nil, nil }

func (v absentValue) elements() ([]Value, error) { return nil, nil }

// parseDocument turns a complete document into its root value.
func parseDocument(format Format, data []byte) (Value, error) {
	switch format {
	case JSON:
		var probe json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, err
		}
		return jsonValue{raw: probe}, nil
	case YAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc.Kind == 0 {
			return Absent(YAML), nil
		}
		return YAMLValue(&doc), nil
	default:
		return nil, fmt.Errorf("fieldcodec: unsupported format %s", format)
	}
}
