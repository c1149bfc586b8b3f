package strata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// loadFile reads one candidate configuration file. A path that does not
// exist returns (nil, nil) and is skipped by the loader; a file that exists
// but cannot be parsed is a hard error, never silently ignored. The format
// is chosen by extension, falling back to trying JSON, YAML, and TOML in
// turn for unrecognized extensions.
func loadFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &FileError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseAs(path, "json", data, parseJSON)
	case ".yaml", ".yml":
		return parseAs(path, "yaml", data, parseYAML)
	case ".toml":
		return parseAs(path, "toml", data, parseTOML)
	}

	var attempts []error
	for _, p := range []struct {
		format string
		parse  func([]byte) (*Value, error)
	}{
		{"json", parseJSON},
		{"yaml", parseYAML},
		{"toml", parseTOML},
	} {
		v, err := p.parse(data)
		if err == nil {
			return v, nil
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", p.format, err))
	}
	return nil, &ParseError{Path: path, Format: "json, yaml, toml", Err: errors.Join(attempts...)}
}

func parseAs(path, format string, data []byte, parse func([]byte) (*Value, error)) (*Value, error) {
	v, err := parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	return v, nil
}

// parseJSON decodes through the token stream rather than map[string]any so
// object key order survives into the tree.
func parseJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON document")
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %v, not a string", keyTok)
				}
				child, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			var items []*Value
			for dec.More() {
				child, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return SequenceValue(items...), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return FloatValue(f), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// parseYAML walks the yaml.Node representation, which preserves mapping key
// order, and converts scalars according to their resolved tags.
func parseYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return NewMap(), nil
	}
	return yamlToValue(root.Content[0])
}

func yamlToValue(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewMap(), nil
		}
		return yamlToValue(n.Content[0])
	case yaml.AliasNode:
		return yamlToValue(n.Alias)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			child, err := yamlToValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(n.Content[i].Value, child)
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]*Value, len(n.Content))
		for i, c := range n.Content {
			child, err := yamlToValue(c)
			if err != nil {
				return nil, err
			}
			items[i] = child
		}
		return SequenceValue(items...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
}

func yamlScalar(n *yaml.Node) (*Value, error) {
	switch n.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return BoolValue(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return IntValue(i), nil
	case "!!float":
		switch strings.TrimPrefix(strings.ToLower(n.Value), "+") {
		case ".inf":
			return FloatValue(math.Inf(1)), nil
		case "-.inf":
			return FloatValue(math.Inf(-1)), nil
		case ".nan":
			return FloatValue(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return FloatValue(f), nil
	default:
		return StringValue(n.Value), nil
	}
}

// parseTOML decodes through BurntSushi's generic map form and converts with
// FromAny; TOML tables are unordered in that form, so keys come out sorted.
func parseTOML(data []byte) (*Value, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}
	return FromAny(raw)
}
