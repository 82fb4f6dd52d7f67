// Package jsonfile implements reading and writing of JSON localization
// files as ordered trees.
//
// encoding/json's map decoding discards key order, so parsing walks the
// token stream with json.Decoder instead and records keys as they appear.
// Writing emits keys in that same order with 4-space indentation.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/loctools/locfill/loctree"
)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a JSON localization file.
func ParseFile(path string) (*loctree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tree, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// Parse parses JSON data into an ordered tree. The document root must be
// an object.
func Parse(data []byte) (*loctree.Tree, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	// Keep number literals verbatim instead of round-tripping float64.
	dec.UseNumber()

	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parsing JSON: document root must be an object, got %v", t)
	}

	tree, err := parseObject(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return tree, nil
}

// parseObject consumes tokens after an opening '{' up to and including
// the matching '}'.
func parseObject(dec *json.Decoder) (*loctree.Tree, error) {
	tree := loctree.NewTree()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		val, err := parseValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		tree.Set(key, val)
	}
	// Closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return tree, nil
}

func parseArray(dec *json.Decoder) (loctree.List, error) {
	list := loctree.List{}
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		list = append(list, val)
	}
	// Closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return list, nil
}

func parseValue(dec *json.Decoder) (loctree.Value, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := t.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case string:
		return loctree.String(v), nil
	case json.Number:
		return loctree.Scalar(v.String()), nil
	case bool:
		return loctree.Scalar(strconv.FormatBool(v)), nil
	case nil:
		return loctree.Null, nil
	default:
		return nil, fmt.Errorf("unexpected token %v (%T)", t, t)
	}
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile serializes the tree and fully rewrites the file at path,
// creating parent directories as needed.
func WriteFile(tree *loctree.Tree, path string) error {
	data, err := Marshal(tree)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders the tree as a JSON document with 4-space indentation,
// keys in tree order, and a trailing newline.
func Marshal(tree *loctree.Tree) ([]byte, error) {
	var b strings.Builder
	writeObject(&b, tree, 0)
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

const indentUnit = "    "

func writeObject(b *strings.Builder, tree *loctree.Tree, depth int) {
	if tree.IsEmpty() {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	keys := tree.Keys()
	for i, k := range keys {
		v, _ := tree.Get(k)
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		writeValue(b, v, depth+1)
		if i < len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte('}')
}

func writeArray(b *strings.Builder, list loctree.List, depth int) {
	if len(list) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[\n")
	for i, el := range list {
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		writeValue(b, el, depth+1)
		if i < len(list)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte(']')
}

func writeValue(b *strings.Builder, v loctree.Value, depth int) {
	switch val := v.(type) {
	case loctree.String:
		b.WriteString(strconv.Quote(string(val)))
	case loctree.Scalar:
		b.WriteString(string(val))
	case loctree.List:
		writeArray(b, val, depth)
	case *loctree.Tree:
		writeObject(b, val, depth)
	}
}
