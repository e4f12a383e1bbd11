package pass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Filename is the descriptor location relative to the bundle root.
const Filename = "pass.json"

// fileMode is used when the descriptor is written to disk.
const fileMode os.FileMode = 0o644

// Load reads and parses the descriptor of the bundle in dir.
func Load(dir string) (*Pass, error) {
	path := filepath.Join(dir, Filename)

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	p, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// LoadFile reads and parses a descriptor stored at an arbitrary path.
func LoadFile(path string) (*Pass, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	return Parse(contents)
}

// Parse decodes a descriptor. Unknown keys are rejected so typos surface
// before a pass is signed.
func Parse(data []byte) (*Pass, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Pass
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode descriptor: %w", err)
	}

	return &p, nil
}

// Marshal renders the descriptor as two-space indented JSON. Characters
// such as & and < are written verbatim.
func Marshal(p *Pass) ([]byte, error) {
	data, err := encodeJSON(p, "  ")
	if err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}

	return data, nil
}

// encodeJSON encodes v without HTML escaping, indented when indent is set.
func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write replaces the descriptor of the bundle in dir with p.
func Write(dir string, p *Pass) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, Filename), data, fileMode)
}
