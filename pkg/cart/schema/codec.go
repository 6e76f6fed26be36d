package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeDescriptor renders d in canonical form: two-space indent, no HTML
// escaping, trailing newline.
func EncodeDescriptor(d *Descriptor) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return encodeIndented(d)
}

// DecodeDescriptor parses a descriptor, filling omitted fields with defaults.
func DecodeDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// EncodeManifest renders m in canonical form.
func EncodeManifest(m *Manifest) ([]byte, error) {
	return encodeIndented(m)
}

// DecodeManifest parses pack.json into the typed model.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

// marshalCompact is json.Marshal without HTML escaping, for MarshalJSON
// methods whose output is re-indented by encodeIndented.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
