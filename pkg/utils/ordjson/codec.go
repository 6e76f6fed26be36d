package ordjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Parse decodes a single JSON document.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &parser{data: data, dec: dec}

	v, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return v, nil
}

// parser walks the token stream and slices string literals out of data so
// they can be written back with their original escapes.
type parser struct {
	data []byte
	dec  *json.Decoder
}

// token returns the next token and, for strings, its source literal.
func (p *parser) token() (json.Token, string, error) {
	start := p.dec.InputOffset()
	tok, err := p.dec.Token()
	if err != nil {
		return nil, "", err
	}
	if _, ok := tok.(string); !ok {
		return tok, "", nil
	}
	end := p.dec.InputOffset()
	// Only whitespace, ',' or ':' sits between the previous token and the
	// opening quote.
	for start < end && p.data[start] != '"' {
		start++
	}
	return tok, string(p.data[start:end]), nil
}

func (p *parser) value() (*Value, error) {
	tok, raw, err := p.token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := &Map{}
			for p.dec.More() {
				keyTok, rawKey, err := p.token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", keyTok)
				}
				val, err := p.value()
				if err != nil {
					return nil, err
				}
				// Duplicates stay in place; lookups see the last one.
				m.members = append(m.members, member{key: key, raw: rawKey, val: val})
			}
			if _, err := p.dec.Token(); err != nil {
				return nil, err
			}
			return NewObject(m), nil
		case '[':
			items := []*Value{}
			for p.dec.More() {
				val, err := p.value()
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := p.dec.Token(); err != nil {
				return nil, err
			}
			return NewArray(items...), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		v := NewString(t)
		v.raw = raw
		return v, nil
	case json.Number:
		return NewNumber(t), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return NewNull(), nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}

// Marshal renders v with two-space indentation, no HTML escaping and a
// trailing newline.
func Marshal(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON writes v in compact form.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeTo(buf *bytes.Buffer) error {
	switch v.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(v.s)
	case String:
		if v.raw != "" {
			buf.WriteString(v.raw)
			return nil
		}
		return writeString(buf, v.s)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, mem := range v.obj.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if mem.raw != "" {
				buf.WriteString(mem.raw)
			} else if err := writeString(buf, mem.key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := mem.val.writeTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %d", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
