package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

var ErrMalformed = errors.New("malformed document")

const indent = "  "

// Decode reads a single JSON object from r.
func Decode(r io.Reader) (*Object, error) {
	dec := jsontext.NewDecoder(r)

	if kind := dec.PeekKind(); kind != '{' {
		if _, err := dec.ReadToken(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return nil, fmt.Errorf("%w: top-level value must be an object, got %v", ErrMalformed, kind)
	}

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if _, err := dec.ReadToken(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level object", ErrMalformed)
	}
	return v.(*Object), nil
}

func Parse(data []byte) (*Object, error) {
	return Decode(bytes.NewReader(data))
}

func decodeValue(dec *jsontext.Decoder) (any, error) {
	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		obj := NewObject()
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			// tokens are only valid until the next read
			key := name.String()
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		arr := make([]any, 0)
		for dec.PeekKind() != ']' {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return arr, nil
	case '"':
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		return tok.String(), nil
	case '0':
		val, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		return Number(string(val)), nil
	case 't', 'f':
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		return tok.Bool(), nil
	case 'n':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		// PeekKind reports an invalid kind on error; ReadToken surfaces it.
		_, err := dec.ReadToken()
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
}

// Encode writes o to w with two-space indentation and a trailing newline.
func Encode(w io.Writer, o *Object) error {
	enc := jsontext.NewEncoder(w, jsontext.WithIndent(indent), jsontext.SpaceAfterColon(true))
	return encodeValue(enc, o)
}

func Marshal(o *Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *jsontext.Encoder, v any) error {
	switch v := v.(type) {
	case *Object:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, k := range v.keys {
			if err := enc.WriteToken(jsontext.String(k)); err != nil {
				return err
			}
			if err := encodeValue(enc, v.values[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	case []any:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for i, item := range v {
			if err := encodeValue(enc, item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case string:
		return enc.WriteToken(jsontext.String(v))
	case Number:
		return enc.WriteValue(jsontext.Value(v))
	case float64:
		return enc.WriteToken(jsontext.Float(v))
	case int:
		return enc.WriteToken(jsontext.Int(int64(v)))
	case int64:
		return enc.WriteToken(jsontext.Int(v))
	case bool:
		return enc.WriteToken(jsontext.Bool(v))
	case nil:
		return enc.WriteToken(jsontext.Null)
	default:
		return fmt.Errorf("unsupported document value of type %T", v)
	}
}
