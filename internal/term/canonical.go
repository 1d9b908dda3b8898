package term

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON encoding of t.
// This is the ONLY serialization used for content-addressed rule identity.
//
// Shapes are encoded as single-key or sorted-key objects:
//
//	Atom   {"atom":"x","const":false}
//	Group  {"group":[...]}
//	Binder {"binder":0,"body":...}
//	Ref    {"ref":0}
//	Branch {"branch":[cond,concl]}
//
// Keys appear in byte order, strings are NFC normalized and not HTML
// escaped, and there is no insignificant whitespace.
func MarshalCanonical(t Term) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, t Term) error {
	switch v := t.(type) {
	case Atom:
		name, err := marshalCanonicalString(v.Name)
		if err != nil {
			return err
		}
		buf.WriteString(`{"atom":`)
		buf.Write(name)
		buf.WriteString(`,"const":`)
		buf.WriteString(strconv.FormatBool(v.Constant))
		buf.WriteByte('}')
		return nil
	case Group:
		buf.WriteString(`{"group":`)
		if err := marshalCanonicalArray(buf, v.Children); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	case Binder:
		buf.WriteString(`{"binder":`)
		buf.WriteString(strconv.Itoa(v.ID))
		buf.WriteString(`,"body":`)
		if err := marshalCanonical(buf, v.Body); err != nil {
			return fmt.Errorf("binder %d: %w", v.ID, err)
		}
		buf.WriteByte('}')
		return nil
	case Ref:
		buf.WriteString(`{"ref":`)
		buf.WriteString(strconv.Itoa(v.ID))
		buf.WriteByte('}')
		return nil
	case Branch:
		buf.WriteString(`{"branch":`)
		if err := marshalCanonicalArray(buf, []Term{v.Condition, v.Conclusion}); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	case nil:
		return fmt.Errorf("nil term is forbidden in canonical encoding")
	default:
		return fmt.Errorf("unsupported term type for canonical encoding: %T", t)
	}
}

func marshalCanonicalArray(buf *bytes.Buffer, terms []Term) error {
	buf.WriteByte('[')
	for i, t := range terms {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := marshalCanonical(buf, t); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

// marshalCanonicalString produces a JSON string with NFC normalization.
// Only control characters, backslash and quote are escaped; <, > and & are
// written as-is.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
