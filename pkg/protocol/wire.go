package protocol

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
)

// JSON value shapes, as reported in TypeMismatch errors.
const (
	shapeObject  = "object"
	shapeArray   = "array"
	shapeString  = "string"
	shapeNumber  = "number"
	shapeBoolean = "boolean"
	shapeNull    = "null"
	shapeAny     = ""
)

// shapeOf reports the JSON shape of an already well-formed value.
func shapeOf(raw []byte) string {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return shapeObject
	case '[':
		return shapeArray
	case '"':
		return shapeString
	case 't', 'f':
		return shapeBoolean
	case 'n':
		return shapeNull
	default:
		return shapeNumber
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

// checkWellFormed rejects payloads that are not JSON at all.
func checkWellFormed(data []byte) error {
	if json.Valid(data) {
		return nil
	}
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err == nil {
		err = fmt.Errorf("invalid JSON")
	}
	return mcperrors.MalformedDocument(err)
}

// decodeDocument is the shared body of every UnmarshalJSON: well-formedness
// first, then the entity's own decoder rooted at the empty path.
func decodeDocument(data []byte, decode func(data []byte, path string) error) error {
	if err := checkWellFormed(data); err != nil {
		return err
	}
	return decode(data, "")
}

// wireObject is one JSON object split into its raw members. Lookups go
// through it so every failure carries the member's full path.
type wireObject struct {
	path   string
	fields map[string]json.RawMessage
}

func readObject(data []byte, path string) (*wireObject, error) {
	if shape := shapeOf(data); shape != shapeObject {
		return nil, mcperrors.TypeMismatch(path, shapeObject, shape)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, mcperrors.MalformedDocument(err)
	}
	return &wireObject{path: path, fields: fields}, nil
}

func (o *wireObject) at(key string) string {
	return joinPath(o.path, key)
}

// lookup returns the member named key. An explicit null never counts as
// absence; it fails the shape check like any other wrong shape.
func (o *wireObject) lookup(key, shape string) (json.RawMessage, bool, error) {
	raw, ok := o.fields[key]
	if !ok {
		return nil, false, nil
	}
	got := shapeOf(raw)
	if shape == shapeAny {
		if got == shapeNull {
			return nil, true, mcperrors.TypeMismatch(o.at(key), "value", got)
		}
		return raw, true, nil
	}
	if got != shape {
		return nil, true, mcperrors.TypeMismatch(o.at(key), shape, got)
	}
	return raw, true, nil
}

func (o *wireObject) require(key, shape string) (json.RawMessage, error) {
	raw, ok, err := o.lookup(key, shape)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mcperrors.MissingRequiredField(o.at(key))
	}
	return raw, nil
}

func (o *wireObject) requiredString(key string) (string, error) {
	raw, err := o.require(key, shapeString)
	if err != nil {
		return "", err
	}
	return unquote(raw)
}

func (o *wireObject) optionalString(key string) (*string, error) {
	raw, ok, err := o.lookup(key, shapeString)
	if err != nil || !ok {
		return nil, err
	}
	s, err := unquote(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func unquote(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", mcperrors.MalformedDocument(err)
	}
	return s, nil
}

// requiredBase64 validates the payload syntactically but keeps the encoded
// form; raw bytes are extracted later by whoever consumes the content.
func (o *wireObject) requiredBase64(key string) (string, error) {
	s, err := o.requiredString(key)
	if err != nil {
		return "", err
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return "", mcperrors.InvalidEncoding(o.at(key), err)
	}
	return s, nil
}

func (o *wireObject) requiredBool(key string) (bool, error) {
	raw, err := o.require(key, shapeBoolean)
	if err != nil {
		return false, err
	}
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("true")), nil
}

func (o *wireObject) optionalBool(key string) (*bool, error) {
	raw, ok, err := o.lookup(key, shapeBoolean)
	if err != nil || !ok {
		return nil, err
	}
	b := bytes.HasPrefix(bytes.TrimSpace(raw), []byte("true"))
	return &b, nil
}

func (o *wireObject) optionalFloat32(key string) (*float32, error) {
	raw, ok, err := o.lookup(key, shapeNumber)
	if err != nil || !ok {
		return nil, err
	}
	text := string(bytes.TrimSpace(raw))
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return nil, mcperrors.TypeMismatch(o.at(key), "32-bit float", text)
	}
	v := float32(f)
	return &v, nil
}

// schema returns an open-ended schema document, compacted so that a
// decode/encode cycle is byte-stable.
func (o *wireObject) schema(key string, required bool) (json.RawMessage, error) {
	var (
		raw json.RawMessage
		ok  bool
		err error
	)
	if required {
		raw, err = o.require(key, shapeAny)
		ok = err == nil
	} else {
		raw, ok, err = o.lookup(key, shapeAny)
	}
	if err != nil || !ok {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, mcperrors.MalformedDocument(err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

// optionalMap decodes an open-ended object. Numbers stay json.Number so
// integers wider than a float64 mantissa survive a decode/encode cycle.
func (o *wireObject) optionalMap(key string) (map[string]any, error) {
	raw, ok, err := o.lookup(key, shapeObject)
	if err != nil || !ok {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	m := map[string]any{}
	if err := dec.Decode(&m); err != nil {
		return nil, mcperrors.MalformedDocument(err)
	}
	return m, nil
}

func (o *wireObject) optionalNestedMap(key string) (map[string]map[string]any, error) {
	inner, ok, err := o.optionalObject(key)
	if err != nil || !ok {
		return nil, err
	}
	out := make(map[string]map[string]any, len(inner.fields))
	for name := range inner.fields {
		m, err := inner.optionalMap(name)
		if err != nil {
			return nil, err
		}
		out[name] = m
	}
	return out, nil
}

func (o *wireObject) optionalObject(key string) (*wireObject, bool, error) {
	raw, ok, err := o.lookup(key, shapeObject)
	if err != nil || !ok {
		return nil, ok, err
	}
	obj, err := readObject(raw, o.at(key))
	if err != nil {
		return nil, true, err
	}
	return obj, true, nil
}

// optionalArray returns the raw items of an array member; a present empty
// array yields a non-nil empty slice.
func (o *wireObject) optionalArray(key string) ([]json.RawMessage, bool, error) {
	raw, ok, err := o.lookup(key, shapeArray)
	if err != nil || !ok {
		return nil, ok, err
	}
	items := []json.RawMessage{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, mcperrors.MalformedDocument(err)
	}
	return items, true, nil
}

func (o *wireObject) requiredArray(key string) ([]json.RawMessage, error) {
	items, ok, err := o.optionalArray(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mcperrors.MissingRequiredField(o.at(key))
	}
	return items, nil
}
