package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization format of a scenario document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat reports FormatJSON when the first non-space character of text
// opens a JSON object or array, FormatYAML otherwise.
func DetectFormat(text string) Format {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}

	return FormatYAML
}

// Deserialize parses text as a scenario document and validates it.
//
// On success every field of the returned Bundle is populated. On failure the
// error is a *DeserializationError carrying at least one message; the bundle
// is never partially returned. Deserialize is pure and deterministic.
func Deserialize(text string) (*Bundle, error) {
	doc, err := Decode(text)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	return doc.bundle(), nil
}

// Decode parses text into a Document without schema validation.
// Syntax, type and unknown-field problems are reported as *DeserializationError,
// one message per offending value.
func Decode(text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newDeserializationError("document is empty")
	}

	var root *yaml.Node
	var msg string
	switch DetectFormat(text) {
	case FormatJSON:
		root, msg = parseJSON(text)
	default:
		root, msg = parseYAML(text)
	}
	if msg != "" {
		return nil, newDeserializationError(msg)
	}

	var doc Document
	d := &nodeDecoder{}
	d.decode(root, reflect.ValueOf(&doc).Elem(), "")
	if len(d.msgs) > 0 {
		return nil, newDeserializationError(d.msgs...)
	}

	return &doc, nil
}

// parseJSON checks JSON syntax with encoding/json, for byte offsets in
// messages, then parses the text as YAML to get a node tree.
func parseJSON(text string) (*yaml.Node, string) {
	dec := json.NewDecoder(strings.NewReader(text))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, jsonMessage(err)
	}
	if err := dec.Decode(&raw); !errors.Is(err, io.EOF) {
		return nil, "unexpected data after the JSON document"
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, "invalid JSON: " + strings.TrimPrefix(err.Error(), "yaml: ")
	}

	return documentRoot(&doc), ""
}

func jsonMessage(err error) string {
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("invalid JSON at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "invalid JSON: unexpected end of input"
	default:
		return strings.TrimPrefix(err.Error(), "json: ")
	}
}

func parseYAML(text string) (*yaml.Node, string) {
	dec := yaml.NewDecoder(bytes.NewBufferString(text))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, "document is empty"
		}

		return nil, "invalid YAML: " + strings.TrimPrefix(err.Error(), "yaml: ")
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, "unexpected additional YAML document"
	}

	return documentRoot(&doc), ""
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}

	return doc
}

// nodeDecoder fills a value from a node tree and keeps going past bad
// values, so every type problem in a document is reported at once.
// Paths use document key names, the same as validation messages.
type nodeDecoder struct {
	msgs []string
}

var unmarshalerType = reflect.TypeFor[yaml.Unmarshaler]()

func (d *nodeDecoder) fail(path, format string, args ...any) {
	if path == "" {
		path = "document"
	}
	d.msgs = append(d.msgs, path+": "+fmt.Sprintf(format, args...))
}

func (d *nodeDecoder) decode(node *yaml.Node, v reflect.Value, path string) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return
	}

	if reflect.PointerTo(v.Type()).Implements(unmarshalerType) {
		if err := node.Decode(v.Addr().Interface()); err != nil {
			d.fail(path, "%s", unmarshalDetail(err))
		}

		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		d.decode(node, v.Elem(), path)
	case reflect.Struct:
		d.decodeStruct(node, v, path)
	case reflect.Slice:
		if node.Kind != yaml.SequenceNode {
			d.fail(path, "expected array, got %s", nodeKind(node))

			return
		}
		out := reflect.MakeSlice(v.Type(), len(node.Content), len(node.Content))
		for i, item := range node.Content {
			d.decode(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i))
		}
		v.Set(out)
	default:
		d.decodeScalar(node, v, path)
	}
}

func (d *nodeDecoder) decodeStruct(node *yaml.Node, v reflect.Value, path string) {
	if node.Kind != yaml.MappingNode {
		d.fail(path, "expected object, got %s", nodeKind(node))

		return
	}

	t := v.Type()
	fields := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			fields[name] = i
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		idx, ok := fields[key]
		if !ok {
			d.fail(path, "unknown field %q", key)

			continue
		}
		d.decode(node.Content[i+1], v.Field(idx), joinPath(path, key))
	}
}

func (d *nodeDecoder) decodeScalar(node *yaml.Node, v reflect.Value, path string) {
	want := jsonKind(v.Type())
	if node.Kind != yaml.ScalarNode {
		d.fail(path, "expected %s, got %s", want, nodeKind(node))

		return
	}
	// no silent conversion of 5 to "5" or of 1.5 to 1
	tag := node.ShortTag()
	if (want == "string" && tag != "!!str") || (want == "integer" && tag != "!!int") {
		d.fail(path, "expected %s, got %s %q", want, nodeKind(node), node.Value)

		return
	}
	if err := node.Decode(v.Addr().Interface()); err != nil {
		d.fail(path, "expected %s, got %s %q", want, nodeKind(node), node.Value)
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

// unmarshalDetail strips yaml's wrapping from a custom unmarshaler failure.
func unmarshalDetail(err error) string {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		return strings.Join(typeErr.Errors, "; ")
	}

	return strings.TrimPrefix(err.Error(), "yaml: ")
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	}

	switch node.ShortTag() {
	case "!!str":
		return "string"
	case "!!int":
		return "integer"
	case "!!float":
		return "number"
	case "!!bool":
		return "boolean"
	case "!!timestamp":
		return "date"
	default:
		return strings.TrimPrefix(node.ShortTag(), "!!")
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Pointer:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}
