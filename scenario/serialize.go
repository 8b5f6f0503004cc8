package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNilBundle is returned when serializing a nil bundle.
var ErrNilBundle = errors.New("scenario: nil bundle")

// Serialize writes b as an indented JSON document that Deserialize accepts.
func Serialize(b *Bundle) ([]byte, error) {
	if b == nil {
		return nil, ErrNilBundle
	}

	out, err := json.MarshalIndent(documentFromBundle(b), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scenario json: %w", err)
	}

	return append(out, '\n'), nil
}

// SerializeYAML writes b as a YAML document that Deserialize accepts.
func SerializeYAML(b *Bundle) ([]byte, error) {
	if b == nil {
		return nil, ErrNilBundle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(documentFromBundle(b)); err != nil {
		return nil, fmt.Errorf("marshal scenario yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal scenario yaml: %w", err)
	}

	return buf.Bytes(), nil
}

// SerializeAs writes b in the given format.
func SerializeAs(b *Bundle, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return Serialize(b)
	case FormatYAML:
		return SerializeYAML(b)
	default:
		return nil, fmt.Errorf("scenario: unsupported format %q", format)
	}
}
