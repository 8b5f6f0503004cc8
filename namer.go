package epiload

import "strings"

// SpanNamer turns an operation name into a span name.
type SpanNamer interface {
	Name(operation string) string
}

// DefaultNamer returns operation names unchanged.
type DefaultNamer struct{}

// Name returns the operation name as is.
func (DefaultNamer) Name(operation string) string {
	return operation
}

// PrefixNamer prepends Prefix and a dot, e.g. "epiload.upload.read".
type PrefixNamer struct {
	Prefix string
}

// Name returns the prefixed operation name.
func (n PrefixNamer) Name(operation string) string {
	if n.Prefix == "" {
		return operation
	}

	return n.Prefix + "." + operation
}

// NameStage returns the span name of a pipeline stage: "component.stage".
// Example: NameStage("upload", "read") == "upload.read"
func NameStage(component string, stage ...string) string {
	return strings.Join(append([]string{component}, stage...), ".")
}
