package buffer

import (
	"encoding"
	"encoding/base64"
	"fmt"
)

// Sink receives events replayed from a Buffer, in the order a Capturer
// accepts them: an element's namespace declarations follow StartElement
// and precede its attributes.
type Sink interface {
	StartDocument() error
	EndDocument() error
	StartElement(name Name) error
	Namespace(prefix, uri string) error
	Attribute(name Name, typ, value string) error
	EndElement() error
	// Text and Comment data is only valid for the duration of the call.
	Text(data []byte) error
	Comment(data []byte) error
	ProcInst(target, data string) error
}

// TypedTextSink is a Sink that accepts typed text payloads as they were
// captured instead of their string form.
type TypedTextSink interface {
	Sink
	TypedText(v any) error
}

// ObjectString returns the string form of a typed text payload: standard
// base64 for byte slices, otherwise the value's text marshaling or
// String method, falling back to fmt's default format.
func ObjectString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case encoding.TextMarshaler:
		d, err := x.MarshalText()
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(d)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
