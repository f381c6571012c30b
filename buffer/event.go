package buffer

import "fmt"

// Name is a qualified XML name.
type Name struct {
	Prefix string
	URI    string
	Local  string
}

// QName returns the name in "prefix:local" form.
func (n Name) QName() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

func (n Name) String() string {
	return n.QName()
}

// Attr is an attribute of a start element.
type Attr struct {
	Name  Name
	Type  string
	Value string
}

// NamespaceDecl is a namespace declaration. An empty URI undeclares the
// prefix.
type NamespaceDecl struct {
	Prefix string
	URI    string
}

// EventKind identifies the kind of the event a Reader is positioned on.
type EventKind int

const (
	StartDocument EventKind = iota
	EndDocument
	StartElement
	EndElement
	Text
	Comment
	ProcInst
)

func (k EventKind) String() string {
	switch k {
	case StartDocument:
		return "StartDocument"
	case EndDocument:
		return "EndDocument"
	case StartElement:
		return "StartElement"
	case EndElement:
		return "EndElement"
	case Text:
		return "Text"
	case Comment:
		return "Comment"
	case ProcInst:
		return "ProcInst"
	default:
		return "Unknown"
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(d []byte) error {
	s := string(d)
	ek, ok := map[string]EventKind{
		"StartDocument": StartDocument,
		"EndDocument":   EndDocument,
		"StartElement":  StartElement,
		"EndElement":    EndElement,
		"Text":          Text,
		"Comment":       Comment,
		"ProcInst":      ProcInst,
	}[s]
	if ok {
		*k = ek
		return nil
	}
	return fmt.Errorf("unknown event kind %q", s)
}

// Event is a self contained copy of a decoded event.
type Event struct {
	Kind EventKind

	// StartElement and EndElement
	Name Name
	// StartElement only
	Namespaces []NamespaceDecl
	Attrs      []Attr

	// Text and Comment
	Text string
	// Object is the typed payload of an object text item, nil otherwise.
	Object any

	// ProcInst
	Target string
	Data   string
}
