package structure

import "fmt"

// Kind identifies the kind of a structure item. It occupies the high
// nibble of a Tag.
type Kind uint8

const (
	KindNone Kind = iota
	KindDocument
	KindElement
	KindAttribute
	KindNamespace
	KindText
	KindComment
	KindProcInst
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindDocument:
		return "Document"
	case KindElement:
		return "Element"
	case KindAttribute:
		return "Attribute"
	case KindNamespace:
		return "Namespace"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindProcInst:
		return "ProcInst"
	case KindEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Tag is the leading byte of a structure item: the item Kind in the high
// nibble and a kind specific form in the low nibble.
type Tag uint8

// TagNone is returned by readers positioned at the end of the stream.
const TagNone Tag = 0

// MakeTag packs a kind and a form into a Tag.
func MakeTag(k Kind, form uint8) Tag {
	return Tag(uint8(k)<<4 | form&0x0f)
}

func (t Tag) Kind() Kind {
	return Kind(t >> 4)
}

func (t Tag) Form() uint8 {
	return uint8(t) & 0x0f
}

func (t Tag) String() string {
	return fmt.Sprintf("%s/%d", t.Kind(), t.Form())
}

// NameForm selects how a qualified name is laid out in the operands of an
// element or attribute item.
type NameForm uint8

const (
	// NameLocal carries only a local name.
	NameLocal NameForm = iota
	// NameURILocal carries a namespace uri and a local name.
	NameURILocal
	// NamePrefixURILocal carries prefix, namespace uri and local name.
	NamePrefixURILocal
	// NameURIQName carries uri, local name and the packed "prefix:local"
	// qualified name; readers extract the prefix from the latter.
	NameURIQName
)

func (f NameForm) String() string {
	switch f {
	case NameLocal:
		return "Local"
	case NameURILocal:
		return "URILocal"
	case NamePrefixURILocal:
		return "PrefixURILocal"
	case NameURIQName:
		return "URIQName"
	default:
		return "Unknown"
	}
}

// ChooseNameForm returns the smallest form able to hold the given name.
// packed reports whether the caller holds a "prefix:local" qualified name
// rather than a separate prefix.
func ChooseNameForm(prefix, uri string, packed bool) NameForm {
	switch {
	case prefix == "" && uri == "":
		return NameLocal
	case prefix == "":
		return NameURILocal
	case packed:
		return NameURIQName
	default:
		return NamePrefixURILocal
	}
}

// NSForm selects the operands of a namespace declaration item.
type NSForm uint8

const (
	// NSNone is xmlns="", undeclaring the default namespace.
	NSNone NSForm = iota
	// NSPrefix binds a prefix to the empty uri.
	NSPrefix
	// NSURI declares the default namespace.
	NSURI
	// NSPrefixURI binds a prefix to a uri.
	NSPrefixURI
)

// ChooseNSForm returns the form for a declaration of prefix to uri.
func ChooseNSForm(prefix, uri string) NSForm {
	switch {
	case prefix == "" && uri == "":
		return NSNone
	case uri == "":
		return NSPrefix
	case prefix == "":
		return NSURI
	default:
		return NSPrefixURI
	}
}

// TextForm selects how text and comment content is stored.
type TextForm uint8

const (
	// TextSmall is a char run with a one byte inline length.
	TextSmall TextForm = iota
	// TextMedium is a char run with a two byte inline length.
	TextMedium
	// TextCopy is a char run of any size with a uvarint length.
	TextCopy
	// TextString is a reference into the string pool.
	TextString
	// TextObject is a reference into the object store. Text only.
	TextObject
)

const (
	smallMax  = 1<<8 - 1
	mediumMax = 1<<16 - 1
)

// ChooseCharsForm returns the char run form for a run of n bytes.
func ChooseCharsForm(n int) TextForm {
	switch {
	case n <= smallMax:
		return TextSmall
	case n <= mediumMax:
		return TextMedium
	default:
		return TextCopy
	}
}

func (f TextForm) String() string {
	switch f {
	case TextSmall:
		return "Small"
	case TextMedium:
		return "Medium"
	case TextCopy:
		return "Copy"
	case TextString:
		return "String"
	case TextObject:
		return "Object"
	default:
		return "Unknown"
	}
}
