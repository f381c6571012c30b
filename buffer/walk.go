package buffer

import (
	"fmt"

	"github.com/signadot/xsb/structure"
)

// item is one decoded structure item.
type item struct {
	kind structure.Kind
	pos  structure.Position

	// Element, Attribute
	name Name
	// Attribute type and value; ProcInst target and data
	typ, value string
	// Namespace
	prefix, uri string

	// Text and Comment content in one of three shapes
	form  structure.TextForm
	chars []byte
	str   string
	obj   any
}

func (it *item) isObject() bool {
	return it.kind == structure.KindText && it.form == structure.TextObject
}

func (it *item) textString() string {
	switch it.form {
	case structure.TextString:
		return it.str
	case structure.TextObject:
		return ObjectString(it.obj)
	default:
		return string(it.chars)
	}
}

func (it *item) textBytes() []byte {
	switch it.form {
	case structure.TextString:
		return []byte(it.str)
	case structure.TextObject:
		return []byte(ObjectString(it.obj))
	default:
		return it.chars
	}
}

// walker decodes structure items one at a time. It is the dispatch shared
// by Reader and Replayer; it keeps no tree state.
type walker struct {
	rd *structure.Reader
	op string
}

func newWalker(b *Buffer, op string) walker {
	return walker{rd: b.reader(), op: op}
}

// peek returns the kind of the next item without consuming it.
func (w *walker) peek() structure.Kind {
	return w.rd.PeekItem().Kind()
}

func (w *walker) offset() int {
	return w.rd.Pos().Item
}

// next decodes the next item into it. At the end of the stream it reports
// kind KindNone and no error; operand and form errors are malformed.
func (w *walker) next(it *item) error {
	it.pos = w.rd.Pos()
	tag := w.rd.ReadItem()
	it.kind = tag.Kind()
	form := tag.Form()
	switch it.kind {
	case structure.KindNone, structure.KindDocument, structure.KindEnd:
		if form != 0 {
			return malformed(w.op, it.pos.Item, "%s with form %d", it.kind, form)
		}
	case structure.KindElement:
		if form > uint8(structure.NameURIQName) {
			return malformed(w.op, it.pos.Item, "element name form %d", form)
		}
		it.name.Prefix, it.name.URI, it.name.Local = w.rd.ReadName(structure.NameForm(form))
	case structure.KindAttribute:
		if form > uint8(structure.NameURIQName) {
			return malformed(w.op, it.pos.Item, "attribute name form %d", form)
		}
		it.name.Prefix, it.name.URI, it.name.Local = w.rd.ReadName(structure.NameForm(form))
		it.typ = w.rd.ReadStringRef()
		it.value = w.rd.ReadStringRef()
	case structure.KindNamespace:
		if form > uint8(structure.NSPrefixURI) {
			return malformed(w.op, it.pos.Item, "namespace form %d", form)
		}
		it.prefix, it.uri = w.rd.ReadNamespace(structure.NSForm(form))
	case structure.KindText, structure.KindComment:
		it.form = structure.TextForm(form)
		it.chars, it.str, it.obj = nil, "", nil
		switch it.form {
		case structure.TextSmall, structure.TextMedium, structure.TextCopy:
			it.chars = w.rd.ReadChars(it.form)
		case structure.TextString:
			it.str = w.rd.ReadStringRef()
		case structure.TextObject:
			if it.kind == structure.KindComment {
				return malformed(w.op, it.pos.Item, "object comment")
			}
			it.obj = w.rd.ReadObjectRef()
		default:
			return malformed(w.op, it.pos.Item, "%s form %d", it.kind, form)
		}
	case structure.KindProcInst:
		it.typ = w.rd.ReadStringRef()
		it.value = w.rd.ReadStringRef()
	default:
		return malformed(w.op, it.pos.Item, "unknown item kind %d", it.kind)
	}
	if err := w.rd.Err(); err != nil {
		return &Error{Op: w.op, Offset: it.pos.Item, Err: fmt.Errorf("%w: %w", ErrMalformed, err)}
	}
	return nil
}
