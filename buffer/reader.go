package buffer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/xsb/debug"
	"github.com/signadot/xsb/structure"
)

type readerState int

const (
	stateParsing readerState = iota
	// forks only: the tree ended, EndDocument is next
	statePendingEndDocument
	stateCompleted
)

// elementEntry is the state of one open element. Entries are indexed by
// depth and reused by siblings.
type elementEntry struct {
	name Name
	pos  structure.Position
	// range of the element's declarations in the namespace arena
	nsStart, nsEnd int
}

// Reader is a forward only pull cursor over a Buffer. It starts positioned
// on StartDocument; Next advances it one event at a time until
// EndDocument.
//
// Accessors apply to particular event kinds and return an error wrapping
// ErrUsage otherwise. Slices returned by accessors are valid until the
// next call to Next; Event returns a copy.
type Reader struct {
	buf   *Buffer
	w     walker
	state readerState
	kind  EventKind
	depth int
	trees int
	err   error

	stack []elementEntry
	// index into stack of the element of the current Start/EndElement
	cur int
	ns  nsArena

	attrs   []Attr
	decls   []NamespaceDecl
	it      item
	scratch item
}

// NewReader returns a Reader over b.
func NewReader(b *Buffer) *Reader {
	r := &Reader{
		buf:   b,
		w:     newWalker(b, "read"),
		trees: b.trees,
		kind:  StartDocument,
	}
	r.ns.load(b.inscope)
	switch {
	case !b.fragment:
		if err := r.w.next(&r.scratch); err != nil {
			r.err = err
		} else if r.scratch.kind != structure.KindDocument {
			r.err = malformed("read", r.scratch.pos.Item, "document buffer starts with %s", r.scratch.kind)
		}
	case b.forked && r.trees == 0:
		r.state = statePendingEndDocument
	}
	return r
}

// Buffer returns the buffer being read.
func (r *Reader) Buffer() *Buffer {
	return r.buf
}

// Kind returns the kind of the current event.
func (r *Reader) Kind() EventKind {
	return r.kind
}

// Depth returns the number of open elements, counting the current element
// on StartElement but not on EndElement.
func (r *Reader) Depth() int {
	return r.depth
}

// TreeCount returns the number of top level trees not yet ended.
func (r *Reader) TreeCount() int {
	return r.trees
}

func (r *Reader) fail(err error) (EventKind, error) {
	r.err = err
	return r.kind, err
}

// Next advances to the next event and returns its kind. Errors wrapping
// ErrMalformed are permanent. Calling Next after EndDocument returns an
// error wrapping ErrCompleted.
func (r *Reader) Next() (EventKind, error) {
	if r.err != nil {
		return r.kind, r.err
	}
	switch r.state {
	case stateCompleted:
		return r.kind, opError("Next", ErrCompleted)
	case statePendingEndDocument:
		r.state = stateCompleted
		r.kind = EndDocument
		return r.kind, nil
	}
	it := &r.it
	if err := r.w.next(it); err != nil {
		return r.fail(err)
	}
	if debug.Read() {
		debug.Logf("read %s at %d depth %d\n", it.kind, it.pos.Item, r.depth)
	}
	switch it.kind {
	case structure.KindElement:
		if err := r.startElement(it); err != nil {
			return r.fail(err)
		}
	case structure.KindEnd:
		return r.endElement(it)
	case structure.KindText:
		r.kind = Text
	case structure.KindComment:
		r.kind = Comment
	case structure.KindProcInst:
		r.kind = ProcInst
	case structure.KindNone:
		if r.buf.fragment && !r.buf.forked && r.depth == 0 && r.trees == 0 {
			r.kind = EndDocument
			r.state = stateCompleted
			return r.kind, nil
		}
		return r.fail(malformed("read", it.pos.Item, "buffer ends at depth %d with %d trees left", r.depth, r.trees))
	default:
		return r.fail(malformed("read", it.pos.Item, "unexpected %s item at depth %d", it.kind, r.depth))
	}
	return r.kind, nil
}

func (r *Reader) startElement(it *item) error {
	if r.depth == len(r.stack) {
		r.stack = append(r.stack, elementEntry{})
	}
	e := &r.stack[r.depth]
	r.cur = r.depth
	r.depth++
	e.name = it.name
	e.pos = it.pos
	e.nsStart = r.ns.len()

	sc := &r.scratch
	for r.w.peek() == structure.KindNamespace {
		if err := r.w.next(sc); err != nil {
			return err
		}
		r.ns.push(sc.prefix, sc.uri)
	}
	e.nsEnd = r.ns.len()

	r.attrs = r.attrs[:0]
	for r.w.peek() == structure.KindAttribute {
		if err := r.w.next(sc); err != nil {
			return err
		}
		r.attrs = append(r.attrs, Attr{Name: sc.name, Type: sc.typ, Value: sc.value})
	}
	r.kind = StartElement
	return nil
}

func (r *Reader) endElement(it *item) (EventKind, error) {
	if r.depth == 0 {
		if r.buf.fragment {
			return r.fail(malformed("read", it.pos.Item, "end outside any element"))
		}
		r.kind = EndDocument
		r.state = stateCompleted
		return r.kind, nil
	}
	r.depth--
	r.cur = r.depth
	r.ns.truncate(r.stack[r.depth].nsStart)
	r.kind = EndElement
	if r.depth == 0 {
		if r.trees > 0 {
			r.trees--
		}
		if r.buf.forked && r.trees == 0 {
			r.state = statePendingEndDocument
		}
	}
	return r.kind, nil
}

// Name returns the name of the current element.
func (r *Reader) Name() (Name, error) {
	if r.kind != StartElement && r.kind != EndElement {
		return Name{}, usage("Name", r.kind)
	}
	return r.stack[r.cur].name, nil
}

// Attrs returns the attributes of the current element.
func (r *Reader) Attrs() ([]Attr, error) {
	if r.kind != StartElement {
		return nil, usage("Attrs", r.kind)
	}
	return r.attrs, nil
}

// AttrValue returns the value of the attribute named by uri and local on
// the current element.
func (r *Reader) AttrValue(uri, local string) (string, bool, error) {
	if r.kind != StartElement {
		return "", false, usage("AttrValue", r.kind)
	}
	for i := range r.attrs {
		a := &r.attrs[i]
		if a.Name.Local == local && a.Name.URI == uri {
			return a.Value, true, nil
		}
	}
	return "", false, nil
}

// NamespaceDecls returns the declarations made by the current element. On
// EndElement these are the bindings going out of scope.
func (r *Reader) NamespaceDecls() ([]NamespaceDecl, error) {
	if r.kind != StartElement && r.kind != EndElement {
		return nil, usage("NamespaceDecls", r.kind)
	}
	e := &r.stack[r.cur]
	r.decls = r.ns.decls(r.decls[:0], e.nsStart, e.nsEnd)
	return r.decls, nil
}

// LookupNamespace returns the uri bound to prefix at the current position.
// The empty prefix is the default namespace.
func (r *Reader) LookupNamespace(prefix string) (string, bool) {
	return r.ns.lookup(prefix)
}

// InScopeNamespaces returns the bindings in scope at the current position.
func (r *Reader) InScopeNamespaces() map[string]string {
	m := r.ns.snapshot(r.ns.len())
	for prefix, uri := range m {
		if uri == "" {
			delete(m, prefix)
		}
	}
	return m
}

// Text returns the content of the current text or comment. Typed payloads
// are converted with ObjectString.
func (r *Reader) Text() (string, error) {
	if r.kind != Text && r.kind != Comment {
		return "", usage("Text", r.kind)
	}
	return r.it.textString(), nil
}

// TextBytes is like Text but avoids a copy for char runs. The result
// aliases the buffer and must not be modified.
func (r *Reader) TextBytes() ([]byte, error) {
	if r.kind != Text && r.kind != Comment {
		return nil, usage("TextBytes", r.kind)
	}
	return r.it.textBytes(), nil
}

// TextObject returns the typed payload of the current text, if it was
// captured as one.
func (r *Reader) TextObject() (any, bool, error) {
	if r.kind != Text && r.kind != Comment {
		return nil, false, usage("TextObject", r.kind)
	}
	if !r.it.isObject() {
		return nil, false, nil
	}
	return r.it.obj, true, nil
}

// ProcInst returns the target and data of the current processing
// instruction.
func (r *Reader) ProcInst() (target, data string, err error) {
	if r.kind != ProcInst {
		return "", "", usage("ProcInst", r.kind)
	}
	return r.it.typ, r.it.value, nil
}

// Event returns a copy of the current event.
func (r *Reader) Event() Event {
	ev := Event{Kind: r.kind}
	switch r.kind {
	case StartElement:
		e := &r.stack[r.cur]
		ev.Name = e.name
		if e.nsEnd > e.nsStart {
			ev.Namespaces = r.ns.decls(nil, e.nsStart, e.nsEnd)
		}
		if len(r.attrs) > 0 {
			ev.Attrs = slices.Clone(r.attrs)
		}
	case EndElement:
		ev.Name = r.stack[r.cur].name
	case Text, Comment:
		ev.Text = r.it.textString()
		if r.it.isObject() {
			ev.Object = r.it.obj
		}
	case ProcInst:
		ev.Target, ev.Data = r.it.typ, r.it.value
	}
	return ev
}

// ElementText reads the text content of the current element, leaving the
// reader on its EndElement. Comments and processing instructions are
// skipped; a child element is an error.
func (r *Reader) ElementText() (string, error) {
	if r.kind != StartElement {
		return "", usage("ElementText", r.kind)
	}
	var sb strings.Builder
	for {
		kind, err := r.Next()
		if err != nil {
			return "", err
		}
		switch kind {
		case Text:
			sb.Write(r.it.textBytes())
		case Comment, ProcInst:
		case EndElement:
			return sb.String(), nil
		default:
			return "", &Error{Op: "ElementText", Offset: r.it.pos.Item, Err: fmt.Errorf("%w: %s in text only element", ErrUsage, kind)}
		}
	}
}

// SkipElement advances past the subtree of the current element, leaving
// the reader on its EndElement.
func (r *Reader) SkipElement() error {
	if r.kind != StartElement {
		return usage("SkipElement", r.kind)
	}
	target := r.depth - 1
	for {
		kind, err := r.Next()
		if err != nil {
			return err
		}
		if kind == EndElement && r.depth == target {
			return nil
		}
	}
}
