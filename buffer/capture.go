package buffer

import (
	"fmt"

	"github.com/signadot/xsb/debug"
	"github.com/signadot/xsb/structure"
)

// CaptureOption configures a Capturer.
type CaptureOption func(*captureOpts)

type captureOpts struct {
	systemID string
	limit    int
}

// WithSystemID records the system identifier of the captured source.
func WithSystemID(id string) CaptureOption {
	return func(opts *captureOpts) {
		opts.systemID = id
	}
}

// WithLimit bounds the bytes a capture may hold. Exceeding it fails the
// offending call with ErrCapacity and closes the Capturer. Zero means no
// limit.
func WithLimit(n int) CaptureOption {
	return func(opts *captureOpts) {
		opts.limit = n
	}
}

// Capturer is the write cursor of a Buffer. It translates event calls into
// structure items.
//
// A capture is a document if StartDocument is its first call and a
// fragment otherwise. Namespace declarations and attributes written after
// an element start belong to that element; all declarations must be
// written before the first attribute.
//
// Capturer implements TypedTextSink, so replaying a Buffer into a
// Capturer copies it.
type Capturer struct {
	st       *structure.Store
	opts     captureOpts
	depth    int
	trees    int
	document bool
	docEnded bool
	closed   bool
}

var _ TypedTextSink = (*Capturer)(nil)

// NewCapturer returns a Capturer writing into fresh storage.
func NewCapturer(opts ...CaptureOption) *Capturer {
	c := &Capturer{st: structure.NewStore()}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Depth returns the number of open elements.
func (c *Capturer) Depth() int {
	return c.depth
}

// TreeCount returns the number of completed top level trees.
func (c *Capturer) TreeCount() int {
	return c.trees
}

func (c *Capturer) check(op string) error {
	if c.closed {
		return opError(op, ErrClosed)
	}
	return nil
}

func (c *Capturer) inElement(op string) error {
	if err := c.check(op); err != nil {
		return err
	}
	if c.depth == 0 {
		return opError(op, fmt.Errorf("%w: no open element", ErrUsage))
	}
	return nil
}

func (c *Capturer) wrote(op string) error {
	if c.opts.limit > 0 && c.st.Size() > c.opts.limit {
		c.closed = true
		return opError(op, fmt.Errorf("%w: %d bytes over limit %d", ErrCapacity, c.st.Size(), c.opts.limit))
	}
	return nil
}

// StartDocument marks the capture as a document. It must be the first
// call.
func (c *Capturer) StartDocument() error {
	if err := c.check("StartDocument"); err != nil {
		return err
	}
	if c.document || c.st.Len() != 0 {
		return opError("StartDocument", fmt.Errorf("%w: document must start the capture", ErrUsage))
	}
	c.document = true
	c.st.WriteItem(structure.MakeTag(structure.KindDocument, 0))
	return c.wrote("StartDocument")
}

// EndDocument closes the document. It is a no-op for fragments.
func (c *Capturer) EndDocument() error {
	if err := c.check("EndDocument"); err != nil {
		return err
	}
	if !c.document {
		return nil
	}
	if c.depth != 0 || c.docEnded {
		return opError("EndDocument", ErrUnbalanced)
	}
	c.docEnded = true
	c.st.WriteItem(structure.MakeTag(structure.KindEnd, 0))
	return c.wrote("EndDocument")
}

// StartElement opens an element.
func (c *Capturer) StartElement(name Name) error {
	return c.startElement("StartElement", name.Prefix, name.URI, name.Local, "")
}

// StartElementQName opens an element named by a namespace uri, a local
// name and a "prefix:local" qualified name, as push sources that report
// qualified names do.
func (c *Capturer) StartElementQName(uri, local, qname string) error {
	return c.startElement("StartElementQName", structure.PrefixOf(qname), uri, local, qname)
}

func (c *Capturer) startElement(op, prefix, uri, local, qname string) error {
	if err := c.check(op); err != nil {
		return err
	}
	if c.depth == 0 && c.document && (c.trees > 0 || c.docEnded) {
		return opError(op, ErrMultipleRoots)
	}
	form := structure.ChooseNameForm(prefix, uri, qname != "")
	if debug.Capture() {
		debug.Logf("capture element %s:%s {%s} form %s depth %d\n", prefix, local, uri, form, c.depth)
	}
	c.st.WriteItem(structure.MakeTag(structure.KindElement, uint8(form)))
	c.st.WriteName(form, prefix, uri, local, qname)
	c.depth++
	return c.wrote(op)
}

// EndElement closes the innermost open element.
func (c *Capturer) EndElement() error {
	if err := c.check("EndElement"); err != nil {
		return err
	}
	if c.depth == 0 {
		return opError("EndElement", ErrUnbalanced)
	}
	c.st.WriteItem(structure.MakeTag(structure.KindEnd, 0))
	c.depth--
	if c.depth == 0 {
		c.trees++
		if debug.Capture() {
			debug.Logf("capture tree %d complete\n", c.trees)
		}
	}
	return c.wrote("EndElement")
}

// Namespace declares prefix to be bound to uri on the element just
// started. An empty prefix is the default namespace; an empty uri
// undeclares.
func (c *Capturer) Namespace(prefix, uri string) error {
	if err := c.inElement("Namespace"); err != nil {
		return err
	}
	form := structure.ChooseNSForm(prefix, uri)
	c.st.WriteItem(structure.MakeTag(structure.KindNamespace, uint8(form)))
	c.st.WriteNamespace(form, prefix, uri)
	return c.wrote("Namespace")
}

// Attribute adds an attribute to the element just started.
func (c *Capturer) Attribute(name Name, typ, value string) error {
	if err := c.inElement("Attribute"); err != nil {
		return err
	}
	form := structure.ChooseNameForm(name.Prefix, name.URI, false)
	c.st.WriteItem(structure.MakeTag(structure.KindAttribute, uint8(form)))
	c.st.WriteName(form, name.Prefix, name.URI, name.Local, "")
	c.st.WriteStringRef(typ)
	c.st.WriteStringRef(value)
	return c.wrote("Attribute")
}

// Text writes character data as a char run. The data is copied.
func (c *Capturer) Text(data []byte) error {
	return c.chars("Text", structure.KindText, data)
}

// TextString writes character data as a pooled string.
func (c *Capturer) TextString(s string) error {
	return c.pooled("TextString", structure.KindText, s)
}

// TypedText writes an opaque typed payload, such as binary data, as text.
// Decoders that need characters coerce it to its string form.
func (c *Capturer) TypedText(v any) error {
	if err := c.check("TypedText"); err != nil {
		return err
	}
	c.st.WriteItem(structure.MakeTag(structure.KindText, uint8(structure.TextObject)))
	c.st.WriteObjectRef(v)
	return c.wrote("TypedText")
}

// Comment writes a comment as a char run. The data is copied.
func (c *Capturer) Comment(data []byte) error {
	return c.chars("Comment", structure.KindComment, data)
}

// CommentString writes a comment as a pooled string.
func (c *Capturer) CommentString(s string) error {
	return c.pooled("CommentString", structure.KindComment, s)
}

func (c *Capturer) chars(op string, kind structure.Kind, data []byte) error {
	if err := c.check(op); err != nil {
		return err
	}
	form := structure.ChooseCharsForm(len(data))
	c.st.WriteItem(structure.MakeTag(kind, uint8(form)))
	c.st.WriteChars(form, data)
	return c.wrote(op)
}

func (c *Capturer) pooled(op string, kind structure.Kind, s string) error {
	if err := c.check(op); err != nil {
		return err
	}
	c.st.WriteItem(structure.MakeTag(kind, uint8(structure.TextString)))
	c.st.WriteStringRef(s)
	return c.wrote(op)
}

// ProcInst writes a processing instruction.
func (c *Capturer) ProcInst(target, data string) error {
	if err := c.check("ProcInst"); err != nil {
		return err
	}
	c.st.WriteItem(structure.MakeTag(structure.KindProcInst, 0))
	c.st.WriteStringRef(target)
	c.st.WriteStringRef(data)
	return c.wrote("ProcInst")
}

// Buffer finishes the capture and returns the Buffer. All elements must be
// closed and a document must have been ended. The Capturer accepts no
// further calls.
func (c *Capturer) Buffer() (*Buffer, error) {
	if err := c.check("Buffer"); err != nil {
		return nil, err
	}
	if c.depth != 0 {
		return nil, opError("Buffer", fmt.Errorf("%w: %d elements open", ErrUnbalanced, c.depth))
	}
	if c.document && !c.docEnded {
		return nil, opError("Buffer", fmt.Errorf("%w: document not ended", ErrUnbalanced))
	}
	if c.document && c.trees == 0 {
		return nil, opError("Buffer", fmt.Errorf("%w: document has no root element", ErrUnbalanced))
	}
	c.closed = true
	c.st.Seal()
	if debug.Capture() {
		debug.LogAny(map[string]any{"document": c.document, "trees": c.trees, "size": c.st.Size()})
	}
	return &Buffer{
		store:    c.st,
		fragment: !c.document,
		trees:    c.trees,
		systemID: c.opts.systemID,
	}, nil
}
