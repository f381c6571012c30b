package xmlio

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/signadot/xsb/buffer"
)

var (
	errCommentDashes = errors.New(`xmlio: comment contains "--"`)
	errNoOpenElement = errors.New("xmlio: end element without open element")
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithDeclaration makes StartDocument write an XML declaration.
func WithDeclaration() WriterOption {
	return func(w *Writer) { w.decl = true }
}

// Writer is a buffer.Sink writing XML text. Elements without content are
// written as empty element tags. Output is buffered until EndDocument or
// Flush.
type Writer struct {
	w    *bufio.Writer
	decl bool

	// a start tag is open and may still receive attributes
	pending bool
	open    []string
	err     error
}

var _ buffer.Sink = (*Writer)(nil)

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	xw := &Writer{w: bufio.NewWriter(w)}
	for _, opt := range opts {
		opt(xw)
	}
	return xw
}

// Write replays b to w as XML text.
func Write(w io.Writer, b *buffer.Buffer, opts ...WriterOption) error {
	xw := NewWriter(w, opts...)
	if err := buffer.Replay(b, xw); err != nil {
		return err
	}
	return xw.Flush()
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) str(s string) {
	if w.err == nil {
		_, w.err = w.w.WriteString(s)
	}
}

// escape writes s escaped for an attribute value.
func (w *Writer) escape(s string) {
	if w.err == nil {
		w.err = xml.EscapeText(w.w, []byte(s))
	}
}

func (w *Writer) closeStart() {
	if w.pending {
		w.str(">")
		w.pending = false
	}
}

func (w *Writer) StartDocument() error {
	if w.decl {
		w.str(xml.Header)
	}
	return w.err
}

func (w *Writer) EndDocument() error {
	return w.Flush()
}

func (w *Writer) StartElement(name buffer.Name) error {
	w.closeStart()
	qname := name.QName()
	w.str("<")
	w.str(qname)
	w.open = append(w.open, qname)
	w.pending = true
	return w.err
}

func (w *Writer) Namespace(prefix, uri string) error {
	if prefix == "" {
		w.str(` xmlns="`)
	} else {
		w.str(" xmlns:")
		w.str(prefix)
		w.str(`="`)
	}
	w.escape(uri)
	w.str(`"`)
	return w.err
}

func (w *Writer) Attribute(name buffer.Name, typ, value string) error {
	w.str(" ")
	w.str(name.QName())
	w.str(`="`)
	w.escape(value)
	w.str(`"`)
	return w.err
}

func (w *Writer) EndElement() error {
	n := len(w.open) - 1
	if n < 0 {
		return errNoOpenElement
	}
	if w.pending {
		w.str("/>")
		w.pending = false
	} else {
		w.str("</")
		w.str(w.open[n])
		w.str(">")
	}
	w.open = w.open[:n]
	return w.err
}

func (w *Writer) Text(data []byte) error {
	w.closeStart()
	if w.err == nil {
		_, w.err = textEscaper.WriteString(w.w, string(data))
	}
	return w.err
}

func (w *Writer) Comment(data []byte) error {
	if bytes.Contains(data, []byte("--")) {
		return errCommentDashes
	}
	w.closeStart()
	w.str("<!--")
	w.str(string(data))
	w.str("-->")
	return w.err
}

func (w *Writer) ProcInst(target, data string) error {
	w.closeStart()
	w.str("<?")
	w.str(target)
	if data != "" {
		w.str(" ")
		w.str(data)
	}
	w.str("?>")
	return w.err
}
