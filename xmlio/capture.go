// Package xmlio connects buffers to XML text. Capture tokenizes a document
// or fragment into a Buffer; Writer is a buffer.Sink that serializes
// replayed events back to text.
package xmlio

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/xsb/buffer"
)

// Option configures Capture.
type Option func(*options)

type options struct {
	fragment bool
	keepWS   bool
	capture  []buffer.CaptureOption
}

// Fragment captures the input as a fragment: any number of top level
// elements, comments and text without document framing.
func Fragment() Option {
	return func(o *options) { o.fragment = true }
}

// SystemID records the system identifier of the input.
func SystemID(id string) Option {
	return func(o *options) { o.capture = append(o.capture, buffer.WithSystemID(id)) }
}

// KeepWhitespace keeps whitespace only text inside elements. By default
// it is dropped.
func KeepWhitespace() Option {
	return func(o *options) { o.keepWS = true }
}

// Limit bounds the size of the captured buffer, see buffer.WithLimit.
func Limit(n int) Option {
	return func(o *options) { o.capture = append(o.capture, buffer.WithLimit(n)) }
}

// Capture reads XML text from r into a new Buffer.
//
// Prefixes are resolved against the declarations in the input; using an
// undeclared prefix is a syntax error. XML declarations and DTDs are not
// captured.
func Capture(r io.Reader, opts ...Option) (*buffer.Buffer, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	cp := &capturer{
		d:    xml.NewDecoder(r),
		c:    buffer.NewCapturer(o.capture...),
		opts: o,
	}
	if err := cp.run(); err != nil {
		return nil, err
	}
	return cp.c.Buffer()
}

// CaptureString is Capture over a string.
func CaptureString(s string, opts ...Option) (*buffer.Buffer, error) {
	return Capture(strings.NewReader(s), opts...)
}

type capturer struct {
	d    *xml.Decoder
	c    *buffer.Capturer
	opts *options

	// open element qnames, for end tag matching
	open  []string
	scope scope
}

func (cp *capturer) syntax(format string, args ...any) error {
	line, _ := cp.d.InputPos()
	return &xml.SyntaxError{Msg: fmt.Sprintf(format, args...), Line: line}
}

func (cp *capturer) wrap(err error) error {
	line, _ := cp.d.InputPos()
	return fmt.Errorf("line %d: %w", line, err)
}

func (cp *capturer) run() error {
	if !cp.opts.fragment {
		if err := cp.c.StartDocument(); err != nil {
			return err
		}
	}
	for {
		tok, err := cp.d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := cp.token(tok); err != nil {
			return err
		}
	}
	if len(cp.open) != 0 {
		return cp.syntax("unexpected EOF: <%s> not closed", cp.open[len(cp.open)-1])
	}
	if cp.opts.fragment {
		return nil
	}
	if cp.c.TreeCount() == 0 {
		return cp.syntax("no root element")
	}
	return cp.c.EndDocument()
}

func (cp *capturer) token(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		return cp.start(t)
	case xml.EndElement:
		qname := qualified(t.Name)
		if len(cp.open) == 0 {
			return cp.syntax("unexpected end element </%s>", qname)
		}
		if top := cp.open[len(cp.open)-1]; top != qname {
			return cp.syntax("element <%s> closed by </%s>", top, qname)
		}
		cp.open = cp.open[:len(cp.open)-1]
		cp.scope.pop()
		if err := cp.c.EndElement(); err != nil {
			return cp.wrap(err)
		}
	case xml.CharData:
		blank := len(bytes.TrimSpace(t)) == 0
		if len(cp.open) == 0 {
			if blank {
				return nil
			}
			if !cp.opts.fragment {
				return cp.syntax("text outside the root element")
			}
		}
		if blank && !cp.opts.keepWS {
			return nil
		}
		if err := cp.c.Text(t); err != nil {
			return cp.wrap(err)
		}
	case xml.Comment:
		if err := cp.c.Comment(t); err != nil {
			return cp.wrap(err)
		}
	case xml.ProcInst:
		if t.Target == "xml" {
			return nil
		}
		if err := cp.c.ProcInst(t.Target, strings.TrimLeft(string(t.Inst), " \t\r\n")); err != nil {
			return cp.wrap(err)
		}
	case xml.Directive:
		// DTDs are not captured
	}
	return nil
}

func (cp *capturer) start(t xml.StartElement) error {
	cp.scope.push()
	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			cp.scope.declare("", a.Value)
		case a.Name.Space == "xmlns":
			if a.Value == "" {
				return cp.syntax("prefix %s bound to the empty namespace", a.Name.Local)
			}
			cp.scope.declare(a.Name.Local, a.Value)
		}
	}
	uri, ok := cp.scope.lookup(t.Name.Space)
	if !ok && t.Name.Space != "" {
		return cp.syntax("undeclared prefix %s in <%s>", t.Name.Space, qualified(t.Name))
	}
	cp.open = append(cp.open, qualified(t.Name))
	err := cp.c.StartElement(buffer.Name{Prefix: t.Name.Space, URI: uri, Local: t.Name.Local})
	if err != nil {
		return cp.wrap(err)
	}
	for _, d := range cp.scope.top() {
		if err := cp.c.Namespace(d.Prefix, d.URI); err != nil {
			return cp.wrap(err)
		}
	}
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		var name buffer.Name
		name.Prefix, name.Local = a.Name.Space, a.Name.Local
		if name.Prefix != "" {
			// unprefixed attributes are in no namespace
			name.URI, ok = cp.scope.lookup(name.Prefix)
			if !ok {
				return cp.syntax("undeclared prefix %s in attribute %s", name.Prefix, qualified(a.Name))
			}
		}
		if err := cp.c.Attribute(name, "CDATA", a.Value); err != nil {
			return cp.wrap(err)
		}
	}
	return nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// scope tracks the declarations of the open elements of the input.
type scope struct {
	decls []buffer.NamespaceDecl
	marks []int
}

func (s *scope) push() {
	s.marks = append(s.marks, len(s.decls))
}

func (s *scope) pop() {
	n := len(s.marks) - 1
	s.decls = s.decls[:s.marks[n]]
	s.marks = s.marks[:n]
}

func (s *scope) declare(prefix, uri string) {
	s.decls = append(s.decls, buffer.NamespaceDecl{Prefix: prefix, URI: uri})
}

func (s *scope) top() []buffer.NamespaceDecl {
	return s.decls[s.marks[len(s.marks)-1]:]
}

func (s *scope) lookup(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return buffer.XMLNamespace, true
	case "xmlns":
		return buffer.XMLNSNamespace, true
	}
	for i := len(s.decls) - 1; i >= 0; i-- {
		if s.decls[i].Prefix == prefix {
			return s.decls[i].URI, s.decls[i].URI != ""
		}
	}
	return "", false
}
