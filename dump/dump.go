// Package dump renders the events of a buffer for people: one line per
// event, indented by depth and optionally colored, or a YAML listing.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/xsb/buffer"
)

// Option configures a Printer.
type Option func(*Printer)

// WithColors colors printed lines.
func WithColors(c *Colors) Option {
	return func(p *Printer) { p.colors = c }
}

// WithIndent sets the indentation per level of depth. The default is two
// spaces.
func WithIndent(s string) Option {
	return func(p *Printer) { p.indent = s }
}

// Printer formats events as lines.
type Printer struct {
	colors *Colors
	indent string
}

// NewPrinter returns a Printer.
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{indent: "  "}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Line formats ev without indentation or color.
func Line(ev *buffer.Event) string {
	return NewPrinter().Line(ev)
}

// Line formats ev.
func (p *Printer) Line(ev *buffer.Event) string {
	c := p.colors
	var sb strings.Builder
	sb.WriteString(c.Color(KindColor, ev.Kind.String()))
	switch ev.Kind {
	case buffer.StartElement:
		sb.WriteByte(' ')
		sb.WriteString(c.Color(NameColor, ev.Name.QName()))
		if ev.Name.URI != "" {
			sb.WriteByte(' ')
			sb.WriteString(c.Color(URIColor, "{"+ev.Name.URI+"}"))
		}
		for _, d := range ev.Namespaces {
			name := "xmlns"
			if d.Prefix != "" {
				name += ":" + d.Prefix
			}
			sb.WriteByte(' ')
			sb.WriteString(c.Color(NamespaceColor, name))
			sb.WriteByte('=')
			sb.WriteString(c.Color(ValueColor, strconv.Quote(d.URI)))
		}
		for _, a := range ev.Attrs {
			sb.WriteByte(' ')
			sb.WriteString(c.Color(AttrColor, a.Name.QName()))
			sb.WriteByte('=')
			sb.WriteString(c.Color(ValueColor, strconv.Quote(a.Value)))
		}
	case buffer.EndElement:
		sb.WriteByte(' ')
		sb.WriteString(c.Color(NameColor, ev.Name.QName()))
	case buffer.Text:
		sb.WriteByte(' ')
		sb.WriteString(c.Color(TextColor, strconv.Quote(ev.Text)))
		if ev.Object != nil {
			sb.WriteByte(' ')
			sb.WriteString(c.Color(KindColor, fmt.Sprintf("(%T)", ev.Object)))
		}
	case buffer.Comment:
		sb.WriteByte(' ')
		sb.WriteString(c.Color(CommentColor, strconv.Quote(ev.Text)))
	case buffer.ProcInst:
		sb.WriteByte(' ')
		sb.WriteString(c.Color(ProcInstColor, ev.Target))
		if ev.Data != "" {
			sb.WriteByte(' ')
			sb.WriteString(c.Color(ValueColor, strconv.Quote(ev.Data)))
		}
	}
	return sb.String()
}

// level is the indentation level of the reader's current event.
func level(r *buffer.Reader) int {
	if r.Kind() == buffer.StartElement {
		return r.Depth() - 1
	}
	return r.Depth()
}

// Each calls fn with every event of b and its depth, starting with
// StartDocument.
func Each(b *buffer.Buffer, fn func(ev *buffer.Event, depth int) error) error {
	r := buffer.NewReader(b)
	for {
		ev := r.Event()
		if err := fn(&ev, level(r)); err != nil {
			return err
		}
		if ev.Kind == buffer.EndDocument {
			return nil
		}
		if _, err := r.Next(); err != nil {
			return err
		}
	}
}

// Lines formats every event of b as an indented line.
func (p *Printer) Lines(b *buffer.Buffer) ([]string, error) {
	var res []string
	err := Each(b, func(ev *buffer.Event, depth int) error {
		res = append(res, strings.Repeat(p.indent, depth)+p.Line(ev))
		return nil
	})
	return res, err
}

// Print writes the lines of b to w.
func (p *Printer) Print(w io.Writer, b *buffer.Buffer) error {
	bw := bufio.NewWriter(w)
	err := Each(b, func(ev *buffer.Event, depth int) error {
		bw.WriteString(strings.Repeat(p.indent, depth))
		bw.WriteString(p.Line(ev))
		return bw.WriteByte('\n')
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
