package xmlio

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xsb/buffer"
)

func roundTrip(t *testing.T, in string, opts ...Option) string {
	t.Helper()
	b, err := CaptureString(in, opts...)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	var sb strings.Builder
	if err := Write(&sb, b); err != nil {
		t.Fatalf("write: %v", err)
	}
	return sb.String()
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
		opts []Option
	}{
		{
			name: "namespaces",
			in:   `<a:root xmlns:a="urn:x" xmlns="urn:d" k="v" a:id="1"><a:child/><plain>t</plain></a:root>`,
		},
		{
			name: "comments and instructions",
			in:   `<?xml version="1.0"?><!--lead--><?style href="a.css"?><r><!--in-->x<?pi?></r>`,
			want: `<!--lead--><?style href="a.css"?><r><!--in-->x<?pi?></r>`,
		},
		{
			name: "escaping",
			in:   `<r a="x &amp; &quot;y&quot;">1 &lt; 2 &amp;&amp; 3 &gt; 2</r>`,
			want: `<r a="x &amp; &#34;y&#34;">1 &lt; 2 &amp;&amp; 3 &gt; 2</r>`,
		},
		{
			name: "whitespace dropped",
			in:   "<r>\n  <a> x </a>\n</r>\n",
			want: `<r><a> x </a></r>`,
		},
		{
			name: "whitespace kept",
			in:   "<r>\n  <a/>\n</r>",
			want: "<r>\n  <a/>\n</r>",
			opts: []Option{KeepWhitespace()},
		},
		{
			name: "fragment",
			in:   `<a/> text <b x="1"/>`,
			opts: []Option{Fragment()},
		},
		{
			name: "fragment top level items",
			in:   `lead<a/>tail<!--c--><?pi d?>`,
			opts: []Option{Fragment()},
		},
		{
			name: "undeclare default",
			in:   `<r xmlns="urn:d"><e xmlns=""/></r>`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			want := tc.want
			if want == "" {
				want = tc.in
			}
			if got := roundTrip(t, tc.in, tc.opts...); got != want {
				t.Errorf("got  %s\nwant %s", got, want)
			}
		})
	}
}

func TestCaptureNames(t *testing.T) {
	b, err := CaptureString(`<p:r xmlns:p="urn:p" xmlns="urn:d"><c p:a="1" b="2" xml:lang="en"/></p:r>`)
	if err != nil {
		t.Fatal(err)
	}
	r := buffer.NewReader(b)
	r.Next()
	r.Next()
	name, _ := r.Name()
	if diff := cmp.Diff(buffer.Name{URI: "urn:d", Local: "c"}, name); diff != "" {
		t.Errorf("element (-want +got):\n%s", diff)
	}
	attrs, _ := r.Attrs()
	want := []buffer.Attr{
		{Name: buffer.Name{Prefix: "p", URI: "urn:p", Local: "a"}, Type: "CDATA", Value: "1"},
		{Name: buffer.Name{Local: "b"}, Type: "CDATA", Value: "2"},
		{Name: buffer.Name{Prefix: "xml", URI: buffer.XMLNamespace, Local: "lang"}, Type: "CDATA", Value: "en"},
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Errorf("attrs (-want +got):\n%s", diff)
	}
}

func TestCaptureOptions(t *testing.T) {
	b, err := CaptureString(`<a/><b/>`, Fragment(), SystemID("mem:ab"))
	if err != nil {
		t.Fatal(err)
	}
	if !b.IsFragment() || b.TreeCount() != 2 || b.SystemID() != "mem:ab" {
		t.Errorf("fragment %v trees %d system id %q", b.IsFragment(), b.TreeCount(), b.SystemID())
	}
	_, err = CaptureString(`<r>`+strings.Repeat("<e>text</e>", 100)+`</r>`, Limit(128))
	if !errors.Is(err, buffer.ErrCapacity) {
		t.Errorf("limit: got %v, want ErrCapacity", err)
	}
}

func TestCaptureErrors(t *testing.T) {
	for name, in := range map[string]string{
		"undeclared prefix":   `<p:r/>`,
		"undeclared attr":     `<r p:a="1"/>`,
		"mismatched end":      `<a></b>`,
		"unclosed":            `<a><b></b>`,
		"no root":             `<!--only-->`,
		"text outside root":   `<a/>junk`,
		"empty prefix unbind": `<r xmlns:p=""/>`,
	} {
		_, err := CaptureString(in)
		var se *xml.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%s: got %v, want syntax error", name, err)
		}
	}
	if _, err := CaptureString(`<a/><b/>`); !errors.Is(err, buffer.ErrMultipleRoots) {
		t.Errorf("two roots: got %v, want ErrMultipleRoots", err)
	}
}

func TestWriterForkKeepsScope(t *testing.T) {
	b, err := CaptureString(`<p:r xmlns:p="urn:p"><p:c><p:d/></p:c></p:r>`)
	if err != nil {
		t.Fatal(err)
	}
	r := buffer.NewReader(b)
	r.Next()
	r.Next()
	f, err := r.Fork()
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := Write(&sb, f); err != nil {
		t.Fatal(err)
	}
	if got, want := sb.String(), `<p:c xmlns:p="urn:p"><p:d/></p:c>`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWriterDeclaration(t *testing.T) {
	b, err := CaptureString(`<r/>`)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := Write(&sb, b, WithDeclaration()); err != nil {
		t.Fatal(err)
	}
	if got, want := sb.String(), xml.Header+`<r/>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterCommentDashes(t *testing.T) {
	c := buffer.NewCapturer()
	c.StartElement(buffer.Name{Local: "r"})
	c.Comment([]byte("a--b"))
	c.EndElement()
	b, err := c.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(&strings.Builder{}, b); !errors.Is(err, errCommentDashes) {
		t.Errorf("got %v", err)
	}
}

func TestWriterUnbalancedEnd(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	if err := w.EndElement(); !errors.Is(err, errNoOpenElement) {
		t.Fatalf("got %v, want errNoOpenElement", err)
	}
	if err := w.StartElement(buffer.Name{Local: "r"}); err != nil {
		t.Fatal(err)
	}
	if err := w.EndElement(); err != nil {
		t.Fatal(err)
	}
	if err := w.EndElement(); !errors.Is(err, errNoOpenElement) {
		t.Errorf("second end: got %v, want errNoOpenElement", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "<r/>" {
		t.Errorf("got %q", sb.String())
	}
}
