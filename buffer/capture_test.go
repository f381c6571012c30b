package buffer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCaptureUnbalanced(t *testing.T) {
	c := NewCapturer()
	if err := c.EndElement(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("end at depth 0: got %v", err)
	}
	c.StartElement(Name{Local: "open"})
	if _, err := c.Buffer(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("buffer with open element: got %v", err)
	}

	c = NewCapturer()
	c.StartDocument()
	c.StartElement(Name{Local: "root"})
	if err := c.EndDocument(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("end document with open element: got %v", err)
	}
	c.EndElement()
	if _, err := c.Buffer(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("buffer without end document: got %v", err)
	}
	if err := c.EndDocument(); err != nil {
		t.Fatal(err)
	}
	if err := c.EndDocument(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("second end document: got %v", err)
	}
}

func TestCaptureMultipleRoots(t *testing.T) {
	c := NewCapturer()
	c.StartDocument()
	c.StartElement(Name{Local: "a"})
	c.EndElement()
	if err := c.StartElement(Name{Local: "b"}); !errors.Is(err, ErrMultipleRoots) {
		t.Errorf("got %v, want ErrMultipleRoots", err)
	}
	if c.TreeCount() != 1 || c.Depth() != 0 {
		t.Errorf("rejected root changed state: %d trees, depth %d", c.TreeCount(), c.Depth())
	}
}

func TestStartDocumentFirst(t *testing.T) {
	c := NewCapturer()
	c.Comment([]byte("c"))
	if err := c.StartDocument(); !errors.Is(err, ErrUsage) {
		t.Errorf("got %v, want ErrUsage", err)
	}
}

func TestFragmentEndDocument(t *testing.T) {
	b := capture(t, func(c *Capturer) error {
		return steps(start(c, "", "", "a"), end(c), c.EndDocument)
	})
	if !b.IsFragment() || b.TreeCount() != 1 {
		t.Errorf("got fragment %v with %d trees", b.IsFragment(), b.TreeCount())
	}
}

func TestCaptureClosed(t *testing.T) {
	c := NewCapturer(WithSystemID("file:///x.xml"))
	b, err := c.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	if b.SystemID() != "file:///x.xml" {
		t.Errorf("system id %q", b.SystemID())
	}
	for name, fn := range map[string]func() error{
		"StartElement": func() error { return c.StartElement(Name{Local: "late"}) },
		"Text":         func() error { return c.Text([]byte("late")) },
		"ProcInst":     func() error { return c.ProcInst("t", "d") },
		"Buffer": func() error {
			_, err := c.Buffer()
			return err
		},
	} {
		if err := fn(); !errors.Is(err, ErrClosed) {
			t.Errorf("%s: got %v, want ErrClosed", name, err)
		}
	}
}

func TestCaptureLimit(t *testing.T) {
	c := NewCapturer(WithLimit(64))
	if err := c.StartElement(Name{Local: "root"}); err != nil {
		t.Fatal(err)
	}
	err := c.Text([]byte(strings.Repeat("x", 100)))
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("got %v, want ErrCapacity", err)
	}
	if err := c.EndElement(); !errors.Is(err, ErrClosed) {
		t.Errorf("after capacity: got %v, want ErrClosed", err)
	}
}

func TestTextCopied(t *testing.T) {
	data := []byte("mutable")
	b := capture(t, func(c *Capturer) error {
		return steps(start(c, "", "", "e"), func() error { return c.Text(data) }, end(c))
	})
	copy(data, "XXXXXXX")
	evs := pull(t, b)
	if evs[2].Text != "mutable" {
		t.Errorf("got %q", evs[2].Text)
	}
}

func TestCaptureEmptyDocument(t *testing.T) {
	c := NewCapturer()
	if err := steps(c.StartDocument, func() error { return c.Comment([]byte("c")) }, c.EndDocument); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Buffer(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("got %v, want ErrUnbalanced", err)
	}
}

func TestCaptureOutsideElement(t *testing.T) {
	c := NewCapturer()
	if err := c.Namespace("p", "urn:p"); !errors.Is(err, ErrUsage) {
		t.Errorf("namespace at depth 0: got %v, want ErrUsage", err)
	}
	if err := c.Attribute(Name{Local: "a"}, "CDATA", "v"); !errors.Is(err, ErrUsage) {
		t.Errorf("attribute at depth 0: got %v, want ErrUsage", err)
	}
	if err := steps(start(c, "", "", "e"), ns(c, "p", "urn:p"), attr(c, "a", "v"), end(c)); err != nil {
		t.Fatal(err)
	}
	if err := c.Attribute(Name{Local: "late"}, "CDATA", "v"); !errors.Is(err, ErrUsage) {
		t.Errorf("attribute after the tree: got %v, want ErrUsage", err)
	}
	b, err := c.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	want := []EventKind{StartDocument, StartElement, EndElement, EndDocument}
	if diff := cmp.Diff(want, kinds(pull(t, b))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
