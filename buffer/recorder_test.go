package buffer

import (
	"fmt"
	"testing"
)

// recorder is a Sink collecting replayed events in the shape Reader.Event
// reports them.
type recorder struct {
	events []Event
	names  []Name
}

func (r *recorder) add(ev Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) last() *Event {
	return &r.events[len(r.events)-1]
}

func (r *recorder) StartDocument() error { return r.add(Event{Kind: StartDocument}) }
func (r *recorder) EndDocument() error   { return r.add(Event{Kind: EndDocument}) }

func (r *recorder) StartElement(name Name) error {
	r.names = append(r.names, name)
	return r.add(Event{Kind: StartElement, Name: name})
}

func (r *recorder) Namespace(prefix, uri string) error {
	ev := r.last()
	ev.Namespaces = append(ev.Namespaces, NamespaceDecl{Prefix: prefix, URI: uri})
	return nil
}

func (r *recorder) Attribute(name Name, typ, value string) error {
	ev := r.last()
	ev.Attrs = append(ev.Attrs, Attr{Name: name, Type: typ, Value: value})
	return nil
}

func (r *recorder) EndElement() error {
	name := r.names[len(r.names)-1]
	r.names = r.names[:len(r.names)-1]
	return r.add(Event{Kind: EndElement, Name: name})
}

func (r *recorder) Text(data []byte) error {
	return r.add(Event{Kind: Text, Text: string(data)})
}

func (r *recorder) Comment(data []byte) error {
	return r.add(Event{Kind: Comment, Text: string(data)})
}

func (r *recorder) ProcInst(target, data string) error {
	return r.add(Event{Kind: ProcInst, Target: target, Data: data})
}

type typedRecorder struct {
	recorder
}

func (r *typedRecorder) TypedText(v any) error {
	return r.add(Event{Kind: Text, Text: ObjectString(v), Object: v})
}

// pullEvents reads every event of b, starting with StartDocument.
func pullEvents(b *Buffer) ([]Event, error) {
	r := NewReader(b)
	evs := []Event{r.Event()}
	for r.Kind() != EndDocument {
		if _, err := r.Next(); err != nil {
			return evs, err
		}
		evs = append(evs, r.Event())
		if len(evs) > 1_000_000 {
			return evs, fmt.Errorf("runaway reader")
		}
	}
	return evs, nil
}

func pull(t *testing.T, b *Buffer) []Event {
	t.Helper()
	evs, err := pullEvents(b)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	return evs
}

func kinds(evs []Event) []EventKind {
	res := make([]EventKind, len(evs))
	for i := range evs {
		res[i] = evs[i].Kind
	}
	return res
}

// capture runs fn against a fresh Capturer and returns the finished
// buffer.
func capture(t *testing.T, fn func(c *Capturer) error, opts ...CaptureOption) *Buffer {
	t.Helper()
	c := NewCapturer(opts...)
	if err := fn(c); err != nil {
		t.Fatalf("capture: %v", err)
	}
	b, err := c.Buffer()
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}
	return b
}

// steps chains capture calls, stopping at the first error.
func steps(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func start(c *Capturer, prefix, uri, local string) func() error {
	return func() error { return c.StartElement(Name{Prefix: prefix, URI: uri, Local: local}) }
}

func end(c *Capturer) func() error {
	return c.EndElement
}

func ns(c *Capturer, prefix, uri string) func() error {
	return func() error { return c.Namespace(prefix, uri) }
}

func attr(c *Capturer, local, value string) func() error {
	return func() error { return c.Attribute(Name{Local: local}, "CDATA", value) }
}

func text(c *Capturer, s string) func() error {
	return func() error { return c.Text([]byte(s)) }
}
