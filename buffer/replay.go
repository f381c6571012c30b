package buffer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/signadot/xsb/debug"
	"github.com/signadot/xsb/structure"
)

// Replayer re-emits the events of a Buffer to a Sink. A Replayer makes a
// single pass; replaying again needs a new Replayer.
type Replayer struct {
	buf   *Buffer
	w     walker
	depth int
	trees int
	done  bool

	it, scratch item
	declared    []string
	// sorted prefixes of the buffer's base scope
	base []string
}

// NewReplayer returns a Replayer over b.
func NewReplayer(b *Buffer) *Replayer {
	p := &Replayer{
		buf:   b,
		w:     newWalker(b, "replay"),
		trees: b.trees,
	}
	for _, prefix := range slices.Sorted(maps.Keys(b.inscope)) {
		if prefix == "xml" || b.inscope[prefix] == "" {
			continue
		}
		p.base = append(p.base, prefix)
	}
	return p
}

// Replay replays b to s, framed as a document if b holds one and as a
// fragment otherwise.
func Replay(b *Buffer, s Sink) error {
	p := NewReplayer(b)
	if b.fragment {
		return p.ReplayFragment(s)
	}
	return p.ReplayDocument(s)
}

// ReplayFragment emits the top level trees of the buffer, along with the
// text, comments and processing instructions around them, without document
// framing. A fork ends with its tree.
//
// The root element of each tree also declares the base scope bindings of
// a forked buffer that it does not redeclare itself.
func (p *Replayer) ReplayFragment(s Sink) error {
	if err := p.begin("ReplayFragment"); err != nil {
		return err
	}
	return p.run(s)
}

// ReplayDocument emits the buffer wrapped in StartDocument and
// EndDocument. A buffer holding more than one tree is rejected with
// ErrMultipleRoots.
func (p *Replayer) ReplayDocument(s Sink) error {
	if err := p.begin("ReplayDocument"); err != nil {
		return err
	}
	if p.buf.trees > 1 {
		return opError("ReplayDocument", fmt.Errorf("%w: buffer holds %d trees", ErrMultipleRoots, p.buf.trees))
	}
	if err := s.StartDocument(); err != nil {
		return sinkError("StartDocument", -1, err)
	}
	if err := p.run(s); err != nil {
		return err
	}
	if err := s.EndDocument(); err != nil {
		return sinkError("EndDocument", -1, err)
	}
	return nil
}

func (p *Replayer) begin(op string) error {
	if p.done {
		return opError(op, ErrCompleted)
	}
	p.done = true
	if p.buf.fragment {
		return nil
	}
	if err := p.w.next(&p.it); err != nil {
		return err
	}
	if p.it.kind != structure.KindDocument {
		return malformed("replay", p.it.pos.Item, "document buffer starts with %s", p.it.kind)
	}
	return nil
}

func sinkError(op string, offset int, err error) error {
	return &Error{Op: op, Offset: offset, Err: err}
}

func (p *Replayer) run(s Sink) error {
	typed, _ := s.(TypedTextSink)
	it := &p.it
	for {
		if p.buf.forked && p.depth == 0 && p.trees == 0 {
			return nil
		}
		if err := p.w.next(it); err != nil {
			return err
		}
		if debug.Replay() {
			debug.Logf("replay %s at %d depth %d\n", it.kind, it.pos.Item, p.depth)
		}
		var (
			err error
			op  string
		)
		switch it.kind {
		case structure.KindElement:
			if err := p.element(s, it); err != nil {
				return err
			}
			continue
		case structure.KindEnd:
			if p.depth == 0 {
				if p.buf.fragment {
					return malformed("replay", it.pos.Item, "end outside any element")
				}
				return nil
			}
			op = "EndElement"
			err = s.EndElement()
			p.depth--
			if p.depth == 0 && p.trees > 0 {
				p.trees--
			}
		case structure.KindText:
			switch {
			case it.isObject() && typed != nil:
				op = "TypedText"
				err = typed.TypedText(it.obj)
			default:
				op = "Text"
				err = s.Text(it.textBytes())
			}
		case structure.KindComment:
			op = "Comment"
			err = s.Comment(it.textBytes())
		case structure.KindProcInst:
			op = "ProcInst"
			err = s.ProcInst(it.typ, it.value)
		case structure.KindNone:
			if p.buf.fragment && p.depth == 0 && p.trees == 0 {
				return nil
			}
			return malformed("replay", it.pos.Item, "buffer ends at depth %d with %d trees left", p.depth, p.trees)
		default:
			return malformed("replay", it.pos.Item, "unexpected %s item at depth %d", it.kind, p.depth)
		}
		if err != nil {
			return sinkError(op, it.pos.Item, err)
		}
	}
}

// element emits an element start followed by its declarations and then
// its attributes.
func (p *Replayer) element(s Sink, it *item) error {
	root := p.depth == 0
	p.depth++
	if err := s.StartElement(it.name); err != nil {
		return sinkError("StartElement", it.pos.Item, err)
	}
	sc := &p.scratch
	p.declared = p.declared[:0]
	for p.w.peek() == structure.KindNamespace {
		if err := p.w.next(sc); err != nil {
			return err
		}
		p.declared = append(p.declared, sc.prefix)
		if err := s.Namespace(sc.prefix, sc.uri); err != nil {
			return sinkError("Namespace", sc.pos.Item, err)
		}
	}
	if root {
		for _, prefix := range p.base {
			if slices.Contains(p.declared, prefix) {
				continue
			}
			if err := s.Namespace(prefix, p.buf.inscope[prefix]); err != nil {
				return sinkError("Namespace", it.pos.Item, err)
			}
		}
	}
	for p.w.peek() == structure.KindAttribute {
		if err := p.w.next(sc); err != nil {
			return err
		}
		if err := s.Attribute(sc.name, sc.typ, sc.value); err != nil {
			return sinkError("Attribute", sc.pos.Item, err)
		}
	}
	return nil
}
