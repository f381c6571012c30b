// Package buffer captures XML document events into a compact binary
// buffer and replays them.
//
// A Capturer is driven by a push style event source and produces a
// Buffer. A finished Buffer is immutable; it is decoded either with a
// Reader, a forward only pull cursor, or with a Replayer, which re-emits
// the events to a Sink. Both decoders are single pass and own all of
// their cursor state, so any number of them may run over one Buffer
// concurrently.
//
// A buffer holds either one document or a fragment: a forest of zero or
// more top level trees without document framing. Reader.Fork builds a
// fragment Buffer that starts at the reader's current element, shares the
// original storage and carries the namespace bindings of the element's
// ancestors. A captured fragment keeps the top level text, comments and
// processing instructions around its trees; a fork holds only its tree.
//
// # Example: Capture
//
//	c := buffer.NewCapturer()
//	c.StartElement(buffer.Name{Prefix: "a", URI: "urn:x", Local: "root"})
//	c.Namespace("a", "urn:x")
//	c.Text([]byte("hi"))
//	c.EndElement()
//	buf, err := c.Buffer()
//
// # Example: Pull
//
//	r := buffer.NewReader(buf)
//	for {
//	    kind, err := r.Next()
//	    if err != nil {
//	        return err
//	    }
//	    if kind == buffer.EndDocument {
//	        break
//	    }
//	}
package buffer

import (
	"maps"

	"github.com/signadot/xsb/structure"
)

// Buffer is a finished capture, or a fork of one.
type Buffer struct {
	store    *structure.Store
	start    structure.Position
	fragment bool
	// forks end with their tree; captured fragments run to the end of
	// the storage, including top level items after the last tree
	forked   bool
	trees    int
	systemID string

	// bindings in scope at start, for forks
	inscope map[string]string
}

// IsFragment reports whether the buffer lacks document framing.
func (b *Buffer) IsFragment() bool {
	return b.fragment
}

// TreeCount returns the number of top level trees in the buffer.
func (b *Buffer) TreeCount() int {
	return b.trees
}

// SystemID returns the system identifier of the captured source, if any.
func (b *Buffer) SystemID() string {
	return b.systemID
}

// InScopeNamespaces returns a copy of the namespace bindings in scope at
// the start of the buffer. It is empty unless the buffer is a fork.
func (b *Buffer) InScopeNamespaces() map[string]string {
	return maps.Clone(b.inscope)
}

// Size reports an estimate of the bytes held by the buffer's storage. A
// fork reports the size of the storage it shares.
func (b *Buffer) Size() int {
	return b.store.Size()
}

func (b *Buffer) reader() *structure.Reader {
	return structure.NewReader(b.store, b.start)
}
