package buffer

import (
	"github.com/signadot/xsb/debug"
)

// Fork returns a fragment Buffer holding the subtree of the current
// element. The fork shares the reader's storage and records the namespace
// bindings the element's ancestors put in scope, so decoders over it
// resolve prefixes declared above the element.
//
// The reader is not moved. Fork requires the reader to be on
// StartElement.
func (r *Reader) Fork() (*Buffer, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.kind != StartElement {
		return nil, usage("Fork", r.kind)
	}
	e := &r.stack[r.cur]
	inscope := r.ns.snapshot(e.nsStart)
	for prefix, uri := range inscope {
		if uri == "" {
			delete(inscope, prefix)
		}
	}
	if debug.Fork() {
		debug.Logf("fork %s at %d in scope %v\n", e.name, e.pos.Item, inscope)
	}
	return &Buffer{
		store:    r.buf.store,
		start:    e.pos,
		fragment: true,
		forked:   true,
		trees:    1,
		systemID: r.buf.systemID,
		inscope:  inscope,
	}, nil
}
