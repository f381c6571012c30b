package buffer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"maps"
	"slices"

	"github.com/signadot/xsb/structure"
)

var wireMagic = []byte("XSB\x01")

const (
	flagFragment = 1 << iota
	flagFork
)

// IsBinary reports whether data starts like the output of MarshalBinary.
func IsBinary(data []byte) bool {
	return bytes.HasPrefix(data, wireMagic)
}

// MarshalBinary encodes the buffer for storage or transfer.
//
// The encoding is the magic "XSB\x01", a flags byte, the tree count, the
// system id, the base scope bindings sorted by prefix, the start position
// and finally the storage. Counts, lengths and positions are uvarints.
// Typed text payloads must be []byte or string.
//
// A fork encodes all of the storage it shares.
func (b *Buffer) MarshalBinary() ([]byte, error) {
	dst := append([]byte(nil), wireMagic...)
	var flags byte
	if b.fragment {
		flags |= flagFragment
	}
	if b.forked {
		flags |= flagFork
	}
	dst = append(dst, flags)
	dst = binary.AppendUvarint(dst, uint64(b.trees))
	dst = appendString(dst, b.systemID)
	dst = binary.AppendUvarint(dst, uint64(len(b.inscope)))
	for _, prefix := range slices.Sorted(maps.Keys(b.inscope)) {
		dst = appendString(dst, prefix)
		dst = appendString(dst, b.inscope[prefix])
	}
	dst = binary.AppendUvarint(dst, uint64(b.start.Item))
	dst = binary.AppendUvarint(dst, uint64(b.start.Chars))
	dst = binary.AppendUvarint(dst, uint64(b.start.Object))
	dst, err := b.store.AppendBinary(dst)
	if err != nil {
		return nil, opError("MarshalBinary", err)
	}
	return dst, nil
}

func appendString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

// UnmarshalBinary decodes a buffer encoded by MarshalBinary. The result
// does not alias data.
func UnmarshalBinary(data []byte) (*Buffer, error) {
	if !IsBinary(data) {
		return nil, malformed("UnmarshalBinary", 0, "bad magic")
	}
	hr := &headerReader{buf: data, off: len(wireMagic)}
	flags := hr.readByte()
	b := &Buffer{fragment: flags&flagFragment != 0, forked: flags&flagFork != 0}
	if flags&^(flagFragment|flagFork) != 0 || b.forked && !b.fragment {
		return nil, malformed("UnmarshalBinary", len(wireMagic), "flags %#x", flags)
	}
	b.trees = hr.readInt()
	b.systemID = hr.readString()
	if n := hr.readInt(); n > 0 {
		b.inscope = make(map[string]string, n)
		for range n {
			prefix := hr.readString()
			b.inscope[prefix] = hr.readString()
		}
	}
	b.start.Item = hr.readInt()
	b.start.Chars = hr.readInt()
	b.start.Object = hr.readInt()
	if hr.err != nil {
		return nil, malformed("UnmarshalBinary", hr.off, "header: %v", hr.err)
	}
	st, n, err := structure.DecodeStore(data[hr.off:])
	if err != nil {
		return nil, &Error{Op: "UnmarshalBinary", Offset: hr.off + n, Err: fmt.Errorf("%w: %w", ErrMalformed, err)}
	}
	if hr.off+n != len(data) {
		return nil, malformed("UnmarshalBinary", hr.off+n, "%d trailing bytes", len(data)-hr.off-n)
	}
	if !st.Contains(b.start) {
		return nil, malformed("UnmarshalBinary", hr.off, "start %+v outside storage", b.start)
	}
	b.store = st
	return b, nil
}

// headerReader decodes the buffer header with a sticky error.
type headerReader struct {
	buf []byte
	off int
	err error
}

func (hr *headerReader) readByte() byte {
	if hr.err != nil {
		return 0
	}
	if hr.off >= len(hr.buf) {
		hr.err = structure.ErrTruncated
		return 0
	}
	v := hr.buf[hr.off]
	hr.off++
	return v
}

func (hr *headerReader) readInt() int {
	if hr.err != nil {
		return 0
	}
	v, n := binary.Uvarint(hr.buf[hr.off:])
	if n <= 0 || v > uint64(len(hr.buf)) {
		hr.err = structure.ErrTruncated
		return 0
	}
	hr.off += n
	return int(v)
}

func (hr *headerReader) readString() string {
	n := hr.readInt()
	if hr.err != nil {
		return ""
	}
	if n > len(hr.buf)-hr.off {
		hr.err = structure.ErrTruncated
		return ""
	}
	s := string(hr.buf[hr.off : hr.off+n])
	hr.off += n
	return s
}
