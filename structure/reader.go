package structure

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrTruncated is reported when an operand runs past the end of a store.
var ErrTruncated = errors.New("truncated structure")

// Position is a decode position: an offset into the structure stream plus
// the sequential cursors into the char and object stores.
type Position struct {
	Item   int
	Chars  int
	Object int
}

// Reader is a forward only cursor over a Store. It does not take
// ownership of the store and never modifies it.
//
// Operand reads past the end of a store return zero values and record a
// sticky error reported by Err.
type Reader struct {
	st  *Store
	pos Position
	err error
}

// NewReader returns a Reader over st starting at pos.
func NewReader(st *Store, pos Position) *Reader {
	return &Reader{st: st, pos: pos}
}

// Pos returns the current position.
func (r *Reader) Pos() Position {
	return r.pos
}

// Err returns the first operand error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s at item offset %d", ErrTruncated, what, r.pos.Item)
	}
}

// PeekItem returns the next item tag without consuming it, or TagNone at
// the end of the stream.
func (r *Reader) PeekItem() Tag {
	if r.err != nil || r.pos.Item >= len(r.st.items) {
		return TagNone
	}
	return Tag(r.st.items[r.pos.Item])
}

// ReadItem consumes and returns the next item tag, or TagNone at the end
// of the stream.
func (r *Reader) ReadItem() Tag {
	t := r.PeekItem()
	if t != TagNone {
		r.pos.Item++
	}
	return t
}

func (r *Reader) ReadUint8() uint8 {
	if r.err != nil {
		return 0
	}
	if r.pos.Item >= len(r.st.items) {
		r.fail("uint8 operand")
		return 0
	}
	v := r.st.items[r.pos.Item]
	r.pos.Item++
	return v
}

func (r *Reader) ReadUint16() uint16 {
	if r.err != nil {
		return 0
	}
	if r.pos.Item+2 > len(r.st.items) {
		r.fail("uint16 operand")
		return 0
	}
	v := binary.BigEndian.Uint16(r.st.items[r.pos.Item:])
	r.pos.Item += 2
	return v
}

func (r *Reader) ReadUvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.st.items[r.pos.Item:])
	if n <= 0 {
		r.fail("uvarint operand")
		return 0
	}
	r.pos.Item += n
	return v
}

// ReadStringRef reads a string pool index and returns the pooled string.
func (r *Reader) ReadStringRef() string {
	idx := r.ReadUvarint()
	if r.err != nil {
		return ""
	}
	if idx >= uint64(len(r.st.strings)) {
		r.fail(fmt.Sprintf("string ref %d", idx))
		return ""
	}
	return r.st.strings[idx]
}

// ReadCharsRef consumes the next n bytes of the char store. The returned
// slice aliases the store and must not be modified.
func (r *Reader) ReadCharsRef(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.st.chars)-r.pos.Chars {
		r.fail(fmt.Sprintf("char run of %d", n))
		return nil
	}
	end := r.pos.Chars + n
	b := r.st.chars[r.pos.Chars:end:end]
	r.pos.Chars = end
	return b
}

// ReadObjectRef consumes the next object of the object store.
func (r *Reader) ReadObjectRef() any {
	if r.err != nil {
		return nil
	}
	if r.pos.Object >= len(r.st.objects) {
		r.fail("object ref")
		return nil
	}
	v := r.st.objects[r.pos.Object]
	r.pos.Object++
	return v
}

// ReadName reads the operands of a qualified name in the given form.
// For NameURIQName the prefix is extracted from the packed qualified name.
func (r *Reader) ReadName(form NameForm) (prefix, uri, local string) {
	switch form {
	case NameLocal:
		local = r.ReadStringRef()
	case NameURILocal:
		uri = r.ReadStringRef()
		local = r.ReadStringRef()
	case NamePrefixURILocal:
		prefix = r.ReadStringRef()
		uri = r.ReadStringRef()
		local = r.ReadStringRef()
	case NameURIQName:
		uri = r.ReadStringRef()
		local = r.ReadStringRef()
		prefix = PrefixOf(r.ReadStringRef())
	default:
		r.fail(fmt.Sprintf("name form %d", form))
	}
	return prefix, uri, local
}

// ReadNamespace reads the operands of a namespace declaration.
func (r *Reader) ReadNamespace(form NSForm) (prefix, uri string) {
	switch form {
	case NSNone:
	case NSPrefix:
		prefix = r.ReadStringRef()
	case NSURI:
		uri = r.ReadStringRef()
	case NSPrefixURI:
		prefix = r.ReadStringRef()
		uri = r.ReadStringRef()
	default:
		r.fail(fmt.Sprintf("namespace form %d", form))
	}
	return prefix, uri
}

// ReadChars reads a char run written by Store.WriteChars.
func (r *Reader) ReadChars(form TextForm) []byte {
	var n int
	switch form {
	case TextSmall:
		n = int(r.ReadUint8())
	case TextMedium:
		n = int(r.ReadUint16())
	case TextCopy:
		v := r.ReadUvarint()
		if v > math.MaxInt {
			r.fail(fmt.Sprintf("char run of %d", v))
			return nil
		}
		n = int(v)
	default:
		r.fail(fmt.Sprintf("chars form %d", form))
		return nil
	}
	return r.ReadCharsRef(n)
}

// PrefixOf returns the prefix of a "prefix:local" qualified name, or ""
// when there is none.
func PrefixOf(qname string) string {
	i := strings.IndexByte(qname, ':')
	if i < 0 {
		return ""
	}
	return qname[:i]
}
