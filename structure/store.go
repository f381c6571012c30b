// Package structure holds the storage of a captured event stream: an
// append-only structure stream of tagged items and the content stores the
// items refer to.
//
// The structure stream is a byte slice. Every item starts with a Tag and is
// followed by inline operands: small fixed width lengths and uvarint
// indices into the string pool. Char runs and objects are appended to their
// own stores in item order, so decoders consume them with sequential
// cursors, see Position.
//
// A Store is written by exactly one writer and is read-only afterwards; any
// number of Readers may then share it.
package structure

import (
	"encoding/binary"
	"strings"
)

// Store holds a structure stream and its content stores.
type Store struct {
	items   []byte
	strings []string
	chars   []byte
	objects []any

	pool        map[string]uint32
	stringBytes int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		pool: map[string]uint32{},
	}
}

// Size reports an estimate of the bytes held by the store.
func (s *Store) Size() int {
	return len(s.items) + len(s.chars) + s.stringBytes + 16*len(s.objects)
}

// Len reports the length of the structure stream.
func (s *Store) Len() int {
	return len(s.items)
}

// End returns the position just past everything written so far.
func (s *Store) End() Position {
	return Position{Item: len(s.items), Chars: len(s.chars), Object: len(s.objects)}
}

// Seal drops the write side string pool index. Writes after Seal still
// work but no longer deduplicate strings.
func (s *Store) Seal() {
	s.pool = nil
}

// WriteItem appends an item tag.
func (s *Store) WriteItem(t Tag) {
	s.items = append(s.items, byte(t))
}

// WriteUint8 appends a one byte inline operand.
func (s *Store) WriteUint8(v uint8) {
	s.items = append(s.items, v)
}

// WriteUint16 appends a two byte big endian inline operand.
func (s *Store) WriteUint16(v uint16) {
	s.items = binary.BigEndian.AppendUint16(s.items, v)
}

// WriteUvarint appends a variable width inline operand.
func (s *Store) WriteUvarint(v uint64) {
	s.items = binary.AppendUvarint(s.items, v)
}

// WriteStringRef pools v and appends its index.
func (s *Store) WriteStringRef(v string) {
	idx, ok := s.pool[v]
	if !ok {
		idx = uint32(len(s.strings))
		// clone so a pooled string never pins a caller's larger buffer
		v = strings.Clone(v)
		s.strings = append(s.strings, v)
		s.stringBytes += len(v)
		if s.pool != nil {
			s.pool[v] = idx
		}
	}
	s.WriteUvarint(uint64(idx))
}

// WriteCharsRef appends b to the char store. The caller writes the run
// length as an inline operand.
func (s *Store) WriteCharsRef(b []byte) {
	s.chars = append(s.chars, b...)
}

// WriteObjectRef appends v to the object store.
func (s *Store) WriteObjectRef(v any) {
	s.objects = append(s.objects, v)
}

// WriteName appends the operands of a qualified name in the given form.
// qname is only used by NameURIQName.
func (s *Store) WriteName(form NameForm, prefix, uri, local, qname string) {
	switch form {
	case NameLocal:
		s.WriteStringRef(local)
	case NameURILocal:
		s.WriteStringRef(uri)
		s.WriteStringRef(local)
	case NamePrefixURILocal:
		s.WriteStringRef(prefix)
		s.WriteStringRef(uri)
		s.WriteStringRef(local)
	case NameURIQName:
		if qname == "" {
			qname = prefix + ":" + local
		}
		s.WriteStringRef(uri)
		s.WriteStringRef(local)
		s.WriteStringRef(qname)
	}
}

// WriteNamespace appends the operands of a namespace declaration.
func (s *Store) WriteNamespace(form NSForm, prefix, uri string) {
	switch form {
	case NSNone:
	case NSPrefix:
		s.WriteStringRef(prefix)
	case NSURI:
		s.WriteStringRef(uri)
	case NSPrefixURI:
		s.WriteStringRef(prefix)
		s.WriteStringRef(uri)
	}
}

// WriteChars appends a char run's length operand in the given form
// followed by the run itself.
func (s *Store) WriteChars(form TextForm, b []byte) {
	switch form {
	case TextSmall:
		s.WriteUint8(uint8(len(b)))
	case TextMedium:
		s.WriteUint16(uint16(len(b)))
	default:
		s.WriteUvarint(uint64(len(b)))
	}
	s.WriteCharsRef(b)
}

// Contains reports whether p is a position within what has been written.
func (s *Store) Contains(p Position) bool {
	e := s.End()
	return p.Item >= 0 && p.Chars >= 0 && p.Object >= 0 &&
		p.Item <= e.Item && p.Chars <= e.Chars && p.Object <= e.Object
}
