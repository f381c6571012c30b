package structure

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedObject is returned when encoding a store holding an object
// payload with no binary representation.
var ErrUnsupportedObject = errors.New("unsupported object payload")

const (
	objectBytes  = 1
	objectString = 2
)

// AppendBinary appends the binary form of s to dst.
//
// The layout is:
//
//	strings: [count] ([len] [bytes])...
//	chars:   [len] [bytes]
//	objects: [count] ([type] [len] [bytes])...
//	items:   [len] [bytes]
//
// where every count and length is a uvarint. Objects must be []byte or
// string.
func (s *Store) AppendBinary(dst []byte) ([]byte, error) {
	dst = binary.AppendUvarint(dst, uint64(len(s.strings)))
	for _, v := range s.strings {
		dst = binary.AppendUvarint(dst, uint64(len(v)))
		dst = append(dst, v...)
	}
	dst = binary.AppendUvarint(dst, uint64(len(s.chars)))
	dst = append(dst, s.chars...)
	dst = binary.AppendUvarint(dst, uint64(len(s.objects)))
	for i, v := range s.objects {
		switch x := v.(type) {
		case []byte:
			dst = append(dst, objectBytes)
			dst = binary.AppendUvarint(dst, uint64(len(x)))
			dst = append(dst, x...)
		case string:
			dst = append(dst, objectString)
			dst = binary.AppendUvarint(dst, uint64(len(x)))
			dst = append(dst, x...)
		default:
			return dst, fmt.Errorf("%w: object %d has type %T", ErrUnsupportedObject, i, v)
		}
	}
	dst = binary.AppendUvarint(dst, uint64(len(s.items)))
	dst = append(dst, s.items...)
	return dst, nil
}

// DecodeStore decodes a store written by AppendBinary from the front of
// data, returning the store and the number of bytes consumed. The
// returned store does not alias data.
func DecodeStore(data []byte) (*Store, int, error) {
	br := &byteReader{buf: data}
	s := &Store{}

	n, err := br.count("string count")
	if err != nil {
		return nil, br.off, err
	}
	s.strings = make([]string, 0, n)
	for range n {
		b, err := br.chunk("string")
		if err != nil {
			return nil, br.off, err
		}
		s.strings = append(s.strings, string(b))
		s.stringBytes += len(b)
	}

	chars, err := br.chunk("chars")
	if err != nil {
		return nil, br.off, err
	}
	s.chars = append([]byte(nil), chars...)

	n, err = br.count("object count")
	if err != nil {
		return nil, br.off, err
	}
	s.objects = make([]any, 0, n)
	for i := range n {
		typ, err := br.ReadByte()
		if err != nil {
			return nil, br.off, fmt.Errorf("%w: object %d type", ErrTruncated, i)
		}
		b, err := br.chunk("object")
		if err != nil {
			return nil, br.off, err
		}
		switch typ {
		case objectBytes:
			s.objects = append(s.objects, append([]byte(nil), b...))
		case objectString:
			s.objects = append(s.objects, string(b))
		default:
			return nil, br.off, fmt.Errorf("%w: object %d type %d", ErrUnsupportedObject, i, typ)
		}
	}

	items, err := br.chunk("items")
	if err != nil {
		return nil, br.off, err
	}
	s.items = append([]byte(nil), items...)
	return s, br.off, nil
}

// byteReader reads from a slice without taking ownership of it.
type byteReader struct {
	buf []byte
	off int
}

var _ io.ByteReader = (*byteReader)(nil)

func (br *byteReader) ReadByte() (byte, error) {
	if br.off >= len(br.buf) {
		return 0, io.EOF
	}
	b := br.buf[br.off]
	br.off++
	return b, nil
}

func (br *byteReader) count(what string) (int, error) {
	v, err := binary.ReadUvarint(br)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrTruncated, what, err)
	}
	// every counted entry takes at least one byte
	if v > uint64(len(br.buf)-br.off) {
		return 0, fmt.Errorf("%w: %s %d exceeds remaining input", ErrTruncated, what, v)
	}
	return int(v), nil
}

func (br *byteReader) chunk(what string) ([]byte, error) {
	n, err := br.count(what + " length")
	if err != nil {
		return nil, err
	}
	b := br.buf[br.off : br.off+n]
	br.off += n
	return b, nil
}
