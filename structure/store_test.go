package structure

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTagPacking(t *testing.T) {
	tag := MakeTag(KindAttribute, uint8(NameURIQName))
	if tag.Kind() != KindAttribute {
		t.Errorf("kind = %s, want Attribute", tag.Kind())
	}
	if NameForm(tag.Form()) != NameURIQName {
		t.Errorf("form = %d, want %d", tag.Form(), NameURIQName)
	}
	if MakeTag(KindNone, 0) != TagNone {
		t.Errorf("none tag is %v", MakeTag(KindNone, 0))
	}
}

func TestChooseNameForm(t *testing.T) {
	tests := []struct {
		prefix, uri string
		packed      bool
		want        NameForm
	}{
		{"", "", false, NameLocal},
		{"", "urn:x", false, NameURILocal},
		{"a", "urn:x", false, NamePrefixURILocal},
		{"a", "urn:x", true, NameURIQName},
		{"", "urn:x", true, NameURILocal},
	}
	for _, tt := range tests {
		got := ChooseNameForm(tt.prefix, tt.uri, tt.packed)
		if got != tt.want {
			t.Errorf("ChooseNameForm(%q, %q, %v) = %s, want %s", tt.prefix, tt.uri, tt.packed, got, tt.want)
		}
	}
}

func TestChooseCharsForm(t *testing.T) {
	tests := []struct {
		n    int
		want TextForm
	}{
		{0, TextSmall},
		{255, TextSmall},
		{256, TextMedium},
		{65535, TextMedium},
		{65536, TextCopy},
	}
	for _, tt := range tests {
		if got := ChooseCharsForm(tt.n); got != tt.want {
			t.Errorf("ChooseCharsForm(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestStringPooling(t *testing.T) {
	s := NewStore()
	s.WriteStringRef("urn:x")
	s.WriteStringRef("urn:y")
	s.WriteStringRef("urn:x")
	if len(s.strings) != 2 {
		t.Fatalf("pooled %d strings, want 2", len(s.strings))
	}
	r := NewReader(s, Position{})
	got := []string{r.ReadStringRef(), r.ReadStringRef(), r.ReadStringRef()}
	if diff := cmp.Diff([]string{"urn:x", "urn:y", "urn:x"}, got); diff != "" {
		t.Errorf("strings mismatch (-want +got):\n%s", diff)
	}
	if r.Err() != nil {
		t.Fatal(r.Err())
	}
}

func TestNameRoundTrip(t *testing.T) {
	type name struct{ Prefix, URI, Local string }
	tests := []struct {
		form  NameForm
		in    name
		qname string
		want  name
	}{
		{NameLocal, name{Local: "a"}, "", name{Local: "a"}},
		{NameURILocal, name{URI: "u", Local: "a"}, "", name{URI: "u", Local: "a"}},
		{NamePrefixURILocal, name{"p", "u", "a"}, "", name{"p", "u", "a"}},
		{NameURIQName, name{"", "u", "a"}, "q:a", name{"q", "u", "a"}},
		{NameURIQName, name{"p", "u", "a"}, "", name{"p", "u", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.form.String(), func(t *testing.T) {
			s := NewStore()
			s.WriteItem(MakeTag(KindElement, uint8(tt.form)))
			s.WriteName(tt.form, tt.in.Prefix, tt.in.URI, tt.in.Local, tt.qname)
			r := NewReader(s, Position{})
			tag := r.ReadItem()
			var got name
			got.Prefix, got.URI, got.Local = r.ReadName(NameForm(tag.Form()))
			if r.Err() != nil {
				t.Fatal(r.Err())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("name mismatch (-want +got):\n%s", diff)
			}
			if r.PeekItem() != TagNone {
				t.Errorf("unconsumed operands, next %v", r.PeekItem())
			}
		})
	}
}

func TestCharsRuns(t *testing.T) {
	s := NewStore()
	runs := [][]byte{
		[]byte("short"),
		bytes.Repeat([]byte("m"), 300),
		bytes.Repeat([]byte("c"), 70000),
	}
	for _, run := range runs {
		form := ChooseCharsForm(len(run))
		s.WriteItem(MakeTag(KindText, uint8(form)))
		s.WriteChars(form, run)
	}
	r := NewReader(s, Position{})
	for i, run := range runs {
		tag := r.ReadItem()
		got := r.ReadChars(TextForm(tag.Form()))
		if !bytes.Equal(got, run) {
			t.Errorf("run %d: got %d bytes, want %d", i, len(got), len(run))
		}
	}
	if r.Err() != nil {
		t.Fatal(r.Err())
	}
	if r.Pos() != s.End() {
		t.Errorf("pos %+v, want %+v", r.Pos(), s.End())
	}
}

func TestReaderTruncated(t *testing.T) {
	s := NewStore()
	s.WriteItem(MakeTag(KindText, uint8(TextSmall)))
	s.WriteUint8(10)
	s.WriteCharsRef([]byte("abc"))
	r := NewReader(s, Position{})
	tag := r.ReadItem()
	if got := r.ReadChars(TextForm(tag.Form())); got != nil {
		t.Errorf("got %q from a truncated run", got)
	}
	if !errors.Is(r.Err(), ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", r.Err())
	}
	if r.PeekItem() != TagNone {
		t.Error("failed reader should report no further items")
	}
}

func TestReaderOversizedRun(t *testing.T) {
	for _, n := range []uint64{1<<63 - 1, 1<<64 - 1} {
		s := NewStore()
		s.WriteCharsRef([]byte("abc"))
		s.WriteItem(MakeTag(KindText, uint8(TextCopy)))
		s.WriteUvarint(n)
		r := NewReader(s, Position{Chars: 1})
		tag := r.ReadItem()
		if got := r.ReadChars(TextForm(tag.Form())); got != nil {
			t.Errorf("%d: got %q", n, got)
		}
		if !errors.Is(r.Err(), ErrTruncated) {
			t.Errorf("%d: err = %v, want ErrTruncated", n, r.Err())
		}
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	s := NewStore()
	s.WriteItem(MakeTag(KindElement, uint8(NameURILocal)))
	s.WriteName(NameURILocal, "", "urn:x", "root", "")
	s.WriteItem(MakeTag(KindText, uint8(TextObject)))
	s.WriteObjectRef([]byte{0, 1, 2})
	s.WriteItem(MakeTag(KindText, uint8(TextObject)))
	s.WriteObjectRef("typed")
	s.WriteItem(MakeTag(KindText, uint8(TextSmall)))
	s.WriteChars(TextSmall, []byte("hello"))
	s.WriteItem(MakeTag(KindEnd, 0))

	data, err := s.AppendBinary([]byte("hdr"))
	if err != nil {
		t.Fatal(err)
	}
	got, n, err := DecodeStore(data[3:])
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data)-3 {
		t.Errorf("consumed %d bytes, want %d", n, len(data)-3)
	}
	opts := cmp.AllowUnexported(Store{})
	want := *s
	want.pool = nil
	if diff := cmp.Diff(want, *got, opts); diff != "" {
		t.Errorf("store mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryUnsupportedObject(t *testing.T) {
	s := NewStore()
	s.WriteObjectRef(struct{}{})
	_, err := s.AppendBinary(nil)
	if !errors.Is(err, ErrUnsupportedObject) {
		t.Fatalf("err = %v, want ErrUnsupportedObject", err)
	}
}

func TestDecodeStoreTruncated(t *testing.T) {
	s := NewStore()
	s.WriteItem(MakeTag(KindText, uint8(TextString)))
	s.WriteStringRef(strings.Repeat("x", 40))
	data, err := s.AppendBinary(nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, cut := range []int{0, 1, 10, len(data) - 1} {
		if _, _, err := DecodeStore(data[:cut]); !errors.Is(err, ErrTruncated) {
			t.Errorf("cut %d: err = %v, want ErrTruncated", cut, err)
		}
	}
}
