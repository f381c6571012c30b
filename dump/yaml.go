package dump

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/signadot/xsb/buffer"
)

// Record is the YAML form of one event.
type Record struct {
	Kind       string            `yaml:"kind"`
	Depth      int               `yaml:"depth"`
	Name       string            `yaml:"name,omitempty"`
	URI        string            `yaml:"uri,omitempty"`
	Namespaces []NamespaceRecord `yaml:"namespaces,omitempty"`
	Attrs      []AttrRecord      `yaml:"attrs,omitempty"`
	Text       string            `yaml:"text,omitempty"`
	ObjectType string            `yaml:"objectType,omitempty"`
	Target     string            `yaml:"target,omitempty"`
	Data       string            `yaml:"data,omitempty"`
}

type NamespaceRecord struct {
	Prefix string `yaml:"prefix"`
	URI    string `yaml:"uri"`
}

type AttrRecord struct {
	Name  string `yaml:"name"`
	URI   string `yaml:"uri,omitempty"`
	Type  string `yaml:"type,omitempty"`
	Value string `yaml:"value"`
}

// NewRecord converts ev at depth to a Record.
func NewRecord(ev *buffer.Event, depth int) Record {
	rec := Record{
		Kind:   ev.Kind.String(),
		Depth:  depth,
		Name:   ev.Name.QName(),
		URI:    ev.Name.URI,
		Text:   ev.Text,
		Target: ev.Target,
		Data:   ev.Data,
	}
	for _, d := range ev.Namespaces {
		rec.Namespaces = append(rec.Namespaces, NamespaceRecord{Prefix: d.Prefix, URI: d.URI})
	}
	for _, a := range ev.Attrs {
		rec.Attrs = append(rec.Attrs, AttrRecord{Name: a.Name.QName(), URI: a.Name.URI, Type: a.Type, Value: a.Value})
	}
	if ev.Object != nil {
		rec.ObjectType = fmt.Sprintf("%T", ev.Object)
	}
	return rec
}

// Records converts every event of b.
func Records(b *buffer.Buffer) ([]Record, error) {
	var res []Record
	err := Each(b, func(ev *buffer.Event, depth int) error {
		res = append(res, NewRecord(ev, depth))
		return nil
	})
	return res, err
}

// YAML returns the records of b as a YAML sequence.
func YAML(b *buffer.Buffer) ([]byte, error) {
	recs, err := Records(b)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(recs)
}
