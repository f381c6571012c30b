// Package query selects elements of a buffer with expr predicates.
//
// A predicate sees one element start at a time through Env, for example
//
//	local == "item" && attrs["id"] != ""
//	uri == "urn:x" && depth > 1
//	Lookup("p") == "urn:p"
package query

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/xsb/buffer"
)

// ErrStop may be returned by a Select callback to end the selection
// early without error.
var ErrStop = errors.New("stop selection")

// Env is the environment of a predicate.
type Env struct {
	Prefix string `expr:"prefix"`
	URI    string `expr:"uri"`
	Local  string `expr:"local"`
	QName  string `expr:"qname"`
	// depth of the element, 1 for top level elements
	Depth int `expr:"depth"`
	// attribute values by qualified name
	Attrs map[string]string `expr:"attrs"`
	// namespace bindings in scope at the element
	NS map[string]string `expr:"ns"`
}

// Lookup returns the uri bound to prefix at the element, or "".
func (e Env) Lookup(prefix string) string {
	return e.NS[prefix]
}

// Query is a compiled predicate.
type Query struct {
	src string
	prg *vm.Program
}

// Compile compiles a boolean predicate over Env.
func Compile(src string) (*Query, error) {
	prg, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", src, err)
	}
	return &Query{src: src, prg: prg}, nil
}

func (q *Query) String() string {
	return q.src
}

// Match evaluates the predicate against env.
func (q *Query) Match(env *Env) (bool, error) {
	res, err := expr.Run(q.prg, *env)
	if err != nil {
		return false, fmt.Errorf("query %q: %w", q.src, err)
	}
	return res.(bool), nil
}

// load fills env from the element the reader is on.
func (env *Env) load(r *buffer.Reader) error {
	name, err := r.Name()
	if err != nil {
		return err
	}
	attrs, err := r.Attrs()
	if err != nil {
		return err
	}
	env.Prefix, env.URI, env.Local, env.QName = name.Prefix, name.URI, name.Local, name.QName()
	env.Depth = r.Depth()
	env.Attrs = make(map[string]string, len(attrs))
	for i := range attrs {
		env.Attrs[attrs[i].Name.QName()] = attrs[i].Value
	}
	env.NS = r.InScopeNamespaces()
	return nil
}

// Select calls fn with a fork of every element of b matching q, in
// document order, and returns the number of matches. Elements inside a
// match are not considered.
func Select(b *buffer.Buffer, q *Query, fn func(*buffer.Buffer) error) (int, error) {
	r := buffer.NewReader(b)
	n := 0
	var env Env
	for {
		kind, err := r.Next()
		if err != nil {
			return n, err
		}
		switch kind {
		case buffer.EndDocument:
			return n, nil
		case buffer.StartElement:
		default:
			continue
		}
		if err := env.load(r); err != nil {
			return n, err
		}
		ok, err := q.Match(&env)
		if err != nil {
			return n, err
		}
		if !ok {
			continue
		}
		f, err := r.Fork()
		if err != nil {
			return n, err
		}
		n++
		if err := fn(f); err != nil {
			if errors.Is(err, ErrStop) {
				return n, nil
			}
			return n, err
		}
		if err := r.SkipElement(); err != nil {
			return n, err
		}
	}
}

// All returns forks of every element of b matching q.
func All(b *buffer.Buffer, q *Query) ([]*buffer.Buffer, error) {
	var res []*buffer.Buffer
	_, err := Select(b, q, func(f *buffer.Buffer) error {
		res = append(res, f)
		return nil
	})
	return res, err
}
