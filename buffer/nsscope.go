package buffer

import (
	"maps"
	"slices"
)

// Well known namespaces bound to the reserved prefixes.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// nsArena is the namespace scope of one decoder: parallel prefix and uri
// slices shared by all open elements. Each element entry records the
// [start, end) range of its own declarations; leaving an element truncates
// the arena back to start. Truncation keeps the backing arrays, so the
// declarations of the element just left remain addressable until the next
// push.
type nsArena struct {
	prefixes []string
	uris     []string
}

func (a *nsArena) push(prefix, uri string) {
	a.prefixes = append(a.prefixes, prefix)
	a.uris = append(a.uris, uri)
}

func (a *nsArena) len() int {
	return len(a.prefixes)
}

func (a *nsArena) truncate(n int) {
	a.prefixes = a.prefixes[:n]
	a.uris = a.uris[:n]
}

// decls appends the declarations in [start, end) to dst. end may exceed
// the current length after a truncate.
func (a *nsArena) decls(dst []NamespaceDecl, start, end int) []NamespaceDecl {
	prefixes := a.prefixes[start:end]
	uris := a.uris[start:end]
	for i := range prefixes {
		dst = append(dst, NamespaceDecl{Prefix: prefixes[i], URI: uris[i]})
	}
	return dst
}

// lookup returns the most recent binding of prefix. A binding to the empty
// uri is an undeclaration and hides any earlier binding.
func (a *nsArena) lookup(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return XMLNamespace, true
	case "xmlns":
		return XMLNSNamespace, true
	}
	for i := len(a.prefixes) - 1; i >= 0; i-- {
		if a.prefixes[i] != prefix {
			continue
		}
		if a.uris[i] == "" {
			return "", false
		}
		return a.uris[i], true
	}
	return "", false
}

// snapshot returns the bindings in effect over [0, end). Undeclarations
// are kept as empty uris.
func (a *nsArena) snapshot(end int) map[string]string {
	m := make(map[string]string, end)
	for i := 0; i < end; i++ {
		m[a.prefixes[i]] = a.uris[i]
	}
	return m
}

// load pushes the bindings of m in prefix order.
func (a *nsArena) load(m map[string]string) {
	for _, prefix := range slices.Sorted(maps.Keys(m)) {
		a.push(prefix, m[prefix])
	}
}
