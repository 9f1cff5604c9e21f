package plugin

import "sort"

// Set is a set of generator names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts names into the set.
func (s Set) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Remove deletes names from the set.
func (s Set) Remove(names ...string) {
	for _, n := range names {
		delete(s, n)
	}
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Sorted returns the names in the set in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// File is the finalized output of a generation.
type File struct {
	Path      string
	Content   string
	Generator FileType // the file-type generator that produced the file
	// IgnorePost and IgnoreDeferred start as copies of the generator's
	// options and belong to this file alone.
	IgnorePost     Set
	IgnoreDeferred Set
	Attrs          map[string]string
	Written        bool
}

// NewFile returns a File for the generator gen with its own copies of the
// generator's ignore lists.
func NewFile(gen FileType, path string) *File {
	opts := gen.Options()
	return &File{
		Path:           path,
		Generator:      gen,
		IgnorePost:     NewSet(opts.IgnorePost...),
		IgnoreDeferred: NewSet(opts.IgnoreDeferred...),
		Attrs:          map[string]string{},
	}
}

// Attr returns the attribute key, or "" when unset.
func (f *File) Attr(key string) string {
	if f.Attrs == nil {
		return ""
	}
	return f.Attrs[key]
}
