package registry

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scaffold-labs/new/internal/custom"
	"github.com/scaffold-labs/new/internal/plugin"
)

// Role is the registry map a generator lives in.
type Role string

const (
	RoleCustom   Role = "custom"
	RoleType     Role = "types"
	RolePost     Role = "post"
	RoleDeferred Role = "deferred"
)

// Roles lists every role in lookup order.
var Roles = []Role{RoleCustom, RoleType, RolePost, RoleDeferred}

// Label is the human-readable name of the role used in listings.
func (r Role) Label() string {
	switch r {
	case RoleCustom:
		return "custom"
	case RoleType:
		return "file-type"
	case RolePost:
		return "post-processing"
	case RoleDeferred:
		return "deferred post-processing"
	}
	return string(r)
}

// Entry is one registered generator.
type Entry struct {
	Name   string // canonical name
	Role   Role
	Module string // module the generator was exported by
	Type   plugin.FileType
	Post   plugin.Post
}

// Generator returns the wrapped generator value.
func (e *Entry) Generator() any {
	if e.Type != nil {
		return e.Type
	}
	return e.Post
}

// IsPost reports whether the entry is an ordinary or deferred post generator.
func (e *Entry) IsPost() bool {
	return e.Role == RolePost || e.Role == RoleDeferred
}

// Module is a named group of generators. Load returns the exported
// generator values, which are validated before registration.
type Module struct {
	Name string
	Load func() ([]any, error)
}

// Static returns a Module exporting fixed generator values.
func Static(name string, exports ...any) Module {
	return Module{Name: name, Load: func() ([]any, error) { return exports, nil }}
}

// Disabled lists canonical names to skip per role.
type Disabled struct {
	Types    []string
	Post     []string
	Deferred []string
}

// LoadOptions configures Load.
type LoadOptions struct {
	Modules []Module
	// Dir holds generator module files (*.yaml). Missing directories are ignored.
	Dir      string
	Custom   map[string]custom.Definition
	Disabled Disabled
	Log      *slog.Logger
}

// Registry holds every loaded generator. It is read-only once Load returns.
type Registry struct {
	custom   map[string]*Entry
	types    map[string]*Entry
	post     map[string]*Entry
	deferred map[string]*Entry
	// aliases maps every lowercased file-type alias to its entry.
	aliases map[string]*Entry
	modules map[string]bool
}

func newRegistry() *Registry {
	return &Registry{
		custom:   map[string]*Entry{},
		types:    map[string]*Entry{},
		post:     map[string]*Entry{},
		deferred: map[string]*Entry{},
		aliases:  map[string]*Entry{},
		modules:  map[string]bool{},
	}
}

func (r *Registry) roleMap(role Role) map[string]*Entry {
	switch role {
	case RoleCustom:
		return r.custom
	case RoleType:
		return r.types
	case RolePost:
		return r.post
	case RoleDeferred:
		return r.deferred
	}
	return nil
}

// Get returns the entry registered under name in role.
func (r *Registry) Get(role Role, name string) (*Entry, bool) {
	e, ok := r.roleMap(role)[strings.ToLower(name)]
	return e, ok
}

// Entries returns the entries of role sorted by canonical name.
func (r *Registry) Entries(role Role) []*Entry {
	m := r.roleMap(role)
	out := make([]*Entry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Posts returns the ordinary post generators in name order.
func (r *Registry) Posts() []*Entry { return r.Entries(RolePost) }

// Deferreds returns the deferred post generators in name order.
func (r *Registry) Deferreds() []*Entry { return r.Entries(RoleDeferred) }

// Len returns the number of registered generators.
func (r *Registry) Len() int {
	return len(r.custom) + len(r.types) + len(r.post) + len(r.deferred)
}

// Known reports whether name is a file-type alias, a post generator, or a
// module name.
func (r *Registry) Known(name string) bool {
	name = strings.ToLower(name)
	if _, ok := r.aliases[name]; ok {
		return true
	}
	if _, ok := r.post[name]; ok {
		return true
	}
	if _, ok := r.deferred[name]; ok {
		return true
	}
	return r.modules[name]
}

// ByName looks a generator up by alias. Custom and file-type aliases share
// one index, where custom generators were registered first; post and
// deferred generators are searched only when usePost is set.
func (r *Registry) ByName(name string, usePost bool) (*Entry, bool) {
	name = strings.ToLower(name)
	if e, ok := r.aliases[name]; ok {
		return e, true
	}
	if !usePost {
		return nil, false
	}
	if e, ok := r.post[name]; ok {
		return e, true
	}
	if e, ok := r.deferred[name]; ok {
		return e, true
	}
	return nil, false
}

// ByExtension returns the first file-type generator, in name order, whose
// extensions contain the extension of path. Custom generators are not
// searched.
func (r *Registry) ByExtension(path string) (*Entry, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	for _, e := range r.Entries(RoleType) {
		for _, candidate := range e.Type.Extensions() {
			if strings.ToLower(candidate) == ext {
				return e, true
			}
		}
	}
	return nil, false
}
