package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/scaffold-labs/new/internal/custom"
	"github.com/scaffold-labs/new/internal/logging"
	"github.com/scaffold-labs/new/internal/plugin"
)

// moduleFile is the on-disk shape of a generator module.
type moduleFile struct {
	Name       string              `yaml:"name"`
	Generators []custom.Definition `yaml:"generators"`
}

// Load builds a registry from the config custom definitions, the compiled
// modules and the module files in opts.Dir, in that order. The first
// registration of a name wins. A broken custom definition fails the whole
// load; any other broken generator or module is logged and skipped.
func Load(opts LoadOptions) (*Registry, error) {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	l := &loader{reg: newRegistry(), log: log, disabled: opts.Disabled}

	names := make([]string, 0, len(opts.Custom))
	for name := range opts.Custom {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def := opts.Custom[name]
		if def.Name == "" {
			def.Name = name
		}
		gen, err := custom.New(def)
		if err != nil {
			return nil, plugin.LoadError(name, "invalid custom generator", err)
		}
		l.addType("config", gen, RoleCustom)
	}

	modules := opts.Modules
	if opts.Dir != "" {
		dirModules, err := DirModules(opts.Dir)
		if err != nil {
			log.Warn("skipping generator directory", "dir", opts.Dir, "error", err)
		}
		modules = append(append([]Module(nil), modules...), dirModules...)
	}
	for _, m := range modules {
		l.addModule(m)
	}

	log.Debug("generators loaded",
		"custom", len(l.reg.custom),
		"types", len(l.reg.types),
		"post", len(l.reg.post),
		"deferred", len(l.reg.deferred))
	return l.reg, nil
}

// DirModules returns one module per *.yaml or *.yml file in dir, sorted by
// file name. A missing dir yields no modules.
func DirModules(dir string) ([]Module, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading generator directory %s: %w", dir, err)
	}

	var modules []Module
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		modName := strings.TrimSuffix(name, ext)
		modules = append(modules, Module{
			Name: modName,
			Load: func() ([]any, error) { return loadModuleFile(path) },
		})
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })
	return modules, nil
}

func loadModuleFile(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var mf moduleFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(mf.Generators) == 0 {
		return nil, fmt.Errorf("%s defines no generators", path)
	}

	var exports []any
	for i, def := range mf.Generators {
		gen, err := custom.New(def)
		if err != nil {
			return nil, fmt.Errorf("generator %d in %s: %w", i, path, err)
		}
		exports = append(exports, gen)
	}
	return exports, nil
}

type loader struct {
	reg      *Registry
	log      *slog.Logger
	disabled Disabled
}

func (l *loader) addModule(m Module) {
	l.reg.modules[strings.ToLower(m.Name)] = true
	exports, err := exportsOf(m)
	if err != nil {
		l.log.Warn("skipping generator module", "module", m.Name, "error", err)
		return
	}
	for _, v := range exports {
		switch g := v.(type) {
		case plugin.FileType:
			l.addType(m.Name, g, RoleType)
		case plugin.Post:
			l.addPost(m.Name, g)
		default:
			l.log.Debug("skipping non-generator export", "module", m.Name, "type", fmt.Sprintf("%T", v))
		}
	}
}

// exportsOf calls m.Load, turning a panic into an error.
func exportsOf(m Module) (exports []any, err error) {
	if m.Load == nil {
		return nil, fmt.Errorf("module %q has no loader", m.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module %q panicked: %v", m.Name, r)
		}
	}()
	return m.Load()
}

func (l *loader) addType(module string, g plugin.FileType, role Role) {
	names := g.Names()
	if len(names) == 0 || strings.TrimSpace(names[0]) == "" {
		l.log.Warn("skipping malformed generator", "module", module, "reason", "missing name")
		return
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			l.log.Warn("skipping malformed generator", "module", module, "name", names[0], "reason", "blank alias")
			return
		}
	}
	if g.Options().MultiFile {
		if _, ok := g.(plugin.MultiFileType); !ok {
			l.log.Warn("skipping malformed generator", "module", module, "name", names[0], "reason", "multi-file without CreateMulti")
			return
		}
	}

	name := strings.ToLower(names[0])
	if role == RoleType && contains(l.disabled.Types, name) {
		l.log.Debug("generator disabled", "role", role, "name", name)
		return
	}

	seen := map[string]bool{}
	for _, n := range names {
		alias := strings.ToLower(n)
		if prev, ok := l.reg.aliases[alias]; ok || seen[alias] {
			prevName := name
			if prev != nil {
				prevName = prev.Name
			}
			l.log.Warn("conflicting generator", "module", module, "name", name, "alias", alias, "registered", prevName)
			return
		}
		seen[alias] = true
	}

	e := &Entry{Name: name, Role: role, Module: module, Type: g}
	l.reg.roleMap(role)[name] = e
	for alias := range seen {
		l.reg.aliases[alias] = e
	}
	l.log.Debug("generator registered", "role", role, "name", name, "module", module)
}

func (l *loader) addPost(module string, g plugin.Post) {
	name := strings.ToLower(strings.TrimSpace(g.Name()))
	if name == "" {
		l.log.Warn("skipping malformed generator", "module", module, "reason", "missing name")
		return
	}
	role, disabled := RolePost, l.disabled.Post
	if _, ok := g.(plugin.Deferred); ok {
		role, disabled = RoleDeferred, l.disabled.Deferred
	}
	if contains(disabled, name) {
		l.log.Debug("generator disabled", "role", role, "name", name)
		return
	}
	m := l.reg.roleMap(role)
	if prev, ok := m[name]; ok {
		l.log.Warn("conflicting generator", "module", module, "name", name, "registered", prev.Module)
		return
	}
	m[name] = &Entry{Name: name, Role: role, Module: module, Post: g}
	l.log.Debug("generator registered", "role", role, "name", name, "module", module)
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
