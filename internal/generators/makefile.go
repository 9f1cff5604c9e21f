package generators

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scaffold-labs/new/internal/platform"
	"github.com/scaffold-labs/new/internal/plugin"
)

const (
	makefileSynopsis = "makefile [MAKEFILENAME]"
	// DefaultMakefile is the makefile name used when none is configured.
	DefaultMakefile = "Makefile"
)

// compiler describes how a makefile builds one kind of source.
type compiler struct {
	vars    []string
	build   string
	debug   string
	release string
}

var (
	gccCompiler = compiler{
		vars:    []string{"CC=gcc", "CFLAGS=-Wall -Wextra -Wfloat-equal -Wshadow -std=c11"},
		build:   "$(CC) -o $(binary) $(CFLAGS) $(source)",
		debug:   "CFLAGS+=-g3 -DDEBUG",
		release: "CFLAGS+=-O3 -DNDEBUG",
	}
	gxxCompiler = compiler{
		vars:    []string{"CXX=g++", "CXXFLAGS=-Wall -Wextra -Wfloat-equal -Wshadow -std=c++17"},
		build:   "$(CXX) -o $(binary) $(CXXFLAGS) $(source)",
		debug:   "CXXFLAGS+=-g3 -DDEBUG",
		release: "CXXFLAGS+=-O3 -DNDEBUG",
	}
	rustCompiler = compiler{
		vars:    []string{"RUSTC=rustc", "RUSTFLAGS="},
		build:   "$(RUSTC) $(RUSTFLAGS) -o $(binary) $(source)",
		debug:   "RUSTFLAGS+=-g",
		release: "RUSTFLAGS+=-O",
	}
	compilers = map[string]compiler{
		".c":   gccCompiler,
		".cpp": gxxCompiler,
		".cc":  gxxCompiler,
		".cxx": gxxCompiler,
		".rs":  rustCompiler,
	}
)

// renderMakefile builds a makefile for sources, named name and placed next
// to the first source. The first source picks the compiler and names the
// binary.
func renderMakefile(sources []string, name string) (string, string, error) {
	first := sources[0]
	ext := strings.ToLower(filepath.Ext(first))
	comp, ok := compilers[ext]
	if !ok {
		return "", "", fmt.Errorf("no makefile template for %q files", ext)
	}
	dir := filepath.Dir(first)
	rel := make([]string, len(sources))
	for i, src := range sources {
		if r, err := filepath.Rel(dir, src); err == nil {
			src = r
		}
		rel[i] = filepath.ToSlash(src)
	}

	content, err := render("makefile", struct {
		Vars         []string
		Binary       string
		Sources      string
		Build        string
		DebugFlags   string
		ReleaseFlags string
	}{comp.vars, stem(first), strings.Join(rel, " "), comp.build, comp.debug, comp.release})
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, name), fixIndentTabs(content), nil
}

// fixIndentTabs replaces each leading group of four spaces with a tab, as
// make requires for recipe lines.
func fixIndentTabs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := line
		tabs := 0
		for strings.HasPrefix(trimmed, "    ") {
			trimmed = trimmed[4:]
			tabs++
		}
		lines[i] = strings.Repeat("\t", tabs) + trimmed
	}
	return strings.Join(lines, "\n")
}

// makefile writes one makefile for every source given on the command line.
type makefile struct {
	info
	confirm func(question string) (bool, error)
}

func newMakefile(confirm func(string) (bool, error)) *makefile {
	return &makefile{
		info: info{
			names:       []string{"makefile", "make"},
			version:     "0.4.1",
			description: "Creates a makefile for the given c, cpp, or rust files.",
			opts:        plugin.TypeOptions{MultiFile: true, IgnorePost: []string{"chmodx"}},
		},
		confirm: confirm,
	}
}

func (*makefile) Usage() string {
	return usage(makefileSynopsis, newFlags("makefile")) +
		"\nMAKEFILENAME can also be set in config as 'filename'.\n"
}

func (g *makefile) Create(ctx context.Context, req plugin.Request) (plugin.Result, error) {
	req.Paths = []string{req.Path}
	return g.CreateMulti(ctx, req)
}

func (g *makefile) CreateMulti(_ context.Context, req plugin.Request) (plugin.Result, error) {
	fs := newFlags("makefile")
	if err := parseArgs(fs, makefileSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}
	sources := req.Paths
	if len(sources) == 0 {
		sources = []string{req.Path}
	}
	if !req.DryRun {
		for _, src := range sources {
			if platform.Exists(src) {
				continue
			}
			ok, err := g.confirm(fmt.Sprintf("The target source file doesn't exist: %s\nContinue anyway?", src))
			if err != nil {
				return plugin.Result{}, err
			}
			if !ok {
				return plugin.Stop(plugin.Abortf("User cancelled.")), nil
			}
		}
	}

	name := fs.Arg(0)
	if name == "" {
		name = req.Settings.StringOr("filename", DefaultMakefile)
	}
	path, content, err := renderMakefile(sources, name)
	if err != nil {
		return plugin.Result{}, err
	}
	fmt.Fprintf(req.Stdout(), "Creating a makefile for: %s\n", strings.Join(sources, ", "))
	return plugin.Output(path, content), nil
}

// automakefile adds a makefile next to new c and rust files when the
// directory has none.
type automakefile struct{}

func newAutoMakefile() *automakefile { return &automakefile{} }

func (*automakefile) Name() string    { return "automakefile" }
func (*automakefile) Version() string { return "0.4.1" }
func (*automakefile) Description() string {
	return "Creates a makefile for new C, C++, or Rust files.\nThis will not overwrite existing makefiles."
}

func (p *automakefile) Process(_ context.Context, req plugin.Request, file *plugin.File) error {
	switch plugin.Name(file.Generator) {
	case "c", "rust":
	default:
		return nil
	}
	dir := filepath.Dir(file.Path)
	for _, name := range []string{"Makefile", "makefile"} {
		if existing := filepath.Join(dir, name); platform.Exists(existing) {
			req.Logger().Debug("makefile already exists", "path", existing)
			return nil
		}
	}

	path, content, err := renderMakefile([]string{file.Path}, req.Settings.StringOr("filename", DefaultMakefile))
	if err != nil {
		return err
	}
	if err := platform.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("writing makefile: %w", err)
	}
	plugin.Status(req.Stdout(), p.Name(), "Makefile created: %s", path)
	return nil
}
