package scaffold

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scaffold-labs/new/internal/platform"
	"github.com/scaffold-labs/new/internal/plugin"
	"github.com/scaffold-labs/new/internal/registry"
)

type fakeGen struct {
	names []string
	exts  []string
	opts  plugin.TypeOptions
	res   plugin.Result
	err   error
	panic bool
	last  *plugin.Request
}

func (g *fakeGen) Names() []string             { return g.names }
func (g *fakeGen) Extensions() []string        { return g.exts }
func (g *fakeGen) Options() plugin.TypeOptions { return g.opts }
func (g *fakeGen) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	if g.last != nil {
		*g.last = req
	}
	if g.panic {
		panic("template exploded")
	}
	return g.res, g.err
}

type multiGen struct{ fakeGen }

func (g *multiGen) CreateMulti(_ context.Context, req plugin.Request) (plugin.Result, error) {
	return plugin.Output(filepath.Join(filepath.Dir(req.Path), "Makefile"), "all: "+strings.Join(req.Paths, " ")), nil
}

type spyPost struct {
	name  string
	err   error
	calls *[]string
}

func (s *spyPost) Name() string { return s.name }
func (s *spyPost) Process(_ context.Context, _ plugin.Request, f *plugin.File) error {
	*s.calls = append(*s.calls, s.name+":"+filepath.Base(f.Path))
	return s.err
}

func build(t *testing.T, exports ...any) *registry.Registry {
	t.Helper()
	reg, err := registry.Load(registry.LoadOptions{Modules: []registry.Module{registry.Static("test", exports...)}})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

type memWriter map[string]string

func (m memWriter) WriteFile(path string, data []byte) error {
	m[path] = string(data)
	return nil
}

func testEngine(reg *registry.Registry) (*Engine, *bytes.Buffer) {
	var out bytes.Buffer
	e := New(reg)
	e.Out = &out
	e.Err = &out
	e.Writer = memWriter{}
	e.Confirm = func(string) (bool, error) { return true, nil }
	e.InstallDir = ""
	return e, &out
}

func entry(t *testing.T, reg *registry.Registry, name string) *registry.Entry {
	t.Helper()
	e, ok := reg.ByName(name, false)
	if !ok {
		t.Fatalf("generator %s not registered", name)
	}
	return e
}

func TestEnsureExtension(t *testing.T) {
	py := &fakeGen{names: []string{"python"}, exts: []string{".py"}}
	text := &fakeGen{names: []string{"text"}, exts: []string{".txt"}, opts: plugin.TypeOptions{AnyExtension: true}}
	c := &fakeGen{names: []string{"c"}, exts: []string{".c", ".cpp"}}
	makefile := &fakeGen{names: []string{"makefile"}}

	tests := []struct {
		gen  plugin.FileType
		path string
		want string
	}{
		{py, "script", "script.py"},
		{py, "script.py", "script.py"},
		{py, "script.PY", "script.PY"},
		{py, "notes.txt", "notes.txt.py"},
		{text, "readme", "readme.txt"},
		{text, "readme.md", "readme.md"},
		{c, "main.cpp", "main.cpp"},
		{c, "main", "main.c"},
		{makefile, "Makefile", "Makefile"},
		{py, "-", "-"},
	}
	for _, tt := range tests {
		if got := EnsureExtension(tt.gen, tt.path); got != tt.want {
			t.Errorf("EnsureExtension(%s, %q) = %q, want %q", plugin.Name(tt.gen), tt.path, got, tt.want)
		}
	}
}

func TestGenerateContent(t *testing.T) {
	var req plugin.Request
	gen := &fakeGen{names: []string{"python", "py"}, exts: []string{".py"}, res: plugin.Content("print()"), last: &req}
	reg := build(t, gen)
	e, _ := testEngine(reg)
	e.Settings = func(name string) plugin.Settings { return plugin.Settings{"author": "ann", "for": name} }

	file, err := e.Generate(context.Background(), entry(t, reg, "py"), "hello", Options{Args: []string{"-t"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if file.Path != "hello.py" || file.Content != "print()" {
		t.Errorf("file = %q %q", file.Path, file.Content)
	}
	if req.Path != "hello.py" || len(req.Args) != 1 || req.Args[0] != "-t" {
		t.Errorf("request = %+v", req)
	}
	if req.Settings.String("for") != "python" {
		t.Errorf("settings for = %q, want %q", req.Settings.String("for"), "python")
	}
}

func TestGenerateDefaultArgs(t *testing.T) {
	var req plugin.Request
	gen := &fakeGen{names: []string{"python"}, exts: []string{".py"}, res: plugin.Content("x"), last: &req}
	reg := build(t, gen)
	e, _ := testEngine(reg)
	e.Settings = func(string) plugin.Settings { return plugin.Settings{"default_args": "-t, -m"} }

	if _, err := e.Generate(context.Background(), entry(t, reg, "python"), "a", Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(req.Args, " ") != "-t -m" {
		t.Errorf("Args = %q, want default_args", req.Args)
	}
}

func TestGenerateBlankContent(t *testing.T) {
	strict := &fakeGen{names: []string{"python"}, exts: []string{".py"}, res: plugin.Content("")}
	blank := &fakeGen{names: []string{"text"}, exts: []string{".txt"}, res: plugin.Content(""), opts: plugin.TypeOptions{AllowBlank: true}}
	reg := build(t, strict, blank)
	e, _ := testEngine(reg)

	_, err := e.Generate(context.Background(), entry(t, reg, "python"), "a", Options{})
	if !errors.Is(err, ErrNothingToWrite) {
		t.Fatalf("err = %v, want ErrNothingToWrite", err)
	}
	if plugin.GetCode(err) != plugin.EGeneration {
		t.Errorf("GetCode() = %q, want %q", plugin.GetCode(err), plugin.EGeneration)
	}

	file, err := e.Generate(context.Background(), entry(t, reg, "text"), "a", Options{})
	if err != nil {
		t.Fatalf("blank generator: %v", err)
	}
	if file.Content != "" || file.Path != "a.txt" {
		t.Errorf("file = %+v", file)
	}
}

func TestGenerateRedirect(t *testing.T) {
	gen := &fakeGen{
		names: []string{"c"},
		exts:  []string{".c"},
		opts:  plugin.TypeOptions{IgnorePost: []string{"chmodx"}},
		res: plugin.Redirect(plugin.Redirection{
			Message:    "Switching to header",
			Filename:   "lib.h",
			Content:    "#pragma once",
			IgnorePost: []string{"automakefile"},
		}),
	}
	reg := build(t, gen)
	e, out := testEngine(reg)

	file, err := e.Generate(context.Background(), entry(t, reg, "c"), "lib", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if file.Path != "lib.h" || file.Content != "#pragma once" {
		t.Errorf("file = %q %q", file.Path, file.Content)
	}
	if got := strings.Join(file.IgnorePost.Sorted(), ","); got != "automakefile,chmodx" {
		t.Errorf("IgnorePost = %s", got)
	}
	if !strings.Contains(out.String(), "Switching to header") {
		t.Errorf("output = %q, want redirect message", out.String())
	}
	if len(gen.opts.IgnorePost) != 1 {
		t.Errorf("generator options mutated: %v", gen.opts.IgnorePost)
	}
}

func TestGenerateRedirectKeepsPath(t *testing.T) {
	gen := &fakeGen{names: []string{"python"}, exts: []string{".py"}, res: plugin.Redirect(plugin.Redirection{Content: "x"})}
	reg := build(t, gen)
	e, _ := testEngine(reg)

	file, err := e.Generate(context.Background(), entry(t, reg, "python"), "a", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if file.Path != "a.py" {
		t.Errorf("Path = %q, want original target", file.Path)
	}
}

func TestGenerateRedirectNothingToWrite(t *testing.T) {
	gen := &fakeGen{names: []string{"python"}, exts: []string{".py"}, res: plugin.Redirect(plugin.Redirection{Filename: "b.py"})}
	reg := build(t, gen)
	e, _ := testEngine(reg)

	_, err := e.Generate(context.Background(), entry(t, reg, "python"), "a", Options{})
	if !errors.Is(err, ErrNothingToWrite) {
		t.Fatalf("err = %v, want ErrNothingToWrite", err)
	}
	if !strings.Contains(err.Error(), "signaled redirect") {
		t.Errorf("err = %q", err)
	}
}

func TestGenerateAbort(t *testing.T) {
	tests := []struct {
		name     string
		gen      *fakeGen
		wantCode int
	}{
		{"result", &fakeGen{res: plugin.Stop(plugin.AbortCode(3, "no thanks"))}, 3},
		{"error", &fakeGen{err: plugin.Abortf("stopped")}, 1},
		{"quit", &fakeGen{res: plugin.Stop(plugin.Quit())}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.gen.names = []string{"python"}
			reg := build(t, tt.gen)
			e, _ := testEngine(reg)
			_, err := e.Generate(context.Background(), entry(t, reg, "python"), "a", Options{})
			a, ok := plugin.AsAbort(err)
			if !ok {
				t.Fatalf("err = %v, want *plugin.Abort", err)
			}
			if a.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", a.Code, tt.wantCode)
			}
		})
	}
}

func TestGenerateFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGen
		want string
	}{
		{"error", &fakeGen{err: errors.New("bad template")}, "bad template"},
		{"panic", &fakeGen{panic: true}, "template exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.gen.names = []string{"python"}
			reg := build(t, tt.gen)
			e, _ := testEngine(reg)
			_, err := e.Generate(context.Background(), entry(t, reg, "python"), "a", Options{})
			if plugin.GetCode(err) != plugin.EGeneration {
				t.Fatalf("GetCode(%v) = %q, want %q", err, plugin.GetCode(err), plugin.EGeneration)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want %q", err, tt.want)
			}
		})
	}
}

func TestGenerateFlagsAdjustIgnoreSets(t *testing.T) {
	gen := &fakeGen{names: []string{"rust"}, exts: []string{".rs"}, res: plugin.Content("fn main() {}"),
		opts: plugin.TypeOptions{IgnorePost: []string{"chmodx"}}}
	reg := build(t, gen)
	e, _ := testEngine(reg)

	file, err := e.Generate(context.Background(), entry(t, reg, "rust"), "main", Options{Executable: true, NoOpen: true})
	if err != nil {
		t.Fatal(err)
	}
	if file.IgnorePost.Has("chmodx") {
		t.Error("--executable left chmodx ignored")
	}
	if !file.IgnoreDeferred.Has("open") {
		t.Error("--noopen did not ignore open")
	}
}

func TestGenerateAttrs(t *testing.T) {
	gen := &fakeGen{names: []string{"jquery"}, exts: []string{".html"}, res: plugin.Content("<html>").WithAttr("jquery.version", "3.7.1")}
	reg := build(t, gen)
	e, _ := testEngine(reg)

	file, err := e.Generate(context.Background(), entry(t, reg, "jquery"), "index", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := file.Attr("jquery.version"); got != "3.7.1" {
		t.Errorf("Attr = %q, want %q", got, "3.7.1")
	}
}

func TestGenerateHostConflict(t *testing.T) {
	dir := t.TempDir()
	host := &fakeGen{names: []string{"go"}, exts: []string{".go"}, res: plugin.Content("package main")}
	chmodx := &spyPost{name: "chmodx", calls: new([]string)}
	reg := build(t, host, chmodx)

	tests := []struct {
		name string
		cwd  string
		path string
		want bool
	}{
		{"generator name in install dir", dir, "chmodx", true},
		{"generator dir in install dir", dir, "chmodx/main", true},
		{"other name in install dir", dir, "tool", false},
		{"generator name elsewhere", t.TempDir(), "chmodx", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := testEngine(reg)
			e.InstallDir = dir
			e.Getwd = func() (string, error) { return tt.cwd, nil }
			_, err := e.Generate(context.Background(), entry(t, reg, "go"), tt.path, Options{})
			if got := plugin.GetCode(err) == plugin.EConflict; got != tt.want {
				t.Errorf("conflict = %v (err %v), want %v", got, err, tt.want)
			}
		})
	}
}

func TestWriteStdoutAndDryRun(t *testing.T) {
	gen := &fakeGen{names: []string{"text"}}
	reg := build(t, gen)
	e, out := testEngine(reg)
	w := memWriter{}
	e.Writer = w

	written, err := e.Write(&plugin.File{Path: Stdout, Content: "hi", Generator: gen}, Options{})
	if err != nil || written {
		t.Fatalf("stdout Write = %v, %v", written, err)
	}
	if out.String() != "hi\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "hi\n")
	}

	out.Reset()
	written, err = e.Write(&plugin.File{Path: "x.txt", Content: "hi", Generator: gen}, Options{DryRun: true})
	if err != nil || written {
		t.Fatalf("dry run Write = %v, %v", written, err)
	}
	if !strings.HasPrefix(out.String(), "Dry run, would've written: x.txt\n") {
		t.Errorf("dry run output = %q", out.String())
	}
	if len(w) != 0 {
		t.Errorf("dry run wrote %v", w)
	}
}

func TestWriteNamesGenerator(t *testing.T) {
	gen := &fakeGen{names: []string{"make", "mk"}, opts: plugin.TypeOptions{KeepNewlines: true}}
	reg := build(t, gen)
	e, out := testEngine(reg)
	w := memWriter{}
	e.Writer = w

	written, err := e.Write(plugin.NewFile(gen, "Makefile"), Options{})
	if err != nil || !written {
		t.Fatalf("Write = %v, %v", written, err)
	}
	if out.String() != "Created (make) Makefile\n" {
		t.Errorf("output = %q", out.String())
	}

	file := plugin.NewFile(gen, "keep.mk")
	file.Content = "all:\n\n\n"
	if _, err := e.Write(file, Options{}); err != nil {
		t.Fatal(err)
	}
	if w["keep.mk"] != "all:\n\n\n" {
		t.Errorf("KeepNewlines content = %q", w["keep.mk"])
	}
}

func TestWriteOverwrite(t *testing.T) {
	gen := &fakeGen{names: []string{"text"}}
	reg := build(t, gen)
	path := filepath.Join(t.TempDir(), "exists.txt")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("declined", func(t *testing.T) {
		e, _ := testEngine(reg)
		var asked string
		e.Confirm = func(q string) (bool, error) { asked = q; return false, nil }
		_, err := e.Write(&plugin.File{Path: path, Content: "new", Generator: gen}, Options{})
		a, ok := plugin.AsAbort(err)
		if !ok || a.Code != 1 || a.Reason != "User cancelled." {
			t.Fatalf("err = %v, want User cancelled abort", err)
		}
		if !strings.HasPrefix(asked, "File exists!: "+path) {
			t.Errorf("question = %q", asked)
		}
	})

	t.Run("flag skips prompt", func(t *testing.T) {
		e, _ := testEngine(reg)
		e.Confirm = func(string) (bool, error) { t.Error("prompted with --overwrite"); return false, nil }
		w := memWriter{}
		e.Writer = w
		written, err := e.Write(&plugin.File{Path: path, Content: "new", Generator: gen}, Options{Overwrite: true})
		if err != nil || !written {
			t.Fatalf("Write = %v, %v", written, err)
		}
		if w[path] != "new\n" {
			t.Errorf("content = %q", w[path])
		}
	})
}

func TestWriteError(t *testing.T) {
	gen := &fakeGen{names: []string{"text"}}
	e, _ := testEngine(build(t, gen))
	e.Writer = WriterFunc(func(string, []byte) error { return os.ErrPermission })

	_, err := e.Write(&plugin.File{Path: "a.txt", Content: "x", Generator: gen}, Options{})
	if plugin.GetCode(err) != plugin.EWrite || !errors.Is(err, os.ErrPermission) {
		t.Errorf("err = %v, want write error wrapping ErrPermission", err)
	}
}

func TestEnsureNewline(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"a", "a\n"},
		{"a\n", "a\n"},
		{"a\n\n\n", "a\n"},
		{"a\n\nb", "a\n\nb\n"},
	}
	for _, tt := range tests {
		if got := ensureNewline(tt.in); got != tt.want {
			t.Errorf("ensureNewline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	var calls []string
	python := &fakeGen{names: []string{"python", "py"}, exts: []string{".py"}, res: plugin.Content("#!/usr/bin/env python3\nprint('hi')")}
	reg := build(t, python, &spyPost{name: "chmodx", calls: &calls})
	e, out := testEngine(reg)
	e.Writer = WriterFunc(platform.WriteFile)

	target := filepath.Join(t.TempDir(), "hello")
	err := e.Execute(context.Background(), Job{Entry: entry(t, reg, "python"), Paths: []string{target}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if plugin.ExitCode(err) != 0 {
		t.Errorf("ExitCode = %d, want 0", plugin.ExitCode(err))
	}

	data, err := os.ReadFile(target + ".py")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#!/usr/bin/env python3\nprint('hi')\n" {
		t.Errorf("content = %q", data)
	}
	if strings.Join(calls, ",") != "chmodx:hello.py" {
		t.Errorf("post calls = %v", calls)
	}
	if !strings.Contains(out.String(), "Created (python) "+target+".py") {
		t.Errorf("output = %q", out.String())
	}
}

func TestExecuteCountsPostFailures(t *testing.T) {
	var calls []string
	gen := &fakeGen{names: []string{"python"}, exts: []string{".py"}, res: plugin.Content("x")}
	reg := build(t, gen,
		&spyPost{name: "a", err: errors.New("nope"), calls: &calls},
		&spyPost{name: "b", err: errors.New("nope"), calls: &calls},
	)
	e, _ := testEngine(reg)

	err := e.Execute(context.Background(), Job{Entry: entry(t, reg, "python"), Paths: []string{"one", "two"}})
	if plugin.GetCode(err) != plugin.EPost {
		t.Fatalf("err = %v, want post error", err)
	}
	if got := plugin.ExitCode(err); got != 4 {
		t.Errorf("ExitCode = %d, want 4", got)
	}
	if len(calls) != 4 {
		t.Errorf("calls = %v, want both posts for both files", calls)
	}
}

func TestExecuteSkipsPostsWithoutWrite(t *testing.T) {
	var calls []string
	gen := &fakeGen{names: []string{"python"}, exts: []string{".py"}, res: plugin.Content("x")}
	reg := build(t, gen, &spyPost{name: "chmodx", calls: &calls})
	e, _ := testEngine(reg)

	for _, opts := range []Options{{DryRun: true}, {}} {
		path := "a"
		if !opts.DryRun {
			path = Stdout
		}
		if err := e.Execute(context.Background(), Job{Entry: entry(t, reg, "python"), Paths: []string{path}, Options: opts}); err != nil {
			t.Fatal(err)
		}
	}
	if len(calls) != 0 {
		t.Errorf("post calls = %v, want none", calls)
	}
}

func TestExecuteMultiFile(t *testing.T) {
	gen := &multiGen{fakeGen{names: []string{"makefile"}, opts: plugin.TypeOptions{MultiFile: true}}}
	reg := build(t, gen)
	e, _ := testEngine(reg)
	w := memWriter{}
	e.Writer = w

	err := e.Execute(context.Background(), Job{Entry: entry(t, reg, "makefile"), Paths: []string{"src/main.c", "src/util.c"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(w) != 1 {
		t.Fatalf("wrote %d files, want 1", len(w))
	}
	if got := w[filepath.Join("src", "Makefile")]; got != "all: src/main.c src/util.c\n" {
		t.Errorf("Makefile = %q", got)
	}
}

func TestExecuteRejectsPost(t *testing.T) {
	reg := build(t, &spyPost{name: "chmodx", calls: new([]string)})
	e, _ := testEngine(reg)
	chmodx, _ := reg.ByName("chmodx", true)

	err := e.Execute(context.Background(), Job{Entry: chmodx, Paths: []string{"a"}})
	if plugin.GetCode(err) != plugin.EUsage {
		t.Errorf("err = %v, want usage error", err)
	}
}
