package generators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/scaffold-labs/new/internal/download"
	"github.com/scaffold-labs/new/internal/plugin"
)

const jqueryIndex = `<html><body>
<a href="/jquery-3.6.0.min.js">minified</a>
<a href="/jquery-3.7.1.min.js">minified</a>
<a href="/jquery-3.7.1.js">uncompressed</a>
</body></html>`

func jqueryServer(t *testing.T) *download.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jquery/":
			fmt.Fprint(w, jqueryIndex)
		case "/jquery-3.7.1.min.js", "/jquery-3.6.0.min.js":
			fmt.Fprint(w, "/* jquery */")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return download.New(
		download.WithHTTPClient(server.Client()),
		download.WithIndexURL(server.URL+"/jquery/"),
		download.WithBaseURL(server.URL),
		download.WithProgress(nil),
	)
}

func fileFor(t *testing.T, gen plugin.FileType, path, content string) *plugin.File {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	f := plugin.NewFile(gen, path)
	f.Content = content
	return f
}

func TestJQueryLatest(t *testing.T) {
	g := newJQuery(jqueryServer(t))
	res := create(t, g, request("index.html"))
	if got := res.Attrs[AttrJQueryVersion]; got != "3.7.1" {
		t.Errorf("version attr = %q, want latest 3.7.1", got)
	}
	for _, w := range []string{"src='jquery-3.7.1.min.js'", "$(document).ready(function () {", "href='main.css'"} {
		if !strings.Contains(res.Content, w) {
			t.Errorf("content missing %q:\n%s", w, res.Content)
		}
	}
}

func TestJQueryVersionArgs(t *testing.T) {
	g := newJQuery(download.New(download.WithIndexURL("http://127.0.0.1:0/unreachable")))

	res := create(t, g, request("index.html", "3.6.0", "-t", "Demo"))
	if res.Attrs[AttrJQueryVersion] != "3.6.0" || !strings.Contains(res.Content, "<title>Demo</title>") {
		t.Errorf("result = %+v", res)
	}

	res = create(t, g, request("index.html", "none"))
	if _, ok := res.Attrs[AttrJQueryVersion]; ok {
		t.Error("version attr set with download skipped")
	}
	if strings.Contains(res.Content, "jquery-") {
		t.Errorf("content references jquery:\n%s", res.Content)
	}
}

func TestJQueryUnreachable(t *testing.T) {
	g := newJQuery(download.New(download.WithIndexURL("http://127.0.0.1:0/unreachable")))
	res := create(t, g, request("index.html"))
	if res.Kind != plugin.KindAbort || !strings.HasPrefix(res.Abort.Reason, "Unable to get jquery version!") {
		t.Errorf("result = %+v, want abort", res)
	}
}

func TestJQueryDLProcess(t *testing.T) {
	client := jqueryServer(t)
	dir := t.TempDir()
	jq := newJQuery(client)
	file := fileFor(t, jq, filepath.Join(dir, "index.html"), "<html>")
	file.Attrs[AttrJQueryVersion] = "3.7.1"

	req := request(file.Path)
	out := req.Out.(*bytes.Buffer)
	if err := newJQueryDL(client).Process(context.Background(), req, file); err != nil {
		t.Fatalf("Process: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "jquery-3.7.1.min.js"))
	if err != nil || string(data) != "/* jquery */" {
		t.Errorf("downloaded = %q, %v", data, err)
	}
	if !strings.Contains(out.String(), "jquerydl       : Download complete: ") {
		t.Errorf("output = %q", out.String())
	}

	other := fileFor(t, newHTML(), filepath.Join(dir, "plain.html"), "<html>")
	other.Attrs[AttrJQueryVersion] = "9.9.9"
	if err := newJQueryDL(client).Process(context.Background(), req, other); err != nil {
		t.Errorf("non-jquery file: %v", err)
	}
}

func TestJQueryDLUnknownVersion(t *testing.T) {
	client := jqueryServer(t)
	file := fileFor(t, newJQuery(client), filepath.Join(t.TempDir(), "index.html"), "<html>")
	file.Attrs[AttrJQueryVersion] = "0.0.0"

	err := newJQueryDL(client).Process(context.Background(), request(file.Path), file)
	if !errors.Is(err, download.ErrUnknownVersion) {
		t.Errorf("err = %v, want ErrUnknownVersion", err)
	}
}

func TestJQueryDLRun(t *testing.T) {
	p := newJQueryDL(jqueryServer(t))

	req := request("")
	code, err := p.Run(context.Background(), req)
	if err != nil || code != 0 {
		t.Fatalf("Run = %d, %v", code, err)
	}
	out := req.Out.(*bytes.Buffer).String()
	want := "3.6.0            - jquery-3.6.0.min.js\n3.7.1            - jquery-3.7.1.min.js\n\nlatest           - jquery-3.7.1.min.js\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	req = request("", "-l")
	if code, err := p.Run(context.Background(), req); err != nil || code != 0 {
		t.Fatalf("Run -l = %d, %v", code, err)
	}
	if got := req.Out.(*bytes.Buffer).String(); got != "3.7.1            - jquery-3.7.1.min.js\n" {
		t.Errorf("latest output = %q", got)
	}
}

func TestChmodx(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no permission bits on windows")
	}
	path := filepath.Join(t.TempDir(), "run.py")
	file := fileFor(t, newPython(), path, "x")
	req := request(path)

	if err := newChmodx().Process(context.Background(), req, file); err != nil {
		t.Fatalf("Process: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != ExecutableMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), ExecutableMode)
	}
	if got := req.Out.(*bytes.Buffer).String(); got != "chmodx         : Made executable (chmod 774)\n" {
		t.Errorf("status = %q", got)
	}

	missing := plugin.NewFile(newPython(), filepath.Join(t.TempDir(), "gone.py"))
	err = newChmodx().Process(context.Background(), req, missing)
	if a, ok := plugin.AsAbort(err); !ok || !strings.HasPrefix(a.Reason, "No file was created") {
		t.Errorf("err = %v, want abort", err)
	}
}

func TestAutoMakefile(t *testing.T) {
	dir := t.TempDir()
	src := fileFor(t, newC(), filepath.Join(dir, "prog.c"), "int main;")
	req := request(src.Path)

	if err := newAutoMakefile().Process(context.Background(), req, src); err != nil {
		t.Fatalf("Process: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "source=prog.c") {
		t.Errorf("makefile:\n%s", data)
	}

	if err := os.WriteFile(filepath.Join(dir, "Makefile"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := newAutoMakefile().Process(context.Background(), req, src); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "Makefile")); string(data) != "keep" {
		t.Error("existing makefile was overwritten")
	}

	py := fileFor(t, newPython(), filepath.Join(t.TempDir(), "a.py"), "x")
	if err := newAutoMakefile().Process(context.Background(), req, py); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(py.Path), "Makefile")); !os.IsNotExist(err) {
		t.Error("makefile created for a python file")
	}
}

func TestOpen(t *testing.T) {
	var ran []string
	p := newOpen()
	p.getenv = func(string) string { return "vim -p" }
	p.run = func(cmd *exec.Cmd) error { ran = cmd.Args; return nil }

	file := plugin.NewFile(newText(), "notes.txt")
	if err := p.Process(context.Background(), request("notes.txt"), file); err != nil {
		t.Fatal(err)
	}
	if strings.Join(ran, " ") != "vim -p notes.txt" {
		t.Errorf("command = %v", ran)
	}

	req := request("notes.txt")
	req.Settings["editor"] = "nano"
	if err := p.Process(context.Background(), req, file); err != nil {
		t.Fatal(err)
	}
	if ran[0] != "nano" {
		t.Errorf("command = %v, want configured editor", ran)
	}

	p.getenv = func(string) string { return "" }
	if err := p.Process(context.Background(), request("notes.txt"), file); err == nil ||
		!strings.Contains(err.Error(), "no editor") {
		t.Errorf("err = %v, want missing editor", err)
	}
}
