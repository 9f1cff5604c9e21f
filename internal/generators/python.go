package generators

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/scaffold-labs/new/internal/plugin"
)

const pythonSynopsis = "python [TEMPLATE] [IMPORTS...] | python --templates"

// pythonTemplate selects a template file and its default imports.
type pythonTemplate struct {
	file    string
	imports []string
	test    bool
}

var pythonTemplates = map[string]pythonTemplate{
	"blank":    {file: "python_blank"},
	"none":     {file: "python_blank"},
	"normal":   {file: "python_normal", imports: []string{"os", "sys"}},
	"test":     {file: "python_test", imports: []string{"sys", "unittest"}, test: true},
	"unittest": {file: "python_test", imports: []string{"sys", "unittest"}, test: true},
}

type python struct{ info }

func newPython() *python {
	return &python{info{
		names:       []string{"python", "py"},
		exts:        []string{".py"},
		version:     "0.3.3",
		description: "Creates a new python source file from one of several templates.",
	}}
}

func (*python) flags(list *bool) *pflag.FlagSet {
	fs := newFlags("python")
	fs.BoolVarP(list, "templates", "t", false, "list known template names")
	return fs
}

func (g *python) Usage() string {
	var b bool
	return usage(pythonSynopsis, g.flags(&b)) + "\nTemplates:\n    " + strings.Join(templateNames(), ", ") + "\n"
}

func (g *python) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	var list bool
	fs := g.flags(&list)
	if err := parseArgs(fs, pythonSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}
	if list {
		names := templateNames()
		fmt.Fprintf(req.Stdout(), "Found %d python templates:\n\n    %s\n", len(names), strings.Join(names, "\n    "))
		return plugin.Stop(plugin.Quit()), nil
	}

	args := fs.Args()
	id := strings.ToLower(req.Settings.StringOr("template", "normal"))
	if len(args) > 0 {
		id, args = strings.ToLower(args[0]), args[1:]
	}
	tmpl, ok := pythonTemplates[id]
	if !ok {
		return plugin.Result{}, fmt.Errorf("no template by that name: %s\nUse '-t' or '--templates' to list known templates", id)
	}

	imports, err := pythonImports(append(args, tmpl.imports...))
	if err != nil {
		return plugin.Result{}, err
	}
	script := filepath.Base(req.Path)
	data := struct {
		header
		Shebang     string
		Script      string
		Target      string
		Explanation string
		Imports     string
	}{
		header:      headerFor(req, stem(req.Path)),
		Shebang:     req.Settings.StringOr("shebangexe", "/usr/bin/env python3"),
		Script:      script,
		Explanation: req.Settings.String("explanation"),
		Imports:     imports,
	}

	if !tmpl.test {
		content, err := render(tmpl.file, data)
		if err != nil {
			return plugin.Result{}, err
		}
		return plugin.Content(content), nil
	}

	if target, ok := strings.CutPrefix(script, "test_"); ok {
		data.Target = target
		content, err := render(tmpl.file, data)
		if err != nil {
			return plugin.Result{}, err
		}
		return plugin.Content(content), nil
	}
	data.Target = script
	data.Script = "test_" + script
	content, err := render(tmpl.file, data)
	if err != nil {
		return plugin.Result{}, err
	}
	return plugin.Redirect(plugin.Redirection{
		Message:  "Switching to unittest file name format.",
		Filename: filepath.Join(filepath.Dir(req.Path), data.Script),
		Content:  content,
	}), nil
}

func templateNames() []string {
	names := make([]string, 0, len(pythonTemplates))
	for name := range pythonTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pythonImports turns module names into import lines: "os" becomes
// "import os" and "os.path.join" becomes "from os.path import join".
// Plain imports come first, then a blank line and the from-imports.
func pythonImports(modules []string) (string, error) {
	var lines []string
	for _, m := range modules {
		if strings.ContainsAny(m, " \t;") || strings.Trim(m, ".") != m {
			return "", plugin.Abortf("Invalid import: %q", m)
		}
		if i := strings.LastIndex(m, "."); i >= 0 {
			lines = append(lines, fmt.Sprintf("from %s import %s", m[:i], m[i+1:]))
		} else {
			lines = append(lines, "import "+m)
		}
	}
	var imps, froms []string
	for _, line := range sortedSet(lines) {
		if strings.HasPrefix(line, "import ") {
			imps = append(imps, line)
		} else {
			froms = append(froms, line)
		}
	}
	if len(froms) > 0 && len(imps) > 0 {
		imps = append(imps, "")
	}
	return strings.Join(append(imps, froms...), "\n"), nil
}
