package generators

import (
	"context"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scaffold-labs/new/internal/download"
	"github.com/scaffold-labs/new/internal/plugin"
)

const (
	htmlSynopsis   = "html [TITLE] [-c FILE...] [-j FILE...]"
	jquerySynopsis = "jquery [VERSION] [-c FILE...] [-j FILE...] [-t TITLE]"

	// AttrJQueryVersion names the file attribute the jquery generator sets
	// for jquerydl.
	AttrJQueryVersion = "jquery.version"
)

var htmlExtensions = []string{".html", ".htm"}

type page struct {
	Title   string
	CSS     []string
	Scripts []string
	Ready   bool
}

type htmlArgs struct {
	css   []string
	js    []string
	title string
}

func htmlFlags(name string, a *htmlArgs, withTitle bool) *pflag.FlagSet {
	fs := newFlags(name)
	fs.StringArrayVarP(&a.css, "css", "c", nil, "relative path to a css file to include (default main.css)")
	fs.StringArrayVarP(&a.js, "js", "j", nil, "relative path to a js file to include")
	if withTitle {
		fs.StringVarP(&a.title, "title", "t", "", "title for the new file")
	}
	return fs
}

// pageTitle turns "my_page.html" into "My Page".
func pageTitle(path string) string {
	words := strings.FieldsFunc(stem(path), func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	if len(words) == 0 {
		return "..."
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func orDefault(list []string, def ...string) []string {
	if len(list) > 0 {
		return list
	}
	return def
}

type html struct{ info }

func newHTML() *html {
	return &html{info{
		names:       []string{"html", "htm"},
		exts:        htmlExtensions,
		version:     "0.0.2",
		description: "Creates an HTML file with common css and js sources included.",
		opts:        plugin.TypeOptions{IgnorePost: []string{"chmodx"}},
	}}
}

func (*html) Usage() string { return usage(htmlSynopsis, htmlFlags("html", &htmlArgs{}, false)) }

func (*html) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	var a htmlArgs
	fs := htmlFlags("html", &a, false)
	if err := parseArgs(fs, htmlSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}
	title := strings.Join(fs.Args(), " ")
	if title == "" {
		title = pageTitle(req.Path)
	}
	content, err := render("html", page{
		Title:   title,
		CSS:     sortedSet(orDefault(a.css, orDefault(req.Settings.Strings("main_css"), "main.css")...)),
		Scripts: sortedSet(orDefault(a.js, orDefault(req.Settings.Strings("main_js"), "main.js")...)),
	})
	if err != nil {
		return plugin.Result{}, err
	}
	return plugin.Content(content), nil
}

// jquery creates an HTML page that loads jQuery. The version, the latest
// stable one by default, is handed to jquerydl which downloads it.
type jquery struct {
	info
	client *download.Client
}

func newJQuery(client *download.Client) *jquery {
	return &jquery{
		info: info{
			names:       []string{"jquery", "jq", "htmljq"},
			exts:        htmlExtensions,
			version:     "0.0.2",
			description: "Creates an HTML file with jQuery boilerplate included.\nThis downloads jQuery if it is not found next to the file.",
			opts:        plugin.TypeOptions{IgnorePost: []string{"chmodx"}},
		},
		client: client,
	}
}

func (*jquery) Usage() string {
	return usage(jquerySynopsis, htmlFlags("jquery", &htmlArgs{}, true)) +
		"\nVERSION is the jQuery version to use, latest by default.\n'no' or 'none' skips the download.\n"
}

func (g *jquery) Create(ctx context.Context, req plugin.Request) (plugin.Result, error) {
	var a htmlArgs
	fs := htmlFlags("jquery", &a, true)
	if err := parseArgs(fs, jquerySynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}

	version := fs.Arg(0)
	skip := skipVersion(version) || req.Settings.Bool("no_download")
	scripts := orDefault(a.js, req.Settings.Strings("main_js")...)
	if !skip && version == "" {
		releases, err := g.client.Versions(ctx)
		if err != nil {
			req.Logger().Debug("fetching jquery versions failed", "err", err)
			return plugin.Stop(plugin.Abortf("Unable to get jquery version!\n%v", err)), nil
		}
		latest, ok := download.Latest(releases)
		if !ok {
			return plugin.Stop(plugin.Abortf("Unable to get jquery version!")), nil
		}
		version = latest.Version
	}
	if !skip {
		scripts = append(scripts, download.FileName(version))
	}

	title := a.title
	if title == "" {
		title = pageTitle(req.Path)
	}
	content, err := render("html", page{
		Title:   title,
		CSS:     sortedSet(orDefault(a.css, orDefault(req.Settings.Strings("main_css"), "main.css")...)),
		Scripts: sortedSet(scripts),
		Ready:   true,
	})
	if err != nil {
		return plugin.Result{}, err
	}
	res := plugin.Content(content)
	if !skip {
		res = res.WithAttr(AttrJQueryVersion, version)
	}
	return res, nil
}

func skipVersion(v string) bool {
	v = strings.ToLower(v)
	return v == "no" || v == "none"
}
