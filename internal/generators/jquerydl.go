package generators

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/scaffold-labs/new/internal/download"
	"github.com/scaffold-labs/new/internal/plugin"
)

const jquerydlSynopsis = "jquerydl [-l]"

// jquerydl downloads the jQuery version chosen by the jquery generator.
// Run as a command it lists the available versions.
type jquerydl struct {
	client *download.Client
}

func newJQueryDL(client *download.Client) *jquerydl {
	return &jquerydl{client: client}
}

func (*jquerydl) Name() string    { return "jquerydl" }
func (*jquerydl) Version() string { return "0.0.1" }
func (*jquerydl) Description() string {
	return "Downloads a requested jquery version for the jquery generator.\nThis will not overwrite existing files."
}

func (*jquerydl) flags(latest *bool) *pflag.FlagSet {
	fs := newFlags("jquerydl")
	fs.BoolVarP(latest, "latest", "l", false, "only show the latest version of jquery")
	return fs
}

func (p *jquerydl) Usage() string {
	var b bool
	return usage(jquerydlSynopsis, p.flags(&b)) + "\nThe default action is to list all available jquery versions.\n"
}

func (p *jquerydl) Process(ctx context.Context, req plugin.Request, file *plugin.File) error {
	if plugin.Name(file.Generator) != "jquery" {
		return nil
	}
	version := file.Attr(AttrJQueryVersion)
	if version == "" {
		req.Logger().Debug("no jquery version passed by the jquery generator")
		return nil
	}
	if skipVersion(version) {
		req.Logger().Debug("skipping jquery download", "version", version)
		return nil
	}

	dest := filepath.Join(filepath.Dir(file.Path), download.FileName(version))
	plugin.Status(req.Stdout(), p.Name(), "Downloading: %s", p.client.URL(version))
	fetched, err := p.client.Fetch(ctx, version, dest)
	if err != nil {
		return err
	}
	if !fetched {
		req.Logger().Debug("jquery already exists", "path", dest)
		return nil
	}
	plugin.Status(req.Stdout(), p.Name(), "Download complete: %s", dest)
	return nil
}

// Run lists the available versions, or only the latest with -l.
func (p *jquerydl) Run(ctx context.Context, req plugin.Request) (int, error) {
	var latestOnly bool
	fs := p.flags(&latestOnly)
	if err := parseArgs(fs, jquerydlSynopsis, req.Args); err != nil {
		return 1, err
	}

	releases, err := p.client.Versions(ctx)
	if err != nil {
		return 1, fmt.Errorf("unable to get jquery versions: %w", err)
	}
	latest, ok := download.Latest(releases)
	if latestOnly {
		if !ok {
			return 1, fmt.Errorf("unable to get latest jquery version")
		}
		fmt.Fprintln(req.Stdout(), versionLine(latest.Version, latest.Link))
		return 0, nil
	}

	if len(releases) == 0 {
		return 1, fmt.Errorf("unable to get jquery versions")
	}
	for _, r := range releases {
		fmt.Fprintln(req.Stdout(), versionLine(r.Version, r.Link))
	}
	if ok {
		fmt.Fprintf(req.Stdout(), "\n%s\n", versionLine("latest", latest.Link))
	}
	return 0, nil
}

func versionLine(version, link string) string {
	return fmt.Sprintf("%-16s - %s", version, link)
}
