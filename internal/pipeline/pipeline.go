package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/scaffold-labs/new/internal/logging"
	"github.com/scaffold-labs/new/internal/plugin"
	"github.com/scaffold-labs/new/internal/registry"
)

// outcome is the result of one post generator.
type outcome int

const (
	success outcome = iota
	failure
	fatal
)

// Pipeline runs the post generators of a registry.
type Pipeline struct {
	reg *registry.Registry
	// SettingsFor returns the config section of a generator. Nil means empty.
	SettingsFor func(name string) plugin.Settings
	Log         *slog.Logger
	Out         io.Writer
	Err         io.Writer
	DryRun      bool
}

// New returns a Pipeline over reg writing status to stdout and diagnostics
// to stderr.
func New(reg *registry.Registry) *Pipeline {
	return &Pipeline{reg: reg, Log: logging.Discard(), Out: os.Stdout, Err: os.Stderr}
}

// Run processes file and returns the number of failed post generators.
func (p *Pipeline) Run(ctx context.Context, file *plugin.File) int {
	errCount := 0
	for _, e := range p.reg.Posts() {
		if file.IgnorePost.Has(e.Name) {
			p.logger().Debug("skipping post generator", "name", e.Name, "generator", plugin.Name(file.Generator))
			continue
		}
		switch p.try(ctx, e, file) {
		case fatal:
			return errCount + 1
		case failure:
			errCount++
		}
	}

	deferred := p.reg.Deferreds()
	if errCount > 0 {
		if len(deferred) > 0 {
			p.logger().Debug("cancelling deferred post generators", "errors", errCount, "count", len(deferred))
		}
		return errCount
	}

	for _, e := range deferred {
		if file.IgnoreDeferred.Has(e.Name) {
			p.logger().Debug("skipping deferred post generator", "name", e.Name, "generator", plugin.Name(file.Generator))
			continue
		}
		switch p.try(ctx, e, file) {
		case fatal:
			return errCount + 1
		case failure:
			errCount++
		}
	}
	return errCount
}

// try runs one post generator, converting an Abort, an error or a panic
// into an outcome.
func (p *Pipeline) try(ctx context.Context, e *registry.Entry, file *plugin.File) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(p.Err, "\nError in post-processing generator '%s':\n%v\n", e.Name, r)
			out = failure
		}
	}()

	err := e.Post.Process(ctx, p.request(e, file), file)
	if err == nil {
		return success
	}
	if a, ok := plugin.AsAbort(err); ok {
		if a.Reason != "" {
			fmt.Fprintf(p.Err, "\nFatal error in post-processing generator '%s':\n%s\n", e.Name, a.Reason)
		} else {
			fmt.Fprintf(p.Err, "\nFatal error in post-processing generator: '%s'\n", e.Name)
		}
		fmt.Fprintln(p.Err, "\nCancelling all post generators.")
		return fatal
	}
	fmt.Fprintf(p.Err, "\nError in post-processing generator '%s':\n%v\n", e.Name, err)
	return failure
}

func (p *Pipeline) request(e *registry.Entry, file *plugin.File) plugin.Request {
	settings := plugin.Settings{}
	if p.SettingsFor != nil {
		settings = p.SettingsFor(e.Name)
	}
	return plugin.Request{
		Path:     file.Path,
		Paths:    []string{file.Path},
		DryRun:   p.DryRun,
		Settings: settings,
		Log:      p.logger().With("generator", e.Name),
		Out:      p.Out,
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Log == nil {
		return logging.Discard()
	}
	return p.Log
}
