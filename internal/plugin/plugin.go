package plugin

import (
	"context"
	"io"
	"log/slog"
)

// TypeOptions describes how the execution engine treats a file-type generator.
type TypeOptions struct {
	AllowBlank     bool     // an empty result is a valid file
	AnyExtension   bool     // keep whatever extension the user typed
	MultiFile      bool     // accepts several target paths in one invocation
	KeepNewlines   bool     // skip trailing newline normalization on write
	Private        bool     // hidden from listings
	IgnorePost     []string // post generators skipped for files of this type
	IgnoreDeferred []string // deferred generators skipped for files of this type
}

// FileType is a generator that produces the content of a new file.
type FileType interface {
	// Names returns the aliases; the first one is canonical.
	Names() []string
	// Extensions returns the default extensions, most preferred first.
	Extensions() []string
	Options() TypeOptions
	Create(ctx context.Context, req Request) (Result, error)
}

// MultiFileType is a FileType that can build one file from several targets.
type MultiFileType interface {
	FileType
	CreateMulti(ctx context.Context, req Request) (Result, error)
}

// Post is a generator that runs against a file after it has been written.
type Post interface {
	Name() string
	Process(ctx context.Context, req Request, file *File) error
}

// Deferred marks a Post that runs only after every ordinary post generator
// finished without error.
type Deferred interface {
	Post
	Deferred()
}

// Describer is implemented by generators with a one-line description.
type Describer interface {
	Description() string
}

// Versioner is implemented by generators that carry their own version.
type Versioner interface {
	Version() string
}

// Helper is implemented by generators that accept extra arguments.
type Helper interface {
	Usage() string
}

// Runner is implemented by post generators that can be invoked directly
// as a command, outside of the post-processing pipeline.
type Runner interface {
	Run(ctx context.Context, req Request) (int, error)
}

// Request carries the per-invocation inputs of a generator.
type Request struct {
	Path     string   // target path, after extension normalization
	Paths    []string // every target path, for multi-file generators
	Args     []string // generator arguments given after "--"
	DryRun   bool
	Settings Settings // the generator's config section merged with globals
	Log      *slog.Logger
	Out      io.Writer
}

// Logger returns the request logger, or a discarding logger when unset.
func (r Request) Logger() *slog.Logger {
	if r.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Log
}

// Stdout returns the request output writer, or io.Discard when unset.
func (r Request) Stdout() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

// Name returns the canonical name of a generator.
func Name(g any) string {
	switch v := g.(type) {
	case FileType:
		if names := v.Names(); len(names) > 0 {
			return names[0]
		}
	case Post:
		return v.Name()
	}
	return ""
}

// Description returns the generator description, if it has one.
func Description(g any) string {
	if d, ok := g.(Describer); ok {
		return d.Description()
	}
	return ""
}

// Version returns the generator version, if it has one.
func Version(g any) string {
	if v, ok := g.(Versioner); ok {
		return v.Version()
	}
	return ""
}
