package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/scaffold-labs/new/internal/branding"
	"github.com/scaffold-labs/new/internal/logging"
	"github.com/scaffold-labs/new/internal/pipeline"
	"github.com/scaffold-labs/new/internal/platform"
	"github.com/scaffold-labs/new/internal/plugin"
	"github.com/scaffold-labs/new/internal/registry"
)

// Stdout is the target name that prints content instead of writing a file.
const Stdout = "-"

// ErrNothingToWrite is wrapped when a generator produced no content.
var ErrNothingToWrite = errors.New("nothing to write")

// Writer is the file-write collaborator.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(path string, data []byte) error

// WriteFile calls f(path, data).
func (f WriterFunc) WriteFile(path string, data []byte) error { return f(path, data) }

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(question string) (bool, error)

// Options are the per-run flags.
type Options struct {
	Args       []string // generator arguments
	DryRun     bool
	Overwrite  bool // replace existing files without asking
	NoOpen     bool // skip the open deferred generator
	Executable bool // run chmodx even when the generator ignores it
}

// Job is one invocation of a file-type generator.
type Job struct {
	Entry   *registry.Entry
	Paths   []string
	Options Options
}

// Engine turns a resolved generator and target path into a written file
// and runs the post generators against it.
type Engine struct {
	Registry *registry.Registry
	// Settings returns the config section of a generator. Nil means empty.
	Settings func(name string) plugin.Settings
	Writer   Writer
	Confirm  ConfirmFunc
	Log      *slog.Logger
	Out      io.Writer
	Err      io.Writer
	// InstallDir is where the tool itself lives; creating host-language
	// files named after generators there is refused.
	InstallDir string
	Getwd      func() (string, error)
}

// New returns an Engine over reg with the default collaborators.
func New(reg *registry.Registry) *Engine {
	e := &Engine{
		Registry: reg,
		Writer:   WriterFunc(platform.WriteFile),
		Confirm:  PromptConfirm,
		Log:      logging.Discard(),
		Out:      os.Stdout,
		Err:      os.Stderr,
		Getwd:    os.Getwd,
	}
	if exe, err := os.Executable(); err == nil {
		e.InstallDir = filepath.Dir(exe)
	}
	return e
}

// EnsureExtension appends the generator's first extension to path unless
// path already ends in one of them, or the generator accepts any extension
// and path has one. Generators without extensions leave path alone.
func EnsureExtension(gen plugin.FileType, path string) string {
	exts := gen.Extensions()
	if len(exts) == 0 || path == Stdout {
		return path
	}
	ext := filepath.Ext(path)
	if ext != "" && gen.Options().AnyExtension {
		return path
	}
	lower := strings.ToLower(path)
	for _, candidate := range exts {
		if candidate != "" && strings.HasSuffix(lower, strings.ToLower(candidate)) {
			return path
		}
	}
	return path + exts[0]
}

// Execute runs a whole job: generate, write and post-process every target.
// A multi-file generator builds one file from all paths. The error is an
// *plugin.Abort, a typed *plugin.Error, or nil; post-processing failures
// are reported as a plugin.PostError carrying the failure count.
func (e *Engine) Execute(ctx context.Context, job Job) error {
	if job.Entry == nil || job.Entry.Type == nil {
		return &plugin.Error{Code: plugin.EUsage, Msg: "not a file-type generator"}
	}
	if len(job.Paths) == 0 {
		return &plugin.Error{Code: plugin.EUsage, Generator: job.Entry.Name, Msg: "no target path"}
	}

	var files []*plugin.File
	if job.Entry.Type.Options().MultiFile {
		file, err := e.GenerateMulti(ctx, job.Entry, job.Paths, job.Options)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	failures := 0
	process := func(file *plugin.File) error {
		written, err := e.Write(file, job.Options)
		if err != nil {
			return err
		}
		if written {
			failures += e.pipeline(job.Options).Run(ctx, file)
		}
		return nil
	}

	if len(files) > 0 {
		if err := process(files[0]); err != nil {
			return err
		}
	} else {
		for _, path := range job.Paths {
			file, err := e.Generate(ctx, job.Entry, path, job.Options)
			if err != nil {
				return err
			}
			if err := process(file); err != nil {
				return err
			}
		}
	}
	if failures > 0 {
		return plugin.PostError(failures)
	}
	return nil
}

// Generate runs a file-type generator for one target path and returns the
// finalized file. Nothing is written. An Abort is returned as the error.
func (e *Engine) Generate(ctx context.Context, entry *registry.Entry, path string, opts Options) (*plugin.File, error) {
	gen := entry.Type
	target := EnsureExtension(gen, path)
	if err := e.checkConflict(entry, path, target); err != nil {
		return nil, err
	}

	req := e.request(entry, target, []string{target}, opts)
	e.logger().Debug("creating file", "generator", entry.Name, "path", target)
	res, err := invoke(ctx, entry.Name, func() (plugin.Result, error) { return gen.Create(ctx, req) })
	if err != nil {
		return nil, err
	}
	return e.finalize(entry, target, res, opts)
}

// GenerateMulti runs a multi-file generator. The first path is the primary
// target; the rest are passed through as inputs.
func (e *Engine) GenerateMulti(ctx context.Context, entry *registry.Entry, paths []string, opts Options) (*plugin.File, error) {
	gen, ok := entry.Type.(plugin.MultiFileType)
	if !ok {
		return nil, &plugin.Error{Code: plugin.EUsage, Generator: entry.Name, Msg: "generator does not accept multiple files"}
	}
	target := EnsureExtension(gen, paths[0])
	if err := e.checkConflict(entry, paths[0], target); err != nil {
		return nil, err
	}

	req := e.request(entry, target, paths, opts)
	e.logger().Debug("creating file from multiple targets", "generator", entry.Name, "paths", paths)
	res, err := invoke(ctx, entry.Name, func() (plugin.Result, error) { return gen.CreateMulti(ctx, req) })
	if err != nil {
		return nil, err
	}
	return e.finalize(entry, target, res, opts)
}

// invoke calls create, converting a panic or a non-Abort error into a
// GenerationError.
func invoke(ctx context.Context, name string, create func() (plugin.Result, error)) (res plugin.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = plugin.GenerationError(name, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := ctx.Err(); err != nil {
		return res, plugin.GenerationError(name, err)
	}
	res, err = create()
	if err != nil {
		if a, ok := plugin.AsAbort(err); ok {
			return plugin.Stop(a), nil
		}
		return res, plugin.GenerationError(name, err)
	}
	return res, nil
}

func (e *Engine) finalize(entry *registry.Entry, target string, res plugin.Result, opts Options) (*plugin.File, error) {
	gen := entry.Type
	allowBlank := gen.Options().AllowBlank

	file := plugin.NewFile(gen, target)
	if opts.Executable {
		file.IgnorePost.Remove("chmodx")
	}
	if opts.NoOpen {
		file.IgnoreDeferred.Add("open")
	}
	for k, v := range res.Attrs {
		file.Attrs[k] = v
	}

	switch res.Kind {
	case plugin.KindAbort:
		if res.Abort == nil {
			return nil, plugin.Quit()
		}
		return nil, res.Abort
	case plugin.KindRedirect:
		r := res.Redirect
		if r == nil || (r.Content == "" && !allowBlank) {
			return nil, plugin.GenerationError(entry.Name, fmt.Errorf("signaled redirect with %w", ErrNothingToWrite))
		}
		if r.Message != "" {
			fmt.Fprintln(e.Out, r.Message)
		}
		file.Content = r.Content
		if r.Filename != "" {
			file.Path = r.Filename
		}
		file.IgnorePost.Add(r.IgnorePost...)
		e.logger().Debug("generator redirected", "generator", entry.Name, "path", file.Path)
	default:
		file.Content = res.Content
		if res.Path != "" {
			file.Path = res.Path
		}
	}

	if file.Content == "" && !allowBlank {
		return nil, plugin.GenerationError(entry.Name, ErrNothingToWrite)
	}
	return file, nil
}

// checkConflict refuses to create a host-language file named after a
// generator or module inside the tool's own directory.
func (e *Engine) checkConflict(entry *registry.Entry, arg, target string) error {
	if entry.Name != branding.HostGenerator() || e.InstallDir == "" || e.Getwd == nil {
		return nil
	}
	base := strings.TrimSuffix(arg, filepath.Ext(arg))
	root := strings.SplitN(filepath.ToSlash(arg), "/", 2)[0]
	if !e.Registry.Known(base) && !e.Registry.Known(root) {
		return nil
	}
	cwd, err := e.Getwd()
	if err != nil || filepath.Clean(cwd) != filepath.Clean(e.InstallDir) {
		return nil
	}
	return &plugin.Error{
		Code:      plugin.EConflict,
		Generator: entry.Name,
		Msg: fmt.Sprintf("creating %s here (%s) would shadow a generator; create it in another directory",
			target, e.InstallDir),
	}
}

func (e *Engine) request(entry *registry.Entry, path string, paths []string, opts Options) plugin.Request {
	settings := e.settings(entry.Name)
	args := opts.Args
	if len(args) == 0 {
		args = settings.Strings("default_args")
	}
	return plugin.Request{
		Path:     path,
		Paths:    paths,
		Args:     args,
		DryRun:   opts.DryRun,
		Settings: settings,
		Log:      e.logger().With("generator", entry.Name),
		Out:      e.Out,
	}
}

func (e *Engine) settings(name string) plugin.Settings {
	if e.Settings == nil {
		return plugin.Settings{}
	}
	return e.Settings(name)
}

func (e *Engine) pipeline(opts Options) *pipeline.Pipeline {
	p := pipeline.New(e.Registry)
	p.SettingsFor = e.Settings
	p.Log = e.logger()
	p.Out = e.Out
	p.Err = e.Err
	p.DryRun = opts.DryRun
	return p
}

func (e *Engine) logger() *slog.Logger {
	if e.Log == nil {
		return logging.Discard()
	}
	return e.Log
}
