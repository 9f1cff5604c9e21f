package plugin

import (
	"errors"
	"fmt"
)

// Kind tags the outcome of a file-type generator.
type Kind int

const (
	// KindContent means the generator produced the file content.
	KindContent Kind = iota
	// KindRedirect means the generator changed the output path or content.
	KindRedirect
	// KindAbort means the generator stopped the run.
	KindAbort
)

func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindRedirect:
		return "redirect"
	case KindAbort:
		return "abort"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the tagged outcome of FileType.Create.
type Result struct {
	Kind     Kind
	Content  string
	Path     string // output path chosen by a multi-file generator
	Redirect *Redirection
	Abort    *Abort
	// Attrs are handed to the post generators through File.Attrs.
	Attrs map[string]string
}

// Content returns a content result.
func Content(s string) Result {
	return Result{Kind: KindContent, Content: s}
}

// Output returns a content result written to path. Multi-file generators
// use it to name the file they built.
func Output(path, s string) Result {
	return Result{Kind: KindContent, Content: s, Path: path}
}

// Redirect returns a redirect result.
func Redirect(r Redirection) Result {
	return Result{Kind: KindRedirect, Redirect: &r}
}

// Stop returns an abort result.
func Stop(a *Abort) Result {
	return Result{Kind: KindAbort, Abort: a}
}

// WithAttr returns a copy of r carrying the attribute key=value.
func (r Result) WithAttr(key, value string) Result {
	attrs := make(map[string]string, len(r.Attrs)+1)
	for k, v := range r.Attrs {
		attrs[k] = v
	}
	attrs[key] = value
	r.Attrs = attrs
	return r
}

// Redirection changes where, or what, a generator writes. Empty fields keep
// the current value.
type Redirection struct {
	Message    string
	Filename   string
	Content    string
	IgnorePost []string
}

// Abort stops the whole run with a reason and an exit code. A zero code is
// a silent, successful stop.
type Abort struct {
	Reason string
	Code   int
}

// Abortf returns an Abort with exit code 1.
func Abortf(format string, args ...any) *Abort {
	return &Abort{Reason: fmt.Sprintf(format, args...), Code: 1}
}

// AbortCode returns an Abort with the given exit code.
func AbortCode(code int, reason string) *Abort {
	return &Abort{Reason: reason, Code: code}
}

// Quit returns a silent Abort with exit code 0.
func Quit() *Abort {
	return &Abort{}
}

func (a *Abort) Error() string {
	if a.Reason == "" {
		return fmt.Sprintf("aborted (exit code %d)", a.Code)
	}
	return a.Reason
}

// Silent reports whether the abort should stop without printing anything.
func (a *Abort) Silent() bool {
	return a.Code == 0
}

// AsAbort returns the Abort wrapped in err, if any.
func AsAbort(err error) (*Abort, bool) {
	var a *Abort
	if errors.As(err, &a) {
		return a, true
	}
	return nil, false
}
