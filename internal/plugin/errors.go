package plugin

import (
	"errors"
	"fmt"
)

// Code classifies an Error.
type Code string

const (
	ELoad       Code = "load"       // a generator could not be registered
	ENotFound   Code = "not_found"  // no generator matched
	EGeneration Code = "generation" // a file-type generator failed
	EWrite      Code = "write"      // the output file could not be written
	EPost       Code = "post"       // post-processing reported errors
	EConflict   Code = "conflict"   // the target clashes with the tool itself
	EUsage      Code = "usage"
)

// ErrNotFound is wrapped by every resolution failure.
var ErrNotFound = errors.New("no generator found")

// Error is the typed error returned across package boundaries.
type Error struct {
	Code      Code
	Generator string
	Msg       string
	Cause     error
	// Count is the number of failed post generators for EPost errors.
	Count int
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Generator != "" {
		msg = fmt.Sprintf("%s: %s", e.Generator, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// LoadError reports a generator definition that makes the whole load fail.
func LoadError(generator, msg string, cause error) error {
	return &Error{Code: ELoad, Generator: generator, Msg: msg, Cause: cause}
}

// NotFound reports that neither name nor target resolved to a generator.
func NotFound(msg string) error {
	return &Error{Code: ENotFound, Msg: msg, Cause: ErrNotFound}
}

// GenerationError reports a failing file-type generator.
func GenerationError(generator string, cause error) error {
	return &Error{Code: EGeneration, Generator: generator, Msg: "generating file", Cause: cause}
}

// WriteError reports a failed file write.
func WriteError(path string, cause error) error {
	return &Error{Code: EWrite, Msg: "writing " + path, Cause: cause}
}

// PostError reports that count post generators failed.
func PostError(count int) error {
	return &Error{Code: EPost, Msg: fmt.Sprintf("%d post-processing error(s)", count), Count: count}
}

// GetCode extracts the error code from err, or "" if it is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ExitCode maps err to a process exit status. Aborts carry their own code
// and post-processing failures exit with the number of failed generators.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if a, ok := AsAbort(err); ok {
		return a.Code
	}
	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case EPost:
			if e.Count > 0 {
				return e.Count
			}
		case EUsage:
			return 2
		}
	}
	return 1
}
