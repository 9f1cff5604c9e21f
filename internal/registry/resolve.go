package registry

import (
	"fmt"

	"github.com/scaffold-labs/new/internal/plugin"
)

const (
	// DefaultPlugin is the fallback file-type generator.
	DefaultPlugin = "python"
	// DefaultFilename replaces a target that turned out to be a generator name.
	DefaultFilename = "new_file"
)

// Step records which resolution rule selected the generator.
type Step int

const (
	StepTargetName Step = iota + 1 // the target was a generator name
	StepExplicitName
	StepExtension
	StepDefault
)

func (s Step) String() string {
	switch s {
	case StepTargetName:
		return "target name"
	case StepExplicitName:
		return "explicit name"
	case StepExtension:
		return "extension"
	case StepDefault:
		return "default"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Entry  *Entry
	Target string // target name, rewritten by the name rules
	Step   Step
}

// Resolver picks a generator for an (explicit name, target) pair.
type Resolver struct {
	reg             *Registry
	defaultPlugin   string
	defaultFilename string
}

// NewResolver returns a Resolver over reg. Empty defaults fall back to
// DefaultPlugin and DefaultFilename.
func NewResolver(reg *Registry, defaultPlugin, defaultFilename string) *Resolver {
	if defaultPlugin == "" {
		defaultPlugin = DefaultPlugin
	}
	if defaultFilename == "" {
		defaultFilename = DefaultFilename
	}
	return &Resolver{reg: reg, defaultPlugin: defaultPlugin, defaultFilename: defaultFilename}
}

// DefaultFilename returns the filename used when none was given.
func (r *Resolver) DefaultFilename() string { return r.defaultFilename }

// Resolve selects a generator. The rules are tried in order:
//
//  1. target is a generator alias: select it, target becomes the default filename
//  2. explicit is a generator alias: select it, an empty target becomes the default filename
//  3. the extension of target belongs to a file-type generator
//  4. the configured default generator
//
// usePost extends the alias lookups of rules 1 and 2 to post and deferred
// generators. The error wraps plugin.ErrNotFound when even the default
// generator is unknown.
func (r *Resolver) Resolve(explicit, target string, usePost bool) (*Resolution, error) {
	if e, ok := r.reg.ByName(target, usePost); ok {
		return &Resolution{Entry: e, Target: r.defaultFilename, Step: StepTargetName}, nil
	}
	if explicit != "" {
		if e, ok := r.reg.ByName(explicit, usePost); ok {
			if target == "" {
				target = r.defaultFilename
			}
			return &Resolution{Entry: e, Target: target, Step: StepExplicitName}, nil
		}
	}
	if e, ok := r.reg.ByExtension(target); ok {
		return &Resolution{Entry: e, Target: target, Step: StepExtension}, nil
	}
	if e, ok := r.reg.ByName(r.defaultPlugin, false); ok {
		if target == "" {
			target = r.defaultFilename
		}
		return &Resolution{Entry: e, Target: target, Step: StepDefault}, nil
	}
	return nil, plugin.NotFound(fmt.Sprintf(
		"no generator for %q, and the default generator %q is not loaded", describe(explicit, target), r.defaultPlugin))
}

func describe(explicit, target string) string {
	if explicit != "" && target != "" {
		return explicit + " " + target
	}
	if explicit != "" {
		return explicit
	}
	return target
}
