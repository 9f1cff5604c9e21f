// Package registry loads generators into a Registry and resolves which one
// handles a request. Generators come from the config custom section, from
// the compiled-in module manifest, and from YAML module files in the
// generator directory. Custom and file-type generators share one
// case-insensitive alias index; post and deferred generators are keyed by
// name within their role. The Resolver disambiguates the CLI's
// "generator or file name" positional argument deterministically.
package registry
