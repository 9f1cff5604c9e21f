// Package cli defines the Cobra command tree for the new CLI. The root
// command creates files; each other file in this package registers one
// subcommand (list, config, version, custom-help) with it. Commands only
// parse flags, format output and map errors to exit codes; the work is
// done by the registry, scaffold and pipeline packages.
package cli
