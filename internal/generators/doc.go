// Package generators holds the built-in generators: file types for common
// languages (text, bash, python, go, c, html, js, rust, makefile) and the
// post generators that run after a file is written (chmodx, automakefile,
// jquerydl, open).
//
// Each generator parses its own arguments with a pflag.FlagSet, so
// "new bash hello -- -a" passes "-a" to the bash generator only.
package generators
