// Package pipeline runs post generators against a written file in two
// phases: ordinary post generators in name order, then deferred ones, which
// are cancelled when any ordinary generator failed. An Abort from any
// generator stops the whole pipeline.
package pipeline
