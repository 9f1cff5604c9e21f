// Package plugin defines the contract every generator satisfies. File-type
// generators turn a target path into content, post generators act on a file
// once it has been written, and deferred post generators run last (opening
// an editor, for example). Generators report their outcome with a tagged
// Result instead of unwinding the stack, so the execution engine can treat
// content, redirects, and aborts uniformly.
package plugin
