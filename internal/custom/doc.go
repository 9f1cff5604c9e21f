// Package custom builds file-type generators from configuration. A custom
// generator either copies a template file or emits inline content, and can
// substitute {author}, {date} and similar tags on the way.
package custom
