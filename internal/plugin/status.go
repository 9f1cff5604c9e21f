package plugin

import (
	"fmt"
	"io"
)

// Status prints a generator status line, with the name padded so that
// consecutive lines line up.
func Status(w io.Writer, name, format string, args ...any) {
	fmt.Fprintf(w, "%-15s: %s\n", name, fmt.Sprintf(format, args...))
}
