package generators

import (
	"context"

	"github.com/scaffold-labs/new/internal/plugin"
)

// text creates blank files with any extension.
type text struct{ info }

func newText() *text {
	return &text{info{
		names:       []string{"text", "txt", "blank"},
		exts:        []string{".txt"},
		version:     "0.0.1",
		description: "Creates a blank text file (no content).",
		opts: plugin.TypeOptions{
			AllowBlank:   true,
			AnyExtension: true,
			IgnorePost:   []string{"chmodx"},
		},
	}}
}

func (*text) Create(context.Context, plugin.Request) (plugin.Result, error) {
	return plugin.Content(""), nil
}
