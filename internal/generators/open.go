package generators

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/scaffold-labs/new/internal/plugin"
)

// open launches an editor on the new file once every other post generator
// succeeded.
type open struct {
	getenv func(string) string
	run    func(*exec.Cmd) error
}

func newOpen() *open {
	return &open{
		getenv: os.Getenv,
		run:    (*exec.Cmd).Run,
	}
}

func (*open) Name() string        { return "open" }
func (*open) Version() string     { return "0.0.2" }
func (*open) Description() string { return "Opens new files with the configured editor or $EDITOR." }
func (*open) Deferred()           {}

func (p *open) Process(ctx context.Context, req plugin.Request, file *plugin.File) error {
	editor := req.Settings.StringOr("editor", p.getenv("EDITOR"))
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return fmt.Errorf("no editor could be found\nSet one in the config with:\n  open:\n    editor: path/editor")
	}

	args := append(fields[1:], file.Path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	plugin.Status(req.Stdout(), p.Name(), "Opening with: %s", strings.Join(cmd.Args, " "))
	if err := p.run(cmd); err != nil {
		return fmt.Errorf("opening editor %s: %w", editor, err)
	}
	return nil
}
