package generators

import (
	"context"
	"errors"
	"io/fs"

	"github.com/scaffold-labs/new/internal/platform"
	"github.com/scaffold-labs/new/internal/plugin"
)

// ExecutableMode is rwxrwxr--.
const ExecutableMode fs.FileMode = 0774

// chmodx makes new files executable. File types opt out with
// IgnorePost: []string{"chmodx"}.
type chmodx struct{}

func newChmodx() *chmodx { return &chmodx{} }

func (*chmodx) Name() string        { return "chmodx" }
func (*chmodx) Version() string     { return "0.0.1-1" }
func (*chmodx) Description() string { return "Makes new files executable (chmod 774)." }

func (p *chmodx) Process(_ context.Context, req plugin.Request, file *plugin.File) error {
	if err := platform.Chmod(file.Path, ExecutableMode); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return plugin.Abortf("No file was created: %s", file.Path)
		}
		req.Logger().Debug("chmod failed", "path", file.Path, "err", err)
		return nil
	}
	plugin.Status(req.Stdout(), p.Name(), "Made executable (chmod 774)")
	return nil
}
