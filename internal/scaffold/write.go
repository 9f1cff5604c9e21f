package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/scaffold-labs/new/internal/platform"
	"github.com/scaffold-labs/new/internal/plugin"
)

// Write stores file according to opts. It reports whether a file was
// actually written; printing to stdout and dry runs return false so the
// caller skips post-processing.
func (e *Engine) Write(file *plugin.File, opts Options) (bool, error) {
	if !file.Generator.Options().KeepNewlines {
		file.Content = ensureNewline(file.Content)
	}

	if file.Path == Stdout {
		fmt.Fprint(e.Out, file.Content)
		return false, nil
	}
	if opts.DryRun {
		fmt.Fprintf(e.Out, "Dry run, would've written: %s\n", file.Path)
		fmt.Fprint(e.Out, file.Content)
		return false, nil
	}

	if platform.Exists(file.Path) && !opts.Overwrite {
		ok, err := e.confirm(fmt.Sprintf("File exists!: %s\n\nOverwrite the file?", file.Path))
		if err != nil {
			return false, err
		}
		if !ok {
			return false, plugin.Abortf("User cancelled.")
		}
	}

	if err := e.Writer.WriteFile(file.Path, []byte(file.Content)); err != nil {
		return false, plugin.WriteError(file.Path, err)
	}
	file.Written = true
	fmt.Fprintf(e.Out, "Created (%s) %s\n", plugin.Name(file.Generator), file.Path)
	e.logger().Debug("wrote file", "path", file.Path, "bytes", len(file.Content))
	return true, nil
}

func (e *Engine) confirm(question string) (bool, error) {
	if e.Confirm == nil {
		return false, nil
	}
	return e.Confirm(question)
}

// PromptConfirm asks question on the terminal. Declining or interrupting
// both answer no.
func PromptConfirm(question string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return true, nil
}

// ensureNewline leaves exactly one trailing newline on non-blank content.
func ensureNewline(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimRight(s, "\n") + "\n"
}
