package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scaffold-labs/new/internal/config"
	"github.com/scaffold-labs/new/internal/download"
	"github.com/scaffold-labs/new/internal/generators"
	"github.com/scaffold-labs/new/internal/logging"
	"github.com/scaffold-labs/new/internal/registry"
	"github.com/scaffold-labs/new/internal/scaffold"
)

// confirm asks the yes/no questions of the engine and the generators.
var confirm scaffold.ConfirmFunc = scaffold.PromptConfirm

// app is the state shared by the commands: the loaded config, the logger
// and the generator registry.
type app struct {
	cfg *config.Config
	log *slog.Logger
	reg *registry.Registry
}

func loadApp(cmd *cobra.Command) (*app, error) {
	log := logging.New(logging.WithDebug(flagDebug), logging.WithWriter(cmd.ErrOrStderr()))

	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return nil, err
	}
	log.Debug("config loaded", "path", cfg.Path())

	client := download.New(download.WithProgress(cmd.ErrOrStderr()))
	reg, err := registry.Load(registry.LoadOptions{
		Modules: generators.Builtins(generators.Options{Client: client, Confirm: confirm}),
		Dir:     cfg.Plugins.Global.PluginDir,
		Custom:  cfg.Custom,
		Disabled: registry.Disabled{
			Types:    cfg.Plugins.DisabledTypes,
			Post:     cfg.Plugins.DisabledPost,
			Deferred: cfg.Plugins.DisabledDeferred,
		},
		Log: log,
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, reg: reg}, nil
}

func (a *app) resolver() *registry.Resolver {
	g := a.cfg.Plugins.Global
	return registry.NewResolver(a.reg, g.DefaultPlugin, g.DefaultFilename)
}

func (a *app) engine(cmd *cobra.Command) *scaffold.Engine {
	e := scaffold.New(a.reg)
	e.Settings = a.cfg.Settings
	e.Confirm = confirm
	e.Log = a.log
	e.Out = cmd.OutOrStdout()
	e.Err = cmd.ErrOrStderr()
	return e
}
