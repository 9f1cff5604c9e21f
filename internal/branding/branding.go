// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building; Go's
// //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	GoModule      string `yaml:"go_module"`
	HostGenerator string `yaml:"host_generator"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:       "new",
			DisplayName:   "New",
			Description:   "Create new files from templates",
			HomeDir:       ".new",
			EnvPrefix:     "NEW",
			GoModule:      "github.com/scaffold-labs/new",
			HostGenerator: "go",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "new").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "New").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".new").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "NEW").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path of the tool.
func GoModule() string { load(); return defaults.GoModule }

// HostGenerator returns the name of the file-type generator for the
// language the tool itself is written in. Files it creates inside the
// installation directory could shadow the tool's own sources.
func HostGenerator() string { load(); return defaults.HostGenerator }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("CONFIG") → "NEW_CONFIG".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
