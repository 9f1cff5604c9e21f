package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/scaffold-labs/new/internal/branding"
	"github.com/scaffold-labs/new/internal/custom"
	"github.com/scaffold-labs/new/internal/plugin"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys of the reserved sections.
const (
	KeyPlugins = "plugins"
	KeyGlobal  = "plugins.global"
	KeyCustom  = "custom"
)

// Global holds plugins.global.
type Global struct {
	DefaultPlugin   string `mapstructure:"default_plugin"`
	DefaultFilename string `mapstructure:"default_filename"`
	Author          string `mapstructure:"author"`
	Email           string `mapstructure:"email"`
	DefaultVersion  string `mapstructure:"default_version"`
	PluginDir       string `mapstructure:"plugin_dir"`
}

// Plugins holds the plugins section.
type Plugins struct {
	Global           Global   `mapstructure:"global"`
	DisabledTypes    []string `mapstructure:"disabled_types"`
	DisabledPost     []string `mapstructure:"disabled_post"`
	DisabledDeferred []string `mapstructure:"disabled_deferred"`
}

// Config is the loaded user configuration.
type Config struct {
	Plugins Plugins
	Custom  map[string]custom.Definition

	path string
	v    *viper.Viper
}

// Dir returns the path to the config directory (~/.new/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file to use when none is given: $NEW_CONFIG,
// else the first of config.yaml, config.json and config.toml found in Dir,
// else config.yaml.
func FilePath() string {
	if p := os.Getenv(branding.EnvVar("CONFIG")); p != "" {
		return p
	}
	for _, ext := range []string{"yaml", "yml", "json", "toml"} {
		p := filepath.Join(Dir(), fileName+"."+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// DefaultPluginDir returns the default generator module directory.
func DefaultPluginDir() string {
	return filepath.Join(Dir(), "generators")
}

// EnsureDir creates the directory holding path if it does not exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func configType(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case "yml", "":
		return fileType
	default:
		return ext
	}
}

// Load reads the config file at path (FilePath() when empty) with
// NEW_-prefixed environment overrides. A missing file yields the defaults.
// An invalid document is a load error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FilePath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyGlobal+".default_plugin", "python")
	v.SetDefault(KeyGlobal+".default_filename", "new_file")
	v.SetDefault(KeyGlobal+".default_version", custom.DefaultVersion)
	v.SetDefault(KeyGlobal+".author", "")
	v.SetDefault(KeyGlobal+".email", "")
	v.SetDefault(KeyGlobal+".plugin_dir", DefaultPluginDir())

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, plugin.LoadError("", "reading config "+path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, plugin.LoadError("", "reading config "+path, err)
	}

	res, err := Validate(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if !res.Valid {
		msgs := make([]string, len(res.Issues))
		for i, issue := range res.Issues {
			msgs[i] = issue.String()
		}
		return nil, plugin.LoadError("", "invalid config "+path, errors.New(strings.Join(msgs, "; ")))
	}

	c := &Config{path: path, v: v, Custom: map[string]custom.Definition{}}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c.Plugins,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(c.section(KeyPlugins)); err != nil {
		return nil, plugin.LoadError("", "decoding plugins section", err)
	}
	for name, raw := range c.section(KeyCustom) {
		def, err := custom.Decode(name, raw)
		if err != nil {
			return nil, plugin.LoadError(name, "invalid custom generator", err)
		}
		c.Custom[name] = def
	}
	return c, nil
}

// Path returns the config file path, whether or not it exists.
func (c *Config) Path() string { return c.path }

// section returns the nested map at the dotted key from the effective
// settings, which include environment overrides.
func (c *Config) section(key string) map[string]any {
	var cur any = c.v.AllSettings()
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return map[string]any{}
		}
		cur = m[part]
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// Global returns plugins.global as settings.
func (c *Config) Global() plugin.Settings {
	return plugin.Settings(c.section(KeyGlobal))
}

// Settings returns the config section of the generator name merged with
// the global settings.
func (c *Config) Settings(name string) plugin.Settings {
	own := plugin.Settings{}
	if name != "" && name != KeyPlugins && name != KeyCustom {
		own = plugin.Settings(c.section(name))
	}
	return own.Merge(c.Global())
}

// Section returns the generator's own config section, without globals.
func (c *Config) Section(name string) plugin.Settings {
	return plugin.Settings(c.section(name))
}

// Get returns a config value by key. Returns empty string if not set.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func (c *Config) Set(key, value string) error {
	if err := EnsureDir(c.path); err != nil {
		return err
	}
	c.v.Set(key, value)

	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		f, err := os.Create(c.path)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", c.path, err)
		}
		f.Close()
	}
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Dump writes the effective configuration as YAML, or JSON when asJSON.
func (c *Config) Dump(w io.Writer, asJSON bool) error {
	return DumpValue(w, c.v.AllSettings(), asJSON)
}

// DumpValue writes v as YAML, or indented JSON when asJSON.
func DumpValue(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return enc.Close()
}

// CustomNames returns the names of the custom definitions in order.
func (c *Config) CustomNames() []string {
	names := make([]string, 0, len(c.Custom))
	for n := range c.Custom {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
