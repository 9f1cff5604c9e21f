package custom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/scaffold-labs/new/internal/plugin"
)

// Definition is the configuration of a custom generator, as found under the
// "custom" config key or in a generator module file.
type Definition struct {
	Name           string   `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Aliases        []string `mapstructure:"aliases" yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Extensions     []string `mapstructure:"extensions" yaml:"extensions,omitempty" json:"extensions,omitempty"`
	Filename       string   `mapstructure:"filename" yaml:"filename,omitempty" json:"filename,omitempty"`
	Content        any      `mapstructure:"content" yaml:"content,omitempty" json:"content,omitempty"`
	Description    string   `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	Formatted      bool     `mapstructure:"formatted" yaml:"formatted,omitempty" json:"formatted,omitempty"`
	AllowBadTags   bool     `mapstructure:"allow_bad_tags" yaml:"allow_bad_tags,omitempty" json:"allow_bad_tags,omitempty"`
	IgnorePost     []string `mapstructure:"ignore_post" yaml:"ignore_post,omitempty" json:"ignore_post,omitempty"`
	IgnoreDeferred []string `mapstructure:"ignore_deferred" yaml:"ignore_deferred,omitempty" json:"ignore_deferred,omitempty"`
	Private        bool     `mapstructure:"private" yaml:"private,omitempty" json:"private,omitempty"`
}

// Decode builds a Definition from a raw config entry. name is the key the
// entry was found under and becomes the canonical name.
func Decode(name string, raw any) (Definition, error) {
	var def Definition
	if raw == nil {
		return def, fmt.Errorf("no info for custom generator %q", name)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return def, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return def, fmt.Errorf("decoding custom generator %q: %w", name, err)
	}
	def.Name = name
	return def, nil
}

// Names returns the canonical name followed by the aliases, lowercased.
func (d Definition) Names() []string {
	names := make([]string, 0, len(d.Aliases)+1)
	names = append(names, strings.ToLower(d.Name))
	for _, a := range d.Aliases {
		names = append(names, strings.ToLower(a))
	}
	return names
}

// ContentString joins list content with newlines.
func (d Definition) ContentString() string {
	switch v := d.Content.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	case []any:
		lines := make([]string, len(v))
		for i, line := range v {
			lines[i] = fmt.Sprint(line)
		}
		return strings.Join(lines, "\n")
	}
	return fmt.Sprint(d.Content)
}

// Generator is a file-type generator backed by a Definition.
type Generator struct {
	def     Definition
	names   []string
	file    string
	content string
}

// New validates def and returns its generator.
func New(def Definition) (*Generator, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("custom generator is missing a name")
	}
	content := def.ContentString()
	switch {
	case def.Filename == "" && content == "":
		return nil, fmt.Errorf("custom generator %q is not configured correctly: no 'filename' or 'content' set", def.Name)
	case def.Filename != "" && content != "":
		return nil, fmt.Errorf("custom generator %q is not configured correctly: either 'filename' or 'content' can be set, not both", def.Name)
	}
	return &Generator{
		def:     def,
		names:   def.Names(),
		file:    expandPath(def.Filename),
		content: content,
	}, nil
}

// expandPath expands a leading ~ when path does not exist as given.
func expandPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (g *Generator) Names() []string      { return g.names }
func (g *Generator) Extensions() []string { return g.def.Extensions }

func (g *Generator) Options() plugin.TypeOptions {
	return plugin.TypeOptions{
		AnyExtension:   true,
		Private:        g.def.Private,
		IgnorePost:     g.def.IgnorePost,
		IgnoreDeferred: g.def.IgnoreDeferred,
	}
}

// Description implements plugin.Describer.
func (g *Generator) Description() string { return g.def.Description }

// Definition returns the configuration the generator was built from.
func (g *Generator) Definition() Definition { return g.def }

// Usage implements plugin.Helper.
func (g *Generator) Usage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Custom generator %s.\n", g.names[0])
	if g.file != "" {
		fmt.Fprintf(&b, "Based on: %s\n", g.file)
		if _, err := os.Stat(g.file); err != nil {
			b.WriteString("          This path does not exist!\n")
		}
	} else {
		fmt.Fprintf(&b, "Based on content:\n  %s\n", preview(g.content, 77))
	}
	if g.def.Formatted {
		b.WriteString("Content is formatted with {tag} values.\n")
	}
	return b.String()
}

// Create returns the configured content, formatted when requested.
func (g *Generator) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	log := req.Logger()
	content := g.content
	source := "content"
	if g.file != "" {
		data, err := os.ReadFile(g.file)
		if err != nil {
			return plugin.Stop(plugin.Abortf("Failed to read custom file: %s\n%v", g.file, err)), nil
		}
		content = string(data)
		source = "file, " + g.file
		log.Debug("custom content loaded", "file", g.file)
	} else {
		log.Debug("custom content used", "preview", preview(content, 40))
	}
	if !g.def.Formatted {
		return plugin.Content(content), nil
	}
	out, err := Format(content, Tags(req.Settings), g.def.AllowBadTags)
	if err != nil {
		if bad, ok := err.(*UnknownTagError); ok {
			return plugin.Stop(plugin.Abortf("Unknown format tag in %s's %s:\n%s", g.names[0], source, bad.Detail())), nil
		}
		return plugin.Result{}, err
	}
	return plugin.Content(out), nil
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) < max {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q", string(r[:max])+"...")
}
