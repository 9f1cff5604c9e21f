// Package config manages user-level settings stored at ~/.new/config.yaml
// (JSON and TOML are read too). The document has reserved sections:
// plugins.global for defaults and format tags, plugins.disabled_* lists,
// and custom for config-defined generators. Every other top-level key is
// the config section of the generator with that name. The raw document is
// validated against an embedded JSON schema before it is decoded.
package config
