package plugin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Settings is a generator's configuration section.
type Settings map[string]any

// String returns the value of key as a string, or "" when unset.
func (s Settings) String(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// StringOr returns the value of key, or def when it is unset or empty.
func (s Settings) StringOr(key, def string) string {
	if v := s.String(key); v != "" {
		return v
	}
	return def
}

// Bool reports whether key is set to a truthy value.
func (s Settings) Bool(key string) bool {
	v, ok := s[key]
	if !ok || v == nil {
		return false
	}
	return cast.ToBool(v)
}

// Strings returns the value of key as a list. A single string is split on
// commas.
func (s Settings) Strings(key string) []string {
	v, ok := s[key]
	if !ok || v == nil {
		return nil
	}
	if str, ok := v.(string); ok {
		var out []string
		for _, part := range strings.Split(str, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return cast.ToStringSlice(v)
}

// Merge returns a copy of s where keys missing or empty in s are filled
// from fallback.
func (s Settings) Merge(fallback Settings) Settings {
	out := make(Settings, len(s)+len(fallback))
	for k, v := range fallback {
		out[k] = v
	}
	for k, v := range s {
		if isEmpty(v) {
			if _, ok := fallback[k]; ok {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Keys returns the sorted keys of s.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return fmt.Sprint(v) == ""
}
