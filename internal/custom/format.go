package custom

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/scaffold-labs/new/internal/plugin"
)

// tagPattern matches escaped braces and {word} tags.
var tagPattern = regexp.MustCompile(`\{\{|\}\}|\{(\w+)\}`)

// DefaultVersion is the {version} value when no default_version is set.
const DefaultVersion = "0.0.1"

// now is replaced in tests.
var now = time.Now

// Tags returns the known tag values for settings. Every other global
// setting with a scalar value is available as a tag too.
func Tags(settings plugin.Settings) map[string]string {
	today := now()
	tags := make(map[string]string, len(settings)+5)
	for _, key := range settings.Keys() {
		switch settings[key].(type) {
		case map[string]any, []any, []string:
			continue
		}
		tags[key] = settings.String(key)
	}
	tags["author"] = settings.StringOr("author", "(no author set)")
	tags["email"] = settings.StringOr("email", "(no email set)")
	tags["date"] = today.Format("01-02-2006")
	tags["year"] = fmt.Sprint(today.Year())
	tags["version"] = settings.StringOr("default_version", DefaultVersion)
	return tags
}

// UnknownTagError reports a {tag} with no value.
type UnknownTagError struct {
	Tag    string
	Line   int
	Column int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown format tag {%s} at line %d, column %d", e.Tag, e.Line, e.Column)
}

// Detail is the multi-line description shown to users.
func (e *UnknownTagError) Detail() string {
	return fmt.Sprintf("  Tag: {%s}\n  Line: %d, Column: %d\n  Set 'allow_bad_tags' to keep unknown tags as they are.", e.Tag, e.Line, e.Column)
}

// Format replaces {tag} placeholders in content with values from tags.
// "{{" and "}}" produce literal braces. Unknown tags are an error unless
// allowBad is set, in which case they are kept as written.
func Format(content string, tags map[string]string, allowBad bool) (string, error) {
	var b strings.Builder
	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(content, -1) {
		b.WriteString(content[last:m[0]])
		last = m[1]
		match := content[m[0]:m[1]]
		switch match {
		case "{{":
			b.WriteByte('{')
			continue
		case "}}":
			b.WriteByte('}')
			continue
		}
		name := content[m[2]:m[3]]
		val, ok := tags[name]
		if !ok {
			if !allowBad {
				line, col := position(content, m[0])
				return "", &UnknownTagError{Tag: name, Line: line, Column: col}
			}
			val = match
		}
		b.WriteString(val)
	}
	b.WriteString(content[last:])
	return b.String(), nil
}

// position returns the 1-based line and column of offset in s.
func position(s string, offset int) (int, int) {
	before := s[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndex(before, "\n")
	return line, col
}
