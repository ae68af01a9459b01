package prompt

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// Values maps placeholder names to their substitutions.
type Values map[string]string

// Render substitutes every {{name}} placeholder in tpl that has a value.
// Placeholders without a value are left as written. Each name in required
// whose placeholder does not appear in tpl has its value appended after the
// template, so a custom template can never drop required content.
func Render(tpl string, values Values, required ...string) string {
	present := make(map[string]bool)
	out := placeholderPattern.ReplaceAllStringFunc(tpl, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		present[name] = true
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})

	for _, name := range required {
		v := values[name]
		if present[name] || strings.TrimSpace(v) == "" {
			continue
		}
		if trimmed := strings.TrimRight(out, "\n"); trimmed != "" {
			out = trimmed + "\n\n" + v
		} else {
			out = v
		}
		present[name] = true
	}
	return out
}

// Placeholders returns the distinct placeholder names in tpl, in order of
// first appearance.
func Placeholders(tpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(tpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
