package prompt

import (
	"regexp"
	"slices"
)

var fieldKeyPattern = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_]*)"\s*:`)

// ParseFieldKeys discovers the JSON output keys a template asks for by
// looking for "key": occurrences. Templates that name no keys get
// DefaultFieldKeys.
func ParseFieldKeys(tpl string) []string {
	var keys []string
	for _, m := range fieldKeyPattern.FindAllStringSubmatch(tpl, -1) {
		if !slices.Contains(keys, m[1]) {
			keys = append(keys, m[1])
		}
	}
	if len(keys) == 0 {
		return slices.Clone(DefaultFieldKeys)
	}
	return keys
}
