package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"litreview-ai/internal/storage"
)

var fencePattern = regexp.MustCompile("(?s)```[A-Za-z]*\\s*\\n?(.*?)```")

// listSplitPattern separates entries of a list field that came back as one string.
var listSplitPattern = regexp.MustCompile(`\n|;\s*`)

// ParseDraft turns a model reply into record content. It tolerates code
// fences and prose around the JSON object, list fields sent as strings and
// string fields sent as lists. Keys without a dedicated field land in
// ExtraFields when fieldKeys asks for them; a nil fieldKeys keeps them all.
func ParseDraft(reply string, fieldKeys []string) (storage.RecordDraft, error) {
	obj, err := decodeObject(reply)
	if err != nil {
		return storage.RecordDraft{}, err
	}

	var wanted map[string]bool
	if fieldKeys != nil {
		wanted = make(map[string]bool, len(fieldKeys))
		for _, k := range fieldKeys {
			wanted[canonicalKey(k)] = true
		}
	}

	var draft storage.RecordDraft
	for key, raw := range obj {
		switch canonicalKey(key) {
		case "title":
			draft.Title = asString(raw, " ")
		case "authors":
			draft.Authors = asString(raw, "; ")
		case "journal":
			draft.Journal = asString(raw, "; ")
		case "publicationdate":
			draft.PublicationDate = asString(raw, " ")
		case "abstract":
			draft.Abstract = asString(raw, "\n")
		case "background":
			draft.Background = asString(raw, "\n")
		case "review":
			draft.Review = asString(raw, "\n")
		case "methods":
			draft.Methods = asString(raw, "\n")
		case "conclusions":
			draft.Conclusions = asString(raw, "\n")
		case "keyfindings":
			draft.KeyFindings = asList(raw, false)
		case "classificationtags":
			draft.ClassificationTags = asList(raw, true)
		default:
			if wanted != nil && !wanted[canonicalKey(key)] {
				continue
			}
			v := asString(raw, "\n")
			if v == "" {
				continue
			}
			if draft.ExtraFields == nil {
				draft.ExtraFields = make(map[string]string)
			}
			draft.ExtraFields[key] = v
		}
	}
	return draft, nil
}

// MissingKeys returns the keys of want that the reply object does not carry.
func MissingKeys(reply string, want []string) []string {
	obj, err := decodeObject(reply)
	if err != nil {
		return want
	}
	have := make(map[string]bool, len(obj))
	for k := range obj {
		have[canonicalKey(k)] = true
	}
	var missing []string
	for _, k := range want {
		if !have[canonicalKey(k)] {
			missing = append(missing, k)
		}
	}
	return missing
}

func decodeObject(reply string) (map[string]any, error) {
	text := strings.TrimSpace(reply)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrMalformedResponse)
	}
	return obj, nil
}

// canonicalKey folds "publication_date", "Publication Date" and
// "publicationDate" to the same key.
func canonicalKey(key string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(key) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func asString(v any, sep string) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := asString(e, sep); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func asList(v any, commas bool) []string {
	out := []string{}
	add := func(s string) {
		s = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "-*•"))
		if s != "" {
			out = append(out, s)
		}
	}

	switch t := v.(type) {
	case []any:
		for _, e := range t {
			add(asString(e, " "))
		}
	case string:
		parts := listSplitPattern.Split(t, -1)
		for _, p := range parts {
			if commas {
				for _, q := range strings.Split(p, ",") {
					add(q)
				}
				continue
			}
			add(p)
		}
	default:
		add(asString(t, " "))
	}
	return out
}
