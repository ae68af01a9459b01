package service

import (
	"errors"
	"reflect"
	"testing"

	"litreview-ai/internal/storage"
)

func TestParseDraft(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		check func(t *testing.T, got storage.RecordDraft)
	}{
		{
			name:  "plain object",
			reply: `{"title": "Paper A", "authors": "Doe, J.", "keyFindings": ["one", "two"], "classificationTags": ["ml"]}`,
			check: func(t *testing.T, got storage.RecordDraft) {
				if got.Title != "Paper A" || got.Authors != "Doe, J." {
					t.Errorf("title/authors = %q/%q", got.Title, got.Authors)
				}
				if !reflect.DeepEqual(got.KeyFindings, []string{"one", "two"}) {
					t.Errorf("keyFindings = %v", got.KeyFindings)
				}
			},
		},
		{
			name:  "code fence with prose",
			reply: "Here you go:\n```json\n{\"title\": \"Fenced\", \"methods\": \"RCT\"}\n```\nLet me know.",
			check: func(t *testing.T, got storage.RecordDraft) {
				if got.Title != "Fenced" || got.Methods != "RCT" {
					t.Errorf("title/methods = %q/%q", got.Title, got.Methods)
				}
			},
		},
		{
			name:  "lists as strings and strings as lists",
			reply: `{"keyFindings": "- first\n- second", "classificationTags": "robotics, control; ml", "authors": ["Doe", "Roe"], "conclusions": ["a", "b"]}`,
			check: func(t *testing.T, got storage.RecordDraft) {
				if !reflect.DeepEqual(got.KeyFindings, []string{"first", "second"}) {
					t.Errorf("keyFindings = %v", got.KeyFindings)
				}
				if !reflect.DeepEqual(got.ClassificationTags, []string{"robotics", "control", "ml"}) {
					t.Errorf("classificationTags = %v", got.ClassificationTags)
				}
				if got.Authors != "Doe; Roe" {
					t.Errorf("authors = %q", got.Authors)
				}
				if got.Conclusions != "a\nb" {
					t.Errorf("conclusions = %q", got.Conclusions)
				}
			},
		},
		{
			name:  "key spelling variants and extras",
			reply: `{"publication_date": 2021, "Key Findings": ["x"], "studyDesign": "cohort", "sampleSize": 120, "empty": ""}`,
			check: func(t *testing.T, got storage.RecordDraft) {
				if got.PublicationDate != "2021" {
					t.Errorf("publicationDate = %q", got.PublicationDate)
				}
				if !reflect.DeepEqual(got.KeyFindings, []string{"x"}) {
					t.Errorf("keyFindings = %v", got.KeyFindings)
				}
				want := map[string]string{"studyDesign": "cohort", "sampleSize": "120"}
				if !reflect.DeepEqual(got.ExtraFields, want) {
					t.Errorf("extraFields = %v, want %v", got.ExtraFields, want)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDraft(tt.reply, nil)
			if err != nil {
				t.Fatalf("ParseDraft() error = %v", err)
			}
			tt.check(t, d)
		})
	}
}

func TestParseDraft_Malformed(t *testing.T) {
	for _, reply := range []string{"", "no json here", "[1, 2]", "{broken", "null"} {
		if _, err := ParseDraft(reply, nil); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("ParseDraft(%q) error = %v, want ErrMalformedResponse", reply, err)
		}
	}
}

func TestParseDraft_FieldKeysFilterExtras(t *testing.T) {
	reply := `{"title": "T", "study_design": "cohort", "sampleSize": 120, "chatter": "ignore me"}`

	tests := []struct {
		name      string
		fieldKeys []string
		want      map[string]string
	}{
		{name: "nil keeps all", fieldKeys: nil, want: map[string]string{"study_design": "cohort", "sampleSize": "120", "chatter": "ignore me"}},
		{name: "only asked keys", fieldKeys: []string{"title", "studyDesign", "sampleSize"}, want: map[string]string{"study_design": "cohort", "sampleSize": "120"}},
		{name: "none asked", fieldKeys: []string{"title"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDraft(reply, tt.fieldKeys)
			if err != nil {
				t.Fatalf("ParseDraft() error = %v", err)
			}
			if d.Title != "T" {
				t.Errorf("title = %q, want T", d.Title)
			}
			if !reflect.DeepEqual(d.ExtraFields, tt.want) {
				t.Errorf("extraFields = %v, want %v", d.ExtraFields, tt.want)
			}
		})
	}
}

func TestMissingKeys(t *testing.T) {
	got := MissingKeys(`{"title": "x", "key_findings": []}`, []string{"title", "keyFindings", "methods"})
	if !reflect.DeepEqual(got, []string{"methods"}) {
		t.Errorf("MissingKeys() = %v, want [methods]", got)
	}
	if got := MissingKeys("garbage", []string{"title"}); !reflect.DeepEqual(got, []string{"title"}) {
		t.Errorf("MissingKeys(garbage) = %v", got)
	}
}
