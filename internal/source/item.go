package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidItem is returned for item files that cannot identify an item.
var ErrInvalidItem = errors.New("invalid item")

// Creator is one author or editor of an item.
type Creator struct {
	CreatorType string `json:"creatorType,omitempty" yaml:"creatorType,omitempty"`
	FirstName   string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	// Name is set instead of first/last for single-field names.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Display returns "Last, First", or the single-field name.
func (c Creator) Display() string {
	if c.Name != "" {
		return strings.TrimSpace(c.Name)
	}
	last, first := strings.TrimSpace(c.LastName), strings.TrimSpace(c.FirstName)
	switch {
	case last != "" && first != "":
		return last + ", " + first
	case last != "":
		return last
	}
	return first
}

// Annotation is a PDF highlight, underline or comment.
type Annotation struct {
	Type      string `json:"annotationType,omitempty" yaml:"annotationType,omitempty"`
	Text      string `json:"annotationText,omitempty" yaml:"annotationText,omitempty"`
	Comment   string `json:"annotationComment,omitempty" yaml:"annotationComment,omitempty"`
	PageLabel string `json:"annotationPageLabel,omitempty" yaml:"annotationPageLabel,omitempty"`
	Color     string `json:"annotationColor,omitempty" yaml:"annotationColor,omitempty"`
}

// Item is a bibliographic item exported from the reference library,
// together with its note bodies, attachment full text and annotations.
type Item struct {
	ID               int64        `json:"id" yaml:"id"`
	Key              string       `json:"key,omitempty" yaml:"key,omitempty"`
	ItemType         string       `json:"itemType,omitempty" yaml:"itemType,omitempty"`
	Title            string       `json:"title" yaml:"title"`
	Creators         []Creator    `json:"creators,omitempty" yaml:"creators,omitempty"`
	PublicationTitle string       `json:"publicationTitle,omitempty" yaml:"publicationTitle,omitempty"`
	Date             string       `json:"date,omitempty" yaml:"date,omitempty"`
	DOI              string       `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	URL              string       `json:"url,omitempty" yaml:"url,omitempty"`
	AbstractNote     string       `json:"abstractNote,omitempty" yaml:"abstractNote,omitempty"`
	Tags             []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Notes            []string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	FullText         string       `json:"fullText,omitempty" yaml:"fullText,omitempty"`
	Annotations      []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Authors joins the creators' display names with "; ".
func (it Item) Authors() string {
	names := make([]string, 0, len(it.Creators))
	for _, c := range it.Creators {
		if n := c.Display(); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, "; ")
}

// Format is the encoding of an item file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the item encoding from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ParseItem decodes an item file.
func ParseItem(data []byte, format Format) (Item, error) {
	var it Item
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &it)
	default:
		err = json.Unmarshal(data, &it)
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to decode item: %w", err)
	}
	if it.ID <= 0 {
		return Item{}, fmt.Errorf("%w: missing positive id", ErrInvalidItem)
	}
	return it, nil
}

// LoadItem reads and decodes the item file at path.
func LoadItem(path string) (Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Item{}, fmt.Errorf("failed to read item file %s: %w", path, err)
	}
	it, err := ParseItem(data, FormatForPath(path))
	if err != nil {
		return Item{}, fmt.Errorf("%s: %w", path, err)
	}
	return it, nil
}
