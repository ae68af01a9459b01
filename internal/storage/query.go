package storage

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

// ListRecords returns the records matching filter, sorted and paginated.
// Ordering is total: ties on the sort key are broken by id descending, so
// consecutive pages never overlap.
func (s *Store) ListRecords(ctx context.Context, filter ListFilter) ([]Record, error) {
	var out []Record
	err := s.view(ctx, func(d *Data) error {
		matched := d.filterRecords(filter)
		sortRecords(matched, filter.SortKey, filter.Ascending)
		out = paginate(matched, filter.Offset, filter.Limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountRecords returns how many records match filter, ignoring pagination.
func (s *Store) CountRecords(ctx context.Context, filter ListFilter) (int, error) {
	var n int
	err := s.view(ctx, func(d *Data) error {
		n = len(d.filterRecords(filter))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (d *Data) filterRecords(filter ListFilter) []Record {
	folderNames := make(map[int64]string, len(d.Folders))
	for _, f := range d.Folders {
		folderNames[f.ID] = f.Name
	}
	recordFolders := make(map[int64][]int64, len(d.Records))
	for _, l := range d.RecordFolderLinks {
		recordFolders[l.RecordID] = append(recordFolders[l.RecordID], l.FolderID)
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]Record, 0, len(d.Records))
	for _, r := range d.Records {
		if filter.RecordType != "" && r.RecordType != filter.RecordType {
			continue
		}
		folders := recordFolders[r.ID]
		if filter.FolderID != nil && !slices.Contains(folders, *filter.FolderID) {
			continue
		}
		if needle != "" && !recordMatches(r, folders, folderNames, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// recordMatches reports whether needle (lowercased) occurs in any textual
// field of r or in the name of a folder r belongs to.
func recordMatches(r Record, folders []int64, folderNames map[int64]string, needle string) bool {
	fields := []string{
		r.Title, r.Authors, r.Journal, r.PublicationDate, r.Abstract,
		r.Background, r.Review, r.Methods, r.Conclusions,
		r.AnnotationNotes, r.AIProvider, r.AIModel, r.RawAIResponse,
	}
	fields = append(fields, r.KeyFindings...)
	fields = append(fields, r.ClassificationTags...)
	for _, v := range r.ExtraFields {
		fields = append(fields, v)
	}
	for _, id := range folders {
		fields = append(fields, folderNames[id])
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func sortRecords(records []Record, key SortKey, ascending bool) {
	slices.SortStableFunc(records, func(a, b Record) int {
		c := compareByKey(a, b, key)
		if !ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func compareByKey(a, b Record, key SortKey) int {
	switch key {
	case SortTitle:
		return compareText(a.Title, b.Title)
	case SortPublicationDate:
		return compareText(a.PublicationDate, b.PublicationDate)
	case SortJournal:
		return compareText(a.Journal, b.Journal)
	default:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
}

func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func paginate(records []Record, offset, limit int) []Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []Record{}
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

// ParseSortKey maps a user-supplied sort name to a SortKey.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortUpdatedAt, SortTitle, SortPublicationDate, SortJournal:
		return SortKey(s), true
	case "":
		return SortUpdatedAt, true
	}
	return "", false
}
