package storage

import (
	"context"
	"testing"
	"time"
)

func seedQueryStore(t *testing.T) *Store {
	t.Helper()
	clock := testNow
	s := New(NewMemoryBackend(nil), WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	t.Cleanup(func() {
		_ = s.Close()
	})

	ctx := context.Background()
	robotics := mustFolder(t, s, "Robotics")
	drafts := []RecordDraft{
		{ZoteroItemID: 1, Title: "Grasping", Journal: "IJRR", PublicationDate: "2021"},
		{ZoteroItemID: 2, Title: "attention", Journal: "NeurIPS", PublicationDate: "2017", KeyFindings: []string{"Transformers scale"}},
		{ZoteroItemID: 3, Title: "Batch Norm", Journal: "ICML", PublicationDate: "2015", ExtraFields: map[string]string{"dataset": "ImageNet"}},
	}
	for _, d := range drafts {
		if _, err := s.UpsertRecord(ctx, d, UpsertOptions{}); err != nil {
			t.Fatalf("UpsertRecord() error = %v", err)
		}
	}
	if err := s.AssignFolder(ctx, []int64{1}, robotics.ID); err != nil {
		t.Fatalf("AssignFolder() error = %v", err)
	}
	return s
}

func recordIDs(records []Record) []int64 {
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestStore_ListRecords(t *testing.T) {
	s := seedQueryStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ListFilter
		want   []int64
	}{
		{name: "default newest first", filter: ListFilter{}, want: []int64{3, 2, 1}},
		{name: "title ascending case-insensitive", filter: ListFilter{SortKey: SortTitle, Ascending: true}, want: []int64{2, 3, 1}},
		{name: "publication date descending", filter: ListFilter{SortKey: SortPublicationDate}, want: []int64{1, 2, 3}},
		{name: "journal ascending", filter: ListFilter{SortKey: SortJournal, Ascending: true}, want: []int64{3, 1, 2}},
		{name: "search key findings", filter: ListFilter{Search: "TRANSFORMERS"}, want: []int64{2}},
		{name: "search extra fields", filter: ListFilter{Search: "imagenet"}, want: []int64{3}},
		{name: "search folder name", filter: ListFilter{Search: "robot"}, want: []int64{1}},
		{name: "search default folder name", filter: ListFilter{Search: "uncategorized"}, want: []int64{3, 2}},
		{name: "folder filter", filter: ListFilter{FolderID: folderPtr(DefaultFolderID)}, want: []int64{3, 2}},
		{name: "type filter", filter: ListFilter{RecordType: RecordTypeFolderSummary}, want: []int64{}},
		{name: "first page", filter: ListFilter{Limit: 2}, want: []int64{3, 2}},
		{name: "second page", filter: ListFilter{Limit: 2, Offset: 2}, want: []int64{1}},
		{name: "offset past end", filter: ListFilter{Offset: 10}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.ListRecords(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListRecords() error = %v", err)
			}
			got := recordIDs(records)
			if len(got) != len(tt.want) {
				t.Fatalf("ListRecords() ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ListRecords() ids = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestStore_CountRecords_IgnoresPagination(t *testing.T) {
	s := seedQueryStore(t)

	n, err := s.CountRecords(context.Background(), ListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("CountRecords() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CountRecords() = %d, want 3", n)
	}
}

func TestSortRecords_TieBreak(t *testing.T) {
	records := []Record{
		{ID: 1, Title: "same"},
		{ID: 3, Title: "same"},
		{ID: 2, Title: "same"},
	}
	for _, asc := range []bool{true, false} {
		sortRecords(records, SortTitle, asc)
		got := recordIDs(records)
		if got[0] != 3 || got[1] != 2 || got[2] != 1 {
			t.Errorf("sortRecords(asc=%v) ids = %v, want [3 2 1]", asc, got)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in     string
		want   SortKey
		wantOK bool
	}{
		{in: "", want: SortUpdatedAt, wantOK: true},
		{in: "title", want: SortTitle, wantOK: true},
		{in: "publicationDate", want: SortPublicationDate, wantOK: true},
		{in: "journal", want: SortJournal, wantOK: true},
		{in: "authors", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseSortKey(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
