package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"litreview-ai/internal/contextutil"
)

// UpsertRecord stores draft as the literature record of draft.ZoteroItemID.
// An existing record keeps its id and createdAt and has its content replaced;
// otherwise a new record is allocated. See UpsertOptions for folder handling.
func (s *Store) UpsertRecord(ctx context.Context, draft RecordDraft, opts UpsertOptions) (Record, error) {
	var folderName string
	if opts.FolderID == nil && opts.FolderName != "" {
		name, err := validateFolderName(opts.FolderName)
		if err != nil {
			return Record{}, err
		}
		folderName = name
	}

	var rec Record
	err := s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		var target *int64
		switch {
		case opts.FolderID != nil:
			if d.folderIndex(*opts.FolderID) < 0 {
				return false, folderNotFound(*opts.FolderID)
			}
			target = opts.FolderID
		case folderName != "":
			f, _ := d.ensureFolder(folderName, now)
			target = &f.ID
		}

		i := d.literatureIndex(draft.ZoteroItemID)
		if i < 0 {
			d.Records = append(d.Records, Record{
				ID:           d.NextIDs.Record,
				RecordType:   RecordTypeLiterature,
				ZoteroItemID: draft.ZoteroItemID,
				CreatedAt:    now,
			})
			d.NextIDs.Record++
			i = len(d.Records) - 1
		}
		applyDraft(&d.Records[i], draft, now)

		if target != nil {
			d.link([]int64{d.Records[i].ID}, *target, now)
		}
		rec = d.Records[i]

		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "record upserted",
			"record_id", rec.ID,
			"zotero_item_id", rec.ZoteroItemID,
			"new", rec.CreatedAt.Equal(now),
		)
		return true, nil
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// applyDraft overwrites the content fields of r and clears summary-only fields.
func applyDraft(r *Record, draft RecordDraft, now time.Time) {
	r.RecordType = RecordTypeLiterature
	r.AIProvider = draft.AIProvider
	r.AIModel = draft.AIModel
	r.RawAIResponse = draft.RawAIResponse
	r.Title = draft.Title
	r.Authors = draft.Authors
	r.Journal = draft.Journal
	r.PublicationDate = draft.PublicationDate
	r.Abstract = draft.Abstract
	r.Background = draft.Background
	r.Review = draft.Review
	r.Methods = draft.Methods
	r.Conclusions = draft.Conclusions
	r.KeyFindings = nonNil(draft.KeyFindings)
	r.ClassificationTags = nonNil(draft.ClassificationTags)
	r.AnnotationNotes = draft.AnnotationNotes
	r.ExtraFields = draft.ExtraFields
	r.SourceRecordIDs = []int64{}
	r.SourceZoteroItemIDs = []int64{}
	r.UpdatedAt = now
}

// CreateFolderSummaryRecord stores a new summary of folderID. The source lists
// are a snapshot of sources at creation time and are never refreshed later,
// except for pruning entries whose records get deleted.
func (s *Store) CreateFolderSummaryRecord(ctx context.Context, folderID int64, folderName, summaryText string, sources []SummarySource, aiProvider, aiModel string) (Record, error) {
	var rec Record
	err := s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		fi := d.folderIndex(folderID)
		if fi < 0 {
			return false, folderNotFound(folderID)
		}
		if folderName == "" {
			folderName = d.Folders[fi].Name
		}

		recordIDs := make([]int64, 0, len(sources))
		itemIDs := make([]int64, 0, len(sources))
		for _, src := range sources {
			if src.RecordID > 0 {
				recordIDs = append(recordIDs, src.RecordID)
			}
			if src.ZoteroItemID > 0 {
				itemIDs = append(itemIDs, src.ZoteroItemID)
			}
		}

		rec = Record{
			ID:                  d.NextIDs.Record,
			RecordType:          RecordTypeFolderSummary,
			AIProvider:          aiProvider,
			AIModel:             aiModel,
			RawAIResponse:       summaryText,
			Title:               SummaryTitle(folderName, now),
			Review:              summaryText,
			KeyFindings:         []string{},
			ClassificationTags:  []string{},
			SourceRecordIDs:     uniqueIDs(recordIDs),
			SourceZoteroItemIDs: uniqueIDs(itemIDs),
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		d.NextIDs.Record++
		d.Records = append(d.Records, rec)
		d.link([]int64{rec.ID}, folderID, now)
		return true, nil
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// SummaryTitle is the title given to a folder summary created at t.
func SummaryTitle(folderName string, t time.Time) string {
	return fmt.Sprintf("Folder Summary: %s (%s)", folderName, t.Format("2006-01-02"))
}

// GetRecord returns record id.
func (s *Store) GetRecord(ctx context.Context, id int64) (Record, error) {
	var rec Record
	err := s.view(ctx, func(d *Data) error {
		i := d.recordIndex(id)
		if i < 0 {
			return recordNotFound(id)
		}
		rec = d.Records[i]
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// RecordFolders returns the folders record id is linked to, ordered by id.
func (s *Store) RecordFolders(ctx context.Context, id int64) ([]Folder, error) {
	var out []Folder
	err := s.view(ctx, func(d *Data) error {
		if d.recordIndex(id) < 0 {
			return recordNotFound(id)
		}
		out = d.foldersOf(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AssignFolder links every record in recordIDs to folderID. Linking to a real
// folder drops the record's default-folder link.
func (s *Store) AssignFolder(ctx context.Context, recordIDs []int64, folderID int64) error {
	ids := uniqueIDs(recordIDs)
	return s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		if d.folderIndex(folderID) < 0 {
			return false, folderNotFound(folderID)
		}
		for _, id := range ids {
			if d.recordIndex(id) < 0 {
				return false, recordNotFound(id)
			}
		}
		return d.link(ids, folderID, now), nil
	})
}

// RemoveFromFolder unlinks every record in recordIDs from folderID. Records
// left without a folder fall back to the default folder.
func (s *Store) RemoveFromFolder(ctx context.Context, recordIDs []int64, folderID int64) error {
	if folderID == DefaultFolderID {
		return protectedFolder("remove records from")
	}
	ids := uniqueIDs(recordIDs)
	return s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		if d.folderIndex(folderID) < 0 {
			return false, folderNotFound(folderID)
		}
		remove := make(map[int64]bool, len(ids))
		for _, id := range ids {
			remove[id] = true
		}
		before := len(d.RecordFolderLinks)
		d.RecordFolderLinks = slices.DeleteFunc(d.RecordFolderLinks, func(l RecordFolderLink) bool {
			return l.FolderID == folderID && remove[l.RecordID]
		})
		return len(d.RecordFolderLinks) != before, nil
	})
}

// DeleteRecords hard-deletes records and their links and returns how many were
// removed. Surviving folder summaries lose the deleted ids from their source
// lists but are themselves kept.
func (s *Store) DeleteRecords(ctx context.Context, recordIDs []int64) (int, error) {
	ids := uniqueIDs(recordIDs)
	var deleted int
	err := s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		remove := make(map[int64]bool, len(ids))
		for _, id := range ids {
			remove[id] = true
		}

		before := len(d.Records)
		d.Records = slices.DeleteFunc(d.Records, func(r Record) bool { return remove[r.ID] })
		deleted = before - len(d.Records)
		if deleted == 0 {
			return false, nil
		}
		d.RecordFolderLinks = slices.DeleteFunc(d.RecordFolderLinks, func(l RecordFolderLink) bool {
			return remove[l.RecordID]
		})

		pruned := d.pruneSummarySources(now)
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "records deleted",
			"deleted", deleted,
			"summaries_pruned", pruned,
		)
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// pruneSummarySources drops source entries that no longer resolve to a record
// and returns how many summaries were touched.
func (d *Data) pruneSummarySources(now time.Time) int {
	recordIDs := make(map[int64]bool, len(d.Records))
	itemIDs := make(map[int64]bool, len(d.Records))
	for _, r := range d.Records {
		recordIDs[r.ID] = true
		if r.RecordType == RecordTypeLiterature && r.ZoteroItemID > 0 {
			itemIDs[r.ZoteroItemID] = true
		}
	}

	touched := 0
	for i := range d.Records {
		r := &d.Records[i]
		if r.RecordType != RecordTypeFolderSummary {
			continue
		}
		nRecords, nItems := len(r.SourceRecordIDs), len(r.SourceZoteroItemIDs)
		r.SourceRecordIDs = slices.DeleteFunc(r.SourceRecordIDs, func(id int64) bool { return !recordIDs[id] })
		r.SourceZoteroItemIDs = slices.DeleteFunc(r.SourceZoteroItemIDs, func(id int64) bool { return !itemIDs[id] })
		if len(r.SourceRecordIDs) != nRecords || len(r.SourceZoteroItemIDs) != nItems {
			r.UpdatedAt = now
			touched++
		}
	}
	return touched
}

// UpdateRawResponse overwrites the raw AI response of recordID. For folder
// summaries the raw text is the record body, so Review is overwritten as well.
func (s *Store) UpdateRawResponse(ctx context.Context, recordID int64, text string) (Record, error) {
	var rec Record
	err := s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		i := d.recordIndex(recordID)
		if i < 0 {
			return false, recordNotFound(recordID)
		}
		r := &d.Records[i]
		r.RawAIResponse = text
		if r.RecordType == RecordTypeFolderSummary {
			r.Review = text
		}
		r.UpdatedAt = now
		rec = *r
		return true, nil
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (d *Data) recordIndex(id int64) int {
	return slices.IndexFunc(d.Records, func(r Record) bool { return r.ID == id })
}

func (d *Data) literatureIndex(zoteroItemID int64) int {
	return slices.IndexFunc(d.Records, func(r Record) bool {
		return r.RecordType == RecordTypeLiterature && r.ZoteroItemID == zoteroItemID
	})
}

// foldersOf returns the folders linked to recordID, ordered by id.
func (d *Data) foldersOf(recordID int64) []Folder {
	var out []Folder
	for _, l := range d.RecordFolderLinks {
		if l.RecordID != recordID {
			continue
		}
		if i := d.folderIndex(l.FolderID); i >= 0 {
			out = append(out, d.Folders[i])
		}
	}
	slices.SortFunc(out, func(a, b Folder) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
