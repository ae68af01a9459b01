package storage

import (
	"strings"
	"time"
)

// Repair restores the store invariants in place and reports whether anything
// changed. It is idempotent: a second call on its own output returns false.
//
// Invariants restored:
//   - the protected default folder exists under its reserved id and name
//   - folder and record ids are unique, folder names unique case-insensitively
//   - at most one literature record per item
//   - links reference existing folders and records, with no duplicate pairs
//   - every record has at least one link; a record linked to a real folder
//     is not also linked to the default folder
//   - id counters are past every existing id
func Repair(d *Data, now time.Time) bool {
	changed := false

	if d.SchemaVersion < SchemaVersion {
		d.SchemaVersion = SchemaVersion
		changed = true
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
		changed = true
	}
	if d.Folders == nil {
		d.Folders = []Folder{}
		changed = true
	}
	if d.Records == nil {
		d.Records = []Record{}
		changed = true
	}
	if d.RecordFolderLinks == nil {
		d.RecordFolderLinks = []RecordFolderLink{}
		changed = true
	}
	if d.Events == nil {
		d.Events = []Event{}
		changed = true
	}

	if repairDefaultFolder(d, now) {
		changed = true
	}
	if repairFolders(d) {
		changed = true
	}
	if repairRecords(d) {
		changed = true
	}
	if repairDuplicateItems(d) {
		changed = true
	}
	if repairLinks(d, now) {
		changed = true
	}
	if repairCounters(d) {
		changed = true
	}

	return changed
}

func repairDefaultFolder(d *Data, now time.Time) bool {
	for i := range d.Folders {
		if d.Folders[i].ID != DefaultFolderID {
			continue
		}
		if d.Folders[i].Name != DefaultFolderName {
			d.Folders[i].Name = DefaultFolderName
			return true
		}
		return false
	}
	d.Folders = append([]Folder{{
		ID:        DefaultFolderID,
		Name:      DefaultFolderName,
		CreatedAt: now,
		UpdatedAt: now,
	}}, d.Folders...)
	return true
}

// repairFolders drops duplicate and invalid folder ids and merges folders that
// share a name. The default folder always survives; otherwise the first seen wins.
func repairFolders(d *Data) bool {
	changed := false
	remap := make(map[int64]int64)

	byName := make(map[string]int64, len(d.Folders))
	// Seed with the default folder so a user folder named like it merges into it.
	byName[folderKey(DefaultFolderName)] = DefaultFolderID

	seenIDs := make(map[int64]bool, len(d.Folders))
	kept := d.Folders[:0]
	for _, f := range d.Folders {
		if f.ID < 0 || seenIDs[f.ID] {
			changed = true
			continue
		}
		seenIDs[f.ID] = true

		if trimmed := strings.TrimSpace(f.Name); trimmed != f.Name {
			f.Name = trimmed
			changed = true
		}

		key := folderKey(f.Name)
		if owner, ok := byName[key]; ok && owner != f.ID {
			remap[f.ID] = owner
			changed = true
			continue
		}
		byName[key] = f.ID
		kept = append(kept, f)
	}
	d.Folders = kept

	if len(remap) > 0 {
		for i := range d.RecordFolderLinks {
			if to, ok := remap[d.RecordFolderLinks[i].FolderID]; ok {
				d.RecordFolderLinks[i].FolderID = to
			}
		}
	}
	return changed
}

func repairRecords(d *Data) bool {
	changed := false
	seen := make(map[int64]bool, len(d.Records))
	kept := d.Records[:0]
	for _, r := range d.Records {
		if r.ID <= 0 || seen[r.ID] {
			changed = true
			continue
		}
		seen[r.ID] = true
		if r.RecordType == "" {
			r.RecordType = RecordTypeLiterature
			changed = true
		}
		if r.KeyFindings == nil {
			r.KeyFindings = []string{}
			changed = true
		}
		if r.ClassificationTags == nil {
			r.ClassificationTags = []string{}
			changed = true
		}
		if r.SourceRecordIDs == nil {
			r.SourceRecordIDs = []int64{}
			changed = true
		}
		if r.SourceZoteroItemIDs == nil {
			r.SourceZoteroItemIDs = []int64{}
			changed = true
		}
		kept = append(kept, r)
	}
	d.Records = kept
	return changed
}

// repairDuplicateItems keeps one literature record per item, the most
// recently updated (higher id on ties). Links and summary sources of the
// dropped records move to the survivor.
func repairDuplicateItems(d *Data) bool {
	survivor := make(map[int64]int)
	for i, r := range d.Records {
		if r.RecordType != RecordTypeLiterature || r.ZoteroItemID <= 0 {
			continue
		}
		j, ok := survivor[r.ZoteroItemID]
		if !ok {
			survivor[r.ZoteroItemID] = i
			continue
		}
		cur := d.Records[j]
		if r.UpdatedAt.After(cur.UpdatedAt) || (r.UpdatedAt.Equal(cur.UpdatedAt) && r.ID > cur.ID) {
			survivor[r.ZoteroItemID] = i
		}
	}

	remap := make(map[int64]int64)
	kept := d.Records[:0]
	for i, r := range d.Records {
		if r.RecordType == RecordTypeLiterature && r.ZoteroItemID > 0 {
			if j := survivor[r.ZoteroItemID]; j != i {
				remap[r.ID] = d.Records[j].ID
				continue
			}
		}
		kept = append(kept, r)
	}
	if len(remap) == 0 {
		return false
	}
	d.Records = kept

	for i := range d.RecordFolderLinks {
		if to, ok := remap[d.RecordFolderLinks[i].RecordID]; ok {
			d.RecordFolderLinks[i].RecordID = to
		}
	}
	for i := range d.Records {
		r := &d.Records[i]
		if r.RecordType != RecordTypeFolderSummary {
			continue
		}
		for k, id := range r.SourceRecordIDs {
			if to, ok := remap[id]; ok {
				r.SourceRecordIDs[k] = to
			}
		}
		r.SourceRecordIDs = uniqueIDs(r.SourceRecordIDs)
	}
	return true
}

type linkKey struct {
	recordID int64
	folderID int64
}

func repairLinks(d *Data, now time.Time) bool {
	changed := false

	folders := make(map[int64]bool, len(d.Folders))
	for _, f := range d.Folders {
		folders[f.ID] = true
	}
	records := make(map[int64]bool, len(d.Records))
	for _, r := range d.Records {
		records[r.ID] = true
	}

	seen := make(map[linkKey]bool, len(d.RecordFolderLinks))
	nonDefault := make(map[int64]bool)
	linked := make(map[int64]bool)
	kept := d.RecordFolderLinks[:0]
	for _, l := range d.RecordFolderLinks {
		key := linkKey{l.RecordID, l.FolderID}
		if !folders[l.FolderID] || !records[l.RecordID] || seen[key] {
			changed = true
			continue
		}
		seen[key] = true
		linked[l.RecordID] = true
		if l.FolderID != DefaultFolderID {
			nonDefault[l.RecordID] = true
		}
		kept = append(kept, l)
	}

	// Default exclusivity: a record with a real folder loses its default link.
	final := kept[:0]
	for _, l := range kept {
		if l.FolderID == DefaultFolderID && nonDefault[l.RecordID] {
			changed = true
			continue
		}
		final = append(final, l)
	}

	// Link completeness: orphans fall back to the default folder.
	for _, r := range d.Records {
		if linked[r.ID] {
			continue
		}
		final = append(final, RecordFolderLink{
			RecordID:  r.ID,
			FolderID:  DefaultFolderID,
			CreatedAt: now,
		})
		changed = true
	}

	d.RecordFolderLinks = final
	return changed
}

func repairCounters(d *Data) bool {
	changed := false

	var maxFolder, maxRecord, maxEvent int64
	for _, f := range d.Folders {
		maxFolder = max(maxFolder, f.ID)
	}
	for _, r := range d.Records {
		maxRecord = max(maxRecord, r.ID)
	}
	for _, e := range d.Events {
		maxEvent = max(maxEvent, e.ID)
	}

	if next := max(maxFolder+1, d.NextIDs.Folder, 1); next != d.NextIDs.Folder {
		d.NextIDs.Folder = next
		changed = true
	}
	if next := max(maxRecord+1, d.NextIDs.Record, 1); next != d.NextIDs.Record {
		d.NextIDs.Record = next
		changed = true
	}
	if next := max(maxEvent+1, d.NextIDs.Event, 1); next != d.NextIDs.Event {
		d.NextIDs.Event = next
		changed = true
	}
	return changed
}

// folderKey is the case-insensitive identity of a folder name.
func folderKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
