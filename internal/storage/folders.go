package storage

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"litreview-ai/internal/contextutil"
)

// CreateFolder returns the folder named name, creating it if no folder with
// that name exists (case-insensitive). Calling it twice yields the same folder.
func (s *Store) CreateFolder(ctx context.Context, name string) (Folder, error) {
	name, err := validateFolderName(name)
	if err != nil {
		return Folder{}, err
	}

	var folder Folder
	err = s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		var created bool
		folder, created = d.ensureFolder(name, now)
		return created, nil
	})
	if err != nil {
		return Folder{}, err
	}
	return folder, nil
}

// RenameFolder renames folder id. Renaming to a name held by another folder
// fails; renaming to the folder's own name with different case is allowed.
func (s *Store) RenameFolder(ctx context.Context, id int64, name string) (Folder, error) {
	name, err := validateFolderName(name)
	if err != nil {
		return Folder{}, err
	}
	if id == DefaultFolderID {
		return Folder{}, protectedFolder("rename")
	}

	var folder Folder
	err = s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		i := d.folderIndex(id)
		if i < 0 {
			return false, folderNotFound(id)
		}
		if j := d.folderIndexByName(name); j >= 0 && j != i {
			return false, nameTaken(name)
		}
		if d.Folders[i].Name == name {
			folder = d.Folders[i]
			return false, nil
		}
		d.Folders[i].Name = name
		d.Folders[i].UpdatedAt = now
		folder = d.Folders[i]
		return true, nil
	})
	if err != nil {
		return Folder{}, err
	}
	return folder, nil
}

// DeleteFolder removes folder id and all links to it. Records that lose their
// only folder fall back to the default folder.
func (s *Store) DeleteFolder(ctx context.Context, id int64) error {
	if id == DefaultFolderID {
		return protectedFolder("delete")
	}
	return s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		if d.folderIndex(id) < 0 {
			return false, folderNotFound(id)
		}
		affected := d.deleteFolder(id)
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "folder deleted", "folder_id", id, "records_unlinked", affected)
		return true, nil
	})
}

// MergeFolders moves every record of the folders in ids into the folder named
// newName (created if needed) and deletes the source folders. If newName
// resolves to one of the sources, that folder is kept as the destination.
func (s *Store) MergeFolders(ctx context.Context, ids []int64, newName string) (Folder, error) {
	distinct := uniqueIDs(ids)
	if len(distinct) < 2 {
		return Folder{}, ErrTooFewFolders
	}
	if slices.Contains(distinct, DefaultFolderID) {
		return Folder{}, protectedFolder("merge")
	}
	newName, err := validateFolderName(newName)
	if err != nil {
		return Folder{}, err
	}
	if folderKey(newName) == folderKey(DefaultFolderName) {
		return Folder{}, protectedFolder("merge into")
	}

	var dest Folder
	err = s.do(ctx, func(d *Data, now time.Time) (bool, error) {
		for _, id := range distinct {
			if d.folderIndex(id) < 0 {
				return false, folderNotFound(id)
			}
		}

		dest, _ = d.ensureFolder(newName, now)

		sources := make(map[int64]bool, len(distinct))
		for _, id := range distinct {
			if id != dest.ID {
				sources[id] = true
			}
		}

		var members []int64
		for _, l := range d.RecordFolderLinks {
			if sources[l.FolderID] {
				members = append(members, l.RecordID)
			}
		}
		d.link(members, dest.ID, now)

		for id := range sources {
			d.deleteFolder(id)
		}

		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "folders merged",
			"sources", distinct,
			"destination_id", dest.ID,
			"destination", dest.Name,
			"records_moved", len(uniqueIDs(members)),
		)
		return true, nil
	})
	if err != nil {
		return Folder{}, err
	}
	return dest, nil
}

// ListFolders returns all folders with record counts, default folder first and
// the rest ordered by name.
func (s *Store) ListFolders(ctx context.Context) ([]FolderSummary, error) {
	var out []FolderSummary
	err := s.view(ctx, func(d *Data) error {
		counts := make(map[int64]int, len(d.Folders))
		for _, l := range d.RecordFolderLinks {
			counts[l.FolderID]++
		}
		out = make([]FolderSummary, 0, len(d.Folders))
		for _, f := range d.Folders {
			out = append(out, FolderSummary{Folder: f, RecordCount: counts[f.ID]})
		}
		slices.SortFunc(out, func(a, b FolderSummary) int {
			if a.IsDefault() != b.IsDefault() {
				if a.IsDefault() {
					return -1
				}
				return 1
			}
			if c := strings.Compare(folderKey(a.Name), folderKey(b.Name)); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func validateFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxFolderNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func (d *Data) folderIndex(id int64) int {
	return slices.IndexFunc(d.Folders, func(f Folder) bool { return f.ID == id })
}

func (d *Data) folderIndexByName(name string) int {
	key := folderKey(name)
	return slices.IndexFunc(d.Folders, func(f Folder) bool { return folderKey(f.Name) == key })
}

// ensureFolder returns the folder named name, appending it if absent.
func (d *Data) ensureFolder(name string, now time.Time) (Folder, bool) {
	if i := d.folderIndexByName(name); i >= 0 {
		return d.Folders[i], false
	}
	f := Folder{
		ID:        d.NextIDs.Folder,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.NextIDs.Folder++
	d.Folders = append(d.Folders, f)
	return f, true
}

// deleteFolder removes a folder and its links, returning how many links went.
func (d *Data) deleteFolder(id int64) int {
	before := len(d.RecordFolderLinks)
	d.RecordFolderLinks = slices.DeleteFunc(d.RecordFolderLinks, func(l RecordFolderLink) bool {
		return l.FolderID == id
	})
	d.Folders = slices.DeleteFunc(d.Folders, func(f Folder) bool { return f.ID == id })
	return before - len(d.RecordFolderLinks)
}

// link adds (record, folder) links that do not exist yet.
func (d *Data) link(recordIDs []int64, folderID int64, now time.Time) bool {
	existing := make(map[linkKey]bool, len(d.RecordFolderLinks))
	for _, l := range d.RecordFolderLinks {
		existing[linkKey{l.RecordID, l.FolderID}] = true
	}
	added := false
	for _, id := range recordIDs {
		key := linkKey{id, folderID}
		if existing[key] {
			continue
		}
		existing[key] = true
		d.RecordFolderLinks = append(d.RecordFolderLinks, RecordFolderLink{
			RecordID:  id,
			FolderID:  folderID,
			CreatedAt: now,
		})
		added = true
	}
	return added
}

// uniqueIDs returns ids without duplicates, in first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
