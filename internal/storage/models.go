package storage

import "time"

const (
	// SchemaVersion is the version written to the store file.
	// Version 1 files are bumped in place on load.
	SchemaVersion = 2

	// DefaultFolderID is the reserved id of the protected default folder.
	DefaultFolderID int64 = 0
	// DefaultFolderName is the sentinel name of the protected default folder.
	DefaultFolderName = "Uncategorized"

	// MaxFolderNameLength is the maximum folder name length in runes.
	MaxFolderNameLength = 100
)

// RecordType distinguishes single-item extractions from folder syntheses.
type RecordType string

const (
	RecordTypeLiterature    RecordType = "literature"
	RecordTypeFolderSummary RecordType = "folderSummary"
)

// Folder is a named grouping of records.
type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsDefault reports whether f is the protected default folder.
func (f Folder) IsDefault() bool {
	return f.ID == DefaultFolderID
}

// Record is a literature extraction or a folder summary.
type Record struct {
	ID           int64      `json:"id"`
	RecordType   RecordType `json:"recordType"`
	ZoteroItemID int64      `json:"zoteroItemID"`

	AIProvider    string `json:"aiProvider"`
	AIModel       string `json:"aiModel"`
	RawAIResponse string `json:"rawAIResponse"`

	Title              string   `json:"title"`
	Authors            string   `json:"authors"`
	Journal            string   `json:"journal"`
	PublicationDate    string   `json:"publicationDate"`
	Abstract           string   `json:"abstract"`
	Background         string   `json:"background"`
	Review             string   `json:"review"`
	Methods            string   `json:"methods"`
	Conclusions        string   `json:"conclusions"`
	KeyFindings        []string `json:"keyFindings"`
	ClassificationTags []string `json:"classificationTags"`

	AnnotationNotes string            `json:"annotationNotes,omitempty"`
	ExtraFields     map[string]string `json:"extraFields,omitempty"`

	SourceRecordIDs     []int64 `json:"sourceRecordIDs"`
	SourceZoteroItemIDs []int64 `json:"sourceZoteroItemIDs"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordFolderLink is one membership edge between a record and a folder.
type RecordFolderLink struct {
	RecordID  int64     `json:"recordID"`
	FolderID  int64     `json:"folderID"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is an append-only usage log entry.
type Event struct {
	ID          int64     `json:"id"`
	EventName   string    `json:"eventName"`
	PayloadJSON string    `json:"payloadJSON"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NextIDs holds the next id to hand out per entity.
type NextIDs struct {
	Folder int64 `json:"folder"`
	Record int64 `json:"record"`
	Event  int64 `json:"event"`
}

// Data is the root aggregate persisted to the backing file.
// Field order matters: schemaVersion is written first.
type Data struct {
	SchemaVersion     int                `json:"schemaVersion"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	NextIDs           NextIDs            `json:"nextIDs"`
	Folders           []Folder           `json:"folders"`
	Records           []Record           `json:"records"`
	RecordFolderLinks []RecordFolderLink `json:"recordFolderLinks"`
	Events            []Event            `json:"events"`
}

// NewData returns an empty store created at now.
func NewData(now time.Time) *Data {
	return &Data{
		SchemaVersion:     SchemaVersion,
		CreatedAt:         now,
		UpdatedAt:         now,
		NextIDs:           NextIDs{Folder: 1, Record: 1, Event: 1},
		Folders:           []Folder{},
		Records:           []Record{},
		RecordFolderLinks: []RecordFolderLink{},
		Events:            []Event{},
	}
}

// RecordDraft is the content of a literature record produced by an extraction.
type RecordDraft struct {
	ZoteroItemID int64

	AIProvider    string
	AIModel       string
	RawAIResponse string

	Title              string
	Authors            string
	Journal            string
	PublicationDate    string
	Abstract           string
	Background         string
	Review             string
	Methods            string
	Conclusions        string
	KeyFindings        []string
	ClassificationTags []string

	AnnotationNotes string
	ExtraFields     map[string]string
}

// UpsertOptions selects the folder a record is filed into.
// FolderID must reference an existing folder; FolderName is created on demand.
// When both are empty the record's existing links are left untouched.
type UpsertOptions struct {
	FolderID   *int64
	FolderName string
}

// SummarySource identifies a record that contributed to a folder summary.
type SummarySource struct {
	RecordID     int64
	ZoteroItemID int64
}

// FolderSummary is a folder together with its current record count.
type FolderSummary struct {
	Folder
	RecordCount int `json:"recordCount"`
}

// SortKey is a record list ordering.
type SortKey string

const (
	SortUpdatedAt       SortKey = "updatedAt"
	SortTitle           SortKey = "title"
	SortPublicationDate SortKey = "publicationDate"
	SortJournal         SortKey = "journal"
)

// ListFilter narrows and orders ListRecords / CountRecords.
type ListFilter struct {
	RecordType RecordType // empty = any
	FolderID   *int64     // nil = any folder
	Search     string
	SortKey    SortKey // empty = updatedAt
	Ascending  bool    // default descending
	Limit      int     // 0 = no limit
	Offset     int
}
