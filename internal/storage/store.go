package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_review_store.go -package=mocks litreview-ai/internal/storage ReviewStore

import (
	"context"
	"errors"
	"sync"
	"time"

	"litreview-ai/internal/contextutil"
)

// ErrClosed is returned by operations submitted after Close.
var ErrClosed = errors.New("store closed")

// ReviewStore defines the review store operations.
type ReviewStore interface {
	// CreateFolder returns the folder with the given name, creating it if needed.
	CreateFolder(ctx context.Context, name string) (Folder, error)
	// RenameFolder renames a non-default folder.
	RenameFolder(ctx context.Context, id int64, name string) (Folder, error)
	// DeleteFolder removes a non-default folder; its records fall back to the default folder.
	DeleteFolder(ctx context.Context, id int64) error
	// MergeFolders moves every record of the given folders into the folder named newName.
	MergeFolders(ctx context.Context, ids []int64, newName string) (Folder, error)
	// ListFolders returns all folders ordered by name, default folder first.
	ListFolders(ctx context.Context) ([]FolderSummary, error)

	// UpsertRecord creates or updates the literature record for draft.ZoteroItemID.
	UpsertRecord(ctx context.Context, draft RecordDraft, opts UpsertOptions) (Record, error)
	// CreateFolderSummaryRecord stores a new folder summary.
	CreateFolderSummaryRecord(ctx context.Context, folderID int64, folderName, summaryText string, sources []SummarySource, aiProvider, aiModel string) (Record, error)
	// GetRecord returns a record by id.
	GetRecord(ctx context.Context, id int64) (Record, error)
	// RecordFolders returns the folders a record belongs to.
	RecordFolders(ctx context.Context, id int64) ([]Folder, error)
	// AssignFolder links records to a folder.
	AssignFolder(ctx context.Context, recordIDs []int64, folderID int64) error
	// RemoveFromFolder unlinks records from a non-default folder.
	RemoveFromFolder(ctx context.Context, recordIDs []int64, folderID int64) error
	// DeleteRecords hard-deletes records and prunes summary source lists.
	DeleteRecords(ctx context.Context, recordIDs []int64) (int, error)
	// UpdateRawResponse overwrites a record's raw AI response.
	UpdateRawResponse(ctx context.Context, recordID int64, text string) (Record, error)
	// ListRecords returns the records matching filter.
	ListRecords(ctx context.Context, filter ListFilter) ([]Record, error)
	// CountRecords returns how many records match filter, ignoring Limit and Offset.
	CountRecords(ctx context.Context, filter ListFilter) (int, error)

	// TrackEvent appends an event with a JSON payload.
	TrackEvent(ctx context.Context, name string, payload any) error
	// CountTodayEventsOfKind counts today's events whose name is in kinds.
	CountTodayEventsOfKind(ctx context.Context, kinds []string) (int, error)
}

// opFunc mutates or reads the loaded store. It reports whether it changed
// anything so the worker knows to persist.
type opFunc func(d *Data, now time.Time) (bool, error)

type op struct {
	ctx    context.Context
	fn     opFunc
	result chan error
}

// Store is the JSON-file review store. All operations run one at a time on a
// single worker goroutine, each against a freshly loaded and repaired copy of
// the file.
type Store struct {
	backend Backend
	now     func() time.Time

	ops       chan op
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New starts a store over backend. Call Close to stop its worker.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		ops:     make(chan op),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Open starts a store backed by the file at path.
func Open(path string, opts ...Option) (*Store, error) {
	backend, err := NewFileBackend(path)
	if err != nil {
		return nil, err
	}
	return New(backend, opts...), nil
}

// Close stops the worker after the in-flight operation settles.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
	})
	<-s.done
	return nil
}

func (s *Store) run() {
	defer close(s.done)
	for {
		select {
		case <-s.closing:
			return
		case o := <-s.ops:
			// A caller that gave up while queued gets nothing done.
			if err := o.ctx.Err(); err != nil {
				o.result <- err
				continue
			}
			o.result <- s.execute(o.ctx, o.fn)
		}
	}
}

// execute performs one full load, repair, mutate, repair, write cycle.
// On error nothing is written and the loaded copy is discarded.
func (s *Store) execute(ctx context.Context, fn opFunc) error {
	logger := contextutil.LoggerFromContext(ctx)
	now := s.now()

	d, err := load(ctx, s.backend, now)
	if err != nil {
		return err
	}

	repaired := Repair(d, now)
	if repaired {
		logger.DebugContext(ctx, "store repaired on load")
	}

	changed, err := fn(d, now)
	if err != nil {
		return err
	}
	if changed {
		Repair(d, now)
	}

	if !repaired && !changed {
		return nil
	}
	d.UpdatedAt = now
	return save(s.backend, d)
}

// do submits fn to the op-queue and waits for it to settle.
func (s *Store) do(ctx context.Context, fn opFunc) error {
	o := op{ctx: ctx, fn: fn, result: make(chan error, 1)}

	select {
	case s.ops <- o:
	case <-s.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// Once started an operation runs to completion, so its outcome is
	// reported even if ctx is cancelled meanwhile.
	return <-o.result
}

// view submits a read-only fn; repairs found on load are still persisted.
func (s *Store) view(ctx context.Context, fn func(d *Data) error) error {
	return s.do(ctx, func(d *Data, _ time.Time) (bool, error) {
		return false, fn(d)
	})
}
