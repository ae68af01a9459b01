package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced folder or record does not exist.
var ErrNotFound = errors.New("not found")

// Reason is the machine-readable cause of a store validation failure.
type Reason string

const (
	ReasonEmptyName       Reason = "empty_name"
	ReasonNameTooLong     Reason = "name_too_long"
	ReasonNameTaken       Reason = "name_taken"
	ReasonTooFewFolders   Reason = "too_few_folders"
	ReasonFolderNotFound  Reason = "folder_not_found"
	ReasonRecordNotFound  Reason = "record_not_found"
	ReasonProtectedFolder Reason = "protected_folder"
)

// Error is a store validation failure with a distinguishing reason and a
// human-facing message.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any store error with the same reason, so callers can test with
// errors.Is(err, storage.ErrProtectedFolder).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Reason == e.Reason
	}
	return false
}

// Unwrap exposes ErrNotFound for the not-found reasons.
func (e *Error) Unwrap() error {
	switch e.Reason {
	case ReasonFolderNotFound, ReasonRecordNotFound:
		return ErrNotFound
	}
	return nil
}

var (
	ErrEmptyName       = &Error{Reason: ReasonEmptyName, Message: "folder name cannot be empty"}
	ErrNameTooLong     = &Error{Reason: ReasonNameTooLong, Message: fmt.Sprintf("folder name exceeds %d characters", MaxFolderNameLength)}
	ErrTooFewFolders   = &Error{Reason: ReasonTooFewFolders, Message: "at least two distinct folders are required to merge"}
	ErrFolderNotFound  = &Error{Reason: ReasonFolderNotFound, Message: "folder not found"}
	ErrRecordNotFound  = &Error{Reason: ReasonRecordNotFound, Message: "record not found"}
	ErrProtectedFolder = &Error{Reason: ReasonProtectedFolder, Message: "the default folder cannot be modified this way"}
)

func folderNotFound(id int64) error {
	return &Error{Reason: ReasonFolderNotFound, Message: fmt.Sprintf("folder %d not found", id)}
}

func nameTaken(name string) error {
	return &Error{Reason: ReasonNameTaken, Message: fmt.Sprintf("a folder named %q already exists", name)}
}

func recordNotFound(id int64) error {
	return &Error{Reason: ReasonRecordNotFound, Message: fmt.Sprintf("record %d not found", id)}
}

func protectedFolder(op string) error {
	return &Error{Reason: ReasonProtectedFolder, Message: fmt.Sprintf("cannot %s the default folder %q", op, DefaultFolderName)}
}
