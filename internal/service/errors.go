package service

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

var (
	// ErrDuplicatePath is returned when a folder path is already registered.
	ErrDuplicatePath = errors.New("folder already registered")
	// ErrFilesystemAccess is returned when a directory cannot be listed during a walk.
	ErrFilesystemAccess = errors.New("filesystem access error")
	// ErrInvalidQueryInput is returned when a query input cannot be used (e.g. unreadable image).
	ErrInvalidQueryInput = errors.New("invalid query input")
	// ErrEmbeddingService is returned when the embedding function fails for an item.
	ErrEmbeddingService = errors.New("embedding service error")
	// ErrIndexUnavailable is returned when the vector index cannot be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrIngestBusy is returned when a folder already has a running ingestion task.
	ErrIngestBusy = errors.New("ingestion already running")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
)

// Code is the machine-readable identifier attached to domain errors.
type Code string

const (
	CodeFolderDuplicate   Code = "registry.folder.duplicate"
	CodeRegistryFailure   Code = "registry.database.failure"
	CodeWalkAccess        Code = "ingest.walk.access"
	CodeIngestBusy        Code = "ingest.task.busy"
	CodeQueryInvalidInput Code = "retrieval.query.invalid_input"
	CodeEmbeddingFailure  Code = "embedding.upstream.failure"
	CodeIndexUnavailable  Code = "index.upstream.unavailable"
	CodeResourceNotFound  Code = "resource.not_found"
	CodeInternalFailure   Code = "internal.failure"
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets validation errors match ErrInvalidQueryInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidQueryInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrap attaches a code and key/value context to err.
// The original chain stays reachable through errors.Is.
func Wrap(err error, code Code, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(code).With(kv...).Wrapf(err, "%s", msg)
}

// DuplicatePath builds the error returned for an already registered folder.
func DuplicatePath(path string) error {
	return Wrap(ErrDuplicatePath, CodeFolderDuplicate, "register folder", "path", path)
}

// InvalidQueryInput builds the error returned for an unusable query input.
func InvalidQueryInput(cause error, input string) error {
	if cause == nil {
		cause = ErrInvalidQueryInput
	} else {
		cause = fmt.Errorf("%w: %w", ErrInvalidQueryInput, cause)
	}
	return Wrap(cause, CodeQueryInvalidInput, "query input", "input", input)
}

// IndexUnavailable marks err as a vector index connectivity failure.
func IndexUnavailable(err error, op string) error {
	if err == nil {
		return nil
	}
	return Wrap(fmt.Errorf("%w: %w", ErrIndexUnavailable, err), CodeIndexUnavailable, op)
}

// EmbeddingFailure marks err as a failure of the embedding function for one item.
func EmbeddingFailure(err error, item string) error {
	if err == nil {
		return nil
	}
	return Wrap(fmt.Errorf("%w: %w", ErrEmbeddingService, err), CodeEmbeddingFailure, "embed item", "item", item)
}

// FilesystemAccess marks err as a walk failure below path.
func FilesystemAccess(err error, path string) error {
	if err == nil {
		return nil
	}
	return Wrap(fmt.Errorf("%w: %w", ErrFilesystemAccess, err), CodeWalkAccess, "walk folder", "path", path)
}

// CodeOf returns the code attached to err, or "" if none.
func CodeOf(err error) Code {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	switch c := oopsErr.Code().(type) {
	case Code:
		return c
	case string:
		return Code(c)
	case nil:
		return ""
	default:
		return Code(fmt.Sprintf("%v", c))
	}
}
