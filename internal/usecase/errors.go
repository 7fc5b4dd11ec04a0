package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrRetrieval is a failed provider fetch. The league or week is skipped.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrExtraction is a payload or entry that did not match the expected shape.
	ErrExtraction = errors.New("extraction failed")
	// ErrConfiguration is a rejected query precondition.
	ErrConfiguration = errors.New("invalid configuration")
)
