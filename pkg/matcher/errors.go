package matcher

import "errors"

var (
	// ErrMissingConfig is returned by New when a required credential or
	// storage location is not configured.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrNotAList is returned by Preprocess when it is not given a list.
	ErrNotAList = errors.New("preprocess input must be a list of strings")

	// ErrNotInitialized is the cause recorded when an operation needs a
	// store client that was never created.
	ErrNotInitialized = errors.New("vector store not initialized")
)
