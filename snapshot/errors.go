package snapshot

import "errors"

var (
	// ErrNoSnapshot indicates no page has been cached for the query key.
	ErrNoSnapshot = errors.New("no snapshot for query")

	// ErrStoreClosed indicates the store is closed.
	ErrStoreClosed = errors.New("snapshot store is closed")

	// ErrSerializationFailed indicates a cached value could not be decoded.
	ErrSerializationFailed = errors.New("snapshot serialization failed")
)
