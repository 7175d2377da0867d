package queue

import "errors"

var (
	// ErrSuperseded indicates the read was cancelled because a newer read
	// for the queue was issued. Not a failure; callers discard it silently.
	ErrSuperseded = errors.New("read superseded by newer request")

	// ErrListerRequired is returned when a job lister is not provided.
	ErrListerRequired = errors.New("job lister required")
)
