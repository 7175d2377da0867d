package review

import "errors"

var (
	// ErrAPIRequired is returned when a platform API is not provided.
	ErrAPIRequired = errors.New("platform API required")

	// ErrListerRequired is returned when a queue lister is not provided.
	ErrListerRequired = errors.New("queue lister required")

	// ErrSinkRequired is returned when a snapshot sink is not provided.
	ErrSinkRequired = errors.New("snapshot sink required")

	// ErrEmptySelection indicates a bulk action was invoked with nothing
	// selected.
	ErrEmptySelection = errors.New("selection is empty")

	// ErrMixedSelection indicates accept was invoked on a selection that
	// contains jobs not in the ready state. Caught client-side; no backend
	// call is made.
	ErrMixedSelection = errors.New("selection contains jobs that are not ready")

	// ErrActionInProgress indicates another bulk action is still
	// outstanding for this coordinator.
	ErrActionInProgress = errors.New("a bulk action is already in progress")
)
