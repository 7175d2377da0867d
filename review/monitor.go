package review

import "github.com/nyx-solutions-team/briefly-app-sub002/core"

// PollMonitor provides hooks to observe the polling process.
// Implement this interface to track fetches, applied snapshots, and
// discarded stale responses.
type PollMonitor interface {
	Started(seq uint64)
	Applied(seq uint64, page *core.QueuePage)
	Discarded(seq uint64)
	Failed(seq uint64, err error)
}

// noopMonitor is a no-op implementation of PollMonitor
type noopMonitor struct{}

var _ PollMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Started(_ uint64)                    {}
func (n *noopMonitor) Applied(_ uint64, _ *core.QueuePage) {}
func (n *noopMonitor) Discarded(_ uint64)                  {}
func (n *noopMonitor) Failed(_ uint64, _ error)            {}
