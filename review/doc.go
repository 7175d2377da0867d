// Package review implements the ingestion review queue coordinator.
//
// It reconciles two independently-failing asynchronous subsystems, the
// extraction pipeline and the vector-index sync, into one unified review
// queue, and includes:
//   - Selection: client-side memory of which jobs a bulk action targets
//   - Dispatcher: routes retries to the correct backend subsystem
//   - Coordinator: executes accept/reject/retry across a selection with
//     eligibility guards and partial-failure accounting
//   - Poller: interval refresh with last-sequence-wins stale discard
//
// One Coordinator instance serves one operator session; there is no global
// state, so multiple sessions can run independently in the same process.
package review
