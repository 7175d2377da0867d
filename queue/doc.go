// Package queue provides read access to the ingestion review queue.
//
// The Repository type wraps the platform's listing endpoint and owns two
// client-side concerns the raw API does not:
//   - Supersession: starting a new read cancels any prior in-flight read,
//     so only the most recently requested result is ever returned.
//   - Debouncing: free-text search input is held for a quiescence window
//     before a request is issued, to avoid one request per keystroke.
//
// Applied pages are written through to an optional snapshot store on a
// best-effort basis; cache failures are logged, never surfaced.
package queue
