// Package platform defines the contracts for the document-ingestion
// platform's backend API.
//
// The interfaces here decouple the review-queue coordinator from the wire
// protocol. The rest subpackage provides the HTTP implementation; the mock
// subpackage provides test doubles with injectable behavior.
//
// Error taxonomy: transport failures (the call never reached the server) are
// reported as *TransportError; server-side rejections as *StatusError; bulk
// operations report per-item outcomes in core.BulkOutcome and only return an
// error when the call as a whole failed.
package platform
