// Package uploads manages the client-side audio upload queue.
//
// # Queue
//
// [Queue] holds items in insertion order with a pending → uploading →
// success/error lifecycle. Adding validates the file against the server's
// audio allow-list (MIME type first, extension fallback). Removal works in
// any state; ClearCompleted drops successful items only.
//
// # Processing
//
// [Processor] drains pending items through a bounded worker pool with rate
// limiting, streaming each file as a multipart request. Progress is recorded
// on the queue and mirrored to a non-blocking channel of [ProgressUpdate]
// for live display. A successful upload forces progress to 100 and can
// prepend the resulting song into the library via the OnUploaded hook.
//
// # Metadata
//
// [ProbeMeta] reads embedded tags from the local file to prefill the upload
// form; the server remains authoritative for extracted metadata.
package uploads
