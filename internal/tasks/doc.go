// Package tasks implements the two operations that tie the session store to
// the upstream service: the foreground track query and the background token
// renewal sweep.
//
// [TrackEngine] orchestrates one current-track request: session lookup,
// currently-playing query, art transcode, and the cache write back into the
// owning session record.
//
// [Refresher] owns the recurring sweep that renews any access token nearing
// expiry so an authorized display keeps working without user interaction.
// Renewal failures are logged and swallowed; the affected session keeps its
// old token until it expires on its own.
//
// Both operate on whole session records. A record read before a network call
// is re-read before being written back, so a renewal and a track query racing
// on the same session can interleave but never drop each other's fields.
package tasks
