// CLAUDE:SUMMARY Sentinel errors for the publish flow: auth precondition, capture failure, store failure.
package publish

import "errors"

// ErrAuth is returned when no authenticated identity is available.
// Precondition failure: reported before any remote call, never retried.
var ErrAuth = errors.New("publish: no authenticated identity")

// ErrCapture is returned when the live table cannot be captured (source
// document missing or malformed). Reported before any remote interaction.
var ErrCapture = errors.New("publish: snapshot capture failed")

// ErrStore wraps any remote lookup, upload, create or update failure.
// Propagated verbatim to the caller; this layer never retries.
var ErrStore = errors.New("publish: store operation failed")
