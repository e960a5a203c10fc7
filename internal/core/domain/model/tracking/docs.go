// Package tracking holds the ephemeral live-tracking value objects of the
// dispatch domain: the per-task latest-wins LocationSample and the transient
// status event payloads fanned out to observers. Neither is persisted as an
// append log; conflicts between samples are resolved purely by the device
// capture timestamp.
package tracking
