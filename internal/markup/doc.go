// Package markup turns the silence analyzer's tagged output lines into
// typed events and accumulates detected commercial breaks.
//
// The analyzer emits one event per line in the form "tag@payload".
// ParseLine classifies every line into exactly one of three variants:
// a cut (a detected break interval), a log forward, or an unrecognized
// tag. Unrecognized input is a first-class event, not an error, so
// analyzer protocol drift never aborts a session.
package markup
