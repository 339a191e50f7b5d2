// Package preflight validates the runtime environment before a flagging
// session starts: directory access, external tool availability, and
// backend reachability.
package preflight
