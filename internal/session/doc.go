// Package session drives one complete flagging pass over a recording:
// preset resolution, the external detection pipeline, skip list growth,
// live player updates, and job bookkeeping.
package session
