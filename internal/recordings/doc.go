// Package recordings persists recording metadata, commercial markup,
// and flagging job rows in SQLite.
//
// The store mirrors the slice of the MythTV schema this tool touches:
// a recordings table keyed by (chanid, starttime), a marks table
// holding break boundaries as offset/markcode rows, and a jobs table
// carrying flagging job status. Updates during a session are
// best-effort remote writes: a failure is logged by the caller and the
// session continues; the in-memory skip list remains the source of
// truth for live notification.
package recordings
