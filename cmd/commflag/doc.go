// Command commflag detects commercial breaks in MythTV recordings by
// following the recording file through an external silence analyzer and
// pushing live skip list updates to the backend.
package main
