// Package pipeline launches the external process chain that feeds the
// silence analyzer.
//
// Three stages are wired stdout-to-stdin: a tail follower that keeps
// reading the recording file as it grows, a transcoder that extracts a
// fixed-channel uncompressed audio stream, and the silence analyzer
// itself. Only the analyzer's stdout is read by the caller. The tail
// stage never exits on its own; the recording subsystem terminates it
// when the recording is complete, which drains the chain and surfaces
// as end-of-stream on the analyzer output.
package pipeline
