// Package preset resolves the numeric parameters passed to the silence
// analyzer.
//
// Six parameters govern detection, in the exact positional order the
// analyzer expects on its command line: thresh, minquiet, mindetect,
// minbreak, maxsep, pad. Values come from three layers: an explicit
// override string, a pattern-matched preset file entry, or built-in
// defaults. At most one of the first two layers applies per
// resolution; invalid or missing fields always fall back to the
// default for that position.
package preset
