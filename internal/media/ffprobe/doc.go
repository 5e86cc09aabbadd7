// Package ffprobe wraps ffprobe's JSON output and answers the one question
// chaptermux asks of it: how long is this file.
//
// Key types:
//   - Result: parsed format and stream metadata
//   - Prober: runs ffprobe and reports the container duration
//
// Inspect is usable on its own; Prober adds the duration rules (a missing,
// non-numeric, or non-positive duration is an ErrProbe failure).
package ffprobe
