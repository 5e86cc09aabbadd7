// Package chapters turns a plain-text chapter list into an ordered, validated
// sequence of chapter start times and titles.
//
// The accepted input is the format people paste under videos: one chapter
// per line, a timestamp (MM:SS or HH:MM:SS) followed by an optional
// separator and the title:
//
//	0:00 Intro
//	1:23 - Setup
//	2:34 | Deep dive
//	01:02:03 Final notes
//
// Parsing never reorders or drops user chapters. When the first chapter does
// not start at zero an implicit IntroTitle chapter is prepended so the list
// always covers the whole file. Ordering and bounds are checked separately
// by Validate once the media duration is known.
//
// Everything here is pure: no I/O beyond the reader handed to ParseReader,
// no shared state.
package chapters
