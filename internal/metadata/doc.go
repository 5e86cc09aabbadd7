// Package metadata renders a validated chapter list into the chapter syntax a
// remux tool consumes.
//
// Key entry points:
//   - Format: dispatches on container.Kind. QuickTime outputs get OGM
//     "simple chapter" text (MP4Box -chap), Matroska outputs get a Matroska
//     chapter XML document (mkvmerge --chapters).
//   - FormatFFMetadata: FFmpeg's ;FFMETADATA1 syntax, used when ffmpeg is
//     the configured remux backend for either family.
//
// Rendering is deterministic: the same list always yields byte-identical
// output, including the Matroska UIDs, which are derived from the chapter
// contents rather than drawn at random.
package metadata
