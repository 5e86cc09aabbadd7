// Package remux embeds rendered chapter metadata into a media file by driving
// an external tool. Nothing is re-encoded: every backend stream-copies.
//
// Backends:
//   - Native: MP4Box for QuickTime-family files, mkvmerge for Matroska
//   - FFmpeg: ffmpeg with an FFMETADATA chapter file, for either family
//
// Every backend writes the blob to a temp file, produces a hidden temp output
// beside the destination, and renames it into place only when the tool
// succeeds. Toolchain pairs the configured backend with an ffprobe Prober so
// callers get both collaborators from one value.
package remux
