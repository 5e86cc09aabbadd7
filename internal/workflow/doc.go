// Package workflow runs one chapter insertion from input paths to a written
// output file.
//
// Runner.Run resolves the container family, checks the filesystem, probes the
// media duration and parses the chapter file concurrently, validates the list
// against the duration, renders the metadata blob for the selected backend,
// and hands it to the Toolchain's remuxer while holding an advisory lock on
// the output. Every failure is tagged with an internal/services marker so the
// CLI can tell bad input from missing files and tool failures; the original
// error stays reachable through errors.Is and errors.As.
//
// The Toolchain interface is the seam tests use to run the whole workflow
// without ffprobe or any remux binary installed.
package workflow
