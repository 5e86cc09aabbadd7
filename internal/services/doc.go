// Package services defines shared utilities consumed by the insert workflow
// and the external tool wrappers.
//
// Key responsibilities:
//   - The Run context value (run ID, video, stage) used to correlate log
//     lines.
//   - Structured error markers plus the Wrap helper so the CLI can classify a
//     failure (bad input, missing file, tool failure) without string matching.
package services
