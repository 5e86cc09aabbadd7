// Package main hosts the chaptermux CLI entrypoint and command graph.
//
// The Cobra-based command tree covers inserting chapters into a video
// (insert), inspecting a chapter file without touching media (preview),
// checking the external tools (check), and configuration scaffolding
// (config). Configuration and logger setup happen once in commandContext so
// subcommands only deal with their own flags.
//
// Keep this package lean: behaviour belongs in internal/workflow and the
// packages it drives; commands translate flags into a workflow.Request and
// render the result.
package main
