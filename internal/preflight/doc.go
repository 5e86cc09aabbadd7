// Package preflight checks the filesystem before an insert run starts an
// external tool: inputs must be readable, the output directory writable, and
// an existing output is only replaced when overwrite is allowed.
//
// The CLI "check" command uses CheckDirectoryAccess on its own to report
// whether a target directory can receive output.
package preflight
