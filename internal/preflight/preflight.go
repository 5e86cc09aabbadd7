package preflight

import (
	"path/filepath"
	"strings"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Paths names the files an insert run touches.
type Paths struct {
	Video     string
	Chapters  string
	Output    string
	Overwrite bool
}

// RunAll executes the filesystem checks an insert run needs before any
// external tool is started.
func RunAll(p Paths) []Result {
	var results []Result
	if strings.TrimSpace(p.Video) != "" {
		results = append(results, CheckFileReadable("Video file", p.Video))
	}
	if strings.TrimSpace(p.Chapters) != "" {
		results = append(results, CheckFileReadable("Chapter file", p.Chapters))
	}
	if strings.TrimSpace(p.Output) != "" {
		results = append(results, CheckDirectoryAccess("Output directory", filepath.Dir(p.Output)))
		results = append(results, CheckOutputTarget("Output file", p.Output, p.Overwrite))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
