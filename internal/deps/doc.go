// Package deps reports whether the external tools chaptermux shells out to
// can be found on PATH.
package deps
