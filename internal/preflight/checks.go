package preflight

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"chaptermux/internal/fileutil"
)

// CheckDirectoryAccess verifies that the directory exists and is writable,
// which both the temp output and the final rename require.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// CheckFileReadable verifies that path is a regular file the process can read.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckOutputTarget fails when path already exists and overwrite is off, or
// when path is not something a file can replace.
func CheckOutputTarget(name, path string, overwrite bool) Result {
	exists, err := fileutil.Exists(path)
	switch {
	case errors.Is(err, fileutil.ErrNotRegular):
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	case !exists:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (new file)", path)}
	case !overwrite:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: already exists, use --force to replace)", path)}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be replaced)", path)}
	}
}
