// Package fileutil holds the small filesystem helpers the remux backends share:
// copying media, staging temp files next to their destination, and promoting
// them into place.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile streams src to dst, keeping the source permission bits. The size
// written is checked against the source so a short copy never looks complete.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("copy %s: is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	written, err := io.Copy(out, in)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	return nil
}

// TempSibling reserves a hidden temporary file beside target that keeps the
// target's extension, since the remux tools pick their output muxer from it.
// The caller owns the returned path.
func TempSibling(target string) (string, error) {
	dir := filepath.Dir(target)
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(filepath.Base(target), ext)
	f, err := os.CreateTemp(dir, "."+stem+".*.tmp"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp output: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// WriteTemp writes data to a new temp file in dir (the system temp dir when
// empty) whose name ends in suffix, and returns its path.
func WriteTemp(dir, prefix, suffix string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, prefix+"*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return name, nil
}

// Promote renames tmp over dst. On failure tmp is removed.
func Promote(tmp, dst string) error {
	info, err := os.Stat(tmp)
	if err != nil {
		return fmt.Errorf("temp output missing: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(tmp)
		return fmt.Errorf("temp output %s is empty", tmp)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// ErrNotRegular reports an existing path that is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// Exists reports whether anything exists at path. An existing directory or
// other non-regular file is reported as present together with ErrNotRegular.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.Mode().IsRegular() {
		return true, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return true, nil
}
