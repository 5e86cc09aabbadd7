// Package container maps media file extensions onto the two chapter-capable
// container families chaptermux writes, and owns the default output naming.
package container

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupported is returned for extensions outside both families.
var ErrUnsupported = errors.New("unsupported container")

// Kind selects the chapter syntax and remux tool for a file.
type Kind int

const (
	// QuickTime covers MP4/MOV style files (ISO base media).
	QuickTime Kind = iota + 1
	// Matroska covers MKV style files.
	Matroska
)

var extensions = map[string]Kind{
	".mp4":  QuickTime,
	".m4v":  QuickTime,
	".m4a":  QuickTime,
	".m4b":  QuickTime,
	".mov":  QuickTime,
	".mkv":  Matroska,
	".mka":  Matroska,
	".mk3d": Matroska,
}

func (k Kind) String() string {
	switch k {
	case QuickTime:
		return "quicktime"
	case Matroska:
		return "matroska"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FromPath derives the container kind from the file extension.
func FromPath(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := extensions[ext]; ok {
		return kind, nil
	}
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no file extension", ErrUnsupported, path)
	}
	return 0, fmt.Errorf("%w %q: expected one of %s", ErrUnsupported, ext, strings.Join(SupportedExtensions(), ", "))
}

// FromName accepts a bare extension or family name ("mp4", ".mkv", "matroska").
func FromName(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "quicktime":
		return QuickTime, nil
	case "matroska":
		return Matroska, nil
	}
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	return FromPath(name)
}

// Resolve returns the kind to write for a source/output pair. The output
// decides the kind; the source must be supported and of the same family
// because chapters are inserted with stream copy only.
func Resolve(source, output string) (Kind, error) {
	sourceKind, err := FromPath(source)
	if err != nil {
		return 0, fmt.Errorf("input: %w", err)
	}
	outputKind, err := FromPath(output)
	if err != nil {
		return 0, fmt.Errorf("output: %w", err)
	}
	if sourceKind != outputKind {
		return 0, fmt.Errorf("%w: cannot write %s output from %s input", ErrUnsupported, outputKind, sourceKind)
	}
	return outputKind, nil
}

// SupportedExtensions lists every accepted extension in sorted order.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// DefaultOutputPath places "<stem>.chapters<ext>" next to the source.
func DefaultOutputPath(source string) string {
	ext := filepath.Ext(source)
	stem := strings.TrimSuffix(filepath.Base(source), ext)
	return filepath.Join(filepath.Dir(source), stem+".chapters"+ext)
}
