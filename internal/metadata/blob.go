package metadata

import (
	"fmt"
	"time"
)

// Syntax identifies the chapter file syntax held by a Blob.
type Syntax int

const (
	SyntaxOGM Syntax = iota + 1
	SyntaxMatroskaXML
	SyntaxFFMetadata
)

func (s Syntax) String() string {
	switch s {
	case SyntaxOGM:
		return "ogm"
	case SyntaxMatroskaXML:
		return "matroska-xml"
	case SyntaxFFMetadata:
		return "ffmetadata"
	default:
		return fmt.Sprintf("syntax(%d)", int(s))
	}
}

// Extension is the file suffix the consuming tool expects for this syntax.
func (s Syntax) Extension() string {
	switch s {
	case SyntaxMatroskaXML:
		return ".xml"
	case SyntaxFFMetadata:
		return ".ffmeta"
	default:
		return ".txt"
	}
}

// Blob is a rendered chapter file, handed verbatim to the remuxer.
type Blob struct {
	Syntax Syntax
	Data   []byte
}

// String returns the blob contents.
func (b Blob) String() string {
	return string(b.Data)
}

// clockTime renders d as HH:MM:SS.fff with digits fractional digits (3 or 9).
func clockTime(d time.Duration, digits int) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	frac := d - s*time.Second
	if digits == 3 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, frac/time.Millisecond)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%09d", h, m, s, frac)
}
