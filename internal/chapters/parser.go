package chapters

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// IntroTitle names the chapter prepended when the list does not start at zero.
	IntroTitle = "Intro"
	// DefaultTitleFormat names chapters whose line carries no title; the verb
	// receives the 1-based position in the final list.
	DefaultTitleFormat = "Chapter %d"
)

// Separators may sit between the timestamp and the title. At most one is
// stripped. The dashes beyond '-' show up when lists are copied from web pages.
var Separators = []string{"-", "|", "–", "—"}

// Chapter is a single chapter marker.
type Chapter struct {
	Start time.Duration
	Title string
}

// List is an ordered chapter sequence; index order is output order.
type List []Chapter

// Parser holds the parse policy. The zero value uses IntroTitle.
type Parser struct {
	IntroTitle string
}

// Parse parses text with the default policy.
func Parse(text string) (List, error) {
	return Parser{}.Parse(text)
}

// ParseReader parses r with the default policy.
func ParseReader(r io.Reader) (List, error) {
	return Parser{}.ParseReader(r)
}

// ReadFile parses the chapter file at path with the default policy.
func ReadFile(path string) (List, error) {
	return Parser{}.ReadFile(path)
}

// ReadFile opens path and parses it.
func (p Parser) ReadFile(path string) (List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chapter file: %w", err)
	}
	defer file.Close()
	return p.ParseReader(file)
}

// ParseReader decodes r as UTF-8 (a UTF-8 or UTF-16 byte order mark selects
// the encoding) and parses the result.
func (p Parser) ParseReader(r io.Reader) (List, error) {
	decoded := transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("read chapter file: %w", err)
	}
	return p.Parse(string(data))
}

// Parse builds a chapter list from raw chapter-file text.
//
// Blank lines are skipped. Any other line must begin with a timestamp; a bad
// timestamp fails the whole parse with a *LineError. When the first chapter
// does not start at zero an intro chapter is prepended. The list is returned
// in line order; Validate reports disorder.
func (p Parser) Parse(text string) (List, error) {
	var list List
	for idx, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		token, rest := cutField(line)
		start, err := ParseTimestamp(token)
		if err != nil {
			return nil, &LineError{Line: idx + 1, Text: line, Err: err}
		}
		list = append(list, Chapter{Start: start, Title: cleanTitle(rest)})
	}

	if len(list) == 0 {
		return nil, ErrEmptyChapterFile
	}

	if list[0].Start != 0 {
		list = append(List{{Start: 0, Title: p.introTitle()}}, list...)
	}

	for i := range list {
		if list[i].Title == "" {
			list[i].Title = fmt.Sprintf(DefaultTitleFormat, i+1)
		}
	}
	return list, nil
}

func (p Parser) introTitle() string {
	if title := strings.TrimSpace(p.IntroTitle); title != "" {
		return title
	}
	return IntroTitle
}

// cleanTitle strips one leading separator, drops the end timestamp of a
// "start - end title" range line, and NFC-normalizes what is left.
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for _, sep := range Separators {
		if rest, ok := strings.CutPrefix(title, sep); ok {
			title = strings.TrimSpace(rest)
			break
		}
	}

	if token, rest := cutField(title); rest != "" {
		if _, err := ParseTimestamp(token); err == nil {
			title = strings.TrimSpace(rest)
		}
	}
	return norm.NFC.String(title)
}

// cutField splits s into its first whitespace-delimited token and the rest.
func cutField(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}
