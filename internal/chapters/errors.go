package chapters

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimestamp      = errors.New("invalid timestamp")
	ErrInvalidChapterLine    = errors.New("invalid chapter line")
	ErrEmptyChapterFile      = errors.New("no chapters found in chapter file")
	ErrNonMonotonicChapters  = errors.New("chapter start times are not strictly increasing")
	ErrChapterBeyondDuration = errors.New("chapter starts after the end of the media")
)

// TimestampError reports a timestamp that could not be parsed.
type TimestampError struct {
	Text   string
	Reason string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidTimestamp, e.Text, e.Reason)
}

func (e *TimestampError) Unwrap() error { return ErrInvalidTimestamp }

// LineError ties a parse failure to its 1-based line in the chapter file.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

func (e *LineError) Is(target error) bool { return target == ErrInvalidChapterLine }

// OrderError reports the first pair of chapters that is not strictly
// increasing. Index is the 0-based position of the earlier chapter.
type OrderError struct {
	Index int
	Prev  time.Duration
	Next  time.Duration
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%v: chapter %d starts at %s but chapter %d starts at %s",
		ErrNonMonotonicChapters, e.Index, FormatTimestamp(e.Prev), e.Index+1, FormatTimestamp(e.Next))
}

func (e *OrderError) Unwrap() error { return ErrNonMonotonicChapters }

// BoundsError reports a chapter whose start lies outside the media.
type BoundsError struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: chapter %d starts at %s, media duration is %s",
		ErrChapterBeyondDuration, e.Index, FormatTimestamp(e.Start), FormatTimestamp(e.Duration))
}

func (e *BoundsError) Unwrap() error { return ErrChapterBeyondDuration }
