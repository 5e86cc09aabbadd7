package chapters

import "time"

// Validate checks a parsed list against the probed media duration.
//
// Starts must be strictly increasing; an equal pair counts as disorder. A
// chapter may start exactly at the end of the media but not after it.
func Validate(list List, duration time.Duration) error {
	if len(list) == 0 {
		return ErrEmptyChapterFile
	}
	for i := 0; i+1 < len(list); i++ {
		if list[i+1].Start <= list[i].Start {
			return &OrderError{Index: i, Prev: list[i].Start, Next: list[i+1].Start}
		}
	}
	for i, ch := range list {
		if ch.Start < 0 || ch.Start > duration {
			return &BoundsError{Index: i, Start: ch.Start, Duration: duration}
		}
	}
	return nil
}
