package chapters

import (
	"errors"
	"testing"
	"time"
)

func listOf(starts ...int) List {
	list := make(List, len(starts))
	for i, s := range starts {
		list[i] = Chapter{Start: time.Duration(s) * time.Second, Title: "x"}
	}
	return list
}

func TestValidateAcceptsIncreasingStarts(t *testing.T) {
	if err := Validate(listOf(0, 5, 10), 20*time.Second); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateAcceptsChapterAtExactEnd(t *testing.T) {
	if err := Validate(listOf(0, 400), 400*time.Second); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateRejectsRegression(t *testing.T) {
	err := Validate(listOf(0, 50, 40), 400*time.Second)
	if !errors.Is(err, ErrNonMonotonicChapters) {
		t.Fatalf("expected ErrNonMonotonicChapters, got %v", err)
	}
	var orderErr *OrderError
	if !errors.As(err, &orderErr) {
		t.Fatalf("expected *OrderError, got %T", err)
	}
	if orderErr.Index != 1 {
		t.Fatalf("index = %d, want 1", orderErr.Index)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	err := Validate(listOf(0, 30, 30), 400*time.Second)
	var orderErr *OrderError
	if !errors.As(err, &orderErr) || orderErr.Index != 1 {
		t.Fatalf("expected OrderError at index 1, got %v", err)
	}
}

func TestValidateRejectsChapterBeyondDuration(t *testing.T) {
	err := Validate(listOf(0, 500), 400*time.Second)
	if !errors.Is(err, ErrChapterBeyondDuration) {
		t.Fatalf("expected ErrChapterBeyondDuration, got %v", err)
	}
	var boundsErr *BoundsError
	if !errors.As(err, &boundsErr) || boundsErr.Index != 1 {
		t.Fatalf("expected BoundsError at index 1, got %v", err)
	}
}

func TestValidateRejectsEmptyList(t *testing.T) {
	if err := Validate(nil, time.Minute); !errors.Is(err, ErrEmptyChapterFile) {
		t.Fatalf("expected ErrEmptyChapterFile, got %v", err)
	}
}

func TestValidateParsedInput(t *testing.T) {
	list, err := Parse("0:10 First topic\n0:20 Second topic")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Validate(list, 30*time.Second); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(list) != 3 || list[0].Title != IntroTitle {
		t.Fatalf("unexpected list: %+v", list)
	}
}
