package errors

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMessageErrorListsCharacters(t *testing.T) {
	err := error(&MessageError{Invalid: []string{"0x09", "0xE9"}})
	if !Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage in chain")
	}
	if err.Error() != "unsupported characters in message: 0x09 0xE9" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if NewMessageError("empty message is invalid").Error() != "empty message is invalid" {
		t.Fatalf("expected reason as message")
	}
}

func TestRangeErrorIsInvalidRange(t *testing.T) {
	err := Wrap(&RangeError{Min: 5, Max: 2, Reason: "min exceeds max"}, "validate")
	if !Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange in chain")
	}
	var rangeErr *RangeError
	if !As(err, &rangeErr) || rangeErr.Min != 5 {
		t.Fatalf("expected RangeError via As, got %v", rangeErr)
	}
}

func TestConfigErrorUnwrapsBoth(t *testing.T) {
	cause := errors.New("bad width")
	err := NewConfigError("font", "x.txt", cause)
	if !Is(err, ErrConfiguration) || !Is(err, cause) {
		t.Fatalf("expected both sentinel and cause in chain")
	}
	if !strings.Contains(err.Error(), "font = x.txt") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestCommitErrorWrapsGitError(t *testing.T) {
	gitErr := &GitError{Args: []string{"commit", "--allow-empty"}, Err: errors.New("exit status 128"), Output: "fatal: not a git repository\n"}
	err := &CommitError{Date: time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC), Unit: 2, Err: gitErr}
	if !Is(err, ErrCommitFailed) {
		t.Fatalf("expected ErrCommitFailed in chain")
	}
	var target *GitError
	if !As(err, &target) {
		t.Fatalf("expected GitError via As")
	}
	want := "commit 3 for 2024-03-03 failed: git commit --allow-empty failed: fatal: not a git repository: exit status 128"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}
}
