package utils

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWithBackoffSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithBackoff(3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithBackoffSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithBackoff(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithBackoffReturnsLastError(t *testing.T) {
	lastErr := errors.New("still failing")
	calls := 0
	err := WithBackoff(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return lastErr
	})
	if !errors.Is(err, lastErr) {
		t.Errorf("expected last error to surface, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithBackoffStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := WithBackoff(3, time.Millisecond, func() error {
		calls++
		return fmt.Errorf("%w: token gone", ErrPermanent)
	})
	if !errors.Is(err, ErrPermanent) {
		t.Errorf("expected the permanent error to surface, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
}

func TestWithBackoffClampsAttempts(t *testing.T) {
	calls := 0
	err := WithBackoff(0, time.Millisecond, func() error {
		calls++
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
}
