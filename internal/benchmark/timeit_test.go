package benchmark

import (
	"errors"
	"testing"
	"time"
)

func TestTimeit(t *testing.T) {
	got, elapsed, err := Timeit(func() (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 42, nil
	})

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("Expected at least 20ms, got %v", elapsed)
	}
}

func TestTimeit_PassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")

	got, elapsed, err := Timeit(func() (*string, error) { return nil, boom })

	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil result, got %v", got)
	}
	if elapsed < 0 {
		t.Errorf("Expected non-negative duration, got %v", elapsed)
	}
}
