package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/market-query-api/pkg/filter"
)

func TestMockCollection_Find(t *testing.T) {
	m := NewMockCollection(1, 2, 3, 4)
	even := filter.New[int]().Where(filter.Equal("parity", func(v int) int { return v % 2 }, 0))

	got, err := m.Find(context.Background(), even)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("Find() = %v, want [2 4]", got)
	}
	if m.FindCount() != 1 {
		t.Errorf("FindCount() = %d, want 1", m.FindCount())
	}

	m.Reset()
	if m.FindCount() != 0 {
		t.Errorf("FindCount() after Reset = %d, want 0", m.FindCount())
	}
}

func TestMockCollection_Error(t *testing.T) {
	m := NewMockCollection[int]()
	boom := errors.New("boom")
	m.SetError(boom)

	if _, err := m.Find(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("Find() error = %v, want %v", err, boom)
	}
}

func TestMockCollection_HoldHonoursContext(t *testing.T) {
	m := NewMockCollection(1)
	release := m.Hold()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := m.Find(ctx, nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Find() error = %v, want deadline exceeded", err)
	}
}

func TestClock_Advance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start)
	c.Advance(time.Minute)

	if got := c.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Now() = %v, want %v", got, start.Add(time.Minute))
	}
}
