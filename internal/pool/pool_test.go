package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}

	// Later items finish first, so order must come from Map, not timing.
	got, err := Map(context.Background(), 3, items, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * 10 * time.Millisecond)
		return n * n, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	exp := []int{25, 16, 9, 4, 1, 0}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("unexpected results (-want,+got):\n%s", diff)
	}
}

func TestMapReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")

	results, err := Map(context.Background(), 2, []int{0, 1, 2, 3}, func(_ context.Context, n int) (int, error) {
		if n == 1 {
			return 0, boom
		}
		return n, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if results != nil {
		t.Fatalf("expected no results on failure, got %v", results)
	}
}

func TestMapStopsAfterFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []int

	// A single worker makes the schedule sequential: the first item fails and
	// the remaining items must never start.
	_, err := Map(context.Background(), 1, []int{0, 1, 2}, func(_ context.Context, n int) (int, error) {
		ran = append(ran, n)
		if n == 0 {
			return 0, boom
		}
		return n, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if diff := cmp.Diff([]int{0}, ran); diff != "" {
		t.Fatalf("unexpected items run (-want,+got):\n%s", diff)
	}
}

func TestMapNoItems(t *testing.T) {
	got, err := Map(context.Background(), 4, nil, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestMapNormalizesWorkerCount(t *testing.T) {
	got, err := Map(context.Background(), 0, []int{1, 2}, func(_ context.Context, n int) (int, error) {
		return n + 1, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2, 3}, got); diff != "" {
		t.Fatalf("unexpected results (-want,+got):\n%s", diff)
	}
}
