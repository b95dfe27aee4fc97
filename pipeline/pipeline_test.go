package pipeline

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func feed(vals ...int) <-chan int {
	ch := make(chan int, len(vals))
	for _, v := range vals {
		ch <- v
	}
	close(ch)
	return ch
}

func TestFromChannel_DrainsUntilClose(t *testing.T) {
	var got []int
	err := FromChannel(feed(1, 2, 3)).ForEach(context.Background(), func(_ context.Context, v int) error {
		got = append(got, v)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestMap_Transforms(t *testing.T) {
	p := Map(FromChannel(feed(1, 2)), func(_ context.Context, v int) (string, error) {
		return strconv.Itoa(v * 10), nil
	})
	var got []string
	if err := p.ForEach(context.Background(), func(_ context.Context, s string) error {
		got = append(got, s)
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "10" || got[1] != "20" {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestMap_PropagatesTransformError(t *testing.T) {
	wantErr := errors.New("encode failed")
	p := Map(FromChannel(feed(1, 2)), func(_ context.Context, v int) (string, error) {
		if v == 2 {
			return "", wantErr
		}
		return strconv.Itoa(v), nil
	})

	var got []string
	err := p.ForEach(context.Background(), func(_ context.Context, s string) error {
		got = append(got, s)
		return nil
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transform error, got %v", err)
	}
	if len(got) != 1 || got[0] != "1" {
		t.Fatalf("values before the failure must still flow, got %v", got)
	}
}

func TestPace_DelaysWithoutDropping(t *testing.T) {
	const interval = 20 * time.Millisecond
	p := Pace(FromChannel(feed(1, 2, 3)), interval)

	start := time.Now()
	count := 0
	if err := p.ForEach(context.Background(), func(_ context.Context, _ int) error {
		count++
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("pace must not drop values, got %d", count)
	}
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Fatalf("expected pacing of at least %v, took %v", 2*interval, elapsed)
	}
}

func TestForEach_StopsOnCancel(t *testing.T) {
	ch := make(chan int) // never closed, never fed
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := FromChannel(ch).ForEach(ctx, func(_ context.Context, _ int) error { return nil })
	if err == nil {
		t.Fatal("expected context error")
	}
}
