package midgard

import (
	"context"
	"testing"
	"time"
)

func TestPacerSpacesCallsWithinFamily(t *testing.T) {
	p := NewPacer(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(ctx, FamilySwaps); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	// First call is immediate, the next two each wait the full gap.
	if elapsed < 80*time.Millisecond {
		t.Fatalf("calls were not paced: elapsed %v", elapsed)
	}
}

func TestPacerFamiliesAreIndependent(t *testing.T) {
	p := NewPacer(200 * time.Millisecond)
	ctx := context.Background()

	if err := p.Wait(ctx, FamilySwaps); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := p.Wait(ctx, FamilyDepths); err != nil {
		t.Fatalf("other family wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("other family should not be delayed: %v", elapsed)
	}
}

func TestPacerHonorsCancellation(t *testing.T) {
	p := NewPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	if err := p.Wait(ctx, FamilyEarnings); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- p.Wait(ctx, FamilyEarnings) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("wait did not observe cancellation")
	}
}

func TestPacerZeroIntervalNeverBlocks(t *testing.T) {
	p := NewPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := p.Wait(ctx, FamilyRunePool); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("zero interval pacer blocked: %v", elapsed)
	}
}
