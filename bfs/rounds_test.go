package bfs

import (
	"testing"
)

func TestRoundBufferDrainsInOrder(t *testing.T) {
	b := newRoundBuffer()

	err := b.add(0, []Announcement{{Target: 1, Predecessor: 1}})
	if err != nil {
		t.Fatalf("add to round 0 failed: %v", err)
	}
	err = b.add(1, []Announcement{{Target: 2, Predecessor: 1}})
	if err != nil {
		t.Fatalf("add to a future round failed: %v", err)
	}

	anns, err := b.drain(0)
	if err != nil {
		t.Fatalf("drain of round 0 failed: %v", err)
	}
	if len(anns) != 1 || anns[0].Target != 1 {
		t.Errorf("round 0 bucket has wrong contents: %v", anns)
	}

	anns, err = b.drain(1)
	if err != nil {
		t.Fatalf("drain of round 1 failed: %v", err)
	}
	if len(anns) != 1 || anns[0].Target != 2 {
		t.Errorf("round 1 bucket has wrong contents: %v", anns)
	}
}

func TestRoundBufferRejectsDrainedRound(t *testing.T) {
	b := newRoundBuffer()
	if _, err := b.drain(0); err != nil {
		t.Fatalf("drain of empty round 0 failed: %v", err)
	}

	err := b.add(0, []Announcement{{Target: 1, Predecessor: 1}})
	if err == nil {
		t.Errorf("add to a drained round should fail")
	}
}

func TestRoundBufferRejectsOutOfOrderDrain(t *testing.T) {
	b := newRoundBuffer()
	if _, err := b.drain(1); err == nil {
		t.Errorf("drain of round 1 before round 0 should fail")
	}
}

func TestRoundBufferEmptyBatchIsNoop(t *testing.T) {
	b := newRoundBuffer()
	if _, err := b.drain(0); err != nil {
		t.Fatalf("drain of round 0 failed: %v", err)
	}
	// empty batches are accepted even for closed rounds, nothing is buffered
	if err := b.add(0, nil); err != nil {
		t.Errorf("empty add should never fail: %v", err)
	}
}

func TestRoundBufferAccumulatesBatches(t *testing.T) {
	b := newRoundBuffer()
	b.add(0, []Announcement{{Target: 0, Predecessor: 0}})
	b.add(0, []Announcement{{Target: 3, Predecessor: 0}, {Target: 6, Predecessor: 3}})

	anns, err := b.drain(0)
	if err != nil {
		t.Fatalf("drain of round 0 failed: %v", err)
	}
	if len(anns) != 3 {
		t.Errorf("expected 3 buffered announcements but got %v", len(anns))
	}

	// the bucket is consumed whole
	anns, err = b.drain(1)
	if err != nil {
		t.Fatalf("drain of round 1 failed: %v", err)
	}
	if len(anns) != 0 {
		t.Errorf("round 1 should be empty, got %v", anns)
	}
}
