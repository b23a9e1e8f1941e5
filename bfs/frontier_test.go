package bfs

import (
	"testing"
)

func TestFrontierFirstClaimWins(t *testing.T) {
	f := NewFrontier(4)

	if !f.TryClaim(2, 7) {
		t.Errorf("claim of an unclaimed node should succeed")
	}
	if f.TryClaim(2, 9) {
		t.Errorf("second claim of the same node should be discarded")
	}

	pred, ok := f.Peek(2)
	if !ok {
		t.Errorf("claimed node reported as unclaimed")
	}
	if pred != 7 {
		t.Errorf("predecessor overwritten: expected 7 but got %v", pred)
	}
	if f.Claimed() != 1 {
		t.Errorf("expected 1 claim but got %v", f.Claimed())
	}
}

func TestFrontierPeekUnclaimed(t *testing.T) {
	f := NewFrontier(3)
	for local := uint32(0); local < 3; local++ {
		if _, ok := f.Peek(local); ok {
			t.Errorf("fresh frontier reports node %v as claimed", local)
		}
	}
	if f.Claimed() != 0 {
		t.Errorf("fresh frontier has %v claims", f.Claimed())
	}
	if f.Size() != 3 {
		t.Errorf("expected size 3 but got %v", f.Size())
	}
}

func TestFrontierSelfPredecessor(t *testing.T) {
	// the root claims itself in round 0
	f := NewFrontier(1)
	if !f.TryClaim(0, 0) {
		t.Errorf("root claim should succeed")
	}
	pred, ok := f.Peek(0)
	if !ok || pred != 0 {
		t.Errorf("root should be its own predecessor, got %v (claimed %v)", pred, ok)
	}
}

func TestFrontierCountsEverySlot(t *testing.T) {
	f := NewFrontier(5)
	for local := uint32(0); local < 5; local++ {
		if !f.TryClaim(local, local) {
			t.Errorf("claim of node %v failed", local)
		}
	}
	if f.Claimed() != 5 {
		t.Errorf("expected 5 claims but got %v", f.Claimed())
	}
}
