package bfs

import (
	"fmt"
	"sync"
)

// roundBuffer holds announcement batches keyed by round number until the
// coordinator releases that round. Deliveries arrive on concurrent RPC
// goroutines; drains happen from the single round-processing path. Buckets
// are consumed whole and in strict round order: the shortest-path guarantee
// depends on never processing round r+1 data before round r is finished.
type roundBuffer struct {
	mu      sync.Mutex
	pending map[uint64][]Announcement
	next    uint64 // next round eligible to drain
}

func newRoundBuffer() *roundBuffer {
	return &roundBuffer{pending: make(map[uint64][]Announcement)}
}

// add buffers a batch for the given round. Rounds that have already been
// drained are closed; data arriving for one means the barrier was violated.
func (b *roundBuffer) add(round uint64, anns []Announcement) error {
	if len(anns) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if round < b.next {
		return fmt.Errorf("announcements for round %v arrived after that round was drained", round)
	}
	b.pending[round] = append(b.pending[round], anns...)
	return nil
}

// drain removes and returns the whole bucket for the given round, which must
// be the next round in sequence. An empty bucket drains as nil.
func (b *roundBuffer) drain(round uint64) ([]Announcement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if round != b.next {
		return nil, fmt.Errorf("drain of round %v out of order, expected round %v", round, b.next)
	}
	anns := b.pending[round]
	delete(b.pending, round)
	b.next = round + 1
	return anns, nil
}
