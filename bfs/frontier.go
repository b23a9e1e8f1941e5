package bfs

// unreached marks an unclaimed frontier slot. Node counts are capped at
// 2^32-1 (see MaxNodeCount), so no valid predecessor id can collide with it.
const unreached = ^uint32(0)

// Frontier records, for every local node, the predecessor that first reached
// it. Entries are written at most once per query: the first claim wins and
// later announcements for the same node are discarded. A frontier belongs to
// exactly one worker and is only touched from its round processing, so it
// carries no locks.
type Frontier struct {
	preds   []uint32
	claimed uint64
}

func NewFrontier(localNodes uint64) *Frontier {
	preds := make([]uint32, localNodes)
	for i := range preds {
		preds[i] = unreached
	}
	return &Frontier{preds: preds}
}

// Peek reports the predecessor of a claimed local node.
func (f *Frontier) Peek(local uint32) (uint32, bool) {
	pred := f.preds[local]
	if pred == unreached {
		return 0, false
	}
	return pred, true
}

// TryClaim sets the predecessor of a local node if and only if the node is
// still unclaimed, and reports whether the claim took effect.
func (f *Frontier) TryClaim(local uint32, pred uint32) bool {
	if f.preds[local] != unreached {
		return false
	}
	f.preds[local] = pred
	f.claimed++
	return true
}

// Claimed returns the number of successful claims so far.
func (f *Frontier) Claimed() uint64 {
	return f.claimed
}

// Size returns the number of local slots.
func (f *Frontier) Size() uint64 {
	return uint64(len(f.preds))
}
