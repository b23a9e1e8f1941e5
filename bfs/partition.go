package bfs

// Node ownership is fixed by the partition key: node id mod worker count.
// Workers index their local state by id div worker count, so a partition's
// nodes occupy a dense [0, PartitionSize) range.

func Owner(node uint32, numWorkers uint32) uint32 {
	return node % numWorkers
}

func LocalIndex(node uint32, numWorkers uint32) uint32 {
	return node / numWorkers
}

func GlobalID(local uint32, numWorkers uint32, worker uint32) uint32 {
	return local*numWorkers + worker
}

// PartitionSize returns the number of nodes in [0, numNodes) owned by worker.
func PartitionSize(numNodes uint64, numWorkers uint32, worker uint32) uint64 {
	w := uint64(worker)
	if numNodes <= w {
		return 0
	}
	return (numNodes - w + uint64(numWorkers) - 1) / uint64(numWorkers)
}
