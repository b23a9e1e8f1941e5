package bfs

import (
	"fmt"
)

// announcementSender delivers one batch to a peer worker. Production workers
// use the RPC-backed sender; tests wire workers together in memory.
type announcementSender interface {
	deliver(dest uint32, batch AnnouncementBatch) error
}

// rpcSender delivers batches over the worker callbook with blocking calls.
// Blocking delivery is what makes the round barrier sound: by the time a
// worker acknowledges round r to the coordinator, every announcement it
// produced for round r+1 is already buffered at its destination.
type rpcSender struct {
	callbook WorkerCallBook
}

func (s *rpcSender) deliver(dest uint32, batch AnnouncementBatch) error {
	client, ok := s.callbook[dest]
	if !ok {
		return fmt.Errorf("no connection to worker %v", dest)
	}
	var ack DeliverAck
	return client.Call("Worker.DeliverAnnouncements", batch, &ack)
}

// exchange routes a round's outgoing announcements to the workers owning
// their targets, one batch per destination. Announcements for this worker's
// own partition feed straight back into its round buffer.
type exchange struct {
	self       uint32
	numWorkers uint32
	sender     announcementSender
	local      *roundBuffer
}

func (e *exchange) route(round uint64, anns []Announcement) (uint64, error) {
	if len(anns) == 0 {
		return 0, nil
	}

	grouped := make(map[uint32][]Announcement)
	for _, a := range anns {
		dest := Owner(a.Target, e.numWorkers)
		grouped[dest] = append(grouped[dest], a)
	}

	for dest := uint32(0); dest < e.numWorkers; dest++ {
		batch := grouped[dest]
		if len(batch) == 0 {
			continue
		}
		if dest == e.self {
			if err := e.local.add(round, batch); err != nil {
				return 0, err
			}
			continue
		}
		err := e.sender.deliver(dest, AnnouncementBatch{
			FromWorker:    e.self,
			Round:         round,
			Announcements: batch,
		})
		if err != nil {
			return 0, fmt.Errorf("deliver round %v batch to worker %v: %v", round, dest, err)
		}
	}
	return uint64(len(anns)), nil
}
