package bfs

import (
	"errors"
	"testing"
)

// recordingSender captures deliveries instead of sending them anywhere.
type recordingSender struct {
	dests   []uint32
	batches []AnnouncementBatch
}

func (s *recordingSender) deliver(dest uint32, batch AnnouncementBatch) error {
	s.dests = append(s.dests, dest)
	s.batches = append(s.batches, batch)
	return nil
}

type failingSender struct{}

func (s *failingSender) deliver(dest uint32, batch AnnouncementBatch) error {
	return errors.New("peer is gone")
}

func TestExchangeRoutesByTargetOwner(t *testing.T) {
	local := newRoundBuffer()
	rec := &recordingSender{}
	e := &exchange{self: 0, numWorkers: 3, sender: rec, local: local}

	anns := []Announcement{
		{Target: 0, Predecessor: 1}, // owned by self
		{Target: 4, Predecessor: 0}, // worker 1
		{Target: 3, Predecessor: 0}, // self again
		{Target: 5, Predecessor: 1}, // worker 2
		{Target: 7, Predecessor: 5}, // worker 1
	}
	sent, err := e.route(1, anns)
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if sent != 5 {
		t.Errorf("expected 5 sent announcements but got %v", sent)
	}

	if len(rec.dests) != 2 || rec.dests[0] != 1 || rec.dests[1] != 2 {
		t.Fatalf("expected deliveries to workers 1 and 2, got %v", rec.dests)
	}
	if len(rec.batches[0].Announcements) != 2 {
		t.Errorf("worker 1 batch should carry 2 announcements, got %v", rec.batches[0].Announcements)
	}
	if len(rec.batches[1].Announcements) != 1 {
		t.Errorf("worker 2 batch should carry 1 announcement, got %v", rec.batches[1].Announcements)
	}
	for _, batch := range rec.batches {
		if batch.FromWorker != 0 {
			t.Errorf("batch does not carry the sending worker, got %v", batch.FromWorker)
		}
		if batch.Round != 1 {
			t.Errorf("batch does not carry the round, got %v", batch.Round)
		}
	}

	// the self batch went straight into the local round buffer
	if _, err := local.drain(0); err != nil {
		t.Fatalf("drain of round 0 failed: %v", err)
	}
	buffered, err := local.drain(1)
	if err != nil {
		t.Fatalf("drain of round 1 failed: %v", err)
	}
	if len(buffered) != 2 {
		t.Errorf("expected 2 local announcements but got %v", buffered)
	}
}

func TestExchangeEmptyRoundSendsNothing(t *testing.T) {
	rec := &recordingSender{}
	e := &exchange{self: 0, numWorkers: 2, sender: rec, local: newRoundBuffer()}

	sent, err := e.route(1, nil)
	if err != nil {
		t.Fatalf("route of an empty round failed: %v", err)
	}
	if sent != 0 {
		t.Errorf("expected 0 sent but got %v", sent)
	}
	if len(rec.dests) != 0 {
		t.Errorf("empty round should deliver nothing, got %v", rec.dests)
	}
}

func TestExchangeSurfacesDeliveryErrors(t *testing.T) {
	e := &exchange{self: 0, numWorkers: 2, sender: &failingSender{}, local: newRoundBuffer()}

	anns := []Announcement{{Target: 1, Predecessor: 0}}
	if _, err := e.route(1, anns); err == nil {
		t.Errorf("route should surface the delivery error")
	}
}
