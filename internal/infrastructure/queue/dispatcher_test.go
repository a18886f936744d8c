package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AssignmentEvent
	err    error
}

func (r *recordingAudit) Record(_ context.Context, ev domain.AssignmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingAudit) Recent(context.Context, int) ([]*domain.AssignmentEvent, error) {
	return nil, nil
}

func (r *recordingAudit) snapshot() []domain.AssignmentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AssignmentEvent(nil), r.events...)
}

func TestDispatcher_StoresInOrderPerClient(t *testing.T) {
	audit := &recordingAudit{}
	d := NewDispatcher(3, audit, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	types := []domain.AssignmentEventType{domain.EventAssigned, domain.EventPaymentToggled, domain.EventRenewed, domain.EventDeleted}
	for _, typ := range types {
		d.Publish(domain.AssignmentEvent{Type: typ, ClientID: "client-1"})
		d.Publish(domain.AssignmentEvent{Type: typ, ClientID: "client-2"})
	}

	cancel()
	d.Wait()

	got := audit.snapshot()
	if len(got) != 2*len(types) {
		t.Fatalf("stored %d events, want %d", len(got), 2*len(types))
	}

	var forClient1 []domain.AssignmentEventType
	for _, ev := range got {
		if ev.ClientID == "client-1" {
			forClient1 = append(forClient1, ev.Type)
		}
	}
	for i, typ := range types {
		if forClient1[i] != typ {
			t.Fatalf("client-1 order = %v, want %v", forClient1, types)
		}
	}
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	d := NewDispatcher(1, &recordingAudit{}, zerolog.Nop())
	// Workers not started: the buffer fills and the rest is dropped.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(domain.AssignmentEvent{Type: domain.EventAssigned, ClientID: "c"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	if n := len(d.workers[0]); n != channelBuffer {
		t.Fatalf("buffered %d events, want %d", n, channelBuffer)
	}
}

func TestDispatcher_RecordFailureKeepsWorking(t *testing.T) {
	audit := &recordingAudit{err: errors.New("mongo down")}
	d := NewDispatcher(1, audit, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(domain.AssignmentEvent{Type: domain.EventAssigned, ClientID: "c"})
	cancel()
	d.Wait()

	if len(audit.snapshot()) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestShardIndex_Stable(t *testing.T) {
	d := NewDispatcher(8, &recordingAudit{}, zerolog.Nop())
	if d.shardIndex("client-42") != d.shardIndex("client-42") {
		t.Fatal("shard index must be deterministic")
	}
	if got := shardKey(domain.AssignmentEvent{AccountID: "acc"}); got != "acc" {
		t.Fatalf("shardKey falls back to account, got %q", got)
	}
}
