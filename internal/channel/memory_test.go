package channel

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemory_PerTradeOrder(t *testing.T) {
	ctx := context.Background()
	ch := NewMemory(4)

	// Interleave two trades; each trade's versions must come back in
	// publish order.
	for v := 1; v <= 3; v++ {
		for _, id := range []string{"T1", "T2"} {
			env := testEnvelope(fmt.Sprintf("req-%s-%d", id, v), id, v, int64(v))
			if err := ch.Publish(ctx, env); err != nil {
				t.Fatalf("Publish failed: %v", err)
			}
		}
	}

	consumer := ch.Consumer()
	lastVersion := map[string]int{}
	for i := 0; i < 6; i++ {
		d, err := consumer.Fetch(ctx)
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
		id := d.Envelope.Trade.TradeID
		if d.Envelope.Trade.Version <= lastVersion[id] {
			t.Errorf("trade %s delivered version %d after %d", id, d.Envelope.Trade.Version, lastVersion[id])
		}
		lastVersion[id] = d.Envelope.Trade.Version
		if err := d.Ack(ctx); err != nil {
			t.Fatalf("Ack failed: %v", err)
		}
	}

	if ch.Len() != 0 {
		t.Errorf("Len = %d after draining, want 0", ch.Len())
	}
}

func TestMemory_SameTradeSamePartition(t *testing.T) {
	ch := NewMemory(8)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		env := testEnvelope(fmt.Sprintf("req-%d", i), "T1", i+1, int64(i))
		if err := ch.Publish(ctx, env); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	occupied := 0
	for _, p := range ch.partitions {
		if p.len() > 0 {
			occupied++
		}
	}
	if occupied != 1 {
		t.Errorf("envelopes for one trade landed in %d partitions, want 1", occupied)
	}
}

func TestMemory_RedeliveryAfterRelease(t *testing.T) {
	ctx := context.Background()
	ch := NewMemory(1)

	if err := ch.Publish(ctx, testEnvelope("req-1", "T1", 1, 1)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	consumer := ch.Consumer()
	first, err := consumer.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Crash before ack: the envelope goes back and is fetched again.
	consumer.Release()

	second, err := consumer.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch after release failed: %v", err)
	}
	if second.Envelope.RequestID != first.Envelope.RequestID {
		t.Errorf("redelivered RequestID = %q, want %q", second.Envelope.RequestID, first.Envelope.RequestID)
	}

	if err := second.Ack(ctx); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}
	if ch.Len() != 0 {
		t.Errorf("Len = %d after ack, want 0", ch.Len())
	}
}

func TestMemory_FetchHonorsContext(t *testing.T) {
	ch := NewMemory(1)
	consumer := ch.Consumer()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := consumer.Fetch(ctx); err == nil {
		t.Error("Fetch on empty channel should fail once the context expires")
	}
}

func TestMemory_PartitionConsumerOwnsSubset(t *testing.T) {
	ctx := context.Background()
	ch := NewMemory(2)

	// Find trade ids that hash to different partitions.
	var idA, idB string
	for i := 0; idA == "" || idB == ""; i++ {
		id := fmt.Sprintf("T%d", i)
		switch ch.partitionIndex(id) {
		case 0:
			if idA == "" {
				idA = id
			}
		case 1:
			idB = id
		}
	}

	if err := ch.Publish(ctx, testEnvelope("req-a", idA, 1, 1)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := ch.Publish(ctx, testEnvelope("req-b", idB, 1, 2)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	consumer := ch.PartitionConsumer([]int{1})
	d, err := consumer.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if d.Envelope.Trade.TradeID != idB {
		t.Errorf("TradeID = %q, want %q", d.Envelope.Trade.TradeID, idB)
	}
	if err := d.Ack(ctx); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	// idA sits in partition 0, which this consumer does not own.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := consumer.Fetch(short); err == nil {
		t.Error("Fetch should not see envelopes from unowned partitions")
	}
}
