package channel

import (
	"fmt"
	"testing"
)

func TestPartitionQueue_FIFO(t *testing.T) {
	q := newPartitionQueue(4)

	for i := 1; i <= 3; i++ {
		q.push(testEnvelope(fmt.Sprintf("req-%d", i), "T1", i, int64(i)))
	}

	for i := 1; i <= 3; i++ {
		env, ok := q.peek()
		if !ok {
			t.Fatalf("peek %d returned nothing", i)
		}
		if env.Trade.Version != i {
			t.Errorf("peek %d version = %d, want %d", i, env.Trade.Version, i)
		}
		q.ack()
	}

	if _, ok := q.peek(); ok {
		t.Error("peek on drained queue should return nothing")
	}
}

func TestPartitionQueue_SingleInFlight(t *testing.T) {
	q := newPartitionQueue(4)
	q.push(testEnvelope("req-1", "T1", 1, 1))
	q.push(testEnvelope("req-2", "T1", 2, 2))

	if _, ok := q.peek(); !ok {
		t.Fatal("first peek returned nothing")
	}
	// Head not acked yet: the partition must not hand out the next message,
	// or per-trade order would break.
	if _, ok := q.peek(); ok {
		t.Error("second peek before ack should return nothing")
	}

	q.ack()
	env, ok := q.peek()
	if !ok {
		t.Fatal("peek after ack returned nothing")
	}
	if env.RequestID != "req-2" {
		t.Errorf("RequestID = %q, want %q", env.RequestID, "req-2")
	}
}

func TestPartitionQueue_ReleaseRedelivers(t *testing.T) {
	q := newPartitionQueue(4)
	q.push(testEnvelope("req-1", "T1", 1, 1))

	first, ok := q.peek()
	if !ok {
		t.Fatal("peek returned nothing")
	}

	// Consumer crash before ack.
	q.release()

	second, ok := q.peek()
	if !ok {
		t.Fatal("peek after release returned nothing")
	}
	if second.RequestID != first.RequestID {
		t.Errorf("redelivered RequestID = %q, want %q", second.RequestID, first.RequestID)
	}
}

func TestPartitionQueue_GrowPreservesOrder(t *testing.T) {
	q := newPartitionQueue(2)

	const n = 50
	for i := 0; i < n; i++ {
		q.push(testEnvelope(fmt.Sprintf("req-%d", i), "T1", i+1, int64(i)))
	}
	if q.len() != n {
		t.Fatalf("len = %d, want %d", q.len(), n)
	}

	for i := 0; i < n; i++ {
		env, ok := q.peek()
		if !ok {
			t.Fatalf("peek %d returned nothing", i)
		}
		if env.Trade.Version != i+1 {
			t.Fatalf("version at %d = %d, want %d", i, env.Trade.Version, i+1)
		}
		q.ack()
	}
}

func TestPartitionQueue_GrowWhileWrapped(t *testing.T) {
	q := newPartitionQueue(8)

	// Advance head so the ring wraps before growing.
	for i := 0; i < 4; i++ {
		q.push(testEnvelope(fmt.Sprintf("pre-%d", i), "T1", i+1, int64(i)))
	}
	for i := 0; i < 4; i++ {
		q.peek()
		q.ack()
	}

	const n = 20
	for i := 0; i < n; i++ {
		q.push(testEnvelope(fmt.Sprintf("req-%d", i), "T1", 100+i, int64(i)))
	}

	for i := 0; i < n; i++ {
		env, ok := q.peek()
		if !ok {
			t.Fatalf("peek %d returned nothing", i)
		}
		if env.Trade.Version != 100+i {
			t.Fatalf("version at %d = %d, want %d", i, env.Trade.Version, 100+i)
		}
		q.ack()
	}
}
