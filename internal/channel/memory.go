package channel

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/tradestack/trade-store/internal/model"
)

const fetchPollInterval = 5 * time.Millisecond

// Memory is an in-process channel for tests and local development. It keeps
// the production contract: envelopes hash to a partition by trade_id, each
// partition delivers in FIFO order, and a delivery is removed only when
// acknowledged.
type Memory struct {
	partitions []*partitionQueue
}

// NewMemory creates an in-memory channel with the given partition count.
func NewMemory(partitionCount int) *Memory {
	if partitionCount < 1 {
		partitionCount = 1
	}
	parts := make([]*partitionQueue, partitionCount)
	for i := range parts {
		parts[i] = newPartitionQueue(16)
	}
	return &Memory{partitions: parts}
}

// Publish implements Publisher.
func (m *Memory) Publish(ctx context.Context, env model.Envelope) error {
	m.partition(env.Trade.TradeID).push(env)
	return nil
}

// Ping reports healthy; the in-memory channel cannot be unreachable.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Len returns the total number of buffered envelopes.
func (m *Memory) Len() int {
	total := 0
	for _, p := range m.partitions {
		total += p.len()
	}
	return total
}

// Consumer returns a consumer over all partitions. Like one member of a
// consumer group that owns every partition, a single consumer preserves
// per-trade order; callers wanting parallelism run one consumer per disjoint
// partition set via PartitionConsumer.
func (m *Memory) Consumer() *MemoryConsumer {
	idx := make([]int, len(m.partitions))
	for i := range idx {
		idx[i] = i
	}
	return &MemoryConsumer{channel: m, owned: idx}
}

// PartitionConsumer returns a consumer owning only the given partitions.
func (m *Memory) PartitionConsumer(owned []int) *MemoryConsumer {
	return &MemoryConsumer{channel: m, owned: owned}
}

func (m *Memory) partition(tradeID string) *partitionQueue {
	return m.partitions[m.partitionIndex(tradeID)]
}

func (m *Memory) partitionIndex(tradeID string) int {
	h := fnv.New32a()
	h.Write([]byte(tradeID))
	return int(h.Sum32()) % len(m.partitions)
}

// MemoryConsumer drains a Memory channel.
type MemoryConsumer struct {
	channel *Memory
	owned   []int
	cursor  int
}

// Fetch implements Consumer. It round-robins the owned partitions and polls
// until a delivery is available or the context is done.
func (c *MemoryConsumer) Fetch(ctx context.Context) (Delivery, error) {
	for {
		if d, ok := c.tryFetch(); ok {
			return d, nil
		}
		select {
		case <-ctx.Done():
			return Delivery{}, ctx.Err()
		case <-time.After(fetchPollInterval):
		}
	}
}

func (c *MemoryConsumer) tryFetch() (Delivery, bool) {
	for i := 0; i < len(c.owned); i++ {
		idx := c.owned[(c.cursor+i)%len(c.owned)]
		q := c.channel.partitions[idx]
		env, ok := q.peek()
		if !ok {
			continue
		}
		c.cursor = (c.cursor + i + 1) % len(c.owned)
		return Delivery{
			Envelope: env,
			Ack: func(ctx context.Context) error {
				q.ack()
				return nil
			},
		}, true
	}
	return Delivery{}, false
}

// Release returns the current in-flight envelope of every owned partition to
// its queue, simulating a consumer crash before acknowledgment.
func (c *MemoryConsumer) Release() {
	for _, idx := range c.owned {
		c.channel.partitions[idx].release()
	}
}
