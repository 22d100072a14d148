package server

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingProducer struct {
	mu     sync.Mutex
	topics []string
	values [][]byte
}

func (p *capturingProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.values = append(p.values, value)
	return nil
}

func (p *capturingProducer) Close() error { return nil }

func (p *capturingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.values)
}

func TestAuditManager_PublishesEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	producer := &capturingProducer{}
	m := NewAuditManager(2, 2, 20*time.Millisecond, producer, "audit_logs")
	m.Start(ctx)

	m.LogEntry(ctx, AuditLogEntry{ShipmentID: "ship-1", Action: "accept_original", StatusCode: 200})
	m.LogEntry(ctx, AuditLogEntry{ShipmentID: "ship-2", Action: "deny", StatusCode: 200})
	m.LogEntry(ctx, AuditLogEntry{ShipmentID: "ship-3", Action: "cancel", StatusCode: 200})

	assert.Eventually(t, func() bool { return producer.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	m.Shutdown(shutdownCtx)

	producer.mu.Lock()
	defer producer.mu.Unlock()
	require.Len(t, producer.values, 3)
	assert.Equal(t, "audit_logs", producer.topics[0])

	seen := map[string]bool{}
	for _, raw := range producer.values {
		var entry AuditLogEntry
		require.NoError(t, json.Unmarshal(raw, &entry))
		seen[entry.ShipmentID] = true
	}
	assert.True(t, seen["ship-1"] && seen["ship-2"] && seen["ship-3"])
}

func TestAuditManager_ShutdownFlushesPartialBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	producer := &capturingProducer{}
	// Batch size larger than the entry count so only the timer or the
	// shutdown flush can emit it.
	m := NewAuditManager(1, 100, 10*time.Second, producer, "audit_logs")
	m.Start(ctx)

	m.LogEntry(ctx, AuditLogEntry{ShipmentID: "ship-1", Action: "submit"})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	m.Shutdown(shutdownCtx)

	assert.Equal(t, 1, producer.count())
}
