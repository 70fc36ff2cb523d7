package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vise/internal/audit"
	"vise/internal/audit/store/memory"
)

func TestPublisherSyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store)
	defer pub.Close()

	event := audit.Event{
		Type:     audit.EventClientRegistration,
		ClientID: 1,
		CardType: "Gold",
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventClientRegistration, events[0].Type)
	assert.False(t, events[0].Timestamp.IsZero(), "timestamp should be stamped on emit")
}

func TestPublisherAsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store, audit.WithAsyncBuffer(10))

	event := audit.Event{
		Type:    audit.EventPurchase,
		Message: "purchase processed",
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	// Wait for async processing
	require.Eventually(t, func() bool {
		events, err := store.ListRecent(context.Background(), 10)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	pub.Close()
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store, audit.WithAsyncBuffer(100))

	for range 10 {
		err := pub.Emit(context.Background(), audit.Event{Type: audit.EventPurchase})
		require.NoError(t, err)
	}

	// Close should drain all buffered events
	pub.Close()

	events, err := store.ListRecent(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, events, 10)
}

func TestPublisherEmitAfterClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store, audit.WithAsyncBuffer(10))
	pub.Close()

	// Late emits fall back to a synchronous append instead of panicking
	err := pub.Emit(context.Background(), audit.Event{Type: audit.EventPurchase})
	require.NoError(t, err)

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	pub.Close()
}

func TestInMemoryStoreCapsHistory(t *testing.T) {
	store := memory.NewInMemoryStore()

	for i := range 1100 {
		require.NoError(t, store.Append(context.Background(), audit.Event{
			Type:     audit.EventPurchase,
			ClientID: i,
		}))
	}

	events, err := store.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, events, 1000)
	assert.Equal(t, 100, events[0].ClientID, "oldest events are evicted first")
}
