package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New())}
}

type recordingHandler struct {
	mu      sync.Mutex
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("handler exploded")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		payers := &recordingHandler{types: []string{invoicing.EventTypePayerRegistered}}
		uploads := &recordingHandler{types: []string{invoicing.EventTypeOrdersUploaded}}
		bus.Subscribe(payers)
		bus.Subscribe(uploads)

		require.NoError(t, bus.Publish(ctx,
			newTestEvent(invoicing.EventTypePayerRegistered),
			newTestEvent(invoicing.EventTypePayerRegistered),
		))

		assert.Equal(t, 2, payers.count())
		assert.Equal(t, 0, uploads.count())
	})

	t.Run("wildcard handlers see every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &recordingHandler{}
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newTestEvent("A"), newTestEvent("B")))
		assert.Equal(t, 2, all.count())
	})

	t.Run("failures do not stop delivery", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		failing := &recordingHandler{err: errors.New("mail server down")}
		panicking := &recordingHandler{panics: true}
		healthy := &recordingHandler{}
		bus.Subscribe(failing, "A")
		bus.Subscribe(panicking, "A")
		bus.Subscribe(healthy, "A")

		require.NoError(t, bus.Publish(ctx, newTestEvent("A")))

		assert.Equal(t, 1, healthy.count())
		assert.Equal(t, 2, recorded.Len())
	})

	t.Run("unsubscribed handlers are skipped", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h, "A", "B")
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("A"), newTestEvent("B")))
		assert.Equal(t, 0, h.count())
	})
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}

func TestInvoicingHandlers(t *testing.T) {
	ctx := context.Background()
	core, recorded := observer.New(zapcore.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	RegisterInvoicingHandlers(bus, zap.New(core))

	existing, err := invoicing.NewPayer(uuid.New(), "Pepe Perez", "", invoicing.Address{})
	require.NoError(t, err)
	repeated, err := invoicing.NewPayer(uuid.New(), "pepe perez", "", invoicing.Address{})
	require.NoError(t, err)

	first, second := "TEST-0001", "TEST-0002"
	date := time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC)
	orders := []*invoicing.InvoiceOrder{
		invoicing.NewInvoiceOrder(uuid.New(), "PEPE", date, decimal.NewFromInt(80), &first),
		invoicing.NewInvoiceOrder(uuid.New(), "ANA", date, decimal.NewFromInt(40), &second),
	}

	require.NoError(t, bus.Publish(ctx,
		invoicing.NewRepeatedPayerEvent(repeated, existing),
		invoicing.NewOrdersUploadedEvent(orders),
	))

	entries := recorded.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "PEPE PEREZ", entries[0].ContextMap()["name"])
	assert.Equal(t, existing.ID.String(), entries[0].ContextMap()["existing_id"])

	assert.Equal(t, "Orders uploaded", entries[1].Message)
	assert.EqualValues(t, 2, entries[1].ContextMap()["count"])
	assert.EqualValues(t, 2, entries[1].ContextMap()["unallocated"])
	assert.Equal(t, "120", entries[1].ContextMap()["total"])
	assert.Equal(t, "TEST-0001", entries[1].ContextMap()["first_number"])
	assert.Equal(t, "TEST-0002", entries[1].ContextMap()["last_number"])
}
