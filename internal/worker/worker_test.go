package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/store"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adjustCall struct {
	productID int64
	delta     int
}

// fakeCache records cache traffic. missing marks products whose adjust
// fails, forcing the DB refresh path.
type fakeCache struct {
	adjusts []adjustCall
	inits   map[int64]int
	missing map[int64]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		inits:   make(map[int64]int),
		missing: make(map[int64]bool),
	}
}

func (f *fakeCache) InitStock(ctx context.Context, productID int64, stock int) error {
	f.inits[productID] = stock
	return nil
}

func (f *fakeCache) Stock(ctx context.Context, productID int64) (int, error) {
	stock, ok := f.inits[productID]
	if !ok {
		return 0, errors.New("no cached stock")
	}
	return stock, nil
}

func (f *fakeCache) AdjustStock(ctx context.Context, productID int64, delta int) error {
	if f.missing[productID] {
		return errors.New("no cached stock")
	}
	f.adjusts = append(f.adjusts, adjustCall{productID: productID, delta: delta})
	return nil
}

var _ service.StockCache = (*fakeCache)(nil)

func newTestWorker(t *testing.T) (*StockCacheWorker, *fakeCache, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	cache := newFakeCache()
	catalog := service.NewCatalogService(mem, cache)
	return NewStockCacheWorker(nil, catalog), cache, mem
}

func eventMessage(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestHandleOrderCreatedAppliesDeltas(t *testing.T) {
	w, cache, _ := newTestWorker(t)

	msg := eventMessage(t, &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderCreated},
		OrderID:   1,
		Items: []models.OrderItemData{
			{ProductID: 3, Quantite: 2},
			{ProductID: 5, Quantite: 1},
		},
	})
	require.NoError(t, w.handleMessage(context.Background(), msg))

	require.Len(t, cache.adjusts, 2)
	assert.Equal(t, adjustCall{productID: 3, delta: -2}, cache.adjusts[0])
	assert.Equal(t, adjustCall{productID: 5, delta: -1}, cache.adjusts[1])
}

func TestHandleLineDeletedRestoresStock(t *testing.T) {
	w, cache, _ := newTestWorker(t)

	msg := eventMessage(t, &models.OrderLineDeletedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderLineDeleted},
		OrderID:   1,
		ProductID: 3,
		Quantite:  4,
	})
	require.NoError(t, w.handleMessage(context.Background(), msg))

	require.Len(t, cache.adjusts, 1)
	assert.Equal(t, adjustCall{productID: 3, delta: 4}, cache.adjusts[0])
}

func TestHandleMessageFallsBackToRefresh(t *testing.T) {
	w, cache, mem := newTestWorker(t)
	ctx := context.Background()

	p := &models.Product{Nom: "Clavier", Prix: 10.00, Stock: 7, Actif: true}
	require.NoError(t, mem.CreateProduct(ctx, p))
	cache.missing[p.ID] = true

	msg := eventMessage(t, &models.OrderUpdatedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderUpdated},
		OrderID:   1,
		Items:     []models.OrderItemData{{ProductID: p.ID, Quantite: 2}},
	})
	require.NoError(t, w.handleMessage(context.Background(), msg))

	// No cache entry to adjust: the worker re-seeds it from the database.
	assert.Empty(t, cache.adjusts)
	assert.Equal(t, 7, cache.inits[p.ID])
}

func TestHandleStatusChangedLeavesCacheAlone(t *testing.T) {
	w, cache, _ := newTestWorker(t)

	msg := eventMessage(t, &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderStatusChanged},
		OrderID:   1,
		Statut:    models.StatusPaid,
	})
	require.NoError(t, w.handleMessage(context.Background(), msg))

	assert.Empty(t, cache.adjusts)
	assert.Empty(t, cache.inits)
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
	w, _, _ := newTestWorker(t)

	err := w.handleMessage(context.Background(), kafka.Message{Value: []byte("pas du json")})
	assert.Error(t, err)
}
