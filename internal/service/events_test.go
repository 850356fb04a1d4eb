package service

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvents struct {
	created       []*models.OrderCreatedEvent
	updated       []*models.OrderUpdatedEvent
	linesDeleted  []*models.OrderLineDeletedEvent
	statusChanged []*models.OrderStatusChangedEvent
}

func (r *recordedEvents) PublishOrderCreated(ctx context.Context, e *models.OrderCreatedEvent) error {
	r.created = append(r.created, e)
	return nil
}

func (r *recordedEvents) PublishOrderUpdated(ctx context.Context, e *models.OrderUpdatedEvent) error {
	r.updated = append(r.updated, e)
	return nil
}

func (r *recordedEvents) PublishOrderLineDeleted(ctx context.Context, e *models.OrderLineDeletedEvent) error {
	r.linesDeleted = append(r.linesDeleted, e)
	return nil
}

func (r *recordedEvents) PublishOrderStatusChanged(ctx context.Context, e *models.OrderStatusChangedEvent) error {
	r.statusChanged = append(r.statusChanged, e)
	return nil
}

func TestLifecycleEventsPublished(t *testing.T) {
	mem := store.NewMemory()
	sink := &recordedEvents{}
	svc := NewOrderService(mem, sink)
	ctx := context.Background()

	p := seedProduct(t, mem, "Clavier", 10.00, 10)

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		ClientID: 7,
		Items:    []OrderItemRequest{{ProductID: p.ID, Quantite: 2}},
	})
	require.NoError(t, err)
	require.Len(t, sink.created, 1)
	assert.Equal(t, models.EventTypeOrderCreated, sink.created[0].EventType)
	assert.Equal(t, order.ID, sink.created[0].OrderID)
	assert.Equal(t, 20.00, sink.created[0].Montant)
	require.Len(t, sink.created[0].Items, 1)
	assert.Equal(t, p.ID, sink.created[0].Items[0].ProductID)
	assert.NotEmpty(t, sink.created[0].EventID)

	_, err = svc.UpdateOrder(ctx, &UpdateOrderRequest{
		OrderID: order.ID,
		Items:   []OrderItemRequest{{ProductID: p.ID, Quantite: 1}},
	})
	require.NoError(t, err)
	require.Len(t, sink.updated, 1)
	assert.Equal(t, 30.00, sink.updated[0].Montant)

	require.NoError(t, svc.SetStatus(ctx, order.ID, models.StatusPaid))
	require.Len(t, sink.statusChanged, 1)
	assert.Equal(t, models.StatusPaid, sink.statusChanged[0].Statut)

	_, err = svc.DeleteOrderLine(ctx, order.ID, "Clavier")
	require.NoError(t, err)
	require.Len(t, sink.linesDeleted, 1)
	assert.Equal(t, p.ID, sink.linesDeleted[0].ProductID)
	assert.Equal(t, 3, sink.linesDeleted[0].Quantite)
	assert.Equal(t, 0.00, sink.linesDeleted[0].Montant)
}

func TestNoEventOnFailedOperation(t *testing.T) {
	mem := store.NewMemory()
	sink := &recordedEvents{}
	svc := NewOrderService(mem, sink)

	p := seedProduct(t, mem, "Webcam", 30.00, 0)

	_, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		ClientID: 1,
		Items:    []OrderItemRequest{{ProductID: p.ID, Quantite: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, sink.created)
}
