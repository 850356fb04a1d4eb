package worker

import (
	"context"
	"encoding/json"
	"log"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/segmentio/kafka-go"
)

// StockCacheWorker consumes order lifecycle events and applies their stock
// deltas to the Redis cache. A product with no cache entry is refreshed from
// the database instead, which also makes reprocessing after a miss harmless.
type StockCacheWorker struct {
	consumer *broker.Consumer
	catalog  *service.CatalogService
}

// NewStockCacheWorker creates a new stock cache worker
func NewStockCacheWorker(consumer *broker.Consumer, catalog *service.CatalogService) *StockCacheWorker {
	return &StockCacheWorker{
		consumer: consumer,
		catalog:  catalog,
	}
}

// Start starts the worker
func (w *StockCacheWorker) Start(ctx context.Context) error {
	log.Println("Starting stock cache worker...")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *StockCacheWorker) Stop() error {
	log.Println("Stopping stock cache worker...")
	return w.consumer.Close()
}

func (w *StockCacheWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		log.Printf("Failed to unmarshal event: %v", err)
		return err
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderCreated:
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		return w.reserveItems(ctx, event.Items)

	case models.EventTypeOrderUpdated:
		var event models.OrderUpdatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		return w.reserveItems(ctx, event.Items)

	case models.EventTypeOrderLineDeleted:
		var event models.OrderLineDeletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		// Deletion restores the reserved quantity.
		return w.catalog.ApplyStockDelta(ctx, event.ProductID, event.Quantite)
	}

	// Status changes do not touch stock.
	return nil
}

func (w *StockCacheWorker) reserveItems(ctx context.Context, items []models.OrderItemData) error {
	for _, item := range items {
		if err := w.catalog.ApplyStockDelta(ctx, item.ProductID, -item.Quantite); err != nil {
			log.Printf("Failed to adjust stock cache for product %d: %v", item.ProductID, err)
		}
	}
	return nil
}
