package service

import (
	"context"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Events receives order lifecycle events after a successful commit.
// Publishing is best-effort; a publish failure never fails the operation.
type Events interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error
	PublishOrderLineDeleted(ctx context.Context, event *models.OrderLineDeletedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// OrderService owns the order lifecycle: creation, add/merge of items,
// line deletion with stock compensation, and status overwrites. Every
// multi-step operation runs inside one store transaction.
type OrderService struct {
	store  store.Store
	events Events
	logger *zap.Logger
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(st store.Store, events Events) *OrderService {
	return &OrderService{
		store:  st,
		events: events,
		logger: util.GetLogger(),
	}
}

// OrderItemRequest represents one requested product quantity.
type OrderItemRequest struct {
	ProductID int64 `json:"id_produit" binding:"required"`
	Quantite  int   `json:"quantite" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to create an order.
type CreateOrderRequest struct {
	ClientID         int64              `json:"id_client" binding:"required"`
	AdresseLivraison string             `json:"adresse_livraison"`
	Items            []OrderItemRequest `json:"items" binding:"required,min=1"`
}

// UpdateOrderRequest represents a request to modify an open order. Both the
// address and the item list are optional; a nil item list leaves the lines
// untouched.
type UpdateOrderRequest struct {
	OrderID          int64              `json:"id_commande" binding:"required"`
	AdresseLivraison *string            `json:"adresse_livraison"`
	Items            []OrderItemRequest `json:"items"`
}

// DeletedLine is the result of removing an order line.
type DeletedLine struct {
	LineID  int64   `json:"id"`
	Montant float64 `json:"montant"`
}

func validateItems(items []OrderItemRequest) error {
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantite <= 0 {
			return Errf(KindValidation, "invalid product or quantity")
		}
	}
	return nil
}

// CreateOrder creates an order with its lines, reserving stock for every
// item. The whole item list is processed in one transaction: any failure
// leaves no order, no lines and no stock change behind.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if req.ClientID <= 0 {
		return nil, Errf(KindValidation, "invalid client id")
	}
	if len(req.Items) == 0 {
		return nil, Errf(KindValidation, "at least one item is required")
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	var (
		orderID int64
		items   []models.OrderItemData
	)

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		type reserved struct {
			product  *models.Product
			quantite int
		}

		var montant float64
		picked := make([]reserved, 0, len(req.Items))
		for _, it := range req.Items {
			p, err := tx.ProductByID(ctx, it.ProductID)
			if err != nil {
				return WrapErr(KindPersistence, err, "failed to load product")
			}
			if p == nil {
				return Errf(KindProductNotFound, "product %d not found", it.ProductID)
			}
			if p.Stock < it.Quantite {
				return Errf(KindInsufficientStock, "insufficient stock for product %s", p.Nom)
			}
			montant += p.Prix * float64(it.Quantite)
			picked = append(picked, reserved{product: p, quantite: it.Quantite})
		}

		order := &models.Order{
			ClientID:         req.ClientID,
			Statut:           models.StatusPending,
			Montant:          montant,
			AdresseLivraison: req.AdresseLivraison,
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return WrapErr(KindPersistence, err, "failed to insert order")
		}
		orderID = order.ID

		for _, r := range picked {
			l := &models.OrderLine{
				OrderID:      orderID,
				ProductID:    r.product.ID,
				Quantite:     r.quantite,
				PrixUnitaire: r.product.Prix,
				PrixTotal:    r.product.Prix * float64(r.quantite),
			}
			if err := tx.InsertLine(ctx, l); err != nil {
				return WrapErr(KindPersistence, err, "failed to insert order line")
			}
			if err := tx.AdjustStock(ctx, r.product.ID, -r.quantite); err != nil {
				return WrapErr(KindPersistence, err, "failed to reserve stock")
			}
			items = append(items, models.OrderItemData{
				ProductID:    r.product.ID,
				Quantite:     r.quantite,
				PrixUnitaire: r.product.Prix,
			})
		}
		return nil
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(KindOf(err).String()).Inc()
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", orderID),
		zap.Int64("client_id", req.ClientID))

	// Read back after commit so database-assigned defaults are reflected.
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		event := &models.OrderCreatedEvent{
			BaseEvent: newBaseEvent(models.EventTypeOrderCreated),
			OrderID:   order.ID,
			ClientID:  order.ClientID,
			Montant:   order.Montant,
			Items:     items,
		}
		if err := s.events.PublishOrderCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
		}
	}

	return order, nil
}

// UpdateOrder modifies an open order: an optional address overwrite plus an
// optional list of items to add. Adding a product already on the order merges
// into the existing line, keeping its snapshotted unit price and adding the
// incoming quantity's cost at the current catalog price. The order total is
// adjusted by the delta of this call, never recomputed here.
func (s *OrderService) UpdateOrder(ctx context.Context, req *UpdateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	if req.OrderID <= 0 {
		return nil, Errf(KindValidation, "invalid order id")
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	var items []models.OrderItemData

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		order, err := tx.OrderByID(ctx, req.OrderID)
		if err != nil {
			return WrapErr(KindPersistence, err, "failed to load order")
		}
		if order == nil {
			return Errf(KindOrderNotFound, "order %d not found", req.OrderID)
		}
		if order.Statut != models.StatusPending {
			return Errf(KindOrderNotModifiable, "cannot modify an order that is not pending")
		}

		if req.AdresseLivraison != nil {
			if err := tx.UpdateOrderAddress(ctx, req.OrderID, *req.AdresseLivraison); err != nil {
				return WrapErr(KindPersistence, err, "failed to update delivery address")
			}
		}

		if req.Items == nil {
			return nil
		}

		var montantDelta float64
		for _, it := range req.Items {
			p, err := tx.ProductByID(ctx, it.ProductID)
			if err != nil {
				return WrapErr(KindPersistence, err, "failed to load product")
			}
			if p == nil {
				return Errf(KindProductNotFound, "product %d not found", it.ProductID)
			}
			if p.Stock < it.Quantite {
				return Errf(KindInsufficientStock, "insufficient stock for product %s", p.Nom)
			}

			lineTotal := p.Prix * float64(it.Quantite)
			montantDelta += lineTotal

			existing, err := tx.Line(ctx, req.OrderID, p.ID)
			if err != nil {
				return WrapErr(KindPersistence, err, "failed to look up order line")
			}
			if existing != nil {
				if err := tx.GrowLine(ctx, existing.ID, it.Quantite, lineTotal); err != nil {
					return WrapErr(KindPersistence, err, "failed to merge order line")
				}
			} else {
				l := &models.OrderLine{
					OrderID:      req.OrderID,
					ProductID:    p.ID,
					Quantite:     it.Quantite,
					PrixUnitaire: p.Prix,
					PrixTotal:    lineTotal,
				}
				if err := tx.InsertLine(ctx, l); err != nil {
					return WrapErr(KindPersistence, err, "failed to insert order line")
				}
			}

			if err := tx.AdjustStock(ctx, p.ID, -it.Quantite); err != nil {
				return WrapErr(KindPersistence, err, "failed to reserve stock")
			}
			items = append(items, models.OrderItemData{
				ProductID:    p.ID,
				Quantite:     it.Quantite,
				PrixUnitaire: p.Prix,
			})
		}

		if err := tx.UpdateOrderAmount(ctx, req.OrderID, order.Montant+montantDelta); err != nil {
			return WrapErr(KindPersistence, err, "failed to update order total")
		}
		return nil
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(KindOf(err).String()).Inc()
		return nil, err
	}

	util.OrdersUpdatedTotal.Inc()

	order, err := s.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if s.events != nil && len(items) > 0 {
		event := &models.OrderUpdatedEvent{
			BaseEvent: newBaseEvent(models.EventTypeOrderUpdated),
			OrderID:   order.ID,
			Montant:   order.Montant,
			Items:     items,
		}
		if err := s.events.PublishOrderUpdated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderUpdated event", zap.Error(err))
		}
	}

	return order, nil
}

// DeleteOrderLine removes the line holding the named product from an order,
// restores the reserved stock and recomputes the order total from the
// remaining lines. Note: unlike UpdateOrder this is not status-gated; a line
// can be removed from an order in any status, including paid ones.
func (s *OrderService) DeleteOrderLine(ctx context.Context, orderID int64, produitNom string) (*DeletedLine, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrderLine")
	defer span.End()

	if orderID <= 0 || produitNom == "" {
		return nil, Errf(KindValidation, "order id and product name are required")
	}

	var (
		out       DeletedLine
		productID int64
		quantite  int
	)

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		p, err := tx.ProductByName(ctx, produitNom)
		if err != nil {
			return WrapErr(KindPersistence, err, "failed to look up product")
		}
		if p == nil {
			return Errf(KindProductNotFound, "product %s not found", produitNom)
		}

		line, err := tx.Line(ctx, orderID, p.ID)
		if err != nil {
			return WrapErr(KindPersistence, err, "failed to look up order line")
		}
		if line == nil {
			return Errf(KindLineNotFound, "no line for product %s in order %d", produitNom, orderID)
		}

		if err := tx.DeleteLine(ctx, line.ID); err != nil {
			return WrapErr(KindPersistence, err, "failed to delete order line")
		}
		if err := tx.AdjustStock(ctx, p.ID, line.Quantite); err != nil {
			return WrapErr(KindPersistence, err, "failed to restore stock")
		}

		// Authoritative recompute from the surviving lines, read inside the
		// same transaction.
		total, err := tx.SumLineTotals(ctx, orderID)
		if err != nil {
			return WrapErr(KindPersistence, err, "failed to sum remaining lines")
		}
		if err := tx.UpdateOrderAmount(ctx, orderID, total); err != nil {
			return WrapErr(KindPersistence, err, "failed to update order total")
		}

		out = DeletedLine{LineID: line.ID, Montant: total}
		productID = p.ID
		quantite = line.Quantite
		return nil
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(KindOf(err).String()).Inc()
		return nil, err
	}

	util.OrderLinesDeletedTotal.Inc()
	s.logger.Info("Order line deleted",
		zap.Int64("order_id", orderID),
		zap.Int64("line_id", out.LineID),
		zap.Float64("montant", out.Montant))

	if s.events != nil {
		event := &models.OrderLineDeletedEvent{
			BaseEvent: newBaseEvent(models.EventTypeOrderLineDeleted),
			OrderID:   orderID,
			ProductID: productID,
			Quantite:  quantite,
			Montant:   out.Montant,
		}
		if err := s.events.PublishOrderLineDeleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderLineDeleted event", zap.Error(err))
		}
	}

	return &out, nil
}

// SetStatus overwrites the order status. Any known status may be written
// over any other; no transition graph is enforced.
func (s *OrderService) SetStatus(ctx context.Context, orderID int64, statut string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.SetStatus")
	defer span.End()

	if orderID <= 0 {
		return Errf(KindValidation, "invalid order id")
	}
	if !models.ValidStatus(statut) {
		return Errf(KindInvalidStatus, "invalid status %q", statut)
	}

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.UpdateOrderStatus(ctx, orderID, statut)
		if err != nil {
			return WrapErr(KindPersistence, err, "failed to update order status")
		}
		if n == 0 {
			return Errf(KindOrderNotFound, "order %d not found", orderID)
		}
		return nil
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(KindOf(err).String()).Inc()
		return err
	}

	util.StatusChangesTotal.WithLabelValues(statut).Inc()
	s.logger.Info("Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("statut", statut))

	if s.events != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: newBaseEvent(models.EventTypeOrderStatusChanged),
			OrderID:   orderID,
			Statut:    statut,
		}
		if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	return nil
}

// GetOrder retrieves an order with its lines.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load order")
	}
	if order == nil {
		return nil, Errf(KindOrderNotFound, "order %d not found", orderID)
	}

	lines, err := s.store.LinesByOrder(ctx, orderID)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load order lines")
	}
	order.Lignes = lines
	return order, nil
}

// OrdersByClient retrieves a client's orders with their lines, newest first.
func (s *OrderService) OrdersByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	if clientID <= 0 {
		return nil, Errf(KindValidation, "invalid client id")
	}

	orders, err := s.store.OrdersByClient(ctx, clientID)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load orders")
	}
	for i := range orders {
		lines, err := s.store.LinesByOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, WrapErr(KindPersistence, err, "failed to load order lines")
		}
		orders[i].Lignes = lines
	}
	return orders, nil
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
