package models

import "time"

// Event types published on the order events topic.
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderUpdated       = "ORDER_UPDATED"
	EventTypeOrderLineDeleted   = "ORDER_LINE_DELETED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemData represents item data carried in events.
type OrderItemData struct {
	ProductID    int64   `json:"id_produit"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prix_unitaire"`
}

// OrderCreatedEvent published after an order is committed.
type OrderCreatedEvent struct {
	BaseEvent
	OrderID  int64           `json:"id_commande"`
	ClientID int64           `json:"id_client"`
	Montant  float64         `json:"montant"`
	Items    []OrderItemData `json:"items"`
}

// OrderUpdatedEvent published after items are merged into an open order.
type OrderUpdatedEvent struct {
	BaseEvent
	OrderID int64           `json:"id_commande"`
	Montant float64         `json:"montant"`
	Items   []OrderItemData `json:"items"`
}

// OrderLineDeletedEvent published after a line is removed and its stock
// restored.
type OrderLineDeletedEvent struct {
	BaseEvent
	OrderID   int64   `json:"id_commande"`
	ProductID int64   `json:"id_produit"`
	Quantite  int     `json:"quantite"`
	Montant   float64 `json:"montant"`
}

// OrderStatusChangedEvent published after a status overwrite.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID int64  `json:"id_commande"`
	Statut  string `json:"statut"`
}
