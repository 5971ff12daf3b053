package service

import (
	"context"
	"encoding/json"
	"time"

	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
)

const (
	ordersExchange   = "orders_topic"
	placedRoutingKey = "orders.placed"
)

// Publisher is satisfied by the rabbitmq client.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// Events publishes order lifecycle messages. Publishing is best-effort and
// happens only after the order is durable; a broker failure never fails the
// checkout that triggered it.
type Events struct {
	pub Publisher
	lg  *logger.Logger
}

func NewEvents(pub Publisher, lg *logger.Logger) *Events {
	return &Events{pub: pub, lg: lg}
}

type placedItem struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type orderPlaced struct {
	OrderID    int64        `json:"order_id"`
	Login      string       `json:"login"`
	StoreID    int          `json:"store_id"`
	TotalPrice float64      `json:"total_price"`
	PlacedAt   time.Time    `json:"placed_at"`
	Items      []placedItem `json:"items"`
}

func (e *Events) OrderPlaced(ctx context.Context, o domain.Order, cart []domain.CartLine) {
	if e == nil || e.pub == nil {
		return
	}
	msg := orderPlaced{
		OrderID:    o.ID,
		Login:      o.Login,
		StoreID:    o.StoreID,
		TotalPrice: o.TotalPrice,
		PlacedAt:   o.Timestamp,
	}
	for _, line := range cart {
		msg.Items = append(msg.Items, placedItem{ItemName: line.ItemName, Quantity: line.Quantity})
	}
	body, err := json.Marshal(msg)
	if err != nil {
		e.lg.Error("order_event_marshal", err, map[string]any{"order_id": o.ID})
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := e.pub.Publish(pctx, ordersExchange, placedRoutingKey, body); err != nil {
		e.lg.Error("order_event_publish", err, map[string]any{"order_id": o.ID})
		return
	}
	e.lg.Debug("order_event_published", map[string]any{"order_id": o.ID})
}
