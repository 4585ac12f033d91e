package domain

import (
	"time"
)

// OrderSide is the direction of a marketplace order
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderStatus tracks an order through its lifetime
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a buy or sell order placed against a listing
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	ListingID  string      `json:"listing_id"`
	Side       OrderSide   `json:"side"`
	PriceCents int64       `json:"price_cents"`
	Quantity   int         `json:"quantity"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}
