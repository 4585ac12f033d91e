package dto

// PlaceOrderRequest represents a buy or sell order placement. Quantity is a
// pointer so an omitted field (defaults to 1) is distinguishable from an
// explicit zero, which is rejected.
type PlaceOrderRequest struct {
	ListingID  string `json:"listing_id" binding:"required"`
	Side       string `json:"side" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required"`
	Quantity   *int   `json:"quantity"`
}

// QuantityOrDefault returns the submitted quantity, or 1 when omitted
func (r *PlaceOrderRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// Validate checks the request shape
func (r *PlaceOrderRequest) Validate() (bool, string) {
	if r.Side != "buy" && r.Side != "sell" {
		return false, "Side must be buy or sell"
	}
	if r.PriceCents <= 0 {
		return false, "Price must be positive"
	}
	if r.Quantity != nil && *r.Quantity <= 0 {
		return false, "Quantity must be positive"
	}
	return true, ""
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID         string `json:"id"`
	ListingID  string `json:"listing_id"`
	Side       string `json:"side"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}
