package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/campusdeals/campus-deals-api/internal/domain"
	"github.com/campusdeals/campus-deals-api/internal/dto"
	"github.com/campusdeals/campus-deals-api/internal/repository"
)

var ErrInvalidOrder = errors.New("invalid order")

// OrderServiceConfig holds configuration for OrderService
type OrderServiceConfig struct {
	StoreTimeout time.Duration
}

// OrderService places and lists buy/sell orders
type OrderService interface {
	// PlaceOrder creates a new open order for the user
	PlaceOrder(ctx context.Context, userID string, req *dto.PlaceOrderRequest) (*dto.OrderResponse, error)
	// ListOrders returns the user's orders, newest first
	ListOrders(ctx context.Context, userID string) ([]*dto.OrderResponse, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	config    *OrderServiceConfig
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo repository.OrderRepository, config *OrderServiceConfig) OrderService {
	if config == nil {
		config = &OrderServiceConfig{}
	}
	if config.StoreTimeout == 0 {
		config.StoreTimeout = 5 * time.Second
	}
	return &orderService{orderRepo: orderRepo, config: config}
}

// PlaceOrder creates a new open order for the user
func (s *orderService) PlaceOrder(ctx context.Context, userID string, req *dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	side := domain.OrderSide(req.Side)
	if side != domain.OrderSideBuy && side != domain.OrderSideSell {
		return nil, ErrInvalidOrder
	}
	if req.PriceCents <= 0 {
		return nil, ErrInvalidOrder
	}

	// Omitted quantity defaults to 1; an explicit non-positive value is
	// a caller error, not a default.
	quantity := req.QuantityOrDefault()
	if quantity <= 0 {
		return nil, ErrInvalidOrder
	}

	order := &domain.Order{
		ID:         uuid.New().String(),
		UserID:     userID,
		ListingID:  req.ListingID,
		Side:       side,
		PriceCents: req.PriceCents,
		Quantity:   quantity,
		Status:     domain.OrderStatusOpen,
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrUnavailable
		}
		return nil, err
	}

	resp := toOrderResponse(order)
	return &resp, nil
}

// ListOrders returns the user's orders, newest first
func (s *orderService) ListOrders(ctx context.Context, userID string) ([]*dto.OrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrUnavailable
		}
		return nil, err
	}

	responses := make([]*dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp := toOrderResponse(order)
		responses = append(responses, &resp)
	}
	return responses, nil
}

func toOrderResponse(order *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:         order.ID,
		ListingID:  order.ListingID,
		Side:       string(order.Side),
		PriceCents: order.PriceCents,
		Quantity:   order.Quantity,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
}
