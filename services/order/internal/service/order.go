package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/pkg/events"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/validate"
	"github.com/Skotchmaster/shop_admin/services/order/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/order/internal/transport"
)

var (
	ErrValidation          = errors.New("validation")
	ErrNotFound            = errors.New("not found")
	ErrNoProductsAvailable = errors.New("no products available to create an order")
)

type OrderRepository interface {
	ListOrders(ctx context.Context, f repo.OrderFilter) ([]models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	FindProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

type OrderService struct {
	Repo   OrderRepository
	Events *events.Notifier
	Rand   Rand
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) ListOrders(ctx context.Context, searchTerm, status string) ([]models.Order, error) {
	st := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.Repo.ListOrders(ctx, repo.OrderFilter{SearchTerm: searchTerm, Status: st})
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

// CreateOrder stores the order dated now. Items without a price take the product's current price.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	return s.create(ctx, req, s.now(), "api")
}

func (s *OrderService) create(ctx context.Context, req transport.CreateOrderRequest, at time.Time, origin string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validate.Describe(err))
	}

	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
		}
		price := p.Price
		if it.Price != nil {
			price = *it.Price
		}
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price.Round(2),
		})
	}

	order := &models.Order{
		CustomerName: req.CustomerName,
		Status:       req.Status,
		OrderDate:    at.UTC(),
		Items:        items,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("create_order_failed", "error", err)
		return nil, err
	}

	metrics.OrderCreated(origin)
	l.Info("order_created", "order_id", order.ID, "items", len(items), "origin", origin)
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, req transport.UpdateStatusRequest) (*models.Order, error) {
	req.Status = models.OrderStatus(strings.ToLower(string(req.Status)))
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validate.Describe(err))
	}

	order, err := s.Repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	s.Events.Emit(ctx, events.TopicOrders, events.Event{
		Type:     events.TypeOrderStatusChanged,
		Message:  fmt.Sprintf("Order %d changed to %s", order.ID, order.Status),
		EntityID: order.ID,
	})
	return order, nil
}
