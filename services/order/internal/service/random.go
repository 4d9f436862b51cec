package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/services/order/internal/transport"
)

var CustomerNames = []string{"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank"}

const (
	maxRandomItems    = 3
	maxRandomQuantity = 5
)

// Rand is the subset of *rand.Rand used to build random orders.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func (s *OrderService) random() Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return globalRand{}
}

// CreateRandomOrder places an order of 1-3 random products, 1-5 of each, at current prices.
func (s *OrderService) CreateRandomOrder(ctx context.Context) (*models.Order, error) {
	return s.CreateRandomOrderAt(ctx, s.now())
}

func (s *OrderService) CreateRandomOrderAt(ctx context.Context, at time.Time) (*models.Order, error) {
	products, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoProductsAvailable
	}

	r := s.random()
	n := r.IntN(maxRandomItems) + 1
	items := make([]transport.CreateOrderItem, 0, n)
	for i := 0; i < n; i++ {
		p := products[r.IntN(len(products))]
		price := p.Price
		items = append(items, transport.CreateOrderItem{
			ProductID: p.ID,
			Quantity:  r.IntN(maxRandomQuantity) + 1,
			Price:     &price,
		})
	}

	req := transport.CreateOrderRequest{
		CustomerName: CustomerNames[r.IntN(len(CustomerNames))],
		Status:       models.OrderStatuses[r.IntN(len(models.OrderStatuses))],
		Items:        items,
	}
	return s.create(ctx, req, at, "random")
}
