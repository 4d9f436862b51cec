package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/pkg/events"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/testutil"
	"github.com/Skotchmaster/shop_admin/services/order/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/order/internal/transport"
)

// seqRand returns its values in order, each reduced modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) IntN(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*OrderService, *gorm.DB, *testutil.Publisher) {
	t.Helper()
	db := testutil.NewDB(t)
	pub := &testutil.Publisher{}
	return &OrderService{
		Repo:   &repo.GormRepo{DB: db},
		Events: events.NewNotifier(pub),
		Now:    func() time.Time { return fixedNow },
	}, db, pub
}

func createProduct(t *testing.T, db *gorm.DB, name string, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func ptr(d string) *decimal.Decimal {
	v := decimal.RequireFromString(d)
	return &v
}

func TestOrderService_CreateCapturesMissingPrice(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	lamp := createProduct(t, db, "Lamp", "25.5")
	desk := createProduct(t, db, "Desk", "100")

	order, err := svc.CreateOrder(context.Background(), transport.CreateOrderRequest{
		CustomerName: " Alice ",
		Status:       models.OrderStatusPending,
		Items: []transport.CreateOrderItem{
			{ProductID: lamp.ID, Quantity: 2},
			{ProductID: desk.ID, Quantity: 1, Price: ptr("80")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", order.CustomerName)
	assert.True(t, order.OrderDate.Equal(fixedNow))

	stored, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "25.5", stored.Items[0].Price.String())
	assert.Equal(t, "80", stored.Items[1].Price.String())
	assert.Equal(t, "131", stored.Total().String())

	// later price changes do not touch existing orders
	require.NoError(t, db.Model(&lamp).Update("price", decimal.NewFromInt(999)).Error)
	stored, err = svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.5", stored.Items[0].Price.String())
}

func TestOrderService_CreateRejects(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	p := createProduct(t, db, "Lamp", "10")

	tests := []struct {
		name string
		req  transport.CreateOrderRequest
		want error
	}{
		{"no items", transport.CreateOrderRequest{CustomerName: "Bob", Status: "pending"}, ErrValidation},
		{"zero quantity", transport.CreateOrderRequest{CustomerName: "Bob", Status: "pending",
			Items: []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 0}}}, ErrValidation},
		{"negative price", transport.CreateOrderRequest{CustomerName: "Bob", Status: "pending",
			Items: []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 1, Price: ptr("-1")}}}, ErrValidation},
		{"bad status", transport.CreateOrderRequest{CustomerName: "Bob", Status: "lost",
			Items: []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 1}}}, ErrValidation},
		{"blank customer", transport.CreateOrderRequest{CustomerName: "  ", Status: "pending",
			Items: []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 1}}}, ErrValidation},
		{"unknown product", transport.CreateOrderRequest{CustomerName: "Bob", Status: "pending",
			Items: []transport.CreateOrderItem{{ProductID: p.ID + 50, Quantity: 1}}}, ErrNotFound},
	}

	for _, tt := range tests {
		_, err := svc.CreateOrder(context.Background(), tt.req)
		assert.ErrorIs(t, err, tt.want, tt.name)
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_ListFilters(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	p := createProduct(t, db, "Lamp", "10")
	ctx := context.Background()

	for i, c := range []struct {
		name   string
		status models.OrderStatus
	}{{"Alice", "pending"}, {"alicia", "shipped"}, {"Bob", "pending"}} {
		svc.Now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Hour) }
		_, err := svc.CreateOrder(ctx, transport.CreateOrderRequest{
			CustomerName: c.name, Status: c.status,
			Items: []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	all, err := svc.ListOrders(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Bob", all[0].CustomerName)
	assert.Len(t, all[0].Items, 1)

	byName, err := svc.ListOrders(ctx, "ALI", "")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	both, err := svc.ListOrders(ctx, "ali", "pending")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Alice", both[0].CustomerName)

	_, err = svc.ListOrders(ctx, "", "lost")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderService_UpdateStatusEmitsEvent(t *testing.T) {
	t.Parallel()
	svc, db, pub := newTestService(t)
	p := createProduct(t, db, "Lamp", "10")
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, transport.CreateOrderRequest{
		CustomerName: "Eve", Status: "pending",
		Items: []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, transport.UpdateStatusRequest{Status: "Shipped"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Len(t, updated.Items, 1)

	_, err = svc.UpdateStatus(ctx, order.ID+10, transport.UpdateStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.UpdateStatus(ctx, order.ID, transport.UpdateStatusRequest{Status: "teleported"})
	assert.ErrorIs(t, err, ErrValidation)

	svc.Events.Wait()
	evs := pub.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TypeOrderStatusChanged, evs[0].Type)
	assert.Equal(t, "Order 1 changed to shipped", evs[0].Message)
	assert.Equal(t, []string{events.TopicOrders}, pub.Topics())
}

func TestOrderService_CreateRandomOrder(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateRandomOrder(ctx)
	require.ErrorIs(t, err, ErrNoProductsAvailable)

	createProduct(t, db, "A", "10")
	b := createProduct(t, db, "B", "7.25")

	// items: 2, product B qty 4, product B qty 1, name Charlie, status delivered
	svc.Rand = &seqRand{vals: []int{1, 1, 3, 1, 0, 2, 3}}
	order, err := svc.CreateRandomOrder(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Charlie", order.CustomerName)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, b.ID, order.Items[0].ProductID)
	assert.Equal(t, 4, order.Items[0].Quantity)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, "7.25", order.Items[0].Price.String())
}

func TestOrderService_RandomOrdersStayInRange(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	createProduct(t, db, "A", "10")
	createProduct(t, db, "B", "20")

	for i := 0; i < 20; i++ {
		order, err := svc.CreateRandomOrder(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(order.Items), 1)
		assert.LessOrEqual(t, len(order.Items), 3)
		assert.Contains(t, CustomerNames, order.CustomerName)
		assert.True(t, order.Status.Valid())
		for _, it := range order.Items {
			assert.GreaterOrEqual(t, it.Quantity, 1)
			assert.LessOrEqual(t, it.Quantity, 5)
		}
	}
}
