package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/pkg/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func itemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

type OrderFilter struct {
	SearchTerm string
	Status     models.OrderStatus
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Preload("Items", itemsByID)
	if s := strings.TrimSpace(f.SearchTerm); s != "" {
		q = q.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	orders := make([]models.Order, 0)
	if err := q.Order("order_date DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items", itemsByID).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts the order and its items in one transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *GormRepo) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetOrder(ctx, id)
}

func (r *GormRepo) FindProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var prods []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&prods).Error; err != nil {
		return nil, err
	}
	for _, p := range prods {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var prods []models.Product
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&prods).Error; err != nil {
		return nil, err
	}
	return prods, nil
}
