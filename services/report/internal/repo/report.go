package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/pkg/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func itemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *GormRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.DB.WithContext(ctx).Preload("Items", itemsByID).Order("order_date ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OrdersBetween returns orders dated within [start, end], oldest first.
func (r *GormRepo) OrdersBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := r.DB.WithContext(ctx).
		Preload("Items", itemsByID).
		Where("order_date >= ? AND order_date <= ?", start.UTC(), end.UTC()).
		Order("order_date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ProductNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uint
		Name string
	}
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
