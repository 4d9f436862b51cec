package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/util"
)

type GormRepo struct {
	DB *gorm.DB
}

type ProductFilter struct {
	Search  string
	SortKey string
	Desc    bool
	Page    *util.Page
}

var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
}

// SortColumn reports the column for a sort key; unknown keys are not sortable.
func SortColumn(key string) (string, bool) {
	col, ok := sortColumns[key]
	return col, ok
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	col, ok := SortColumn(f.SortKey)
	desc := f.Desc
	if !ok {
		col, desc = "created_at", true
	}
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	q = q.Order(col + dir).Order("id" + dir)

	if f.Page != nil {
		q = q.Offset(f.Page.Offset).Limit(f.Page.Size)
	}

	items := make([]models.Product, 0)
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
