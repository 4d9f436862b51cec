// Package seed fills an empty database with demo products, an admin account and a few orders.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkghash "github.com/Skotchmaster/shop_admin/pkg/hash"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/services/order/internal/service"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin"

	randomOrders = 5
	orderWindow  = 30 * 24 * time.Hour
	productImage = "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcSLCweiJVxf9wQbL37BD7c0XqKe-GBT4UmP6C5CQE_-e5Vb6nPzdxZiWA32tg5VViQnk4A&usqp=CAU"
)

var productPrices = []int64{100, 90, 36, 70, 55, 20}

type Seeder struct {
	DB     *gorm.DB
	Orders *service.OrderService
	Hash   func(password string) (string, error)
	Rand   service.Rand
	Now    func() time.Time
}

// Seed does nothing when products already exist and reports whether it seeded.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	l := logging.FromContext(ctx).With("component", "seeder")

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		l.Info("seeding_skipped", "reason", "products already exist")
		return false, nil
	}

	hash := s.Hash
	if hash == nil {
		hash = pkghash.HashPassword
	}
	pwHash, err := hash(AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{&models.OrderItem{}, &models.Order{}, &models.User{}, &models.Product{}} {
			if err := all.Delete(m).Error; err != nil {
				return fmt.Errorf("wipe %T: %w", m, err)
			}
		}

		for i, price := range productPrices {
			n := i + 1
			p := models.Product{
				Name:        fmt.Sprintf("Product %d", n),
				Description: fmt.Sprintf("Description for Product %d", n),
				Price:       decimal.NewFromInt(price),
				Image:       productImage,
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create product %d: %w", n, err)
			}
		}

		admin := models.User{
			FirstName:    "Admin",
			LastName:     "User",
			Email:        AdminEmail,
			PasswordHash: pwHash,
			Roles:        models.RoleList{models.RoleUser, models.RoleAdmin},
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	l.Info("seed_data_created", "products", len(productPrices), "admin", AdminEmail)

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	r := s.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))
	}
	for i := 0; i < randomOrders; i++ {
		at := now.Add(-time.Duration(r.IntN(int(orderWindow/time.Second))) * time.Second)
		if _, err := s.Orders.CreateRandomOrderAt(ctx, at); err != nil {
			return true, fmt.Errorf("create random order: %w", err)
		}
	}
	l.Info("random_orders_created", "count", randomOrders)
	return true, nil
}
