package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/pkg/events"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/util"
	"github.com/Skotchmaster/shop_admin/pkg/validate"
	"github.com/Skotchmaster/shop_admin/services/catalog/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/catalog/internal/transport"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("product not found")
)

type ProductRepository interface {
	ListProducts(ctx context.Context, f repo.ProductFilter) (int64, []models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

// Indexer mirrors products into a full-text index.
type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo   ProductRepository
	Index  Indexer
	Events *events.Notifier
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, f)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

// SearchProducts uses the full-text index when one is configured and healthy, and the SQL listing otherwise.
// The second return value names the source that answered.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page util.Page) (int64, []models.Product, string, error) {
	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, query, page.Offset, page.Size)
		if err == nil {
			return total, items, "elasticsearch", nil
		}
		logging.FromContext(ctx).Warn("search_fallback", "reason", "index search failed", "error", err)
	}

	total, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Search: query, Page: &page})
	return total, items, "database", err
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validate.Describe(err))
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Image:       req.Image,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.index(ctx, p)
	s.Events.Emit(ctx, events.TopicProducts, events.Event{
		Type:     events.TypeProductCreated,
		Message:  fmt.Sprintf("Product %q created", p.Name),
		EntityID: p.ID,
	})
	return p, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validate.Describe(err))
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = req.Price.Round(2)
	}
	if req.Image != nil {
		p.Image = *req.Image
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}

	s.index(ctx, p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("unindex_product_failed", "product_id", id, "error", err)
		}
	}
	s.Events.Emit(ctx, events.TopicProducts, events.Event{
		Type:     events.TypeProductDeleted,
		Message:  fmt.Sprintf("Product %q deleted", p.Name),
		EntityID: id,
	})
	return nil
}

// index failures are logged; the table stays the source of truth.
func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_product_failed", "product_id", p.ID, "error", err)
	}
}
