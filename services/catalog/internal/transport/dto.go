package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/util"
)

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,max=255"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"       validate:"gte=0"`
	Image       string          `json:"image"       validate:"max=1024"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"        validate:"omitnil,max=255"`
	Description *string          `json:"description" validate:"omitnil,max=5000"`
	Price       *decimal.Decimal `json:"price"       validate:"omitnil,gte=0"`
	Image       *string          `json:"image"       validate:"omitnil,max=1024"`
}

type ListProductsResponse struct {
	Data []models.Product `json:"data"`
	Meta *util.Meta       `json:"meta,omitempty"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
	Source   string           `json:"source"`
}
