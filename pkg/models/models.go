package models

import (
	"database/sql/driver"
	"slices"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	FirstName    string    `gorm:"not null"                    json:"first_name"`
	LastName     string    `gorm:"not null"                    json:"last_name"`
	Email        string    `gorm:"uniqueIndex;not null"        json:"email"`
	PasswordHash string    `gorm:"not null"                    json:"-"`
	Roles        RoleList  `gorm:"not null"                    json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleList is stored as a postgres text[] and as the same array literal elsewhere.
type RoleList []string

func (RoleList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (r RoleList) Value() (driver.Value, error) {
	return pq.StringArray(r).Value()
}

func (r *RoleList) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*r = RoleList(arr)
	return nil
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string          `gorm:"not null"                   json:"name"`
	Description string          `gorm:"not null;default:''"        json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image       string          `gorm:"not null;default:''"        json:"image"`
	CreatedAt   time.Time       `gorm:"index"                      json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(OrderStatuses, s)
}

type Order struct {
	ID           uint        `gorm:"primaryKey;autoIncrement"          json:"id"`
	CustomerName string      `gorm:"not null"                          json:"customer_name"`
	Status       OrderStatus `gorm:"type:varchar(16);not null;index"   json:"status"`
	OrderDate    time.Time   `gorm:"not null;index"                    json:"order_date"`
	Items        []OrderItem `gorm:"constraint:OnDelete:CASCADE"       json:"items"`
}

// Total is recomputed from the items on every call and never stored.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// OrderItem references a product without owning it. Price is the unit price captured when the order was placed.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"index;not null"              json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func All() []any {
	return []any{&User{}, &Product{}, &Order{}, &OrderItem{}}
}
