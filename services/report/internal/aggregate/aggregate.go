// Package aggregate turns orders with their items into dashboard and sales report figures.
// Every function is pure: no I/O, no clock, no shared state.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_admin/pkg/models"
)

const (
	DayLayout   = "2006-01-02"
	TopProducts = 5
)

type Metric struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ProductSales struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Sales       decimal.Decimal `json:"sales"`
}

type Dashboard struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	OrdersCount       int             `json:"orders_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	Metrics           []Metric        `json:"metrics"`
	RevenueOverTime   []RevenuePoint  `json:"revenue_over_time"`
	TopProductSales   []ProductSales  `json:"top_product_sales"`
}

type SalesPoint struct {
	Date        string          `json:"date"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	OrdersCount int             `json:"orders_count"`
}

type SalesReport struct {
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	OrdersCount       int             `json:"orders_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	DataPoints        []SalesPoint    `json:"data_points"`
	Orders            []models.Order  `json:"orders"`
}

// NameLookup resolves product ids to display names. Ids it does not know are simply absent.
type NameLookup func(ids []uint) map[uint]string

func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}

func totals(orders []models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total())
	}
	return sum
}

func ComputeDashboard(orders []models.Order, lookup NameLookup) Dashboard {
	total := totals(orders)
	count := len(orders)
	avg := Average(total, count)

	return Dashboard{
		TotalRevenue:      total,
		OrdersCount:       count,
		AverageOrderValue: avg,
		Metrics: []Metric{
			{Label: "Total Revenue", Value: total},
			{Label: "Orders Count", Value: decimal.NewFromInt(int64(count))},
			{Label: "Avg Order Value", Value: avg},
		},
		RevenueOverTime: revenueOverTime(orders),
		TopProductSales: topProducts(orders, TopProducts, lookup),
	}
}

func revenueOverTime(orders []models.Order) []RevenuePoint {
	byDay := make(map[string]decimal.Decimal)
	for _, o := range orders {
		k := DayKey(o.OrderDate)
		byDay[k] = byDay[k].Add(o.Total())
	}

	out := make([]RevenuePoint, 0, len(byDay))
	for day, rev := range byDay {
		out = append(out, RevenuePoint{Date: day, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// topProducts ranks by revenue descending; equal revenue goes to the lower product id.
func topProducts(orders []models.Order, n int, lookup NameLookup) []ProductSales {
	byProduct := make(map[uint]decimal.Decimal)
	for _, o := range orders {
		for _, it := range o.Items {
			byProduct[it.ProductID] = byProduct[it.ProductID].Add(it.LineTotal())
		}
	}

	ranked := make([]ProductSales, 0, len(byProduct))
	for id, sales := range byProduct {
		ranked = append(ranked, ProductSales{ProductID: id, Sales: sales})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Sales.Cmp(ranked[j].Sales); c != 0 {
			return c > 0
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	var names map[uint]string
	if lookup != nil && len(ranked) > 0 {
		ids := make([]uint, len(ranked))
		for i, r := range ranked {
			ids[i] = r.ProductID
		}
		names = lookup(ids)
	}
	for i := range ranked {
		name := names[ranked[i].ProductID]
		if name == "" {
			name = fmt.Sprintf("Product %d", ranked[i].ProductID)
		}
		ranked[i].ProductName = name
	}
	return ranked
}

// ComputeSalesReport expects orders already restricted to [start, end]. The orders are echoed back.
func ComputeSalesReport(orders []models.Order, start, end time.Time) SalesReport {
	total := totals(orders)
	count := len(orders)

	if orders == nil {
		orders = []models.Order{}
	}
	return SalesReport{
		StartDate:         start.UTC(),
		EndDate:           end.UTC(),
		TotalSales:        total,
		OrdersCount:       count,
		AverageOrderValue: Average(total, count),
		DataPoints:        salesPoints(orders),
		Orders:            orders,
	}
}

func salesPoints(orders []models.Order) []SalesPoint {
	idx := make(map[string]int)
	out := make([]SalesPoint, 0)
	for _, o := range orders {
		k := DayKey(o.OrderDate)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, SalesPoint{Date: k, TotalSales: decimal.Zero})
		}
		out[i].TotalSales = out[i].TotalSales.Add(o.Total())
		out[i].OrdersCount++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
