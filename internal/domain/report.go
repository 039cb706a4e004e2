package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopDesignsLimit caps the topSellingDesigns ranking.
const TopDesignsLimit = 10

// ReportFilters selects the orders a report aggregates. Not persisted.
type ReportFilters struct {
	// StartDate and EndDate are inclusive bounds on an order's CreatedAt.
	StartDate *time.Time
	EndDate   *time.Time
	// Statuses defaults to RevenueStatuses when empty. Unknown values match nothing.
	Statuses   []OrderStatus
	DesignerID string
	DesignID   string
}

// Validate enforces startDate <= endDate.
func (f ReportFilters) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return Invalid("report.filters", "startDate must not be after endDate")
	}
	return nil
}

// EffectiveStatuses returns the status set the report will match.
func (f ReportFilters) EffectiveStatuses() []OrderStatus {
	if len(f.Statuses) == 0 {
		return RevenueStatuses
	}
	return f.Statuses
}

// SalesReport is the aggregate over a filtered order set.
type SalesReport struct {
	TotalSales        int             `json:"totalSales"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	SalesByDate       []DateSales     `json:"salesByDate"`
	TopSellingDesigns []DesignSales   `json:"topSellingDesigns"`
	SalesByDesigner   []DesignerSales `json:"salesByDesigner"`
}

// DateSales is one UTC calendar-day bucket.
type DateSales struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DesignSales aggregates line items per design.
type DesignSales struct {
	DesignID     string          `json:"designId"`
	Title        string          `json:"title"`
	DesignerID   string          `json:"designerId,omitempty"`
	DesignerName string          `json:"designerName,omitempty"`
	Quantity     int             `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DesignerSales aggregates per designer. Orders counts distinct orders.
type DesignerSales struct {
	DesignerID   string          `json:"designerId"`
	DesignerName string          `json:"designerName"`
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SizeSales aggregates one design's items per size.
type SizeSales struct {
	Size     Size            `json:"size"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DesignReport is a sales report scoped to one design.
type DesignReport struct {
	Design      DesignSummary `json:"design"`
	Sales       SalesReport   `json:"sales"`
	SalesBySize []SizeSales   `json:"salesBySize"`
}

// DesignSummary is the display form of a design in reports.
type DesignSummary struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	DesignerID   string          `json:"designerId,omitempty"`
	DesignerName string          `json:"designerName,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl,omitempty"`
}

// DesignerReport is a sales report scoped to one designer's catalog.
type DesignerReport struct {
	Designer Designer    `json:"designer"`
	Sales    SalesReport `json:"sales"`
	// ActiveDesigns counts catalog designs that appear in TopSellingDesigns.
	TotalDesigns    int `json:"totalDesigns"`
	ActiveDesigns   int `json:"activeDesigns"`
	InactiveDesigns int `json:"inactiveDesigns"`
}
