package handler

import (
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderItemResponse is an order line as rendered by the JSON API.
type OrderItemResponse struct {
	DesignID       string                `json:"designId"`
	Quantity       int                   `json:"quantity"`
	Size           domain.Size           `json:"size"`
	Price          decimal.Decimal       `json:"price"`
	LineTotal      decimal.Decimal       `json:"lineTotal"`
	Customizations *domain.Customization `json:"customizations,omitempty"`
	Design         *DesignResponse       `json:"design,omitempty"`
}

// DesignResponse is the design summary embedded in order lines.
type DesignResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	DesignerID   string          `json:"designerId,omitempty"`
	DesignerName string          `json:"designerName,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl,omitempty"`
}

// OrderResponse is an order as rendered by the JSON API.
type OrderResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	Status          domain.OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	PaymentID       string                 `json:"paymentId,omitempty"`
	Items           []OrderItemResponse    `json:"items"`
	ShippingDetails domain.ShippingDetails `json:"shippingDetails"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// OrderListResponse is one page of orders plus paging metadata.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

// Pagination describes the page returned and the size of the full listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewOrderResponse renders a display-ready order.
func NewOrderResponse(v *domain.OrderView) OrderResponse {
	resp := OrderResponse{
		ID:              v.ID,
		UserID:          v.UserID,
		Status:          v.Status,
		TotalAmount:     domain.Money(v.TotalAmountCents),
		PaymentID:       v.PaymentID,
		Items:           make([]OrderItemResponse, 0, len(v.Items)),
		ShippingDetails: v.ShippingDetails,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	for _, item := range v.Items {
		line := newItemResponse(item.OrderItem)
		design := newDesignResponse(item.Design)
		line.Design = &design
		resp.Items = append(resp.Items, line)
	}
	return resp
}

// NewOrderSummaryResponse renders an order without design details, as returned
// by state-changing operations.
func NewOrderSummaryResponse(o *domain.Order) OrderResponse {
	resp := NewOrderResponse(&domain.OrderView{Order: *o})
	for _, item := range o.Items {
		resp.Items = append(resp.Items, newItemResponse(item))
	}
	return resp
}

func newItemResponse(item domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		DesignID:       item.DesignID,
		Quantity:       item.Quantity,
		Size:           item.Size,
		Price:          domain.Money(item.PriceCents),
		LineTotal:      domain.Money(item.LineTotalCents()),
		Customizations: item.Customizations,
	}
}

// NewOrderListResponse renders a page of orders.
func NewOrderListResponse(p *domain.OrderPage) OrderListResponse {
	resp := OrderListResponse{
		Orders: make([]OrderResponse, 0, len(p.Orders)),
		Pagination: Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: p.Total,
		},
	}
	if p.Limit > 0 {
		resp.Pagination.TotalPages = (p.Total + p.Limit - 1) / p.Limit
	}
	for i := range p.Orders {
		resp.Orders = append(resp.Orders, NewOrderResponse(&p.Orders[i]))
	}
	return resp
}

func newDesignResponse(d domain.Design) DesignResponse {
	return DesignResponse{
		ID:           d.ID,
		Title:        d.Title,
		DesignerID:   d.DesignerID,
		DesignerName: d.DesignerName,
		Price:        domain.Money(d.PriceCents),
		ImageURL:     d.ImageURL,
	}
}
