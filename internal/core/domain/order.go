package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// Next returns the status an order moves to when processed. Delivered is terminal.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderStatusProcessing:
		return OrderStatusShipped
	default:
		return OrderStatusDelivered
	}
}

type ShippingInfo struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country" validate:"required"`
	PinCode int    `json:"pinCode" validate:"required"`
}

type OrderItem struct {
	Name      string          `json:"name" validate:"required"`
	Photo     string          `json:"photo"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	ProductID string          `json:"productId" validate:"required"`
}

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"user"`
	ShippingInfo    ShippingInfo    `json:"shippingInfo"`
	OrderItems      []OrderItem     `json:"orderItems"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Discount        decimal.Decimal `json:"discount"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProductIDs lists the product of every order line, in line order.
func (o Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Quantity is the number of units across all lines.
func (o Order) Quantity() int {
	var n int
	for _, item := range o.OrderItems {
		n += item.Quantity
	}
	return n
}
