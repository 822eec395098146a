package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

const idempotencyHeader = "Idempotency-Key"

type orderHandler struct {
	orders *service.OrderService
	logger *zap.Logger
}

type newOrderRequest struct {
	ShippingInfo    domain.ShippingInfo `json:"shippingInfo"`
	OrderItems      []domain.OrderItem  `json:"orderItems"`
	User            string              `json:"user"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	Discount        decimal.Decimal     `json:"discount"`
	ShippingCharges decimal.Decimal     `json:"shippingCharges"`
	Total           decimal.Decimal     `json:"total"`
}

func (h *orderHandler) NewOrder(w http.ResponseWriter, r *http.Request) {
	var req newOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	order, err := h.orders.NewOrder(r.Context(), service.NewOrderInput{
		UserID:          req.User,
		ShippingInfo:    req.ShippingInfo,
		OrderItems:      req.OrderItems,
		Subtotal:        req.Subtotal,
		Tax:             req.Tax,
		Discount:        req.Discount,
		ShippingCharges: req.ShippingCharges,
		Total:           req.Total,
	}, r.Header.Get(idempotencyHeader))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, ok(envelope{
		"message": "Order placed successfully",
		"orderId": order.ID,
	}))
}

func (h *orderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.MyOrders(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"orders": orders}))
}

func (h *orderHandler) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.AllOrders(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"orders": orders}))
}

func (h *orderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Order(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"order": order}))
}

func (h *orderHandler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	if _, err := h.orders.ProcessOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Order Processed Successfully"}))
}

func (h *orderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Order Deleted Successfully"}))
}
