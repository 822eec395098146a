package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/service"
)

type paymentHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

type couponRequest struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *paymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	secret, err := h.payments.CreatePaymentIntent(r.Context(), req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, ok(envelope{"clientSecret": secret}))
}

func (h *paymentHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	discount, err := h.payments.ApplyDiscount(r.Context(), r.URL.Query().Get("coupon"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"discount": discount}))
}

func (h *paymentHandler) NewCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	coupon, err := h.payments.NewCoupon(r.Context(), req.Code, req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, ok(envelope{"message": "Coupon " + coupon.Code + " created successfully"}))
}

func (h *paymentHandler) AllCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.payments.AllCoupons(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"coupons": coupons}))
}

func (h *paymentHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.payments.Coupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"coupon": coupon}))
}

func (h *paymentHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	coupon, err := h.payments.UpdateCoupon(r.Context(), chi.URLParam(r, "id"), req.Code, req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Coupon updated " + coupon.Code + " successfully"}))
}

func (h *paymentHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.payments.DeleteCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Coupon " + coupon.Code + " deleted successfully"}))
}
