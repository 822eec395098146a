package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/service"
)

type statsHandler struct {
	stats  *service.StatsService
	logger *zap.Logger
}

func (h *statsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"stats": stats}))
}

func (h *statsHandler) PieCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.stats.PieCharts(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"charts": charts}))
}

func (h *statsHandler) BarCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.stats.BarCharts(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"charts": charts}))
}

func (h *statsHandler) LineCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.stats.LineCharts(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"charts": charts}))
}
