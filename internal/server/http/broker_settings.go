package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type RiskLimitsRequest struct {
	MaxOrderValue  string `json:"max_order_value" example:"250000"`
	MaxDailyLoss   string `json:"max_daily_loss" example:"10000"`
	MaxOpenLots    int64  `json:"max_open_lots" example:"10"`
	PaperTradeOnly bool   `json:"paper_trade_only"`
}

// RiskLimitsHandler stores per-account trading caps.
type RiskLimitsHandler struct {
	Broker *service.BrokerService
}

// ServeHTTP handles trading settings updates.
//
//	@Summary		Update trading risk limits
//	@Tags			broker
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		RiskLimitsRequest	true	"risk limits"
//	@Success		200		{object}	Envelope
//	@Failure		400		{object}	Envelope
//	@Router			/v1/broker/settings [put]
func (h *RiskLimitsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req RiskLimitsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	limits := domain.RiskLimits{
		MaxOpenLots:    req.MaxOpenLots,
		PaperTradeOnly: req.PaperTradeOnly,
	}

	var err error
	if limits.MaxOrderValue, err = parseAmount(req.MaxOrderValue); err != nil {
		writeError(w, http.StatusBadRequest, "malformed max_order_value")
		return
	}
	if limits.MaxDailyLoss, err = parseAmount(req.MaxDailyLoss); err != nil {
		writeError(w, http.StatusBadRequest, "malformed max_daily_loss")
		return
	}

	if err := h.Broker.UpdateRiskLimits(r.Context(), id, limits); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ok("risk limits updated"))
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
