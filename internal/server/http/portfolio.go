package http

import (
	"net/http"

	"github.com/nivesh/brokerlink/internal/server/service"
	"github.com/nivesh/brokerlink/pkg/httpx"
)

type FundLimitView struct {
	Title     string `json:"title"`
	Equity    string `json:"equity"`
	Commodity string `json:"commodity"`
}

type FundsResponse struct {
	Envelope

	Limits []FundLimitView `json:"limits"`
}

type PositionView struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	AvgPrice string `json:"avg_price"`
	PnL      string `json:"pnl"`
	Side     string `json:"side"`
	Product  string `json:"product"`
}

type PositionsResponse struct {
	Envelope

	Positions []PositionView `json:"positions"`
}

type HoldingView struct {
	Symbol    string `json:"symbol"`
	ISIN      string `json:"isin,omitempty"`
	Quantity  int64  `json:"quantity"`
	CostPrice string `json:"cost_price"`
	LastPrice string `json:"last_price"`
	PnL       string `json:"pnl"`
}

type HoldingsResponse struct {
	Envelope

	Holdings []HoldingView `json:"holdings"`
}

// FundsHandler reads the funds report through the linked broker.
type FundsHandler struct {
	Portfolio *service.PortfolioService
}

// ServeHTTP handles fund reads.
//
//	@Summary		Get fund limits from the linked broker
//	@Tags			portfolio
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	FundsResponse
//	@Failure		400	{object}	Envelope
//	@Failure		409	{object}	Envelope
//	@Failure		502	{object}	Envelope
//	@Router			/v1/portfolio/funds [get]
func (h *FundsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	rows, err := h.Portfolio.Funds(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]FundLimitView, 0, len(rows))
	for _, row := range rows {
		views = append(views, FundLimitView{
			Title:     row.Title,
			Equity:    row.Equity.String(),
			Commodity: row.Commodity.String(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, FundsResponse{Envelope: ok(""), Limits: views})
}

// PositionsHandler reads open positions through the linked broker.
type PositionsHandler struct {
	Portfolio *service.PortfolioService
}

// ServeHTTP handles position reads.
//
//	@Summary		Get open positions from the linked broker
//	@Tags			portfolio
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	PositionsResponse
//	@Failure		400	{object}	Envelope
//	@Failure		409	{object}	Envelope
//	@Failure		502	{object}	Envelope
//	@Router			/v1/portfolio/positions [get]
func (h *PositionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	rows, err := h.Portfolio.Positions(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]PositionView, 0, len(rows))
	for _, row := range rows {
		views = append(views, PositionView{
			Symbol:   row.Symbol,
			Quantity: row.Quantity,
			AvgPrice: row.AvgPrice.String(),
			PnL:      row.PnL.String(),
			Side:     row.Side,
			Product:  row.Product,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, PositionsResponse{Envelope: ok(""), Positions: views})
}

// HoldingsHandler reads holdings through the linked broker.
type HoldingsHandler struct {
	Portfolio *service.PortfolioService
}

// ServeHTTP handles holding reads.
//
//	@Summary		Get holdings from the linked broker
//	@Tags			portfolio
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	HoldingsResponse
//	@Failure		400	{object}	Envelope
//	@Failure		409	{object}	Envelope
//	@Failure		502	{object}	Envelope
//	@Router			/v1/portfolio/holdings [get]
func (h *HoldingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, okID := identityID(r)
	if !okID {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	rows, err := h.Portfolio.Holdings(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]HoldingView, 0, len(rows))
	for _, row := range rows {
		views = append(views, HoldingView{
			Symbol:    row.Symbol,
			ISIN:      row.ISIN,
			Quantity:  row.Quantity,
			CostPrice: row.CostPrice.String(),
			LastPrice: row.LastPrice.String(),
			PnL:       row.PnL.String(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, HoldingsResponse{Envelope: ok(""), Holdings: views})
}
