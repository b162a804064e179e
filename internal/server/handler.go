package server

import (
	"errors"
	"net/http"
	"sort"

	"rebalancer/internal/engine"

	"github.com/shopspring/decimal"
)

type handler struct {
	svc rebalanceService
}

func newHandler(svc rebalanceService) *handler {
	return &handler{svc: svc}
}

type positionResponse struct {
	Symbol    string `json:"symbol"`
	Quantity  int64  `json:"quantity"`
	LastPrice string `json:"last_price"`
}

type portfolioResponse struct {
	Cash       string             `json:"cash"`
	TotalValue string             `json:"total_value"`
	Positions  []positionResponse `json:"positions"`
	Weights    map[string]string  `json:"weights"`
}

// GetPortfolio returns the current portfolio snapshot with derived weights.
func (h *handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p := h.svc.Portfolio()
	view := p.Snapshot()

	resp := portfolioResponse{
		Cash:       view.Cash.String(),
		TotalValue: view.TotalValue.String(),
		Positions:  make([]positionResponse, 0, len(view.Positions)),
		Weights:    make(map[string]string),
	}
	for _, pos := range view.Positions {
		resp.Positions = append(resp.Positions, positionResponse{
			Symbol:    pos.Symbol,
			Quantity:  pos.Quantity,
			LastPrice: pos.LastPrice.String(),
		})
	}
	sort.Slice(resp.Positions, func(i, j int) bool {
		return resp.Positions[i].Symbol < resp.Positions[j].Symbol
	})
	for symbol, weight := range p.CurrentWeights() {
		resp.Weights[symbol] = weight.StringFixed(6)
	}

	WriteJSON(w, http.StatusOK, resp)
}

type depositRequest struct {
	Amount string `json:"amount"`
}

// Deposit adds cash to the portfolio. Amounts are decimal strings.
func (h *handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_amount", "amount must be a decimal string")
		return
	}

	if err := h.svc.Portfolio().Deposit(amount); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_amount", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"cash": h.svc.Portfolio().Snapshot().Cash.String(),
	})
}

// Rebalance triggers a pass outside the weekly schedule.
func (h *handler) Rebalance(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Rebalance(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, engine.PassInFlightErr):
			WriteError(w, http.StatusConflict, "pass_in_flight", err.Error())
		case errors.Is(err, engine.CompositionUnavailableErr):
			WriteError(w, http.StatusBadGateway, "composition_unavailable", err.Error())
		default:
			WriteError(w, http.StatusInternalServerError, "rebalance_failed", err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusOK, report)
}
