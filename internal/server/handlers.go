package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"papertrader/internal/engine"
	"papertrader/internal/ledger"
	"papertrader/internal/logger"
	"papertrader/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.trader.Status(r.Context()))
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.trader.Buy)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.trader.Sell)
}

type tradeFunc func(ctx context.Context, ticker string, qty int) (*types.Receipt, error)

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, trade tradeFunc) {
	var req types.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &types.Receipt{Status: "fail", Message: "invalid request body"})
		return
	}

	receipt, err := trade(r.Context(), req.Ticker, req.Qty)
	if err == nil {
		writeJSON(w, http.StatusOK, receipt)
		return
	}

	// Rejected trades are ordinary outcomes, not transport errors; the
	// original UI reads the receipt status.
	switch {
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrInsufficientHolding),
		errors.Is(err, engine.ErrPriceUnavailable),
		errors.Is(err, engine.ErrInvalidQuantity):
		writeJSON(w, http.StatusOK, receipt)
	default:
		var perr *ledger.PersistenceError
		if errors.As(err, &perr) {
			writeJSON(w, http.StatusInternalServerError, receipt)
			return
		}
		logger.ErrorWithErr(r.Context(), "Trade handler failed", err, "ticker", req.Ticker)
		writeJSON(w, http.StatusInternalServerError, &types.Receipt{Status: "fail", Message: "internal error"})
	}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Paper Trader</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: right; }
th:first-child, td:first-child, td:nth-child(2) { text-align: left; }
.neg { color: #c0392b; } .pos { color: #27ae60; }
</style>
</head>
<body>
<h1>Paper Trader</h1>
<p>Balance: {{.Balance}} &nbsp; Total asset: {{.TotalAsset}} &nbsp; Total ROI: {{.TotalROI}}%</p>
<table>
<tr><th>Ticker</th><th>Name</th><th>Qty</th><th>Avg</th><th>Price</th><th>ROI %</th><th>Value</th></tr>
{{range .Holdings}}
<tr><td>{{.Ticker}}</td><td>{{.Name}}</td><td>{{.Qty}}</td><td>{{.AvgPrice}}</td><td>{{.CurrentPrice}}</td><td>{{.ROI}}</td><td>{{.Valuation}}</td></tr>
{{else}}
<tr><td colspan="7">no open positions</td></tr>
{{end}}
</table>
</body>
</html>
`))

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	status := s.trader.Status(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, status); err != nil {
		logger.ErrorWithErr(r.Context(), "Dashboard render failed", err)
	}
}
