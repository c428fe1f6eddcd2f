package types

// Receipt is the result of a buy or sell request.
type Receipt struct {
	Status  string  `json:"status"` // "success" or "fail"
	Message string  `json:"msg"`
	Price   float64 `json:"price,omitempty"`
}

// Success reports whether the trade went through.
func (r *Receipt) Success() bool { return r.Status == "success" }

// TradeRequest is the JSON body of /api/buy and /api/sell.
type TradeRequest struct {
	Ticker string `json:"ticker"`
	Qty    int    `json:"qty"`
}

// HoldingView is one row of the status dashboard. All currency values are
// rounded to whole units and percentages to two decimals; rounding happens
// only at this reporting boundary.
type HoldingView struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Qty          int     `json:"qty"`
	AvgPrice     int64   `json:"avg_price"`
	CurrentPrice int64   `json:"current_price"`
	ROI          float64 `json:"roi"`
	Valuation    int64   `json:"valuation"`
}

// StatusReport is the full account view returned by /api/status.
type StatusReport struct {
	Balance    int64         `json:"balance"`
	TotalAsset int64         `json:"total_asset"`
	TotalROI   float64       `json:"total_roi"`
	Holdings   []HoldingView `json:"holdings"`
	SeedMoney  float64       `json:"seed_money"`
}
