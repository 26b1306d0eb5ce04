package models

// MMarketStatus annotates a report with the exchange calendar of the symbol.
type MMarketStatus struct {
	MIC            string `json:"mic"`
	SessionsBehind int    `json:"sessions_behind"`
}

// -----------------------------------------------------------------------------

// MStockReport is the successful result of one lookup.
type MStockReport struct {
	Symbol   string             `json:"symbol"`
	PlotURLs []string           `json:"plot_urls"`
	Stats    MSummaryStatistics `json:"stats"`
	Market   MMarketStatus      `json:"market"`
}

// -----------------------------------------------------------------------------

// MErrorResponse is the JSON body of a failed lookup.
type MErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
