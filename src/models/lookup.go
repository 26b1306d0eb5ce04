package models

import "time"

// Lookup outcomes
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// MLookupRecord is one entry of the request history. It never carries price data.
type MLookupRecord struct {
	Symbol      string    `json:"symbol"`
	RequestedAt time.Time `json:"requested_at"`
	Outcome     string    `json:"outcome"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Records     int       `json:"records"`
	LatencyMS   int64     `json:"latency_ms"`
}
