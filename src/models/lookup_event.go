package models

// -----------------------------------------------------------------------------
// Websocket payloads
// -----------------------------------------------------------------------------

// MLookupEvent is pushed to websocket subscribers after every lookup.
type MLookupEvent struct {
	Type      string              `json:"type"` // "INITIAL" or "UPDATE"
	Symbol    string              `json:"symbol"`
	Outcome   string              `json:"outcome"`
	ErrorKind string              `json:"error_kind,omitempty"`
	Stats     *MSummaryStatistics `json:"stats,omitempty"`
	Timestamp int64               `json:"timestamp"`
}

// MLookupSnapshot is sent on connect and on subscribe: the last event per symbol.
type MLookupSnapshot struct {
	Type   string                  `json:"type"`
	Events map[string]MLookupEvent `json:"events"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command string   `json:"command"`
	Symbols []string `json:"symbols"`
}
