package models

import "time"

// Envelope kinds carried on the broker.
const (
	KindNFTEvent = "nft_event"
	KindCommand  = "command"
)

type MessageEnvelope struct {
	ID        string                 `json:"id"`
	Kind      string                 `json:"kind"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  Metadata               `json:"metadata"`
}

type Metadata struct {
	TraceID      string   `json:"trace_id,omitempty"`
	TickID       string   `json:"tick_id,omitempty"`
	CollectionID string   `json:"collection_id,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
}
