package models

import "time"

// Event type constants
const (
	EventVarComputed    = "VAR_COMPUTED"
	EventReturnsFetched = "RETURNS_FETCHED"
)

// RiskEvent represents a Kafka event for risk service activity
type RiskEvent struct {
	EventType  string    `json:"event_type"`
	Ticker     string    `json:"ticker,omitempty"`
	Method     string    `json:"method,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Var        float64   `json:"var,omitempty"`
	Points     int       `json:"points,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
