package faults

import "time"

// Fault represents a persisted enrichment failure entry. The record
// itself may stay at processing (parity mode), so failures are logged
// out of band for auditing.
type Fault struct {
	ID         int64     `json:"id"`
	AnalysisID string    `json:"analysis_id"`
	Stage      string    `json:"stage,omitempty"` // gateway | parse | persist
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
