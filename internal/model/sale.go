package model

import "time"

// Sale is one already-deduplicated sale event handed over by the upstream
// sales source. The engine trusts the amount as final.
type Sale struct {
	ID         string    `json:"id"`
	Product    string    `json:"product"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
