// Package sales pulls new sale events from the upstream sales pipeline.
// Upstream owns detection and deduplication; whatever a source hands over
// is treated as final revenue.
package sales

import (
	"context"

	"TreasuryBot/internal/model"
)

// Source supplies the new sales since the previous cycle. A fetch consumes
// the events: a second call returns only sales that arrived in between.
type Source interface {
	FetchNewSales(ctx context.Context) ([]model.Sale, error)
	Name() string
}
