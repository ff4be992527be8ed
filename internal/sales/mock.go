package sales

import (
	"context"

	"TreasuryBot/internal/model"
)

// MockSource returns a fixed batch of sales once. Used in tests and dry
// runs.
type MockSource struct {
	Sales []model.Sale
	Err   error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchNewSales(_ context.Context) ([]model.Sale, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	batch := m.Sales
	m.Sales = nil
	return batch, nil
}
