package sales

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"context"

	"TreasuryBot/internal/model"
)

// HTTPSource fetches new sales from the sales pipeline's REST API.
type HTTPSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPSource creates a source with optional proxy support.
func NewHTTPSource(baseURL, apiKey, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *HTTPSource) Name() string { return "http" }

// wireSale is the expected JSON shape from the sales API.
type wireSale struct {
	ID        string  `json:"id"`
	Product   string  `json:"product"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// FetchNewSales drains the pipeline's pending-sales endpoint. The endpoint
// marks returned sales as delivered, so each sale is seen exactly once.
func (s *HTTPSource) FetchNewSales(ctx context.Context) ([]model.Sale, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sales/pending", s.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("sales: build request: %w", err)
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sales: fetch pending: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sales: API status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Sales []wireSale `json:"sales"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("sales: decode response: %w", err)
	}

	out := make([]model.Sale, 0, len(payload.Sales))
	for _, w := range payload.Sales {
		out = append(out, model.Sale{
			ID:         w.ID,
			Product:    w.Product,
			Amount:     w.Amount,
			OccurredAt: time.Unix(w.Timestamp, 0),
		})
	}
	return out, nil
}
