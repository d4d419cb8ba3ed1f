package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPFeed fetches commodity prices from an external JSON endpoint of
// the form GET {base}/{commodity} -> {"price": 250.0, "source": "..."}.
type HTTPFeed struct {
	base   string
	client *http.Client
}

func NewHTTPFeed(base string) *HTTPFeed {
	return &HTTPFeed{base: base, client: &http.Client{}}
}

func (f *HTTPFeed) Fetch(ctx context.Context, commodity string) (float64, string, error) {
	u := f.base + "/" + url.PathEscape(commodity)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("price feed returned %d for %s", resp.StatusCode, commodity)
	}

	var body struct {
		Price  float64 `json:"price"`
		Source string  `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, "", err
	}
	if body.Price <= 0 {
		return 0, "", fmt.Errorf("price feed returned non-positive price for %s", commodity)
	}
	return body.Price, body.Source, nil
}
