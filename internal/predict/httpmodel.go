package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPModel runs heads on an inference sidecar. Each head is served at
// POST {BaseURL}/heads/{head}; the request body is the feeds and the response
// is {"output": [...]}.
type HTTPModel struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPModel(baseURL string, client *http.Client) *HTTPModel {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPModel{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

type headResponse struct {
	Output []float64 `json:"output"`
	Error  string    `json:"error,omitempty"`
}

func (m *HTTPModel) Run(ctx context.Context, head Head, feeds Feeds) ([]float64, error) {
	body, err := json.Marshal(feeds)
	if err != nil {
		return nil, err
	}
	url := m.BaseURL + "/heads/" + string(head)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var hr headResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&hr); err != nil {
		return nil, fmt.Errorf("decode %s output (status %d): %w", head, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if hr.Error != "" {
			return nil, fmt.Errorf("%s: %s", head, hr.Error)
		}
		return nil, fmt.Errorf("%s: status %d", head, resp.StatusCode)
	}
	return hr.Output, nil
}
