package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pagemesh/internal/cluster"
	"pagemesh/internal/ingest"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

// PostJSON sends body as JSON to url and decodes the response into out.
// A nil out discards the response body. Any status of 300 or above is
// an error.
func PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetJSON fetches url and decodes the JSON response into out.
func GetJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Client is a typed HTTP client for a page store server. Construct
// with NewClient; the zero value has no base URL.
type Client struct {
	base string
}

// NewClient returns a client for the server at base, with or without a
// trailing slash.
func NewClient(base string) *Client {
	return &Client{base: strings.TrimRight(base, "/")}
}

// Health fetches the server liveness summary.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := GetJSON(ctx, c.base+"/health", &out)
	return out, err
}

// Nodes fetches the cluster topology.
func (c *Client) Nodes(ctx context.Context) (NodesResponse, error) {
	var out NodesResponse
	err := GetJSON(ctx, c.base+"/nodes", &out)
	return out, err
}

// AllocatePage stores data under the given page identifier. Both
// outcomes of a routed allocation come back as a result, not an error:
// 201 means allocated, 409 means the routed node was full.
func (c *Client) AllocatePage(ctx context.Context, id string, data []byte) (cluster.AllocationResult, error) {
	var res cluster.AllocationResult

	u := c.pageURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(data))
	if err != nil {
		return res, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := httpClient.Do(req)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusConflict:
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return res, err
		}
		return res, nil
	default:
		return res, fmt.Errorf("http %s: %d", u, resp.StatusCode)
	}
}

// AccessPage fetches a page's payload. A missing page reports
// cluster.ErrPageFault, matching the local access semantics.
func (c *Client) AccessPage(ctx context.Context, id string) ([]byte, error) {
	u := c.pageURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("page %q: %w", id, cluster.ErrPageFault)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %s: %d", u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Ingest submits an ordered batch of pages and returns the per-page
// outcomes.
func (c *Client) Ingest(ctx context.Context, pages ingest.Batch) (IngestResponse, error) {
	var out IngestResponse
	err := PostJSON(ctx, c.base+"/ingest", IngestRequest{Pages: pages}, &out)
	return out, err
}

// Stats fetches the cluster report.
func (c *Client) Stats(ctx context.Context) (StatsResponse, error) {
	var out StatsResponse
	err := GetJSON(ctx, c.base+"/stats", &out)
	return out, err
}

// EncryptText runs the server-side XOR transform over text.
func (c *Client) EncryptText(ctx context.Context, text string, key byte) ([]byte, error) {
	k := int(key)
	var out CipherResponse
	if err := PostJSON(ctx, c.base+"/cipher", CipherRequest{Op: "encrypt", Text: text, Key: &k}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// DecryptData reverses EncryptText with the same key.
func (c *Client) DecryptData(ctx context.Context, data []byte, key byte) (string, error) {
	k := int(key)
	var out CipherResponse
	if err := PostJSON(ctx, c.base+"/cipher", CipherRequest{Op: "decrypt", Data: data, Key: &k}, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) pageURL(id string) string {
	return fmt.Sprintf("%s/pages/%s", c.base, url.PathEscape(id))
}
