// Package ipfs is a thin client for the HTTP API of a local IPFS node (kubo).
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	apiURL     string
	gatewayURL string
	httpClient *http.Client
}

// AddResult is the node's response to an add request.
type AddResult struct {
	Name string
	CID  string
	Size int64
}

func NewClient(apiURL, gatewayURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Add uploads the content read from r under the given filename and returns
// the resulting CID.
func (c *Client) Add(ctx context.Context, filename string, r io.Reader) (*AddResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v0/add", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ipfs add request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("add", resp)
	}

	// kubo returns Size as a JSON string
	var raw struct {
		Name string `json:"Name"`
		Hash string `json:"Hash"`
		Size string `json:"Size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode ipfs add response: %w", err)
	}
	size, _ := strconv.ParseInt(raw.Size, 10, 64)

	return &AddResult{Name: raw.Name, CID: raw.Hash, Size: size}, nil
}

// Cat streams the content behind a CID. The caller must close the reader.
func (c *Client) Cat(ctx context.Context, cid string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/api/v0/cat?arg=%s", c.apiURL, cid)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ipfs cat request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.apiError("cat", resp)
	}
	return resp.Body, nil
}

// Version probes the node and returns its version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v0/version", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ipfs version request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError("version", resp)
	}

	var raw struct {
		Version string `json:"Version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("failed to decode ipfs version response: %w", err)
	}
	return raw.Version, nil
}

// GatewayURL builds the public gateway URL for a CID.
func (c *Client) GatewayURL(cid string) string {
	return c.gatewayURL + cid
}

func (c *Client) apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	// kubo error payloads are {"Message": "...", "Code": n}
	var raw struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal(body, &raw); err == nil && raw.Message != "" {
		return fmt.Errorf("ipfs %s failed: %s", op, raw.Message)
	}
	return fmt.Errorf("ipfs %s failed: status %d", op, resp.StatusCode)
}
