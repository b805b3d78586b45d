package esappender

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/fastjson"
)

// HTTPClient indexes documents through the backend's REST API.
type HTTPClient struct {
	baseURL    string
	authHeader string
	compress   bool
	httpClient *http.Client
	closed     atomic.Bool
}

// NewHTTPClient creates a new HTTP client from config. No request is made
// until the first Index call.
func NewHTTPClient(cfg *Config) *HTTPClient {
	c := &HTTPClient{
		baseURL:  cfg.BaseURL(),
		compress: cfg.Compress,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}

	if cfg.User != "" {
		authStr := base64.StdEncoding.EncodeToString(
			[]byte(cfg.User + ":" + cfg.Password),
		)
		c.authHeader = "Basic " + authStr
	}

	return c
}

// defaultDocType is used in the document path when no type is configured.
const defaultDocType = "_doc"

// Index sends a document to the backend with PUT /{index}/{type}/{id}.
func (c *HTTPClient) Index(ctx context.Context, index, docType, id string, doc Document) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	body, err := c.encode(doc)
	if err != nil {
		return err
	}

	if docType == "" {
		docType = defaultDocType
	}
	reqURL := fmt.Sprintf("%s/%s/%s/%s", c.baseURL,
		url.PathEscape(index), url.PathEscape(docType), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(body))
	if err != nil {
		return NewConnectionError("failed to create request", err)
	}

	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.compress {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewConnectionError(fmt.Sprintf("cannot connect to backend at %s", c.baseURL), err)
	}
	defer resp.Body.Close()

	// Read body for error messages
	respBody, _ := io.ReadAll(resp.Body)

	return statusError(resp.StatusCode, index, respBody)
}

// Shutdown closes idle connections. Later Index calls fail with
// ErrClientClosed.
func (c *HTTPClient) Shutdown() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) encode(doc Document) ([]byte, error) {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if !c.compress {
		return jsonData, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(jsonData); err != nil {
		return nil, fmt.Errorf("failed to compress document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress document: %w", err)
	}
	return buf.Bytes(), nil
}

// statusError maps a backend response status to an error. Success statuses
// return nil.
func statusError(status int, index string, body []byte) error {
	switch status {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusUnauthorized:
		return NewAuthError("authentication failed (HTTP 401)")
	case http.StatusNotFound:
		return NewIndexNotFoundError(index)
	case http.StatusBadRequest:
		return NewQueryError(fmt.Sprintf("bad request: %s", errorReason(body)))
	default:
		return NewConnectionError(
			fmt.Sprintf("unexpected status %d: %s", status, errorReason(body)),
			nil,
		)
	}
}

// errorReason extracts error.reason from a backend error body, falling back
// to the raw body.
func errorReason(body []byte) string {
	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return string(body)
	}
	if reason := v.GetStringBytes("error", "reason"); len(reason) > 0 {
		return string(reason)
	}
	if reason := v.GetStringBytes("error"); len(reason) > 0 {
		return string(reason)
	}
	return string(body)
}
