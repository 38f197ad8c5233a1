package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"buildmart-gateway/internal/logger"
	"buildmart-gateway/internal/metrics"

	"go.uber.org/zap"
)

const ContentTypeJSON = "application/json"

// Request describes one call relayed to the catalog backend.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Body          []byte
	ContentType   string
	Authorization string
}

type Response struct {
	Status int
	Body   []byte
}

// Client talks to the upstream catalog REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	stats      metrics.Upstream
}

// ----------------- Constructor -----------------

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		logger.L().Warn("upstream base URL is empty")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Stats reports call counters since the client was created.
func (c *Client) Stats() metrics.UpstreamSnapshot {
	return c.stats.Snapshot()
}

// ----------------- Do -----------------

// Do sends req upstream. Any non-2xx status is returned as *Error with the
// parsed body attached; transport failures are returned wrapped.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	log := logger.FromCtx(ctx).With(
		zap.String("upstream_method", req.Method),
		zap.String("upstream_path", req.Path),
	)

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		log.Error("Failed creating upstream request", zap.Error(err))
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	switch {
	case req.ContentType != "":
		httpReq.Header.Set("Content-Type", req.ContentType)
	case req.Method == http.MethodGet:
		httpReq.Header.Set("Content-Type", ContentTypeJSON)
	}
	httpReq.Header.Set("Accept", ContentTypeJSON)
	if strings.TrimSpace(req.Authorization) != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		httpReq.Header.Set(logger.RequestIDHeader, reqID)
	}

	c.stats.Requests.Inc()
	timer := metrics.StartTimer()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.stats.TransportFails.Inc()
		log.Error("Upstream request failed", zap.Error(err))
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read upstream response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	log.Debug("Upstream responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", timer.Duration()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.stats.ErrorResponses.Inc()
		log.Warn("Upstream returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, newError(resp.StatusCode, ParseBody(bodyBytes))
	}

	return &Response{Status: resp.StatusCode, Body: bodyBytes}, nil
}
