package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"portablesource/pkg/log"
	"portablesource/pkg/metrics"
	"portablesource/pkg/models"
)

const maxBodySize = 8 << 20

var errAuthorityDown = errors.New("plan authority marked unavailable")

// Config configures the plan authority client.
type Config struct {
	// BaseURL is the scheme and host of the authority, e.g. https://portables.dev.
	BaseURL string
	// Timeout bounds every request.
	Timeout time.Duration
	// RatePerSecond limits requests. Zero means unlimited.
	RatePerSecond float64
}

// Client talks to the plan authority over HTTP. Every failure degrades to an
// absent result. After a transport failure or a server error the client
// treats the authority as down for the rest of the process; a 404 never
// does that.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics

	mu   sync.Mutex
	down bool
}

// New creates a client from cfg.
func New(cfg *Config, m *metrics.Metrics) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		metrics: m,
	}
}

// IsAvailable reports whether the authority answers its repository index.
func (c *Client) IsAvailable(ctx context.Context) bool {
	status, _, err := c.do(ctx, http.MethodGet, "/api/repositories", nil)
	if err != nil {
		log.GetLogger(ctx).WithError(err).Debug("plan authority unavailable")
		c.metrics.AuthorityRequest("index", string(models.FetchUnavailable))

		return false
	}

	c.metrics.AuthorityRequest("index", fmt.Sprintf("%d", status))

	return status == http.StatusOK
}

// TryFetch implements ports.PlanAuthorityClient.
func (c *Client) TryFetch(ctx context.Context, repoName string) (*models.RemotePlan, models.FetchOutcome) {
	logger := log.GetLogger(ctx).WithField("repo", repoName)

	plan, outcome := c.fetchPlan(ctx, repoName)
	c.metrics.AuthorityRequest("install-plan", string(outcome))

	switch outcome {
	case models.FetchFound:
		logger.WithField("steps", len(plan.Steps)).Info("using installation plan from server")
	case models.FetchNotFound:
		logger.Debug("server has no installation plan")
	}

	return plan, outcome
}

func (c *Client) fetchPlan(ctx context.Context, repoName string) (*models.RemotePlan, models.FetchOutcome) {
	logger := log.GetLogger(ctx).WithField("repo", repoName)

	status, body, err := c.do(ctx, http.MethodGet, repoPath(repoName, "install-plan"), nil)
	switch {
	case err != nil:
		logger.WithError(err).Warn("plan authority unreachable, falling back to local plan")

		return nil, models.FetchUnavailable
	case status == http.StatusNotFound:
		return nil, models.FetchNotFound
	case status != http.StatusOK:
		logger.WithField("status", status).Warn("plan authority returned unexpected status, falling back to local plan")

		return nil, models.FetchUnavailable
	}

	plan, err := DecodePlan(body)
	if err != nil {
		logger.WithError(err).Warn("malformed installation plan, falling back to local plan")

		return nil, models.FetchMalformed
	}

	return plan, models.FetchFound
}

// RepositoryInfo implements ports.PlanAuthorityClient.
func (c *Client) RepositoryInfo(ctx context.Context, repoName string) (*models.RepositoryDescriptor, bool) {
	logger := log.GetLogger(ctx).WithField("repo", repoName)

	status, body, err := c.do(ctx, http.MethodGet, repoPath(repoName, ""), nil)
	switch {
	case err != nil:
		logger.WithError(err).Warn("plan authority unreachable")
		c.metrics.AuthorityRequest("repository", string(models.FetchUnavailable))

		return nil, false
	case status == http.StatusNotFound:
		logger.Debug("repository not found on server")
		c.metrics.AuthorityRequest("repository", string(models.FetchNotFound))

		return nil, false
	case status != http.StatusOK:
		logger.WithField("status", status).Warn("plan authority returned unexpected status")
		c.metrics.AuthorityRequest("repository", string(models.FetchUnavailable))

		return nil, false
	}

	descriptor, err := DecodeRepository(body)
	if err != nil {
		logger.WithError(err).Warn("malformed repository info")
		c.metrics.AuthorityRequest("repository", string(models.FetchMalformed))

		return nil, false
	}

	c.metrics.AuthorityRequest("repository", string(models.FetchFound))

	if descriptor.Name == "" {
		descriptor.Name = strings.ToLower(repoName)
	}

	return descriptor, true
}

// Search implements ports.PlanAuthorityClient.
func (c *Client) Search(ctx context.Context, query string) []models.RepositoryDescriptor {
	logger := log.GetLogger(ctx).WithField("query", query)

	status, body, err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil)
	if err != nil || status != http.StatusOK {
		logger.WithError(err).WithField("status", status).Warn("repository search failed")
		c.metrics.AuthorityRequest("search", string(models.FetchUnavailable))

		return nil
	}

	results, err := DecodeSearch(body)
	if err != nil {
		logger.WithError(err).Warn("malformed search response")
		c.metrics.AuthorityRequest("search", string(models.FetchMalformed))

		return nil
	}

	c.metrics.AuthorityRequest("search", string(models.FetchFound))

	return results
}

type downloadStats struct {
	RepositoryName string  `json:"repository_name"`
	Success        bool    `json:"success"`
	Timestamp      *string `json:"timestamp"`
}

// ReportDownload implements ports.PlanAuthorityClient. Failures are logged only.
func (c *Client) ReportDownload(ctx context.Context, repoName string) {
	logger := log.GetLogger(ctx).WithField("repo", repoName)

	payload, err := json.Marshal(downloadStats{RepositoryName: strings.ToLower(repoName), Success: true})
	if err != nil {
		return
	}

	status, _, err := c.do(ctx, http.MethodPost, repoPath(repoName, "download"), payload)
	if err != nil || status != http.StatusOK {
		logger.WithError(err).WithField("status", status).Debug("download stats not recorded")
		c.metrics.AuthorityRequest("download", string(models.FetchUnavailable))

		return
	}

	c.metrics.AuthorityRequest("download", string(models.FetchFound))
}

func (c *Client) isDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.down
}

func (c *Client) markDown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.down = true
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	if c.isDown() {
		return 0, nil, errAuthorityDown
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.markDown()

		return 0, nil, fmt.Errorf("requesting %s: %w", path, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.markDown()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response of %s: %w", path, err)
	}

	return resp.StatusCode, data, nil
}

func repoPath(repoName, suffix string) string {
	path := "/api/repositories/" + url.PathEscape(strings.ToLower(repoName))
	if suffix != "" {
		path += "/" + suffix
	}

	return path
}
