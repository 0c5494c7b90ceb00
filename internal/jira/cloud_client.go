package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var searchFields = []string{
	"issuetype", "summary", "description", "assignee", "reporter",
	"priority", "status", "resolution", "created", "updated", "duedate",
}

// errTransient marks a response worth retrying (429 and 5xx).
var errTransient = errors.New("transient Jira error")

// maxRetryAfter caps how long a Retry-After header may stall a fetch.
const maxRetryAfter = time.Minute

// isRetryable accepts transient responses and network failures. Request
// construction errors, bad URLs and cancellation fail on the first attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, errTransient) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryAfter reads a Retry-After header given in seconds. Dates and junk yield 0.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type cloudClient struct {
	cfg        Config
	httpClient *http.Client
	retryCfg   retry.Config
	limiter    *rate.Limiter
}

type httpResult struct {
	status int
	header http.Header
	body   []byte
}

// NewCloudClient creates a Jira Cloud client using email + API token basic auth.
func NewCloudClient(cfg Config) Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StartDateField == "" {
		cfg.StartDateField = DefaultStartDateField
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}
	return &cloudClient{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryCfg: retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.RetryDelay,
			BackoffPolicy: retry.BackoffExponential,
			IsRetryable:   isRetryable,
		},
	}
}

// throttle blocks until the limiter admits the next request or ctx is done.
func (c *cloudClient) throttle(ctx context.Context) error {
	if c.limiter.Tokens() < 1 {
		log.Debug().Dur("delay", c.cfg.RequestDelay).Msg("Throttling Jira request")
	}
	return c.limiter.Wait(ctx)
}

// get performs an authenticated GET. Transport failures, 429 and 5xx are
// retried; any other status is returned to the caller unretried.
func (c *cloudClient) get(ctx context.Context, path string, params url.Values) (*httpResult, error) {
	target := c.cfg.BaseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	// Set by a 429 carrying Retry-After; honoured before the next attempt.
	var pause time.Duration

	r := retry.New[*httpResult](c.retryCfg)
	return r.Do(ctx, func(ctx context.Context) (*httpResult, error) {
		if pause > 0 {
			log.Debug().Dur("pause", pause).Msg("Honouring Jira Retry-After")
			if err := sleepCtx(ctx, pause); err != nil {
				return nil, err
			}
			pause = 0
		}
		if err := c.throttle(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
		req.Header.Set("Accept", "application/json")

		log.Debug().Str("url", target).Msg("Jira request")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if resp.StatusCode == http.StatusTooManyRequests {
				pause = retryAfter(resp.Header)
			}
			log.Warn().Int("status", resp.StatusCode).Str("retryAfter", resp.Header.Get("Retry-After")).Msg("Jira request failed, retrying")
			return nil, fmt.Errorf("%w: status %d", errTransient, resp.StatusCode)
		}
		return &httpResult{status: resp.StatusCode, header: resp.Header, body: body}, nil
	})
}

func statusError(res *httpResult, what string) error {
	switch res.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("Jira authentication failed (%d). Please check your email and API token.", res.status)
	case http.StatusNotFound:
		return fmt.Errorf("%s not found (404)", what)
	case http.StatusBadRequest:
		return fmt.Errorf("Jira rejected the %s request (400): %s", what, truncate(string(res.body), 200))
	default:
		return fmt.Errorf("Jira API returned status %d for %s", res.status, what)
	}
}

func (c *cloudClient) TestConnection(ctx context.Context) (*User, error) {
	res, err := c.get(ctx, "/rest/api/3/myself", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Jira: %w", err)
	}
	if res.status != http.StatusOK {
		return nil, statusError(res, "current user")
	}

	var user User
	if err := json.Unmarshal(res.body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	log.Info().Str("user", user.DisplayName).Msg("Connected to Jira")
	return &user, nil
}

func (c *cloudClient) GetProjects(ctx context.Context) ([]Project, error) {
	res, err := c.get(ctx, "/rest/api/3/project", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if res.status != http.StatusOK {
		return nil, statusError(res, "project list")
	}

	var projects []Project
	if err := json.Unmarshal(res.body, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode project list: %w", err)
	}
	log.Debug().Int("count", len(projects)).Msg("Projects listed")
	return projects, nil
}

func (c *cloudClient) searchPage(ctx context.Context, jql, pageToken string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", strconv.Itoa(c.cfg.PageSize))
	params.Set("fields", strings.Join(append(append([]string{}, searchFields...), c.cfg.StartDateField), ","))
	if pageToken != "" {
		params.Set("nextPageToken", pageToken)
	}

	res, err := c.get(ctx, "/rest/api/3/search/jql", params)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if res.status != http.StatusOK {
		return nil, statusError(res, "search")
	}

	var page SearchResponse
	if err := json.Unmarshal(res.body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode Jira response: %w", err)
	}
	return &page, nil
}

// SearchAll follows nextPageToken until the last page. maxTotal <= 0 means no limit.
func (c *cloudClient) SearchAll(ctx context.Context, jql string, maxTotal int) ([]IssueDTO, error) {
	log.Info().Str("jql", jql).Msg("Requesting issues from Jira")

	var all []IssueDTO
	token := ""
	for {
		page, err := c.searchPage(ctx, jql, token)
		if err != nil {
			return nil, err
		}
		if len(page.Issues) == 0 {
			break
		}

		all = append(all, page.Issues...)
		log.Debug().Int("retrieved", len(all)).Bool("isLast", page.IsLast).Msg("Fetched page")

		if maxTotal > 0 && len(all) >= maxTotal {
			all = all[:maxTotal]
			break
		}
		if page.IsLast || page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	log.Info().Int("count", len(all)).Msg("Issues retrieved")
	return all, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
