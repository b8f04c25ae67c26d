package stryd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://www.stryd.com/b"
	maxRetries     = 3
	initialDelay   = 1 * time.Second
	maxDelay       = 30 * time.Second
)

// HTTPError represents a non-success response from the Stryd API
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("stryd API error (HTTP %d): %s", e.StatusCode, e.Body)
}

// IsNotFound returns true if the error is a 404 response
func IsNotFound(err error) bool {
	httpErr, ok := err.(*HTTPError)
	return ok && httpErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 response
func IsUnauthorized(err error) bool {
	httpErr, ok := err.(*HTTPError)
	return ok && httpErr.StatusCode == http.StatusUnauthorized
}

// IsTooManyRequests returns true if the error is a 429 response
func IsTooManyRequests(err error) bool {
	httpErr, ok := err.(*HTTPError)
	return ok && httpErr.StatusCode == http.StatusTooManyRequests
}

// Client is a Stryd API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	password   string
	logger     *slog.Logger

	retryDelay    time.Duration
	maxRetryDelay time.Duration

	token  string
	userID string
}

// NewClient creates a new Stryd API client
func NewClient(email, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       defaultBaseURL,
		email:         email,
		password:      password,
		logger:        logger,
		retryDelay:    initialDelay,
		maxRetryDelay: maxDelay,
	}
}

// signinResponse is the body returned by the signin endpoint
type signinResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// Authenticate signs in with the configured credentials and stores the
// session token for subsequent requests. A failure here is fatal to the
// whole run.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal signin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email/signin", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create signin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("signin failed", "error", err, "duration_ms", duration.Milliseconds())
		return fmt.Errorf("signin failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("stryd_signin", "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var signin signinResponse
	if err := json.NewDecoder(resp.Body).Decode(&signin); err != nil {
		return fmt.Errorf("failed to decode signin response: %w", err)
	}
	if signin.Token == "" {
		return fmt.Errorf("signin response missing token")
	}

	c.token = signin.Token
	c.userID = signin.ID
	return nil
}

// IsAuthenticated returns true if a session token is held
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// UserID returns the authenticated user's id, empty before Authenticate
func (c *Client) UserID() string {
	return c.userID
}

// calendarResponse wraps the activity list returned by the calendar endpoint
type calendarResponse struct {
	Activities []ActivitySummary `json:"activities"`
}

// GetCalendar fetches activity summaries for the given date range, ordered
// by start date
func (c *Client) GetCalendar(ctx context.Context, start, end time.Time) ([]ActivitySummary, error) {
	params := url.Values{
		"srtDate": {start.Format("01-02-2006")},
		"endDate": {end.Format("01-02-2006")},
		"sortBy":  {"StartDate"},
	}

	respBody, err := c.doRequest(ctx, http.MethodGet, "/api/v1/users/calendar?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}

	var calendar calendarResponse
	if err := json.Unmarshal(respBody, &calendar); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calendar: %w", err)
	}

	return calendar.Activities, nil
}

// GetActivityDetail fetches the full payload for an activity. A 404 is
// reported as (nil, nil): the activity is absent, not an error.
func (c *Client) GetActivityDetail(ctx context.Context, activityID int64) (*ActivityDetail, error) {
	path := fmt.Sprintf("/api/v1/activities/%d", activityID)

	respBody, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get activity %d: %w", activityID, err)
	}

	var detail ActivityDetail
	if err := json.Unmarshal(respBody, &detail); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activity %d: %w", activityID, err)
	}

	return &detail, nil
}

// DownloadFITFile fetches the raw FIT file blob for an activity. Naming and
// on-disk placement are the caller's concern.
func (c *Client) DownloadFITFile(ctx context.Context, activityID int64) ([]byte, error) {
	path := fmt.Sprintf("/api/v1/activities/%d/fit", activityID)

	respBody, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download FIT file for activity %d: %w", activityID, err)
	}

	return respBody, nil
}

// doRequest performs an authenticated request with retries on transient
// failures (5xx, 429). Other non-200 statuses return an *HTTPError.
func (c *Client) doRequest(ctx context.Context, method, path string) ([]byte, error) {
	if c.token == "" {
		return nil, fmt.Errorf("not authenticated")
	}

	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Info("retrying request", "attempt", attempt, "delay_ms", delay.Milliseconds())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, c.maxRetryDelay)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer: "+c.token)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			lastErr = err
			c.logger.Error("request failed", "method", method, "path", path, "error", err, "attempt", attempt)
			continue
		}

		c.logger.Debug("stryd_api_request", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read response body: %w", err)
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = &HTTPError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
			continue
		default:
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
