package plan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ScoringServiceURL derives the scoring service base URL (scheme and host) from the routing
// service URL.
func ScoringServiceURL(serviceURL string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("parse service url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("service url %q has no scheme or host", serviceURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// FeedbackClient reports trip scores to the scoring service.
type FeedbackClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewFeedbackClient(baseURL string, httpClient *http.Client, log *zap.Logger) *FeedbackClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedbackClient{baseURL: baseURL, httpClient: httpClient, log: log.Named("feedback")}
}

// ScoreURL returns the request URL for a score of the given trip.
func (c *FeedbackClient) ScoreURL(tripID string, good bool) string {
	score := "0"
	if good {
		score = "1"
	}
	q := url.Values{}
	q.Set("trip_id", tripID)
	q.Set("score", score)
	return c.baseURL + "/ev/route/score?" + q.Encode()
}

// Submit posts the score of a trip.
func (c *FeedbackClient) Submit(ctx context.Context, tripID string, good bool) error {
	scoreURL := c.ScoreURL(tripID, good)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, scoreURL, nil)
	if err != nil {
		return fmt.Errorf("build score request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post score: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post score: scoring service returned HTTP %d", resp.StatusCode)
	}

	c.log.Debug("score submitted", zap.String("trip_id", tripID), zap.Bool("good", good))
	return nil
}
