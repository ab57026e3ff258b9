package remote

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"resty.dev/v3"

	"github.com/ekoshkin/recallbox/internal/common"
)

// HTTPStore implements Store over the recallbox-server JSON API.
type HTTPStore struct {
	httpClient *resty.Client
}

// NewHTTPStore builds a client for the given base URL. Every call carries
// the given per-request timeout; a timed-out item is treated as pending and
// retried on the next sync cycle.
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	return &HTTPStore{httpClient: client}
}

func (s *HTTPStore) Close() error {
	return s.httpClient.Close()
}

// mapError folds transport failures and retryable statuses into
// common.ErrUnavailable.
func (s *HTTPStore) mapError(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	code := resp.StatusCode()
	if code >= http.StatusInternalServerError || code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", common.ErrUnavailable, code)
	}
	if resp.IsError() {
		return fmt.Errorf("remote store error: status %d", code)
	}
	return nil
}

func (s *HTTPStore) Upsert(ctx context.Context, row Row) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(row).
		Put("/api/records")
	return s.mapError(resp, err)
}

type selectResponse struct {
	Records []Row `json:"records"`
}

func (s *HTTPStore) SelectSince(ctx context.Context, cursor int64) ([]Row, error) {
	var out selectResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("since", strconv.FormatInt(cursor, 10)).
		SetResult(&out).
		Get("/api/records")
	if err := s.mapError(resp, err); err != nil {
		return nil, err
	}
	return out.Records, nil
}

func (s *HTTPStore) DeleteByID(ctx context.Context, id string) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		Delete("/api/records/" + id)
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		// already gone
		return nil
	}
	return s.mapError(resp, err)
}

func (s *HTTPStore) Ping(ctx context.Context) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get("/api/ping")
	return s.mapError(resp, err)
}
