package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tidwall/gjson"
)

const DemoAPIKey = "DEMO_KEY"

type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureStatus    FailureKind = "status"
	FailureTransport FailureKind = "transport"
	FailureDecode    FailureKind = "decode"
)

// FeedError means the feed produced no usable data this cycle.
type FeedError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *FeedError) Error() string {
	if e.Kind == FailureStatus {
		return fmt.Sprintf("NEO feed returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("NEO feed %s failure: %v", e.Kind, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

type NEOClient interface {
	FetchFeed(ctx context.Context, window Window) ([]byte, error)
}

type NEOConfig struct {
	APIKey        string
	FeedURL       string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
}

type neoClient struct {
	apiKey     string
	feedURL    string
	attempts   uint
	retryDelay time.Duration
	client     *http.Client
}

func NewNEOClient(config NEOConfig) NEOClient {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = DemoAPIKey
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := config.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	return &neoClient{
		apiKey:     apiKey,
		feedURL:    config.FeedURL,
		attempts:   attempts,
		retryDelay: config.RetryDelay,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

func (c *neoClient) FetchFeed(ctx context.Context, window Window) ([]byte, error) {
	params := url.Values{}
	params.Add("start_date", window.StartString())
	params.Add("end_date", window.EndString())
	params.Add("api_key", c.apiKey)
	reqURL := c.feedURL + "?" + params.Encode()

	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = c.get(ctx, reqURL)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var feedErr *FeedError
		if errors.As(err, &feedErr) {
			return nil, feedErr
		}
		return nil, classify(err)
	}

	if !gjson.ValidBytes(body) {
		return nil, &FeedError{Kind: FailureDecode, Err: errors.New("response is not valid JSON")}
	}

	return body, nil
}

func (c *neoClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FeedError{Kind: FailureTransport, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", "neowatch/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &FeedError{Kind: FailureStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

// Only upstream 5xx are worth another attempt; a timeout already spent the budget.
func isRetryable(err error) bool {
	var feedErr *FeedError
	return errors.As(err, &feedErr) && feedErr.Kind == FailureStatus && feedErr.StatusCode >= 500
}

func classify(err error) *FeedError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FeedError{Kind: FailureTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FeedError{Kind: FailureTimeout, Err: err}
	}
	return &FeedError{Kind: FailureTransport, Err: err}
}
