package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	timeout       = time.Second * 15
	maxRetries    = 3
	retryInterval = time.Second
)

var ErrProvider = errors.New("provider rejected request")

// OrderStatus is the provider's view of a submitted order.
type OrderStatus struct {
	Charge     string `json:"charge"`
	StartCount Count  `json:"start_count"`
	Status     string `json:"status"`
	Remains    Count  `json:"remains"`
	Currency   string `json:"currency"`
	Error      string `json:"error,omitempty"`
}

// Count accepts both JSON numbers and numeric strings, providers send either.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("count %s: %w", b, err)
	}
	*c = Count(n)
	return nil
}

type addResponse struct {
	Order json.Number `json:"order"`
	Error string      `json:"error,omitempty"`
}

// ProviderClient speaks the common panel API v2 of an upstream fulfillment provider.
// Status lookups are retried; order submission is not, a repeated add would be billed twice.
type ProviderClient struct {
	client *resty.Client
	submit *resty.Client
	key    string
}

func NewProviderClient(url, key string) *ProviderClient {
	client := resty.New().
		SetBaseURL(url).
		SetTimeout(timeout).
		SetRetryCount(maxRetries).
		SetRetryWaitTime(retryInterval).
		SetRetryMaxWaitTime(maxRetries * retryInterval).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})
	submit := resty.New().
		SetBaseURL(url).
		SetTimeout(timeout)
	return &ProviderClient{
		client: client,
		submit: submit,
		key:    key,
	}
}

// SetRetryWaitTime shortens the backoff, tests use it to keep retries fast.
func (p *ProviderClient) SetRetryWaitTime(d time.Duration) {
	p.client.SetRetryWaitTime(d).SetRetryMaxWaitTime(d * maxRetries)
}

func (p *ProviderClient) call(ctx context.Context, client *resty.Client, form map[string]string, result any) error {
	form["key"] = p.key
	resp, err := client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(result).
		Post("")
	if err != nil {
		return fmt.Errorf("provider %s: %w", form["action"], err)
	}
	if resp.IsError() {
		return fmt.Errorf("provider %s: unexpected status %d", form["action"], resp.StatusCode())
	}
	return nil
}

// AddOrder submits an order and returns the provider's order id.
func (p *ProviderClient) AddOrder(ctx context.Context, serviceID int, link string, quantity int) (string, error) {
	var out addResponse
	err := p.call(ctx, p.submit, map[string]string{
		"action":   "add",
		"service":  strconv.Itoa(serviceID),
		"link":     link,
		"quantity": strconv.Itoa(quantity),
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrProvider, out.Error)
	}
	if out.Order == "" {
		return "", fmt.Errorf("%w: empty order id", ErrProvider)
	}
	return out.Order.String(), nil
}

func (p *ProviderClient) Status(ctx context.Context, externalID string) (*OrderStatus, error) {
	var out OrderStatus
	err := p.call(ctx, p.client, map[string]string{
		"action": "status",
		"order":  externalID,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProvider, out.Error)
	}
	return &out, nil
}
