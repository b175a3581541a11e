package payment

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
	"time"

	"github.com/hortsatta/dot-games-sub000/pkg/circuitbreaker"
)

// StatusError is a non-2xx answer from the payment API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("payment api returned %d: %s", e.StatusCode, e.Body)
}

type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *circuitbreaker.Breaker[*Intent]
}

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	cfg := circuitbreaker.DefaultConfig("payment-api")
	// 4xx answers are the caller's fault, the API itself is healthy.
	cfg.IsSuccessful = func(err error) bool {
		if err == nil || errors.Is(err, ErrIntentNotFound) {
			return true
		}
		var se *StatusError
		return errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: circuitbreaker.New[*Intent](cfg),
	}
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if req.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}
	return g.breaker.Execute(func() (*Intent, error) {
		return g.do(ctx, http.MethodPost, "/v1/payment_intents", req)
	})
}

func (g *HTTPGateway) UpdateIntent(ctx context.Context, ref string, amountMinor int64) (*Intent, error) {
	if amountMinor <= 0 {
		return nil, ErrInvalidAmount
	}
	body := map[string]int64{"amount": amountMinor}
	return g.breaker.Execute(func() (*Intent, error) {
		return g.do(ctx, http.MethodPost, "/v1/payment_intents/"+url.PathEscape(ref), body)
	})
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body any) (*Intent, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment api call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrIntentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	return &intent, nil
}
