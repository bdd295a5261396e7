// Package marketplace talks to the marketplace API that owns orders.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	viewerHeader      = "X-User-ID"
	idempotencyHeader = "Idempotency-Key"
	maxRetryAfter     = 10 * time.Second
)

// APIError is a non-2xx answer from the marketplace. Message is what the
// marketplace said and is safe to show to the buyer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL, apiKey string, logger *zap.SugaredLogger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// payload is a request body that can be sent more than once.
type payload struct {
	data        []byte
	contentType string
}

func jsonPayload(v any) (*payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &payload{data: data, contentType: "application/json"}, nil
}

func (c *Client) GetOrder(ctx context.Context, viewerID, orderID string) (*model.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, viewerID, http.MethodGet, orderPath(orderID), nil, &raw); err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}

	var order model.Order
	if err := decodeEnvelope(raw, "order", &order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	if order.ID == "" {
		order.ID = orderID
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, viewerID string) ([]model.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, viewerID, http.MethodGet, "/api/orders", nil, &raw); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var orders []model.Order
	if err := decodeEnvelope(raw, "orders", &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// decodeEnvelope accepts both a bare value and {"<key>": value}.
func decodeEnvelope(raw json.RawMessage, key string, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errors.New("empty response")
	}
	if raw[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err == nil {
			if inner, ok := env[key]; ok {
				raw = inner
			}
		}
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) mutate(ctx context.Context, viewerID, method, path string, body any) error {
	var p *payload
	if body != nil {
		var err error
		if p, err = jsonPayload(body); err != nil {
			return err
		}
	}
	return c.do(ctx, viewerID, method, path, p, nil)
}

func (c *Client) CancelOrder(ctx context.Context, viewerID, orderID string, req model.CancelRequest) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/cancel", req)
}

func (c *Client) RequestCancellation(ctx context.Context, viewerID, orderID string, req model.CancelRequest) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/cancellation-request", req)
}

func (c *Client) RespondCancellation(ctx context.Context, viewerID, orderID string, resp model.CancellationResponse) error {
	body := struct {
		Action string `json:"action"`
		Reason string `json:"reason,omitempty"`
	}{Action: "reject", Reason: resp.Reason}
	if resp.Approve {
		body.Action = "approve"
	}
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/cancellation-request/respond", body)
}

func (c *Client) WithdrawCancellation(ctx context.Context, viewerID, orderID string) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/cancellation-request/withdraw", nil)
}

func (c *Client) RequestRevision(ctx context.Context, viewerID, orderID string, req model.RevisionRequestInput) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/revision-request", req)
}

func (c *Client) RespondDispute(ctx context.Context, viewerID, orderID string, resp model.DisputeResponse) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/dispute/respond", resp)
}

func (c *Client) MakeSettlementOffer(ctx context.Context, viewerID, orderID string, req model.SettlementOfferRequest) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/dispute/offer", req)
}

func (c *Client) RequestArbitration(ctx context.Context, viewerID, orderID string) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/dispute/arbitration", nil)
}

func (c *Client) CancelArbitration(ctx context.Context, viewerID, orderID string) error {
	return c.mutate(ctx, viewerID, http.MethodDelete, orderPath(orderID)+"/dispute/arbitration", nil)
}

func (c *Client) CancelDispute(ctx context.Context, viewerID, orderID string) error {
	return c.mutate(ctx, viewerID, http.MethodDelete, orderPath(orderID)+"/dispute", nil)
}

func (c *Client) AcceptDelivery(ctx context.Context, viewerID, orderID string) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/complete", nil)
}

func (c *Client) SubmitRating(ctx context.Context, viewerID, orderID string, req model.RatingRequest) error {
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/rating", req)
}

func (c *Client) RespondExtension(ctx context.Context, viewerID, orderID string, resp model.ExtensionResponse) error {
	body := struct {
		Action string `json:"action"`
	}{Action: "reject"}
	if resp.Approve {
		body.Action = "approve"
	}
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/extension-request/respond", body)
}

func (c *Client) RespondCustomOffer(ctx context.Context, viewerID, orderID string, resp model.CustomOfferResponse) error {
	body := struct {
		Action string `json:"action"`
		Reason string `json:"reason,omitempty"`
	}{Action: "reject", Reason: resp.Reason}
	if resp.Accept {
		body.Action = "accept"
	}
	return c.mutate(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/custom-offer/respond", body)
}

func orderPath(orderID string) string {
	return "/api/orders/" + url.PathEscape(orderID)
}

// do sends one request. A 429 is retried once after Retry-After. Mutations
// carry one idempotency key across both attempts.
func (c *Client) do(ctx context.Context, viewerID, method, path string, body *payload, out any) error {
	key := ""
	if method != http.MethodGet {
		key = uuid.NewString()
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, viewerID, method, path, body, key)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			wait := retryAfter(resp.Header.Get("Retry-After"))
			drain(resp)
			c.logger.Warnf("marketplace throttled %s %s, retrying in %s", method, path, wait)
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		defer drain(resp)
		return decodeResponse(resp, out)
	}
}

func (c *Client) send(ctx context.Context, viewerID, method, path string, body *payload, key string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body.data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(viewerHeader, viewerID)
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, out any) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.ErrOrderNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	case out == nil || resp.StatusCode == http.StatusNoContent:
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts {"message"} or {"error"} from an error body, falling
// back to the raw text and then to the status text.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func retryAfter(header string) time.Duration {
	sec, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || sec < 0 {
		return time.Second
	}
	if d := time.Duration(sec) * time.Second; d < maxRetryAfter {
		return d
	}
	return maxRetryAfter
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
