// Package subscriberapi — клиент удалённого сервиса подписок.
package subscriberapi

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

	"github.com/magabrotheeeer/subscribers-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/subscribers-admin/internal/models"
)

// CredentialHeader — заголовок, в котором сервис ждёт пароль менеджера.
const CredentialHeader = "access-password"

// maxErrorBody ограничивает размер тела ошибки, которое сохраняется для диагностики.
const maxErrorBody = 64 << 10

// Client обращается к сервису подписок.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент для сервиса по адресу apiURL.
// Нулевой timeout оставляет таймаут на усмотрение http.Client.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, cred Credential, body any) (*http.Request, error) {
	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildRequest, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildRequest, err)
	}
	req.Header.Set(CredentialHeader, string(cred))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do отправляет запрос и разбирает успешный ответ в out.
func (c *Client) do(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(op, metrics.OutcomeNoResponse).Inc()
		return fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.APIRequests.WithLabelValues(op, metrics.OutcomeStatus).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       body,
			Detail:     parseDetail(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.APIRequests.WithLabelValues(op, metrics.OutcomeDecode).Inc()
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	metrics.APIRequests.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return nil
}

func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if s, ok := eb.Detail.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// ListSubscribers возвращает подписчиков. includeInactive добавляет отменённые подписки.
func (c *Client) ListSubscribers(ctx context.Context, cred Credential, includeInactive bool) ([]models.SubscriberRecord, error) {
	const op = "subscriberapi.ListSubscribers"
	query := url.Values{"include_inactive": {strconv.FormatBool(includeInactive)}}
	req, err := c.newRequest(ctx, http.MethodGet, "/subscribers", query, cred, nil)
	if err != nil {
		metrics.APIRequests.WithLabelValues("list", metrics.OutcomeBuild).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var records []models.SubscriberRecord
	if err := c.do("list", req, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

// CancelSubscription отменяет подписку по email.
func (c *Client) CancelSubscription(ctx context.Context, cred Credential, email string) (*CancelResponse, error) {
	const op = "subscriberapi.CancelSubscription"
	req, err := c.newRequest(ctx, http.MethodPost, "/subscribers/cancel", nil, cred, CancelRequest{SubscriberEmail: email})
	if err != nil {
		metrics.APIRequests.WithLabelValues("cancel", metrics.OutcomeBuild).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var resp CancelResponse
	if err := c.do("cancel", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp, nil
}

// Charge списывает amount копеек с подписчика id.
func (c *Client) Charge(ctx context.Context, cred Credential, id models.ID, amount int64) (*ChargeResponse, error) {
	const op = "subscriberapi.Charge"
	if id.IsZero() {
		metrics.APIRequests.WithLabelValues("charge", metrics.OutcomeBuild).Inc()
		return nil, fmt.Errorf("%s: %w", op, errors.Join(ErrBuildRequest, errors.New("empty subscriber id")))
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/charge/", nil, cred, ChargeRequest{SubscriberID: id, Amount: amount})
	if err != nil {
		metrics.APIRequests.WithLabelValues("charge", metrics.OutcomeBuild).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var resp ChargeResponse
	if err := c.do("charge", req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp, nil
}
