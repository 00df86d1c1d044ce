// Package giftcard implements the remote-ledger client against the
// platform's native gift-card HTTP API.
package giftcard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/beightone/marykay.giftcard-management/internal/apperrors"
	"github.com/beightone/marykay.giftcard-management/internal/core/domain"
	portsclients "github.com/beightone/marykay.giftcard-management/internal/core/ports/clients"
)

// Client talks to the native gift-card API. The remote ledger is the single
// source of truth for balances; no call here is ever retried automatically.
type Client struct {
	http *resty.Client
}

// NewClient builds a gift-card client. authToken is the admin user token the
// platform expects in the VtexIdclientAutCookie header; timeout bounds every
// request (15s in the reference deployment).
func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("VtexIdclientAutCookie", authToken).
		SetHeader("X-Vtex-Use-HTTPS", "true")

	return &Client{http: httpClient}
}

var _ portsclients.GiftCardClient = (*Client)(nil)

func (c *Client) CreateCard(ctx context.Context, payload domain.CreateCardPayload) (*domain.RemoteCard, error) {
	var card domain.RemoteCard
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&card).
		Post("/api/giftcards")
	if err != nil {
		return nil, transportError("create gift card", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return &card, nil
}

func (c *Client) GetCard(ctx context.Context, cardID string) (*domain.RemoteCard, error) {
	var card domain.RemoteCard
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", cardID).
		SetResult(&card).
		Get("/api/giftcards/{id}")
	if err != nil {
		return nil, transportError("get gift card", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return &card, nil
}

func (c *Client) CreateTransaction(ctx context.Context, cardID string, payload domain.CreateTransactionPayload) (*domain.RawTransaction, error) {
	var tx domain.RawTransaction
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", cardID).
		SetBody(payload).
		SetResult(&tx).
		Post("/api/giftcards/{id}/transactions")
	if err != nil {
		return nil, transportError("create gift card transaction", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return &tx, nil
}

func (c *Client) GetTransactions(ctx context.Context, cardID string) ([]domain.RawTransaction, error) {
	var txs []domain.RawTransaction
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", cardID).
		SetResult(&txs).
		Get("/api/giftcards/{id}/transactions")
	if err != nil {
		return nil, transportError("get gift card transactions", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return txs, nil
}

// transportError covers requests that never produced a response (DNS,
// connect, timeout). They look retryable to the caller but are not retried
// here.
func transportError(op string, err error) error {
	return &apperrors.UpstreamError{Message: fmt.Sprintf("%s: %v", op, err)}
}
