// Package masterdata implements the document-store client against the
// platform's data-entities HTTP API.
package masterdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/beightone/marykay.giftcard-management/internal/apperrors"
	portsclients "github.com/beightone/marykay.giftcard-management/internal/core/ports/clients"
)

// Client talks to the platform document store. Documents are addressed by
// entity name; search supports field projection, a where clause and
// range-header pagination.
type Client struct {
	http *resty.Client
}

// NewClient builds a document-store client authenticated with the admin user
// token.
func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/vnd.vtex.ds.v10+json").
		SetHeader("VtexIdclientAutCookie", authToken)

	return &Client{http: httpClient}
}

var _ portsclients.DocumentStore = (*Client)(nil)

func (c *Client) SearchDocuments(ctx context.Context, params portsclients.SearchParams, out any) error {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	from := (page - 1) * pageSize
	to := from + pageSize - 1

	req := c.http.R().
		SetContext(ctx).
		SetPathParam("entity", params.Entity).
		SetHeader("REST-Range", fmt.Sprintf("resources=%d-%d", from, to)).
		SetQueryParam("_fields", strings.Join(params.Fields, ",")).
		SetResult(out)
	if params.Where != "" {
		req.SetQueryParam("_where", params.Where)
	}
	if params.Schema != "" {
		req.SetQueryParam("_schema", params.Schema)
	}

	resp, err := req.Get("/api/dataentities/{entity}/search")
	if err != nil {
		return transportError("search documents", err)
	}
	if resp.IsError() {
		return apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return nil
}

// createDocumentResponse is the envelope the store returns on creation.
type createDocumentResponse struct {
	ID         string `json:"Id"`
	Href       string `json:"Href"`
	DocumentID string `json:"DocumentId"`
}

func (c *Client) CreateDocument(ctx context.Context, entity string, fields any) (string, error) {
	var created createDocumentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("entity", entity).
		SetBody(fields).
		SetResult(&created).
		Post("/api/dataentities/{entity}/documents")
	if err != nil {
		return "", transportError("create document", err)
	}
	if resp.IsError() {
		return "", apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	if created.DocumentID != "" {
		return created.DocumentID, nil
	}
	return created.ID, nil
}

func (c *Client) UpdateDocument(ctx context.Context, entity, schema, id string, fields any) error {
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("entity", entity).
		SetPathParam("id", id).
		SetBody(fields)
	if schema != "" {
		req.SetQueryParam("_schema", schema)
	}

	resp, err := req.Put("/api/dataentities/{entity}/documents/{id}")
	if err != nil {
		return transportError("update document", err)
	}
	if resp.IsError() {
		return apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return nil
}

func (c *Client) UpdatePartialDocument(ctx context.Context, entity, schema, id string, fields any) error {
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("entity", entity).
		SetPathParam("id", id).
		SetBody(fields)
	if schema != "" {
		req.SetQueryParam("_schema", schema)
	}

	resp, err := req.Patch("/api/dataentities/{entity}/documents/{id}")
	if err != nil {
		return transportError("partially update document", err)
	}
	switch resp.StatusCode() {
	case http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return apperrors.ErrPartialUpdateUnsupported
	}
	if resp.IsError() {
		return apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return nil
}

func (c *Client) DeleteDocument(ctx context.Context, entity, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("entity", entity).
		SetPathParam("id", id).
		Delete("/api/dataentities/{entity}/documents/{id}")
	if err != nil {
		return transportError("delete document", err)
	}
	if resp.IsError() {
		return apperrors.NewUpstreamError(resp.StatusCode(), resp.Body())
	}
	return nil
}

func transportError(op string, err error) error {
	return &apperrors.UpstreamError{Message: fmt.Sprintf("%s: %v", op, err)}
}
