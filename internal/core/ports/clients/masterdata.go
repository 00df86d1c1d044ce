package clients

import "context"

// SearchParams describes a document-store search: which entity and schema to
// query, which fields to project, an optional where clause and pagination.
type SearchParams struct {
	Entity   string
	Schema   string
	Fields   []string
	Where    string
	Page     int
	PageSize int
}

// DocumentStore is the contract for the platform document store holding the
// denormalized voucher documents and the client profile entity.
//
// UpdatePartialDocument may fail with apperrors.ErrPartialUpdateUnsupported
// on backends that only accept full document updates; callers are expected to
// fall back to UpdateDocument. Backends may also reject structured list
// fields, requiring them pre-serialized to a single text blob — that fallback
// is the caller's responsibility too, since only the caller knows which
// fields are lists.
type DocumentStore interface {
	// SearchDocuments decodes the matching documents into out, which must be
	// a pointer to a slice.
	SearchDocuments(ctx context.Context, params SearchParams, out any) error
	CreateDocument(ctx context.Context, entity string, fields any) (string, error)
	UpdateDocument(ctx context.Context, entity, schema, id string, fields any) error
	UpdatePartialDocument(ctx context.Context, entity, schema, id string, fields any) error
	DeleteDocument(ctx context.Context, entity, id string) error
}
