package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus is the derived lifecycle state of a voucher.
type VoucherStatus string

const (
	StatusActive    VoucherStatus = "active"
	StatusExpired   VoucherStatus = "expired"
	StatusUsed      VoucherStatus = "used"
	StatusCancelled VoucherStatus = "cancelled"
)

// VoucherDocument is the locally persisted aggregate mirroring one remote
// gift card. The remote ledger stays authoritative for balance; this document
// is a denormalized, eventually-synced cache of history.
//
// Date fields arriving from the document store are ISO-8601 strings and are
// passed through untouched; only transaction timestamps are parsed, at the
// normalization boundary.
type VoucherDocument struct {
	ID             string          `json:"id"`
	NativeID       string          `json:"nativeId"`
	AuthorEmail    string          `json:"authorEmail,omitempty"`
	CreatedAt      string          `json:"createdAt,omitempty"`
	OwnerCpf       string          `json:"ownerCpf,omitempty"`
	OwnerEmail     string          `json:"ownerEmail,omitempty"`
	OwnerName      string          `json:"ownerName,omitempty"`
	InitialValue   decimal.Decimal `json:"initialValue"`
	ExpirationDate string          `json:"expirationDate,omitempty"`
	IsReloadable   bool            `json:"isReloadable"`
	LastSyncedAt   string          `json:"lastSyncedAt,omitempty"`
	Transactions   json.RawMessage `json:"transactions,omitempty"`
}

// ParseTransactions decodes the transactions blob of a voucher document.
// Depending on the document-store schema the blob is either a JSON array or
// that same array pre-serialized into a single JSON string; both forms are
// accepted. An absent blob yields an empty list.
func ParseTransactions(raw json.RawMessage) ([]TransactionRecord, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []TransactionRecord{}, nil
	}

	payload := raw
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("transactions blob is not a valid JSON string: %w", err)
		}
		if s == "" {
			return []TransactionRecord{}, nil
		}
		payload = []byte(s)
	}

	var records []TransactionRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("failed to decode transactions blob: %w", err)
	}
	return records, nil
}

// EncodeTransactions serializes a transaction list to the single-string form
// accepted by every document-store schema variant.
func EncodeTransactions(records []TransactionRecord) (string, error) {
	if records == nil {
		records = []TransactionRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode transactions: %w", err)
	}
	return string(b), nil
}

// ParseExpiration parses an ISO-8601 expiration date. A missing or
// unparseable date yields the zero time, which status derivation treats as
// "never expires".
func ParseExpiration(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
