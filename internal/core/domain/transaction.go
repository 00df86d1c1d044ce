package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the direction of a gift-card ledger movement.
type Operation string

const (
	Credit Operation = "Credit"
	Debit  Operation = "Debit"
)

// TransactionSource tags locally stored records with their provenance.
const TransactionSourceNativeAPI = "native-api"

// MetadataNativeTransactionID is the metadata key holding the raw id the
// remote ledger assigned to a transaction, as observed at normalization time.
const MetadataNativeTransactionID = "nativeTransactionId"

// TransactionRecord is the canonical, locally persisted form of one ledger
// transaction. Records are unique by ID within a voucher and are kept sorted
// ascending by CreatedAt.
type TransactionRecord struct {
	ID           string            `json:"id"`
	Operation    Operation         `json:"operation"`
	Value        decimal.Decimal   `json:"value"`
	BalanceAfter decimal.Decimal   `json:"balanceAfter"`
	Description  string            `json:"description"`
	OrderID      string            `json:"orderId,omitempty"`
	OrderNumber  string            `json:"orderNumber,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	CreatedBy    string            `json:"createdBy,omitempty"`
	Source       string            `json:"source"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// VoucherStats is derived from a transaction list and never persisted.
type VoucherStats struct {
	TotalCredited       decimal.Decimal `json:"totalCredited"`
	TotalDebited        decimal.Decimal `json:"totalDebited"`
	TransactionCount    int             `json:"transactionCount"`
	LastTransactionDate *time.Time      `json:"lastTransactionDate,omitempty"`
}
