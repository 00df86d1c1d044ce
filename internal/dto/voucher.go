package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/beightone/marykay.giftcard-management/internal/core/domain"
)

// CreateVoucherRequest is the createVoucher mutation input. OwnerCpf is
// validated in the service layer (the remote ledger requires a resolvable
// profile) so the error can name the CPF.
type CreateVoucherRequest struct {
	InitialValue        decimal.Decimal `json:"initialValue" binding:"required"`
	ExpirationDate      string          `json:"expirationDate" binding:"required"`
	OwnerCpf            string          `json:"ownerCpf"`
	Caption             string          `json:"caption"`
	RelationName        string          `json:"relationName" binding:"required"`
	IsReloadable        *bool           `json:"isReloadable"`
	MultipleRedemptions *bool           `json:"multipleRedemptions"`
	CurrencyCode        string          `json:"currencyCode"`
}

// CreateVoucherResponse is the trimmed voucher shape returned right after
// creation, before any history has been synced.
type CreateVoucherResponse struct {
	ID             string          `json:"id"`
	NativeID       string          `json:"nativeId"`
	Code           string          `json:"code"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	AuthorEmail    string          `json:"authorEmail"`
	OwnerCpf       string          `json:"ownerCpf"`
	InitialValue   decimal.Decimal `json:"initialValue"`
	ExpirationDate string          `json:"expirationDate"`
	IsReloadable   bool            `json:"isReloadable"`
	Status         domain.VoucherStatus `json:"status"`
}

// AdjustVoucherBalanceRequest is the adjustVoucherBalance mutation input.
// The sign of Value selects the operation (positive credits, negative
// debits); the magnitude is the transaction amount.
type AdjustVoucherBalanceRequest struct {
	NativeID    string          `json:"nativeId" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Description string          `json:"description"`
}

// SyncVoucherHistoryRequest identifies the voucher whose remote history
// should be pulled and merged.
type SyncVoucherHistoryRequest struct {
	NativeID string `json:"nativeId" form:"nativeId" binding:"required"`
}

// SyncVoucherHistoryResponse reports how much of the remote history was new.
type SyncVoucherHistoryResponse struct {
	Success            bool `json:"success"`
	TransactionsSynced int  `json:"transactionsSynced"`
	TotalTransactions  int  `json:"totalTransactions"`
}

// DeleteVoucherRequest identifies the local voucher document to remove. The
// remote card is left untouched.
type DeleteVoucherRequest struct {
	NativeID string `json:"nativeId" form:"nativeId" binding:"required"`
}

// GetVoucherRequest accepts either the native ledger id or the local
// document id.
type GetVoucherRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// VouchersByUserRequest accepts a platform user id or a CPF; at least one is
// required (validated in the service).
type VouchersByUserRequest struct {
	UserID string `json:"userId" form:"userId"`
	Cpf    string `json:"cpf" form:"cpf" binding:"omitempty,cpf"`
}

// VoucherResponse is the externally visible voucher shape, composed from the
// remote card (when reachable), the local document and the merged history.
type VoucherResponse struct {
	ID                  string                     `json:"id"`
	NativeID            string                     `json:"nativeId"`
	Code                string                     `json:"code"`
	CurrentBalance      decimal.Decimal            `json:"currentBalance"`
	AuthorEmail         string                     `json:"authorEmail"`
	CreatedAt           string                     `json:"createdAt"`
	OwnerCpf            string                     `json:"ownerCpf"`
	OwnerEmail          string                     `json:"ownerEmail"`
	OwnerName           string                     `json:"ownerName"`
	InitialValue        decimal.Decimal            `json:"initialValue"`
	ExpirationDate      string                     `json:"expirationDate"`
	IsReloadable        bool                       `json:"isReloadable"`
	Caption             string                     `json:"caption"`
	Status              domain.VoucherStatus       `json:"status"`
	LastTransactionDate *time.Time                 `json:"lastTransactionDate"`
	TotalCredited       decimal.Decimal            `json:"totalCredited"`
	TotalDebited        decimal.Decimal            `json:"totalDebited"`
	TransactionCount    int                        `json:"transactionCount"`
	Transactions        []domain.TransactionRecord `json:"transactions"`
	OrderIDs            []string                   `json:"orderIds"`
}

// VoucherSummaryResponse is the lighter row shape used by the all-vouchers
// listing; the redemption code is masked there.
type VoucherSummaryResponse struct {
	ID               string               `json:"id"`
	NativeID         string               `json:"nativeId"`
	Code             string               `json:"code"`
	CurrentBalance   decimal.Decimal      `json:"currentBalance"`
	AuthorEmail      string               `json:"authorEmail"`
	CreatedAt        string               `json:"createdAt"`
	OwnerCpf         string               `json:"ownerCpf"`
	OwnerName        string               `json:"ownerName"`
	InitialValue     decimal.Decimal      `json:"initialValue"`
	ExpirationDate   string               `json:"expirationDate"`
	IsReloadable     bool                 `json:"isReloadable"`
	Status           domain.VoucherStatus `json:"status"`
	TotalCredited    decimal.Decimal      `json:"totalCredited"`
	TotalDebited     decimal.Decimal      `json:"totalDebited"`
	TransactionCount int                  `json:"transactionCount"`
}
