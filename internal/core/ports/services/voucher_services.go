package services

import (
	"context"

	"github.com/beightone/marykay.giftcard-management/internal/dto"
)

// VoucherSvcFacade is the resolver-facing contract for every voucher
// operation. Implementations orchestrate the remote ledger and the document
// store; handlers never touch either client directly.
type VoucherSvcFacade interface {
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, authorEmail string) (*dto.CreateVoucherResponse, error)
	GetVoucher(ctx context.Context, id string) (*dto.VoucherResponse, error)
	ListVouchers(ctx context.Context) ([]dto.VoucherSummaryResponse, error)
	ListVouchersByUser(ctx context.Context, req dto.VouchersByUserRequest) ([]dto.VoucherResponse, error)
	AdjustVoucherBalance(ctx context.Context, req dto.AdjustVoucherBalanceRequest, authorEmail string) (*dto.VoucherResponse, error)
	SyncVoucherHistory(ctx context.Context, nativeID string) (*dto.SyncVoucherHistoryResponse, error)
	DeleteVoucher(ctx context.Context, nativeID string) (bool, error)
	SearchClientByCpf(ctx context.Context, cpf string) ([]dto.ClientProfileResponse, error)
}

// ServiceContainer carries the service facades through route registration.
type ServiceContainer struct {
	Voucher VoucherSvcFacade
}
