package clients

import (
	"context"

	"github.com/beightone/marykay.giftcard-management/internal/core/domain"
)

// GiftCardClient is the contract for the platform's native gift-card API, the
// authoritative ledger for balances and transactions.
type GiftCardClient interface {
	CreateCard(ctx context.Context, payload domain.CreateCardPayload) (*domain.RemoteCard, error)
	GetCard(ctx context.Context, cardID string) (*domain.RemoteCard, error)
	CreateTransaction(ctx context.Context, cardID string, payload domain.CreateTransactionPayload) (*domain.RawTransaction, error)
	GetTransactions(ctx context.Context, cardID string) ([]domain.RawTransaction, error)
}
