package domain

import "github.com/shopspring/decimal"

// RemoteCard is the gift card as owned by the remote ledger. Balance here is
// authoritative; the local VoucherDocument never overrides it.
type RemoteCard struct {
	ID              string          `json:"id"`
	RedemptionCode  string          `json:"redemptionCode"`
	RedemptionToken string          `json:"redemptionToken"`
	Balance         decimal.Decimal `json:"balance"`
	EmissionDate    string          `json:"emissionDate,omitempty"`
	ExpiringDate    string          `json:"expiringDate,omitempty"`
	CurrencyCode    string          `json:"currencyCode,omitempty"`
	RelationName    string          `json:"relationName,omitempty"`
	Caption         string          `json:"caption,omitempty"`
}

// RawTransaction is a transaction exactly as the remote ledger returns it,
// before normalization. The timestamp arrives in either the date or the
// createdAt field depending on the endpoint.
type RawTransaction struct {
	ID          string          `json:"id"`
	Operation   Operation       `json:"operation"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	Date        string          `json:"date,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
}

// CreateCardPayload is the card-creation request accepted by the remote ledger.
type CreateCardPayload struct {
	RelationName        string `json:"relationName"`
	ExpiringDate        string `json:"expiringDate"`
	Caption             string `json:"caption"`
	ProfileID           string `json:"profileId"`
	RestrictedToOwner   bool   `json:"restrictedToOwner"`
	CurrencyCode        string `json:"currencyCode"`
	MultipleCredits     bool   `json:"multipleCredits"`
	MultipleRedemptions bool   `json:"multipleRedemptions"`
}

// CreateTransactionPayload is the credit/debit request accepted by the remote
// ledger. RequestID acts as an idempotency key and must be unique per call.
type CreateTransactionPayload struct {
	Operation       Operation       `json:"operation"`
	Value           decimal.Decimal `json:"value"`
	Description     string          `json:"description"`
	RedemptionToken string          `json:"redemptionToken,omitempty"`
	RedemptionCode  string          `json:"redemptionCode,omitempty"`
	RequestID       string          `json:"requestId,omitempty"`
}

// ClientProfile is the platform client record, read-only from this system's
// perspective. Document holds the CPF.
type ClientProfile struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Document  string `json:"document"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
