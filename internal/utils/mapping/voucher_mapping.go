package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/beightone/marykay.giftcard-management/internal/core/domain"
	"github.com/beightone/marykay.giftcard-management/internal/dto"
	"github.com/beightone/marykay.giftcard-management/internal/utils/reconcile"
)

// BuildVoucherResponse composes the externally visible voucher shape from
// the local document, the remote card and the merged transaction list.
// Remote balance, expiration, caption and code win when the card is
// available; when card is nil (degraded read) the local document fields are
// used and the balance reports zero.
func BuildVoucherResponse(doc domain.VoucherDocument, card *domain.RemoteCard, transactions []domain.TransactionRecord) dto.VoucherResponse {
	stats := reconcile.CalculateVoucherStats(transactions)

	currentBalance := decimal.Zero
	expirationDate := doc.ExpirationDate
	code := ""
	caption := ""
	if card != nil {
		currentBalance = card.Balance
		if card.ExpiringDate != "" {
			expirationDate = card.ExpiringDate
		}
		code = card.RedemptionCode
		caption = card.Caption
	}

	status := reconcile.CalculateStatus(
		currentBalance,
		domain.ParseExpiration(expirationDate),
		stats.TotalDebited,
		doc.InitialValue,
	)

	return dto.VoucherResponse{
		ID:                  doc.ID,
		NativeID:            doc.NativeID,
		Code:                code,
		CurrentBalance:      currentBalance,
		AuthorEmail:         doc.AuthorEmail,
		CreatedAt:           doc.CreatedAt,
		OwnerCpf:            doc.OwnerCpf,
		OwnerEmail:          doc.OwnerEmail,
		OwnerName:           doc.OwnerName,
		InitialValue:        doc.InitialValue,
		ExpirationDate:      expirationDate,
		IsReloadable:        doc.IsReloadable,
		Caption:             caption,
		Status:              status,
		LastTransactionDate: stats.LastTransactionDate,
		TotalCredited:       stats.TotalCredited,
		TotalDebited:        stats.TotalDebited,
		TransactionCount:    stats.TransactionCount,
		Transactions:        transactions,
		OrderIDs:            reconcile.ExtractOrderIDs(transactions),
	}
}

// BuildVoucherSummary is the listing-row variant of BuildVoucherResponse.
// The redemption code is masked for list views.
func BuildVoucherSummary(doc domain.VoucherDocument, card *domain.RemoteCard, transactions []domain.TransactionRecord) dto.VoucherSummaryResponse {
	full := BuildVoucherResponse(doc, card, transactions)

	return dto.VoucherSummaryResponse{
		ID:               full.ID,
		NativeID:         full.NativeID,
		Code:             MaskRedemptionCode(full.Code),
		CurrentBalance:   full.CurrentBalance,
		AuthorEmail:      full.AuthorEmail,
		CreatedAt:        full.CreatedAt,
		OwnerCpf:         full.OwnerCpf,
		OwnerName:        full.OwnerName,
		InitialValue:     full.InitialValue,
		ExpirationDate:   full.ExpirationDate,
		IsReloadable:     full.IsReloadable,
		Status:           full.Status,
		TotalCredited:    full.TotalCredited,
		TotalDebited:     full.TotalDebited,
		TransactionCount: full.TransactionCount,
	}
}

// MaskRedemptionCode hides the middle of a redemption code, keeping the
// first and last four characters. Codes too short to mask are returned
// unchanged.
func MaskRedemptionCode(code string) string {
	if len(code) < 8 {
		return code
	}
	return code[:4] + "****" + code[len(code)-4:]
}

// ToClientProfileResponse maps a platform client record to the search result
// row. The searched CPF fills in when the record has no document field.
func ToClientProfileResponse(profile domain.ClientProfile, searchedCpf string) dto.ClientProfileResponse {
	document := profile.Document
	if document == "" {
		document = searchedCpf
	}
	return dto.ClientProfileResponse{
		ID:        profile.ID,
		Document:  document,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
	}
}
