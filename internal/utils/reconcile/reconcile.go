// Package reconcile holds the pure gift-card history logic: normalizing raw
// ledger transactions into canonical records, merging disagreeing histories,
// and deriving stats and lifecycle status. Everything here operates on value
// types so results are replayable and trivially testable.
package reconcile

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beightone/marykay.giftcard-management/internal/apperrors"
	"github.com/beightone/marykay.giftcard-management/internal/core/domain"
)

var (
	orderIDPattern     = regexp.MustCompile(`(?i)order[_\s]?id[:\s]+([A-Z0-9-]+)`)
	orderNumberPattern = regexp.MustCompile(`(?i)order[_\s]?number[:\s]+([0-9]+)`)
)

// timestampLayouts are tried in order when parsing raw ledger timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseOrderRef extracts an order id and an order number from a free-text
// transaction description. Either result is empty when the description
// carries no matching reference.
func ParseOrderRef(description string) (orderID, orderNumber string) {
	if description == "" {
		return "", ""
	}
	if m := orderIDPattern.FindStringSubmatch(description); m != nil {
		orderID = m[1]
	}
	if m := orderNumberPattern.FindStringSubmatch(description); m != nil {
		orderNumber = m[1]
	}
	return orderID, orderNumber
}

// TransformNativeTransaction normalizes one raw ledger transaction into the
// canonical locally stored record. balanceAfter is the card balance
// immediately after the transaction applied; authorEmail may be empty when
// the author is unknown (e.g. during history sync).
//
// When the ledger omits the transaction id a unique fallback id is
// synthesized, so two normalizations in the same instant never collide.
// A timestamp that cannot be parsed is rejected with ErrValidation rather
// than silently coerced.
func TransformNativeTransaction(raw domain.RawTransaction, balanceAfter decimal.Decimal, authorEmail string) (domain.TransactionRecord, error) {
	createdAt, err := parseTimestamp(raw)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	id := raw.ID
	if id == "" {
		id = "native-" + uuid.NewString()
	}

	orderID, orderNumber := ParseOrderRef(raw.Description)

	return domain.TransactionRecord{
		ID:           id,
		Operation:    raw.Operation,
		Value:        raw.Value,
		BalanceAfter: balanceAfter,
		Description:  raw.Description,
		OrderID:      orderID,
		OrderNumber:  orderNumber,
		CreatedAt:    createdAt,
		CreatedBy:    authorEmail,
		Source:       domain.TransactionSourceNativeAPI,
		Metadata: map[string]string{
			domain.MetadataNativeTransactionID: raw.ID,
		},
	}, nil
}

func parseTimestamp(raw domain.RawTransaction) (time.Time, error) {
	s := raw.Date
	if s == "" {
		s = raw.CreatedAt
	}
	if s == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable transaction timestamp %q: %w", s, apperrors.ErrValidation)
}

// MergeTransactions merges a candidate list of newly observed records into an
// already persisted list. Records are deduplicated by id — an existing record
// is never overwritten by a same-id candidate — and the result is sorted
// ascending by CreatedAt. Merging is idempotent: applying the same candidate
// list twice yields the same result as applying it once.
func MergeTransactions(existing, candidates []domain.TransactionRecord) []domain.TransactionRecord {
	merged := make([]domain.TransactionRecord, 0, len(existing)+len(candidates))
	seen := make(map[string]struct{}, len(existing)+len(candidates))

	for _, tx := range existing {
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		seen[tx.ID] = struct{}{}
		merged = append(merged, tx)
	}
	for _, tx := range candidates {
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		seen[tx.ID] = struct{}{}
		merged = append(merged, tx)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}

// CalculateVoucherStats derives aggregate totals from a transaction list.
// LastTransactionDate is taken from the last element in input order, so the
// caller must pass an already time-ordered list for it to be meaningful.
func CalculateVoucherStats(transactions []domain.TransactionRecord) domain.VoucherStats {
	stats := domain.VoucherStats{
		TotalCredited:    decimal.Zero,
		TotalDebited:     decimal.Zero,
		TransactionCount: len(transactions),
	}

	for _, tx := range transactions {
		switch tx.Operation {
		case domain.Credit:
			stats.TotalCredited = stats.TotalCredited.Add(tx.Value)
		case domain.Debit:
			stats.TotalDebited = stats.TotalDebited.Add(tx.Value)
		}
	}

	if len(transactions) > 0 {
		last := transactions[len(transactions)-1].CreatedAt
		stats.LastTransactionDate = &last
	}
	return stats
}

// CalculateStatus derives the lifecycle status of a voucher. The decision
// order is fixed: expiration dominates everything, then full usage, then a
// negative balance, then active. A zero expiration means "never expires".
//
// A balance of exactly zero with totalDebited below initialValue stays
// active: only a fully debited card counts as used.
func CalculateStatus(currentBalance decimal.Decimal, expiration time.Time, totalDebited, initialValue decimal.Decimal) domain.VoucherStatus {
	if !expiration.IsZero() && expiration.Before(time.Now()) {
		return domain.StatusExpired
	}
	if currentBalance.IsZero() && totalDebited.GreaterThanOrEqual(initialValue) {
		return domain.StatusUsed
	}
	if currentBalance.IsNegative() {
		return domain.StatusCancelled
	}
	return domain.StatusActive
}

// ExtractOrderIDs returns the distinct order ids present across a transaction
// list, preserving the order of first occurrence.
func ExtractOrderIDs(transactions []domain.TransactionRecord) []string {
	orderIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		if tx.OrderID == "" {
			continue
		}
		if _, ok := seen[tx.OrderID]; ok {
			continue
		}
		seen[tx.OrderID] = struct{}{}
		orderIDs = append(orderIDs, tx.OrderID)
	}
	return orderIDs
}
