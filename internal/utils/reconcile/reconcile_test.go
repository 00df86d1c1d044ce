package reconcile_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beightone/marykay.giftcard-management/internal/apperrors"
	"github.com/beightone/marykay.giftcard-management/internal/core/domain"
	"github.com/beightone/marykay.giftcard-management/internal/utils/reconcile"
)

func record(id string, op domain.Operation, value int64, createdAt time.Time) domain.TransactionRecord {
	return domain.TransactionRecord{
		ID:        id,
		Operation: op,
		Value:     decimal.NewFromInt(value),
		CreatedAt: createdAt,
		Source:    domain.TransactionSourceNativeAPI,
	}
}

func TestParseOrderRef(t *testing.T) {
	tests := []struct {
		name        string
		description string
		orderID     string
		orderNumber string
	}{
		{"order id with colon", "Refund for order_id: ABC-123", "ABC-123", ""},
		{"order id with space separator", "Debit order id: XYZ-9", "XYZ-9", ""},
		{"lowercase order id value", "order_id: abc-123", "abc-123", ""},
		{"order number", "Redeemed on order_number: 1054832", "", "1054832"},
		{"both references", "order_id: A1 order_number: 42", "A1", "42"},
		{"no reference", "Manual balance adjustment", "", ""},
		{"empty description", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderID, orderNumber := reconcile.ParseOrderRef(tt.description)
			assert.Equal(t, tt.orderID, orderID)
			assert.Equal(t, tt.orderNumber, orderNumber)
		})
	}
}

func TestTransformNativeTransaction(t *testing.T) {
	raw := domain.RawTransaction{
		ID:          "tx-1",
		Operation:   domain.Credit,
		Value:       decimal.NewFromInt(100),
		Description: "Initial credit - order_id: ORD-77",
		Date:        "2025-03-10T12:00:00Z",
	}

	rec, err := reconcile.TransformNativeTransaction(raw, decimal.NewFromInt(100), "admin@example.com")
	require.NoError(t, err)

	assert.Equal(t, "tx-1", rec.ID)
	assert.Equal(t, domain.Credit, rec.Operation)
	assert.True(t, rec.Value.Equal(decimal.NewFromInt(100)))
	assert.True(t, rec.BalanceAfter.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "ORD-77", rec.OrderID)
	assert.Empty(t, rec.OrderNumber)
	assert.Equal(t, "admin@example.com", rec.CreatedBy)
	assert.Equal(t, domain.TransactionSourceNativeAPI, rec.Source)
	assert.Equal(t, "tx-1", rec.Metadata[domain.MetadataNativeTransactionID])
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), rec.CreatedAt.UTC())
}

func TestTransformNativeTransaction_FallbackIDsNeverCollide(t *testing.T) {
	// Two transactions without ids normalized in the same instant must still
	// get distinct ids.
	raw := domain.RawTransaction{
		Operation: domain.Credit,
		Value:     decimal.NewFromInt(10),
		Date:      "2025-03-10T12:00:00Z",
	}

	first, err := reconcile.TransformNativeTransaction(raw, decimal.NewFromInt(10), "")
	require.NoError(t, err)
	second, err := reconcile.TransformNativeTransaction(raw, decimal.NewFromInt(20), "")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, first.ID, "native-")
}

func TestTransformNativeTransaction_UnparseableTimestamp(t *testing.T) {
	raw := domain.RawTransaction{
		ID:        "tx-bad",
		Operation: domain.Debit,
		Value:     decimal.NewFromInt(5),
		Date:      "not-a-date",
	}

	_, err := reconcile.TransformNativeTransaction(raw, decimal.Zero, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransformNativeTransaction_MissingTimestampDefaultsToNow(t *testing.T) {
	raw := domain.RawTransaction{
		ID:        "tx-now",
		Operation: domain.Credit,
		Value:     decimal.NewFromInt(1),
	}

	rec, err := reconcile.TransformNativeTransaction(raw, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Second)
}

func TestMergeTransactions_DedupesAndSorts(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	existing := []domain.TransactionRecord{
		record("b", domain.Debit, 30, t2),
		record("a", domain.Credit, 100, t1),
	}
	candidates := []domain.TransactionRecord{
		record("c", domain.Debit, 10, t3),
		// Same id as an existing record but a different value: the existing
		// record must win.
		record("a", domain.Credit, 999, t1),
	}

	merged := reconcile.MergeTransactions(existing, candidates)

	require.Len(t, merged, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
	assert.True(t, merged[0].Value.Equal(decimal.NewFromInt(100)), "existing record must not be overwritten")
	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].CreatedAt.Before(merged[i-1].CreatedAt))
	}
}

func TestMergeTransactions_Idempotent(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := []domain.TransactionRecord{record("a", domain.Credit, 100, t1)}
	candidates := []domain.TransactionRecord{
		record("b", domain.Debit, 30, t1.Add(time.Hour)),
		record("c", domain.Debit, 20, t1.Add(2 * time.Hour)),
	}

	once := reconcile.MergeTransactions(existing, candidates)
	twice := reconcile.MergeTransactions(once, candidates)

	assert.Equal(t, once, twice)
}

func TestMergeTransactions_MembershipIsUnionOfIDs(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := []domain.TransactionRecord{
		record("1", domain.Credit, 1, t1),
		record("2", domain.Debit, 2, t1.Add(time.Minute)),
	}
	b := []domain.TransactionRecord{
		record("2", domain.Debit, 2, t1.Add(time.Minute)),
		record("3", domain.Credit, 3, t1.Add(2 * time.Minute)),
	}

	ids := func(list []domain.TransactionRecord) map[string]bool {
		out := make(map[string]bool)
		for _, tx := range list {
			out[tx.ID] = true
		}
		return out
	}

	ab := reconcile.MergeTransactions(a, b)
	ba := reconcile.MergeTransactions(b, a)

	expected := map[string]bool{"1": true, "2": true, "3": true}
	assert.Equal(t, expected, ids(ab))
	assert.Equal(t, expected, ids(ba))
}

func TestCalculateVoucherStats(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	transactions := []domain.TransactionRecord{
		record("a", domain.Credit, 100, t1),
		record("b", domain.Debit, 30, t2),
	}

	stats := reconcile.CalculateVoucherStats(transactions)

	assert.True(t, stats.TotalCredited.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.TotalDebited.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, stats.TransactionCount)
	require.NotNil(t, stats.LastTransactionDate)
	assert.Equal(t, t2, *stats.LastTransactionDate)
}

func TestCalculateVoucherStats_Empty(t *testing.T) {
	stats := reconcile.CalculateVoucherStats(nil)

	assert.True(t, stats.TotalCredited.IsZero())
	assert.True(t, stats.TotalDebited.IsZero())
	assert.Equal(t, 0, stats.TransactionCount)
	assert.Nil(t, stats.LastTransactionDate)
}

func TestCalculateStatus(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name         string
		balance      int64
		expiration   time.Time
		totalDebited int64
		initialValue int64
		expected     domain.VoucherStatus
	}{
		{"fully debited and empty", 0, future, 100, 100, domain.StatusUsed},
		{"zero balance but underspent stays active", 0, future, 50, 100, domain.StatusActive},
		{"negative balance", -10, future, 0, 100, domain.StatusCancelled},
		{"expiration dominates usage", 100, past, 0, 100, domain.StatusExpired},
		{"expired and fully used reports expired", 0, past, 100, 100, domain.StatusExpired},
		{"healthy card", 70, future, 30, 100, domain.StatusActive},
		{"overspent beyond initial value", 0, future, 150, 100, domain.StatusUsed},
		{"no expiration never expires", 70, time.Time{}, 30, 100, domain.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := reconcile.CalculateStatus(
				decimal.NewFromInt(tt.balance),
				tt.expiration,
				decimal.NewFromInt(tt.totalDebited),
				decimal.NewFromInt(tt.initialValue),
			)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestExtractOrderIDs(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	transactions := []domain.TransactionRecord{
		{ID: "a", OrderID: "ORD-1", CreatedAt: t1},
		{ID: "b", CreatedAt: t1},
		{ID: "c", OrderID: "ORD-2", CreatedAt: t1},
		{ID: "d", OrderID: "ORD-1", CreatedAt: t1},
	}

	assert.Equal(t, []string{"ORD-1", "ORD-2"}, reconcile.ExtractOrderIDs(transactions))
	assert.Empty(t, reconcile.ExtractOrderIDs(nil))
}
