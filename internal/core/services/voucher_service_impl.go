package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beightone/marykay.giftcard-management/internal/apperrors"
	"github.com/beightone/marykay.giftcard-management/internal/core/domain"
	portsclients "github.com/beightone/marykay.giftcard-management/internal/core/ports/clients"
	portssvc "github.com/beightone/marykay.giftcard-management/internal/core/ports/services"
	"github.com/beightone/marykay.giftcard-management/internal/dto"
	"github.com/beightone/marykay.giftcard-management/internal/utils/mapping"
	"github.com/beightone/marykay.giftcard-management/internal/utils/reconcile"
)

const (
	voucherEntity = "GiftcardManager"
	voucherSchema = "giftcard-manager-v1"
	clientEntity  = "CL"

	listPageSize   = 100
	searchPageSize = 10

	defaultCaption      = "Gift Card"
	defaultCurrencyCode = "BRL"
)

// voucherFields is the full projection of a voucher document.
var voucherFields = []string{
	"id", "nativeId", "authorEmail", "createdAt", "ownerCpf", "ownerEmail",
	"ownerName", "initialValue", "expirationDate", "isReloadable", "transactions",
}

// voucherServiceImpl implements the VoucherSvcFacade interface.
type voucherServiceImpl struct {
	BaseService
	giftcards portsclients.GiftCardClient
	store     portsclients.DocumentStore
}

// NewVoucherServiceImpl creates the voucher service on top of the remote
// ledger client and the document store client.
func NewVoucherServiceImpl(giftcards portsclients.GiftCardClient, store portsclients.DocumentStore) portssvc.VoucherSvcFacade {
	return &voucherServiceImpl{
		giftcards: giftcards,
		store:     store,
	}
}

// Ensure voucherServiceImpl implements the VoucherSvcFacade interface
var _ portssvc.VoucherSvcFacade = (*voucherServiceImpl)(nil)

// voucherDocumentFields is the document shape written at voucher creation.
// Transactions is always pre-serialized: the creation schema stores the
// history as a single text blob.
type voucherDocumentFields struct {
	NativeID       string          `json:"nativeId"`
	AuthorEmail    string          `json:"authorEmail"`
	CreatedAt      string          `json:"createdAt"`
	OwnerCpf       string          `json:"ownerCpf"`
	OwnerEmail     string          `json:"ownerEmail"`
	OwnerName      string          `json:"ownerName"`
	InitialValue   decimal.Decimal `json:"initialValue"`
	ExpirationDate string          `json:"expirationDate"`
	IsReloadable   bool            `json:"isReloadable"`
	LastSyncedAt   string          `json:"lastSyncedAt"`
	Transactions   string          `json:"transactions"`
}

func (s *voucherServiceImpl) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, authorEmail string) (*dto.CreateVoucherResponse, error) {
	if req.OwnerCpf == "" {
		return nil, fmt.Errorf("ownerCpf is required: the gift-card API requires a resolvable profile for every card: %w", apperrors.ErrValidation)
	}

	// The profile must resolve before anything is created remotely.
	profileID := s.findProfileIDByCpf(ctx, req.OwnerCpf)
	if profileID == "" {
		return nil, fmt.Errorf("profile not found for CPF %s: ensure the client exists in the %s entity: %w", req.OwnerCpf, clientEntity, apperrors.ErrValidation)
	}
	ownerEmail, ownerName := s.getClientInfo(ctx, req.OwnerCpf)

	expiration := domain.ParseExpiration(req.ExpirationDate)
	if expiration.IsZero() {
		return nil, fmt.Errorf("invalid expiration date format %q, expected ISO 8601: %w", req.ExpirationDate, apperrors.ErrValidation)
	}

	caption := req.Caption
	if caption == "" {
		caption = defaultCaption
	}
	currencyCode := req.CurrencyCode
	if currencyCode == "" {
		currencyCode = defaultCurrencyCode
	}
	isReloadable := req.IsReloadable != nil && *req.IsReloadable
	multipleCredits := req.IsReloadable == nil || *req.IsReloadable
	multipleRedemptions := req.MultipleRedemptions == nil || *req.MultipleRedemptions

	card, err := s.giftcards.CreateCard(ctx, domain.CreateCardPayload{
		RelationName:        req.RelationName,
		ExpiringDate:        expiration.UTC().Format(time.RFC3339),
		Caption:             caption,
		ProfileID:           profileID,
		RestrictedToOwner:   true,
		CurrencyCode:        currencyCode,
		MultipleCredits:     multipleCredits,
		MultipleRedemptions: multipleRedemptions,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create remote gift card",
			slog.String("owner_cpf", req.OwnerCpf))
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	description := fmt.Sprintf("Initial credit - %s", req.InitialValue.String())

	rawTx, err := s.giftcards.CreateTransaction(ctx, card.ID, domain.CreateTransactionPayload{
		Operation:   domain.Credit,
		Value:       req.InitialValue,
		Description: description,
	})
	if err != nil {
		// No compensating delete: the remote card stays and the error names
		// it so the orphan can be reconciled manually.
		s.LogError(ctx, err, "Remote gift card created but initial credit failed",
			slog.String("native_id", card.ID))
		return nil, fmt.Errorf("gift card %s was created but its initial credit failed: %w", card.ID, err)
	}

	initialTx, err := reconcile.TransformNativeTransaction(domain.RawTransaction{
		ID:          rawTx.ID,
		Operation:   domain.Credit,
		Value:       req.InitialValue,
		Description: description,
		Date:        now,
	}, req.InitialValue, authorEmail)
	if err != nil {
		return nil, fmt.Errorf("gift card %s was created but its initial transaction could not be recorded: %w", card.ID, err)
	}

	encoded, err := domain.EncodeTransactions([]domain.TransactionRecord{initialTx})
	if err != nil {
		return nil, fmt.Errorf("gift card %s was created but its history could not be encoded: %w", card.ID, err)
	}

	_, err = s.store.CreateDocument(ctx, voucherEntity, voucherDocumentFields{
		NativeID:       card.ID,
		AuthorEmail:    authorEmail,
		CreatedAt:      now,
		OwnerCpf:       req.OwnerCpf,
		OwnerEmail:     ownerEmail,
		OwnerName:      ownerName,
		InitialValue:   req.InitialValue,
		ExpirationDate: req.ExpirationDate,
		IsReloadable:   isReloadable,
		LastSyncedAt:   now,
		Transactions:   encoded,
	})
	if err != nil {
		s.LogError(ctx, err, "Remote gift card created but local document write failed",
			slog.String("native_id", card.ID))
		return nil, fmt.Errorf("gift card %s was created but the local voucher document could not be written: %w", card.ID, err)
	}

	currentBalance := card.Balance
	if currentBalance.IsZero() {
		currentBalance = req.InitialValue
	}
	expirationDate := card.ExpiringDate
	if expirationDate == "" {
		expirationDate = req.ExpirationDate
	}
	status := reconcile.CalculateStatus(currentBalance, expiration, decimal.Zero, req.InitialValue)

	s.LogInfo(ctx, "Voucher created successfully",
		slog.String("native_id", card.ID),
		slog.String("owner_cpf", req.OwnerCpf))

	return &dto.CreateVoucherResponse{
		ID:             card.ID,
		NativeID:       card.ID,
		Code:           card.RedemptionCode,
		CurrentBalance: currentBalance,
		AuthorEmail:    authorEmail,
		OwnerCpf:       req.OwnerCpf,
		InitialValue:   req.InitialValue,
		ExpirationDate: expirationDate,
		IsReloadable:   isReloadable,
		Status:         status,
	}, nil
}

func (s *voucherServiceImpl) GetVoucher(ctx context.Context, id string) (*dto.VoucherResponse, error) {
	doc, err := s.searchVoucher(ctx, "nativeId", id, voucherFields)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		if doc, err = s.searchVoucher(ctx, "id", id, voucherFields); err != nil {
			return nil, err
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("voucher %s not found in document store: %w", id, apperrors.ErrNotFound)
	}

	transactions, err := domain.ParseTransactions(doc.Transactions)
	if err != nil {
		return nil, fmt.Errorf("voucher %s has a corrupt transaction history: %w", id, errors.Join(err, apperrors.ErrValidation))
	}

	nativeID := doc.NativeID
	if nativeID == "" {
		nativeID = id
	}

	card, err := s.giftcards.GetCard(ctx, nativeID)
	if err != nil {
		// Degraded read: the local document still answers, with the remote
		// fields blanked out.
		s.LogWarn(ctx, "Remote ledger unreachable, serving voucher from local document",
			slog.String("native_id", nativeID),
			slog.String("error", err.Error()))
		resp := mapping.BuildVoucherResponse(*doc, nil, transactions)
		resp.Code = "N/A"
		resp.Caption = "N/A"
		resp.OrderIDs = []string{}
		return &resp, nil
	}

	resp := mapping.BuildVoucherResponse(*doc, card, transactions)
	return &resp, nil
}

func (s *voucherServiceImpl) ListVouchers(ctx context.Context) ([]dto.VoucherSummaryResponse, error) {
	var docs []domain.VoucherDocument
	err := s.store.SearchDocuments(ctx, portsclients.SearchParams{
		Entity:   voucherEntity,
		Schema:   voucherSchema,
		Fields:   voucherFields,
		Page:     1,
		PageSize: listPageSize,
	}, &docs)
	if err != nil {
		s.LogError(ctx, err, "Failed to list voucher documents")
		return nil, err
	}

	// One remote fetch per document, concurrently; results keep the document
	// order and a failed fetch degrades only its own row.
	summaries := make([]dto.VoucherSummaryResponse, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc domain.VoucherDocument) {
			defer wg.Done()
			card, transactions := s.fetchCardAndHistory(ctx, doc)
			summaries[i] = mapping.BuildVoucherSummary(doc, card, transactions)
		}(i, doc)
	}
	wg.Wait()

	return summaries, nil
}

func (s *voucherServiceImpl) ListVouchersByUser(ctx context.Context, req dto.VouchersByUserRequest) ([]dto.VoucherResponse, error) {
	cpf := req.Cpf
	if req.UserID != "" {
		cpf = s.findCpfByUserID(ctx, req.UserID)
		if cpf == "" {
			return []dto.VoucherResponse{}, nil
		}
	}
	if cpf == "" {
		return nil, fmt.Errorf("either userId or cpf must be provided: %w", apperrors.ErrValidation)
	}

	var docs []domain.VoucherDocument
	err := s.store.SearchDocuments(ctx, portsclients.SearchParams{
		Entity:   voucherEntity,
		Schema:   voucherSchema,
		Fields:   voucherFields,
		Where:    fmt.Sprintf("ownerCpf=%s", cpf),
		Page:     1,
		PageSize: listPageSize,
	}, &docs)
	if err != nil {
		s.LogError(ctx, err, "Failed to list voucher documents by owner",
			slog.String("owner_cpf", cpf))
		return nil, err
	}

	vouchers := make([]dto.VoucherResponse, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc domain.VoucherDocument) {
			defer wg.Done()
			card, transactions := s.fetchCardAndHistory(ctx, doc)
			vouchers[i] = mapping.BuildVoucherResponse(doc, card, transactions)
		}(i, doc)
	}
	wg.Wait()

	return vouchers, nil
}

func (s *voucherServiceImpl) AdjustVoucherBalance(ctx context.Context, req dto.AdjustVoucherBalanceRequest, authorEmail string) (*dto.VoucherResponse, error) {
	if req.Value.IsZero() {
		return nil, fmt.Errorf("adjustment value must be non-zero: %w", apperrors.ErrValidation)
	}

	doc, err := s.searchVoucher(ctx, "nativeId", req.NativeID, voucherFields)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("voucher %s not found in document store: %w", req.NativeID, apperrors.ErrNotFound)
	}

	card, err := s.giftcards.GetCard(ctx, req.NativeID)
	if err != nil {
		return nil, err
	}

	operation := domain.Credit
	if req.Value.IsNegative() {
		operation = domain.Debit
	}
	amount := req.Value.Abs()

	rawTx, err := s.giftcards.CreateTransaction(ctx, req.NativeID, domain.CreateTransactionPayload{
		Operation:       operation,
		Value:           amount,
		Description:     req.Description,
		RedemptionToken: card.RedemptionToken,
		RedemptionCode:  card.RedemptionCode,
		RequestID:       "adjust-" + uuid.NewString(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to submit balance adjustment",
			slog.String("native_id", req.NativeID),
			slog.String("operation", string(operation)))
		return nil, err
	}

	// The ledger owns balance arithmetic: re-fetch rather than compute.
	updatedCard, err := s.giftcards.GetCard(ctx, req.NativeID)
	if err != nil {
		return nil, err
	}

	existing, err := domain.ParseTransactions(doc.Transactions)
	if err != nil {
		return nil, fmt.Errorf("voucher %s has a corrupt transaction history: %w", req.NativeID, errors.Join(err, apperrors.ErrValidation))
	}

	newRecord, err := reconcile.TransformNativeTransaction(domain.RawTransaction{
		ID:          rawTx.ID,
		Operation:   operation,
		Value:       amount,
		Description: req.Description,
		Date:        time.Now().UTC().Format(time.RFC3339),
	}, updatedCard.Balance, authorEmail)
	if err != nil {
		return nil, err
	}

	merged := reconcile.MergeTransactions(existing, []domain.TransactionRecord{newRecord})
	if err := s.updateVoucherHistory(ctx, doc.ID, "", merged); err != nil {
		s.LogError(ctx, err, "Failed to persist adjusted history",
			slog.String("native_id", req.NativeID),
			slog.String("document_id", doc.ID))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher balance adjusted",
		slog.String("native_id", req.NativeID),
		slog.String("operation", string(operation)),
		slog.String("value", amount.String()))

	// Rebuild from fresh state so the caller sees the authoritative
	// post-update view, not in-memory values.
	return s.GetVoucher(ctx, req.NativeID)
}

func (s *voucherServiceImpl) SyncVoucherHistory(ctx context.Context, nativeID string) (*dto.SyncVoucherHistoryResponse, error) {
	doc, err := s.searchVoucher(ctx, "nativeId", nativeID, voucherFields)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("voucher %s not found in document store: %w", nativeID, apperrors.ErrNotFound)
	}

	card, err := s.giftcards.GetCard(ctx, nativeID)
	if err != nil {
		return nil, err
	}
	rawTransactions, err := s.giftcards.GetTransactions(ctx, nativeID)
	if err != nil {
		return nil, err
	}

	existing, err := domain.ParseTransactions(doc.Transactions)
	if err != nil {
		return nil, fmt.Errorf("voucher %s has a corrupt transaction history: %w", nativeID, errors.Join(err, apperrors.ErrValidation))
	}
	existingIDs := make(map[string]struct{}, len(existing))
	for _, tx := range existing {
		existingIDs[tx.ID] = struct{}{}
	}

	// Walk the remote list in API order, unwinding the running balance
	// backward from the authoritative current balance, one contribution at a
	// time.
	current := card.Balance
	newTransactions := make([]domain.TransactionRecord, 0, len(rawTransactions))
	for i, raw := range rawTransactions {
		var balanceAfter decimal.Decimal
		switch {
		case i == 0:
			balanceAfter = current
		case raw.Operation == domain.Debit:
			balanceAfter = current.Sub(raw.Value)
		default:
			balanceAfter = current.Add(raw.Value)
		}

		record, err := reconcile.TransformNativeTransaction(raw, balanceAfter, "")
		if err != nil {
			return nil, fmt.Errorf("remote transaction %s could not be normalized: %w", raw.ID, err)
		}
		if _, ok := existingIDs[record.ID]; !ok {
			newTransactions = append(newTransactions, record)
		}

		if raw.Operation == domain.Credit {
			current = current.Add(raw.Value)
		} else {
			current = current.Sub(raw.Value)
		}
	}

	merged := reconcile.MergeTransactions(existing, newTransactions)

	expirationDate := card.ExpiringDate
	if expirationDate == "" {
		expirationDate = doc.ExpirationDate
	}
	if err := s.updateVoucherHistory(ctx, doc.ID, expirationDate, merged); err != nil {
		s.LogError(ctx, err, "Failed to persist synced history",
			slog.String("native_id", nativeID),
			slog.String("document_id", doc.ID))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher history synced",
		slog.String("native_id", nativeID),
		slog.Int("transactions_synced", len(newTransactions)),
		slog.Int("total_transactions", len(merged)))

	return &dto.SyncVoucherHistoryResponse{
		Success:            true,
		TransactionsSynced: len(newTransactions),
		TotalTransactions:  len(merged),
	}, nil
}

func (s *voucherServiceImpl) DeleteVoucher(ctx context.Context, nativeID string) (bool, error) {
	doc, err := s.searchVoucher(ctx, "nativeId", nativeID, []string{"id"})
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, fmt.Errorf("voucher %s not found in document store: %w", nativeID, apperrors.ErrNotFound)
	}

	// Only the local document is removed; the remote card is out of scope.
	if err := s.store.DeleteDocument(ctx, voucherEntity, doc.ID); err != nil {
		s.LogError(ctx, err, "Failed to delete voucher document",
			slog.String("native_id", nativeID),
			slog.String("document_id", doc.ID))
		return false, err
	}

	s.LogInfo(ctx, "Voucher document deleted", slog.String("native_id", nativeID))
	return true, nil
}

func (s *voucherServiceImpl) SearchClientByCpf(ctx context.Context, cpf string) ([]dto.ClientProfileResponse, error) {
	var profiles []domain.ClientProfile
	err := s.store.SearchDocuments(ctx, portsclients.SearchParams{
		Entity:   clientEntity,
		Fields:   []string{"id", "document", "firstName", "lastName", "email"},
		Where:    fmt.Sprintf("document=%s", cpf),
		Page:     1,
		PageSize: searchPageSize,
	}, &profiles)
	if err != nil {
		// Client search is best-effort: an unreachable store yields an empty
		// result, never an error page.
		s.LogWarn(ctx, "Client search failed, returning empty result",
			slog.String("cpf", cpf),
			slog.String("error", err.Error()))
		return []dto.ClientProfileResponse{}, nil
	}

	results := make([]dto.ClientProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		results = append(results, mapping.ToClientProfileResponse(profile, cpf))
	}
	return results, nil
}

// fetchCardAndHistory resolves the remote card and local history for one
// list row. Both lookups are allowed to fail: a nil card and an empty history
// produce a degraded row instead of failing the batch.
func (s *voucherServiceImpl) fetchCardAndHistory(ctx context.Context, doc domain.VoucherDocument) (*domain.RemoteCard, []domain.TransactionRecord) {
	transactions, err := domain.ParseTransactions(doc.Transactions)
	if err != nil {
		s.LogWarn(ctx, "Skipping corrupt transaction history",
			slog.String("native_id", doc.NativeID),
			slog.String("error", err.Error()))
		transactions = []domain.TransactionRecord{}
	}

	card, err := s.giftcards.GetCard(ctx, doc.NativeID)
	if err != nil {
		s.LogWarn(ctx, "Remote ledger fetch failed for list item",
			slog.String("native_id", doc.NativeID),
			slog.String("error", err.Error()))
		return nil, transactions
	}
	return card, transactions
}

// searchVoucher finds at most one voucher document by an exact field match.
// A miss returns (nil, nil); errors are reserved for failed store calls.
func (s *voucherServiceImpl) searchVoucher(ctx context.Context, field, value string, fields []string) (*domain.VoucherDocument, error) {
	var docs []domain.VoucherDocument
	err := s.store.SearchDocuments(ctx, portsclients.SearchParams{
		Entity:   voucherEntity,
		Schema:   voucherSchema,
		Fields:   fields,
		Where:    fmt.Sprintf("%s=%q", field, value),
		Page:     1,
		PageSize: 1,
	}, &docs)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

// voucherHistoryUpdate is the partial-update shape for sync and adjustment
// writes. Transactions flips from a structured list to a pre-serialized
// string when the backend rejects list fields.
type voucherHistoryUpdate struct {
	ExpirationDate string `json:"expirationDate,omitempty"`
	LastSyncedAt   string `json:"lastSyncedAt"`
	Transactions   any    `json:"transactions"`
}

// updateVoucherHistory persists a merged history with the fallback chain the
// document store requires: partial update with the structured list, then
// partial update with the list serialized to a text blob, then a full
// document update.
func (s *voucherServiceImpl) updateVoucherHistory(ctx context.Context, docID, expirationDate string, transactions []domain.TransactionRecord) error {
	now := time.Now().UTC().Format(time.RFC3339)
	update := voucherHistoryUpdate{
		ExpirationDate: expirationDate,
		LastSyncedAt:   now,
		Transactions:   transactions,
	}

	err := s.store.UpdatePartialDocument(ctx, voucherEntity, voucherSchema, docID, update)
	if err == nil {
		return nil
	}

	encoded, encErr := domain.EncodeTransactions(transactions)
	if encErr != nil {
		return encErr
	}
	update.Transactions = encoded

	if !errors.Is(err, apperrors.ErrPartialUpdateUnsupported) {
		// The backend may have rejected the structured list; retry with the
		// serialized form before giving up on partial updates.
		err = s.store.UpdatePartialDocument(ctx, voucherEntity, voucherSchema, docID, update)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrPartialUpdateUnsupported) {
			return err
		}
	}

	return s.store.UpdateDocument(ctx, voucherEntity, voucherSchema, docID, update)
}

func (s *voucherServiceImpl) findProfileIDByCpf(ctx context.Context, cpf string) string {
	var profiles []domain.ClientProfile
	err := s.store.SearchDocuments(ctx, portsclients.SearchParams{
		Entity:   clientEntity,
		Fields:   []string{"userId"},
		Where:    fmt.Sprintf("document=%s", cpf),
		Page:     1,
		PageSize: 1,
	}, &profiles)
	if err != nil || len(profiles) == 0 {
		return ""
	}
	return profiles[0].UserID
}

func (s *voucherServiceImpl) getClientInfo(ctx context.Context, cpf string) (email, name string) {
	var profiles []domain.ClientProfile
	err := s.store.SearchDocuments(ctx, portsclients.SearchParams{
		Entity:   clientEntity,
		Fields:   []string{"email", "firstName", "lastName"},
		Where:    fmt.Sprintf("document=%s", cpf),
		Page:     1,
		PageSize: 1,
	}, &profiles)
	if err != nil || len(profiles) == 0 {
		return "", ""
	}
	profile := profiles[0]
	return profile.Email, strings.TrimSpace(profile.FirstName + " " + profile.LastName)
}

func (s *voucherServiceImpl) findCpfByUserID(ctx context.Context, userID string) string {
	var profiles []domain.ClientProfile
	err := s.store.SearchDocuments(ctx, portsclients.SearchParams{
		Entity:   clientEntity,
		Fields:   []string{"document"},
		Where:    fmt.Sprintf("userId=%s", userID),
		Page:     1,
		PageSize: 1,
	}, &profiles)
	if err != nil || len(profiles) == 0 {
		return ""
	}
	return profiles[0].Document
}
