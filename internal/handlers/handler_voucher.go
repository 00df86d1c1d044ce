package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/beightone/marykay.giftcard-management/internal/core/ports/services"
	"github.com/beightone/marykay.giftcard-management/internal/dto"
	"github.com/beightone/marykay.giftcard-management/internal/middleware"
)

// voucherHandler handles the resolver-style HTTP surface for vouchers. Every
// operation is dispatched by name under /query or /mutation, mirroring the
// GraphQL resolver map the admin UI was built against.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// resolverFunc executes one named operation and returns its payload.
type resolverFunc func(c *gin.Context) (any, error)

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: vs}
}

// registerVoucherRoutes registers the resolver dispatch routes. Both GET and
// POST are accepted on each group: GET binds arguments from the query string,
// POST from the JSON body.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	queries := map[string]resolverFunc{
		"voucher":           h.getVoucher,
		"vouchers":          h.listVouchers,
		"vouchersByUser":    h.listVouchersByUser,
		"searchClientByCpf": h.searchClientByCpf,
	}
	mutations := map[string]resolverFunc{
		"createVoucher":        h.createVoucher,
		"adjustVoucherBalance": h.adjustVoucherBalance,
		"syncVoucherHistory":   h.syncVoucherHistory,
		"deleteVoucher":        h.deleteVoucher,
	}

	rg.GET("/query/:operation", dispatch(queries))
	rg.POST("/query/:operation", dispatch(queries))
	rg.GET("/mutation/:operation", dispatch(mutations))
	rg.POST("/mutation/:operation", dispatch(mutations))
}

// dispatch looks up the named operation and wraps its result in the resolver
// response envelope. Unknown operations get a 404; any resolver failure gets
// a 500 with the error message, matching what the admin UI expects.
func dispatch(resolvers map[string]resolverFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		operation := c.Param("operation")

		resolver, ok := resolvers[operation]
		if !ok {
			logger.Warn("Unknown resolver operation", slog.String("operation", operation))
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown operation: " + operation})
			return
		}

		result, err := resolver(c)
		if err != nil {
			logger.Error("Resolver operation failed",
				slog.String("operation", operation),
				slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"errorMessage": "Internal Server Error",
				"error":        err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}

// bind reads resolver arguments from the query string on GET and from the
// JSON body otherwise.
func bind(c *gin.Context, req any) error {
	if c.Request.Method == http.MethodGet {
		return c.ShouldBindQuery(req)
	}
	return c.ShouldBindJSON(req)
}

// createVoucher godoc
// @Summary Create a gift card voucher
// @Description Creates a gift card in the native platform API, applies its initial credit and mirrors it into the document store
// @Tags mutations
// @Accept json
// @Produce json
// @Param voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 200 {object} dto.CreateVoucherResponse
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/mutation/createVoucher [post]
func (h *voucherHandler) createVoucher(c *gin.Context) (any, error) {
	var req dto.CreateVoucherRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}

	authorEmail, _ := middleware.GetAuthorEmailFromContext(c)
	return h.voucherService.CreateVoucher(c.Request.Context(), req, authorEmail)
}

// getVoucher godoc
// @Summary Get a voucher
// @Description Retrieves one voucher by native ledger id or document id, merged with its live remote state
// @Tags queries
// @Produce json
// @Param id query string true "Native gift card id or document id"
// @Success 200 {object} dto.VoucherResponse
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/query/voucher [get]
func (h *voucherHandler) getVoucher(c *gin.Context) (any, error) {
	var req dto.GetVoucherRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return h.voucherService.GetVoucher(c.Request.Context(), req.ID)
}

// listVouchers godoc
// @Summary List all vouchers
// @Description Lists every locally known voucher with masked codes, enriched with remote balances where reachable
// @Tags queries
// @Produce json
// @Success 200 {array} dto.VoucherSummaryResponse
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/query/vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) (any, error) {
	return h.voucherService.ListVouchers(c.Request.Context())
}

// listVouchersByUser godoc
// @Summary List vouchers for one client
// @Description Lists vouchers owned by a client identified by platform user id or CPF
// @Tags queries
// @Produce json
// @Param userId query string false "Platform user id"
// @Param cpf query string false "Owner CPF"
// @Success 200 {array} dto.VoucherResponse
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/query/vouchersByUser [get]
func (h *voucherHandler) listVouchersByUser(c *gin.Context) (any, error) {
	var req dto.VouchersByUserRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return h.voucherService.ListVouchersByUser(c.Request.Context(), req)
}

// adjustVoucherBalance godoc
// @Summary Adjust a voucher balance
// @Description Applies a signed credit or debit to the remote card and records it in the local history
// @Tags mutations
// @Accept json
// @Produce json
// @Param adjustment body dto.AdjustVoucherBalanceRequest true "Adjustment details"
// @Success 200 {object} dto.VoucherResponse
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/mutation/adjustVoucherBalance [post]
func (h *voucherHandler) adjustVoucherBalance(c *gin.Context) (any, error) {
	var req dto.AdjustVoucherBalanceRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}

	authorEmail, _ := middleware.GetAuthorEmailFromContext(c)
	return h.voucherService.AdjustVoucherBalance(c.Request.Context(), req, authorEmail)
}

// syncVoucherHistory godoc
// @Summary Sync a voucher's history
// @Description Pulls the remote transaction list, reconstructs running balances and merges new entries into the local history
// @Tags mutations
// @Accept json
// @Produce json
// @Param sync body dto.SyncVoucherHistoryRequest true "Voucher to sync"
// @Success 200 {object} dto.SyncVoucherHistoryResponse
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/mutation/syncVoucherHistory [post]
func (h *voucherHandler) syncVoucherHistory(c *gin.Context) (any, error) {
	var req dto.SyncVoucherHistoryRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return h.voucherService.SyncVoucherHistory(c.Request.Context(), req.NativeID)
}

// deleteVoucher godoc
// @Summary Delete a voucher document
// @Description Removes the local voucher document; the remote gift card is left untouched
// @Tags mutations
// @Accept json
// @Produce json
// @Param voucher body dto.DeleteVoucherRequest true "Voucher to delete"
// @Success 200 {object} bool
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/mutation/deleteVoucher [post]
func (h *voucherHandler) deleteVoucher(c *gin.Context) (any, error) {
	var req dto.DeleteVoucherRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return h.voucherService.DeleteVoucher(c.Request.Context(), req.NativeID)
}

// searchClientByCpf godoc
// @Summary Search clients by CPF
// @Description Looks up client profiles matching a CPF; unreachable profile storage yields an empty list
// @Tags queries
// @Produce json
// @Param cpf query string true "CPF to search"
// @Success 200 {array} dto.ClientProfileResponse
// @Failure 500 {object} map[string]string "Resolver error"
// @Router /_v/giftcard-manager/query/searchClientByCpf [get]
func (h *voucherHandler) searchClientByCpf(c *gin.Context) (any, error) {
	var req dto.SearchClientByCpfRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return h.voucherService.SearchClientByCpf(c.Request.Context(), req.Cpf)
}
