// Package handlers - Transaction HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/vinayak20130/ledgervault/internal/adapters/http/common"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ============================================
// Use Case Interfaces
// ============================================

// TopUpUseCase runs a TOP_UP movement (treasury -> user wallet).
type TopUpUseCase interface {
	Execute(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransactionResultDTO, error)
}

// BonusUseCase runs a BONUS movement (treasury -> user wallet).
type BonusUseCase interface {
	Execute(ctx context.Context, cmd dtos.BonusCommand) (*dtos.TransactionResultDTO, error)
}

// PurchaseUseCase runs a PURCHASE movement (user wallet -> treasury).
type PurchaseUseCase interface {
	Execute(ctx context.Context, cmd dtos.PurchaseCommand) (*dtos.TransactionResultDTO, error)
}

// GetTransactionUseCase fetches a transaction by ID.
type GetTransactionUseCase interface {
	Execute(ctx context.Context, query dtos.GetTransactionQuery) (*dtos.TransactionDTO, error)
}

// ListTransactionsUseCase fetches a filtered, paginated transaction list.
type ListTransactionsUseCase interface {
	Execute(ctx context.Context, query dtos.ListTransactionsQuery) (*dtos.TransactionListDTO, error)
}

// GetTransactionByIdempotencyKeyUseCase fetches a transaction by the key the
// caller originally submitted it with.
type GetTransactionByIdempotencyKeyUseCase interface {
	Execute(ctx context.Context, query dtos.GetTransactionByIdempotencyKeyQuery) (*dtos.TransactionDTO, error)
}

// ============================================
// Transaction Handler
// ============================================

// TransactionHandler handles HTTP requests for value movements.
type TransactionHandler struct {
	topUp               TopUpUseCase
	bonus               BonusUseCase
	purchase            PurchaseUseCase
	getTransaction      GetTransactionUseCase
	listTransactions    ListTransactionsUseCase
	getByIdempotencyKey GetTransactionByIdempotencyKeyUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	topUp TopUpUseCase,
	bonus BonusUseCase,
	purchase PurchaseUseCase,
	getTransaction GetTransactionUseCase,
	listTransactions ListTransactionsUseCase,
	getByIdempotencyKey GetTransactionByIdempotencyKeyUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		topUp:               topUp,
		bonus:               bonus,
		purchase:            purchase,
		getTransaction:      getTransaction,
		listTransactions:    listTransactions,
		getByIdempotencyKey: getByIdempotencyKey,
	}
}

// ============================================
// Request DTOs
// ============================================

// TransactionIDParam is the transaction ID path parameter.
type TransactionIDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListTransactionsParams filters a transaction list query.
type ListTransactionsParams struct {
	WalletID string `form:"wallet_id" binding:"omitempty,uuid"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Type     string `form:"type" binding:"omitempty,oneof=TOP_UP BONUS PURCHASE"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED"`
}

// MovementRequest is the shared request body shape for TOP_UP, BONUS, and
// PURCHASE — all three are the same movement command with a different type.
//
// @Description Value movement request body
type MovementRequest struct {
	UserID         string                 `json:"user_id" binding:"required,uuid"`
	AssetType      string                 `json:"asset_type" binding:"required,asset_type_code"`
	Amount         string                 `json:"amount" binding:"required,money_amount"`
	IdempotencyKey string                 `json:"idempotency_key" binding:"required,max=255"`
	ReferenceID    string                 `json:"reference_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// ============================================
// HTTP Handlers
// ============================================

// TopUp credits a user wallet from the treasury.
//
// @Summary Top up a wallet
// @Description Move funds from the treasury into a user's wallet
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body MovementRequest true "Movement request"
// @Success 200 {object} common.APIResponse{data=dtos.TransactionResultDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/transactions/top-up [post]
func (h *TransactionHandler) TopUp(c *gin.Context) {
	var req MovementRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.topUp.Execute(c.Request.Context(), dtos.TopUpCommand(req))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Bonus credits a user wallet from the treasury as a promotional grant.
//
// @Summary Grant a bonus
// @Description Move a promotional grant from the treasury into a user's wallet
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body MovementRequest true "Movement request"
// @Success 200 {object} common.APIResponse{data=dtos.TransactionResultDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/transactions/bonus [post]
func (h *TransactionHandler) Bonus(c *gin.Context) {
	var req MovementRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.bonus.Execute(c.Request.Context(), dtos.BonusCommand(req))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Purchase debits a user wallet into the treasury.
//
// @Summary Spend from a wallet
// @Description Move funds from a user's wallet into the treasury
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body MovementRequest true "Movement request"
// @Success 200 {object} common.APIResponse{data=dtos.TransactionResultDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse "Insufficient balance"
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/transactions/purchase [post]
func (h *TransactionHandler) Purchase(c *gin.Context) {
	var req MovementRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.purchase.Execute(c.Request.Context(), dtos.PurchaseCommand(req))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// GetTransaction returns a transaction by ID.
//
// @Summary Get transaction by ID
// @Description Get transaction details by UUID
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID" format(uuid)
// @Success 200 {object} common.APIResponse{data=dtos.TransactionDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	var params TransactionIDParam
	if !BindURI(c, &params) {
		return
	}

	if _, err := uuid.Parse(params.ID); err != nil {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: "id", Message: "Invalid UUID format", Code: "uuid"},
		})
		return
	}

	query := dtos.GetTransactionQuery{TransactionID: params.ID}

	result, err := h.getTransaction.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// ListTransactions returns a paginated, filtered transaction list.
//
// @Summary List transactions
// @Description Get paginated list of transactions with optional filters
// @Tags Transactions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20) maximum(100)
// @Param wallet_id query string false "Filter by wallet ID" format(uuid)
// @Param user_id query string false "Filter by user ID" format(uuid)
// @Param type query string false "Filter by type" Enums(TOP_UP, BONUS, PURCHASE)
// @Param status query string false "Filter by status" Enums(PENDING, COMPLETED, FAILED)
// @Success 200 {object} common.APIResponse{data=dtos.TransactionListDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	pagination := ParsePagination(c)

	var filters ListTransactionsParams
	if !BindQuery(c, &filters) {
		return
	}

	query := dtos.ListTransactionsQuery{
		Offset: pagination.Offset(),
		Limit:  pagination.PerPage,
	}

	if filters.WalletID != "" {
		query.WalletID = &filters.WalletID
	}
	if filters.UserID != "" {
		query.UserID = &filters.UserID
	}
	if filters.Type != "" {
		query.Type = &filters.Type
	}
	if filters.Status != "" {
		query.Status = &filters.Status
	}

	result, err := h.listTransactions.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	meta := BuildMeta(pagination, result.TotalCount)
	common.SuccessWithMeta(c, http.StatusOK, result, meta)
}

// GetTransactionByIdempotencyKey returns a transaction by the idempotency
// key it was originally submitted with.
//
// @Summary Get transaction by idempotency key
// @Description Get transaction details by idempotency key (useful for checking duplicates)
// @Tags Transactions
// @Accept json
// @Produce json
// @Param key path string true "Idempotency Key"
// @Success 200 {object} common.APIResponse{data=dtos.TransactionDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/transactions/by-key/{key} [get]
func (h *TransactionHandler) GetTransactionByIdempotencyKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: "key", Message: "Idempotency key is required", Code: "required"},
		})
		return
	}

	query := dtos.GetTransactionByIdempotencyKeyQuery{IdempotencyKey: key}

	result, err := h.getByIdempotencyKey.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// GetWalletTransactions returns the transactions touching a specific wallet.
//
// @Summary Get wallet transactions
// @Description Get paginated list of transactions for a specific wallet
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "Wallet ID" format(uuid)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20) maximum(100)
// @Param type query string false "Filter by type" Enums(TOP_UP, BONUS, PURCHASE)
// @Param status query string false "Filter by status" Enums(PENDING, COMPLETED, FAILED)
// @Success 200 {object} common.APIResponse{data=dtos.TransactionListDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/wallets/{id}/transactions [get]
func (h *TransactionHandler) GetWalletTransactions(c *gin.Context) {
	walletID := c.Param("id") // Uses :id to match other wallet routes
	if walletID == "" {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: "id", Message: "Wallet ID is required", Code: "required"},
		})
		return
	}

	if _, err := uuid.Parse(walletID); err != nil {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: "wallet_id", Message: "Invalid UUID format", Code: "uuid"},
		})
		return
	}

	pagination := ParsePagination(c)

	var filters ListTransactionsParams
	if !BindQuery(c, &filters) {
		return
	}

	query := dtos.ListTransactionsQuery{
		WalletID: &walletID,
		Offset:   pagination.Offset(),
		Limit:    pagination.PerPage,
	}

	if filters.Type != "" {
		query.Type = &filters.Type
	}
	if filters.Status != "" {
		query.Status = &filters.Status
	}

	result, err := h.listTransactions.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	meta := BuildMeta(pagination, result.TotalCount)
	common.SuccessWithMeta(c, http.StatusOK, result, meta)
}

// RegisterRoutes registers routes for TransactionHandler.
//
// Routes:
//   - POST   /transactions/top-up        - Top up a wallet from the treasury
//   - POST   /transactions/bonus         - Grant a bonus from the treasury
//   - POST   /transactions/purchase      - Spend from a wallet into the treasury
//   - GET    /transactions               - List transactions
//   - GET    /transactions/:id           - Get transaction by ID
//   - GET    /transactions/by-key/:key   - Get transaction by idempotency key
func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/transactions")
	{
		transactions.POST("/top-up", h.TopUp)
		transactions.POST("/bonus", h.Bonus)
		transactions.POST("/purchase", h.Purchase)
		transactions.GET("", h.ListTransactions)
		transactions.GET("/:id", h.GetTransaction)
		transactions.GET("/by-key/:key", h.GetTransactionByIdempotencyKey)
	}
}

// RegisterWalletTransactionsRoute registers the wallet-scoped transactions route.
//
// Route: GET /wallets/:id/transactions
func (h *TransactionHandler) RegisterWalletTransactionsRoute(walletRoutes *gin.RouterGroup) {
	walletRoutes.GET("/:id/transactions", h.GetWalletTransactions)
}
