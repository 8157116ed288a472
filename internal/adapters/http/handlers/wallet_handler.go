// Package handlers - Wallet HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/adapters/http/common"
	"github.com/vinayak20130/ledgervault/internal/adapters/http/middleware"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateWalletUseCase opens a wallet for a (user, asset type) pair.
type CreateWalletUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error)
}

// GetWalletUseCase fetches a wallet by ID.
type GetWalletUseCase interface {
	Execute(ctx context.Context, query dtos.GetWalletQuery) (*dtos.WalletDTO, error)
}

// ListWalletsUseCase fetches a filtered, paginated wallet list.
type ListWalletsUseCase interface {
	Execute(ctx context.Context, query dtos.ListWalletsQuery) (*dtos.WalletListDTO, error)
}

// ============================================
// Wallet Handler
// ============================================

// WalletHandler handles HTTP requests for wallet provisioning and lookup.
// Balance movement (TOP_UP, BONUS, PURCHASE) is exposed on TransactionHandler
// instead — a wallet's balance never changes except through the Transaction
// Executor.
type WalletHandler struct {
	createWallet CreateWalletUseCase
	getWallet    GetWalletUseCase
	listWallets  ListWalletsUseCase
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	createWallet CreateWalletUseCase,
	getWallet GetWalletUseCase,
	listWallets ListWalletsUseCase,
) *WalletHandler {
	return &WalletHandler{
		createWallet: createWallet,
		getWallet:    getWallet,
		listWallets:  listWallets,
	}
}

// ============================================
// Request DTOs
// ============================================

// CreateWalletRequest is the request body to open a new wallet.
//
// @Description Create wallet request body
type CreateWalletRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	AssetType string `json:"asset_type" binding:"required,asset_type_code"`
}

// WalletIDParam is the wallet ID path parameter.
type WalletIDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListWalletsParams filters a wallet list query.
type ListWalletsParams struct {
	UserID    string `form:"user_id" binding:"omitempty,uuid"`
	AssetType string `form:"asset_type" binding:"omitempty,asset_type_code"`
}

// ============================================
// HTTP Handlers
// ============================================

// CreateWallet opens a new wallet.
//
// @Summary Create a new wallet
// @Description Open a new wallet for a user in a given asset type
// @Tags Wallets
// @Accept json
// @Produce json
// @Param request body CreateWalletRequest true "Wallet data"
// @Success 201 {object} common.APIResponse{data=dtos.WalletDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse "User not found"
// @Failure 409 {object} common.APIResponse "Wallet already exists"
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if !BindJSON(c, &req) {
		return
	}

	cmd := dtos.CreateWalletCommand{
		UserID:    req.UserID,
		AssetType: req.AssetType,
	}

	result, err := h.createWallet.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// GetWallet returns a wallet by ID.
//
// @Summary Get wallet by ID
// @Description Get wallet details by UUID
// @Tags Wallets
// @Accept json
// @Produce json
// @Param id path string true "Wallet ID" format(uuid)
// @Success 200 {object} common.APIResponse{data=dtos.WalletDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/wallets/{id} [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	var params WalletIDParam
	if !BindURI(c, &params) {
		return
	}

	if _, err := uuid.Parse(params.ID); err != nil {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: "id", Message: "Invalid UUID format", Code: "uuid"},
		})
		return
	}

	query := dtos.GetWalletQuery{WalletID: params.ID}

	result, err := h.getWallet.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// ListWallets returns a paginated, filtered wallet list.
//
// @Summary List wallets
// @Description Get paginated list of wallets with optional filters
// @Tags Wallets
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20) maximum(100)
// @Param user_id query string false "Filter by user ID" format(uuid)
// @Param asset_type query string false "Filter by asset type"
// @Success 200 {object} common.APIResponse{data=dtos.WalletListDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/wallets [get]
func (h *WalletHandler) ListWallets(c *gin.Context) {
	pagination := ParsePagination(c)

	var filters ListWalletsParams
	if !BindQuery(c, &filters) {
		return
	}

	query := dtos.ListWalletsQuery{
		Offset: pagination.Offset(),
		Limit:  pagination.PerPage,
	}

	if filters.UserID != "" {
		query.UserID = &filters.UserID
	}
	if filters.AssetType != "" {
		query.AssetType = &filters.AssetType
	}

	result, err := h.listWallets.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	meta := BuildMeta(pagination, result.TotalCount)
	common.SuccessWithMeta(c, http.StatusOK, result, meta)
}

// GetMyWallets returns the wallets of the authenticated user.
//
// @Summary Get my wallets
// @Description Get wallets of the authenticated user
// @Tags Wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=dtos.WalletListDTO}
// @Failure 401 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/wallets/me [get]
func (h *WalletHandler) GetMyWallets(c *gin.Context) {
	userID := middleware.GetAuthUserID(c)
	if userID == uuid.Nil {
		common.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	userIDStr := userID.String()
	query := dtos.ListWalletsQuery{
		UserID: &userIDStr,
		Offset: 0,
		Limit:  100, // a user is expected to hold at most one wallet per asset type
	}

	result, err := h.listWallets.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// RegisterRoutes registers routes for WalletHandler.
//
// Routes:
//   - POST   /wallets      - Create wallet
//   - GET    /wallets      - List wallets
//   - GET    /wallets/me   - Get my wallets (authenticated)
//   - GET    /wallets/:id  - Get wallet by ID
func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) *gin.RouterGroup {
	wallets := router.Group("/wallets")
	{
		wallets.POST("", h.CreateWallet)
		wallets.GET("", h.ListWallets)
		wallets.GET("/me", h.GetMyWallets)
		wallets.GET("/:id", h.GetWallet)
	}
	return wallets
}
