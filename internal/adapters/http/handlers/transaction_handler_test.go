package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	domerrors "github.com/vinayak20130/ledgervault/internal/domain/errors"
)

// ============================================
// Mock Use Cases
// ============================================

type mockTopUpUseCase struct {
	ExecuteFn func(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransactionResultDTO, error)
}

func (m *mockTopUpUseCase) Execute(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransactionResultDTO, error) {
	return m.ExecuteFn(ctx, cmd)
}

type mockBonusUseCase struct {
	ExecuteFn func(ctx context.Context, cmd dtos.BonusCommand) (*dtos.TransactionResultDTO, error)
}

func (m *mockBonusUseCase) Execute(ctx context.Context, cmd dtos.BonusCommand) (*dtos.TransactionResultDTO, error) {
	return m.ExecuteFn(ctx, cmd)
}

type mockPurchaseUseCase struct {
	ExecuteFn func(ctx context.Context, cmd dtos.PurchaseCommand) (*dtos.TransactionResultDTO, error)
}

func (m *mockPurchaseUseCase) Execute(ctx context.Context, cmd dtos.PurchaseCommand) (*dtos.TransactionResultDTO, error) {
	return m.ExecuteFn(ctx, cmd)
}

type mockGetTransactionUseCase struct {
	ExecuteFn func(ctx context.Context, query dtos.GetTransactionQuery) (*dtos.TransactionDTO, error)
}

func (m *mockGetTransactionUseCase) Execute(ctx context.Context, query dtos.GetTransactionQuery) (*dtos.TransactionDTO, error) {
	return m.ExecuteFn(ctx, query)
}

type mockListTransactionsUseCase struct {
	ExecuteFn func(ctx context.Context, query dtos.ListTransactionsQuery) (*dtos.TransactionListDTO, error)
}

func (m *mockListTransactionsUseCase) Execute(ctx context.Context, query dtos.ListTransactionsQuery) (*dtos.TransactionListDTO, error) {
	return m.ExecuteFn(ctx, query)
}

type mockGetTransactionByIdempotencyKeyUseCase struct {
	ExecuteFn func(ctx context.Context, query dtos.GetTransactionByIdempotencyKeyQuery) (*dtos.TransactionDTO, error)
}

func (m *mockGetTransactionByIdempotencyKeyUseCase) Execute(ctx context.Context, query dtos.GetTransactionByIdempotencyKeyQuery) (*dtos.TransactionDTO, error) {
	return m.ExecuteFn(ctx, query)
}

// ============================================
// Helper Functions
// ============================================

func setupTransactionTestRouter(handler *TransactionHandler) *gin.Engine {
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func newTestMovementRequest() MovementRequest {
	return MovementRequest{
		UserID:         uuid.New().String(),
		AssetType:      "USD",
		Amount:         "25.0000",
		IdempotencyKey: uuid.New().String(),
	}
}

// ============================================
// Test Cases
// ============================================

func TestNewTransactionHandler(t *testing.T) {
	handler := NewTransactionHandler(nil, nil, nil, nil, nil, nil)
	assert.NotNil(t, handler)
}

func TestTransactionHandler_TopUp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		req := newTestMovementRequest()

		mockUseCase := &mockTopUpUseCase{
			ExecuteFn: func(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransactionResultDTO, error) {
				assert.Equal(t, req.UserID, cmd.UserID)
				assert.Equal(t, req.Amount, cmd.Amount)
				return &dtos.TransactionResultDTO{
					Transaction: dtos.TransactionDTO{
						ID:     uuid.New().String(),
						Type:   "TOP_UP",
						Status: "COMPLETED",
						Amount: req.Amount,
					},
				}, nil
			},
		}

		handler := NewTransactionHandler(mockUseCase, nil, nil, nil, nil, nil)
		router := setupTransactionTestRouter(handler)

		body, _ := json.Marshal(req)
		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/top-up", bytes.NewBuffer(body))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingIdempotencyKey", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTopUpUseCase{}, nil, nil, nil, nil, nil)
		router := setupTransactionTestRouter(handler)

		body, _ := json.Marshal(MovementRequest{
			UserID:    uuid.New().String(),
			AssetType: "USD",
			Amount:    "25.0000",
		})
		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/top-up", bytes.NewBuffer(body))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("WalletNotFound", func(t *testing.T) {
		mockUseCase := &mockTopUpUseCase{
			ExecuteFn: func(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransactionResultDTO, error) {
				return nil, domerrors.NewDomainError("WALLET_NOT_FOUND", "wallet not found", domerrors.ErrEntityNotFound)
			},
		}

		handler := NewTransactionHandler(mockUseCase, nil, nil, nil, nil, nil)
		router := setupTransactionTestRouter(handler)

		body, _ := json.Marshal(newTestMovementRequest())
		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/top-up", bytes.NewBuffer(body))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTransactionHandler_Bonus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockUseCase := &mockBonusUseCase{
			ExecuteFn: func(ctx context.Context, cmd dtos.BonusCommand) (*dtos.TransactionResultDTO, error) {
				return &dtos.TransactionResultDTO{
					Transaction: dtos.TransactionDTO{ID: uuid.New().String(), Type: "BONUS", Status: "COMPLETED"},
				}, nil
			},
		}

		handler := NewTransactionHandler(nil, mockUseCase, nil, nil, nil, nil)
		router := setupTransactionTestRouter(handler)

		body, _ := json.Marshal(newTestMovementRequest())
		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/bonus", bytes.NewBuffer(body))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTransactionHandler_Purchase(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockUseCase := &mockPurchaseUseCase{
			ExecuteFn: func(ctx context.Context, cmd dtos.PurchaseCommand) (*dtos.TransactionResultDTO, error) {
				return &dtos.TransactionResultDTO{
					Transaction: dtos.TransactionDTO{ID: uuid.New().String(), Type: "PURCHASE", Status: "COMPLETED"},
				}, nil
			},
		}

		handler := NewTransactionHandler(nil, nil, mockUseCase, nil, nil, nil)
		router := setupTransactionTestRouter(handler)

		body, _ := json.Marshal(newTestMovementRequest())
		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/purchase", bytes.NewBuffer(body))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		mockUseCase := &mockPurchaseUseCase{
			ExecuteFn: func(ctx context.Context, cmd dtos.PurchaseCommand) (*dtos.TransactionResultDTO, error) {
				return nil, domerrors.NewDomainError("INSUFFICIENT_BALANCE", "wallet balance too low", nil)
			},
		}

		handler := NewTransactionHandler(nil, nil, mockUseCase, nil, nil, nil)
		router := setupTransactionTestRouter(handler)

		body, _ := json.Marshal(newTestMovementRequest())
		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/purchase", bytes.NewBuffer(body))
		httpReq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		txID := uuid.New().String()

		mockUseCase := &mockGetTransactionUseCase{
			ExecuteFn: func(ctx context.Context, query dtos.GetTransactionQuery) (*dtos.TransactionDTO, error) {
				now := time.Now()
				return &dtos.TransactionDTO{
					ID:          txID,
					Type:        "TOP_UP",
					Status:      "COMPLETED",
					Amount:      "100.0000",
					CreatedAt:   now,
					CompletedAt: &now,
				}, nil
			},
		}

		handler := NewTransactionHandler(nil, nil, nil, mockUseCase, nil, nil)
		router := setupTransactionTestRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+txID, nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.True(t, response["success"].(bool))
	})

	t.Run("InvalidUUID", func(t *testing.T) {
		handler := NewTransactionHandler(nil, nil, nil, &mockGetTransactionUseCase{}, nil, nil)
		router := setupTransactionTestRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/not-a-uuid", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("TransactionNotFound", func(t *testing.T) {
		mockUseCase := &mockGetTransactionUseCase{
			ExecuteFn: func(ctx context.Context, query dtos.GetTransactionQuery) (*dtos.TransactionDTO, error) {
				return nil, domerrors.NewDomainError("TRANSACTION_NOT_FOUND", "transaction not found", domerrors.ErrEntityNotFound)
			},
		}

		handler := NewTransactionHandler(nil, nil, nil, mockUseCase, nil, nil)
		router := setupTransactionTestRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+uuid.New().String(), nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockUseCase := &mockListTransactionsUseCase{
			ExecuteFn: func(ctx context.Context, query dtos.ListTransactionsQuery) (*dtos.TransactionListDTO, error) {
				return &dtos.TransactionListDTO{
					Transactions: []dtos.TransactionDTO{
						{ID: uuid.New().String(), Type: "TOP_UP", Status: "COMPLETED", Amount: "100.0000"},
						{ID: uuid.New().String(), Type: "PURCHASE", Status: "COMPLETED", Amount: "50.0000"},
					},
					TotalCount: 2,
					Offset:     0,
					Limit:      20,
				}, nil
			},
		}

		handler := NewTransactionHandler(nil, nil, nil, nil, mockUseCase, nil)
		router := setupTransactionTestRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.NotNil(t, response["meta"])
	})

	t.Run("WithFilters", func(t *testing.T) {
		mockUseCase := &mockListTransactionsUseCase{
			ExecuteFn: func(ctx context.Context, query dtos.ListTransactionsQuery) (*dtos.TransactionListDTO, error) {
				assert.NotNil(t, query.WalletID)
				assert.NotNil(t, query.Type)
				assert.NotNil(t, query.Status)
				return &dtos.TransactionListDTO{Transactions: []dtos.TransactionDTO{}, TotalCount: 0}, nil
			},
		}

		handler := NewTransactionHandler(nil, nil, nil, nil, mockUseCase, nil)
		router := setupTransactionTestRouter(handler)

		walletID := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?wallet_id="+walletID+"&type=TOP_UP&status=COMPLETED", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTransactionHandler_GetWalletTransactions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		walletID := uuid.New().String()

		mockUseCase := &mockListTransactionsUseCase{
			ExecuteFn: func(ctx context.Context, query dtos.ListTransactionsQuery) (*dtos.TransactionListDTO, error) {
				assert.NotNil(t, query.WalletID)
				assert.Equal(t, walletID, *query.WalletID)
				return &dtos.TransactionListDTO{
					Transactions: []dtos.TransactionDTO{{ID: uuid.New().String(), Type: "TOP_UP"}},
					TotalCount:   1,
				}, nil
			},
		}

		handler := NewTransactionHandler(nil, nil, nil, nil, mockUseCase, nil)
		router := gin.New()

		walletGroup := router.Group("/api/v1/wallets")
		handler.RegisterWalletTransactionsRoute(walletGroup)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+walletID+"/transactions", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidWalletID", func(t *testing.T) {
		handler := NewTransactionHandler(nil, nil, nil, nil, &mockListTransactionsUseCase{}, nil)
		router := gin.New()

		walletGroup := router.Group("/api/v1/wallets")
		handler.RegisterWalletTransactionsRoute(walletGroup)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/not-a-uuid/transactions", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_GetTransactionByIdempotencyKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		key := uuid.New().String()

		mockUseCase := &mockGetTransactionByIdempotencyKeyUseCase{
			ExecuteFn: func(ctx context.Context, query dtos.GetTransactionByIdempotencyKeyQuery) (*dtos.TransactionDTO, error) {
				assert.Equal(t, key, query.IdempotencyKey)
				return &dtos.TransactionDTO{ID: uuid.New().String(), Type: "TOP_UP", Status: "COMPLETED"}, nil
			},
		}

		handler := NewTransactionHandler(nil, nil, nil, nil, nil, mockUseCase)
		router := setupTransactionTestRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/by-key/"+key, nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockUseCase := &mockGetTransactionByIdempotencyKeyUseCase{
			ExecuteFn: func(ctx context.Context, query dtos.GetTransactionByIdempotencyKeyQuery) (*dtos.TransactionDTO, error) {
				return nil, domerrors.NewDomainError("TRANSACTION_NOT_FOUND", "transaction not found", domerrors.ErrEntityNotFound)
			},
		}

		handler := NewTransactionHandler(nil, nil, nil, nil, nil, mockUseCase)
		router := setupTransactionTestRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/by-key/some-key-123", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTransactionHandler_RegisterRoutes(t *testing.T) {
	handler := NewTransactionHandler(nil, nil, nil, nil, nil, nil)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	routes := router.Routes()
	expectedRoutes := []string{
		"POST /api/v1/transactions/top-up",
		"POST /api/v1/transactions/bonus",
		"POST /api/v1/transactions/purchase",
		"GET /api/v1/transactions",
		"GET /api/v1/transactions/:id",
		"GET /api/v1/transactions/by-key/:key",
	}

	assert.Len(t, routes, len(expectedRoutes))

	for _, expected := range expectedRoutes {
		found := false
		for _, route := range routes {
			if route.Method+" "+route.Path == expected {
				found = true
				break
			}
		}
		assert.True(t, found, "Route %s not found", expected)
	}
}
