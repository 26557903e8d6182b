package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	purchaseapp "credit-server/internal/application/purchase"
	"credit-server/internal/domain/checkout"
	"credit-server/internal/domain/plan"
	"credit-server/internal/infrastructure/config"
	otelinfra "credit-server/internal/infrastructure/observability/otel"
	restmiddleware "credit-server/internal/presentation/rest/middleware"
)

func newPurchaseEchoForTest(t *testing.T, planRepo *MockPlanRepository, txnRepo *MockTransactionRepository, gateway *MockGateway, userID string) *echo.Echo {
	t.Helper()

	e := echo.New()
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))

	stripeConfig := &config.StripeConfig{
		AppID:         "aidra_chatbot",
		Currency:      "usd",
		SuccessURL:    "http://localhost:3000/loading",
		CancelURL:     "http://localhost:3000/",
		SessionExpiry: 30 * time.Minute,
	}

	service := purchaseapp.NewPurchaseApplicationService(planRepo, txnRepo, gateway, stripeConfig, logger, metrics)
	handler := NewPurchaseHandler(service)

	// 認証ミドルウェアの代わりにuser_idを直接注入
	e.POST("/api/v1/purchase", handler.Purchase, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID != "" {
				c.Set("user_id", userID)
			}
			return next(c)
		}
	})

	return e
}

func TestPurchaseHandler_Purchase(t *testing.T) {
	basicPlan := plan.MustNewPlan("basic", "Basic", 1000, 100, []string{"100 text generations"})

	t.Run("正常系: チェックアウトURLを返す", func(t *testing.T) {
		mockPlanRepo := new(MockPlanRepository)
		mockTxnRepo := new(MockTransactionRepository)
		mockGateway := new(MockGateway)

		mockPlanRepo.On("FindByID", mock.Anything, "basic").Return(basicPlan, nil)
		mockTxnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mockGateway.On("CreateSession", mock.Anything, mock.Anything).Return(&checkout.Session{
			SessionID:   "cs_test_001",
			RedirectURL: "https://checkout.stripe.com/c/pay/cs_test_001",
		}, nil)

		e := newPurchaseEchoForTest(t, mockPlanRepo, mockTxnRepo, mockGateway, "user123")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase", strings.NewReader(`{"planId": "basic"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response PurchaseResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_001", response.URL)
	})

	t.Run("異常系: 存在しないプランIDは400", func(t *testing.T) {
		mockPlanRepo := new(MockPlanRepository)
		mockTxnRepo := new(MockTransactionRepository)
		mockGateway := new(MockGateway)

		mockPlanRepo.On("FindByID", mock.Anything, "enterprise").Return(nil, plan.ErrPlanNotFound)

		e := newPurchaseEchoForTest(t, mockPlanRepo, mockTxnRepo, mockGateway, "user123")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase", strings.NewReader(`{"planId": "enterprise"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var response PurchaseResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.False(t, response.Success)
		assert.Equal(t, "Invalid plan", response.Message)

		mockTxnRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("異常系: セッション作成失敗は502", func(t *testing.T) {
		mockPlanRepo := new(MockPlanRepository)
		mockTxnRepo := new(MockTransactionRepository)
		mockGateway := new(MockGateway)

		mockPlanRepo.On("FindByID", mock.Anything, "basic").Return(basicPlan, nil)
		mockTxnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mockGateway.On("CreateSession", mock.Anything, mock.Anything).Return(nil, checkout.ErrSessionCreateFailed)

		e := newPurchaseEchoForTest(t, mockPlanRepo, mockTxnRepo, mockGateway, "user123")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase", strings.NewReader(`{"planId": "basic"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("異常系: 認証コンテキストがない場合は401", func(t *testing.T) {
		mockPlanRepo := new(MockPlanRepository)
		mockTxnRepo := new(MockTransactionRepository)
		mockGateway := new(MockGateway)

		e := newPurchaseEchoForTest(t, mockPlanRepo, mockTxnRepo, mockGateway, "")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase", strings.NewReader(`{"planId": "basic"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
