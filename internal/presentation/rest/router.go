package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	authapp "credit-server/internal/application/auth"
	historyapp "credit-server/internal/application/history"
	plansapp "credit-server/internal/application/plans"
	purchaseapp "credit-server/internal/application/purchase"
	webhookapp "credit-server/internal/application/webhook"
	"credit-server/internal/infrastructure/config"
	otelinfra "credit-server/internal/infrastructure/observability/otel"
	"credit-server/internal/presentation/rest/handler"
	restmiddleware "credit-server/internal/presentation/rest/middleware"
)

// Router REST APIルーター
type Router struct {
	echo            *echo.Echo
	planHandler     *handler.PlanHandler
	purchaseHandler *handler.PurchaseHandler
	webhookHandler  *handler.WebhookHandler
	creditHandler   *handler.CreditHandler
	authHandler     *handler.AuthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	planService *plansapp.PlanApplicationService,
	purchaseService *purchaseapp.PurchaseApplicationService,
	webhookService *webhookapp.WebhookApplicationService,
	historyService *historyapp.HistoryApplicationService,
	authService *authapp.AuthApplicationService,
) (*Router, error) {
	e := echo.New()

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	planHandler := handler.NewPlanHandler(planService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	creditHandler := handler.NewCreditHandler(historyService)
	authHandler := handler.NewAuthHandler(authService)

	// ルーティングの設定
	setupRoutes(e, cfg, logger, planHandler, purchaseHandler, webhookHandler, creditHandler, authHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:            e,
		planHandler:     planHandler,
		purchaseHandler: purchaseHandler,
		webhookHandler:  webhookHandler,
		creditHandler:   creditHandler,
		authHandler:     authHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// CORS設定
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // 本番環境では適切に設定
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// セキュリティヘッダー
	e.Use(restmiddleware.SecurityHeadersMiddleware())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	planHandler *handler.PlanHandler,
	purchaseHandler *handler.PurchaseHandler,
	webhookHandler *handler.WebhookHandler,
	creditHandler *handler.CreditHandler,
	authHandler *handler.AuthHandler,
) {
	// 決済イベント通知（ルート直下、認証グループ外）。署名検証が
	// 認証を兼ねるため、ボディに触れるミドルウェアを挟まない
	e.POST("/payment-events", webhookHandler.HandleEvent)

	// API v1グループ
	api := e.Group("/api/v1")

	// 認証不要のエンドポイント
	api.GET("/plans", planHandler.ListPlans)
	api.POST("/auth/token", authHandler.GenerateToken)

	// 認証が必要なエンドポイント
	authGroup := api.Group("", restmiddleware.AuthMiddleware(&cfg.JWT, logger))
	authGroup.POST("/purchase", purchaseHandler.Purchase)
	authGroup.GET("/me/credits", creditHandler.GetCredits)
	authGroup.GET("/me/transactions", creditHandler.GetTransactions)

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown サーバーをシャットダウン
func (r *Router) Shutdown() error {
	return r.echo.Close()
}
