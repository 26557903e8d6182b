package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "credit-server/internal/application/auth"
	historyapp "credit-server/internal/application/history"
	plansapp "credit-server/internal/application/plans"
	purchaseapp "credit-server/internal/application/purchase"
	webhookapp "credit-server/internal/application/webhook"
	"credit-server/internal/infrastructure/catalog"
	"credit-server/internal/infrastructure/config"
	otelinfra "credit-server/internal/infrastructure/observability/otel"
	stripeinfra "credit-server/internal/infrastructure/payment/stripe"
	"credit-server/internal/infrastructure/persistence/mysql"
	"credit-server/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("credit-server")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("credit-server")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// データベース接続の初期化
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// リポジトリの初期化
	planRepo := catalog.NewPlanCatalog()
	transactionRepo := mysql.NewTransactionRepository(db)
	creditRepo := mysql.NewCreditRepository(db)

	// トランザクションマネージャーの初期化
	txManager := mysql.NewTransactionManager(db)

	// 決済ゲートウェイとWebhook検証器の初期化
	gateway := stripeinfra.NewGateway(cfg.Stripe.SecretKey)
	verifier := stripeinfra.NewEventVerifier(cfg.Stripe.WebhookSecret)

	// アプリケーションサービスの初期化
	planAppService := plansapp.NewPlanApplicationService(
		planRepo,
		logger,
	)

	purchaseAppService := purchaseapp.NewPurchaseApplicationService(
		planRepo,
		transactionRepo,
		gateway,
		&cfg.Stripe,
		logger,
		metrics,
	)

	webhookAppService := webhookapp.NewWebhookApplicationService(
		verifier,
		gateway,
		transactionRepo,
		creditRepo,
		txManager,
		&cfg.Stripe,
		logger,
		metrics,
	)

	historyAppService := historyapp.NewHistoryApplicationService(
		creditRepo,
		transactionRepo,
		logger,
		metrics,
	)

	authAppService := authapp.NewAuthApplicationService(&cfg.JWT, logger)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(
		cfg,
		logger,
		metrics,
		planAppService,
		purchaseAppService,
		webhookAppService,
		historyAppService,
		authAppService,
	)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// サーバーアドレスの設定
	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを起動
	go func() {
		log.Printf("REST API server starting on %s", address)
		if err := router.Start(address); err != nil {
			log.Printf("REST API server error: %v", err)
		}
	}()

	// シグナルを待機
	<-quit
	log.Println("Shutting down server...")

	// グレースフルシャットダウン
	if err := router.Shutdown(); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}

	log.Println("Server stopped")
}
