package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-server/internal/domain/checkout"
	"credit-server/internal/domain/plan"
	"credit-server/internal/domain/transaction"
	"credit-server/internal/infrastructure/config"
	otelinfra "credit-server/internal/infrastructure/observability/otel"
)

// PurchaseApplicationService プラン購入アプリケーションサービス
type PurchaseApplicationService struct {
	planRepo        plan.PlanRepository
	transactionRepo transaction.TransactionRepository
	gateway         checkout.Gateway
	stripeConfig    *config.StripeConfig
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
	now             func() time.Time
}

// NewPurchaseApplicationService 新しいPurchaseApplicationServiceを作成
func NewPurchaseApplicationService(
	planRepo plan.PlanRepository,
	transactionRepo transaction.TransactionRepository,
	gateway checkout.Gateway,
	stripeConfig *config.StripeConfig,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *PurchaseApplicationService {
	return &PurchaseApplicationService{
		planRepo:        planRepo,
		transactionRepo: transactionRepo,
		gateway:         gateway,
		stripeConfig:    stripeConfig,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("purchase-service"),
		now:             time.Now,
	}
}

// Purchase プラン購入を開始する
//
// 未払いトランザクションを保存してからチェックアウトセッションを
// 開く。セッション作成に失敗した場合、未払い行は残るが請求は
// 発生しない（放置しても無害で、掃除はバッチの責務）。
func (s *PurchaseApplicationService) Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseApplicationService.Purchase")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("plan_id", req.PlanID),
	)

	s.logger.Info(ctx, "Starting plan purchase", map[string]interface{}{
		"user_id": req.UserID,
		"plan_id": req.PlanID,
	})

	p, err := s.planRepo.FindByID(ctx, req.PlanID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Warn(ctx, "Plan not found", map[string]interface{}{
			"user_id": req.UserID,
			"plan_id": req.PlanID,
		})
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	transactionID := uuid.NewString()

	txn, err := transaction.NewTransaction(transactionID, req.UserID, p.PlanID(), p.Price(), p.Credits())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to save transaction", err, map[string]interface{}{
			"user_id":        req.UserID,
			"transaction_id": transactionID,
		})
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	session, err := s.gateway.CreateSession(ctx, &checkout.CreateSessionParams{
		ProductName: p.Name(),
		Amount:      p.Price(),
		Currency:    s.stripeConfig.Currency,
		SuccessURL:  s.stripeConfig.SuccessURL,
		CancelURL:   s.stripeConfig.CancelURL,
		ExpiresAt:   s.now().Add(s.stripeConfig.SessionExpiry),
		Metadata: checkout.SessionMetadata{
			TransactionID: transactionID,
			AppID:         s.stripeConfig.AppID,
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to create checkout session", err, map[string]interface{}{
			"user_id":        req.UserID,
			"transaction_id": transactionID,
		})
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.metrics.RecordPurchase(ctx, p.PlanID())

	span.SetAttributes(
		attribute.String("transaction_id", transactionID),
		attribute.String("session_id", session.SessionID),
	)
	span.SetStatus(otelcodes.Ok, "purchase started")

	s.logger.Info(ctx, "Plan purchase started", map[string]interface{}{
		"user_id":        req.UserID,
		"plan_id":        p.PlanID(),
		"transaction_id": transactionID,
		"session_id":     session.SessionID,
	})

	return &PurchaseResponse{
		TransactionID: transactionID,
		SessionID:     session.SessionID,
		RedirectURL:   session.RedirectURL,
	}, nil
}
