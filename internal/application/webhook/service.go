package webhook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-server/internal/domain/checkout"
	"credit-server/internal/domain/credit"
	"credit-server/internal/domain/transaction"
	"credit-server/internal/infrastructure/config"
	otelinfra "credit-server/internal/infrastructure/observability/otel"
)

// WebhookApplicationService 決済イベント処理アプリケーションサービス
//
// 同一イベントの重複配信・順序逆転・他アプリ宛イベントを前提に、
// クレジット付与がちょうど一度だけ起こることを保証する。
type WebhookApplicationService struct {
	verifier        checkout.EventVerifier
	gateway         checkout.Gateway
	transactionRepo transaction.TransactionRepository
	creditRepo      credit.BalanceRepository
	txManager       transaction.TransactionManager
	stripeConfig    *config.StripeConfig
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewWebhookApplicationService 新しいWebhookApplicationServiceを作成
func NewWebhookApplicationService(
	verifier checkout.EventVerifier,
	gateway checkout.Gateway,
	transactionRepo transaction.TransactionRepository,
	creditRepo credit.BalanceRepository,
	txManager transaction.TransactionManager,
	stripeConfig *config.StripeConfig,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *WebhookApplicationService {
	return &WebhookApplicationService{
		verifier:        verifier,
		gateway:         gateway,
		transactionRepo: transactionRepo,
		creditRepo:      creditRepo,
		txManager:       txManager,
		stripeConfig:    stripeConfig,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("webhook-service"),
	}
}

// HandleEvent 署名検証済みイベントを処理する
//
// 検証は生のボディバイト列に対して行い、失敗時は一切の状態変更
// なしにErrInvalidSignatureを返す。決済成功イベントは条件付き
// 更新と残高加算を単一のデータベーストランザクションで実行する。
// 既に支払い済み・未知のトランザクションID・他アプリ宛のイベントは
// すべてOutcomeIgnoredの確認応答となる（再送信は不要）。
func (s *WebhookApplicationService) HandleEvent(ctx context.Context, req *HandleEventRequest) (*HandleEventResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WebhookApplicationService.HandleEvent")
	defer span.End()

	event, err := s.verifier.VerifyEvent(req.Payload, req.SignatureHeader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Warn(ctx, "Webhook signature verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.metrics.RecordWebhookEvent(ctx, "unknown", "invalid_signature")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("event_kind", event.Kind().String()),
		attribute.String("event_type", event.EventType()),
	)

	if event.Kind() != checkout.EventKindPaymentSucceeded {
		s.logger.Info(ctx, "Ignoring webhook event", map[string]interface{}{
			"event_type": event.EventType(),
		})
		s.metrics.RecordWebhookEvent(ctx, event.Kind().String(), "ignored")
		span.SetStatus(otelcodes.Ok, "event ignored")
		return &HandleEventResponse{
			Outcome:   OutcomeIgnored,
			EventType: event.EventType(),
		}, nil
	}

	metadata, err := s.gateway.SessionMetadataByPaymentIntent(ctx, event.PaymentIntentID())
	if err != nil {
		// セッションが見つからない場合もリトライ対象とする
		// （作成直後のセッションがリスト反映前の可能性があるため）
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to resolve session metadata", err, map[string]interface{}{
			"payment_intent_id": event.PaymentIntentID(),
		})
		s.metrics.RecordWebhookEvent(ctx, event.Kind().String(), "lookup_failed")
		return nil, fmt.Errorf("failed to resolve session metadata: %w", err)
	}

	if metadata.AppID != s.stripeConfig.AppID {
		s.logger.Info(ctx, "Ignoring event for another application", map[string]interface{}{
			"app_id":            metadata.AppID,
			"payment_intent_id": event.PaymentIntentID(),
		})
		s.metrics.RecordWebhookEvent(ctx, event.Kind().String(), "foreign_app")
		span.SetStatus(otelcodes.Ok, "event for another application")
		return &HandleEventResponse{
			Outcome:   OutcomeIgnored,
			EventType: event.EventType(),
		}, nil
	}

	span.SetAttributes(attribute.String("transaction_id", metadata.TransactionID))

	var settled *transaction.Transaction
	err = s.txManager.WithTransaction(ctx, func(tx *sql.Tx) error {
		txn, err := s.transactionRepo.SettleUnpaid(ctx, tx, metadata.TransactionID)
		if err != nil {
			return err
		}
		if err := s.creditRepo.Increment(ctx, tx, txn.UserID(), txn.Credits()); err != nil {
			return err
		}
		settled = txn
		return nil
	})
	if err != nil {
		if errors.Is(err, transaction.ErrNoUnpaidTransaction) {
			// 重複配信または未知のID。どちらも確定済みの事実を
			// 変えないため確認応答で十分
			s.logger.Info(ctx, "No unpaid transaction for event", map[string]interface{}{
				"transaction_id": metadata.TransactionID,
			})
			s.metrics.RecordWebhookEvent(ctx, event.Kind().String(), "duplicate")
			span.SetStatus(otelcodes.Ok, "no unpaid transaction")
			return &HandleEventResponse{
				Outcome:   OutcomeIgnored,
				EventType: event.EventType(),
			}, nil
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to settle transaction", err, map[string]interface{}{
			"transaction_id": metadata.TransactionID,
		})
		s.metrics.RecordWebhookEvent(ctx, event.Kind().String(), "storage_failed")
		return nil, fmt.Errorf("failed to settle transaction: %w", err)
	}

	s.metrics.RecordWebhookEvent(ctx, event.Kind().String(), "processed")
	s.metrics.RecordCreditsGranted(ctx, settled.PlanID(), settled.Credits())

	s.logger.Info(ctx, "Credits granted", map[string]interface{}{
		"transaction_id": settled.TransactionID(),
		"user_id":        settled.UserID(),
		"plan_id":        settled.PlanID(),
		"credits":        settled.Credits(),
	})

	span.SetAttributes(
		attribute.String("user_id", settled.UserID()),
		attribute.Int64("credits", settled.Credits()),
	)
	span.SetStatus(otelcodes.Ok, "credits granted")

	return &HandleEventResponse{
		Outcome:       OutcomeProcessed,
		EventType:     event.EventType(),
		TransactionID: settled.TransactionID(),
		UserID:        settled.UserID(),
		Credits:       settled.Credits(),
	}, nil
}
