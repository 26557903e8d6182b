package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 購入リクエスト数
	PurchaseCount metric.Int64Counter

	// Webhookイベント数（種別・処理結果別）
	WebhookEventCount metric.Int64Counter

	// 付与クレジット総数
	CreditsGranted metric.Int64Counter

	// クレジット残高の分布
	CreditBalance metric.Int64Gauge

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	purchaseCount, err := meter.Int64Counter(
		"purchases_total",
		metric.WithDescription("Total number of purchase requests"),
	)
	if err != nil {
		return nil, err
	}

	webhookEventCount, err := meter.Int64Counter(
		"webhook_events_total",
		metric.WithDescription("Total number of webhook events"),
	)
	if err != nil {
		return nil, err
	}

	creditsGranted, err := meter.Int64Counter(
		"credits_granted_total",
		metric.WithDescription("Total number of credits granted"),
	)
	if err != nil {
		return nil, err
	}

	creditBalance, err := meter.Int64Gauge(
		"credit_balance",
		metric.WithDescription("Credit balance"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PurchaseCount:     purchaseCount,
		WebhookEventCount: webhookEventCount,
		CreditsGranted:    creditsGranted,
		CreditBalance:     creditBalance,
		RequestCount:      requestCount,
		ResponseTime:      responseTime,
		ErrorCount:        errorCount,
	}, nil
}

// RecordPurchase 購入リクエストを記録
func (m *Metrics) RecordPurchase(ctx context.Context, planID string) {
	m.PurchaseCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("plan_id", planID),
		),
	)
}

// RecordWebhookEvent Webhookイベントを記録
func (m *Metrics) RecordWebhookEvent(ctx context.Context, eventKind, outcome string) {
	m.WebhookEventCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("event_kind", eventKind),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordCreditsGranted 付与クレジットを記録
func (m *Metrics) RecordCreditsGranted(ctx context.Context, planID string, credits int64) {
	m.CreditsGranted.Add(ctx, credits,
		metric.WithAttributes(
			attribute.String("plan_id", planID),
		),
	)
}

// RecordCreditBalance クレジット残高を記録
func (m *Metrics) RecordCreditBalance(ctx context.Context, userID string, balance int64) {
	m.CreditBalance.Record(ctx, balance,
		metric.WithAttributes(
			attribute.String("user_id", userID),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
