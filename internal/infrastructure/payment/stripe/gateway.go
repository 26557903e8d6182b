package stripe

import (
	"context"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-server/internal/domain/checkout"
)

// Gateway Stripe Checkout APIを使った決済ゲートウェイ実装
//
// クライアントはグローバルキーではなく明示的に注入する。
type Gateway struct {
	api    *client.API
	tracer trace.Tracer
}

// NewGateway 新しいGatewayを作成
func NewGateway(secretKey string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return NewGatewayWithClient(api)
}

// NewGatewayWithClient 構築済みクライアントでGatewayを作成（テスト用）
func NewGatewayWithClient(api *client.API) *Gateway {
	return &Gateway{
		api:    api,
		tracer: otel.Tracer("stripe-gateway"),
	}
}

// CreateSession チェックアウトセッションを作成する
//
// 単一ラインアイテム（quantity 1）の一回払いセッションを開き、
// トランザクションIDとアプリケーションIDをメタデータに埋め込む。
func (g *Gateway) CreateSession(ctx context.Context, params *checkout.CreateSessionParams) (*checkout.Session, error) {
	ctx, span := g.tracer.Start(ctx, "StripeGateway.CreateSession")
	defer span.End()

	span.SetAttributes(
		attribute.String("stripe.product_name", params.ProductName),
		attribute.Int64("stripe.amount", params.Amount),
		attribute.String("stripe.currency", params.Currency),
		attribute.String("stripe.transaction_id", params.Metadata.TransactionID),
	)

	sessionParams := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(params.SuccessURL),
		CancelURL:  stripeapi.String(params.CancelURL),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(params.Currency),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(params.ProductName),
					},
					UnitAmount: stripeapi.Int64(params.Amount),
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		Metadata: map[string]string{
			"transactionId": params.Metadata.TransactionID,
			"appId":         params.Metadata.AppID,
		},
		ExpiresAt: stripeapi.Int64(params.ExpiresAt.Unix()),
	}
	sessionParams.Context = ctx

	sess, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", checkout.ErrSessionCreateFailed, err)
	}

	span.SetAttributes(attribute.String("stripe.session_id", sess.ID))
	span.SetStatus(otelcodes.Ok, "session created")

	return &checkout.Session{
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

// SessionMetadataByPaymentIntent 決済インテントIDから関連セッションのメタデータを取得する
func (g *Gateway) SessionMetadataByPaymentIntent(ctx context.Context, paymentIntentID string) (*checkout.SessionMetadata, error) {
	ctx, span := g.tracer.Start(ctx, "StripeGateway.SessionMetadataByPaymentIntent")
	defer span.End()

	span.SetAttributes(attribute.String("stripe.payment_intent_id", paymentIntentID))

	listParams := &stripeapi.CheckoutSessionListParams{
		PaymentIntent: stripeapi.String(paymentIntentID),
	}
	listParams.Context = ctx

	iter := g.api.CheckoutSessions.List(listParams)
	for iter.Next() {
		sess := iter.CheckoutSession()
		span.SetAttributes(attribute.String("stripe.session_id", sess.ID))
		span.SetStatus(otelcodes.Ok, "session found")
		return &checkout.SessionMetadata{
			TransactionID: sess.Metadata["transactionId"],
			AppID:         sess.Metadata["appId"],
		}, nil
	}

	if err := iter.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", checkout.ErrSessionLookupFailed, err)
	}

	span.SetStatus(otelcodes.Error, "no session for payment intent")
	return nil, checkout.ErrSessionNotFound
}
