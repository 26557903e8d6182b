package stripe

import (
	"encoding/json"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"credit-server/internal/domain/checkout"
)

// EventVerifier Stripe Webhook署名の検証実装
type EventVerifier struct {
	webhookSecret string
}

// NewEventVerifier 新しいEventVerifierを作成
func NewEventVerifier(webhookSecret string) *EventVerifier {
	return &EventVerifier{webhookSecret: webhookSecret}
}

// VerifyEvent 生のボディバイト列と署名ヘッダーからイベントを検証・解析する
//
// 署名検証は無変換のボディに対して行う。検証を通過した後にのみ
// ペイロードを解析する。関心のないイベント種別は検証済みの
// catch-allイベントとして返す。
func (v *EventVerifier) VerifyEvent(payload []byte, signatureHeader string) (*checkout.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", checkout.ErrInvalidSignature, err)
	}

	eventType := string(event.Type)

	switch event.Type {
	case stripeapi.EventTypePaymentIntentSucceeded:
		var paymentIntent stripeapi.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			return nil, fmt.Errorf("failed to parse payment intent: %w", err)
		}
		return checkout.NewPaymentSucceededEvent(eventType, paymentIntent.ID), nil
	default:
		return checkout.NewOtherEvent(eventType), nil
	}
}
