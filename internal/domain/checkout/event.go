package checkout

// EventKind 検証済みWebhookイベントの種別
//
// 既知の種別と包括的なcatch-allからなるタグ付きバリアント。
// 上流が新しいイベント種別を追加してもEventKindOtherに落ちて
// no-op/確認応答となり、前方互換が保たれる。
type EventKind int

const (
	// EventKindOther 関心のないイベント種別（安全な既定値）
	EventKindOther EventKind = iota
	// EventKindPaymentSucceeded 決済成功イベント
	EventKindPaymentSucceeded
)

// String 文字列表現を返す
func (k EventKind) String() string {
	switch k {
	case EventKindPaymentSucceeded:
		return "payment_succeeded"
	default:
		return "other"
	}
}

// Event 署名検証済みのWebhookイベント
type Event struct {
	kind            EventKind
	eventType       string // 上流が報告したイベント種別の生の文字列（ログ用）
	paymentIntentID string
}

// NewPaymentSucceededEvent 決済成功イベントを作成
func NewPaymentSucceededEvent(eventType, paymentIntentID string) *Event {
	return &Event{
		kind:            EventKindPaymentSucceeded,
		eventType:       eventType,
		paymentIntentID: paymentIntentID,
	}
}

// NewOtherEvent 関心のないイベントを作成
func NewOtherEvent(eventType string) *Event {
	return &Event{
		kind:      EventKindOther,
		eventType: eventType,
	}
}

// Kind イベント種別を返す
func (e *Event) Kind() EventKind {
	return e.kind
}

// EventType 上流のイベント種別文字列を返す
func (e *Event) EventType() string {
	return e.eventType
}

// PaymentIntentID 決済インテントIDを返す（EventKindPaymentSucceededのみ）
func (e *Event) PaymentIntentID() string {
	return e.paymentIntentID
}
