package webhook

// Outcome Webhookイベント処理の結果種別
type Outcome string

const (
	// OutcomeProcessed 決済を確定しクレジットを付与した
	OutcomeProcessed Outcome = "processed"
	// OutcomeIgnored 関心のないイベント、他アプリ宛、重複配信などのno-op
	OutcomeIgnored Outcome = "ignored"
)

// HandleEventRequest Webhookイベント処理リクエスト
//
// Payloadは無変換のリクエストボディバイト列。
type HandleEventRequest struct {
	Payload         []byte
	SignatureHeader string
}

// HandleEventResponse Webhookイベント処理レスポンス
type HandleEventResponse struct {
	Outcome       Outcome
	EventType     string
	TransactionID string // OutcomeProcessedのみ
	UserID        string // OutcomeProcessedのみ
	Credits       int64  // OutcomeProcessedのみ
}
