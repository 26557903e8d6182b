package checkout

import (
	"context"
	"time"
)

// SessionMetadata チェックアウトセッションに埋め込むメタデータ
//
// Checkout Initiatorが書き込み、Webhook Dispatcherが読み出す契約。
// AppIDはマルチテナントのイベントバス上でこのアプリケーションの
// 名前空間を識別する定数。
type SessionMetadata struct {
	TransactionID string
	AppID         string
}

// Session 外部決済プロセッサが発行したチェックアウトセッション
type Session struct {
	SessionID   string
	RedirectURL string
}

// CreateSessionParams チェックアウトセッション作成パラメータ
type CreateSessionParams struct {
	ProductName string
	Amount      int64 // 最小通貨単位の整数値
	Currency    string
	SuccessURL  string
	CancelURL   string
	ExpiresAt   time.Time
	Metadata    SessionMetadata
}

// Gateway 外部決済プロセッサへのゲートウェイインターフェース
//
// グローバルに構築されたクライアントではなく、明示的に注入された
// ハンドルとしてCheckout InitiatorとWebhook Dispatcherに渡される。
type Gateway interface {
	// CreateSession チェックアウトセッションを作成する
	//
	// 単一のラインアイテム（quantity 1）、固定通貨、
	// 有効期限付きのセッションを開き、リダイレクト先URLを返す。
	CreateSession(ctx context.Context, params *CreateSessionParams) (*Session, error)

	// SessionMetadataByPaymentIntent 決済インテントIDから
	// 関連するセッションのメタデータを取得する
	//
	// 通常の失敗し得るRPCとして扱い、リトライはこの層では行わない。
	SessionMetadataByPaymentIntent(ctx context.Context, paymentIntentID string) (*SessionMetadata, error)
}

// EventVerifier Webhookイベント通知の検証インターフェース
type EventVerifier interface {
	// VerifyEvent 生のリクエストボディと署名ヘッダーからイベントを検証・解析する
	//
	// 署名の再計算は無変換のボディバイト列に対して行う。検証前に
	// ボディを構造化データとして解析してはならない（再シリアライズした
	// ボディに対する署名検証は偽造の余地を残すため）。署名不一致や
	// 不正なヘッダーはErrInvalidSignatureを返す。
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}
