package checkout

import "errors"

var (
	// ErrInvalidSignature Webhook署名が無効または欠落
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrSessionCreateFailed チェックアウトセッションの作成失敗
	ErrSessionCreateFailed = errors.New("checkout session create failed")
	// ErrSessionLookupFailed セッションメタデータの取得失敗
	ErrSessionLookupFailed = errors.New("checkout session lookup failed")
	// ErrSessionNotFound 決済インテントに対応するセッションが存在しない
	ErrSessionNotFound = errors.New("checkout session not found")
)
