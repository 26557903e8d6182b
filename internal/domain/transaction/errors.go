package transaction

import "errors"

var (
	// ErrTransactionNotFound トランザクションが見つからないエラー
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrAlreadyPaid 既に支払い済みエラー
	ErrAlreadyPaid = errors.New("transaction already paid")
	// ErrNoUnpaidTransaction 未払いトランザクションが存在しないエラー
	//
	// IDが未知の場合と既に支払い済みの場合を区別しない。
	// 重複配信されたWebhookはこのエラーを受けてno-opとして確認応答する。
	ErrNoUnpaidTransaction = errors.New("no unpaid transaction")
	// ErrDuplicateTransactionID 重複トランザクションIDエラー
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")
)
