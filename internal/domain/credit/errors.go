package credit

import "errors"

var (
	// ErrBalanceNotFound 残高が見つからないエラー
	ErrBalanceNotFound = errors.New("balance not found")
)
