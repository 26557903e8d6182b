package transaction

import (
	"context"
	"database/sql"
)

// TransactionManager トランザクション管理インターフェース
//
// 支払い済みフラグの更新とクレジット残高の加算を不可分の一単位として
// コミットするための唯一の同期プリミティブ。
type TransactionManager interface {
	// WithTransaction トランザクション内で関数を実行
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}
