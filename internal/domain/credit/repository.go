package credit

import (
	"context"
	"database/sql"
)

// BalanceRepository クレジット残高リポジトリインターフェース
type BalanceRepository interface {
	// Increment ユーザーの残高をアトミックに加算する
	//
	// 加算はストア側の算術（balance = balance + amount）で行い、
	// 読み出し→書き込みの分割は行わない。残高行が存在しない場合は
	// amountを初期残高として作成する。呼び出し元のsql.Tx上で実行され、
	// トランザクションの支払い済み遷移と同一単位でコミットされる。
	Increment(ctx context.Context, tx *sql.Tx, userID string, amount int64) error

	// FindByUserID ユーザーIDで残高を取得
	//
	// 残高行が存在しない場合はErrBalanceNotFoundを返す。
	FindByUserID(ctx context.Context, userID string) (*Balance, error)
}
