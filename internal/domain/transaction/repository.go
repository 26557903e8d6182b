package transaction

import (
	"context"
	"database/sql"
)

// TransactionRepository トランザクションリポジトリインターフェース
type TransactionRepository interface {
	// Create 未払いトランザクションを新規保存
	Create(ctx context.Context, transaction *Transaction) error

	// FindByTransactionID トランザクションIDでトランザクションを取得
	FindByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)

	// FindByUserID ユーザーIDでトランザクション一覧を取得（ページネーション対応）
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error)

	// SettleUnpaid 未払いトランザクションをストアレベルの条件付き更新で
	// 支払い済みに遷移させ、遷移後のトランザクションを返す
	//
	// 対象行が存在しない、または既に支払い済みの場合はErrNoUnpaidTransactionを
	// 返す。呼び出し元のsql.Tx上で実行され、クレジット残高の加算と同一の
	// トランザクションでコミットされる。アプリケーション側での
	// 取得→検査→保存の分割は二重付与の競合窓になるため行わない。
	SettleUnpaid(ctx context.Context, tx *sql.Tx, transactionID string) (*Transaction, error)
}
