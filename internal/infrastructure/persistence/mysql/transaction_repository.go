package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-server/internal/domain/transaction"
)

// TransactionRepository MySQL実装のTransactionRepository
type TransactionRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewTransactionRepository 新しいTransactionRepositoryを作成
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		tracer: otel.Tracer("transaction-repository"),
	}
}

// Create 未払いトランザクションを新規保存
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", t.TransactionID()),
		attribute.String("db.user_id", t.UserID()),
		attribute.String("db.plan_id", t.PlanID()),
		attribute.Int64("db.amount", t.Amount()),
		attribute.Int64("db.credits", t.Credits()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		INSERT INTO transactions (
			transaction_id, user_id, plan_id, amount, credits, is_paid, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.TransactionID(),
		t.UserID(),
		t.PlanID(),
		t.Amount(),
		t.Credits(),
		t.Paid(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "transaction created")
	return nil
}

// FindByTransactionID トランザクションIDでトランザクションを取得
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByTransactionID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		SELECT transaction_id, user_id, plan_id, amount, credits, is_paid, created_at, updated_at
		FROM transactions
		WHERE transaction_id = ?
	`

	row := r.db.QueryRowContext(ctx, query, transactionID)
	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "transaction not found")
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "transaction found")
	return txn, nil
}

// FindByUserID ユーザーIDでトランザクション一覧を取得（ページネーション対応）
func (r *TransactionRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByUserID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		SELECT transaction_id, user_id, plan_id, amount, credits, is_paid, created_at, updated_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(transactions)))
	span.SetStatus(otelcodes.Ok, "transactions found")
	return transactions, nil
}

// SettleUnpaid 未払いトランザクションを条件付き更新で支払い済みに遷移させる
//
// UPDATE ... WHERE is_paid = FALSE の行数で遷移の成否を判定する
// （ストアレベルのcompare-and-set）。重複配信が並行して到着しても
// 条件を満たす行は一つしかなく、二本目は0行更新となってno-opに落ちる。
func (r *TransactionRepository) SettleUnpaid(ctx context.Context, tx *sql.Tx, transactionID string) (*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.SettleUnpaid")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		UPDATE transactions
		SET is_paid = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE transaction_id = ? AND is_paid = FALSE
	`

	result, err := tx.ExecContext(ctx, query, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to settle transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// 既に支払い済み、またはIDが未知
		span.SetStatus(otelcodes.Ok, "no unpaid transaction")
		return nil, transaction.ErrNoUnpaidTransaction
	}

	selectQuery := `
		SELECT transaction_id, user_id, plan_id, amount, credits, is_paid, created_at, updated_at
		FROM transactions
		WHERE transaction_id = ?
	`

	row := tx.QueryRowContext(ctx, selectQuery, transactionID)
	txn, err := scanTransaction(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to load settled transaction: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "transaction settled")
	return txn, nil
}

// rowScanner sql.Rowとsql.Rowsの共通スキャンインターフェース
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTransaction 行からTransactionエンティティを復元
func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var (
		transactionID string
		userID        string
		planID        string
		amount        int64
		credits       int64
		isPaid        bool
		createdAt     time.Time
		updatedAt     time.Time
	)

	if err := row.Scan(&transactionID, &userID, &planID, &amount, &credits, &isPaid, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return transaction.Reconstruct(transactionID, userID, planID, amount, credits, isPaid, createdAt, updatedAt), nil
}
