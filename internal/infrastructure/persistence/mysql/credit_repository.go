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

	"credit-server/internal/domain/credit"
)

// CreditRepository MySQL実装のBalanceRepository
type CreditRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewCreditRepository 新しいCreditRepositoryを作成
func NewCreditRepository(db *DB) *CreditRepository {
	return &CreditRepository{
		db:     db,
		tracer: otel.Tracer("credit-repository"),
	}
}

// Increment ユーザーの残高に加算する
//
// 加算はSQL側（balance = balance + ?）で行う。読んで足して書き戻す
// 方式と違い、同一ユーザーへの並行加算でも更新が失われない。
func (r *CreditRepository) Increment(ctx context.Context, tx *sql.Tx, userID string, amount int64) error {
	ctx, span := r.tracer.Start(ctx, "CreditRepository.Increment")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.Int64("db.amount", amount),
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.table", "credit_balances"),
	)

	query := `
		INSERT INTO credit_balances (user_id, balance, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON DUPLICATE KEY UPDATE
			balance = balance + VALUES(balance),
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := tx.ExecContext(ctx, query, userID, amount); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to increment balance: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "balance incremented")
	return nil
}

// FindByUserID ユーザーIDで残高を取得
func (r *CreditRepository) FindByUserID(ctx context.Context, userID string) (*credit.Balance, error) {
	ctx, span := r.tracer.Start(ctx, "CreditRepository.FindByUserID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "credit_balances"),
	)

	query := `
		SELECT user_id, balance, created_at, updated_at
		FROM credit_balances
		WHERE user_id = ?
	`

	var (
		uid       string
		balance   int64
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&uid, &balance, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "balance not found")
		return nil, credit.ErrBalanceNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find balance: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.balance", balance))
	span.SetStatus(otelcodes.Ok, "balance found")
	return credit.Reconstruct(uid, balance, createdAt, updatedAt), nil
}
