package history

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-server/internal/domain/credit"
	"credit-server/internal/domain/transaction"
	otelinfra "credit-server/internal/infrastructure/observability/otel"
)

const (
	// DefaultLimit デフォルトの取得件数
	DefaultLimit = 20
	// MaxLimit 最大取得件数
	MaxLimit = 100
)

// HistoryApplicationService 残高・購入履歴照会アプリケーションサービス
type HistoryApplicationService struct {
	creditRepo      credit.BalanceRepository
	transactionRepo transaction.TransactionRepository
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewHistoryApplicationService 新しいHistoryApplicationServiceを作成
func NewHistoryApplicationService(
	creditRepo credit.BalanceRepository,
	transactionRepo transaction.TransactionRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *HistoryApplicationService {
	return &HistoryApplicationService{
		creditRepo:      creditRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("history-service"),
	}
}

// GetBalance 現在のクレジット残高を取得
//
// 残高行がまだ存在しないユーザーは残高0として扱う。
func (s *HistoryApplicationService) GetBalance(ctx context.Context, req *GetBalanceRequest) (*GetBalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetBalance")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", req.UserID))

	balance, err := s.creditRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, credit.ErrBalanceNotFound) {
			span.SetStatus(otelcodes.Ok, "no balance row, treated as zero")
			return &GetBalanceResponse{
				UserID:  req.UserID,
				Credits: 0,
			}, nil
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to find balance", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		return nil, fmt.Errorf("failed to find balance: %w", err)
	}

	s.metrics.RecordCreditBalance(ctx, req.UserID, balance.Balance())

	span.SetAttributes(attribute.Int64("credits", balance.Balance()))
	span.SetStatus(otelcodes.Ok, "balance found")

	return &GetBalanceResponse{
		UserID:  req.UserID,
		Credits: balance.Balance(),
	}, nil
}

// GetTransactions 購入履歴を新しい順に取得
func (s *HistoryApplicationService) GetTransactions(ctx context.Context, req *GetTransactionsRequest) (*GetTransactionsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetTransactions")
	defer span.End()

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	transactions, err := s.transactionRepo.FindByUserID(ctx, req.UserID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to find transactions", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}

	dtos := make([]*TransactionDTO, 0, len(transactions))
	for _, txn := range transactions {
		dtos = append(dtos, &TransactionDTO{
			TransactionID: txn.TransactionID(),
			PlanID:        txn.PlanID(),
			Amount:        txn.Amount(),
			Credits:       txn.Credits(),
			IsPaid:        txn.Paid(),
			CreatedAt:     txn.CreatedAt(),
		})
	}

	span.SetAttributes(attribute.Int("transaction_count", len(dtos)))
	span.SetStatus(otelcodes.Ok, "transactions found")

	return &GetTransactionsResponse{
		UserID:       req.UserID,
		Transactions: dtos,
		Limit:        limit,
		Offset:       offset,
	}, nil
}
