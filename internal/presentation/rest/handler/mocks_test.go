package handler

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"credit-server/internal/domain/checkout"
	"credit-server/internal/domain/credit"
	"credit-server/internal/domain/plan"
	"credit-server/internal/domain/transaction"
)

// MockPlanRepository モックプランリポジトリ
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*plan.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindByID(ctx context.Context, planID string) (*plan.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

// MockTransactionRepository モックトランザクションリポジトリ
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SettleUnpaid(ctx context.Context, tx *sql.Tx, transactionID string) (*transaction.Transaction, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

// MockCreditRepository モッククレジット残高リポジトリ
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) Increment(ctx context.Context, tx *sql.Tx, userID string, amount int64) error {
	args := m.Called(ctx, tx, userID, amount)
	return args.Error(0)
}

func (m *MockCreditRepository) FindByUserID(ctx context.Context, userID string) (*credit.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.Balance), args.Error(1)
}

// MockGateway モック決済ゲートウェイ
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSession(ctx context.Context, params *checkout.CreateSessionParams) (*checkout.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockGateway) SessionMetadataByPaymentIntent(ctx context.Context, paymentIntentID string) (*checkout.SessionMetadata, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.SessionMetadata), args.Error(1)
}

// MockEventVerifier モックイベント検証器
type MockEventVerifier struct {
	mock.Mock
}

func (m *MockEventVerifier) VerifyEvent(payload []byte, signatureHeader string) (*checkout.Event, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Event), args.Error(1)
}

// MockTransactionManager モックトランザクションマネージャー
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	m.Called(ctx, fn)
	// 実際のトランザクションは使わず、関数を直接実行
	if fn != nil {
		return fn(nil)
	}
	return nil
}
