package transaction

import (
	"errors"
	"regexp"
	"time"
)

var (
	// ErrInvalidTransactionID トランザクションIDが無効
	ErrInvalidTransactionID = errors.New("invalid transaction id")
	// ErrInvalidUserID ユーザーIDが無効
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidPlanID プランIDが無効
	ErrInvalidPlanID = errors.New("invalid plan id")
	// ErrInvalidAmount 金額が無効
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidCredits クレジット数が無効
	ErrInvalidCredits = errors.New("invalid credits")
	// ErrAmountTooLarge 金額が大きすぎる
	ErrAmountTooLarge = errors.New("amount too large")
)

const (
	// MaxAmount 最大金額 (10兆)
	MaxAmount = 10_000_000_000_000
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)
	userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)
	planIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)
)

// Transaction 購入試行を表すエンティティ
//
// 未払い(unpaid)で作成され、Webhook経由での決済確認によって一度だけ
// paidに遷移する。paidからunpaidへは戻らない。金額とクレジット数は
// 作成時点のプランからコピーされ、以後カタログの変更の影響を受けない。
type Transaction struct {
	transactionID string
	userID        string
	planID        string
	amount        int64 // 最小通貨単位の整数値
	credits       int64 // 決済確認時に付与するクレジット数
	paid          bool
	createdAt     time.Time
	updatedAt     time.Time
}

// NewTransaction 新しいTransactionエンティティを未払い状態で作成
func NewTransaction(
	transactionID string,
	userID string,
	planID string,
	amount int64,
	credits int64,
) (*Transaction, error) {
	if !idRegex.MatchString(transactionID) {
		return nil, ErrInvalidTransactionID
	}
	if !userIDRegex.MatchString(userID) {
		return nil, ErrInvalidUserID
	}
	if !planIDRegex.MatchString(planID) {
		return nil, ErrInvalidPlanID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > MaxAmount {
		return nil, ErrAmountTooLarge
	}
	if credits <= 0 || credits > MaxAmount {
		return nil, ErrInvalidCredits
	}

	now := time.Now()
	return &Transaction{
		transactionID: transactionID,
		userID:        userID,
		planID:        planID,
		amount:        amount,
		credits:       credits,
		paid:          false,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct 永続化済みのレコードからTransactionエンティティを復元
func Reconstruct(
	transactionID string,
	userID string,
	planID string,
	amount int64,
	credits int64,
	paid bool,
	createdAt time.Time,
	updatedAt time.Time,
) *Transaction {
	return &Transaction{
		transactionID: transactionID,
		userID:        userID,
		planID:        planID,
		amount:        amount,
		credits:       credits,
		paid:          paid,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// TransactionID トランザクションIDを返す
func (t *Transaction) TransactionID() string {
	return t.transactionID
}

// UserID ユーザーIDを返す
func (t *Transaction) UserID() string {
	return t.userID
}

// PlanID プランIDを返す
func (t *Transaction) PlanID() string {
	return t.planID
}

// Amount 金額（最小通貨単位）を返す
func (t *Transaction) Amount() int64 {
	return t.amount
}

// Credits 付与クレジット数を返す
func (t *Transaction) Credits() int64 {
	return t.credits
}

// Paid 支払い済みかどうかを返す
func (t *Transaction) Paid() bool {
	return t.paid
}

// CreatedAt 作成日時を返す
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt 更新日時を返す
func (t *Transaction) UpdatedAt() time.Time {
	return t.updatedAt
}

// MarkPaid 支払い済みに遷移する
//
// paid=trueは終端状態であり、二度目の呼び出しはErrAlreadyPaidを返す。
// 逆方向の遷移は存在しない。
func (t *Transaction) MarkPaid() error {
	if t.paid {
		return ErrAlreadyPaid
	}
	t.paid = true
	t.updatedAt = time.Now()
	return nil
}

// MustNewTransaction テスト用ヘルパー: NewTransactionを呼び出し、エラーが発生した場合はpanicする
func MustNewTransaction(
	transactionID string,
	userID string,
	planID string,
	amount int64,
	credits int64,
) *Transaction {
	txn, err := NewTransaction(transactionID, userID, planID, amount, credits)
	if err != nil {
		panic(err)
	}
	return txn
}
