package credit

import (
	"errors"
	"regexp"
	"time"
)

var (
	// ErrInvalidUserID ユーザーIDが無効
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidAmount 無効な金額エラー
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrBalanceOutOfRange 残高が範囲外
	ErrBalanceOutOfRange = errors.New("balance out of range")
)

const (
	// MaxBalance 最大残高 (10兆)
	MaxBalance = 10_000_000_000_000
)

var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)

// Balance ユーザーごとのクレジット残高エンティティ
//
// この購買コアでは残高は増えるだけで、減算は消費側の責務。
type Balance struct {
	userID    string
	balance   int64 // 整数値（小数点なし）
	createdAt time.Time
	updatedAt time.Time
}

// NewBalance 新しいBalanceエンティティを作成
func NewBalance(userID string, balance int64) (*Balance, error) {
	if !userIDRegex.MatchString(userID) {
		return nil, ErrInvalidUserID
	}
	if balance < 0 || balance > MaxBalance {
		return nil, ErrBalanceOutOfRange
	}
	return &Balance{
		userID:  userID,
		balance: balance,
	}, nil
}

// Reconstruct データベースから取得したデータでBalanceエンティティを復元
func Reconstruct(userID string, balance int64, createdAt, updatedAt time.Time) *Balance {
	return &Balance{
		userID:    userID,
		balance:   balance,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// UserID ユーザーIDを返す
func (b *Balance) UserID() string {
	return b.userID
}

// Balance 残高を返す
func (b *Balance) Balance() int64 {
	return b.balance
}

// CreatedAt 作成日時を返す
func (b *Balance) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt 更新日時を返す
func (b *Balance) UpdatedAt() time.Time {
	return b.updatedAt
}

// MustNewBalance テスト用ヘルパー: NewBalanceを呼び出し、エラーが発生した場合はpanicする
func MustNewBalance(userID string, balance int64) *Balance {
	b, err := NewBalance(userID, balance)
	if err != nil {
		panic(err)
	}
	return b
}
