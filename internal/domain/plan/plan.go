package plan

import (
	"errors"
	"regexp"
)

var (
	// ErrInvalidPlanID プランIDが無効
	ErrInvalidPlanID = errors.New("invalid plan id")
	// ErrInvalidPlanName プラン名が無効
	ErrInvalidPlanName = errors.New("invalid plan name")
	// ErrInvalidPrice 価格が無効
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidCredits クレジット数が無効
	ErrInvalidCredits = errors.New("invalid credits")
)

const (
	// MaxPrice 最大価格（最小通貨単位、10兆）
	MaxPrice = 10_000_000_000_000
	// MaxCredits 最大クレジット数 (10兆)
	MaxCredits = 10_000_000_000_000
)

var planIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)

// Plan 購入可能なクレジットパッケージを表すエンティティ（イミュータブル）
type Plan struct {
	planID   string
	name     string
	price    int64 // 最小通貨単位の整数値（例: USDならセント）
	credits  int64 // 付与クレジット数（整数値）
	features []string
}

// NewPlan 新しいPlanエンティティを作成
func NewPlan(planID, name string, price, credits int64, features []string) (*Plan, error) {
	if !planIDRegex.MatchString(planID) {
		return nil, ErrInvalidPlanID
	}
	if name == "" {
		return nil, ErrInvalidPlanName
	}
	if price <= 0 || price > MaxPrice {
		return nil, ErrInvalidPrice
	}
	if credits <= 0 || credits > MaxCredits {
		return nil, ErrInvalidCredits
	}
	return &Plan{
		planID:   planID,
		name:     name,
		price:    price,
		credits:  credits,
		features: features,
	}, nil
}

// PlanID プランIDを返す
func (p *Plan) PlanID() string {
	return p.planID
}

// Name プラン名を返す
func (p *Plan) Name() string {
	return p.name
}

// Price 価格（最小通貨単位）を返す
func (p *Plan) Price() int64 {
	return p.price
}

// Credits 付与クレジット数を返す
func (p *Plan) Credits() int64 {
	return p.credits
}

// Features 機能一覧を返す（定義順）
func (p *Plan) Features() []string {
	return p.features
}

// MustNewPlan テスト用ヘルパー: NewPlanを呼び出し、エラーが発生した場合はpanicする
func MustNewPlan(planID, name string, price, credits int64, features []string) *Plan {
	p, err := NewPlan(planID, name, price, credits, features)
	if err != nil {
		panic(err)
	}
	return p
}
