package plan

import (
	"context"
)

// PlanRepository プランカタログリポジトリインターフェース
type PlanRepository interface {
	// List 全プランを定義順で取得
	List(ctx context.Context) ([]*Plan, error)

	// FindByID プランIDでプランを取得
	FindByID(ctx context.Context, planID string) (*Plan, error)
}
