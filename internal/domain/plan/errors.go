package plan

import "errors"

var (
	// ErrPlanNotFound プランが見つからないエラー
	ErrPlanNotFound = errors.New("plan not found")
)
