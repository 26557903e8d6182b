package plans

// PlanDTO プラン情報のレスポンスDTO
type PlanDTO struct {
	PlanID   string   `json:"planId"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Credits  int64    `json:"credits"`
	Features []string `json:"features"`
}

// ListPlansResponse プラン一覧レスポンス
type ListPlansResponse struct {
	Plans []*PlanDTO `json:"plans"`
}
