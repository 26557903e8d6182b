package purchase

// PurchaseRequest プラン購入リクエスト
type PurchaseRequest struct {
	UserID string
	PlanID string
}

// PurchaseResponse プラン購入レスポンス
//
// RedirectURLは外部決済プロセッサのチェックアウトページを指す。
type PurchaseResponse struct {
	TransactionID string
	SessionID     string
	RedirectURL   string
}
