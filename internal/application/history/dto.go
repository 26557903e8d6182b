package history

import "time"

// GetBalanceRequest 残高取得リクエスト
type GetBalanceRequest struct {
	UserID string
}

// GetBalanceResponse 残高取得レスポンス
type GetBalanceResponse struct {
	UserID  string `json:"userId"`
	Credits int64  `json:"credits"`
}

// GetTransactionsRequest 購入履歴取得リクエスト
type GetTransactionsRequest struct {
	UserID string
	Limit  int
	Offset int
}

// TransactionDTO 購入トランザクションのレスポンスDTO
type TransactionDTO struct {
	TransactionID string    `json:"transactionId"`
	PlanID        string    `json:"planId"`
	Amount        int64     `json:"amount"`
	Credits       int64     `json:"credits"`
	IsPaid        bool      `json:"isPaid"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GetTransactionsResponse 購入履歴取得レスポンス
type GetTransactionsResponse struct {
	UserID       string            `json:"userId"`
	Transactions []*TransactionDTO `json:"transactions"`
	Limit        int               `json:"limit"`
	Offset       int               `json:"offset"`
}
