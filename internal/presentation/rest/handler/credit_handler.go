package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	historyapp "credit-server/internal/application/history"
)

// CreditBalanceResponse クレジット残高レスポンス
// @Description クレジット残高レスポンス
type CreditBalanceResponse struct {
	Success bool   `json:"success" example:"true"`
	UserID  string `json:"userId" example:"user123"`
	Credits int64  `json:"credits" example:"600"`
}

// TransactionResponse 購入トランザクションレスポンス
// @Description 購入トランザクションレスポンス
type TransactionResponse struct {
	TransactionID string    `json:"transactionId" example:"6b4a2f1e-..."`
	PlanID        string    `json:"planId" example:"basic"`
	Amount        int64     `json:"amount" example:"1000"`
	Credits       int64     `json:"credits" example:"100"`
	IsPaid        bool      `json:"isPaid" example:"true"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TransactionListResponse 購入履歴レスポンス
// @Description 購入履歴レスポンス
type TransactionListResponse struct {
	Success      bool                   `json:"success" example:"true"`
	UserID       string                 `json:"userId" example:"user123"`
	Transactions []*TransactionResponse `json:"transactions"`
	Limit        int                    `json:"limit" example:"20"`
	Offset       int                    `json:"offset" example:"0"`
}

// CreditHandler 残高・購入履歴ハンドラー
type CreditHandler struct {
	historyService *historyapp.HistoryApplicationService
}

// NewCreditHandler 新しいCreditHandlerを作成
func NewCreditHandler(historyService *historyapp.HistoryApplicationService) *CreditHandler {
	return &CreditHandler{
		historyService: historyService,
	}
}

// GetCredits クレジット残高取得ハンドラー
// @Summary 現在のクレジット残高を取得
// @Description 認証済みユーザーのクレジット残高を返します
// @Tags credits
// @Produce json
// @Success 200 {object} CreditBalanceResponse "クレジット残高"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Security BearerAuth
// @Router /me/credits [get]
func (h *CreditHandler) GetCredits(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}

	resp, err := h.historyService.GetBalance(c.Request().Context(), &historyapp.GetBalanceRequest{
		UserID: userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CreditBalanceResponse{
		Success: true,
		UserID:  resp.UserID,
		Credits: resp.Credits,
	})
}

// GetTransactions 購入履歴取得ハンドラー
// @Summary 購入履歴を取得
// @Description 認証済みユーザーの購入トランザクションを新しい順に返します
// @Tags credits
// @Produce json
// @Param limit query int false "取得件数（デフォルト20、最大100）"
// @Param offset query int false "オフセット"
// @Success 200 {object} TransactionListResponse "購入履歴"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Security BearerAuth
// @Router /me/transactions [get]
func (h *CreditHandler) GetTransactions(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	resp, err := h.historyService.GetTransactions(c.Request().Context(), &historyapp.GetTransactionsRequest{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}

	transactions := make([]*TransactionResponse, 0, len(resp.Transactions))
	for _, txn := range resp.Transactions {
		transactions = append(transactions, &TransactionResponse{
			TransactionID: txn.TransactionID,
			PlanID:        txn.PlanID,
			Amount:        txn.Amount,
			Credits:       txn.Credits,
			IsPaid:        txn.IsPaid,
			CreatedAt:     txn.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, TransactionListResponse{
		Success:      true,
		UserID:       resp.UserID,
		Transactions: transactions,
		Limit:        resp.Limit,
		Offset:       resp.Offset,
	})
}
