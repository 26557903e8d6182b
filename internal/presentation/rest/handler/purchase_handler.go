package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	purchaseapp "credit-server/internal/application/purchase"
	"credit-server/internal/domain/plan"
)

// PurchaseRequest プラン購入リクエスト
// @Description プラン購入リクエスト
type PurchaseRequest struct {
	PlanID string `json:"planId" example:"basic"`
}

// PurchaseResponse プラン購入レスポンス
// @Description プラン購入レスポンス
type PurchaseResponse struct {
	Success bool   `json:"success" example:"true"`
	URL     string `json:"url,omitempty" example:"https://checkout.stripe.com/c/pay/cs_test_001"`
	Message string `json:"message,omitempty"`
}

// PurchaseHandler プラン購入ハンドラー
type PurchaseHandler struct {
	purchaseService *purchaseapp.PurchaseApplicationService
}

// NewPurchaseHandler 新しいPurchaseHandlerを作成
func NewPurchaseHandler(purchaseService *purchaseapp.PurchaseApplicationService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// Purchase プラン購入ハンドラー
// @Summary プラン購入を開始
// @Description 未払いトランザクションを作成しチェックアウトURLを返します
// @Tags purchase
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "プラン購入リクエスト"
// @Success 200 {object} PurchaseResponse "チェックアウトURL"
// @Failure 400 {object} PurchaseResponse "不正なプランID"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 502 {object} ErrorResponse "決済プロセッサエラー"
// @Security BearerAuth
// @Router /purchase [post]
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}

	var reqBody PurchaseRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.purchaseService.Purchase(c.Request().Context(), &purchaseapp.PurchaseRequest{
		UserID: userID,
		PlanID: reqBody.PlanID,
	})
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return c.JSON(http.StatusBadRequest, PurchaseResponse{
				Success: false,
				Message: "Invalid plan",
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, PurchaseResponse{
		Success: true,
		URL:     resp.RedirectURL,
	})
}
