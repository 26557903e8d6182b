package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	plansapp "credit-server/internal/application/plans"
)

// PlanResponse プラン情報レスポンス
// @Description プラン情報レスポンス
type PlanResponse struct {
	PlanID   string   `json:"planId" example:"basic"`
	Name     string   `json:"name" example:"Basic"`
	Price    int64    `json:"price" example:"1000"`
	Credits  int64    `json:"credits" example:"100"`
	Features []string `json:"features"`
}

// ListPlansResponse プラン一覧レスポンス
// @Description プラン一覧レスポンス
type ListPlansResponse struct {
	Success bool            `json:"success" example:"true"`
	Plans   []*PlanResponse `json:"plans"`
}

// PlanHandler プランカタログハンドラー
type PlanHandler struct {
	planService *plansapp.PlanApplicationService
}

// NewPlanHandler 新しいPlanHandlerを作成
func NewPlanHandler(planService *plansapp.PlanApplicationService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// ListPlans プラン一覧取得ハンドラー
// @Summary 購入可能なプラン一覧を取得
// @Description クレジットパッケージのカタログを定義順で返します
// @Tags plans
// @Produce json
// @Success 200 {object} ListPlansResponse "プラン一覧"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c echo.Context) error {
	resp, err := h.planService.ListPlans(c.Request().Context())
	if err != nil {
		return err
	}

	planResponses := make([]*PlanResponse, 0, len(resp.Plans))
	for _, p := range resp.Plans {
		planResponses = append(planResponses, &PlanResponse{
			PlanID:   p.PlanID,
			Name:     p.Name,
			Price:    p.Price,
			Credits:  p.Credits,
			Features: p.Features,
		})
	}

	return c.JSON(http.StatusOK, ListPlansResponse{
		Success: true,
		Plans:   planResponses,
	})
}
