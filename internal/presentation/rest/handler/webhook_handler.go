package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	webhookapp "credit-server/internal/application/webhook"
)

// webhookBodyLimit Webhookボディの最大サイズ
const webhookBodyLimit = 64 * 1024

// WebhookResponse Webhookイベント確認応答
// @Description Webhookイベント確認応答
type WebhookResponse struct {
	Received bool `json:"received" example:"true"`
}

// WebhookHandler 決済イベント通知ハンドラー
type WebhookHandler struct {
	webhookService *webhookapp.WebhookApplicationService
}

// NewWebhookHandler 新しいWebhookHandlerを作成
func NewWebhookHandler(webhookService *webhookapp.WebhookApplicationService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleEvent 決済イベント受信ハンドラー
// @Summary 決済プロセッサからのイベント通知を処理
// @Description 署名検証済みの決済イベントを処理しクレジットを付与します
// @Tags webhook
// @Accept json
// @Produce json
// @Success 200 {object} WebhookResponse "確認応答"
// @Failure 400 {object} ErrorResponse "署名検証エラー"
// @Router /payment-events [post]
func (h *WebhookHandler) HandleEvent(c echo.Context) error {
	// 署名は無変換のボディバイト列に対して検証するため、
	// バインドせず生のまま読む
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, webhookBodyLimit))
	if err != nil {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}

	_, err = h.webhookService.HandleEvent(c.Request().Context(), &webhookapp.HandleEventRequest{
		Payload:         body,
		SignatureHeader: c.Request().Header.Get("Stripe-Signature"),
	})
	if err != nil {
		return err
	}

	// 処理済み・無視のどちらも確認応答を返し、再送信を止める
	return c.JSON(http.StatusOK, WebhookResponse{Received: true})
}
