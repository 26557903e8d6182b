package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"credit-server/internal/domain/checkout"
)

// newGatewayWithStubBackend Stripe APIをスタブするhttptestサーバーに
// 向けたGatewayを作成
func newGatewayWithStubBackend(t *testing.T, handler http.Handler) *Gateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		URL:               stripeapi.String(server.URL),
		LeveledLogger:     &stripeapi.LeveledLogger{Level: stripeapi.LevelNull},
		MaxNetworkRetries: stripeapi.Int64(0),
	})
	api := &client.API{}
	api.Init("sk_test_key", &stripeapi.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return NewGatewayWithClient(api)
}

func TestGateway_CreateSession(t *testing.T) {
	t.Run("正常系: セッションを作成しリダイレクトURLを返す", func(t *testing.T) {
		var gotForm string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			require.NoError(t, r.ParseForm())
			gotForm = r.Form.Encode()
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "cs_test_001",
				"object": "checkout.session",
				"url": "https://checkout.stripe.com/c/pay/cs_test_001"
			}`))
		})
		gateway := newGatewayWithStubBackend(t, handler)

		session, err := gateway.CreateSession(context.Background(), &checkout.CreateSessionParams{
			ProductName: "Basic",
			Amount:      1000,
			Currency:    "usd",
			SuccessURL:  "http://localhost:3000/loading",
			CancelURL:   "http://localhost:3000/",
			ExpiresAt:   time.Now().Add(30 * time.Minute),
			Metadata: checkout.SessionMetadata{
				TransactionID: "txn-001",
				AppID:         "aidra_chatbot",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "cs_test_001", session.SessionID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_001", session.RedirectURL)

		// メタデータと単一ラインアイテムがフォームに載っていること
		assert.Contains(t, gotForm, "metadata%5BtransactionId%5D=txn-001")
		assert.Contains(t, gotForm, "metadata%5BappId%5D=aidra_chatbot")
		assert.Contains(t, gotForm, "quantity%5D=1")
		assert.Contains(t, gotForm, "unit_amount%5D=1000")
	})

	t.Run("異常系: APIエラーはErrSessionCreateFailedになる", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "bad request"}}`))
		})
		gateway := newGatewayWithStubBackend(t, handler)

		session, err := gateway.CreateSession(context.Background(), &checkout.CreateSessionParams{
			ProductName: "Basic",
			Amount:      1000,
			Currency:    "usd",
			SuccessURL:  "http://localhost:3000/loading",
			CancelURL:   "http://localhost:3000/",
			ExpiresAt:   time.Now().Add(30 * time.Minute),
			Metadata: checkout.SessionMetadata{
				TransactionID: "txn-001",
				AppID:         "aidra_chatbot",
			},
		})

		assert.ErrorIs(t, err, checkout.ErrSessionCreateFailed)
		assert.Nil(t, session)
	})
}

func TestGateway_SessionMetadataByPaymentIntent(t *testing.T) {
	t.Run("正常系: 決済インテントからメタデータを取得", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			require.Equal(t, "pi_test_123", r.URL.Query().Get("payment_intent"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"object": "list",
				"url": "/v1/checkout/sessions",
				"has_more": false,
				"data": [{
					"id": "cs_test_001",
					"object": "checkout.session",
					"metadata": {"transactionId": "txn-001", "appId": "aidra_chatbot"}
				}]
			}`))
		})
		gateway := newGatewayWithStubBackend(t, handler)

		metadata, err := gateway.SessionMetadataByPaymentIntent(context.Background(), "pi_test_123")

		require.NoError(t, err)
		assert.Equal(t, "txn-001", metadata.TransactionID)
		assert.Equal(t, "aidra_chatbot", metadata.AppID)
	})

	t.Run("異常系: セッションが存在しない", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"object": "list",
				"url": "/v1/checkout/sessions",
				"has_more": false,
				"data": []
			}`))
		})
		gateway := newGatewayWithStubBackend(t, handler)

		metadata, err := gateway.SessionMetadataByPaymentIntent(context.Background(), "pi_unknown")

		assert.ErrorIs(t, err, checkout.ErrSessionNotFound)
		assert.Nil(t, metadata)
	})

	t.Run("異常系: APIエラーはErrSessionLookupFailedになる", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"type": "api_error", "message": "internal error"}}`))
		})
		gateway := newGatewayWithStubBackend(t, handler)

		metadata, err := gateway.SessionMetadataByPaymentIntent(context.Background(), "pi_test_123")

		assert.ErrorIs(t, err, checkout.ErrSessionLookupFailed)
		assert.Nil(t, metadata)
	})
}
