package auth

// GenerateTokenRequest トークン生成リクエスト
//
// UserIDは外部の識別基盤で認証済みの不透明な識別子として扱う。
// 購入・残高参照エンドポイントはこのトークンのuser_idクレームを
// 信頼してアクセス主体を決定する。
type GenerateTokenRequest struct {
	UserID string
}

// GenerateTokenResponse トークン生成レスポンス
type GenerateTokenResponse struct {
	Token     string
	ExpiresIn int64  // 秒単位
	TokenType string // "Bearer"
}
