package openapi

import _ "embed"

// Spec OpenAPI仕様ファイル（埋め込み）
//
//go:embed openapi.yaml
var Spec []byte
