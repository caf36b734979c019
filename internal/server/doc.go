// Package server は、メソッドチャンネルを外部から呼び出すための開発用ホストです。
//
// UIホストの代わりにHTTPとWebSocketでメソッド呼び出しを受け付け、
// 登録されたチャンネルのプラグインへ転送します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - POST /channels/:name でのメソッド呼び出し（本文はエンコード済みの呼び出し）
//   - GET /channels/:name/ws でのWebSocket接続（バイナリメッセージ1つが呼び出し1回）
//   - ヘルスチェックとステータスの提供
//
// 仕様:
//   - ルーティングはgin-gonic/ginを使用
//   - WebSocketはgorilla/websocketを使用
//   - 応答は標準メッセージコーデックの封筒（application/octet-stream）
//   - リクエストごとにX-Request-IDを付与する
//   - グレースフルシャットダウンに対応
package server
