// Package channel はメソッドチャンネルの値とワイヤ形式を扱う
//
// # 責務
// - 動的型の値（null/bool/int/string/bytes/list/map）の表現
// - 標準メッセージコーデックによるエンコードとデコード
// - メソッド呼び出しと応答封筒のエンコード
// - チャンネル名とプラグインの登録管理
//
// # 仕様
//   - 値はKindで区別される閉じた型で、アクセサは種類が違ってもpanicしない
//   - バイト列はuint8リストとしてそのまま送受信する（base64にはしない）
//   - double、巨大整数、uint8以外の型付きリストはErrUnsupportedTypeになる
//   - 未実装応答は空の返信としてエンコードする
package channel
