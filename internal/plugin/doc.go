// Package plugin はflutter_lite_cameraチャンネルのメソッドディスパッチャを提供する
//
// # 責務
// - メソッド名による処理の振り分け
// - 引数の形と型の検証（カメラを呼ぶ前に行う）
// - カメラの結果をチャンネルの値に変換
// - キャプチャしたフレームの確実な解放
//
// # 仕様
//   - 1回の呼び出しに対して応答は必ず1つ
//   - 引数エラーは INVALID_ARGUMENTS、データなしフレームは CAPTURE_FAILED
//   - ハンドラ内のpanicや応答なしは INTERNAL_ERROR（"Unexpected error"）
//   - 未知のメソッドは未実装応答
//   - setResolutionだけはマップ引数、openとsaveJpegはリスト引数
//   - 1リクエストの間カメラはミューテックスで保護される
package plugin
