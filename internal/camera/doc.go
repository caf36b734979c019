// Package camera はメソッドチャンネルから呼ばれるカメラ操作を担う
//
// # 責務
// - キャプチャデバイスの列挙
// - カメラのオープン・解像度変更・解放
// - サポートされるメディアタイプ（解像度とフォーマット）の取得
// - 1フレームのキャプチャとパック済みRGBへの変換
// - RGBフレームのJPEG保存
//
// # 使い分け
// バックエンドはBackendFactoryで名前から選択する：
// - mediadevices: pion/mediadevices経由（Linux V4L2、Windows Media Foundation）
// - v4l2: v4l2-ctlとffmpegのコマンド経由（Linuxのみ）
// - mock: 実機なしでの開発・テスト用
//
// # 仕様
//   - カメラは1インスタンスにつき1セッションのみ保持する
//   - open前やrelease後の呼び出しはpanicせず、false・空リスト・データなしフレームを返す
//   - キャプチャしたFrameは呼び出し側がReleaseする（複数回呼んでも安全）
//   - 幅・高さはオープン前でも最後に設定された値を返す（初期値 640x480）
//
// # 前提要件
//   - v4l2バックエンド: v4l-utils と ffmpeg
//     Ubuntu/Debian: sudo apt install v4l-utils ffmpeg
//   - videoグループへの参加: デバイスアクセス権限
//     sudo usermod -a -G video $USER
package camera
