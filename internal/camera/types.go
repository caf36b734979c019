package camera

import "time"

// 初期フレームサイズ
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// CaptureDeviceInfo はキャプチャデバイスの情報
// デバイス番号は列挙順で暗黙的に決まる
type CaptureDeviceInfo struct {
	ID   string // バックエンド固有の識別子（例: /dev/video0）
	Name string // 表示名
}

// MediaType はサポートされるキャプチャ形式
type MediaType struct {
	Width  int    // 幅
	Height int    // 高さ
	Format string // ピクセルフォーマット名（例: YUYV, MJPG）
}

// Frame はキャプチャした1フレーム
// Dataはパック済みRGB（1ピクセル3バイト）。nilはキャプチャ失敗を表す
type Frame struct {
	Width   int
	Height  int
	Data    []byte
	release func()
}

// NewFrame は解放関数付きのFrameを作成する
func NewFrame(width, height int, data []byte, release func()) Frame {
	return Frame{Width: width, Height: height, Data: data, release: release}
}

// HasData はフレームデータがあるかどうかを返す
func (f *Frame) HasData() bool {
	return f.Data != nil
}

// Size はフレームデータのバイト数を返す
func (f *Frame) Size() int {
	return len(f.Data)
}

// Release はフレームのバッファを解放する
// データなしのフレームや2回目以降の呼び出しでは何もしない
func (f *Frame) Release() {
	if f.release != nil {
		f.release()
		f.release = nil
	}
	f.Data = nil
}

// Camera はカメラセッションの操作を表すインターフェース
// 状態遷移: Closed --Open成功--> Opened --Release--> Closed
type Camera interface {
	// Open は指定番号のデバイスを開く
	Open(index int) bool

	// SetResolution は解像度を変更する
	SetResolution(width, height int) bool

	// ListSupportedMediaTypes は開いているデバイスのメディアタイプ一覧を返す
	ListSupportedMediaTypes() []MediaType

	// CaptureFrame は1フレームをキャプチャする
	CaptureFrame() Frame

	// Release はセッションを閉じる。再度Openできる
	Release()

	// FrameWidth は現在の幅を返す
	FrameWidth() int

	// FrameHeight は現在の高さを返す
	FrameHeight() int
}

// Devices はキャプチャデバイスの列挙機能を提供する
type Devices interface {
	// ListCaptureDevices は列挙順のデバイス一覧を返す
	ListCaptureDevices() []CaptureDeviceInfo
}

// Backend はCameraとDevicesの両方を実装するバックエンド
type Backend interface {
	Camera
	Devices
}

// Settings はバックエンド作成時の設定
type Settings struct {
	Width          int           // 初期の幅
	Height         int           // 初期の高さ
	CommandTimeout time.Duration // 外部コマンドのタイムアウト（v4l2のみ）
}

// withDefaults は未設定の項目にデフォルト値を補う
func (s Settings) withDefaults() Settings {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	if s.CommandTimeout <= 0 {
		s.CommandTimeout = 10 * time.Second
	}
	return s
}
