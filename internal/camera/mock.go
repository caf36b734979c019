package camera

import (
	"fmt"
	"sync"
)

// MockStats はMockCameraの呼び出し回数
type MockStats struct {
	Opens           int
	Releases        int
	Captures        int
	FramesAllocated int
	FramesReleased  int
}

// MockCamera はテスト用のモックBackend実装
// 実機なしでフレームを生成し、フレームの確保と解放を数える
type MockCamera struct {
	mu          sync.Mutex
	devices     []CaptureDeviceInfo
	mediaTypes  []MediaType
	opened      bool
	openIndex   int
	width       int
	height      int
	failCapture bool
	panicMethod string
	stats       MockStats
}

// NewMockCamera は指定した名前のデバイスを持つMockCameraを作成する
func NewMockCamera(names []string) *MockCamera {
	devices := make([]CaptureDeviceInfo, 0, len(names))
	for i, name := range names {
		devices = append(devices, CaptureDeviceInfo{ID: fmt.Sprintf("mock:%d", i), Name: name})
	}
	return &MockCamera{
		devices: devices,
		mediaTypes: []MediaType{
			{Width: 640, Height: 480, Format: "YUY2"},
			{Width: 1280, Height: 720, Format: "MJPG"},
		},
		openIndex: -1,
		width:     DefaultWidth,
		height:    DefaultHeight,
	}
}

// SetMediaTypes はサポートするメディアタイプを設定する
func (m *MockCamera) SetMediaTypes(types []MediaType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mediaTypes = append([]MediaType(nil), types...)
}

// SetFrameSize はフレームサイズを設定する
func (m *MockCamera) SetFrameSize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width, m.height = width, height
}

// SetShouldFailCapture はキャプチャを失敗させるかどうかを設定する
func (m *MockCamera) SetShouldFailCapture(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCapture = fail
}

// SetPanicOn は指定メソッドの呼び出しでpanicさせる（"CaptureFrame" など）
func (m *MockCamera) SetPanicOn(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMethod = method
}

// Stats は呼び出し回数のスナップショットを返す
func (m *MockCamera) Stats() MockStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// IsOpen はセッションが開いているかを返す
func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// OpenedIndex は開いているデバイス番号を返す。閉じていれば-1
func (m *MockCamera) OpenedIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openIndex
}

func (m *MockCamera) maybePanic(method string) {
	if m.panicMethod == method {
		panic(fmt.Sprintf("mock: %s panic", method))
	}
}

// ListCaptureDevices はモックデバイス一覧を返す
func (m *MockCamera) ListCaptureDevices() []CaptureDeviceInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybePanic("ListCaptureDevices")
	return append([]CaptureDeviceInfo(nil), m.devices...)
}

// Open はindexがデバイス数未満なら成功する
func (m *MockCamera) Open(index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybePanic("Open")

	m.stats.Opens++
	m.opened = index >= 0 && index < len(m.devices)
	if m.opened {
		m.openIndex = index
	} else {
		m.openIndex = -1
	}
	return m.opened
}

// SetResolution はメディアタイプに含まれるサイズなら成功する
func (m *MockCamera) SetResolution(width, height int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybePanic("SetResolution")

	if !m.opened || width <= 0 || height <= 0 {
		return false
	}
	if len(m.mediaTypes) > 0 && !containsSize(m.mediaTypes, width, height) {
		return false
	}
	m.width, m.height = width, height
	return true
}

// ListSupportedMediaTypes はオープン中のみメディアタイプを返す
func (m *MockCamera) ListSupportedMediaTypes() []MediaType {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybePanic("ListSupportedMediaTypes")

	if !m.opened {
		return nil
	}
	return append([]MediaType(nil), m.mediaTypes...)
}

// CaptureFrame はグラデーションのフレームを生成する
func (m *MockCamera) CaptureFrame() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybePanic("CaptureFrame")

	m.stats.Captures++
	if !m.opened || m.failCapture {
		return Frame{}
	}

	data := make([]byte, m.width*m.height*3)
	for i := range data {
		data[i] = byte(i % 251)
	}
	m.stats.FramesAllocated++

	return NewFrame(m.width, m.height, data, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stats.FramesReleased++
	})
}

// Release はセッションを閉じる
func (m *MockCamera) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maybePanic("Release")

	m.stats.Releases++
	m.opened = false
	m.openIndex = -1
}

// FrameWidth は現在の幅を返す
func (m *MockCamera) FrameWidth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

// FrameHeight は現在の高さを返す
func (m *MockCamera) FrameHeight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height
}
