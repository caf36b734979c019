package camera

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"litecamera/internal/log"
)

// V4L2Camera はv4l2-ctlとffmpegを使うCamera実装
type V4L2Camera struct {
	mu        sync.Mutex
	discovery Discovery
	run       commandRunner
	timeout   time.Duration
	logger    *slog.Logger

	capturer *V4L2Capturer
	width    int
	height   int
}

// NewV4L2Camera は新しいV4L2Cameraを作成する
func NewV4L2Camera(discovery Discovery, settings Settings) *V4L2Camera {
	settings = settings.withDefaults()
	return &V4L2Camera{
		discovery: discovery,
		run:       execRunner,
		timeout:   settings.CommandTimeout,
		logger:    log.With("backend", BackendV4L2),
		width:     settings.Width,
		height:    settings.Height,
	}
}

func (c *V4L2Camera) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// ListCaptureDevices はV4L2デバイスの一覧を返す
func (c *V4L2Camera) ListCaptureDevices() []CaptureDeviceInfo {
	ctx, cancel := c.commandContext()
	defer cancel()

	paths, err := c.discovery.ScanDevices(ctx)
	if err != nil {
		c.logger.Warn("デバイスのスキャンに失敗しました", "error", err)
	}

	devices := make([]CaptureDeviceInfo, 0, len(paths))
	for _, path := range paths {
		name := path
		if info, err := c.discovery.GetDeviceInfo(ctx, path); err == nil && info.Name != "" {
			name = info.Name
		}
		devices = append(devices, CaptureDeviceInfo{ID: path, Name: name})
	}
	return devices
}

// Open は列挙順で index 番目のデバイスを開く
func (c *V4L2Camera) Open(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := c.commandContext()
	defer cancel()

	c.capturer = nil

	paths, err := c.discovery.ScanDevices(ctx)
	if err != nil || index < 0 || index >= len(paths) {
		c.logger.Warn("デバイスが見つかりません", "index", index, "devices", len(paths), "error", err)
		return false
	}

	capturer := c.newCapturer(paths[index], c.width, c.height)
	if !capturer.IsDeviceAvailable(ctx) {
		c.logger.Warn("デバイスが利用できません", "device", paths[index])
		return false
	}

	c.capturer = capturer
	c.logger.Info("カメラを開きました", "device", paths[index], "width", c.width, "height", c.height)
	return true
}

func (c *V4L2Camera) newCapturer(device string, width, height int) *V4L2Capturer {
	capturer := NewV4L2Capturer(device, width, height)
	capturer.run = c.run
	return capturer
}

// SetResolution はデバイスが対応する解像度であれば切り替える
func (c *V4L2Camera) SetResolution(width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturer == nil || width <= 0 || height <= 0 {
		return false
	}

	ctx, cancel := c.commandContext()
	defer cancel()

	types, err := c.capturer.ListMediaTypes(ctx)
	if err != nil {
		c.logger.Warn("解像度の確認に失敗しました", "error", err)
		return false
	}
	if !containsSize(types, width, height) {
		return false
	}

	c.capturer = c.newCapturer(c.capturer.DevicePath(), width, height)
	c.width, c.height = width, height
	return true
}

// ListSupportedMediaTypes は開いているデバイスのメディアタイプを返す
func (c *V4L2Camera) ListSupportedMediaTypes() []MediaType {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturer == nil {
		return nil
	}

	ctx, cancel := c.commandContext()
	defer cancel()

	types, err := c.capturer.ListMediaTypes(ctx)
	if err != nil {
		c.logger.Warn("メディアタイプの取得に失敗しました", "error", err)
		return nil
	}
	return types
}

// CaptureFrame はffmpegで1フレームをキャプチャする
func (c *V4L2Camera) CaptureFrame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturer == nil {
		return Frame{}
	}

	ctx, cancel := c.commandContext()
	defer cancel()

	data, err := c.capturer.CaptureRGB(ctx)
	if err != nil {
		c.logger.Warn("キャプチャに失敗しました", "error", err)
		return Frame{}
	}
	return NewFrame(c.width, c.height, data, nil)
}

// Release はセッションを閉じる
func (c *V4L2Camera) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capturer = nil
}

// FrameWidth は現在の幅を返す
func (c *V4L2Camera) FrameWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// FrameHeight は現在の高さを返す
func (c *V4L2Camera) FrameHeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

func containsSize(types []MediaType, width, height int) bool {
	for _, mt := range types {
		if mt.Width == width && mt.Height == height {
			return true
		}
	}
	return false
}
