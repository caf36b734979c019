package camera

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/driver"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"

	// カメラドライバの登録
	_ "github.com/pion/mediadevices/pkg/driver/camera"

	"litecamera/internal/log"
	"litecamera/internal/text"
)

var errNoVideoTrack = errors.New("ビデオトラックがありません")

// MediaDevicesCamera はpion/mediadevicesを使うCamera実装
type MediaDevicesCamera struct {
	mu     sync.Mutex
	logger *slog.Logger

	deviceID string
	track    *mediadevices.VideoTrack
	reader   video.Reader
	width    int
	height   int
}

// NewMediaDevicesCamera は新しいMediaDevicesCameraを作成する
func NewMediaDevicesCamera(settings Settings) *MediaDevicesCamera {
	settings = settings.withDefaults()
	return &MediaDevicesCamera{
		logger: log.With("backend", BackendMediaDevices),
		width:  settings.Width,
		height: settings.Height,
	}
}

// videoInputs は映像入力デバイスのみを列挙順で返す
func videoInputs() []mediadevices.MediaDeviceInfo {
	var inputs []mediadevices.MediaDeviceInfo
	for _, info := range mediadevices.EnumerateDevices() {
		if info.Kind == mediadevices.VideoInput {
			inputs = append(inputs, info)
		}
	}
	return inputs
}

// ListCaptureDevices は映像入力デバイスの一覧を返す
func (c *MediaDevicesCamera) ListCaptureDevices() []CaptureDeviceInfo {
	inputs := videoInputs()
	devices := make([]CaptureDeviceInfo, 0, len(inputs))
	for _, info := range inputs {
		name := info.Label
		if name == "" {
			name = info.DeviceID
		}
		devices = append(devices, CaptureDeviceInfo{ID: info.DeviceID, Name: text.Normalize(name)})
	}
	return devices
}

// Open は列挙順で index 番目のデバイスを開く
// 要求サイズで開けない場合はドライバ既定のサイズで開き直す
func (c *MediaDevicesCamera) Open(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	inputs := videoInputs()
	if index < 0 || index >= len(inputs) {
		c.logger.Warn("デバイスが見つかりません", "index", index, "devices", len(inputs))
		return false
	}
	deviceID := inputs[index].DeviceID

	track, err := openTrack(deviceID, c.width, c.height, false)
	if err != nil {
		c.logger.Warn("要求サイズでのオープンに失敗しました", "device", deviceID, "error", err)
		track, err = openTrack(deviceID, 0, 0, false)
	}
	if err != nil {
		c.logger.Error("カメラのオープンに失敗しました", "device", deviceID, "error", err)
		return false
	}

	c.attachLocked(deviceID, track)
	c.logger.Info("カメラを開きました", "device", deviceID, "width", c.width, "height", c.height)
	return true
}

// openTrack はGetUserMediaでデバイスのビデオトラックを取得する
func openTrack(deviceID string, width, height int, exact bool) (*mediadevices.VideoTrack, error) {
	stream, err := mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			c.DeviceID = prop.String(deviceID)
			if width <= 0 || height <= 0 {
				return
			}
			if exact {
				c.Width = prop.IntExact(width)
				c.Height = prop.IntExact(height)
			} else {
				c.Width = prop.Int(width)
				c.Height = prop.Int(height)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetUserMediaに失敗: %w", err)
	}

	tracks := stream.GetVideoTracks()
	if len(tracks) == 0 {
		return nil, errNoVideoTrack
	}
	for _, extra := range tracks[1:] {
		_ = extra.Close()
	}

	track, ok := tracks[0].(*mediadevices.VideoTrack)
	if !ok {
		_ = tracks[0].Close()
		return nil, errNoVideoTrack
	}
	return track, nil
}

func (c *MediaDevicesCamera) attachLocked(deviceID string, track *mediadevices.VideoTrack) {
	c.deviceID = deviceID
	c.track = track
	c.reader = track.NewReader(false)
}

func (c *MediaDevicesCamera) closeLocked() {
	if c.track != nil {
		if err := c.track.Close(); err != nil {
			c.logger.Warn("トラックのクローズに失敗しました", "error", err)
		}
	}
	c.track = nil
	c.reader = nil
	c.deviceID = ""
}

// SetResolution は完全一致の制約でトラックを開き直す
// 失敗した場合は元のサイズで開き直しfalseを返す
func (c *MediaDevicesCamera) SetResolution(width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil || width <= 0 || height <= 0 {
		return false
	}
	deviceID := c.deviceID
	c.closeLocked()

	track, err := openTrack(deviceID, width, height, true)
	if err == nil {
		c.attachLocked(deviceID, track)
		c.width, c.height = width, height
		return true
	}

	c.logger.Warn("解像度の変更に失敗しました", "width", width, "height", height, "error", err)
	if track, err := openTrack(deviceID, c.width, c.height, false); err == nil {
		c.attachLocked(deviceID, track)
	} else {
		c.logger.Error("カメラの再オープンに失敗しました", "device", deviceID, "error", err)
	}
	return false
}

// ListSupportedMediaTypes は開いているデバイスのドライバプロパティを返す
func (c *MediaDevicesCamera) ListSupportedMediaTypes() []MediaType {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return nil
	}

	var result []MediaType
	seen := make(map[MediaType]bool)
	for _, d := range driver.GetManager().Query(driver.FilterVideoRecorder()) {
		if d.ID() != c.deviceID {
			continue
		}
		for _, p := range d.Properties() {
			mt := MediaType{Width: p.Width, Height: p.Height, Format: text.Normalize(string(p.FrameFormat))}
			if mt.Width <= 0 || mt.Height <= 0 || seen[mt] {
				continue
			}
			seen[mt] = true
			result = append(result, mt)
		}
	}
	return result
}

// CaptureFrame は1フレームを読み取りRGBに変換する
func (c *MediaDevicesCamera) CaptureFrame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reader == nil {
		return Frame{}
	}

	img, release, err := c.reader.Read()
	if err != nil {
		c.logger.Warn("フレームの読み取りに失敗しました", "error", err)
		return Frame{}
	}

	data, width, height := toRGB(img)
	if data == nil {
		if release != nil {
			release()
		}
		return Frame{}
	}
	c.width, c.height = width, height
	return NewFrame(width, height, data, release)
}

// Release はトラックを閉じる
func (c *MediaDevicesCamera) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// FrameWidth は現在の幅を返す
func (c *MediaDevicesCamera) FrameWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// FrameHeight は現在の高さを返す
func (c *MediaDevicesCamera) FrameHeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}
