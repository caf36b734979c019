package camera

import (
	"context"
	"fmt"
)

// V4L2Capturer はシェルコマンドを使ってV4L2デバイスから画像を取得する
type V4L2Capturer struct {
	devicePath string
	width      int
	height     int
	run        commandRunner
}

// NewV4L2Capturer は新しいV4L2Capturerを作成する
func NewV4L2Capturer(devicePath string, width, height int) *V4L2Capturer {
	return &V4L2Capturer{
		devicePath: devicePath,
		width:      width,
		height:     height,
		run:        execRunner,
	}
}

// DevicePath はキャプチャ対象のデバイスパスを返す
func (c *V4L2Capturer) DevicePath() string {
	return c.devicePath
}

// IsDeviceAvailable はV4L2デバイスが利用可能かチェックする
func (c *V4L2Capturer) IsDeviceAvailable(ctx context.Context) bool {
	_, err := c.run(ctx, "v4l2-ctl", "--device", c.devicePath, "--info")
	return err == nil
}

// CaptureRGB は1フレームをキャプチャしてパック済みRGBとして返す
func (c *V4L2Capturer) CaptureRGB(ctx context.Context) ([]byte, error) {
	output, err := c.run(ctx,
		"ffmpeg",
		"-loglevel", "error",
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", c.width, c.height),
		"-i", c.devicePath,
		"-vframes", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	)
	if err != nil {
		return nil, fmt.Errorf("フレームキャプチャに失敗: %w", err)
	}

	if want := c.width * c.height * 3; len(output) != want {
		return nil, fmt.Errorf("フレームサイズが不正です: got %d bytes, want %d", len(output), want)
	}
	return output, nil
}

// ListMediaTypes はサポートされているメディアタイプ一覧を取得する
func (c *V4L2Capturer) ListMediaTypes(ctx context.Context) ([]MediaType, error) {
	output, err := c.run(ctx, "v4l2-ctl", "--device", c.devicePath, "--list-formats-ext")
	if err != nil {
		return nil, fmt.Errorf("フォーマット一覧の取得に失敗: %w", err)
	}
	return parseFormats(string(output)), nil
}
