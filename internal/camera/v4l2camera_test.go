package camera

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedRunner はv4l2-ctlとffmpegの出力を模倣する
type scriptedRunner struct {
	frame     []byte
	failInfo  bool
	lastVideo string
}

func (s *scriptedRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	joined := strings.Join(args, " ")
	switch {
	case name == "v4l2-ctl" && strings.Contains(joined, "--info"):
		if s.failInfo {
			return nil, errors.New("no device")
		}
		return []byte("\tCard type        : Test Camera\n"), nil
	case name == "v4l2-ctl" && strings.Contains(joined, "--list-formats-ext"):
		return []byte(sampleFormats), nil
	case name == "ffmpeg":
		for i, arg := range args {
			if arg == "-video_size" && i+1 < len(args) {
				s.lastVideo = args[i+1]
			}
		}
		return s.frame, nil
	}
	return nil, errors.New("unexpected command: " + name)
}

func newTestV4L2Camera(runner *scriptedRunner) *V4L2Camera {
	cam := NewV4L2Camera(NewMockDiscovery([]string{"/dev/video0", "/dev/video2"}), Settings{Width: 640, Height: 480})
	cam.run = runner.run
	return cam
}

func TestV4L2Camera_OpenAndCapture(t *testing.T) {
	runner := &scriptedRunner{frame: make([]byte, 1280*720*3)}
	cam := newTestV4L2Camera(runner)

	devices := cam.ListCaptureDevices()
	if len(devices) != 2 || devices[1].ID != "/dev/video2" || devices[0].Name == "" {
		t.Fatalf("devices = %v", devices)
	}

	if frame := cam.CaptureFrame(); frame.HasData() {
		t.Error("オープン前のキャプチャはデータなしのはずです")
	}
	if cam.Open(2) {
		t.Error("範囲外のindexで開けてはいけません")
	}
	if !cam.Open(1) {
		t.Fatal("Open(1) failed")
	}

	if types := cam.ListSupportedMediaTypes(); len(types) != 3 {
		t.Errorf("media types = %v", types)
	}
	if cam.SetResolution(800, 600) {
		t.Error("サポート外の解像度で成功してはいけません")
	}
	if !cam.SetResolution(1280, 720) {
		t.Fatal("SetResolution(1280, 720) failed")
	}

	frame := cam.CaptureFrame()
	defer frame.Release()
	if frame.Width != 1280 || frame.Height != 720 || len(frame.Data) != 1280*720*3 {
		t.Errorf("frame = %dx%d (%d bytes)", frame.Width, frame.Height, len(frame.Data))
	}
	if runner.lastVideo != "1280x720" {
		t.Errorf("ffmpegの-video_size = %q", runner.lastVideo)
	}

	cam.Release()
	if cam.ListSupportedMediaTypes() != nil {
		t.Error("Release後のメディアタイプは空のはずです")
	}
	if cam.FrameWidth() != 1280 || cam.FrameHeight() != 720 {
		t.Error("Release後も最後のサイズを保持するはずです")
	}
}

func TestV4L2Camera_CaptureSizeMismatch(t *testing.T) {
	runner := &scriptedRunner{frame: make([]byte, 10)}
	cam := newTestV4L2Camera(runner)
	if !cam.Open(0) {
		t.Fatal("Open(0) failed")
	}

	if frame := cam.CaptureFrame(); frame.HasData() {
		t.Error("サイズ不一致のフレームはデータなしのはずです")
	}
}

func TestV4L2Camera_OpenUnavailable(t *testing.T) {
	cam := newTestV4L2Camera(&scriptedRunner{failInfo: true})
	if cam.Open(0) {
		t.Error("v4l2-ctlが失敗するデバイスは開けないはずです")
	}
	if cam.SetResolution(640, 480) {
		t.Error("未オープン時のSetResolutionはfalseのはずです")
	}
}
