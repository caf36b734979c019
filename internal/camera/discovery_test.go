package camera

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleFormats = `ioctl: VIDIOC_ENUM_FMT
	Type: Video Capture

	[0]: 'YUYV' (YUYV 4:2:2)
		Size: Discrete 640x480
			Interval: Discrete 0.033s (30.000 fps)
		Size: Discrete 1280x720
			Interval: Discrete 0.100s (10.000 fps)
	[1]: 'MJPG' (Motion-JPEG, compressed)
		Size: Discrete 1920x1080
			Interval: Discrete 0.033s (30.000 fps)
		Size: Discrete 1920x1080
			Interval: Discrete 0.067s (15.000 fps)
`

const sampleMetadataFormats = `ioctl: VIDIOC_ENUM_FMT
	Type: Video Capture

	[0]: 'GREY' (8-bit Greyscale)
		Size: Discrete 640x360
`

// fakeRunner はデバイスごとに固定の出力を返す
type fakeRunner struct {
	info    map[string]string
	formats map[string]string
	calls   []string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if name != "v4l2-ctl" || len(args) < 3 {
		return nil, errors.New("unexpected command")
	}
	device := args[1]
	var table map[string]string
	switch args[2] {
	case "--info":
		table = f.info
	case "--list-formats-ext":
		table = f.formats
	}
	out, ok := table[device]
	if !ok {
		return nil, errors.New("no such device")
	}
	return []byte(out), nil
}

func newTestDiscovery(t *testing.T, nodes int, runner *fakeRunner) (*LinuxDiscovery, string) {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < nodes; i++ {
		path := filepath.Join(dir, "video"+string(rune('0'+i)))
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("デバイスファイルの作成に失敗: %v", err)
		}
	}
	return &LinuxDiscovery{pattern: filepath.Join(dir, "video*"), run: runner.run}, dir
}

func TestLinuxDiscovery_ScanDevices(t *testing.T) {
	runner := &fakeRunner{info: map[string]string{}, formats: map[string]string{}}
	discovery, dir := newTestDiscovery(t, 3, runner)

	v0 := filepath.Join(dir, "video0")
	v1 := filepath.Join(dir, "video1")
	v2 := filepath.Join(dir, "video2")
	// video0/video1は同じカメラ、video2はメタデータノード
	runner.info[v0] = "Driver Info:\n\tDriver name      : uvcvideo\n\tCard type        : Integrated Camera\n"
	runner.info[v1] = runner.info[v0]
	runner.info[v2] = "\tCard type        : Integrated Camera\n"
	runner.formats[v0] = sampleFormats
	runner.formats[v1] = sampleFormats
	runner.formats[v2] = sampleMetadataFormats

	devices, err := discovery.ScanDevices(context.Background())
	if err != nil {
		t.Fatalf("ScanDevices failed: %v", err)
	}
	if want := []string{v0}; !reflect.DeepEqual(devices, want) {
		t.Errorf("devices = %v, want %v", devices, want)
	}

	info, err := discovery.GetDeviceInfo(context.Background(), v0)
	if err != nil {
		t.Fatalf("GetDeviceInfo failed: %v", err)
	}
	if info.Name != "Integrated Camera" || info.Driver != "uvcvideo" {
		t.Errorf("info = %+v", info)
	}
	if len(info.MediaTypes) != 3 {
		t.Errorf("MediaTypes = %v", info.MediaTypes)
	}
}

func TestLinuxDiscovery_ScanDevicesCancelled(t *testing.T) {
	runner := &fakeRunner{info: map[string]string{}, formats: map[string]string{}}
	discovery, _ := newTestDiscovery(t, 2, runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := discovery.ScanDevices(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLinuxDiscovery_IsDeviceAvailable(t *testing.T) {
	ctx := context.Background()
	discovery := NewLinuxDiscovery()

	// 存在しないデバイスをテスト
	if discovery.IsDeviceAvailable(ctx, "/dev/video999") {
		t.Error("Expected non-existent device to be unavailable")
	}

	// 無効なパスをテスト
	if discovery.IsDeviceAvailable(ctx, "/invalid/path") {
		t.Error("Expected invalid path to be unavailable")
	}
}

func TestLinuxDiscovery_DeviceNameFallback(t *testing.T) {
	runner := &fakeRunner{info: map[string]string{}, formats: map[string]string{}}
	discovery, dir := newTestDiscovery(t, 1, runner)

	if got := discovery.deviceName(context.Background(), filepath.Join(dir, "video0")); got != "カメラ 0" {
		t.Errorf("deviceName() = %q, want %q", got, "カメラ 0")
	}
}

func TestParseFormats(t *testing.T) {
	got := parseFormats(sampleFormats)
	want := []MediaType{
		{Width: 640, Height: 480, Format: "YUYV"},
		{Width: 1280, Height: 720, Format: "YUYV"},
		{Width: 1920, Height: 1080, Format: "MJPG"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseFormats() = %v, want %v", got, want)
	}

	stepwise := "\t[0]: 'YU12' (Planar YUV 4:2:0)\n\t\tSize: Stepwise 16x16 - 1920x1080 with step 1/1\n"
	if got := parseFormats(stepwise); len(got) != 1 || got[0].Width != 1920 || got[0].Height != 1080 {
		t.Errorf("stepwise = %v", got)
	}

	if got := parseFormats(""); len(got) != 0 {
		t.Errorf("空の出力 = %v", got)
	}
}

func TestExtractDeviceNumber(t *testing.T) {
	testCases := map[string]int{
		"/dev/video0":  0,
		"/dev/video12": 12,
		"/dev/null":    0,
	}
	for device, want := range testCases {
		if got := extractDeviceNumber(device); got != want {
			t.Errorf("extractDeviceNumber(%q) = %d, want %d", device, got, want)
		}
	}
}

func TestMockDiscovery(t *testing.T) {
	ctx := context.Background()
	mockDevices := []string{"/dev/video0", "/dev/video1"}
	discovery := NewMockDiscovery(mockDevices)

	devices, err := discovery.ScanDevices(ctx)
	if err != nil {
		t.Fatalf("ScanDevices failed: %v", err)
	}
	if !reflect.DeepEqual(devices, mockDevices) {
		t.Fatalf("Expected %v, got %v", mockDevices, devices)
	}

	if !discovery.IsDeviceAvailable(ctx, "/dev/video0") {
		t.Error("Expected /dev/video0 to be available")
	}
	if discovery.IsDeviceAvailable(ctx, "/dev/video2") {
		t.Error("Expected /dev/video2 to be unavailable")
	}

	info, err := discovery.GetDeviceInfo(ctx, "/dev/video0")
	if err != nil {
		t.Fatalf("GetDeviceInfo failed: %v", err)
	}
	if info.Name == "" || len(info.MediaTypes) == 0 {
		t.Errorf("unexpected info: %+v", info)
	}

	// コピーが返されることを確認
	info.MediaTypes[0].Width = 1
	again, _ := discovery.GetDeviceInfo(ctx, "/dev/video0")
	if again.MediaTypes[0].Width == 1 {
		t.Error("GetDeviceInfoは内部状態を共有してはいけません")
	}

	discovery.AddDevice("/dev/video2")
	discovery.AddDevice("/dev/video2")
	if devices, _ := discovery.ScanDevices(ctx); len(devices) != 3 {
		t.Errorf("AddDevice後のデバイス数 = %d, want 3", len(devices))
	}

	discovery.RemoveDevice("/dev/video0")
	if discovery.IsDeviceAvailable(ctx, "/dev/video0") {
		t.Error("削除したデバイスが利用可能になっています")
	}
	if _, err := discovery.GetDeviceInfo(ctx, "/dev/video0"); err == nil {
		t.Error("削除したデバイスの情報が取得できてしまいます")
	}
}
