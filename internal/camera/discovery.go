package camera

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"litecamera/internal/text"
)

// commandRunner は外部コマンドを実行して標準出力を返す
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// execRunner はos/execで実際にコマンドを実行する
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// DeviceInfo はV4L2デバイスの詳細情報
type DeviceInfo struct {
	Device     string      // デバイスパス
	Name       string      // 表示名
	Driver     string      // ドライバ名
	MediaTypes []MediaType // サポートされるメディアタイプ
}

// Discovery はV4L2デバイスの検出機能を提供する
type Discovery interface {
	// ScanDevices は利用可能なデバイスパスを番号順に返す
	ScanDevices(ctx context.Context) ([]string, error)

	// IsDeviceAvailable は指定デバイスが利用可能かチェックする
	IsDeviceAvailable(ctx context.Context, device string) bool

	// GetDeviceInfo はデバイスの詳細情報を取得する
	GetDeviceInfo(ctx context.Context, device string) (*DeviceInfo, error)
}

// LinuxDiscovery はLinux環境でのカメラデバイス検出を実装する
type LinuxDiscovery struct {
	pattern string
	run     commandRunner
}

// NewLinuxDiscovery は新しいLinuxDiscoveryを作成する
func NewLinuxDiscovery() *LinuxDiscovery {
	return &LinuxDiscovery{pattern: "/dev/video*", run: execRunner}
}

// ScanDevices はシステム内の利用可能なカメラデバイスをスキャンする
func (d *LinuxDiscovery) ScanDevices(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(d.pattern)
	if err != nil {
		return nil, fmt.Errorf("デバイスのスキャンに失敗: %w", err)
	}

	// デバイス番号でソート
	sort.Slice(matches, func(i, j int) bool {
		return extractDeviceNumber(matches[i]) < extractDeviceNumber(matches[j])
	})

	var devices []string
	for _, match := range matches {
		select {
		case <-ctx.Done():
			return devices, ctx.Err()
		default:
		}

		if d.IsDeviceAvailable(ctx, match) && d.IsMainCamera(ctx, match) {
			devices = append(devices, match)
		}
	}

	return devices, nil
}

// IsDeviceAvailable は指定されたデバイスが利用可能かチェックする
func (d *LinuxDiscovery) IsDeviceAvailable(_ context.Context, device string) bool {
	if !isV4L2DevicePath(device) {
		return false
	}

	// デバイスファイルの読み取り権限チェック
	file, err := os.OpenFile(device, os.O_RDONLY, 0)
	if err != nil {
		return false
	}
	_ = file.Close()
	return true
}

// GetDeviceInfo はv4l2-ctlからデバイスの詳細情報を取得する
func (d *LinuxDiscovery) GetDeviceInfo(ctx context.Context, device string) (*DeviceInfo, error) {
	if !d.IsDeviceAvailable(ctx, device) {
		return nil, fmt.Errorf("デバイスが利用できません: %s", device)
	}

	info := &DeviceInfo{
		Device: device,
		Name:   d.deviceName(ctx, device),
	}

	if output, err := d.run(ctx, "v4l2-ctl", "--device", device, "--info"); err == nil {
		info.Driver = infoField(string(output), "Driver name")
	}

	output, err := d.run(ctx, "v4l2-ctl", "--device", device, "--list-formats-ext")
	if err != nil {
		return nil, fmt.Errorf("フォーマット一覧の取得に失敗: %w", err)
	}
	info.MediaTypes = parseFormats(string(output))

	return info, nil
}

// deviceName はデバイスパスから表示名を生成する
func (d *LinuxDiscovery) deviceName(ctx context.Context, device string) string {
	if realName := d.cardType(ctx, device); realName != "" {
		return realName
	}

	// フォールバック: デバイス番号から生成
	return fmt.Sprintf("カメラ %d", extractDeviceNumber(device))
}

// cardType はv4l2-ctlの "Card type" 行からカメラ名を取得する
func (d *LinuxDiscovery) cardType(ctx context.Context, device string) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := d.run(ctx, "v4l2-ctl", "--device", device, "--info")
	if err != nil {
		return ""
	}
	return text.Normalize(infoField(string(output), "Card type"))
}

// IsMainCamera はデバイスがメインカメラ（カラー）かどうかを判定する
// 同じ物理カメラの複数ノードは最も小さい番号のみを採用する
func (d *LinuxDiscovery) IsMainCamera(ctx context.Context, device string) bool {
	output, err := d.run(ctx, "v4l2-ctl", "--device", device, "--list-formats-ext")
	if err != nil {
		return false
	}
	if !hasColorFormat(string(output)) {
		return false
	}

	name := d.cardType(ctx, device)
	if name == "" {
		return true
	}

	deviceNum := extractDeviceNumber(device)
	dir := filepath.Dir(device)
	for i := 0; i < deviceNum; i++ {
		sibling := filepath.Join(dir, fmt.Sprintf("video%d", i))
		if !d.IsDeviceAvailable(ctx, sibling) {
			continue
		}
		siblingOutput, err := d.run(ctx, "v4l2-ctl", "--device", sibling, "--list-formats-ext")
		if err != nil || !hasColorFormat(string(siblingOutput)) {
			continue
		}
		if d.cardType(ctx, sibling) == name {
			return false
		}
	}

	return true
}

// hasColorFormat はフォーマット一覧にカラー形式が含まれるかを返す
func hasColorFormat(formats string) bool {
	return strings.Contains(formats, "YUYV") || strings.Contains(formats, "MJPG")
}

// infoField は "Key : Value" 形式の出力から値を取り出す
func infoField(output, key string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, key) {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

var (
	devicePathPattern   = regexp.MustCompile(`/video\d+$`)
	deviceNumberPattern = regexp.MustCompile(`video(\d+)`)
	formatLinePattern   = regexp.MustCompile(`^\[\d+\]:\s+'([^']+)'`)
	sizePattern         = regexp.MustCompile(`(\d+)x(\d+)`)
)

// isV4L2DevicePath はデバイスパスが videoN 形式かチェックする
func isV4L2DevicePath(device string) bool {
	return devicePathPattern.MatchString(device)
}

// extractDeviceNumber はデバイスパスから番号を抽出する
func extractDeviceNumber(device string) int {
	matches := deviceNumberPattern.FindStringSubmatch(device)
	if len(matches) < 2 {
		return 0
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return num
}

// parseFormats は `v4l2-ctl --list-formats-ext` の出力からメディアタイプを抽出する
// Stepwise/Continuousの範囲指定は最大サイズを採用する
func parseFormats(output string) []MediaType {
	var (
		result []MediaType
		format string
		seen   = make(map[MediaType]bool)
	)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		if m := formatLinePattern.FindStringSubmatch(line); m != nil {
			format = m[1]
			continue
		}
		if format == "" || !strings.HasPrefix(line, "Size:") {
			continue
		}

		sizes := sizePattern.FindAllStringSubmatch(line, -1)
		if len(sizes) == 0 {
			continue
		}
		last := sizes[len(sizes)-1]
		width, _ := strconv.Atoi(last[1])
		height, _ := strconv.Atoi(last[2])

		mt := MediaType{Width: width, Height: height, Format: format}
		if !seen[mt] {
			seen[mt] = true
			result = append(result, mt)
		}
	}

	return result
}

// MockDiscovery はテスト用のモックDiscovery実装
type MockDiscovery struct {
	devices     []string
	deviceInfos map[string]*DeviceInfo
}

// NewMockDiscovery は新しいMockDiscoveryを作成する
func NewMockDiscovery(devices []string) *MockDiscovery {
	m := &MockDiscovery{deviceInfos: make(map[string]*DeviceInfo)}
	for _, device := range devices {
		m.AddDevice(device)
	}
	return m
}

// ScanDevices はモックデバイス一覧を返す
func (m *MockDiscovery) ScanDevices(_ context.Context) ([]string, error) {
	return append([]string(nil), m.devices...), nil
}

// IsDeviceAvailable はモックデバイスが利用可能かチェックする
func (m *MockDiscovery) IsDeviceAvailable(_ context.Context, device string) bool {
	_, exists := m.deviceInfos[device]
	return exists
}

// GetDeviceInfo はモックデバイス情報を取得する
func (m *MockDiscovery) GetDeviceInfo(_ context.Context, device string) (*DeviceInfo, error) {
	info, exists := m.deviceInfos[device]
	if !exists {
		return nil, fmt.Errorf("デバイスが見つかりません: %s", device)
	}

	// コピーを返す
	result := *info
	result.MediaTypes = append([]MediaType(nil), info.MediaTypes...)
	return &result, nil
}

// AddDevice はテスト用にデバイスを追加する
func (m *MockDiscovery) AddDevice(device string) {
	if _, exists := m.deviceInfos[device]; exists {
		return
	}

	m.devices = append(m.devices, device)
	m.deviceInfos[device] = &DeviceInfo{
		Device: device,
		Name:   fmt.Sprintf("テストカメラ %d", len(m.devices)),
		Driver: "mock",
		MediaTypes: []MediaType{
			{Width: 640, Height: 480, Format: "YUYV"},
			{Width: 1280, Height: 720, Format: "MJPG"},
		},
	}
}

// RemoveDevice はテスト用にデバイスを削除する
func (m *MockDiscovery) RemoveDevice(device string) {
	for i, d := range m.devices {
		if d == device {
			m.devices = append(m.devices[:i], m.devices[i+1:]...)
			break
		}
	}
	delete(m.deviceInfos, device)
}
