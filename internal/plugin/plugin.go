package plugin

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"litecamera/internal/camera"
	"litecamera/internal/channel"
	"litecamera/internal/log"
	"litecamera/internal/platform"
)

// ChannelName はプラグインを登録するメソッドチャンネル名
const ChannelName = "flutter_lite_camera"

// エラーコード
const (
	CodeInvalidArguments = "INVALID_ARGUMENTS"
	CodeCaptureFailed    = "CAPTURE_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Options はPluginの依存関係
type Options struct {
	// Devices はgetDeviceListで使うデバイス列挙
	Devices camera.Devices

	// SaveJPEG はsaveJpegで使う保存関数。nilなら既定品質で保存する
	SaveJPEG camera.JPEGWriter

	// PlatformVersion はgetPlatformVersionの戻り値を返す。nilならplatform.Version
	PlatformVersion func() string

	// Logger はnilならグローバルロガーを使う
	Logger *slog.Logger
}

// Plugin は1つのカメラセッションを所有するメソッドディスパッチャ
type Plugin struct {
	mu        sync.Mutex
	camera    camera.Camera
	devices   camera.Devices
	saveJPEG  camera.JPEGWriter
	version   func() string
	logger    *slog.Logger
	sessionID string
	handlers  map[string]handlerFunc
	closeOnce sync.Once
}

// New はカメラを所有するPluginを作成する
// カメラはCloseされるまでこのPluginだけが使用する
func New(cam camera.Camera, opts Options) *Plugin {
	p := &Plugin{
		camera:    cam,
		devices:   opts.Devices,
		saveJPEG:  opts.SaveJPEG,
		version:   opts.PlatformVersion,
		sessionID: uuid.New().String(),
		handlers:  defaultHandlers(),
	}

	if p.devices == nil {
		if d, ok := cam.(camera.Devices); ok {
			p.devices = d
		}
	}
	if p.saveJPEG == nil {
		p.saveJPEG = camera.NewJPEGWriter(camera.DefaultJPEGQuality)
	}
	if p.version == nil {
		p.version = platform.Version
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.L()
	}
	p.logger = logger.With("channel", ChannelName, "session", p.sessionID)

	return p
}

// SessionID はこのPluginのセッションIDを返す
func (p *Plugin) SessionID() string {
	return p.sessionID
}

// HandleMethodCall は1回の呼び出しを処理して応答を返す
func (p *Plugin) HandleMethodCall(call channel.MethodCall) (resp channel.Response) {
	p.mu.Lock()
	defer p.mu.Unlock()

	handler, ok := p.handlers[call.Method]
	if !ok {
		p.logger.Debug("未実装のメソッドです", "method", call.Method)
		return channel.NotImplemented()
	}

	p.logger.Debug("メソッド呼び出し", "method", call.Method)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("ハンドラでpanicが発生しました", "method", call.Method, "panic", fmt.Sprint(r))
			resp = channel.Error(CodeInternalError, "Unexpected error")
		}
	}()

	out := &result{}
	handler(p, call.Args, out)
	if !out.sent {
		p.logger.Error("ハンドラが応答を返しませんでした", "method", call.Method)
		return channel.Error(CodeInternalError, "Unexpected error")
	}
	if out.resp.IsError() && out.resp.Code == CodeInvalidArguments {
		p.logger.Warn("引数が不正です", "method", call.Method, "message", out.resp.Message)
	}
	return out.resp
}

// Close はカメラを解放する。2回目以降の呼び出しでは何もしない
func (p *Plugin) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.camera.Release()
		p.logger.Info("プラグインを終了しました")
	})
	return nil
}

// result はハンドラの応答を1つだけ保持する
type result struct {
	resp channel.Response
	sent bool
}

func (r *result) send(resp channel.Response) {
	if r.sent {
		return
	}
	r.resp = resp
	r.sent = true
}

func (r *result) success(v channel.Value) {
	r.send(channel.Success(v))
}

func (r *result) fail(code, message string) {
	r.send(channel.Error(code, message))
}
