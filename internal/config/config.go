package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"litecamera/internal/camera"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Camera CameraConfig `yaml:"camera"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig は開発用ホストの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 書き込みタイムアウト（0で無効）
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // グレースフルシャットダウンの待ち時間
}

// CameraConfig はカメラ関連の設定
type CameraConfig struct {
	Backend        string        `yaml:"backend"`         // mediadevices, v4l2, mock
	DefaultWidth   int           `yaml:"default_width"`   // オープン前の幅
	DefaultHeight  int           `yaml:"default_height"`  // オープン前の高さ
	JPEGQuality    int           `yaml:"jpeg_quality"`    // saveJpegの品質 (1-100)
	CommandTimeout time.Duration `yaml:"command_timeout"` // 外部コマンドのタイムアウト
}

// LogConfig はログの設定
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    0, // WebSocket用にタイムアウト無効化
			ShutdownTimeout: 5 * time.Second,
		},
		Camera: CameraConfig{
			Backend:        string(camera.BackendMediaDevices),
			DefaultWidth:   camera.DefaultWidth,
			DefaultHeight:  camera.DefaultHeight,
			JPEGQuality:    camera.DefaultJPEGQuality,
			CommandTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load は設定を読み込む
// デフォルト値 → LITECAMERA_CONFIG のYAML → 環境変数 の順に上書きする
func Load() (*Config, error) {
	return LoadFile(os.Getenv("LITECAMERA_CONFIG"))
}

// LoadFile は指定したYAMLファイルを使って設定を読み込む
// pathが空の場合はファイルを読まない
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// mergeFile はYAMLファイルの内容で設定を上書きする
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗: %w", err)
	}
	return nil
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Camera.Backend = getEnvOrDefault("CAMERA_BACKEND", c.Camera.Backend)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	var errs []error

	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("無効なポート番号: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("無効な読み込みタイムアウト: %v", c.Server.ReadTimeout))
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("無効な書き込みタイムアウト: %v", c.Server.WriteTimeout))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("無効なシャットダウンタイムアウト: %v", c.Server.ShutdownTimeout))
	}

	// カメラ設定の検証
	if !isKnownBackend(c.Camera.Backend) {
		errs = append(errs, fmt.Errorf("%w: %q", camera.ErrUnknownBackend, c.Camera.Backend))
	}
	if c.Camera.DefaultWidth <= 0 || c.Camera.DefaultHeight <= 0 {
		errs = append(errs, fmt.Errorf("無効なフレームサイズ: %dx%d", c.Camera.DefaultWidth, c.Camera.DefaultHeight))
	}
	if c.Camera.JPEGQuality < 1 || c.Camera.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("無効なJPEG品質: %d", c.Camera.JPEGQuality))
	}
	if c.Camera.CommandTimeout <= 0 {
		errs = append(errs, fmt.Errorf("無効なコマンドタイムアウト: %v", c.Camera.CommandTimeout))
	}

	return errors.Join(errs...)
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CameraSettings はバックエンド作成用の設定を返す
func (c *Config) CameraSettings() camera.Settings {
	return camera.Settings{
		Width:          c.Camera.DefaultWidth,
		Height:         c.Camera.DefaultHeight,
		CommandTimeout: c.Camera.CommandTimeout,
	}
}

func isKnownBackend(name string) bool {
	for _, t := range camera.NewBackendFactory().SupportedTypes() {
		if string(t) == name {
			return true
		}
	}
	return false
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
