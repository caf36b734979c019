// Package app はコマンドから呼ばれる起動処理をまとめる
package app

import (
	"context"
	"fmt"

	"litecamera/internal/camera"
	"litecamera/internal/channel"
	"litecamera/internal/config"
	"litecamera/internal/log"
	"litecamera/internal/plugin"
	"litecamera/internal/server"
)

// NewPlugin は設定のバックエンドでプラグインを作成する
func NewPlugin(cfg *config.Config) (*plugin.Plugin, error) {
	backend, err := camera.NewBackend(cfg.Camera.Backend, cfg.CameraSettings())
	if err != nil {
		return nil, fmt.Errorf("カメラバックエンドの作成に失敗: %w", err)
	}

	return plugin.New(backend, plugin.Options{
		Devices:  backend,
		SaveJPEG: camera.NewJPEGWriter(cfg.Camera.JPEGQuality),
	}), nil
}

// Run はプラグインを登録して開発用ホストを起動する
// 終了時にはプラグインを必ず閉じる
func Run(ctx context.Context, cfg *config.Config) (err error) {
	log.Init(cfg.Log.Level)

	p, err := NewPlugin(cfg)
	if err != nil {
		return err
	}

	registrar := channel.NewRegistrar()
	defer func() {
		if closeErr := registrar.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("プラグインの終了に失敗: %w", closeErr)
		}
	}()

	if err := registrar.Register(plugin.ChannelName, p); err != nil {
		_ = p.Close()
		return fmt.Errorf("チャンネルの登録に失敗: %w", err)
	}

	log.Info("litecamera を起動します",
		"addr", cfg.ServerAddress(),
		"backend", cfg.Camera.Backend,
		"session", p.SessionID(),
	)

	srv := server.New(cfg, registrar, server.Info{
		Backend:   cfg.Camera.Backend,
		SessionID: p.SessionID(),
	})
	return srv.Start(ctx)
}

// ListDevices はバックエンドが列挙したデバイス名を返す
func ListDevices(cfg *config.Config) ([]camera.CaptureDeviceInfo, error) {
	backend, err := camera.NewBackend(cfg.Camera.Backend, cfg.CameraSettings())
	if err != nil {
		return nil, fmt.Errorf("カメラバックエンドの作成に失敗: %w", err)
	}
	defer backend.Release()
	return backend.ListCaptureDevices(), nil
}
