// Package main はlitecameraサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"litecamera/internal/app"
	"litecamera/internal/config"
)

func main() {
	// コマンドラインオプション
	var (
		host        = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port        = flag.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		backend     = flag.String("backend", "", "カメラバックエンド: mediadevices, v4l2, mock")
		configPath  = flag.String("config", "", "YAML設定ファイルのパス")
		listDevices = flag.Bool("list-devices", false, "キャプチャデバイスを一覧表示して終了")
		help        = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("litecamera")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	path := *configPath
	if path == "" {
		path = os.Getenv("LITECAMERA_CONFIG")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *backend != "" {
		cfg.Camera.Backend = *backend
	}
	if err := cfg.Validate(); err != nil {
		fatalf("設定が不正です: %v", err)
	}

	if *listDevices {
		devices, err := app.ListDevices(cfg)
		if err != nil {
			fatalf("デバイスの列挙に失敗しました: %v", err)
		}
		for i, device := range devices {
			fmt.Printf("%d: %s (%s)\n", i, device.Name, device.ID)
		}
		return
	}

	// サーバーを起動
	if err := app.Run(context.Background(), cfg); err != nil {
		fatalf("サーバーの起動に失敗しました: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
