package main

import (
	"context"
	"fmt"
	"os"

	"litecamera/internal/app"
	"litecamera/internal/config"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗しました: %v\n", err)
		os.Exit(1)
	}

	// サーバーを起動
	if err := app.Run(context.Background(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "サーバーの起動に失敗しました: %v\n", err)
		os.Exit(1)
	}
}
