package channel

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrChannelExists は同名のチャンネルが登録済みの場合のエラー
var ErrChannelExists = errors.New("チャンネルは既に登録されています")

// Plugin はホストに登録されるプラグイン
// Closeはホストの終了時に1度だけ呼ばれる
type Plugin interface {
	MethodHandler
	Close() error
}

// Registrar はチャンネル名とプラグインの対応を管理する
type Registrar struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	closed  bool
}

// NewRegistrar は新しいRegistrarを作成する
func NewRegistrar() *Registrar {
	return &Registrar{plugins: make(map[string]Plugin)}
}

// Register はチャンネル名にプラグインを登録する
func (r *Registrar) Register(name string, plugin Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("チャンネル名が空です")
	}
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("%w: %s", ErrChannelExists, name)
	}
	r.plugins[name] = plugin
	return nil
}

// Lookup はチャンネル名に対応するプラグインを返す
func (r *Registrar) Lookup(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plugin, ok := r.plugins[name]
	return plugin, ok
}

// Channels は登録済みのチャンネル名を名前順で返す
func (r *Registrar) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close は全プラグインを終了する。2回目以降の呼び出しは何もしない
func (r *Registrar) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var closeErrors []error
	for name, plugin := range r.plugins {
		if err := plugin.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("チャンネル %s の終了に失敗: %w", name, err))
		}
	}
	r.plugins = make(map[string]Plugin)

	return errors.Join(closeErrors...)
}
