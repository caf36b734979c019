package camera

import (
	"errors"
	"fmt"
	"sort"
)

// BackendType はカメラバックエンドの種類
type BackendType string

const (
	BackendMediaDevices BackendType = "mediadevices"
	BackendV4L2         BackendType = "v4l2"
	BackendMock         BackendType = "mock"
)

// ErrUnknownBackend は未登録のバックエンドが指定された場合のエラー
var ErrUnknownBackend = errors.New("サポートされていないバックエンド")

// BackendCreator はバックエンド作成関数の型
type BackendCreator func(settings Settings) (Backend, error)

// BackendFactory はバックエンドを名前から作成する
type BackendFactory struct {
	creators map[BackendType]BackendCreator
}

// NewBackendFactory は標準のバックエンドを登録したファクトリーを作成する
func NewBackendFactory() *BackendFactory {
	factory := &BackendFactory{
		creators: make(map[BackendType]BackendCreator),
	}

	factory.Register(BackendMediaDevices, func(settings Settings) (Backend, error) {
		return NewMediaDevicesCamera(settings), nil
	})
	factory.Register(BackendV4L2, func(settings Settings) (Backend, error) {
		return NewV4L2Camera(NewLinuxDiscovery(), settings), nil
	})
	factory.Register(BackendMock, func(settings Settings) (Backend, error) {
		settings = settings.withDefaults()
		mock := NewMockCamera([]string{"モックカメラ"})
		mock.SetFrameSize(settings.Width, settings.Height)
		return mock, nil
	})

	return factory
}

// Register はバックエンド作成関数を登録する
func (f *BackendFactory) Register(backendType BackendType, creator BackendCreator) {
	f.creators[backendType] = creator
}

// Create はバックエンドを作成する
func (f *BackendFactory) Create(backendType BackendType, settings Settings) (Backend, error) {
	creator, exists := f.creators[backendType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backendType)
	}
	return creator(settings)
}

// SupportedTypes はサポートされているバックエンドを名前順で返す
func (f *BackendFactory) SupportedTypes() []BackendType {
	types := make([]BackendType, 0, len(f.creators))
	for backendType := range f.creators {
		types = append(types, backendType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// NewBackend は標準ファクトリーでバックエンドを作成する
func NewBackend(name string, settings Settings) (Backend, error) {
	return NewBackendFactory().Create(BackendType(name), settings)
}
