package camera

import (
	"testing"
	"time"
)

func TestFrame_ReleaseIdempotent(t *testing.T) {
	released := 0
	frame := NewFrame(2, 1, make([]byte, 6), func() { released++ })

	if !frame.HasData() || frame.Size() != 6 {
		t.Fatalf("frame = %+v", frame)
	}

	frame.Release()
	frame.Release()

	if released != 1 {
		t.Errorf("解放関数の呼び出し回数 = %d, want 1", released)
	}
	if frame.HasData() {
		t.Error("Release後はデータを持たないはずです")
	}
}

func TestFrame_ZeroValue(t *testing.T) {
	var frame Frame
	if frame.HasData() {
		t.Error("ゼロ値のフレームはデータを持たないはずです")
	}
	// panicしないこと
	frame.Release()
}

func TestSettings_WithDefaults(t *testing.T) {
	got := Settings{}.withDefaults()
	if got.Width != DefaultWidth || got.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", got.Width, got.Height, DefaultWidth, DefaultHeight)
	}
	if got.CommandTimeout != 10*time.Second {
		t.Errorf("CommandTimeout = %v", got.CommandTimeout)
	}

	custom := Settings{Width: 1920, Height: 1080, CommandTimeout: time.Second}.withDefaults()
	if custom.Width != 1920 || custom.Height != 1080 || custom.CommandTimeout != time.Second {
		t.Errorf("設定値が上書きされています: %+v", custom)
	}
}
