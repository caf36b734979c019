package camera

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestToRGB(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	rgba.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	data, w, h := toRGB(rgba)
	if w != 2 || h != 1 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if want := []byte{10, 20, 30, 40, 50, 60}; !bytes.Equal(data, want) {
		t.Errorf("RGBA = %v, want %v", data, want)
	}

	// サブイメージでもオフセットを考慮すること
	sub := rgba.SubImage(image.Rect(1, 0, 2, 1))
	if data, _, _ := toRGB(sub); !bytes.Equal(data, []byte{40, 50, 60}) {
		t.Errorf("SubImage = %v", data)
	}

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.SetGray(0, 0, color.Gray{Y: 128})
	if data, _, _ := toRGB(gray); !bytes.Equal(data, []byte{128, 128, 128}) {
		t.Errorf("Gray = %v", data)
	}

	ycbcr := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420)
	for i := range ycbcr.Y {
		ycbcr.Y[i] = 235
	}
	for i := range ycbcr.Cb {
		ycbcr.Cb[i], ycbcr.Cr[i] = 128, 128
	}
	data, _, _ = toRGB(ycbcr)
	if len(data) != 12 {
		t.Fatalf("YCbCr length = %d", len(data))
	}
	r, g, b := color.YCbCrToRGB(235, 128, 128)
	if data[0] != r || data[1] != g || data[2] != b {
		t.Errorf("YCbCr = %v", data[:3])
	}

	if data, _, _ := toRGB(nil); data != nil {
		t.Error("nil画像はnilを返すべきです")
	}
	if data, _, _ := toRGB(image.NewRGBA(image.Rect(0, 0, 0, 0))); data != nil {
		t.Error("空の画像はnilを返すべきです")
	}
}
