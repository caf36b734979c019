package camera

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
)

// DefaultJPEGQuality はJPEG保存時の既定の品質
const DefaultJPEGQuality = 90

// ErrFrameSize はRGBデータの長さが幅・高さと一致しない場合のエラー
var ErrFrameSize = errors.New("フレームサイズが不正です")

// JPEGWriter はRGBフレームをJPEGファイルとして保存する関数
type JPEGWriter func(data []byte, width, height int, path string) error

// NewJPEGWriter は指定品質で保存するJPEGWriterを返す
func NewJPEGWriter(quality int) JPEGWriter {
	return func(data []byte, width, height int, path string) error {
		return SaveFrameAsJPEG(data, width, height, path, quality)
	}
}

// SaveFrameAsJPEG はパック済みRGBをJPEGファイルとして保存する
func SaveFrameAsJPEG(data []byte, width, height int, path string, quality int) error {
	if !validFrameSize(len(data), width, height) {
		return fmt.Errorf("%w: %dx%d, %d bytes", ErrFrameSize, width, height, len(data))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < len(data); i, j = i+3, j+4 {
		img.Pix[j] = data[i]
		img.Pix[j+1] = data[i+1]
		img.Pix[j+2] = data[i+2]
		img.Pix[j+3] = 0xff
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ファイルの作成に失敗: %w", err)
	}

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = file.Close()
		return fmt.Errorf("JPEGエンコードに失敗: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("ファイルのクローズに失敗: %w", err)
	}
	return nil
}

// validFrameSize はsizeがwidth×height×3バイトと一致するかを掛け算のオーバーフローなしで判定する
func validFrameSize(size, width, height int) bool {
	if width <= 0 || height <= 0 || size%3 != 0 {
		return false
	}
	pixels := size / 3
	return pixels%height == 0 && pixels/height == width
}
