package camera

import (
	"image"
	"image/color"
)

// toRGB は画像をパック済みRGB（1ピクセル3バイト）に変換する
// 空の画像の場合はnilを返す
func toRGB(img image.Image) ([]byte, int, int) {
	if img == nil {
		return nil, 0, 0
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0
	}

	data := make([]byte, width*height*3)
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < height; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[start : start+width*4]
			out := data[y*width*3:]
			for x := 0; x < width; x++ {
				out[x*3] = row[x*4]
				out[x*3+1] = row[x*4+1]
				out[x*3+2] = row[x*4+2]
			}
		}
	case *image.YCbCr:
		for y := 0; y < height; y++ {
			out := data[y*width*3:]
			for x := 0; x < width; x++ {
				px, py := bounds.Min.X+x, bounds.Min.Y+y
				yy := src.Y[src.YOffset(px, py)]
				ci := src.COffset(px, py)
				r, g, b := color.YCbCrToRGB(yy, src.Cb[ci], src.Cr[ci])
				out[x*3], out[x*3+1], out[x*3+2] = r, g, b
			}
		}
	default:
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				data[i], data[i+1], data[i+2] = byte(r>>8), byte(g>>8), byte(b>>8)
				i += 3
			}
		}
	}
	return data, width, height
}
