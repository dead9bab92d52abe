package ui

import (
	"image"
	"image/color"
)

// 屏幕映射在 $0200-$05FF，32x32 个像素，每个字节的低 4 位是颜色
const (
	ScreenStart  = 0x0200
	ScreenWidth  = 32
	ScreenHeight = 32
	screenScale  = 8
)

// 16 色调色板
var palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, // black
	{0xff, 0xff, 0xff, 0xff}, // white
	{0x88, 0x00, 0x00, 0xff}, // red
	{0xaa, 0xff, 0xee, 0xff}, // cyan
	{0xcc, 0x44, 0xcc, 0xff}, // purple
	{0x00, 0xcc, 0x55, 0xff}, // green
	{0x00, 0x00, 0xaa, 0xff}, // blue
	{0xee, 0xee, 0x77, 0xff}, // yellow
	{0xdd, 0x88, 0x55, 0xff}, // orange
	{0x66, 0x44, 0x00, 0xff}, // brown
	{0xff, 0x77, 0x77, 0xff}, // light red
	{0x33, 0x33, 0x33, 0xff}, // dark grey
	{0x77, 0x77, 0x77, 0xff}, // grey
	{0xaa, 0xff, 0x66, 0xff}, // light green
	{0x00, 0x88, 0xff, 0xff}, // light blue
	{0xbb, 0xbb, 0xbb, 0xff}, // light grey
}

// renderScreen turns the screen bytes into a 32x32 image. Missing bytes are
// drawn black.
func renderScreen(data []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			i := y*ScreenWidth + x
			c := palette[0]
			if i < len(data) {
				c = palette[data[i]&0x0f]
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Resize scales source up by ratio, nearest neighbour.
func Resize(source *image.RGBA, w int, h int, ratio int) *image.RGBA {

	tw := w * ratio
	th := h * ratio

	var target *image.RGBA = image.NewRGBA(image.Rect(0, 0, tw, th))

	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			sx := x / ratio
			sy := y / ratio
			target.SetRGBA(x, y, source.RGBAAt(sx, sy))
		}
	}

	return target
}
