package sink

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	colorText = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorBG   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// DrawLabel draws text on a filled box in the top left corner of img.
func DrawLabel(img *gocv.Mat, text string) {
	font := gocv.FontHersheySimplex
	scale := 0.4
	thickness := 1
	pad := 2

	sz := gocv.GetTextSize(text, font, scale, thickness)
	gocv.Rectangle(img, image.Rectangle{Min: image.Point{X: 0, Y: 0}, Max: image.Point{X: sz.X + pad*2, Y: sz.Y + pad*2}}, colorBG, -1)
	gocv.PutText(img, text, image.Point{X: pad, Y: sz.Y + pad}, font, scale, colorText, thickness)
}
