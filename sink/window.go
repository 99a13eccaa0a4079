package sink

import (
	"gocv.io/x/gocv"
)

// Window shows images in a desktop window.
type Window struct {
	window  *gocv.Window
	sizeSet bool
}

func NewWindow(name string) *Window {
	return &Window{
		window: gocv.NewWindow(name),
	}
}

func (w *Window) Put(img gocv.Mat) {
	if !w.sizeSet {
		w.window.ResizeWindow(img.Cols(), img.Rows())
		w.sizeSet = true
	}
	w.window.IMShow(img)
	w.window.WaitKey(1)
}

func (w *Window) Close() {
	w.window.Close()
}
