package present

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/breeze"
)

// upperHalf draws the upper pixel of a cell in the foreground color and the
// lower one in the background color, doubling the vertical resolution.
const upperHalf = '▀'

// Terminal presents snapshots on a tcell screen. Each cell shows two
// preview pixels stacked vertically.
type Terminal struct {
	screen tcell.Screen
	meshes MeshSource
	opts   []RasterOption
	raster *Raster
}

// NewTerminal creates a presenter on an initialized screen.
func NewTerminal(screen tcell.Screen, meshes MeshSource, opts ...RasterOption) *Terminal {
	return &Terminal{screen: screen, meshes: meshes, opts: opts}
}

// Present draws s and shows the screen. The preview follows the screen size.
func (t *Terminal) Present(s breeze.Snapshot) {
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if t.raster == nil || t.raster.Bounds().Dx() != w || t.raster.Bounds().Dy() != h*2 {
		t.raster = NewRaster(t.meshes, w, h*2, t.opts...)
	}
	t.raster.Present(s)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top, bottom := t.raster.At(x, y*2), t.raster.At(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
	t.screen.Show()
}

// FrameFunc produces the snapshot of the next frame.
type FrameFunc func() (breeze.Snapshot, error)

// Run presents frames at the given rate until ctx is done, frame fails,
// frames have been shown (0 means no limit), or the user presses q, Esc or
// Ctrl-C.
func (t *Terminal) Run(ctx context.Context, fps, frames int, frame FrameFunc) error {
	if fps <= 0 {
		return fmt.Errorf("present: fps %d must be positive", fps)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go t.handleInput(ctx, cancel)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for n := 0; frames == 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			breeze.Logger().Info("present: terminal stopped", "frames", n)
			return nil
		case <-ticker.C:
		}
		s, err := frame()
		if err != nil {
			return err
		}
		t.Present(s)
	}
	return nil
}

func (t *Terminal) handleInput(ctx context.Context, stop context.CancelFunc) {
	for ctx.Err() == nil {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return // screen finalized
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				stop()
				return
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}
