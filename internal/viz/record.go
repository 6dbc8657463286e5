package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellWidth  = 8
	cellHeight = 16
)

var ErrNoFrames = errors.New("viz: no frames recorded")

// Recorder rasterises canvas frames into an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	// Delay between frames in 100ths of a second.
	Delay int
}

func NewRecorder() *Recorder {
	return &Recorder{Delay: 2}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture appends the current canvas contents as a frame.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(
		image.Rect(0, 0, c.Width*cellWidth, c.Height*cellHeight),
		color.Palette{color.Black, color.White},
	)

	dotW, dotH := cellWidth/2, cellHeight/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - brailleBlank)
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					x0, y0 := col*cellWidth+dx*dotW, row*cellHeight+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, 1)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save encodes the recorded frames to path and drops them.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}

	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	r.frames = nil
	return f.Close()
}
