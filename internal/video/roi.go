package video

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ROI is the fractional sub-rectangle of a frame where the on-screen clock
// is expected to render. Fractions are relative to the frame dimensions and
// recomputed per frame, since frames may vary in resolution between sources.
type ROI struct {
	X      float64 `yaml:"x" env:"VODSPLIT_ROI_X"`
	Y      float64 `yaml:"y" env:"VODSPLIT_ROI_Y"`
	Width  float64 `yaml:"w" env:"VODSPLIT_ROI_W"`
	Height float64 `yaml:"h" env:"VODSPLIT_ROI_H"`
}

// Validate rejects degenerate or out-of-frame rectangles. Called once at
// startup so the per-frame crop never produces a zero-size image.
func (r ROI) Validate() error {
	if r.X < 0 || r.Y < 0 || r.X > 1 || r.Y > 1 {
		return fmt.Errorf("roi origin (%v, %v) outside [0,1]", r.X, r.Y)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("roi size (%v x %v) must be positive", r.Width, r.Height)
	}
	if r.X+r.Width > 1 || r.Y+r.Height > 1 {
		return fmt.Errorf("roi extends past the frame: x+w=%v, y+h=%v", r.X+r.Width, r.Y+r.Height)
	}
	return nil
}

// Rect converts the fractional rectangle to pixel coordinates for a frame of
// the given size.
func (r ROI) Rect(width, height int) image.Rectangle {
	x1 := int(r.X * float64(width))
	y1 := int(r.Y * float64(height))
	x2 := int((r.X + r.Width) * float64(width))
	y2 := int((r.Y + r.Height) * float64(height))
	return image.Rect(x1, y1, x2, y2)
}

// Crop returns a view of frame restricted to the ROI. The returned Mat
// shares storage with frame and must be closed by the caller.
func Crop(frame gocv.Mat, roi ROI) gocv.Mat {
	return frame.Region(roi.Rect(frame.Cols(), frame.Rows()))
}
