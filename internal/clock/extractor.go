// Package clock reads an elapsed-time value off a cropped clock region.
//
// On-screen game clocks are small, low-contrast and anti-aliased, which
// defeats naive OCR. The extractor upscales and stabilizes the region, then
// tries a battery of binarized variants with a cheap whole-region pass
// before falling back to a fine-grained grid pass.
package clock

import (
	"image"

	"github.com/kerignard/vodsplit/internal/ocr"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// Grid used by the fine pass.
const (
	gridCols = 3
	gridRows = 2
)

// Extractor turns a cropped region image into a clock reading.
type Extractor struct {
	logger zerolog.Logger
	engine ocr.Engine
}

// NewExtractor creates an extractor backed by the given OCR engine.
func NewExtractor(logger zerolog.Logger, engine ocr.Engine) *Extractor {
	return &Extractor{
		logger: logger.With().Str("component", "clock").Logger(),
		engine: engine,
	}
}

// Extract returns the clock value in seconds. ok is false when no readable
// clock is present, which is an expected outcome rather than an error.
func (e *Extractor) Extract(region gocv.Mat) (int, bool) {
	if region.Empty() {
		return 0, false
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)

	// Upscale 2x and blur lightly to stabilize anti-aliasing noise.
	up := gocv.NewMat()
	defer up.Close()
	gocv.Resize(gray, &up, image.Point{}, 2, 2, gocv.InterpolationLinear)
	gocv.GaussianBlur(up, &up, image.Pt(3, 3), 0, 0, gocv.BorderDefault)

	if secs, ok := e.coarsePass(up); ok {
		return secs, true
	}
	return e.gridPass(up)
}

// coarsePass runs whole-region OCR over each preprocessing variant.
func (e *Extractor) coarsePass(gray gocv.Mat) (int, bool) {
	variants := preprocessVariants(gray)
	defer closeAll(variants)

	for _, v := range variants {
		text, err := e.recognize(v, ocr.ProfileBlock)
		if err != nil {
			continue
		}
		if secs, ok := parseClockText(text); ok {
			return secs, true
		}
	}
	return 0, false
}

// gridPass partitions the region into a fixed grid and re-runs the variants
// per cell with the digit-constrained profile. Expensive, so it only runs
// when the coarse pass came up empty.
func (e *Extractor) gridPass(gray gocv.Mat) (int, bool) {
	w, h := gray.Cols(), gray.Rows()
	winW, winH := w/gridCols, h/gridRows
	if winW == 0 || winH == 0 {
		return 0, false
	}

	for ry := 0; ry < gridRows; ry++ {
		for cx := 0; cx < gridCols; cx++ {
			sx, sy := cx*winW, ry*winH
			cell := gray.Region(image.Rect(sx, sy, sx+winW, sy+winH))
			secs, ok := e.scanCell(cell)
			cell.Close()
			if ok {
				return secs, true
			}
		}
	}
	return 0, false
}

func (e *Extractor) scanCell(cell gocv.Mat) (int, bool) {
	variants := preprocessVariants(cell)
	defer closeAll(variants)

	for _, v := range variants {
		text, err := e.recognize(v, ocr.ProfileDigits)
		if err != nil {
			continue
		}
		if secs, ok := parseDigitToken(text); ok {
			return secs, true
		}
	}
	return 0, false
}

func (e *Extractor) recognize(m gocv.Mat, profile ocr.Profile) (string, error) {
	png, err := encodePNG(m)
	if err != nil {
		e.logger.Debug().Err(err).Msg("encode region for ocr")
		return "", err
	}
	text, err := e.engine.Recognize(png, profile)
	if err != nil {
		e.logger.Debug().Err(err).Msg("ocr pass failed")
		return "", err
	}
	return text, nil
}

// preprocessVariants binarizes the grayscale image four ways: for each
// polarity, an Otsu threshold and a morphologically closed version of it.
// The caller owns the returned Mats.
func preprocessVariants(gray gocv.Mat) []gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(2, 2))
	defer kernel.Close()

	out := make([]gocv.Mat, 0, 4)
	for _, invert := range []bool{false, true} {
		src := gray
		inv := gocv.NewMat()
		if invert {
			gocv.BitwiseNot(gray, &inv)
			src = inv
		}

		th := gocv.NewMat()
		gocv.Threshold(src, &th, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
		closed := gocv.NewMat()
		gocv.MorphologyEx(th, &closed, gocv.MorphClose, kernel)
		out = append(out, th, closed)

		inv.Close()
	}
	return out
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}

func encodePNG(m gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, m)
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
