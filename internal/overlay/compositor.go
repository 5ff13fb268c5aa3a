package overlay

import (
	"errors"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/wristwear/internal/asset"
)

// Soft compositing failures. The returned frame is always usable; these
// only report why the overlay was skipped.
var (
	ErrUnsupportedFrame = errors.New("frame is not a 3-channel BGR image")
	ErrUnsupportedAsset = errors.New("asset is not a 4-channel BGRA image")
	ErrSizeMismatch     = errors.New("warped asset size does not match frame")
)

// Composite renders the watch into a copy of frame at the given placement.
//
// The asset is scaled and rotated about its own center, translated so its
// center lands on placement.Center, resampled with linear interpolation
// (out-of-bounds source treated as fully transparent) and alpha-blended
// into the frame. The input frame is never mutated.
//
// An invalid placement or non-positive scale skips the overlay. Any
// geometry or buffer mismatch degrades to the unmodified copy with a
// non-nil error; a single bad frame must never tear down a session.
func Composite(frame gocv.Mat, a *asset.Asset, p Placement) (gocv.Mat, error) {
	out := frame.Clone()

	if !p.Valid || p.Scale <= 0 {
		return out, nil
	}
	if frame.Empty() || frame.Channels() != 3 {
		return out, ErrUnsupportedFrame
	}
	if a == nil || a.Image.Empty() || a.Image.Channels() != 4 {
		return out, ErrUnsupportedAsset
	}

	assetCenter := image.Pt(a.Width/2, a.Height/2)
	rot := gocv.GetRotationMatrix2D(assetCenter, p.Rotation, p.Scale)
	defer rot.Close()

	// Shift the asset center onto the wrist point.
	rot.SetDoubleAt(0, 2, rot.GetDoubleAt(0, 2)+p.Center.X-float64(assetCenter.X))
	rot.SetDoubleAt(1, 2, rot.GetDoubleAt(1, 2)+p.Center.Y-float64(assetCenter.Y))

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpAffineWithParams(
		a.Image, &warped, rot,
		image.Pt(frame.Cols(), frame.Rows()),
		gocv.InterpolationLinear,
		gocv.BorderConstant,
		color.RGBA{},
	)

	if err := blendTransparent(&out, warped); err != nil {
		return out, err
	}
	return out, nil
}

// blendTransparent alpha-blends the BGRA overlay into the BGR background
// in place. Pixels where the overlay contributes no coverage are left
// unchanged.
func blendTransparent(background *gocv.Mat, overlay gocv.Mat) error {
	if background.Rows() != overlay.Rows() || background.Cols() != overlay.Cols() {
		return ErrSizeMismatch
	}

	bg, err := background.DataPtrUint8()
	if err != nil {
		return ErrUnsupportedFrame
	}
	ov, err := overlay.DataPtrUint8()
	if err != nil {
		return ErrUnsupportedAsset
	}

	pixels := background.Rows() * background.Cols()
	for i := 0; i < pixels; i++ {
		alpha := ov[i*4+3]
		if alpha == 0 {
			continue
		}
		af := float64(alpha) / 255.0
		for c := 0; c < 3; c++ {
			blended := af*float64(ov[i*4+c]) + (1-af)*float64(bg[i*3+c])
			bg[i*3+c] = uint8(blended)
		}
	}
	return nil
}
