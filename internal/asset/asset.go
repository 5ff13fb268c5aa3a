// Package asset owns decoded watch overlay images, shared read-only across sessions.
package asset

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// Placeholder dimensions and fill for assets that cannot be loaded.
const (
	PlaceholderSize = 200
	placeholderGray = 96
)

// Asset is a decoded watch image in BGRA layout, ready for compositing.
// Once decoded an asset is immutable and safe to share between sessions.
type Asset struct {
	ID          string
	SourcePath  string
	Image       gocv.Mat
	Width       int
	Height      int
	Placeholder bool
}

// Close releases the decoded image.
func (a *Asset) Close() {
	if !a.Image.Empty() {
		a.Image.Close()
	}
}

// load decodes the image at path into a BGRA asset. Images without an
// alpha channel are treated as fully opaque.
func load(id, path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", path, err)
	}

	img, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", path, err)
	}
	if img.Empty() {
		img.Close()
		return nil, fmt.Errorf("decode asset %s: empty image", path)
	}

	bgra, err := toBGRA(img)
	img.Close()
	if err != nil {
		return nil, fmt.Errorf("normalize asset %s: %w", path, err)
	}

	return &Asset{
		ID:         id,
		SourcePath: path,
		Image:      bgra,
		Width:      bgra.Cols(),
		Height:     bgra.Rows(),
	}, nil
}

// toBGRA converts a decoded image to 4-channel BGRA.
func toBGRA(img gocv.Mat) (gocv.Mat, error) {
	switch img.Channels() {
	case 4:
		return img.Clone(), nil
	case 3:
		dst := gocv.NewMat()
		gocv.CvtColor(img, &dst, gocv.ColorBGRToBGRA)
		return dst, nil
	case 1:
		bgr := gocv.NewMat()
		gocv.CvtColor(img, &bgr, gocv.ColorGrayToBGR)
		dst := gocv.NewMat()
		gocv.CvtColor(bgr, &dst, gocv.ColorBGRToBGRA)
		bgr.Close()
		return dst, nil
	default:
		return gocv.Mat{}, fmt.Errorf("unsupported channel count %d", img.Channels())
	}
}

// newPlaceholder returns a deterministic solid, fully opaque asset used when
// a catalog entry is missing or unreadable.
func newPlaceholder(id string) *Asset {
	img := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(placeholderGray, placeholderGray, placeholderGray, 255),
		PlaceholderSize, PlaceholderSize, gocv.MatTypeCV8UC4,
	)
	return &Asset{
		ID:          id,
		Image:       img,
		Width:       PlaceholderSize,
		Height:      PlaceholderSize,
		Placeholder: true,
	}
}
