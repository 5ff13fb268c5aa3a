// Package overlay computes and renders the watch overlay for a detected hand.
package overlay

import (
	"math"

	"github.com/ayusman/wristwear/internal/detector"
)

// WidthRatio sizes the watch to 80% of the measured hand width.
// Tunable design constant, not derived.
const WidthRatio = 0.8

// uprightOffsetDeg corrects for the watch image's native upright orientation.
const uprightOffsetDeg = 90

// Placement describes where and how to render the watch for one frame:
// the asset's geometric center in frame coordinates, an asset-space to
// frame-space scale factor, and a rotation in degrees. Valid is false when
// no hand was detected, in which case the other fields carry no meaning.
type Placement struct {
	Center   detector.Point2D `json:"center"`
	Scale    float64          `json:"scale"`
	Rotation float64          `json:"rotation"`
	Valid    bool             `json:"valid"`
}

// Solve computes the placement for a watch of the given native pixel width
// on the detected hand. A nil hand yields an invalid placement.
//
// The watch is centered on the wrist, scaled against the thumb-base to
// pinky-base distance and rotated to align with the wrist-to-middle-finger
// axis. A degenerate hand (zero width) yields scale 0, which the
// compositor treats as "skip overlay this frame".
func Solve(hand *detector.HandLandmarks, assetWidth int) Placement {
	if hand == nil || assetWidth <= 0 {
		return Placement{}
	}

	wrist := hand.Points[detector.Wrist]
	middleBase := hand.Points[detector.MiddleMCP]

	scale := hand.HandWidth() * WidthRatio / float64(assetWidth)

	angle := math.Atan2(middleBase.Y-wrist.Y, middleBase.X-wrist.X)
	rotation := angle*180/math.Pi - uprightOffsetDeg

	return Placement{
		Center:   wrist,
		Scale:    scale,
		Rotation: rotation,
		Valid:    true,
	}
}
