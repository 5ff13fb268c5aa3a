package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// WristUpLandmarks returns a preset HandLandmarks for a hand held upright,
// palm facing the camera, wrist near the bottom of the frame. The four
// points the placement solver reads are at known positions: wrist
// (100,100), thumb base (80,90), middle base (100,60), pinky base (120,90).
func WristUpLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point2D{X: 100, Y: 100}

	// Thumb rising off the left edge of the palm
	landmarks.Points[ThumbCMC] = Point2D{X: 80, Y: 90}
	landmarks.Points[ThumbMCP] = Point2D{X: 74, Y: 80}
	landmarks.Points[ThumbIP] = Point2D{X: 70, Y: 72}
	landmarks.Points[ThumbTip] = Point2D{X: 67, Y: 64}

	// Index finger
	landmarks.Points[IndexMCP] = Point2D{X: 88, Y: 62}
	landmarks.Points[IndexPIP] = Point2D{X: 87, Y: 50}
	landmarks.Points[IndexDIP] = Point2D{X: 86, Y: 42}
	landmarks.Points[IndexTip] = Point2D{X: 86, Y: 34}

	// Middle finger straight up from the wrist
	landmarks.Points[MiddleMCP] = Point2D{X: 100, Y: 60}
	landmarks.Points[MiddlePIP] = Point2D{X: 100, Y: 46}
	landmarks.Points[MiddleDIP] = Point2D{X: 100, Y: 37}
	landmarks.Points[MiddleTip] = Point2D{X: 100, Y: 28}

	// Ring finger
	landmarks.Points[RingMCP] = Point2D{X: 111, Y: 62}
	landmarks.Points[RingPIP] = Point2D{X: 112, Y: 49}
	landmarks.Points[RingDIP] = Point2D{X: 113, Y: 41}
	landmarks.Points[RingTip] = Point2D{X: 113, Y: 33}

	// Pinky finger on the right edge of the palm
	landmarks.Points[PinkyMCP] = Point2D{X: 120, Y: 90}
	landmarks.Points[PinkyPIP] = Point2D{X: 124, Y: 72}
	landmarks.Points[PinkyDIP] = Point2D{X: 126, Y: 63}
	landmarks.Points[PinkyTip] = Point2D{X: 127, Y: 55}

	return landmarks
}

// ClosedFistLandmarks returns a preset HandLandmarks for a fist seen edge-on,
// where the thumb base and pinky base collapse to the same point. It exercises
// the degenerate zero-hand-width case in the placement solver.
func ClosedFistLandmarks() HandLandmarks {
	landmarks := WristUpLandmarks()
	landmarks.Points[ThumbCMC] = Point2D{X: 100, Y: 88}
	landmarks.Points[PinkyMCP] = Point2D{X: 100, Y: 88}
	return landmarks
}
