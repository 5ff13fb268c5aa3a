package session

import (
	"encoding/base64"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/overlay"
)

// Mode selects what a session sends back for a processed frame.
type Mode string

const (
	// ModeComposite renders the overlay server-side and returns the image.
	ModeComposite Mode = "composite"
	// ModeLandmarks returns landmarks and placement for client-side rendering.
	ModeLandmarks Mode = "landmarks"
)

// ParseMode returns the Mode for a query/config string, defaulting to
// server-side compositing.
func ParseMode(s string) Mode {
	if Mode(s) == ModeLandmarks {
		return ModeLandmarks
	}
	return ModeComposite
}

// State is the session lifecycle state.
type State int

const (
	// StateActive processes inbound messages.
	StateActive State = iota
	// StateClosing means tear-down was requested.
	StateClosing
	// StateClosed is terminal; all further messages are ignored.
	StateClosed
)

// Session processing constants.
const (
	// FPSSampleInterval is how many frames pass between FPS recomputations.
	// Sampling smooths jitter at the cost of up to 30 frames of staleness.
	FPSSampleInterval = 30
	// DefaultJPEGQuality is the encode quality for composited frames.
	DefaultJPEGQuality = 85
	// DefaultWatchID is the catalog entry selected when the client gives none.
	DefaultWatchID = "1"
)

// Config holds the dependencies and options of one session.
type Config struct {
	// WatchID is the initially selected watch. Empty selects DefaultWatchID.
	WatchID string
	// Mode selects composite or landmark delivery. Empty selects composite.
	Mode Mode
	// Detector produces hand landmarks. The session owns it and closes it.
	Detector detector.Detector
	// Assets resolves watch identifiers to decoded overlay images.
	Assets *asset.Cache
	// JPEGQuality for composited frames. Zero selects DefaultJPEGQuality.
	JPEGQuality int
}

// Session tracks one live try-on connection: current watch selection,
// frame counter and the rolling FPS estimate. It is owned by a single
// connection loop and must not be shared between goroutines.
type Session struct {
	id          string
	mode        Mode
	detector    detector.Detector
	assets      *asset.Cache
	watchID     string
	watch       *asset.Asset
	state       State
	frameCount  int
	fps         float64
	lastSample  time.Time
	jpegQuality int

	now func() time.Time
}

// New creates an Active session and resolves its initial watch.
func New(cfg Config) *Session {
	s := &Session{
		id:          uuid.New().String(),
		mode:        cfg.Mode,
		detector:    cfg.Detector,
		assets:      cfg.Assets,
		watchID:     cfg.WatchID,
		jpegQuality: cfg.JPEGQuality,
		now:         time.Now,
	}
	if s.mode == "" {
		s.mode = ModeComposite
	}
	if s.watchID == "" {
		s.watchID = DefaultWatchID
	}
	if s.jpegQuality <= 0 {
		s.jpegQuality = DefaultJPEGQuality
	}

	s.watch = s.assets.Get(s.watchID)
	s.lastSample = s.now()

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// WatchID returns the currently selected watch identifier.
func (s *Session) WatchID() string { return s.watchID }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// FrameCount returns the number of successfully decoded frames.
func (s *Session) FrameCount() int { return s.frameCount }

// FPS returns the last sampled frame rate estimate.
func (s *Session) FPS() float64 { return s.fps }

// OnFrame processes one inbound video frame: decode, detect, solve
// placement, then composite or pass the placement through depending on
// the session mode. A frame that fails to decode yields a typed error
// without mutating session state.
func (s *Session) OnFrame(data []byte) Outbound {
	if s.state != StateActive {
		return Outbound{}
	}

	frame, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || frame.Empty() {
		if err == nil {
			frame.Close()
		}
		return Outbound{Type: TypeError, Message: "failed to decode frame"}
	}
	defer frame.Close()

	hand := s.detect(&frame)

	s.frameCount++
	s.sampleFPS()

	if hand == nil {
		return Outbound{Type: TypeNoHands}
	}

	placement := overlay.Solve(hand, s.watch.Width)

	if s.mode == ModeLandmarks {
		return Outbound{
			Type:      TypeLandmarks,
			Landmarks: hand,
			Placement: &placement,
			FPS:       round1(s.fps),
		}
	}

	return s.compositeResponse(frame, placement)
}

// OnChangeWatch swaps the selected watch, effective from the next frame.
func (s *Session) OnChangeWatch(id string) Outbound {
	if s.state != StateActive {
		return Outbound{}
	}

	s.SetWatch(id)
	return Outbound{Type: TypeWatchChanged, WatchID: id}
}

// SetWatch swaps the selected watch without acknowledging, used for the
// optional selector carried on frame messages.
func (s *Session) SetWatch(id string) {
	if s.state != StateActive || id == "" || id == s.watchID {
		return
	}
	s.watchID = id
	s.watch = s.assets.Get(id)
}

// OnPing answers a client health check.
func (s *Session) OnPing() Outbound {
	if s.state != StateActive {
		return Outbound{}
	}
	return Outbound{Type: TypePong}
}

// Close tears the session down and releases its resources, including the
// detector it owns. Safe to call more than once.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	s.state = StateClosing

	if s.detector != nil {
		if err := s.detector.Close(); err != nil {
			log.Printf("session %s: close detector: %v", s.id, err)
		}
	}
	s.watch = nil
	s.state = StateClosed
}

// detect asks the external detector for the first detected hand. A missing
// or failing detector degrades to "no hand"; landmarks are never fabricated.
func (s *Session) detect(frame *gocv.Mat) *detector.HandLandmarks {
	if s.detector == nil {
		return nil
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		log.Printf("session %s: detect: %v", s.id, err)
		return nil
	}
	if len(hands) == 0 {
		return nil
	}
	return &hands[0]
}

// sampleFPS recomputes the rolling estimate every FPSSampleInterval frames.
// Frames in between report the previously sampled value.
func (s *Session) sampleFPS() {
	if s.frameCount%FPSSampleInterval != 0 {
		return
	}

	now := s.now()
	if elapsed := now.Sub(s.lastSample).Seconds(); elapsed > 0 {
		s.fps = FPSSampleInterval / elapsed
	}
	s.lastSample = now
}

// compositeResponse renders the overlay and encodes the frame as a JPEG
// data URI. Compositing failures degrade to the unmodified frame.
func (s *Session) compositeResponse(frame gocv.Mat, placement overlay.Placement) Outbound {
	out, err := overlay.Composite(frame, s.watch, placement)
	if err != nil {
		log.Printf("session %s: composite: %v", s.id, err)
	}
	defer out.Close()

	buf, err := gocv.IMEncodeWithParams(".jpg", out, []int{gocv.IMWriteJpegQuality, s.jpegQuality})
	if err != nil {
		return Outbound{Type: TypeError, Message: "failed to encode frame"}
	}
	defer buf.Close()

	return Outbound{
		Type:       TypeFrame,
		Image:      "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.GetBytes()),
		FPS:        round1(s.fps),
		FrameCount: s.frameCount,
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
