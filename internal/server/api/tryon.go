package api

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/overlay"
	"github.com/ayusman/wristwear/internal/session"
)

// TryOnHandler renders a watch onto a single uploaded photo. Unlike the
// websocket endpoint this is stateless: one request, one composited image.
type TryOnHandler struct {
	assets      *asset.Cache
	detector    detector.Detector
	jpegQuality int
	maxUpload   int64
}

// NewTryOnHandler creates a new TryOnHandler. The detector is shared
// across requests and must be safe for concurrent use.
func NewTryOnHandler(assets *asset.Cache, det detector.Detector, jpegQuality int, maxUpload int64) *TryOnHandler {
	if jpegQuality <= 0 {
		jpegQuality = session.DefaultJPEGQuality
	}
	return &TryOnHandler{
		assets:      assets,
		detector:    det,
		jpegQuality: jpegQuality,
		maxUpload:   maxUpload,
	}
}

type tryOnRequest struct {
	Image   string `json:"image"`
	WatchID string `json:"watch_id"`
}

type tryOnResponse struct {
	Success       bool    `json:"success"`
	Image         string  `json:"image,omitempty"`
	WatchID       string  `json:"watch_id"`
	HandsDetected bool    `json:"hands_detected"`
	FrameWidth    int     `json:"frame_width,omitempty"`
	FrameHeight   int     `json:"frame_height,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
	Rotation      float64 `json:"rotation,omitempty"`
}

// ServeHTTP handles POST /api/tryon.
func (h *TryOnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	var req tryOnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "Image is required")
		return
	}

	data, err := session.DecodeImagePayload(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image encoding")
		return
	}

	frame, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || frame.Empty() {
		if err == nil {
			frame.Close()
		}
		writeError(w, http.StatusBadRequest, "Failed to decode image")
		return
	}
	defer frame.Close()

	watchID := req.WatchID
	if watchID == "" {
		watchID = session.DefaultWatchID
	}
	watch := h.assets.Get(watchID)

	hand := h.detect(&frame)
	if hand == nil {
		writeJSON(w, http.StatusOK, tryOnResponse{
			Success:       true,
			WatchID:       watchID,
			HandsDetected: false,
			FrameWidth:    frame.Cols(),
			FrameHeight:   frame.Rows(),
		})
		return
	}

	placement := overlay.Solve(hand, watch.Width)

	out, err := overlay.Composite(frame, watch, placement)
	if err != nil {
		log.Printf("tryon: composite: %v", err)
	}
	defer out.Close()

	buf, err := gocv.IMEncodeWithParams(".jpg", out, []int{gocv.IMWriteJpegQuality, h.jpegQuality})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode result")
		return
	}
	defer buf.Close()

	writeJSON(w, http.StatusOK, tryOnResponse{
		Success:       true,
		Image:         "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.GetBytes()),
		WatchID:       watchID,
		HandsDetected: true,
		FrameWidth:    frame.Cols(),
		FrameHeight:   frame.Rows(),
		Scale:         placement.Scale,
		Rotation:      placement.Rotation,
	})
}

func (h *TryOnHandler) detect(frame *gocv.Mat) *detector.HandLandmarks {
	if h.detector == nil {
		return nil
	}
	hands, err := h.detector.Detect(frame)
	if err != nil {
		log.Printf("tryon: detect: %v", err)
		return nil
	}
	if len(hands) == 0 {
		return nil
	}
	return &hands[0]
}
