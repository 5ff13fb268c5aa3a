package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/capture"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/overlay"
	"github.com/ayusman/wristwear/internal/session"
)

// StreamHandler serves an MJPEG kiosk preview: local camera frames with
// the selected watch composited in. Intended for in-store displays where
// no browser-side camera pipeline exists.
type StreamHandler struct {
	camera      capture.Camera
	detector    detector.Detector
	assets      *asset.Cache
	jpegQuality int
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(camera capture.Camera, det detector.Detector, assets *asset.Cache, jpegQuality int) *StreamHandler {
	if jpegQuality <= 0 {
		jpegQuality = session.DefaultJPEGQuality
	}
	return &StreamHandler{
		camera:      camera,
		detector:    det,
		assets:      assets,
		jpegQuality: jpegQuality,
	}
}

// ServeHTTP streams composited MJPEG frames until the client goes away.
// The watch_id query parameter selects the overlay; it defaults to the
// catalog default.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	watchID := r.URL.Query().Get("watch_id")
	if watchID == "" {
		watchID = session.DefaultWatchID
	}
	watch := h.assets.Get(watchID)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	delay := time.Second / time.Duration(h.camera.FPS())

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		out := h.render(frame, watch)
		frame.Close()

		buf, err := gocv.IMEncodeWithParams(".jpg", out, []int{gocv.IMWriteJpegQuality, h.jpegQuality})
		out.Close()
		if err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(delay)
	}
}

// render composites the watch onto one camera frame. Detection or
// compositing trouble degrades to the plain frame.
func (h *StreamHandler) render(frame *gocv.Mat, watch *asset.Asset) gocv.Mat {
	if h.detector == nil {
		return frame.Clone()
	}

	hands, err := h.detector.Detect(frame)
	if err != nil || len(hands) == 0 {
		return frame.Clone()
	}

	placement := overlay.Solve(&hands[0], watch.Width)

	out, err := overlay.Composite(*frame, watch, placement)
	if err != nil {
		log.Printf("stream: composite: %v", err)
	}
	return out
}
