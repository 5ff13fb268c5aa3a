// Package server provides the HTTP server for the wristwear try-on service.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// TryOnWSHandler upgrades try-on connections and runs one session per
// connection. Messages are processed strictly in arrival order: read one,
// dispatch, write the response (if any), then read the next.
type TryOnWSHandler struct {
	assets      *asset.Cache
	newDetector func() (detector.Detector, error)
	mode        session.Mode
	jpegQuality int
	maxPayload  int64
}

// NewTryOnWSHandler creates a new TryOnWSHandler.
func NewTryOnWSHandler(assets *asset.Cache, newDetector func() (detector.Detector, error), mode session.Mode, jpegQuality int, maxPayload int64) *TryOnWSHandler {
	return &TryOnWSHandler{
		assets:      assets,
		newDetector: newDetector,
		mode:        mode,
		jpegQuality: jpegQuality,
		maxPayload:  maxPayload,
	}
}

// ServeHTTP handles WebSocket upgrade requests to /api/tryon/ws.
//
// Query parameters: watch_id selects the initial watch, mode overrides
// the server default delivery mode for this connection.
func (h *TryOnWSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if h.maxPayload > 0 {
		conn.SetReadLimit(h.maxPayload)
	}

	mode := h.mode
	if q := r.URL.Query().Get("mode"); q != "" {
		mode = session.ParseMode(q)
	}

	// Each connection gets its own detector so sessions never block each
	// other on inference.
	var det detector.Detector
	if h.newDetector != nil {
		det, err = h.newDetector()
		if err != nil {
			log.Printf("detector unavailable, degrading to no-hands: %v", err)
			det = nil
		}
	}

	sess := session.New(session.Config{
		WatchID:     r.URL.Query().Get("watch_id"),
		Mode:        mode,
		Detector:    det,
		Assets:      h.assets,
		JPEGQuality: h.jpegQuality,
	})
	defer sess.Close()

	log.Printf("session %s connected (watch=%s)", sess.ID(), sess.WatchID())
	defer log.Printf("session %s disconnected after %d frames", sess.ID(), sess.FrameCount())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		out, ok := h.dispatch(sess, data)
		if !ok {
			continue
		}

		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}

// dispatch decodes one inbound message and routes it to the session.
// The second return value reports whether a response should be written.
func (h *TryOnWSHandler) dispatch(sess *session.Session, data []byte) (session.Outbound, bool) {
	var msg session.Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("session %s: malformed message, skipping: %v", sess.ID(), err)
		return session.Outbound{}, false
	}

	switch msg.Type {
	case session.TypeFrame:
		// An optional watch_id on a frame swaps the watch silently.
		sess.SetWatch(msg.WatchID)

		payload, err := session.DecodeImagePayload(msg.Image)
		if err != nil {
			return session.Outbound{Type: session.TypeError, Message: "invalid image encoding"}, true
		}
		out := sess.OnFrame(payload)
		return out, out.Type != ""

	case session.TypeChangeWatch:
		if msg.WatchID == "" {
			return session.Outbound{Type: session.TypeError, Message: "watch_id is required"}, true
		}
		out := sess.OnChangeWatch(msg.WatchID)
		return out, out.Type != ""

	case session.TypePing:
		out := sess.OnPing()
		return out, out.Type != ""

	default:
		log.Printf("session %s: unsupported message type %q, skipping", sess.ID(), msg.Type)
		return session.Outbound{}, false
	}
}
