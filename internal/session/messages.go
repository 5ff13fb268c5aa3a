// Package session manages one client's live try-on connection state.
package session

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/overlay"
)

// Message types shared by the websocket protocol. "frame" appears on both
// sides: inbound it carries the camera image, outbound the composited one.
const (
	TypeFrame        = "frame"
	TypeChangeWatch  = "change_watch"
	TypePing         = "ping"
	TypeLandmarks    = "landmarks"
	TypeNoHands      = "no_hands"
	TypeWatchChanged = "watch_changed"
	TypeError        = "error"
	TypePong         = "pong"
)

// Inbound is a decoded client message.
type Inbound struct {
	Type    string `json:"type"`
	Image   string `json:"image,omitempty"`
	WatchID string `json:"watch_id,omitempty"`
}

// Outbound is a server response. A zero Outbound (empty Type) means
// "send nothing".
type Outbound struct {
	Type       string                  `json:"type"`
	Image      string                  `json:"image,omitempty"`
	Landmarks  *detector.HandLandmarks `json:"landmarks,omitempty"`
	Placement  *overlay.Placement      `json:"placement,omitempty"`
	FPS        float64                 `json:"fps,omitempty"`
	FrameCount int                     `json:"frame_count,omitempty"`
	WatchID    string                  `json:"watch_id,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// DecodeImagePayload decodes the image field of a frame message: either
// bare base64 or a data URI with a "data:image/...;base64," prefix.
func DecodeImagePayload(payload string) ([]byte, error) {
	if idx := strings.Index(payload, "base64,"); idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return data, nil
}
