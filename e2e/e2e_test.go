package e2e

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/server"
	"github.com/ayusman/wristwear/internal/session"
	"github.com/ayusman/wristwear/internal/store"
)

// writeWatchPNG writes a decodable BGRA overlay image to path.
func writeWatchPNG(t *testing.T, path string) {
	t.Helper()

	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 30, 200, 255), 60, 40, gocv.MatTypeCV8UC4)
	defer m.Close()

	buf, err := gocv.IMEncode(".png", m)
	if err != nil {
		t.Fatalf("encode watch image: %v", err)
	}
	defer buf.Close()

	if err := os.WriteFile(path, buf.GetBytes(), 0o644); err != nil {
		t.Fatalf("write watch image: %v", err)
	}
}

func cameraFrameBase64(t *testing.T) string {
	t.Helper()

	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 50, 60, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer m.Close()

	buf, err := gocv.IMEncode(".jpg", m)
	if err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	defer buf.Close()

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.GetBytes())
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// Real overlay image for the default seeded watch
	assetDir := filepath.Join(tmpDir, "watches")
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		t.Fatalf("mkdir asset dir: %v", err)
	}
	writeWatchPNG(t, filepath.Join(assetDir, "Speedmaster.png"))

	assets := asset.NewCache(s.ImageCatalog(assetDir), 0)
	defer assets.Close()

	newDetector := func() (detector.Detector, error) {
		mock := detector.NewMockDetector()
		mock.SetHands([]detector.HandLandmarks{detector.WristUpLandmarks()})
		return mock, nil
	}

	srv := server.New(server.Config{
		Store:       s,
		Assets:      assets,
		NewDetector: newDetector,
	})
	defer srv.Close()

	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("SeededCatalog", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/watches")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		defer resp.Body.Close()

		var listed struct {
			Total   int `json:"total"`
			Watches []struct {
				ID        string `json:"id"`
				ImagePath string `json:"image_path"`
			} `json:"watches"`
		}
		json.NewDecoder(resp.Body).Decode(&listed)

		if listed.Total != 8 {
			t.Fatalf("total = %d, want 8 seeded watches", listed.Total)
		}
	})

	t.Run("SingleShotTryOn", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"image":    cameraFrameBase64(t),
			"watch_id": "1",
		})
		resp, err := client.Post(ts.URL+"/api/tryon", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("tryon error = %v", err)
		}
		defer resp.Body.Close()

		var result struct {
			Success       bool   `json:"success"`
			HandsDetected bool   `json:"hands_detected"`
			Image         string `json:"image"`
		}
		json.NewDecoder(resp.Body).Decode(&result)

		if !result.Success || !result.HandsDetected {
			t.Fatalf("result = %+v, want success with hands", result)
		}
		if !strings.HasPrefix(result.Image, "data:image/jpeg;base64,") {
			t.Errorf("expected a JPEG data URI, got %.40q", result.Image)
		}
	})

	t.Run("LiveSession", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/tryon/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial error = %v", err)
		}
		defer conn.Close()

		frame := cameraFrameBase64(t)

		// Stream a few frames against the seeded default watch
		for i := 1; i <= 3; i++ {
			if err := conn.WriteJSON(session.Inbound{Type: session.TypeFrame, Image: frame}); err != nil {
				t.Fatalf("write frame: %v", err)
			}

			var out session.Outbound
			if err := conn.ReadJSON(&out); err != nil {
				t.Fatalf("read response: %v", err)
			}
			if out.Type != session.TypeFrame {
				t.Fatalf("type = %q, want frame", out.Type)
			}
			if out.FrameCount != i {
				t.Errorf("frame_count = %d, want %d", out.FrameCount, i)
			}
		}

		// Swap the watch mid-session and keep streaming
		if err := conn.WriteJSON(session.Inbound{Type: session.TypeChangeWatch, WatchID: "4"}); err != nil {
			t.Fatalf("write change_watch: %v", err)
		}

		var ack session.Outbound
		if err := conn.ReadJSON(&ack); err != nil {
			t.Fatalf("read ack: %v", err)
		}
		if ack.Type != session.TypeWatchChanged || ack.WatchID != "4" {
			t.Fatalf("ack = %+v, want watch_changed for 4", ack)
		}

		if err := conn.WriteJSON(session.Inbound{Type: session.TypeFrame, Image: frame}); err != nil {
			t.Fatalf("write frame: %v", err)
		}
		var out session.Outbound
		if err := conn.ReadJSON(&out); err != nil {
			t.Fatalf("read response: %v", err)
		}
		if out.Type != session.TypeFrame {
			t.Errorf("type after swap = %q, want frame", out.Type)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after session operations")
		}
		resp.Body.Close()
	})
}
