package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/capture"
	"github.com/ayusman/wristwear/internal/config"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/server"
	"github.com/ayusman/wristwear/internal/session"
	"github.com/ayusman/wristwear/internal/store"
)

func main() {
	fmt.Println("Wristwear - Virtual Watch Try-On")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the catalog store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".wristwear")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "wristwear.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Overlay images resolve through the catalog
	assets := asset.NewCache(st.ImageCatalog(cfg.AssetDir), cfg.CacheLimit)
	defer assets.Close()

	if cfg.HotReload {
		watcher, err := asset.NewWatcher(assets, cfg.AssetDir)
		if err != nil {
			log.Printf("Asset hot reload unavailable: %v", err)
		} else {
			defer watcher.Close()
			fmt.Printf("Watching %s for asset changes\n", cfg.AssetDir)
		}
	}

	// Find web directory
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		fmt.Printf("Serving static files from: %s\n", staticDir)
	}

	var camera capture.Camera
	if cfg.CameraID >= 0 {
		camera = capture.NewCamera(cfg.CameraID)
		if err := camera.Open(); err != nil {
			log.Printf("Kiosk camera unavailable: %v", err)
			camera = nil
		} else {
			defer camera.Close()
			fmt.Printf("Kiosk preview on /api/stream (camera %d)\n", cfg.CameraID)
		}
	}

	// Configure and start server
	srvCfg := server.Config{
		StaticDir:   staticDir,
		Store:       st,
		Assets:      assets,
		NewDetector: newDetector,
		Camera:      camera,
		Mode:        session.ParseMode(cfg.Mode),
		JPEGQuality: cfg.JPEGQuality,
		MaxUpload:   cfg.MaxUploadSize,
	}

	srv := server.New(srvCfg)
	defer srv.Close()

	fmt.Printf("Starting server on %s\n", cfg.Addr)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newDetector prefers the MediaPipe subprocess and degrades to the mock
// when the Python sidecar is not installed, so the catalog API and the
// static frontend keep working on machines without it.
func newDetector() (detector.Detector, error) {
	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("MediaPipe detector unavailable, using mock: %v", err)
		return detector.NewMockDetector(), nil
	}
	return det, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.wristwear/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".wristwear", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
