// Command wristwear-demo runs the try-on pipeline against a local webcam
// and shows the composited frames in a window. Useful for checking the
// placement math without a browser in the loop.
package main

import (
	"flag"
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/capture"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/overlay"
	"github.com/ayusman/wristwear/internal/session"
)

// fileCatalog resolves every identifier to one fixed image path.
type fileCatalog struct {
	path string
}

func (c fileCatalog) ImagePath(id string) (string, error) {
	return c.path, nil
}

func main() {
	cameraID := flag.Int("camera", 0, "camera device id")
	imagePath := flag.String("image", "assets/watches/Speedmaster.png", "watch overlay image")
	flag.Parse()

	assets := asset.NewCache(fileCatalog{path: *imagePath}, 1)
	defer assets.Close()

	watch := assets.Get("demo")
	if watch.Placeholder {
		log.Printf("Could not load %s, using placeholder", *imagePath)
	}

	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to start detector: %v", err)
	}
	defer det.Close()

	cam := capture.NewCamera(*cameraID)
	if err := cam.Open(); err != nil {
		log.Fatalf("Failed to open camera %d: %v", *cameraID, err)
	}
	defer cam.Close()

	window := gocv.NewWindow("Wristwear Demo")
	defer window.Close()

	fmt.Println("Press ESC to quit")

	var frames int
	for {
		frame, err := cam.ReadFrame()
		if err != nil {
			log.Printf("Read frame: %v", err)
			continue
		}

		out := render(det, watch, frame)
		frame.Close()

		window.IMShow(out)
		out.Close()

		frames++
		if frames%session.FPSSampleInterval == 0 {
			fmt.Printf("%d frames processed\n", frames)
		}

		if window.WaitKey(1) == 27 {
			return
		}
	}
}

// render composites the watch onto one frame, degrading to the plain
// frame when no hand is in view.
func render(det detector.Detector, watch *asset.Asset, frame *gocv.Mat) gocv.Mat {
	hands, err := det.Detect(frame)
	if err != nil || len(hands) == 0 {
		return frame.Clone()
	}

	placement := overlay.Solve(&hands[0], watch.Width)

	out, err := overlay.Composite(*frame, watch, placement)
	if err != nil {
		log.Printf("Composite: %v", err)
	}
	return out
}
