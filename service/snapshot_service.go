package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"dressup-studio/models"
)

const snapshotTimeout = 45 * time.Second

// stageRect is the on-page box of the stage element in CSS pixels
type stageRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SnapshotService captures the stage exactly as a browser draws it, by
// loading the customizer page in headless Chrome
type SnapshotService struct {
	baseURL    string // e.g. "http://localhost:8080"
	chromePath string
}

// NewSnapshotService creates a SnapshotService.
// chromePath may be empty to auto-detect.
func NewSnapshotService(baseURL, chromePath string) *SnapshotService {
	return &SnapshotService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		chromePath: chromePath,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		log.Printf("⚠️  CHROME_PATH %s not found, searching common paths", configured)
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// RenderURL returns the page the snapshot is taken from
func (s *SnapshotService) RenderURL() string {
	return s.baseURL + "/"
}

// clip converts the stage box to a screenshot clip, snapped to whole pixels
func (r stageRect) clip() *page.Viewport {
	return &page.Viewport{
		X:      math.Floor(r.X),
		Y:      math.Floor(r.Y),
		Width:  math.Ceil(r.Width),
		Height: math.Ceil(r.Height),
		Scale:  1,
	}
}

// Capture screenshots the #stage element of the live page at the given
// canvas size and device pixel ratio
func (s *SnapshotService) Capture(ctx context.Context, canvas Canvas) (models.ExportResult, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctxTimeout, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	log.Printf("📸 Snapshot: url=%s canvas=%dx%d dpr=%.2f", s.RenderURL(), canvas.Width, canvas.Height, canvas.DPR)

	var rect stageRect
	var buf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(int64(max(canvas.Width, 1)+64), int64(max(canvas.Height, 1)+400), chromedp.EmulateScale(canvas.DPR)),
		chromedp.Navigate(s.RenderURL()),
		chromedp.WaitReady("#stage"),
		// Pin the stage to the requested size and wait for every layer image
		chromedp.Evaluate(fmt.Sprintf(`
			(function() {
				const stage = document.getElementById('stage');
				stage.style.width = '%dpx';
				stage.style.height = '%dpx';
				return Promise.all(Array.from(stage.querySelectorAll('img')).map(img => {
					return new Promise((resolve) => {
						if (img.complete) { resolve(); return; }
						const timeout = setTimeout(() => resolve(), 5000);
						img.onload = () => { clearTimeout(timeout); resolve(); };
						img.onerror = () => { clearTimeout(timeout); resolve(); };
					});
				}));
			})();
		`, canvas.Width, canvas.Height), nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Evaluate(`
			(function() {
				const r = document.getElementById('stage').getBoundingClientRect();
				return {x: r.x, y: r.y, width: r.width, height: r.height};
			})();
		`, &rect),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(rect.clip()).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return models.ExportResult{}, fmt.Errorf("failed to capture snapshot: %w", err)
	}

	width, height := canvas.SurfaceSize()
	log.Printf("✓ Snapshot captured: %d bytes", len(buf))
	return models.ExportResult{
		Filename:    ExportBaseName + ".png",
		ContentType: "image/png",
		Data:        buf,
		Width:       width,
		Height:      height,
	}, nil
}
