package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"dressup-studio/models"
)

const (
	// ExportBaseName is the download filename without extension
	ExportBaseName = "character"
	// maxLoadWorkers bounds concurrent asset loads per export
	maxLoadWorkers = 8
)

// Canvas is the preview box the composite reproduces, in CSS pixels,
// together with the device pixel ratio of the display
type Canvas struct {
	Width  int
	Height int
	DPR    float64
}

// Resolve replaces missing or invalid dimensions with the fallback
func (c Canvas) Resolve(fallback Canvas) Canvas {
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = fallback.Width, fallback.Height
	}
	if c.DPR <= 0 || math.IsNaN(c.DPR) || math.IsInf(c.DPR, 0) {
		c.DPR = fallback.DPR
	}
	if c.DPR <= 0 {
		c.DPR = 1
	}
	return c
}

// SurfaceSize returns the output size in device pixels
func (c Canvas) SurfaceSize() (int, int) {
	return max(1, roundHalfUp(float64(c.Width)*c.DPR)), max(1, roundHalfUp(float64(c.Height)*c.DPR))
}

// roundHalfUp rounds .5 towards positive infinity
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FitContain returns where a srcW x srcH image lands on the canvas in device
// pixels: scaled uniformly to fit, centered, every offset rounded in CSS
// pixels first and then again after the DPR scale.
func FitContain(srcW, srcH int, canvas Canvas) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rectangle{}
	}

	w, h := float64(canvas.Width), float64(canvas.Height)
	scale := math.Min(w/float64(srcW), h/float64(srcH))

	dw := float64(roundHalfUp(float64(srcW) * scale))
	dh := float64(roundHalfUp(float64(srcH) * scale))
	dx := float64(roundHalfUp((w - dw) / 2))
	dy := float64(roundHalfUp((h - dh) / 2))

	return image.Rect(
		roundHalfUp(dx*canvas.DPR),
		roundHalfUp(dy*canvas.DPR),
		roundHalfUp((dx+dw)*canvas.DPR),
		roundHalfUp((dy+dh)*canvas.DPR),
	)
}

// Compositor rasterizes a layer stack into one image
type Compositor struct {
	loader   AssetLoaderInterface
	fallback Canvas
	exportMu sync.Mutex
}

// NewCompositor creates a compositor.
// fallback is used when a request carries no usable canvas size.
func NewCompositor(loader AssetLoaderInterface, fallback Canvas) *Compositor {
	return &Compositor{loader: loader, fallback: fallback.Resolve(Canvas{Width: 512, Height: 512, DPR: 1})}
}

// Fallback returns the canvas used when none is given
func (c *Compositor) Fallback() Canvas {
	return c.fallback
}

// Compose loads every visible layer concurrently, waits until all loads
// have settled and then draws them in stacking order. Layers that fail to
// load are skipped.
func (c *Compositor) Compose(ctx context.Context, layers []models.Layer, canvas Canvas) (*image.RGBA, error) {
	canvas = canvas.Resolve(c.fallback)
	width, height := canvas.SurfaceSize()

	images := make([]image.Image, len(layers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLoadWorkers)
	for i, layer := range layers {
		if !layer.Visible() {
			continue
		}
		g.Go(func() error {
			img, err := c.loader.Load(gctx, layer.Src)
			if err != nil {
				log.Printf("⚠️  Skipping layer %s: %v", layer.ID, err)
				return nil
			}
			images[i] = img
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compose canceled: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for _, img := range images {
		if img == nil {
			continue
		}
		bounds := img.Bounds()
		rect := FitContain(bounds.Dx(), bounds.Dy(), canvas)
		if rect.Empty() {
			continue
		}
		// Nearest neighbour keeps pixel-art edges sharp
		xdraw.NearestNeighbor.Scale(dst, rect, img, bounds, xdraw.Over, nil)
	}

	return dst, nil
}

// Export composes the layers and encodes them losslessly.
// Exports run one at a time.
func (c *Compositor) Export(ctx context.Context, layers []models.Layer, canvas Canvas, format models.ExportFormat) (models.ExportResult, error) {
	c.exportMu.Lock()
	defer c.exportMu.Unlock()

	img, err := c.Compose(ctx, layers, canvas)
	if err != nil {
		return models.ExportResult{}, err
	}

	data, contentType, ext, err := Encode(img, format)
	if err != nil {
		return models.ExportResult{}, err
	}

	bounds := img.Bounds()
	log.Printf("✓ Exported %s: %dx%d, %d bytes", format, bounds.Dx(), bounds.Dy(), len(data))
	return models.ExportResult{
		Filename:    ExportBaseName + ext,
		ContentType: contentType,
		Data:        data,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// Encode writes img in a lossless format
func Encode(img image.Image, format models.ExportFormat) (data []byte, contentType, ext string, err error) {
	var buf bytes.Buffer

	switch format {
	case models.ExportWebP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, "", "", fmt.Errorf("failed to encode to WebP: %w", err)
		}
		return buf.Bytes(), "image/webp", ".webp", nil
	case models.ExportPNG, "":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", "", fmt.Errorf("failed to encode to PNG: %w", err)
		}
		return buf.Bytes(), "image/png", ".png", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported export format %q", format)
	}
}
