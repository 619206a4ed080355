package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"dressup-studio/models"
)

func TestFitContain(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		canvas     Canvas
		want       image.Rectangle
	}{
		{"same size", 100, 100, Canvas{100, 100, 1}, image.Rect(0, 0, 100, 100)},
		{"upscale square", 32, 32, Canvas{64, 64, 1}, image.Rect(0, 0, 64, 64)},
		{"wide into square", 200, 100, Canvas{100, 100, 1}, image.Rect(0, 25, 100, 75)},
		{"tall into wide", 50, 100, Canvas{200, 100, 1}, image.Rect(75, 0, 125, 100)},
		{"odd gap rounds half up", 100, 100, Canvas{101, 100, 1}, image.Rect(1, 0, 101, 100)},
		{"device pixel ratio", 200, 100, Canvas{100, 100, 2}, image.Rect(0, 50, 200, 150)},
		{"fractional ratio", 10, 10, Canvas{15, 15, 1.5}, image.Rect(0, 0, 23, 23)},
		{"empty source", 0, 10, Canvas{10, 10, 1}, image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitContain(tt.srcW, tt.srcH, tt.canvas); got != tt.want {
				t.Errorf("FitContain(%d, %d, %+v) = %v, want %v", tt.srcW, tt.srcH, tt.canvas, got, tt.want)
			}
		})
	}
}

func TestCanvasResolve(t *testing.T) {
	fallback := Canvas{Width: 512, Height: 512, DPR: 1}

	tests := []struct {
		name         string
		canvas       Canvas
		wantW, wantH int
	}{
		{"fallback size", Canvas{}, 512, 512},
		{"keeps size", Canvas{Width: 300, Height: 200, DPR: 2}, 600, 400},
		{"bad dpr", Canvas{Width: 300, Height: 200, DPR: -1}, 300, 200},
		{"tiny surface", Canvas{Width: 1, Height: 1, DPR: 0.1}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.canvas.Resolve(fallback).SurfaceSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("SurfaceSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func newTestCompositor(t *testing.T) (*Compositor, []models.Layer) {
	t.Helper()
	root := t.TempDir()
	body := writePNG(t, root, "assets/body.png", 16, 16, color.NRGBA{R: 200, G: 160, B: 120, A: 255})
	shirt := writePNG(t, root, "assets/shirt 1.png", 16, 8, color.NRGBA{B: 255, A: 255})

	compositor := NewCompositor(NewFileAssetLoader(root), Canvas{Width: 32, Height: 32, DPR: 1})
	layers := []models.Layer{
		{ID: "layer-body", Category: models.CategoryBody, Src: body},
		{ID: "layer-eyes", Category: models.CategoryEyes},
		{ID: "layer-shirt", Category: models.CategoryShirt, Src: shirt},
		{ID: "layer-shoes", Category: models.CategoryShoes, Src: "assets/missing.png"},
	}
	return compositor, layers
}

func TestCompose(t *testing.T) {
	compositor, layers := newTestCompositor(t)

	img, err := compositor.Compose(context.Background(), layers, Canvas{})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 32, 32) {
		t.Fatalf("Bounds() = %v, want 32x32 fallback", got)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		// The 16x8 shirt is fitted to 32x16 and centered vertically
		{"body above shirt", 16, 2, color.RGBA{R: 200, G: 160, B: 120, A: 255}},
		{"shirt over body", 16, 16, color.RGBA{B: 255, A: 255}},
		{"body below shirt", 16, 30, color.RGBA{R: 200, G: 160, B: 120, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestComposeEmptyStackIsTransparent(t *testing.T) {
	compositor, _ := newTestCompositor(t)

	img, err := compositor.Compose(context.Background(), nil, Canvas{Width: 4, Height: 4, DPR: 1})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got := img.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("pixel = %v, want transparent", got)
	}
}

func TestExportIsDeterministic(t *testing.T) {
	compositor, layers := newTestCompositor(t)
	canvas := Canvas{Width: 40, Height: 30, DPR: 1.5}

	for _, format := range []models.ExportFormat{models.ExportPNG, models.ExportWebP} {
		t.Run(string(format), func(t *testing.T) {
			first, err := compositor.Export(context.Background(), layers, canvas, format)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			second, err := compositor.Export(context.Background(), layers, canvas, format)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			if !bytes.Equal(first.Data, second.Data) {
				t.Error("two exports of the same stack differ")
			}
			if first.Filename != "character."+string(format) {
				t.Errorf("Filename = %q", first.Filename)
			}
			if first.Width != 60 || first.Height != 45 {
				t.Errorf("size = %dx%d, want 60x45", first.Width, first.Height)
			}
		})
	}
}

func TestExportPNGRoundTrip(t *testing.T) {
	compositor, layers := newTestCompositor(t)

	result, err := compositor.Export(context.Background(), layers, Canvas{Width: 32, Height: 32, DPR: 1}, models.ExportPNG)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if result.ContentType != "image/png" {
		t.Errorf("ContentType = %q", result.ContentType)
	}

	decoded, err := png.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	r, g, b, a := decoded.At(16, 16).RGBA()
	if r != 0 || g != 0 || b != 0xffff || a != 0xffff {
		t.Errorf("decoded pixel = %v %v %v %v, want opaque blue", r, g, b, a)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	compositor, layers := newTestCompositor(t)

	if _, err := compositor.Export(context.Background(), layers, Canvas{}, models.ExportFormat("bmp")); err == nil {
		t.Error("Export(bmp) error = nil, want error")
	}
}

func TestComposeCanceled(t *testing.T) {
	compositor, layers := newTestCompositor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := compositor.Compose(ctx, layers, Canvas{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Compose() error = %v, want context.Canceled", err)
	}
}

func TestFileAssetLoader(t *testing.T) {
	root := t.TempDir()
	ref := writePNG(t, root, "assets/ผม.png", 2, 2, color.NRGBA{B: 255, A: 255})
	loader := NewFileAssetLoader(root)

	first, err := loader.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := color.NRGBAModel.Convert(first.At(1, 1)); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel = %v, want opaque blue", got)
	}
	second, _ := loader.Load(context.Background(), ref)
	if first != second {
		t.Error("second Load() did not hit the cache")
	}

	for _, bad := range []string{"../secret.png", "assets/missing.png"} {
		if _, err := loader.Load(context.Background(), bad); !errors.Is(err, ErrAssetLoad) {
			t.Errorf("Load(%q) error = %v, want ErrAssetLoad", bad, err)
		}
	}
}

// tgaFixture is an uncompressed 2x2 32-bit truecolor TGA, top-left origin,
// every pixel opaque red (stored BGRA)
func tgaFixture() []byte {
	header := []byte{
		0, 0, 2, // no id, no colour map, truecolor
		0, 0, 0, 0, 0, // colour map spec
		0, 0, 0, 0, // origin
		2, 0, 2, 0, // width, height
		32, 0x28, // bits per pixel, top-left origin + 8 alpha bits
	}
	pixel := []byte{0, 0, 255, 255}
	return append(header, bytes.Repeat(pixel, 4)...)
}

func TestDecodeImage(t *testing.T) {
	var pngData bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA{G: 255, A: 255})
	if err := png.Encode(&pngData, img); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		src     string
		data    []byte
		wantW   int
		want    color.NRGBA
		wantErr bool
	}{
		{"png", "assets/eyes.png", pngData.Bytes(), 3, color.NRGBA{G: 255, A: 255}, false},
		{"png named tga", "assets/eyes.tga", pngData.Bytes(), 3, color.NRGBA{G: 255, A: 255}, false},
		{"tga", "assets/shirt.TGA", tgaFixture(), 2, color.NRGBA{R: 255, A: 255}, false},
		{"unknown", "assets/notes.png", []byte("plain text"), 0, color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeImage(tt.src, tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("decodeImage() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeImage() error = %v", err)
			}
			if got.Bounds().Dx() != tt.wantW {
				t.Errorf("width = %d, want %d", got.Bounds().Dx(), tt.wantW)
			}
			if c := color.NRGBAModel.Convert(got.At(got.Bounds().Min.X, got.Bounds().Min.Y)); c != tt.want {
				t.Errorf("first pixel = %v, want %v", c, tt.want)
			}
		})
	}
}

func TestFileAssetLoaderTGA(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "assets"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "assets", "shirt.tga"), tgaFixture(), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := NewFileAssetLoader(root).Load(context.Background(), "assets/shirt.tga")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("size = %dx%d, want 2x2", b.Dx(), b.Dy())
	}
}
