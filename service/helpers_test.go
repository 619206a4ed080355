package service

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"dressup-studio/models"
)

// manifestFromJSON parses a manifest literal or fails the test
func manifestFromJSON(t *testing.T, doc string) models.Manifest {
	t.Helper()
	manifest, err := ParseManifest([]byte(doc))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	return manifest
}

func catalogFromJSON(t *testing.T, doc string) *Catalog {
	t.Helper()
	return NewCatalog(manifestFromJSON(t, doc))
}

// fullCatalogDoc has every category, 20 eyes and male/female hair
const fullCatalogDoc = `{
	"order": ["Body", "Eyes", "Mouth", "Hair", "top", "bottom", "Shoes"],
	"parts": {
		"Body": ["body/base.png", "body/alt.png"],
		"Eyes": [
			"eyes/01.png", "eyes/02.png", "eyes/03.png", "eyes/04.png", "eyes/05.png",
			"eyes/06.png", "eyes/07.png", "eyes/08.png", "eyes/09.png", "eyes/10.png",
			"eyes/11.png", "eyes/12.png", "eyes/13.png", "eyes/14.png", "eyes/15.png",
			"eyes/16.png", "eyes/17.png", "eyes/18.png", "eyes/19.png", "eyes/20.png"
		],
		"Mouth": ["mouth/smile.png"],
		"Hair": {"male": ["hair/m1.png", "hair/m2.png"], "female": ["hair/f1.png", "hair/f2.png", "hair/f3.png"]},
		"top": ["top/tee.png"],
		"Pants": [],
		"Shoes": ["shoes/boots.png"]
	},
	"icon": ["icons/eye.png", "icons/sneaker.png"],
	"iconsMap": {"hair": "icons/hair.png"}
}`

// recordingSink records render events
type recordingSink struct {
	mu     sync.Mutex
	layers []models.Layer
	stages [][]models.Layer
}

func (s *recordingSink) LayerUpdated(layer models.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, layer)
}

func (s *recordingSink) StageRendered(layers []models.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, layers)
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = nil
	s.stages = nil
}

func (s *recordingSink) counts() (layers, stages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers), len(s.stages)
}

// writePNG writes a solid w x h PNG under root and returns its reference
func writePNG(t *testing.T, root, ref string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return ref
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return string(data)
}
