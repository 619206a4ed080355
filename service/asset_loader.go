package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"

	"dressup-studio/utils"
)

// ErrAssetLoad marks an asset that could not be read or decoded
var ErrAssetLoad = errors.New("asset load failed")

// decoders are matched against the leading bytes of an asset; '?' matches
// any byte. TGA has no magic and is picked by extension instead.
// image.Decode is not used: the tga package registers an empty magic that
// would claim every input.
var decoders = []struct {
	magic  string
	decode func(io.Reader) (image.Image, error)
}{
	{"\x89PNG\r\n\x1a\n", png.Decode},
	{"\xff\xd8", jpeg.Decode},
	{"GIF8", gif.Decode},
	{"RIFF????WEBP", webp.Decode},
}

func matchMagic(magic string, data []byte) bool {
	if len(data) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != data[i] {
			return false
		}
	}
	return true
}

// decodeImage decodes an asset by its content, or by extension for TGA
func decodeImage(src string, data []byte) (image.Image, error) {
	for _, d := range decoders {
		if matchMagic(d.magic, data) {
			return d.decode(bytes.NewReader(data))
		}
	}
	if strings.EqualFold(path.Ext(src), ".tga") {
		return tga.Decode(bytes.NewReader(data))
	}
	return nil, errors.New("unknown image format")
}

// AssetLoaderInterface loads decoded layer images by asset reference
type AssetLoaderInterface interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// FileAssetLoader resolves asset references against a root directory and
// keeps decoded images in a concurrency-safe cache. Absolute http(s)
// references are downloaded instead.
type FileAssetLoader struct {
	root   string
	client *http.Client

	mu    sync.RWMutex
	items map[string]image.Image
}

// NewFileAssetLoader creates a loader rooted at dir
func NewFileAssetLoader(root string) *FileAssetLoader {
	return &FileAssetLoader{
		root:   root,
		client: &http.Client{Timeout: 15 * time.Second},
		items:  make(map[string]image.Image),
	}
}

// Ensure FileAssetLoader implements AssetLoaderInterface
var _ AssetLoaderInterface = (*FileAssetLoader)(nil)

// Root returns the directory assets are resolved against
func (l *FileAssetLoader) Root() string {
	return l.root
}

// Resolve maps an asset reference to a file path under the root
func (l *FileAssetLoader) Resolve(src string) (string, error) {
	rel, ok := utils.CleanAssetPath(src)
	if !ok {
		return "", fmt.Errorf("%w: invalid asset path %q", ErrAssetLoad, src)
	}
	return filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

// Load returns the decoded image for src.
// Failed loads are not cached so assets added later are picked up.
func (l *FileAssetLoader) Load(ctx context.Context, src string) (image.Image, error) {
	// Fast path: read lock
	l.mu.RLock()
	if img, exists := l.items[src]; exists {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	// Slow path: read and decode
	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}

	img, err := decodeImage(src, data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrAssetLoad, src, err)
	}

	// Write lock with double-check
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, exists := l.items[src]; exists {
		return cached, nil
	}
	l.items[src] = img
	return img, nil
}

// Forget drops cached images, e.g. after an asset sync rewrote files
func (l *FileAssetLoader) Forget() {
	l.mu.Lock()
	l.items = make(map[string]image.Image)
	l.mu.Unlock()
}

func (l *FileAssetLoader) read(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.download(ctx, src)
	}

	file, err := l.Resolve(src)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrAssetLoad, src, err)
	}
	return data, nil
}

func (l *FileAssetLoader) download(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrAssetLoad, src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrAssetLoad, src, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrAssetLoad, src, err)
	}
	return data, nil
}
