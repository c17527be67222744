// Package render caches sprite images decoded from scene directories.
package render

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Images caches decoded sprite images by path. It is safe for concurrent use.
type Images struct {
	fsys fs.FS

	mu     sync.Mutex
	images map[string]*ebiten.Image
}

// NewImages creates a cache reading from fsys.
func NewImages(fsys fs.FS) *Images {
	return &Images{fsys: fsys, images: make(map[string]*ebiten.Image)}
}

// Load returns the image at path, decoding it on first use.
func (c *Images) Load(path string) (*ebiten.Image, error) {
	if img := c.Get(path); img != nil {
		return img, nil
	}
	src, err := decodeImage(c.fsys, path)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)
	c.Register(path, img)
	return img, nil
}

// Register stores an image under path.
func (c *Images) Register(path string, img *ebiten.Image) {
	if path == "" || img == nil {
		return
	}
	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
}

// Get returns a cached image, or nil.
func (c *Images) Get(path string) *ebiten.Image {
	if path == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images[path]
}

// Forget drops every cached image so the next Load decodes again.
func (c *Images) Forget() {
	c.mu.Lock()
	clear(c.images)
	c.mu.Unlock()
}

func decodeImage(fsys fs.FS, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("render: empty image path")
	}
	if fsys == nil {
		return nil, fmt.Errorf("render: no image source for %s", path)
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", path, err)
	}
	return img, nil
}
