// Package render draws the sprite arena with ebiten.
package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/bloodroom/assets"
	"github.com/milk9111/bloodroom/sprite"
)

// ImageLoader loads a texture by asset path.
type ImageLoader func(name string) (*ebiten.Image, error)

// Registry maps interned texture ids to loaded sheets.
type Registry struct {
	images []*ebiten.Image
	frames []int
}

// LoadRegistry loads every texture interned in textures. A nil load uses the
// embedded assets.
func LoadRegistry(textures *sprite.Textures, load ImageLoader) (*Registry, error) {
	if load == nil {
		load = assets.LoadImage
	}
	r := &Registry{
		images: make([]*ebiten.Image, textures.Len()+1),
		frames: make([]int, textures.Len()+1),
	}

	var firstErr error
	textures.Each(func(id sprite.TextureID, name string, frames int) {
		if firstErr != nil {
			return
		}
		img, err := load(name)
		if err != nil {
			firstErr = fmt.Errorf("render: load texture %q: %w", name, err)
			return
		}
		r.Register(id, img, frames)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return r, nil
}

// Register stores img as the sheet for id.
func (r *Registry) Register(id sprite.TextureID, img *ebiten.Image, frames int) {
	if r == nil || id == sprite.NoTexture || img == nil {
		return
	}
	for int(id) >= len(r.images) {
		r.images = append(r.images, nil)
		r.frames = append(r.frames, 0)
	}
	if frames < 1 {
		frames = 1
	}
	r.images[id] = img
	r.frames[id] = frames
}

// Image returns the sheet for id, or nil.
func (r *Registry) Image(id sprite.TextureID) *ebiten.Image {
	if r == nil || int(id) >= len(r.images) {
		return nil
	}
	return r.images[id]
}

// Frame returns the sub-image for frame i of sheet id.
func (r *Registry) Frame(id sprite.TextureID, i int) *ebiten.Image {
	img := r.Image(id)
	if img == nil {
		return nil
	}
	b := img.Bounds()
	rect := FrameRect(b.Dx(), b.Dy(), r.frames[id], i)
	sub, ok := img.SubImage(rect.Add(b.Min)).(*ebiten.Image)
	if !ok {
		return img
	}
	return sub
}
