package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/bloodroom/sprite"
)

// View is read access to the arena.
type View interface {
	Len() int
	At(index int) *sprite.Entity
}

type Renderer struct {
	textures *Registry
	// Debug outlines every collision shape.
	Debug bool
}

func NewRenderer(textures *Registry) *Renderer {
	return &Renderer{textures: textures}
}

// Draw issues one draw per visible entity in arena order.
func (r *Renderer) Draw(screen *ebiten.Image, view View) {
	if r == nil || screen == nil || view == nil {
		return
	}
	for i := 0; i < view.Len(); i++ {
		e := view.At(i)
		if e == nil || !e.Visible() {
			continue
		}
		r.drawEntity(screen, e)
	}
	if r.Debug {
		r.drawShapes(screen, view)
	}
}

func (r *Renderer) drawEntity(screen *ebiten.Image, e *sprite.Entity) {
	if e.Texture != sprite.NoTexture {
		if img := r.textures.Frame(e.Texture, e.Frame); img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM = Transform(e, img.Bounds().Dx(), img.Bounds().Dy())
			screen.DrawImage(img, op)
			return
		}
	}
	if e.Color.A == 0 {
		return
	}
	vector.FillRect(screen, float32(e.X), float32(e.Y), float32(e.W), float32(e.H), e.Color, false)
}

func (r *Renderer) drawShapes(screen *ebiten.Image, view View) {
	for i := 0; i < view.Len(); i++ {
		e := view.At(i)
		if e == nil {
			continue
		}
		clr := shapeColor(e.Response)
		switch e.Shape {
		case sprite.ShapeBox:
			bb := e.HitBox()
			vector.StrokeRect(screen, float32(bb.L), float32(bb.B), float32(bb.R-bb.L), float32(bb.T-bb.B), 1, clr, false)
		case sprite.ShapeCircle:
			c := e.HitBox().Center()
			vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(e.Radius), 1, clr, false)
		}
	}
}

func shapeColor(resp sprite.Response) color.Color {
	switch resp {
	case sprite.ResponseKill:
		return colornames.Red
	case sprite.ResponsePowerup:
		return colornames.Gold
	default:
		return colornames.Lime
	}
}

// FrameRect returns the source rectangle of frame i in a horizontal strip of
// frames. Out-of-range frames wrap.
func FrameRect(sheetW, sheetH, frames, i int) image.Rectangle {
	if frames < 1 {
		frames = 1
	}
	i %= frames
	if i < 0 {
		i += frames
	}
	fw := sheetW / frames
	return image.Rect(i*fw, 0, (i+1)*fw, sheetH)
}

// Transform maps a srcW×srcH frame onto e's rectangle, applying flip and
// then rotation about the rectangle's centre.
func Transform(e *sprite.Entity, srcW, srcH int) ebiten.GeoM {
	var g ebiten.GeoM
	if srcW <= 0 || srcH <= 0 {
		return g
	}
	w, h := float64(e.W), float64(e.H)
	g.Scale(w/float64(srcW), h/float64(srcH))
	g.Translate(-w/2, -h/2)
	switch e.Flip {
	case sprite.FlipHorizontal:
		g.Scale(-1, 1)
	case sprite.FlipVertical:
		g.Scale(1, -1)
	}
	g.Rotate(e.Rotation.Radians())
	g.Translate(float64(e.X)+w/2, float64(e.Y)+h/2)
	return g
}
