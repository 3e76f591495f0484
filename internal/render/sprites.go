package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"chainshot/internal/game"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// spritePad leaves room for the rim stroke around the disc.
const spritePad = 3.0

// palette maps every orb color to its flat fill. Powerup fills stay
// clear of the five playable hues so a glance tells them apart.
var palette = map[game.OrbColor]color.RGBA{
	game.ColorRed:    {214, 48, 49, 255},
	game.ColorBlue:   {9, 132, 227, 255},
	game.ColorGreen:  {0, 184, 92, 255},
	game.ColorYellow: {253, 203, 76, 255},
	game.ColorPurple: {108, 92, 231, 255},

	game.PowerBomb:     {45, 52, 54, 255},
	game.PowerSlow:     {129, 236, 236, 255},
	game.PowerReverse:  {225, 112, 85, 255},
	game.PowerAccuracy: {232, 67, 147, 255},
}

// glyphs are the single-letter markers baked onto powerup discs.
var glyphs = map[game.OrbColor]string{
	game.PowerBomb:     "B",
	game.PowerSlow:     "S",
	game.PowerReverse:  "R",
	game.PowerAccuracy: "A",
}

// SpriteCache rasterizes one disc per orb color and serves the cached
// image on every subsequent draw. The key space is the color enum, so
// the cache never needs eviction.
type SpriteCache struct {
	mu      sync.RWMutex
	radius  float64
	face    font.Face
	sprites map[game.OrbColor]image.Image
}

// NewSpriteCache creates a cache for discs of the given radius. The
// font face marks powerup glyphs; nil falls back to the drawing
// context's built-in face.
func NewSpriteCache(radius float64, face font.Face) *SpriteCache {
	if radius <= 0 {
		radius = game.DefaultOrbRadius
	}
	return &SpriteCache{
		radius:  radius,
		face:    face,
		sprites: make(map[game.OrbColor]image.Image),
	}
}

// Disc returns the pre-rendered disc for a color, rasterizing it on
// first use.
func (c *SpriteCache) Disc(col game.OrbColor) image.Image {
	c.mu.RLock()
	img, ok := c.sprites[col]
	c.mu.RUnlock()
	if ok {
		return img
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.sprites[col]; ok {
		return img
	}
	img = c.render(col)
	c.sprites[col] = img
	return img
}

// Size returns the number of rasterized sprites.
func (c *SpriteCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sprites)
}

// render rasterizes a single disc. Solid fills and strokes only.
func (c *SpriteCache) render(col game.OrbColor) image.Image {
	side := int(math.Ceil(2 * (c.radius + spritePad)))
	dc := gg.NewContext(side, side)
	cx := float64(side) / 2
	cy := float64(side) / 2

	if col == game.ColorRainbow {
		c.renderRainbow(dc, cx, cy)
		return dc.Image()
	}

	fill, ok := palette[col]
	if !ok {
		fill = color.RGBA{223, 230, 233, 255}
	}

	dc.SetColor(fill)
	dc.DrawCircle(cx, cy, c.radius)
	dc.Fill()

	dc.SetColor(shade(fill, 0.6))
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, c.radius)
	dc.Stroke()

	if glyph, ok := glyphs[col]; ok {
		dc.SetColor(color.White)
		dc.SetLineWidth(1.5)
		dc.DrawCircle(cx, cy, c.radius-3.5)
		dc.Stroke()
		if c.face != nil {
			dc.SetFontFace(c.face)
		}
		dc.DrawStringAnchored(glyph, cx, cy, 0.5, 0.5)
	}

	return dc.Image()
}

// renderRainbow fills the disc with five flat wedges, one per
// playable color.
func (c *SpriteCache) renderRainbow(dc *gg.Context, cx, cy float64) {
	colors := game.PlayableColors()
	step := 2 * math.Pi / float64(len(colors))
	for i, col := range colors {
		a1 := float64(i) * step
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, c.radius, a1, a1+step)
		dc.ClosePath()
		dc.SetColor(palette[col])
		dc.Fill()
	}

	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, c.radius)
	dc.Stroke()
}

// shade darkens a color by the given factor, keeping alpha.
func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
