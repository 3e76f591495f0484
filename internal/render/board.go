// Package render rasterizes engine snapshots into flat 2D frames.
// Everything is drawn with solid fills and strokes; there are no
// gradients, glows, or particle effects.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sync"

	"chainshot/internal/game"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const (
	portalRadius = 26.0
	shooterBase  = 24.0
	aimGuideLen  = 420.0
)

// Config holds frame dimensions for the board renderer. Dimensions
// should match the engine's board so coordinates map one to one.
type Config struct {
	Width  int
	Height int
}

// BoardRenderer draws game snapshots onto a reusable canvas and
// encodes them as PNG. Safe for concurrent use; frames are produced
// one at a time under an internal lock.
type BoardRenderer struct {
	width  int
	height int

	sprites *SpriteCache

	mu sync.Mutex
	dc *gg.Context

	// Fonts are loaded once at startup, not per frame.
	fontSmall   font.Face
	fontMedium  font.Face
	fontLarge   font.Face
	fontsLoaded bool
}

// NewBoardRenderer creates a renderer for the given frame size.
func NewBoardRenderer(cfg Config) *BoardRenderer {
	if cfg.Width <= 0 {
		cfg.Width = 1366
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}

	r := &BoardRenderer{
		width:  cfg.Width,
		height: cfg.Height,
		dc:     gg.NewContext(cfg.Width, cfg.Height),
	}
	r.loadFonts()
	r.sprites = NewSpriteCache(game.DefaultOrbRadius, r.fontSmall)
	return r
}

// loadFonts loads font faces once at startup to avoid per-frame file
// I/O. Missing fonts degrade to the context's built-in face.
func (r *BoardRenderer) loadFonts() {
	fontPath := getFontPath()
	if fontPath == "" {
		log.Println("⚠️ No font found, HUD text falls back to the built-in face")
		return
	}

	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		log.Printf("⚠️ Font %s unreadable: %v", fontPath, err)
		return
	}

	parsedFont, err := opentype.Parse(fontData)
	if err != nil {
		log.Printf("⚠️ Font %s did not parse: %v", fontPath, err)
		return
	}

	newFace := func(size float64) font.Face {
		face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
			Size: size, DPI: 72, Hinting: font.HintingFull,
		})
		if err != nil {
			log.Printf("⚠️ Font face at %.0fpt: %v", size, err)
			return nil
		}
		return face
	}
	r.fontSmall = newFace(15)
	r.fontMedium = newFace(22)
	r.fontLarge = newFace(44)
	if r.fontSmall == nil || r.fontMedium == nil || r.fontLarge == nil {
		return
	}

	r.fontsLoaded = true
	log.Printf("✅ HUD fonts ready from %s", fontPath)
}

// RenderPNG draws one frame from an immutable snapshot and returns
// the encoded PNG bytes.
func (r *BoardRenderer) RenderPNG(snap *game.GameSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("render: nil snapshot")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.drawFrame(r.dc, snap)

	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *BoardRenderer) drawFrame(dc *gg.Context, snap *game.GameSnapshot) {
	// Background with a single solid fill
	dc.SetColor(color.RGBA{16, 20, 28, 255})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	r.drawPath(dc, snap.Waypoints)
	r.drawOrbs(dc, snap.Orbs)
	r.drawShooter(dc, snap.Shooter)
	if snap.HasProjectile {
		r.drawProjectile(dc, snap.Projectile)
	}
	r.drawHUD(dc, snap)
}

// drawPath strokes the track polyline and the portal ring at its end.
func (r *BoardRenderer) drawPath(dc *gg.Context, waypoints []game.Vec2) {
	if len(waypoints) < 2 {
		return
	}

	dc.SetColor(color.RGBA{52, 61, 70, 255})
	dc.SetLineWidth(3)
	dc.MoveTo(waypoints[0].X, waypoints[0].Y)
	for _, wp := range waypoints[1:] {
		dc.LineTo(wp.X, wp.Y)
	}
	dc.Stroke()

	// Spawn mouth
	start := waypoints[0]
	dc.SetColor(color.RGBA{99, 110, 114, 255})
	dc.SetLineWidth(3)
	dc.DrawCircle(start.X, start.Y, game.DefaultOrbRadius+4)
	dc.Stroke()

	// Portal ring
	end := waypoints[len(waypoints)-1]
	dc.SetColor(color.RGBA{16, 20, 28, 255})
	dc.DrawCircle(end.X, end.Y, portalRadius)
	dc.Fill()
	dc.SetColor(color.RGBA{214, 48, 49, 255})
	dc.SetLineWidth(4)
	dc.DrawCircle(end.X, end.Y, portalRadius)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawCircle(end.X, end.Y, portalRadius-7)
	dc.Stroke()
}

// drawOrbs stamps the cached disc sprite at every orb position.
func (r *BoardRenderer) drawOrbs(dc *gg.Context, orbs []game.OrbSnapshot) {
	for i := range orbs {
		o := &orbs[i]
		if img := r.sprites.Disc(o.Color); img != nil {
			dc.DrawImageAnchored(img, int(o.Position.X), int(o.Position.Y), 0.5, 0.5)
		}
	}
}

// drawShooter draws the turret base, the barrel wedge rotated to the
// aim angle, the loaded orb, and the next-color pip below it.
func (r *BoardRenderer) drawShooter(dc *gg.Context, sh game.ShooterSnapshot) {
	x, y := sh.Position.X, sh.Position.Y

	if sh.AccuracyActive {
		dc.Push()
		dc.Translate(x, y)
		dc.Rotate(sh.Angle)
		dc.SetColor(color.RGBA{223, 230, 233, 120})
		dc.SetLineWidth(1.5)
		dc.SetDash(6, 8)
		dc.DrawLine(shooterBase, 0, aimGuideLen, 0)
		dc.Stroke()
		dc.SetDash()
		dc.Pop()
	}

	dc.SetColor(color.RGBA{99, 110, 114, 255})
	dc.DrawCircle(x, y, shooterBase)
	dc.Fill()

	dc.Push()
	dc.Translate(x, y)
	dc.Rotate(sh.Angle)
	dc.MoveTo(shooterBase+12, 0)
	dc.LineTo(6, -10)
	dc.LineTo(6, 10)
	dc.ClosePath()
	dc.SetColor(color.RGBA{178, 190, 195, 255})
	dc.Fill()
	dc.Pop()

	if img := r.sprites.Disc(sh.Current); img != nil {
		dc.DrawImageAnchored(img, int(x), int(y), 0.5, 0.5)
	}

	next, ok := palette[sh.Next]
	if !ok {
		next = color.RGBA{223, 230, 233, 255}
	}
	dc.SetColor(next)
	dc.DrawCircle(x, y+shooterBase+12, 8)
	dc.Fill()
	dc.SetColor(shade(next, 0.6))
	dc.SetLineWidth(1.5)
	dc.DrawCircle(x, y+shooterBase+12, 8)
	dc.Stroke()
}

// drawProjectile stamps the in-flight orb with a white ring so it
// stands out from the chain.
func (r *BoardRenderer) drawProjectile(dc *gg.Context, p game.ProjectileSnapshot) {
	if img := r.sprites.Disc(p.Color); img != nil {
		dc.DrawImageAnchored(img, int(p.Position.X), int(p.Position.Y), 0.5, 0.5)
	}
	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.DrawCircle(p.Position.X, p.Position.Y, p.Radius+3)
	dc.Stroke()
}

// drawHUD writes the status line and, when the run is not actively
// playing, a centered banner.
func (r *BoardRenderer) drawHUD(dc *gg.Context, snap *game.GameSnapshot) {
	if r.fontsLoaded && r.fontMedium != nil {
		dc.SetFontFace(r.fontMedium)
	}
	dc.SetColor(color.RGBA{223, 230, 233, 255})
	line := fmt.Sprintf("LV %d   SCORE %d   x%d   LIVES %d   COMBO %d   DANGER %d%%",
		snap.Level, snap.Score, snap.Multiplier, snap.Lives, snap.Combo,
		int(snap.DangerRatio*100+0.5))
	dc.DrawString(line, 24, 38)

	if banner := stateBanner(snap); banner != "" {
		if r.fontsLoaded && r.fontLarge != nil {
			dc.SetFontFace(r.fontLarge)
		}
		dc.SetColor(color.RGBA{253, 203, 110, 255})
		dc.DrawStringAnchored(banner, float64(r.width)/2, float64(r.height)/2, 0.5, 0.5)
		if r.fontsLoaded && r.fontMedium != nil {
			dc.SetFontFace(r.fontMedium)
		}
	}
}

// stateBanner picks the overlay text for non-playing states.
func stateBanner(snap *game.GameSnapshot) string {
	switch snap.State {
	case "level_complete":
		return fmt.Sprintf("LEVEL %d COMPLETE", snap.Level)
	case "level_failed":
		return "GAME OVER"
	}
	if snap.Paused {
		return "PAUSED"
	}
	return ""
}

// getFontPath probes common system font locations.
func getFontPath() string {
	paths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
		"C:\\Windows\\Fonts\\arial.ttf",
		"C:\\Windows\\Fonts\\segoeui.ttf",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
