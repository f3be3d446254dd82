package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/xtding233/shooting-gallery/internal/gallery"
)

var tierGlyph = map[string]rune{
	"small":  'o',
	"medium": 'O',
	"large":  '@',
	"boss":   'B',
}

var (
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleTurret = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleShot   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleNotice = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// HUD is the economic overlay drawn on the bottom row.
type HUD struct {
	Balance int64
	Stake   int64
	Score   int64
	Jackpot int64
	Notice  string
}

// Renderer draws snapshots onto a tcell screen. The field is scaled to every
// row but the last, which holds the HUD.
type Renderer struct {
	screen tcell.Screen
}

func NewRenderer(s tcell.Screen) *Renderer {
	return &Renderer{screen: s}
}

func (r *Renderer) field() (cols, rows int) {
	w, h := r.screen.Size()
	return w, max(h-1, 1)
}

// ToCell maps a world point to a screen cell.
func (r *Renderer) ToCell(snap gallery.Snapshot, x, y float64) (int, int) {
	cols, rows := r.field()
	cx := int(math.Floor(x / snap.Width * float64(cols)))
	cy := int(math.Floor(y / snap.Height * float64(rows)))
	return min(max(cx, 0), cols-1), min(max(cy, 0), rows-1)
}

// ToWorld maps a cell to the world point at its center.
func (r *Renderer) ToWorld(snap gallery.Snapshot, cx, cy int) (float64, float64) {
	cols, rows := r.field()
	return (float64(cx) + 0.5) / float64(cols) * snap.Width,
		(float64(cy) + 0.5) / float64(rows) * snap.Height
}

func hpColor(ratio float64) tcell.Color {
	switch {
	case ratio > 0.66:
		return tcell.ColorGreen
	case ratio > 0.33:
		return tcell.ColorYellow
	default:
		return tcell.ColorRed
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, c := range s {
		r.screen.SetContent(x+i, y, c, nil, style)
	}
}

// Draw renders one frame and shows it.
func (r *Renderer) Draw(snap gallery.Snapshot, hud HUD) {
	r.screen.Clear()
	if snap.Width <= 0 || snap.Height <= 0 {
		r.screen.Show()
		return
	}

	for _, p := range snap.Particles {
		cx, cy := r.ToCell(snap, p.X, p.Y)
		style := tcell.StyleDefault.Foreground(tcell.GetColor(p.Color))
		if p.Text != "" {
			r.text(cx, cy, p.Text, style.Bold(true))
			continue
		}
		r.screen.SetContent(cx, cy, '.', nil, style)
	}
	for _, t := range snap.Targets {
		g, ok := tierGlyph[t.Tier]
		if !ok {
			g = '?'
		}
		cx, cy := r.ToCell(snap, t.X, t.Y)
		r.screen.SetContent(cx, cy, g, nil, tcell.StyleDefault.Foreground(hpColor(t.HPRatio)))
		// facing marker
		if t.FacingRight {
			r.screen.SetContent(cx+1, cy, '>', nil, tcell.StyleDefault)
		} else {
			r.screen.SetContent(cx-1, cy, '<', nil, tcell.StyleDefault)
		}
	}
	for _, b := range snap.Projectiles {
		cx, cy := r.ToCell(snap, b.X, b.Y)
		r.screen.SetContent(cx, cy, '*', nil, styleShot)
	}
	tx, ty := r.ToCell(snap, snap.TurretX, snap.TurretY)
	r.screen.SetContent(tx, ty, '^', nil, styleTurret)

	cols, rows := r.field()
	for x := 0; x < cols; x++ {
		r.screen.SetContent(x, rows, ' ', nil, styleHUD)
	}
	line := fmt.Sprintf(" BAL %d  BET %d  SCORE %d", hud.Balance, hud.Stake, hud.Score)
	if hud.Jackpot > 0 {
		line += fmt.Sprintf("  JACKPOT %d", hud.Jackpot)
	}
	line += "  [click] fire [+/-] bet [c] chips [q] quit"
	r.text(0, rows, line, styleHUD)
	if hud.Notice != "" {
		r.text(max(cols-len(hud.Notice)-1, 0), 0, hud.Notice, styleNotice)
	}
	r.screen.Show()
}
