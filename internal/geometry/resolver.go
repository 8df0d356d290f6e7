// Package geometry turns raw, sometimes degraded selection rectangles into
// a clamped on-screen anchor point for the floating menu.
package geometry

import (
	"strings"
	"unicode/utf8"

	"github.com/blogwriter/margins/internal/model"
)

// Rect is an axis-aligned bounding rectangle in viewport coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Zero reports whether the rectangle has no area. Some host platforms
// report zero-sized rectangles for real selections, notably inside
// plain-text input widgets.
func (r Rect) Zero() bool {
	return r.Width == 0 && r.Height == 0
}

// Viewport describes the visible scroll window at resolution time.
type Viewport struct {
	Width   float64
	Height  float64
	ScrollY float64
}

// Resolver computes menu anchor points from selection geometry.
type Resolver struct {
	minMargin          float64
	menuWidthEstimate  float64
	verticalOffset     float64
	minSelectionLength int
}

// NewResolver creates a resolver with the given selection config.
func NewResolver(cfg model.SelectionConfig) *Resolver {
	return &Resolver{
		minMargin:          cfg.MinMargin,
		menuWidthEstimate:  cfg.MenuWidthEstimate,
		verticalOffset:     cfg.VerticalOffset,
		minSelectionLength: cfg.MinSelectionLength,
	}
}

// Resolve computes the anchor for the given selection range, or nil when no
// usable selection exists. rangeRect is the bounding rectangle of the active
// selection; fallback is the bounding rectangle of the host element, used
// when the range reports no real geometry. Selections shorter than the
// configured minimum are deliberately ignored to avoid menu flicker from
// accidental double-click selections.
func (r *Resolver) Resolve(rangeRect *Rect, text string, fallback *Rect, vp Viewport) *model.SelectionAnchor {
	if rangeRect == nil {
		return nil
	}

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < r.minSelectionLength {
		return nil
	}

	rect := *rangeRect
	if rect.Zero() {
		if fallback == nil {
			return nil
		}
		// Anchor near the horizontal center, just above the host element.
		rect = Rect{
			Left: fallback.Left + fallback.Width/2,
			Top:  fallback.Top,
		}
	} else {
		rect.Left += rect.Width / 2
	}

	x := clamp(rect.Left, r.minMargin, vp.Width-r.menuWidthEstimate)

	// Place the menu above the selection, never above the visible window.
	y := rect.Top + vp.ScrollY - r.verticalOffset
	if min := vp.ScrollY + r.minMargin; y < min {
		y = min
	}

	return &model.SelectionAnchor{X: x, Y: y, Text: trimmed}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
