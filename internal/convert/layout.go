// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

// Canvas is the part of a PDF writer the renderer draws with. Coordinates
// are points with y growing upward from the bottom edge of the page.
type Canvas interface {
	SetFont(family string, size float64)
	DrawString(x, y float64, text string)
	NewPage()
	Save(path string) error
}

// Layout places one paragraph per line at a fixed line height. Text is not
// wrapped; lines wider than the page run off its right edge.
type Layout struct {
	FontFamily string
	FontSize   float64
	// Left is the x offset of every line.
	Left float64
	// Top is the y of the first line on a page.
	Top float64
	// Bottom is the lowest y a line may be drawn at.
	Bottom     float64
	LineHeight float64
}

// DefaultLayout draws Helvetica 12 from y=800 down to y=50 in steps of 20.
var DefaultLayout = Layout{
	FontFamily: "Helvetica",
	FontSize:   12,
	Left:       50,
	Top:        800,
	Bottom:     50,
	LineHeight: 20,
}

// LinesPerPage returns how many lines fit on one page.
func (l Layout) LinesPerPage() int {
	if l.LineHeight <= 0 || l.Top < l.Bottom {
		return 1
	}
	return int((l.Top-l.Bottom)/l.LineHeight) + 1
}

// Render draws paragraphs onto c in order and returns the number of pages
// used. A new page starts only when another line needs room, so the last
// page is never empty. An empty document still produces one blank page.
func (l Layout) Render(c Canvas, paragraphs []string) int {
	c.SetFont(l.FontFamily, l.FontSize)
	pages := 1
	y := l.Top
	for _, p := range paragraphs {
		if y < l.Bottom {
			c.NewPage()
			c.SetFont(l.FontFamily, l.FontSize)
			pages++
			y = l.Top
		}
		c.DrawString(l.Left, y, p)
		y -= l.LineHeight
	}
	return pages
}
