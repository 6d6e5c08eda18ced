// Package render rasterizes a document to PNG for export. The canvas cell
// grid maps onto pixels at a fixed cell size, so an exported image lines up
// with what the editor shows.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/apanov/nodemap/internal/document"
	"github.com/apanov/nodemap/internal/palette"
	"github.com/apanov/nodemap/internal/ui"
)

// Pixels per canvas cell.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	fontSize      = 12.0
	nodeRadius    = 10.0
	maxLabelWidth = 200.0 // pixel cap on rendered captions
	padding       = 3     // cells around the content bounds
)

var edgeGray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// bounds returns the cell-space bounding box of all nodes, with room for
// the glyph and the label row.
func bounds(d *document.Document) (minX, minY, maxX, maxY int, err error) {
	ids := d.IDs()
	if len(ids) == 0 {
		return 0, 0, 0, 0, fmt.Errorf("nothing to export")
	}

	first := d.Node(ids[0])
	minX, minY = first.X, first.Y
	maxX, maxY = first.X, first.Y
	for _, id := range ids[1:] {
		n := d.Node(id)
		if n.X < minX {
			minX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}

	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding + 1 // label row
	return minX, minY, maxX, maxY, nil
}

// fontFace loads the bundled monospace face used for captions.
func fontFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// fitLabel narrows a (character-truncated) caption to the pixel budget,
// keeping the ellipsis.
func fitLabel(dc *gg.Context, s string) string {
	if w, _ := dc.MeasureString(s); w <= maxLabelWidth {
		return s
	}
	runes := []rune(strings.TrimSuffix(s, "..."))
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		s = string(runes) + "..."
		if w, _ := dc.MeasureString(s); w <= maxLabelWidth {
			return s
		}
	}
	return "..."
}

// WritePNG renders the document and writes it to path. A nil chooser
// selects the default deterministic palette assignment, matching the
// editor's colors.
func WritePNG(d *document.Document, path string, choose palette.Chooser) error {
	minX, minY, maxX, maxY, err := bounds(d)
	if err != nil {
		return err
	}

	imageWidth := int(float64(maxX-minX) * cellWidth)
	imageHeight := int(float64(maxY-minY) * cellHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	face, err := fontFace()
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	px := func(x int) float64 { return float64(x-minX) * cellWidth }
	py := func(y int) float64 { return float64(y-minY) * cellHeight }

	// Edges first, behind the glyphs.
	dc.SetLineWidth(1.0)
	dc.SetColor(edgeGray)
	for _, src := range d.IDs() {
		sn := d.Node(src)
		for _, trg := range d.Targets(src) {
			tn := d.Node(trg)
			if tn == nil {
				continue
			}
			dc.DrawLine(px(sn.X), py(sn.Y), px(tn.X), py(tn.Y))
			dc.Stroke()
		}
	}

	for _, id := range d.IDs() {
		n := d.Node(id)
		c := palette.For(id, choose)
		stroke := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}

		dc.DrawCircle(px(n.X), py(n.Y), nodeRadius)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(stroke)
		dc.SetLineWidth(2.0)
		dc.Stroke()

		label, _ := ui.TruncateLabel(n.Text)
		if label = fitLabel(dc, label); label != "" {
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(label, px(n.X), py(n.Y)+nodeRadius+fontSize, 0.5, 0.5)
		}
	}

	return dc.SavePNG(path)
}
