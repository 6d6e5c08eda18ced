package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"

	"github.com/apanov/nodemap/internal/document"
	"github.com/apanov/nodemap/internal/ui"
)

func TestBounds(t *testing.T) {
	d := document.New()
	d.AddNode(10, 5)
	d.AddNode(40, 20)

	minX, minY, maxX, maxY, err := bounds(d)
	if err != nil {
		t.Fatal(err)
	}
	if minX != 10-padding || minY != 5-padding {
		t.Errorf("unexpected min corner (%d, %d)", minX, minY)
	}
	if maxX != 40+padding || maxY != 20+padding+1 {
		t.Errorf("unexpected max corner (%d, %d)", maxX, maxY)
	}
}

func TestBoundsEmptyDocument(t *testing.T) {
	if _, _, _, _, err := bounds(document.New()); err == nil {
		t.Fatal("expected an error for an empty document")
	}
}

func TestFitLabelPixelCap(t *testing.T) {
	face, err := fontFace()
	if err != nil {
		t.Fatal(err)
	}
	dc := gg.NewContext(10, 10)
	dc.SetFontFace(face)

	if got := fitLabel(dc, "short"); got != "short" {
		t.Errorf("short labels pass through, got %q", got)
	}

	long, _ := ui.TruncateLabel(strings.Repeat("w", 60))
	fitted := fitLabel(dc, long)
	if w, _ := dc.MeasureString(fitted); w > maxLabelWidth {
		t.Errorf("fitted label measures %.1fpx, over the %vpx cap", w, maxLabelWidth)
	}
	if !strings.HasSuffix(fitted, "...") {
		t.Errorf("cut label should keep the ellipsis, got %q", fitted)
	}
}

func TestWritePNG(t *testing.T) {
	d := document.New()
	d.AddNode(5, 5)
	d.AddNode(25, 12)
	d.Connect([]int{1, 2})

	path := filepath.Join(t.TempDir(), "out.png")
	if err := WritePNG(d, path, nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("output is not a PNG file")
	}
}

func TestWritePNGEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WritePNG(document.New(), path, nil); err == nil {
		t.Fatal("expected an error for an empty document")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written for an empty document")
	}
}
