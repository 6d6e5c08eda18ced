// Package palette defines the fixed node color palette: the primary and
// secondary colors plus white, each paired with a dimmed variant used to
// fill selected glyphs.
package palette

// Color is one palette entry. RGB components drive the raster renderer;
// ANSI codes drive terminal cells.
type Color struct {
	Name    string
	R, G, B uint8
	ANSI    string
	DimANSI string
}

// Dimmed returns the half-intensity variant of the stroke color.
func (c Color) Dimmed() (r, g, b uint8) {
	return c.R / 2, c.G / 2, c.B / 2
}

// Colors is the fixed palette, in a stable order.
var Colors = []Color{
	{Name: "red", R: 255, ANSI: "9", DimANSI: "1"},
	{Name: "green", G: 255, ANSI: "10", DimANSI: "2"},
	{Name: "yellow", R: 255, G: 255, ANSI: "11", DimANSI: "3"},
	{Name: "blue", B: 255, ANSI: "12", DimANSI: "4"},
	{Name: "magenta", R: 255, B: 255, ANSI: "13", DimANSI: "5"},
	{Name: "cyan", G: 255, B: 255, ANSI: "14", DimANSI: "6"},
	{Name: "white", R: 255, G: 255, B: 255, ANSI: "15", DimANSI: "7"},
}

// Chooser picks a palette index for a node id.
type Chooser func(id int) int

// ByID is the default chooser: deterministic, cycles the palette.
func ByID(id int) int {
	i := (id - 1) % len(Colors)
	if i < 0 {
		i += len(Colors)
	}
	return i
}

// For resolves a chooser result to a palette color, clamping out-of-range
// indices.
func For(id int, choose Chooser) Color {
	if choose == nil {
		choose = ByID
	}
	i := choose(id)
	if i < 0 || i >= len(Colors) {
		i = 0
	}
	return Colors[i]
}
