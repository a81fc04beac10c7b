package render

// Fixed ordered glyph tables, built once at process start and indexed by a
// rounded fraction. barGlyphs fills a bar panel cell in eighth-block steps;
// shadeGlyphs textures a waterfall cell by intensity.
var (
	barGlyphs   = [...]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	shadeGlyphs = [...]rune{' ', '░', '░', '▒', '▒', '▓', '▓', '█'}
)

// BarGlyph returns the block glyph filling the given fraction of one cell.
func BarGlyph(frac float64) rune {
	return pick(barGlyphs[:], frac)
}

// ShadeGlyph returns the shade glyph for a normalized power fraction.
func ShadeGlyph(frac float64) rune {
	return pick(shadeGlyphs[:], frac)
}

func pick(table []rune, frac float64) rune {
	i := int(frac * float64(len(table)-1))
	if i < 0 {
		return table[0]
	}
	if i >= len(table) {
		return table[len(table)-1]
	}
	return table[i]
}
