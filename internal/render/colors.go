package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorTheme selects a predefined power-to-color gradient:
// - ClassicTheme: traditional spectrum display (blue to red)
// - GrayscaleTheme: monochrome visualization
// - ThermalTheme: heat map (black to red to yellow to white)
// - MarineTheme: water-depth inspired (deep blue to cyan to white)
type ColorTheme string

const (
	ClassicTheme   ColorTheme = "classic"
	GrayscaleTheme ColorTheme = "grayscale"
	ThermalTheme   ColorTheme = "thermal"
	MarineTheme    ColorTheme = "marine"

	DefaultPaletteSize = 64 // Default number of colors in the palette
)

const (
	hueStart = 236.0
	hueEnd   = 0.0
)

// Palette is a pre-computed power-to-color lookup shared by the terminal
// renderer and the snapshot exporter. Colors and their terminal escape
// sequences are built once at construction and indexed by a rounded fraction
// of the display power range, never recomputed per render call.
type Palette struct {
	colors     []colorful.Color
	foreground []string // Pre-computed SGR foreground sequences
	themeName  ColorTheme
	size       int
}

// NewPalette creates a palette for the given theme. A size of 0 uses
// DefaultPaletteSize.
func NewPalette(theme ColorTheme, size int) *Palette {
	if size <= 0 {
		size = DefaultPaletteSize
	}

	p := &Palette{
		colors:     make([]colorful.Color, size),
		foreground: make([]string, size),
		themeName:  theme,
		size:       size,
	}

	tone := themeGradient(theme)
	for i := 0; i < size; i++ {
		c := tone(float64(i) / float64(size-1))
		p.colors[i] = c

		r, g, b := c.RGB255()
		p.foreground[i] = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
	}

	return p
}

// index converts a normalized power fraction to a palette index, clamping
// out-of-range values to the palette ends.
func (p *Palette) index(frac float64) int {
	i := int(frac * float64(p.size-1))
	if i < 0 {
		return 0
	}
	if i >= p.size {
		return p.size - 1
	}
	return i
}

// Foreground returns the SGR sequence selecting the color for a normalized
// power fraction in [0, 1].
func (p *Palette) Foreground(frac float64) string {
	return p.foreground[p.index(frac)]
}

// Color returns the image color for a normalized power fraction in [0, 1].
func (p *Palette) Color(frac float64) color.Color {
	r, g, b := p.colors[p.index(frac)].RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ThemeName returns the palette's theme name.
func (p *Palette) ThemeName() ColorTheme {
	return p.themeName
}

// Size returns the number of colors in the palette.
func (p *Palette) Size() int {
	return p.size
}

// themeGradient maps a theme name to its gradient function over [0, 1].
func themeGradient(theme ColorTheme) func(float64) colorful.Color {
	switch theme {
	case GrayscaleTheme:
		return func(t float64) colorful.Color {
			v := math.Pow(t, 0.7)
			return colorful.Color{R: v, G: v, B: v}
		}

	case ThermalTheme:
		black := colorful.Color{}
		red := colorful.Color{R: 1}
		yellow := colorful.Color{R: 1, G: 1}
		white := colorful.Color{R: 1, G: 1, B: 1}
		return func(t float64) colorful.Color {
			switch {
			case t < 0.33:
				return black.BlendRgb(red, t/0.33)
			case t < 0.66:
				return red.BlendRgb(yellow, (t-0.33)/0.33)
			default:
				return yellow.BlendRgb(white, (t-0.66)/0.34)
			}
		}

	case MarineTheme:
		deep := colorful.Hsv(240, 1, 0.35)
		cyan := colorful.Hsv(180, 1, 0.9)
		white := colorful.Color{R: 1, G: 1, B: 1}
		return func(t float64) colorful.Color {
			if t < 0.6 {
				return deep.BlendHsv(cyan, t/0.6)
			}
			return cyan.BlendRgb(white, (t-0.6)/0.4)
		}

	default: // ClassicTheme
		return func(t float64) colorful.Color {
			hue := hueStart - t*(hueStart-hueEnd)
			return colorful.Hsv(hue, 0.9+t*0.1, math.Max(math.Pow(t, 0.7), 0.15))
		}
	}
}
