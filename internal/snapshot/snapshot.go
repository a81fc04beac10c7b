// Package snapshot renders the in-memory waterfall history to an image file
// on explicit user request. The live pipeline itself never persists anything;
// a snapshot is a one-shot export of what is already on screen.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/morria/spectrum-analyzer/internal/remap"
	"github.com/morria/spectrum-analyzer/internal/render"
)

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"

	defaultWidth     = 1024
	defaultRowHeight = 4
	topBorder        = 28

	dpi      = 72.0
	fontSize = 13.0
)

var backgroundColor = color.Black

// Config controls snapshot output.
type Config struct {
	Directory string `yaml:"directory"` // Output directory, default "."
	Format    string `yaml:"format"`    // png or jpeg
	FontPath  string `yaml:"fontPath"`  // TTF for axis labels; empty skips annotations
	Width     int    `yaml:"width"`     // Image width in pixels
	RowHeight int    `yaml:"rowHeight"` // Pixel rows per waterfall row
}

func (c *Config) Validate() error {
	switch c.Format {
	case "", FormatPNG, FormatJPEG:
	default:
		return fmt.Errorf("snapshot.Config: invalid image format: %s", c.Format)
	}
	if c.Width < 0 || c.RowHeight < 0 {
		return errors.New("snapshot.Config: width and rowHeight cannot be negative")
	}
	return nil
}

// Renderer writes waterfall snapshots using the same palette as the terminal
// display.
type Renderer struct {
	config  Config
	palette *render.Palette
	font    *truetype.Font
}

// NewRenderer creates a snapshot renderer. The font is loaded once up front;
// without a configured font the image is written without axis labels.
func NewRenderer(config Config, palette *render.Palette) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Format == "" {
		config.Format = FormatPNG
	}
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.RowHeight == 0 {
		config.RowHeight = defaultRowHeight
	}
	if config.Directory == "" {
		config.Directory = "."
	}

	r := Renderer{config: config, palette: palette}

	if config.FontPath != "" {
		fontBytes, err := os.ReadFile(config.FontPath)
		if err != nil {
			return nil, fmt.Errorf("reading font: %w", err)
		}
		if r.font, err = freetype.ParseFont(fontBytes); err != nil {
			return nil, fmt.Errorf("parsing font: %w", err)
		}
	}

	return &r, nil
}

// Write renders the waterfall history, newest row at the top, and writes it
// to a timestamped file in the configured directory. It returns the path of
// the written file.
func (r *Renderer) Write(rows []render.Row, bounds render.PowerBounds) (string, error) {
	if len(rows) == 0 {
		return "", errors.New("snapshot: no waterfall history to render")
	}

	img := r.renderImage(rows, bounds)

	if r.font != nil {
		if err := r.annotate(img, rows); err != nil {
			return "", fmt.Errorf("drawing annotations: %w", err)
		}
	}

	name := fmt.Sprintf("spectrograph_%s.%s", time.Now().Format("20060102_150405"), r.config.Format)
	path := filepath.Join(r.config.Directory, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	switch r.config.Format {
	case FormatJPEG:
		err = jpeg.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", r.config.Format, err)
	}

	return path, nil
}

func (r *Renderer) renderImage(rows []render.Row, bounds render.PowerBounds) *image.RGBA {
	border := 0
	if r.font != nil {
		border = topBorder
	}

	width := r.config.Width
	height := border + len(rows)*r.config.RowHeight
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	for i, row := range rows {
		columns, err := remap.Columns(row.Spectrum, width)
		if err != nil {
			continue // a degenerate row stays background-colored
		}

		y0 := border + i*r.config.RowHeight
		for x := 0; x < width; x++ {
			power, ok := columns[x]
			if !ok {
				continue
			}

			c := r.palette.Color(bounds.Fraction(power))
			for y := y0; y < y0+r.config.RowHeight; y++ {
				img.Set(x, y, c)
			}
		}
	}

	return img
}

// annotate draws the frequency scale of the newest row along the top border.
func (r *Renderer) annotate(img *image.RGBA, rows []render.Row) error {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(r.font)
	ctx.SetFontSize(fontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetSrc(image.White)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)

	var minFreq, maxFreq float64
	first := true
	for freq := range rows[0].Spectrum {
		if first {
			minFreq, maxFreq = freq, freq
			first = false
			continue
		}
		minFreq = min(minFreq, freq)
		maxFreq = max(maxFreq, freq)
	}
	if minFreq == maxFreq {
		return nil
	}

	count := max(r.config.Width/200, 1)
	hzPerLabel := (maxFreq - minFreq) / float64(count)
	pxPerLabel := r.config.Width / count

	for i := 0; i < count; i++ {
		hz := minFreq + float64(i)*hzPerLabel
		px := i * pxPerLabel

		fract, suffix := humanize.ComputeSI(hz)
		str := fmt.Sprintf("%0.2f %sHz", fract, suffix)

		// guideline on the exact frequency
		for y := 0; y < topBorder; y++ {
			img.Set(px, y, color.White)
		}

		if _, err := ctx.DrawString(str, freetype.Pt(px+5, topBorder-10)); err != nil {
			return err
		}
	}

	return nil
}
