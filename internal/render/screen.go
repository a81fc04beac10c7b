package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"

	"github.com/morria/spectrum-analyzer/internal/remap"
	"github.com/morria/spectrum-analyzer/internal/sweep"
)

const (
	// DefaultSpectrumHeight is the height of the bar panel, borders included.
	DefaultSpectrumHeight = 8

	minWidth  = 24
	minHeight = DefaultSpectrumHeight + 5

	sgrReset   = "\x1b[0m"
	clearLine  = "\x1b[2K"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	altScreen  = "\x1b[?1049h"
	mainScreen = "\x1b[?1049l"
)

// Screen draws the spectrograph and waterfall panels into a terminal using
// ANSI escape sequences. All drawing goes through an internal buffered
// writer and reaches the terminal in one Flush per frame, which keeps
// partially drawn frames off the screen.
type Screen struct {
	out            *bufio.Writer
	palette        *Palette
	spectrumHeight int
}

// NewScreen creates a screen writing to w. A spectrumHeight of 0 uses
// DefaultSpectrumHeight.
func NewScreen(w io.Writer, palette *Palette, spectrumHeight int) *Screen {
	if spectrumHeight < 3 {
		spectrumHeight = DefaultSpectrumHeight
	}
	return &Screen{
		out:            bufio.NewWriterSize(w, 1<<16),
		palette:        palette,
		spectrumHeight: spectrumHeight,
	}
}

// SpectrumHeight returns the bar panel height, borders included.
func (s *Screen) SpectrumHeight() int {
	return s.spectrumHeight
}

// Enter switches to the alternate screen and hides the cursor.
func (s *Screen) Enter() error {
	fmt.Fprint(s.out, altScreen, hideCursor)
	return s.out.Flush()
}

// Leave restores the cursor and the main screen.
func (s *Screen) Leave() error {
	fmt.Fprint(s.out, sgrReset, showCursor, mainScreen)
	return s.out.Flush()
}

// WaterfallDepth returns how many history rows fit into the waterfall panel
// at the given terminal height.
func (s *Screen) WaterfallDepth(height int) int {
	return max(height-s.spectrumHeight-3, 1)
}

// Render draws one complete display frame: the bar spectrograph of the
// latest frame, the waterfall history, and the status line. latest may be
// nil before the first frame completes.
func (s *Screen) Render(width, height int, latest *sweep.Frame, wf *Waterfall, view View) error {
	if width < minWidth || height < minHeight {
		fmt.Fprintf(s.out, "\x1b[2J\x1b[1;1H%sterminal too small (%dx%d)", sgrReset, width, height)
		return s.out.Flush()
	}

	innerWidth := width - 2
	waterfallTop := s.spectrumHeight + 1
	waterfallHeight := height - s.spectrumHeight - 1

	title := " Spectrograph "
	if latest != nil {
		title = fmt.Sprintf(" Spectrograph %s ", latest.Key)
	}
	s.drawBox(1, s.spectrumHeight, width, title)
	s.drawBox(waterfallTop, waterfallHeight, width, " Waterfall ")

	s.renderSpectrum(2, innerWidth, s.spectrumHeight-2, latest, view)
	s.renderWaterfall(waterfallTop+1, innerWidth, waterfallHeight-2, wf, view)
	s.renderStatus(height, width, latest, view)

	fmt.Fprint(s.out, sgrReset)
	return s.out.Flush()
}

// renderSpectrum draws the bar panel body starting at screen row top.
func (s *Screen) renderSpectrum(top, innerWidth, innerHeight int, latest *sweep.Frame, view View) {
	if latest == nil {
		s.panelMessage(top, innerWidth, innerHeight, "waiting for first sweep...")
		return
	}

	columns, err := remap.Columns(latest.Spectrum, innerWidth)
	if err != nil {
		// A degenerate frame cannot be drawn; say so instead of guessing.
		if errors.Is(err, remap.ErrDegenerateRange) {
			s.panelMessage(top, innerWidth, innerHeight, "sweep covers a single frequency")
			return
		}
		s.panelMessage(top, innerWidth, innerHeight, err.Error())
		return
	}

	var peaks map[int]float64
	if view.Peaks != nil {
		// Peak overlay shares the frame's column grid. A degenerate peak
		// spectrum just means no overlay.
		peaks, _ = remap.Columns(view.Peaks, innerWidth)
	}

	// Bar height in eighth-cells per column.
	eighths := make([]int, innerWidth)
	fracs := make([]float64, innerWidth)
	for col := 0; col < innerWidth; col++ {
		power, ok := columns[col]
		if !ok {
			continue
		}
		fracs[col] = view.Bounds.Fraction(power)
		eighths[col] = int(fracs[col] * float64(innerHeight) * 8)
	}

	var line strings.Builder
	for r := 0; r < innerHeight; r++ {
		line.Reset()
		cellFromBottom := innerHeight - 1 - r

		for col := 0; col < innerWidth; col++ {
			filled := eighths[col] - cellFromBottom*8

			ch := ' '
			switch {
			case filled >= 8:
				ch = barGlyphs[len(barGlyphs)-1]
			case filled > 0:
				ch = barGlyphs[filled]
			}

			if ch == ' ' {
				if peakCell, ok := s.peakMarker(peaks, col, cellFromBottom, innerHeight, view); ok {
					line.WriteString(peakCell)
					continue
				}
				line.WriteRune(' ')
				continue
			}

			line.WriteString(s.palette.Foreground(fracs[col]))
			line.WriteRune(ch)
		}

		fmt.Fprintf(s.out, "\x1b[%d;2H%s%s", top+r, sgrReset, line.String())
	}
}

// peakMarker returns the colored marker glyph when the peak-hold level for
// this column sits in the given cell.
func (s *Screen) peakMarker(peaks map[int]float64, col, cellFromBottom, innerHeight int, view View) (string, bool) {
	power, ok := peaks[col]
	if !ok {
		return "", false
	}

	frac := view.Bounds.Fraction(power)
	cell := int(frac * float64(innerHeight))
	if cell >= innerHeight {
		cell = innerHeight - 1
	}
	if cell != cellFromBottom {
		return "", false
	}

	return s.palette.Foreground(frac) + "─" + sgrReset, true
}

// renderWaterfall draws up to innerHeight history rows, newest at the top.
func (s *Screen) renderWaterfall(top, innerWidth, innerHeight int, wf *Waterfall, view View) {
	rows := wf.Rows()

	var line strings.Builder
	for r := 0; r < innerHeight; r++ {
		line.Reset()

		if r < len(rows) {
			columns, err := remap.Columns(rows[r].Spectrum, innerWidth)
			if err == nil {
				for col := 0; col < innerWidth; col++ {
					power, ok := columns[col]
					if !ok {
						line.WriteRune(' ')
						continue
					}

					frac := view.Bounds.Fraction(power)
					line.WriteString(s.palette.Foreground(frac))
					line.WriteRune(ShadeGlyph(frac))
				}
			}
		}

		fmt.Fprintf(s.out, "\x1b[%d;2H%s%-*s", top+r, sgrReset, innerWidth, line.String())
	}
}

// renderStatus draws the bottom status line: key hints, sweep range, power
// range and mode flags.
func (s *Screen) renderStatus(row, width int, latest *sweep.Frame, view View) {
	hints := "q quit · space pause · h hold · c clear · [/] shift · -/+ range · s snapshot"

	var info strings.Builder
	if latest != nil && len(latest.Spectrum) > 0 {
		minFreq, maxFreq := spectrumSpan(latest.Spectrum)
		loF, loS := humanize.ComputeSI(minFreq)
		hiF, hiS := humanize.ComputeSI(maxFreq)
		fmt.Fprintf(&info, "%.1f %sHz – %.1f %sHz  ", loF, loS, hiF, hiS)
	}
	fmt.Fprintf(&info, "%.0f..%.0f dBm", view.Bounds.Min, view.Bounds.Max)
	if view.AutoRange {
		info.WriteString(" auto")
	}
	if view.PeakHold {
		info.WriteString("  HOLD")
	}
	if view.Paused {
		info.WriteString("  PAUSED")
	}

	line := hints
	if pad := width - len([]rune(hints)) - len([]rune(info.String())); pad > 1 {
		line = hints + strings.Repeat(" ", pad) + info.String()
	} else {
		line = info.String()
	}
	if n := len([]rune(line)); n > width {
		line = string([]rune(line)[:width])
	}

	fmt.Fprintf(s.out, "\x1b[%d;1H%s%s%s", row, sgrReset, clearLine, line)
}

// panelMessage centers a short message inside a panel body.
func (s *Screen) panelMessage(top, innerWidth, innerHeight int, msg string) {
	for r := 0; r < innerHeight; r++ {
		fmt.Fprintf(s.out, "\x1b[%d;2H%s%*s", top+r, sgrReset, innerWidth, "")
	}

	if len(msg) > innerWidth {
		msg = msg[:innerWidth]
	}
	col := 2 + (innerWidth-len(msg))/2
	fmt.Fprintf(s.out, "\x1b[%d;%dH%s", top+innerHeight/2, col, msg)
}

// drawBox draws a single-line box with a title on its top border.
func (s *Screen) drawBox(top, height, width int, title string) {
	inner := width - 2

	topLine := "┌" + strings.Repeat("─", inner) + "┐"
	if n := len([]rune(title)); n <= inner-2 {
		topLine = "┌─" + title + strings.Repeat("─", inner-1-n) + "┐"
	}

	fmt.Fprintf(s.out, "\x1b[%d;1H%s%s", top, sgrReset, topLine)
	for r := 1; r < height-1; r++ {
		fmt.Fprintf(s.out, "\x1b[%d;1H│\x1b[%d;%dH│", top+r, top+r, width)
	}
	fmt.Fprintf(s.out, "\x1b[%d;1H└%s┘", top+height-1, strings.Repeat("─", inner))
}

// spectrumSpan returns the minimum and maximum frequency of a spectrum.
func spectrumSpan(spectrum sweep.Spectrum) (minFreq, maxFreq float64) {
	freqs := make([]float64, 0, len(spectrum))
	for freq := range spectrum {
		freqs = append(freqs, freq)
	}
	return floats.Min(freqs), floats.Max(freqs)
}
