package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/morria/spectrum-analyzer/internal/render"
	"github.com/morria/spectrum-analyzer/internal/snapshot"
	"github.com/morria/spectrum-analyzer/internal/sweep"
	"github.com/morria/spectrum-analyzer/internal/term"
)

// launcherParseErrorsThreshold aborts a supervised hackrf_sweep run that
// produces garbage. A plain stdin pipe has no threshold: its malformed lines
// are skipped forever.
const launcherParseErrorsThreshold = 5

// Run wires the pipeline to the terminal UI and blocks until the stream
// ends, the user quits, or ctx is cancelled.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t, err := term.Open()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer t.Close()

	palette := render.NewPalette(config.Theme(), 0)
	screen := render.NewScreen(t.Out(), palette, config.Display.SpectrumHeight)

	snapshots, err := snapshot.NewRenderer(config.Snapshot, palette)
	if err != nil {
		return fmt.Errorf("failed to create snapshot renderer: %w", err)
	}

	width, height, err := t.Size()
	if err != nil {
		return fmt.Errorf("failed to query terminal size: %w", err)
	}

	bounds, auto := config.Bounds()
	state := render.NewState(bounds, auto)
	autoRange := render.NewAutoRange(defaultAlpha)
	waterfall := render.NewWaterfall(screen.WaterfallDepth(height))

	frames := make(chan sweep.Frame, 16)
	pipelineDone := make(chan error, 1)
	go func() {
		defer close(frames)
		pipelineDone <- runPipeline(ctx, config, logger, frames)
	}()

	keys := t.Keys()
	resize := t.Resize(ctx)

	if err = screen.Enter(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Leave()

	ticker := time.NewTicker(time.Second / time.Duration(config.Display.FrameRate))
	defer ticker.Stop()

	var latest *sweep.Frame
	var pipelineErr error
	streamEnded := false
	dirty := true

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-pipelineDone:
			pipelineErr = err
			pipelineDone = nil

		case frame, ok := <-frames:
			if !ok {
				frames = nil
				streamEnded = true
				continue
			}
			if state.Paused() {
				continue // dropped frames never corrupt pipeline state
			}

			state.ObserveFrame(frame)
			if auto {
				state.SetBounds(autoRange.Observe(frame.Spectrum))
			}

			latest = &frame
			waterfall.Push(frame)
			dirty = true

		case key, ok := <-keys:
			if !ok {
				return pipelineErr
			}

			switch event := eventForKey(key); event {
			case render.EventQuit:
				return pipelineErr

			case render.EventSnapshot:
				view := state.Snapshot()
				path, err := snapshots.Write(waterfall.Rows(), view.Bounds)
				if err != nil {
					logger.Error(fmt.Sprintf("snapshot failed: %s", err.Error()))
					continue
				}
				logger.Info("snapshot written", slog.String("path", path))

			case render.EventNone:

			default:
				state.Apply(event)
				dirty = true
			}

		case <-resize:
			if width, height, err = t.Size(); err != nil {
				return fmt.Errorf("failed to query terminal size: %w", err)
			}
			waterfall.SetDepth(screen.WaterfallDepth(height))
			dirty = true

		case <-ticker.C:
			if !dirty {
				if streamEnded && pipelineDone == nil && pipelineErr != nil {
					return pipelineErr // surface a broken pipeline once drained
				}
				continue
			}
			dirty = false

			if err = screen.Render(width, height, latest, waterfall, state.Snapshot()); err != nil {
				return fmt.Errorf("failed to render frame: %w", err)
			}
		}
	}
}

// runPipeline feeds frames from the configured source: a supervised
// hackrf_sweep process, or stdin when no launcher is configured.
func runPipeline(ctx context.Context, config *Config, logger *slog.Logger, frames chan<- sweep.Frame) error {
	if config.HackRF == nil {
		source := sweep.NewSource(sweep.WithLogger(logger))
		return source.Run(ctx, os.Stdin, frames)
	}

	source := sweep.NewSource(
		sweep.WithLogger(logger),
		sweep.WithParseErrorsThreshold(launcherParseErrorsThreshold),
	)

	launcher, err := sweep.NewLauncher(config.HackRF, logger)
	if err != nil {
		return fmt.Errorf("failed to create hackrf_sweep launcher: %w", err)
	}

	return launcher.Run(ctx, source, frames)
}

// eventForKey maps a raw keypress to a UI event.
func eventForKey(key byte) render.Event {
	switch key {
	case 'q', 'Q', 0x03: // ctrl-c arrives as a byte in raw mode
		return render.EventQuit
	case ' ', 'p':
		return render.EventTogglePause
	case 'h':
		return render.EventTogglePeakHold
	case 'c':
		return render.EventClearPeakHold
	case '[':
		return render.EventRangeDown
	case ']':
		return render.EventRangeUp
	case '+', '=':
		return render.EventRangeWiden
	case '-':
		return render.EventRangeNarrow
	case 's':
		return render.EventSnapshot
	default:
		return render.EventNone
	}
}
