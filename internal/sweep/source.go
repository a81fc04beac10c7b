package sweep

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
)

var (
	// ErrTooManyParseErrors is returned when the number of consecutive
	// unparseable lines exceeds the configured threshold.
	ErrTooManyParseErrors = errors.New("too many consecutive parse errors")

	// ErrBrokenPipe is returned when reading the line stream fails before
	// a true end of stream.
	ErrBrokenPipe = errors.New("broken pipe")
)

// WithLogger sets the logger for the source.
func WithLogger(logger *slog.Logger) func(s *Source) {
	return func(s *Source) {
		s.logger = logger
	}
}

// WithParseErrorsThreshold aborts the stream after the given number of
// consecutive malformed lines. Zero (the default) disables the threshold:
// malformed lines are skipped forever, which is the right behaviour when the
// stream is an arbitrary pipe rather than a process we supervise ourselves.
func WithParseErrorsThreshold(threshold uint8) func(s *Source) {
	return func(s *Source) {
		s.parseErrorsThreshold = threshold
	}
}

// Source drives the parse and assembly pipeline over a line-oriented sweep
// stream, delivering completed frames to a channel.
type Source struct {
	parseErrorsThreshold uint8
	logger               *slog.Logger
}

// NewSource creates a new Source with a discard logger.
func NewSource(options ...func(s *Source)) *Source {
	s := Source{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Run reads r line by line until EOF or ctx cancellation, assembling sweep
// chunks into frames and sending each completed frame on frames. The final
// partially accumulated frame is flushed after the stream ends. Run does not
// close the frames channel; that is the caller's job, since the channel may
// outlive one stream.
//
// Malformed lines are logged and skipped without disturbing the current
// frame. With a parse-errors threshold configured, a long enough run of
// consecutive bad lines returns ErrTooManyParseErrors instead.
func (s *Source) Run(ctx context.Context, r io.Reader, frames chan<- Frame) error {
	var assembler Assembler
	var parseErrors uint8

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, spectrum, ok := ParseLine(line)
		if !ok {
			parseErrors++
			s.logger.Warn("skipping malformed sweep line", slog.String("line", line))

			if s.parseErrorsThreshold > 0 && parseErrors >= s.parseErrorsThreshold {
				return ErrTooManyParseErrors
			}

			continue
		}

		parseErrors = 0 // reset counter

		frame, done := assembler.Push(key, spectrum, ok)
		if !done {
			continue
		}

		select {
		case frames <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		return fmt.Errorf("%w: error reading sweep stream: %w", ErrBrokenPipe, err)
	}

	frame, done := assembler.Flush()
	if !done {
		return nil
	}

	select {
	case frames <- frame:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}
