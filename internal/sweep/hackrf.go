package sweep

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

const hackrfSweepRuntime = "hackrf_sweep"

const (
	minNumSamples = 8192
	maxLNAGain    = 40
	maxVGAGain    = 62
	lnaGainStep   = 8
	vgaGainStep   = 2
)

// LauncherConfig configures the embedded `hackrf_sweep` process. When no
// launcher is configured the analyzer reads an already running sweep from
// stdin instead.
//
// See `man hackrf_sweep` for the flags these fields map onto:
// https://manpages.debian.org/bookworm/hackrf/hackrf_sweep.1.en.html
type LauncherConfig struct {
	// Required
	FrequencyStart int64 `yaml:"frequencyStart"` // -f freq_min Frequency range start in Hz
	FrequencyEnd   int64 `yaml:"frequencyEnd"`   // -f freq_max Frequency range end in Hz

	// Optional (the tool has reasonable defaults)
	LNAGain      *int   `yaml:"lnaGain"`      // -l gain_db LNA (IF) gain, 0-40dB, 8dB steps
	VGAGain      *int   `yaml:"vgaGain"`      // -g gain_db VGA (baseband) gain, 0-62dB, 2dB steps
	BinWidth     int64  `yaml:"binWidth"`     // -w bin_width FFT bin width in Hz
	NumSamples   int64  `yaml:"numSamples"`   // -n num_samples Samples per frequency, 8192-4294967296
	SerialNumber string `yaml:"serialNumber"` // -d serial_number Serial number of desired HackRF
	EnableAmp    bool   `yaml:"enableAmp"`    // -a amp_enable RX RF amplifier
	AntennaPower bool   `yaml:"antennaPower"` // -p antenna_enable Antenna port power
	NumSweeps    int    `yaml:"numSweeps"`    // -N num_sweeps Number of sweeps to perform
}

func (c *LauncherConfig) Validate() error {
	if c.FrequencyStart >= c.FrequencyEnd {
		return errors.New("sweep.LauncherConfig: frequency end must be greater than frequency start")
	}

	if c.LNAGain != nil {
		if *c.LNAGain < 0 || *c.LNAGain > maxLNAGain {
			return fmt.Errorf("sweep.LauncherConfig: LNA gain must be between 0 and 40 dB: %d given", *c.LNAGain)
		}
		if *c.LNAGain%lnaGainStep != 0 {
			return errors.New("sweep.LauncherConfig: LNA gain must be a multiple of 8 dB")
		}
	}

	if c.VGAGain != nil {
		if *c.VGAGain < 0 || *c.VGAGain > maxVGAGain {
			return fmt.Errorf("sweep.LauncherConfig: VGA gain must be between 0 and 62 dB: %d given", *c.VGAGain)
		}
		if *c.VGAGain%vgaGainStep != 0 {
			return errors.New("sweep.LauncherConfig: VGA gain must be a multiple of 2 dB")
		}
	}

	if c.NumSamples > 0 && c.NumSamples < minNumSamples {
		return fmt.Errorf("sweep.LauncherConfig: number of samples must be at least 8192: %d given", c.NumSamples)
	}

	if c.NumSweeps < 0 {
		return fmt.Errorf("sweep.LauncherConfig: number of sweeps cannot be negative: %d given", c.NumSweeps)
	}

	return nil
}

// Args builds the command line arguments for `hackrf_sweep`.
func (c *LauncherConfig) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	args := []string{
		"-f", fmt.Sprintf("%d:%d",
			c.FrequencyStart/1e6,
			c.FrequencyEnd/1e6),
	}

	if c.SerialNumber != "" {
		args = append(args, "-d", c.SerialNumber)
	}

	if c.BinWidth > 0 {
		args = append(args, "-w", strconv.FormatInt(c.BinWidth, 10))
	}

	if c.LNAGain != nil {
		args = append(args, "-l", strconv.Itoa(*c.LNAGain))
	}

	if c.VGAGain != nil {
		args = append(args, "-g", strconv.Itoa(*c.VGAGain))
	}

	if c.NumSamples >= minNumSamples {
		args = append(args, "-n", strconv.FormatInt(c.NumSamples, 10))
	}

	if c.EnableAmp {
		args = append(args, "-a", "1")
	}

	if c.AntennaPower {
		args = append(args, "-p", "1")
	}

	if c.NumSweeps > 0 {
		args = append(args, "-N", strconv.Itoa(c.NumSweeps))
	}

	return args, nil
}

// Launcher runs `hackrf_sweep` and feeds its stdout through a Source.
type Launcher struct {
	binPath string
	args    []string
	logger  *slog.Logger
}

// NewLauncher locates the `hackrf_sweep` binary on PATH and prepares its
// arguments from config.
func NewLauncher(config *LauncherConfig, logger *slog.Logger) (*Launcher, error) {
	binPath, err := exec.LookPath(hackrfSweepRuntime)
	if err != nil {
		return nil, fmt.Errorf("error finding runtime: %w", err)
	}

	args, err := config.Args()
	if err != nil {
		return nil, fmt.Errorf("error creating args: %w", err)
	}

	return &Launcher{binPath, args, logger}, nil
}

// Run starts the sweep process and pumps its stdout through src until the
// process exits or ctx is cancelled. Stderr lines are logged as warnings;
// `hackrf_sweep` narrates device setup there even when healthy.
func (l *Launcher) Run(ctx context.Context, src *Source, frames chan<- Frame) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.binPath, l.args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error creating stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("error creating stderr pipe: %w", err)
	}

	if err = cmd.Start(); err != nil {
		return fmt.Errorf("error starting command: %w", err)
	}

	l.logger.Info("starting sweep collection...", slog.String("runtime", l.binPath))

	done := make(chan error, 3) // expects three results from three goroutines

	go func() {
		done <- src.Run(ctx, stdout, frames)
	}()
	go func() {
		done <- l.handleStderr(stderr)
	}()
	go func() {
		if err := cmd.Wait(); err != nil && !errors.Is(ctx.Err(), context.Canceled) {
			done <- fmt.Errorf("command exited with error: %w", err)
			return
		}
		done <- nil
	}()

	var errs []error
	for i := 0; i < cap(done); i++ {
		if err := <-done; err != nil {
			cancel() // stop the remaining goroutines on first failure
			errs = append(errs, err)
		}
	}

	l.logger.Info("sweep collection stopped")

	return errors.Join(errs...)
}

// handleStderr reads stderr and logs non-empty lines.
func (l *Launcher) handleStderr(stderr io.Reader) error {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		l.logger.Warn(fmt.Sprintf("%s >> %s", hackrfSweepRuntime, line))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		return fmt.Errorf("%w: error reading stderr: %w", ErrBrokenPipe, err)
	}

	return nil
}
