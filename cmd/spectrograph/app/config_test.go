package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/morria/spectrum-analyzer/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Display.FrameRate != defaultFrameRate {
		t.Errorf("expected default frame rate %d, got %d", defaultFrameRate, config.Display.FrameRate)
	}
	if config.Settings.LogFile != defaultLogFile {
		t.Errorf("expected default log file, got %s", config.Settings.LogFile)
	}
	if config.HackRF != nil {
		t.Error("expected stdin source by default")
	}

	bounds, auto := config.Bounds()
	if !auto {
		t.Error("expected auto-ranging when no power range is configured")
	}
	if bounds != render.DefaultPowerBounds() {
		t.Errorf("expected default bounds, got %+v", bounds)
	}
	if config.Theme() != render.ClassicTheme {
		t.Errorf("expected classic theme, got %s", config.Theme())
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
  logFile: /tmp/spectrograph-test.log
display:
  minPower: -90
  maxPower: -10
  frameRate: 12
  colorTheme: thermal
  spectrumHeight: 10
hackrf:
  frequencyStart: 88000000
  frequencyEnd: 108000000
  binWidth: 100000
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	level, err := config.Settings.SlogLevel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level.String() != "DEBUG" {
		t.Errorf("expected debug level, got %s", level)
	}

	bounds, auto := config.Bounds()
	if auto {
		t.Error("a pinned power range must disable auto-ranging")
	}
	if bounds.Min != -90 || bounds.Max != -10 {
		t.Errorf("unexpected bounds: %+v", bounds)
	}

	if config.Theme() != render.ThermalTheme {
		t.Errorf("expected thermal theme, got %s", config.Theme())
	}
	if config.HackRF == nil || config.HackRF.FrequencyStart != 88_000_000 {
		t.Errorf("unexpected launcher config: %+v", config.HackRF)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"negative frame rate", "display:\n  frameRate: -1\n"},
		{"unknown theme", "display:\n  colorTheme: neon\n"},
		{"half a power range", "display:\n  minPower: -90\n"},
		{"inverted power range", "display:\n  minPower: -10\n  maxPower: -90\n"},
		{"bad launcher range", "hackrf:\n  frequencyStart: 100\n  frequencyEnd: 100\n"},
		{"bad snapshot format", "snapshot:\n  format: bmp\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestEventForKey(t *testing.T) {
	cases := map[byte]render.Event{
		'q':  render.EventQuit,
		0x03: render.EventQuit,
		' ':  render.EventTogglePause,
		'h':  render.EventTogglePeakHold,
		'c':  render.EventClearPeakHold,
		'[':  render.EventRangeDown,
		']':  render.EventRangeUp,
		'+':  render.EventRangeWiden,
		'-':  render.EventRangeNarrow,
		's':  render.EventSnapshot,
		'x':  render.EventNone,
	}
	for key, want := range cases {
		if got := eventForKey(key); got != want {
			t.Errorf("key %q: expected event %d, got %d", key, want, got)
		}
	}
}
