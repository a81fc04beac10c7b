package sweep

import "testing"

// collect runs parsed records through a fresh assembler, flushes it, and
// returns every emitted frame in order.
func collect(t *testing.T, records []struct {
	key string
	s   Spectrum
	ok  bool
}) []Frame {
	t.Helper()

	var assembler Assembler
	var frames []Frame
	for _, r := range records {
		if frame, done := assembler.Push(r.key, r.s, r.ok); done {
			frames = append(frames, frame)
		}
	}
	if frame, done := assembler.Flush(); done {
		frames = append(frames, frame)
	}
	return frames
}

func TestAssembler_Grouping(t *testing.T) {
	records := []struct {
		key string
		s   Spectrum
		ok  bool
	}{
		{"A", Spectrum{100: -1}, true},
		{"A", Spectrum{200: -2}, true},
		{"B", Spectrum{100: -3}, true},
		{"B", Spectrum{200: -4}, true},
		{"B", Spectrum{300: -5}, true},
		{"C", Spectrum{100: -6}, true},
	}

	frames := collect(t, records)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}

	for i, key := range []string{"A", "B", "C"} {
		if frames[i].Key != key {
			t.Errorf("frame %d: expected key %s, got %s", i, key, frames[i].Key)
		}
	}
	if len(frames[0].Spectrum) != 2 {
		t.Errorf("frame A: expected 2 readings, got %d", len(frames[0].Spectrum))
	}
	if len(frames[1].Spectrum) != 3 {
		t.Errorf("frame B: expected 3 readings, got %d", len(frames[1].Spectrum))
	}
	if len(frames[2].Spectrum) != 1 {
		t.Errorf("frame C: expected 1 reading, got %d", len(frames[2].Spectrum))
	}
}

func TestAssembler_EOFFlush(t *testing.T) {
	records := []struct {
		key string
		s   Spectrum
		ok  bool
	}{
		{"A", Spectrum{100: -1}, true},
		{"A", Spectrum{200: -2}, true},
	}

	frames := collect(t, records)
	if len(frames) != 1 {
		t.Fatalf("a run ending mid-stream must still flush: got %d frames", len(frames))
	}
	if frames[0].Key != "A" || len(frames[0].Spectrum) != 2 {
		t.Errorf("unexpected flushed frame: %+v", frames[0])
	}
}

func TestAssembler_EmptyInput(t *testing.T) {
	if frames := collect(t, nil); len(frames) != 0 {
		t.Errorf("empty input must yield no frames, got %d", len(frames))
	}
}

func TestAssembler_AllMalformed(t *testing.T) {
	records := []struct {
		key string
		s   Spectrum
		ok  bool
	}{
		{"", nil, false},
		{"", nil, false},
	}
	if frames := collect(t, records); len(frames) != 0 {
		t.Errorf("all-malformed input must yield no frames, got %d", len(frames))
	}
}

func TestAssembler_MalformedDoesNotSplitRun(t *testing.T) {
	records := []struct {
		key string
		s   Spectrum
		ok  bool
	}{
		{"A", Spectrum{100: -1}, true},
		{"", nil, false}, // corrupted line in the middle of the run
		{"A", Spectrum{200: -2}, true},
	}

	frames := collect(t, records)
	if len(frames) != 1 {
		t.Fatalf("sentinel must not flush the current frame: got %d frames", len(frames))
	}
	if len(frames[0].Spectrum) != 2 {
		t.Errorf("expected both records merged, got %v", frames[0].Spectrum)
	}
}

func TestAssembler_LastWriteWinsOnCollision(t *testing.T) {
	records := []struct {
		key string
		s   Spectrum
		ok  bool
	}{
		{"A", Spectrum{100: -40, 150: -30}, true},
		{"A", Spectrum{100: -50}, true},
	}

	frames := collect(t, records)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if power := frames[0].Spectrum[100]; power != -50 {
		t.Errorf("expected the later reading to win at 100 Hz: got %f", power)
	}
}

func TestAssembler_NewKeyStartsNextFrame(t *testing.T) {
	var assembler Assembler

	if _, done := assembler.Push("A", Spectrum{100: -1}, true); done {
		t.Fatal("first record must not complete a frame")
	}

	frame, done := assembler.Push("B", Spectrum{200: -2}, true)
	if !done {
		t.Fatal("key change must emit the accumulated frame")
	}
	if frame.Key != "A" {
		t.Errorf("expected emitted frame for key A, got %s", frame.Key)
	}

	// The record that triggered the emission seeds the next frame rather
	// than being dropped.
	next, done := assembler.Flush()
	if !done {
		t.Fatal("expected the B record to flush")
	}
	if next.Key != "B" || next.Spectrum[200] != -2 {
		t.Errorf("unexpected final frame: %+v", next)
	}
}
