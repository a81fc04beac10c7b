package sweep

// Assembler folds an ordered stream of parsed sweep records into complete
// frames. A full-width sweep arrives as several partial chunks sharing one
// sweep key; the Assembler merges consecutive same-key chunks and hands back
// the accumulated frame the moment a record with a different key shows up.
//
// The zero value is ready to use. An Assembler is owned by a single consumer
// and is not safe for concurrent use.
type Assembler struct {
	key    string
	keySet bool
	acc    Spectrum
}

// Push feeds one parser result into the accumulation. Records with ok ==
// false (malformed upstream lines) are dropped without touching the current
// accumulation, so a corrupted line in the middle of a sweep does not flush
// the frame early.
//
// When the incoming key differs from the key being accumulated, the finished
// frame is returned with done == true and the incoming record seeds the next
// accumulation. Per-frequency collisions within a frame are last-write-wins.
func (a *Assembler) Push(key string, spectrum Spectrum, ok bool) (frame Frame, done bool) {
	if !ok {
		return Frame{}, false
	}

	if !a.keySet {
		a.key = key
		a.keySet = true
		a.acc = make(Spectrum, len(spectrum))
	}

	if key == a.key {
		a.acc.Merge(spectrum)
		return Frame{}, false
	}

	frame = Frame{Key: a.key, Spectrum: a.acc}

	a.key = key
	a.acc = make(Spectrum, len(spectrum))
	a.acc.Merge(spectrum)

	return frame, true
}

// Flush emits the partially accumulated frame once the stream has ended.
// It returns done == false when nothing was accumulated, so an empty or
// fully malformed stream yields no frames at all.
func (a *Assembler) Flush() (frame Frame, done bool) {
	if !a.keySet || len(a.acc) == 0 {
		return Frame{}, false
	}

	frame = Frame{Key: a.key, Spectrum: a.acc}
	a.key = ""
	a.keySet = false
	a.acc = nil

	return frame, true
}
