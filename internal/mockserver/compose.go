package mockserver

import (
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/olivier-w/moodtunes/internal/midi"
)

const (
	composeBPM = 120
	minNotes   = 50
	notesPer   = 4
	maxNotes   = 600
	maxInputs  = 100
)

// C minor pentatonic over two octaves from C4.
var scale = []uint8{60, 63, 65, 67, 70, 72, 75, 77, 79, 82}

// Note lengths in quarter notes.
var quarterLengths = []float64{0.25, 0.5, 1.0}

// compose writes a melody seeded by id. More inputs give a longer clip.
func compose(id uuid.UUID, numInputs int) ([]byte, error) {
	rng := rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(id[:8]),
		binary.BigEndian.Uint64(id[8:]),
	))

	count := min(minNotes+numInputs*notesPer, maxNotes)
	quarter := time.Minute / composeBPM

	notes := make([]midi.Note, 0, count)
	var at time.Duration
	step := rng.IntN(len(scale))
	for range count {
		// Random walk of at most two scale degrees.
		step += rng.IntN(5) - 2
		step = max(0, min(step, len(scale)-1))

		length := time.Duration(quarterLengths[rng.IntN(len(quarterLengths))] * float64(quarter))
		notes = append(notes, midi.Note{
			Key:      scale[step],
			Velocity: uint8(70 + rng.IntN(40)),
			Start:    at,
			Length:   length,
		})
		at += length
	}
	return midi.Encode(notes, composeBPM)
}
