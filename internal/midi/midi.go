// Package midi reads and writes the Standard MIDI Files produced by the music
// generation service and renders them to PCM with a small additive synth.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	ErrNoNotes               = errors.New("midi file contains no notes")
	ErrUnsupportedTimeFormat = errors.New("midi file uses SMPTE timing")
)

const (
	defaultBPM = 120.0
	resolution = 480
)

// Note is a single sounding note with absolute timing.
type Note struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
	Start    time.Duration
	Length   time.Duration
}

// Song is a flattened, time-ordered note list.
type Song struct {
	Notes    []Note
	Duration time.Duration
}

type tempoChange struct {
	tick int64
	bpm  float64
}

type tempoMap struct {
	resolution float64
	changes    []tempoChange
}

func (m tempoMap) at(tick int64) time.Duration {
	var secs float64
	last, bpm := int64(0), defaultBPM
	for _, c := range m.changes {
		if c.tick >= tick {
			break
		}
		secs += float64(c.tick-last) / m.resolution * 60 / bpm
		last, bpm = c.tick, c.bpm
	}
	secs += float64(tick-last) / m.resolution * 60 / bpm
	return time.Duration(secs * float64(time.Second))
}

func readTempoMap(s *smf.SMF, res uint16) tempoMap {
	m := tempoMap{resolution: float64(res)}
	for _, tr := range s.Tracks {
		var abs int64
		for _, ev := range tr {
			abs += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				m.changes = append(m.changes, tempoChange{tick: abs, bpm: bpm})
			}
		}
	}
	sort.SliceStable(m.changes, func(i, j int) bool { return m.changes[i].tick < m.changes[j].tick })
	return m
}

type openNote struct {
	channel, key, velocity uint8
	tick                   int64
}

// Parse decodes a Standard MIDI File into a Song.
func Parse(data []byte) (Song, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return Song{}, fmt.Errorf("reading midi: %w", err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return Song{}, ErrUnsupportedTimeFormat
	}
	tm := readTempoMap(s, ticks.Resolution())

	var song Song
	closeNote := func(n openNote, endTick int64) {
		start := tm.at(n.tick)
		end := tm.at(endTick)
		if end <= start {
			return
		}
		song.Notes = append(song.Notes, Note{
			Channel:  n.channel,
			Key:      n.key,
			Velocity: n.velocity,
			Start:    start,
			Length:   end - start,
		})
		if end > song.Duration {
			song.Duration = end
		}
	}

	for _, tr := range s.Tracks {
		var abs int64
		open := make(map[uint16]openNote)
		for _, ev := range tr {
			abs += int64(ev.Delta)
			msg := midi.Message(ev.Message)

			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				id := uint16(ch)<<8 | uint16(key)
				if prev, ok := open[id]; ok {
					closeNote(prev, abs)
				}
				open[id] = openNote{channel: ch, key: key, velocity: vel, tick: abs}
			case msg.GetNoteEnd(&ch, &key):
				id := uint16(ch)<<8 | uint16(key)
				if prev, ok := open[id]; ok {
					closeNote(prev, abs)
					delete(open, id)
				}
			}
		}
		// Notes still held at the end of a track stop there.
		for _, n := range open {
			closeNote(n, abs)
		}
	}

	if len(song.Notes) == 0 {
		return Song{}, ErrNoNotes
	}
	sort.SliceStable(song.Notes, func(i, j int) bool {
		a, b := song.Notes[i], song.Notes[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Key < b.Key
	})
	return song, nil
}

type noteEvent struct {
	tick int64
	on   bool
	note Note
}

// Encode writes notes as a single-track MIDI file at a fixed tempo.
func Encode(notes []Note, bpm float64) ([]byte, error) {
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}
	if bpm <= 0 {
		bpm = defaultBPM
	}
	toTick := func(d time.Duration) int64 {
		return int64(d.Seconds()*bpm/60*resolution + 0.5)
	}

	events := make([]noteEvent, 0, len(notes)*2)
	for _, n := range notes {
		events = append(events,
			noteEvent{tick: toTick(n.Start), on: true, note: n},
			noteEvent{tick: toTick(n.Start + n.Length), on: false, note: n},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		// Release before re-striking on the same tick.
		return !events[i].on && events[j].on
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(bpm))
	var last int64
	for _, e := range events {
		delta := uint32(e.tick - last)
		last = e.tick
		if e.on {
			tr.Add(delta, midi.NoteOn(e.note.Channel, e.note.Key, e.note.Velocity))
		} else {
			tr.Add(delta, midi.NoteOff(e.note.Channel, e.note.Key))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("adding track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing midi: %w", err)
	}
	return buf.Bytes(), nil
}
