package midi

import (
	"math"
	"time"
)

const (
	attack  = 8 * time.Millisecond
	release = 120 * time.Millisecond
	// Headroom so a handful of overlapping voices stay under full scale.
	voiceGain = 0.22
)

// Frequency returns the equal-tempered pitch of a MIDI key.
func Frequency(key uint8) float64 {
	return 440 * math.Pow(2, (float64(key)-69)/12)
}

// Render mixes the song into interleaved 16-bit stereo PCM at sampleRate.
func Render(song Song, sampleRate int) []int16 {
	if sampleRate <= 0 || len(song.Notes) == 0 {
		return nil
	}
	sr := float64(sampleRate)
	total := int((song.Duration + release).Seconds() * sr)
	mix := make([]float64, total)

	att := int(attack.Seconds() * sr)
	rel := int(release.Seconds() * sr)

	for _, n := range song.Notes {
		start := int(n.Start.Seconds() * sr)
		hold := int(n.Length.Seconds() * sr)
		step := 2 * math.Pi * Frequency(n.Key) / sr
		gain := float64(n.Velocity) / 127 * voiceGain

		for i := 0; i < hold+rel && start+i < total; i++ {
			phase := step * float64(i)
			v := math.Sin(phase) + 0.3*math.Sin(2*phase) + 0.1*math.Sin(3*phase)
			mix[start+i] += v / 1.4 * gain * envelope(i, hold, att, rel)
		}
	}

	out := make([]int16, total*2)
	for i, v := range mix {
		s := int16(math.Tanh(v) * 32767)
		out[2*i] = s
		out[2*i+1] = s
	}
	return out
}

// envelope is a linear attack, flat sustain and linear release.
func envelope(i, hold, att, rel int) float64 {
	switch {
	case i < att && att > 0:
		return float64(i) / float64(att)
	case i < hold:
		return 1
	case rel > 0:
		return math.Max(0, 1-float64(i-hold)/float64(rel))
	default:
		return 0
	}
}
