// Package sound plays short synthesized cues for kitchen events.
package sound

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Audio parameters of every cue.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Cue names a sound.
type Cue int

const (
	CueNone Cue = iota
	CueIgnite
	CueExtinguish
	CueDelivered
	CueWrongDish
	CueDanger
	CueChop
	CueTrash
)

// String returns the cue name, also used as its WAV file name.
func (c Cue) String() string {
	switch c {
	case CueIgnite:
		return "ignite"
	case CueExtinguish:
		return "extinguish"
	case CueDelivered:
		return "delivered"
	case CueWrongDish:
		return "wrong-dish"
	case CueDanger:
		return "danger"
	case CueChop:
		return "chop"
	case CueTrash:
		return "trash"
	default:
		return "none"
	}
}

var allCues = []Cue{CueIgnite, CueExtinguish, CueDelivered, CueWrongDish, CueDanger, CueChop, CueTrash}

// note is one tone of a cue. A zero frequency is a rest.
type note struct {
	hz  float64
	dur time.Duration
}

var scores = map[Cue][]note{
	CueIgnite:     {{110, 120 * time.Millisecond}, {98, 120 * time.Millisecond}, {87, 200 * time.Millisecond}},
	CueExtinguish: {{880, 60 * time.Millisecond}, {660, 60 * time.Millisecond}, {440, 120 * time.Millisecond}},
	CueDelivered:  {{523, 90 * time.Millisecond}, {659, 90 * time.Millisecond}, {784, 160 * time.Millisecond}},
	CueWrongDish:  {{392, 120 * time.Millisecond}, {311, 220 * time.Millisecond}},
	CueDanger:     {{988, 80 * time.Millisecond}, {0, 60 * time.Millisecond}, {988, 80 * time.Millisecond}},
	CueChop:       {{1318, 30 * time.Millisecond}},
	CueTrash:      {{196, 140 * time.Millisecond}},
}

// Synthesize renders a cue as signed 16-bit little-endian mono PCM.
func Synthesize(c Cue) []byte {
	var pcm []byte
	for _, n := range scores[c] {
		pcm = append(pcm, tone(n.hz, n.dur, 0.3)...)
	}
	return pcm
}

// tone renders a sine wave with a short linear attack and release so notes
// do not click.
func tone(hz float64, d time.Duration, gain float64) []byte {
	samples := int(float64(SampleRate) * d.Seconds())
	ramp := min(samples/4, SampleRate/200)
	out := make([]byte, samples*2)
	for i := range samples {
		env := 1.0
		switch {
		case ramp == 0:
		case i < ramp:
			env = float64(i) / float64(ramp)
		case i >= samples-ramp:
			env = float64(samples-1-i) / float64(ramp)
		}
		v := 0.0
		if hz > 0 {
			v = math.Sin(2*math.Pi*hz*float64(i)/SampleRate) * gain * env
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return out
}

// Bank holds the PCM of every cue.
type Bank map[Cue][]byte

// NewBank returns the synthesized cues.
func NewBank() Bank {
	b := make(Bank, len(allCues))
	for _, c := range allCues {
		b[c] = Synthesize(c)
	}
	return b
}

// LoadDir replaces cues with <dir>/<cue>.wav where such files exist. The
// files must match SampleRate, ChannelCount and BitDepth.
func (b Bank) LoadDir(dir string) (int, error) {
	loaded := 0
	for _, c := range allCues {
		data, err := os.ReadFile(filepath.Join(dir, c.String()+".wav"))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return loaded, err
		}
		pcm, err := extractPCM(data)
		if err != nil {
			return loaded, fmt.Errorf("%s.wav: %w", c, err)
		}
		b[c] = pcm
		loaded++
	}
	return loaded, nil
}

// extractPCM strips the WAV/RIFF header and returns raw PCM data.
func extractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("wav data too short")
	}

	// Verify RIFF header.
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	// Walk chunks to find the "data" chunk.
	pos := 12
	for pos < len(wav)-8 {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))

		if chunkID == "data" {
			start := pos + 8
			end := min(start+chunkSize, len(wav))
			return wav[start:end], nil
		}

		pos += 8 + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return nil, errors.New("data chunk not found in WAV")
}
