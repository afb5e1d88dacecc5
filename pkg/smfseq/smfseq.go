// Package smfseq parses Standard MIDI Files (and RIFF/RMID containers
// wrapping them) into the generic sequence model consumed by package
// importer.
package smfseq

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/james-see/midi2song/pkg/importer"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrNotMIDI is returned for input that is neither an SMF nor an RMID
// container.
var ErrNotMIDI = errors.New("not a Standard MIDI file")

// defaultBPS is the SMF default tempo (120 BPM) in beats per second.
const defaultBPS = 2.0

// ReadFile reads and parses a .mid/.midi/.rmi file.
func ReadFile(filename string) (*importer.Sequence, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return Parse(data)
}

// Parse parses SMF data, unwrapping an RMID container first if present.
func Parse(data []byte) (*importer.Sequence, error) {
	if isRIFF(data) {
		smfData, err := unwrapRMID(data)
		if err != nil {
			return nil, err
		}
		data = smfData
	}
	if len(data) < 4 || string(data[:4]) != "MThd" {
		return nil, ErrNotMIDI
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}
	return fromSMF(s), nil
}

// tempoChange is one tempo meta event, in absolute ticks.
type tempoChange struct {
	tick uint32
	bpm  float64
}

func fromSMF(s *smf.SMF) *importer.Sequence {
	resolution := uint16(480)
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		resolution = mt.Resolution()
	}
	beatOf := func(tick uint32) float64 {
		return float64(tick) / float64(resolution)
	}

	seq := &importer.Sequence{}
	var tempos []tempoChange

	for _, track := range s.Tracks {
		var events []importer.Event
		var tick uint32

		// Open notes per (channel, key), queued so overlapping notes on
		// the same key pair up first-on/first-off.
		type noteKey struct{ ch, key uint8 }
		open := map[noteKey][]importer.NoteEvent{}

		for _, ev := range track {
			tick += ev.Delta
			msg := ev.Message
			beat := beatOf(tick)

			var ch, key, vel, cc, val, prog uint8
			var bpm float64
			var num, den uint8
			var name string
			var bendRel int16
			var bendAbs uint16

			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				k := noteKey{ch, key}
				open[k] = append(open[k], importer.NoteEvent{
					Channel:  int(ch),
					Start:    beat,
					Pitch:    int(key),
					Loudness: int(vel),
				})

			case msg.GetNoteEnd(&ch, &key):
				k := noteKey{ch, key}
				if pending := open[k]; len(pending) > 0 {
					note := pending[0]
					open[k] = pending[1:]
					note.Duration = beat - note.Start
					events = append(events, note)
				}

			case msg.GetControlChange(&ch, &cc, &val):
				events = append(events, importer.UpdateEvent{
					Channel:   int(ch),
					Beat:      beat,
					Attribute: fmt.Sprintf("control%d", cc),
					Value:     importer.RealValue(float64(val) / 127.0),
				})

			case msg.GetProgramChange(&ch, &prog):
				events = append(events, importer.UpdateEvent{
					Channel:   int(ch),
					Beat:      beat,
					Attribute: "program",
					Value:     importer.IntValue(int64(prog)),
				})

			case msg.GetPitchBend(&ch, &bendRel, &bendAbs):
				events = append(events, importer.UpdateEvent{
					Channel:   int(ch),
					Beat:      beat,
					Attribute: "bendr",
					Value:     importer.RealValue(float64(bendRel) / 8192.0),
				})

			case msg.GetMetaTempo(&bpm):
				tempos = append(tempos, tempoChange{tick: tick, bpm: bpm})

			case msg.GetMetaMeter(&num, &den):
				seq.Sigs = append(seq.Sigs, importer.TimeSig{
					Beat:        beat,
					Numerator:   int(num),
					Denominator: int(den),
				})

			case msg.GetMetaTrackName(&name):
				events = append(events, importer.UpdateEvent{
					Channel:   -1,
					Beat:      beat,
					Attribute: "tracknames",
					Value:     importer.StringValue(name),
				})
			}
		}

		// Close anything left hanging at end of track.
		endBeat := beatOf(tick)
		for _, pending := range open {
			for _, note := range pending {
				note.Duration = endBeat - note.Start
				events = append(events, note)
			}
		}

		sort.SliceStable(events, func(i, j int) bool {
			return eventBeat(events[i]) < eventBeat(events[j])
		})
		seq.Tracks = append(seq.Tracks, importer.Track{Events: events})
	}

	sort.SliceStable(seq.Sigs, func(i, j int) bool {
		return seq.Sigs[i].Beat < seq.Sigs[j].Beat
	})
	seq.Map = buildTimeMap(tempos, beatOf)
	return seq
}

// buildTimeMap integrates the tempo changes into (beat, seconds) sample
// points. The tempo in effect after the final point is carried as the
// last-tempo override.
func buildTimeMap(tempos []tempoChange, beatOf func(uint32) float64) importer.TimeMap {
	sort.SliceStable(tempos, func(i, j int) bool {
		return tempos[i].tick < tempos[j].tick
	})

	tm := importer.TimeMap{Points: []importer.TimePoint{{Beat: 0, Seconds: 0}}}
	bps := defaultBPS
	lastBeat, lastSec := 0.0, 0.0

	for _, tc := range tempos {
		if tc.bpm <= 0 {
			continue
		}
		beat := beatOf(tc.tick)
		if beat > lastBeat {
			lastSec += (beat - lastBeat) / bps
			lastBeat = beat
			tm.Points = append(tm.Points, importer.TimePoint{Beat: beat, Seconds: lastSec})
		}
		bps = tc.bpm / 60.0
	}

	tm.LastTempo = bps
	tm.HasLastTempo = true
	return tm
}

func eventBeat(e importer.Event) float64 {
	switch e := e.(type) {
	case importer.NoteEvent:
		return e.Start
	case importer.UpdateEvent:
		return e.Beat
	}
	return 0
}
