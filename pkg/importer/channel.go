package importer

import (
	"sort"
	"strconv"
	"strings"
)

// channelState is the per-MIDI-channel import state. The channel's notes
// accumulate in a working buffer; splitPattern materializes host patterns
// from it once the channel's events are consumed.
type channelState struct {
	track InstrumentTrack
	inst  Instrument
	rich  bool

	notes    []Note
	hasNotes bool
}

// create makes the channel's instrument track, loading the rich
// soundfont profile when available and falling back to the single-patch
// profile otherwise. The profile choice gates program-change handling.
func (c *channelState) create(r *run, name string) {
	c.track = r.createInstrumentTrack(name)

	if inst, ok := c.track.LoadInstrument(InstrumentSoundFont); ok {
		c.inst = inst
		c.rich = true
		inst.Bank().SetInitialValue(0)
		inst.Patch().SetInitialValue(0)
	} else {
		if !r.warnedNoSoundFont {
			r.warnedNoSoundFont = true
			r.warnf(WarnNoSoundFont,
				"no default soundfont configured; imported tracks use the fallback patch instrument")
		}
		c.inst, _ = c.track.LoadInstrument(InstrumentPatch)
	}

	// General MIDI default pitch-bend range.
	c.track.PitchRange().SetInitialValue(2)
}

// addNote converts a generic note event into a project note and appends
// it to the working buffer. Volume rescales MIDI loudness (0-127) to the
// project's 0-200 range; keys shift down one octave to match project
// pitch numbering.
func (c *channelState) addNote(r *run, ev NoteEvent) {
	length := r.tb.Ticks(ev.Duration)
	if length < 1 {
		length = 1
	}
	c.notes = append(c.notes, Note{
		Pos:    r.tb.Ticks(ev.Start),
		Len:    length,
		Key:    clamp7bit(ev.Pitch) - 12,
		Volume: float64(clamp7bit(ev.Loudness)) * (200.0 / 127.0),
	})
	c.hasNotes = true
	r.res.Notes++
}

// splitPattern splits the accumulated notes into bar-aligned host
// patterns, starting a new pattern whenever the gap to the previous
// note's end exceeds one bar.
func (c *channelState) splitPattern(r *run) {
	sort.SliceStable(c.notes, func(i, j int) bool {
		return c.notes[i].Pos < c.notes[j].Pos
	})

	var pat NotePattern
	patStart := 0
	lastEnd := 0
	for _, n := range c.notes {
		if pat == nil || n.Pos > lastEnd+r.tb.TicksPerBar {
			patStart = r.tb.BarStart(n.Pos)
			pat = c.track.CreatePattern(patStart)
		}
		lastEnd = n.Pos + n.Len

		n.Pos -= patStart
		pat.AddNote(n)
	}
	c.notes = nil
}

// ccState is one of the 129 per-track controller slots (128 controllers
// plus pitch bend). Slots are reset at the start of every sequence track.
type ccState struct {
	track    AutomationTrack
	pattern  AutomationPattern
	patStart int
	lastPos  int
}

func (cc *ccState) clear() {
	cc.track = nil
	cc.pattern = nil
	cc.patStart = 0
	cc.lastPos = 0
}

// putValue writes one automation point, opening a new bar-aligned
// pattern when none exists or the last point was more than a bar ago.
func (cc *ccState) putValue(r *run, param Parameter, tick int, val float64) {
	if cc.pattern == nil || tick > cc.lastPos+r.tb.TicksPerBar {
		cc.patStart = r.tb.BarStart(tick)
		cc.pattern = cc.track.CreatePattern(cc.patStart)
		cc.pattern.BindParameter(param)
	}
	cc.lastPos = tick

	rel := tick - cc.patStart
	cc.pattern.PutValue(rel, val)
	cc.pattern.ChangeLength(r.tb.BarStart(rel) + r.tb.TicksPerBar)
}

// pitch-bend occupies the slot past the 128 controllers.
const bendSlot = 128

// routeUpdate dispatches a channel-scoped update to its target parameter.
// Returns false when the attribute is not recognized; the caller reports
// those.
func (r *run) routeUpdate(c *channelState, trackName string, ev UpdateEvent) bool {
	tick := r.tb.Ticks(ev.Beat)

	if ev.Attribute == "program" {
		prog := int(ev.Value.Int)
		if c.rich {
			// Program change selects the soundfont patch.
			c.inst.Bank().SetInitialValue(0)
			c.inst.Patch().SetInitialValue(float64(prog))
		} else if c.inst != nil {
			if err := c.inst.LoadProgramResource(prog); err != nil {
				r.warnf(WarnMissingPatch,
					"program %d on channel %d: %v", prog, ev.Channel, err)
			}
		}
		return true
	}

	ccID := -1
	switch {
	case ev.Attribute == "bendr":
		ccID = bendSlot
	case strings.HasPrefix(ev.Attribute, "control"):
		n, err := strconv.Atoi(strings.TrimPrefix(ev.Attribute, "control"))
		if err != nil || n < 0 || n > 127 {
			return false
		}
		ccID = n
	default:
		return false
	}

	val := ev.Value.Real
	var param Parameter
	switch ccID {
	case 0:
		if c.rich && c.inst != nil {
			param = c.inst.Bank()
			val *= 127
		}
	case 7:
		param = c.track.Volume()
		val *= 100
	case 10:
		param = c.track.Panning()
		val = 200*val - 100
	case bendSlot:
		param = c.track.Pitch()
		val *= 100
	default:
		return false
	}
	if param == nil {
		return true
	}

	if tick == 0 {
		// A time-zero update is static configuration, not automation.
		param.SetInitialValue(val)
		return true
	}

	cc := &r.ccs[ccID]
	if cc.track == nil {
		cc.track = r.createAutomationTrack(trackName + " > " + param.DisplayName())
	}
	cc.putValue(r, param, tick, val)
	return true
}

func clamp7bit(v int) int {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return v
}
