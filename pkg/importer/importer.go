package importer

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the progress sink reports cancellation
// at a track boundary. Project state built so far is the caller's to
// keep or discard.
var ErrCancelled = errors.New("import cancelled")

// WarningCode classifies a non-fatal import diagnostic.
type WarningCode string

const (
	WarnBadChannel      WarningCode = "bad-channel"
	WarnDegenerateTempo WarningCode = "degenerate-tempo"
	WarnUnhandledGlobal WarningCode = "unhandled-global"
	WarnUnhandledUpdate WarningCode = "unhandled-update"
	WarnMissingPatch    WarningCode = "missing-patch"
	WarnNoSoundFont     WarningCode = "no-soundfont"
	WarnEmptyTrack      WarningCode = "empty-track"
)

// Warning is a diagnostic accumulated during a best-effort import.
type Warning struct {
	Code   WarningCode `json:"code"`
	Detail string      `json:"detail"`
}

// Result summarizes one import run.
type Result struct {
	InstrumentTracks int       `json:"instrumentTracks"`
	AutomationTracks int       `json:"automationTracks"`
	Notes            int       `json:"notes"`
	EmptyChannels    []int     `json:"emptyChannels,omitempty"`
	Warnings         []Warning `json:"warnings,omitempty"`
}

// Translator drives a full sequence import into a project sink.
type Translator struct {
	sink ProjectSink
	tb   Timebase
}

// New creates a Translator writing into sink at the default timebase.
func New(sink ProjectSink) *Translator {
	return &Translator{sink: sink, tb: DefaultTimebase()}
}

// NewWithTimebase creates a Translator with an explicit tick resolution.
func NewWithTimebase(sink ProjectSink, tb Timebase) *Translator {
	return &Translator{sink: sink, tb: tb}
}

// Translate is a convenience wrapper running a one-shot import.
func Translate(src SequenceSource, sink ProjectSink, progress ProgressSink) (*Result, error) {
	return New(sink).Translate(src, progress)
}

// preTrackSteps are the progress checkpoints before per-track processing:
// the tempo curve and the time-signature curves.
const preTrackSteps = 2

// run holds the state of a single import. Every Translate call starts
// from a fresh run, so Translators are reusable across sequences.
type run struct {
	sink     ProjectSink
	tb       Timebase
	res      *Result
	channels [256]channelState
	ccs      [129]ccState

	warnedNoSoundFont bool
}

// Translate imports the whole sequence. It fails only on cancellation;
// everything else is a best-effort partial import with accumulated
// warnings in the Result.
func (t *Translator) Translate(src SequenceSource, progress ProgressSink) (*Result, error) {
	if progress == nil {
		progress = NopProgress{}
	}
	r := &run{sink: t.sink, tb: t.tb, res: &Result{}}

	numTracks := src.NumTracks()
	progress.SetTotalSteps(preTrackSteps + numTracks)

	r.buildTempoCurve(src.TimeMap())
	progress.Advance()
	r.buildTimeSigCurves(src.TimeSignatures())
	progress.Advance()

	for i := 0; i < numTracks; i++ {
		if progress.Cancelled() {
			return r.res, ErrCancelled
		}
		r.translateTrack(src.Track(i), i)
		progress.Advance()
	}

	r.finish()
	return r.res, nil
}

// translateTrack consumes one sequence track's events in order.
// Controller slots are track-scoped and reset here; channel slots
// persist across tracks.
func (r *run) translateTrack(track Track, index int) {
	for i := range r.ccs {
		r.ccs[i].clear()
	}
	trackName := fmt.Sprintf("Track %d", index)

	for _, ev := range track.Events {
		switch ev := ev.(type) {
		case NoteEvent:
			c, ok := r.routeChannel(ev.Channel, trackName)
			if !ok {
				continue
			}
			c.addNote(r, ev)

		case UpdateEvent:
			if ev.Channel == -1 {
				if ev.Attribute == "tracknames" && ev.Value.Kind == ValueString {
					trackName = ev.Value.Str
					continue
				}
				r.warnf(WarnUnhandledGlobal,
					"track %d: unhandled global update %q at beat %g",
					index, ev.Attribute, ev.Beat)
				continue
			}
			c, ok := r.routeChannel(ev.Channel, trackName)
			if !ok {
				continue
			}
			if !r.routeUpdate(c, trackName, ev) {
				r.warnf(WarnUnhandledUpdate,
					"channel %d: unhandled update %q at beat %g",
					ev.Channel, ev.Attribute, ev.Beat)
			}
		}
	}
}

// routeChannel returns the channel's slot, creating its instrument track
// on first reference. Idempotent: a second call for the same channel
// returns the existing slot unchanged.
func (r *run) routeChannel(channel int, trackName string) (*channelState, bool) {
	if channel < 0 || channel >= len(r.channels) {
		r.warnf(WarnBadChannel, "channel %d out of range, event skipped", channel)
		return nil, false
	}
	c := &r.channels[channel]
	if c.track == nil {
		c.create(r, trackName)
	}
	return c, true
}

// finish runs the post-pass: pattern segmentation per sounding channel,
// empty-track flagging, and the General MIDI percussion rule.
func (r *run) finish() {
	for i := range r.channels {
		c := &r.channels[i]
		if c.hasNotes {
			c.splitPattern(r)
		} else if c.track != nil {
			r.res.EmptyChannels = append(r.res.EmptyChannels, i)
			r.warnf(WarnEmptyTrack, "channel %d track %q has no notes", i, c.track.Name())
		}
	}

	// Channel 10 (index 9) is percussion; bank 128 is the standard
	// soundfont drum bank.
	drums := &r.channels[9]
	if drums.hasNotes && drums.rich && drums.inst != nil {
		drums.inst.Bank().SetInitialValue(128)
		drums.inst.Patch().SetInitialValue(0)
	}
}

func (r *run) createInstrumentTrack(name string) InstrumentTrack {
	r.res.InstrumentTracks++
	return r.sink.CreateInstrumentTrack(name)
}

func (r *run) createAutomationTrack(name string) AutomationTrack {
	r.res.AutomationTracks++
	return r.sink.CreateAutomationTrack(name)
}
