// Package importer translates a parsed MIDI sequence into a music project:
// instrument tracks with note patterns, automation tracks with parameter
// curves, and global tempo/time-signature curves.
package importer

// Event is a single timestamped event in a generic sequence track.
// It is either a NoteEvent or an UpdateEvent.
type Event interface {
	event()
}

// NoteEvent is a sounding note addressed to a MIDI channel.
type NoteEvent struct {
	Channel  int     // 0-255
	Start    float64 // beats
	Duration float64 // beats
	Pitch    int     // 0-127
	Loudness int     // 0-127
}

// UpdateEvent is a named attribute change, either channel-scoped
// (controller, program, pitch bend) or track-scoped (Channel == -1).
type UpdateEvent struct {
	Channel   int // -1 = track-scoped
	Beat      float64
	Attribute string
	Value     Value
}

func (NoteEvent) event()   {}
func (UpdateEvent) event() {}

// ValueKind discriminates the payload carried by a Value.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueReal
	ValueString
	ValueAtom
)

// Value is the tagged payload of an UpdateEvent.
type Value struct {
	Kind ValueKind
	Int  int64
	Real float64
	Str  string
}

// IntValue wraps an integer payload.
func IntValue(v int64) Value { return Value{Kind: ValueInt, Int: v} }

// RealValue wraps a real payload.
func RealValue(v float64) Value { return Value{Kind: ValueReal, Real: v} }

// StringValue wraps a string payload.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// AtomValue wraps a symbolic payload.
func AtomValue(s string) Value { return Value{Kind: ValueAtom, Str: s} }

// Track is one ordered event stream of a generic sequence.
type Track struct {
	Events []Event
}

// TimePoint is one (beat, seconds) sample of a sequence time map.
type TimePoint struct {
	Beat    float64
	Seconds float64
}

// TimeMap relates beat positions to wall-clock time. LastTempo, when
// flagged, is the tempo in beats per second that holds after the final
// sample point.
type TimeMap struct {
	Points       []TimePoint
	LastTempo    float64
	HasLastTempo bool
}

// TimeSig is one time-signature change record.
type TimeSig struct {
	Beat        float64
	Numerator   int
	Denominator int
}

// SequenceSource is the parsed sequence the importer consumes. It is
// produced by an external format parser such as package smfseq.
type SequenceSource interface {
	NumTracks() int
	Track(i int) Track
	TimeMap() TimeMap
	TimeSignatures() []TimeSig
}

// Sequence is a plain in-memory SequenceSource.
type Sequence struct {
	Tracks []Track
	Map    TimeMap
	Sigs   []TimeSig
}

func (s *Sequence) NumTracks() int            { return len(s.Tracks) }
func (s *Sequence) Track(i int) Track         { return s.Tracks[i] }
func (s *Sequence) TimeMap() TimeMap          { return s.Map }
func (s *Sequence) TimeSignatures() []TimeSig { return s.Sigs }

// Note is a project note in tick units.
type Note struct {
	Pos    int     `json:"pos"`
	Len    int     `json:"len"`
	Key    int     `json:"key"`
	Volume float64 `json:"volume"` // 0-200
}

// InstrumentKind selects the instrument profile loaded on a new track.
type InstrumentKind int

const (
	// InstrumentSoundFont is the rich, multi-bank/patch capable profile.
	InstrumentSoundFont InstrumentKind = iota
	// InstrumentPatch is the fallback single-patch profile.
	InstrumentPatch
)

// Parameter is an automatable setting of a track or instrument.
type Parameter interface {
	DisplayName() string
	SetInitialValue(v float64)
}

// Instrument is the instrument loaded on an instrument track.
type Instrument interface {
	Bank() Parameter
	Patch() Parameter
	// LoadProgramResource loads an external patch resource for the given
	// program number. Used by the fallback profile only; a missing
	// resource is reported, never fatal.
	LoadProgramResource(program int) error
}

// NotePattern is a bounded container of notes on an instrument track.
type NotePattern interface {
	AddNote(n Note)
}

// AutomationPattern is a bounded container of (tick, value) curve points.
// Ticks passed to PutValue are relative to the pattern's start position.
type AutomationPattern interface {
	PutValue(tick int, v float64)
	BindParameter(p Parameter)
	ChangeLength(ticks int)
	UpdateLength()
	Clear()
}

// InstrumentTrack is a host track holding note patterns and an instrument.
type InstrumentTrack interface {
	Name() string
	SetName(name string)
	CreatePattern(startTick int) NotePattern
	Volume() Parameter
	Panning() Parameter
	Pitch() Parameter
	PitchRange() Parameter
	// LoadInstrument loads an instrument profile; ok is false when the
	// host has no instrument of that kind available.
	LoadInstrument(kind InstrumentKind) (inst Instrument, ok bool)
}

// AutomationTrack is a host track holding automation patterns.
type AutomationTrack interface {
	Name() string
	CreatePattern(startTick int) AutomationPattern
}

// ProjectSink is the host project the importer writes into.
type ProjectSink interface {
	CreateInstrumentTrack(name string) InstrumentTrack
	CreateAutomationTrack(name string) AutomationTrack
	// TempoAutomation returns the project's global tempo curve, or nil
	// if the host has none. The importer clears it before writing.
	TempoAutomation() AutomationPattern
	// TimeSignatureParams resolves the global meter parameters the
	// time-signature curves are bound to.
	TimeSignatureParams() (num, den Parameter)
}

// ProgressSink receives per-track import checkpoints. Cancelled is
// checked only at track boundaries.
type ProgressSink interface {
	SetTotalSteps(n int)
	Advance()
	Cancelled() bool
}

// NopProgress is a ProgressSink that discards checkpoints.
type NopProgress struct{}

func (NopProgress) SetTotalSteps(int) {}
func (NopProgress) Advance()          {}
func (NopProgress) Cancelled() bool   { return false }
