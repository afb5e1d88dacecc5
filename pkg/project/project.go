// Package project is an in-memory music project implementing the
// importer's ProjectSink. It is the default host for the CLI, TUI and
// API layers and serializes to JSON.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/james-see/midi2song/pkg/importer"
)

// Options configures instrument resources of a new project.
type Options struct {
	// SoundFontPath is the default soundfont. When empty, the rich
	// instrument profile is unavailable and tracks fall back to the
	// patch instrument.
	SoundFontPath string
	// PatchDir is searched for "NNN*.pat" resources on fallback
	// program changes.
	PatchDir string
}

// Project is the root of the in-memory model.
type Project struct {
	Instruments []*InstrumentTrack `json:"instrumentTracks"`
	Automations []*AutomationTrack `json:"automationTracks"`
	Tempo       *AutomationPattern `json:"tempo"`
	MeterNum    *Parameter         `json:"meterNumerator"`
	MeterDen    *Parameter         `json:"meterDenominator"`

	opts Options
}

// New creates an empty project.
func New(opts Options) *Project {
	return &Project{
		Tempo:    &AutomationPattern{Target: "Tempo", Length: 1},
		MeterNum: &Parameter{ParamName: "Numerator", Value: 4},
		MeterDen: &Parameter{ParamName: "Denominator", Value: 4},
		opts:     opts,
	}
}

func (p *Project) CreateInstrumentTrack(name string) importer.InstrumentTrack {
	t := &InstrumentTrack{
		TrackName:       name,
		VolumeParam:     &Parameter{ParamName: "Volume", Value: 100},
		PanningParam:    &Parameter{ParamName: "Panning"},
		PitchParam:      &Parameter{ParamName: "Pitch"},
		PitchRangeParam: &Parameter{ParamName: "Pitch Range", Value: 1},
		proj:            p,
	}
	p.Instruments = append(p.Instruments, t)
	return t
}

func (p *Project) CreateAutomationTrack(name string) importer.AutomationTrack {
	t := &AutomationTrack{TrackName: name}
	p.Automations = append(p.Automations, t)
	return t
}

func (p *Project) TempoAutomation() importer.AutomationPattern {
	return p.Tempo
}

func (p *Project) TimeSignatureParams() (num, den importer.Parameter) {
	return p.MeterNum, p.MeterDen
}

// Parameter is an automatable setting holding its initial value.
type Parameter struct {
	ParamName string  `json:"name"`
	Value     float64 `json:"value"`
}

func (p *Parameter) DisplayName() string       { return p.ParamName }
func (p *Parameter) SetInitialValue(v float64) { p.Value = v }

// InstrumentTrack holds note patterns and the loaded instrument.
type InstrumentTrack struct {
	TrackName       string         `json:"name"`
	Patterns        []*NotePattern `json:"patterns"`
	VolumeParam     *Parameter     `json:"volume"`
	PanningParam    *Parameter     `json:"panning"`
	PitchParam      *Parameter     `json:"pitch"`
	PitchRangeParam *Parameter     `json:"pitchRange"`
	Inst            *Instrument    `json:"instrument,omitempty"`

	proj *Project
}

func (t *InstrumentTrack) Name() string                   { return t.TrackName }
func (t *InstrumentTrack) SetName(name string)            { t.TrackName = name }
func (t *InstrumentTrack) Volume() importer.Parameter     { return t.VolumeParam }
func (t *InstrumentTrack) Panning() importer.Parameter    { return t.PanningParam }
func (t *InstrumentTrack) Pitch() importer.Parameter      { return t.PitchParam }
func (t *InstrumentTrack) PitchRange() importer.Parameter { return t.PitchRangeParam }

func (t *InstrumentTrack) CreatePattern(startTick int) importer.NotePattern {
	pat := &NotePattern{Start: startTick}
	t.Patterns = append(t.Patterns, pat)
	return pat
}

func (t *InstrumentTrack) LoadInstrument(kind importer.InstrumentKind) (importer.Instrument, bool) {
	switch kind {
	case importer.InstrumentSoundFont:
		if t.proj.opts.SoundFontPath == "" {
			return nil, false
		}
		t.Inst = &Instrument{
			Profile:    "soundfont",
			Resource:   t.proj.opts.SoundFontPath,
			BankParam:  &Parameter{ParamName: "Bank"},
			PatchParam: &Parameter{ParamName: "Patch"},
		}
		return t.Inst, true
	case importer.InstrumentPatch:
		t.Inst = &Instrument{
			Profile:    "patch",
			BankParam:  &Parameter{ParamName: "Bank"},
			PatchParam: &Parameter{ParamName: "Patch"},
			patchDir:   t.proj.opts.PatchDir,
		}
		return t.Inst, true
	}
	return nil, false
}

// Instrument is the instrument configuration of a track.
type Instrument struct {
	Profile    string     `json:"profile"`
	Resource   string     `json:"resource,omitempty"`
	BankParam  *Parameter `json:"bank"`
	PatchParam *Parameter `json:"patch"`

	patchDir string
}

func (i *Instrument) Bank() importer.Parameter  { return i.BankParam }
func (i *Instrument) Patch() importer.Parameter { return i.PatchParam }

// LoadProgramResource points the instrument at the first patch file
// matching the General MIDI program number.
func (i *Instrument) LoadProgramResource(program int) error {
	if i.patchDir == "" {
		return fmt.Errorf("no patch directory configured")
	}
	matches, err := filepath.Glob(filepath.Join(i.patchDir, fmt.Sprintf("%03d*.pat", program)))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no patch resource for program %d in %s", program, i.patchDir)
	}
	i.Resource = matches[0]
	return nil
}

// NotePattern is a positioned container of notes.
type NotePattern struct {
	Start int             `json:"start"`
	Notes []importer.Note `json:"notes"`
}

func (p *NotePattern) AddNote(n importer.Note) {
	p.Notes = append(p.Notes, n)
}

// AutomationTrack holds automation patterns.
type AutomationTrack struct {
	TrackName string               `json:"name"`
	Patterns  []*AutomationPattern `json:"patterns"`
}

func (t *AutomationTrack) Name() string { return t.TrackName }

func (t *AutomationTrack) CreatePattern(startTick int) importer.AutomationPattern {
	pat := &AutomationPattern{Start: startTick, Length: 1}
	t.Patterns = append(t.Patterns, pat)
	return pat
}

// CurvePoint is one automation value, at a tick relative to the
// pattern's start.
type CurvePoint struct {
	Tick  int     `json:"tick"`
	Value float64 `json:"value"`
}

// AutomationPattern is a positioned container of curve points.
type AutomationPattern struct {
	Start  int          `json:"start"`
	Target string       `json:"target,omitempty"`
	Length int          `json:"length"`
	Points []CurvePoint `json:"points"`
}

// PutValue records a value at the given tick, replacing an existing
// point at the same position.
func (p *AutomationPattern) PutValue(tick int, v float64) {
	for i := range p.Points {
		if p.Points[i].Tick == tick {
			p.Points[i].Value = v
			return
		}
	}
	p.Points = append(p.Points, CurvePoint{Tick: tick, Value: v})
}

func (p *AutomationPattern) BindParameter(param importer.Parameter) {
	p.Target = param.DisplayName()
}

func (p *AutomationPattern) ChangeLength(ticks int) {
	p.Length = ticks
}

// UpdateLength grows the pattern to cover its points; without it a
// pattern stays at the minimal one-unit length.
func (p *AutomationPattern) UpdateLength() {
	length := 1
	for _, pt := range p.Points {
		if pt.Tick+1 > length {
			length = pt.Tick + 1
		}
	}
	p.Length = length
}

func (p *AutomationPattern) Clear() {
	p.Points = nil
	p.Length = 1
}

var (
	_ importer.ProjectSink       = (*Project)(nil)
	_ importer.InstrumentTrack   = (*InstrumentTrack)(nil)
	_ importer.AutomationTrack   = (*AutomationTrack)(nil)
	_ importer.AutomationPattern = (*AutomationPattern)(nil)
	_ importer.NotePattern       = (*NotePattern)(nil)
	_ importer.Instrument        = (*Instrument)(nil)
	_ importer.Parameter         = (*Parameter)(nil)
)
