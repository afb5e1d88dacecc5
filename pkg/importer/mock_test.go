package importer

// Mock ProjectSink implementation recording everything the translator
// writes into it.

type mockParam struct {
	name  string
	value float64
	sets  int
}

func (p *mockParam) DisplayName() string       { return p.name }
func (p *mockParam) SetInitialValue(v float64) { p.value = v; p.sets++ }

type curvePoint struct {
	tick  int
	value float64
}

type mockAutoPattern struct {
	start         int
	target        string
	length        int
	points        []curvePoint
	cleared       bool
	lengthUpdated bool
}

func (p *mockAutoPattern) PutValue(tick int, v float64) {
	p.points = append(p.points, curvePoint{tick, v})
}
func (p *mockAutoPattern) BindParameter(param Parameter) { p.target = param.DisplayName() }
func (p *mockAutoPattern) ChangeLength(ticks int)        { p.length = ticks }
func (p *mockAutoPattern) UpdateLength()                 { p.lengthUpdated = true }
func (p *mockAutoPattern) Clear()                        { p.cleared = true; p.points = nil }

type mockAutoTrack struct {
	name     string
	patterns []*mockAutoPattern
}

func (t *mockAutoTrack) Name() string { return t.name }
func (t *mockAutoTrack) CreatePattern(startTick int) AutomationPattern {
	pat := &mockAutoPattern{start: startTick}
	t.patterns = append(t.patterns, pat)
	return pat
}

type mockNotePattern struct {
	start int
	notes []Note
}

func (p *mockNotePattern) AddNote(n Note) { p.notes = append(p.notes, n) }

type mockInstrument struct {
	bank, patch mockParam
	programs    []int
	loadErr     error
}

func (i *mockInstrument) Bank() Parameter  { return &i.bank }
func (i *mockInstrument) Patch() Parameter { return &i.patch }
func (i *mockInstrument) LoadProgramResource(program int) error {
	i.programs = append(i.programs, program)
	return i.loadErr
}

type mockInstTrack struct {
	name      string
	patterns  []*mockNotePattern
	volume    mockParam
	panning   mockParam
	pitch     mockParam
	pitchRng  mockParam
	inst      *mockInstrument
	soundFont bool // rich profile available
	loadErr   error
}

func newMockInstTrack(name string, soundFont bool) *mockInstTrack {
	return &mockInstTrack{
		name:      name,
		volume:    mockParam{name: "Volume", value: 100},
		panning:   mockParam{name: "Panning"},
		pitch:     mockParam{name: "Pitch"},
		pitchRng:  mockParam{name: "Pitch Range"},
		soundFont: soundFont,
	}
}

func (t *mockInstTrack) Name() string          { return t.name }
func (t *mockInstTrack) SetName(name string)   { t.name = name }
func (t *mockInstTrack) Volume() Parameter     { return &t.volume }
func (t *mockInstTrack) Panning() Parameter    { return &t.panning }
func (t *mockInstTrack) Pitch() Parameter      { return &t.pitch }
func (t *mockInstTrack) PitchRange() Parameter { return &t.pitchRng }

func (t *mockInstTrack) CreatePattern(startTick int) NotePattern {
	pat := &mockNotePattern{start: startTick}
	t.patterns = append(t.patterns, pat)
	return pat
}

func (t *mockInstTrack) LoadInstrument(kind InstrumentKind) (Instrument, bool) {
	if kind == InstrumentSoundFont && !t.soundFont {
		return nil, false
	}
	t.inst = &mockInstrument{
		bank:    mockParam{name: "Bank"},
		patch:   mockParam{name: "Patch"},
		loadErr: t.loadErr,
	}
	return t.inst, true
}

type mockSink struct {
	instruments []*mockInstTrack
	automations []*mockAutoTrack
	tempo       *mockAutoPattern
	meterNum    mockParam
	meterDen    mockParam
	soundFont   bool
	patchErr    error
}

func newMockSink(soundFont bool) *mockSink {
	return &mockSink{
		tempo:     &mockAutoPattern{target: "Tempo"},
		meterNum:  mockParam{name: "Numerator", value: 4},
		meterDen:  mockParam{name: "Denominator", value: 4},
		soundFont: soundFont,
	}
}

func (s *mockSink) CreateInstrumentTrack(name string) InstrumentTrack {
	t := newMockInstTrack(name, s.soundFont)
	t.loadErr = s.patchErr
	s.instruments = append(s.instruments, t)
	return t
}

func (s *mockSink) CreateAutomationTrack(name string) AutomationTrack {
	t := &mockAutoTrack{name: name}
	s.automations = append(s.automations, t)
	return t
}

func (s *mockSink) TempoAutomation() AutomationPattern {
	if s.tempo == nil {
		return nil
	}
	return s.tempo
}

func (s *mockSink) TimeSignatureParams() (Parameter, Parameter) {
	return &s.meterNum, &s.meterDen
}

// automation returns the first automation track with the given name.
func (s *mockSink) automation(name string) *mockAutoTrack {
	for _, t := range s.automations {
		if t.name == name {
			return t
		}
	}
	return nil
}

type mockProgress struct {
	total       int
	advances    int
	cancelAfter int // cancel once this many advances happened; -1 = never
}

func (p *mockProgress) SetTotalSteps(n int) { p.total = n }
func (p *mockProgress) Advance()            { p.advances++ }
func (p *mockProgress) Cancelled() bool {
	return p.cancelAfter >= 0 && p.advances >= p.cancelAfter
}

var (
	_ ProjectSink  = (*mockSink)(nil)
	_ ProgressSink = (*mockProgress)(nil)
)
