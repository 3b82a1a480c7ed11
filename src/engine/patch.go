package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ----- Engine Mode ----- //

// EngineMode selects which engine interprets a patch.
type EngineMode int

const (
	ModeLead EngineMode = iota
	ModeBassline
	ModeDrum
	ModeMulti
)

var engineModeNames = []string{"lead", "bassline", "drum", "multi"}

func (m EngineMode) String() string {
	if m < 0 || int(m) >= len(engineModeNames) {
		return "unknown"
	}
	return engineModeNames[m]
}

// EngineModeFromString ...
func EngineModeFromString(s string) (EngineMode, error) {
	for i, name := range engineModeNames {
		if strings.EqualFold(name, s) {
			return EngineMode(i), nil
		}
	}
	return ModeLead, fmt.Errorf("unknown engine mode %q", s)
}

// MarshalText ...
func (m EngineMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText ...
func (m *EngineMode) UnmarshalText(text []byte) error {
	mode, err := EngineModeFromString(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ----- Waveform Flags ----- //

// Flags of VoiceParams.Waveform.
const (
	WaveTriangle uint8 = 1 << iota
	WaveSaw
	WavePulse
	WaveNoise
	// WaveOff disables the oscillator and holds its gate closed.
	WaveOff
	WaveSync
	WaveRing
)

// ----- Voice Params ----- //

// VoiceParams ...
type VoiceParams struct {
	Waveform       uint8  `json:"waveform"`
	AttackDecay    uint8  `json:"ad"`
	SustainRelease uint8  `json:"sr"`
	PulseWidth     uint16 `json:"pulseWidth"` // 12 bit
	Transpose      int8   `json:"transpose"`  // semitones
	FineTune       int8   `json:"fineTune"`   // 1/256 semitone steps * 2
	PitchRange     uint8  `json:"pitchRange"` // semitones per full pitch bend
	Portamento     uint8  `json:"portamento"`
	ConstantTime   bool   `json:"constantTime"`
	Glissando      bool   `json:"glissando"`
	SusKey         bool   `json:"susKey"`
	DelayedGate    uint8  `json:"delayedGate"`
	OscPhase       uint8  `json:"oscPhase"` // nonzero: one tick oscillator sync before the gate opens
}

// ----- Envelope Params ----- //

// EnvParams describe both envelope variants. The Level/2 fields are only
// used by the two-stage (lead) variant, DecayAccent and the depths only by
// the single-stage variant.
type EnvParams struct {
	Delay        uint8 `json:"delay"`
	Attack       uint8 `json:"attack"`
	AttackLevel  uint8 `json:"attackLevel"`
	Attack2      uint8 `json:"attack2"`
	Decay        uint8 `json:"decay"`
	DecayLevel   uint8 `json:"decayLevel"`
	Decay2       uint8 `json:"decay2"`
	Sustain      uint8 `json:"sustain"`
	Release      uint8 `json:"release"`
	ReleaseLevel uint8 `json:"releaseLevel"`
	Release2     uint8 `json:"release2"`
	DecayAccent  uint8 `json:"decayAccent"`
	AttackCurve  int8  `json:"attackCurve"`
	DecayCurve   int8  `json:"decayCurve"`
	ReleaseCurve int8  `json:"releaseCurve"`
	DepthPitch   int8  `json:"depthPitch"`
	DepthPW      int8  `json:"depthPw"`
	DepthFilter  int8  `json:"depthFilter"`
	Accent       uint8 `json:"accent"` // depth widening of accented notes, 128 = double
}

// ----- LFO Params ----- //

// LfoWave ...
type LfoWave uint8

const (
	LfoSine LfoWave = iota
	LfoTriangle
	LfoSaw
	LfoPulse
	LfoRandom
)

// LfoParams ...
type LfoParams struct {
	Enabled     bool    `json:"enabled"`
	Waveform    LfoWave `json:"waveform"`
	Unipolar    bool    `json:"unipolar"`
	KeySync     bool    `json:"keySync"`
	ClockSync   bool    `json:"clockSync"`
	OneShot     bool    `json:"oneShot"`
	Rate        uint8   `json:"rate"`
	Phase       uint8   `json:"phase"`
	Duty        uint8   `json:"duty"` // pulse duty cycle, 0 = 50%
	Depth       int8    `json:"depth"`
	DepthPitch  int8    `json:"depthPitch"`
	DepthPW     int8    `json:"depthPw"`
	DepthFilter int8    `json:"depthFilter"`
}

// ----- Modulation Params ----- //

// Modulation operators, stored in the low nibble of ModParams.Op.
const (
	ModOpNone = iota
	ModOpSrc1
	ModOpSrc2
	ModOpAdd
	ModOpSub
	ModOpMul
	ModOpXor
	ModOpOr
	ModOpAnd
	ModOpMin
	ModOpMax
	ModOpLess
	ModOpGreater
	ModOpEqual
	ModOpSampleHold
)

// Flags of ModParams.Op.
const (
	ModInvertTarget1 uint8 = 0x40
	ModInvertTarget2 uint8 = 0x80
)

// ModParams is one slot of the modulation matrix. Src1/Src2 select a source
// (1-based, 0 = none) or a constant when the top bit is set. Target1/Target2
// are 1-based destinations. Direct selects the fixed per-side destinations:
// bits 0-7 left (pitch O1-O3, pw O1-O3, filter, volume), bits 8-15 right.
type ModParams struct {
	Src1    uint8  `json:"src1"`
	Src2    uint8  `json:"src2"`
	Op      uint8  `json:"op"`
	Depth   int8   `json:"depth"`
	Target1 uint8  `json:"target1"`
	Target2 uint8  `json:"target2"`
	Direct  uint16 `json:"direct"`
}

// ----- Wavetable Params ----- //

// WTParams ...
type WTParams struct {
	Speed      uint8 `json:"speed"`
	ClockSync  bool  `json:"clockSync"`
	Assign     uint8 `json:"assign"` // parameter id, 0 = none
	SIDMask    uint8 `json:"sidMask"`
	Begin      uint8 `json:"begin"`
	End        uint8 `json:"end"`
	Loop       uint8 `json:"loop"`
	OneShot    bool  `json:"oneShot"`
	KeyControl bool  `json:"keyControl"`
	ModControl bool  `json:"modControl"`
}

// ----- Arpeggiator Params ----- //

// ArpDir ...
type ArpDir uint8

const (
	ArpUp ArpDir = iota
	ArpDown
	ArpAltUp
	ArpAltDown
	ArpRandom
)

// ArpParams ...
type ArpParams struct {
	Enabled    bool   `json:"enabled"`
	Dir        ArpDir `json:"dir"`
	Hold       bool   `json:"hold"`
	Sorted     bool   `json:"sorted"`
	Sync       bool   `json:"sync"`
	OneShot    bool   `json:"oneShot"`
	CAC        bool   `json:"cac"` // divider accelerated by the number of held notes
	Speed      uint8  `json:"speed"`
	GateLength uint8  `json:"gateLength"`
	Range      uint8  `json:"range"` // additional octaves
}

// ----- Filter Params ----- //

// Filter mode flags.
const (
	FilterLP   uint8 = 0x01
	FilterBP   uint8 = 0x02
	FilterHP   uint8 = 0x04
	Filter3Off uint8 = 0x08
)

// FilterParams ...
type FilterParams struct {
	Cutoff    uint16 `json:"cutoff"`    // 12 bit
	Resonance uint8  `json:"resonance"` // top 4 bits used
	Channels  uint8  `json:"channels"`  // bits 0-2 voices, bit 3 external input
	Mode      uint8  `json:"mode"`
	KeyTrack  uint8  `json:"keyTrack"`
}

// Calibration maps the 12-bit cutoff onto the usable range of a chip.
type Calibration struct {
	Min uint16 `json:"min"`
	Max uint16 `json:"max"`
}

// Options ...
type Options struct {
	ADSRBugWorkaround bool           `json:"adsrBugWorkaround"`
	Calibration       [2]Calibration `json:"calibration"`
}

// ----- Sequencer Params ----- //

// SeqParams ...
type SeqParams struct {
	Enabled       bool  `json:"enabled"`
	Speed         uint8 `json:"speed"` // clocks per sub-phase - 1
	Length        uint8 `json:"length"`
	Pattern       uint8 `json:"pattern"`
	SyncToMeasure bool  `json:"syncToMeasure"`
	ParamAssign   uint8 `json:"paramAssign"`
	BaseNote      uint8 `json:"baseNote"`
}

// ----- Voice Assignment ----- //

// AssignPolicy ...
type AssignPolicy uint8

const (
	AssignAll AssignPolicy = iota
	AssignLeft
	AssignRight
	AssignDirect
)

// ----- Engine Patches ----- //

// Lead trigger sources, index into LeadPatch.Triggers.
const (
	TrigNoteOn = iota
	TrigNoteOff
	TrigEnv1Sustain
	TrigEnv2Sustain
	TrigLfo1
	TrigLfo2
	TrigLfo3
	TrigLfo4
	TrigLfo5
	TrigLfo6
	TrigClock
	TrigClock6
	TrigClock24
	TrigMidiStart
	numTriggerSources
)

// Lead trigger targets, bits of a trigger mask.
const (
	TrigTargetGateO1L uint32 = 1 << iota
	TrigTargetGateO2L
	TrigTargetGateO3L
	TrigTargetGateO1R
	TrigTargetGateO2R
	TrigTargetGateO3R
	TrigTargetEnv1Attack
	TrigTargetEnv2Attack
	TrigTargetEnv1Release
	TrigTargetEnv2Release
	TrigTargetLfo1
	TrigTargetLfo2
	TrigTargetLfo3
	TrigTargetLfo4
	TrigTargetLfo5
	TrigTargetLfo6
	TrigTargetWt1Reset
	TrigTargetWt2Reset
	TrigTargetWt3Reset
	TrigTargetWt4Reset
	TrigTargetWt1Step
	TrigTargetWt2Step
	TrigTargetWt3Step
	TrigTargetWt4Step
)

// TrigTargetGates ...
const TrigTargetGates = TrigTargetGateO1L | TrigTargetGateO2L | TrigTargetGateO3L |
	TrigTargetGateO1R | TrigTargetGateO2R | TrigTargetGateO3R

// LeadPatch ...
type LeadPatch struct {
	Voices   [numVoices]VoiceParams    `json:"voices"`
	Envs     [numEnvs]EnvParams        `json:"envs"`
	Lfos     [numLfos]LfoParams        `json:"lfos"`
	Mods     [numModSlots]ModParams    `json:"mods"`
	Wts      [numWts]WTParams          `json:"wts"`
	Triggers [numTriggerSources]uint32 `json:"triggers"`
	Arp      ArpParams                 `json:"arp"`
	Detune   uint8                     `json:"detune"`
	Legato   bool                      `json:"legato"`
}

// SlaveMode selects how bassline oscillators 2 and 3 follow oscillator 1.
type SlaveMode uint8

const (
	SlaveOff SlaveMode = iota
	SlaveTranspose
	SlaveOctave
	SlaveFixed
	SlaveWriteThrough
)

// SlaveOsc ...
type SlaveOsc struct {
	Mode       SlaveMode `json:"mode"`
	Value      int8      `json:"value"`
	Waveform   uint8     `json:"waveform"`
	PulseWidth uint16    `json:"pulseWidth"`
}

// BasslinePattern is 16 packed steps, see Step.
type BasslinePattern [2 * seqSteps]byte

// BasslineInstrument ...
type BasslineInstrument struct {
	Voice    VoiceParams                  `json:"voice"`
	Slaves   [2]SlaveOsc                  `json:"slaves"`
	Env      EnvParams                    `json:"env"`
	Lfos     [2]LfoParams                 `json:"lfos"`
	Wt       WTParams                     `json:"wt"`
	Arp      ArpParams                    `json:"arp"`
	Seq      SeqParams                    `json:"seq"`
	Patterns [numPatterns]BasslinePattern `json:"patterns"`
}

// BasslinePatch ...
type BasslinePatch struct {
	Instruments [numSIDs]BasslineInstrument `json:"instruments"`
}

// DrumPattern is 8 tracks of 16 packed steps, see Step.
type DrumPattern [numDrumTracks][4]byte

// DrumInstrument ...
type DrumInstrument struct {
	Model          uint8        `json:"model"`
	Assign         AssignPolicy `json:"assign"`
	Voice          uint8        `json:"voice"` // for AssignDirect
	Tune           int8         `json:"tune"`
	GateLength     uint8        `json:"gateLength"`
	Velocity       uint8        `json:"velocity"`
	AccentVelocity uint8        `json:"accentVelocity"`
	Speed          uint8        `json:"speed"`
}

// DrumPatch ...
type DrumPatch struct {
	Instruments [numDrumInstruments]DrumInstrument `json:"instruments"`
	Seq         SeqParams                          `json:"seq"`
	Patterns    [numPatterns]DrumPattern           `json:"patterns"`
	BaseNote    uint8                              `json:"baseNote"` // MIDI note of instrument 1
}

// MultiInstrument ...
type MultiInstrument struct {
	Voice  VoiceParams  `json:"voice"`
	Env    EnvParams    `json:"env"`
	Lfos   [2]LfoParams `json:"lfos"`
	Wt     WTParams     `json:"wt"`
	Arp    ArpParams    `json:"arp"`
	Assign AssignPolicy `json:"assign"`
	Direct uint8        `json:"direct"`
}

// MultiPatch ...
type MultiPatch struct {
	Instruments [numMidiVoices]MultiInstrument `json:"instruments"`
}

// ----- Patch ----- //

// Patch is the static parameter set of a sound. The engine only reads it.
type Patch struct {
	Name      string                `json:"name"`
	Mode      EngineMode            `json:"mode"`
	Volume    uint8                 `json:"volume"` // 0..127
	Transpose int8                  `json:"transpose"`
	Options   Options               `json:"options"`
	Filters   [numSIDs]FilterParams `json:"filters"`
	WTData    [wtDataSize]byte      `json:"wtData"`
	Lead      LeadPatch             `json:"lead"`
	Bassline  BasslinePatch         `json:"bassline"`
	Drum      DrumPatch             `json:"drum"`
	Multi     MultiPatch            `json:"multi"`
}

// NewPatch returns an init patch for the given mode.
func NewPatch(mode EngineMode) *Patch {
	p := &Patch{
		Name:   "Init",
		Mode:   mode,
		Volume: 127,
		Options: Options{
			Calibration: [2]Calibration{{Min: 0, Max: 0xfff}, {Min: 0, Max: 0xfff}},
		},
	}
	for i := range p.Filters {
		p.Filters[i] = FilterParams{Cutoff: 0x800, Channels: 0x07, Mode: FilterLP}
	}
	initVoice := VoiceParams{
		Waveform:       WaveSaw,
		AttackDecay:    0x00,
		SustainRelease: 0xf0,
		PulseWidth:     0x800,
		PitchRange:     2,
	}
	initEnv := EnvParams{
		AttackLevel:  0xff,
		DecayLevel:   0xff,
		Sustain:      0x80,
		Attack:       20,
		Decay:        60,
		Release:      60,
		DecayAccent:  30,
		ReleaseLevel: 0,
	}
	for i := range p.Lead.Voices {
		p.Lead.Voices[i] = initVoice
	}
	for i := range p.Lead.Envs {
		p.Lead.Envs[i] = initEnv
	}
	for i := range p.Lead.Lfos {
		p.Lead.Lfos[i] = LfoParams{Rate: 100, Depth: 127}
	}
	p.Lead.Triggers[TrigNoteOn] = TrigTargetGates | TrigTargetEnv1Attack | TrigTargetEnv2Attack |
		TrigTargetWt1Reset | TrigTargetWt2Reset | TrigTargetWt3Reset | TrigTargetWt4Reset
	p.Lead.Triggers[TrigNoteOff] = TrigTargetEnv1Release | TrigTargetEnv2Release
	p.Lead.Arp.Speed = 5
	p.Lead.Arp.GateLength = 3
	for i := range p.Bassline.Instruments {
		ins := &p.Bassline.Instruments[i]
		ins.Voice = initVoice
		ins.Voice.Portamento = 40
		ins.Env = initEnv
		ins.Env.DepthFilter = 64
		ins.Arp.Speed = 5
		ins.Arp.GateLength = 3
		ins.Seq = SeqParams{Length: seqSteps, BaseNote: 36}
		ins.Slaves[0].Mode = SlaveOff
		ins.Slaves[1].Mode = SlaveOff
	}
	for i := range p.Multi.Instruments {
		ins := &p.Multi.Instruments[i]
		ins.Voice = initVoice
		ins.Env = initEnv
		ins.Arp.Speed = 5
		ins.Arp.GateLength = 3
	}
	for i := range p.Drum.Instruments {
		p.Drum.Instruments[i] = DrumInstrument{
			Model:          uint8(i % len(DefaultDrumModels)),
			Velocity:       80,
			AccentVelocity: 127,
		}
	}
	p.Drum.Seq = SeqParams{Length: seqSteps}
	p.Drum.BaseNote = 36
	return p
}

// Clone ...
func (p *Patch) Clone() *Patch {
	c := *p
	return &c
}

// ApplyJSON ...
func (p *Patch) ApplyJSON(data []byte) error {
	return json.Unmarshal(data, p)
}

// ToJSON ...
func (p *Patch) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
