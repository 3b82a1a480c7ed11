package engine

import "log"

// ----- Arena Sizes ----- //

const (
	maxEnvs = numMidiVoices
	maxLfos = 2 * numMidiVoices
	maxWts  = numMidiVoices
)

// accentThreshold is the velocity from which a note is accented.
const accentThreshold = 64

// Controller ...
type Controller int

const (
	ControllerModWheel Controller = iota
	ControllerAftertouch
)

// modeEngine is the per-mode wiring of the shared component arenas.
type modeEngine interface {
	init(e *Engine)
	noteOn(e *Engine, ch int, note uint8, velocity uint8)
	noteOff(e *Engine, ch int, note uint8)
	tick(e *Engine, clk ClockEvent)
}

var modeEngines = [...]func() modeEngine{
	ModeLead:     func() modeEngine { return &leadEngine{} },
	ModeBassline: func() modeEngine { return &basslineEngine{} },
	ModeDrum:     func() modeEngine { return &drumEngine{} },
	ModeMulti:    func() modeEngine { return &multiEngine{} },
}

// ----- Engine ----- //

// Engine computes the register image of two SID chips once per tick. It is
// not safe for concurrent use.
type Engine struct {
	patch      *Patch
	mode       EngineMode
	impl       modeEngine
	mod        modTable
	matrix     modMatrix
	voices     [numVoices]voice
	envs       [maxEnvs]envelope
	lfos       [maxLfos]lfo
	wts        [maxWts]wavetable
	midiVoices [numMidiVoices]midiVoice
	seqs       [numSIDs]sequencer
	queue      voiceQueue
	frame      RegisterFrame
	rateScale  uint16
	drumModels []DrumModel
	params     ParameterWriter
	regs       RegisterWriter
}

// NewEngine ...
func NewEngine(patch *Patch) *Engine {
	e := &Engine{
		rateScale:  RateScaleUnity,
		drumModels: DefaultDrumModels,
	}
	e.UpdatePatch(patch)
	return e
}

// SetParameterWriter ...
func (e *Engine) SetParameterWriter(w ParameterWriter) {
	e.params = w
}

// SetRegisterWriter ...
func (e *Engine) SetRegisterWriter(w RegisterWriter) {
	e.regs = w
}

// SetDrumModels replaces the drum model table.
func (e *Engine) SetDrumModels(models []DrumModel) {
	e.drumModels = models
}

// SetRateScale sets the Q8.8 ratio of the tick rate to NominalTickRate.
func (e *Engine) SetRateScale(scale uint16) {
	if scale == 0 {
		scale = RateScaleUnity
	}
	e.rateScale = scale
}

// RateScale ...
func (e *Engine) RateScale() uint16 {
	return e.rateScale
}

// Mode ...
func (e *Engine) Mode() EngineMode {
	return e.mode
}

// Patch ...
func (e *Engine) Patch() *Patch {
	return e.patch
}

// UpdatePatch rebuilds all wiring when the patch or its mode changed. Edits
// of the current patch are picked up by the next tick without a rebuild.
func (e *Engine) UpdatePatch(patch *Patch) {
	if patch == nil {
		patch = NewPatch(ModeLead)
	}
	if patch.Mode < 0 || int(patch.Mode) >= len(modeEngines) {
		log.Printf("[WARN] unknown engine mode %d, using lead\n", int(patch.Mode))
		patch.Mode = ModeLead
	}
	if patch == e.patch && patch.Mode == e.mode && e.impl != nil {
		return
	}
	mode := patch.Mode
	e.patch = patch
	e.mode = mode
	e.mod = modTable{}
	e.matrix.init()
	for i := range e.voices {
		e.voices[i].init(i)
	}
	for i := range e.envs {
		e.envs[i].init(false)
	}
	for i := range e.lfos {
		e.lfos[i].init(uint32(i+1) * 0x9e3779b9)
	}
	for i := range e.wts {
		e.wts[i].init()
	}
	for i := range e.midiVoices {
		e.midiVoices[i].init(uint32(i+1) * 0x85ebca6b)
	}
	for i := range e.seqs {
		e.seqs[i].init()
	}
	e.queue.init()
	e.frame = RegisterFrame{}
	e.impl = modeEngines[mode]()
	e.impl.init(e)
	log.Printf("engine: %s patch %q loaded\n", mode, patch.Name)
}

// ----- Events ----- //

// NoteOn plays a note on a channel. Channels select the instrument in
// Bassline and Multi mode; Drum mode maps notes to instruments.
func (e *Engine) NoteOn(ch int, note uint8, velocity uint8) {
	if note > 127 {
		return
	}
	if velocity == 0 {
		e.impl.noteOff(e, ch, note)
		return
	}
	e.impl.noteOn(e, ch, note, velocity&0x7f)
}

// NoteOff ...
func (e *Engine) NoteOff(ch int, note uint8) {
	if note > 127 {
		return
	}
	e.impl.noteOff(e, ch, note)
}

func (e *Engine) midiVoice(ch int) *midiVoice {
	if e.mode == ModeLead {
		return &e.midiVoices[0]
	}
	if ch < 0 || ch >= numMidiVoices {
		return nil
	}
	return &e.midiVoices[ch]
}

// PitchBend sets the 14-bit pitch bend of a channel, centered at 0.
func (e *Engine) PitchBend(ch int, value int16) {
	if mv := e.midiVoice(ch); mv != nil {
		mv.pitchBend = clamp(int32(value), -0x2000, 0x1fff)
	}
}

// SetController ...
func (e *Engine) SetController(ch int, ctrl Controller, value uint8) {
	mv := e.midiVoice(ch)
	if mv == nil {
		return
	}
	switch ctrl {
	case ControllerModWheel:
		mv.modWheel = value & 0x7f
	case ControllerAftertouch:
		mv.aftertouch = value & 0x7f
	}
}

// SetTranspose sets the transposition of a channel in semitones.
func (e *Engine) SetTranspose(ch int, semitones int) {
	if mv := e.midiVoice(ch); mv != nil {
		mv.transpose = int(clamp(int32(semitones), -64, 63))
	}
}

// TriggerDrum plays a drum instrument (0..15) in Drum mode.
func (e *Engine) TriggerDrum(instrument int, velocity uint8) {
	if d, ok := e.impl.(*drumEngine); ok {
		d.trigger(e, instrument, velocity&0x7f)
	}
}

// ReleaseDrum ...
func (e *Engine) ReleaseDrum(instrument int) {
	if d, ok := e.impl.(*drumEngine); ok {
		d.release(e, instrument)
	}
}

// ----- Tick ----- //

// Tick runs one update of all components and returns the register image.
// The returned frame is reused by the next tick.
func (e *Engine) Tick(clk ClockEvent) *RegisterFrame {
	e.impl.tick(e, clk)
	for i := range e.voices {
		e.frame.Voices[i] = e.voices[i].regs
	}
	if e.regs != nil {
		e.regs.WriteRegisters(&e.frame)
	}
	return &e.frame
}

func (e *Engine) writeParam(id uint8, value int, relative bool, sidMask uint8, instrument int) {
	if e.params == nil || id == uint8(ParamNone) || id >= uint8(numParamIDs) {
		return
	}
	e.params.WriteParameter(ParameterWrite{
		ID:         ParamID(id),
		Value:      value,
		Relative:   relative,
		SIDMask:    sidMask,
		Instrument: instrument,
	})
}

// routeVoice adds a modulation value to the pitch, pulsewidth and filter
// destinations of one voice with separate depths.
func (e *Engine) routeVoice(voice int, value int32, pitch int32, pw int32, filter int32) {
	if voice < 0 || voice >= numVoices {
		return
	}
	if pitch != 0 {
		e.mod.add(ModDstPitch1+voice, scaleDepth(value, pitch))
	}
	if pw != 0 {
		e.mod.add(ModDstPw1+voice, scaleDepth(value, pw))
	}
	if filter != 0 {
		e.mod.add(ModDstFil1+voice/voicesPerSID, scaleDepth(value, filter))
	}
}

// tickVoice runs gate, pitch and pulsewidth of a voice and fills its
// registers.
func (e *Engine) tickVoice(v *voice, p *VoiceParams, note int, bend int32, detune int32, test bool) {
	v.tickGate(p, &e.patch.Options, e.rateScale)
	target := targetLinear(note, bend, p, detune)
	v.tickPitch(p, target, e.mod.destination(ModDstPitch1+v.id), e.rateScale)
	pw := v.tickPulseWidth(p.PulseWidth, e.mod.destination(ModDstPw1+v.id))
	v.registers(p.Waveform, p.AttackDecay, p.SustainRelease, pw, test && v.oscSync)
}

func (e *Engine) tickFilters(keyTrack bool) {
	for s := 0; s < numSIDs; s++ {
		e.frame.Filters[s] = filterRegisters(
			&e.patch.Filters[s],
			e.patch.Options.Calibration[s],
			e.patch.Volume,
			e.mod.destination(ModDstFil1+s),
			e.mod.destination(ModDstVol1+s),
			e.voices[s*voicesPerSID].linear,
			keyTrack,
		)
	}
}
