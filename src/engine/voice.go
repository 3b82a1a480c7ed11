package engine

// ----- Voice ----- //

// adsrBugDelay is the gate delay (in nominal ticks) of the ADSR bug
// workaround, long enough for the chip's envelope counter to run out.
const adsrBugDelay = 30

type voice struct {
	id  int
	sid int

	// state flags
	active      bool
	gateActive  bool
	setReq      bool
	clrReq      bool
	pending     bool
	accent      bool
	slide       bool
	portaActive bool
	oscSync     bool
	forceRecalc bool

	// gate set delay
	delayActive bool
	delayCtr    uint32
	adsrBugCtr  uint32
	adsrBugWait bool
	syncPending bool
	holdPitch   bool

	note       int
	velocity   uint8
	midiVoice  int
	instrument int

	linear     uint16 // portamento resolved, 512 steps per semitone
	final      uint16 // linear + pitch modulation
	hasPitch   bool
	portaBegin uint16
	portaEnd   uint16
	portaCtr   uint32

	// drum state
	drumGateCtr int
	drumWTPos   int
	drumWTCtr   int
	drumNote    int
	drumAbs     bool
	drumWave    uint8

	regs VoiceRegisters
}

func (v *voice) init(id int) {
	*v = voice{id: id, sid: id / voicesPerSID, midiVoice: -1, instrument: -1}
}

// gateOn requests a gate restart: one tick closed, then the set sequence.
func (v *voice) gateOn() {
	v.active = true
	v.clrReq = true
	v.setReq = true
}

func (v *voice) gateOff() {
	v.clrReq = true
	v.setReq = false
}

// tickGate runs the gate state machine. While the ADSR bug workaround waits
// the pitch is held.
func (v *voice) tickGate(p *VoiceParams, opt *Options, rateScale uint16) {
	v.oscSync = false
	v.holdPitch = false
	if p.Waveform&WaveOff != 0 {
		v.clrReq = true
		v.setReq = false
	}
	if v.clrReq {
		v.clrReq = false
		v.gateActive = false
		v.pending = v.setReq
		v.setReq = false
		v.delayActive = p.DelayedGate != 0
		v.delayCtr = 0
		v.adsrBugWait = opt.ADSRBugWorkaround
		v.adsrBugCtr = 0
		v.syncPending = p.OscPhase != 0
		return
	}
	if v.setReq {
		v.setReq = false
		v.pending = true
		v.delayActive = p.DelayedGate != 0
		v.delayCtr = 0
		v.adsrBugWait = opt.ADSRBugWorkaround
		v.adsrBugCtr = 0
		v.syncPending = p.OscPhase != 0
	}
	if !v.pending {
		return
	}
	if v.delayActive {
		v.delayCtr += scaleIncrement(uint32(envRateTable[p.DelayedGate]), rateScale)
		if v.delayCtr <= 0xffff {
			return
		}
		v.delayActive = false
	}
	if v.adsrBugWait {
		v.adsrBugCtr += scaleIncrement(RateScaleUnity, rateScale)
		if v.adsrBugCtr < adsrBugDelay*RateScaleUnity {
			v.holdPitch = true
			return
		}
		v.adsrBugWait = false
	}
	if v.syncPending {
		v.syncPending = false
		v.oscSync = true
		return
	}
	v.pending = false
	v.gateActive = true
}

// ----- Pitch ----- //

// targetLinear combines note, pitch bend (-0x2000..0x1fff), fine tune and
// detune into a linear frequency.
func targetLinear(note int, bend int32, p *VoiceParams, detune int32) uint16 {
	t := int32(note)*512 + bend*int32(p.PitchRange)*512/0x2000 + int32(p.FineTune)*2 + detune
	return clamp16(t)
}

// tickPitch resolves portamento toward target and adds the pitch modulation.
// A held pitch keeps the frequency of the previous tick.
func (v *voice) tickPitch(p *VoiceParams, target uint16, pitchMod int32, rateScale uint16) {
	if v.holdPitch {
		return
	}
	v.glide(p, target, rateScale)
	v.final = clamp16(int32(v.linear) + pitchMod)
}

func (v *voice) frequency() uint16 {
	return linearToFrq(v.final)
}

// tickPulseWidth ...
func (v *voice) tickPulseWidth(pw uint16, pwMod int32) uint16 {
	return clamp12(int32(pw) + pwMod/16)
}

// registers fills the register image of the voice.
func (v *voice) registers(waveform uint8, ad uint8, sr uint8, pw uint16, test bool) {
	r := &v.regs
	r.Frequency = v.frequency()
	r.PulseWidth = pw & 0xfff
	r.Control = controlBits(waveform)
	if v.gateActive {
		r.Control |= CtrlGate
	}
	if test {
		r.Control |= CtrlTest
	}
	r.AttackDecay = ad
	r.SustainRelease = sr
	if v.adsrBugWait {
		r.AttackDecay = 0
		r.SustainRelease = 0
	}
}
