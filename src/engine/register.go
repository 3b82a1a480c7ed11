package engine

// ----- Register Image ----- //

// Bits of the voice control register.
const (
	CtrlGate     uint8 = 0x01
	CtrlSync     uint8 = 0x02
	CtrlRing     uint8 = 0x04
	CtrlTest     uint8 = 0x08
	CtrlTriangle uint8 = 0x10
	CtrlSaw      uint8 = 0x20
	CtrlPulse    uint8 = 0x40
	CtrlNoise    uint8 = 0x80
)

// Register offsets of one chip.
const (
	RegFreqLo    = 0
	RegFreqHi    = 1
	RegPWLo      = 2
	RegPWHi      = 3
	RegControl   = 4
	RegAD        = 5
	RegSR        = 6
	RegVoiceSize = 7
	RegFCLo      = 21
	RegFCHi      = 22
	RegResFilt   = 23
	RegModeVol   = 24
	NumRegisters = 25
)

// VoiceRegisters ...
type VoiceRegisters struct {
	Frequency      uint16
	PulseWidth     uint16 // 12 bit
	Control        uint8
	AttackDecay    uint8
	SustainRelease uint8
}

// FilterRegisters ...
type FilterRegisters struct {
	Cutoff    uint16 // 11 bit
	Resonance uint8  // 4 bit
	Routing   uint8  // bits 0-2 voices, bit 3 external input
	Mode      uint8  // FilterLP | FilterBP | FilterHP | Filter3Off
	Volume    uint8  // 4 bit
}

// RegisterFrame is the register image of both chips after one tick.
type RegisterFrame struct {
	Voices  [numVoices]VoiceRegisters
	Filters [numSIDs]FilterRegisters
}

// RegisterWriter receives the frame of every tick.
type RegisterWriter interface {
	WriteRegisters(frame *RegisterFrame)
}

func controlBits(waveform uint8) uint8 {
	if waveform&WaveOff != 0 {
		return 0
	}
	var c uint8
	if waveform&WaveTriangle != 0 {
		c |= CtrlTriangle
	}
	if waveform&WaveSaw != 0 {
		c |= CtrlSaw
	}
	if waveform&WavePulse != 0 {
		c |= CtrlPulse
	}
	if waveform&WaveNoise != 0 {
		c |= CtrlNoise
	}
	if waveform&WaveSync != 0 {
		c |= CtrlSync
	}
	if waveform&WaveRing != 0 {
		c |= CtrlRing
	}
	return c
}

// SID returns the 25 register bytes of chip n (0 or 1).
func (f *RegisterFrame) SID(n int) [NumRegisters]byte {
	var regs [NumRegisters]byte
	if n < 0 || n >= numSIDs {
		return regs
	}
	for i := 0; i < voicesPerSID; i++ {
		v := &f.Voices[n*voicesPerSID+i]
		base := i * RegVoiceSize
		regs[base+RegFreqLo] = byte(v.Frequency)
		regs[base+RegFreqHi] = byte(v.Frequency >> 8)
		regs[base+RegPWLo] = byte(v.PulseWidth)
		regs[base+RegPWHi] = byte(v.PulseWidth>>8) & 0x0f
		regs[base+RegControl] = v.Control
		regs[base+RegAD] = v.AttackDecay
		regs[base+RegSR] = v.SustainRelease
	}
	flt := &f.Filters[n]
	regs[RegFCLo] = byte(flt.Cutoff & 0x07)
	regs[RegFCHi] = byte(flt.Cutoff >> 3)
	regs[RegResFilt] = flt.Resonance<<4 | flt.Routing&0x0f
	regs[RegModeVol] = (flt.Mode&0x0f)<<4 | flt.Volume&0x0f
	return regs
}

// Bytes returns both chips back to back.
func (f *RegisterFrame) Bytes() []byte {
	out := make([]byte, 0, numSIDs*NumRegisters)
	for n := 0; n < numSIDs; n++ {
		regs := f.SID(n)
		out = append(out, regs[:]...)
	}
	return out
}
