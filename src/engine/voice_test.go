package engine

import "testing"

func ticksUntilGate(v *voice, p *VoiceParams, opt *Options, max int) int {
	for n := 1; n <= max; n++ {
		v.tickGate(p, opt, RateScaleUnity)
		if v.gateActive {
			return n
		}
	}
	return -1
}

func TestGateRestart(t *testing.T) {
	var v voice
	v.init(0)
	p := &VoiceParams{Waveform: WaveSaw}
	opt := &Options{}
	v.gateOn()
	expectEqual(t, ticksUntilGate(&v, p, opt, 10), 2)

	// a retrigger closes the gate for one tick
	v.gateOn()
	v.tickGate(p, opt, RateScaleUnity)
	expectEqual(t, v.gateActive, false)
	v.tickGate(p, opt, RateScaleUnity)
	expectEqual(t, v.gateActive, true)

	v.gateOff()
	v.tickGate(p, opt, RateScaleUnity)
	expectEqual(t, v.gateActive, false)
	expectEqual(t, ticksUntilGate(&v, p, opt, 10), -1)
}

func TestGateWaveOff(t *testing.T) {
	var v voice
	v.init(0)
	p := &VoiceParams{Waveform: WaveSaw | WaveOff}
	v.gateOn()
	expectEqual(t, ticksUntilGate(&v, p, &Options{}, 10), -1)
}

func TestGateADSRBugWorkaround(t *testing.T) {
	var v voice
	v.init(0)
	p := &VoiceParams{Waveform: WaveSaw}
	opt := &Options{ADSRBugWorkaround: true}
	v.gateOn()
	v.tickGate(p, opt, RateScaleUnity)
	v.tickGate(p, opt, RateScaleUnity)
	expectEqual(t, v.holdPitch, true)
	v.registers(WaveSaw, 0x12, 0x34, 0, false)
	expectEqual(t, v.regs.AttackDecay, uint8(0))
	expectEqual(t, v.regs.SustainRelease, uint8(0))

	n := ticksUntilGate(&v, p, opt, 100)
	expectEqual(t, n, adsrBugDelay-1)
	v.registers(WaveSaw, 0x12, 0x34, 0, false)
	expectEqual(t, v.regs.AttackDecay, uint8(0x12))
	expectEqual(t, v.regs.Control&CtrlGate, uint8(CtrlGate))
}

func TestGateOscSync(t *testing.T) {
	var v voice
	v.init(0)
	p := &VoiceParams{Waveform: WaveSaw, OscPhase: 1}
	opt := &Options{}
	v.gateOn()
	v.tickGate(p, opt, RateScaleUnity)
	v.tickGate(p, opt, RateScaleUnity)
	expectEqual(t, v.oscSync, true)
	expectEqual(t, v.gateActive, false)
	v.tickGate(p, opt, RateScaleUnity)
	expectEqual(t, v.oscSync, false)
	expectEqual(t, v.gateActive, true)
}

func TestGateDelayed(t *testing.T) {
	var v voice
	v.init(0)
	p := &VoiceParams{Waveform: WaveSaw, DelayedGate: 40}
	v.gateOn()
	n := ticksUntilGate(&v, p, &Options{}, 100000)
	expectTrue(t, n > 2, "expected delayed gate, opened after %d ticks", n)
}

func TestPitchAndPulseWidth(t *testing.T) {
	p := &VoiceParams{PitchRange: 2}
	expectEqual(t, targetLinear(60, 0, p, 0), uint16(60*512))
	expectEqual(t, targetLinear(60, 0x1000, p, 0), uint16(61*512))
	expectEqual(t, targetLinear(60, -0x2000, p, 0), uint16(58*512))
	expectEqual(t, targetLinear(0, -0x2000, p, 0), uint16(0))

	var v voice
	v.init(0)
	expectEqual(t, v.tickPulseWidth(0x800, 0x1000), uint16(0x900))
	expectEqual(t, v.tickPulseWidth(0xf00, 0x10000), uint16(0xfff))
	expectEqual(t, v.tickPulseWidth(0x10, -0x10000), uint16(0))
}
