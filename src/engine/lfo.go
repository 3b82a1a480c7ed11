package engine

// ----- LFO ----- //

type lfo struct {
	phase      uint16
	stopped    bool
	restartReq bool
	value      int32 // last waveform output, -0x7fff..0x7fff
	random     int32
	seed       uint32
}

func (l *lfo) init(seed uint32) {
	*l = lfo{seed: seed | 1}
}

func (l *lfo) restart() {
	l.restartReq = true
}

func (l *lfo) nextRandom() int32 {
	l.seed ^= l.seed << 13
	l.seed ^= l.seed >> 17
	l.seed ^= l.seed << 5
	return int32(l.seed&0xffff) - 0x8000
}

// tick advances the phase and returns true when it wrapped. rateMod is the
// LR destination of the previous tick (lead only).
func (l *lfo) tick(p *LfoParams, rateMod int32, clk ClockEvent, rateScale uint16) bool {
	if !p.Enabled {
		l.value = 0
		return false
	}
	if l.restartReq {
		l.restartReq = false
		l.phase = uint16(p.Phase) << 8
		l.stopped = false
		l.random = l.nextRandom()
	}
	wrapped := false
	if !l.stopped {
		var inc uint32
		if p.ClockSync {
			if clk.Has(ClockTick) {
				div := lfoClockDivs[p.Rate>>4]
				inc = (0x10000 + div - 1) / div
			}
		} else {
			rate := clamp(int32(p.Rate)+rateMod>>8, 0, 0xff)
			inc = scaleIncrement(uint32(lfoRateTable[rate]), rateScale)
		}
		next := uint32(l.phase) + inc
		if next > 0xffff {
			wrapped = true
			l.random = l.nextRandom()
			if p.OneShot {
				l.stopped = true
				next = 0xffff
			}
		}
		l.phase = uint16(next)
	}
	l.value = l.shape(p)
	return wrapped
}

func (l *lfo) shape(p *LfoParams) int32 {
	ph := int32(l.phase)
	var v int32
	switch p.Waveform {
	case LfoSine:
		v = int32(sineTable[l.phase>>8])
	case LfoTriangle:
		if ph < 0x8000 {
			v = ph*2 - 0x8000
		} else {
			v = 0x17fff - ph*2
		}
	case LfoSaw:
		v = ph - 0x8000
	case LfoPulse:
		threshold := int32(0x8000)
		if p.Duty != 0 {
			threshold = int32(p.Duty) << 8
		}
		if ph < threshold {
			v = 0x7fff
		} else {
			v = -0x7fff
		}
	case LfoRandom:
		v = l.random
	}
	v = clamp(v, -0x7fff, 0x7fff)
	if p.Unipolar {
		v = (v + 0x7fff) / 2
	}
	return v
}
