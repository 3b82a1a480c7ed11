package engine

// ----- Envelope ----- //

const (
	envIdle = iota
	envDelay
	envAttack
	envAttack2
	envDecay
	envDecay2
	envSustain
	envRelease
	envRelease2
)

/*
 0xffff +        x
        |       / \         two-stage variant:
     al +      x   x        attack -> attack level -> attack2 -> max
        |     /     \       decay  -> decay level  -> decay2  -> sustain
      s +    /       x----x release -> release level -> release2 -> 0
        |   /              \
     rl +  /                x
        | /                  \
      0 +-----+--+--+--+----+-+--
        |d    |a |a2|d |d2  |r|r2
*/
type envelope struct {
	twoStage   bool
	stage      int
	counter    uint16
	delayCtr   uint16
	restartReq bool
	releaseReq bool
	accent     bool
}

func level16(x uint8) uint16 {
	return uint16(x)<<8 | uint16(x)
}

func (e *envelope) init(twoStage bool) {
	*e = envelope{twoStage: twoStage}
}

// restart and release are requests consumed by the next tick. A later call
// supersedes an earlier one.
func (e *envelope) restart() {
	e.restartReq = true
	e.releaseReq = false
}

func (e *envelope) release() {
	e.releaseReq = true
	e.restartReq = false
}

// tick advances one step and returns true on the tick the sustain phase is
// entered.
func (e *envelope) tick(p *EnvParams, rateScale uint16) bool {
	if e.restartReq {
		e.restartReq = false
		e.delayCtr = 0
		if p.Delay != 0 {
			e.stage = envDelay
		} else {
			e.stage = envAttack
		}
	}
	if e.releaseReq {
		e.releaseReq = false
		if e.stage != envIdle {
			e.stage = envRelease
		}
	}

	switch e.stage {
	case envDelay:
		inc := scaleIncrement(uint32(envRateTable[p.Delay]), rateScale)
		next := uint32(e.delayCtr) + inc
		if next > 0xffff {
			e.delayCtr = 0
			e.stage = envAttack
		} else {
			e.delayCtr = uint16(next)
		}
	case envAttack:
		if e.twoStage {
			if e.step(level16(p.AttackLevel), p.Attack, p.AttackCurve, rateScale) {
				e.stage = envAttack2
			}
		} else if e.step(0xffff, p.Attack, p.AttackCurve, rateScale) {
			e.stage = envDecay
		}
	case envAttack2:
		if e.step(0xffff, p.Attack2, p.AttackCurve, rateScale) {
			e.stage = envDecay
		}
	case envDecay:
		if e.twoStage {
			if e.step(level16(p.DecayLevel), p.Decay, p.DecayCurve, rateScale) {
				e.stage = envDecay2
			}
			return false
		}
		rate := p.Decay
		if e.accent {
			rate = p.DecayAccent
		}
		if e.step(level16(p.Sustain), rate, p.DecayCurve, rateScale) {
			e.stage = envSustain
			return true
		}
	case envDecay2:
		if e.step(level16(p.Sustain), p.Decay2, p.DecayCurve, rateScale) {
			e.stage = envSustain
			return true
		}
	case envSustain:
		e.counter = level16(p.Sustain)
	case envRelease:
		if e.twoStage {
			if e.step(level16(p.ReleaseLevel), p.Release, p.ReleaseCurve, rateScale) {
				e.stage = envRelease2
			}
		} else if e.step(0, p.Release, p.ReleaseCurve, rateScale) {
			e.stage = envIdle
		}
	case envRelease2:
		if e.step(0, p.Release2, p.ReleaseCurve, rateScale) {
			e.stage = envIdle
		}
	}
	return false
}

// step moves the counter toward target and reports whether it arrived.
func (e *envelope) step(target uint16, rate uint8, curve int8, rateScale uint16) bool {
	inc := uint32(envRateTable[rate])
	if curve != 0 {
		inc = bendIncrement(inc, e.counter, curve)
	}
	inc = scaleIncrement(inc, rateScale)
	if e.counter < target {
		next := uint32(e.counter) + inc
		if next >= uint32(target) {
			e.counter = target
			return true
		}
		e.counter = uint16(next)
		return false
	}
	if e.counter > target {
		if uint32(e.counter-target) <= inc {
			e.counter = target
			return true
		}
		e.counter -= uint16(inc)
		return false
	}
	return true
}

// bendIncrement adds a feedback term to inc. Positive curves grow with the
// current level, negative curves with the distance to full scale.
func bendIncrement(inc uint32, level uint16, curve int8) uint32 {
	mag := uint64(curve)
	fb := uint64(level)
	if curve < 0 {
		mag = uint64(-int32(curve))
		fb = 0xffff - uint64(level)
	}
	bent := uint64(inc) + uint64(inc)*mag*fb/(0x10000*16)
	if bent > 0xffffffff {
		bent = 0xffffffff
	}
	return uint32(bent)
}

// ----- Output ----- //

// output is the level halved into the positive range of the modulation
// sources. Accent widens the depths of the single-stage variant.
func (e *envelope) output() int32 {
	return int32(e.counter >> 1)
}

func (e *envelope) depth(p *EnvParams, depth int8) int32 {
	d := int32(depth)
	if e.accent && p.Accent != 0 {
		d += d * int32(p.Accent) / 128
	}
	return clamp(d, -256, 255)
}
