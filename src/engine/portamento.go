package engine

// ----- Portamento ----- //

// defaultSlideRate is used by slides of patches without portamento.
const defaultSlideRate = 20

func (v *voice) startGlide(active bool) {
	v.portaActive = active && v.hasPitch
	v.portaBegin = v.linear
	v.portaCtr = 0
}

// glide moves linear toward target. It never passes the target.
func (v *voice) glide(p *VoiceParams, target uint16, rateScale uint16) {
	if !v.hasPitch || v.forceRecalc {
		v.hasPitch = true
		v.forceRecalc = false
		v.linear = target
		v.portaEnd = target
		v.portaActive = false
		return
	}
	if target != v.portaEnd {
		v.portaBegin = v.linear
		v.portaEnd = target
		v.portaCtr = 0
	}
	rate := p.Portamento
	if v.slide && rate == 0 {
		rate = defaultSlideRate
	}
	if !v.portaActive || rate == 0 || v.linear == target {
		v.linear = target
		v.portaActive = false
		return
	}

	if p.ConstantTime || p.Glissando {
		v.portaCtr += scaleIncrement(glideRateTable[rate], rateScale)
		if v.portaCtr >= 0x10000 {
			v.linear = target
			v.portaActive = false
			return
		}
		diff := int64(v.portaEnd) - int64(v.portaBegin)
		delta := diff * int64(v.portaCtr) / 0x10000
		if p.Glissando {
			delta = delta / 512 * 512
		}
		v.linear = uint16(int64(v.portaBegin) + delta)
		return
	}

	diff := int32(target) - int32(v.linear)
	factor := scaleIncrement(glideFactorTable[rate], rateScale)
	if factor > 0x10000 {
		factor = 0x10000
	}
	step := int32(int64(diff) * int64(factor) / 0x10000)
	if step == 0 {
		if diff > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	next := int32(v.linear) + step
	if (diff > 0 && next >= int32(target)) || (diff < 0 && next <= int32(target)) {
		v.linear = target
		v.portaActive = false
		return
	}
	v.linear = uint16(next)
}
