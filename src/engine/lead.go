package engine

// ----- Lead Engine ----- //

// detuneSign spreads the detune over O1L, O2L, O3L, O1R, O2R, O3R.
var detuneSign = [numVoices]int32{1, -1, 1, -1, 1, -1}

type leadEngine struct {
	pendingTrig uint32
}

func (l *leadEngine) init(e *Engine) {
	for i := 0; i < numEnvs; i++ {
		e.envs[i].init(true)
	}
	for i := range e.voices {
		e.voices[i].midiVoice = 0
	}
}

func (l *leadEngine) noteOn(e *Engine, ch int, note uint8, velocity uint8) {
	p := &e.patch.Lead
	mv := &e.midiVoices[0]
	first := mv.keyOn(note, velocity, &p.Arp)
	if p.Arp.Enabled {
		return
	}
	l.play(e, int(note), velocity, !first)
}

func (l *leadEngine) noteOff(e *Engine, ch int, note uint8) {
	p := &e.patch.Lead
	mv := &e.midiVoices[0]
	empty := mv.keyOff(note, &p.Arp)
	if p.Arp.Enabled {
		return
	}
	if !empty {
		top, _ := mv.keys.top()
		l.play(e, int(top.note), top.velocity, true)
		return
	}
	l.release(e)
}

// play sets the note of all oscillators. With another key held it glides
// and, in legato mode, keeps the gates open.
func (l *leadEngine) play(e *Engine, note int, velocity uint8, keyHeld bool) {
	p := &e.patch.Lead
	mv := &e.midiVoices[0]
	mv.note = note
	mv.velocity = velocity
	legato := keyHeld && p.Legato && e.voices[0].gateActive
	for i := range e.voices {
		v := &e.voices[i]
		vp := &p.Voices[i]
		v.note = note
		v.velocity = velocity
		v.startGlide(vp.Portamento != 0 && (!vp.SusKey || keyHeld))
	}
	if legato {
		return
	}
	trig := p.Triggers[TrigNoteOn]
	l.pendingTrig = l.pendingTrig&^p.Triggers[TrigNoteOff] | trig
	for i := 0; i < numLfos; i++ {
		if p.Lfos[i].KeySync {
			e.lfos[i].restart()
		}
	}
}

func (l *leadEngine) release(e *Engine) {
	p := &e.patch.Lead
	l.pendingTrig = l.pendingTrig&^p.Triggers[TrigNoteOn] | p.Triggers[TrigNoteOff]
	for i := range e.voices {
		e.voices[i].gateOff()
	}
}

func (l *leadEngine) applyTriggers(e *Engine, mask uint32) {
	if mask == 0 {
		return
	}
	for i := 0; i < numVoices; i++ {
		if mask&(TrigTargetGateO1L<<i) != 0 {
			e.voices[i].gateOn()
		}
	}
	for i := 0; i < numEnvs; i++ {
		if mask&(TrigTargetEnv1Attack<<i) != 0 {
			e.envs[i].restart()
		}
		if mask&(TrigTargetEnv1Release<<i) != 0 {
			e.envs[i].release()
		}
	}
	for i := 0; i < numLfos; i++ {
		if mask&(TrigTargetLfo1<<i) != 0 {
			e.lfos[i].restart()
		}
	}
	for i := 0; i < numWts; i++ {
		if mask&(TrigTargetWt1Reset<<i) != 0 {
			e.wts[i].restart()
		}
		if mask&(TrigTargetWt1Step<<i) != 0 {
			e.wts[i].step()
		}
	}
}

func (l *leadEngine) clockTriggers(p *LeadPatch, clk ClockEvent) uint32 {
	var mask uint32
	if clk.Has(ClockTick) {
		mask |= p.Triggers[TrigClock]
	}
	if clk.Has(ClockDiv6) {
		mask |= p.Triggers[TrigClock6]
	}
	if clk.Has(ClockDiv24) {
		mask |= p.Triggers[TrigClock24]
	}
	if clk.Has(ClockStart) {
		mask |= p.Triggers[TrigMidiStart]
	}
	return mask
}

func (l *leadEngine) tick(e *Engine, clk ClockEvent) {
	p := &e.patch.Lead
	mv := &e.midiVoices[0]
	if mv.checkArp(&p.Arp) {
		l.release(e)
	}

	e.mod.clearDestinations()
	trig := l.pendingTrig | l.clockTriggers(p, clk)
	l.pendingTrig = 0
	l.applyTriggers(e, trig)

	for i := 0; i < numLfos; i++ {
		lp := &p.Lfos[i]
		if e.lfos[i].tick(lp, e.mod.lfoRate[i], clk, e.rateScale) {
			l.applyTriggers(e, p.Triggers[TrigLfo1+i])
		}
		depth := clamp(int32(lp.Depth)+e.mod.lfoDepth[i]>>8, -128, 127)
		e.mod.setSource(ModSrcLfo1+i, scaleDepth(e.lfos[i].value, depth))
	}
	for i := 0; i < numEnvs; i++ {
		if e.envs[i].tick(&p.Envs[i], e.rateScale) {
			l.applyTriggers(e, p.Triggers[TrigEnv1Sustain+i])
		}
		e.mod.setSource(ModSrcEnv1+i, int32(e.envs[i].counter))
	}
	e.mod.setSource(ModSrcKey, int32(mv.note)*512-0x8000)
	e.mod.setSource(ModSrcVelocity, int32(mv.velocity)<<9)
	e.mod.setSource(ModSrcModWheel, int32(mv.modWheel)<<9)
	e.mod.setSource(ModSrcPitchBend, mv.pitchBend<<2)
	e.mod.setSource(ModSrcAftertouch, int32(mv.aftertouch)<<9)
	e.matrix.tick(&p.Mods, &e.mod)

	for i := 0; i < numWts; i++ {
		wp := &p.Wts[i]
		value, param, rel, changed := e.wts[i].tick(wp, &e.patch.WTData, clk, mv.note, e.mod.destination(ModDstWt1+i), e.rateScale)
		if changed {
			e.mod.setSource(ModSrcWt1+i, value)
			e.writeParam(wp.Assign, param, rel, wp.SIDMask, 0)
		}
	}

	ev := mv.arp.tick(&p.Arp, &mv.arpKeys, clk)
	if ev.on {
		l.play(e, ev.note, ev.velocity, false)
	} else if ev.off {
		l.release(e)
	}

	detune := int32(p.Detune)
	for i := range e.voices {
		v := &e.voices[i]
		vp := &p.Voices[i]
		note := mv.transposed(v.note, vp.Transpose, e.patch.Transpose)
		e.tickVoice(v, vp, note, mv.pitchBend, detuneSign[i]*detune, false)
		if v.oscSync {
			v.regs.Frequency = uint16(vp.OscPhase) << 8
		}
	}
	e.tickFilters(true)
}
