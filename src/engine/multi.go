package engine

import "log"

// ----- Multi Engine ----- //

// multiEngine plays six monophonic instruments, one per MIDI channel, on
// voices taken from the allocation queue.
type multiEngine struct{}

func (m *multiEngine) init(e *Engine) {
	for i := 0; i < numMidiVoices; i++ {
		e.envs[i].init(false)
	}
}

func (m *multiEngine) noteOn(e *Engine, ch int, note uint8, velocity uint8) {
	if ch < 0 || ch >= numMidiVoices {
		return
	}
	ins := &e.patch.Multi.Instruments[ch]
	first := e.midiVoices[ch].keyOn(note, velocity, &ins.Arp)
	if ins.Arp.Enabled {
		return
	}
	m.play(e, ch, int(note), velocity, !first)
}

func (m *multiEngine) noteOff(e *Engine, ch int, note uint8) {
	if ch < 0 || ch >= numMidiVoices {
		return
	}
	ins := &e.patch.Multi.Instruments[ch]
	mv := &e.midiVoices[ch]
	empty := mv.keyOff(note, &ins.Arp)
	if ins.Arp.Enabled {
		return
	}
	if !empty {
		top, _ := mv.keys.top()
		m.play(e, ch, int(top.note), top.velocity, true)
		return
	}
	m.release(e, ch)
}

func (m *multiEngine) bind(e *Engine, i int) *voice {
	ins := &e.patch.Multi.Instruments[i]
	idx, stolen := e.queue.get(i, ins.Assign, int(ins.Direct))
	v := &e.voices[idx]
	if v.instrument >= 0 && v.instrument != i {
		if stolen {
			log.Printf("[WARN] voice %d stolen from instrument %d\n", idx, v.instrument)
		}
		v.forceRecalc = true
	}
	v.instrument = i
	v.midiVoice = i
	return v
}

func (m *multiEngine) play(e *Engine, i int, note int, velocity uint8, keyHeld bool) {
	ins := &e.patch.Multi.Instruments[i]
	mv := &e.midiVoices[i]
	v := m.bind(e, i)
	mv.note = note
	v.note = note
	v.velocity = velocity
	v.accent = velocity >= accentThreshold
	e.envs[i].accent = v.accent
	v.startGlide(ins.Voice.Portamento != 0 && (!ins.Voice.SusKey || keyHeld))
	if keyHeld && v.gateActive {
		return
	}
	v.gateOn()
	e.envs[i].restart()
	e.wts[i].restart()
	for j := 0; j < 2; j++ {
		if ins.Lfos[j].KeySync {
			e.lfos[i*2+j].restart()
		}
	}
}

func (m *multiEngine) release(e *Engine, i int) {
	e.envs[i].release()
	idx := e.queue.release(i)
	if idx != unbound {
		e.voices[idx].gateOff()
	}
}

func (m *multiEngine) tick(e *Engine, clk ClockEvent) {
	e.mod.clearDestinations()
	for i := 0; i < numMidiVoices; i++ {
		ins := &e.patch.Multi.Instruments[i]
		if e.midiVoices[i].checkArp(&ins.Arp) {
			m.release(e, i)
		}
		idx := e.queue.voiceOf(i)
		for j := 0; j < 2; j++ {
			lp := &ins.Lfos[j]
			lf := &e.lfos[i*2+j]
			lf.tick(lp, 0, clk, e.rateScale)
			e.routeVoice(idx, lf.value, int32(lp.DepthPitch), int32(lp.DepthPW), int32(lp.DepthFilter))
		}
	}
	for i := 0; i < numMidiVoices; i++ {
		ins := &e.patch.Multi.Instruments[i]
		env := &e.envs[i]
		env.tick(&ins.Env, e.rateScale)
		e.routeVoice(e.queue.voiceOf(i), env.output(), env.depth(&ins.Env, ins.Env.DepthPitch), env.depth(&ins.Env, ins.Env.DepthPW), env.depth(&ins.Env, ins.Env.DepthFilter))
	}
	for i := 0; i < numMidiVoices; i++ {
		ins := &e.patch.Multi.Instruments[i]
		mv := &e.midiVoices[i]
		// there is no modulation matrix to address a wavetable here
		wp := ins.Wt
		wp.ModControl = false
		_, param, rel, changed := e.wts[i].tick(&wp, &e.patch.WTData, clk, mv.note, 0, e.rateScale)
		if changed {
			e.writeParam(wp.Assign, param, rel, wp.SIDMask, i)
		}
	}
	for i := 0; i < numMidiVoices; i++ {
		ins := &e.patch.Multi.Instruments[i]
		mv := &e.midiVoices[i]
		ev := mv.arp.tick(&ins.Arp, &mv.arpKeys, clk)
		if ev.on {
			m.play(e, i, ev.note, ev.velocity, false)
		} else if ev.off {
			m.release(e, i)
		}
	}
	for i := range e.voices {
		v := &e.voices[i]
		if v.instrument < 0 {
			v.regs = VoiceRegisters{}
			continue
		}
		ins := &e.patch.Multi.Instruments[v.instrument]
		mv := &e.midiVoices[v.instrument]
		note := mv.transposed(v.note, ins.Voice.Transpose, e.patch.Transpose)
		e.tickVoice(v, &ins.Voice, note, mv.pitchBend, 0, false)
	}
	e.tickFilters(false)
}
