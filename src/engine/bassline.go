package engine

// ----- Bassline Engine ----- //

// Velocities of sequencer notes.
const (
	seqVelocity       = 63
	seqAccentVelocity = 127
)

// basslineEngine plays one monophonic instrument per chip. Oscillator 1 of a
// chip is the master, oscillators 2 and 3 follow it as configured by the
// slave settings. MIDI channels 2-5 feed write-through slaves.
type basslineEngine struct {
	seqTranspose [numSIDs]int
	seqByKey     [numSIDs]bool
	lastStep     [numSIDs]BasslineStep
}

func slaveChannel(instrument int, slave int) int {
	return numSIDs + instrument*2 + slave
}

func (b *basslineEngine) init(e *Engine) {
	for i := 0; i < numSIDs; i++ {
		e.envs[i].init(false)
		for k := 0; k < voicesPerSID; k++ {
			v := &e.voices[i*voicesPerSID+k]
			v.instrument = i
			v.midiVoice = i
			if k > 0 {
				v.midiVoice = slaveChannel(i, k-1)
			}
		}
	}
}

func (b *basslineEngine) noteOn(e *Engine, ch int, note uint8, velocity uint8) {
	if ch >= numSIDs && ch < numMidiVoices {
		i, k := (ch-numSIDs)/2, (ch-numSIDs)%2
		if e.patch.Bassline.Instruments[i].Slaves[k].Mode != SlaveWriteThrough {
			return
		}
		mv := &e.midiVoices[ch]
		mv.keyOn(note, velocity, &ArpParams{})
		mv.note = int(note)
		v := &e.voices[i*voicesPerSID+1+k]
		v.note = int(note)
		v.gateOn()
		return
	}
	if ch < 0 || ch >= numSIDs {
		return
	}
	ins := &e.patch.Bassline.Instruments[ch]
	mv := &e.midiVoices[ch]
	first := mv.keyOn(note, velocity, &ins.Arp)
	if ins.Seq.Enabled {
		b.seqTranspose[ch] = int(note) - 60
		if first && !e.seqs[ch].running {
			e.seqs[ch].start(&ins.Seq)
			b.seqByKey[ch] = true
		}
		return
	}
	if ins.Arp.Enabled {
		return
	}
	b.play(e, ch, int(note), velocity, !first)
}

func (b *basslineEngine) noteOff(e *Engine, ch int, note uint8) {
	if ch >= numSIDs && ch < numMidiVoices {
		mv := &e.midiVoices[ch]
		if mv.keyOff(note, &ArpParams{}) {
			i, k := (ch-numSIDs)/2, (ch-numSIDs)%2
			e.voices[i*voicesPerSID+1+k].gateOff()
		} else {
			top, _ := mv.keys.top()
			mv.note = int(top.note)
			i, k := (ch-numSIDs)/2, (ch-numSIDs)%2
			e.voices[i*voicesPerSID+1+k].note = int(top.note)
		}
		return
	}
	if ch < 0 || ch >= numSIDs {
		return
	}
	ins := &e.patch.Bassline.Instruments[ch]
	mv := &e.midiVoices[ch]
	empty := mv.keyOff(note, &ins.Arp)
	if ins.Seq.Enabled {
		if top, ok := mv.keys.top(); ok {
			b.seqTranspose[ch] = int(top.note) - 60
		} else if b.seqByKey[ch] {
			b.seqByKey[ch] = false
			e.seqs[ch].stop()
			b.release(e, ch)
		}
		return
	}
	if ins.Arp.Enabled {
		return
	}
	if !empty {
		top, _ := mv.keys.top()
		b.play(e, ch, int(top.note), top.velocity, true)
		return
	}
	b.release(e, ch)
}

// play starts a note on the master oscillator. A slide into a sounding
// note keeps the gate open and glides.
func (b *basslineEngine) play(e *Engine, i int, note int, velocity uint8, slide bool) {
	ins := &e.patch.Bassline.Instruments[i]
	mv := &e.midiVoices[i]
	v := &e.voices[i*voicesPerSID]
	mv.note = note
	v.note = note
	v.velocity = velocity
	v.accent = velocity >= accentThreshold
	e.envs[i].accent = v.accent
	if slide && v.gateActive {
		v.slide = true
		v.startGlide(true)
		return
	}
	v.slide = false
	v.startGlide(ins.Voice.Portamento != 0 && !ins.Voice.SusKey)
	v.gateOn()
	e.envs[i].restart()
	e.wts[i].restart()
	for j := 0; j < 2; j++ {
		if ins.Lfos[j].KeySync {
			e.lfos[i*2+j].restart()
		}
	}
}

func (b *basslineEngine) release(e *Engine, i int) {
	e.voices[i*voicesPerSID].gateOff()
	e.envs[i].release()
}

func (b *basslineEngine) tickSeq(e *Engine, i int, clk ClockEvent) {
	ins := &e.patch.Bassline.Instruments[i]
	ev := e.seqs[i].tick(&ins.Seq, clk)
	if ev.stop {
		b.release(e, i)
		b.lastStep[i] = BasslineStep{}
		return
	}
	if ev.set {
		prev := b.lastStep[i]
		st := ins.Patterns[ev.pattern].Step(ev.step)
		if ins.Seq.ParamAssign != 0 {
			e.writeParam(ins.Seq.ParamAssign, int(st.Param), false, 1<<i, i)
		}
		if st.Gate {
			note := transposeNote(int(ins.Seq.BaseNote)+b.seqTranspose[i], st.Transpose())
			velocity := uint8(seqVelocity)
			if st.Accent {
				velocity = seqAccentVelocity
			}
			b.play(e, i, note, velocity, prev.Slide)
		}
		b.lastStep[i] = st
	}
	if ev.clear && !b.lastStep[i].Slide {
		b.release(e, i)
	}
}

func (b *basslineEngine) tick(e *Engine, clk ClockEvent) {
	e.mod.clearDestinations()
	for i := 0; i < numSIDs; i++ {
		ins := &e.patch.Bassline.Instruments[i]
		mv := &e.midiVoices[i]
		if mv.checkArp(&ins.Arp) {
			b.release(e, i)
		}
		for j := 0; j < 2; j++ {
			lp := &ins.Lfos[j]
			lf := &e.lfos[i*2+j]
			lf.tick(lp, 0, clk, e.rateScale)
			for k := 0; k < voicesPerSID; k++ {
				filter := int32(0)
				if k == 0 {
					filter = int32(lp.DepthFilter)
				}
				e.routeVoice(i*voicesPerSID+k, lf.value, int32(lp.DepthPitch), int32(lp.DepthPW), filter)
			}
		}

		env := &e.envs[i]
		env.tick(&ins.Env, e.rateScale)
		for k := 0; k < voicesPerSID; k++ {
			filter := int32(0)
			if k == 0 {
				filter = env.depth(&ins.Env, ins.Env.DepthFilter)
			}
			e.routeVoice(i*voicesPerSID+k, env.output(), env.depth(&ins.Env, ins.Env.DepthPitch), env.depth(&ins.Env, ins.Env.DepthPW), filter)
		}

		b.tickSeq(e, i, clk)

		master := &e.voices[i*voicesPerSID]
		value, param, rel, changed := e.wts[i].tick(&ins.Wt, &e.patch.WTData, clk, master.note, e.mod.destination(ModDstWt1+i), e.rateScale)
		if changed {
			e.mod.setSource(ModSrcWt1+i, value)
			e.writeParam(ins.Wt.Assign, param, rel, 1<<i, i)
		}

		ev := mv.arp.tick(&ins.Arp, &mv.arpKeys, clk)
		if ev.on {
			b.play(e, i, ev.note, ev.velocity, false)
		} else if ev.off {
			b.release(e, i)
		}

		b.tickVoices(e, i)
	}
	e.tickFilters(true)
}

// tickVoices mirrors the master's gate and glide state into the slaves
// before any of the three oscillators is processed.
func (b *basslineEngine) tickVoices(e *Engine, i int) {
	ins := &e.patch.Bassline.Instruments[i]
	mv := &e.midiVoices[i]
	master := &e.voices[i*voicesPerSID]
	for k := 1; k < voicesPerSID; k++ {
		v := &e.voices[i*voicesPerSID+k]
		if ins.Slaves[k-1].Mode == SlaveWriteThrough {
			continue
		}
		v.active = master.active
		v.setReq = master.setReq
		v.clrReq = master.clrReq
		v.accent = master.accent
		v.slide = master.slide
		v.velocity = master.velocity
		if master.portaActive && !v.portaActive {
			v.startGlide(true)
		}
		v.portaActive = master.portaActive && v.hasPitch
	}

	for k := 0; k < voicesPerSID; k++ {
		v := &e.voices[i*voicesPerSID+k]
		vp := ins.Voice
		note := master.note
		bend := mv.pitchBend
		if k > 0 {
			sl := &ins.Slaves[k-1]
			vp.Waveform = sl.Waveform
			vp.PulseWidth = sl.PulseWidth
			switch sl.Mode {
			case SlaveOff:
				vp.Waveform = WaveOff
			case SlaveTranspose:
				note = transposeNote(note, int(sl.Value))
			case SlaveOctave:
				note = transposeNote(note, 12*int(sl.Value))
			case SlaveFixed:
				note = int(clamp(int32(sl.Value), 0, 127))
			case SlaveWriteThrough:
				smv := &e.midiVoices[slaveChannel(i, k-1)]
				note = transposeNote(v.note, int(sl.Value))
				bend = smv.pitchBend
			}
		}
		if k == 0 || ins.Slaves[k-1].Mode != SlaveWriteThrough {
			v.note = note
		}
		played := note
		if k == 0 || ins.Slaves[k-1].Mode != SlaveFixed {
			played = mv.transposed(note, vp.Transpose, e.patch.Transpose)
		}
		e.tickVoice(v, &vp, played, bend, 0, true)
	}
}
