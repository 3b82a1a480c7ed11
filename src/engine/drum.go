package engine

import "log"

// ----- Drum Engine ----- //

type drumEngine struct {
	seqPlayed [numDrumInstruments]bool
	missing   [numVoices]bool
}

func (d *drumEngine) init(e *Engine) {}

func (d *drumEngine) noteOn(e *Engine, ch int, note uint8, velocity uint8) {
	d.trigger(e, int(note)-int(e.patch.Drum.BaseNote), velocity)
}

func (d *drumEngine) noteOff(e *Engine, ch int, note uint8) {
	d.release(e, int(note)-int(e.patch.Drum.BaseNote))
}

func (d *drumEngine) model(e *Engine, ins *DrumInstrument) (*DrumModel, bool) {
	if int(ins.Model) >= len(e.drumModels) {
		return nil, false
	}
	return &e.drumModels[ins.Model], true
}

func gateLength(ins *DrumInstrument, m *DrumModel) int {
	if ins.GateLength != 0 {
		return int(ins.GateLength)
	}
	return int(m.GateLength)
}

// trigger binds a voice to the instrument and restarts it.
func (d *drumEngine) trigger(e *Engine, instrument int, velocity uint8) {
	if instrument < 0 || instrument >= numDrumInstruments {
		return
	}
	ins := &e.patch.Drum.Instruments[instrument]
	idx, stolen := e.queue.get(instrument, ins.Assign, int(ins.Voice))
	v := &e.voices[idx]
	if stolen {
		log.Printf("[WARN] drum voice %d stolen from instrument %d\n", idx, v.instrument)
	}
	v.instrument = instrument
	v.velocity = velocity
	v.accent = velocity >= accentThreshold
	v.drumWTPos = 0
	v.drumWTCtr = 0
	v.drumNote = 0
	v.drumAbs = false
	v.drumGateCtr = 0
	v.forceRecalc = true
	d.missing[idx] = false
	if m, ok := d.model(e, ins); ok {
		v.drumWave = m.Waveform
		v.drumGateCtr = gateLength(ins, m)
	}
	v.gateOn()
}

// release closes the gate unless a gate length is running.
func (d *drumEngine) release(e *Engine, instrument int) {
	if instrument < 0 || instrument >= numDrumInstruments {
		return
	}
	idx := e.queue.release(instrument)
	if idx == unbound {
		return
	}
	v := &e.voices[idx]
	m, ok := d.model(e, &e.patch.Drum.Instruments[instrument])
	if !ok || gateLength(&e.patch.Drum.Instruments[instrument], m) == 0 {
		v.gateOff()
	}
}

func (d *drumEngine) tickSeq(e *Engine, clk ClockEvent) {
	dp := &e.patch.Drum
	ev := e.seqs[0].tick(&dp.Seq, clk)
	if ev.stop {
		for i := range d.seqPlayed {
			if d.seqPlayed[i] {
				d.seqPlayed[i] = false
				d.release(e, i)
			}
		}
		return
	}
	if ev.set {
		pattern := &dp.Patterns[ev.pattern]
		for track := 0; track < numDrumTracks; track++ {
			hit := pattern.Hit(track, ev.step)
			instrument := hit.Instrument(track)
			if instrument < 0 {
				continue
			}
			ins := &dp.Instruments[instrument]
			velocity := ins.Velocity
			if hit == DrumHitAccent {
				velocity = ins.AccentVelocity
			}
			d.trigger(e, instrument, velocity)
			d.seqPlayed[instrument] = true
		}
	}
	if ev.clear {
		for i := range d.seqPlayed {
			if d.seqPlayed[i] {
				d.seqPlayed[i] = false
				d.release(e, i)
			}
		}
	}
}

func (d *drumEngine) tick(e *Engine, clk ClockEvent) {
	e.mod.clearDestinations()
	d.tickSeq(e, clk)
	for i := range e.voices {
		d.tickVoice(e, &e.voices[i])
	}
	e.tickFilters(false)
}

func (d *drumEngine) tickVoice(e *Engine, v *voice) {
	if v.instrument < 0 {
		v.regs = VoiceRegisters{}
		return
	}
	ins := &e.patch.Drum.Instruments[v.instrument]
	m, ok := d.model(e, ins)
	if !ok {
		if !d.missing[v.id] {
			d.missing[v.id] = true
			log.Printf("[WARN] drum instrument %d has no model %d\n", v.instrument, ins.Model)
		}
		v.gateActive = false
		v.regs = VoiceRegisters{}
		return
	}

	if v.drumGateCtr > 0 && v.active {
		v.drumGateCtr--
		if v.drumGateCtr == 0 {
			v.gateOff()
		}
	}
	if v.drumWTPos < len(m.Wavetable) {
		if v.drumWTCtr == 0 {
			st := m.Wavetable[v.drumWTPos]
			v.drumNote = int(st.Note)
			v.drumAbs = st.Absolute
			if st.Waveform != 0 {
				v.drumWave = st.Waveform
			}
			v.drumWTPos++
			speed := ins.Speed
			if speed == 0 {
				speed = m.Speed
			}
			v.drumWTCtr = int(speed) + 1
		}
		v.drumWTCtr--
	}

	note := v.drumNote
	if !v.drumAbs {
		note = transposeNote(int(m.BaseNote)+int(m.Tuning)+int(ins.Tune), v.drumNote)
	}
	decay := int(m.AD&0x0f) + int(v.velocity>>5)
	if decay > 0x0f {
		decay = 0x0f
	}
	vp := VoiceParams{
		Waveform:       v.drumWave,
		AttackDecay:    m.AD&0xf0 | uint8(decay),
		SustainRelease: m.SR,
		PulseWidth:     m.PulseWidth,
	}
	e.tickVoice(v, &vp, int(clamp(int32(note), 0, 127)), 0, 0, false)
}
