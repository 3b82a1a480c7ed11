package engine

// ----- Parameter Write-back ----- //

// ParamID names a patch parameter that wavetables and sequencer parameter
// tracks can write to.
type ParamID uint8

const (
	ParamNone ParamID = iota
	ParamVolume
	ParamCutoff
	ParamResonance
	ParamPulseWidth
	ParamTranspose
	ParamFineTune
	ParamWaveform
	ParamPortamento
	ParamEnvAttack
	ParamEnvDecay
	ParamEnvSustain
	ParamEnvRelease
	ParamLfoRate
	ParamLfoDepth
	numParamIDs
)

// ParameterWrite is a 7-bit value addressed to a parameter. Relative writes
// carry a signed offset instead. SIDMask selects the chips (bit 0 left,
// bit 1 right) and Instrument the instrument of Bassline and Multi patches.
type ParameterWrite struct {
	ID         ParamID
	Value      int
	Relative   bool
	SIDMask    uint8
	Instrument int
}

// ParameterWriter receives parameter writes issued during a tick.
type ParameterWriter interface {
	WriteParameter(w ParameterWrite)
}

// ParamQueue buffers writes of one tick so that the patch stays unchanged
// until the tick is complete.
type ParamQueue struct {
	writes []ParameterWrite
}

// WriteParameter ...
func (q *ParamQueue) WriteParameter(w ParameterWrite) {
	q.writes = append(q.writes, w)
}

// Len ...
func (q *ParamQueue) Len() int {
	return len(q.writes)
}

// Flush applies and forgets all queued writes. It returns the number of
// writes that changed the patch.
func (q *ParamQueue) Flush(p *Patch) int {
	changed := 0
	for _, w := range q.writes {
		if p.ApplyParameter(w) {
			changed++
		}
	}
	q.writes = q.writes[:0]
	return changed
}

// ----- Apply ----- //

func applyValue(cur int32, w ParameterWrite, scale int32, lo int32, hi int32) int32 {
	var v int32
	if w.Relative {
		v = cur + int32(w.Value)*scale
	} else {
		v = int32(w.Value) * scale
	}
	return clamp(v, lo, hi)
}

// ApplyParameter executes one write. It returns false when nothing in the
// patch is addressed by it.
func (p *Patch) ApplyParameter(w ParameterWrite) bool {
	applied := false
	switch w.ID {
	case ParamVolume:
		p.Volume = uint8(applyValue(int32(p.Volume), w, 1, 0, 127))
		applied = true
	case ParamCutoff, ParamResonance:
		for i := range p.Filters {
			if w.SIDMask&(1<<i) == 0 {
				continue
			}
			f := &p.Filters[i]
			if w.ID == ParamCutoff {
				f.Cutoff = uint16(applyValue(int32(f.Cutoff), w, 32, 0, 0xfff))
			} else {
				f.Resonance = uint8(applyValue(int32(f.Resonance), w, 2, 0, 0xff))
			}
			applied = true
		}
	case ParamPulseWidth, ParamTranspose, ParamFineTune, ParamWaveform, ParamPortamento:
		for _, v := range p.voiceParams(w) {
			switch w.ID {
			case ParamPulseWidth:
				v.PulseWidth = uint16(applyValue(int32(v.PulseWidth), w, 32, 0, 0xfff))
			case ParamTranspose:
				if w.Relative {
					v.Transpose = int8(applyValue(int32(v.Transpose), w, 1, -64, 63))
				} else {
					v.Transpose = int8(clamp(int32(w.Value)-64, -64, 63))
				}
			case ParamFineTune:
				if w.Relative {
					v.FineTune = int8(applyValue(int32(v.FineTune), w, 1, -128, 127))
				} else {
					v.FineTune = int8(clamp((int32(w.Value)-64)*2, -128, 127))
				}
			case ParamWaveform:
				v.Waveform = uint8(applyValue(int32(v.Waveform), w, 1, 0, 0x7f))
			case ParamPortamento:
				v.Portamento = uint8(applyValue(int32(v.Portamento), w, 2, 0, 0xff))
			}
			applied = true
		}
	case ParamEnvAttack, ParamEnvDecay, ParamEnvSustain, ParamEnvRelease:
		for _, env := range p.envParams(w) {
			var field *uint8
			switch w.ID {
			case ParamEnvAttack:
				field = &env.Attack
			case ParamEnvDecay:
				field = &env.Decay
			case ParamEnvSustain:
				field = &env.Sustain
			case ParamEnvRelease:
				field = &env.Release
			}
			*field = uint8(applyValue(int32(*field), w, 2, 0, 0xff))
			applied = true
		}
	case ParamLfoRate, ParamLfoDepth:
		for _, l := range p.lfoParams(w) {
			if w.ID == ParamLfoRate {
				l.Rate = uint8(applyValue(int32(l.Rate), w, 2, 0, 0xff))
			} else if w.Relative {
				l.Depth = int8(applyValue(int32(l.Depth), w, 1, -128, 127))
			} else {
				l.Depth = int8(clamp((int32(w.Value)-64)*2, -128, 127))
			}
			applied = true
		}
	}
	return applied
}

func (p *Patch) voiceParams(w ParameterWrite) []*VoiceParams {
	var out []*VoiceParams
	switch p.Mode {
	case ModeLead:
		for i := range p.Lead.Voices {
			if w.SIDMask&(1<<(i/voicesPerSID)) != 0 {
				out = append(out, &p.Lead.Voices[i])
			}
		}
	case ModeBassline:
		for i := range p.Bassline.Instruments {
			if w.Instrument == i || w.SIDMask&(1<<i) != 0 {
				out = append(out, &p.Bassline.Instruments[i].Voice)
			}
		}
	case ModeMulti:
		if w.Instrument >= 0 && w.Instrument < numMidiVoices {
			out = append(out, &p.Multi.Instruments[w.Instrument].Voice)
		}
	}
	return out
}

func (p *Patch) envParams(w ParameterWrite) []*EnvParams {
	var out []*EnvParams
	switch p.Mode {
	case ModeLead:
		for i := range p.Lead.Envs {
			out = append(out, &p.Lead.Envs[i])
		}
	case ModeBassline:
		if w.Instrument >= 0 && w.Instrument < numSIDs {
			out = append(out, &p.Bassline.Instruments[w.Instrument].Env)
		}
	case ModeMulti:
		if w.Instrument >= 0 && w.Instrument < numMidiVoices {
			out = append(out, &p.Multi.Instruments[w.Instrument].Env)
		}
	}
	return out
}

func (p *Patch) lfoParams(w ParameterWrite) []*LfoParams {
	var out []*LfoParams
	switch p.Mode {
	case ModeLead:
		out = append(out, &p.Lead.Lfos[0])
	case ModeBassline:
		if w.Instrument >= 0 && w.Instrument < numSIDs {
			out = append(out, &p.Bassline.Instruments[w.Instrument].Lfos[0])
		}
	case ModeMulti:
		if w.Instrument >= 0 && w.Instrument < numMidiVoices {
			out = append(out, &p.Multi.Instruments[w.Instrument].Lfos[0])
		}
	}
	return out
}
