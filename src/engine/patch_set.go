package engine

import (
	"fmt"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

func invalidArgument(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fault.New(msg, fmsg.WithDesc(msg, "Invalid parameter: "+msg), ftag.With(ftag.InvalidArgument))
}

func parseInt(value string, lo int64, hi int64) (int64, error) {
	v, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return 0, fault.Wrap(err, fmsg.With("not a number"), ftag.With(ftag.InvalidArgument))
	}
	if v < lo || v > hi {
		return 0, invalidArgument("%d out of range [%d, %d]", v, lo, hi)
	}
	return v, nil
}

func setUint8(dst *uint8, value string) error {
	v, err := parseInt(value, 0, 0xff)
	if err != nil {
		return err
	}
	*dst = uint8(v)
	return nil
}

func setInt8(dst *int8, value string) error {
	v, err := parseInt(value, -128, 127)
	if err != nil {
		return err
	}
	*dst = int8(v)
	return nil
}

func setUint16(dst *uint16, value string, max int64) error {
	v, err := parseInt(value, 0, max)
	if err != nil {
		return err
	}
	*dst = uint16(v)
	return nil
}

func setBool(dst *bool, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fault.Wrap(err, fmsg.With("not a boolean"), ftag.With(ftag.InvalidArgument))
	}
	*dst = v
	return nil
}

func index(value string, n int) (int, error) {
	v, err := parseInt(value, 0, int64(n-1))
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func unknownKey(block string, key string) error {
	return invalidArgument("unknown key %s.%s", block, key)
}

// ----- Set ----- //

// Set changes one parameter addressed by a command such as
// ["filter", "0", "cutoff", "2048"] or ["lead", "lfo", "1", "rate", "80"].
func (p *Patch) Set(command []string) error {
	if len(command) < 2 {
		return invalidArgument("invalid command %v", command)
	}
	switch command[0] {
	case "name":
		p.Name = command[1]
		return nil
	case "mode":
		mode, err := EngineModeFromString(command[1])
		if err != nil {
			return fault.Wrap(err, ftag.With(ftag.InvalidArgument))
		}
		p.Mode = mode
		return nil
	case "volume":
		v, err := parseInt(command[1], 0, 127)
		if err != nil {
			return err
		}
		p.Volume = uint8(v)
		return nil
	case "transpose":
		return setInt8(&p.Transpose, command[1])
	case "adsr_bug":
		return setBool(&p.Options.ADSRBugWorkaround, command[1])
	case "wt_data":
		if len(command) != 3 {
			return invalidArgument("invalid command %v", command)
		}
		i, err := index(command[1], wtDataSize)
		if err != nil {
			return err
		}
		return setUint8(&p.WTData[i], command[2])
	case "filter":
		if len(command) != 4 {
			return invalidArgument("invalid command %v", command)
		}
		i, err := index(command[1], numSIDs)
		if err != nil {
			return err
		}
		return p.setFilter(i, command[2], command[3])
	case "lead":
		return p.Lead.set(command[1:])
	case "bassline":
		return p.Bassline.set(command[1:])
	case "drum":
		return p.Drum.set(command[1:])
	case "multi":
		return p.Multi.set(command[1:])
	}
	return invalidArgument("unknown block %s", command[0])
}

func (p *Patch) setFilter(i int, key string, value string) error {
	f := &p.Filters[i]
	switch key {
	case "cutoff":
		return setUint16(&f.Cutoff, value, 0xfff)
	case "resonance":
		return setUint8(&f.Resonance, value)
	case "channels":
		return setUint8(&f.Channels, value)
	case "mode":
		return setUint8(&f.Mode, value)
	case "keytrack":
		return setUint8(&f.KeyTrack, value)
	case "cal_min":
		return setUint16(&p.Options.Calibration[i].Min, value, 0xfff)
	case "cal_max":
		return setUint16(&p.Options.Calibration[i].Max, value, 0xfff)
	}
	return unknownKey("filter", key)
}

func (l *LeadPatch) set(command []string) error {
	switch command[0] {
	case "detune":
		if len(command) != 2 {
			return invalidArgument("invalid command %v", command)
		}
		return setUint8(&l.Detune, command[1])
	case "legato":
		if len(command) != 2 {
			return invalidArgument("invalid command %v", command)
		}
		return setBool(&l.Legato, command[1])
	case "arp":
		if len(command) != 3 {
			return invalidArgument("invalid command %v", command)
		}
		return l.Arp.set(command[1], command[2])
	}
	if len(command) != 4 {
		return invalidArgument("invalid command %v", command)
	}
	var n int
	switch command[0] {
	case "voice":
		n = numVoices
	case "env":
		n = numEnvs
	case "lfo":
		n = numLfos
	case "mod":
		n = numModSlots
	case "wt":
		n = numWts
	case "trigger":
		n = numTriggerSources
	default:
		return invalidArgument("unknown block lead.%s", command[0])
	}
	i, err := index(command[1], n)
	if err != nil {
		return err
	}
	key, value := command[2], command[3]
	switch command[0] {
	case "voice":
		return l.Voices[i].set(key, value)
	case "env":
		return l.Envs[i].set(key, value)
	case "lfo":
		return l.Lfos[i].set(key, value)
	case "mod":
		return l.Mods[i].set(key, value)
	case "wt":
		return l.Wts[i].set(key, value)
	default:
		if key != "mask" {
			return unknownKey("trigger", key)
		}
		v, err := parseInt(value, 0, 0xffffff)
		if err != nil {
			return err
		}
		l.Triggers[i] = uint32(v)
		return nil
	}
}

func (b *BasslinePatch) set(command []string) error {
	if len(command) < 4 {
		return invalidArgument("invalid command %v", command)
	}
	i, err := index(command[0], numSIDs)
	if err != nil {
		return err
	}
	ins := &b.Instruments[i]
	switch command[1] {
	case "voice":
		return ins.Voice.set(command[2], command[3])
	case "env":
		return ins.Env.set(command[2], command[3])
	case "wt":
		return ins.Wt.set(command[2], command[3])
	case "arp":
		return ins.Arp.set(command[2], command[3])
	case "seq":
		return ins.Seq.set(command[2], command[3])
	case "lfo", "slave":
		if len(command) != 5 {
			return invalidArgument("invalid command %v", command)
		}
		j, err := index(command[2], 2)
		if err != nil {
			return err
		}
		if command[1] == "lfo" {
			return ins.Lfos[j].set(command[3], command[4])
		}
		return ins.Slaves[j].set(command[3], command[4])
	case "step":
		// step <pattern> <step> <byte0> <byte1>
		if len(command) != 6 {
			return invalidArgument("invalid command %v", command)
		}
		pt, err := index(command[2], numPatterns)
		if err != nil {
			return err
		}
		st, err := index(command[3], seqSteps)
		if err != nil {
			return err
		}
		if err := setUint8(&ins.Patterns[pt][2*st], command[4]); err != nil {
			return err
		}
		return setUint8(&ins.Patterns[pt][2*st+1], command[5])
	case "note":
		// note <pattern> <step> <0..47> [gate] [slide] [accent]
		if len(command) < 5 {
			return invalidArgument("invalid command %v", command)
		}
		pt, err := index(command[2], numPatterns)
		if err != nil {
			return err
		}
		st, err := index(command[3], seqSteps)
		if err != nil {
			return err
		}
		n, err := index(command[4], 48)
		if err != nil {
			return err
		}
		s := ins.Patterns[pt].Step(st)
		s.Note, s.Octave = uint8(n%12), uint8(n/12)
		s.Gate, s.Slide, s.Accent = false, false, false
		for _, flag := range command[5:] {
			switch flag {
			case "gate":
				s.Gate = true
			case "slide":
				s.Slide = true
			case "accent":
				s.Accent = true
			default:
				return invalidArgument("unknown step flag %s", flag)
			}
		}
		ins.Patterns[pt].SetStep(st, s)
		return nil
	}
	return invalidArgument("unknown block bassline.%s", command[1])
}

func (d *DrumPatch) set(command []string) error {
	switch command[0] {
	case "seq":
		if len(command) != 3 {
			return invalidArgument("invalid command %v", command)
		}
		return d.Seq.set(command[1], command[2])
	case "base_note":
		if len(command) != 2 {
			return invalidArgument("invalid command %v", command)
		}
		return setUint8(&d.BaseNote, command[1])
	case "hit":
		// hit <pattern> <track> <step> <none|normal|accent|secondary>
		if len(command) != 5 {
			return invalidArgument("invalid command %v", command)
		}
		pt, err := index(command[1], numPatterns)
		if err != nil {
			return err
		}
		tr, err := index(command[2], numDrumTracks)
		if err != nil {
			return err
		}
		st, err := index(command[3], seqSteps)
		if err != nil {
			return err
		}
		hit, err := DrumHitFromString(command[4])
		if err != nil {
			return err
		}
		d.Patterns[pt].SetHit(tr, st, hit)
		return nil
	}
	if len(command) != 3 {
		return invalidArgument("invalid command %v", command)
	}
	i, err := index(command[0], numDrumInstruments)
	if err != nil {
		return err
	}
	ins := &d.Instruments[i]
	value := command[2]
	switch command[1] {
	case "model":
		return setUint8(&ins.Model, value)
	case "assign":
		return setAssign(&ins.Assign, value)
	case "voice":
		return setUint8(&ins.Voice, value)
	case "tune":
		return setInt8(&ins.Tune, value)
	case "gate_length":
		return setUint8(&ins.GateLength, value)
	case "velocity":
		return setUint8(&ins.Velocity, value)
	case "accent_velocity":
		return setUint8(&ins.AccentVelocity, value)
	case "speed":
		return setUint8(&ins.Speed, value)
	}
	return unknownKey("drum", command[1])
}

func (m *MultiPatch) set(command []string) error {
	if len(command) < 3 {
		return invalidArgument("invalid command %v", command)
	}
	i, err := index(command[0], numMidiVoices)
	if err != nil {
		return err
	}
	ins := &m.Instruments[i]
	if len(command) == 3 {
		switch command[1] {
		case "assign":
			return setAssign(&ins.Assign, command[2])
		case "direct":
			return setUint8(&ins.Direct, command[2])
		}
		return unknownKey("multi", command[1])
	}
	switch command[1] {
	case "voice":
		return ins.Voice.set(command[2], command[3])
	case "env":
		return ins.Env.set(command[2], command[3])
	case "wt":
		if command[2] == "mod_control" {
			return invalidArgument("multi instruments have no wavetable modulation")
		}
		return ins.Wt.set(command[2], command[3])
	case "arp":
		return ins.Arp.set(command[2], command[3])
	case "lfo":
		if len(command) != 5 {
			return invalidArgument("invalid command %v", command)
		}
		j, err := index(command[2], 2)
		if err != nil {
			return err
		}
		return ins.Lfos[j].set(command[3], command[4])
	}
	return invalidArgument("unknown block multi.%s", command[1])
}

func setAssign(dst *AssignPolicy, value string) error {
	switch value {
	case "all":
		*dst = AssignAll
	case "left":
		*dst = AssignLeft
	case "right":
		*dst = AssignRight
	case "direct":
		*dst = AssignDirect
	default:
		return invalidArgument("unknown assign policy %s", value)
	}
	return nil
}

// ----- Blocks ----- //

func (v *VoiceParams) set(key string, value string) error {
	switch key {
	case "waveform":
		return setUint8(&v.Waveform, value)
	case "ad":
		return setUint8(&v.AttackDecay, value)
	case "sr":
		return setUint8(&v.SustainRelease, value)
	case "pw":
		return setUint16(&v.PulseWidth, value, 0xfff)
	case "transpose":
		return setInt8(&v.Transpose, value)
	case "fine":
		return setInt8(&v.FineTune, value)
	case "pitch_range":
		return setUint8(&v.PitchRange, value)
	case "portamento":
		return setUint8(&v.Portamento, value)
	case "constant_time":
		return setBool(&v.ConstantTime, value)
	case "glissando":
		return setBool(&v.Glissando, value)
	case "sus_key":
		return setBool(&v.SusKey, value)
	case "delayed_gate":
		return setUint8(&v.DelayedGate, value)
	case "osc_phase":
		return setUint8(&v.OscPhase, value)
	}
	return unknownKey("voice", key)
}

func (e *EnvParams) set(key string, value string) error {
	u8 := map[string]*uint8{
		"delay":         &e.Delay,
		"attack":        &e.Attack,
		"attack_level":  &e.AttackLevel,
		"attack2":       &e.Attack2,
		"decay":         &e.Decay,
		"decay_level":   &e.DecayLevel,
		"decay2":        &e.Decay2,
		"sustain":       &e.Sustain,
		"release":       &e.Release,
		"release_level": &e.ReleaseLevel,
		"release2":      &e.Release2,
		"decay_accent":  &e.DecayAccent,
		"accent":        &e.Accent,
	}
	if dst, ok := u8[key]; ok {
		return setUint8(dst, value)
	}
	s8 := map[string]*int8{
		"attack_curve":  &e.AttackCurve,
		"decay_curve":   &e.DecayCurve,
		"release_curve": &e.ReleaseCurve,
		"depth_pitch":   &e.DepthPitch,
		"depth_pw":      &e.DepthPW,
		"depth_filter":  &e.DepthFilter,
	}
	if dst, ok := s8[key]; ok {
		return setInt8(dst, value)
	}
	return unknownKey("env", key)
}

func (l *LfoParams) set(key string, value string) error {
	switch key {
	case "enabled":
		return setBool(&l.Enabled, value)
	case "wave":
		switch value {
		case "sine":
			l.Waveform = LfoSine
		case "triangle":
			l.Waveform = LfoTriangle
		case "saw":
			l.Waveform = LfoSaw
		case "pulse":
			l.Waveform = LfoPulse
		case "random":
			l.Waveform = LfoRandom
		default:
			return invalidArgument("unknown lfo wave %s", value)
		}
		return nil
	case "unipolar":
		return setBool(&l.Unipolar, value)
	case "key_sync":
		return setBool(&l.KeySync, value)
	case "clock_sync":
		return setBool(&l.ClockSync, value)
	case "one_shot":
		return setBool(&l.OneShot, value)
	case "rate":
		return setUint8(&l.Rate, value)
	case "phase":
		return setUint8(&l.Phase, value)
	case "duty":
		return setUint8(&l.Duty, value)
	case "depth":
		return setInt8(&l.Depth, value)
	case "depth_pitch":
		return setInt8(&l.DepthPitch, value)
	case "depth_pw":
		return setInt8(&l.DepthPW, value)
	case "depth_filter":
		return setInt8(&l.DepthFilter, value)
	}
	return unknownKey("lfo", key)
}

func (m *ModParams) set(key string, value string) error {
	switch key {
	case "src1":
		return setUint8(&m.Src1, value)
	case "src2":
		return setUint8(&m.Src2, value)
	case "op":
		return setUint8(&m.Op, value)
	case "depth":
		return setInt8(&m.Depth, value)
	case "target1":
		return setUint8(&m.Target1, value)
	case "target2":
		return setUint8(&m.Target2, value)
	case "direct":
		return setUint16(&m.Direct, value, 0xffff)
	}
	return unknownKey("mod", key)
}

func (w *WTParams) set(key string, value string) error {
	switch key {
	case "speed":
		return setUint8(&w.Speed, value)
	case "clock_sync":
		return setBool(&w.ClockSync, value)
	case "assign":
		return setUint8(&w.Assign, value)
	case "sid_mask":
		return setUint8(&w.SIDMask, value)
	case "begin":
		return setUint8(&w.Begin, value)
	case "end":
		return setUint8(&w.End, value)
	case "loop":
		return setUint8(&w.Loop, value)
	case "one_shot":
		return setBool(&w.OneShot, value)
	case "key_control":
		return setBool(&w.KeyControl, value)
	case "mod_control":
		return setBool(&w.ModControl, value)
	}
	return unknownKey("wt", key)
}

func (a *ArpParams) set(key string, value string) error {
	switch key {
	case "enabled":
		return setBool(&a.Enabled, value)
	case "dir":
		switch value {
		case "up":
			a.Dir = ArpUp
		case "down":
			a.Dir = ArpDown
		case "alt_up":
			a.Dir = ArpAltUp
		case "alt_down":
			a.Dir = ArpAltDown
		case "random":
			a.Dir = ArpRandom
		default:
			return invalidArgument("unknown arp direction %s", value)
		}
		return nil
	case "hold":
		return setBool(&a.Hold, value)
	case "sorted":
		return setBool(&a.Sorted, value)
	case "sync":
		return setBool(&a.Sync, value)
	case "one_shot":
		return setBool(&a.OneShot, value)
	case "cac":
		return setBool(&a.CAC, value)
	case "speed":
		return setUint8(&a.Speed, value)
	case "gate_length":
		return setUint8(&a.GateLength, value)
	case "range":
		return setUint8(&a.Range, value)
	}
	return unknownKey("arp", key)
}

func (s *SeqParams) set(key string, value string) error {
	switch key {
	case "enabled":
		return setBool(&s.Enabled, value)
	case "speed":
		return setUint8(&s.Speed, value)
	case "length":
		v, err := parseInt(value, 1, seqSteps)
		if err != nil {
			return err
		}
		s.Length = uint8(v)
		return nil
	case "pattern":
		v, err := parseInt(value, 0, numPatterns-1)
		if err != nil {
			return err
		}
		s.Pattern = uint8(v)
		return nil
	case "sync_to_measure":
		return setBool(&s.SyncToMeasure, value)
	case "param_assign":
		return setUint8(&s.ParamAssign, value)
	case "base_note":
		return setUint8(&s.BaseNote, value)
	}
	return unknownKey("seq", key)
}

func (s *SlaveOsc) set(key string, value string) error {
	switch key {
	case "mode":
		switch value {
		case "off":
			s.Mode = SlaveOff
		case "transpose":
			s.Mode = SlaveTranspose
		case "octave":
			s.Mode = SlaveOctave
		case "fixed":
			s.Mode = SlaveFixed
		case "write_through":
			s.Mode = SlaveWriteThrough
		default:
			return invalidArgument("unknown slave mode %s", value)
		}
		return nil
	case "value":
		return setInt8(&s.Value, value)
	case "waveform":
		return setUint8(&s.Waveform, value)
	case "pw":
		return setUint16(&s.PulseWidth, value, 0xfff)
	}
	return unknownKey("slave", key)
}
