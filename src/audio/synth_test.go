package audio

import (
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/jinjor/sid-engine/src/engine"
	"gitlab.com/gomidi/midi/v2"
)

const tick = 1.0 / DefaultTickRate

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectKind(t *testing.T, err error, kind ftag.Kind) {
	t.Helper()
	if err == nil {
		t.Errorf("expected %s error, but got nil", kind)
		return
	}
	expectEqual(t, ftag.Get(err), kind)
}

func gate(f engine.RegisterFrame, voice int) bool {
	return f.Voices[voice].Control&engine.CtrlGate != 0
}

func TestSynthCommands(t *testing.T) {
	s := NewSynth(Config{})
	expectNoError(t, s.update([]string{"note_on", "60"}))
	s.Tick(tick)
	f := s.Tick(tick)
	expectEqual(t, gate(f, 0), true)

	expectNoError(t, s.update([]string{"note_off", "60"}))
	f = s.Tick(tick)
	expectEqual(t, gate(f, 0), false)

	s.Changes.Take("data")
	expectNoError(t, s.update([]string{"set", "filter", "0", "resonance", "240"}))
	expectEqual(t, s.Changes.Take("data"), true)
	expectEqual(t, s.Changes.Take("data"), false)
	f = s.Tick(tick)
	expectEqual(t, f.Filters[0].Resonance, uint8(15))

	expectNoError(t, s.update([]string{"mode", "drum"}))
	expectEqual(t, s.engine.Mode(), engine.ModeDrum)
	expectNoError(t, s.update([]string{"drum", "0", "127"}))
	s.Tick(tick)
	f = s.Tick(tick)
	expectEqual(t, gate(f, 0), true)

	_, ticks := s.Frame()
	expectEqual(t, ticks, uint64(6))
}

func TestSynthCommandErrors(t *testing.T) {
	s := NewSynth(Config{})
	expectKind(t, s.update([]string{"set", "volume", "200"}), ftag.InvalidArgument)
	expectKind(t, s.update([]string{"note_on", "128"}), ftag.InvalidArgument)
	expectKind(t, s.update([]string{"bpm", "1000"}), ftag.InvalidArgument)
	expectKind(t, s.update([]string{"load", "init"}), ftag.InvalidArgument)
	expectKind(t, s.update([]string{"warp"}), ftag.InvalidArgument)
	expectKind(t, s.update(nil), ftag.InvalidArgument)
	if err := s.update([]string{"mode", "poly"}); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}

func TestSynthParameterWriteBack(t *testing.T) {
	s := NewSynth(Config{})
	for _, cmd := range [][]string{
		{"set", "lead", "wt", "0", "assign", "2"},
		{"set", "lead", "wt", "0", "sid_mask", "1"},
		{"set", "wt_data", "0", "0x9f"},
	} {
		expectNoError(t, s.update(cmd))
	}
	s.Changes.Take("data")
	expectNoError(t, s.update([]string{"note_on", "60"}))
	s.Tick(tick)
	expectEqual(t, s.patch.Filters[0].Cutoff, uint16(0x1f*32))
	expectEqual(t, s.patch.Filters[1].Cutoff, uint16(0x800))
	expectEqual(t, s.Changes.Take("data"), true)
}

func TestSynthMidi(t *testing.T) {
	s := NewSynth(Config{})
	s.HandleMidi(midi.NoteOn(0, 60, 100))
	s.Tick(tick)
	f := s.Tick(tick)
	expectEqual(t, gate(f, 0), true)
	expectEqual(t, f.Voices[0].Frequency, f.Voices[1].Frequency)

	s.HandleMidi(midi.Pitchbend(0, 0x1fff))
	f = s.Tick(tick)
	expectEqual(t, f.Voices[0].Frequency > 0, true)

	// note on with velocity 0 ends the note
	s.HandleMidi(midi.NoteOn(0, 60, 0))
	f = s.Tick(tick)
	expectEqual(t, gate(f, 0), false)

	s.HandleMidi(midi.TimingClock())
	expectEqual(t, s.clock.external, true)
	expectEqual(t, s.clock.pending, 1)
	s.HandleMidi(midi.Start())
	ev := s.clock.next()
	expectEqual(t, ev.Has(engine.ClockStart), true)
	expectEqual(t, ev.Has(engine.ClockTick), false)
}

func TestSynthJSON(t *testing.T) {
	s := NewSynth(Config{})
	expectNoError(t, s.update([]string{"set", "name", "Acid"}))
	expectNoError(t, s.update([]string{"mode", "bassline"}))
	data, err := s.ToJSON()
	expectNoError(t, err)

	other := NewSynth(Config{})
	expectNoError(t, other.ApplyJSON(data))
	expectEqual(t, other.patch.Name, "Acid")
	expectEqual(t, other.engine.Mode(), engine.ModeBassline)
	expectKind(t, other.ApplyJSON([]byte("{")), ftag.InvalidArgument)
}
