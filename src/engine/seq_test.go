package engine

import "testing"

// collectSteps returns pattern*100+step of every step fired within ticks
// MIDI clocks. change is applied after the first clock.
func collectSteps(s *sequencer, p *SeqParams, ticks int, change func()) []int {
	var fired []int
	for n := 0; n < ticks; n++ {
		ev := s.tick(p, ClockTick)
		if ev.set {
			fired = append(fired, ev.pattern*100+ev.step)
		}
		if n == 0 && change != nil {
			change()
		}
	}
	return fired
}

func TestSequencerPhases(t *testing.T) {
	p := &SeqParams{Enabled: true, Length: 2}
	var s sequencer
	s.init()
	s.start(p)
	var sets, clears []int
	for n := 0; n < 12; n++ {
		ev := s.tick(p, ClockTick)
		if ev.set {
			sets = append(sets, n)
		}
		if ev.clear {
			clears = append(clears, n)
		}
	}
	expectNotes(t, sets, []int{0, 6})
	expectNotes(t, clears, []int{4, 10})

	ev := s.tick(p, ClockStop)
	expectEqual(t, ev.stop, true)
	ev = s.tick(p, ClockTick)
	expectEqual(t, ev.set, false)
}

func TestSequencerPatternSwitch(t *testing.T) {
	p := &SeqParams{Enabled: true, Length: 2}
	var s sequencer
	s.init()
	s.start(p)
	fired := collectSteps(&s, p, 19, func() { p.Pattern = 1 })
	expectNotes(t, fired, []int{0, 101, 100, 101})

	// synced switches wait for the first step of the measure
	p = &SeqParams{Enabled: true, Length: 2, SyncToMeasure: true}
	s.init()
	s.start(p)
	fired = collectSteps(&s, p, 19, func() { p.Pattern = 1 })
	expectNotes(t, fired, []int{0, 1, 100, 101})
}
