package audio

import (
	"testing"

	"github.com/jinjor/sid-engine/src/engine"
)

func TestMidiClockInternal(t *testing.T) {
	c := newMidiClock(120)
	// 48 clocks per second at 120 bpm
	c.advance(0.03)
	expectEqual(t, c.pending, 1)
	expectEqual(t, c.next(), engine.ClockTick|engine.ClockDiv6|engine.ClockDiv24)
	expectEqual(t, c.next(), engine.ClockEvent(0))

	for n := 1; n < 24; n++ {
		c.advance(1.0 / 48)
		c.advance(0.000001)
		ev := c.next()
		expectEqual(t, ev.Has(engine.ClockTick), true)
		expectEqual(t, ev.Has(engine.ClockDiv6), n%6 == 0)
		expectEqual(t, ev.Has(engine.ClockDiv24), false)
	}
	c.advance(1.0 / 48)
	expectEqual(t, c.next().Has(engine.ClockDiv24), true)
}

func TestMidiClockBacklog(t *testing.T) {
	c := newMidiClock(300)
	c.advance(10)
	expectEqual(t, c.pending, maxPendingClocks)
}

func TestMidiClockTransport(t *testing.T) {
	c := newMidiClock(120)
	c.advance(0.1)
	c.start()
	ev := c.next()
	expectEqual(t, ev, engine.ClockStart|engine.ClockTick|engine.ClockDiv6|engine.ClockDiv24)
	c.stop()
	expectEqual(t, c.next(), engine.ClockStop)
	c.resume()
	expectEqual(t, c.next(), engine.ClockContinue)

	c.receive()
	c.advance(1)
	expectEqual(t, c.pending, 1)
	c.internal()
	expectEqual(t, c.external, false)
}

func TestMidiClockBPM(t *testing.T) {
	c := newMidiClock(0)
	expectEqual(t, c.bpm, 120.0)
	expectNoError(t, c.setBPM(90))
	expectEqual(t, c.bpm, 90.0)
	if err := c.setBPM(301); err == nil {
		t.Errorf("expected error")
	}
}
