package audio

import (
	"log"

	"github.com/jinjor/sid-engine/src/engine"
)

const (
	ppqn = 24
	// maxPendingClocks bounds the backlog when ticks cannot keep up.
	maxPendingClocks = ppqn
	minBPM           = 20
	maxBPM           = 300
)

// ----- MIDI Clock ----- //

// midiClock turns wall time (or incoming MIDI clocks) into the clock events
// of engine ticks. An engine tick carries at most one MIDI clock.
type midiClock struct {
	bpm       float64
	phase     float64 // fraction of the next clock
	pending   int
	count     int
	external  bool
	transport engine.ClockEvent
}

func newMidiClock(bpm float64) *midiClock {
	c := &midiClock{}
	if err := c.setBPM(bpm); err != nil {
		log.Printf("[WARN] %v, using 120\n", err)
		c.bpm = 120
	}
	return c
}

func (c *midiClock) setBPM(bpm float64) error {
	if bpm < minBPM || bpm > maxBPM {
		return invalidArgument("bpm %v out of range [%d, %d]", bpm, minBPM, maxBPM)
	}
	c.bpm = bpm
	return nil
}

// advance accumulates internal clocks for the elapsed time.
func (c *midiClock) advance(seconds float64) {
	if c.external || seconds <= 0 {
		return
	}
	c.phase += seconds * c.bpm * ppqn / 60
	for c.phase >= 1 {
		c.phase--
		c.push()
	}
}

func (c *midiClock) push() {
	if c.pending >= maxPendingClocks {
		return
	}
	c.pending++
}

// receive switches to the external clock and queues one clock.
func (c *midiClock) receive() {
	if !c.external {
		log.Println("following external MIDI clock")
		c.external = true
		c.phase = 0
	}
	c.push()
}

// internal switches back to the internal clock.
func (c *midiClock) internal() {
	c.external = false
}

func (c *midiClock) start() {
	c.transport |= engine.ClockStart
	c.transport &^= engine.ClockStop
	c.count = 0
	c.pending = 0
	c.phase = 0
	if !c.external {
		// the first clock of the song coincides with start
		c.pending = 1
	}
}

func (c *midiClock) stop() {
	c.transport |= engine.ClockStop
}

func (c *midiClock) resume() {
	c.transport |= engine.ClockContinue
}

// next returns the events of one engine tick.
func (c *midiClock) next() engine.ClockEvent {
	ev := c.transport
	c.transport = 0
	if c.pending == 0 {
		return ev
	}
	c.pending--
	ev |= engine.ClockTick
	if c.count%6 == 0 {
		ev |= engine.ClockDiv6
	}
	if c.count%ppqn == 0 {
		ev |= engine.ClockDiv24
	}
	c.count++
	return ev
}
