package engine

// ----- Clock Events ----- //

// ClockEvent is a set of transport and clock events delivered with one tick.
type ClockEvent uint8

const (
	// ClockTick is one MIDI clock (24 ppqn).
	ClockTick ClockEvent = 1 << iota
	// ClockDiv6 fires on every 6th clock (16th note).
	ClockDiv6
	// ClockDiv24 fires on every 24th clock (quarter note).
	ClockDiv24
	ClockStart
	ClockStop
	ClockContinue
)

// Has ...
func (c ClockEvent) Has(flag ClockEvent) bool {
	return c&flag != 0
}
