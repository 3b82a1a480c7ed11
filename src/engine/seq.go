package engine

// ----- Pattern Sequencer ----- //

const (
	seqPhaseSet   = 0
	seqPhaseClear = 4
	seqPhaseWrap  = 6
)

type seqEvent struct {
	set     bool // decode step and open gates
	clear   bool // close gates
	stop    bool // sequencer stopped, close everything
	pattern int
	step    int
}

type sequencer struct {
	running  bool
	pattern  int
	step     int
	subPhase int
	divCtr   int
}

func (s *sequencer) init() {
	*s = sequencer{}
}

// start rewinds to the first step of the selected pattern. The first clock
// after start fires the first step.
func (s *sequencer) start(p *SeqParams) {
	s.running = true
	s.pattern = int(p.Pattern) % numPatterns
	s.step = 0
	s.subPhase = seqPhaseSet
	s.divCtr = int(p.Speed)
}

func (s *sequencer) stop() bool {
	wasRunning := s.running
	s.running = false
	return wasRunning
}

func seqLength(p *SeqParams) int {
	return int(clamp(int32(p.Length), 1, seqSteps))
}

func (s *sequencer) tick(p *SeqParams, clk ClockEvent) seqEvent {
	var ev seqEvent
	if clk.Has(ClockStart) {
		s.start(p)
	}
	if clk.Has(ClockStop) && s.stop() {
		ev.stop = true
	}
	if clk.Has(ClockContinue) {
		s.running = true
	}
	if !p.Enabled {
		if s.stop() {
			ev.stop = true
		}
		return ev
	}
	if !s.running || !clk.Has(ClockTick) {
		return ev
	}
	s.divCtr++
	if s.divCtr <= int(p.Speed) {
		return ev
	}
	s.divCtr = 0

	ev.pattern = s.pattern
	ev.step = s.step
	switch s.subPhase {
	case seqPhaseSet:
		ev.set = true
	case seqPhaseClear:
		ev.clear = true
	}
	s.subPhase++
	if s.subPhase >= seqPhaseWrap {
		s.subPhase = 0
		s.step++
		if s.step >= seqLength(p) {
			s.step = 0
		}
		next := int(p.Pattern) % numPatterns
		if next != s.pattern && (!p.SyncToMeasure || s.step == 0) {
			s.pattern = next
		}
	}
	return ev
}
