package engine

// ----- Arpeggiator ----- //

type arpEvent struct {
	on       bool
	off      bool
	note     int
	velocity uint8
}

type arp struct {
	divCtr  int
	gateCtr int
	noteCtr int
	octCtr  int
	first   bool
	stopped bool
	syncReq bool
	gate    bool
	seed    uint32
}

func (a *arp) init(seed uint32) {
	*a = arp{seed: seed | 1, first: true}
}

// sync requests a reset before the next clock.
func (a *arp) sync() {
	a.syncReq = true
}

func (a *arp) reset() {
	a.divCtr = 0
	a.gateCtr = 0
	a.noteCtr = 0
	a.octCtr = 0
	a.first = true
	a.stopped = false
}

func (a *arp) random(n int) int {
	a.seed ^= a.seed << 13
	a.seed ^= a.seed >> 17
	a.seed ^= a.seed << 5
	return int(a.seed % uint32(n))
}

// period is the number of steps of one pass over n notes.
func period(dir ArpDir, n int) int {
	if (dir == ArpAltUp || dir == ArpAltDown) && n > 1 {
		return 2*n - 2
	}
	return n
}

func (a *arp) index(dir ArpDir, n int) int {
	switch dir {
	case ArpDown:
		return n - 1 - a.noteCtr
	case ArpAltUp, ArpAltDown:
		i := a.noteCtr
		if i >= n {
			i = period(dir, n) - i
		}
		if dir == ArpAltDown {
			i = n - 1 - i
		}
		return i
	case ArpRandom:
		return a.random(n)
	}
	return a.noteCtr
}

// tick runs on every engine tick, but only advances on MIDI clocks.
func (a *arp) tick(p *ArpParams, stack *noteStack, clk ClockEvent) arpEvent {
	var ev arpEvent
	if clk.Has(ClockStart) || a.syncReq {
		a.syncReq = false
		a.reset()
	}
	if !p.Enabled || stack.len == 0 {
		if a.gate {
			a.gate = false
			ev.off = true
		}
		return ev
	}
	if !clk.Has(ClockTick) {
		return ev
	}
	if a.gate {
		a.gateCtr++
		if a.gateCtr > int(p.GateLength) {
			a.gate = false
			ev.off = true
		}
	}

	step := false
	if a.first {
		a.first = false
		a.divCtr = 0
		step = true
	} else {
		inc := 1
		if p.CAC {
			inc = stack.len
		}
		a.divCtr += inc
		if a.divCtr > int(p.Speed) {
			a.divCtr = 0
			step = true
		}
	}
	if !step || a.stopped {
		return ev
	}

	n := stack.len
	if a.noteCtr >= period(p.Dir, n) {
		a.noteCtr = 0
	}
	sn := stack.notes[a.index(p.Dir, n)]
	ev.on = true
	ev.off = false
	ev.note = transposeNote(int(sn.note), 12*a.octCtr)
	ev.velocity = sn.velocity
	a.gate = true
	a.gateCtr = 0

	a.noteCtr++
	if a.noteCtr >= period(p.Dir, n) {
		a.noteCtr = 0
		a.octCtr++
		if a.octCtr > int(p.Range) {
			a.octCtr = 0
			if p.OneShot {
				a.stopped = true
			}
		}
	}
	return ev
}
