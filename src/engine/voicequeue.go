package engine

// ----- Voice Allocation Queue ----- //

const unbound = -1

type voiceQueue struct {
	bound      [numVoices]int // instrument per voice
	releasable [numVoices]bool
	lastUse    [numVoices]uint32
	clock      uint32
	next       [numSIDs + 1]int // round robin start per pool
}

func (q *voiceQueue) init() {
	*q = voiceQueue{}
	for i := range q.bound {
		q.bound[i] = unbound
	}
}

// pool returns the voice range [lo, hi) an instrument may use, and the
// round robin slot of the pool.
func pool(policy AssignPolicy, direct int) (int, int, int) {
	switch policy {
	case AssignLeft:
		return 0, voicesPerSID, 1
	case AssignRight:
		return voicesPerSID, numVoices, 2
	case AssignDirect:
		d := direct % numVoices
		if d < 0 {
			d = 0
		}
		return d, d + 1, -1
	}
	return 0, numVoices, 0
}

func (q *voiceQueue) touch(v int, instrument int) int {
	q.clock++
	q.bound[v] = instrument
	q.releasable[v] = false
	q.lastUse[v] = q.clock
	return v
}

// get returns the voice for an instrument and whether another instrument
// was evicted from it.
func (q *voiceQueue) get(instrument int, policy AssignPolicy, direct int) (int, bool) {
	lo, hi, rr := pool(policy, direct)
	for v := lo; v < hi; v++ {
		if q.bound[v] == instrument {
			return q.touch(v, instrument), false
		}
	}
	start := lo
	if rr >= 0 {
		start = q.next[rr]
		if start < lo || start >= hi {
			start = lo
		}
	}
	n := hi - lo
	for i := 0; i < n; i++ {
		v := lo + (start-lo+i)%n
		if q.bound[v] == unbound {
			if rr >= 0 {
				q.next[rr] = v + 1
			}
			return q.touch(v, instrument), false
		}
	}
	best := -1
	for v := lo; v < hi; v++ {
		if q.releasable[v] && (best < 0 || q.lastUse[v] < q.lastUse[best]) {
			best = v
		}
	}
	if best >= 0 {
		return q.touch(best, instrument), false
	}
	best = lo
	for v := lo; v < hi; v++ {
		if q.lastUse[v] < q.lastUse[best] {
			best = v
		}
	}
	return q.touch(best, instrument), true
}

// release marks the voice of an instrument as reusable. The binding is kept
// so that a retrigger finds the same voice.
func (q *voiceQueue) release(instrument int) int {
	for v := range q.bound {
		if q.bound[v] == instrument {
			q.releasable[v] = true
			return v
		}
	}
	return unbound
}

func (q *voiceQueue) voiceOf(instrument int) int {
	for v := range q.bound {
		if q.bound[v] == instrument {
			return v
		}
	}
	return unbound
}
