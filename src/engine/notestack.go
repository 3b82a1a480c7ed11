package engine

// ----- Note Stack ----- //

const noteStackSize = 10

const (
	// stackRecentFirst keeps the last played note on top (mono key priority).
	stackRecentFirst = iota
	// stackPlayOrder keeps notes in the order they were played.
	stackPlayOrder
	// stackSorted keeps notes in ascending pitch order.
	stackSorted
)

type stackNote struct {
	note     uint8
	velocity uint8
}

type noteStack struct {
	notes [noteStackSize]stackNote
	len   int
	order int
}

func (s *noteStack) clear() {
	s.len = 0
}

func (s *noteStack) find(note uint8) int {
	for i := 0; i < s.len; i++ {
		if s.notes[i].note == note {
			return i
		}
	}
	return -1
}

func (s *noteStack) removeAt(i int) {
	copy(s.notes[i:s.len], s.notes[i+1:s.len])
	s.len--
}

// push adds a note, dropping the oldest one when the stack is full.
func (s *noteStack) push(note uint8, velocity uint8) {
	if i := s.find(note); i >= 0 {
		s.removeAt(i)
	}
	if s.len == noteStackSize {
		if s.order == stackRecentFirst {
			s.len--
		} else {
			s.removeAt(0)
		}
	}
	pos := 0
	switch s.order {
	case stackPlayOrder:
		pos = s.len
	case stackSorted:
		for pos < s.len && s.notes[pos].note < note {
			pos++
		}
	}
	copy(s.notes[pos+1:s.len+1], s.notes[pos:s.len])
	s.notes[pos] = stackNote{note: note, velocity: velocity}
	s.len++
}

// pop removes a note and reports whether it was held.
func (s *noteStack) pop(note uint8) bool {
	i := s.find(note)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	return true
}

func (s *noteStack) top() (stackNote, bool) {
	if s.len == 0 {
		return stackNote{}, false
	}
	if s.order == stackRecentFirst {
		return s.notes[0], true
	}
	return s.notes[s.len-1], true
}
