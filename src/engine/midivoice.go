package engine

// ----- MIDI Voice ----- //

// midiVoice is the per-channel input state: held keys, the arpeggiator and
// controllers.
type midiVoice struct {
	keys       noteStack
	arpKeys    noteStack
	arp        arp
	note       int
	velocity   uint8
	pitchBend  int32 // -0x2000..0x1fff
	transpose  int
	modWheel   uint8
	aftertouch uint8

	arpWasEnabled bool
	arpWasHold    bool
}

func (m *midiVoice) init(seed uint32) {
	*m = midiVoice{note: 60}
	m.keys.order = stackRecentFirst
	m.arpKeys.order = stackPlayOrder
	m.arp.init(seed)
}

// keyOn records a pressed key and reports whether it is the only one held.
func (m *midiVoice) keyOn(note uint8, velocity uint8, p *ArpParams) bool {
	first := m.keys.len == 0
	m.keys.push(note, velocity)
	m.velocity = velocity
	if p.Enabled {
		if p.Sorted {
			m.arpKeys.order = stackSorted
		} else {
			m.arpKeys.order = stackPlayOrder
		}
		if p.Hold && first {
			m.arpKeys.clear()
		}
		wasEmpty := m.arpKeys.len == 0
		m.arpKeys.push(note, velocity)
		if wasEmpty || p.Sync {
			m.arp.sync()
		}
	}
	return first
}

// keyOff removes a released key and reports whether no key is held anymore.
func (m *midiVoice) keyOff(note uint8, p *ArpParams) bool {
	m.keys.pop(note)
	if p.Enabled && !p.Hold {
		m.arpKeys.pop(note)
	}
	return m.keys.len == 0
}

// checkArp clears the arpeggiator notes when the arpeggiator was disabled
// or lost its hold mode. It returns true when a note off has to be issued.
func (m *midiVoice) checkArp(p *ArpParams) bool {
	lost := (m.arpWasEnabled && !p.Enabled) || (m.arpWasHold && !p.Hold && p.Enabled)
	m.arpWasEnabled = p.Enabled
	m.arpWasHold = p.Hold && p.Enabled
	if !lost {
		return false
	}
	m.arpKeys.clear()
	m.arp.gate = false
	return true
}

func (m *midiVoice) transposed(note int, voiceTranspose int8, patchTranspose int8) int {
	n := transposeNote(note, int(voiceTranspose))
	n = transposeNote(n, int(patchTranspose))
	return transposeNote(n, m.transpose)
}
