package audio

import (
	"context"
	"log"
	"strings"

	"github.com/jinjor/sid-engine/src/engine"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/rtmididrv"
)

// MIDI controller numbers forwarded to the engine.
const (
	ccModWheel = 1
)

// ListenToMidiIn forwards raw messages of the first MIDI IN port whose name
// contains port (any port if empty) until ctx is cancelled.
func ListenToMidiIn(ctx context.Context, port string) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)

		found := -1
		for i, in := range ins {
			if port == "" || strings.Contains(in.String(), port) {
				found = i
				break
			}
		}
		if found < 0 {
			log.Printf("[WARN] MIDI IN %q not found\n", port)
			return
		}
		in := ins[found]
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
				log.Println("[WARN] MIDI IN buffer full")
			}
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}

// ForwardMidi feeds messages from ch into the synth until ch is closed or
// ctx is cancelled.
func (s *Synth) ForwardMidi(ctx context.Context, ch <-chan []byte) error {
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case data, ok := <-ch:
			if !ok {
				break loop
			}
			s.HandleMidi(data)
		}
	}
	log.Println("ForwardMidi() ended.")
	return nil
}

// HandleMidi decodes one MIDI message into engine events. The MIDI channel
// selects the instrument in Bassline and Multi mode.
func (s *Synth) HandleMidi(data []byte) {
	msg := midi.Message(data)
	var ch, key, vel, cc, val uint8
	var rel int16
	var abs uint16

	s.Lock()
	defer s.Unlock()
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		s.engine.NoteOn(int(ch), key, vel)
	case msg.GetNoteEnd(&ch, &key):
		s.engine.NoteOff(int(ch), key)
	case msg.GetPitchBend(&ch, &rel, &abs):
		s.engine.PitchBend(int(ch), rel)
	case msg.GetControlChange(&ch, &cc, &val):
		if cc == ccModWheel {
			s.engine.SetController(int(ch), engine.ControllerModWheel, val)
		}
	case msg.GetAfterTouch(&ch, &val):
		s.engine.SetController(int(ch), engine.ControllerAftertouch, val)
	case msg.Is(midi.TimingClockMsg):
		s.clock.receive()
	case msg.Is(midi.StartMsg):
		s.clock.start()
	case msg.Is(midi.StopMsg):
		s.clock.stop()
	case msg.Is(midi.ContinueMsg):
		s.clock.resume()
	}
}
