package audio

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/jinjor/sid-engine/src/engine"
)

const (
	// DefaultTickRate is the engine update rate in Hz.
	DefaultTickRate = engine.NominalTickRate
	DefaultBPM      = 120
	commandBuffer   = 256
	defaultVelocity = 100
)

// ----- Changes ----- //

// Changes collects the keys of state modified since the last report.
type Changes struct {
	mu    sync.Mutex
	dirty map[string]bool
}

func newChanges() *Changes {
	return &Changes{dirty: make(map[string]bool)}
}

// Add marks key as modified.
func (c *Changes) Add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty[key] = true
}

// Take reports whether key was modified and clears the mark in one step, so
// that a modification racing with a report is never lost.
func (c *Changes) Take(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty[key] {
		return false
	}
	delete(c.dirty, key)
	return true
}

// ----- Synth ----- //

// Config ...
type Config struct {
	TickRate float64 // Hz
	BPM      float64
	BankDir  string
}

// Synth owns the engine and the patch it plays. All access goes through the
// mutex; the tick loop, the command processor and MIDI input run on
// separate goroutines.
type Synth struct {
	sync.Mutex
	CommandCh chan []string
	Changes   *Changes
	engine    *engine.Engine
	patch     *engine.Patch
	params    engine.ParamQueue
	clock     *midiClock
	bank      *presetManager
	frame     engine.RegisterFrame
	ticks     uint64
	tickRate  float64
}

// NewSynth ...
func NewSynth(cfg Config) *Synth {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.BPM == 0 {
		cfg.BPM = DefaultBPM
	}
	patch := engine.NewPatch(engine.ModeLead)
	s := &Synth{
		CommandCh: make(chan []string, commandBuffer),
		Changes:   newChanges(),
		patch:     patch,
		clock:     newMidiClock(cfg.BPM),
		tickRate:  cfg.TickRate,
	}
	if cfg.BankDir != "" {
		s.bank = newPresetManager(cfg.BankDir)
	}
	s.engine = engine.NewEngine(patch)
	s.engine.SetParameterWriter(&s.params)
	s.engine.SetRateScale(engine.RateScaleFor(cfg.TickRate))
	return s
}

// SetOutput connects the register output adapter.
func (s *Synth) SetOutput(w engine.RegisterWriter) {
	s.Lock()
	defer s.Unlock()
	s.engine.SetRegisterWriter(w)
}

// SetPatch replaces the patch. A different patch always rebuilds the engine.
func (s *Synth) SetPatch(p *engine.Patch) {
	s.Lock()
	defer s.Unlock()
	s.setPatch(p)
}

func (s *Synth) setPatch(p *engine.Patch) {
	s.patch = p
	s.params = engine.ParamQueue{}
	s.engine.UpdatePatch(p)
	s.Changes.Add("data")
}

// LoadFile ...
func (s *Synth) LoadFile(path string) error {
	p, err := loadPatchFile(path)
	if err != nil {
		return err
	}
	s.SetPatch(p)
	return nil
}

// ApplyJSON ...
func (s *Synth) ApplyJSON(data []byte) error {
	p, err := decodePatch(data)
	if err != nil {
		return err
	}
	s.SetPatch(p)
	return nil
}

// ToJSON ...
func (s *Synth) ToJSON() ([]byte, error) {
	s.Lock()
	defer s.Unlock()
	return json.Marshal(s.patch)
}

// Frame returns a copy of the last register frame and its tick count.
func (s *Synth) Frame() (engine.RegisterFrame, uint64) {
	s.Lock()
	defer s.Unlock()
	return s.frame, s.ticks
}

// Tick runs one engine update for the given elapsed time and applies the
// parameter writes it issued.
func (s *Synth) Tick(seconds float64) engine.RegisterFrame {
	s.Lock()
	defer s.Unlock()
	s.clock.advance(seconds)
	f := s.engine.Tick(s.clock.next())
	if s.params.Len() > 0 && s.params.Flush(s.patch) > 0 {
		s.Changes.Add("data")
	}
	s.frame = *f
	s.ticks++
	return s.frame
}

// Start ticks the engine until ctx is cancelled.
func (s *Synth) Start(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / s.tickRate)
	t := time.NewTicker(interval)
	defer t.Stop()
	last := time.Now()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Synth.Start() interrupted")
			break loop
		case now := <-t.C:
			s.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
	log.Println("Synth.Start() ended.")
	return nil
}

// ProcessCommands applies commands from CommandCh until it is closed or ctx
// is cancelled. Invalid commands are logged and skipped.
func (s *Synth) ProcessCommands(ctx context.Context) error {
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case command, ok := <-s.CommandCh:
			if !ok {
				break loop
			}
			if err := s.update(command); err != nil {
				log.Printf("failed to process command %v: %v (%s)\n", command, err, fmsg.GetIssue(err))
			}
		}
	}
	log.Println("ProcessCommands() ended.")
	return nil
}

// Close ...
func (s *Synth) Close() {
	log.Println("Closing Synth...")
	close(s.CommandCh)
}

// ----- Commands ----- //

// Command applies one command synchronously.
func (s *Synth) Command(command ...string) error {
	return s.update(command)
}

func parseArg(args []string, i int, lo int64, hi int64, def int64) (int64, error) {
	if i >= len(args) {
		return def, nil
	}
	v, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, fault.Wrap(err, fmsg.With("not a number"), fmsg.WithDesc("", "Invalid number: "+args[i]))
	}
	if v < lo || v > hi {
		return 0, invalidArgument("%d out of range [%d, %d]", v, lo, hi)
	}
	return v, nil
}

func (s *Synth) update(command []string) error {
	if len(command) == 0 {
		return invalidArgument("empty command")
	}
	s.Lock()
	defer s.Unlock()

	args := command[1:]
	switch command[0] {
	case "set":
		if err := s.patch.Set(args); err != nil {
			return err
		}
		s.engine.UpdatePatch(s.patch)
		s.Changes.Add("data")
	case "mode":
		if len(args) != 1 {
			return invalidArgument("invalid command %v", command)
		}
		mode, err := engine.EngineModeFromString(args[0])
		if err != nil {
			return fault.Wrap(err, fmsg.WithDesc("unknown mode", "Unknown mode: "+args[0]))
		}
		s.patch.Mode = mode
		s.engine.UpdatePatch(s.patch)
		s.Changes.Add("data")
	case "note_on", "note_off":
		// note_on <note> [velocity [channel]], note_off <note> [channel]
		if len(args) == 0 {
			return invalidArgument("invalid command %v", command)
		}
		note, err := parseArg(args, 0, 0, 127, 0)
		if err != nil {
			return err
		}
		if command[0] == "note_off" {
			ch, err := parseArg(args, 1, 0, 15, 0)
			if err != nil {
				return err
			}
			s.engine.NoteOff(int(ch), uint8(note))
			return nil
		}
		velocity, err := parseArg(args, 1, 0, 127, defaultVelocity)
		if err != nil {
			return err
		}
		ch, err := parseArg(args, 2, 0, 15, 0)
		if err != nil {
			return err
		}
		s.engine.NoteOn(int(ch), uint8(note), uint8(velocity))
	case "drum":
		// drum <instrument> [velocity], velocity 0 releases
		instrument, err := parseArg(args, 0, 0, 15, 0)
		if err != nil {
			return err
		}
		velocity, err := parseArg(args, 1, 0, 127, defaultVelocity)
		if err != nil {
			return err
		}
		if velocity == 0 {
			s.engine.ReleaseDrum(int(instrument))
		} else {
			s.engine.TriggerDrum(int(instrument), uint8(velocity))
		}
	case "bend":
		// bend <value -8192..8191> [channel]
		value, err := parseArg(args, 0, -0x2000, 0x1fff, 0)
		if err != nil {
			return err
		}
		ch, err := parseArg(args, 1, 0, 15, 0)
		if err != nil {
			return err
		}
		s.engine.PitchBend(int(ch), int16(value))
	case "transpose":
		value, err := parseArg(args, 0, -64, 63, 0)
		if err != nil {
			return err
		}
		ch, err := parseArg(args, 1, 0, 15, 0)
		if err != nil {
			return err
		}
		s.engine.SetTranspose(int(ch), int(value))
	case "start":
		s.clock.internal()
		s.clock.start()
	case "stop":
		s.clock.stop()
	case "continue":
		s.clock.resume()
	case "bpm":
		if len(args) != 1 {
			return invalidArgument("invalid command %v", command)
		}
		bpm, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fault.Wrap(err, fmsg.With("not a number"))
		}
		s.clock.internal()
		return s.clock.setBPM(bpm)
	case "load", "save":
		if len(args) != 1 {
			return invalidArgument("invalid command %v", command)
		}
		if s.bank == nil {
			return invalidArgument("no preset bank configured")
		}
		if command[0] == "save" {
			return s.bank.save(args[0], s.patch)
		}
		p, err := s.bank.load(args[0])
		if err != nil {
			return err
		}
		s.setPatch(p)
		log.Printf("loaded preset %s\n", args[0])
	default:
		return invalidArgument("unknown command %v", command[0])
	}
	return nil
}
