package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/jinjor/sid-engine/src/audio"
	"golang.org/x/sync/errgroup"
)

var (
	patchFile    = flag.String("patch", "", "patch JSON file loaded at startup")
	bankDir      = flag.String("bank", "", "preset bank directory (with _list.json)")
	tickRate     = flag.Float64("tick", audio.DefaultTickRate, "engine update rate in Hz")
	bpm          = flag.Float64("bpm", audio.DefaultBPM, "internal clock tempo")
	midiPort     = flag.String("midi", "", "MIDI IN port name (substring); \"-\" disables MIDI")
	enableAudio  = flag.Bool("audio", false, "play a software preview of the register frames")
	sockFileName = flag.String("sock", "/tmp/sid-engine.sock", "IPC socket path")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	synth := audio.NewSynth(audio.Config{
		TickRate: *tickRate,
		BPM:      *bpm,
		BankDir:  *bankDir,
	})
	defer synth.Close()
	if *patchFile != "" {
		if err := synth.LoadFile(*patchFile); err != nil {
			log.Fatalf("error: %v\n", err)
		}
	}
	var player *audio.Player
	if *enableAudio {
		p, err := audio.NewPlayer()
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}
		defer p.Close()
		synth.SetOutput(p)
		player = p
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err := withIPCConnection(ctx, *sockFileName, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return synth.Start(ctx)
		})
		g.Go(func() error {
			return synth.ProcessCommands(ctx)
		})
		if player != nil {
			g.Go(func() error {
				return player.Start(ctx)
			})
		}
		if *midiPort != "-" {
			g.Go(func() error {
				return synth.ForwardMidi(ctx, audio.ListenToMidiIn(ctx, *midiPort))
			})
		}
		g.Go(func() error {
			// the session ends with the connection
			defer cancel()
			return receiveCommands(ctx, conn, synth.CommandCh)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, synth)
		})
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

// maxCommandLine bounds one line of the command protocol.
const maxCommandLine = 1 << 20

// withIPCConnection serves a single client on the unix socket at path and
// runs f for the lifetime of the connection.
func withIPCConnection(ctx context.Context, path string, f func(net.Conn) error) error {
	os.Remove(path)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", path)
	if err != nil {
		return fault.Wrap(err, fmsg.With("failed to listen on "+path))
	}
	defer func() {
		log.Println("Closing IPC...")
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("failed to close listener: %v\n", err)
		}
		os.Remove(path)
	}()
	// Accept does not watch ctx.
	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	log.Printf("waiting for a client on %s...\n", path)
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fault.Wrap(err, fmsg.With("failed to accept client"))
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("failed to close connection: %v\n", err)
		}
	}()
	log.Println("client connected")
	return f(conn)
}

// receiveCommands forwards one command per line until the client hangs up
// or ctx is cancelled.
func receiveCommands(ctx context.Context, conn net.Conn, commandCh chan<- []string) error {
	stop := context.AfterFunc(ctx, func() { conn.SetReadDeadline(time.Now()) })
	defer stop()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxCommandLine)
	for scanner.Scan() {
		command, err := parseCommand(scanner.Text())
		if err != nil {
			log.Printf("failed to parse command: %v\n", err)
			continue
		}
		if len(command) == 0 {
			continue
		}
		select {
		case commandCh <- command:
		case <-ctx.Done():
			return nil
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fault.Wrap(err, fmsg.With("failed to read commands"))
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	items := strings.Fields(line)
	for i, item := range items {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		items[i] = escaped
	}
	return items, nil
}

func sendReports(ctx context.Context, conn net.Conn, synth *audio.Synth) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	var lastTicks uint64
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			var lines []string
			if synth.Changes.Take("data") {
				data, err := synth.ToJSON()
				if err != nil {
					log.Printf("failed to encode patch: %v\n", err)
				} else {
					lines = append(lines, "data "+url.QueryEscape(string(data)))
				}
			}
			frame, ticks := synth.Frame()
			if ticks != lastTicks {
				lastTicks = ticks
				lines = append(lines, "regs "+hex.EncodeToString(frame.Bytes()))
			}
			for _, s := range lines {
				if _, err := conn.Write([]byte(s + "\n")); err != nil {
					return err
				}
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}
