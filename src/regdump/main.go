package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/jinjor/sid-engine/src/audio"
	"github.com/jinjor/sid-engine/src/engine"
	"golang.org/x/sync/errgroup"
)

var (
	numTicks  = flag.Int("ticks", 2000, "number of ticks to render")
	tickRate  = flag.Float64("tick", audio.DefaultTickRate, "engine update rate in Hz")
	bpm       = flag.Float64("bpm", audio.DefaultBPM, "clock tempo")
	notes     = flag.String("notes", "60", "comma separated notes held from the first tick")
	release   = flag.Int("release", 1000, "tick at which the notes are released (-1 never)")
	transport = flag.Bool("start", true, "send a transport start on the first tick")
	outDir    = flag.String("out", ".", "output directory")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatalln("usage: regdump [flags] patch.json...")
	}
	log.SetFlags(log.Lshortfile)

	g, _ := errgroup.WithContext(context.Background())
	for _, path := range flag.Args() {
		path := path
		g.Go(func() error {
			out := filepath.Join(*outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".csv")
			if err := dump(path, out); err != nil {
				return fault.Wrap(err, fmsg.With(path))
			}
			log.Printf("rendered %s to %s\n", path, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("Successfully rendered patches.")
}

func parseNotes(s string) ([]string, error) {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, err := strconv.ParseUint(item, 10, 7); err != nil {
			return nil, fault.Wrap(err, fmsg.With("invalid note "+item))
		}
		out = append(out, item)
	}
	return out, nil
}

func dump(path string, out string) error {
	keys, err := parseNotes(*notes)
	if err != nil {
		return err
	}
	synth := audio.NewSynth(audio.Config{TickRate: *tickRate, BPM: *bpm})
	if err := synth.LoadFile(path); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fault.Wrap(err, fmsg.With("failed to create output"))
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := []string{"tick", "sid"}
	for r := 0; r < engine.NumRegisters; r++ {
		header = append(header, fmt.Sprintf("r%02d", r))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	if *transport {
		if err := synth.Command("start"); err != nil {
			return err
		}
	}
	for _, k := range keys {
		if err := synth.Command("note_on", k); err != nil {
			return err
		}
	}
	dt := 1 / *tickRate
	row := make([]string, 0, 2+engine.NumRegisters)
	for n := 0; n < *numTicks; n++ {
		if n == *release {
			for _, k := range keys {
				if err := synth.Command("note_off", k); err != nil {
					return err
				}
			}
		}
		frame := synth.Tick(dt)
		for sid := 0; sid < 2; sid++ {
			regs := frame.SID(sid)
			row = append(row[:0], strconv.Itoa(n), strconv.Itoa(sid))
			for _, b := range regs {
				row = append(row, fmt.Sprintf("%02x", b))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
