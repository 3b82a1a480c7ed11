package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/jinjor/sid-engine/src/engine"
)

func TestPresetManager(t *testing.T) {
	dir := t.TempDir()
	pm := newPresetManager(dir)
	_, err := pm.getList()
	expectKind(t, err, ftag.NotFound)

	p := engine.NewPatch(engine.ModeBassline)
	p.Name = "Acid"
	p.Bassline.Instruments[0].Patterns[0].SetStep(0, engine.BasslineStep{Gate: true, Slide: true})
	expectNoError(t, pm.save("acid", p))
	expectNoError(t, pm.save("acid", p))

	list, err := pm.getList()
	expectNoError(t, err)
	expectEqual(t, len(list), 1)
	expectEqual(t, list[0].name, "acid")
	expectEqual(t, list[0].mode, "bassline")

	reloaded := newPresetManager(dir)
	list, err = reloaded.getList()
	expectNoError(t, err)
	expectEqual(t, len(list), 1)

	loaded, err := reloaded.load("acid")
	expectNoError(t, err)
	expectEqual(t, loaded.Name, "Acid")
	expectEqual(t, loaded.Mode, engine.ModeBassline)
	expectEqual(t, loaded.Bassline.Instruments[0].Patterns[0].Step(0).Slide, true)

	_, err = reloaded.load("missing")
	expectKind(t, err, ftag.NotFound)
	_, err = reloaded.load("../acid")
	expectKind(t, err, ftag.InvalidArgument)
	_, err = reloaded.load("_list")
	expectKind(t, err, ftag.InvalidArgument)

	expectNoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("[1,2"), 0644))
	_, err = reloaded.load("broken")
	expectKind(t, err, ftag.InvalidArgument)
}

func TestSynthBankCommands(t *testing.T) {
	dir := t.TempDir()
	s := NewSynth(Config{BankDir: dir})
	expectNoError(t, s.update([]string{"set", "name", "Drums"}))
	expectNoError(t, s.update([]string{"mode", "drum"}))
	expectNoError(t, s.update([]string{"save", "drums"}))

	expectNoError(t, s.update([]string{"mode", "lead"}))
	expectNoError(t, s.update([]string{"load", "drums"}))
	expectEqual(t, s.engine.Mode(), engine.ModeDrum)
	expectEqual(t, s.patch.Name, "Drums")
	expectKind(t, s.update([]string{"load", "nothing"}), ftag.NotFound)

	expectNoError(t, s.LoadFile(filepath.Join(dir, "drums.json")))
	expectKind(t, s.LoadFile(filepath.Join(dir, "nothing.json")), ftag.NotFound)
}
