package audio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/jinjor/sid-engine/src/engine"
)

const presetListFile = "_list.json"

type presetMetaJSON struct {
	Name string `json:"name"`
	Mode string `json:"mode,omitempty"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}
type presetMeta struct {
	name string
	mode string
}
type presetData struct {
	list []*presetMeta
}
type presetManager struct {
	dir  string
	data *presetData
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

func invalidArgument(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fault.New(msg, fmsg.WithDesc(msg, "Invalid argument: "+msg), ftag.With(ftag.InvalidArgument))
}

func checkPresetName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || name[0] == '_' {
		return invalidArgument("invalid preset name %q", name)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fault.Wrap(err, fmsg.WithDesc("no such file", "Not found: "+filepath.Base(path)), ftag.With(ftag.NotFound))
	}
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("failed to read "+path))
	}
	return bytes, nil
}

func (pm *presetManager) getList() ([]*presetMeta, error) {
	if pm.data == nil {
		if err := pm.loadData(); err != nil {
			return nil, err
		}
	}
	return pm.data.list, nil
}

func (pm *presetManager) load(name string) (*engine.Patch, error) {
	if err := checkPresetName(name); err != nil {
		return nil, err
	}
	bytes, err := readFile(filepath.Join(pm.dir, name+".json"))
	if err != nil {
		return nil, err
	}
	return decodePatch(bytes)
}

func decodePatch(bytes []byte) (*engine.Patch, error) {
	p := engine.NewPatch(engine.ModeLead)
	if err := p.ApplyJSON(bytes); err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("malformed patch", "The patch file is broken"), ftag.With(ftag.InvalidArgument))
	}
	return p, nil
}

// loadPatchFile reads a patch from an arbitrary path.
func loadPatchFile(path string) (*engine.Patch, error) {
	bytes, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return decodePatch(bytes)
}

func (pm *presetManager) save(name string, p *engine.Patch) error {
	if err := checkPresetName(name); err != nil {
		return err
	}
	bytes, err := p.ToJSON()
	if err != nil {
		return fault.Wrap(err, fmsg.With("failed to encode patch"))
	}
	if err := os.WriteFile(filepath.Join(pm.dir, name+".json"), bytes, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("failed to write patch"))
	}
	list, err := pm.getList()
	if err != nil && ftag.Get(err) != ftag.NotFound {
		return err
	}
	for _, item := range list {
		if item.name == name {
			item.mode = p.Mode.String()
			return pm.saveData()
		}
	}
	pm.data.list = append(pm.data.list, &presetMeta{name: name, mode: p.Mode.String()})
	return pm.saveData()
}

func (pm *presetManager) loadData() error {
	if pm.data == nil {
		pm.data = &presetData{list: make([]*presetMeta, 0, 128)}
	}
	bytes, err := readFile(filepath.Join(pm.dir, presetListFile))
	if err != nil {
		return err
	}
	metaListJSON := &presetMetaListJSON{}
	err = json.Unmarshal(bytes, &metaListJSON)
	if err != nil {
		return fault.Wrap(err, fmsg.With("malformed preset list"), ftag.With(ftag.InvalidArgument))
	}
	pm.data.list = pm.data.list[:0]
	for _, item := range metaListJSON.Items {
		pm.data.list = append(pm.data.list, &presetMeta{name: item.Name, mode: item.Mode})
	}
	return nil
}

func (pm *presetManager) saveData() error {
	metaListJSON := &presetMetaListJSON{Items: make([]presetMetaJSON, 0, len(pm.data.list))}
	for _, item := range pm.data.list {
		metaListJSON.Items = append(metaListJSON.Items, presetMetaJSON{Name: item.name, Mode: item.mode})
	}
	bytes, err := json.MarshalIndent(metaListJSON, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("failed to encode preset list"))
	}
	if err := os.WriteFile(filepath.Join(pm.dir, presetListFile), bytes, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("failed to write preset list"))
	}
	return nil
}
