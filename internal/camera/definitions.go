package camera

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed cameras.yaml
var defaultDefs []byte

// ErrMissingMode is returned when a definition file lacks a mode entry.
var ErrMissingMode = errors.New("camera: missing mode definition")

// Def holds the tuning of one camera mode. Ranges are in metres, angles in
// degrees, offsets in world units.
type Def struct {
	BestRange float32 `yaml:"best_range"`
	MinRange  float32 `yaml:"min_range"`
	MaxRange  float32 `yaml:"max_range"`

	BestElevation float32 `yaml:"best_elevation"`
	MinElevation  float32 `yaml:"min_elevation"`
	MaxElevation  float32 `yaml:"max_elevation"`

	BestAzimuth float32 `yaml:"best_azimuth"`
	MinAzimuth  float32 `yaml:"min_azimuth"`
	MaxAzimuth  float32 `yaml:"max_azimuth"`

	RotOffset    [3]float32 `yaml:"rot_offset"`
	TargetOffset [3]float32 `yaml:"target_offset"`

	VeloTrans float32 `yaml:"velo_trans"`
	VeloRot   float32 `yaml:"velo_rot"`
	Translate bool    `yaml:"translate"`
}

func (d *Def) rotOffset() rl.Vector3 {
	return rl.Vector3{X: d.RotOffset[0], Y: d.RotOffset[1], Z: d.RotOffset[2]}
}

func (d *Def) targetOffset() rl.Vector3 {
	return rl.Vector3{X: d.TargetOffset[0], Y: d.TargetOffset[1], Z: d.TargetOffset[2]}
}

// clampRange limits a zoom value to the mode's bounds.
func (d *Def) clampRange(zoom float32) float32 {
	if zoom > d.MaxRange {
		zoom = d.MaxRange
	}
	if zoom < d.MinRange {
		zoom = d.MinRange
	}
	return zoom
}

// Definitions is the mode-keyed camera table. Mobsi framing is looked up by
// the scheme of the interactive in use.
type Definitions struct {
	modes [modeCount]Def
	mobsi map[string]Def
}

type defsFile struct {
	Modes map[string]Def `yaml:"modes"`
	Mobsi map[string]Def `yaml:"mobsi"`
}

// ParseDefinitions decodes a YAML camera table. Every mode except Mobsi needs
// an entry; the mobsi table needs a DEFAULT entry.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var f defsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("camera: parse definitions: %w", err)
	}
	d := &Definitions{mobsi: make(map[string]Def, len(f.Mobsi))}
	for m := Mode(0); m < modeCount; m++ {
		if m == Mobsi {
			continue
		}
		def, ok := f.Modes[m.String()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingMode, m)
		}
		d.modes[m] = def
	}
	for k, v := range f.Mobsi {
		d.mobsi[strings.ToUpper(k)] = v
	}
	def, ok := d.mobsi[mobsiDefault]
	if !ok {
		return nil, fmt.Errorf("%w: mobsi %s", ErrMissingMode, mobsiDefault)
	}
	d.modes[Mobsi] = def
	return d, nil
}

// LoadDefinitions reads a camera table from disk.
func LoadDefinitions(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("camera: read %s: %w", path, err)
	}
	d, err := ParseDefinitions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// DefaultDefinitions returns the built-in camera table.
func DefaultDefinitions() *Definitions {
	d, err := ParseDefinitions(defaultDefs)
	if err != nil {
		panic(err)
	}
	return d
}

// Def returns the tuning of mode m. For Mobsi this is the DEFAULT entry.
func (d *Definitions) Def(m Mode) Def {
	return d.modes[m]
}

// SetDef replaces the tuning of mode m.
func (d *Definitions) SetDef(m Mode, def Def) {
	d.modes[m] = def
}

const mobsiDefault = "DEFAULT"

// Mobsi resolves the framing for an interactive: SCHEME_POS first, then
// SCHEME, then DEFAULT.
func (d *Definitions) Mobsi(scheme, pos string) Def {
	scheme = strings.ToUpper(scheme)
	if pos != "" {
		if def, ok := d.mobsi[scheme+"_"+strings.ToUpper(pos)]; ok {
			return def
		}
	}
	if def, ok := d.mobsi[scheme]; ok {
		return def
	}
	return d.modes[Mobsi]
}

// SetMobsi adds or replaces a mobsi entry, keyed SCHEME or SCHEME_POS.
func (d *Definitions) SetMobsi(key string, def Def) {
	key = strings.ToUpper(key)
	d.mobsi[key] = def
	if key == mobsiDefault {
		d.modes[Mobsi] = def
	}
}
