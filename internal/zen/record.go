package zen

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// VobType is the declared type tag of an archive record.
type VobType int

const (
	VTUnknown VobType = iota
	VTzCVob
	VTzCVobLevelCompo
	VToCMobFire
	VToCMOB
	VToCMobBed
	VToCMobDoor
	VToCMobInter
	VToCMobContainer
	VToCMobSwitch
	VToCMobLadder
	VToCMobWheel
	VTzCMover
	VTzCCodeMaster
	VTzCTriggerList
	VTzCTriggerScript
	VToCTriggerWorldStart
	VToCTriggerChangeLevel
	VTzCTrigger
	VTzCMessageFilter
	VTzCVobStartpoint
	VTzCVobSpot
	VToCItem
	VTzCVobSound
	VTzCVobSoundDaytime
	VToCZoneMusic
	VToCZoneMusicDefault
	VTzCVobLight
)

var vobTypeNames = map[VobType]string{
	VTUnknown:              "",
	VTzCVob:                "zCVob",
	VTzCVobLevelCompo:      "zCVobLevelCompo",
	VToCMobFire:            "oCMobFire",
	VToCMOB:                "oCMOB",
	VToCMobBed:             "oCMobBed",
	VToCMobDoor:            "oCMobDoor",
	VToCMobInter:           "oCMobInter",
	VToCMobContainer:       "oCMobContainer",
	VToCMobSwitch:          "oCMobSwitch",
	VToCMobLadder:          "oCMobLadder",
	VToCMobWheel:           "oCMobWheel",
	VTzCMover:              "zCMover",
	VTzCCodeMaster:         "zCCodeMaster",
	VTzCTriggerList:        "zCTriggerList",
	VTzCTriggerScript:      "zCTriggerScript",
	VToCTriggerWorldStart:  "oCTriggerWorldStart",
	VToCTriggerChangeLevel: "oCTriggerChangeLevel",
	VTzCTrigger:            "zCTrigger",
	VTzCMessageFilter:      "zCMessageFilter",
	VTzCVobStartpoint:      "zCVobStartpoint",
	VTzCVobSpot:            "zCVobSpot",
	VToCItem:               "oCItem",
	VTzCVobSound:           "zCVobSound",
	VTzCVobSoundDaytime:    "zCVobSoundDaytime",
	VToCZoneMusic:          "oCZoneMusic",
	VToCZoneMusicDefault:   "oCZoneMusicDefault",
	VTzCVobLight:           "zCVobLight",
}

var vobTypeByName map[string]VobType

func init() {
	vobTypeByName = make(map[string]VobType, len(vobTypeNames))
	for t, name := range vobTypeNames {
		vobTypeByName[name] = t
	}
}

func (t VobType) String() string {
	if name, ok := vobTypeNames[t]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("VobType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t VobType) MarshalText() ([]byte, error) {
	return []byte(vobTypeNames[t]), nil
}

// UnmarshalText maps tag names to VobType. Unrecognised tags become
// VTUnknown so the class-name fallback can take over.
func (t *VobType) UnmarshalText(b []byte) error {
	*t = vobTypeByName[string(b)]
	return nil
}

// BBox is an axis-aligned box in world space.
type BBox struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

// Keyframe is one mover pose: position and rotation quaternion (x, y, z, w).
type Keyframe struct {
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"`
}

type MoverData struct {
	Behavior     string     `json:"behavior"`
	SpeedType    string     `json:"speedType,omitempty"`
	MoveSpeed    float32    `json:"moveSpeed"`
	StayOpenTime float32    `json:"stayOpenTime,omitempty"`
	Keyframes    []Keyframe `json:"keyframes"`
}

type TriggerData struct {
	Target          string  `json:"target,omitempty"`
	MaxActivations  int     `json:"maxActivations,omitempty"`
	FireDelay       float32 `json:"fireDelay,omitempty"`
	StartEnabled    *bool   `json:"startEnabled,omitempty"`
	FireOnlyOnce    bool    `json:"fireOnlyOnce,omitempty"`
	ReactToPlayer   *bool   `json:"reactToPlayer,omitempty"`
	UntriggerTarget bool    `json:"untriggerTarget,omitempty"`
}

type ListTarget struct {
	Name  string  `json:"name"`
	Delay float32 `json:"delay,omitempty"`
}

type TriggerListData struct {
	Process string       `json:"process"`
	Targets []ListTarget `json:"targets"`
}

type CodeMasterData struct {
	Slaves          []string `json:"slaves"`
	Ordered         bool     `json:"ordered,omitempty"`
	FailureTarget   string   `json:"failureTarget,omitempty"`
	UntriggerCancel bool     `json:"untriggerCancels,omitempty"`
}

type ScriptData struct {
	Function string `json:"function"`
}

type ZoneData struct {
	Level    string `json:"level"`
	StartVob string `json:"startVob,omitempty"`
}

type MessageFilterData struct {
	OnTrigger   string `json:"onTrigger"`
	OnUntrigger string `json:"onUntrigger"`
}

type InteractiveData struct {
	Scheme    string `json:"scheme"`
	FocusName string `json:"focusName,omitempty"`
	StateNum  int    `json:"stateNum,omitempty"`
}

type ItemData struct {
	Instance string `json:"instance"`
	Amount   int    `json:"amount,omitempty"`
}

type SoundData struct {
	File   string  `json:"file"`
	Radius float32 `json:"radius,omitempty"`
	Volume float32 `json:"volume,omitempty"`
}

type LightData struct {
	Color [4]uint8 `json:"color"`
	Range float32  `json:"range"`
}

// Record is one serialized placed object.
type Record struct {
	Type     VobType       `json:"type"`
	Class    string        `json:"class"`
	Name     string        `json:"name,omitempty"`
	Position [3]float32    `json:"position"`
	Rotation [3][3]float32 `json:"rotation,omitempty"`
	BBox     *BBox         `json:"bbox,omitempty"`
	Visual   string        `json:"visual,omitempty"`
	CdStatic bool          `json:"cdStatic,omitempty"`
	CdDyn    bool          `json:"cdDyn,omitempty"`
	Children []*Record     `json:"children,omitempty"`

	Mover         *MoverData         `json:"mover,omitempty"`
	Trigger       *TriggerData       `json:"trigger,omitempty"`
	TriggerList   *TriggerListData   `json:"triggerList,omitempty"`
	CodeMaster    *CodeMasterData    `json:"codeMaster,omitempty"`
	Script        *ScriptData        `json:"script,omitempty"`
	Zone          *ZoneData          `json:"zone,omitempty"`
	MessageFilter *MessageFilterData `json:"messageFilter,omitempty"`
	Interactive   *InteractiveData   `json:"interactive,omitempty"`
	Item          *ItemData          `json:"item,omitempty"`
	Sound         *SoundData         `json:"sound,omitempty"`
	Light         *LightData         `json:"light,omitempty"`
}

// Pos returns the record position as a vector.
func (r *Record) Pos() rl.Vector3 {
	return rl.Vector3{X: r.Position[0], Y: r.Position[1], Z: r.Position[2]}
}

// Facing returns the third row of the rotation matrix.
func (r *Record) Facing() rl.Vector3 {
	return rl.Vector3{X: r.Rotation[2][0], Y: r.Rotation[2][1], Z: r.Rotation[2][2]}
}

// WorldMatrix builds the world transform from the rotation rows (used as
// basis vectors) and the position. A zero rotation means identity.
func (r *Record) WorldMatrix() rl.Matrix {
	m := rl.MatrixIdentity()
	if r.Rotation != [3][3]float32{} {
		m.M0, m.M1, m.M2 = r.Rotation[0][0], r.Rotation[0][1], r.Rotation[0][2]
		m.M4, m.M5, m.M6 = r.Rotation[1][0], r.Rotation[1][1], r.Rotation[1][2]
		m.M8, m.M9, m.M10 = r.Rotation[2][0], r.Rotation[2][1], r.Rotation[2][2]
	}
	m.M12, m.M13, m.M14 = r.Position[0], r.Position[1], r.Position[2]
	return m
}

// Bounds returns the bbox corners, or a zero box around the position.
func (r *Record) Bounds() (rl.Vector3, rl.Vector3) {
	if r.BBox == nil {
		p := r.Pos()
		return p, p
	}
	return rl.Vector3{X: r.BBox.Min[0], Y: r.BBox.Min[1], Z: r.BBox.Min[2]},
		rl.Vector3{X: r.BBox.Max[0], Y: r.BBox.Max[1], Z: r.BBox.Max[2]}
}

// Archive is a loaded level.
type Archive struct {
	Name string    `json:"name"`
	Vobs []*Record `json:"vobs"`
}
