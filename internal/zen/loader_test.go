package zen

import (
	"strings"
	"testing"
)

const sampleArchive = `{
  "name": "TESTLEVEL",
  "vobs": [
    {
      "type": "zCVobLevelCompo",
      "class": "zCVobLevelCompo:zCVob",
      "name": "LEVEL",
      "position": [0, 0, 0],
      "children": [
        {
          "type": "zCMover",
          "class": "zCMover:zCTrigger:zCVob",
          "name": "GATE",
          "position": [100, 0, 200],
          "rotation": [[1,0,0],[0,1,0],[0,0,1]],
          "mover": {
            "behavior": "TRIGGER_CONTROL",
            "moveSpeed": 0.5,
            "keyframes": [
              {"position": [100, 0, 200], "rotation": [0, 0, 0, 1]},
              {"position": [100, 300, 200], "rotation": [0, 0, 0, 1]}
            ]
          }
        },
        {
          "type": "zCVobStartpoint",
          "class": "zCVobStartpoint:zCVob",
          "name": "START",
          "position": [1, 2, 3],
          "rotation": [[0,0,-1],[0,1,0],[1,0,0]]
        }
      ]
    },
    {
      "type": "zCVobLensFlare",
      "class": "zCVobLensFlare:zCVob"
    }
  ]
}`

func TestDecodeArchive(t *testing.T) {
	a, err := Decode(strings.NewReader(sampleArchive))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if a.Name != "TESTLEVEL" {
		t.Errorf("Expected name TESTLEVEL, got %s", a.Name)
	}
	if a.Count() != 4 {
		t.Errorf("Expected 4 records, got %d", a.Count())
	}

	level := a.Vobs[0]
	if level.Type != VTzCVobLevelCompo {
		t.Errorf("Expected zCVobLevelCompo, got %s", level.Type)
	}

	mover := level.Children[0]
	if mover.Type != VTzCMover || mover.Mover == nil {
		t.Fatal("mover record not decoded")
	}
	if len(mover.Mover.Keyframes) != 2 {
		t.Errorf("Expected 2 keyframes, got %d", len(mover.Mover.Keyframes))
	}

	m := mover.WorldMatrix()
	if m.M12 != 100 || m.M14 != 200 || m.M0 != 1 {
		t.Errorf("unexpected world matrix %v", m)
	}

	start := level.Children[1]
	facing := start.Facing()
	if facing.X != 1 || facing.Z != 0 {
		t.Errorf("facing should be the third rotation row, got %v", facing)
	}
}

func TestUnknownTagDecodesAsUnknown(t *testing.T) {
	a, err := Decode(strings.NewReader(sampleArchive))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	flare := a.Vobs[1]
	if flare.Type != VTUnknown {
		t.Errorf("unmapped tag should decode as VTUnknown, got %s", flare.Type)
	}
	if flare.Class != "zCVobLensFlare:zCVob" {
		t.Errorf("class name not preserved, got %q", flare.Class)
	}
}

func TestWorldMatrixIdentityWithoutRotation(t *testing.T) {
	r := &Record{Position: [3]float32{1, 2, 3}}
	m := r.WorldMatrix()
	if m.M0 != 1 || m.M5 != 1 || m.M10 != 1 || m.M15 != 1 {
		t.Error("missing rotation should give identity basis")
	}
	if m.M12 != 1 || m.M13 != 2 || m.M14 != 3 {
		t.Error("translation not applied")
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for malformed archive")
	}
}
