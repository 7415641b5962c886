package script

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"gothic3d/internal/engine"
)

type recordingSink struct {
	events []engine.TriggerEvent
	level  string
	start  string
}

func (s *recordingSink) TriggerEvent(evt engine.TriggerEvent) {
	s.events = append(s.events, evt)
}

func (s *recordingSink) ChangeLevel(level, startVob string) {
	s.level, s.start = level, startVob
}

const levelScript = `
fmt := import("fmt")

functions := {
	OPEN_CHEST: func(engine, self) {
		engine.trigger("CHEST_" + self)
	},
	CLOSE_GATE: func(engine, self) {
		engine.untrigger("GATE")
		engine.log("closing", fmt.sprintf("%d", 2))
	},
	go_mine: func(engine, self) {
		engine.change_level("OLDMINE.ZEN", "ENTRANCE")
	},
}
`

func TestHostCall(t *testing.T) {
	sink := &recordingSink{}
	h, err := NewHost([]byte(levelScript), sink)
	if err != nil {
		t.Fatalf("NewHost failed: %v", err)
	}
	var logs bytes.Buffer
	h.Logger = log.New(&logs, "", 0)

	if err := h.Call("OPEN_CHEST", "TS1"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	evt := sink.events[0]
	if evt.Target != "CHEST_TS1" || evt.Emitter != "TS1" || evt.Type != engine.EvtTrigger {
		t.Errorf("unexpected event %+v", evt)
	}

	if err := h.Call("CLOSE_GATE", "TS2"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if sink.events[1].Type != engine.EvtUntrigger {
		t.Errorf("expected untrigger, got %s", sink.events[1].Type)
	}
	if !strings.Contains(logs.String(), "closing 2") {
		t.Errorf("log output missing, got %q", logs.String())
	}
}

func TestHostCaseInsensitiveNames(t *testing.T) {
	sink := &recordingSink{}
	h, err := NewHost([]byte(levelScript), sink)
	if err != nil {
		t.Fatal(err)
	}
	if !h.Has("GO_MINE") {
		t.Fatal("lookup should ignore case")
	}
	if err := h.Call("GO_MINE", "ZONE"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if sink.level != "OLDMINE.ZEN" || sink.start != "ENTRANCE" {
		t.Errorf("level change not forwarded: %q %q", sink.level, sink.start)
	}
}

func TestHostUnknownFunction(t *testing.T) {
	h, err := NewHost([]byte(levelScript), &recordingSink{})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Call("NOPE", "X"); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestHostCompileError(t *testing.T) {
	if _, err := NewHost([]byte("functions := {"), &recordingSink{}); err == nil {
		t.Error("expected compile error")
	}
}
