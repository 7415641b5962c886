package script

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gothic3d/internal/engine"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ErrUnknownFunction is returned by Call when the script does not define fn.
var ErrUnknownFunction = errors.New("script: unknown function")

// dispatch is appended to every script. Scripts expose their entry points in
// a global map named functions; each entry is called as fn(engine, self).
const dispatch = `
if __fn != "" {
	__f := functions[__fn]
	if is_undefined(__f) {
		__missing = true
	} else {
		__f(__engine, __self)
	}
}
`

// Sink receives the side effects scripts can cause.
type Sink interface {
	TriggerEvent(evt engine.TriggerEvent)
	ChangeLevel(level, startVob string)
}

// Host runs level scripts for TriggerScript vobs.
type Host struct {
	compiled *tengo.Compiled
	engine   *tengo.ImmutableMap
	names    map[string]string
	self     string
	Logger   *log.Logger
}

// LoadHost compiles the script at path.
func LoadHost(path string, sink Sink) (*Host, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	h, err := NewHost(src, sink)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	return h, nil
}

// NewHost compiles src and runs its top level once.
func NewHost(src []byte, sink Sink) (*Host, error) {
	full := string(src) + "\n" + dispatch
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__fn", "")
	_ = s.Add("__self", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__missing", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	h := &Host{
		compiled: compiled,
		names:    make(map[string]string),
		Logger:   log.Default(),
	}
	h.engine = h.buildEngine(sink)
	if compiled.IsDefined("functions") {
		for name := range compiled.Get("functions").Map() {
			h.names[strings.ToUpper(name)] = name
		}
	}
	return h, nil
}

// Has reports whether the script defines fn.
func (h *Host) Has(fn string) bool {
	_, ok := h.names[strings.ToUpper(fn)]
	return ok
}

// Call runs fn with self bound to the calling vob's name.
func (h *Host) Call(fn, self string) error {
	name, ok := h.names[strings.ToUpper(fn)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFunction, fn)
	}
	if err := h.compiled.Set("__fn", name); err != nil {
		return err
	}
	if err := h.compiled.Set("__self", self); err != nil {
		return err
	}
	if err := h.compiled.Set("__engine", h.engine); err != nil {
		return err
	}
	if err := h.compiled.Set("__missing", false); err != nil {
		return err
	}
	// read by the engine callbacks during Run
	h.self = self
	if err := h.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s: %w", fn, err)
	}
	if h.compiled.Get("__missing").Bool() {
		return fmt.Errorf("%w: %s", ErrUnknownFunction, fn)
	}
	return nil
}

func (h *Host) buildEngine(sink Sink) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	send := func(typ engine.EventType) tengo.CallableFunc {
		return func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return tengo.FalseValue, nil
			}
			target, ok := tengo.ToString(args[0])
			if !ok || target == "" {
				return tengo.FalseValue, nil
			}
			sink.TriggerEvent(engine.TriggerEvent{Target: target, Emitter: h.self, Type: typ})
			return tengo.TrueValue, nil
		}
	}

	values["trigger"] = &tengo.UserFunction{Name: "trigger", Value: send(engine.EvtTrigger)}
	values["untrigger"] = &tengo.UserFunction{Name: "untrigger", Value: send(engine.EvtUntrigger)}
	values["enable"] = &tengo.UserFunction{Name: "enable", Value: send(engine.EvtEnable)}
	values["disable"] = &tengo.UserFunction{Name: "disable", Value: send(engine.EvtDisable)}

	values["change_level"] = &tengo.UserFunction{Name: "change_level", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		level, ok := tengo.ToString(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		start := ""
		if len(args) > 1 {
			start, _ = tengo.ToString(args[1])
		}
		sink.ChangeLevel(level, start)
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			s, _ := tengo.ToString(a)
			parts = append(parts, s)
		}
		h.Logger.Printf("[script] %s", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
