package engine

// EventType is the kind of message carried by a TriggerEvent.
type EventType uint8

const (
	EvtTrigger EventType = iota
	EvtUntrigger
	EvtEnable
	EvtDisable
	EvtToggleEnable
)

func (e EventType) String() string {
	switch e {
	case EvtTrigger:
		return "trigger"
	case EvtUntrigger:
		return "untrigger"
	case EvtEnable:
		return "enable"
	case EvtDisable:
		return "disable"
	case EvtToggleEnable:
		return "toggle"
	}
	return "unknown"
}

// TriggerEvent is routed by the world to every trigger named Target.
type TriggerEvent struct {
	Target  string
	Emitter string
	Type    EventType
	// Volume is set when the event comes from the player entering or
	// leaving a trigger volume, or from a trigger relaying such an event.
	Volume bool
}

// EventWithArg is a multi-cast event with one argument.
type EventWithArg[T any] struct {
	listeners []func(T)
}

// AddListener adds a callback to be invoked when the event fires
func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

// RemoveAllListeners clears all listeners
func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		listener(arg)
	}
}

func (e *EventWithArg[T]) ListenerCount() int {
	return len(e.listeners)
}
