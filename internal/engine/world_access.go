package engine

// WorldAccess gives behaviors the narrow slice of the owning world they need,
// without an import cycle through the world package.
type WorldAccess interface {
	IndexInvalidator
	// TriggerEvent routes evt to every trigger named evt.Target.
	TriggerEvent(evt TriggerEvent)
	// CallScript runs a script function with self bound to the caller's name.
	CallScript(fn, self string) error
	// ChangeLevel requests a level switch at the end of the frame.
	ChangeLevel(level, startVob string)
	// TickCount is the world clock in milliseconds.
	TickCount() uint64
}
