package input

import "github.com/plus3/cubedrop/ecs"

// ButtonInput is the per-frame keyboard state. It lives in storage as a
// singleton and is refreshed by PollSystem at the start of every frame.
type ButtonInput struct {
	pressed      [keyCount]bool
	justPressed  [keyCount]bool
	justReleased [keyCount]bool
}

// Pressed reports whether k is held down this frame.
func (b *ButtonInput) Pressed(k KeyCode) bool {
	return k.Valid() && b.pressed[k]
}

// JustPressed reports whether k went down this frame.
func (b *ButtonInput) JustPressed(k KeyCode) bool {
	return k.Valid() && b.justPressed[k]
}

// JustReleased reports whether k went up this frame.
func (b *ButtonInput) JustReleased(k KeyCode) bool {
	return k.Valid() && b.justReleased[k]
}

// Press marks k as held. It counts as just pressed if it was up before.
func (b *ButtonInput) Press(k KeyCode) {
	if !k.Valid() {
		return
	}
	if !b.pressed[k] {
		b.justPressed[k] = true
	}
	b.pressed[k] = true
}

// Release marks k as up. It counts as just released if it was held before.
func (b *ButtonInput) Release(k KeyCode) {
	if !k.Valid() {
		return
	}
	if b.pressed[k] {
		b.justReleased[k] = true
	}
	b.pressed[k] = false
}

// ClearJust forgets the edge flags from the previous frame.
func (b *ButtonInput) ClearJust() {
	b.justPressed = [keyCount]bool{}
	b.justReleased = [keyCount]bool{}
}

// ReleaseAll releases every held key.
func (b *ButtonInput) ReleaseAll() {
	for k := KeyUnknown + 1; k < keyCount; k++ {
		b.Release(k)
	}
}

// Sync starts a new frame: edge flags are cleared, then every key is pressed
// or released according to isDown.
func (b *ButtonInput) Sync(isDown func(KeyCode) bool) {
	b.ClearJust()
	for k := KeyUnknown + 1; k < keyCount; k++ {
		if isDown(k) {
			b.Press(k)
		} else {
			b.Release(k)
		}
	}
}

// GetPressed returns the held keys in KeyCode order.
func (b *ButtonInput) GetPressed() []KeyCode {
	var keys []KeyCode
	for k := KeyUnknown + 1; k < keyCount; k++ {
		if b.pressed[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// KeySource reports the raw state of keys, usually straight from the window.
type KeySource interface {
	IsKeyDown(k KeyCode) bool
}

// FrameAdvancer is implemented by sources that replay input frame by frame.
// PollSystem calls NextFrame after each sync.
type FrameAdvancer interface {
	NextFrame()
}

// KeyboardFocus is set by overlays that consume keyboard input. While
// Captured is true, PollSystem reports every key as released.
type KeyboardFocus struct {
	Captured bool
}

// PollSystem copies the KeySource state into the ButtonInput singleton.
type PollSystem struct {
	Source KeySource

	Keys  ecs.Singleton[ButtonInput]
	Focus ecs.Singleton[KeyboardFocus]
}

func (s *PollSystem) Execute(frame *ecs.UpdateFrame) {
	keys := s.Keys.Get()
	if keys == nil {
		return
	}

	captured := s.Focus.Exists() && s.Focus.Get().Captured
	switch {
	case s.Source == nil || captured:
		keys.ClearJust()
		keys.ReleaseAll()
	default:
		keys.Sync(s.Source.IsKeyDown)
	}

	if advancer, ok := s.Source.(FrameAdvancer); ok {
		advancer.NextFrame()
	}
}

// Install registers the input singletons and a PollSystem reading from
// source in the PreUpdate stage. source may be nil for runs without a
// keyboard.
func Install(scheduler *ecs.Scheduler, source KeySource) {
	storage := scheduler.Storage()
	ecs.NewSingleton[ButtonInput](storage)
	ecs.NewSingleton[KeyboardFocus](storage)
	scheduler.RegisterIn(ecs.PreUpdate, &PollSystem{Source: source})
}
