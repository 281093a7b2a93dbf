package input

// ScriptedSource replays key presses by frame number. Frame 0 is the first
// frame polled after creation.
type ScriptedSource struct {
	frame int
	held  map[int][]KeyCode
}

func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{held: make(map[int][]KeyCode)}
}

// Hold keeps k down for frames consecutive frames starting at from.
func (s *ScriptedSource) Hold(k KeyCode, from, frames int) *ScriptedSource {
	for f := from; f < from+frames; f++ {
		s.held[f] = append(s.held[f], k)
	}
	return s
}

// Tap presses k for a single frame.
func (s *ScriptedSource) Tap(k KeyCode, frame int) *ScriptedSource {
	return s.Hold(k, frame, 1)
}

// TapEvery taps k on every period-th frame, starting at first, up to but not
// including frame until.
func (s *ScriptedSource) TapEvery(k KeyCode, first, period, until int) *ScriptedSource {
	if period <= 0 {
		return s
	}
	for f := first; f < until; f += period {
		s.Tap(k, f)
	}
	return s
}

func (s *ScriptedSource) IsKeyDown(k KeyCode) bool {
	for _, held := range s.held[s.frame] {
		if held == k {
			return true
		}
	}
	return false
}

// NextFrame advances the script by one frame.
func (s *ScriptedSource) NextFrame() {
	s.frame++
}

// Frame returns the frame the next poll will read.
func (s *ScriptedSource) Frame() int {
	return s.frame
}
