// Package input tracks keyboard state per frame for systems that react to
// key presses.
package input

import (
	"fmt"
	"strings"
)

// KeyCode names a physical key independent of any windowing backend.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	keyCount
)

var keyNames = func() [keyCount]string {
	var names [keyCount]string
	names[KeyUnknown] = "Unknown"
	for k := KeyA; k <= KeyZ; k++ {
		names[k] = string(rune('A' + int(k-KeyA)))
	}
	for k := Key0; k <= Key9; k++ {
		names[k] = string(rune('0' + int(k-Key0)))
	}
	names[KeySpace] = "Space"
	names[KeyEscape] = "Escape"
	names[KeyEnter] = "Enter"
	names[KeyTab] = "Tab"
	names[KeyBackspace] = "Backspace"
	names[KeyArrowUp] = "Up"
	names[KeyArrowDown] = "Down"
	names[KeyArrowLeft] = "Left"
	names[KeyArrowRight] = "Right"
	for k := KeyF1; k <= KeyF12; k++ {
		names[k] = fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	return names
}()

var keyAliases = map[string]KeyCode{
	"esc":        KeyEscape,
	"return":     KeyEnter,
	"arrowup":    KeyArrowUp,
	"arrowdown":  KeyArrowDown,
	"arrowleft":  KeyArrowLeft,
	"arrowright": KeyArrowRight,
}

// AllKeys lists every known key except KeyUnknown.
func AllKeys() []KeyCode {
	keys := make([]KeyCode, 0, keyCount-1)
	for k := KeyUnknown + 1; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

func (k KeyCode) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("KeyCode(%d)", int(k))
	}
	return keyNames[k]
}

// Valid reports whether k is a known key other than KeyUnknown.
func (k KeyCode) Valid() bool {
	return k > KeyUnknown && k < keyCount
}

// ParseKeyCode resolves a key name case-insensitively. A "Key" prefix is
// accepted, so "r", "R" and "KeyR" all name KeyR.
func ParseKeyCode(name string) (KeyCode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if len(normalized) > 3 && strings.HasPrefix(normalized, "key") {
		normalized = normalized[3:]
	}

	if k, ok := keyAliases[normalized]; ok {
		return k, nil
	}
	for k := KeyUnknown + 1; k < keyCount; k++ {
		if strings.ToLower(keyNames[k]) == normalized {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("input: unknown key %q", name)
}

// UnmarshalText lets KeyCode appear in config files by name.
func (k *KeyCode) UnmarshalText(text []byte) error {
	parsed, err := ParseKeyCode(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k KeyCode) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("input: cannot encode %s", k)
	}
	return []byte(k.String()), nil
}
