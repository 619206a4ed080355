package terminal

import "unicode/utf8"

// Action is a user command decoded from terminal input
type Action int

const (
	ActionNone Action = iota
	ActionTabPrev
	ActionTabNext
	ActionPagePrev
	ActionPageNext
	ActionPickNone
	ActionPick // Key.Slot holds the 1-based tile number
	ActionRandomize
	ActionReset
	ActionClear
	ActionCycleMode
	ActionQuit
)

// Key is one decoded key press
type Key struct {
	Action Action
	Slot   int
}

// ParseInput converts raw bytes into actions.
// Handles arrow key escape sequences, letter keys, digits and Ctrl-C.
func ParseInput(data []byte) []Key {
	var keys []Key
	i := 0
	for i < len(data) {
		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'C':
				keys = append(keys, Key{Action: ActionTabNext})
			case 'D':
				keys = append(keys, Key{Action: ActionTabPrev})
			case 'A':
				keys = append(keys, Key{Action: ActionPagePrev})
			case 'B':
				keys = append(keys, Key{Action: ActionPageNext})
			}
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		switch {
		case r == 'h' || r == 'H':
			keys = append(keys, Key{Action: ActionTabPrev})
		case r == 'l' || r == 'L':
			keys = append(keys, Key{Action: ActionTabNext})
		case r == '[':
			keys = append(keys, Key{Action: ActionPagePrev})
		case r == ']':
			keys = append(keys, Key{Action: ActionPageNext})
		case r == '0':
			keys = append(keys, Key{Action: ActionPickNone})
		case r >= '1' && r <= '8':
			keys = append(keys, Key{Action: ActionPick, Slot: int(r - '0')})
		case r == 'r' || r == 'R':
			keys = append(keys, Key{Action: ActionRandomize})
		case r == 'x' || r == 'X':
			keys = append(keys, Key{Action: ActionReset})
		case r == 'c' || r == 'C':
			keys = append(keys, Key{Action: ActionClear})
		case r == 'm' || r == 'M':
			keys = append(keys, Key{Action: ActionCycleMode})
		case r == 'q' || r == 'Q':
			keys = append(keys, Key{Action: ActionQuit})
		case r == 3: // Ctrl-C
			keys = append(keys, Key{Action: ActionQuit})
		}
		i += size
	}
	return keys
}
