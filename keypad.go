package chip8

const KeyCount = 16

// Keypad is the pressed state of the hex keys 0x0-0xF.
type Keypad [KeyCount]bool

// firstPressed returns the lowest pressed key.
func (k *Keypad) firstPressed() (uint8, bool) {
	for i, pressed := range k {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}

func (k *Keypad) isPressed(key uint8) bool {
	return k[key&0xF]
}

func (k *Keypad) release() {
	for i := range k {
		k[i] = false
	}
}
