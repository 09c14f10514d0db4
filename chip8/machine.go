package chip8

import (
	"log"
	"math/rand/v2"
)

// Machine layout constants.
const (
	SCREEN_WIDTH   = 64
	SCREEN_HEIGHT  = 32
	MEMORY_SIZE    = 4096
	REGISTER_COUNT = 16
	KEY_COUNT      = 16
	BOOT_SECTOR    = 512 // Programs load and start here.
)

// Machine is the complete CHIP-8 processor state. All fields are
// exported for inspection; mutate them only between Step calls.
type Machine struct {
	Verbose bool        // Set to enable per-step execution tracing.
	Rand    func() byte // Source for RND. Defaults to math/rand/v2.

	Memory     [MEMORY_SIZE]byte
	Register   [REGISTER_COUNT]byte
	Index      uint16
	Pc         uint16
	Stack      Stack
	DelayTimer byte
	SoundTimer byte
	Screen     [SCREEN_WIDTH * SCREEN_HEIGHT]byte
	Keypad     [KEY_COUNT]bool
}

// NewMachine returns a reset machine with the glyph table installed.
func NewMachine() (m *Machine) {
	m = &Machine{}
	m.Reset()

	return
}

// Reset clears all state, reinstalls the glyph table, and points the
// program counter at the boot sector.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("chip8: reset")
	}

	clear(m.Memory[:])
	clear(m.Register[:])
	clear(m.Screen[:])
	clear(m.Keypad[:])
	m.Stack.Reset()
	m.Index = 0
	m.Pc = BOOT_SECTOR
	m.DelayTimer = 0
	m.SoundTimer = 0

	copy(m.Memory[:], fontset[:])
}

// LoadRom copies a program image to the boot sector. Images larger than
// the space above the boot sector are truncated; callers that want a
// hard failure instead check the length first.
func (m *Machine) LoadRom(rom []byte) {
	copy(m.Memory[BOOT_SECTOR:], rom)
}

// SetKeypress marks a pad key as held. Out of range keys are ignored.
func (m *Machine) SetKeypress(key int) {
	if key >= 0 && key < KEY_COUNT {
		m.Keypad[key] = true
	}
}

// ClearKeypad releases all pad keys.
func (m *Machine) ClearKeypad() {
	clear(m.Keypad[:])
}

// UpdateTimers ticks both countdown timers. Call at the frame rate, not
// per Step.
func (m *Machine) UpdateTimers() {
	if m.DelayTimer > 0 {
		m.DelayTimer--
	}
	if m.SoundTimer > 0 {
		m.SoundTimer--
	}
}

// FetchCode reads the big-endian instruction word at the program
// counter and advances past it. Addresses wrap modulo the memory size.
func (m *Machine) FetchCode() (code Code) {
	hi := m.Memory[m.Pc&(MEMORY_SIZE-1)]
	lo := m.Memory[(m.Pc+1)&(MEMORY_SIZE-1)]
	m.Pc += 2

	return CodeFrom(hi, lo)
}

// Step runs one fetch-decode-execute cycle and returns the diagnostic
// text of the instruction executed. Undefined words are no-ops; nothing
// a program can fetch aborts the run.
func (m *Machine) Step() (text string) {
	pc := m.Pc
	code := m.FetchCode()
	text = code.String()

	if m.Verbose {
		log.Printf("%03x: %v", pc, text)
	}

	m.Execute(code)

	return
}

// Execute applies a single decoded instruction to the machine state.
func (m *Machine) Execute(code Code) {
	x := code.X()
	y := code.Y()

	switch code.Op() {
	case OP_NOP, OP_UNKNOWN:
		// pass
	case OP_CLS:
		clear(m.Screen[:])
	case OP_RET:
		m.Pc, _ = m.Stack.Pop()
	case OP_JP:
		m.Pc = code.NNN()
	case OP_CALL:
		if !m.Stack.Full() {
			m.Stack.Push(m.Pc)
			m.Pc = code.NNN()
		}
	case OP_SE_KK:
		if m.Register[x] == code.KK() {
			m.Pc += 2
		}
	case OP_SNE_KK:
		if m.Register[x] != code.KK() {
			m.Pc += 2
		}
	case OP_SE_REG:
		if m.Register[x] == m.Register[y] {
			m.Pc += 2
		}
	case OP_LD_KK:
		m.Register[x] = code.KK()
	case OP_ADD_KK:
		m.Register[x] += code.KK()
	case OP_LD_REG:
		m.Register[x] = m.Register[y]
	case OP_OR:
		m.Register[x] |= m.Register[y]
	case OP_AND:
		m.Register[x] &= m.Register[y]
	case OP_XOR:
		m.Register[x] ^= m.Register[y]
	case OP_ADD_REG:
		// Result lands before the flag, so VF as a target is
		// overwritten by its own carry.
		vx, vy := m.Register[x], m.Register[y]
		m.Register[x] = vx + vy
		if vx+vy < vx {
			m.Register[0xF] = 1
		} else {
			m.Register[0xF] = 0
		}
	case OP_SUB:
		vx, vy := m.Register[x], m.Register[y]
		m.Register[x] = vx - vy
		if vx >= vy {
			m.Register[0xF] = 1
		} else {
			m.Register[0xF] = 0
		}
	case OP_SHR:
		// Flag lands before the shift; Vy is ignored.
		m.Register[0xF] = m.Register[x] & 1
		m.Register[x] >>= 1
	case OP_SUBN:
		vx, vy := m.Register[x], m.Register[y]
		m.Register[x] = vy - vx
		if vy >= vx {
			m.Register[0xF] = 1
		} else {
			m.Register[0xF] = 0
		}
	case OP_SHL:
		m.Register[0xF] = m.Register[x] >> 7
		m.Register[x] <<= 1
	case OP_SNE_REG:
		if m.Register[x] != m.Register[y] {
			m.Pc += 2
		}
	case OP_LD_I:
		m.Index = code.NNN()
	case OP_JP_V0:
		m.Pc = code.NNN() + uint16(m.Register[0])
	case OP_RND:
		m.Register[x] = m.rand() & code.KK()
	case OP_DRW:
		m.draw(m.Register[x], m.Register[y], code.N())
	case OP_SKP:
		if m.Keypad[m.Register[x]&0xF] {
			m.Pc += 2
		}
	case OP_SKNP:
		if !m.Keypad[m.Register[x]&0xF] {
			m.Pc += 2
		}
	case OP_LD_DT:
		m.Register[x] = m.DelayTimer
	case OP_LD_KEY:
		// Busy-wait: rewind and refetch until a key is held. The
		// highest-numbered held key wins.
		pressed := false
		for key := range KEY_COUNT {
			if m.Keypad[key] {
				m.Register[x] = byte(key)
				pressed = true
			}
		}
		if !pressed {
			m.Pc -= 2
		}
	case OP_ST_DT:
		m.DelayTimer = m.Register[x]
	case OP_ST_ST:
		m.SoundTimer = m.Register[x]
	case OP_ADD_I:
		m.Index += uint16(m.Register[x])
	case OP_LD_FONT:
		m.Index = uint16(m.Register[x]) * FONT_HEIGHT
	case OP_LD_BCD:
		vx := m.Register[x]
		m.store(m.Index, vx/100)
		m.store(m.Index+1, (vx/10)%10)
		m.store(m.Index+2, (vx%100)%10)
	case OP_ST_REGS:
		for n := byte(0); n <= x; n++ {
			m.store(m.Index+uint16(n), m.Register[n])
		}
		m.Index += uint16(x) + 1
	case OP_LD_REGS:
		for n := byte(0); n <= x; n++ {
			m.Register[n] = m.load(m.Index + uint16(n))
		}
		m.Index += uint16(x) + 1
	}
}

// draw XORs an n-row sprite at (vx, vy) onto the screen. The pixel
// buffer is addressed linearly modulo its size, so sprites wrap both
// off the right edge and off the bottom. The collision flag is sticky
// across the whole sprite.
func (m *Machine) draw(vx, vy, n byte) {
	m.Register[0xF] = 0

	for line := range int(n) {
		sprite := m.load(m.Index + uint16(line))
		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			at := (int(vx) + col + (int(vy)+line)*SCREEN_WIDTH) %
				len(m.Screen)
			if m.Screen[at] == 1 {
				m.Register[0xF] = 1
			}
			m.Screen[at] ^= 1
		}
	}
}

func (m *Machine) load(addr uint16) byte {
	return m.Memory[addr&(MEMORY_SIZE-1)]
}

func (m *Machine) store(addr uint16, value byte) {
	m.Memory[addr&(MEMORY_SIZE-1)] = value
}

func (m *Machine) rand() byte {
	if m.Rand != nil {
		return m.Rand()
	}

	return byte(rand.Uint32())
}
