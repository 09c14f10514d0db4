package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachine_Reset(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.Equal(uint16(BOOT_SECTOR), m.Pc)
	assert.Equal(uint16(0), m.Index)
	assert.True(m.Stack.Empty())

	// Glyph table below the boot sector.
	assert.Equal(fontset[:], m.Memory[:FONTSET_SIZE])
	assert.Equal(byte(0xF0), m.Memory[0])
	assert.Equal(byte(0x80), m.Memory[FONTSET_SIZE-1])

	m.Register[3] = 7
	m.Screen[100] = 1
	m.SetKeypress(4)
	m.Reset()
	assert.Equal(byte(0), m.Register[3])
	assert.Equal(byte(0), m.Screen[100])
	assert.False(m.Keypad[4])
}

func TestMachine_LoadRom(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.LoadRom([]byte{0x12, 0x34, 0x56})

	assert.Equal(byte(0x12), m.Memory[BOOT_SECTOR])
	assert.Equal(byte(0x34), m.Memory[BOOT_SECTOR+1])
	assert.Equal(byte(0x56), m.Memory[BOOT_SECTOR+2])
}

func TestMachine_Step(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.LoadRom([]byte{0x61, 0xAB}) // LD V1 AB

	text := m.Step()
	assert.Equal("LD V1 AB", text)
	assert.Equal(uint16(BOOT_SECTOR+2), m.Pc)
	assert.Equal(byte(0xAB), m.Register[1])
}

func TestMachine_Step_Nop(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.LoadRom(make([]byte, 64))

	text := m.Step()
	assert.Equal("NOP", text)
	assert.Equal(uint16(BOOT_SECTOR+2), m.Pc)
}

func TestMachine_Jump(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Execute(0x1ABC) // JP ABC
	assert.Equal(uint16(0xABC), m.Pc)

	m.Register[0] = 0x10
	m.Execute(0xB200) // JP V0 200
	assert.Equal(uint16(0x210), m.Pc)
}

func TestMachine_CallReturn(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Execute(0x2ABC) // CALL ABC
	assert.Equal(uint16(0xABC), m.Pc)
	assert.Equal(1, len(m.Stack.Data))
	assert.Equal(uint16(BOOT_SECTOR), m.Stack.Data[0])

	m.Execute(0x00EE) // RET
	assert.Equal(uint16(BOOT_SECTOR), m.Pc)
	assert.True(m.Stack.Empty())
}

// A call on a full stack is dropped; a return on an empty stack lands
// at address zero. Neither aborts the run.
func TestMachine_StackLimits(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	for range STACK_LIMIT {
		m.Execute(0x2ABC)
	}
	assert.True(m.Stack.Full())

	before := m.Pc
	m.Execute(0x2DEF)
	assert.Equal(before, m.Pc)
	assert.Equal(STACK_LIMIT, len(m.Stack.Data))

	m.Stack.Reset()
	m.Execute(0x00EE)
	assert.Equal(uint16(0), m.Pc)
}

func TestMachine_Skips(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		code Code
		v1   byte
		v2   byte
		skip bool
	}{
		{"SE equal", 0x3142, 0x42, 0, true},
		{"SE unequal", 0x3142, 0x41, 0, false},
		{"SNE equal", 0x4142, 0x42, 0, false},
		{"SNE unequal", 0x4142, 0x41, 0, true},
		{"SE reg equal", 0x5120, 7, 7, true},
		{"SE reg unequal", 0x5120, 7, 8, false},
		{"SNE reg equal", 0x9120, 7, 7, false},
		{"SNE reg unequal", 0x9120, 7, 8, true},
	}

	for _, test := range tests {
		m := NewMachine()
		m.Register[1] = test.v1
		m.Register[2] = test.v2

		m.Execute(test.code)

		expected := uint16(BOOT_SECTOR)
		if test.skip {
			expected += 2
		}
		assert.Equal(expected, m.Pc, test.name)
	}
}

func TestMachine_Alu(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		code Code
		v1   byte
		v2   byte
		out  byte
		vf   byte
	}{
		{"LD", 0x8120, 0x11, 0x22, 0x22, 0xA5},
		{"OR", 0x8121, 0x11, 0x22, 0x33, 0xA5},
		{"AND", 0x8122, 0x33, 0x22, 0x22, 0xA5},
		{"XOR", 0x8123, 0x33, 0x22, 0x11, 0xA5},
		{"ADD", 0x8124, 0x11, 0x22, 0x33, 0},
		{"ADD carry", 0x8124, 0xFF, 0x02, 0x01, 1},
		{"SUB", 0x8125, 0x33, 0x22, 0x11, 1},
		{"SUB equal", 0x8125, 0x22, 0x22, 0x00, 1},
		{"SUB borrow", 0x8125, 0x22, 0x33, 0xEF, 0},
		{"SHR", 0x8126, 0x05, 0x99, 0x02, 1},
		{"SHR even", 0x8126, 0x04, 0x99, 0x02, 0},
		{"SUBN", 0x8127, 0x22, 0x33, 0x11, 1},
		{"SUBN borrow", 0x8127, 0x33, 0x22, 0xEF, 0},
		{"SHL", 0x812E, 0x81, 0x99, 0x02, 1},
		{"SHL low", 0x812E, 0x41, 0x99, 0x82, 0},
	}

	for _, test := range tests {
		m := NewMachine()
		m.Register[1] = test.v1
		m.Register[2] = test.v2
		m.Register[0xF] = 0xA5 // Poison to catch unintended flag writes.

		m.Execute(test.code)

		assert.Equal(test.out, m.Register[1], test.name)
		assert.Equal(test.vf, m.Register[0xF], test.name)
	}
}

// When VF is the destination, the flag write wins over the result.
func TestMachine_AluFlagTarget(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[0xF] = 0xFF
	m.Register[2] = 0x02
	m.Execute(0x8F24) // ADD VF V2
	assert.Equal(byte(1), m.Register[0xF])

	m = NewMachine()
	m.Register[0xF] = 0x05
	m.Execute(0x8F26) // SHR VF; flag lands first, then shifts.
	assert.Equal(byte(0), m.Register[0xF])
}

func TestMachine_Immediate(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Execute(0x61AB) // LD V1 AB
	assert.Equal(byte(0xAB), m.Register[1])

	m.Execute(0x7101) // ADD V1 1
	assert.Equal(byte(0xAC), m.Register[1])

	// Wrapping add, no carry flag.
	m.Register[0xF] = 0xA5
	m.Execute(0x71FF)
	assert.Equal(byte(0xAB), m.Register[1])
	assert.Equal(byte(0xA5), m.Register[0xF])
}

func TestMachine_Rnd(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Rand = func() byte { return 0xDE }

	m.Execute(0xC1FF) // RND V1 FF
	assert.Equal(byte(0xDE), m.Register[1])

	m.Execute(0xC20F) // RND V2 0F
	assert.Equal(byte(0x0E), m.Register[2])
}

func TestMachine_Draw(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Index = 0x300
	m.Memory[0x300] = 0b1010_0000
	m.Register[1] = 4
	m.Register[2] = 2

	m.Execute(0xD121) // DRW V1 V2 1
	assert.Equal(byte(0), m.Register[0xF])
	assert.Equal(byte(1), m.Screen[2*SCREEN_WIDTH+4])
	assert.Equal(byte(0), m.Screen[2*SCREEN_WIDTH+5])
	assert.Equal(byte(1), m.Screen[2*SCREEN_WIDTH+6])

	// Redraw erases and reports the collision.
	m.Execute(0xD121)
	assert.Equal(byte(1), m.Register[0xF])
	assert.Equal(byte(0), m.Screen[2*SCREEN_WIDTH+4])
	assert.Equal(byte(0), m.Screen[2*SCREEN_WIDTH+6])
}

// Sprites wrap linearly: past the right edge onto the next row, and
// off the bottom back to the top of the buffer.
func TestMachine_DrawWrap(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Index = 0x300
	m.Memory[0x300] = 0b1100_0000
	m.Register[1] = 63
	m.Register[2] = 0

	m.Execute(0xD121)
	assert.Equal(byte(1), m.Screen[63])
	assert.Equal(byte(1), m.Screen[64]) // next row, not column 0 of row 0

	m = NewMachine()
	m.Index = 0x300
	m.Memory[0x300] = 0b1000_0000
	m.Memory[0x301] = 0b1000_0000
	m.Register[1] = 0
	m.Register[2] = 31

	m.Execute(0xD122)
	assert.Equal(byte(1), m.Screen[31*SCREEN_WIDTH])
	assert.Equal(byte(1), m.Screen[0]) // wrapped to the top
	assert.Equal(byte(0), m.Register[0xF])
}

// The collision flag stays set once any pixel is erased, even if a
// later row of the same sprite draws clean.
func TestMachine_DrawStickyCollision(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Index = 0x300
	m.Memory[0x300] = 0b1000_0000
	m.Memory[0x301] = 0b1000_0000
	m.Screen[0] = 1 // collides with row 0 only

	m.Execute(0xD002) // DRW V0 V0 2
	assert.Equal(byte(1), m.Register[0xF])
	assert.Equal(byte(0), m.Screen[0])
	assert.Equal(byte(1), m.Screen[SCREEN_WIDTH])
}

func TestMachine_Cls(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Screen[0] = 1
	m.Screen[2047] = 1

	m.Execute(0x00E0)
	for at, px := range m.Screen {
		if px != 0 {
			assert.Fail("pixel set after CLS", "at %d", at)
			break
		}
	}
}

func TestMachine_Keys(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[1] = 0x5

	m.Execute(0xE19E) // SKP V1
	assert.Equal(uint16(BOOT_SECTOR), m.Pc)

	m.SetKeypress(0x5)
	m.Execute(0xE19E)
	assert.Equal(uint16(BOOT_SECTOR+2), m.Pc)

	m.Execute(0xE1A1) // SKNP V1
	assert.Equal(uint16(BOOT_SECTOR+2), m.Pc)

	m.ClearKeypad()
	m.Execute(0xE1A1)
	assert.Equal(uint16(BOOT_SECTOR+4), m.Pc)
}

// LD Vx K busy-waits by rewinding the program counter until a key is
// held; the highest-numbered held key wins.
func TestMachine_WaitKey(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.LoadRom([]byte{0xF1, 0x0A}) // LD V1 K

	m.Step()
	assert.Equal(uint16(BOOT_SECTOR), m.Pc)

	m.SetKeypress(0x3)
	m.SetKeypress(0xB)
	m.Step()
	assert.Equal(uint16(BOOT_SECTOR+2), m.Pc)
	assert.Equal(byte(0xB), m.Register[1])
}

func TestMachine_Timers(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[1] = 3
	m.Execute(0xF115) // LD DT V1
	m.Execute(0xF118) // LD ST V1
	assert.Equal(byte(3), m.DelayTimer)
	assert.Equal(byte(3), m.SoundTimer)

	m.Execute(0xF207) // LD V2 DT
	assert.Equal(byte(3), m.Register[2])

	for range 5 {
		m.UpdateTimers()
	}
	assert.Equal(byte(0), m.DelayTimer)
	assert.Equal(byte(0), m.SoundTimer)
}

func TestMachine_Index(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Execute(0xA123) // LD I 123
	assert.Equal(uint16(0x123), m.Index)

	m.Register[1] = 0x10
	m.Execute(0xF11E) // ADD I V1
	assert.Equal(uint16(0x133), m.Index)
}

func TestMachine_Font(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	for digit := byte(0); digit < 16; digit++ {
		m.Register[1] = digit
		m.Execute(0xF129) // LD F V1
		assert.Equal(uint16(digit)*FONT_HEIGHT, m.Index)
		assert.Equal(fontset[digit*FONT_HEIGHT], m.Memory[m.Index])
	}
}

func TestMachine_Bcd(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		value    byte
		expected [3]byte
	}{
		{0, [3]byte{0, 0, 0}},
		{7, [3]byte{0, 0, 7}},
		{42, [3]byte{0, 4, 2}},
		{255, [3]byte{2, 5, 5}},
	}

	for _, test := range tests {
		m := NewMachine()
		m.Index = 0x300
		m.Register[1] = test.value

		m.Execute(0xF133) // LD B V1
		assert.Equal(test.expected[:], m.Memory[0x300:0x303], "value %d", test.value)
	}
}

// Fx55/Fx65 walk the index register past the stored range.
func TestMachine_RegisterDump(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Index = 0x300
	for n := byte(0); n < 4; n++ {
		m.Register[n] = n + 10
	}

	m.Execute(0xF355) // LD [I] V3
	assert.Equal([]byte{10, 11, 12, 13}, m.Memory[0x300:0x304])
	assert.Equal(uint16(0x304), m.Index)

	m.Index = 0x300
	clear(m.Register[:])
	m.Execute(0xF365) // LD V3 [I]
	assert.Equal(byte(10), m.Register[0])
	assert.Equal(byte(13), m.Register[3])
	assert.Equal(uint16(0x304), m.Index)
}

// Memory accesses wrap modulo the memory size rather than aborting.
func TestMachine_MemoryWrap(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Index = MEMORY_SIZE - 1
	m.Register[1] = 123
	m.Execute(0xF133) // LD B V1
	assert.Equal(byte(1), m.Memory[MEMORY_SIZE-1])
	assert.Equal(byte(2), m.Memory[0])
	assert.Equal(byte(3), m.Memory[1])

	m.Pc = MEMORY_SIZE - 2
	m.Memory[MEMORY_SIZE-2] = 0x61
	m.Memory[MEMORY_SIZE-1] = 0x42
	assert.Equal("LD V1 42", m.Step())
}
