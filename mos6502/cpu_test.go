package mos6502

import "testing"

const origin = 0x8000

type testRig struct {
	bus *Bus
	cpu *CPU
}

// newTestRig loads program at origin, points every vector there and runs out
// the reset countdown so the next Step executes the first instruction.
func newTestRig(variant Variant, program ...byte) *testRig {
	bus := NewBus()
	bus.Load(origin, program)
	setVector(bus, ResetVector, origin)
	setVector(bus, IRQVector, origin)
	setVector(bus, NMIVector, origin)
	cpu := New(bus, variant)
	cpu.Reset()
	for !cpu.Complete() {
		cpu.Clock()
	}
	return &testRig{bus: bus, cpu: cpu}
}

func setVector(bus *Bus, vector, addr uint16) {
	bus.Write(vector, byte(addr))
	bus.Write(vector+1, byte(addr>>8))
}

func TestReset(t *testing.T) {
	bus := NewBus()
	setVector(bus, ResetVector, 0x1234)
	cpu := New(bus, NMOS6502)
	cpu.A, cpu.X, cpu.Y = 1, 2, 3
	cpu.Reset()

	if cpu.PC != 0x1234 {
		t.Errorf("PC = %04X, want 1234", cpu.PC)
	}
	if cpu.A != 0 || cpu.X != 0 || cpu.Y != 0 {
		t.Errorf("registers not cleared: %s", cpu.Registers)
	}
	if cpu.SP != 0xfd {
		t.Errorf("SP = %02X, want FD", cpu.SP)
	}
	if cpu.P != byte(Unused|InterruptDisable) {
		t.Errorf("P = %02X, want 24", cpu.P)
	}
	if cpu.Cycles() != 8 {
		t.Errorf("cycles = %d, want 8", cpu.Cycles())
	}
	if cpu.State() != Stopped {
		t.Errorf("state = %s, want Stopped", cpu.State())
	}
}

func TestEndToEndProgram(t *testing.T) {
	bus := NewBus()
	// LDA #$01; STA $0200; NOP; BRK
	bus.Load(0x8000, []byte{0xa9, 0x01, 0x8d, 0x00, 0x02, 0xea, 0x00})
	setVector(bus, ResetVector, 0x8000)
	setVector(bus, IRQVector, 0x8006)
	setVector(bus, NMIVector, 0x8006)

	cpu := New(bus, NMOS6502)
	cpu.Reset()
	// reset + LDA + STA + NOP + BRK
	for i := 0; i < 8+2+4+2+7; i++ {
		cpu.Clock()
	}

	if got := bus.Read(0x0200); got != 0x01 {
		t.Errorf("$0200 = %02X, want 01", got)
	}
	if cpu.A != 0x01 {
		t.Errorf("A = %02X, want 01", cpu.A)
	}
	if cpu.PC != 0x8006 {
		t.Errorf("PC = %04X, want 8006", cpu.PC)
	}
	if !cpu.Complete() {
		t.Errorf("cycles = %d, want instruction boundary", cpu.Cycles())
	}
	if cpu.TotalCycles() != 23 {
		t.Errorf("total cycles = %d, want 23", cpu.TotalCycles())
	}
}

func TestADC(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		decimal bool
		carry   bool
		a, m    byte
		want    byte
		c, v    bool
		z, n    bool
	}{
		{"binary", NMOS6502, false, false, 0x10, 0x20, 0x30, false, false, false, false},
		{"binary carry in", NMOS6502, false, true, 0x10, 0x20, 0x31, false, false, false, false},
		{"binary carry out", NMOS6502, false, false, 0xff, 0x01, 0x00, true, false, true, false},
		{"binary overflow", NMOS6502, false, false, 0x50, 0x50, 0xa0, false, true, false, true},
		{"binary negative overflow", CMOS65C02, false, false, 0x90, 0x90, 0x20, true, true, false, false},
		{"decimal", NMOS6502, true, false, 0x15, 0x27, 0x42, false, false, false, false},
		{"decimal carry out", NMOS6502, true, false, 0x99, 0x01, 0x00, true, false, true, false},
		{"decimal cmos", CMOS65C02, true, false, 0x09, 0x01, 0x10, false, false, false, false},
		{"decimal ignored on nes", NES6502, true, false, 0x15, 0x27, 0x3c, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(tt.variant, 0x69, tt.m)
			r.cpu.A = tt.a
			r.cpu.SetFlag(Decimal, tt.decimal)
			r.cpu.SetFlag(Carry, tt.carry)
			r.cpu.Step()

			if r.cpu.A != tt.want {
				t.Errorf("A = %02X, want %02X", r.cpu.A, tt.want)
			}
			checkFlag(t, r.cpu, Carry, tt.c)
			checkFlag(t, r.cpu, Overflow, tt.v)
			checkFlag(t, r.cpu, Zero, tt.z)
			checkFlag(t, r.cpu, Negative, tt.n)
		})
	}
}

func TestSBC(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		decimal bool
		carry   bool
		a, m    byte
		want    byte
		c, v    bool
	}{
		{"binary", NMOS6502, false, true, 0x50, 0x20, 0x30, true, false},
		{"binary borrow in", NMOS6502, false, false, 0x50, 0x20, 0x2f, true, false},
		{"binary borrow out", NMOS6502, false, true, 0x00, 0x01, 0xff, false, false},
		{"binary overflow", NMOS6502, false, true, 0x50, 0xb0, 0xa0, false, true},
		{"decimal", NMOS6502, true, true, 0x42, 0x27, 0x15, true, false},
		{"decimal borrow out", CMOS65C02, true, true, 0x00, 0x01, 0x99, false, false},
		{"decimal nibble borrow", NMOS6502, true, true, 0x10, 0x01, 0x09, true, false},
		{"decimal ignored on nes", NES6502, true, true, 0x42, 0x27, 0x1b, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(tt.variant, 0xe9, tt.m)
			r.cpu.A = tt.a
			r.cpu.SetFlag(Decimal, tt.decimal)
			r.cpu.SetFlag(Carry, tt.carry)
			r.cpu.Step()

			if r.cpu.A != tt.want {
				t.Errorf("A = %02X, want %02X", r.cpu.A, tt.want)
			}
			checkFlag(t, r.cpu, Carry, tt.c)
			checkFlag(t, r.cpu, Overflow, tt.v)
		})
	}
}

func TestRORVariants(t *testing.T) {
	tests := []struct {
		variant Variant
		want    byte
		carry   bool
	}{
		{NMOS6502, 0x02, false},
		{CMOS65C02, 0x40, true},
		{NES6502, 0x40, true},
	}
	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			r := newTestRig(tt.variant, 0x6a)
			r.cpu.A = 0x81
			r.cpu.SetFlag(Carry, false)
			r.cpu.Step()

			if r.cpu.A != tt.want {
				t.Errorf("A = %02X, want %02X", r.cpu.A, tt.want)
			}
			checkFlag(t, r.cpu, Carry, tt.carry)
		})
	}
}

func TestRORMemory(t *testing.T) {
	tests := []struct {
		variant Variant
		want    byte
	}{
		{NMOS6502, 0x02},
		{CMOS65C02, 0xc0},
	}
	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			// ROR $10
			r := newTestRig(tt.variant, 0x66, 0x10)
			r.bus.Write(0x10, 0x81)
			r.cpu.A = 0x55
			r.cpu.SetFlag(Carry, true)
			r.cpu.Step()

			if got := r.bus.Read(0x10); got != tt.want {
				t.Errorf("$10 = %02X, want %02X", got, tt.want)
			}
			if r.cpu.A != 0x55 {
				t.Errorf("A changed to %02X", r.cpu.A)
			}
			// carry in was set: NMOS leaves it, CMOS takes bit 0 of $81
			checkFlag(t, r.cpu, Carry, true)
		})
	}
}

func TestIndirectPageWrap(t *testing.T) {
	// JMP ($30FF)
	r := newTestRig(NMOS6502, 0x6c, 0xff, 0x30)
	r.bus.Write(0x30ff, 0x80)
	r.bus.Write(0x3000, 0x50)
	r.bus.Write(0x3100, 0x40)
	r.cpu.Step()

	if r.cpu.PC != 0x5080 {
		t.Errorf("PC = %04X, want 5080 (not 4080)", r.cpu.PC)
	}
}

func TestIndirectNoWrap(t *testing.T) {
	r := newTestRig(NMOS6502, 0x6c, 0x20, 0x30)
	r.bus.Write(0x3020, 0x34)
	r.bus.Write(0x3021, 0x12)
	r.cpu.Step()

	if r.cpu.PC != 0x1234 {
		t.Errorf("PC = %04X, want 1234", r.cpu.PC)
	}
}

func TestAddressingModes(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		setup   func(r *testRig)
		want    byte
	}{
		{"zero page x wraps", []byte{0xb5, 0xf0}, func(r *testRig) {
			r.cpu.X = 0x20
			r.bus.Write(0x0010, 0x11)
		}, 0x11},
		{"zero page y", []byte{0xb6, 0x10}, func(r *testRig) {
			r.cpu.Y = 0x01
			r.bus.Write(0x0011, 0x22)
		}, 0x22},
		{"absolute y", []byte{0xb9, 0x00, 0x20}, func(r *testRig) {
			r.cpu.Y = 0x05
			r.bus.Write(0x2005, 0x33)
		}, 0x33},
		{"indirect x wraps pointer", []byte{0xa1, 0xfe}, func(r *testRig) {
			r.cpu.X = 0x01
			r.bus.Write(0x00ff, 0x00)
			r.bus.Write(0x0000, 0x40)
			r.bus.Write(0x4000, 0x44)
		}, 0x44},
		{"indirect y", []byte{0xb1, 0x20}, func(r *testRig) {
			r.cpu.Y = 0x10
			r.bus.Write(0x0020, 0x00)
			r.bus.Write(0x0021, 0x50)
			r.bus.Write(0x5010, 0x55)
		}, 0x55},
		{"indirect y pointer at ff", []byte{0xb1, 0xff}, func(r *testRig) {
			r.bus.Write(0x00ff, 0x00)
			r.bus.Write(0x0000, 0x60)
			r.bus.Write(0x6000, 0x66)
		}, 0x66},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(NMOS6502, tt.program...)
			tt.setup(r)
			r.cpu.Step()
			// LDX for zero page y
			got := r.cpu.A
			if tt.program[0] == 0xb6 {
				got = r.cpu.X
			}
			if got != tt.want {
				t.Errorf("loaded %02X, want %02X", got, tt.want)
			}
		})
	}
}

func TestPageCrossCycles(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		x, y    byte
		want    int
	}{
		{"lda abs,x same page", []byte{0xbd, 0x00, 0x20}, 0x10, 0, 4},
		{"lda abs,x crossing", []byte{0xbd, 0xff, 0x20}, 0x01, 0, 5},
		{"lda abs,y crossing", []byte{0xb9, 0x80, 0x20}, 0, 0x80, 5},
		{"sta abs,x crossing pays nothing extra", []byte{0x9d, 0xff, 0x20}, 0x01, 0, 5},
		{"sta abs,x same page", []byte{0x9d, 0x00, 0x20}, 0x01, 0, 5},
		{"lda (zp),y crossing", []byte{0xb1, 0x40}, 0, 0x01, 6},
		{"inc abs,x crossing", []byte{0xfe, 0xff, 0x20}, 0x01, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(NMOS6502, tt.program...)
			r.bus.Write(0x0040, 0xff)
			r.bus.Write(0x0041, 0x20)
			r.cpu.X = tt.x
			r.cpu.Y = tt.y
			if got := r.cpu.Step(); got != tt.want {
				t.Errorf("cycles = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolvePageCross(t *testing.T) {
	tests := []struct {
		mode  AddressingMode
		base  uint16
		index byte
		want  bool
	}{
		{AbsoluteX, 0x20f0, 0x0f, false},
		{AbsoluteX, 0x20f0, 0x10, true},
		{AbsoluteY, 0x20ff, 0x01, true},
		{AbsoluteY, 0x2000, 0xff, false},
	}
	for _, tt := range tests {
		bus := NewBus()
		bus.Write(0x0300, byte(tt.base))
		bus.Write(0x0301, byte(tt.base>>8))
		cpu := New(bus, NMOS6502)
		cpu.PC = 0x0300
		cpu.X, cpu.Y = tt.index, tt.index

		if got := cpu.resolve(tt.mode); got != tt.want {
			t.Errorf("%s %04X+%02X crossed = %v, want %v", tt.mode, tt.base, tt.index, got, tt.want)
		}
		if cpu.addressAbsolute != tt.base+uint16(tt.index) {
			t.Errorf("%s address = %04X", tt.mode, cpu.addressAbsolute)
		}
		if cpu.PC != 0x0302 {
			t.Errorf("%s PC = %04X, want 0302", tt.mode, cpu.PC)
		}
	}
}

func TestBranchCycles(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		zero    bool
		cycles  int
		pc      uint16
	}{
		{"not taken", []byte{0xd0, 0x10}, true, 2, 0x8002},
		{"taken", []byte{0xd0, 0x10}, false, 3, 0x8012},
		{"taken backwards crossing page", []byte{0xd0, 0xf0}, false, 4, 0x7ff2},
		{"beq taken", []byte{0xf0, 0x02}, true, 3, 0x8004},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(NMOS6502, tt.program...)
			r.cpu.SetFlag(Zero, tt.zero)
			if got := r.cpu.Step(); got != tt.cycles {
				t.Errorf("cycles = %d, want %d", got, tt.cycles)
			}
			if r.cpu.PC != tt.pc {
				t.Errorf("PC = %04X, want %04X", r.cpu.PC, tt.pc)
			}
		})
	}
}

func TestSubroutine(t *testing.T) {
	// JSR $8010 / ... / $8010: LDX #$07; RTS
	r := newTestRig(NMOS6502, 0x20, 0x10, 0x80)
	r.bus.Load(0x8010, []byte{0xa2, 0x07, 0x60})

	r.cpu.Step()
	if r.cpu.PC != 0x8010 {
		t.Fatalf("PC after JSR = %04X", r.cpu.PC)
	}
	if r.cpu.SP != 0xfb {
		t.Errorf("SP after JSR = %02X, want FB", r.cpu.SP)
	}
	if lo, hi := r.bus.Read(0x01fc), r.bus.Read(0x01fd); lo != 0x02 || hi != 0x80 {
		t.Errorf("return address = %02X%02X, want 8002", hi, lo)
	}
	r.cpu.Step()
	r.cpu.Step()
	if r.cpu.PC != 0x8003 {
		t.Errorf("PC after RTS = %04X, want 8003", r.cpu.PC)
	}
	if r.cpu.X != 0x07 {
		t.Errorf("X = %02X", r.cpu.X)
	}
}

func TestBRKAndRTI(t *testing.T) {
	r := newTestRig(NMOS6502, 0x00)
	setVector(r.bus, IRQVector, 0x9000)
	r.bus.Write(0x9000, 0x40) // RTI
	r.cpu.SetFlag(InterruptDisable, false)
	r.cpu.SetFlag(Carry, true)

	if got := r.cpu.Step(); got != 7 {
		t.Errorf("BRK cycles = %d, want 7", got)
	}
	if r.cpu.PC != 0x9000 {
		t.Fatalf("PC = %04X, want 9000", r.cpu.PC)
	}
	pushed := r.bus.Read(0x01fb)
	if pushed&byte(Break) == 0 || pushed&byte(InterruptDisable) == 0 {
		t.Errorf("pushed P = %02X, want B and I set", pushed)
	}
	if r.cpu.GetFlag(Break) {
		t.Error("B still set after BRK")
	}

	r.cpu.Step()
	// BRK skips the signature byte
	if r.cpu.PC != 0x8002 {
		t.Errorf("PC after RTI = %04X, want 8002", r.cpu.PC)
	}
	if r.cpu.GetFlag(Break) || !r.cpu.GetFlag(Unused) || !r.cpu.GetFlag(Carry) {
		t.Errorf("P after RTI = %s", r.cpu.FlagString())
	}
}

func TestStackOps(t *testing.T) {
	// LDA #$80; PHA; PHP; LDA #$00; PLP; PLA; TSX
	r := newTestRig(NMOS6502, 0xa9, 0x80, 0x48, 0x08, 0xa9, 0x00, 0x28, 0x68, 0xba)
	for i := 0; i < 7; i++ {
		r.cpu.Step()
	}
	if r.cpu.A != 0x80 {
		t.Errorf("A = %02X, want 80", r.cpu.A)
	}
	if !r.cpu.GetFlag(Negative) {
		t.Error("N not set by PLA")
	}
	if r.cpu.GetFlag(Break) {
		t.Error("PLP left B set")
	}
	if r.cpu.X != 0xfd || r.cpu.SP != 0xfd {
		t.Errorf("X = %02X SP = %02X, want FD", r.cpu.X, r.cpu.SP)
	}
}

func TestCompareAndBit(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		a       byte
		c, z, n bool
		v       bool
	}{
		{"cmp greater", []byte{0xc9, 0x10}, 0x20, true, false, false, false},
		{"cmp equal", []byte{0xc9, 0x20}, 0x20, true, true, false, false},
		{"cmp less", []byte{0xc9, 0x30}, 0x20, false, false, true, false},
		{"bit", []byte{0x24, 0x10}, 0x01, false, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(NMOS6502, tt.program...)
			r.bus.Write(0x10, 0xc0)
			r.cpu.A = tt.a
			r.cpu.SetFlag(Carry, false)
			r.cpu.Step()
			checkFlag(t, r.cpu, Zero, tt.z)
			checkFlag(t, r.cpu, Negative, tt.n)
			if tt.program[0] == 0x24 {
				checkFlag(t, r.cpu, Overflow, tt.v)
			} else {
				checkFlag(t, r.cpu, Carry, tt.c)
			}
		})
	}
}

func TestIllegalOpcode(t *testing.T) {
	r := newTestRig(CMOS65C02, 0x02, 0xea)
	if got := r.cpu.Step(); got != 1 {
		t.Errorf("cycles = %d, want 1", got)
	}
	if r.cpu.State() != IllegalOpcode {
		t.Errorf("state = %s, want IllegalOpcode", r.cpu.State())
	}
	if r.cpu.PC != 0x8001 {
		t.Errorf("PC = %04X, want 8001", r.cpu.PC)
	}
	r.cpu.Step()
	if r.cpu.State() != Executing {
		t.Errorf("state after NOP = %s", r.cpu.State())
	}
}

func TestInterrupts(t *testing.T) {
	r := newTestRig(NMOS6502, 0xea)
	setVector(r.bus, IRQVector, 0x9000)
	setVector(r.bus, NMIVector, 0xa000)

	// I is set after reset
	r.cpu.IRQ()
	if r.cpu.PC != origin || r.cpu.Cycles() != 0 {
		t.Fatalf("masked IRQ taken: PC = %04X", r.cpu.PC)
	}

	r.cpu.SetFlag(InterruptDisable, false)
	r.cpu.IRQ()
	if r.cpu.PC != 0x9000 {
		t.Errorf("PC = %04X, want 9000", r.cpu.PC)
	}
	if r.cpu.Cycles() != 7 || r.cpu.State() != Interrupt {
		t.Errorf("cycles = %d state = %s", r.cpu.Cycles(), r.cpu.State())
	}
	if !r.cpu.GetFlag(InterruptDisable) {
		t.Error("I not set by IRQ")
	}
	if p := r.bus.Read(0x01fb); p&byte(Break) != 0 {
		t.Errorf("pushed P = %02X has B set", p)
	}

	r.cpu.NMI()
	if r.cpu.PC != 0xa000 {
		t.Errorf("PC = %04X, want A000", r.cpu.PC)
	}
	if r.cpu.Cycles() != 15 {
		t.Errorf("cycles = %d, want 15", r.cpu.Cycles())
	}
}

func TestUnusedFlagAlwaysSet(t *testing.T) {
	// LDA #$00; PHA; PLP
	r := newTestRig(NMOS6502, 0xa9, 0x00, 0x48, 0x28)
	for i := 0; i < 3; i++ {
		r.cpu.Step()
		if !r.cpu.GetFlag(Unused) {
			t.Fatalf("U clear after step %d: P = %02X", i, r.cpu.P)
		}
	}
}

func TestFetchWithoutInstructionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Fetch did not panic")
		}
	}()
	New(NewBus(), NMOS6502).Fetch()
}

func checkFlag(t *testing.T, cpu *CPU, flag Flag, want bool) {
	t.Helper()
	if got := cpu.GetFlag(flag); got != want {
		t.Errorf("flag %02X = %v, want %v (P=%s)", byte(flag), got, want, cpu.FlagString())
	}
}
