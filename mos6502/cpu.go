package mos6502

import "fmt"

/*
CPU模块，对外需要以下接口：
Clock
Reset
IRQ
NMI
还需要一个New方法
*/

// 各中断的地址信息，2byte
const (
	// NMI中断
	NMIVector = 0xfffa
	// 每次启动触发
	ResetVector = 0xfffc
	// IRQ/BRK共用中断地址
	IRQVector = 0xfffe

	stackBase = 0x0100
)

// resetCycles is the length of the reset sequence. The sequence itself is
// not executed, only counted down.
const resetCycles = 8

// CPU is a cycle counted 6502. It is not safe for concurrent use: callers
// that share a CPU between goroutines must serialise every call (see the
// machine package).
type CPU struct {
	Memory
	Registers

	variant Variant
	state   State

	// 当前指令还剩余的周期数，为 0 时才会取下一条指令
	cycles      int
	totalCycles uint64

	addressAbsolute uint16
	addressRelative uint16
	opcode          byte
	instruction     *Instruction
	fetched         byte

	disassembly string
}

// New creates a CPU attached to mem. Registers hold their construction values
// until Reset is called.
func New(mem Memory, variant Variant) *CPU {
	return &CPU{
		Memory:    mem,
		Registers: NewRegisters(),
		variant:   variant,
		state:     Stopped,
	}
}

func (cpu *CPU) Variant() Variant {
	return cpu.variant
}

func (cpu *CPU) State() State {
	return cpu.state
}

// Cycles returns the cycles left before the next fetch.
func (cpu *CPU) Cycles() int {
	return cpu.cycles
}

// TotalCycles counts every Clock since the last Reset.
func (cpu *CPU) TotalCycles() uint64 {
	return cpu.totalCycles
}

// Complete is true on an instruction boundary.
func (cpu *CPU) Complete() bool {
	return cpu.cycles == 0
}

// Disassembly is the text of the instruction fetched most recently.
func (cpu *CPU) Disassembly() string {
	return cpu.disassembly
}

// CurrentInstruction returns the decoded instruction, if any.
func (cpu *CPU) CurrentInstruction() (Instruction, bool) {
	if cpu.instruction == nil {
		return Instruction{}, false
	}
	return *cpu.instruction, true
}

func (cpu *CPU) String() string {
	return fmt.Sprintf("%s %s cycles:%d", cpu.Registers, cpu.state, cpu.cycles)
}

func (cpu *CPU) Read16(addr uint16) uint16 {
	lo := cpu.Read(addr)
	hi := cpu.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// 栈操作：push/push16/pull/pull16
// 压栈 SP指针向0x00靠近
func (cpu *CPU) push(value byte) {
	cpu.Write(stackBase|uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) push16(value uint16) {
	cpu.push(byte(value >> 8))
	cpu.push(byte(value))
}

func (cpu *CPU) pull() byte {
	cpu.SP++
	return cpu.Read(stackBase | uint16(cpu.SP))
}

func (cpu *CPU) pull16() uint16 {
	lo := uint16(cpu.pull())
	hi := uint16(cpu.pull())
	return hi<<8 | lo
}

// Reset puts the CPU into its power-up state and loads PC from the reset
// vector. The reset sequence is modelled as 8 cycles of countdown.
func (cpu *CPU) Reset() {
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = 0xfd
	cpu.PC = cpu.Read16(ResetVector)
	cpu.P = byte(Unused | InterruptDisable)

	cpu.addressAbsolute = 0
	cpu.addressRelative = 0
	cpu.opcode = 0
	cpu.instruction = nil
	cpu.fetched = 0
	cpu.disassembly = ""
	cpu.totalCycles = 0

	cpu.cycles = resetCycles
	cpu.state = Stopped
}

// interrupt pushes PC and P and jumps through vector. P is pushed with Break
// clear.
func (cpu *CPU) interrupt(vector uint16, cycles int) {
	cpu.push16(cpu.PC)
	cpu.SetFlag(Break, false)
	cpu.SetFlag(Unused, true)
	cpu.SetFlag(InterruptDisable, true)
	cpu.push(cpu.P)
	cpu.PC = cpu.Read16(vector)
	cpu.cycles += cycles
	cpu.state = Interrupt
}

// IRQ requests a maskable interrupt. Ignored while InterruptDisable is set.
func (cpu *CPU) IRQ() {
	if cpu.GetFlag(InterruptDisable) {
		return
	}
	cpu.interrupt(IRQVector, 7)
}

// NMI requests a non-maskable interrupt.
func (cpu *CPU) NMI() {
	cpu.interrupt(NMIVector, 8)
}

// Clock advances the CPU by one cycle. The whole instruction is performed on
// the cycle it is fetched; the remaining cycles are only counted down.
func (cpu *CPU) Clock() {
	if cpu.cycles == 0 {
		cpu.state = Fetching
		cpu.opcode = cpu.Read(cpu.PC)
		cpu.instruction = &instructionTable[cpu.opcode]
		cpu.SetFlag(Unused, true)
		cpu.cycles = int(cpu.instruction.Cycles)
		cpu.state = Executing
		cpu.disassembly = cpu.Disassemble(cpu.PC)
		cpu.PC++

		pageCrossed := cpu.resolve(cpu.instruction.Mode)
		pageCycle := cpu.execute(cpu.instruction.Mnemonic)
		if pageCrossed && pageCycle {
			cpu.cycles++
		}
		cpu.SetFlag(Unused, true)

		if cpu.instruction.Illegal() {
			cpu.state = IllegalOpcode
		}
	}

	cpu.cycles--
	cpu.totalCycles++
}

// Step runs out any outstanding countdown (reset, interrupt or the tail of
// an instruction) and then one complete instruction. Returns the cycles
// consumed.
func (cpu *CPU) Step() int {
	n := 0
	for cpu.cycles > 0 {
		cpu.Clock()
		n++
	}
	cpu.Clock()
	n++
	for cpu.cycles > 0 {
		cpu.Clock()
		n++
	}
	return n
}

// Fetch returns the operand of the current instruction: the cached byte for
// implied and accumulator modes, otherwise the byte at the resolved address.
func (cpu *CPU) Fetch() byte {
	if cpu.instruction == nil {
		panic("mos6502: fetch without a decoded instruction")
	}
	switch cpu.instruction.Mode {
	case Implied, Accumulator:
	default:
		cpu.fetched = cpu.Read(cpu.addressAbsolute)
	}
	return cpu.fetched
}
