package machine

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/drewwalton19216801/Butterfly/mos6502"
)

/**
这个模块作为cpu/内存/外设的封装
所有对 cpu 和内存的访问都要拿 mu，一次 Clock、一次 Reset、一次 peek/poke 各拿一次锁
hook 在锁内执行，所以外设不能再回调 Machine
*/

var (
	ErrUnknownRegister  = errors.New("unknown register")
	ErrInvalidFrequency = errors.New("frequency must be at least 1 Hz")
)

// Mode is the driver mode of a Machine.
type Mode int

const (
	// Paused: the driver keeps ticking but does not clock the CPU.
	Paused Mode = iota
	// Running: the driver clocks the CPU at the configured frequency.
	Running
	// SingleStepping: the CPU only advances on explicit Clock/StepInstruction calls.
	SingleStepping
)

func (m Mode) String() string {
	switch m {
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case SingleStepping:
		return "SingleStepping"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const (
	DefaultFrequency = 10.0
	MaxFrequency     = 1e6
)

type Config struct {
	Variant   mos6502.Variant
	Frequency float64 // Hz, 0 means DefaultFrequency
}

type Machine struct {
	mu sync.Mutex

	bus    *mos6502.Bus
	cpu    *mos6502.CPU
	demo   *DemoDevice
	keypad *Keypad

	mode Mode
	hz   float64
}

// New builds a machine with the demo device and keypad attached. The CPU is
// not reset; call Reset once a program and its vectors are in place.
func New(cfg Config) *Machine {
	hz := cfg.Frequency
	if hz == 0 {
		hz = DefaultFrequency
	}
	if hz < 1 {
		hz = 1
	}
	if hz > MaxFrequency {
		hz = MaxFrequency
	}
	bus := mos6502.NewBus()
	m := &Machine{
		bus:    bus,
		cpu:    mos6502.New(bus, cfg.Variant),
		demo:   NewDemoDevice(),
		keypad: NewKeypad(),
		mode:   Paused,
		hz:     hz,
	}
	m.AttachDevice(m.demo)
	m.AttachDevice(m.keypad)
	Logger("machine: %s at %g Hz", cfg.Variant, hz)
	return m
}

func (m *Machine) Variant() mos6502.Variant {
	return m.cpu.Variant()
}

// Reset resets the CPU. Memory and devices keep their contents.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.cpu.Reset()
	pc := m.cpu.PC
	m.mu.Unlock()
	Logger("machine: reset, PC=$%04X", pc)
}

// Clock advances the CPU by one cycle.
func (m *Machine) Clock() {
	m.mu.Lock()
	fetch := m.cpu.Complete()
	pc := m.cpu.PC
	m.cpu.Clock()
	illegal := fetch && m.cpu.State() == mos6502.IllegalOpcode
	m.mu.Unlock()

	if illegal {
		m.warnIllegal(pc)
	}
}

// Step is Clock.
func (m *Machine) Step() {
	m.Clock()
}

// StepInstruction runs out the current countdown and one whole instruction.
// Returns the cycles consumed.
func (m *Machine) StepInstruction() int {
	m.mu.Lock()
	pc := m.cpu.PC
	n := m.cpu.Step()
	illegal := m.cpu.State() == mos6502.IllegalOpcode
	if illegal {
		if ins, ok := m.cpu.CurrentInstruction(); ok {
			pc = m.cpu.PC - uint16(ins.Length)
		}
	}
	m.mu.Unlock()

	if illegal {
		m.warnIllegal(pc)
	}
	return n
}

func (m *Machine) warnIllegal(pc uint16) {
	m.mu.Lock()
	op := m.bus.Peek(pc)
	m.mu.Unlock()
	Warning("machine: illegal opcode $%02X at $%04X", op, pc)
}

func (m *Machine) IRQ() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.IRQ()
}

func (m *Machine) NMI() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.NMI()
}

func (m *Machine) setMode(mode Mode) {
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
	Logger("machine: %s", mode)
}

// Start lets the driver clock the CPU.
func (m *Machine) Start() {
	m.setMode(Running)
}

// Stop is Pause.
func (m *Machine) Stop() {
	m.Pause()
}

func (m *Machine) Pause() {
	m.setMode(Paused)
}

// SingleStep hands the clock over to explicit Clock/StepInstruction calls.
func (m *Machine) SingleStep() {
	m.setMode(SingleStepping)
}

func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *Machine) Frequency() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hz
}

// SetFrequency sets the driver frequency in Hz.
func (m *Machine) SetFrequency(hz float64) error {
	if hz < 1 {
		return fmt.Errorf("set frequency %g: %w", hz, ErrInvalidFrequency)
	}
	if hz > MaxFrequency {
		hz = MaxFrequency
	}
	m.mu.Lock()
	m.hz = hz
	m.mu.Unlock()
	Logger("machine: speed %g Hz", hz)
	return nil
}

func (m *Machine) IncreaseSpeed(delta float64) float64 {
	return m.adjustSpeed(delta)
}

func (m *Machine) DecreaseSpeed(delta float64) float64 {
	return m.adjustSpeed(-delta)
}

// adjustSpeed clamps to [1, MaxFrequency] and returns the new frequency.
func (m *Machine) adjustSpeed(delta float64) float64 {
	m.mu.Lock()
	hz := m.hz + delta
	if hz < 1 {
		hz = 1
	}
	if hz > MaxFrequency {
		hz = MaxFrequency
	}
	m.hz = hz
	m.mu.Unlock()
	return hz
}

// Status is a consistent copy of the machine taken under one lock.
type Status struct {
	Registers   mos6502.Registers
	CPUState    mos6502.State
	Cycles      int
	TotalCycles uint64
	Disassembly string
	Variant     mos6502.Variant
	Mode        Mode
	Frequency   float64
	Device      [3]byte
}

func (m *Machine) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Registers:   m.cpu.Registers,
		CPUState:    m.cpu.State(),
		Cycles:      m.cpu.Cycles(),
		TotalCycles: m.cpu.TotalCycles(),
		Disassembly: m.cpu.Disassembly(),
		Variant:     m.cpu.Variant(),
		Mode:        m.mode,
		Frequency:   m.hz,
		Device:      m.demo.data,
	}
}

func (s Status) String() string {
	return fmt.Sprintf("%s [%s] %s %s cycles:%d @ %g Hz",
		s.Registers, s.CPUState, s.Variant, s.Mode, s.TotalCycles, s.Frequency)
}

// PeekRegister returns register name as "$XX". Names are A, X, Y, SP and P
// (SR is accepted for P).
func (m *Machine) PeekRegister(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, err := m.register(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("$%02X", *reg), nil
}

func (m *Machine) PokeRegister(name string, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, err := m.register(name)
	if err != nil {
		return err
	}
	*reg = value
	return nil
}

// register must be called with mu held.
func (m *Machine) register(name string) (*byte, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A":
		return &m.cpu.A, nil
	case "X":
		return &m.cpu.X, nil
	case "Y":
		return &m.cpu.Y, nil
	case "SP":
		return &m.cpu.SP, nil
	case "P", "SR":
		return &m.cpu.P, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownRegister)
}

func (m *Machine) PeekPC() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("$%04X", m.cpu.PC)
}

func (m *Machine) PokePC(value uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.PC = value
}

// PeekMemory reads addr the way the CPU would, hooks included, and returns
// "$XX".
func (m *Machine) PeekMemory(addr uint16) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("$%02X", m.bus.Read(addr))
}

func (m *Machine) PokeMemory(addr uint16, value byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bus.Write(addr, value)
}

// ReadRange copies n bytes from start without triggering hooks. The window
// wraps at $FFFF.
func (m *Machine) ReadRange(start uint16, n int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = m.bus.Peek(start + uint16(i))
	}
	return out
}

func (m *Machine) Disassemble(addr uint16) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cpu.Disassemble(addr)
}

func (m *Machine) DisassembleRange(addr uint16, count int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cpu.DisassembleRange(addr, count)
}

// RegisterReadHook adds a read hook to the bus. fn runs with the machine
// locked.
func (m *Machine) RegisterReadHook(start, end uint16, fn mos6502.ReadHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bus.RegisterReadHook(start, end, fn)
}

// RegisterWriteHook adds a write hook to the bus. fn runs with the machine
// locked.
func (m *Machine) RegisterWriteHook(start, end uint16, fn mos6502.WriteHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bus.RegisterWriteHook(start, end, fn)
}

// SetButtons updates the keypad state.
func (m *Machine) SetButtons(buttons [8]bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keypad.SetButtons(buttons)
}
