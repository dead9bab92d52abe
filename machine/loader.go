package machine

import (
	"fmt"
	"os"

	"github.com/drewwalton19216801/Butterfly/mos6502"
)

const DemoProgramAddr = 0x8000

// LDA #$01; STA $0200; NOP; BRK
var demoProgram = []byte{0xa9, 0x01, 0x8d, 0x00, 0x02, 0xea, 0x00}

// LoadProgram copies a raw image into memory at addr. Data past $FFFF is
// dropped; the number of bytes written is returned.
func (m *Machine) LoadProgram(data []byte, addr uint16) int {
	m.mu.Lock()
	n := m.bus.Load(addr, data)
	m.mu.Unlock()
	if n < len(data) {
		Warning("loader: image truncated at $FFFF, %d of %d bytes loaded", n, len(data))
	}
	Logger("loader: %d bytes at $%04X", n, addr)
	return n
}

// LoadFile reads a raw binary (no header) and loads it at addr.
func (m *Machine) LoadFile(path string, addr uint16) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return m.LoadProgram(data, addr), nil
}

// LoadDemoProgram loads the demo program at $8000 and points RESET at it and
// IRQ/NMI at its BRK.
func (m *Machine) LoadDemoProgram() {
	m.LoadProgram(demoProgram, DemoProgramAddr)
	brk := uint16(DemoProgramAddr + len(demoProgram) - 1)
	m.SetVector(mos6502.ResetVector, DemoProgramAddr)
	m.SetVector(mos6502.IRQVector, brk)
	m.SetVector(mos6502.NMIVector, brk)
}

// SetVector stores addr little-endian at vector.
func (m *Machine) SetVector(vector, addr uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bus.Write(vector, byte(addr))
	m.bus.Write(vector+1, byte(addr>>8))
}
