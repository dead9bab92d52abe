package mos6502

/*
64KB 地址空间，常用的几个固定位置：
[$0000, $0100) zero page
[$0100, $0200) 栈
$FFFA-FFFB = NMI
$FFFC-FFFD = RESET
$FFFE-FFFF = IRQ/BRK
外设通过 hook 截获某一段地址的读写
*/

// Memory is what the CPU sees of the address bus.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// Peeker is implemented by memories that can be read without side effects.
// The disassembler uses it when available so that rendering code never
// triggers a device hook.
type Peeker interface {
	Peek(addr uint16) byte
}

// ReadHook answers a read for an address inside its window.
type ReadHook func(addr uint16) byte

// WriteHook observes a write for an address inside its window.
type WriteHook func(addr uint16, value byte)

type readHook struct {
	start, end uint16
	fn         ReadHook
}

type writeHook struct {
	start, end uint16
	fn         WriteHook
}

// Bus is a flat 64KB memory with address-range hooks. Hooks are checked in
// registration order and the first match wins; there is no removal.
type Bus struct {
	data       [0x10000]byte
	readHooks  []readHook
	writeHooks []writeHook
}

func NewBus() *Bus {
	return &Bus{}
}

// Read returns the value of the first read hook whose window covers addr,
// otherwise the backing array.
func (bus *Bus) Read(addr uint16) byte {
	for _, h := range bus.readHooks {
		if addr >= h.start && addr <= h.end {
			return h.fn(addr)
		}
	}
	return bus.data[addr]
}

// Write always updates the backing array first, then fires at most one write
// hook.
func (bus *Bus) Write(addr uint16, value byte) {
	bus.data[addr] = value
	for _, h := range bus.writeHooks {
		if addr >= h.start && addr <= h.end {
			h.fn(addr, value)
			return
		}
	}
}

// Peek reads the backing array, bypassing hooks.
func (bus *Bus) Peek(addr uint16) byte {
	return bus.data[addr]
}

func (bus *Bus) RegisterReadHook(start, end uint16, fn ReadHook) {
	bus.readHooks = append(bus.readHooks, readHook{start, end, fn})
}

func (bus *Bus) RegisterWriteHook(start, end uint16, fn WriteHook) {
	bus.writeHooks = append(bus.writeHooks, writeHook{start, end, fn})
}

// Load copies data into the backing array starting at addr. Bytes that would
// land past $FFFF are dropped, not wrapped. Returns the number of bytes
// written.
func (bus *Bus) Load(addr uint16, data []byte) int {
	return copy(bus.data[addr:], data)
}

// Clear zeroes the backing array. Hooks stay registered.
func (bus *Bus) Clear() {
	bus.data = [0x10000]byte{}
}

// Interface checks
var (
	_ Memory = (*Bus)(nil)
	_ Peeker = (*Bus)(nil)
)
