package mos6502

import "fmt"

// peek reads without side effects when the memory allows it.
func (cpu *CPU) peek(addr uint16) byte {
	if p, ok := cpu.Memory.(Peeker); ok {
		return p.Peek(addr)
	}
	return cpu.Read(addr)
}

// Disassemble renders the instruction at addr, e.g. "LDA #$01".
func (cpu *CPU) Disassemble(addr uint16) string {
	ins := Decode(cpu.peek(addr))
	return DisassembleInstruction(ins, addr, cpu.peek(addr+1), cpu.peek(addr+2))
}

// DisassembleInstruction renders ins located at addr with operand bytes lo
// and hi. Bytes past the instruction's length are ignored.
func DisassembleInstruction(ins Instruction, addr uint16, lo, hi byte) string {
	word := uint16(hi)<<8 | uint16(lo)
	name := ins.Name()
	switch ins.Mode {
	case Implied:
		return name
	case Accumulator:
		return name + " A"
	case Immediate:
		return fmt.Sprintf("%s #$%02X", name, lo)
	case ZeroPage:
		return fmt.Sprintf("%s $%02X", name, lo)
	case ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", name, lo)
	case ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", name, lo)
	case Relative:
		offset := uint16(lo)
		if offset&0x80 != 0 {
			offset |= 0xff00
		}
		return fmt.Sprintf("%s $%04X", name, addr+2+offset)
	case Absolute:
		return fmt.Sprintf("%s $%04X", name, word)
	case AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", name, word)
	case AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", name, word)
	case Indirect:
		return fmt.Sprintf("%s ($%04X)", name, word)
	case IndirectX:
		return fmt.Sprintf("%s ($%02X,X)", name, lo)
	case IndirectY:
		return fmt.Sprintf("%s ($%02X),Y", name, lo)
	}
	return name
}

// DisassembleRange renders count instructions starting at start, one line
// each, formatted "$XXXX: TEXT". Undefined opcodes are shown as DATA bytes.
// Only meaningful over straight-line code; data is decoded as if it were
// instructions.
func (cpu *CPU) DisassembleRange(start uint16, count int) []string {
	lines := make([]string, 0, count)
	addr := start
	for i := 0; i < count; i++ {
		ins := Decode(cpu.peek(addr))
		if ins.Illegal() {
			lines = append(lines, fmt.Sprintf("$%04X: DATA $%02X", addr, ins.Opcode))
			addr++
			continue
		}
		text := DisassembleInstruction(ins, addr, cpu.peek(addr+1), cpu.peek(addr+2))
		lines = append(lines, fmt.Sprintf("$%04X: %s", addr, text))
		addr += uint16(ins.Length)
	}
	return lines
}
