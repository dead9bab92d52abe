package mos6502

/*
指令执行
每条指令一个方法，签名相同，放到 executors 表里按 Mnemonic 分发。
返回值表示这条指令是否接受跨页的额外时钟，
只有寻址方式也报告跨页时才真正加 1。
分支指令自己计算额外时钟，所以总是返回 false。
*/

var executors = [mnemonicCount]func(*CPU) bool{
	XXX: (*CPU).xxx,
	ADC: (*CPU).adc,
	AND: (*CPU).and,
	ASL: (*CPU).asl,
	BCC: (*CPU).bcc,
	BCS: (*CPU).bcs,
	BEQ: (*CPU).beq,
	BIT: (*CPU).bit,
	BMI: (*CPU).bmi,
	BNE: (*CPU).bne,
	BPL: (*CPU).bpl,
	BRK: (*CPU).brk,
	BVC: (*CPU).bvc,
	BVS: (*CPU).bvs,
	CLC: (*CPU).clc,
	CLD: (*CPU).cld,
	CLI: (*CPU).cli,
	CLV: (*CPU).clv,
	CMP: (*CPU).cmp,
	CPX: (*CPU).cpx,
	CPY: (*CPU).cpy,
	DEC: (*CPU).dec,
	DEX: (*CPU).dex,
	DEY: (*CPU).dey,
	EOR: (*CPU).eor,
	INC: (*CPU).inc,
	INX: (*CPU).inx,
	INY: (*CPU).iny,
	JMP: (*CPU).jmp,
	JSR: (*CPU).jsr,
	LDA: (*CPU).lda,
	LDX: (*CPU).ldx,
	LDY: (*CPU).ldy,
	LSR: (*CPU).lsr,
	NOP: (*CPU).nop,
	ORA: (*CPU).ora,
	PHA: (*CPU).pha,
	PHP: (*CPU).php,
	PLA: (*CPU).pla,
	PLP: (*CPU).plp,
	ROL: (*CPU).rol,
	ROR: (*CPU).ror,
	RTI: (*CPU).rti,
	RTS: (*CPU).rts,
	SBC: (*CPU).sbc,
	SEC: (*CPU).sec,
	SED: (*CPU).sed,
	SEI: (*CPU).sei,
	STA: (*CPU).sta,
	STX: (*CPU).stx,
	STY: (*CPU).sty,
	TAX: (*CPU).tax,
	TAY: (*CPU).tay,
	TSX: (*CPU).tsx,
	TXA: (*CPU).txa,
	TXS: (*CPU).txs,
	TYA: (*CPU).tya,
}

func init() {
	for m, fn := range executors {
		if fn == nil {
			panic("mos6502: no executor for " + Mnemonic(m).String())
		}
	}
}

func (cpu *CPU) execute(m Mnemonic) bool {
	return executors[m](cpu)
}

// store writes a read-modify-write result back to A or memory depending on
// the addressing mode.
func (cpu *CPU) store(value byte) {
	if cpu.instruction.Mode == Accumulator {
		cpu.A = value
	} else {
		cpu.Write(cpu.addressAbsolute, value)
	}
}

// 未定义的指令什么也不做
func (cpu *CPU) xxx() bool {
	return false
}

// LDA - load "A"
func (cpu *CPU) lda() bool {
	cpu.A = cpu.Fetch()
	cpu.setZN(cpu.A)
	return true
}

// LDX - load "X"
func (cpu *CPU) ldx() bool {
	cpu.X = cpu.Fetch()
	cpu.setZN(cpu.X)
	return true
}

// LDY - load "Y"
func (cpu *CPU) ldy() bool {
	cpu.Y = cpu.Fetch()
	cpu.setZN(cpu.Y)
	return true
}

// STA - store "A"
func (cpu *CPU) sta() bool {
	cpu.Write(cpu.addressAbsolute, cpu.A)
	return false
}

// STX - store "X"
func (cpu *CPU) stx() bool {
	cpu.Write(cpu.addressAbsolute, cpu.X)
	return false
}

// STY - store "Y"
func (cpu *CPU) sty() bool {
	cpu.Write(cpu.addressAbsolute, cpu.Y)
	return false
}

// ADC - add with carry -- A = A + M + C
// 2A03 的十进制模式被切断了，D 标志被忽略
func (cpu *CPU) adc() bool {
	a := cpu.A
	m := cpu.Fetch()
	c := uint16(cpu.carry())

	if cpu.GetFlag(Decimal) && cpu.variant.hasDecimal() {
		lo := uint16(a&0x0f) + uint16(m&0x0f) + c
		if lo > 0x09 {
			lo += 0x06
		}
		result := uint16(a&0xf0) + uint16(m&0xf0) + lo
		cpu.SetFlag(Overflow, (uint16(a)^result)&(uint16(m)^result)&0x80 != 0)
		if result > 0x99 {
			result += 0x60
		}
		cpu.SetFlag(Carry, result > 0x99)
		cpu.A = byte(result)
		cpu.setZN(cpu.A)
		return true
	}

	result := uint16(a) + uint16(m) + c
	cpu.SetFlag(Carry, result > 0xff)
	cpu.SetFlag(Overflow, (uint16(a)^result)&(uint16(m)^result)&0x80 != 0)
	cpu.A = byte(result)
	cpu.setZN(cpu.A)
	return true
}

// SBC - subtract with carry -- A = A - M - (1 - C)
func (cpu *CPU) sbc() bool {
	a := cpu.A
	m := cpu.Fetch()
	borrow := 1 - int(cpu.carry())
	diff := int(a) - int(m) - borrow

	cpu.SetFlag(Overflow, (a^m)&(a^byte(diff))&0x80 != 0)

	result := diff
	if cpu.GetFlag(Decimal) && cpu.variant.hasDecimal() {
		lo := int(a&0x0f) - int(m&0x0f) - borrow
		if lo < 0 {
			result -= 0x06
		}
		if diff < 0 {
			result -= 0x60
		}
	}
	// 没有借位时 C = 1
	cpu.SetFlag(Carry, diff >= 0)
	cpu.A = byte(result)
	cpu.setZN(cpu.A)
	return true
}

// AND - A & memory
func (cpu *CPU) and() bool {
	cpu.A &= cpu.Fetch()
	cpu.setZN(cpu.A)
	return true
}

// ORA - A | memory
func (cpu *CPU) ora() bool {
	cpu.A |= cpu.Fetch()
	cpu.setZN(cpu.A)
	return true
}

// EOR "Exclusive-Or" memory with A
func (cpu *CPU) eor() bool {
	cpu.A ^= cpu.Fetch()
	cpu.setZN(cpu.A)
	return true
}

// INC - Increment memory
func (cpu *CPU) inc() bool {
	value := cpu.Fetch() + 1
	cpu.Write(cpu.addressAbsolute, value)
	cpu.setZN(value)
	return false
}

// DEC - Decrement memory
func (cpu *CPU) dec() bool {
	value := cpu.Fetch() - 1
	cpu.Write(cpu.addressAbsolute, value)
	cpu.setZN(value)
	return false
}

func (cpu *CPU) inx() bool {
	cpu.X++
	cpu.setZN(cpu.X)
	return false
}

func (cpu *CPU) dex() bool {
	cpu.X--
	cpu.setZN(cpu.X)
	return false
}

func (cpu *CPU) iny() bool {
	cpu.Y++
	cpu.setZN(cpu.Y)
	return false
}

func (cpu *CPU) dey() bool {
	cpu.Y--
	cpu.setZN(cpu.Y)
	return false
}

// TAX - Transfer A to X
func (cpu *CPU) tax() bool {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
	return false
}

// TXA - Transfer X to A
func (cpu *CPU) txa() bool {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
	return false
}

// TAY - Transfer A to Y
func (cpu *CPU) tay() bool {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
	return false
}

// TYA - Transfer Y to A
func (cpu *CPU) tya() bool {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
	return false
}

// TSX - Transfer SP to X
func (cpu *CPU) tsx() bool {
	cpu.X = cpu.SP
	cpu.setZN(cpu.X)
	return false
}

// TXS - Transfer X to SP，不影响标志位
func (cpu *CPU) txs() bool {
	cpu.SP = cpu.X
	return false
}

func (cpu *CPU) clc() bool {
	cpu.SetFlag(Carry, false)
	return false
}

func (cpu *CPU) sec() bool {
	cpu.SetFlag(Carry, true)
	return false
}

func (cpu *CPU) cld() bool {
	cpu.SetFlag(Decimal, false)
	return false
}

func (cpu *CPU) sed() bool {
	cpu.SetFlag(Decimal, true)
	return false
}

func (cpu *CPU) clv() bool {
	cpu.SetFlag(Overflow, false)
	return false
}

func (cpu *CPU) cli() bool {
	cpu.SetFlag(InterruptDisable, false)
	return false
}

func (cpu *CPU) sei() bool {
	cpu.SetFlag(InterruptDisable, true)
	return false
}

func (cpu *CPU) compare(reg, value byte) {
	cpu.SetFlag(Carry, reg >= value)
	cpu.setZN(reg - value)
}

// CMP - Compare memory with A
func (cpu *CPU) cmp() bool {
	cpu.compare(cpu.A, cpu.Fetch())
	return true
}

// CPX - Compare memory with X
func (cpu *CPU) cpx() bool {
	cpu.compare(cpu.X, cpu.Fetch())
	return false
}

// CPY - Compare memory with Y
func (cpu *CPU) cpy() bool {
	cpu.compare(cpu.Y, cpu.Fetch())
	return false
}

// BIT - Bit test memory with A
func (cpu *CPU) bit() bool {
	value := cpu.Fetch()
	cpu.SetFlag(Zero, cpu.A&value == 0)
	cpu.SetFlag(Overflow, value&0x40 != 0)
	cpu.SetFlag(Negative, value&0x80 != 0)
	return false
}

// ASL - Arithmetic Shift Left --  C <- |7|6|5|4|3|2|1|0| <- 0
func (cpu *CPU) asl() bool {
	value := cpu.Fetch()
	cpu.SetFlag(Carry, value&0x80 != 0)
	value <<= 1
	cpu.setZN(value)
	cpu.store(value)
	return false
}

// LSR - Logical Shift Right -- 0 -> |7|6|5|4|3|2|1|0| -> C
func (cpu *CPU) lsr() bool {
	value := cpu.Fetch()
	cpu.SetFlag(Carry, value&0x01 != 0)
	value >>= 1
	cpu.setZN(value)
	cpu.store(value)
	return false
}

// ROL - Rotate Left -- C <- |7|6|5|4|3|2|1|0| <- C
func (cpu *CPU) rol() bool {
	value := cpu.Fetch()
	c := cpu.carry()
	cpu.SetFlag(Carry, value&0x80 != 0)
	value = value<<1 | c
	cpu.setZN(value)
	cpu.store(value)
	return false
}

// ROR - Rotate Right
// 早期的 NMOS 6502 上 ROR 有硬件 bug，行为和 ASL 相似但不碰 C，这里按型号区分
func (cpu *CPU) ror() bool {
	if cpu.variant == NMOS6502 {
		return cpu.rorNMOS()
	}
	return cpu.rorCMOS()
}

// rorOperand returns the ROR operand. ROR picks A by opcode, not by mode.
func (cpu *CPU) rorOperand() byte {
	if cpu.opcode == 0x6a {
		return cpu.A
	}
	return cpu.Read(cpu.addressAbsolute)
}

func (cpu *CPU) rorResult(value byte) {
	if cpu.opcode == 0x6a {
		cpu.A = value
	} else {
		cpu.Write(cpu.addressAbsolute, value)
	}
	cpu.setZN(value)
}

// |7|6|5|4|3|2|1|0| <- 0，C 不变
func (cpu *CPU) rorNMOS() bool {
	cpu.rorResult(cpu.rorOperand() << 1)
	return false
}

// C -> |7|6|5|4|3|2|1|0| -> C
func (cpu *CPU) rorCMOS() bool {
	value := cpu.rorOperand()
	c := cpu.carry()
	cpu.SetFlag(Carry, value&0x01 != 0)
	cpu.rorResult(value>>1 | c<<7)
	return false
}

// PHA - Push A
func (cpu *CPU) pha() bool {
	cpu.push(cpu.A)
	return false
}

// PLA - Pull(Pop) A
func (cpu *CPU) pla() bool {
	cpu.A = cpu.pull()
	cpu.setZN(cpu.A)
	return false
}

// PHP - Push Processor-status，压栈的值 B 和 U 都是 1
func (cpu *CPU) php() bool {
	cpu.push(cpu.P | byte(Break|Unused))
	return false
}

// PLP - Pull Processor-status
func (cpu *CPU) plp() bool {
	cpu.P = cpu.pull()&^byte(Break) | byte(Unused)
	return false
}

// JMP - Jump
func (cpu *CPU) jmp() bool {
	cpu.PC = cpu.addressAbsolute
	return false
}

// JSR - Jump to Subroutine，压栈的是返回地址减 1
func (cpu *CPU) jsr() bool {
	cpu.PC--
	cpu.push16(cpu.PC)
	cpu.PC = cpu.addressAbsolute
	return false
}

// RTS - Return from Subroutine
func (cpu *CPU) rts() bool {
	cpu.PC = cpu.pull16() + 1
	return false
}

// NOP - do nothing... 哈？
func (cpu *CPU) nop() bool {
	return false
}

// BRK 强制中断
func (cpu *CPU) brk() bool {
	cpu.PC++
	cpu.SetFlag(InterruptDisable, true)
	cpu.push16(cpu.PC)
	cpu.SetFlag(Break, true)
	cpu.push(cpu.P | byte(Unused))
	cpu.SetFlag(Break, false)
	cpu.PC = cpu.Read16(IRQVector)
	return false
}

// RTI - Return from Interrupt
func (cpu *CPU) rti() bool {
	cpu.P = cpu.pull()&^byte(Break) | byte(Unused)
	cpu.PC = cpu.pull16()
	return false
}

// branch 成功跳转多 1 个时钟，跳到别的 page 再多 1 个
func (cpu *CPU) branch(cond bool) bool {
	if !cond {
		return false
	}
	cpu.cycles++
	cpu.addressAbsolute = cpu.PC + cpu.addressRelative
	if pageDiff(cpu.PC, cpu.addressAbsolute) {
		cpu.cycles++
	}
	cpu.PC = cpu.addressAbsolute
	return false
}

// BCC - Branch if Carry Clear
func (cpu *CPU) bcc() bool {
	return cpu.branch(!cpu.GetFlag(Carry))
}

// BCS - Branch if Carry Set
func (cpu *CPU) bcs() bool {
	return cpu.branch(cpu.GetFlag(Carry))
}

// BEQ - Branch if Equal
func (cpu *CPU) beq() bool {
	return cpu.branch(cpu.GetFlag(Zero))
}

// BNE - Branch if Not Equal
func (cpu *CPU) bne() bool {
	return cpu.branch(!cpu.GetFlag(Zero))
}

// BMI - Branch if Minus
func (cpu *CPU) bmi() bool {
	return cpu.branch(cpu.GetFlag(Negative))
}

// BPL - Branch if Plus
func (cpu *CPU) bpl() bool {
	return cpu.branch(!cpu.GetFlag(Negative))
}

// BVS - Branch if Overflow Set
func (cpu *CPU) bvs() bool {
	return cpu.branch(cpu.GetFlag(Overflow))
}

// BVC - Branch if Overflow Clear
func (cpu *CPU) bvc() bool {
	return cpu.branch(!cpu.GetFlag(Overflow))
}
