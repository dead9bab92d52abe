package mos6502

/*
寻址方式
寻址, 顾名思义寻找地址.
每种寻址方式从 PC 读出操作数，算出有效地址放到 addressAbsolute
（相对寻址放到 addressRelative），PC 前进操作数的长度。
返回 true 表示变址时跨了 page，可能要多一个时钟。
*/

func (cpu *CPU) resolve(mode AddressingMode) bool {
	switch mode {
	case Implied:
		return cpu.implied()
	case Accumulator:
		return cpu.accumulator()
	case Immediate:
		return cpu.immediate()
	case ZeroPage:
		return cpu.zeroPage(0)
	case ZeroPageX:
		return cpu.zeroPage(cpu.X)
	case ZeroPageY:
		return cpu.zeroPage(cpu.Y)
	case Relative:
		return cpu.relative()
	case Absolute:
		return cpu.absolute(0)
	case AbsoluteX:
		return cpu.absolute(cpu.X)
	case AbsoluteY:
		return cpu.absolute(cpu.Y)
	case Indirect:
		return cpu.indirect()
	case IndirectX:
		return cpu.indirectX()
	case IndirectY:
		return cpu.indirectY()
	}
	panic("mos6502: unknown address mode " + mode.String())
}

// 判断地址是否跨页, 跨页则返回true
func pageDiff(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

// implied caches A so that instructions which work on the accumulator can
// use Fetch like everything else.
func (cpu *CPU) implied() bool {
	cpu.fetched = cpu.A
	return false
}

func (cpu *CPU) accumulator() bool {
	cpu.fetched = cpu.A
	return false
}

func (cpu *CPU) immediate() bool {
	cpu.addressAbsolute = cpu.PC
	cpu.PC++
	return false
}

// zero page 变址只在 page 0 内回绕，不会有额外时钟
func (cpu *CPU) zeroPage(index byte) bool {
	cpu.addressAbsolute = uint16(cpu.Read(cpu.PC)+index) & 0x00ff
	cpu.PC++
	return false
}

func (cpu *CPU) relative() bool {
	cpu.addressRelative = uint16(cpu.Read(cpu.PC))
	cpu.PC++
	if cpu.addressRelative&0x80 != 0 {
		cpu.addressRelative |= 0xff00
	}
	return false
}

func (cpu *CPU) absolute(index byte) bool {
	lo := uint16(cpu.Read(cpu.PC))
	hi := uint16(cpu.Read(cpu.PC + 1))
	cpu.PC += 2
	base := hi<<8 | lo
	cpu.addressAbsolute = base + uint16(index)
	return pageDiff(base, cpu.addressAbsolute)
}

// 这里模拟cpu的bug
// 例如JMP ($10FF), 理论上讲是读取$10FF和$1100这两个字节的数据, 但是实际上是读取的$10FF和$1000这两个字节的数据.
func (cpu *CPU) indirect() bool {
	ptrLo := uint16(cpu.Read(cpu.PC))
	ptrHi := uint16(cpu.Read(cpu.PC + 1))
	cpu.PC += 2
	ptr := ptrHi<<8 | ptrLo

	var hi uint16
	if ptrLo == 0x00ff {
		hi = uint16(cpu.Read(ptr & 0xff00))
	} else {
		hi = uint16(cpu.Read(ptr + 1))
	}
	cpu.addressAbsolute = hi<<8 | uint16(cpu.Read(ptr))
	return false
}

// 变址间接寻址 ($nn,X)
func (cpu *CPU) indirectX() bool {
	ptr := uint16(cpu.Read(cpu.PC))
	cpu.PC++
	x := uint16(cpu.X)
	lo := uint16(cpu.Read((ptr + x) & 0x00ff))
	hi := uint16(cpu.Read((ptr + x + 1) & 0x00ff))
	cpu.addressAbsolute = hi<<8 | lo
	return false
}

// 间接变址寻址 ($nn),Y
func (cpu *CPU) indirectY() bool {
	ptr := uint16(cpu.Read(cpu.PC))
	cpu.PC++
	lo := uint16(cpu.Read(ptr & 0x00ff))
	hi := uint16(cpu.Read((ptr + 1) & 0x00ff))
	base := hi<<8 | lo
	cpu.addressAbsolute = base + uint16(cpu.Y)
	return pageDiff(base, cpu.addressAbsolute)
}
