package mos6502

import "fmt"

/*
P 状态寄存器
BIT	名称	含义
0	C	进位标志，如果计算结果产生进位，则置 1
1	Z	零标志，如果结算结果为 0，则置 1
2	I	中断去使能标志，置 1 则可屏蔽掉 IRQ 中断
3	D	十进制模式（NES 的 2A03 上无效）
4	B	BRK
5	U	未使用，总是 1
6	V	溢出标志，如果结算结果产生了溢出，则置 1
7	N	负标志，如果计算结果为负，则置 1
*/

// Flag is a single bit of the status register.
type Flag byte

const (
	Carry            Flag = 1 << 0
	Zero             Flag = 1 << 1
	InterruptDisable Flag = 1 << 2
	Decimal          Flag = 1 << 3
	Break            Flag = 1 << 4
	Unused           Flag = 1 << 5
	Overflow         Flag = 1 << 6
	Negative         Flag = 1 << 7
)

// Registers is the 6502 register file.
type Registers struct {
	A  byte
	X  byte
	Y  byte
	SP byte // 栈指针，栈固定在 $0100-$01FF
	PC uint16
	P  byte
}

// NewRegisters returns the register file as it is at object creation. The
// power-up values are applied by CPU.Reset, not here.
func NewRegisters() Registers {
	return Registers{SP: 0xfd}
}

func (r *Registers) GetFlag(flag Flag) bool {
	return r.P&byte(flag) != 0
}

func (r *Registers) SetFlag(flag Flag, value bool) {
	if value {
		r.P |= byte(flag)
	} else {
		r.P &^= byte(flag)
	}
}

// setZN sets Zero and Negative from value.
func (r *Registers) setZN(value byte) {
	r.SetFlag(Zero, value == 0)
	r.SetFlag(Negative, value&0x80 != 0)
}

func (r *Registers) carry() byte {
	return r.P & byte(Carry)
}

// FlagString renders P as NV-BDIZC, upper case when set.
func (r *Registers) FlagString() string {
	p := []byte("nv-bdizc")
	for i := 0; i < 8; i++ {
		if r.P&(0x80>>uint(i)) != 0 && p[i] != '-' {
			p[i] -= 'a' - 'A'
		}
	}
	return string(p)
}

func (r Registers) String() string {
	return fmt.Sprintf("PC:%04X A:%02X X:%02X Y:%02X SP:%02X P:%02X(%s)",
		r.PC, r.A, r.X, r.Y, r.SP, r.P, r.FlagString())
}
