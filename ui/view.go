package ui

import (
	"fmt"
	"strings"

	"github.com/drewwalton19216801/Butterfly/machine"
)

/*
各个调试页面的文本
都是纯函数，输入是 machine 的快照或者内存片段
*/

const (
	memoryRows    = 16
	memoryColumns = 16
	disasmLines   = 16
	stackPage     = 0x0100
)

func formatState(s machine.Status) string {
	r := s.Registers
	var sb strings.Builder
	fmt.Fprintf(&sb, "CPU:    %s\n", s.Variant)
	fmt.Fprintf(&sb, "Mode:   %s @ %g Hz\n", s.Mode, s.Frequency)
	fmt.Fprintf(&sb, "State:  %s\n", s.CPUState)
	fmt.Fprintf(&sb, "Cycles: %d (%d left)\n\n", s.TotalCycles, s.Cycles)
	fmt.Fprintf(&sb, "PC: $%04X\n", r.PC)
	fmt.Fprintf(&sb, "A:  $%02X   X: $%02X   Y: $%02X\n", r.A, r.X, r.Y)
	fmt.Fprintf(&sb, "SP: $%02X   P: $%02X\n", r.SP, r.P)
	fmt.Fprintf(&sb, "Flags: %s\n\n", r.FlagString())
	fmt.Fprintf(&sb, "Instruction: %s\n\n", s.Disassembly)
	fmt.Fprintf(&sb, "Device $6000: $%02X  $6001: $%02X  $6002: $%02X", s.Device[0], s.Device[1], s.Device[2])
	return sb.String()
}

func formatMemory(start uint16, data []byte) string {
	var sb strings.Builder
	for row := 0; row*memoryColumns < len(data); row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		addr := start + uint16(row*memoryColumns)
		fmt.Fprintf(&sb, "$%04X:", addr)
		end := (row + 1) * memoryColumns
		if end > len(data) {
			end = len(data)
		}
		line := data[row*memoryColumns : end]
		for _, b := range line {
			fmt.Fprintf(&sb, " %02X", b)
		}
		sb.WriteString("  ")
		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// formatStack lists the used part of page 1, top of stack first. page is the
// whole 256 byte stack page.
func formatStack(sp byte, page []byte) string {
	if sp == 0xff {
		return "(empty)"
	}
	var sb strings.Builder
	for i := int(sp) + 1; i <= 0xff && i < len(page); i++ {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "$%04X: $%02X", stackPage+i, page[i])
	}
	return sb.String()
}
