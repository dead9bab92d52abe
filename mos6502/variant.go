package mos6502

import (
	"fmt"
	"strings"
)

// Variant selects which member of the 6502 family is emulated. It is fixed
// for the lifetime of a CPU.
type Variant int

const (
	// NMOS6502 is the original MOS part, including the early ROR defect.
	NMOS6502 Variant = iota
	// CMOS65C02 is the WDC 65C02.
	CMOS65C02
	// NES6502 is the Ricoh 2A03: a 6502 with decimal mode disconnected.
	NES6502
)

func (v Variant) String() string {
	switch v {
	case NMOS6502:
		return "NMOS 6502"
	case CMOS65C02:
		return "WDC 65C02"
	case NES6502:
		return "Ricoh 2A03 (NES)"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// hasDecimal reports whether ADC/SBC honour the Decimal flag.
func (v Variant) hasDecimal() bool {
	return v != NES6502
}

// ParseVariant maps a user supplied name onto a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nmos", "6502", "nmos6502", "mos6502":
		return NMOS6502, nil
	case "cmos", "65c02", "cmos65c02", "wdc65c02":
		return CMOS65C02, nil
	case "nes", "2a03", "ricoh", "nes6502":
		return NES6502, nil
	}
	return NMOS6502, fmt.Errorf("mos6502: unknown variant %q", s)
}
