package mos6502

import "testing"

func TestFlagString(t *testing.T) {
	tests := []struct {
		p    byte
		want string
	}{
		{0x00, "nv-bdizc"},
		{0x24, "nv-bdIzc"},
		{0xff, "NV-BDIZC"},
		{0x83, "Nv-bdiZC"},
	}
	for _, tt := range tests {
		r := Registers{P: tt.p}
		if got := r.FlagString(); got != tt.want {
			t.Errorf("FlagString(%02X) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestSetFlag(t *testing.T) {
	var r Registers
	r.SetFlag(Carry, true)
	r.SetFlag(Negative, true)
	r.SetFlag(Carry, false)
	if r.P != 0x80 {
		t.Errorf("P = %02X, want 80", r.P)
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
		ok   bool
	}{
		{"nmos", NMOS6502, true},
		{"65C02", CMOS65C02, true},
		{" NES ", NES6502, true},
		{"2a03", NES6502, true},
		{"z80", NMOS6502, false},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseVariant(%q) = %s, %v", tt.in, got, err)
		}
	}
}
