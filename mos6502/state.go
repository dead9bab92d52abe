package mos6502

// State is the execution state of the CPU engine.
type State int

const (
	Stopped State = iota
	Fetching
	Executing
	Interrupt
	IllegalOpcode
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Fetching:
		return "Fetching"
	case Executing:
		return "Executing"
	case Interrupt:
		return "Interrupt"
	case IllegalOpcode:
		return "IllegalOpcode"
	}
	return "Unknown"
}
