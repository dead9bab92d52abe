package monitor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drewwalton19216801/Butterfly/machine"
)

/*
命令行监视器
每行一个命令，第一个词是命令，后面是子命令和参数
数字都按 16 进制解析，可以带 $ 或 0x 前缀
出错只返回一行提示，不会 panic
*/

const (
	defaultDumpLen   = 64
	defaultDisasmLen = 16
	maxDumpLen       = 0x1000
	maxDisasmLen     = 256
	bytesPerDumpLine = 16
)

// Interpreter runs monitor commands against one machine.
type Interpreter struct {
	m    *machine.Machine
	done bool
}

func New(m *machine.Machine) *Interpreter {
	return &Interpreter{m: m}
}

// Done is true once quit has been executed.
func (in *Interpreter) Done() bool {
	return in.done
}

// Execute runs one command line and returns its output.
func (in *Interpreter) Execute(line string) string {
	args := strings.Fields(line)
	if len(args) == 0 {
		return ""
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "mem":
		return in.mem(args)
	case "reg":
		return in.reg(args)
	case "control":
		return in.control(args)
	case "load":
		return in.load(args)
	case "disasm":
		return in.disasm(args)
	case "irq":
		in.m.IRQ()
		return "IRQ requested"
	case "nmi":
		in.m.NMI()
		return "NMI requested"
	case "script":
		return in.script(args)
	case "help", "?":
		return help()
	case "quit", "exit":
		in.done = true
		return "Bye"
	}
	return fmt.Sprintf("Unknown command %q, try help", cmd)
}

// ExecuteAll runs lines in order, writing each output to w. It stops at
// quit.
func (in *Interpreter) ExecuteAll(lines []string, w io.Writer) {
	for _, line := range lines {
		if out := in.Execute(line); out != "" {
			fmt.Fprintln(w, out)
		}
		if in.done {
			return
		}
	}
}

func help() string {
	return strings.Join([]string{
		"mem read <addr>                 read a byte",
		"mem write <addr> <byte>         write a byte",
		"mem dump <addr> [len]           hex dump",
		"reg read <A|X|Y|SP|P|PC>        read a register",
		"reg write <name> <value>        write a register",
		"control start|stop|reset|status",
		"control step [instr]            single-step a cycle or an instruction",
		"control speed [hz]              show or set the clock",
		"load file <path> <addr>         load a raw binary",
		"load demo                       load the demo program",
		"disasm <addr> [count]           disassemble",
		"irq | nmi                       raise an interrupt",
		"script <file.lua>               run a Lua script",
		"help | quit",
	}, "\n")
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(trimHex(s), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(trimHex(s), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}

func trimHex(s string) string {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "0x")
	return strings.TrimPrefix(s, "0X")
}

func parseCount(args []string, i, def, max int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q", args[i])
	}
	if n > max {
		n = max
	}
	return n, nil
}

func (in *Interpreter) mem(args []string) string {
	if len(args) == 0 {
		return "Usage: mem read|write|dump"
	}
	switch args[0] {
	case "read":
		if len(args) != 2 {
			return "Usage: mem read <addr>"
		}
		addr, err := parseAddr(args[1])
		if err != nil {
			return err.Error()
		}
		return "Data: " + in.m.PeekMemory(addr)
	case "write":
		if len(args) != 3 {
			return "Usage: mem write <addr> <byte>"
		}
		addr, err := parseAddr(args[1])
		if err != nil {
			return err.Error()
		}
		value, err := parseByte(args[2])
		if err != nil {
			return err.Error()
		}
		in.m.PokeMemory(addr, value)
		return fmt.Sprintf("Wrote $%02X to $%04X", value, addr)
	case "dump":
		if len(args) < 2 {
			return "Usage: mem dump <addr> [len]"
		}
		addr, err := parseAddr(args[1])
		if err != nil {
			return err.Error()
		}
		n, err := parseCount(args, 2, defaultDumpLen, maxDumpLen)
		if err != nil {
			return err.Error()
		}
		return hexDump(addr, in.m.ReadRange(addr, n))
	}
	return fmt.Sprintf("Unknown mem subcommand %q", args[0])
}

// hexDump renders data as "$XXXX: XX XX ..." lines.
func hexDump(start uint16, data []byte) string {
	var sb strings.Builder
	for i := 0; i < len(data); i += bytesPerDumpLine {
		end := i + bytesPerDumpLine
		if end > len(data) {
			end = len(data)
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "$%04X:", start+uint16(i))
		for _, b := range data[i:end] {
			fmt.Fprintf(&sb, " %02X", b)
		}
	}
	return sb.String()
}

func (in *Interpreter) reg(args []string) string {
	if len(args) < 2 {
		return "Usage: reg read|write <name> [value]"
	}
	name := strings.ToUpper(args[1])
	switch args[0] {
	case "read":
		if name == "PC" {
			return "Data: " + in.m.PeekPC()
		}
		v, err := in.m.PeekRegister(name)
		if err != nil {
			return err.Error()
		}
		return "Data: " + v
	case "write":
		if len(args) != 3 {
			return "Usage: reg write <name> <value>"
		}
		if name == "PC" {
			addr, err := parseAddr(args[2])
			if err != nil {
				return err.Error()
			}
			in.m.PokePC(addr)
			return in.m.PeekPC()
		}
		value, err := parseByte(args[2])
		if err != nil {
			return err.Error()
		}
		if err := in.m.PokeRegister(name, value); err != nil {
			return err.Error()
		}
		v, _ := in.m.PeekRegister(name)
		return v
	}
	return fmt.Sprintf("Unknown reg subcommand %q", args[0])
}

func (in *Interpreter) control(args []string) string {
	if len(args) == 0 {
		return "Usage: control start|stop|reset|status|step|speed"
	}
	switch args[0] {
	case "start":
		in.m.Start()
		return "Machine started"
	case "stop":
		in.m.Stop()
		return "Machine stopped"
	case "reset":
		in.m.Reset()
		return "Machine reset\n" + in.status()
	case "status":
		return in.status()
	case "step":
		if in.m.Mode() != machine.SingleStepping {
			in.m.SingleStep()
		}
		if len(args) > 1 && args[1] == "instr" {
			n := in.m.StepInstruction()
			return fmt.Sprintf("Machine step: %d cycles, %s", n, in.m.Snapshot().Disassembly)
		}
		in.m.Clock()
		return "Machine step"
	case "speed":
		if len(args) == 1 {
			return fmt.Sprintf("Speed is %g Hz", in.m.Frequency())
		}
		hz, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Sprintf("invalid speed %q", args[1])
		}
		if err := in.m.SetFrequency(hz); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("Speed set to %g Hz", in.m.Frequency())
	}
	return fmt.Sprintf("Unknown control subcommand %q", args[0])
}

func (in *Interpreter) status() string {
	s := in.m.Snapshot()
	r := s.Registers
	return fmt.Sprintf("Status:\n[A: $%02X] [X: $%02X] [Y: $%02X] [PC: $%04X] [SP: $%02X] [SR: $%02X %s]\n%s %s %s @ %g Hz, %d cycles\n%s",
		r.A, r.X, r.Y, r.PC, r.SP, r.P, r.FlagString(),
		s.Variant, s.Mode, s.CPUState, s.Frequency, s.TotalCycles, s.Disassembly)
}

func (in *Interpreter) load(args []string) string {
	if len(args) == 0 {
		return "Usage: load file <path> <addr> | load demo"
	}
	switch args[0] {
	case "demo":
		in.m.LoadDemoProgram()
		return "Demo program loaded at $8000"
	case "file":
		if len(args) < 3 {
			return "Usage: load file <path> <addr>"
		}
		// the path may contain spaces; the address is always last
		path := strings.Trim(strings.Join(args[1:len(args)-1], " "), `"'`)
		addr, err := parseAddr(args[len(args)-1])
		if err != nil {
			return err.Error()
		}
		n, err := in.m.LoadFile(path, addr)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("Loaded %d bytes at $%04X", n, addr)
	}
	return fmt.Sprintf("Unknown load subcommand %q", args[0])
}

func (in *Interpreter) disasm(args []string) string {
	if len(args) == 0 {
		return "Usage: disasm <addr> [count]"
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err.Error()
	}
	n, err := parseCount(args, 1, defaultDisasmLen, maxDisasmLen)
	if err != nil {
		return err.Error()
	}
	return strings.Join(in.m.DisassembleRange(addr, n), "\n")
}
