package monitor

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

/*
Lua 脚本
script <file.lua> 在一个新的 LState 里跑脚本，下面这些全局函数直接操作 machine
print 的输出作为命令的结果返回
*/

func (in *Interpreter) script(args []string) string {
	if len(args) == 0 {
		return "Usage: script <file.lua>"
	}
	path := strings.Trim(strings.Join(args, " "), `"'`)

	var out strings.Builder
	L := lua.NewState()
	defer L.Close()
	in.registerLua(L, &out)

	if err := L.DoFile(path); err != nil {
		out.WriteString("script error: " + err.Error())
	}
	return strings.TrimRight(out.String(), "\n")
}

func (in *Interpreter) registerLua(L *lua.LState, out *strings.Builder) {
	m := in.m
	fns := map[string]lua.LGFunction{
		"print": func(L *lua.LState) int {
			parts := make([]string, 0, L.GetTop())
			for i := 1; i <= L.GetTop(); i++ {
				parts = append(parts, L.Get(i).String())
			}
			out.WriteString(strings.Join(parts, "\t"))
			out.WriteByte('\n')
			return 0
		},
		"peek": func(L *lua.LState) int {
			addr := uint16(L.CheckInt(1))
			L.Push(lua.LNumber(m.ReadRange(addr, 1)[0]))
			return 1
		},
		"poke": func(L *lua.LState) int {
			m.PokeMemory(uint16(L.CheckInt(1)), byte(L.CheckInt(2)))
			return 0
		},
		"reg": func(L *lua.LState) int {
			r := m.Snapshot().Registers
			switch strings.ToUpper(L.CheckString(1)) {
			case "A":
				L.Push(lua.LNumber(r.A))
			case "X":
				L.Push(lua.LNumber(r.X))
			case "Y":
				L.Push(lua.LNumber(r.Y))
			case "SP":
				L.Push(lua.LNumber(r.SP))
			case "P", "SR":
				L.Push(lua.LNumber(r.P))
			case "PC":
				L.Push(lua.LNumber(r.PC))
			default:
				L.ArgError(1, "unknown register")
			}
			return 1
		},
		"setreg": func(L *lua.LState) int {
			name := strings.ToUpper(L.CheckString(1))
			value := L.CheckInt(2)
			if name == "PC" {
				m.PokePC(uint16(value))
				return 0
			}
			if err := m.PokeRegister(name, byte(value)); err != nil {
				L.ArgError(1, err.Error())
			}
			return 0
		},
		"pc": func(L *lua.LState) int {
			L.Push(lua.LNumber(m.Snapshot().Registers.PC))
			return 1
		},
		"setpc": func(L *lua.LState) int {
			m.PokePC(uint16(L.CheckInt(1)))
			return 0
		},
		"step": func(L *lua.LState) int {
			total := 0
			for i := L.OptInt(1, 1); i > 0; i-- {
				total += m.StepInstruction()
			}
			L.Push(lua.LNumber(total))
			return 1
		},
		"clock": func(L *lua.LState) int {
			for i := L.OptInt(1, 1); i > 0; i-- {
				m.Clock()
			}
			return 0
		},
		"reset": func(L *lua.LState) int {
			m.Reset()
			return 0
		},
		"irq": func(L *lua.LState) int {
			m.IRQ()
			return 0
		},
		"nmi": func(L *lua.LState) int {
			m.NMI()
			return 0
		},
		"disasm": func(L *lua.LState) int {
			L.Push(lua.LString(m.Disassemble(uint16(L.CheckInt(1)))))
			return 1
		},
		"hex": func(L *lua.LState) int {
			L.Push(lua.LString(fmt.Sprintf("%02X", L.CheckInt(1))))
			return 1
		},
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}
