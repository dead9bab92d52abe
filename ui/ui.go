/*
负责ui渲染，接受控制的模块
*/

package ui

import (
	"context"
	"image"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"fyne.io/fyne"
	"fyne.io/fyne/app"
	"fyne.io/fyne/canvas"
	"fyne.io/fyne/driver/desktop"
	"fyne.io/fyne/layout"
	"fyne.io/fyne/widget"

	"github.com/drewwalton19216801/Butterfly/machine"
)

func keyParse(ev *fyne.KeyEvent) int {
	var index int = -1
	switch ev.Name {
	// A
	case "J":
		index = machine.ButtonA
		// B
	case "K":
		index = machine.ButtonB
		// Select
	case "U":
		index = machine.ButtonSelect
		// Start
	case "I":
		index = machine.ButtonStart
	case "W":
		index = machine.ButtonUp
	case "S":
		index = machine.ButtonDown
	case "A":
		index = machine.ButtonLeft
	case "D":
		index = machine.ButtonRight
	}
	return index
}

type debugger struct {
	m *machine.Machine

	state  *widget.Label
	memory *widget.Label
	disasm *widget.Label
	stack  *widget.Label
	speed  *widget.Label
	screen *canvas.Image

	// 内存页面的起始地址，由输入框修改，刷新协程读取
	memStart atomic.Uint32

	keys [8]bool
}

func monospace() *widget.Label {
	return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
}

// OpenWindow shows the debugger and blocks until the window is closed.
func OpenWindow(ctx context.Context, m *machine.Machine) {
	myApp := app.New()
	w := myApp.NewWindow("Butterfly 6502")
	w.Resize(fyne.NewSize(640, 520))

	d := &debugger{
		m:      m,
		state:  monospace(),
		memory: monospace(),
		disasm: monospace(),
		stack:  monospace(),
		speed:  widget.NewLabel(""),
	}
	d.memStart.Store(0x0000)
	d.screen = canvas.NewImageFromImage(d.renderScreen())
	d.screen.FillMode = canvas.ImageFillOriginal
	d.screen.SetMinSize(fyne.NewSize(ScreenWidth*screenScale, ScreenHeight*screenScale))

	w.SetContent(d.layout())

	if deskCanvas, ok := w.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			d.setKey(ev, true)
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			d.setKey(ev, false)
		})
	}

	refreshCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.changeContent(refreshCtx)

	w.ShowAndRun()
}

func (d *debugger) setKey(ev *fyne.KeyEvent, down bool) {
	index := keyParse(ev)
	if index < 0 {
		return
	}
	d.keys[index] = down
	d.m.SetButtons(d.keys)
}

func (d *debugger) layout() fyne.CanvasObject {
	m := d.m
	controls := fyne.NewContainerWithLayout(layout.NewHBoxLayout(),
		widget.NewButton("Run", m.Start),
		widget.NewButton("Pause", m.Pause),
		widget.NewButton("Step", func() {
			m.SingleStep()
			m.Clock()
		}),
		widget.NewButton("Step Instr", func() {
			m.SingleStep()
			m.StepInstruction()
		}),
		widget.NewButton("Reset", m.Reset),
		widget.NewButton("IRQ", m.IRQ),
		widget.NewButton("NMI", m.NMI),
	)

	// 对数刻度，1 Hz 到 1 MHz
	slider := widget.NewSlider(0, math.Log10(machine.MaxFrequency))
	slider.Step = 0.01
	slider.Value = math.Log10(m.Frequency())
	slider.OnChanged = func(v float64) {
		m.SetFrequency(math.Round(math.Pow(10, v)))
	}
	speedRow := fyne.NewContainerWithLayout(layout.NewBorderLayout(nil, nil, d.speed, nil), d.speed, slider)

	start := widget.NewEntry()
	start.SetText("0000")
	start.OnChanged = func(s string) {
		v, err := strconv.ParseUint(strings.TrimPrefix(s, "$"), 16, 16)
		if err == nil {
			d.memStart.Store(uint32(v))
		}
	}
	memoryTab := fyne.NewContainerWithLayout(layout.NewBorderLayout(start, nil, nil, nil), start, d.memory)

	tabs := widget.NewTabContainer(
		widget.NewTabItem("Machine", d.state),
		widget.NewTabItem("Memory", memoryTab),
		widget.NewTabItem("Disassembly", d.disasm),
		widget.NewTabItem("Stack", d.stack),
		widget.NewTabItem("Display", fyne.NewContainerWithLayout(layout.NewCenterLayout(), d.screen)),
	)

	top := fyne.NewContainerWithLayout(layout.NewVBoxLayout(), controls, speedRow)
	return fyne.NewContainerWithLayout(layout.NewBorderLayout(top, nil, nil, nil), top, tabs)
}

func (d *debugger) renderScreen() *image.RGBA {
	data := d.m.ReadRange(ScreenStart, ScreenWidth*ScreenHeight)
	return Resize(renderScreen(data), ScreenWidth, ScreenHeight, screenScale)
}

func (d *debugger) changeContent(ctx context.Context) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		s := d.m.Snapshot()
		start := uint16(d.memStart.Load())

		d.state.SetText(formatState(s))
		d.speed.SetText(strconv.FormatFloat(s.Frequency, 'f', 0, 64) + " Hz")
		d.memory.SetText(formatMemory(start, d.m.ReadRange(start, memoryRows*memoryColumns)))
		d.disasm.SetText(strings.Join(d.m.DisassembleRange(s.Registers.PC, disasmLines), "\n"))
		d.stack.SetText(formatStack(s.Registers.SP, d.m.ReadRange(stackPage, 0x100)))

		d.screen.Image = d.renderScreen()
		canvas.Refresh(d.screen)
	}
}
