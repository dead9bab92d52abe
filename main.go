package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/drewwalton19216801/Butterfly/machine"
	"github.com/drewwalton19216801/Butterfly/monitor"
	"github.com/drewwalton19216801/Butterfly/mos6502"
	"github.com/drewwalton19216801/Butterfly/ui"
)

var (
	variantFlag   = flag.String("variant", "nmos", "CPU variant: nmos, cmos or nes")
	hzFlag        = flag.Float64("hz", machine.DefaultFrequency, "clock frequency in Hz")
	loadFlag      = flag.String("load", "", "raw binary to load")
	addrFlag      = flag.String("addr", "8000", "load address (hex)")
	demoFlag      = flag.Bool("demo", false, "load the demo program")
	guiFlag       = flag.Bool("gui", false, "open the debugger window")
	monitorFlag   = flag.Bool("monitor", true, "run the command monitor on the terminal")
	runFlag       = flag.Bool("run", false, "start clocking immediately")
	statsviewFlag = flag.Bool("statsview", false, "serve runtime statistics at "+statsviewAddress)
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "butterfly:", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run() error {
	variant, err := mos6502.ParseVariant(*variantFlag)
	if err != nil {
		return err
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(*addrFlag, "$"), 16, 16)
	if err != nil {
		return fmt.Errorf("invalid load address %q", *addrFlag)
	}
	if *hzFlag < 1 {
		return fmt.Errorf("-hz %g: %w", *hzFlag, machine.ErrInvalidFrequency)
	}

	m := machine.New(machine.Config{Variant: variant, Frequency: *hzFlag})
	if *demoFlag || *loadFlag == "" {
		m.LoadDemoProgram()
	}
	if *loadFlag != "" {
		if _, err := m.LoadFile(*loadFlag, uint16(addr)); err != nil {
			return err
		}
	}
	m.Reset()
	if *runFlag {
		m.Start()
	}

	if *statsviewFlag {
		launchStatsview(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.Run(ctx)
	})
	if *monitorFlag {
		g.Go(func() error {
			defer cancel()
			return monitor.New(m).Run(ctx, os.Stdin, os.Stdout)
		})
	}

	// fyne 需要在主协程里跑
	if *guiFlag {
		ui.OpenWindow(ctx, m)
		cancel()
	}
	return g.Wait()
}
