package machine

import (
	"context"
	"time"
)

// driverTick is how often the driver wakes up. At low frequencies most
// ticks owe no clock at all.
const driverTick = 10 * time.Millisecond

// maxCatchUp bounds how much wall time one wake-up may make up for, so a
// stalled process does not burst through seconds of cycles.
const maxCatchUp = 250 * time.Millisecond

// Run drives the CPU until ctx is done. Each wake-up converts the elapsed time
// into owed clocks at the current frequency; the fractional part carries over
// to the next wake-up. Paused and single-stepping machines owe nothing.
func (m *Machine) Run(ctx context.Context) error {
	ticker := time.NewTicker(driverTick)
	defer ticker.Stop()

	Logger("driver: started")
	last := time.Now()
	var owed float64
	for {
		select {
		case <-ctx.Done():
			Logger("driver: stopped")
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			owed = m.runStep(elapsed, owed)
		}
	}
}

// runStep clocks the CPU for elapsed wall time plus the carried remainder and
// returns the new remainder.
func (m *Machine) runStep(elapsed time.Duration, owed float64) float64 {
	if elapsed > maxCatchUp {
		elapsed = maxCatchUp
	}
	m.mu.Lock()
	mode, hz := m.mode, m.hz
	m.mu.Unlock()
	if mode != Running {
		return 0
	}

	owed += elapsed.Seconds() * hz
	n := int(owed)
	for i := 0; i < n; i++ {
		// mode may change under us; stop as soon as it does
		if m.Mode() != Running {
			return 0
		}
		m.Clock()
	}
	if n > 0 {
		Trace("driver: %d clocks", n)
	}
	return owed - float64(n)
}
