package machine

/*
外设挂在一段地址上，读写通过总线的 hook 转给外设
hook 在 Machine 的锁内执行
*/

// Device is a memory-mapped peripheral occupying [Start, End].
type Device interface {
	Window() (start, end uint16)
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// AttachDevice routes reads and writes in the device window to d. Hooks are
// first-match, so a device attached later cannot shadow an earlier one.
func (m *Machine) AttachDevice(d Device) {
	start, end := d.Window()
	m.RegisterReadHook(start, end, d.Read)
	m.RegisterWriteHook(start, end, d.Write)
}

const (
	DemoDeviceStart = 0x6000
	DemoDeviceEnd   = 0x6002
)

// DemoDevice is three bytes of device registers at $6000-$6002.
type DemoDevice struct {
	data [3]byte
}

func NewDemoDevice() *DemoDevice {
	return &DemoDevice{}
}

func (d *DemoDevice) Window() (uint16, uint16) {
	return DemoDeviceStart, DemoDeviceEnd
}

func (d *DemoDevice) Read(addr uint16) byte {
	return d.data[addr-DemoDeviceStart]
}

func (d *DemoDevice) Write(addr uint16, value byte) {
	d.data[addr-DemoDeviceStart] = value
}
