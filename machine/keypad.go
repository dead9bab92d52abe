package machine

/*
bit:	7	6	5	4	3	2	1	0
button:	A	B	Select	Start	Up	Down	Left	Right
*/

/*
	键盘挂在 $4016
	写 $4016 是选通 (strobe)，bit0 为 1 时一直重置到第一个按键
	读 $4016 每次返回一个按键的状态，按 A B Select Start Up Down Left Right 的顺序
	8 个都读完以后返回 0
*/

const KeypadAddr = 0x4016

const (
	ButtonA = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

type Keypad struct {
	buttons [8]bool
	index   byte
	strobe  byte
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

func (k *Keypad) Window() (uint16, uint16) {
	return KeypadAddr, KeypadAddr
}

func (k *Keypad) SetButtons(buttons [8]bool) {
	k.buttons = buttons
}

func (k *Keypad) Read(addr uint16) byte {
	value := byte(0)
	if k.index < 8 && k.buttons[k.index] {
		value = 1
	}
	k.index++
	if k.strobe&1 == 1 {
		k.index = 0
	}
	return value
}

func (k *Keypad) Write(addr uint16, value byte) {
	k.strobe = value
	if k.strobe&1 == 1 {
		k.index = 0
	}
}
