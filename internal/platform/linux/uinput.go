//go:build linux

package linux

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	uinputBusTypeUSB = 0x03
	uinputVendorID   = 0x1234
	uinputProductID  = 0x5678
	uinputDeviceName = "activity-sim-input"

	// new devices need a moment before the compositor routes their events
	deviceSettle = 200 * time.Millisecond

	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	relX     = 0x00
	relY     = 0x01
	relWheel = 0x08

	uiSetEvbit   = 0x40045564 // _IOW('U', 100, int)
	uiSetKeybit  = 0x40045565 // _IOW('U', 101, int)
	uiSetRelbit  = 0x40045566 // _IOW('U', 102, int)
	uiDevCreate  = 0x5501     // _IO('U', 1)
	uiDevDestroy = 0x5502     // _IO('U', 2)
)

// ErrNoAbsolute is returned for calls that need the absolute pointer
// position, which a uinput device cannot read.
var ErrNoAbsolute = errors.New("uinput: absolute pointer position unavailable")

type uinputUserDev struct {
	name [80]byte
	id   struct {
		bustype uint16
		vendor  uint16
		product uint16
		version uint16
	}
	ffEffectsMax uint32
	absmax       [64]int32
	absmin       [64]int32
	absfuzz      [64]int32
	absflat      [64]int32
}

type inputEvent struct {
	time  unix.Timeval
	etype uint16
	code  uint16
	value int32
}

// Device is a virtual mouse plus keyboard created through /dev/uinput.
type Device struct {
	mu   sync.Mutex
	file *os.File
	fd   int
}

// OpenDevice creates the virtual device. The caller must Close it.
func OpenDevice() (*Device, error) {
	f, err := os.OpenFile(uinputDevicePath, os.O_WRONLY|unix.O_NONBLOCK, 0o660)
	if err != nil {
		return nil, fmt.Errorf("open uinput device: %w", err)
	}
	d := &Device{file: f, fd: int(f.Fd())}

	if err := d.enableEvents(); err != nil {
		d.Close()
		return nil, fmt.Errorf("enable uinput events: %w", err)
	}
	if err := d.create(); err != nil {
		d.Close()
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	time.Sleep(deviceSettle)
	return d, nil
}

func (d *Device) ioctl(req, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, arg); errno != 0 {
		return errno
	}
	return nil
}

func (d *Device) enableEvents() error {
	for _, ev := range []uintptr{evKey, evRel} {
		if err := d.ioctl(uiSetEvbit, ev); err != nil {
			return err
		}
	}
	for _, rel := range []uintptr{relX, relY, relWheel} {
		if err := d.ioctl(uiSetRelbit, rel); err != nil {
			return err
		}
	}
	for _, key := range supportedKeys() {
		if err := d.ioctl(uiSetKeybit, uintptr(key)); err != nil {
			return fmt.Errorf("key %d: %w", key, err)
		}
	}
	return nil
}

func (d *Device) create() error {
	var dev uinputUserDev
	copy(dev.name[:], uinputDeviceName)
	dev.id.bustype = uinputBusTypeUSB
	dev.id.vendor = uinputVendorID
	dev.id.product = uinputProductID

	buf := unsafe.Slice((*byte)(unsafe.Pointer(&dev)), unsafe.Sizeof(dev))
	if _, err := unix.Write(d.fd, buf); err != nil {
		return err
	}
	return d.ioctl(uiDevCreate, 0)
}

// emit writes events followed by a sync report.
func (d *Device) emit(events ...inputEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return errors.New("uinput: device closed")
	}

	events = append(events, inputEvent{etype: evSyn})
	for i := range events {
		ev := &events[i]
		buf := unsafe.Slice((*byte)(unsafe.Pointer(ev)), unsafe.Sizeof(*ev))
		if _, err := unix.Write(d.fd, buf); err != nil {
			return fmt.Errorf("uinput write: %w", err)
		}
	}
	return nil
}

func (d *Device) key(code uint16, down bool) error {
	v := int32(0)
	if down {
		v = 1
	}
	return d.emit(inputEvent{etype: evKey, code: code, value: v})
}

func (d *Device) Name() string { return "uinput" }

func (d *Device) ScreenSize() (int, int, error) { return 0, 0, ErrNoAbsolute }

func (d *Device) Position() (int, int, error) { return 0, 0, ErrNoAbsolute }

func (d *Device) MoveTo(x, y int) error { return ErrNoAbsolute }

func (d *Device) MoveRelative(dx, dy int) error {
	return d.emit(
		inputEvent{etype: evRel, code: relX, value: int32(dx)},
		inputEvent{etype: evRel, code: relY, value: int32(dy)},
	)
}

func (d *Device) Click(button string) error {
	code, err := ButtonCode(button)
	if err != nil {
		return err
	}
	if err := d.key(code, true); err != nil {
		return err
	}
	return d.key(code, false)
}

// Scroll moves the wheel; positive amounts scroll down.
func (d *Device) Scroll(amount int) error {
	if amount == 0 {
		return nil
	}
	// evdev wheel values are positive for up
	return d.emit(inputEvent{etype: evRel, code: relWheel, value: int32(-amount)})
}

// KeyTap presses key with mods held, then releases in reverse order.
func (d *Device) KeyTap(key string, mods ...string) error {
	code, err := KeyCode(key)
	if err != nil {
		return err
	}
	held := make([]uint16, 0, len(mods))
	for _, m := range mods {
		mc, err := KeyCode(m)
		if err != nil {
			return err
		}
		held = append(held, mc)
	}
	return d.chord(code, held)
}

func (d *Device) chord(code uint16, held []uint16) error {
	for _, m := range held {
		if err := d.key(m, true); err != nil {
			return err
		}
	}
	tapErr := d.key(code, true)
	if tapErr == nil {
		tapErr = d.key(code, false)
	}
	// modifiers are released even when the tap failed
	for i := len(held) - 1; i >= 0; i-- {
		if err := d.key(held[i], false); err != nil && tapErr == nil {
			tapErr = err
		}
	}
	return tapErr
}

func (d *Device) TypeRune(r rune) error {
	code, shift, err := RuneCode(r)
	if err != nil {
		return err
	}
	var held []uint16
	if shift {
		held = []uint16{keyLeftShift}
	}
	return d.chord(code, held)
}

// Close destroys the virtual device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	_ = d.ioctl(uiDevDestroy, 0)
	err := d.file.Close()
	d.file = nil
	return err
}
