package bitbang

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio"
)

var sysfsRoot = "/sys/class/gpio"

// SysfsLine is a GPIO line driven through the legacy sysfs interface, for
// kernels without the character device. The value file stays open so each
// edge costs one write.
type SysfsLine struct {
	number int
	mu     sync.Mutex
	value  *os.File
}

// OpenSysfs exports number and configures it as "out" or "in".
func OpenSysfs(number int, direction string) (*SysfsLine, error) {
	if err := writeSysfs(sysfsRoot+"/export", strconv.Itoa(number)); err != nil {
		// An already exported pin reports EBUSY.
		if !errors.Is(err, syscall.EBUSY) {
			return nil, fmt.Errorf("failed to export pin %d: %w", number, err)
		}
	}

	// udev needs a moment to create the pin directory
	time.Sleep(100 * time.Millisecond)

	dir := fmt.Sprintf("%s/gpio%d", sysfsRoot, number)
	if err := writeSysfs(dir+"/direction", direction); err != nil {
		unexport(number)
		return nil, fmt.Errorf("failed to set pin %d direction: %w", number, err)
	}

	f, err := os.OpenFile(dir+"/value", os.O_RDWR, 0644)
	if err != nil {
		unexport(number)
		return nil, fmt.Errorf("failed to open pin %d value: %w", number, err)
	}
	return &SysfsLine{number: number, value: f}, nil
}

// Out writes the level to the value file.
func (p *SysfsLine) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := "0"
	if l {
		v = "1"
	}
	if _, err := p.value.WriteAt([]byte(v), 0); err != nil {
		return fmt.Errorf("failed to write pin %d: %w", p.number, err)
	}
	return nil
}

// Read samples the value file. Errors read as low.
func (p *SysfsLine) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()

	var buf [1]byte
	if _, err := p.value.ReadAt(buf[:], 0); err != nil && err != io.EOF {
		return gpio.Low
	}
	return buf[0] == '1'
}

// Close closes the value file and unexports the pin.
func (p *SysfsLine) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.value.Close()
	unexport(p.number)
	return err
}

// unexport releases number. Failures are ignored: the pin may already be
// released.
func unexport(number int) {
	_ = writeSysfs(sysfsRoot+"/unexport", strconv.Itoa(number))
}

func writeSysfs(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(value)
	return err
}
