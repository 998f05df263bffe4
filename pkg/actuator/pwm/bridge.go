//go:build !tinygo

package pwm

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/gwillem/spider/pkg/bridge"
)

// BridgeDriver forwards channel commands to a microcontroller running the
// spider firmware in bridge mode.
type BridgeDriver struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewBridgeDriver wraps an already opened connection.
func NewBridgeDriver(w io.WriteCloser) *BridgeDriver {
	return &BridgeDriver{w: w}
}

// OpenBridge opens the serial port of the bridge.
func OpenBridge(port string, baud int) (*BridgeDriver, error) {
	sp, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open bridge %s: %w", port, err)
	}
	log.Infof("bridge connected on %s at %d baud", port, baud)
	return NewBridgeDriver(sp), nil
}

func (d *BridgeDriver) Configure(channel, hz int) error {
	return d.send(bridge.SetFreq(channel, hz))
}

func (d *BridgeDriver) SetDuty(channel int, duty uint16) error {
	return d.send(bridge.SetDuty(channel, duty))
}

func (d *BridgeDriver) send(c bridge.Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := bridge.Encode(d.w, c); err != nil {
		return fmt.Errorf("bridge %s: %w", c.Kind, err)
	}
	return nil
}

// Close closes the connection.
func (d *BridgeDriver) Close() error {
	return d.w.Close()
}
